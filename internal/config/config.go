// Package config loads the YAML application config.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-equity/internal/collector"
	"github.com/rxtech-lab/argo-equity/internal/store"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration file.
type Config struct {
	LogLevel   string           `yaml:"log_level" json:"log_level,omitempty" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"omitempty,oneof=debug info warn error"`
	Store      store.Config     `yaml:"store" json:"store" jsonschema:"title=Store"`
	Collector  collector.Config `yaml:"collector" json:"collector" jsonschema:"title=Collector"`
	Metrics    MetricsConfig    `yaml:"metrics" json:"metrics" jsonschema:"title=Metrics"`
	Strategies []StrategyConfig `yaml:"strategies" json:"strategies" jsonschema:"title=Strategies" validate:"dive"`
}

// MetricsConfig controls the ops HTTP server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled"`
	Addr    string `yaml:"addr" json:"addr,omitempty" jsonschema:"title=Listen Address,default=:9090" validate:"required_if=Enabled true"`
}

// StrategyConfig is one strategy instance.
type StrategyConfig struct {
	Name             string         `yaml:"name" json:"name" jsonschema:"title=Name,description=Unique instance name,required" validate:"required"`
	Kind             string         `yaml:"kind" json:"kind" jsonschema:"title=Kind,description=Registered strategy kind such as capm_value,required" validate:"required"`
	AllocatedCapital float64        `yaml:"allocated_capital" json:"allocated_capital" jsonschema:"title=Allocated Capital" validate:"gte=0"`
	Enabled          *bool          `yaml:"enabled" json:"enabled,omitempty" jsonschema:"title=Enabled,default=true"`
	Params           map[string]any `yaml:"params" json:"params,omitempty" jsonschema:"title=Params,description=Strategy specific parameters"`
}

// IsEnabled reports whether the strategy runs. Unset means enabled.
func (s StrategyConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Settings converts the entry into the constructor input of a strategy.
func (s StrategyConfig) Settings() strategy.Settings {
	return strategy.Settings{
		Name:             s.Name,
		AllocatedCapital: s.AllocatedCapital,
		Params:           s.Params,
	}
}

// Default returns a config with an in-memory DuckDB store and no strategies.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Store:     store.Config{Backend: store.BackendDuckDB},
		Collector: collector.Config{}.WithDefaults(),
		Metrics:   MetricsConfig{Addr: ":9090"},
	}
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(raw)
}

// Parse decodes YAML over Default and validates the result. Unknown keys are rejected.
func Parse(raw []byte) (Config, error) {
	config := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	config.Collector = config.Collector.WithDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks struct tags and that strategy names are unique.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	seen := make(map[string]struct{}, len(c.Strategies))
	for _, s := range c.Strategies {
		if _, ok := seen[s.Name]; ok {
			return errors.Newf(errors.ErrCodeDuplicateStrategyName, "duplicate strategy name %q", s.Name)
		}

		seen[s.Name] = struct{}{}
	}

	return nil
}

// EnabledStrategies returns the strategies that should run, in file order.
func (c Config) EnabledStrategies() []StrategyConfig {
	var enabled []StrategyConfig

	for _, s := range c.Strategies {
		if s.IsEnabled() {
			enabled = append(enabled, s)
		}
	}

	return enabled
}
