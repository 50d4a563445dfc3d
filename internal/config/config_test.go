package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-equity/internal/store"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
log_level: debug
store:
  backend: duckdb
  path: ./data/argo.duckdb
collector:
  market_symbol: SPY
  symbols: [AAPL, MSFT]
metrics:
  enabled: true
  addr: ":9191"
strategies:
  - name: capm_value
    kind: capm_value
    allocated_capital: 100000
    params:
      min_market_cap: 1000000000
      excluded_sectors: [Utilities]
  - name: example
    kind: example_value
    allocated_capital: 5000
    enabled: false
`

func TestParseSampleConfig(t *testing.T) {
	config, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, store.BackendDuckDB, config.Store.Backend)
	assert.Equal(t, "./data/argo.duckdb", config.Store.Path)
	assert.Equal(t, []string{"AAPL", "MSFT"}, config.Collector.Symbols)
	assert.Equal(t, 300, config.Collector.LookbackDays)
	assert.True(t, config.Metrics.Enabled)
	assert.Equal(t, ":9191", config.Metrics.Addr)

	require.Len(t, config.Strategies, 2)
	capm := config.Strategies[0]
	assert.True(t, capm.IsEnabled())
	assert.Equal(t, 1000000000, capm.Params["min_market_cap"])
	assert.Equal(t, []any{"Utilities"}, capm.Params["excluded_sectors"])

	settings := capm.Settings()
	assert.Equal(t, "capm_value", settings.Name)
	assert.Equal(t, 100000.0, settings.AllocatedCapital)

	assert.False(t, config.Strategies[1].IsEnabled())
	enabled := config.EnabledStrategies()
	require.Len(t, enabled, 1)
	assert.Equal(t, "capm_value", enabled[0].Name)
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	config, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), config)
	assert.Equal(t, "SPY", config.Collector.MarketSymbol)
	assert.Empty(t, config.Strategies)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{
			name: "unknown key",
			yaml: "stores: {}\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "missing kind",
			yaml: "strategies:\n  - name: a\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "negative capital",
			yaml: "strategies:\n  - {name: a, kind: capm_value, allocated_capital: -1}\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "duplicate names",
			yaml: "strategies:\n  - {name: a, kind: capm_value}\n  - {name: a, kind: example_value}\n",
			code: errors.ErrCodeDuplicateStrategyName,
		},
		{
			name: "postgres without dsn",
			yaml: "store: {backend: postgres}\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "unknown backend",
			yaml: "store: {backend: sqlite}\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "bad log level",
			yaml: "log_level: loud\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "metrics without address",
			yaml: "metrics: {enabled: true, addr: \"\"}\n",
			code: errors.ErrCodeInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, config.Strategies, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestSchema(t *testing.T) {
	schema, err := Schema()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(schema), &decoded))

	properties, ok := decoded["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, properties, "store")
	assert.Contains(t, properties, "strategies")
	assert.Contains(t, properties, "metrics")
}
