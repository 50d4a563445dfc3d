// Package example holds a minimal strategy that exercises the whole event to decision path.
// It screens on liquidity and always holds.
package example

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/metrics"
	"github.com/rxtech-lab/argo-equity/internal/pipeline"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/internal/version"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"go.uber.org/zap"
)

// Kind is the configuration name of the example strategy.
const Kind = "example_value"

// Config holds the example strategy parameters.
type Config struct {
	MinMarketCap float64 `yaml:"min_market_cap" json:"min_market_cap" jsonschema:"title=Minimum Market Cap,default=1000000000" validate:"gte=0"`
}

// Strategy is the example value strategy.
type Strategy struct {
	name             string
	allocatedCapital float64
	pipeline         *pipeline.Pipeline
	log              *logger.Logger
	metrics          *metrics.Metrics

	mu           sync.Mutex
	positions    map[string]types.Position
	fundamentals map[string]types.FundamentalData
	prices       map[string]float64
}

type persistedState struct {
	Prices    map[string]float64        `mapstructure:"prices"`
	Positions map[string]types.Position `mapstructure:"positions"`
}

// Factory builds the example strategy from configuration params.
func Factory(settings strategy.Settings, deps strategy.Dependencies) (strategy.Strategy, error) {
	config := Config{MinMarketCap: 1_000_000_000}
	if err := strategy.DecodeParams(settings.Params, &config); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid example config", err)
	}

	name := settings.Name
	if name == "" {
		name = Kind
	}

	return &Strategy{
		name:             name,
		allocatedCapital: settings.AllocatedCapital,
		pipeline:         pipeline.NewPipeline(&LiquidityScreen{minMarketCap: config.MinMarketCap}, &HoldDecision{}),
		log:              deps.Logger.Named(name),
		metrics:          deps.Metrics,
		positions:        make(map[string]types.Position),
		fundamentals:     make(map[string]types.FundamentalData),
		prices:           make(map[string]float64),
	}, nil
}

// Register adds the strategy to a registry under Kind.
func Register(registry *strategy.Registry) error {
	return registry.Register(Kind, Factory)
}

func (s *Strategy) Name() string {
	return s.name
}

func (s *Strategy) Subscriptions() []types.EventType {
	return []types.EventType{types.EventTypeFundamentalData, types.EventTypePriceBar}
}

func (s *Strategy) AllocatedCapital() float64 {
	return s.allocatedCapital
}

func (s *Strategy) OnEvent(event types.Event) []types.Decision {
	if event.Symbol.IsNone() {
		return nil
	}

	symbol := event.Symbol.Unwrap()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Type {
	case types.EventTypePriceBar:
		closePrice, _ := event.Float("close")
		s.prices[symbol] = closePrice
	case types.EventTypeFundamentalData:
		s.fundamentals[symbol] = types.FundamentalFromEvent(event)
	}

	fundamental, hasFundamental := s.fundamentals[symbol]
	price, hasPrice := s.prices[symbol]

	if !hasFundamental || !hasPrice {
		return nil
	}

	passed, data, reasoning := s.pipeline.Run(symbol, pipeline.AnalysisData{
		Fundamental: optional.Some(fundamental),
		Price:       optional.Some(price),
	})
	s.metrics.PipelineRan(s.name, passed)

	s.log.Debug("Pipeline result", zap.String("symbol", symbol), zap.Bool("passed", passed), zap.String("reasoning", reasoning))

	if !passed {
		return nil
	}

	decision := types.Decision{
		Symbol:       symbol,
		Action:       data.Action.TakeOr(types.ActionHold),
		TargetWeight: 0,
		Confidence:   1.0,
		Reasoning:    reasoning,
	}
	s.metrics.DecisionEmitted(s.name, decision.Action)

	return []types.Decision{decision}
}

func (s *Strategy) Positions() map[string]types.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]types.Position, len(s.positions))
	for symbol, position := range s.positions {
		out[symbol] = position
	}

	return out
}

// GetState persists prices and positions. Fundamentals are refetched on startup.
func (s *Strategy) GetState() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	prices := make(map[string]any, len(s.prices))
	for symbol, price := range s.prices {
		prices[symbol] = price
	}

	return map[string]any{
		strategy.StateVersionKey: version.StateSchemaVersion,
		"prices":                 prices,
		"positions":              strategy.EncodePositions(s.positions),
	}
}

func (s *Strategy) LoadState(state map[string]any) error {
	if err := strategy.CheckStateVersion(state); err != nil {
		return err
	}

	var decoded persistedState
	if err := strategy.DecodeState(state, &decoded); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices = make(map[string]float64, len(decoded.Prices))
	for symbol, price := range decoded.Prices {
		s.prices[symbol] = price
	}

	s.positions = make(map[string]types.Position, len(decoded.Positions))
	for symbol, position := range decoded.Positions {
		s.positions[symbol] = position
	}

	return nil
}
