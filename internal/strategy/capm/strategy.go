package capm

import (
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/history"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/metrics"
	"github.com/rxtech-lab/argo-equity/internal/pipeline"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"go.uber.org/zap"
)

// Kind is the configuration name of the CAPM value strategy.
const Kind = "capm_value"

// Strategy allocates capital to stocks whose realized return beats their CAPM expectation.
//
// Per symbol it moves from no data, to partial data, to eligible once it holds a fundamentals
// snapshot, a current price and at least MinPipelineHistory points of both price and market
// history. Every event for an eligible symbol runs the full pipeline:
//
//	universe_screen -> beta_calculator -> capm_valuation -> capm_decision
type Strategy struct {
	name             string
	allocatedCapital float64
	config           Config
	pipeline         *pipeline.Pipeline
	log              *logger.Logger
	metrics          *metrics.Metrics

	mu            sync.Mutex
	positions     map[string]types.Position
	fundamentals  map[string]types.FundamentalData
	prices        map[string]float64
	priceHistory  map[string]*history.Bounded
	marketHistory *history.Bounded
	lastAnalysis  map[string]types.AnalysisSummary
}

// New creates a CAPM strategy with an already validated config.
func New(settings strategy.Settings, config Config, deps strategy.Dependencies) *Strategy {
	name := settings.Name
	if name == "" {
		name = Kind
	}

	log := deps.Logger.Named(name)

	s := &Strategy{
		name:             name,
		allocatedCapital: settings.AllocatedCapital,
		config:           config,
		pipeline: pipeline.NewPipeline(
			NewUniverseScreen(config.MinMarketCap, config.MinHistoryDays, config.ExcludedSectors, log),
			NewBetaCalculator(config.BetaLookbackDays, config.MinBeta, config.MaxBeta, log),
			NewCAPMValuation(config.RiskFreeRate, config.ExpectedMarketReturn, config.UseHistoricalMarketReturn, log),
			NewCAPMDecision(config.BuyAlphaThreshold, config.ExitAlphaThreshold, config.MinSharpeForBuy, config.MaxPositionWeight, config.ConfidenceScaling, log),
		),
		log:     log,
		metrics: deps.Metrics,
	}
	s.reset()

	log.Info("Strategy initialized",
		zap.Float64("allocated_capital", s.allocatedCapital),
		zap.String("market_symbol", config.MarketSymbol),
		zap.Int("price_history_days", config.PriceHistoryDays),
	)

	return s
}

// Factory builds the strategy from configuration params.
func Factory(settings strategy.Settings, deps strategy.Dependencies) (strategy.Strategy, error) {
	config, err := ParseConfig(settings.Params)
	if err != nil {
		return nil, err
	}

	return New(settings, config, deps), nil
}

// Register adds the strategy to a registry under Kind.
func Register(registry *strategy.Registry) error {
	return registry.Register(Kind, Factory)
}

func (s *Strategy) Name() string {
	return s.name
}

func (s *Strategy) Subscriptions() []types.EventType {
	return []types.EventType{types.EventTypeFundamentalData, types.EventTypePriceBar, types.EventTypeMarketBar}
}

func (s *Strategy) AllocatedCapital() float64 {
	return s.allocatedCapital
}

// MarketSymbol is the benchmark whose market_bar events feed the market history.
func (s *Strategy) MarketSymbol() string {
	return s.config.MarketSymbol
}

// Config returns the thresholds in use.
func (s *Strategy) Config() Config {
	return s.config
}

// OnEvent updates state from the event and, when the symbol is eligible, runs the pipeline.
// At most one decision is returned.
func (s *Strategy) OnEvent(event types.Event) []types.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The benchmark feeds shared market history whatever symbol it carries.
	if event.Type == types.EventTypeMarketBar {
		s.handleMarketBar(event)

		return nil
	}

	if event.Symbol.IsNone() {
		return nil
	}

	symbol := event.Symbol.Unwrap()

	switch event.Type {
	case types.EventTypePriceBar:
		s.handlePriceBar(symbol, event)
	case types.EventTypeFundamentalData:
		s.fundamentals[symbol] = types.FundamentalFromEvent(event)
	}

	if !s.eligible(symbol) {
		s.log.Debug("Insufficient data for pipeline",
			zap.String("symbol", symbol),
			zap.Bool("has_fundamental", s.hasFundamental(symbol)),
			zap.Bool("has_price", s.hasPrice(symbol)),
			zap.Int("price_history_len", s.priceHistoryLen(symbol)),
			zap.Int("market_history_len", s.marketHistory.Len()),
		)

		return nil
	}

	passed, data, reasoning := s.pipeline.Run(symbol, s.analysisInput(symbol))

	s.lastAnalysis[symbol] = types.AnalysisSummary{
		Passed:         passed,
		Timestamp:      analysisTime(event),
		Beta:           pipeline.Ptr(data.Beta),
		Alpha:          pipeline.Ptr(data.Alpha),
		ExpectedReturn: pipeline.Ptr(data.ExpectedReturn),
		SharpeRatio:    pipeline.Ptr(data.SharpeRatio),
	}
	s.metrics.PipelineRan(s.name, passed)

	s.log.Info("Pipeline result", zap.String("symbol", symbol), zap.Bool("passed", passed))
	s.log.Debug("Pipeline reasoning", zap.String("symbol", symbol), zap.String("reasoning", reasoning))

	if !passed {
		return nil
	}

	decision := types.Decision{
		Symbol:       symbol,
		Action:       data.Action.TakeOr(types.ActionHold),
		TargetWeight: pipeline.FloatOr(data.TargetWeight, 0),
		Confidence:   pipeline.FloatOr(data.Confidence, 1.0),
		Reasoning:    reasoning,
	}
	s.metrics.DecisionEmitted(s.name, decision.Action)

	s.log.Info("Decision",
		zap.String("symbol", symbol),
		zap.String("action", string(decision.Action)),
		zap.Float64("target_weight", decision.TargetWeight),
		zap.Float64("confidence", decision.Confidence),
	)

	return []types.Decision{decision}
}

// Analysis returns the last pipeline summary for symbol, kept for failed runs too.
func (s *Strategy) Analysis(symbol string) (types.AnalysisSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.lastAnalysis[symbol]

	return summary, ok
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

func (s *Strategy) handleMarketBar(event types.Event) {
	closePrice, ok := event.Float("close")
	if !ok || closePrice <= 0 {
		return
	}

	s.marketHistory.Append(closePrice)
	s.log.Debug("Market history updated", zap.Float64("close", closePrice), zap.Int("len", s.marketHistory.Len()))
}

func (s *Strategy) handlePriceBar(symbol string, event types.Event) {
	closePrice, ok := event.Float("close")
	if !ok || closePrice <= 0 {
		return
	}

	s.prices[symbol] = closePrice

	h, exists := s.priceHistory[symbol]
	if !exists {
		h = history.New(s.config.PriceHistoryDays)
		s.priceHistory[symbol] = h
	}

	h.Append(closePrice)

	if position, held := s.positions[symbol]; held {
		position.CurrentPrice = closePrice
		s.positions[symbol] = position
	}
}

func (s *Strategy) eligible(symbol string) bool {
	return s.hasFundamental(symbol) &&
		s.hasPrice(symbol) &&
		s.priceHistoryLen(symbol) >= s.config.MinPipelineHistory &&
		s.marketHistory.Len() >= s.config.MinPipelineHistory
}

func (s *Strategy) hasFundamental(symbol string) bool {
	_, ok := s.fundamentals[symbol]

	return ok
}

func (s *Strategy) hasPrice(symbol string) bool {
	_, ok := s.prices[symbol]

	return ok
}

func (s *Strategy) priceHistoryLen(symbol string) int {
	if h, ok := s.priceHistory[symbol]; ok {
		return h.Len()
	}

	return 0
}

func (s *Strategy) analysisInput(symbol string) pipeline.AnalysisData {
	return pipeline.AnalysisData{
		Fundamental:   optional.Some(s.fundamentals[symbol]),
		Price:         optional.Some(s.prices[symbol]),
		PriceHistory:  s.priceHistory[symbol].Values(),
		MarketHistory: s.marketHistory.Values(),
	}
}

// reset must be called with mu held or before the strategy is shared.
func (s *Strategy) reset() {
	s.positions = make(map[string]types.Position)
	s.fundamentals = make(map[string]types.FundamentalData)
	s.prices = make(map[string]float64)
	s.priceHistory = make(map[string]*history.Bounded)
	s.marketHistory = history.New(s.config.PriceHistoryDays)
	s.lastAnalysis = make(map[string]types.AnalysisSummary)
}

func analysisTime(event types.Event) time.Time {
	if event.Timestamp.IsZero() {
		return time.Now().UTC()
	}

	return event.Timestamp
}
