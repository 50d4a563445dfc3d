// Package orchestrator wires configured strategies to the event bus and the data store.
package orchestrator

import (
	"context"
	"sync"

	"github.com/rxtech-lab/argo-equity/internal/bus"
	"github.com/rxtech-lab/argo-equity/internal/config"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/metrics"
	"github.com/rxtech-lab/argo-equity/internal/store"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"go.uber.org/zap"
)

// DecisionSink receives every decision after it has been logged.
type DecisionSink interface {
	OnDecision(strategyName string, decision types.Decision)
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics hands m to every strategy.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithDecisionSink forwards decisions to sink.
func WithDecisionSink(sink DecisionSink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithEventRecording writes every published event to the store.
func WithEventRecording() Option {
	return func(o *Orchestrator) {
		o.recordEvents = true
	}
}

// Orchestrator owns the strategy instances for one process.
type Orchestrator struct {
	config       config.Config
	registry     *strategy.Registry
	store        store.DataStore
	bus          *bus.EventBus
	logger       *logger.Logger
	metrics      *metrics.Metrics
	sink         DecisionSink
	recordEvents bool

	mu            sync.RWMutex
	strategies    []strategy.Strategy
	subscriptions []bus.SubscriptionID
}

func New(cfg config.Config, registry *strategy.Registry, dataStore store.DataStore, eventBus *bus.EventBus, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		config:   cfg,
		registry: registry,
		store:    dataStore,
		bus:      eventBus,
		logger:   log.Named("orchestrator"),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Start builds every enabled strategy, restores its saved state and subscribes it to the bus.
// Nothing is subscribed when any strategy fails to load.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.strategies != nil {
		return errors.New(errors.ErrCodeInvalidParameter, "orchestrator already started")
	}

	loaded := make([]strategy.Strategy, 0, len(o.config.Strategies))
	names := make(map[string]struct{})

	for _, sc := range o.config.EnabledStrategies() {
		if _, dup := names[sc.Name]; dup {
			return errors.Newf(errors.ErrCodeDuplicateStrategyName, "duplicate strategy name %q", sc.Name)
		}

		names[sc.Name] = struct{}{}

		s, err := o.registry.Create(sc.Kind, sc.Settings(), strategy.Dependencies{Logger: o.logger, Metrics: o.metrics})
		if err != nil {
			o.logger.Error("Failed to load strategy", zap.String("strategy", sc.Name), zap.Error(err))

			return err
		}

		if err := o.checkBenchmark(s); err != nil {
			return err
		}

		if err := o.restore(ctx, s); err != nil {
			return err
		}

		loaded = append(loaded, s)
		o.logger.Info("Loaded strategy", zap.String("strategy", s.Name()), zap.String("kind", sc.Kind))
	}

	o.strategies = loaded

	for _, s := range loaded {
		id := o.bus.Subscribe(s.Subscriptions(), o.handler(ctx, s))
		o.subscriptions = append(o.subscriptions, id)

		o.logger.Debug("Subscribed strategy", zap.String("strategy", s.Name()), zap.Any("events", s.Subscriptions()))
	}

	if o.recordEvents {
		o.subscriptions = append(o.subscriptions, o.bus.Subscribe([]types.EventType{types.EventTypeWildcard}, o.recorder(ctx)))
	}

	o.logger.Info("Orchestrator started", zap.Int("strategies", len(loaded)))

	return nil
}

// Stop unsubscribes every handler and saves the state of every strategy. Saving continues past
// a failed strategy and the first error is returned. A stopped orchestrator can be started again.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, id := range o.subscriptions {
		o.bus.Unsubscribe(id)
	}

	o.subscriptions = nil

	var firstErr error

	for _, s := range o.strategies {
		if err := o.store.SaveStrategyState(ctx, s.Name(), s.GetState()); err != nil {
			o.logger.Error("Failed to save strategy state", zap.String("strategy", s.Name()), zap.Error(err))

			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		o.logger.Info("Saved strategy state", zap.String("strategy", s.Name()))
	}

	o.strategies = nil

	o.logger.Info("Orchestrator stopped")

	return firstErr
}

// Strategy looks up a running strategy by name.
func (o *Orchestrator) Strategy(name string) (strategy.Strategy, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, s := range o.strategies {
		if s.Name() == name {
			return s, true
		}
	}

	return nil, false
}

// Strategies returns the running strategies in config order.
func (o *Orchestrator) Strategies() []strategy.Strategy {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]strategy.Strategy, len(o.strategies))
	copy(out, o.strategies)

	return out
}

// Analysis returns the last analysis of symbol by the named strategy when it keeps one.
func (o *Orchestrator) Analysis(strategyName, symbol string) (types.AnalysisSummary, bool) {
	s, ok := o.Strategy(strategyName)
	if !ok {
		return types.AnalysisSummary{}, false
	}

	analyzer, ok := s.(strategy.Analyzer)
	if !ok {
		return types.AnalysisSummary{}, false
	}

	return analyzer.Analysis(symbol)
}

// checkBenchmark rejects a strategy expecting a benchmark other than the one the collectors publish.
func (o *Orchestrator) checkBenchmark(s strategy.Strategy) error {
	b, ok := s.(strategy.Benchmarked)
	if !ok {
		return nil
	}

	published := o.config.Collector.WithDefaults().MarketSymbol
	if b.MarketSymbol() != published {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"strategy %s expects benchmark %s but collectors publish %s as market_bar", s.Name(), b.MarketSymbol(), published)
	}

	return nil
}

func (o *Orchestrator) restore(ctx context.Context, s strategy.Strategy) error {
	state, err := o.store.LoadStrategyState(ctx, s.Name())
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStoreUnavailable, err, "failed to load state of %s", s.Name())
	}

	if len(state) == 0 {
		return nil
	}

	if err := s.LoadState(state); err != nil {
		return errors.Wrapf(errors.ErrCodeStateDecodeFailed, err, "failed to restore state of %s", s.Name())
	}

	o.logger.Info("Restored strategy state", zap.String("strategy", s.Name()))

	return nil
}

func (o *Orchestrator) handler(ctx context.Context, s strategy.Strategy) bus.Handler {
	return func(event types.Event) error {
		for _, decision := range s.OnEvent(event) {
			if err := o.store.LogDecision(ctx, s.Name(), decision, s.AllocatedCapital()); err != nil {
				return errors.Wrapf(errors.ErrCodeHandlerFailed, err, "failed to log decision of %s", s.Name())
			}

			o.logger.Info("Strategy decision",
				zap.String("strategy", s.Name()),
				zap.String("action", string(decision.Action)),
				zap.String("symbol", decision.Symbol),
				zap.String("weight", strategy.Percent(decision.TargetWeight)),
				zap.Float64("confidence", decision.Confidence),
			)

			if o.sink != nil {
				o.sink.OnDecision(s.Name(), decision)
			}
		}

		return nil
	}
}

func (o *Orchestrator) recorder(ctx context.Context) bus.Handler {
	return func(event types.Event) error {
		return o.store.WriteEvent(ctx, event)
	}
}
