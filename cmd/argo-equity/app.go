package main

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-equity/internal/bus"
	"github.com/rxtech-lab/argo-equity/internal/config"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/metrics"
	"github.com/rxtech-lab/argo-equity/internal/orchestrator"
	"github.com/rxtech-lab/argo-equity/internal/store"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/internal/strategy/capm"
	"github.com/rxtech-lab/argo-equity/internal/strategy/example"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"go.uber.org/zap"
)

// app holds the components shared by the run and collect commands.
type app struct {
	config       config.Config
	logger       *logger.Logger
	store        store.DataStore
	bus          *bus.EventBus
	orchestrator *orchestrator.Orchestrator
	server       *metrics.Server
	tally        *decisionTally
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

func newRegistry() (*strategy.Registry, error) {
	registry := strategy.NewRegistry()

	if err := capm.Register(registry); err != nil {
		return nil, err
	}

	if err := example.Register(registry); err != nil {
		return nil, err
	}

	return registry, nil
}

func newApp(configPath string, recordEvents bool) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}

	promRegistry := prometheus.NewRegistry()

	m, err := metrics.NewMetrics(promRegistry)
	if err != nil {
		return nil, err
	}

	dataStore, err := store.New(cfg.Store, log)
	if err != nil {
		return nil, err
	}

	tally := &decisionTally{counts: make(map[string]map[types.Action]int)}
	eventBus := bus.NewEventBus(log, m)

	opts := []orchestrator.Option{orchestrator.WithMetrics(m), orchestrator.WithDecisionSink(tally)}
	if recordEvents {
		opts = append(opts, orchestrator.WithEventRecording())
	}

	a := &app{
		config:       cfg,
		logger:       log,
		store:        dataStore,
		bus:          eventBus,
		orchestrator: orchestrator.New(cfg, registry, dataStore, eventBus, log, opts...),
		tally:        tally,
	}

	if cfg.Metrics.Enabled {
		a.server = metrics.Serve(cfg.Metrics.Addr, promRegistry, a.orchestrator, log)
		log.Info("Ops server listening", zap.String("addr", cfg.Metrics.Addr))
	}

	return a, nil
}

// close stops the orchestrator, saving state, then releases everything else.
func (a *app) close(ctx context.Context) error {
	stopErr := a.orchestrator.Stop(ctx)

	if a.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Ops server shutdown failed", zap.Error(err))
		}
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warn("Store close failed", zap.Error(err))
	}

	_ = a.logger.Sync()

	return stopErr
}

// decisionTally counts decisions per strategy and action for the run summary.
type decisionTally struct {
	mu     sync.Mutex
	counts map[string]map[types.Action]int
}

func (t *decisionTally) OnDecision(strategyName string, decision types.Decision) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.counts[strategyName] == nil {
		t.counts[strategyName] = make(map[types.Action]int)
	}

	t.counts[strategyName][decision.Action]++
}

func (t *decisionTally) snapshot() map[string]map[types.Action]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]map[types.Action]int, len(t.counts))
	for name, actions := range t.counts {
		out[name] = make(map[types.Action]int, len(actions))
		for action, n := range actions {
			out[name][action] = n
		}
	}

	return out
}
