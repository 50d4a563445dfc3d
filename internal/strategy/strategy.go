package strategy

import (
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/metrics"
	"github.com/rxtech-lab/argo-equity/internal/types"
)

// Strategy is a stateful consumer of market events that turns them into decisions.
// OnEvent may be called from several publishing goroutines at once.
type Strategy interface {
	// Name is the configured instance name, unique per process
	Name() string
	// Subscriptions lists the event types the strategy consumes
	Subscriptions() []types.EventType
	// AllocatedCapital is the capital the strategy sizes its positions against
	AllocatedCapital() float64
	// OnEvent updates internal state and returns zero or more decisions
	OnEvent(event types.Event) []types.Decision
	// GetState returns a JSON-compatible snapshot of the internal state
	GetState() map[string]any
	// LoadState restores a snapshot produced by GetState. Nil or empty state resets to defaults.
	LoadState(state map[string]any) error
	// Positions returns a copy of the held positions
	Positions() map[string]types.Position
}

// Analyzer is implemented by strategies that keep a per-symbol analysis summary.
type Analyzer interface {
	Analysis(symbol string) (types.AnalysisSummary, bool)
}

// Benchmarked is implemented by strategies that expect market_bar events for a specific
// benchmark ticker.
type Benchmarked interface {
	MarketSymbol() string
}

// Settings are the per-instance values read from the configuration file.
type Settings struct {
	Name             string
	AllocatedCapital float64
	// Params holds the strategy specific parameters before decoding
	Params map[string]any
}

// Dependencies are the shared services handed to every strategy.
type Dependencies struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Factory builds a strategy instance from its settings.
type Factory func(settings Settings, deps Dependencies) (Strategy, error)
