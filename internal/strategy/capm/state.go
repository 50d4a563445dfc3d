package capm

import (
	"github.com/rxtech-lab/argo-equity/internal/history"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/internal/version"
	"go.uber.org/zap"
)

type persistedState struct {
	Prices        map[string]float64               `mapstructure:"prices"`
	PriceHistory  map[string][]float64             `mapstructure:"price_history"`
	MarketHistory []float64                        `mapstructure:"market_history"`
	Fundamentals  map[string]map[string]any        `mapstructure:"fundamentals"`
	LastAnalysis  map[string]types.AnalysisSummary `mapstructure:"last_analysis"`
	Positions     map[string]types.Position        `mapstructure:"positions"`
}

// GetState snapshots prices, histories, fundamentals, analysis summaries and positions
// as plain JSON-compatible values.
func (s *Strategy) GetState() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	prices := make(map[string]any, len(s.prices))
	for symbol, price := range s.prices {
		prices[symbol] = price
	}

	priceHistory := make(map[string]any, len(s.priceHistory))
	for symbol, h := range s.priceHistory {
		priceHistory[symbol] = strategy.EncodeFloatHistory(h.Values())
	}

	fundamentals := make(map[string]any, len(s.fundamentals))
	for symbol, fundamental := range s.fundamentals {
		fundamentals[symbol] = strategy.EncodeFundamental(fundamental)
	}

	lastAnalysis := make(map[string]any, len(s.lastAnalysis))
	for symbol, summary := range s.lastAnalysis {
		lastAnalysis[symbol] = strategy.EncodeAnalysis(summary)
	}

	return map[string]any{
		strategy.StateVersionKey: version.StateSchemaVersion,
		"prices":                 prices,
		"price_history":          priceHistory,
		"market_history":         strategy.EncodeFloatHistory(s.marketHistory.Values()),
		"fundamentals":           fundamentals,
		"last_analysis":          lastAnalysis,
		"positions":              strategy.EncodePositions(s.positions),
	}
}

// LoadState replaces the whole state with a snapshot from GetState. Histories are rebuilt with
// the configured capacity, keeping the newest points. A nil or empty state resets to defaults.
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

	s.reset()

	for symbol, price := range decoded.Prices {
		s.prices[symbol] = price
	}

	for symbol, values := range decoded.PriceHistory {
		s.priceHistory[symbol] = history.FromValues(s.config.PriceHistoryDays, values)
	}

	s.marketHistory = history.FromValues(s.config.PriceHistoryDays, decoded.MarketHistory)

	for symbol, raw := range decoded.Fundamentals {
		s.fundamentals[symbol] = strategy.DecodeFundamental(symbol, raw)
	}

	for symbol, summary := range decoded.LastAnalysis {
		s.lastAnalysis[symbol] = summary
	}

	for symbol, position := range decoded.Positions {
		if position.Symbol == "" {
			position.Symbol = symbol
		}

		s.positions[symbol] = position
	}

	s.log.Info("Restored state",
		zap.Int("prices", len(s.prices)),
		zap.Int("positions", len(s.positions)),
		zap.Int("fundamentals", len(s.fundamentals)),
		zap.Int("market_history", s.marketHistory.Len()),
	)

	return nil
}
