package capm

import (
	"fmt"
	"slices"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/pipeline"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"go.uber.org/zap"
)

// UniverseScreen keeps liquid stocks with enough history outside the excluded sectors.
type UniverseScreen struct {
	minMarketCap    float64
	minHistoryDays  int
	excludedSectors []string
	log             *logger.Logger
}

// NewUniverseScreen creates the screening layer.
func NewUniverseScreen(minMarketCap float64, minHistoryDays int, excludedSectors []string, log *logger.Logger) *UniverseScreen {
	return &UniverseScreen{
		minMarketCap:    minMarketCap,
		minHistoryDays:  minHistoryDays,
		excludedSectors: slices.Clone(excludedSectors),
		log:             log.Named("universe_screen"),
	}
}

func (l *UniverseScreen) Name() string {
	return "universe_screen"
}

// Process checks market cap, then history length, then sector.
func (l *UniverseScreen) Process(symbol string, data pipeline.AnalysisData) pipeline.LayerResult {
	if data.Fundamental.IsNone() {
		return l.reject(symbol, data, "missing_fundamental", fmt.Sprintf("Missing fundamental data for %s", symbol))
	}

	if data.Price.IsNone() || data.Price.Unwrap() <= 0 {
		return l.reject(symbol, data, "missing_price", fmt.Sprintf("Missing or invalid price for %s: %s", symbol, describePrice(data.Price)))
	}

	fundamental := data.Fundamental.Unwrap()
	price := data.Price.Unwrap()

	if fundamental.SharesOutstanding.IsNone() {
		return l.reject(symbol, data, "missing_shares_outstanding", fmt.Sprintf("Missing shares outstanding for %s", symbol))
	}

	marketCap := price * fundamental.SharesOutstanding.Unwrap()
	if marketCap < l.minMarketCap {
		return l.reject(symbol, data, "market_cap_below_threshold",
			fmt.Sprintf("%s market cap %s below threshold %s", symbol, strategy.Dollars(marketCap), strategy.Dollars(l.minMarketCap)))
	}

	historyDays := len(data.PriceHistory)
	if historyDays < l.minHistoryDays {
		return l.reject(symbol, data, "insufficient_history",
			fmt.Sprintf("%s has %d days history, need %d", symbol, historyDays, l.minHistoryDays))
	}

	sector := SectorOf(fundamental)
	if slices.Contains(l.excludedSectors, sector) {
		return l.reject(symbol, data, "sector_excluded", fmt.Sprintf("%s sector '%s' is excluded from universe", symbol, sector))
	}

	data.MarketCap = optional.Some(marketCap)
	data.HistoryDays = optional.Some(historyDays)
	data.Sector = optional.Some(sector)

	l.log.Debug("Passed universe screen",
		zap.String("symbol", symbol),
		zap.Float64("market_cap", marketCap),
		zap.Int("history_days", historyDays),
		zap.String("sector", sector),
	)

	return pipeline.Pass(data, fmt.Sprintf("%s passed universe screen (market_cap=%s, history=%dd, sector=%s)",
		symbol, strategy.Dollars(marketCap), historyDays, sector))
}

func (l *UniverseScreen) reject(symbol string, data pipeline.AnalysisData, reason string, reasoning string) pipeline.LayerResult {
	l.log.Debug("Rejected by universe screen", zap.String("symbol", symbol), zap.String("reason", reason))

	return pipeline.Fail(data, reasoning)
}

// SectorOf returns the industry used for sector exclusion, or "Unknown".
func SectorOf(fundamental types.FundamentalData) string {
	if fundamental.Industry.IsNone() || fundamental.Industry.Unwrap() == "" {
		return "Unknown"
	}

	return fundamental.Industry.Unwrap()
}

func describePrice(price optional.Option[float64]) string {
	if price.IsNone() {
		return "missing"
	}

	return fmt.Sprintf("%g", price.Unwrap())
}
