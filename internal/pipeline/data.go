package pipeline

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/types"
)

// AnalysisData is the record that flows through a pipeline. Each layer receives its own copy
// and returns it enriched; fields a layer has not reached yet stay None.
type AnalysisData struct {
	// Inputs assembled by the strategy
	Fundamental   optional.Option[types.FundamentalData]
	Price         optional.Option[float64]
	PriceHistory  []float64
	MarketHistory []float64

	// Screening
	MarketCap   optional.Option[float64]
	HistoryDays optional.Option[int]
	Sector      optional.Option[string]

	// Risk
	Beta            optional.Option[float64]
	StockVolatility optional.Option[float64]
	Covariance      optional.Option[float64]
	MarketVariance  optional.Option[float64]
	ReturnsCount    optional.Option[int]
	AvgStockReturn  optional.Option[float64]
	AvgMarketReturn optional.Option[float64]

	// Valuation
	ExpectedReturn     optional.Option[float64]
	Alpha              optional.Option[float64]
	MarketRiskPremium  optional.Option[float64]
	MarketReturnUsed   optional.Option[float64]
	MarketReturnSource optional.Option[string]
	RiskFreeRate       optional.Option[float64]
	Valuation          optional.Option[string]
	SharpeRatio        optional.Option[float64]

	// Decision
	Action         optional.Option[types.Action]
	TargetWeight   optional.Option[float64]
	Confidence     optional.Option[float64]
	DecisionReason optional.Option[string]
}

// Clone returns a copy that shares no mutable memory with d. Options are slices, so
// each one is rebuilt on a fresh backing array.
func (d AnalysisData) Clone() AnalysisData {
	return AnalysisData{
		Fundamental:   cloneFundamental(d.Fundamental),
		Price:         cloneOption(d.Price),
		PriceHistory:  cloneFloats(d.PriceHistory),
		MarketHistory: cloneFloats(d.MarketHistory),

		MarketCap:   cloneOption(d.MarketCap),
		HistoryDays: cloneOption(d.HistoryDays),
		Sector:      cloneOption(d.Sector),

		Beta:            cloneOption(d.Beta),
		StockVolatility: cloneOption(d.StockVolatility),
		Covariance:      cloneOption(d.Covariance),
		MarketVariance:  cloneOption(d.MarketVariance),
		ReturnsCount:    cloneOption(d.ReturnsCount),
		AvgStockReturn:  cloneOption(d.AvgStockReturn),
		AvgMarketReturn: cloneOption(d.AvgMarketReturn),

		ExpectedReturn:     cloneOption(d.ExpectedReturn),
		Alpha:              cloneOption(d.Alpha),
		MarketRiskPremium:  cloneOption(d.MarketRiskPremium),
		MarketReturnUsed:   cloneOption(d.MarketReturnUsed),
		MarketReturnSource: cloneOption(d.MarketReturnSource),
		RiskFreeRate:       cloneOption(d.RiskFreeRate),
		Valuation:          cloneOption(d.Valuation),
		SharpeRatio:        cloneOption(d.SharpeRatio),

		Action:         cloneOption(d.Action),
		TargetWeight:   cloneOption(d.TargetWeight),
		Confidence:     cloneOption(d.Confidence),
		DecisionReason: cloneOption(d.DecisionReason),
	}
}

// FloatOr unwraps o or returns fallback when it is None.
func FloatOr(o optional.Option[float64], fallback float64) float64 {
	if o.IsNone() {
		return fallback
	}

	return o.Unwrap()
}

// Ptr converts an optional value into a nil-able pointer for summaries and JSON.
func Ptr[T any](o optional.Option[T]) *T {
	if o.IsNone() {
		return nil
	}

	v := o.Unwrap()

	return &v
}

func cloneOption[T any](o optional.Option[T]) optional.Option[T] {
	if o.IsNone() {
		return o
	}

	return optional.Some(o.Unwrap())
}

func cloneFundamental(o optional.Option[types.FundamentalData]) optional.Option[types.FundamentalData] {
	if o.IsNone() {
		return o
	}

	return optional.Some(o.Unwrap().Clone())
}

func cloneFloats(values []float64) []float64 {
	if values == nil {
		return nil
	}

	out := make([]float64, len(values))
	copy(out, values)

	return out
}
