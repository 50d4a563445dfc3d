package example

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/pipeline"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/internal/types"
)

// LiquidityScreen passes stocks whose market cap reaches the minimum.
type LiquidityScreen struct {
	minMarketCap float64
}

func (l *LiquidityScreen) Name() string {
	return "liquidity_screen"
}

func (l *LiquidityScreen) Process(symbol string, data pipeline.AnalysisData) pipeline.LayerResult {
	if data.Fundamental.IsNone() {
		return pipeline.Fail(data, fmt.Sprintf("Missing fundamental data for %s", symbol))
	}

	if data.Price.IsNone() {
		return pipeline.Fail(data, fmt.Sprintf("Missing price data for %s", symbol))
	}

	shares := data.Fundamental.Unwrap().SharesOutstanding
	if shares.IsNone() {
		return pipeline.Fail(data, fmt.Sprintf("Missing shares outstanding for %s", symbol))
	}

	marketCap := data.Price.Unwrap() * shares.Unwrap()
	data.MarketCap = optional.Some(marketCap)

	if marketCap < l.minMarketCap {
		return pipeline.Fail(data, fmt.Sprintf("%s market cap %s below threshold %s",
			symbol, strategy.Dollars(marketCap), strategy.Dollars(l.minMarketCap)))
	}

	return pipeline.Pass(data, fmt.Sprintf("%s market cap %s above threshold %s",
		symbol, strategy.Dollars(marketCap), strategy.Dollars(l.minMarketCap)))
}

// HoldDecision always holds. It marks the place where a real strategy decides.
type HoldDecision struct{}

func (l *HoldDecision) Name() string {
	return "decision_layer"
}

func (l *HoldDecision) Process(symbol string, data pipeline.AnalysisData) pipeline.LayerResult {
	data.Action = optional.Some(types.ActionHold)

	return pipeline.Pass(data, fmt.Sprintf("%s passed all screens, decision: HOLD (market cap: %s)",
		symbol, strategy.Dollars(pipeline.FloatOr(data.MarketCap, 0))))
}
