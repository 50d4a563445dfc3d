package capm

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/pipeline"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"go.uber.org/zap"
)

// Valuation labels derived from the sign of alpha.
const (
	ValuationUndervalued = "undervalued"
	ValuationOvervalued  = "overvalued"
	ValuationFairValued  = "fair_valued"
)

// Market return sources recorded by CAPMValuation.
const (
	MarketReturnHistorical = "historical"
	MarketReturnExpected   = "expected"
)

// CAPMValuation computes the CAPM expected return, alpha and sharpe ratio.
//
//	E[r]  = rf + beta * (rm - rf)
//	alpha = actual return - E[r]
type CAPMValuation struct {
	riskFreeRate              float64
	expectedMarketReturn      float64
	useHistoricalMarketReturn bool
	log                       *logger.Logger
}

// NewCAPMValuation creates the valuation layer.
func NewCAPMValuation(riskFreeRate, expectedMarketReturn float64, useHistoricalMarketReturn bool, log *logger.Logger) *CAPMValuation {
	return &CAPMValuation{
		riskFreeRate:              riskFreeRate,
		expectedMarketReturn:      expectedMarketReturn,
		useHistoricalMarketReturn: useHistoricalMarketReturn,
		log:                       log.Named("capm_valuation"),
	}
}

func (l *CAPMValuation) Name() string {
	return "capm_valuation"
}

// Process passes whenever beta and the average stock return are present.
func (l *CAPMValuation) Process(symbol string, data pipeline.AnalysisData) pipeline.LayerResult {
	if data.Beta.IsNone() {
		return pipeline.Fail(data, fmt.Sprintf("Missing beta for %s CAPM calculation", symbol))
	}

	if data.AvgStockReturn.IsNone() {
		return pipeline.Fail(data, fmt.Sprintf("Missing average stock return for %s CAPM calculation", symbol))
	}

	beta := data.Beta.Unwrap()
	actualReturn := data.AvgStockReturn.Unwrap()

	marketReturn := l.expectedMarketReturn
	source := MarketReturnExpected

	if l.useHistoricalMarketReturn && data.AvgMarketReturn.IsSome() {
		marketReturn = data.AvgMarketReturn.Unwrap()
		source = MarketReturnHistorical
	}

	marketRiskPremium := marketReturn - l.riskFreeRate
	expectedReturn := l.riskFreeRate + beta*marketRiskPremium
	alpha := actualReturn - expectedReturn

	var valuation, valuationReason string

	switch {
	case alpha > 0:
		valuation = ValuationUndervalued
		valuationReason = "outperforming by " + strategy.Percent(alpha)
	case alpha < 0:
		valuation = ValuationOvervalued
		valuationReason = "underperforming by " + strategy.Percent(math.Abs(alpha))
	default:
		valuation = ValuationFairValued
		valuationReason = "performing as expected"
	}

	sharpe := 0.0
	if volatility := pipeline.FloatOr(data.StockVolatility, 0); volatility > 0 {
		sharpe = (actualReturn - l.riskFreeRate) / volatility
	}

	data.ExpectedReturn = optional.Some(expectedReturn)
	data.Alpha = optional.Some(alpha)
	data.MarketRiskPremium = optional.Some(marketRiskPremium)
	data.MarketReturnUsed = optional.Some(marketReturn)
	data.MarketReturnSource = optional.Some(source)
	data.RiskFreeRate = optional.Some(l.riskFreeRate)
	data.Valuation = optional.Some(valuation)
	data.SharpeRatio = optional.Some(sharpe)

	l.log.Debug("CAPM valuation",
		zap.String("symbol", symbol),
		zap.Float64("alpha", alpha),
		zap.Float64("expected_return", expectedReturn),
		zap.Float64("market_return", marketReturn),
		zap.String("market_return_source", source),
		zap.Float64("sharpe_ratio", sharpe),
	)

	return pipeline.Pass(data, fmt.Sprintf("%s CAPM analysis: alpha=%s (%s), expected_return=%s, actual_return=%s, beta=%.2f, sharpe=%.2f",
		symbol, strategy.Percent(alpha), valuationReason, strategy.Percent(expectedReturn), strategy.Percent(actualReturn), beta, sharpe))
}
