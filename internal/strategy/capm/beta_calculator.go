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

// BetaCalculator estimates the stock beta against the market benchmark.
//
//	beta = cov(stock returns, market returns) / var(market returns)
type BetaCalculator struct {
	lookbackDays int
	minBeta      float64
	maxBeta      float64
	log          *logger.Logger
}

// NewBetaCalculator creates the beta layer. Betas within [minBeta, maxBeta] pass.
func NewBetaCalculator(lookbackDays int, minBeta, maxBeta float64, log *logger.Logger) *BetaCalculator {
	return &BetaCalculator{
		lookbackDays: lookbackDays,
		minBeta:      minBeta,
		maxBeta:      maxBeta,
		log:          log.Named("beta_calculator"),
	}
}

func (l *BetaCalculator) Name() string {
	return "beta_calculator"
}

func (l *BetaCalculator) Process(symbol string, data pipeline.AnalysisData) pipeline.LayerResult {
	if len(data.PriceHistory) < 2 {
		return pipeline.Fail(data, fmt.Sprintf("Insufficient price history for %s beta calculation", symbol))
	}

	if len(data.MarketHistory) < 2 {
		return pipeline.Fail(data, fmt.Sprintf("Insufficient market history for %s beta calculation", symbol))
	}

	lookback := min(l.lookbackDays, len(data.PriceHistory), len(data.MarketHistory))

	stockReturns := dailyReturns(lastN(data.PriceHistory, lookback))
	marketReturns := dailyReturns(lastN(data.MarketHistory, lookback))

	// A zero close in only one of the windows drops a step from that series alone.
	if len(stockReturns) != len(marketReturns) || len(stockReturns) == 0 {
		l.log.Debug("Returns mismatch",
			zap.String("symbol", symbol),
			zap.Int("stock_returns", len(stockReturns)),
			zap.Int("market_returns", len(marketReturns)),
		)

		return pipeline.Fail(data, fmt.Sprintf("Returns calculation failed for %s", symbol))
	}

	covariance := sampleCovariance(stockReturns, marketReturns)
	marketVariance := sampleVariance(marketReturns)

	if marketVariance == 0 {
		return pipeline.Fail(data, fmt.Sprintf("Market variance is zero, cannot calculate beta for %s", symbol))
	}

	beta := covariance / marketVariance
	stockVolatility := math.Sqrt(sampleVariance(stockReturns)) * math.Sqrt(TradingDaysPerYear)

	data.Beta = optional.Some(beta)
	data.StockVolatility = optional.Some(stockVolatility)
	data.Covariance = optional.Some(covariance)
	data.MarketVariance = optional.Some(marketVariance)
	data.ReturnsCount = optional.Some(len(stockReturns))
	data.AvgStockReturn = optional.Some(mean(stockReturns) * TradingDaysPerYear)
	data.AvgMarketReturn = optional.Some(mean(marketReturns) * TradingDaysPerYear)

	l.log.Debug("Beta calculated",
		zap.String("symbol", symbol),
		zap.Float64("beta", beta),
		zap.Float64("stock_volatility", stockVolatility),
		zap.Int("returns_count", len(stockReturns)),
	)

	if beta < l.minBeta {
		return pipeline.Fail(data, fmt.Sprintf("%s beta %.2f below minimum %g", symbol, beta, l.minBeta))
	}

	if beta > l.maxBeta {
		return pipeline.Fail(data, fmt.Sprintf("%s beta %.2f above maximum %g", symbol, beta, l.maxBeta))
	}

	return pipeline.Pass(data, fmt.Sprintf("%s beta=%.2f, volatility=%s (using %d days)",
		symbol, beta, strategy.Percent(stockVolatility), len(stockReturns)))
}
