package capm

import (
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/pipeline"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/stretchr/testify/suite"
)

type LayersTestSuite struct {
	suite.Suite
	log *logger.Logger
}

func TestLayersSuite(t *testing.T) {
	suite.Run(t, new(LayersTestSuite))
}

func (suite *LayersTestSuite) SetupSuite() {
	suite.log = logger.NewNop()
}

func rampHistory(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i%7) - 3 + float64(i)*0.1
	}

	return out
}

func screenInput(price float64, shares float64, historyDays int, industry string) pipeline.AnalysisData {
	fundamental := types.FundamentalData{
		Symbol:            "AAPL",
		SharesOutstanding: optional.Some(shares),
		Industry:          optional.None[string](),
	}
	if industry != "" {
		fundamental.Industry = optional.Some(industry)
	}

	return pipeline.AnalysisData{
		Fundamental:  optional.Some(fundamental),
		Price:        optional.Some(price),
		PriceHistory: rampHistory(historyDays, 100),
	}
}

func (suite *LayersTestSuite) TestUniverseScreen() {
	screen := NewUniverseScreen(1_000_000_000, 252, []string{"Utilities"}, suite.log)
	suite.Equal("universe_screen", screen.Name())

	suite.Run("missing fundamental", func() {
		result := screen.Process("AAPL", pipeline.AnalysisData{Price: optional.Some(10.0)})
		suite.False(result.Passed)
		suite.Equal("Missing fundamental data for AAPL", result.Reasoning)
	})

	suite.Run("invalid price", func() {
		data := screenInput(0, 1e9, 300, "")
		result := screen.Process("AAPL", data)
		suite.False(result.Passed)
		suite.Equal("Missing or invalid price for AAPL: 0", result.Reasoning)

		data.Price = optional.None[float64]()
		result = screen.Process("AAPL", data)
		suite.False(result.Passed)
		suite.Contains(result.Reasoning, "Missing or invalid price for AAPL")
	})

	suite.Run("missing shares outstanding", func() {
		data := screenInput(100, 0, 300, "")
		fundamental := data.Fundamental.Unwrap()
		fundamental.SharesOutstanding = optional.None[float64]()
		data.Fundamental = optional.Some(fundamental)

		result := screen.Process("AAPL", data)
		suite.False(result.Passed)
		suite.Equal("Missing shares outstanding for AAPL", result.Reasoning)
	})

	suite.Run("market cap below threshold", func() {
		result := screen.Process("AAPL", screenInput(10, 1_000_000, 300, ""))
		suite.False(result.Passed)
		suite.Contains(result.Reasoning, "$10,000,000")
		suite.Contains(result.Reasoning, "$1,000,000,000")
		suite.True(result.Data.MarketCap.IsNone())
	})

	suite.Run("insufficient history", func() {
		result := screen.Process("AAPL", screenInput(100, 1e8, 100, ""))
		suite.False(result.Passed)
		suite.Equal("AAPL has 100 days history, need 252", result.Reasoning)
	})

	suite.Run("excluded sector", func() {
		result := screen.Process("AAPL", screenInput(100, 1e8, 300, "Utilities"))
		suite.False(result.Passed)
		suite.Equal("AAPL sector 'Utilities' is excluded from universe", result.Reasoning)
	})

	suite.Run("pass", func() {
		result := screen.Process("AAPL", screenInput(100, 1e8, 300, ""))
		suite.True(result.Passed)
		suite.Equal(1e10, result.Data.MarketCap.Unwrap())
		suite.Equal(300, result.Data.HistoryDays.Unwrap())
		suite.Equal("Unknown", result.Data.Sector.Unwrap())
		suite.Contains(result.Reasoning, "market_cap=$10,000,000,000")
	})

	suite.Run("market cap at threshold passes", func() {
		result := screen.Process("AAPL", screenInput(10, 100_000_000, 252, "Technology"))
		suite.True(result.Passed)
		suite.Equal("Technology", result.Data.Sector.Unwrap())
	})
}

func (suite *LayersTestSuite) TestBetaIdenticalSeries() {
	prices := []float64{100, 101, 99, 102, 104, 103, 105, 107, 106, 108}
	layer := NewBetaCalculator(252, 1.0, 1.0, suite.log)
	suite.Equal("beta_calculator", layer.Name())

	result := layer.Process("SPY", pipeline.AnalysisData{PriceHistory: prices, MarketHistory: prices})
	suite.True(result.Passed, result.Reasoning)
	suite.Equal(1.0, result.Data.Beta.Unwrap())
	suite.Equal(result.Data.Covariance.Unwrap(), result.Data.MarketVariance.Unwrap())
	suite.Equal(9, result.Data.ReturnsCount.Unwrap())

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, prices[i]/prices[i-1]-1)
	}

	avg := 0.0
	for _, r := range returns {
		avg += r
	}
	avg /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - avg) * (r - avg)
	}
	variance /= float64(len(returns) - 1)

	suite.InDelta(math.Sqrt(variance)*math.Sqrt(252), result.Data.StockVolatility.Unwrap(), 1e-12)
	suite.InDelta(avg*252, result.Data.AvgStockReturn.Unwrap(), 1e-12)
	suite.InDelta(avg*252, result.Data.AvgMarketReturn.Unwrap(), 1e-12)
	suite.Contains(result.Reasoning, "SPY beta=1.00")
	suite.Contains(result.Reasoning, "(using 9 days)")
}

func (suite *LayersTestSuite) TestBetaFailures() {
	layer := NewBetaCalculator(252, 0.2, 2.5, suite.log)
	prices := []float64{100, 101, 99, 102, 104, 103}

	suite.Run("insufficient price history", func() {
		result := layer.Process("AAPL", pipeline.AnalysisData{PriceHistory: []float64{1}, MarketHistory: prices})
		suite.False(result.Passed)
		suite.Equal("Insufficient price history for AAPL beta calculation", result.Reasoning)
	})

	suite.Run("insufficient market history", func() {
		result := layer.Process("AAPL", pipeline.AnalysisData{PriceHistory: prices})
		suite.False(result.Passed)
		suite.Equal("Insufficient market history for AAPL beta calculation", result.Reasoning)
	})

	suite.Run("constant market", func() {
		flat := []float64{100, 100, 100, 100, 100, 100}
		var result pipeline.LayerResult

		suite.NotPanics(func() {
			result = layer.Process("AAPL", pipeline.AnalysisData{PriceHistory: prices, MarketHistory: flat})
		})
		suite.False(result.Passed)
		suite.Equal("Market variance is zero, cannot calculate beta for AAPL", result.Reasoning)
		suite.True(result.Data.Beta.IsNone())
	})

	suite.Run("zero price in one series", func() {
		result := layer.Process("AAPL", pipeline.AnalysisData{
			PriceHistory:  []float64{10, 0, 12, 13},
			MarketHistory: []float64{100, 101, 102, 103},
		})
		suite.False(result.Passed)
		suite.Equal("Returns calculation failed for AAPL", result.Reasoning)
	})

	suite.Run("beta below minimum", func() {
		market := []float64{100, 102, 99, 103, 101, 104}
		stock := make([]float64, len(market))
		stock[0] = 50
		for i := 1; i < len(market); i++ {
			stock[i] = stock[i-1] * (1 + 0.1*(market[i]/market[i-1]-1))
		}

		result := layer.Process("AAPL", pipeline.AnalysisData{PriceHistory: stock, MarketHistory: market})
		suite.False(result.Passed)
		suite.Contains(result.Reasoning, "AAPL beta 0.10 below minimum 0.2")
		suite.InDelta(0.1, result.Data.Beta.Unwrap(), 1e-9)
	})

	suite.Run("beta above maximum", func() {
		market := []float64{100, 102, 99, 103, 101, 104}
		stock := make([]float64, len(market))
		stock[0] = 50
		for i := 1; i < len(market); i++ {
			stock[i] = stock[i-1] * (1 + 3*(market[i]/market[i-1]-1))
		}

		result := layer.Process("AAPL", pipeline.AnalysisData{PriceHistory: stock, MarketHistory: market})
		suite.False(result.Passed)
		suite.Contains(result.Reasoning, "AAPL beta 3.00 above maximum 2.5")
	})
}

func (suite *LayersTestSuite) TestBetaUsesMostRecentLookback() {
	// The early part of the stock series is noise; only the last 4 prices line up with the market.
	market := []float64{100, 90, 120, 80, 100, 102, 99, 103}
	stock := []float64{10, 30, 5, 40, 100, 102, 99, 103}

	result := NewBetaCalculator(4, 0, 3, suite.log).Process("AAPL", pipeline.AnalysisData{PriceHistory: stock, MarketHistory: market})
	suite.True(result.Passed)
	suite.InDelta(1.0, result.Data.Beta.Unwrap(), 1e-12)
	suite.Equal(3, result.Data.ReturnsCount.Unwrap())
}

func (suite *LayersTestSuite) TestCAPMValuation() {
	input := pipeline.AnalysisData{
		Beta:            optional.Some(1.2),
		AvgStockReturn:  optional.Some(0.15),
		AvgMarketReturn: optional.Some(0.10),
		StockVolatility: optional.Some(0.2),
	}

	suite.Run("historical market return", func() {
		layer := NewCAPMValuation(0.05, 0.08, true, suite.log)
		suite.Equal("capm_valuation", layer.Name())

		result := layer.Process("AAPL", input)
		suite.True(result.Passed)
		suite.Equal(MarketReturnHistorical, result.Data.MarketReturnSource.Unwrap())
		suite.InDelta(0.10, result.Data.MarketReturnUsed.Unwrap(), 1e-12)
		suite.InDelta(0.05, result.Data.MarketRiskPremium.Unwrap(), 1e-12)
		suite.InDelta(0.11, result.Data.ExpectedReturn.Unwrap(), 1e-12)
		suite.InDelta(0.04, result.Data.Alpha.Unwrap(), 1e-12)
		suite.InDelta(0.5, result.Data.SharpeRatio.Unwrap(), 1e-12)
		suite.Equal(0.05, result.Data.RiskFreeRate.Unwrap())
		suite.Equal(ValuationUndervalued, result.Data.Valuation.Unwrap())
		suite.Contains(result.Reasoning, "AAPL CAPM analysis: alpha=4.0% (outperforming by 4.0%)")
	})

	suite.Run("expected market return", func() {
		result := NewCAPMValuation(0.05, 0.08, false, suite.log).Process("AAPL", input)
		suite.True(result.Passed)
		suite.Equal(MarketReturnExpected, result.Data.MarketReturnSource.Unwrap())
		suite.InDelta(0.086, result.Data.ExpectedReturn.Unwrap(), 1e-12)
	})

	suite.Run("historical requested but absent", func() {
		data := input
		data.AvgMarketReturn = optional.None[float64]()

		result := NewCAPMValuation(0.05, 0.08, true, suite.log).Process("AAPL", data)
		suite.Equal(MarketReturnExpected, result.Data.MarketReturnSource.Unwrap())
	})

	suite.Run("overvalued with zero volatility", func() {
		data := input
		data.AvgStockReturn = optional.Some(0.02)
		data.StockVolatility = optional.Some(0.0)

		result := NewCAPMValuation(0.05, 0.08, true, suite.log).Process("AAPL", data)
		suite.True(result.Passed)
		suite.Equal(ValuationOvervalued, result.Data.Valuation.Unwrap())
		suite.Equal(0.0, result.Data.SharpeRatio.Unwrap())
		suite.Contains(result.Reasoning, "underperforming by")
	})

	suite.Run("fair valued", func() {
		data := pipeline.AnalysisData{Beta: optional.Some(1.0), AvgStockReturn: optional.Some(0.10), AvgMarketReturn: optional.Some(0.10)}

		result := NewCAPMValuation(0.05, 0.08, true, suite.log).Process("AAPL", data)
		suite.Equal(ValuationFairValued, result.Data.Valuation.Unwrap())
		suite.Equal(0.0, result.Data.SharpeRatio.Unwrap())
	})

	suite.Run("missing inputs", func() {
		layer := NewCAPMValuation(0.05, 0.08, true, suite.log)

		result := layer.Process("AAPL", pipeline.AnalysisData{AvgStockReturn: optional.Some(0.1)})
		suite.False(result.Passed)
		suite.Equal("Missing beta for AAPL CAPM calculation", result.Reasoning)

		result = layer.Process("AAPL", pipeline.AnalysisData{Beta: optional.Some(1.0)})
		suite.False(result.Passed)
		suite.Equal("Missing average stock return for AAPL CAPM calculation", result.Reasoning)
	})
}

func (suite *LayersTestSuite) decide(layer *CAPMDecision, alpha float64, sharpe optional.Option[float64]) pipeline.LayerResult {
	return layer.Process("AAPL", pipeline.AnalysisData{Alpha: optional.Some(alpha), SharpeRatio: sharpe})
}

func (suite *LayersTestSuite) TestCAPMDecision() {
	layer := NewCAPMDecision(0.02, -0.02, 0.5, 0.10, true, suite.log)
	suite.Equal("capm_decision", layer.Name())

	suite.Run("buy", func() {
		result := suite.decide(layer, 0.05, optional.Some(1.0))
		suite.True(result.Passed)
		suite.Equal(types.ActionBuy, result.Data.Action.Unwrap())
		suite.InDelta(0.05, result.Data.TargetWeight.Unwrap(), 1e-12)
		suite.Equal(0.8, result.Data.Confidence.Unwrap())
		suite.Equal("AAPL: BUY: Alpha 5.0% > 2.0%, Sharpe 1.00, target_weight=5.0% | confidence=80%", result.Reasoning)
	})

	suite.Run("buy downgraded by sharpe", func() {
		result := suite.decide(layer, 0.05, optional.Some(0.3))
		suite.True(result.Passed)
		suite.Equal(types.ActionHold, result.Data.Action.Unwrap())
		suite.Equal(0.0, result.Data.TargetWeight.Unwrap())
		suite.Contains(result.Reasoning, "Alpha 5.0% suggests BUY but Sharpe 0.30 < min 0.5")
	})

	suite.Run("missing sharpe counts as zero", func() {
		result := suite.decide(layer, 0.05, optional.None[float64]())
		suite.Equal(types.ActionHold, result.Data.Action.Unwrap())
		suite.Equal(0.6, result.Data.Confidence.Unwrap())
	})

	suite.Run("exit", func() {
		result := suite.decide(layer, -0.05, optional.Some(1.0))
		suite.Equal(types.ActionExit, result.Data.Action.Unwrap())
		suite.Equal(0.0, result.Data.TargetWeight.Unwrap())
		suite.Contains(result.Reasoning, "EXIT: Alpha -5.0% < -2.0% (underperforming CAPM expectation)")
	})

	suite.Run("alpha at buy threshold holds", func() {
		result := suite.decide(layer, 0.02, optional.Some(3.0))
		suite.Equal(types.ActionHold, result.Data.Action.Unwrap())
		suite.Contains(result.Reasoning, "HOLD: Alpha 2.0% in neutral zone [-2.0%, 2.0%]")
	})

	suite.Run("alpha at exit threshold holds", func() {
		result := suite.decide(layer, -0.02, optional.Some(3.0))
		suite.Equal(types.ActionHold, result.Data.Action.Unwrap())
		suite.Equal(0.0, result.Data.TargetWeight.Unwrap())
	})

	suite.Run("missing alpha", func() {
		result := layer.Process("AAPL", pipeline.AnalysisData{})
		suite.False(result.Passed)
		suite.Equal("Missing alpha for AAPL decision", result.Reasoning)
	})
}

func (suite *LayersTestSuite) TestTargetWeightBounds() {
	for _, maxWeight := range []float64{0, 0.05, 0.10, 0.5, 1.0} {
		for _, scaling := range []bool{true, false} {
			layer := NewCAPMDecision(0.02, -0.02, 0.5, maxWeight, scaling, suite.log)

			for alpha := -0.5; alpha <= 0.5; alpha += 0.01 {
				for sharpe := -3.0; sharpe <= 5.0; sharpe += 0.25 {
					weight := layer.TargetWeight(alpha, sharpe)
					suite.GreaterOrEqual(weight, 0.0)
					suite.LessOrEqual(weight, maxWeight)

					result := suite.decide(layer, alpha, optional.Some(sharpe))
					w := result.Data.TargetWeight.Unwrap()
					suite.GreaterOrEqual(w, 0.0)
					suite.LessOrEqual(w, maxWeight)

					if result.Data.Action.Unwrap() != types.ActionBuy {
						suite.Equal(0.0, w)
					}

					confidence := result.Data.Confidence.Unwrap()
					suite.GreaterOrEqual(confidence, 0.0)
					suite.LessOrEqual(confidence, 1.0)
				}
			}
		}
	}
}

func (suite *LayersTestSuite) TestTargetWeightWithoutScaling() {
	layer := NewCAPMDecision(0.02, -0.02, 0.5, 0.10, false, suite.log)
	suite.Equal(0.10, layer.TargetWeight(0.03, 0.6))
}

func (suite *LayersTestSuite) TestConfidence() {
	suite.Equal(1.0, Confidence(0.10, 3.0))
	suite.Equal(0.0, Confidence(0, -1))
	suite.Equal(0.3, Confidence(0.025, 0))
	suite.Equal(0.4, Confidence(0.02, 0.8))
}
