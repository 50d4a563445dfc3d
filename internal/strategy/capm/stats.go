package capm

// TradingDaysPerYear annualizes daily figures.
const TradingDaysPerYear = 252

// dailyReturns computes simple returns of consecutive prices, oldest first.
// Steps whose previous price is zero are skipped, so the result may be shorter than len(prices)-1.
func dailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(prices)-1)

	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}

		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}

	return returns
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range x {
		sum += v
	}

	return sum / float64(len(x))
}

// sampleCovariance divides by n-1. Mismatched or short series give zero.
func sampleCovariance(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	meanX := mean(x)
	meanY := mean(y)

	sum := 0.0
	for i := range x {
		sum += (x[i] - meanX) * (y[i] - meanY)
	}

	return sum / float64(len(x)-1)
}

// sampleVariance divides by n-1.
func sampleVariance(x []float64) float64 {
	return sampleCovariance(x, x)
}

func lastN(values []float64, n int) []float64 {
	if n >= len(values) {
		return values
	}

	return values[len(values)-n:]
}
