package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/types"
)

// DataGenerator generates daily bar series for tests and benchmarks.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	Symbol string
	// StartTime is the date of the first bar. Bars are one calendar day apart.
	StartTime time.Time
	Count     int
	// InitialPrice is the first open
	InitialPrice float64
	// Volatility is the standard deviation of the daily return (0.01 = 1%)
	Volatility float64
	// Drift is added to every daily return
	Drift      float64
	VolumeBase float64
	// VolumeVariance is the relative spread of volume around VolumeBase (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a benchmark-like daily series: one year at 1% daily volatility.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "SPY",
		StartTime:      time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Count:          260,
		InitialPrice:   400.0,
		Volatility:     0.01,
		Drift:          0.0003,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric random walk.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.PriceBar {
	returns := make([]float64, config.Count)
	for i := range returns {
		returns[i] = config.Drift + config.Volatility*g.normal()
	}

	return g.fromReturns(config, returns)
}

// GenerateCorrelated creates bars for config.Symbol whose daily return is
// beta times the market's close-to-close return plus alpha and gaussian noise
// scaled by config.Volatility. The series shares the market's dates.
func (g *DataGenerator) GenerateCorrelated(market []types.PriceBar, config GeneratorConfig, beta, alpha float64) []types.PriceBar {
	if len(market) == 0 {
		return nil
	}

	config.Count = len(market)
	config.StartTime = market[0].Time

	returns := make([]float64, len(market))
	for i := 1; i < len(market); i++ {
		marketReturn := market[i].Close/market[i-1].Close - 1
		returns[i] = alpha + beta*marketReturn + config.Volatility*g.normal()
	}

	return g.fromReturns(config, returns)
}

// fromReturns builds bars whose close-to-close returns are exactly returns[1:].
func (g *DataGenerator) fromReturns(config GeneratorConfig, returns []float64) []types.PriceBar {
	bars := make([]types.PriceBar, len(returns))
	closePrice := config.InitialPrice

	for i, r := range returns {
		open := closePrice
		if i > 0 {
			closePrice *= 1 + r
		}

		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		spread := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		high := math.Max(open, closePrice) + spread
		low := math.Min(open, closePrice) - spread

		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.PriceBar{
			Symbol: config.Symbol,
			Time:   config.StartTime.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: math.Round(volume),
		}
	}

	return bars
}

// normal draws a standard normal sample using the Box-Muller transform.
func (g *DataGenerator) normal() float64 {
	u1 := 1 - g.rng.Float64()
	u2 := g.rng.Float64()

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Events converts bars into bus events of the given type, one per bar, stamped with the bar date.
func Events(eventType types.EventType, bars []types.PriceBar) []types.Event {
	events := make([]types.Event, len(bars))
	for i, bar := range bars {
		events[i] = types.NewEvent(eventType, optional.Some(bar.Symbol), bar.Time, "generator", bar.Payload())
	}

	return events
}

// Interleave merges benchmark and stock events day by day, benchmark first, the
// order collectors publish in.
func Interleave(market []types.Event, stocks ...[]types.Event) []types.Event {
	total := len(market)
	for _, s := range stocks {
		total += len(s)
	}

	out := make([]types.Event, 0, total)

	for i := 0; ; i++ {
		appended := false

		if i < len(market) {
			out = append(out, market[i])
			appended = true
		}

		for _, s := range stocks {
			if i < len(s) {
				out = append(out, s[i])
				appended = true
			}
		}

		if !appended {
			return out
		}
	}
}
