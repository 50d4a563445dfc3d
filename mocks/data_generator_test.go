package mocks

import (
	"testing"

	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 100

	bars := gen.Generate(config)
	require.Len(t, bars, 100)
	assert.Equal(t, config.InitialPrice, bars[0].Close)

	for i, bar := range bars {
		assert.Equal(t, config.Symbol, bar.Symbol)
		assert.Positive(t, bar.Open, "open at %d", i)
		assert.Positive(t, bar.Low, "low at %d", i)
		assert.GreaterOrEqual(t, bar.High, bar.Low, "high < low at %d", i)
		assert.GreaterOrEqual(t, bar.High, bar.Close, "high < close at %d", i)
		assert.LessOrEqual(t, bar.Low, bar.Close, "low > close at %d", i)

		if i > 0 {
			assert.Equal(t, bars[i-1].Time.AddDate(0, 0, 1), bar.Time)
			assert.Equal(t, bars[i-1].Close, bar.Open)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	first := NewDataGenerator(42).Generate(config)
	second := NewDataGenerator(42).Generate(config)
	assert.Equal(t, first, second)

	other := NewDataGenerator(123).Generate(config)
	assert.NotEqual(t, first[len(first)-1].Close, other[len(other)-1].Close)
}

func TestDataGenerator_GenerateCorrelated(t *testing.T) {
	gen := NewDataGenerator(7)
	market := gen.Generate(DefaultConfig())

	config := DefaultConfig()
	config.Symbol = "AAPL"
	config.InitialPrice = 150
	config.Volatility = 0

	stock := gen.GenerateCorrelated(market, config, 1.5, 0)
	require.Len(t, stock, len(market))

	for i := 1; i < len(stock); i++ {
		assert.Equal(t, market[i].Time, stock[i].Time)

		marketReturn := market[i].Close/market[i-1].Close - 1
		stockReturn := stock[i].Close/stock[i-1].Close - 1
		assert.InDelta(t, 1.5*marketReturn, stockReturn, 1e-9)
	}

	assert.Nil(t, gen.GenerateCorrelated(nil, config, 1, 0))
}

func TestEventsAndInterleave(t *testing.T) {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 3

	market := Events(types.EventTypeMarketBar, gen.Generate(config))

	config.Symbol = "AAPL"
	stock := Events(types.EventTypePriceBar, gen.Generate(config))

	require.Len(t, market, 3)
	assert.Equal(t, types.EventTypeMarketBar, market[0].Type)
	assert.Equal(t, "SPY", market[0].SymbolOrEmpty())

	closePrice, ok := stock[2].Float("close")
	require.True(t, ok)
	assert.Positive(t, closePrice)

	merged := Interleave(market, stock[:2])
	require.Len(t, merged, 5)

	var order []types.EventType
	for _, event := range merged {
		order = append(order, event.Type)
	}

	assert.Equal(t, []types.EventType{
		types.EventTypeMarketBar, types.EventTypePriceBar,
		types.EventTypeMarketBar, types.EventTypePriceBar,
		types.EventTypeMarketBar,
	}, order)
}
