// Package collector produces market events and publishes them on the event bus.
package collector

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/types"
)

// Publisher receives produced events. *bus.EventBus satisfies it.
type Publisher interface {
	Publish(event types.Event)
}

// Config holds the collector settings shared by every source.
type Config struct {
	MarketSymbol  string   `yaml:"market_symbol" json:"market_symbol" jsonschema:"title=Market Benchmark Symbol,default=SPY"`
	Symbols       []string `yaml:"symbols" json:"symbols,omitempty" jsonschema:"title=Universe Symbols" validate:"dive,required"`
	LookbackDays  int      `yaml:"lookback_days" json:"lookback_days" jsonschema:"title=Lookback Days,default=300" validate:"gte=0"`
	PolygonAPIKey string   `yaml:"polygon_api_key" json:"polygon_api_key,omitempty" jsonschema:"title=Polygon API Key"`
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.MarketSymbol == "" {
		c.MarketSymbol = "SPY"
	}

	if c.LookbackDays == 0 {
		c.LookbackDays = 300
	}

	return c
}

func barEvent(eventType types.EventType, bar types.PriceBar, source string) types.Event {
	return types.NewEvent(eventType, optional.Some(bar.Symbol), bar.Time, source, bar.Payload())
}

func fundamentalEvent(fundamental types.FundamentalData, at time.Time, source string) types.Event {
	return types.NewEvent(types.EventTypeFundamentalData, optional.Some(fundamental.Symbol), at, source, fundamental.Payload())
}
