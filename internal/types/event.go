package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// EventType identifies the kind of message routed by the event bus.
type EventType string

const (
	// EventTypePriceBar is a daily OHLCV bar for a single stock.
	EventTypePriceBar EventType = "price_bar"
	// EventTypeMarketBar is a daily OHLCV bar for the market benchmark.
	EventTypeMarketBar EventType = "market_bar"
	// EventTypeFundamentalData is a company fundamentals snapshot.
	EventTypeFundamentalData EventType = "fundamental_data"
	// EventTypeWildcard subscribes a handler to every event type.
	EventTypeWildcard EventType = "*"
)

// Event is an immutable message published on the event bus.
// Payload keys are plain strings and values are JSON-compatible scalars.
type Event struct {
	// Type is the routing key of the event
	Type EventType `json:"type"`
	// Symbol is the ticker the event refers to. None for system-wide events.
	Symbol optional.Option[string] `json:"symbol"`
	// Timestamp is when the event occurred in market time
	Timestamp time.Time `json:"timestamp"`
	// IngestedAt is when the event was received by the system
	IngestedAt time.Time `json:"ingested_at"`
	// Source names the producer, for example "polygon" or "replay"
	Source string `json:"source"`
	// Payload carries the event body
	Payload map[string]any `json:"payload"`
}

// NewEvent creates an event stamped with the current ingestion time. The payload
// is copied so later changes by the producer cannot leak into delivered events.
func NewEvent(eventType EventType, symbol optional.Option[string], timestamp time.Time, source string, payload map[string]any) Event {
	copied := make(map[string]any, len(payload))
	for k, v := range payload {
		copied[k] = v
	}

	return Event{
		Type:       eventType,
		Symbol:     symbol,
		Timestamp:  timestamp,
		IngestedAt: time.Now().UTC(),
		Source:     source,
		Payload:    copied,
	}
}

// SymbolOrEmpty returns the event symbol or an empty string for system events.
func (e Event) SymbolOrEmpty() string {
	if e.Symbol.IsNone() {
		return ""
	}

	return e.Symbol.Unwrap()
}

// Float reads a numeric payload value. Integer encodings are widened to float64.
func (e Event) Float(key string) (float64, bool) {
	return ToFloat(e.Payload[key])
}

// Text reads a string payload value.
func (e Event) Text(key string) (string, bool) {
	v, ok := e.Payload[key].(string)

	return v, ok
}

// ToFloat converts the numeric encodings produced by JSON decoding, YAML decoding
// and Go literals into a float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
