package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// PriceBar is a daily OHLCV bar.
type PriceBar struct {
	Symbol string    `csv:"symbol" json:"symbol"`
	Time   time.Time `csv:"time" json:"time"`
	Open   float64   `csv:"open" json:"open"`
	High   float64   `csv:"high" json:"high"`
	Low    float64   `csv:"low" json:"low"`
	Close  float64   `csv:"close" json:"close"`
	Volume float64   `csv:"volume" json:"volume"`
}

// Payload encodes the bar into the payload keys recognized for price_bar and market_bar events.
func (b PriceBar) Payload() map[string]any {
	return map[string]any{
		"open":   b.Open,
		"high":   b.High,
		"low":    b.Low,
		"close":  b.Close,
		"volume": b.Volume,
	}
}

// PriceBarFromEvent decodes a price_bar or market_bar event. Missing numeric keys decode as zero.
func PriceBarFromEvent(event Event) PriceBar {
	bar := PriceBar{
		Symbol: event.SymbolOrEmpty(),
		Time:   event.Timestamp,
	}
	bar.Open, _ = event.Float("open")
	bar.High, _ = event.Float("high")
	bar.Low, _ = event.Float("low")
	bar.Close, _ = event.Float("close")
	bar.Volume, _ = event.Float("volume")

	return bar
}

// FundamentalData is a company snapshot. Nullable vendor fields are optional.
type FundamentalData struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`

	CompanyName string `json:"company_name"`
	CIK         string `json:"cik"`
	// Employees is the reported head count
	Employees optional.Option[int64] `json:"employees"`

	SharesOutstanding optional.Option[float64] `json:"shares_outstanding"`
	FloatShares       optional.Option[float64] `json:"float_shares"`

	// Industry doubles as the sector used for universe exclusion
	Industry    optional.Option[string] `json:"industry"`
	Category    optional.Option[string] `json:"category"`
	Subcategory optional.Option[string] `json:"subcategory"`
}

// Clone returns a copy whose optional fields do not share backing arrays with f.
func (f FundamentalData) Clone() FundamentalData {
	c := f
	c.Employees = cloneOption(f.Employees)
	c.SharesOutstanding = cloneOption(f.SharesOutstanding)
	c.FloatShares = cloneOption(f.FloatShares)
	c.Industry = cloneOption(f.Industry)
	c.Category = cloneOption(f.Category)
	c.Subcategory = cloneOption(f.Subcategory)

	return c
}

// FundamentalFromEvent decodes a fundamental_data event. Absent or null keys become None.
func FundamentalFromEvent(event Event) FundamentalData {
	fundamental := FundamentalData{
		Symbol:            event.SymbolOrEmpty(),
		Timestamp:         event.Timestamp,
		Employees:         optional.None[int64](),
		SharesOutstanding: optionalFloat(event.Payload["shares_outstanding"]),
		FloatShares:       optionalFloat(event.Payload["float_shares"]),
		Industry:          optionalString(event.Payload["industry"]),
		Category:          optionalString(event.Payload["category"]),
		Subcategory:       optionalString(event.Payload["subcategory"]),
	}

	if name, ok := event.Text("company_name"); ok {
		fundamental.CompanyName = name
	}

	if cik, ok := event.Text("cik"); ok {
		fundamental.CIK = cik
	}

	if employees, ok := event.Float("employees"); ok {
		fundamental.Employees = optional.Some(int64(employees))
	}

	return fundamental
}

// Payload encodes the snapshot into fundamental_data payload keys. None values encode as nil.
func (f FundamentalData) Payload() map[string]any {
	return map[string]any{
		"company_name":       f.CompanyName,
		"cik":                f.CIK,
		"employees":          optionalValue(f.Employees),
		"shares_outstanding": optionalValue(f.SharesOutstanding),
		"float_shares":       optionalValue(f.FloatShares),
		"industry":           optionalValue(f.Industry),
		"category":           optionalValue(f.Category),
		"subcategory":        optionalValue(f.Subcategory),
	}
}

func optionalFloat(v any) optional.Option[float64] {
	if f, ok := ToFloat(v); ok {
		return optional.Some(f)
	}

	return optional.None[float64]()
}

func optionalString(v any) optional.Option[string] {
	if s, ok := v.(string); ok && s != "" {
		return optional.Some(s)
	}

	return optional.None[string]()
}

func cloneOption[T any](o optional.Option[T]) optional.Option[T] {
	if o.IsNone() {
		return o
	}

	return optional.Some(o.Unwrap())
}

func optionalValue[T any](o optional.Option[T]) any {
	if o.IsNone() {
		return nil
	}

	return o.Unwrap()
}
