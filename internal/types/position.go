package types

import "github.com/shopspring/decimal"

// Position represents current holdings of a symbol owned by one strategy.
type Position struct {
	Symbol       string  `json:"symbol" mapstructure:"symbol"`
	Quantity     int64   `json:"quantity" mapstructure:"quantity"`
	AvgCost      float64 `json:"avg_cost" mapstructure:"avg_cost"`
	CurrentPrice float64 `json:"current_price" mapstructure:"current_price"`
}

// MarketValue is quantity times the current price.
func (p Position) MarketValue() float64 {
	value, _ := decimal.NewFromInt(p.Quantity).Mul(decimal.NewFromFloat(p.CurrentPrice)).Float64()

	return value
}

// UnrealizedPnL is the mark-to-market gain against the average cost.
// For example 100 shares bought at $10.50 and now at $12.00 gives (12.00-10.50)*100 = $150.
func (p Position) UnrealizedPnL() float64 {
	diff := decimal.NewFromFloat(p.CurrentPrice).Sub(decimal.NewFromFloat(p.AvgCost))
	pnl, _ := diff.Mul(decimal.NewFromInt(p.Quantity)).Float64()

	return pnl
}
