package types

import "time"

// Action is the position instruction produced by a strategy.
type Action string

const (
	// ActionHold keeps the current position unchanged
	ActionHold Action = "hold"
	// ActionBuy opens or increases a position up to the target weight
	ActionBuy Action = "buy"
	// ActionExit closes the position
	ActionExit Action = "exit"
)

// Decision is the output of a strategy pipeline that passed every layer.
type Decision struct {
	Symbol string `json:"symbol"`
	Action Action `json:"action"`
	// TargetWeight is the fraction of allocated capital to commit, in [0, 1]
	TargetWeight float64 `json:"target_weight"`
	// Confidence is in [0, 1]
	Confidence float64 `json:"confidence"`
	// Reasoning is the newline-joined audit trail of every layer that ran
	Reasoning string `json:"reasoning"`
}

// DecisionRecord is a decision as stored in the audit log.
type DecisionRecord struct {
	ID           string   `json:"id"`
	StrategyName string   `json:"strategy_name"`
	Decision     Decision `json:"decision"`
	// TargetNotional is allocated capital multiplied by the target weight
	TargetNotional float64   `json:"target_notional"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnalysisSummary is the last pipeline outcome recorded by a strategy for a symbol,
// kept for passed and failed runs alike.
type AnalysisSummary struct {
	Passed         bool      `json:"passed" mapstructure:"passed"`
	Timestamp      time.Time `json:"timestamp" mapstructure:"timestamp"`
	Beta           *float64  `json:"beta" mapstructure:"beta"`
	Alpha          *float64  `json:"alpha" mapstructure:"alpha"`
	ExpectedReturn *float64  `json:"expected_return" mapstructure:"expected_return"`
	SharpeRatio    *float64  `json:"sharpe_ratio" mapstructure:"sharpe_ratio"`
}
