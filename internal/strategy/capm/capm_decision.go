package capm

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/pipeline"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"go.uber.org/zap"
)

// CAPMDecision turns alpha and sharpe into BUY, EXIT or HOLD. It never rejects a symbol
// once alpha is known.
type CAPMDecision struct {
	buyAlphaThreshold  float64
	exitAlphaThreshold float64
	minSharpeForBuy    float64
	maxPositionWeight  float64
	confidenceScaling  bool
	log                *logger.Logger
}

// NewCAPMDecision creates the decision layer.
func NewCAPMDecision(buyAlphaThreshold, exitAlphaThreshold, minSharpeForBuy, maxPositionWeight float64, confidenceScaling bool, log *logger.Logger) *CAPMDecision {
	return &CAPMDecision{
		buyAlphaThreshold:  buyAlphaThreshold,
		exitAlphaThreshold: exitAlphaThreshold,
		minSharpeForBuy:    minSharpeForBuy,
		maxPositionWeight:  maxPositionWeight,
		confidenceScaling:  confidenceScaling,
		log:                log.Named("capm_decision"),
	}
}

func (l *CAPMDecision) Name() string {
	return "capm_decision"
}

func (l *CAPMDecision) Process(symbol string, data pipeline.AnalysisData) pipeline.LayerResult {
	if data.Alpha.IsNone() {
		return pipeline.Fail(data, fmt.Sprintf("Missing alpha for %s decision", symbol))
	}

	alpha := data.Alpha.Unwrap()
	sharpe := pipeline.FloatOr(data.SharpeRatio, 0)

	var (
		action types.Action
		weight float64
		reason string
	)

	switch {
	case alpha > l.buyAlphaThreshold && sharpe < l.minSharpeForBuy:
		action = types.ActionHold
		reason = fmt.Sprintf("Alpha %s suggests BUY but Sharpe %.2f < min %g", strategy.Percent(alpha), sharpe, l.minSharpeForBuy)
	case alpha > l.buyAlphaThreshold:
		action = types.ActionBuy
		weight = l.TargetWeight(alpha, sharpe)
		reason = fmt.Sprintf("BUY: Alpha %s > %s, Sharpe %.2f, target_weight=%s",
			strategy.Percent(alpha), strategy.Percent(l.buyAlphaThreshold), sharpe, strategy.Percent(weight))
	case alpha < l.exitAlphaThreshold:
		action = types.ActionExit
		reason = fmt.Sprintf("EXIT: Alpha %s < %s (underperforming CAPM expectation)",
			strategy.Percent(alpha), strategy.Percent(l.exitAlphaThreshold))
	default:
		action = types.ActionHold
		reason = fmt.Sprintf("HOLD: Alpha %s in neutral zone [%s, %s]",
			strategy.Percent(alpha), strategy.Percent(l.exitAlphaThreshold), strategy.Percent(l.buyAlphaThreshold))
	}

	confidence := Confidence(alpha, sharpe)

	data.Action = optional.Some(action)
	data.TargetWeight = optional.Some(weight)
	data.Confidence = optional.Some(confidence)
	data.DecisionReason = optional.Some(reason)

	l.log.Debug("Decision made",
		zap.String("symbol", symbol),
		zap.String("action", string(action)),
		zap.Float64("target_weight", weight),
		zap.Float64("confidence", confidence),
	)

	return pipeline.Pass(data, fmt.Sprintf("%s: %s | confidence=%.0f%%", symbol, reason, confidence*100))
}

// TargetWeight sizes a BUY. With confidence scaling the weight grows with |alpha| (full at 10%)
// and sharpe (up to 1.2x), and is capped at the maximum position weight.
func (l *CAPMDecision) TargetWeight(alpha, sharpe float64) float64 {
	if !l.confidenceScaling {
		return l.maxPositionWeight
	}

	alphaFactor := math.Min(math.Abs(alpha)/0.10, 1.0)
	sharpeFactor := math.Min(math.Max(sharpe, 0)/1.0, 1.2)
	raw := l.maxPositionWeight * alphaFactor * sharpeFactor

	return math.Min(raw, l.maxPositionWeight)
}

// Confidence blends alpha magnitude (full at 5%) and sharpe (full at 2.0), rounded to 3 decimals.
func Confidence(alpha, sharpe float64) float64 {
	alphaConfidence := math.Min(math.Abs(alpha)/0.05, 1.0)
	sharpeConfidence := math.Min(math.Max(sharpe, 0)/2.0, 1.0)

	return math.Round((0.6*alphaConfidence+0.4*sharpeConfidence)*1000) / 1000
}
