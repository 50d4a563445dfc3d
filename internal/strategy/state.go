package strategy

import (
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/internal/version"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
)

// StateVersionKey is the state map key holding the schema version.
const StateVersionKey = "version"

// DecodeParams decodes configuration params into out, which must carry yaml tags.
// Keys absent from params keep the values already in out, so callers set defaults first.
// Unknown keys are rejected.
func DecodeParams(params map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create params decoder", err)
	}

	if err := decoder.Decode(params); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to decode strategy params", err)
	}

	return nil
}

// DecodeState decodes a persisted state map into out, which must carry mapstructure tags.
// The state may come straight from GetState or from a JSON round trip.
func DecodeState(state map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStateDecodeFailed, "failed to create state decoder", err)
	}

	if err := decoder.Decode(state); err != nil {
		return errors.Wrap(errors.ErrCodeStateDecodeFailed, "failed to decode strategy state", err)
	}

	return nil
}

// CheckStateVersion validates the version key of a persisted state. A missing or null key
// marks state written before versioning; any other non-string value is rejected.
func CheckStateVersion(state map[string]any) error {
	raw, present := state[StateVersionKey]
	if !present || raw == nil {
		return version.CheckState("")
	}

	stored, ok := raw.(string)
	if !ok {
		return errors.Newf(errors.ErrCodeInvalidVersion, "state version must be a string, got %T", raw)
	}

	return version.CheckState(stored)
}

// EncodePositions converts positions into their JSON-compatible form.
func EncodePositions(positions map[string]types.Position) map[string]any {
	out := make(map[string]any, len(positions))

	for symbol, position := range positions {
		out[symbol] = map[string]any{
			"symbol":        position.Symbol,
			"quantity":      position.Quantity,
			"avg_cost":      position.AvgCost,
			"current_price": position.CurrentPrice,
		}
	}

	return out
}

// EncodeFloatHistory converts a slice into the []any form produced by JSON decoding.
func EncodeFloatHistory(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}

// EncodeAnalysis converts an analysis summary into its JSON-compatible form.
func EncodeAnalysis(summary types.AnalysisSummary) map[string]any {
	return map[string]any{
		"passed":          summary.Passed,
		"timestamp":       summary.Timestamp.UTC().Format(time.RFC3339Nano),
		"beta":            floatPtrValue(summary.Beta),
		"alpha":           floatPtrValue(summary.Alpha),
		"expected_return": floatPtrValue(summary.ExpectedReturn),
		"sharpe_ratio":    floatPtrValue(summary.SharpeRatio),
	}
}

// EncodeFundamental converts a fundamentals snapshot into its JSON-compatible form.
func EncodeFundamental(fundamental types.FundamentalData) map[string]any {
	out := fundamental.Payload()
	out["timestamp"] = fundamental.Timestamp.UTC().Format(time.RFC3339Nano)

	return out
}

// DecodeFundamental restores a snapshot written by EncodeFundamental.
func DecodeFundamental(symbol string, raw map[string]any) types.FundamentalData {
	var timestamp time.Time

	if text, ok := raw["timestamp"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, text); err == nil {
			timestamp = parsed
		}
	}

	return types.FundamentalFromEvent(types.Event{
		Type:      types.EventTypeFundamentalData,
		Symbol:    optional.Some(symbol),
		Timestamp: timestamp,
		Payload:   raw,
	})
}

func floatPtrValue(p *float64) any {
	if p == nil {
		return nil
	}

	return *p
}
