package store

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsBackend(t *testing.T) {
	s, err := New(Config{}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &DuckDBStore{}, s)
	require.NoError(t, s.Close())

	_, err = New(Config{Backend: "sqlite"}, logger.NewNop())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = New(Config{Backend: BackendPostgres}, logger.NewNop())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingParameter))
}

func TestNewDecisionRecord(t *testing.T) {
	tests := []struct {
		name     string
		capital  float64
		weight   float64
		expected float64
	}{
		{name: "ten percent", capital: 100_000, weight: 0.1, expected: 10_000},
		{name: "rounded to cents", capital: 333.33, weight: 0.333, expected: 111},
		{name: "zero weight", capital: 100_000, weight: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := NewDecisionRecord("capm", types.Decision{Symbol: "AAPL", TargetWeight: tt.weight}, tt.capital)

			assert.Equal(t, "capm", record.StrategyName)
			assert.InDelta(t, tt.expected, record.TargetNotional, 1e-9)
			assert.Len(t, record.ID, 36)
		})
	}
}

func TestDecisionModelConversion(t *testing.T) {
	record := NewDecisionRecord("capm", types.Decision{
		Symbol:       "AAPL",
		Action:       types.ActionBuy,
		TargetWeight: 0.1,
		Confidence:   0.5,
		Reasoning:    "[capm_decision] BUY",
	}, 50_000)

	assert.Equal(t, record, fromDecisionModel(toDecisionModel(record)))
}

func TestEventModelConversion(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	withSymbol := types.NewEvent(types.EventTypePriceBar, optional.Some("AAPL"), at, "replay", map[string]any{"close": 10.0})
	model, err := toEventModel(withSymbol)
	require.NoError(t, err)
	require.NotNil(t, model.Symbol)
	assert.Equal(t, "AAPL", *model.Symbol)
	assert.JSONEq(t, `{"close":10}`, model.Payload)

	back, err := fromEventModel(model)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", back.Symbol.Unwrap())
	assert.Equal(t, 10.0, back.Payload["close"])
	assert.Equal(t, at, back.Timestamp)

	system := types.NewEvent(types.EventTypeMarketBar, optional.None[string](), at, "replay", nil)
	model, err = toEventModel(system)
	require.NoError(t, err)
	assert.Nil(t, model.Symbol)

	back, err = fromEventModel(model)
	require.NoError(t, err)
	assert.True(t, back.Symbol.IsNone())
	assert.Empty(t, back.Payload)
}
