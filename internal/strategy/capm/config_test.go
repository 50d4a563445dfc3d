package capm

import (
	"testing"

	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	config, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.Equal(t, 500_000_000.0, config.MinMarketCap)
	assert.Equal(t, "SPY", config.MarketSymbol)
	assert.True(t, config.UseHistoricalMarketReturn)
	assert.True(t, config.ConfidenceScaling)
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name          string
		params        map[string]any
		expectError   bool
		errorContains string
		check         func(t *testing.T, config Config)
	}{
		{
			name:   "overrides keep other defaults",
			params: map[string]any{"min_beta": 0.5, "price_history_days": 400, "confidence_scaling": false},
			check: func(t *testing.T, config Config) {
				assert.Equal(t, 0.5, config.MinBeta)
				assert.Equal(t, 2.5, config.MaxBeta)
				assert.Equal(t, 400, config.PriceHistoryDays)
				assert.False(t, config.ConfidenceScaling)
				assert.Equal(t, 0.02, config.BuyAlphaThreshold)
			},
		},
		{
			name:          "max position weight above one",
			params:        map[string]any{"max_position_weight": 1.5},
			expectError:   true,
			errorContains: "MaxPositionWeight",
		},
		{
			name:          "min beta above max beta",
			params:        map[string]any{"min_beta": 3.0},
			expectError:   true,
			errorContains: "MinBeta",
		},
		{
			name:          "exit threshold above buy threshold",
			params:        map[string]any{"exit_alpha_threshold": 0.05},
			expectError:   true,
			errorContains: "ExitAlphaThreshold",
		},
		{
			name:          "zero price history",
			params:        map[string]any{"price_history_days": 0},
			expectError:   true,
			errorContains: "PriceHistoryDays",
		},
		{
			name:          "unknown key",
			params:        map[string]any{"strategy_class": "src.strategies.CAPM"},
			expectError:   true,
			errorContains: "strategy_class",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseConfig(tt.params)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
				assert.Contains(t, err.Error(), tt.errorContains)

				return
			}

			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}
