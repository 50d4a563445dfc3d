package capm

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-equity/internal/strategy"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
)

// Config holds the CAPM value strategy thresholds.
type Config struct {
	// Universe screen
	MinMarketCap    float64  `yaml:"min_market_cap" json:"min_market_cap" jsonschema:"title=Minimum Market Cap,description=Minimum market capitalization in dollars,default=500000000" validate:"gte=0"`
	MinHistoryDays  int      `yaml:"min_history_days" json:"min_history_days" jsonschema:"title=Minimum History Days,description=Trading days of price history required by the universe screen,default=252" validate:"gte=0"`
	ExcludedSectors []string `yaml:"excluded_sectors" json:"excluded_sectors" jsonschema:"title=Excluded Sectors,description=Industries removed from the universe"`

	// Beta
	BetaLookbackDays int     `yaml:"beta_lookback_days" json:"beta_lookback_days" jsonschema:"title=Beta Lookback Days,description=Most recent prices used for beta,default=252" validate:"gte=2"`
	MinBeta          float64 `yaml:"min_beta" json:"min_beta" jsonschema:"title=Minimum Beta,default=0.2" validate:"ltefield=MaxBeta"`
	MaxBeta          float64 `yaml:"max_beta" json:"max_beta" jsonschema:"title=Maximum Beta,default=2.5"`

	// Valuation
	RiskFreeRate              float64 `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk Free Rate,description=Annual risk free rate,default=0.05"`
	ExpectedMarketReturn      float64 `yaml:"expected_market_return" json:"expected_market_return" jsonschema:"title=Expected Market Return,description=Annual market return used when the historical one is unavailable,default=0.1"`
	UseHistoricalMarketReturn bool    `yaml:"use_historical_market_return" json:"use_historical_market_return" jsonschema:"title=Use Historical Market Return,default=true"`

	// Decision
	BuyAlphaThreshold  float64 `yaml:"buy_alpha_threshold" json:"buy_alpha_threshold" jsonschema:"title=Buy Alpha Threshold,default=0.02"`
	ExitAlphaThreshold float64 `yaml:"exit_alpha_threshold" json:"exit_alpha_threshold" jsonschema:"title=Exit Alpha Threshold,default=-0.02" validate:"ltefield=BuyAlphaThreshold"`
	MinSharpeForBuy    float64 `yaml:"min_sharpe_for_buy" json:"min_sharpe_for_buy" jsonschema:"title=Minimum Sharpe For Buy,default=0.5"`
	MaxPositionWeight  float64 `yaml:"max_position_weight" json:"max_position_weight" jsonschema:"title=Maximum Position Weight,description=Largest fraction of allocated capital per symbol,minimum=0,maximum=1,default=0.1" validate:"gte=0,lte=1"`
	ConfidenceScaling  bool    `yaml:"confidence_scaling" json:"confidence_scaling" jsonschema:"title=Confidence Scaling,description=Scale the target weight by alpha and sharpe,default=true"`

	// State
	PriceHistoryDays   int    `yaml:"price_history_days" json:"price_history_days" jsonschema:"title=Price History Days,description=Capacity of every bounded price history,default=300" validate:"gte=1"`
	MarketSymbol       string `yaml:"market_symbol" json:"market_symbol" jsonschema:"title=Market Symbol,description=Benchmark ticker,default=SPY" validate:"required"`
	MinPipelineHistory int    `yaml:"min_pipeline_history" json:"min_pipeline_history" jsonschema:"title=Minimum Pipeline History,description=Price and market points required before the pipeline runs,default=20" validate:"gte=2"`
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MinMarketCap:              500_000_000,
		MinHistoryDays:            252,
		ExcludedSectors:           []string{},
		BetaLookbackDays:          252,
		MinBeta:                   0.2,
		MaxBeta:                   2.5,
		RiskFreeRate:              0.05,
		ExpectedMarketReturn:      0.10,
		UseHistoricalMarketReturn: true,
		BuyAlphaThreshold:         0.02,
		ExitAlphaThreshold:        -0.02,
		MinSharpeForBuy:           0.5,
		MaxPositionWeight:         0.10,
		ConfidenceScaling:         true,
		PriceHistoryDays:          300,
		MarketSymbol:              "SPY",
		MinPipelineHistory:        20,
	}
}

// ParseConfig applies params on top of DefaultConfig and validates the result.
func ParseConfig(params map[string]any) (Config, error) {
	config := DefaultConfig()

	if err := strategy.DecodeParams(params, &config); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate validates the Config.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid capm config", err)
	}

	return nil
}
