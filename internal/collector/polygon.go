package collector

import (
	"context"
	"io"
	"time"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

const polygonSourceName = "polygon"

// MarketDataAPI is the slice of a market data vendor used by the collector.
type MarketDataAPI interface {
	TickerDetails(ctx context.Context, symbol string) (types.FundamentalData, error)
	DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]types.PriceBar, error)
}

// PolygonAPI implements MarketDataAPI with the Polygon REST client.
type PolygonAPI struct {
	client *polygon.Client
}

// NewPolygonAPI creates a Polygon REST client.
func NewPolygonAPI(apiKey string) (*PolygonAPI, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon api key is required")
	}

	return &PolygonAPI{client: polygon.New(apiKey)}, nil
}

func (p *PolygonAPI) TickerDetails(ctx context.Context, symbol string) (types.FundamentalData, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	res, err := p.client.GetTickerDetails(ctx, &models.GetTickerDetailsParams{Ticker: symbol})
	if err != nil {
		return types.FundamentalData{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch ticker details for %s", symbol)
	}

	details := res.Results
	fundamental := types.FundamentalData{
		Symbol:      symbol,
		Timestamp:   time.Now().UTC(),
		CompanyName: details.Name,
		CIK:         details.CIK,
		Employees:   optional.None[int64](),
		Industry:    optional.None[string](),
	}

	if details.TotalEmployees > 0 {
		fundamental.Employees = optional.Some(int64(details.TotalEmployees))
	}

	if details.ShareClassSharesOutstanding > 0 {
		fundamental.SharesOutstanding = optional.Some(float64(details.ShareClassSharesOutstanding))
	} else if details.WeightedSharesOutstanding > 0 {
		fundamental.SharesOutstanding = optional.Some(float64(details.WeightedSharesOutstanding))
	}

	if details.SICDescription != "" {
		fundamental.Industry = optional.Some(details.SICDescription)
	}

	return fundamental, nil
}

func (p *PolygonAPI) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]types.PriceBar, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)

	var bars []types.PriceBar

	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, types.PriceBar{
			Symbol: symbol,
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", symbol)
	}

	return bars, nil
}

// PolygonCollector runs one full scan of the configured universe.
type PolygonCollector struct {
	api      MarketDataAPI
	config   Config
	logger   *logger.Logger
	now      func() time.Time
	progress io.Writer
}

// NewPolygonCollector creates a collector over api. Progress may be nil.
func NewPolygonCollector(api MarketDataAPI, config Config, log *logger.Logger, progress io.Writer) *PolygonCollector {
	return &PolygonCollector{
		api:      api,
		config:   config.WithDefaults(),
		logger:   log.Named("polygon_collector"),
		now:      func() time.Time { return time.Now().UTC() },
		progress: progress,
	}
}

// Run publishes the benchmark bars, then for each symbol its fundamentals followed by its bars.
// A symbol whose data cannot be fetched is skipped. Missing benchmark data fails the scan.
func (c *PolygonCollector) Run(ctx context.Context, publisher Publisher) (int, error) {
	to := c.now()
	from := to.AddDate(0, 0, -c.config.LookbackDays)

	marketBars, err := c.api.DailyBars(ctx, c.config.MarketSymbol, from, to)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeCollectorFailed, err, "failed to fetch market benchmark %s", c.config.MarketSymbol)
	}

	if len(marketBars) == 0 {
		return 0, errors.Newf(errors.ErrCodeCollectorFailed, "no bars for market benchmark %s", c.config.MarketSymbol)
	}

	published := 0

	for _, bar := range marketBars {
		publisher.Publish(barEvent(types.EventTypeMarketBar, bar, polygonSourceName))
		published++
	}

	c.logger.Info("Published market bars", zap.String("symbol", c.config.MarketSymbol), zap.Int("count", len(marketBars)))

	var bar *progressbar.ProgressBar
	if c.progress != nil {
		bar = progressbar.NewOptions(len(c.config.Symbols),
			progressbar.OptionSetDescription("Scanning universe"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWriter(c.progress),
		)
	}

	succeeded := 0

	for _, symbol := range c.config.Symbols {
		if err := ctx.Err(); err != nil {
			return published, errors.Wrap(errors.ErrCodeCollectorFailed, "scan cancelled", err)
		}

		if bar != nil {
			_ = bar.Add(1)
		}

		fundamental, err := c.api.TickerDetails(ctx, symbol)
		if err != nil {
			c.logger.Warn("Skipping symbol without details", zap.String("symbol", symbol), zap.Error(err))

			continue
		}

		bars, err := c.api.DailyBars(ctx, symbol, from, to)
		if err != nil || len(bars) == 0 {
			c.logger.Warn("Skipping symbol without bars", zap.String("symbol", symbol), zap.Error(err))

			continue
		}

		publisher.Publish(fundamentalEvent(fundamental, to, polygonSourceName))
		published++

		for _, priceBar := range bars {
			publisher.Publish(barEvent(types.EventTypePriceBar, priceBar, polygonSourceName))
			published++
		}

		succeeded++
	}

	if bar != nil {
		_ = bar.Finish()
	}

	c.logger.Info("Scan complete", zap.Int("succeeded", succeeded), zap.Int("universe", len(c.config.Symbols)))

	return published, nil
}
