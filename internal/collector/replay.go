package collector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

const replaySourceName = "replay"

// ReplayOptions configures a replay run.
type ReplayOptions struct {
	// BarsPath is a Parquet file with time, symbol, open, high, low, close and volume columns.
	BarsPath string
	// FundamentalsPath is an optional JSON object mapping each symbol to its fundamental_data payload.
	FundamentalsPath string
	MarketSymbol     string
	Start            optional.Option[time.Time]
	End              optional.Option[time.Time]
	// Progress receives the progress bar. Nil disables it.
	Progress io.Writer
}

// ReplaySource publishes historical bars read from Parquet through DuckDB.
type ReplaySource struct {
	db      *sql.DB
	logger  *logger.Logger
	sq      squirrel.StatementBuilderType
	options ReplayOptions
}

// NewReplaySource opens an in-memory DuckDB database over the bars file.
func NewReplaySource(options ReplayOptions, log *logger.Logger) (*ReplaySource, error) {
	if options.BarsPath == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "bars path is required")
	}

	if _, err := os.Stat(options.BarsPath); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "bars file %s not found", options.BarsPath)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	// CREATE VIEW is outside what squirrel builds.
	_, err = db.Exec(fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM read_parquet('%s')`, strings.ReplaceAll(options.BarsPath, "'", "''")))
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to read bars parquet", err)
	}

	if options.MarketSymbol == "" {
		options.MarketSymbol = "SPY"
	}

	return &ReplaySource{
		db:      db,
		logger:  log.Named("replay"),
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		options: options,
	}, nil
}

// Run publishes fundamentals first and then every bar in time order. On a shared day the
// benchmark bar goes first. It returns the number of events published.
func (r *ReplaySource) Run(ctx context.Context, publisher Publisher) (int, error) {
	firstBar, err := r.firstBarTime(ctx)
	if err != nil {
		return 0, err
	}

	published := 0

	if r.options.FundamentalsPath != "" {
		fundamentals, err := LoadFundamentals(r.options.FundamentalsPath)
		if err != nil {
			return 0, err
		}

		for _, fundamental := range fundamentals {
			publisher.Publish(fundamentalEvent(fundamental, firstBar, replaySourceName))
			published++
		}

		r.logger.Info("Published fundamentals", zap.Int("count", len(fundamentals)))
	}

	total, err := r.count(ctx)
	if err != nil {
		return published, err
	}

	var bar *progressbar.ProgressBar
	if r.options.Progress != nil {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Replaying bars"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWriter(r.options.Progress),
		)
	}

	query := r.where(r.sq.Select("time", "symbol", "open", "high", "low", "close", "volume").From("market_data")).
		OrderByClause("time ASC, CASE WHEN symbol = ? THEN 0 ELSE 1 END, symbol ASC", r.options.MarketSymbol)

	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return published, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return published, errors.Wrap(errors.ErrCodeCollectorFailed, "replay cancelled", err)
		}

		var priceBar types.PriceBar

		err := rows.Scan(&priceBar.Time, &priceBar.Symbol, &priceBar.Open, &priceBar.High, &priceBar.Low, &priceBar.Close, &priceBar.Volume)
		if err != nil {
			return published, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to scan bar", err)
		}

		eventType := types.EventTypePriceBar
		if priceBar.Symbol == r.options.MarketSymbol {
			eventType = types.EventTypeMarketBar
		}

		publisher.Publish(barEvent(eventType, priceBar, replaySourceName))
		published++

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if err := rows.Err(); err != nil {
		return published, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "error iterating bars", err)
	}

	if bar != nil {
		_ = bar.Finish()
	}

	r.logger.Info("Replay finished", zap.Int("events", published), zap.Int("bars", total))

	return published, nil
}

// Symbols lists the distinct symbols in the bars file, benchmark included.
func (r *ReplaySource) Symbols(ctx context.Context) ([]string, error) {
	rows, err := r.sq.Select("DISTINCT symbol").From("market_data").OrderBy("symbol").RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

func (r *ReplaySource) Close() error {
	if r == nil || r.db == nil {
		return nil
	}

	return r.db.Close()
}

func (r *ReplaySource) where(query squirrel.SelectBuilder) squirrel.SelectBuilder {
	if r.options.Start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": r.options.Start.Unwrap()})
	}

	if r.options.End.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": r.options.End.Unwrap()})
	}

	return query
}

func (r *ReplaySource) count(ctx context.Context) (int, error) {
	var count int

	err := r.where(r.sq.Select("COUNT(*)").From("market_data")).RunWith(r.db).QueryRowContext(ctx).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

func (r *ReplaySource) firstBarTime(ctx context.Context) (time.Time, error) {
	var first sql.NullTime

	err := r.where(r.sq.Select("MIN(time)").From("market_data")).RunWith(r.db).QueryRowContext(ctx).Scan(&first)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read first bar time", err)
	}

	if !first.Valid {
		return time.Now().UTC(), nil
	}

	return first.Time, nil
}

// LoadFundamentals reads a JSON object keyed by symbol whose values use the fundamental_data
// payload keys. Snapshots are returned sorted by symbol.
func LoadFundamentals(path string) ([]types.FundamentalData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read fundamentals file %s", path)
	}

	var bySymbol map[string]map[string]any
	if err := json.Unmarshal(raw, &bySymbol); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to parse fundamentals file", err)
	}

	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}

	slices.Sort(symbols)

	fundamentals := make([]types.FundamentalData, 0, len(symbols))
	for _, symbol := range symbols {
		fundamentals = append(fundamentals, types.FundamentalFromEvent(types.Event{
			Type:    types.EventTypeFundamentalData,
			Symbol:  optional.Some(symbol),
			Payload: bySymbol[symbol],
		}))
	}

	return fundamentals, nil
}
