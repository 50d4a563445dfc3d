package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"go.uber.org/zap"
)

var exportTables = []string{"strategy_states", "decisions", "events"}

// DuckDBStore keeps state, decisions and events in a DuckDB database.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBStore opens or creates the database at path. An empty path or ":memory:" opens
// an in-memory database.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	log = log.Named("duckdb_store")

	if path == ":memory:" {
		path = ""
	}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create database directory", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to connect to database", err)
	}

	s := &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	log.Info("DuckDB store ready", zap.String("path", path))

	return s, nil
}

func (s *DuckDBStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS event_id_seq;
		CREATE SEQUENCE IF NOT EXISTS decision_seq;
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create sequences", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS strategy_states (
			name TEXT PRIMARY KEY,
			state TEXT,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create strategy_states table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			seq BIGINT DEFAULT nextval('decision_seq'),
			id TEXT PRIMARY KEY,
			strategy_name TEXT,
			symbol TEXT,
			action TEXT,
			target_weight DOUBLE,
			confidence DOUBLE,
			reasoning TEXT,
			target_notional DOUBLE,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create decisions table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id BIGINT DEFAULT nextval('event_id_seq'),
			event_type TEXT,
			symbol TEXT,
			occurred_at TIMESTAMP,
			ingested_at TIMESTAMP,
			source TEXT,
			payload TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create events table", err)
	}

	return nil
}

func (s *DuckDBStore) SaveStrategyState(ctx context.Context, name string, state map[string]any) error {
	text, err := encodeJSON(state)
	if err != nil {
		return err
	}

	_, err = s.sq.
		Insert("strategy_states").
		Options("OR REPLACE").
		Columns("name", "state", "updated_at").
		Values(name, text, time.Now().UTC()).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to save state of %s", name)
	}

	s.logger.Debug("Strategy state saved", zap.String("strategy", name), zap.Int("bytes", len(text)))

	return nil
}

func (s *DuckDBStore) LoadStrategyState(ctx context.Context, name string) (map[string]any, error) {
	var text string

	err := s.sq.
		Select("state").
		From("strategy_states").
		Where(squirrel.Eq{"name": name}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to load state of %s", name)
	}

	return decodeState(text)
}

func (s *DuckDBStore) LogDecision(ctx context.Context, strategyName string, decision types.Decision, allocatedCapital float64) error {
	return s.insertDecision(ctx, NewDecisionRecord(strategyName, decision, allocatedCapital))
}

func (s *DuckDBStore) insertDecision(ctx context.Context, record types.DecisionRecord) error {
	_, err := s.sq.
		Insert("decisions").
		Columns(
			"id", "strategy_name", "symbol", "action", "target_weight",
			"confidence", "reasoning", "target_notional", "created_at",
		).
		Values(
			record.ID, record.StrategyName, record.Decision.Symbol, string(record.Decision.Action),
			record.Decision.TargetWeight, record.Decision.Confidence, record.Decision.Reasoning,
			record.TargetNotional, record.CreatedAt.UTC(),
		).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert decision", err)
	}

	return nil
}

func (s *DuckDBStore) Decisions(ctx context.Context, strategyName string) ([]types.DecisionRecord, error) {
	rows, err := s.sq.
		Select(
			"id", "strategy_name", "symbol", "action", "target_weight",
			"confidence", "reasoning", "target_notional", "created_at",
		).
		From("decisions").
		Where(squirrel.Eq{"strategy_name": strategyName}).
		OrderBy("seq ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query decisions", err)
	}
	defer rows.Close()

	var records []types.DecisionRecord

	for rows.Next() {
		var (
			record types.DecisionRecord
			action string
		)

		err := rows.Scan(
			&record.ID,
			&record.StrategyName,
			&record.Decision.Symbol,
			&action,
			&record.Decision.TargetWeight,
			&record.Decision.Confidence,
			&record.Decision.Reasoning,
			&record.TargetNotional,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan decision", err)
		}

		record.Decision.Action = types.Action(action)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating decisions", err)
	}

	return records, nil
}

func (s *DuckDBStore) WriteEvent(ctx context.Context, event types.Event) error {
	payload, err := encodeJSON(event.Payload)
	if err != nil {
		return err
	}

	_, err = s.sq.
		Insert("events").
		Columns("event_type", "symbol", "occurred_at", "ingested_at", "source", "payload").
		Values(string(event.Type), nullSymbol(event), event.Timestamp.UTC(), event.IngestedAt.UTC(), event.Source, payload).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert event", err)
	}

	return nil
}

func (s *DuckDBStore) ReadEvents(ctx context.Context, filter EventFilter) ([]types.Event, error) {
	query := s.sq.
		Select("event_type", "symbol", "occurred_at", "ingested_at", "source", "payload").
		From("events").
		OrderBy("occurred_at ASC", "id ASC")

	if filter.Start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"occurred_at": filter.Start.Unwrap().UTC()})
	}

	if filter.End.IsSome() {
		query = query.Where(squirrel.LtOrEq{"occurred_at": filter.End.Unwrap().UTC()})
	}

	if len(filter.Types) > 0 {
		query = query.Where(squirrel.Eq{"event_type": eventTypeStrings(filter.Types)})
	}

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query events", err)
	}
	defer rows.Close()

	var events []types.Event

	for rows.Next() {
		var (
			event     types.Event
			eventType string
			symbol    sql.NullString
			payload   string
		)

		if err := rows.Scan(&eventType, &symbol, &event.Timestamp, &event.IngestedAt, &event.Source, &payload); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan event", err)
		}

		event.Type = types.EventType(eventType)

		if symbol.Valid {
			event.Symbol = symbolOption(&symbol.String)
		}

		event.Payload, err = decodePayload(payload)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating events", err)
	}

	return events, nil
}

// Export copies every table into <dir>/<table>.parquet.
func (s *DuckDBStore) Export(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create export directory", err)
	}

	for _, table := range exportTables {
		target := filepath.Join(dir, table+".parquet")

		// COPY does not take bind parameters for the target path.
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`, table, strings.ReplaceAll(target, "'", "''")))
		if err != nil {
			return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to export %s to Parquet", table)
		}

		s.logger.Info("Exported table to Parquet", zap.String("table", table), zap.String("path", target))
	}

	return nil
}

func (s *DuckDBStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}
