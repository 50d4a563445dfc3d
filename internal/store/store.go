// Package store persists strategy state, the decision audit log and raw events.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"github.com/shopspring/decimal"
)

// Backend names a DataStore implementation.
type Backend string

const (
	BackendDuckDB   Backend = "duckdb"
	BackendPostgres Backend = "postgres"
)

// Config selects and configures the storage backend.
type Config struct {
	Backend Backend `yaml:"backend" json:"backend" jsonschema:"title=Backend,enum=duckdb,enum=postgres,default=duckdb" validate:"omitempty,oneof=duckdb postgres"`
	// Path is the DuckDB database file. Empty or ":memory:" keeps everything in memory.
	Path string `yaml:"path" json:"path,omitempty" jsonschema:"title=DuckDB Path"`
	DSN  string `yaml:"dsn" json:"dsn,omitempty" jsonschema:"title=Postgres DSN" validate:"required_if=Backend postgres"`
}

// EventFilter narrows ReadEvents. Empty Types matches every type.
type EventFilter struct {
	Start optional.Option[time.Time]
	End   optional.Option[time.Time]
	Types []types.EventType
}

// DataStore is the persistence contract used by the orchestrator.
type DataStore interface {
	// SaveStrategyState replaces the stored state of a strategy.
	SaveStrategyState(ctx context.Context, name string, state map[string]any) error
	// LoadStrategyState returns nil, nil when nothing is stored for name.
	LoadStrategyState(ctx context.Context, name string) (map[string]any, error)
	// LogDecision appends a decision to the audit log.
	LogDecision(ctx context.Context, strategyName string, decision types.Decision, allocatedCapital float64) error
	WriteEvent(ctx context.Context, event types.Event) error
	// ReadEvents returns matching events ordered by timestamp.
	ReadEvents(ctx context.Context, filter EventFilter) ([]types.Event, error)
	// Decisions returns the audit log of a strategy, oldest first.
	Decisions(ctx context.Context, strategyName string) ([]types.DecisionRecord, error)
	// Export writes every table to a Parquet file under dir.
	Export(ctx context.Context, dir string) error
	Close() error
}

// New opens the backend named in config.
func New(config Config, log *logger.Logger) (DataStore, error) {
	switch config.Backend {
	case BackendDuckDB, "":
		return NewDuckDBStore(config.Path, log)
	case BackendPostgres:
		return NewPostgresStore(config.DSN, log)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown store backend %q", config.Backend)
	}
}

// NewDecisionRecord builds an audit entry. The notional is allocated capital times the target weight.
func NewDecisionRecord(strategyName string, decision types.Decision, allocatedCapital float64) types.DecisionRecord {
	notional, _ := decimal.NewFromFloat(allocatedCapital).
		Mul(decimal.NewFromFloat(decision.TargetWeight)).
		Round(2).
		Float64()

	return types.DecisionRecord{
		ID:             uuid.New().String(),
		StrategyName:   strategyName,
		Decision:       decision,
		TargetNotional: notional,
		CreatedAt:      time.Now().UTC(),
	}
}

func encodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to encode JSON column", err)
	}

	return string(raw), nil
}

func decodeState(text string) (map[string]any, error) {
	var state map[string]any
	if err := json.Unmarshal([]byte(text), &state); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStateDecodeFailed, "failed to decode stored state", err)
	}

	return state, nil
}

func decodePayload(text string) (map[string]any, error) {
	payload := map[string]any{}
	if text == "" {
		return payload, nil
	}

	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to decode event payload", err)
	}

	return payload, nil
}

func symbolOption(symbol *string) optional.Option[string] {
	if symbol == nil || *symbol == "" {
		return optional.None[string]()
	}

	return optional.Some(*symbol)
}

func symbolPtr(event types.Event) *string {
	if event.Symbol.IsNone() {
		return nil
	}

	symbol := event.Symbol.Unwrap()

	return &symbol
}

func nullSymbol(event types.Event) sql.NullString {
	if event.Symbol.IsNone() {
		return sql.NullString{}
	}

	return sql.NullString{String: event.Symbol.Unwrap(), Valid: true}
}

func eventTypeStrings(eventTypes []types.EventType) []string {
	out := make([]string, len(eventTypes))
	for i, t := range eventTypes {
		out[i] = string(t)
	}

	return out
}
