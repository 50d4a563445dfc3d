package store

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type strategyStateModel struct {
	Name      string    `gorm:"primaryKey;type:varchar(100)"`
	State     string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (strategyStateModel) TableName() string {
	return "strategy_states"
}

type decisionModel struct {
	Seq            uint64    `gorm:"primaryKey;autoIncrement"`
	ID             string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	StrategyName   string    `gorm:"type:varchar(100);index;not null"`
	Symbol         string    `gorm:"type:varchar(20);not null"`
	Action         string    `gorm:"type:varchar(10);not null"`
	TargetWeight   float64   `gorm:"not null"`
	Confidence     float64   `gorm:"not null"`
	Reasoning      string    `gorm:"type:text"`
	TargetNotional float64   `gorm:"not null"`
	CreatedAt      time.Time `gorm:"type:timestamptz"`
}

func (decisionModel) TableName() string {
	return "decisions"
}

type eventModel struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	EventType  string    `gorm:"type:varchar(30);index;not null"`
	Symbol     *string   `gorm:"type:varchar(20);index"`
	OccurredAt time.Time `gorm:"type:timestamptz;index"`
	IngestedAt time.Time `gorm:"type:timestamptz"`
	Source     string    `gorm:"type:varchar(50)"`
	Payload    string    `gorm:"type:jsonb"`
}

func (eventModel) TableName() string {
	return "events"
}

// PostgresStore keeps state, decisions and events in PostgreSQL through gorm.
type PostgresStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewPostgresStore connects to dsn and migrates the schema.
func NewPostgresStore(dsn string, log *logger.Logger) (*PostgresStore, error) {
	log = log.Named("postgres_store")

	if dsn == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error("Failed to connect to postgres", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to connect to postgres", err)
	}

	if err := db.AutoMigrate(&strategyStateModel{}, &decisionModel{}, &eventModel{}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to migrate postgres schema", err)
	}

	log.Info("Postgres store ready")

	return &PostgresStore{db: db, logger: log}, nil
}

func (s *PostgresStore) SaveStrategyState(ctx context.Context, name string, state map[string]any) error {
	text, err := encodeJSON(state)
	if err != nil {
		return err
	}

	model := strategyStateModel{Name: name, State: text, UpdatedAt: time.Now().UTC()}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to save state of %s", name)
	}

	return nil
}

func (s *PostgresStore) LoadStrategyState(ctx context.Context, name string) (map[string]any, error) {
	var model strategyStateModel

	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to load state of %s", name)
	}

	return decodeState(model.State)
}

func (s *PostgresStore) LogDecision(ctx context.Context, strategyName string, decision types.Decision, allocatedCapital float64) error {
	model := toDecisionModel(NewDecisionRecord(strategyName, decision, allocatedCapital))

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert decision", err)
	}

	return nil
}

func (s *PostgresStore) Decisions(ctx context.Context, strategyName string) ([]types.DecisionRecord, error) {
	var models []decisionModel

	err := s.db.WithContext(ctx).Where("strategy_name = ?", strategyName).Order("seq ASC").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query decisions", err)
	}

	records := make([]types.DecisionRecord, 0, len(models))
	for _, model := range models {
		records = append(records, fromDecisionModel(model))
	}

	return records, nil
}

func (s *PostgresStore) WriteEvent(ctx context.Context, event types.Event) error {
	model, err := toEventModel(event)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert event", err)
	}

	return nil
}

func (s *PostgresStore) ReadEvents(ctx context.Context, filter EventFilter) ([]types.Event, error) {
	query := s.db.WithContext(ctx).Order("occurred_at ASC").Order("id ASC")

	if filter.Start.IsSome() {
		query = query.Where("occurred_at >= ?", filter.Start.Unwrap().UTC())
	}

	if filter.End.IsSome() {
		query = query.Where("occurred_at <= ?", filter.End.Unwrap().UTC())
	}

	if len(filter.Types) > 0 {
		query = query.Where("event_type IN ?", eventTypeStrings(filter.Types))
	}

	var models []eventModel
	if err := query.Find(&models).Error; err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query events", err)
	}

	events := make([]types.Event, 0, len(models))

	for _, model := range models {
		event, err := fromEventModel(model)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return events, nil
}

// Export stages every table in an in-memory DuckDB database and writes the same Parquet
// files as DuckDBStore.Export.
func (s *PostgresStore) Export(ctx context.Context, dir string) error {
	staging, err := NewDuckDBStore("", s.logger)
	if err != nil {
		return err
	}
	defer staging.Close()

	var states []strategyStateModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&states).Error; err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read states for export", err)
	}

	for _, model := range states {
		state, err := decodeState(model.State)
		if err != nil {
			return err
		}

		if err := staging.SaveStrategyState(ctx, model.Name, state); err != nil {
			return err
		}
	}

	var decisions []decisionModel
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&decisions).Error; err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read decisions for export", err)
	}

	for _, model := range decisions {
		if err := staging.insertDecision(ctx, fromDecisionModel(model)); err != nil {
			return err
		}
	}

	events, err := s.ReadEvents(ctx, EventFilter{})
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := staging.WriteEvent(ctx, event); err != nil {
			return err
		}
	}

	return staging.Export(ctx, dir)
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func toDecisionModel(record types.DecisionRecord) decisionModel {
	return decisionModel{
		ID:             record.ID,
		StrategyName:   record.StrategyName,
		Symbol:         record.Decision.Symbol,
		Action:         string(record.Decision.Action),
		TargetWeight:   record.Decision.TargetWeight,
		Confidence:     record.Decision.Confidence,
		Reasoning:      record.Decision.Reasoning,
		TargetNotional: record.TargetNotional,
		CreatedAt:      record.CreatedAt,
	}
}

func fromDecisionModel(model decisionModel) types.DecisionRecord {
	return types.DecisionRecord{
		ID:           model.ID,
		StrategyName: model.StrategyName,
		Decision: types.Decision{
			Symbol:       model.Symbol,
			Action:       types.Action(model.Action),
			TargetWeight: model.TargetWeight,
			Confidence:   model.Confidence,
			Reasoning:    model.Reasoning,
		},
		TargetNotional: model.TargetNotional,
		CreatedAt:      model.CreatedAt,
	}
}

func toEventModel(event types.Event) (eventModel, error) {
	payload, err := encodeJSON(event.Payload)
	if err != nil {
		return eventModel{}, err
	}

	return eventModel{
		EventType:  string(event.Type),
		Symbol:     symbolPtr(event),
		OccurredAt: event.Timestamp.UTC(),
		IngestedAt: event.IngestedAt.UTC(),
		Source:     event.Source,
		Payload:    payload,
	}, nil
}

func fromEventModel(model eventModel) (types.Event, error) {
	payload, err := decodePayload(model.Payload)
	if err != nil {
		return types.Event{}, err
	}

	return types.Event{
		Type:       types.EventType(model.EventType),
		Symbol:     symbolOption(model.Symbol),
		Timestamp:  model.OccurredAt,
		IngestedAt: model.IngestedAt,
		Source:     model.Source,
		Payload:    payload,
	}, nil
}
