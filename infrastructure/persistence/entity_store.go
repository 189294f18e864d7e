// Package persistence provides relational storage for destination entities.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/parkscout/parkscout/domain/entity"
	"github.com/parkscout/parkscout/internal/database"
)

// EntityStore implements entity.Store on a relational engine. Shared fields
// live in columns, variant fields in a JSON attributes column keyed by type.
type EntityStore struct {
	db          database.Database
	logger      *slog.Logger
	mu          sync.Mutex
	initialized bool
}

// NewEntityStore creates an EntityStore.
func NewEntityStore(db database.Database, logger *slog.Logger) *EntityStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityStore{db: db, logger: logger}
}

func (s *EntityStore) initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := s.db.Session(ctx).AutoMigrate(&entityRow{}); err != nil {
		return fmt.Errorf("migrate entities table: %w", err)
	}

	s.initialized = true
	return nil
}

// GetByID retrieves an entity by id, returning entity.ErrNotFound when no
// record exists.
func (s *EntityStore) GetByID(ctx context.Context, id string) (entity.Entity, error) {
	if err := s.initialize(ctx); err != nil {
		return nil, err
	}

	var row entityRow
	err := s.db.Session(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get entity %s: %w", id, err)
	}
	return row.toEntity()
}

// Save persists an entity, replacing any previous record with the same id.
func (s *EntityStore) Save(ctx context.Context, e entity.Entity) error {
	return s.SaveBatch(ctx, []entity.Entity{e})
}

// SaveBatch persists entities in one transaction, each keyed by id.
func (s *EntityStore) SaveBatch(ctx context.Context, entities []entity.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	if err := s.initialize(ctx); err != nil {
		return err
	}

	rows := make([]entityRow, len(entities))
	for i, e := range entities {
		row, err := rowFromEntity(e)
		if err != nil {
			return err
		}
		rows[i] = row
	}

	err := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("save %d entities: %w", len(rows), err)
	}
	return nil
}

// ListByDestination returns every entity scoped to a destination.
func (s *EntityStore) ListByDestination(ctx context.Context, destinationID string) ([]entity.Entity, error) {
	if err := s.initialize(ctx); err != nil {
		return nil, err
	}

	var rows []entityRow
	err := s.db.Session(ctx).Where("destination_id = ?", destinationID).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list entities for %s: %w", destinationID, err)
	}

	entities := make([]entity.Entity, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntity()
		if err != nil {
			s.logger.Warn("skipping unreadable entity record",
				slog.String("id", row.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// DeleteByDestination removes every entity scoped to a destination and
// returns the number removed.
func (s *EntityStore) DeleteByDestination(ctx context.Context, destinationID string) (int64, error) {
	if err := s.initialize(ctx); err != nil {
		return 0, err
	}

	result := s.db.Session(ctx).Where("destination_id = ?", destinationID).Delete(&entityRow{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete entities for %s: %w", destinationID, result.Error)
	}

	s.logger.Info("entities deleted",
		slog.String("destination_id", destinationID),
		slog.Int64("count", result.RowsAffected),
	)
	return result.RowsAffected, nil
}

var _ entity.Store = (*EntityStore)(nil)
