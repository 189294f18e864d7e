package vector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/parkscout/parkscout/domain/search"
	"github.com/parkscout/parkscout/internal/database"
)

// Store implements search.VectorStore on a relational engine, with vectors
// stored as JSON and nearest-neighbor ranking computed in process. Filter
// conditions travel as inline expression text built exclusively by
// BuildWhereClause.
type Store struct {
	db          database.Database
	logger      *slog.Logger
	mu          sync.Mutex
	initialized bool
}

// NewStore creates a Store.
func NewStore(db database.Database, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := s.db.Session(ctx).AutoMigrate(&embeddingRow{}); err != nil {
		return fmt.Errorf("%w: migrate embeddings table: %v", ErrEngine, err)
	}

	s.initialized = true
	return nil
}

// Upsert writes a record keyed by entity id, replacing any previous one.
func (s *Store) Upsert(ctx context.Context, embedding search.Embedding) error {
	return s.UpsertBatch(ctx, []search.Embedding{embedding})
}

// UpsertBatch writes records in one transaction, each keyed by id
// (last-write-wins).
func (s *Store) UpsertBatch(ctx context.Context, embeddings []search.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	if err := s.initialize(ctx); err != nil {
		return err
	}

	rows := make([]embeddingRow, len(embeddings))
	for i, e := range embeddings {
		rows[i] = rowFromEmbedding(e)
	}

	err := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("%w: upsert %d embeddings: %v", ErrEngine, len(rows), err)
	}
	return nil
}

// Get retrieves the record for an entity id.
func (s *Store) Get(ctx context.Context, id string) (search.Embedding, error) {
	if err := s.initialize(ctx); err != nil {
		return search.Embedding{}, err
	}

	var row embeddingRow
	err := s.db.Session(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return search.Embedding{}, fmt.Errorf("%w: %s", search.ErrEmbeddingNotFound, id)
		}
		return search.Embedding{}, fmt.Errorf("%w: get embedding %s: %v", ErrEngine, id, err)
	}
	return row.toEmbedding(), nil
}

// filterConditions translates a search.Filter into escaped conditions.
func filterConditions(filter search.Filter) []Condition {
	var conditions []Condition
	if filter.Model() != "" {
		conditions = append(conditions, NewCondition("model", "=", filter.Model()))
	}
	if filter.EntityType() != "" {
		conditions = append(conditions, NewCondition("entity_type", "=", filter.EntityType()))
	}
	if filter.DestinationID() != "" {
		conditions = append(conditions, NewCondition("destination_id", "=", filter.DestinationID()))
	}
	return conditions
}

// Query runs a k-nearest-neighbor search under the given scalar filter and
// returns matches ordered by ascending L2 distance. An empty store or a
// filter matching nothing yields an empty slice, not an error.
func (s *Store) Query(ctx context.Context, vector []float64, k int, filter search.Filter) ([]search.Match, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", ErrInvalidInput)
	}
	if err := s.initialize(ctx); err != nil {
		return nil, err
	}

	whereClause, err := BuildWhereClause(filterConditions(filter))
	if err != nil {
		return nil, err
	}

	db := s.db.Session(ctx).Model(&embeddingRow{})
	if whereClause != "" {
		db = db.Where(whereClause)
	}

	var rows []embeddingRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: query embeddings: %v", ErrEngine, err)
	}

	candidates := make([]candidate, 0, len(rows))
	for _, row := range rows {
		if len(row.Vector) == 0 {
			s.logger.Warn("skipping empty embedding", slog.String("id", row.ID))
			continue
		}
		candidates = append(candidates, candidate{id: row.ID, vector: []float64(row.Vector)})
	}

	return nearestK(vector, candidates, k)
}

// DeleteByDestination removes every record scoped to a destination and
// returns the number removed. Records for other destinations are untouched.
func (s *Store) DeleteByDestination(ctx context.Context, destinationID string) (int64, error) {
	if err := s.initialize(ctx); err != nil {
		return 0, err
	}

	whereClause, err := BuildWhereClause([]Condition{
		NewCondition("destination_id", "=", destinationID),
	})
	if err != nil {
		return 0, err
	}

	result := s.db.Session(ctx).Where(whereClause).Delete(&embeddingRow{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: delete embeddings for %s: %v", ErrEngine, destinationID, result.Error)
	}

	s.logger.Info("embeddings deleted",
		slog.String("destination_id", destinationID),
		slog.Int64("count", result.RowsAffected),
	)
	return result.RowsAffected, nil
}

// Stats reports record counts grouped by model.
func (s *Store) Stats(ctx context.Context) (search.Stats, error) {
	if err := s.initialize(ctx); err != nil {
		return search.Stats{}, err
	}

	var counts []struct {
		Model string
		Count int64
	}
	err := s.db.Session(ctx).
		Model(&embeddingRow{}).
		Select("model, count(*) as count").
		Group("model").
		Scan(&counts).Error
	if err != nil {
		return search.Stats{}, fmt.Errorf("%w: embedding stats: %v", ErrEngine, err)
	}

	var total int64
	byModel := make(map[string]int64, len(counts))
	for _, c := range counts {
		byModel[c.Model] = c.Count
		total += c.Count
	}

	return search.NewStats(total, byModel), nil
}

var _ search.VectorStore = (*Store)(nil)
