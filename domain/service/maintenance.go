package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/parkscout/parkscout/domain/entity"
	"github.com/parkscout/parkscout/domain/search"
)

// DefaultChunkSize is the number of texts sent to the provider per batch
// call. Chunks are processed strictly sequentially to keep rate-limit
// behavior predictable.
const DefaultChunkSize = 10

// Maintenance keeps embedding records in step with entity content. Every
// operation is idempotent and cheap to call unconditionally on entity
// mutation: records that are already current are left alone.
type Maintenance struct {
	vectors   search.VectorStore
	embedder  search.Embedder
	logger    *slog.Logger
	chunkSize int
}

// MaintenanceOption is a functional option for Maintenance.
type MaintenanceOption func(*Maintenance)

// WithChunkSize sets the provider batch chunk size.
func WithChunkSize(n int) MaintenanceOption {
	return func(m *Maintenance) {
		if n > 0 {
			m.chunkSize = n
		}
	}
}

// WithMaintenanceLogger sets the logger.
func WithMaintenanceLogger(logger *slog.Logger) MaintenanceOption {
	return func(m *Maintenance) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMaintenance creates a Maintenance service.
func NewMaintenance(vectors search.VectorStore, embedder search.Embedder, opts ...MaintenanceOption) (*Maintenance, error) {
	if vectors == nil {
		return nil, fmt.Errorf("NewMaintenance: nil vector store")
	}
	if embedder == nil {
		return nil, fmt.Errorf("NewMaintenance: nil embedder")
	}

	m := &Maintenance{
		vectors:   vectors,
		embedder:  embedder,
		logger:    slog.Default(),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// pending describes an entity whose embedding needs (re)computation.
type pending struct {
	entity entity.Entity
	text   string
	hash   string
}

// stale reports whether an entity needs a new embedding, returning the
// canonical text and content hash it computed along the way.
func (m *Maintenance) stale(ctx context.Context, e entity.Entity) (pending, bool, error) {
	text := entity.EmbeddingText(e)
	hash := entity.ContentHash(text)
	p := pending{entity: e, text: text, hash: hash}

	existing, err := m.vectors.Get(ctx, e.ID())
	if err != nil {
		if errors.Is(err, search.ErrEmbeddingNotFound) {
			return p, true, nil
		}
		return pending{}, false, fmt.Errorf("lookup embedding %s: %w", e.ID(), err)
	}

	return p, !existing.Current(m.embedder.ModelID(), hash), nil
}

// record builds the embedding record for a pending entity and vector.
func (m *Maintenance) record(p pending, vector []float64) search.Embedding {
	return search.NewEmbedding(p.entity.ID(), m.embedder.ModelID(), vector, p.hash).
		WithMetadata(string(p.entity.EntityType()), p.entity.DestinationID(), p.entity.Name())
}

// Ensure makes the stored embedding current for one entity. When the stored
// record already matches the active model and the entity's present content
// hash, the call is a no-op.
func (m *Maintenance) Ensure(ctx context.Context, e entity.Entity) error {
	p, needsWork, err := m.stale(ctx, e)
	if err != nil {
		return err
	}
	if !needsWork {
		return nil
	}

	vector, err := m.embedder.Embed(ctx, p.text)
	if err != nil {
		return fmt.Errorf("embed %s: %w", e.ID(), err)
	}

	if err := m.vectors.Upsert(ctx, m.record(p, vector)); err != nil {
		return fmt.Errorf("upsert embedding %s: %w", e.ID(), err)
	}

	m.logger.Debug("embedding regenerated",
		slog.String("id", e.ID()),
		slog.String("model", m.embedder.ModelID()),
	)
	return nil
}

// EnsureBatch makes stored embeddings current for a batch of entities.
// Each entity's staleness is judged independently; the stale subset is driven
// through the provider in fixed-size chunks, strictly sequentially. A failed
// chunk leaves no partial records for that chunk. Returns the number of
// embeddings actually regenerated.
func (m *Maintenance) EnsureBatch(ctx context.Context, entities []entity.Entity) (int, error) {
	var work []pending
	for _, e := range entities {
		p, needsWork, err := m.stale(ctx, e)
		if err != nil {
			return 0, err
		}
		if needsWork {
			work = append(work, p)
		}
	}

	if len(work) == 0 {
		return 0, nil
	}

	regenerated := 0
	for start := 0; start < len(work); start += m.chunkSize {
		if err := ctx.Err(); err != nil {
			return regenerated, err
		}

		end := min(start+m.chunkSize, len(work))
		chunk := work[start:end]

		texts := make([]string, len(chunk))
		for i, p := range chunk {
			texts[i] = p.text
		}

		vectors, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return regenerated, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		if len(vectors) != len(chunk) {
			return regenerated, fmt.Errorf("embed batch [%d:%d]: got %d vectors for %d texts", start, end, len(vectors), len(chunk))
		}

		records := make([]search.Embedding, len(chunk))
		for i, p := range chunk {
			records[i] = m.record(p, vectors[i])
		}

		if err := m.vectors.UpsertBatch(ctx, records); err != nil {
			return regenerated, fmt.Errorf("upsert batch [%d:%d]: %w", start, end, err)
		}

		regenerated += len(chunk)
	}

	m.logger.Info("embeddings ensured",
		slog.Int("checked", len(entities)),
		slog.Int("regenerated", regenerated),
	)
	return regenerated, nil
}
