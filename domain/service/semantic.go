package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/parkscout/parkscout/domain/entity"
	"github.com/parkscout/parkscout/domain/search"
)

// Semantic orchestrates semantic search: embed the query, run a k-NN query
// against the vector store, convert distances to scores, drop results below
// the floor, and hydrate surviving ids into full entities.
type Semantic struct {
	vectors   search.VectorStore
	embedder  search.Embedder
	entities  entity.Store
	logger    *slog.Logger
	overFetch int
	misses    atomic.Int64
}

// SemanticOption is a functional option for Semantic.
type SemanticOption func(*Semantic)

// WithOverFetch sets the over-fetch multiplier applied to the result limit
// when querying the vector store, to absorb post-filter attrition.
func WithOverFetch(factor int) SemanticOption {
	return func(s *Semantic) {
		if factor > 0 {
			s.overFetch = factor
		}
	}
}

// WithSemanticLogger sets the logger.
func WithSemanticLogger(logger *slog.Logger) SemanticOption {
	return func(s *Semantic) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSemantic creates a Semantic search service.
func NewSemantic(vectors search.VectorStore, embedder search.Embedder, entities entity.Store, opts ...SemanticOption) (*Semantic, error) {
	if vectors == nil {
		return nil, fmt.Errorf("NewSemantic: nil vector store")
	}
	if embedder == nil {
		return nil, fmt.Errorf("NewSemantic: nil embedder")
	}
	if entities == nil {
		return nil, fmt.Errorf("NewSemantic: nil entity store")
	}

	s := &Semantic{
		vectors:   vectors,
		embedder:  embedder,
		entities:  entities,
		logger:    slog.Default(),
		overFetch: search.DefaultOverFetch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search runs a semantic query. A query with no good match returns an empty
// slice, not an error. Results preserve ascending-distance order from the
// vector store; score is monotonic in distance, so no re-sort is needed.
func (s *Semantic) Search(ctx context.Context, query string, opts ...search.Option) ([]search.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	options := search.NewOptions(opts...)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Only records produced by the active model are comparable to the query
	// vector; scalar filters narrow further.
	filterOpts := []search.FilterOption{search.FilterModel(s.embedder.ModelID())}
	if options.EntityType() != "" {
		filterOpts = append(filterOpts, search.FilterEntityType(options.EntityType()))
	}
	if options.DestinationID() != "" {
		filterOpts = append(filterOpts, search.FilterDestination(options.DestinationID()))
	}

	k := options.Limit() * s.overFetch
	matches, err := s.vectors.Query(ctx, vector, k, search.NewFilter(filterOpts...))
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	results := make([]search.Result, 0, options.Limit())
	for _, match := range matches {
		if len(results) >= options.Limit() {
			break
		}

		score := search.Score(match.Distance())
		if score < options.MinScore() {
			continue
		}

		e, err := s.entities.GetByID(ctx, match.ID())
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				// The vector store and entity store are eventually consistent;
				// an id embedded before its entity was deleted is a normal skip.
				s.misses.Add(1)
				s.logger.Debug("hydration miss", slog.String("id", match.ID()))
				continue
			}
			return nil, fmt.Errorf("hydrate %s: %w", match.ID(), err)
		}

		results = append(results, search.NewResult(e, score, match.Distance()))
	}

	return results, nil
}

// Misses returns the number of hydration misses observed since construction,
// so operators can detect drift between the vector and entity stores.
func (s *Semantic) Misses() int64 {
	return s.misses.Load()
}
