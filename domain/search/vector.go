package search

import "context"

// Filter restricts a k-NN query to matching scalar metadata. Conditions are
// ANDed. The zero value matches everything.
type Filter struct {
	entityType    string
	destinationID string
	model         string
}

// FilterOption is a functional option for Filter.
type FilterOption func(*Filter)

// FilterEntityType restricts results to one entity category.
func FilterEntityType(entityType string) FilterOption {
	return func(f *Filter) { f.entityType = entityType }
}

// FilterDestination restricts results to one destination.
func FilterDestination(destinationID string) FilterOption {
	return func(f *Filter) { f.destinationID = destinationID }
}

// FilterModel restricts results to records produced by one model. Search
// always sets this: distances between vectors from different models are
// meaningless.
func FilterModel(model string) FilterOption {
	return func(f *Filter) { f.model = model }
}

// NewFilter creates a Filter with options.
func NewFilter(opts ...FilterOption) Filter {
	f := Filter{}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// EntityType returns the entity type restriction, or empty.
func (f Filter) EntityType() string { return f.entityType }

// DestinationID returns the destination restriction, or empty.
func (f Filter) DestinationID() string { return f.destinationID }

// Model returns the model restriction, or empty.
func (f Filter) Model() string { return f.model }

// IsEmpty reports whether no conditions are set.
func (f Filter) IsEmpty() bool {
	return f.entityType == "" && f.destinationID == "" && f.model == ""
}

// Match pairs an entity id with its raw engine distance for one k-NN query.
type Match struct {
	id       string
	distance float64
}

// NewMatch creates a Match.
func NewMatch(id string, distance float64) Match {
	return Match{id: id, distance: distance}
}

// ID returns the entity identifier.
func (m Match) ID() string { return m.id }

// Distance returns the raw distance metric.
func (m Match) Distance() float64 { return m.distance }

// Stats reports aggregate vector store contents.
type Stats struct {
	total   int64
	byModel map[string]int64
}

// NewStats creates a Stats value.
func NewStats(total int64, byModel map[string]int64) Stats {
	cp := make(map[string]int64, len(byModel))
	for k, v := range byModel {
		cp[k] = v
	}
	return Stats{total: total, byModel: cp}
}

// Total returns the record count.
func (s Stats) Total() int64 { return s.total }

// ByModel returns record counts grouped by model.
func (s Stats) ByModel() map[string]int64 {
	cp := make(map[string]int64, len(s.byModel))
	for k, v := range s.byModel {
		cp[k] = v
	}
	return cp
}

// VectorStore is the gateway to the external vector engine.
type VectorStore interface {
	// Upsert writes a record keyed by entity id, replacing any previous one.
	Upsert(ctx context.Context, embedding Embedding) error

	// UpsertBatch writes records in one round trip, each keyed by id.
	UpsertBatch(ctx context.Context, embeddings []Embedding) error

	// Get retrieves the record for an entity id. Returns ErrEmbeddingNotFound
	// when no record exists.
	Get(ctx context.Context, id string) (Embedding, error)

	// Query runs a k-nearest-neighbor search and returns matches ordered by
	// ascending distance.
	Query(ctx context.Context, vector []float64, k int, filter Filter) ([]Match, error)

	// DeleteByDestination removes every record scoped to a destination and
	// returns the number removed.
	DeleteByDestination(ctx context.Context, destinationID string) (int64, error)

	// Stats reports record counts by model.
	Stats(ctx context.Context) (Stats, error)
}
