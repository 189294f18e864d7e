package search

// Default query parameters. The over-fetch multiplier and minimum score are
// empirically chosen and deliberately tunable; they are defaults, not
// invariants.
const (
	DefaultLimit     = 10
	DefaultMinScore  = 0.3
	DefaultOverFetch = 3
)

// Options holds the per-query semantic search parameters.
type Options struct {
	destinationID string
	entityType    string
	limit         int
	minScore      float64
}

// Option is a functional option for Options.
type Option func(*Options)

// WithDestination restricts the search to one destination.
func WithDestination(destinationID string) Option {
	return func(o *Options) { o.destinationID = destinationID }
}

// WithEntityType restricts the search to one entity category.
func WithEntityType(entityType string) Option {
	return func(o *Options) { o.entityType = entityType }
}

// WithLimit sets the maximum number of results.
func WithLimit(limit int) Option {
	return func(o *Options) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithMinScore sets the similarity floor below which results are dropped.
func WithMinScore(score float64) Option {
	return func(o *Options) { o.minScore = score }
}

// NewOptions creates Options with defaults applied.
func NewOptions(opts ...Option) Options {
	o := Options{
		limit:    DefaultLimit,
		minScore: DefaultMinScore,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DestinationID returns the destination restriction, or empty.
func (o Options) DestinationID() string { return o.destinationID }

// EntityType returns the entity type restriction, or empty.
func (o Options) EntityType() string { return o.entityType }

// Limit returns the maximum number of results.
func (o Options) Limit() int { return o.limit }

// MinScore returns the similarity floor.
func (o Options) MinScore() float64 { return o.minScore }
