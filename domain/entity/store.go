package entity

import "context"

// Store defines persistence operations for destination entities.
type Store interface {
	// GetByID retrieves a single entity. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (Entity, error)

	// Save persists an entity, overwriting any previous version.
	Save(ctx context.Context, e Entity) error

	// SaveBatch persists entities in one transaction.
	SaveBatch(ctx context.Context, entities []Entity) error

	// ListByDestination returns every entity owned by a destination.
	ListByDestination(ctx context.Context, destinationID string) ([]Entity, error)

	// DeleteByDestination removes every entity owned by a destination and
	// returns the number removed.
	DeleteByDestination(ctx context.Context, destinationID string) (int64, error)
}
