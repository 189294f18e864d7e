package search

import "time"

// Embedding is a stored vector record keyed by entity id. The model id and
// text hash stamped onto the record drive the staleness check: a record is
// current only when both still match.
type Embedding struct {
	id            string
	model         string
	vector        []float64
	textHash      string
	entityType    string
	destinationID string
	name          string
	createdAt     time.Time
}

// NewEmbedding creates an Embedding stamped with the generating model and the
// content hash of the embedded text.
func NewEmbedding(id, model string, vector []float64, textHash string) Embedding {
	v := make([]float64, len(vector))
	copy(v, vector)
	return Embedding{
		id:        id,
		model:     model,
		vector:    v,
		textHash:  textHash,
		createdAt: time.Now().UTC(),
	}
}

// WithMetadata returns a copy carrying denormalized entity attributes used
// for scalar filtering.
func (e Embedding) WithMetadata(entityType, destinationID, name string) Embedding {
	e.entityType = entityType
	e.destinationID = destinationID
	e.name = name
	return e
}

// WithCreatedAt returns a copy with the given creation time.
func (e Embedding) WithCreatedAt(t time.Time) Embedding {
	e.createdAt = t
	return e
}

// ID returns the entity id the record belongs to.
func (e Embedding) ID() string { return e.id }

// Model returns the fully-qualified id of the generating model.
func (e Embedding) Model() string { return e.model }

// Vector returns the embedding vector.
func (e Embedding) Vector() []float64 {
	v := make([]float64, len(e.vector))
	copy(v, e.vector)
	return v
}

// TextHash returns the content hash of the embedded text.
func (e Embedding) TextHash() string { return e.textHash }

// EntityTypeTag returns the denormalized entity category tag.
func (e Embedding) EntityTypeTag() string { return e.entityType }

// DestinationID returns the denormalized destination id.
func (e Embedding) DestinationID() string { return e.destinationID }

// EntityName returns the denormalized display name.
func (e Embedding) EntityName() string { return e.name }

// CreatedAt returns the record creation time.
func (e Embedding) CreatedAt() time.Time { return e.createdAt }

// Dimension returns the vector length.
func (e Embedding) Dimension() int { return len(e.vector) }

// Current reports whether the record is up to date for the given model and
// text hash. A mismatch on either axis marks the record stale.
func (e Embedding) Current(model, textHash string) bool {
	return e.model == model && e.textHash == textHash
}
