// Package entity provides the destination entity model: attractions, dining,
// shows, and hotels, together with the canonical text rendering used as
// embedding input.
package entity

// Type represents the category of a destination entity.
type Type string

// Type values.
const (
	TypeAttraction Type = "ATTRACTION"
	TypeDining     Type = "RESTAURANT"
	TypeShow       Type = "SHOW"
	TypeHotel      Type = "HOTEL"
)

// IsValid reports whether the type is one of the known categories.
func (t Type) IsValid() bool {
	switch t {
	case TypeAttraction, TypeDining, TypeShow, TypeHotel:
		return true
	}
	return false
}

// Entity is the sealed sum type over the four destination record variants.
// Each variant supplies its own category phrase and type-specific extension
// for canonical text rendering; the unexported methods keep the set of
// implementations closed to this package.
type Entity interface {
	// ID returns the upstream entity identifier.
	ID() string

	// Name returns the display name.
	Name() string

	// EntityType returns the category tag.
	EntityType() Type

	// DestinationID returns the owning destination (e.g. "wdw", "dlr").
	DestinationID() string

	// ParkName returns the park the entity belongs to, if any.
	ParkName() string

	// categoryPhrase renders the category as natural language rather than an
	// enum token, because embedding models are trained on prose.
	categoryPhrase() string

	// extensionParts returns the type-specific phrase list. Empty strings are
	// dropped by the text builder.
	extensionParts() []string
}

// base carries the fields shared by every variant.
type base struct {
	id            string
	name          string
	destinationID string
	parkName      string
}

func (b base) ID() string            { return b.id }
func (b base) Name() string          { return b.name }
func (b base) DestinationID() string { return b.destinationID }
func (b base) ParkName() string      { return b.parkName }

// locationPhrase renders the park context, or empty if unknown.
func (b base) locationPhrase() string {
	if b.parkName == "" {
		return ""
	}
	return "located at " + b.parkName
}
