package entity

import (
	"fmt"
	"strings"
)

// ThrillLevel grades attraction intensity.
type ThrillLevel string

// ThrillLevel values.
const (
	ThrillFamily   ThrillLevel = "family"
	ThrillModerate ThrillLevel = "moderate"
	ThrillHigh     ThrillLevel = "thrill"
	ThrillExtreme  ThrillLevel = "extreme"
)

// Attraction is a ride or similar in-park experience.
type Attraction struct {
	base
	experienceType string
	thrillLevel    ThrillLevel
	heightCM       int
	tags           []string
	singleRider    bool
	virtualQueue   bool
	premiumQueue   string
}

// AttractionOption is a functional option for Attraction.
type AttractionOption func(*Attraction)

// WithExperienceType sets the experience type (e.g. "roller coaster ride").
func WithExperienceType(t string) AttractionOption {
	return func(a *Attraction) { a.experienceType = t }
}

// WithThrillLevel sets the thrill level.
func WithThrillLevel(level ThrillLevel) AttractionOption {
	return func(a *Attraction) { a.thrillLevel = level }
}

// WithHeightRequirement sets the minimum rider height in centimeters.
func WithHeightRequirement(cm int) AttractionOption {
	return func(a *Attraction) { a.heightCM = cm }
}

// WithAttractionTags sets descriptive tags.
func WithAttractionTags(tags []string) AttractionOption {
	return func(a *Attraction) {
		if tags != nil {
			a.tags = make([]string, len(tags))
			copy(a.tags, tags)
		}
	}
}

// WithSingleRider marks a single rider line.
func WithSingleRider(enabled bool) AttractionOption {
	return func(a *Attraction) { a.singleRider = enabled }
}

// WithVirtualQueue marks virtual queue availability.
func WithVirtualQueue(enabled bool) AttractionOption {
	return func(a *Attraction) { a.virtualQueue = enabled }
}

// WithPremiumQueue sets the paid-queue tier name, if the attraction offers one.
func WithPremiumQueue(tier string) AttractionOption {
	return func(a *Attraction) { a.premiumQueue = tier }
}

// WithAttractionPark sets the park name.
func WithAttractionPark(park string) AttractionOption {
	return func(a *Attraction) { a.parkName = park }
}

// NewAttraction creates an Attraction.
func NewAttraction(id, name, destinationID string, opts ...AttractionOption) Attraction {
	a := Attraction{base: base{id: id, name: name, destinationID: destinationID}}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// EntityType returns TypeAttraction.
func (a Attraction) EntityType() Type { return TypeAttraction }

// ExperienceType returns the experience type.
func (a Attraction) ExperienceType() string { return a.experienceType }

// Thrill returns the thrill level.
func (a Attraction) Thrill() ThrillLevel { return a.thrillLevel }

// HeightRequirementCM returns the minimum rider height in centimeters,
// or 0 when there is no restriction.
func (a Attraction) HeightRequirementCM() int { return a.heightCM }

// Tags returns the descriptive tags.
func (a Attraction) Tags() []string {
	if a.tags == nil {
		return nil
	}
	result := make([]string, len(a.tags))
	copy(result, a.tags)
	return result
}

// SingleRider reports whether a single rider line exists.
func (a Attraction) SingleRider() bool { return a.singleRider }

// VirtualQueue reports whether a virtual queue is offered.
func (a Attraction) VirtualQueue() bool { return a.virtualQueue }

// PremiumQueue returns the paid-queue tier name, or empty.
func (a Attraction) PremiumQueue() string { return a.premiumQueue }

func (a Attraction) categoryPhrase() string {
	return strings.TrimSpace(a.experienceType + " attraction")
}

func (a Attraction) extensionParts() []string {
	parts := []string{a.locationPhrase()}

	if a.thrillLevel != "" {
		parts = append(parts, string(a.thrillLevel)+" thrill level")
	}
	if a.heightCM > 0 {
		parts = append(parts, fmt.Sprintf("minimum height %d cm", a.heightCM))
	}
	if len(a.tags) > 0 {
		parts = append(parts, strings.Join(a.tags, ", "))
	}
	if a.singleRider {
		parts = append(parts, "single rider line available")
	}
	if a.virtualQueue {
		parts = append(parts, "virtual queue available")
	}
	if a.premiumQueue != "" {
		parts = append(parts, a.premiumQueue+" premium queue access")
	}

	return parts
}

var _ Entity = Attraction{}
