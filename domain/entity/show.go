package entity

import (
	"fmt"
	"strings"
)

// Show is a stage show, parade, or nighttime spectacular.
type Show struct {
	base
	showType        string
	durationMinutes int
	tags            []string
}

// ShowOption is a functional option for Show.
type ShowOption func(*Show)

// WithShowType sets the show type (e.g. "fireworks", "stage show").
func WithShowType(t string) ShowOption {
	return func(s *Show) { s.showType = t }
}

// WithDuration sets the show duration in minutes.
func WithDuration(minutes int) ShowOption {
	return func(s *Show) { s.durationMinutes = minutes }
}

// WithShowTags sets descriptive tags.
func WithShowTags(tags []string) ShowOption {
	return func(s *Show) {
		if tags != nil {
			s.tags = make([]string, len(tags))
			copy(s.tags, tags)
		}
	}
}

// WithShowPark sets the park name.
func WithShowPark(park string) ShowOption {
	return func(s *Show) { s.parkName = park }
}

// NewShow creates a Show.
func NewShow(id, name, destinationID string, opts ...ShowOption) Show {
	s := Show{base: base{id: id, name: name, destinationID: destinationID}}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// EntityType returns TypeShow.
func (s Show) EntityType() Type { return TypeShow }

// ShowType returns the show type.
func (s Show) ShowType() string { return s.showType }

// DurationMinutes returns the duration in minutes, or 0 if unknown.
func (s Show) DurationMinutes() int { return s.durationMinutes }

// Tags returns the descriptive tags.
func (s Show) Tags() []string {
	if s.tags == nil {
		return nil
	}
	result := make([]string, len(s.tags))
	copy(result, s.tags)
	return result
}

func (s Show) categoryPhrase() string {
	return strings.TrimSpace(s.showType + " entertainment show")
}

func (s Show) extensionParts() []string {
	parts := []string{s.locationPhrase()}

	if s.durationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("about %d minutes long", s.durationMinutes))
	}
	if len(s.tags) > 0 {
		parts = append(parts, strings.Join(s.tags, ", "))
	}

	return parts
}

var _ Entity = Show{}
