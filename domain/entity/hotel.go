package entity

import "strings"

// Hotel is an on-property resort hotel.
type Hotel struct {
	base
	tier           string
	area           string
	transportation []string
	amenities      []string
}

// HotelOption is a functional option for Hotel.
type HotelOption func(*Hotel)

// WithTier sets the resort tier (e.g. "deluxe", "value").
func WithTier(tier string) HotelOption {
	return func(h *Hotel) { h.tier = tier }
}

// WithArea sets the resort area.
func WithArea(area string) HotelOption {
	return func(h *Hotel) { h.area = area }
}

// WithTransportation sets the available transportation options.
func WithTransportation(modes []string) HotelOption {
	return func(h *Hotel) {
		if modes != nil {
			h.transportation = make([]string, len(modes))
			copy(h.transportation, modes)
		}
	}
}

// WithAmenities sets the amenity list.
func WithAmenities(amenities []string) HotelOption {
	return func(h *Hotel) {
		if amenities != nil {
			h.amenities = make([]string, len(amenities))
			copy(h.amenities, amenities)
		}
	}
}

// NewHotel creates a Hotel.
func NewHotel(id, name, destinationID string, opts ...HotelOption) Hotel {
	h := Hotel{base: base{id: id, name: name, destinationID: destinationID}}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// EntityType returns TypeHotel.
func (h Hotel) EntityType() Type { return TypeHotel }

// Tier returns the resort tier.
func (h Hotel) Tier() string { return h.tier }

// Area returns the resort area.
func (h Hotel) Area() string { return h.area }

// Transportation returns the available transportation options.
func (h Hotel) Transportation() []string {
	if h.transportation == nil {
		return nil
	}
	result := make([]string, len(h.transportation))
	copy(result, h.transportation)
	return result
}

// Amenities returns the amenity list.
func (h Hotel) Amenities() []string {
	if h.amenities == nil {
		return nil
	}
	result := make([]string, len(h.amenities))
	copy(result, h.amenities)
	return result
}

func (h Hotel) categoryPhrase() string {
	return strings.TrimSpace(h.tier + " resort hotel")
}

func (h Hotel) extensionParts() []string {
	parts := []string{h.locationPhrase()}

	if h.area != "" {
		parts = append(parts, "in the "+h.area+" area")
	}
	if len(h.transportation) > 0 {
		parts = append(parts, "transportation by "+strings.Join(h.transportation, ", "))
	}
	if len(h.amenities) > 0 {
		parts = append(parts, strings.Join(h.amenities, ", "))
	}

	return parts
}

var _ Entity = Hotel{}
