package entity

import "strings"

// PriceLevel is the symbolic price tier reported by the upstream source.
type PriceLevel string

// PriceLevel values.
const (
	PriceBudget    PriceLevel = "$"
	PriceModerate  PriceLevel = "$$"
	PriceUpscale   PriceLevel = "$$$"
	PriceSignature PriceLevel = "$$$$"
)

// pricePhrase maps a symbolic price level to a natural-language tier, so the
// embedding sees "fine dining" rather than "$$$$".
func (p PriceLevel) pricePhrase() string {
	switch p {
	case PriceBudget:
		return "budget friendly dining"
	case PriceModerate:
		return "moderately priced dining"
	case PriceUpscale:
		return "upscale dining"
	case PriceSignature:
		return "fine dining signature experience"
	}
	return ""
}

// Dining is a restaurant or other food venue.
type Dining struct {
	base
	serviceType  string
	cuisines     []string
	mealPeriods  []string
	priceLevel   PriceLevel
	mobileOrder  bool
	reservations bool
	tags         []string
}

// DiningOption is a functional option for Dining.
type DiningOption func(*Dining)

// WithServiceType sets the service type (e.g. "table service").
func WithServiceType(t string) DiningOption {
	return func(d *Dining) { d.serviceType = t }
}

// WithCuisines sets the cuisine list.
func WithCuisines(cuisines []string) DiningOption {
	return func(d *Dining) {
		if cuisines != nil {
			d.cuisines = make([]string, len(cuisines))
			copy(d.cuisines, cuisines)
		}
	}
}

// WithMealPeriods sets the served meal periods (e.g. breakfast, dinner).
func WithMealPeriods(periods []string) DiningOption {
	return func(d *Dining) {
		if periods != nil {
			d.mealPeriods = make([]string, len(periods))
			copy(d.mealPeriods, periods)
		}
	}
}

// WithPriceLevel sets the symbolic price tier.
func WithPriceLevel(level PriceLevel) DiningOption {
	return func(d *Dining) { d.priceLevel = level }
}

// WithMobileOrder marks mobile ordering support.
func WithMobileOrder(enabled bool) DiningOption {
	return func(d *Dining) { d.mobileOrder = enabled }
}

// WithReservations marks that reservations are accepted.
func WithReservations(enabled bool) DiningOption {
	return func(d *Dining) { d.reservations = enabled }
}

// WithDiningTags sets descriptive tags.
func WithDiningTags(tags []string) DiningOption {
	return func(d *Dining) {
		if tags != nil {
			d.tags = make([]string, len(tags))
			copy(d.tags, tags)
		}
	}
}

// WithDiningPark sets the park name.
func WithDiningPark(park string) DiningOption {
	return func(d *Dining) { d.parkName = park }
}

// NewDining creates a Dining entity.
func NewDining(id, name, destinationID string, opts ...DiningOption) Dining {
	d := Dining{base: base{id: id, name: name, destinationID: destinationID}}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// EntityType returns TypeDining.
func (d Dining) EntityType() Type { return TypeDining }

// ServiceType returns the service type.
func (d Dining) ServiceType() string { return d.serviceType }

// Cuisines returns the cuisine list.
func (d Dining) Cuisines() []string {
	if d.cuisines == nil {
		return nil
	}
	result := make([]string, len(d.cuisines))
	copy(result, d.cuisines)
	return result
}

// MealPeriods returns the served meal periods.
func (d Dining) MealPeriods() []string {
	if d.mealPeriods == nil {
		return nil
	}
	result := make([]string, len(d.mealPeriods))
	copy(result, d.mealPeriods)
	return result
}

// Price returns the symbolic price tier.
func (d Dining) Price() PriceLevel { return d.priceLevel }

// MobileOrder reports whether mobile ordering is supported.
func (d Dining) MobileOrder() bool { return d.mobileOrder }

// Reservations reports whether reservations are accepted.
func (d Dining) Reservations() bool { return d.reservations }

// Tags returns the descriptive tags.
func (d Dining) Tags() []string {
	if d.tags == nil {
		return nil
	}
	result := make([]string, len(d.tags))
	copy(result, d.tags)
	return result
}

func (d Dining) categoryPhrase() string {
	return strings.TrimSpace(d.serviceType + " restaurant")
}

func (d Dining) extensionParts() []string {
	parts := []string{d.locationPhrase()}

	if len(d.cuisines) > 0 {
		parts = append(parts, strings.Join(d.cuisines, ", ")+" cuisine")
	}
	if len(d.mealPeriods) > 0 {
		parts = append(parts, "serving "+strings.Join(d.mealPeriods, ", "))
	}
	parts = append(parts, d.priceLevel.pricePhrase())
	if d.mobileOrder {
		parts = append(parts, "mobile ordering available")
	}
	if d.reservations {
		parts = append(parts, "reservations accepted")
	}
	if len(d.tags) > 0 {
		parts = append(parts, strings.Join(d.tags, ", "))
	}

	return parts
}

var _ Entity = Dining{}
