package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parkscout/parkscout/domain/entity"
)

// attributes carries the type-specific fields of an entity as a JSON column.
// A single struct covers all four variants; unused fields stay at their zero
// value and are omitted from the stored document.
type attributes struct {
	ExperienceType  string   `json:"experience_type,omitempty"`
	ThrillLevel     string   `json:"thrill_level,omitempty"`
	HeightCM        int      `json:"height_cm,omitempty"`
	SingleRider     bool     `json:"single_rider,omitempty"`
	VirtualQueue    bool     `json:"virtual_queue,omitempty"`
	PremiumQueue    string   `json:"premium_queue,omitempty"`
	ServiceType     string   `json:"service_type,omitempty"`
	Cuisines        []string `json:"cuisines,omitempty"`
	MealPeriods     []string `json:"meal_periods,omitempty"`
	PriceLevel      string   `json:"price_level,omitempty"`
	MobileOrder     bool     `json:"mobile_order,omitempty"`
	Reservations    bool     `json:"reservations,omitempty"`
	ShowType        string   `json:"show_type,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Tier            string   `json:"tier,omitempty"`
	Area            string   `json:"area,omitempty"`
	Transportation  []string `json:"transportation,omitempty"`
	Amenities       []string `json:"amenities,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// Scan implements sql.Scanner for attributes.
func (a *attributes) Scan(value any) error {
	if value == nil {
		*a = attributes{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes type %T", value)
	}
	return json.Unmarshal(data, a)
}

// Value implements driver.Valuer for attributes.
func (a attributes) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// entityRow is the GORM model for a stored entity.
type entityRow struct {
	ID            string     `gorm:"primaryKey"`
	Name          string     `gorm:"not null"`
	EntityType    string     `gorm:"index;not null"`
	DestinationID string     `gorm:"index;not null"`
	ParkName      string     ``
	Attributes    attributes `gorm:"type:json"`
	CreatedAt     time.Time  ``
	UpdatedAt     time.Time  ``
}

// TableName gives the table an explicit name instead of the GORM default.
func (entityRow) TableName() string { return "destination_entities" }

func rowFromEntity(e entity.Entity) (entityRow, error) {
	row := entityRow{
		ID:            e.ID(),
		Name:          e.Name(),
		EntityType:    string(e.EntityType()),
		DestinationID: e.DestinationID(),
		ParkName:      e.ParkName(),
	}

	switch v := e.(type) {
	case entity.Attraction:
		row.Attributes = attributes{
			ExperienceType: v.ExperienceType(),
			ThrillLevel:    string(v.Thrill()),
			HeightCM:       v.HeightRequirementCM(),
			SingleRider:    v.SingleRider(),
			VirtualQueue:   v.VirtualQueue(),
			PremiumQueue:   v.PremiumQueue(),
			Tags:           v.Tags(),
		}
	case entity.Dining:
		row.Attributes = attributes{
			ServiceType:  v.ServiceType(),
			Cuisines:     v.Cuisines(),
			MealPeriods:  v.MealPeriods(),
			PriceLevel:   string(v.Price()),
			MobileOrder:  v.MobileOrder(),
			Reservations: v.Reservations(),
			Tags:         v.Tags(),
		}
	case entity.Show:
		row.Attributes = attributes{
			ShowType:        v.ShowType(),
			DurationMinutes: v.DurationMinutes(),
			Tags:            v.Tags(),
		}
	case entity.Hotel:
		row.Attributes = attributes{
			Tier:           v.Tier(),
			Area:           v.Area(),
			Transportation: v.Transportation(),
			Amenities:      v.Amenities(),
		}
	default:
		return entityRow{}, fmt.Errorf("unsupported entity type %T", e)
	}

	return row, nil
}

func (r entityRow) toEntity() (entity.Entity, error) {
	a := r.Attributes
	switch entity.Type(r.EntityType) {
	case entity.TypeAttraction:
		return entity.NewAttraction(r.ID, r.Name, r.DestinationID,
			entity.WithAttractionPark(r.ParkName),
			entity.WithExperienceType(a.ExperienceType),
			entity.WithThrillLevel(entity.ThrillLevel(a.ThrillLevel)),
			entity.WithHeightRequirement(a.HeightCM),
			entity.WithAttractionTags(a.Tags),
			entity.WithSingleRider(a.SingleRider),
			entity.WithVirtualQueue(a.VirtualQueue),
			entity.WithPremiumQueue(a.PremiumQueue),
		), nil
	case entity.TypeDining:
		return entity.NewDining(r.ID, r.Name, r.DestinationID,
			entity.WithDiningPark(r.ParkName),
			entity.WithServiceType(a.ServiceType),
			entity.WithCuisines(a.Cuisines),
			entity.WithMealPeriods(a.MealPeriods),
			entity.WithPriceLevel(entity.PriceLevel(a.PriceLevel)),
			entity.WithMobileOrder(a.MobileOrder),
			entity.WithReservations(a.Reservations),
			entity.WithDiningTags(a.Tags),
		), nil
	case entity.TypeShow:
		return entity.NewShow(r.ID, r.Name, r.DestinationID,
			entity.WithShowPark(r.ParkName),
			entity.WithShowType(a.ShowType),
			entity.WithDuration(a.DurationMinutes),
			entity.WithShowTags(a.Tags),
		), nil
	case entity.TypeHotel:
		return entity.NewHotel(r.ID, r.Name, r.DestinationID,
			entity.WithTier(a.Tier),
			entity.WithArea(a.Area),
			entity.WithTransportation(a.Transportation),
			entity.WithAmenities(a.Amenities),
		), nil
	}
	return nil, fmt.Errorf("unknown entity type %q for %s", r.EntityType, r.ID)
}
