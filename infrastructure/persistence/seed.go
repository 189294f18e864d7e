package persistence

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/parkscout/parkscout/domain/entity"
)

// SeedFile is the on-disk YAML document describing a destination catalog.
type SeedFile struct {
	DestinationID string           `yaml:"destination_id"`
	Attractions   []seedAttraction `yaml:"attractions"`
	Dining        []seedDining     `yaml:"dining"`
	Shows         []seedShow       `yaml:"shows"`
	Hotels        []seedHotel      `yaml:"hotels"`
}

type seedAttraction struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Park           string   `yaml:"park"`
	ExperienceType string   `yaml:"experience_type"`
	ThrillLevel    string   `yaml:"thrill_level"`
	HeightCM       int      `yaml:"height_cm"`
	Tags           []string `yaml:"tags"`
	SingleRider    bool     `yaml:"single_rider"`
	VirtualQueue   bool     `yaml:"virtual_queue"`
	PremiumQueue   string   `yaml:"premium_queue"`
}

type seedDining struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Park         string   `yaml:"park"`
	ServiceType  string   `yaml:"service_type"`
	Cuisines     []string `yaml:"cuisines"`
	MealPeriods  []string `yaml:"meal_periods"`
	PriceLevel   string   `yaml:"price_level"`
	MobileOrder  bool     `yaml:"mobile_order"`
	Reservations bool     `yaml:"reservations"`
	Tags         []string `yaml:"tags"`
}

type seedShow struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Park            string   `yaml:"park"`
	ShowType        string   `yaml:"show_type"`
	DurationMinutes int      `yaml:"duration_minutes"`
	Tags            []string `yaml:"tags"`
}

type seedHotel struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Tier           string   `yaml:"tier"`
	Area           string   `yaml:"area"`
	Transportation []string `yaml:"transportation"`
	Amenities      []string `yaml:"amenities"`
}

// LoadSeed parses a YAML seed document into domain entities.
func LoadSeed(r io.Reader) ([]entity.Entity, error) {
	var file SeedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if file.DestinationID == "" {
		return nil, fmt.Errorf("seed file missing destination_id")
	}

	entities := make([]entity.Entity, 0,
		len(file.Attractions)+len(file.Dining)+len(file.Shows)+len(file.Hotels))

	for _, a := range file.Attractions {
		if a.ID == "" || a.Name == "" {
			return nil, fmt.Errorf("attraction seed entry missing id or name")
		}
		entities = append(entities, entity.NewAttraction(a.ID, a.Name, file.DestinationID,
			entity.WithAttractionPark(a.Park),
			entity.WithExperienceType(a.ExperienceType),
			entity.WithThrillLevel(entity.ThrillLevel(a.ThrillLevel)),
			entity.WithHeightRequirement(a.HeightCM),
			entity.WithAttractionTags(a.Tags),
			entity.WithSingleRider(a.SingleRider),
			entity.WithVirtualQueue(a.VirtualQueue),
			entity.WithPremiumQueue(a.PremiumQueue),
		))
	}
	for _, d := range file.Dining {
		if d.ID == "" || d.Name == "" {
			return nil, fmt.Errorf("dining seed entry missing id or name")
		}
		entities = append(entities, entity.NewDining(d.ID, d.Name, file.DestinationID,
			entity.WithDiningPark(d.Park),
			entity.WithServiceType(d.ServiceType),
			entity.WithCuisines(d.Cuisines),
			entity.WithMealPeriods(d.MealPeriods),
			entity.WithPriceLevel(entity.PriceLevel(d.PriceLevel)),
			entity.WithMobileOrder(d.MobileOrder),
			entity.WithReservations(d.Reservations),
			entity.WithDiningTags(d.Tags),
		))
	}
	for _, s := range file.Shows {
		if s.ID == "" || s.Name == "" {
			return nil, fmt.Errorf("show seed entry missing id or name")
		}
		entities = append(entities, entity.NewShow(s.ID, s.Name, file.DestinationID,
			entity.WithShowPark(s.Park),
			entity.WithShowType(s.ShowType),
			entity.WithDuration(s.DurationMinutes),
			entity.WithShowTags(s.Tags),
		))
	}
	for _, h := range file.Hotels {
		if h.ID == "" || h.Name == "" {
			return nil, fmt.Errorf("hotel seed entry missing id or name")
		}
		entities = append(entities, entity.NewHotel(h.ID, h.Name, file.DestinationID,
			entity.WithTier(h.Tier),
			entity.WithArea(h.Area),
			entity.WithTransportation(h.Transportation),
			entity.WithAmenities(h.Amenities),
		))
	}

	return entities, nil
}

// LoadSeedFile reads and parses a YAML seed document from disk.
func LoadSeedFile(path string) ([]entity.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadSeed(f)
}
