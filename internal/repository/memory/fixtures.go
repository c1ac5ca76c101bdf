package memory

import (
	"fmt"
	"os"

	"hotelcore/internal/domain"
	"hotelcore/internal/utils"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML seed for a dev-mode store. Rooms are referenced by
// number since IDs are assigned while seeding.
type Fixtures struct {
	Properties []PropertyFixture `yaml:"properties"`
}

type PropertyFixture struct {
	Name     string         `yaml:"name"`
	Currency string         `yaml:"currency"`
	Timezone string         `yaml:"timezone"`
	Rooms    []RoomFixture  `yaml:"rooms"`
	Guests   []GuestFixture `yaml:"guests"`
	Rates    []RateFixture  `yaml:"rates"`
}

type RoomFixture struct {
	Number    string            `yaml:"number"`
	RoomType  string            `yaml:"room_type"`
	BasePrice int64             `yaml:"base_price"`
	Status    domain.RoomStatus `yaml:"status"`
}

type GuestFixture struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
}

type RateFixture struct {
	Name            string          `yaml:"name"`
	Type            domain.RateType `yaml:"type"`
	Price           *int64          `yaml:"price"`
	DiscountPercent string          `yaml:"discount_percent"`
	DateFrom        string          `yaml:"date_from"`
	DateTo          string          `yaml:"date_to"`
	MinStay         *int32          `yaml:"min_stay"`
	Rooms           []string        `yaml:"rooms"`
	DaysOfWeek      []int32         `yaml:"days_of_week"`
	Inactive        bool            `yaml:"inactive"`
}

// LoadFixtures reads and parses a fixtures file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// Seed loads every fixture into the store and returns the created property IDs.
func (s *Store) Seed(f *Fixtures) ([]int64, error) {
	var ids []int64
	for _, pf := range f.Properties {
		p := s.AddProperty(domain.Property{Name: pf.Name, Currency: pf.Currency, Timezone: pf.Timezone})
		ids = append(ids, p.ID)

		roomIDs := make(map[string]int64, len(pf.Rooms))
		for _, rf := range pf.Rooms {
			r := s.AddRoom(domain.Room{PropertyID: p.ID, Number: rf.Number, RoomType: rf.RoomType, BasePrice: rf.BasePrice, Status: rf.Status})
			roomIDs[rf.Number] = r.ID
		}
		for _, gf := range pf.Guests {
			s.AddGuest(domain.Guest{PropertyID: p.ID, FirstName: gf.FirstName, LastName: gf.LastName, Email: gf.Email, Phone: gf.Phone})
		}
		for _, rf := range pf.Rates {
			rate, err := rf.toRate(p.ID, roomIDs)
			if err != nil {
				return ids, fmt.Errorf("property %q rate %q: %w", pf.Name, rf.Name, err)
			}
			s.AddRate(rate)
		}
	}
	return ids, nil
}

func (rf RateFixture) toRate(propertyID int64, roomIDs map[string]int64) (domain.Rate, error) {
	rate := domain.Rate{
		PropertyID: propertyID,
		Name:       rf.Name,
		Type:       rf.Type,
		Price:      rf.Price,
		MinStay:    rf.MinStay,
		DaysOfWeek: rf.DaysOfWeek,
		IsActive:   !rf.Inactive,
	}
	if rf.DiscountPercent != "" {
		pct, err := decimal.NewFromString(rf.DiscountPercent)
		if err != nil {
			return rate, fmt.Errorf("discount_percent: %w", err)
		}
		rate.DiscountPercent = &pct
	}
	if (rate.Price == nil) == (rate.DiscountPercent == nil) {
		return rate, fmt.Errorf("exactly one of price and discount_percent must be set")
	}
	if rf.DateFrom != "" {
		d, err := utils.ParseDate(rf.DateFrom)
		if err != nil {
			return rate, err
		}
		rate.DateFrom = &d
	}
	if rf.DateTo != "" {
		d, err := utils.ParseDate(rf.DateTo)
		if err != nil {
			return rate, err
		}
		rate.DateTo = &d
	}
	for _, number := range rf.Rooms {
		id, ok := roomIDs[number]
		if !ok {
			return rate, fmt.Errorf("unknown room %q", number)
		}
		rate.RoomIDs = append(rate.RoomIDs, id)
	}
	return rate, nil
}
