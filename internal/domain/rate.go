package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RateType string

const (
	RateTypeBase     RateType = "base"
	RateTypeSeasonal RateType = "seasonal"
	RateTypeWeekend  RateType = "weekend"
	RateTypeLongStay RateType = "longstay"
	RateTypeSpecial  RateType = "special"
)

// Rate is a read-only pricing rule. Exactly one of Price and DiscountPercent is set.
// DateFrom/DateTo bound an inclusive window; RoomIDs and DaysOfWeek (0 = Sunday)
// restrict the rule when non-empty.
type Rate struct {
	ID              int64            `json:"id"`
	PropertyID      int64            `json:"property_id"`
	Name            string           `json:"name"`
	Type            RateType         `json:"type"`
	Price           *int64           `json:"price,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	DateFrom        *time.Time       `json:"date_from,omitempty"`
	DateTo          *time.Time       `json:"date_to,omitempty"`
	MinStay         *int32           `json:"min_stay,omitempty"`
	RoomIDs         []int64          `json:"room_ids,omitempty"`
	DaysOfWeek      []int32          `json:"days_of_week,omitempty"`
	IsActive        bool             `json:"is_active"`
}

// Dated reports whether the rate has a calendar window.
func (r *Rate) Dated() bool {
	return r.DateFrom != nil || r.DateTo != nil
}

// NightPrice is one line of a stay's price breakdown.
type NightPrice struct {
	Date     time.Time `json:"date"`
	Price    int64     `json:"price"`
	RateName string    `json:"rate_name"`
	RateID   *int64    `json:"rate_id,omitempty"`
}

// StayQuote is the priced result for a stay.
type StayQuote struct {
	RoomID    int64        `json:"room_id"`
	CheckIn   time.Time    `json:"check_in"`
	CheckOut  time.Time    `json:"check_out"`
	Nights    int          `json:"nights"`
	Total     int64        `json:"total"`
	Breakdown []NightPrice `json:"breakdown"`
}
