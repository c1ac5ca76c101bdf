package domain

import "time"

// Property is the tenant root. Every tenant-scoped row carries its ID.
type Property struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Currency     string    `json:"currency"`
	Timezone     string    `json:"timezone"`
	CheckInTime  string    `json:"check_in_time"`  // "14:00"
	CheckOutTime string    `json:"check_out_time"` // "12:00"
	CreatedAt    time.Time `json:"created_at"`
}

// Location resolves the property's timezone, falling back to UTC.
func (p *Property) Location() *time.Location {
	if p == nil || p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today returns the current calendar date at the property, as a UTC midnight.
func (p *Property) Today(now time.Time) time.Time {
	local := now.In(p.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
