package domain

import "time"

type RoomStatus string

const (
	RoomStatusActive      RoomStatus = "active"
	RoomStatusMaintenance RoomStatus = "maintenance"
	RoomStatusInactive    RoomStatus = "inactive"
)

type Room struct {
	ID         int64      `json:"id"`
	PropertyID int64      `json:"property_id"`
	Number     string     `json:"number"`
	RoomType   string     `json:"room_type"`
	BasePrice  int64      `json:"base_price"` // minor units per night
	Status     RoomStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Bookable reports whether the room may take bookings at all, regardless of dates.
func (r *Room) Bookable() bool {
	return r.Status == RoomStatusActive
}

// RoomBlock is an administrative hold on a room. DateTo is exclusive.
type RoomBlock struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	RoomID     int64     `json:"room_id"`
	DateFrom   time.Time `json:"date_from"`
	DateTo     time.Time `json:"date_to"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}
