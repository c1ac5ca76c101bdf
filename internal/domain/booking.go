package domain

import "time"

type BookingStatus string

const (
	BookingStatusNew        BookingStatus = "new"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusNoShow     BookingStatus = "no_show"
)

type BookingSource string

const (
	BookingSourceDirect  BookingSource = "direct"
	BookingSourceWalkIn  BookingSource = "walk_in"
	BookingSourcePhone   BookingSource = "phone"
	BookingSourcePublic  BookingSource = "public"
	BookingSourceChannel BookingSource = "channel"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusNew:       {BookingStatusConfirmed, BookingStatusCheckedIn, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusCheckedIn: {BookingStatusCheckedOut},
}

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusNew, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusCheckedOut, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCheckedOut || s == BookingStatusCancelled || s == BookingStatusNoShow
}

// HoldsRoom reports whether a booking in this status occupies its room dates.
func (s BookingStatus) HoldsRoom() bool {
	return s != BookingStatusCancelled
}

// CanTransitionTo reports whether s -> target is an allowed transition.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type Booking struct {
	ID           int64         `json:"id"`
	PropertyID   int64         `json:"property_id"`
	RoomID       int64         `json:"room_id"`
	GuestID      int64         `json:"guest_id"`
	CheckIn      time.Time     `json:"check_in"`
	CheckOut     time.Time     `json:"check_out"` // exclusive
	Adults       int32         `json:"adults"`
	Children     int32         `json:"children"`
	RateID       *int64        `json:"rate_id,omitempty"`
	TotalAmount  int64         `json:"total_amount"`
	PaidAmount   int64         `json:"paid_amount"`
	Status       BookingStatus `json:"status"`
	Source       BookingSource `json:"source"`
	Notes        string        `json:"notes,omitempty"`
	CancelledAt  *time.Time    `json:"cancelled_at,omitempty"`
	CancelReason string        `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Balance is what the guest still owes; negative when overpaid.
func (b *Booking) Balance() int64 {
	return b.TotalAmount - b.PaidAmount
}

// BookingPatch carries the mutable fields of an existing booking. Nil means unchanged.
type BookingPatch struct {
	RoomID      *int64     `json:"room_id,omitempty"`
	GuestID     *int64     `json:"guest_id,omitempty"`
	CheckIn     *time.Time `json:"check_in,omitempty"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Adults      *int32     `json:"adults,omitempty"`
	Children    *int32     `json:"children,omitempty"`
	TotalAmount *int64     `json:"total_amount,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// MovesStay reports whether the patch changes the room or the dates.
func (p BookingPatch) MovesStay() bool {
	return p.RoomID != nil || p.CheckIn != nil || p.CheckOut != nil
}
