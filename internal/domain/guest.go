package domain

import "time"

// Guest identity plus derived aggregates. TotalRevenue and VisitCount are
// only ever written by the ledger recompute.
type Guest struct {
	ID           int64     `json:"id"`
	PropertyID   int64     `json:"property_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	DocumentID   string    `json:"document_id,omitempty"`
	TotalRevenue int64     `json:"total_revenue"`
	VisitCount   int32     `json:"visit_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GuestAggregates is the recomputed pair of derived guest fields.
type GuestAggregates struct {
	GuestID      int64 `json:"guest_id"`
	TotalRevenue int64 `json:"total_revenue"`
	VisitCount   int32 `json:"visit_count"`
}

// ComputeGuestAggregates applies the derived-field rules to a guest's booking set:
// revenue counts every booking that is not cancelled, visits count checked-out stays.
func ComputeGuestAggregates(guestID int64, bookings []Booking) GuestAggregates {
	agg := GuestAggregates{GuestID: guestID}
	for _, b := range bookings {
		if b.GuestID != guestID {
			continue
		}
		if b.Status != BookingStatusCancelled {
			agg.TotalRevenue += b.TotalAmount
		}
		if b.Status == BookingStatusCheckedOut {
			agg.VisitCount++
		}
	}
	return agg
}
