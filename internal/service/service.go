package service

import (
	"context"
	"time"

	"hotelcore/internal/domain"
)

// Every operation takes the property it acts on. It must match the tenant
// bound to ctx, otherwise the call fails with domain.ErrTenantMismatch.

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, propertyID, roomID int64, checkIn, checkOut time.Time, excludeBookingID *int64) (bool, error)
	AvailableRooms(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) ([]domain.Room, error)
	CreateRoomBlock(ctx context.Context, propertyID, roomID int64, dateFrom, dateTo time.Time, reason string) (*domain.RoomBlock, error)
	DeleteRoomBlock(ctx context.Context, propertyID, blockID int64) error
}

type PricingService interface {
	PriceStay(ctx context.Context, propertyID, roomID int64, checkIn, checkOut time.Time) (*domain.StayQuote, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, propertyID, bookingID int64, patch domain.BookingPatch) (*domain.Booking, error)
	TransitionBooking(ctx context.Context, propertyID, bookingID int64, target domain.BookingStatus, reason string) (*domain.Booking, error)
	GetBooking(ctx context.Context, propertyID, bookingID int64) (*domain.Booking, error)
	// MarkNoShows moves new/confirmed bookings whose stay has ended, in the
	// property's calendar at now, to no_show.
	MarkNoShows(ctx context.Context, propertyID int64, now time.Time) ([]int64, error)
}

type GuestService interface {
	CreateGuest(ctx context.Context, propertyID int64, guest *domain.Guest) error
	GetGuest(ctx context.Context, propertyID, guestID int64) (*domain.Guest, error)
}

type LedgerService interface {
	RecordPayment(ctx context.Context, propertyID, bookingID, amount int64, method domain.PaymentMethod, reference string) (*domain.PaymentResult, error)
	// DeletePayment removes a ledger row as an administrative correction.
	DeletePayment(ctx context.Context, propertyID, paymentID int64) (*domain.PaymentResult, error)
	ListPayments(ctx context.Context, propertyID, bookingID int64) ([]domain.Payment, error)
	RecomputeBookingPaidAmount(ctx context.Context, propertyID, bookingID int64) (int64, error)
	RecomputeGuestAggregates(ctx context.Context, propertyID, guestID int64) (*domain.GuestAggregates, error)
	ReconcileProperty(ctx context.Context, propertyID int64) (*ReconcileReport, error)
}

// CreateBookingInput carries a new booking request. TotalAmountOverride skips
// the rate calculator when the price was agreed elsewhere.
type CreateBookingInput struct {
	PropertyID          int64
	RoomID              int64
	GuestID             int64
	CheckIn             time.Time
	CheckOut            time.Time
	Adults              int32
	Children            int32
	Source              domain.BookingSource
	Notes               string
	TotalAmountOverride *int64
}

// ReconcileReport counts the rows whose derived fields were recomputed.
type ReconcileReport struct {
	PropertyID int64 `json:"property_id"`
	Bookings   int   `json:"bookings"`
	Guests     int   `json:"guests"`
}
