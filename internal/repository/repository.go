package repository

import (
	"context"
	"time"

	"hotelcore/internal/domain"
)

// Every repository handed out by a Tx is bound to that Tx's property.
// Callers never pass a property ID; the binding adds the filter.

type PropertyRepository interface {
	Current(ctx context.Context) (*domain.Property, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	// LockByID reads the room row with a row lock held until the transaction ends.
	LockByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}

type RoomBlockRepository interface {
	Create(ctx context.Context, block *domain.RoomBlock) error
	GetByID(ctx context.Context, id int64) (*domain.RoomBlock, error)
	Delete(ctx context.Context, id int64) error
	ListOverlapping(ctx context.Context, roomID int64, from, to time.Time) ([]domain.RoomBlock, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	LockByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	// ListOverlapping returns bookings on the room that hold it (not cancelled)
	// and intersect [from, to), skipping excludeID when set.
	ListOverlapping(ctx context.Context, roomID int64, from, to time.Time, excludeID *int64) ([]domain.Booking, error)
	ListByGuest(ctx context.Context, guestID int64) ([]domain.Booking, error)
	// ListExpiredUnarrived returns new/confirmed bookings whose check-out is on or before the date.
	ListExpiredUnarrived(ctx context.Context, onOrBefore time.Time) ([]domain.Booking, error)
	ListIDs(ctx context.Context) ([]int64, error)
	// RecomputePaidAmount stores and returns SUM(payments.amount) for the booking.
	RecomputePaidAmount(ctx context.Context, bookingID int64) (int64, error)
}

type GuestRepository interface {
	Create(ctx context.Context, g *domain.Guest) error
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	ListIDs(ctx context.Context) ([]int64, error)
	// RecomputeAggregates stores and returns the guest's derived fields, aggregated over its bookings.
	RecomputeAggregates(ctx context.Context, guestID int64) (*domain.GuestAggregates, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	Delete(ctx context.Context, id int64) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
}

type RateRepository interface {
	ListActive(ctx context.Context) ([]domain.Rate, error)
}

// Tx is a tenant-scoped unit of work.
type Tx interface {
	PropertyID() int64
	Properties() PropertyRepository
	Rooms() RoomRepository
	RoomBlocks() RoomBlockRepository
	Bookings() BookingRepository
	Guests() GuestRepository
	Payments() PaymentRepository
	Rates() RateRepository
}

type TxOptions struct {
	ReadOnly bool
}

// TxManager brackets a unit of work with the tenant scope of ctx.
// fn's error rolls the transaction back; a nil return commits it.
type TxManager interface {
	WithinTenant(ctx context.Context, opts TxOptions, fn func(ctx context.Context, tx Tx) error) error
	// ListPropertyIDs reads the tenant registry. It exposes no tenant-scoped rows.
	ListPropertyIDs(ctx context.Context) ([]int64, error)
}
