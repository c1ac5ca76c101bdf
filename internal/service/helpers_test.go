package service_test

import (
	"context"
	"testing"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/repository/memory"
	"hotelcore/internal/service"
	"hotelcore/internal/tenant"
	"hotelcore/internal/utils"

	"github.com/stretchr/testify/require"
)

// fixedNow is 10:00 UTC on 2025-03-10.
var fixedNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	ctx      context.Context
	property domain.Property
	room     domain.Room
	guest    domain.Guest

	availability service.AvailabilityService
	pricing      service.PricingService
	bookings     service.BookingService
	guests       service.GuestService
	ledger       service.LedgerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	property := store.AddProperty(domain.Property{Name: "Silk Road Inn", Currency: "UZS", Timezone: "UTC"})
	room := store.AddRoom(domain.Room{PropertyID: property.ID, Number: "101", RoomType: "double", BasePrice: 100000})
	guest := store.AddGuest(domain.Guest{PropertyID: property.ID, FirstName: "Aziz", LastName: "Karimov"})

	return &fixture{
		store:        store,
		ctx:          tenant.Set(context.Background(), property.ID),
		property:     property,
		room:         room,
		guest:        guest,
		availability: service.NewAvailabilityService(store),
		pricing:      service.NewPricingService(store),
		bookings:     service.NewBookingService(store, service.BookingPolicy{EnforceCheckInDate: true, Now: func() time.Time { return fixedNow }}),
		guests:       service.NewGuestService(store),
		ledger:       service.NewLedgerService(store),
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func amount(v int64) *int64 { return &v }

func (f *fixture) book(t *testing.T, checkIn, checkOut string, total int64) *domain.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(f.ctx, service.CreateBookingInput{
		PropertyID:          f.property.ID,
		RoomID:              f.room.ID,
		GuestID:             f.guest.ID,
		CheckIn:             date(t, checkIn),
		CheckOut:            date(t, checkOut),
		Adults:              2,
		TotalAmountOverride: amount(total),
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) transition(t *testing.T, id int64, statuses ...domain.BookingStatus) {
	t.Helper()
	for _, st := range statuses {
		reason := ""
		if st == domain.BookingStatusCancelled {
			reason = "guest request"
		}
		_, err := f.bookings.TransitionBooking(f.ctx, f.property.ID, id, st, reason)
		require.NoError(t, err)
	}
}
