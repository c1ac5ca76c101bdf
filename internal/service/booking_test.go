package service_test

import (
	"errors"
	"sync"
	"testing"

	"hotelcore/internal/domain"
	"hotelcore/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingService_CreateBooking(t *testing.T) {
	t.Run("Concurrent overlapping requests book the room once", func(t *testing.T) {
		f := newFixture(t)
		const attempts = 8
		checkIn, checkOut := date(t, "2025-03-10"), date(t, "2025-03-12")

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.bookings.CreateBooking(f.ctx, service.CreateBookingInput{
					PropertyID: f.property.ID,
					RoomID:     f.room.ID,
					GuestID:    f.guest.ID,
					CheckIn:    checkIn,
					CheckOut:   checkOut,
					Adults:     1,
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrRoomNotAvailable)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("Same-day turnover", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, "2025-03-10", "2025-03-12", 200000)
		b := f.book(t, "2025-03-12", "2025-03-14", 200000)
		assert.Equal(t, domain.BookingStatusNew, b.Status)
	})

	t.Run("Cancellation frees the room", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2025-03-10", "2025-03-15", 500000)
		f.transition(t, a.ID, domain.BookingStatusCancelled)

		b := f.book(t, "2025-03-10", "2025-03-15", 500000)
		assert.NotEqual(t, a.ID, b.ID)

		cancelled, err := f.bookings.GetBooking(f.ctx, f.property.ID, a.ID)
		require.NoError(t, err)
		assert.NotNil(t, cancelled.CancelledAt)
		assert.Equal(t, "guest request", cancelled.CancelReason)
	})

	t.Run("Priced from rates when no total is supplied", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.bookings.CreateBooking(f.ctx, service.CreateBookingInput{
			PropertyID: f.property.ID,
			RoomID:     f.room.ID,
			GuestID:    f.guest.ID,
			CheckIn:    date(t, "2025-03-10"),
			CheckOut:   date(t, "2025-03-13"),
			Adults:     2,
			Source:     domain.BookingSourcePhone,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(300000), b.TotalAmount)
		assert.Equal(t, int64(0), b.PaidAmount)
		assert.Equal(t, domain.BookingSourcePhone, b.Source)

		guest, ok := f.store.Guest(f.guest.ID)
		require.True(t, ok)
		assert.Equal(t, int64(300000), guest.TotalRevenue)
	})

	t.Run("Invalid date range", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.bookings.CreateBooking(f.ctx, service.CreateBookingInput{
			PropertyID: f.property.ID,
			RoomID:     f.room.ID,
			GuestID:    f.guest.ID,
			CheckIn:    date(t, "2025-03-12"),
			CheckOut:   date(t, "2025-03-12"),
			Adults:     1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("Unknown room and guest", func(t *testing.T) {
		f := newFixture(t)
		in := service.CreateBookingInput{
			PropertyID: f.property.ID,
			RoomID:     9999,
			GuestID:    f.guest.ID,
			CheckIn:    date(t, "2025-03-10"),
			CheckOut:   date(t, "2025-03-11"),
			Adults:     1,
		}
		_, err := f.bookings.CreateBooking(f.ctx, in)
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)

		in.RoomID, in.GuestID = f.room.ID, 9999
		_, err = f.bookings.CreateBooking(f.ctx, in)
		assert.ErrorIs(t, err, domain.ErrGuestNotFound)
	})

	t.Run("Room under maintenance", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetRoomStatus(f.room.ID, domain.RoomStatusMaintenance)
		_, err := f.bookings.CreateBooking(f.ctx, service.CreateBookingInput{
			PropertyID: f.property.ID,
			RoomID:     f.room.ID,
			GuestID:    f.guest.ID,
			CheckIn:    date(t, "2025-03-10"),
			CheckOut:   date(t, "2025-03-11"),
			Adults:     1,
		})
		assert.ErrorIs(t, err, domain.ErrRoomNotAvailable)
	})
}

func TestBookingService_TransitionBooking(t *testing.T) {
	t.Run("New to checked in", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-10", "2025-03-12", 200000)

		got, err := f.bookings.TransitionBooking(f.ctx, f.property.ID, b.ID, domain.BookingStatusCheckedIn, "")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCheckedIn, got.Status)
	})

	t.Run("Checked out is terminal", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-08", "2025-03-10", 200000)
		f.transition(t, b.ID, domain.BookingStatusCheckedIn, domain.BookingStatusCheckedOut)

		for _, target := range []domain.BookingStatus{
			domain.BookingStatusNew, domain.BookingStatusConfirmed, domain.BookingStatusCheckedIn,
			domain.BookingStatusCheckedOut, domain.BookingStatusCancelled, domain.BookingStatusNoShow,
		} {
			_, err := f.bookings.TransitionBooking(f.ctx, f.property.ID, b.ID, target, "reason")
			assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "target %s", target)
		}
	})

	t.Run("Cancelled to confirmed reports both states", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-10", "2025-03-12", 200000)
		f.transition(t, b.ID, domain.BookingStatusCancelled)

		_, err := f.bookings.TransitionBooking(f.ctx, f.property.ID, b.ID, domain.BookingStatusConfirmed, "")
		var stErr *domain.StateTransitionError
		require.True(t, errors.As(err, &stErr))
		assert.Equal(t, domain.BookingStatusCancelled, stErr.From)
		assert.Equal(t, domain.BookingStatusConfirmed, stErr.To)
	})

	t.Run("Cancel requires a reason", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-10", "2025-03-12", 200000)
		_, err := f.bookings.TransitionBooking(f.ctx, f.property.ID, b.ID, domain.BookingStatusCancelled, "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Check-in before the arrival date", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-11", "2025-03-12", 100000)
		_, err := f.bookings.TransitionBooking(f.ctx, f.property.ID, b.ID, domain.BookingStatusCheckedIn, "")
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

		stored, _ := f.store.Booking(b.ID)
		assert.Equal(t, domain.BookingStatusNew, stored.Status)
	})

	t.Run("Checked in cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-10", "2025-03-12", 200000)
		f.transition(t, b.ID, domain.BookingStatusCheckedIn)
		_, err := f.bookings.TransitionBooking(f.ctx, f.property.ID, b.ID, domain.BookingStatusCancelled, "changed plans")
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("Unknown status", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-10", "2025-03-12", 200000)
		_, err := f.bookings.TransitionBooking(f.ctx, f.property.ID, b.ID, domain.BookingStatus("archived"), "")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestBookingService_UpdateBooking(t *testing.T) {
	t.Run("Extending over its own dates", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-10", "2025-03-12", 200000)

		checkOut := date(t, "2025-03-13")
		got, err := f.bookings.UpdateBooking(f.ctx, f.property.ID, b.ID, domain.BookingPatch{CheckOut: &checkOut})
		require.NoError(t, err)
		assert.Equal(t, checkOut, got.CheckOut)
		assert.Equal(t, int64(300000), got.TotalAmount)

		guest, _ := f.store.Guest(f.guest.ID)
		assert.Equal(t, int64(300000), guest.TotalRevenue)
	})

	t.Run("Moving onto another booking", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, "2025-03-10", "2025-03-12", 200000)
		b := f.book(t, "2025-03-12", "2025-03-14", 200000)

		checkIn := date(t, "2025-03-11")
		_, err := f.bookings.UpdateBooking(f.ctx, f.property.ID, b.ID, domain.BookingPatch{CheckIn: &checkIn})
		assert.ErrorIs(t, err, domain.ErrRoomNotAvailable)
	})

	t.Run("Changing guest recomputes both guests", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-10", "2025-03-12", 200000)
		other := &domain.Guest{FirstName: "Dilnoza"}
		require.NoError(t, f.guests.CreateGuest(f.ctx, f.property.ID, other))

		_, err := f.bookings.UpdateBooking(f.ctx, f.property.ID, b.ID, domain.BookingPatch{GuestID: &other.ID})
		require.NoError(t, err)

		first, _ := f.store.Guest(f.guest.ID)
		second, _ := f.store.Guest(other.ID)
		assert.Equal(t, int64(0), first.TotalRevenue)
		assert.Equal(t, int64(200000), second.TotalRevenue)
	})

	t.Run("Closed booking keeps its stay", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "2025-03-10", "2025-03-12", 200000)
		f.transition(t, b.ID, domain.BookingStatusCancelled)

		total := int64(1)
		_, err := f.bookings.UpdateBooking(f.ctx, f.property.ID, b.ID, domain.BookingPatch{TotalAmount: &total})
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

		notes := "refunded at desk"
		got, err := f.bookings.UpdateBooking(f.ctx, f.property.ID, b.ID, domain.BookingPatch{Notes: &notes})
		require.NoError(t, err)
		assert.Equal(t, notes, got.Notes)
	})
}

func TestBookingService_MarkNoShows(t *testing.T) {
	f := newFixture(t)
	expired := f.book(t, "2025-03-05", "2025-03-07", 200000)
	current := f.book(t, "2025-03-10", "2025-03-12", 200000)

	marked, err := f.bookings.MarkNoShows(f.ctx, f.property.ID, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{expired.ID}, marked)

	stored, _ := f.store.Booking(expired.ID)
	assert.Equal(t, domain.BookingStatusNoShow, stored.Status)
	stored, _ = f.store.Booking(current.ID)
	assert.Equal(t, domain.BookingStatusNew, stored.Status)
}
