package postgres

import (
	"context"
	"testing"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/service"
	"hotelcore/internal/tenant"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockRoomSQL        = "SELECT (.+) FROM rooms WHERE id = \\$1 AND property_id = \\$2 FOR UPDATE"
	getGuestSQL        = "SELECT (.+) FROM guests WHERE id = \\$1 AND property_id = \\$2"
	blockOverlapSQL    = "FROM room_blocks\\s+WHERE property_id = \\$1 AND room_id = \\$2 AND date_from < \\$4 AND \\$3 < date_to"
	bookingOverlapSQL  = "FROM bookings\\s+WHERE property_id = \\$1 AND room_id = \\$2 AND status <> 'cancelled'"
	insertBookingSQL   = "INSERT INTO bookings"
	recomputeGuestSQL  = "UPDATE guests g"
	flowPropertyID     = int64(4)
	flowRoomID         = int64(1)
	flowGuestID        = int64(2)
	flowTotal          = int64(200000)
	flowBookingID      = int64(31)
	flowGuestFirstName = "Aziz"
)

var guestColumnNames = []string{"id", "property_id", "first_name", "last_name", "email", "phone", "document_id",
	"total_revenue", "visit_count", "created_at", "updated_at"}

var blockColumnNames = []string{"id", "property_id", "room_id", "date_from", "date_to", "reason", "created_at"}

type bookingFlow struct {
	mock     sqlmock.Sqlmock
	bookings service.BookingService
	ctx      context.Context
	checkIn  time.Time
	checkOut time.Time
	now      time.Time
}

func newBookingFlow(t *testing.T) *bookingFlow {
	db, mock := newMock(t)
	return &bookingFlow{
		mock:     mock,
		bookings: service.NewBookingService(NewTxManager(db), service.BookingPolicy{}),
		ctx:      tenant.Set(context.Background(), flowPropertyID),
		checkIn:  day("2025-03-10"),
		checkOut: day("2025-03-12"),
		now:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *bookingFlow) create() (*domain.Booking, error) {
	total := flowTotal
	return f.bookings.CreateBooking(f.ctx, service.CreateBookingInput{
		PropertyID:          flowPropertyID,
		RoomID:              flowRoomID,
		GuestID:             flowGuestID,
		CheckIn:             f.checkIn,
		CheckOut:            f.checkOut,
		Adults:              2,
		TotalAmountOverride: &total,
	})
}

// expectLockedChecks queues the statements that run between begin and the
// insert: tenant binding, the room lock, the guest lookup and both overlap checks.
func (f *bookingFlow) expectLockedChecks(overlapping *sqlmock.Rows) {
	f.mock.ExpectBegin()
	f.mock.ExpectExec(setConfigSQL).WithArgs("4").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(lockRoomSQL).
		WithArgs(flowRoomID, flowPropertyID).
		WillReturnRows(roomRows().AddRow(flowRoomID, flowPropertyID, "101", "double", 100000, "active", f.now, f.now))
	f.mock.ExpectQuery(getGuestSQL).
		WithArgs(flowGuestID, flowPropertyID).
		WillReturnRows(sqlmock.NewRows(guestColumnNames).
			AddRow(flowGuestID, flowPropertyID, flowGuestFirstName, "Karimov", "", "", "", 0, 0, f.now, f.now))
	f.mock.ExpectQuery(blockOverlapSQL).
		WithArgs(flowPropertyID, flowRoomID, f.checkIn, f.checkOut).
		WillReturnRows(sqlmock.NewRows(blockColumnNames))
	f.mock.ExpectQuery(bookingOverlapSQL).
		WithArgs(flowPropertyID, flowRoomID, f.checkIn, f.checkOut, nil).
		WillReturnRows(overlapping)
}

func (f *bookingFlow) expectInsertAndCommit() {
	f.mock.ExpectQuery(insertBookingSQL).
		WithArgs(flowPropertyID, flowRoomID, flowGuestID, f.checkIn, f.checkOut, int32(2), int32(0), nil,
			flowTotal, "new", "direct", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(flowBookingID, f.now, f.now))
	f.mock.ExpectQuery(recomputeGuestSQL).
		WithArgs(flowGuestID, flowPropertyID).
		WillReturnRows(sqlmock.NewRows([]string{"total_revenue", "visit_count"}).AddRow(flowTotal, 0))
	f.mock.ExpectExec(setConfigSQL).WithArgs("0").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
}

func TestCreateBooking_LocksRoomBeforeOverlapCheck(t *testing.T) {
	t.Run("Lock, checks, insert and recompute share one transaction", func(t *testing.T) {
		f := newBookingFlow(t)
		f.expectLockedChecks(sqlmock.NewRows(bookingColumnNames))
		f.expectInsertAndCommit()

		booking, err := f.create()
		require.NoError(t, err)
		assert.Equal(t, flowBookingID, booking.ID)
		assert.Equal(t, flowPropertyID, booking.PropertyID)
		assert.Equal(t, domain.BookingStatusNew, booking.Status)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Booking committed by the lock holder is seen after the lock", func(t *testing.T) {
		f := newBookingFlow(t)
		f.expectLockedChecks(sqlmock.NewRows(bookingColumnNames).
			AddRow(30, flowPropertyID, flowRoomID, 9, day("2025-03-11"), day("2025-03-13"), 1, 0, nil,
				150000, 0, "new", "direct", "", nil, "", f.now, f.now))
		f.mock.ExpectRollback()

		_, err := f.create()
		assert.ErrorIs(t, err, domain.ErrRoomNotAvailable)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Exclusion constraint rejects the insert", func(t *testing.T) {
		f := newBookingFlow(t)
		f.expectLockedChecks(sqlmock.NewRows(bookingColumnNames))
		f.mock.ExpectQuery(insertBookingSQL).
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
		f.mock.ExpectRollback()

		_, err := f.create()
		assert.ErrorIs(t, err, domain.ErrRoomNotAvailable)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Deadlock on the room lock is retried once", func(t *testing.T) {
		f := newBookingFlow(t)
		f.mock.ExpectBegin()
		f.mock.ExpectExec(setConfigSQL).WithArgs("4").WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectQuery(lockRoomSQL).
			WithArgs(flowRoomID, flowPropertyID).
			WillReturnError(&pq.Error{Code: "40P01"})
		f.mock.ExpectRollback()
		f.expectLockedChecks(sqlmock.NewRows(bookingColumnNames))
		f.expectInsertAndCommit()

		booking, err := f.create()
		require.NoError(t, err)
		assert.Equal(t, flowBookingID, booking.ID)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}
