package postgres

import (
	"context"
	"database/sql"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/logger"
)

type bookingRepository struct {
	q          querier
	propertyID int64
}

const bookingColumns = `id, property_id, room_id, guest_id, check_in, check_out, adults, children, rate_id,
	total_amount, paid_amount, status, source, COALESCE(notes, ''), cancelled_at, COALESCE(cancel_reason, ''),
	created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.PropertyID, &b.RoomID, &b.GuestID, &b.CheckIn, &b.CheckOut, &b.Adults, &b.Children, &b.RateID,
		&b.TotalAmount, &b.PaidAmount, &b.Status, &b.Source, &b.Notes, &b.CancelledAt, &b.CancelReason,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Create inserts the booking. paid_amount always starts at zero.
func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (property_id, room_id, guest_id, check_in, check_out, adults, children, rate_id,
	          total_amount, paid_amount, status, source, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	logger.DatabaseCall("create_booking", query, "property_id", r.propertyID, "room_id", b.RoomID)
	err := r.q.QueryRowContext(ctx, query, r.propertyID, b.RoomID, b.GuestID, b.CheckIn, b.CheckOut, b.Adults, b.Children, b.RateID,
		b.TotalAmount, b.Status, b.Source, b.Notes).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapError(err, nil)
	}
	b.PropertyID = r.propertyID
	b.PaidAmount = 0
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND property_id = $2`
	b, err := scanBooking(r.q.QueryRowContext(ctx, query, id, r.propertyID))
	if err != nil {
		return nil, mapError(err, domain.ErrBookingNotFound)
	}
	return b, nil
}

func (r *bookingRepository) LockByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND property_id = $2 FOR UPDATE`
	b, err := scanBooking(r.q.QueryRowContext(ctx, query, id, r.propertyID))
	if err != nil {
		return nil, mapError(err, domain.ErrBookingNotFound)
	}
	return b, nil
}

// Update writes the mutable fields. paid_amount is owned by RecomputePaidAmount.
func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET room_id = $1, guest_id = $2, check_in = $3, check_out = $4, adults = $5, children = $6,
	          rate_id = $7, total_amount = $8, status = $9, notes = $10, cancelled_at = $11, cancel_reason = $12, updated_at = NOW()
	          WHERE id = $13 AND property_id = $14
	          RETURNING updated_at`
	logger.DatabaseCall("update_booking", query, "property_id", r.propertyID, "booking_id", b.ID)
	err := r.q.QueryRowContext(ctx, query, b.RoomID, b.GuestID, b.CheckIn, b.CheckOut, b.Adults, b.Children,
		b.RateID, b.TotalAmount, b.Status, b.Notes, b.CancelledAt, b.CancelReason, b.ID, r.propertyID).Scan(&b.UpdatedAt)
	if err != nil {
		return mapError(err, domain.ErrBookingNotFound)
	}
	return nil
}

func (r *bookingRepository) ListOverlapping(ctx context.Context, roomID int64, from, to time.Time, excludeID *int64) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE property_id = $1 AND room_id = $2 AND status <> 'cancelled'
	            AND check_in < $4 AND $3 < check_out
	            AND ($5::bigint IS NULL OR id <> $5)
	          ORDER BY check_in`
	rows, err := r.q.QueryContext(ctx, query, r.propertyID, roomID, from, to, excludeID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanBookings(rows)
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID int64) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE property_id = $1 AND guest_id = $2 ORDER BY check_in`
	rows, err := r.q.QueryContext(ctx, query, r.propertyID, guestID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanBookings(rows)
}

func (r *bookingRepository) ListExpiredUnarrived(ctx context.Context, onOrBefore time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE property_id = $1 AND status IN ('new', 'confirmed') AND check_out <= $2
	          ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, r.propertyID, onOrBefore)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanBookings(rows)
}

func (r *bookingRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM bookings WHERE property_id = $1 ORDER BY id`, r.propertyID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanIDs(rows)
}

const recomputePaidAmountQuery = `UPDATE bookings b
	SET paid_amount = (
		SELECT COALESCE(SUM(p.amount), 0) FROM payments p
		WHERE p.booking_id = b.id AND p.property_id = b.property_id
	), updated_at = NOW()
	WHERE b.id = $1 AND b.property_id = $2
	RETURNING b.paid_amount`

func (r *bookingRepository) RecomputePaidAmount(ctx context.Context, bookingID int64) (int64, error) {
	logger.DatabaseCall("recompute_paid_amount", recomputePaidAmountQuery, "property_id", r.propertyID, "booking_id", bookingID)
	var paid int64
	err := r.q.QueryRowContext(ctx, recomputePaidAmountQuery, bookingID, r.propertyID).Scan(&paid)
	if err != nil {
		return 0, mapError(err, domain.ErrBookingNotFound)
	}
	return paid, nil
}
