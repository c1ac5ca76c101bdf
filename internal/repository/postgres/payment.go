package postgres

import (
	"context"

	"hotelcore/internal/domain"
	"hotelcore/internal/logger"
)

type paymentRepository struct {
	q          querier
	propertyID int64
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (property_id, booking_id, amount, method, reference, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`
	logger.DatabaseCall("create_payment", query, "property_id", r.propertyID, "booking_id", p.BookingID, "amount", p.Amount)
	err := r.q.QueryRowContext(ctx, query, r.propertyID, p.BookingID, p.Amount, p.Method, p.Reference).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return mapError(err, nil)
	}
	p.PropertyID = r.propertyID
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT id, property_id, booking_id, amount, method, COALESCE(reference, ''), created_at
	          FROM payments WHERE id = $1 AND property_id = $2`
	err := r.q.QueryRowContext(ctx, query, id, r.propertyID).Scan(&p.ID, &p.PropertyID, &p.BookingID, &p.Amount, &p.Method, &p.Reference, &p.CreatedAt)
	if err != nil {
		return nil, mapError(err, domain.ErrPaymentNotFound)
	}
	return p, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM payments WHERE id = $1 AND property_id = $2`
	res, err := r.q.ExecContext(ctx, query, id, r.propertyID)
	if err != nil {
		return mapError(err, nil)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("delete_payment", n, err, "payment_id", id)
	if err == nil && n == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	query := `SELECT id, property_id, booking_id, amount, method, COALESCE(reference, ''), created_at
	          FROM payments WHERE property_id = $1 AND booking_id = $2 ORDER BY created_at, id`
	rows, err := r.q.QueryContext(ctx, query, r.propertyID, bookingID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.PropertyID, &p.BookingID, &p.Amount, &p.Method, &p.Reference, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
