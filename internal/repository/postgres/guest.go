package postgres

import (
	"context"

	"hotelcore/internal/domain"
	"hotelcore/internal/logger"
)

type guestRepository struct {
	q          querier
	propertyID int64
}

func (r *guestRepository) Create(ctx context.Context, g *domain.Guest) error {
	query := `INSERT INTO guests (property_id, first_name, last_name, email, phone, document_id, total_revenue, visit_count, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, 0, 0, NOW(), NOW()) RETURNING id, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query, r.propertyID, g.FirstName, g.LastName, g.Email, g.Phone, g.DocumentID).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return mapError(err, nil)
	}
	g.PropertyID = r.propertyID
	g.TotalRevenue, g.VisitCount = 0, 0
	return nil
}

func (r *guestRepository) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	g := &domain.Guest{}
	query := `SELECT id, property_id, first_name, last_name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(document_id, ''),
	          total_revenue, visit_count, created_at, updated_at
	          FROM guests WHERE id = $1 AND property_id = $2`
	err := r.q.QueryRowContext(ctx, query, id, r.propertyID).Scan(&g.ID, &g.PropertyID, &g.FirstName, &g.LastName, &g.Email, &g.Phone,
		&g.DocumentID, &g.TotalRevenue, &g.VisitCount, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, mapError(err, domain.ErrGuestNotFound)
	}
	return g, nil
}

func (r *guestRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM guests WHERE property_id = $1 ORDER BY id`, r.propertyID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanIDs(rows)
}

const recomputeGuestAggregatesQuery = `UPDATE guests g
	SET total_revenue = (
		SELECT COALESCE(SUM(b.total_amount), 0) FROM bookings b
		WHERE b.guest_id = g.id AND b.property_id = g.property_id AND b.status <> 'cancelled'
	), visit_count = (
		SELECT COUNT(*) FROM bookings b
		WHERE b.guest_id = g.id AND b.property_id = g.property_id AND b.status = 'checked_out'
	), updated_at = NOW()
	WHERE g.id = $1 AND g.property_id = $2
	RETURNING g.total_revenue, g.visit_count`

func (r *guestRepository) RecomputeAggregates(ctx context.Context, guestID int64) (*domain.GuestAggregates, error) {
	logger.DatabaseCall("recompute_guest_aggregates", recomputeGuestAggregatesQuery, "property_id", r.propertyID, "guest_id", guestID)
	agg := &domain.GuestAggregates{GuestID: guestID}
	err := r.q.QueryRowContext(ctx, recomputeGuestAggregatesQuery, guestID, r.propertyID).Scan(&agg.TotalRevenue, &agg.VisitCount)
	if err != nil {
		return nil, mapError(err, domain.ErrGuestNotFound)
	}
	return agg, nil
}
