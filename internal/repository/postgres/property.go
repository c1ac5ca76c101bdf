package postgres

import (
	"context"

	"hotelcore/internal/domain"
)

type propertyRepository struct {
	q          querier
	propertyID int64
}

func (r *propertyRepository) Current(ctx context.Context) (*domain.Property, error) {
	p := &domain.Property{}
	query := `SELECT id, name, currency, timezone, check_in_time, check_out_time, created_at FROM properties WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, r.propertyID).Scan(&p.ID, &p.Name, &p.Currency, &p.Timezone, &p.CheckInTime, &p.CheckOutTime, &p.CreatedAt)
	if err != nil {
		return nil, mapError(err, domain.ErrPropertyNotFound)
	}
	return p, nil
}
