package postgres

import (
	"context"

	"hotelcore/internal/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type rateRepository struct {
	q          querier
	propertyID int64
}

func (r *rateRepository) ListActive(ctx context.Context) ([]domain.Rate, error) {
	query := `SELECT id, property_id, name, type, price, discount_percent, date_from, date_to, min_stay,
	          COALESCE(room_ids, '{}'), COALESCE(days_of_week, '{}'), is_active
	          FROM rates WHERE property_id = $1 AND is_active ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, r.propertyID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()

	var rates []domain.Rate
	for rows.Next() {
		var (
			rt       domain.Rate
			discount decimal.NullDecimal
			roomIDs  pq.Int64Array
			days     pq.Int64Array
		)
		err := rows.Scan(&rt.ID, &rt.PropertyID, &rt.Name, &rt.Type, &rt.Price, &discount, &rt.DateFrom, &rt.DateTo, &rt.MinStay,
			&roomIDs, &days, &rt.IsActive)
		if err != nil {
			return nil, err
		}
		if discount.Valid {
			d := discount.Decimal
			rt.DiscountPercent = &d
		}
		rt.RoomIDs = []int64(roomIDs)
		for _, d := range days {
			rt.DaysOfWeek = append(rt.DaysOfWeek, int32(d))
		}
		rates = append(rates, rt)
	}
	return rates, rows.Err()
}
