package postgres

import (
	"context"
	"time"

	"hotelcore/internal/domain"
)

type roomBlockRepository struct {
	q          querier
	propertyID int64
}

func (r *roomBlockRepository) Create(ctx context.Context, b *domain.RoomBlock) error {
	query := `INSERT INTO room_blocks (property_id, room_id, date_from, date_to, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`
	err := r.q.QueryRowContext(ctx, query, r.propertyID, b.RoomID, b.DateFrom, b.DateTo, b.Reason).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return mapError(err, nil)
	}
	b.PropertyID = r.propertyID
	return nil
}

func (r *roomBlockRepository) GetByID(ctx context.Context, id int64) (*domain.RoomBlock, error) {
	b := &domain.RoomBlock{}
	query := `SELECT id, property_id, room_id, date_from, date_to, reason, created_at FROM room_blocks WHERE id = $1 AND property_id = $2`
	err := r.q.QueryRowContext(ctx, query, id, r.propertyID).Scan(&b.ID, &b.PropertyID, &b.RoomID, &b.DateFrom, &b.DateTo, &b.Reason, &b.CreatedAt)
	if err != nil {
		return nil, mapError(err, domain.ErrRoomBlockNotFound)
	}
	return b, nil
}

func (r *roomBlockRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM room_blocks WHERE id = $1 AND property_id = $2`, id, r.propertyID)
	if err != nil {
		return mapError(err, nil)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrRoomBlockNotFound
	}
	return nil
}

func (r *roomBlockRepository) ListOverlapping(ctx context.Context, roomID int64, from, to time.Time) ([]domain.RoomBlock, error) {
	query := `SELECT id, property_id, room_id, date_from, date_to, reason, created_at
	          FROM room_blocks
	          WHERE property_id = $1 AND room_id = $2 AND date_from < $4 AND $3 < date_to
	          ORDER BY date_from`
	rows, err := r.q.QueryContext(ctx, query, r.propertyID, roomID, from, to)
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()

	var blocks []domain.RoomBlock
	for rows.Next() {
		var b domain.RoomBlock
		if err := rows.Scan(&b.ID, &b.PropertyID, &b.RoomID, &b.DateFrom, &b.DateTo, &b.Reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}
