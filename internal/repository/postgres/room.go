package postgres

import (
	"context"
	"database/sql"

	"hotelcore/internal/domain"
)

type roomRepository struct {
	q          querier
	propertyID int64
}

const roomColumns = `id, property_id, number, room_type, base_price, status, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*domain.Room, error) {
	rm := &domain.Room{}
	err := row.Scan(&rm.ID, &rm.PropertyID, &rm.Number, &rm.RoomType, &rm.BasePrice, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *roomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 AND property_id = $2`
	rm, err := scanRoom(r.q.QueryRowContext(ctx, query, id, r.propertyID))
	if err != nil {
		return nil, mapError(err, domain.ErrRoomNotFound)
	}
	return rm, nil
}

// LockByID serialises concurrent booking writers on the same room.
func (r *roomRepository) LockByID(ctx context.Context, id int64) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 AND property_id = $2 FOR UPDATE`
	rm, err := scanRoom(r.q.QueryRowContext(ctx, query, id, r.propertyID))
	if err != nil {
		return nil, mapError(err, domain.ErrRoomNotFound)
	}
	return rm, nil
}

func (r *roomRepository) List(ctx context.Context) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE property_id = $1 ORDER BY number, id`
	rows, err := r.q.QueryContext(ctx, query, r.propertyID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanRooms(rows)
}

func scanRooms(rows *sql.Rows) ([]domain.Room, error) {
	defer rows.Close()
	var rooms []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *rm)
	}
	return rooms, rows.Err()
}
