package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"hotelcore/internal/logger"
	"hotelcore/internal/repository"
	"hotelcore/internal/tenant"

	_ "github.com/lib/pq"
)

// querier is the subset of *sql.DB / *sql.Tx the repositories need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Row-level security policies read this setting. It is transaction-local.
const setCurrentPropertyQuery = `SELECT set_config('app.current_property', $1, true)`

// TxManager opens tenant-scoped transactions on the request-serving pool.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

var _ repository.TxManager = (*TxManager)(nil)

func (m *TxManager) WithinTenant(ctx context.Context, opts repository.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) (err error) {
	propertyID := tenant.Current(ctx)

	sqlTx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: opts.ReadOnly})
	if err != nil {
		return mapError(err, nil)
	}
	defer func() {
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("Failed to roll back tenant transaction", "property_id", propertyID, "error", rbErr)
			}
		}
	}()

	if err = setCurrentProperty(ctx, sqlTx, propertyID); err != nil {
		return err
	}

	if err = fn(ctx, newTx(sqlTx, propertyID)); err != nil {
		return err
	}

	if err = setCurrentProperty(ctx, sqlTx, tenant.NoProperty); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return mapError(err, nil)
	}
	return nil
}

func (m *TxManager) ListPropertyIDs(ctx context.Context) ([]int64, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id FROM properties ORDER BY id`)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanIDs(rows)
}

func setCurrentProperty(ctx context.Context, q querier, propertyID int64) error {
	logger.DatabaseCall("set_current_property", setCurrentPropertyQuery, "property_id", propertyID)
	_, err := q.ExecContext(ctx, setCurrentPropertyQuery, strconv.FormatInt(propertyID, 10))
	if err != nil {
		return mapError(err, nil)
	}
	return nil
}

// tx binds every repository to one transaction and one property.
type tx struct {
	propertyID int64
	properties *propertyRepository
	rooms      *roomRepository
	blocks     *roomBlockRepository
	bookings   *bookingRepository
	guests     *guestRepository
	payments   *paymentRepository
	rates      *rateRepository
}

func newTx(q querier, propertyID int64) *tx {
	return &tx{
		propertyID: propertyID,
		properties: &propertyRepository{q: q, propertyID: propertyID},
		rooms:      &roomRepository{q: q, propertyID: propertyID},
		blocks:     &roomBlockRepository{q: q, propertyID: propertyID},
		bookings:   &bookingRepository{q: q, propertyID: propertyID},
		guests:     &guestRepository{q: q, propertyID: propertyID},
		payments:   &paymentRepository{q: q, propertyID: propertyID},
		rates:      &rateRepository{q: q, propertyID: propertyID},
	}
}

func (t *tx) PropertyID() int64 { return t.propertyID }
func (t *tx) Properties() repository.PropertyRepository { return t.properties }
func (t *tx) Rooms() repository.RoomRepository { return t.rooms }
func (t *tx) RoomBlocks() repository.RoomBlockRepository { return t.blocks }
func (t *tx) Bookings() repository.BookingRepository { return t.bookings }
func (t *tx) Guests() repository.GuestRepository { return t.guests }
func (t *tx) Payments() repository.PaymentRepository { return t.payments }
func (t *tx) Rates() repository.RateRepository { return t.rates }

func scanIDs(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
