package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/repository"
	"hotelcore/internal/tenant"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var setConfigSQL = regexp.QuoteMeta(setCurrentPropertyQuery)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func roomRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "property_id", "number", "room_type", "base_price", "status", "created_at", "updated_at"})
}

func TestTxManager_WithinTenant(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Sets and clears the property around a commit", func(t *testing.T) {
		db, mock := newMock(t)
		mgr := NewTxManager(db)
		ctx := tenant.Set(context.Background(), 7)

		mock.ExpectBegin()
		mock.ExpectExec(setConfigSQL).WithArgs("7").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM rooms WHERE id = \\$1 AND property_id = \\$2").
			WithArgs(int64(3), int64(7)).
			WillReturnRows(roomRows().AddRow(3, 7, "101", "double", 50000, "active", now, now))
		mock.ExpectExec(setConfigSQL).WithArgs("0").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		var room *domain.Room
		err := mgr.WithinTenant(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			assert.Equal(t, int64(7), tx.PropertyID())
			var err error
			room, err = tx.Rooms().GetByID(ctx, 3)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, "101", room.Number)
		assert.Equal(t, int64(50000), room.BasePrice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back when the unit of work fails", func(t *testing.T) {
		db, mock := newMock(t)
		mgr := NewTxManager(db)
		ctx := tenant.Set(context.Background(), 7)

		mock.ExpectBegin()
		mock.ExpectExec(setConfigSQL).WithArgs("7").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		err := mgr.WithinTenant(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			return domain.ErrRoomNotAvailable
		})
		assert.ErrorIs(t, err, domain.ErrRoomNotAvailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing tenant binds property zero", func(t *testing.T) {
		db, mock := newMock(t)
		mgr := NewTxManager(db)

		mock.ExpectBegin()
		mock.ExpectExec(setConfigSQL).WithArgs("0").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM rooms WHERE property_id = \\$1").
			WithArgs(int64(0)).
			WillReturnRows(roomRows())
		mock.ExpectExec(setConfigSQL).WithArgs("0").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := mgr.WithinTenant(context.Background(), repository.TxOptions{ReadOnly: true}, func(ctx context.Context, tx repository.Tx) error {
			rooms, err := tx.Rooms().List(ctx)
			assert.Empty(t, rooms)
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Serialization failure on commit maps to a conflict", func(t *testing.T) {
		db, mock := newMock(t)
		mgr := NewTxManager(db)
		ctx := tenant.Set(context.Background(), 2)

		mock.ExpectBegin()
		mock.ExpectExec(setConfigSQL).WithArgs("2").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(setConfigSQL).WithArgs("0").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

		err := mgr.WithinTenant(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			return nil
		})
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	})
}

func TestTxManager_ListPropertyIDs(t *testing.T) {
	db, mock := newMock(t)
	mgr := NewTxManager(db)

	mock.ExpectQuery("SELECT id FROM properties ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	ids, err := mgr.ListPropertyIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"No rows", sql.ErrNoRows, domain.ErrBookingNotFound},
		{"Exclusion violation", &pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"}, domain.ErrRoomNotAvailable},
		{"Serialization failure", &pq.Error{Code: "40001"}, domain.ErrConcurrencyConflict},
		{"Deadlock", &pq.Error{Code: "40P01"}, domain.ErrConcurrencyConflict},
		{"Row level security", &pq.Error{Code: "42501"}, domain.ErrTenantMismatch},
		{"Check violation", &pq.Error{Code: "23514", Constraint: "bookings_dates_check"}, domain.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err, domain.ErrBookingNotFound), tt.want)
		})
	}

	t.Run("Unknown errors stay wrapped", func(t *testing.T) {
		raw := errors.New("connection reset")
		err := mapError(raw, nil)
		assert.ErrorIs(t, err, raw)
		assert.Equal(t, "INTERNAL", domain.ErrorCode(err))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, mapError(nil, nil))
	})
}
