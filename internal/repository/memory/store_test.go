package memory

import (
	"context"
	"testing"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/repository"
	"hotelcore/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturesYAML = `
properties:
  - name: Silk Road Inn
    currency: UZS
    timezone: Asia/Tashkent
    rooms:
      - {number: "101", room_type: double, base_price: 100000}
      - {number: "202", room_type: suite, base_price: 250000, status: maintenance}
    guests:
      - {first_name: Aziz, last_name: Karimov}
    rates:
      - {name: Navruz, type: special, price: 150000, date_from: "2026-03-20", date_to: "2026-03-22"}
      - {name: Weekend, type: weekend, price: 120000, days_of_week: [5, 6], rooms: ["101"]}
      - {name: Long stay, type: longstay, discount_percent: "12.5", min_stay: 7, inactive: true}
  - name: Registan Hotel
    rooms:
      - {number: "1", room_type: single, base_price: 60000}
`

func TestSeed(t *testing.T) {
	fixtures, err := ParseFixtures([]byte(fixturesYAML))
	require.NoError(t, err)

	store := NewStore()
	ids, err := store.Seed(fixtures)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	ctx := tenant.Set(context.Background(), ids[0])
	err = store.WithinTenant(ctx, repository.TxOptions{ReadOnly: true}, func(ctx context.Context, tx repository.Tx) error {
		rooms, err := tx.Rooms().List(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		assert.Equal(t, domain.RoomStatusActive, rooms[0].Status)
		assert.Equal(t, domain.RoomStatusMaintenance, rooms[1].Status)

		rates, err := tx.Rates().ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, rates, 2)
		byName := map[string]domain.Rate{}
		for _, r := range rates {
			byName[r.Name] = r
		}
		navruz := byName["Navruz"]
		require.NotNil(t, navruz.DateFrom)
		assert.Equal(t, "2026-03-20", navruz.DateFrom.Format("2006-01-02"))
		assert.Equal(t, []int64{rooms[0].ID}, byName["Weekend"].RoomIDs)
		assert.Equal(t, []int32{5, 6}, byName["Weekend"].DaysOfWeek)
		return nil
	})
	require.NoError(t, err)

	other := tenant.Set(context.Background(), ids[1])
	err = store.WithinTenant(other, repository.TxOptions{ReadOnly: true}, func(ctx context.Context, tx repository.Tx) error {
		rooms, err := tx.Rooms().List(ctx)
		assert.Len(t, rooms, 1)
		return err
	})
	require.NoError(t, err)
}

func TestSeed_InvalidRate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"price and discount", `{name: Both, type: base, price: 1, discount_percent: "5"}`, "exactly one"},
		{"neither", `{name: None, type: base}`, "exactly one"},
		{"unknown room", `{name: Lost, type: base, price: 1, rooms: ["999"]}`, "unknown room"},
		{"bad date", `{name: Odd, type: seasonal, price: 1, date_from: "20/03/2026"}`, "invalid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixtures, err := ParseFixtures([]byte("properties:\n  - name: P\n    rates:\n      - " + tt.yaml + "\n"))
			require.NoError(t, err)
			_, err = NewStore().Seed(fixtures)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestGuestRecompute_PropagatesListError(t *testing.T) {
	store := NewStore()
	p := store.AddProperty(domain.Property{Name: "Silk Road Inn"})
	g := store.AddGuest(domain.Guest{PropertyID: p.ID, FirstName: "Aziz"})
	store.Corrupt(0, 0, g.ID, 777)

	ctx, cancel := context.WithCancel(tenant.Set(context.Background(), p.ID))
	err := store.WithinTenant(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		cancel()
		agg, err := tx.Guests().RecomputeAggregates(ctx, g.ID)
		assert.Nil(t, agg)
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)

	stored, ok := store.Guest(g.ID)
	require.True(t, ok)
	assert.Equal(t, int64(777), stored.TotalRevenue)
}

func TestWithinTenant_ReadOnlyRejectsWrites(t *testing.T) {
	store := NewStore()
	p := store.AddProperty(domain.Property{Name: "Silk Road Inn"})
	ctx := tenant.Set(context.Background(), p.ID)

	err := store.WithinTenant(ctx, repository.TxOptions{ReadOnly: true}, func(ctx context.Context, tx repository.Tx) error {
		return tx.Guests().Create(ctx, &domain.Guest{FirstName: "Aziz", CreatedAt: time.Now()})
	})
	assert.ErrorIs(t, err, domain.ErrInternal)
}
