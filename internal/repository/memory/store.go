// Package memory is an in-process repository backend used by tests and by
// the server's dev mode. A unit of work holds one store-wide lock and rolls
// back from a snapshot, so it has the same isolation as a serial schedule.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/repository"
	"hotelcore/internal/tenant"
	"hotelcore/internal/utils"
)

type state struct {
	nextID     int64
	properties map[int64]domain.Property
	rooms      map[int64]domain.Room
	blocks     map[int64]domain.RoomBlock
	guests     map[int64]domain.Guest
	bookings   map[int64]domain.Booking
	payments   map[int64]domain.Payment
	rates      map[int64]domain.Rate
}

func newState() *state {
	return &state{
		properties: make(map[int64]domain.Property),
		rooms:      make(map[int64]domain.Room),
		blocks:     make(map[int64]domain.RoomBlock),
		guests:     make(map[int64]domain.Guest),
		bookings:   make(map[int64]domain.Booking),
		payments:   make(map[int64]domain.Payment),
		rates:      make(map[int64]domain.Rate),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	for k, v := range s.properties {
		c.properties[k] = v
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.blocks {
		c.blocks[k] = v
	}
	for k, v := range s.guests {
		c.guests[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.rates {
		c.rates[k] = v
	}
	return c
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// Store implements repository.TxManager in memory.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

var _ repository.TxManager = (*Store)(nil)

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

func (s *Store) WithinTenant(ctx context.Context, opts repository.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	t := &memTx{st: s.st, propertyID: tenant.Current(ctx), now: s.now, readOnly: opts.ReadOnly}
	if err := fn(ctx, t); err != nil {
		s.st = snapshot
		return err
	}
	if opts.ReadOnly && t.wrote {
		s.st = snapshot
		return domain.ErrInternal
	}
	return nil
}

func (s *Store) ListPropertyIDs(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.st.properties))
	for id := range s.st.properties {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Seeding bypasses tenant scoping, the way migrations and fixtures do.

func (s *Store) AddProperty(p domain.Property) domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.st.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.st.properties[p.ID] = p
	return p
}

func (s *Store) AddRoom(r domain.Room) domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.st.id()
	if r.Status == "" {
		r.Status = domain.RoomStatusActive
	}
	r.CreatedAt, r.UpdatedAt = s.now(), s.now()
	s.st.rooms[r.ID] = r
	return r
}

func (s *Store) AddGuest(g domain.Guest) domain.Guest {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.st.id()
	g.CreatedAt, g.UpdatedAt = s.now(), s.now()
	s.st.guests[g.ID] = g
	return g
}

func (s *Store) AddRate(r domain.Rate) domain.Rate {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.st.id()
	s.st.rates[r.ID] = r
	return r
}

// SetRoomStatus changes a room outside any tenant scope.
func (s *Store) SetRoomStatus(roomID int64, status domain.RoomStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.st.rooms[roomID]
	r.Status = status
	s.st.rooms[roomID] = r
}

// Corrupt overwrites stored derived fields, for reconcile tests.
func (s *Store) Corrupt(bookingID, paidAmount int64, guestID, totalRevenue int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.st.bookings[bookingID]; ok {
		b.PaidAmount = paidAmount
		s.st.bookings[bookingID] = b
	}
	if g, ok := s.st.guests[guestID]; ok {
		g.TotalRevenue = totalRevenue
		s.st.guests[guestID] = g
	}
}

// Booking reads a booking without tenant scoping, for assertions.
func (s *Store) Booking(id int64) (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	return b, ok
}

// Guest reads a guest without tenant scoping, for assertions.
func (s *Store) Guest(id int64) (domain.Guest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.st.guests[id]
	return g, ok
}

type memTx struct {
	st         *state
	propertyID int64
	now        func() time.Time
	readOnly   bool
	wrote      bool
}

func (t *memTx) write() { t.wrote = true }

func (t *memTx) owns(propertyID int64) bool {
	return t.propertyID != tenant.NoProperty && propertyID == t.propertyID
}

func (t *memTx) PropertyID() int64 { return t.propertyID }
func (t *memTx) Properties() repository.PropertyRepository { return propertyRepo{t} }
func (t *memTx) Rooms() repository.RoomRepository { return roomRepo{t} }
func (t *memTx) RoomBlocks() repository.RoomBlockRepository { return blockRepo{t} }
func (t *memTx) Bookings() repository.BookingRepository { return bookingRepo{t} }
func (t *memTx) Guests() repository.GuestRepository { return guestRepo{t} }
func (t *memTx) Payments() repository.PaymentRepository { return paymentRepo{t} }
func (t *memTx) Rates() repository.RateRepository { return rateRepo{t} }

type propertyRepo struct{ t *memTx }

func (r propertyRepo) Current(ctx context.Context) (*domain.Property, error) {
	p, ok := r.t.st.properties[r.t.propertyID]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	return &p, nil
}

type roomRepo struct{ t *memTx }

func (r roomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	rm, ok := r.t.st.rooms[id]
	if !ok || !r.t.owns(rm.PropertyID) {
		return nil, domain.ErrRoomNotFound
	}
	return &rm, nil
}

// LockByID is GetByID: the store-wide lock already serialises units of work.
func (r roomRepo) LockByID(ctx context.Context, id int64) (*domain.Room, error) {
	return r.GetByID(ctx, id)
}

func (r roomRepo) List(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	for _, rm := range r.t.st.rooms {
		if r.t.owns(rm.PropertyID) {
			rooms = append(rooms, rm)
		}
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Number != rooms[j].Number {
			return rooms[i].Number < rooms[j].Number
		}
		return rooms[i].ID < rooms[j].ID
	})
	return rooms, nil
}

type blockRepo struct{ t *memTx }

func (r blockRepo) Create(ctx context.Context, b *domain.RoomBlock) error {
	r.t.write()
	if rm, ok := r.t.st.rooms[b.RoomID]; !ok || !r.t.owns(rm.PropertyID) {
		return domain.ErrInvalidArgument
	}
	b.ID = r.t.st.id()
	b.PropertyID = r.t.propertyID
	b.CreatedAt = r.t.now()
	r.t.st.blocks[b.ID] = *b
	return nil
}

func (r blockRepo) GetByID(ctx context.Context, id int64) (*domain.RoomBlock, error) {
	b, ok := r.t.st.blocks[id]
	if !ok || !r.t.owns(b.PropertyID) {
		return nil, domain.ErrRoomBlockNotFound
	}
	return &b, nil
}

func (r blockRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	r.t.write()
	delete(r.t.st.blocks, id)
	return nil
}

func (r blockRepo) ListOverlapping(ctx context.Context, roomID int64, from, to time.Time) ([]domain.RoomBlock, error) {
	var blocks []domain.RoomBlock
	for _, b := range r.t.st.blocks {
		if r.t.owns(b.PropertyID) && b.RoomID == roomID && utils.Overlaps(b.DateFrom, b.DateTo, from, to) {
			blocks = append(blocks, b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].DateFrom.Before(blocks[j].DateFrom) })
	return blocks, nil
}
