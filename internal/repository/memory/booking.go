package memory

import (
	"context"
	"sort"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/utils"
)

type bookingRepo struct{ t *memTx }

// checkRefs mirrors the composite foreign keys and the exclusion constraint.
func (r bookingRepo) checkRefs(b *domain.Booking) error {
	if rm, ok := r.t.st.rooms[b.RoomID]; !ok || !r.t.owns(rm.PropertyID) {
		return domain.ErrInvalidArgument
	}
	if g, ok := r.t.st.guests[b.GuestID]; !ok || !r.t.owns(g.PropertyID) {
		return domain.ErrInvalidArgument
	}
	if !b.CheckOut.After(b.CheckIn) {
		return domain.ErrInvalidArgument
	}
	if !b.Status.HoldsRoom() {
		return nil
	}
	for _, other := range r.t.st.bookings {
		if other.ID == b.ID || other.RoomID != b.RoomID || other.PropertyID != r.t.propertyID || !other.Status.HoldsRoom() {
			continue
		}
		if utils.Overlaps(other.CheckIn, other.CheckOut, b.CheckIn, b.CheckOut) {
			return domain.ErrRoomNotAvailable
		}
	}
	return nil
}

func (r bookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	r.t.write()
	if err := r.checkRefs(b); err != nil {
		return err
	}
	b.ID = r.t.st.id()
	b.PropertyID = r.t.propertyID
	b.PaidAmount = 0
	b.CreatedAt, b.UpdatedAt = r.t.now(), r.t.now()
	r.t.st.bookings[b.ID] = *b
	return nil
}

func (r bookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.t.st.bookings[id]
	if !ok || !r.t.owns(b.PropertyID) {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (r bookingRepo) LockByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r bookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	stored, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	r.t.write()
	if err := r.checkRefs(b); err != nil {
		return err
	}
	b.PropertyID = stored.PropertyID
	b.PaidAmount = stored.PaidAmount
	b.CreatedAt = stored.CreatedAt
	b.UpdatedAt = r.t.now()
	r.t.st.bookings[b.ID] = *b
	return nil
}

func (r bookingRepo) list(keep func(domain.Booking) bool) []domain.Booking {
	var out []domain.Booking
	for _, b := range r.t.st.bookings {
		if r.t.owns(b.PropertyID) && keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckIn.Before(out[j].CheckIn)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r bookingRepo) ListOverlapping(ctx context.Context, roomID int64, from, to time.Time, excludeID *int64) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool {
		if excludeID != nil && b.ID == *excludeID {
			return false
		}
		return b.RoomID == roomID && b.Status.HoldsRoom() && utils.Overlaps(b.CheckIn, b.CheckOut, from, to)
	}), nil
}

func (r bookingRepo) ListByGuest(ctx context.Context, guestID int64) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.list(func(b domain.Booking) bool { return b.GuestID == guestID }), nil
}

func (r bookingRepo) ListExpiredUnarrived(ctx context.Context, onOrBefore time.Time) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool {
		unarrived := b.Status == domain.BookingStatusNew || b.Status == domain.BookingStatusConfirmed
		return unarrived && !b.CheckOut.After(onOrBefore)
	}), nil
}

func (r bookingRepo) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for _, b := range r.list(func(domain.Booking) bool { return true }) {
		ids = append(ids, b.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r bookingRepo) RecomputePaidAmount(ctx context.Context, bookingID int64) (int64, error) {
	b, err := r.GetByID(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	r.t.write()
	var paid int64
	for _, p := range r.t.st.payments {
		if p.BookingID == bookingID && p.PropertyID == b.PropertyID {
			paid += p.Amount
		}
	}
	b.PaidAmount = paid
	b.UpdatedAt = r.t.now()
	r.t.st.bookings[b.ID] = *b
	return paid, nil
}

type guestRepo struct{ t *memTx }

func (r guestRepo) Create(ctx context.Context, g *domain.Guest) error {
	r.t.write()
	if r.t.propertyID == 0 {
		return domain.ErrTenantMismatch
	}
	g.ID = r.t.st.id()
	g.PropertyID = r.t.propertyID
	g.TotalRevenue, g.VisitCount = 0, 0
	g.CreatedAt, g.UpdatedAt = r.t.now(), r.t.now()
	r.t.st.guests[g.ID] = *g
	return nil
}

func (r guestRepo) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	g, ok := r.t.st.guests[id]
	if !ok || !r.t.owns(g.PropertyID) {
		return nil, domain.ErrGuestNotFound
	}
	return &g, nil
}

func (r guestRepo) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for id, g := range r.t.st.guests {
		if r.t.owns(g.PropertyID) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r guestRepo) RecomputeAggregates(ctx context.Context, guestID int64) (*domain.GuestAggregates, error) {
	g, err := r.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	r.t.write()
	bookings, err := bookingRepo(r).ListByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	agg := domain.ComputeGuestAggregates(guestID, bookings)
	g.TotalRevenue, g.VisitCount = agg.TotalRevenue, agg.VisitCount
	g.UpdatedAt = r.t.now()
	r.t.st.guests[g.ID] = *g
	return &agg, nil
}

type paymentRepo struct{ t *memTx }

func (r paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.t.write()
	if _, err := bookingRepo(r).GetByID(ctx, p.BookingID); err != nil {
		return domain.ErrInvalidArgument
	}
	if p.Amount == 0 {
		return domain.ErrInvalidArgument
	}
	p.ID = r.t.st.id()
	p.PropertyID = r.t.propertyID
	p.CreatedAt = r.t.now()
	r.t.st.payments[p.ID] = *p
	return nil
}

func (r paymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p, ok := r.t.st.payments[id]
	if !ok || !r.t.owns(p.PropertyID) {
		return nil, domain.ErrPaymentNotFound
	}
	return &p, nil
}

func (r paymentRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	r.t.write()
	delete(r.t.st.payments, id)
	return nil
}

func (r paymentRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range r.t.st.payments {
		if r.t.owns(p.PropertyID) && p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type rateRepo struct{ t *memTx }

func (r rateRepo) ListActive(ctx context.Context) ([]domain.Rate, error) {
	var out []domain.Rate
	for _, rt := range r.t.st.rates {
		if r.t.owns(rt.PropertyID) && rt.IsActive {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
