package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"hotelcore/internal/domain"
	"hotelcore/internal/logger"
	"hotelcore/internal/repository"
	"hotelcore/internal/tenant"
)

// unitOfWork is a tenant transaction that remembers which bookings and guests
// it touched. flush recomputes their derived fields before commit.
type unitOfWork struct {
	repository.Tx
	bookings map[int64]struct{}
	guests   map[int64]struct{}
	paid     map[int64]int64
	aggs     map[int64]domain.GuestAggregates
}

func newUnitOfWork(tx repository.Tx) *unitOfWork {
	return &unitOfWork{
		Tx:       tx,
		bookings: make(map[int64]struct{}),
		guests:   make(map[int64]struct{}),
		paid:     make(map[int64]int64),
		aggs:     make(map[int64]domain.GuestAggregates),
	}
}

func (u *unitOfWork) touchBooking(id int64) { u.bookings[id] = struct{}{} }

func (u *unitOfWork) touchGuest(id int64) { u.guests[id] = struct{}{} }

// flush runs full SUM/COUNT recomputes for everything touched so far, in id
// order, and records the results.
func (u *unitOfWork) flush(ctx context.Context) error {
	for _, id := range sortedIDs(u.bookings) {
		paid, err := u.Bookings().RecomputePaidAmount(ctx, id)
		if err != nil {
			return err
		}
		u.paid[id] = paid
	}
	for _, id := range sortedIDs(u.guests) {
		agg, err := u.Guests().RecomputeAggregates(ctx, id)
		if err != nil {
			return err
		}
		u.aggs[id] = *agg
	}
	u.bookings = make(map[int64]struct{})
	u.guests = make(map[int64]struct{})
	return nil
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// runner opens units of work for a service.
type runner struct {
	txm repository.TxManager
}

// write runs fn in a read-write unit of work and flushes derived fields
// before commit. A concurrency conflict is retried once.
func (r runner) write(ctx context.Context, propertyID int64, fn func(ctx context.Context, uow *unitOfWork) error) error {
	if err := requireTenant(ctx, propertyID); err != nil {
		return err
	}
	return RetryOnConflict(ctx, func() error {
		return r.txm.WithinTenant(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			uow := newUnitOfWork(tx)
			if err := fn(ctx, uow); err != nil {
				return err
			}
			return uow.flush(ctx)
		})
	})
}

func (r runner) read(ctx context.Context, propertyID int64, fn func(ctx context.Context, tx repository.Tx) error) error {
	if err := requireTenant(ctx, propertyID); err != nil {
		return err
	}
	return r.txm.WithinTenant(ctx, repository.TxOptions{ReadOnly: true}, fn)
}

func requireTenant(ctx context.Context, propertyID int64) error {
	current, err := tenant.Require(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTenantMismatch, err)
	}
	if current != propertyID {
		return domain.ErrTenantMismatch
	}
	return nil
}

// publicError replaces errors outside the domain taxonomy with ErrInternal.
// The raw error is logged and never returned.
func publicError(ctx context.Context, method string, err error) error {
	if err == nil {
		return nil
	}
	if domain.ErrorCode(err) != "INTERNAL" || errors.Is(err, domain.ErrInternal) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.ErrorContext(ctx, "Unexpected storage error", "method", method, "error", err)
	return fmt.Errorf("%s: %w", method, domain.ErrInternal)
}
