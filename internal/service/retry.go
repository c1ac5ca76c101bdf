package service

import (
	"context"
	"errors"

	"hotelcore/internal/domain"
	"hotelcore/internal/logger"
)

// RetryOnConflict runs fn and retries it once when it fails with
// domain.ErrConcurrencyConflict. The second failure is returned as is.
func RetryOnConflict(ctx context.Context, fn func() error) error {
	err := fn()
	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		return err
	}
	if ctx.Err() != nil {
		return err
	}
	logger.WarnContext(ctx, "Retrying after concurrency conflict", "error", err)
	return fn()
}
