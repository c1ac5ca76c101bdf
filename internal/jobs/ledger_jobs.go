package jobs

import (
	"context"

	"hotelcore/internal/logger"
)

// ReconcileAggregates recomputes every booking paid amount and guest aggregate
func (jr *JobRunner) ReconcileAggregates() {
	jr.runWithRecovery("ReconcileAggregates", func() {
		bookings, guests := 0, 0
		failed := jr.forEachProperty("ReconcileAggregates", func(ctx context.Context, propertyID int64) error {
			report, err := jr.services.Ledger.ReconcileProperty(ctx, propertyID)
			if err != nil {
				return err
			}
			bookings += report.Bookings
			guests += report.Guests
			return nil
		})
		logger.Info("Reconciled derived aggregates", "bookings", bookings, "guests", guests, "failed_properties", failed)
	})
}
