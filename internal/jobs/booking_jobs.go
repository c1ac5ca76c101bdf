package jobs

import (
	"context"

	"hotelcore/internal/logger"
)

// MarkNoShows moves new/confirmed bookings whose stay has ended to no_show
func (jr *JobRunner) MarkNoShows() {
	jr.runWithRecovery("MarkNoShows", func() {
		now := jr.now()
		total := 0
		failed := jr.forEachProperty("MarkNoShows", func(ctx context.Context, propertyID int64) error {
			marked, err := jr.services.Booking.MarkNoShows(ctx, propertyID, now)
			if err != nil {
				return err
			}
			for _, id := range marked {
				logger.Debug("Marked booking as no-show", "property_id", propertyID, "booking_id", id)
			}
			total += len(marked)
			return nil
		})
		logger.Info("Marked bookings as no-show", "count", total, "failed_properties", failed)
	})
}
