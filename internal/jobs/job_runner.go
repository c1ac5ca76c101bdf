package jobs

import (
	"context"
	"time"

	"hotelcore/internal/config"
	"hotelcore/internal/logger"
	"hotelcore/internal/repository"
	"hotelcore/internal/service"
	"hotelcore/internal/tenant"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	properties repository.TxManager
	services   *Services
	config     *config.Config
	now        func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Booking service.BookingService
	Ledger  service.LedgerService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(properties repository.TxManager, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		properties: properties,
		services:   services,
		config:     cfg,
		now:        time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// forEachProperty runs fn once per property, each inside that property's
// tenant context. A failing property is logged and does not stop the rest.
func (jr *JobRunner) forEachProperty(jobName string, fn func(ctx context.Context, propertyID int64) error) (failed int) {
	ids, err := jr.properties.ListPropertyIDs(context.Background())
	if err != nil {
		logger.Error("Failed to list properties", "job", jobName, "error", err)
		return 1
	}
	for _, id := range ids {
		ctx := tenant.Set(context.Background(), id)
		if err := fn(ctx, id); err != nil {
			logger.Error("Job failed for property", "job", jobName, "property_id", id, "error", err)
			failed++
		}
	}
	return failed
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkNoShows()
	jr.ReconcileAggregates()
}
