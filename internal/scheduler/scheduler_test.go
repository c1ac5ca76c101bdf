package scheduler

import (
	"testing"

	"hotelcore/internal/config"
	"hotelcore/internal/jobs"
	"hotelcore/internal/repository/memory"

	"github.com/stretchr/testify/assert"
)

func TestNewScheduler_RegistersJobs(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		MarkNoShows:         "0 0 2 * * *",
		ReconcileAggregates: "0 30 3 * * *",
	}}
	s := NewScheduler(jobs.NewJobRunner(memory.NewStore(), &jobs.Services{}, cfg))
	assert.True(t, s.IsRunning())
	assert.Len(t, s.cron.Entries(), 2)
}

func TestNewScheduler_BadSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{MarkNoShows: "not a spec", ReconcileAggregates: "0 30 3 * * *"}}
	s := NewScheduler(jobs.NewJobRunner(memory.NewStore(), &jobs.Services{}, cfg))
	assert.Len(t, s.cron.Entries(), 1)
}
