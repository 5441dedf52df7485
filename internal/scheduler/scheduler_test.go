package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-library/internal/config"
	"storefront-library/internal/jobs"
)

func TestNewScheduler_RegistersJobs(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		SendLendExpiryReminders: "0 0 * * * *",
		ReportExpiredLends:      "0 0 3 * * *",
	}}
	s := NewScheduler(jobs.NewJobRunner(nil, &jobs.Services{}, cfg))

	assert.Len(t, s.cron.Entries(), 2)
	assert.True(t, s.IsRunning())
}

func TestNewScheduler_SkipsInvalidSchedule(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		SendLendExpiryReminders: "every hour",
		ReportExpiredLends:      "0 0 3 * * *",
	}}
	s := NewScheduler(jobs.NewJobRunner(nil, &jobs.Services{}, cfg))

	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		SendLendExpiryReminders: "0 0 * * * *",
		ReportExpiredLends:      "0 0 3 * * *",
	}}
	s := NewScheduler(jobs.NewJobRunner(nil, &jobs.Services{}, cfg))
	s.Start()
	s.Stop()
}
