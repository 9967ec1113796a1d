package jobs

import (
	"context"
	"errors"
	"time"

	"rental-portal-backend/internal/config"
	"rental-portal-backend/internal/lock"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/service"
)

// jobLockTTL bounds how long a crashed replica can block the next run.
const jobLockTTL = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	locker   lock.Locker
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Payment service.PaymentService
	Email   service.EmailService
}

// NewJobRunner creates a new job runner. A nil locker runs every job
// unguarded.
func NewJobRunner(services *Services, cfg *config.Config, locker lock.Locker) *JobRunner {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &JobRunner{
		services: services,
		config:   cfg,
		locker:   locker,
	}
}

// Config exposes the configuration the runner was built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and the
// cross-replica lock. Errors are logged; a job never takes the process down.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx := context.Background()
	log := logger.WithJob(jobName)

	release, err := jr.locker.Acquire(ctx, jobName, jobLockTTL)
	if errors.Is(err, lock.ErrNotAcquired) {
		log.Info("Job already running elsewhere, skipping")
		return
	}
	if err != nil {
		log.Error("Failed to acquire job lock", "error", err)
		return
	}
	defer release()

	start := time.Now()
	log.Info("Starting job")
	if err := jobFunc(ctx); err != nil {
		log.Error("Job failed", "error", err, "duration", time.Since(start))
		return
	}
	log.Info("Job completed", "duration", time.Since(start))
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.SweepOverduePayments()
	jr.SendOverdueReminders()
}
