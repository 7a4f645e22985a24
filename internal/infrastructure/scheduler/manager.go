// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

const reminderSweepJobName = "reminder-sweep"

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager manages all scheduled jobs using gocron v2.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Reminder Jobs (configurable interval, start immediately)
// ========================================

// RegisterReminderSweepJob registers the delivery reminder sweep. Singleton
// mode keeps a slow sweep from overlapping the next tick on this replica;
// cross-replica overlap is handled by the sweep's own lock.
func (m *SchedulerManager) RegisterReminderSweepJob(
	sweepJob BatchJob,
	interval time.Duration,
	timeout time.Duration,
) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runReminderSweep(ctx, sweepJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("reminder", "subscription"),
		gocron.WithName(reminderSweepJobName),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered reminder sweep job", "interval", interval.String(), "timeout", timeout.String())
	return nil
}

func (m *SchedulerManager) runReminderSweep(ctx context.Context, sweepJob BatchJob) {
	m.logger.Debugw("reminder sweep started")

	startTime := biztime.NowUTC()

	sent, err := sweepJob.Execute(ctx)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			m.logger.Warnw("reminder sweep cancelled", "sent", sent, "duration", time.Since(startTime))
			return
		}
		m.logger.Errorw("failed to run reminder sweep",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if sent > 0 {
		m.logger.Infow("reminder sweep sent reminders",
			"count", sent,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no reminders to send",
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler.
// It is safe to call Start multiple times; subsequent calls are no-ops.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	// Shutdown scheduler and wait for running jobs
	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
