// Package scheduler runs the periodic back-office jobs on gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// BatchJob processes one batch and returns how many items it handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

const (
	DefaultSweeperCron      = "0 3 * * *"
	DefaultDispatchInterval = 30 * time.Second
	DefaultRetryInterval    = time.Minute
)

// SchedulerManager owns the single gocron scheduler of the server process.
// Cron expressions are evaluated in the business timezone.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

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

// ValidateCron checks a standard five-field expression and returns its next
// activation after from, in the business timezone.
func ValidateCron(expr string, from time.Time) (time.Time, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule.Next(from.In(biztime.Location())), nil
}

// ========================================
// Sweeper (cron, daily)
// ========================================

// RegisterSweeperJob runs the expiry sweeper on cronExpr.
func (m *SchedulerManager) RegisterSweeperJob(cronExpr string, job BatchJob) error {
	if cronExpr == "" {
		cronExpr = DefaultSweeperCron
	}
	next, err := ValidateCron(cronExpr, biztime.NowUTC())
	if err != nil {
		return err
	}

	_, err = m.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			m.runBatch(ctx, "subscriber sweep", job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscriber", "sweeper"),
		gocron.WithName("subscriber-sweeper"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered sweeper job",
		"cron", cronExpr,
		"next_run", next.Format(time.RFC3339),
	)
	return nil
}

// ========================================
// Cadence dispatch (interval, start immediately)
// ========================================

func (m *SchedulerManager) RegisterCadenceDispatchJob(interval time.Duration, job BatchJob) error {
	if interval <= 0 {
		interval = DefaultDispatchInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.runBatch(ctx, "cadence dispatch", job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("cadence", "whatsapp"),
		gocron.WithName("cadence-dispatcher"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered cadence dispatch job", "interval", interval.String())
	return nil
}

// ========================================
// Webhook retry (interval, start immediately)
// ========================================

// RegisterWebhookRetryJobs replays failed webhook events and, in the same
// tick, alerts operators about events that gave up. alertJob may be nil.
func (m *SchedulerManager) RegisterWebhookRetryJobs(interval time.Duration, retryJob, alertJob BatchJob) error {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.runBatch(ctx, "webhook retry", retryJob)
			if alertJob != nil {
				m.runBatch(ctx, "webhook alert", alertJob)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("webhook", "retry"),
		gocron.WithName("webhook-retry"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered webhook retry job",
		"interval", interval.String(),
		"alerts", alertJob != nil,
	)
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("batch job started", "job", name)

	startTime := biztime.NowUTC()
	count, err := job.Execute(ctx)
	if err != nil {
		// graceful shutdown
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("batch job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("batch job processed items",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("batch job found nothing to process",
			"job", name,
			"duration", time.Since(startTime),
		)
	}
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

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

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return m.scheduler.Shutdown()
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
