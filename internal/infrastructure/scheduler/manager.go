// Package scheduler provides background job management using gocron v2.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tripdesk/tripdesk/internal/domain/currency"
	"github.com/tripdesk/tripdesk/internal/shared/biztime"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

// RateWarmer is the part of the rate provider the warm-up job needs.
// GetRates honours the cache TTL, so a warm-up never spends upstream quota
// while the cached snapshot is fresh.
type RateWarmer interface {
	GetRates(ctx context.Context) *currency.Snapshot
}

// SchedulerManager owns the gocron scheduler of the process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// Cron expressions, if any, are evaluated in the agency timezone.
func NewSchedulerManager(log logger.Interface, opts ...gocron.SchedulerOption) (*SchedulerManager, error) {
	opts = append([]gocron.SchedulerOption{gocron.WithLocation(biztime.Location())}, opts...)
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterRateWarmupJob keeps the rate cache populated by calling GetRates
// every interval, starting immediately.
func (m *SchedulerManager) RegisterRateWarmupJob(warmer RateWarmer, interval, timeout time.Duration) error {
	if interval <= 0 {
		return errors.New("warm-up interval must be positive")
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.warmRates(ctx, warmer)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("currency", "warmup"),
		gocron.WithName("currency-rate-warmup"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered currency rate warm-up job", "interval", interval)
	return nil
}

func (m *SchedulerManager) warmRates(ctx context.Context, warmer RateWarmer) {
	startTime := biztime.NowUTC()
	snapshot := warmer.GetRates(ctx)

	m.logger.Debugw("currency rate warm-up finished",
		"is_fallback", snapshot.IsFallback,
		"fetched_at", snapshot.FetchedAt,
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler. It is a no-op when already started.
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
