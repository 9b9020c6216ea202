package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blog-notifier/internal/observability/logging"

	"github.com/robfig/cron/v3"
)

// Job is one notifier run.
type Job func(ctx context.Context) error

// Scheduler triggers Job on the configured cron schedule. A trigger that fires
// while the previous run is still in progress is skipped, never queued.
type Scheduler struct {
	cfg     Config
	job     Job
	metrics *Metrics
	logger  *slog.Logger
	cron    *cron.Cron
	baseCtx context.Context
}

// NewScheduler validates the schedule and registers job.
func NewScheduler(cfg Config, job Job, metrics *Metrics, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cfg:     cfg,
		job:     job,
		metrics: metrics,
		logger:  logger,
		baseCtx: context.Background(),
	}

	cronLogger := &cronLogger{logger: logger, metrics: metrics}
	s.cron = cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := s.cron.AddFunc(cfg.CronSchedule, func() { _ = s.RunOnce(s.baseCtx) }); err != nil {
		return nil, fmt.Errorf("add cron job: %w", err)
	}
	return s, nil
}

// Start runs the scheduler until ctx is cancelled, then waits for an
// in-flight run to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.baseCtx = ctx
	s.cron.Start()
	s.logger.Info("scheduler started",
		slog.String("schedule", s.cfg.CronSchedule),
		slog.String("timezone", s.cfg.Timezone))

	<-ctx.Done()
	s.logger.Info("scheduler stopping")
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Next reports when the job fires next, or the zero time if not started.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce executes the job once under the run timeout and records the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	runID := logging.NewRunID()
	ctx = logging.WithRunID(ctx, s.logger, runID)

	err := s.job(ctx)
	s.metrics.RecordJobDuration(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordJobRun(StatusFailure)
	} else {
		s.metrics.RecordJobRun(StatusSuccess)
		s.metrics.RecordLastSuccess()
	}

	if next := s.Next(); !next.IsZero() {
		logging.FromContext(ctx).Info("next run scheduled", slog.Time("next_run", next))
	}
	return err
}

// cronLogger adapts slog to cron.Logger and counts skipped triggers.
type cronLogger struct {
	logger  *slog.Logger
	metrics *Metrics
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		l.metrics.RecordJobRun(StatusSkipped)
		l.logger.Warn("previous run still in progress, skipping trigger")
		return
	}
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, slog.Any("error", err))...)
}
