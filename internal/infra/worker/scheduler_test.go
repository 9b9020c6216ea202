package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"blog-notifier/internal/observability/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, job Job) (*Scheduler, *Metrics) {
	t.Helper()
	metrics := NewMetrics(prometheus.NewRegistry())
	cfg := DefaultConfig()
	cfg.RunTimeout = time.Minute
	s, err := NewScheduler(cfg, job, metrics, slog.Default())
	require.NoError(t, err)
	return s, metrics
}

func TestScheduler_RunOnceSuccess(t *testing.T) {
	var gotRunID string
	var hadDeadline bool
	s, metrics := newTestScheduler(t, func(ctx context.Context) error {
		gotRunID = logging.RunIDFromContext(ctx)
		_, hadDeadline = ctx.Deadline()
		return nil
	})

	require.NoError(t, s.RunOnce(context.Background()))
	assert.NotEmpty(t, gotRunID)
	assert.True(t, hadDeadline)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues(StatusSuccess)))
	assert.Greater(t, testutil.ToFloat64(metrics.LastSuccessTimestamp), 0.0)
}

func TestScheduler_RunOnceFailure(t *testing.T) {
	runErr := errors.New("webhook rejected")
	s, metrics := newTestScheduler(t, func(ctx context.Context) error { return runErr })

	assert.ErrorIs(t, s.RunOnce(context.Background()), runErr)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues(StatusFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.LastSuccessTimestamp))
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CronSchedule = "not a schedule"
	_, err := NewScheduler(cfg, func(ctx context.Context) error { return nil }, NewMetrics(prometheus.NewRegistry()), nil)
	assert.ErrorContains(t, err, "add cron job")
}

func TestScheduler_NextBeforeStart(t *testing.T) {
	s, _ := newTestScheduler(t, func(ctx context.Context) error { return nil })
	assert.True(t, s.Next().IsZero())
}

func TestScheduler_NextAfterStart(t *testing.T) {
	s, _ := newTestScheduler(t, func(ctx context.Context) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	assert.Eventually(t, func() bool {
		next := s.Next()
		return !next.IsZero() && next.After(time.Now())
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_StartStopsOnCancel(t *testing.T) {
	s, _ := newTestScheduler(t, func(ctx context.Context) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestCronLogger_CountsSkips(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	l := &cronLogger{logger: slog.Default(), metrics: metrics}

	l.Info("skip")
	l.Info("wake", "now", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues(StatusSkipped)))
}
