package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"blog-notifier/internal/config"
	"blog-notifier/internal/infra/notifier"
	"blog-notifier/internal/infra/scraper"
	"blog-notifier/internal/infra/seenstore"
	"blog-notifier/internal/infra/worker"
	"blog-notifier/internal/observability/logging"
	"blog-notifier/internal/usecase/announce"
	"blog-notifier/internal/usecase/notify"
	"blog-notifier/internal/usecase/seen"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 once the seen-set is persisted (or a
// cron scheduler shut down cleanly), 1 for any configuration, delivery or
// persistence failure.
func run() int {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := setupService(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to initialize notifier", slog.Any("error", err))
		return 1
	}
	defer cleanup()

	if cfg.RunMode == config.RunModeCron {
		return runCron(ctx, logger, cfg, svc)
	}
	return runOnce(ctx, logger, cfg.Worker.RunTimeout, svc)
}

// runner is the part of announce.Service the entry points drive.
type runner interface {
	Run(ctx context.Context) (*announce.RunStats, error)
}

// setupService builds the pipeline. The returned cleanup releases the seen
// store connection.
func setupService(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*announce.Service, func(), error) {
	dispatch := notify.NewDispatch()
	if err := dispatch.Verify(); err != nil {
		return nil, nil, err
	}

	channel, err := notifier.NewChannel(cfg.Notifier)
	if err != nil {
		return nil, nil, err
	}

	registry, err := scraper.NewFactory(createHTTPClient()).NewRegistry(cfg.Sources)
	if err != nil {
		return nil, nil, fmt.Errorf("build source registry: %w", err)
	}

	backend, closeStore, err := seenstore.Open(ctx, cfg.SeenStore)
	if err != nil {
		return nil, nil, fmt.Errorf("open seen store: %w", err)
	}

	store := seen.NewStore(backend)
	svc := announce.NewService(
		registry,
		store,
		dispatch,
		notify.NewNotifier(channel, cfg.SendInterval),
	)
	svc.Out = os.Stdout
	svc.SkipPersist = !cfg.Persist()

	logger.Info("notifier initialized",
		slog.String("run_mode", cfg.RunMode),
		slog.String("channel", channel.Name()),
		slog.String("seen_store", store.Backend()),
		slog.Int("sources", registry.Len()),
		slog.Bool("dry_run", cfg.DryRun),
		slog.Duration("send_interval", cfg.SendInterval))

	cleanup := func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close seen store", slog.Any("error", err))
		}
	}
	return svc, cleanup, nil
}

// runOnce performs a single run and maps its outcome to the exit code.
func runOnce(ctx context.Context, logger *slog.Logger, timeout time.Duration, svc runner) int {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = logging.WithRunID(ctx, logger, logging.NewRunID())

	if _, err := svc.Run(ctx); err != nil {
		logRunFailure(logging.FromContext(ctx), err)
		return 1
	}
	return 0
}

func runCron(ctx context.Context, logger *slog.Logger, cfg *config.Config, svc runner) int {
	metrics := worker.NewMetrics(prometheus.DefaultRegisterer)

	healthAddr := fmt.Sprintf(":%d", cfg.Worker.MetricsPort)
	healthServer := worker.NewHealthServer(healthAddr, prometheus.DefaultGatherer, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := func(ctx context.Context) error {
		_, err := svc.Run(ctx)
		if err != nil {
			logRunFailure(logging.FromContext(ctx), err)
		}
		return err
	}

	scheduler, err := worker.NewScheduler(cfg.Worker, job, metrics, logger)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		return 1
	}

	healthServer.SetReady(true)
	scheduler.Start(ctx)
	return 0
}

// logRunFailure names the failure class so operators can tell a rejected
// webhook from a storage outage.
func logRunFailure(logger *slog.Logger, err error) {
	var (
		unsupported *notify.UnsupportedSourceError
		sendFailure *notify.SendFailure
		persistErr  *seen.PersistenceError
	)
	switch {
	case errors.As(err, &unsupported):
		logger.Error("no formatter for source; seen-set not updated",
			slog.String("source", string(unsupported.Source)), slog.Any("error", err))
	case errors.As(err, &sendFailure):
		logger.Error("delivery failed; remaining items will be retried next run",
			slog.Int("index", sendFailure.Index), slog.Any("error", err))
	case errors.As(err, &persistErr):
		logger.Error("seen-set write failed; sent items may be announced again",
			slog.String("backend", persistErr.Backend), slog.Any("error", err))
	default:
		logger.Error("run failed", slog.Any("error", err))
	}
}

// createHTTPClient returns the client shared by every source adapter.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 2 * time.Minute,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
