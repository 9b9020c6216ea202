// Package worker runs the notifier on a cron schedule inside one long-lived
// process and serves its health and Prometheus endpoints.
package worker

import (
	"fmt"
	"time"

	"blog-notifier/pkg/config"
)

// Config controls cron mode.
type Config struct {
	// CronSchedule is a five-field cron expression. Default: every 30 minutes.
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in. Default: UTC.
	Timezone string

	// RunTimeout bounds a single run, from first fetch to persistence.
	// Range: 1m-1h. Default: 10 minutes.
	RunTimeout time.Duration

	// MetricsPort serves /metrics, /health and /health/ready. Default: 9090.
	MetricsPort int
}

// DefaultConfig returns the cron mode defaults.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "*/30 * * * *",
		Timezone:     "UTC",
		RunTimeout:   10 * time.Minute,
		MetricsPort:  9090,
	}
}

// LoadConfigFromEnv reads CRON_SCHEDULE, WORKER_TIMEZONE, RUN_TIMEOUT and
// METRICS_PORT over the defaults. It does not validate; call Validate.
func LoadConfigFromEnv() Config {
	def := DefaultConfig()
	return Config{
		CronSchedule: config.GetEnvString("CRON_SCHEDULE", def.CronSchedule),
		Timezone:     config.GetEnvString("WORKER_TIMEZONE", def.Timezone),
		RunTimeout:   config.GetEnvDuration("RUN_TIMEOUT", def.RunTimeout),
		MetricsPort:  config.GetEnvInt("METRICS_PORT", def.MetricsPort),
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDurationRange(c.RunTimeout, time.Minute, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// Location returns the loaded timezone, or UTC if it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
