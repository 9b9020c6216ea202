package circuitbreaker

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// DBCircuitBreaker guards the postgres seen-store connection so that an
// unreachable database fails fast on the write at the end of a run.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig returns the breaker configuration for the seen-store database.
func DBConfig() Config {
	return Config{
		Name:             "seen-store-db",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      3,
	}
}

// NewDBCircuitBreaker wraps db with the default database breaker.
func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

// NewDBCircuitBreakerWithConfig wraps db with a breaker built from cfg.
func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{
		cb: New(cfg),
		db: db,
	}
}

// ExecContext executes a statement through the breaker.
func (dcb *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := dcb.cb.Execute(func() (interface{}, error) {
		return dcb.db.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(sql.Result), nil
}

// QueryBytesContext runs a single-row, single-column query through the breaker
// and scans the column into a byte slice. sql.ErrNoRows counts as success for
// the breaker since an absent row is a normal cold start.
func (dcb *DBCircuitBreaker) QueryBytesContext(ctx context.Context, query string, args ...interface{}) ([]byte, error) {
	var noRows bool
	result, err := dcb.cb.Execute(func() (interface{}, error) {
		var data []byte
		err := dcb.db.QueryRowContext(ctx, query, args...).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			noRows = true
			return []byte(nil), nil
		}
		return data, err
	})
	if err != nil {
		return nil, err
	}
	if noRows {
		return nil, sql.ErrNoRows
	}
	return result.([]byte), nil
}

// State returns the current state of the circuit breaker.
func (dcb *DBCircuitBreaker) State() gobreaker.State {
	return dcb.cb.State()
}

// IsOpen returns true if the circuit breaker is in the open state.
func (dcb *DBCircuitBreaker) IsOpen() bool {
	return dcb.cb.IsOpen()
}

// DB returns the underlying database connection.
func (dcb *DBCircuitBreaker) DB() *sql.DB {
	return dcb.db
}
