package seenstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blog-notifier/internal/usecase/seen"
)

// Backend kinds accepted by SEEN_STORE.
const (
	KindFile     = "file"
	KindGist     = "gist"
	KindS3       = "s3"
	KindRedis    = "redis"
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// ErrUnknownBackend is returned for a SEEN_STORE value outside the known kinds.
var ErrUnknownBackend = errors.New("unknown seen-store backend")

// Config selects and configures one backend.
type Config struct {
	Backend  string
	FilePath string
	Gist     GistConfig
	S3       S3Config
	Redis    RedisConfig
	Postgres PostgresConfig
}

// PostgresConfig configures the postgres backend.
type PostgresConfig struct {
	DSN        string
	DocumentID string
}

// Validate checks that the selected backend has what it needs to connect.
func (c Config) Validate() error {
	switch c.kind() {
	case KindFile, KindMemory:
		return nil
	case KindGist:
		if c.Gist.GistID == "" || c.Gist.Token == "" {
			return errors.New("gist seen-store requires GIST_ID and GIST_TOKEN")
		}
	case KindS3:
		if c.S3.Bucket == "" {
			return errors.New("s3 seen-store requires S3_BUCKET")
		}
	case KindRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis seen-store requires REDIS_ADDR")
		}
	case KindPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres seen-store requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	return nil
}

func (c Config) kind() string {
	kind := strings.ToLower(strings.TrimSpace(c.Backend))
	if kind == "" {
		return KindFile
	}
	return kind
}

// Open builds the configured backend. The returned close func releases any
// connection the backend holds and is always non-nil.
func Open(ctx context.Context, cfg Config) (seen.Backend, func() error, error) {
	noop := func() error { return nil }

	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	switch cfg.kind() {
	case KindGist:
		b, err := NewGistBackend(cfg.Gist)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case KindS3:
		b, err := NewS3Backend(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case KindRedis:
		b, err := NewRedisBackend(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case KindPostgres:
		b, err := OpenPostgresBackend(ctx, cfg.Postgres.DSN, cfg.Postgres.DocumentID)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case KindMemory:
		return NewMemoryBackend(), noop, nil
	default:
		return NewFileBackend(cfg.FilePath), noop, nil
	}
}
