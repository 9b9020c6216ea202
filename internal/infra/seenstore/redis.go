package seenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-notifier/internal/resilience/retry"
	"blog-notifier/internal/usecase/seen"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key holding the document when none is configured.
const DefaultRedisKey = "blog-notifier:seen"

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// redisAPI is the subset of *redis.Client the backend uses.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisBackend keeps the document in one Redis string key.
type RedisBackend struct {
	client      redisAPI
	key         string
	retryConfig retry.Config
	closer      func() error
}

var _ seen.Backend = (*RedisBackend)(nil)

// NewRedisBackend connects to Redis and verifies the connection with PING.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	b := newRedisBackend(client, cfg.Key)
	b.closer = client.Close
	return b, nil
}

func newRedisBackend(client redisAPI, key string) *RedisBackend {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{
		client:      client,
		key:         key,
		retryConfig: retry.SeenStoreConfig(),
	}
}

// Name implements seen.Backend.
func (b *RedisBackend) Name() string { return "redis" }

// Get implements seen.Backend.
func (b *RedisBackend) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := retry.WithBackoff(ctx, b.retryConfig, func() error {
		val, err := b.client.Get(ctx, b.key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return seen.ErrDocumentNotFound
			}
			return fmt.Errorf("redis GET %s: %w", b.key, err)
		}
		data = val
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put implements seen.Backend. The key never expires.
func (b *RedisBackend) Put(ctx context.Context, data []byte) error {
	return retry.WithBackoff(ctx, b.retryConfig, func() error {
		if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
			return fmt.Errorf("redis SET %s: %w", b.key, err)
		}
		return nil
	})
}

// Close releases the Redis connection pool.
func (b *RedisBackend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}
