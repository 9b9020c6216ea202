package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("TC-1: burst is served immediately", func(t *testing.T) {
		limiter := NewRateLimiter(0.5, 3)
		start := time.Now()
		for i := 0; i < 3; i++ {
			require.NoError(t, limiter.Allow(context.Background()))
		}
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("TC-2: request beyond burst waits for a token", func(t *testing.T) {
		limiter := NewRateLimiter(1.0, 1)
		require.NoError(t, limiter.Allow(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Allow(ctx))
	})

	t.Run("TC-3: cancelled context is reported", func(t *testing.T) {
		limiter := NewRateLimiter(0.1, 1)
		require.NoError(t, limiter.Allow(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, limiter.Allow(ctx), context.Canceled)
	})
}
