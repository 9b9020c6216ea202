package seenstore

import (
	"time"

	"blog-notifier/internal/resilience/retry"
)

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

const sampleDocument = `{
  "seenUrls": [
    "https://react.dev/blog/2024/12/05/react-19"
  ],
  "lastUpdated": "2024-12-05T00:00:00Z"
}`
