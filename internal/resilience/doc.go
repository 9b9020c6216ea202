// Package resilience groups the fault-tolerance helpers used on every outbound
// call the notifier makes outside the webhook path.
//
//   - retry: exponential backoff with jitter for feed, page and seen-store I/O
//   - circuitbreaker: sony/gobreaker wrappers, one breaker per source adapter
//     plus a database breaker for the postgres seen-store
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig("react"))
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) { return parse(ctx) })
//	    return err
//	})
package resilience
