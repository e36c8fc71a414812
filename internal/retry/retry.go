// Package retry implements spec.md §7's "retryable decorator pattern": read
// RPCs that depend on a specific block may retry a bounded number of times
// with short sleeps if the block is still being mined.
package retry

import (
	"context"
	"time"
)

const (
	Attempts = 3
	Delay    = 20 * time.Millisecond
)

// Do calls fn up to Attempts times, sleeping Delay between attempts,
// stopping early on a nil error or a non-retryable result. shouldRetry
// inspects the error returned by fn to decide whether another attempt is
// worthwhile (e.g. "still being mined" vs a permanent NotFoundError).
func Do(ctx context.Context, shouldRetry func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; attempt < Attempts; attempt++ {
		err = fn()
		if err == nil || !shouldRetry(err) {
			return err
		}
		if attempt == Attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(Delay):
		}
	}
	return err
}
