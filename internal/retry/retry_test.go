package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errRetryable = errors.New("still mining")
var errPermanent = errors.New("not found")

func alwaysRetry(err error) bool { return errors.Is(err, errRetryable) }

func TestDoReturnsImmediatelyOnSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), alwaysRetry, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), alwaysRetry, func() error {
		calls++
		return errPermanent
	})
	require.ErrorIs(t, err, errPermanent)
	require.Equal(t, 1, calls)
}

func TestDoRetriesUpToAttemptsThenReturnsLastError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), alwaysRetry, func() error {
		calls++
		return errRetryable
	})
	require.ErrorIs(t, err, errRetryable)
	require.Equal(t, Attempts, calls)
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), alwaysRetry, func() error {
		calls++
		if calls < Attempts {
			return errRetryable
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, Attempts, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, alwaysRetry, func() error {
		calls++
		return errRetryable
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
