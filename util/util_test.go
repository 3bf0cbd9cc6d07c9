package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBackoffDelay(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, base, calculateBackoffDelay(base, 0))

	maxDelay := float64(maxBackoffDelay)
	upper := time.Duration(maxDelay*(1+jitterFactor)) + time.Millisecond

	for attempt := 1; attempt <= 10; attempt++ {
		d := calculateBackoffDelay(base, attempt)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, upper)
	}
}

func TestRetry(t *testing.T) {
	errTransient := errors.New("transient")
	errFatal := errors.New("fatal")
	classify := func(err error) RetryPolicy {
		if errors.Is(err, errTransient) {
			return Again
		}
		return Stop
	}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		}, classify)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on fatal error", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), time.Millisecond, func() error {
			calls++
			return errFatal
		}, classify)
		assert.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), time.Millisecond, func() error {
			calls++
			return errTransient
		}, classify)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, maxRetries, calls)
	})

	t.Run("throttled does not spend the budget", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), time.Millisecond, func() error {
			calls++
			if calls <= maxRetries+1 {
				return errTransient
			}
			return nil
		}, func(error) RetryPolicy { return Throttled })
		require.NoError(t, err)
		assert.Equal(t, maxRetries+2, calls)
	})

	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := retry(ctx, time.Hour, func() error { return errTransient }, classify)
		assert.ErrorIs(t, err, errTransient)
	})
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(1)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release2, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}
