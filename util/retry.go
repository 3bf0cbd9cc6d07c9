package util

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

const (
	maxRetries        = 5
	baseBackoffDelay  = 500 * time.Millisecond
	maxBackoffDelay   = 30 * time.Second
	backoffMultiplier = 2.0
	jitterFactor      = 0.1
)

// RetryPolicy tells Retry what to do with a failed attempt.
type RetryPolicy int

const (
	// Stop returns the error to the caller.
	Stop RetryPolicy = iota
	// Again retries after a backoff and counts against the retry budget.
	Again
	// Throttled retries after a backoff without using the retry budget.
	Throttled
)

// calculateBackoffDelay calculates exponential backoff delay with jitter
func calculateBackoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return base
	}

	delaySeconds := base.Seconds() * math.Pow(backoffMultiplier, float64(attempt-1))
	if delaySeconds > maxBackoffDelay.Seconds() {
		delaySeconds = maxBackoffDelay.Seconds()
	}

	// +/- jitterFactor
	delaySeconds += delaySeconds * jitterFactor * (2*rand.Float64() - 1)
	if delaySeconds < base.Seconds() {
		delaySeconds = base.Seconds()
	}

	return time.Duration(delaySeconds*1000+0.5) * time.Millisecond
}

// Retry runs fn until it succeeds, classify returns Stop, the retry budget is
// spent or ctx is done. The last error from fn is returned.
func Retry(ctx context.Context, fn func() error, classify func(error) RetryPolicy) error {
	return retry(ctx, baseBackoffDelay, fn, classify)
}

func retry(ctx context.Context, base time.Duration, fn func() error, classify func(error) RetryPolicy) error {
	retries, throttled := 0, 0
	for {
		err := fn()
		if err == nil {
			return nil
		}

		var delay time.Duration
		switch classify(err) {
		case Throttled:
			throttled++
			delay = calculateBackoffDelay(base, throttled)
		case Again:
			retries++
			if retries >= maxRetries {
				return err
			}
			delay = calculateBackoffDelay(base, retries)
		default:
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
