package util

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/solcore-labs/corecollection/metrics"
)

// Limiter bounds the number of in-flight RPC requests.
type Limiter struct {
	sem *semaphore.Weighted
}

func NewLimiter(maxConcurrent int) *Limiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Acquire blocks until a slot is free or ctx is done. The returned release
// func must be called exactly once.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	m := metrics.GetMetrics().RPC
	m.SemaphoreWaitDuration.Observe(time.Since(start).Seconds())
	m.ConcurrentActive.Inc()
	return func() {
		m.ConcurrentActive.Dec()
		l.sem.Release(1)
	}, nil
}
