package util

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/solcore-labs/corecollection/metrics"
)

// ClassifyRPCError maps a failed RPC call to a retry policy. Rate limiting is
// retried without limit, server side and transport failures within the budget.
func ClassifyRPCError(err error) RetryPolicy {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Stop
	}
	if errors.Is(err, rpc.ErrNotFound) {
		return Stop
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.Code == http.StatusTooManyRequests:
			return Throttled
		case httpErr.Code >= http.StatusInternalServerError:
			return Again
		default:
			return Stop
		}
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return Stop
	}

	return Again
}

// CallRPC runs fn under limiter with retries, recording RPC metrics for method.
func CallRPC(ctx context.Context, limiter *Limiter, method string, fn func(ctx context.Context) error) error {
	return Retry(ctx, func() error {
		release, err := limiter.Acquire(ctx)
		if err != nil {
			return err
		}
		defer release()

		start := time.Now()
		err = fn(ctx)
		metrics.ObserveRPC(method, start, err)
		return err
	}, func(err error) RetryPolicy {
		policy := ClassifyRPCError(err)
		if policy == Throttled {
			metrics.GetMetrics().RPC.RateLimitHitsTotal.WithLabelValues(method).Inc()
		}
		return policy
	})
}
