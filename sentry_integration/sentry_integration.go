package sentry_integration

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/solcore-labs/corecollection/config"
)

// Init configures the global hub. It is a no-op when no DSN is configured.
func Init(cfg *config.Config, component string) error {
	sc := cfg.GetSentryConfig()
	if sc == nil {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:                sc.DSN,
		Environment:        sc.Environment,
		Release:            config.Version + "@" + config.CommitHash,
		SampleRate:         sc.SampleRate,
		EnableTracing:      sc.TracesSampleRate > 0,
		TracesSampleRate:   sc.TracesSampleRate,
		ProfilesSampleRate: sc.ProfilesSampleRate,
	})
	if err != nil {
		return err
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		scope.SetTag("cluster", cfg.GetCluster())
	})
	return nil
}

// Flush waits for buffered events before shutdown.
func Flush() {
	sentry.Flush(2 * time.Second)
}

func CaptureCurrentHubException(err error, level sentry.Level) {
	CaptureException(sentry.CurrentHub(), err, level)
}

// CaptureSignatureException attaches the transaction signature being indexed.
func CaptureSignatureException(err error, signature string, slot int64) {
	hub := sentry.CurrentHub()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTag("signature", signature)
		scope.SetContext("transaction", sentry.Context{"signature": signature, "slot": slot})
		hub.CaptureException(err)
	})
}

func CaptureException(hub *sentry.Hub, err error, level sentry.Level) {
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		hub.CaptureException(err)
	})
}

func StartSentryTransaction(ctx context.Context, operation, description string) (*sentry.Span, context.Context) {
	transaction := sentry.StartTransaction(ctx, operation)
	transaction.Description = description
	return transaction, transaction.Context()
}

func StartSentrySpan(ctx context.Context, operation, description string) (*sentry.Span, context.Context) {
	span := sentry.StartSpan(ctx, operation)
	span.Description = description
	return span, span.Context()
}
