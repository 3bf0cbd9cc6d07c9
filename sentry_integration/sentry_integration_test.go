package sentry_integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordingHub(t *testing.T) (*sentry.Hub, func() []*sentry.Event) {
	var (
		mtx    sync.Mutex
		events []*sentry.Event
	)
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			mtx.Lock()
			defer mtx.Unlock()
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), func() []*sentry.Event {
		mtx.Lock()
		defer mtx.Unlock()
		return events
	}
}

func TestCaptureException_Level(t *testing.T) {
	hub, recorded := newRecordingHub(t)

	CaptureException(hub, errors.New("getTransaction failed"), sentry.LevelWarning)

	events := recorded()
	require.Len(t, events, 1)
	assert.Equal(t, sentry.LevelWarning, events[0].Level)
	require.NotEmpty(t, events[0].Exception)
	assert.Equal(t, "getTransaction failed", events[0].Exception[0].Value)
}

func TestCaptureException_ScopeIsolated(t *testing.T) {
	hub, recorded := newRecordingHub(t)

	CaptureException(hub, errors.New("first"), sentry.LevelFatal)
	hub.CaptureException(errors.New("second"))

	events := recorded()
	require.Len(t, events, 2)
	assert.Equal(t, sentry.LevelFatal, events[0].Level)
	assert.NotEqual(t, sentry.LevelFatal, events[1].Level)
}

func TestStartSentrySpan_NoClient(t *testing.T) {
	span, ctx := StartSentrySpan(context.Background(), "prepareTx", "Prepare program transaction")
	require.NotNil(t, span)
	assert.Equal(t, "Prepare program transaction", span.Description)
	assert.Equal(t, span, sentry.SpanFromContext(ctx))
	span.Finish()
}
