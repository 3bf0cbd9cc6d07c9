package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHandlerPattern(t *testing.T) {
	cases := map[string]string{
		"":                                     "root",
		"/":                                    "root",
		"/swagger/index.html":                  "swagger",
		"/health":                              "health",
		"/status":                              "status",
		"/indexer/status":                      "status",
		"/indexer/core/v1/collections":         "collections",
		"/indexer/core/v1/collections/abc":     "collections",
		"/indexer/core/v1/assets/by_owner/abc": "assets",
		"/indexer/core":                        "indexer",
		"/unknown":                             "other",
	}
	for path, want := range cases {
		assert.Equal(t, want, GetHandlerPattern(path), path)
	}
}

func TestGetStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", GetStatusClass(200))
	assert.Equal(t, "3xx", GetStatusClass(304))
	assert.Equal(t, "4xx", GetStatusClass(404))
	assert.Equal(t, "5xx", GetStatusClass(503))
	assert.Equal(t, "other", GetStatusClass(101))
}

func TestGetDurationBucket(t *testing.T) {
	assert.Equal(t, "", GetDurationBucket(0.3))
	assert.Equal(t, "1-2s", GetDurationBucket(1.5))
	assert.Equal(t, "2-5s", GetDurationBucket(4))
	assert.Equal(t, "5s+", GetDurationBucket(12))
}

func TestObserveRPC(t *testing.T) {
	m := GetMetrics().RPC
	before := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("getSlot", "error"))

	ObserveRPC("getSlot", time.Now(), errors.New("boom"))
	ObserveRPC("getSlot", time.Now(), nil)

	assert.Equal(t, before+1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("getSlot", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("getSlot", "success")), 1.0)
}

func TestRecoverFromPanic(t *testing.T) {
	before := testutil.ToFloat64(GetMetrics().Error.PanicsTotal.WithLabelValues("scraper"))

	assert.Panics(t, func() {
		defer RecoverFromPanic("scraper")
		panic("boom")
	})

	assert.Equal(t, before+1, testutil.ToFloat64(GetMetrics().Error.PanicsTotal.WithLabelValues("scraper")))
	assert.Equal(t, 0.0, testutil.ToFloat64(GetMetrics().Error.ComponentHealth.WithLabelValues("scraper")))
}

func TestHandler(t *testing.T) {
	TrackError("api", "timeout")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "corecollection_errors_total")
}

func TestTrackInstructionFailure(t *testing.T) {
	counter := GetMetrics().Error.InstructionFailures.WithLabelValues("transfer", "NoApprovals")
	before := testutil.ToFloat64(counter)

	TrackInstructionFailure("transfer", "NoApprovals")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestIndexerWriteMetrics(t *testing.T) {
	db := GetMetrics().Database
	unmatched := db.UnmatchedUpdates.WithLabelValues("collection")
	before := testutil.ToFloat64(unmatched)

	TrackUnmatchedUpdate("collection")
	ObserveUpsert("asset", 3)

	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(db.UpsertRows, "corecollection_db_upsert_rows"), 1)
}

func TestInit_ClusterLabel(t *testing.T) {
	initOnce = sync.Once{}
	t.Cleanup(func() { initOnce = sync.Once{} })

	Init("devnet")
	// later lazy callers must not replace the label
	GetMetrics()
	Init("")
	TrackError("indexer", "rpc")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cluster="devnet"`)
}
