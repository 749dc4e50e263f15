package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.ClassificationRecorded(core.TierRule)
	r.ClassificationRecorded(core.TierRule)
	r.ClassificationRecorded(core.TierOverride)
	r.EntertainmentBatchRecorded("failed")
	r.DraftRecorded("drafted")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.classifications.WithLabelValues("rule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.classifications.WithLabelValues("override")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.entertainment.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.drafts.WithLabelValues("drafted")))
}

func TestRecorderHandler(t *testing.T) {
	r := NewRecorder()
	r.DraftRecorded("ineligible")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inbox_labeler_drafts_total{outcome="ineligible"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRecorderSatisfiesMetrics(t *testing.T) {
	var _ core.Metrics = NewRecorder()
}
