package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics("backoffice")

	m.RecordWebhook("asaas", "processed", 20*time.Millisecond)
	m.RecordWebhook("asaas", "processed", 10*time.Millisecond)
	m.RecordWebhook("stripe", "failed", time.Millisecond)
	m.RecordCadenceMessage("welcome", "sent")
	m.RecordSweep(3, 1, time.Unix(1700000000, 0))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("asaas", "processed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("stripe", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CadenceMessagesTotal.WithLabelValues("welcome", "sent")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.SweeperTransitions.WithLabelValues("vencido")))
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(m.SweeperLastRun))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("backoffice")
	m.RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `backoffice_http_requests_total{method="GET",path="/health",status="200"} 1`))
}

func TestNewMetrics_Independent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics("a")
		NewMetrics("a")
	})
}
