package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cnapi/config"
	"cnapi/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricDisabledIsSafe(t *testing.T) {
	m := NewMetric(&config.Configuration{})
	assert.NotPanics(t, func() {
		m.ObserveRequest("/api/products", "200", 0.1)
		m.AuthDenied("missing")
		m.QuotaCheckFailed()
		m.UsageRecorded(core.UsageRecordOK)
		m.UsageFallback()
		m.UsageInflight(1)
		m.TierCacheLookup("hit")
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricEnabledExportsCounters(t *testing.T) {
	conf := &config.Configuration{}
	conf.App.Name = "cnapi"
	conf.Telemetry.Metric.Enabled = true

	// 兩個實例各自註冊，不會衝突
	first := NewMetric(conf)
	second := NewMetric(conf)
	require.NotNil(t, second.HttpRequestsTotal)

	first.AuthDenied("quota_exceeded")
	first.UsageRecorded(core.UsageRecordFallback)

	rec := httptest.NewRecorder()
	first.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cnapi_auth_denied_total{reason="quota_exceeded"} 1`))
	assert.True(t, strings.Contains(body, `cnapi_usage_record_total{result="fallback"} 1`))
}
