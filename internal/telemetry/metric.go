package telemetry

import (
	"net/http"

	"cnapi/config"
	"cnapi/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric struct；停用時所有欄位為 nil，下方 helper 皆可安全呼叫
type Metric struct {
	HttpRequestsTotal    *prometheus.CounterVec
	HttpRequestDuration  *prometheus.HistogramVec
	AuthDeniedTotal      *prometheus.CounterVec
	QuotaCheckFailTotal  prometheus.Counter
	UsageRecordTotal     *prometheus.CounterVec
	UsageFallbackTotal   prometheus.Counter
	UsageRecordInflight  prometheus.Gauge
	TierCacheLookupTotal *prometheus.CounterVec

	registry *prometheus.Registry
	config   *config.Configuration
}

// NewMetric 建立所有指標；每個實例有自己的 registry，測試可重複建立
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	prefix := config.App.Name + "_"

	return &Metric{
		config:   config,
		registry: registry,
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricHttpRequestDuration),
				Help:    "Request handling duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		AuthDeniedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricAuthDeniedTotal),
				Help: "Requests rejected by the API key gateway",
			},
			labelNames(core.MetricLabelReason),
		),
		QuotaCheckFailTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricQuotaCheckFailTotal),
				Help: "Quota checks that failed closed",
			},
		),
		UsageRecordTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricUsageRecordTotal),
				Help: "Usage record attempts by result",
			},
			labelNames(core.MetricLabelResult),
		),
		UsageFallbackTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricUsageFallbackTotal),
				Help: "Usage increments served by the non-atomic fallback path",
			},
		),
		UsageRecordInflight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + string(core.MetricUsageRecordInflight),
				Help: "Usage records still being written",
			},
		),
		TierCacheLookupTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricTierCacheLookupTotal),
				Help: "Billing tier cache lookups by result",
			},
			labelNames(core.MetricLabelResult),
		),
	}
}

// Handler 輸出 /metrics；停用時回 404
func (m *Metric) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metric) ObserveRequest(endpoint, status string, seconds float64) {
	if m == nil || m.HttpRequestsTotal == nil || m.HttpRequestDuration == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.HttpRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

func (m *Metric) AuthDenied(reason string) {
	if m == nil || m.AuthDeniedTotal == nil {
		return
	}
	m.AuthDeniedTotal.WithLabelValues(reason).Inc()
}

func (m *Metric) QuotaCheckFailed() {
	if m == nil || m.QuotaCheckFailTotal == nil {
		return
	}
	m.QuotaCheckFailTotal.Inc()
}

func (m *Metric) UsageRecorded(result core.UsageRecordResult) {
	if m == nil || m.UsageRecordTotal == nil {
		return
	}
	m.UsageRecordTotal.WithLabelValues(string(result)).Inc()
}

func (m *Metric) UsageFallback() {
	if m == nil || m.UsageFallbackTotal == nil {
		return
	}
	m.UsageFallbackTotal.Inc()
}

// UsageInflight delta 為 +1 / -1
func (m *Metric) UsageInflight(delta float64) {
	if m == nil || m.UsageRecordInflight == nil {
		return
	}
	m.UsageRecordInflight.Add(delta)
}

func (m *Metric) TierCacheLookup(result string) {
	if m == nil || m.TierCacheLookupTotal == nil {
		return
	}
	m.TierCacheLookupTotal.WithLabelValues(result).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
