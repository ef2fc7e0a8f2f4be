package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cnapi/config"
	"cnapi/internal/database/client"
	"cnapi/internal/database/fluentd/repository"
	"cnapi/internal/database/memory"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/pkg/response"
	"cnapi/internal/service"
	"cnapi/internal/telemetry"
	"cnapi/utils/clock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	RequestID string          `json:"requestID"`
	Code      int             `json:"code"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Meta      *struct {
		Usage      *service.UsageSnapshot `json:"usage"`
		Pagination *response.Pagination   `json:"pagination"`
	} `json:"meta"`
}

// harness 以記憶體儲存組出完整的中介層鏈
type harness struct {
	conf      *config.Configuration
	trace     *telemetry.Trace
	metric    *telemetry.Metric
	logRepo   *repository.LogRepository
	keys      *memory.APIKeyStore
	logs      *memory.UsageLogStore
	summaries *memory.UsageSummaryStore
	apiKeys   *service.APIKeyService
	recorder  *service.UsageRecorder
	gateway   *service.GatewayService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conf := (&config.Configuration{}).Normalize()
	conf.App.SecretKey = "test-secret"

	trace, _, err := telemetry.NewTrace(conf)
	require.NoError(t, err)
	metric := telemetry.NewMetric(conf)
	logger := zap.NewNop()
	fluentdClient, cleanupFluentd, err := client.NewFluentdClient(logger, conf)
	require.NoError(t, err)
	t.Cleanup(cleanupFluentd)

	h := &harness{
		conf:      conf,
		trace:     trace,
		metric:    metric,
		logRepo:   repository.NewLogRepository(conf, fluentdClient),
		keys:      memory.NewAPIKeyStore(),
		logs:      memory.NewUsageLogStore(),
		summaries: memory.NewUsageSummaryStore(),
	}
	clk := clock.NewFake(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	tiers := service.NewBillingTierService(trace, metric,
		memory.NewBillingTierStore(model.BillingTier{TierName: "basic", MonthlyCallLimit: 1000}),
		memory.NewTierCache(), logger)
	usage := service.NewUsageService(trace, metric, h.logs, h.summaries, clk, conf, logger)
	quota := service.NewQuotaService(trace, metric, usage, tiers, conf, logger)
	h.apiKeys = service.NewAPIKeyService(trace, h.keys, clk, conf, logger)

	recorder, cleanup := service.NewUsageRecorder(usage, service.NewObservedFailureSink(logger, metric, h.logRepo), metric, conf, logger)
	t.Cleanup(cleanup)
	h.recorder = recorder
	h.gateway = service.NewGatewayService(trace, metric, h.apiKeys, quota, usage, recorder, conf, logger)
	return h
}

// engine trace → compress → recovery → response → handlers
func (h *harness) engine(extra ...gin.HandlerFunc) *gin.Engine {
	logger := zap.NewNop()
	r := gin.New()
	r.Use(NewTraceEntry(h.trace, h.metric, h.conf).Handler())
	r.Use(NewCompress(h.trace).Handler())
	r.Use(NewRecovery(logger, h.trace, h.conf, h.logRepo).ErrorHandler())
	r.Use(NewResponse(logger, h.trace, h.conf, h.logRepo).FormatHandler())
	r.Use(extra...)
	return r
}

func (h *harness) issue(t *testing.T) *service.IssuedAPIKey {
	t.Helper()
	issued, err := h.apiKeys.Issue(context.Background(), "acme", "basic", nil)
	require.NoError(t, err)
	return issued
}

func (h *harness) wait(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.recorder.Wait(ctx))
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func zapNop() *zap.Logger { return zap.NewNop() }
