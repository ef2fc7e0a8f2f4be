package handler

import (
	"bytes"
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
	"cnapi/internal/middleware"
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
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Meta    *struct {
		Pagination *response.Pagination `json:"pagination"`
	} `json:"meta"`
}

type harness struct {
	conf      *config.Configuration
	trace     *telemetry.Trace
	metric    *telemetry.Metric
	logRepo   *repository.LogRepository
	keys      *memory.APIKeyStore
	summaries *memory.UsageSummaryStore
	products  *memory.ProductStore
	health    *service.HealthService
	apiKeys   *service.APIKeyService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conf := (&config.Configuration{}).Normalize()
	conf.App.Version = "1.2.3"

	trace, _, err := telemetry.NewTrace(conf)
	require.NoError(t, err)
	metric := telemetry.NewMetric(conf)
	fluentdClient, cleanup, err := client.NewFluentdClient(zap.NewNop(), conf)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	h := &harness{
		conf:      conf,
		trace:     trace,
		metric:    metric,
		logRepo:   repository.NewLogRepository(conf, fluentdClient),
		keys:      memory.NewAPIKeyStore(),
		summaries: memory.NewUsageSummaryStore(),
		products:  memory.NewProductStore(),
		health:    service.NewHealthService(),
	}
	clk := clock.NewFake(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	h.apiKeys = service.NewAPIKeyService(trace, h.keys, clk, conf, zap.NewNop())

	h.products.Put(model.CNProduct{CNNumber: "1001", ProductName: "Apple, raw", Category: "Fruits", ServingSize: "100 g",
		NutritionData: map[string]float64{"energy_kcal": 52}},
		model.CNServing{CNNumber: "1001", SequenceNum: 2, Amount: 1, MeasureDescription: "cup, sliced", UnitAmount: 109, TypeOfUnit: "g"},
		model.CNServing{CNNumber: "1001", SequenceNum: 1, Amount: 1, MeasureDescription: "medium", UnitAmount: 182, TypeOfUnit: "g"},
	)
	h.products.Put(model.CNProduct{CNNumber: "1002", ProductName: "Oat bar", Category: "Snacks", Manufacturer: "Acme Foods"})
	h.products.Put(model.CNProduct{CNNumber: "1003", ProductName: "Banana", Category: "Fruits"})
	return h
}

// engine recovery → response → 路由，與正式環境的錯誤與包裝行為一致
func (h *harness) engine() *gin.Engine {
	logger := zap.NewNop()
	tiers := service.NewBillingTierService(h.trace, h.metric,
		memory.NewBillingTierStore(model.BillingTier{TierName: "basic", MonthlyCallLimit: 1000, PriceMonthly: 0}),
		memory.NewTierCache(), logger)
	clk := clock.NewFake(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	usage := service.NewUsageService(h.trace, h.metric, memory.NewUsageLogStore(), h.summaries, clk, h.conf, logger)
	reports := service.NewReportService(h.trace, h.apiKeys, tiers, usage)

	apiKeyHandler := NewAdminAPIKeyHandler(h.trace, h.apiKeys, reports)
	tierHandler := NewAdminTierHandler(h.trace, tiers)
	productHandler := NewProductHandler(h.trace, service.NewProductService(h.trace, h.products))
	healthHandler := NewHealthHandler(h.conf, h.health)

	r := gin.New()
	r.Use(middleware.NewRecovery(logger, h.trace, h.conf, h.logRepo).ErrorHandler())
	r.Use(middleware.NewResponse(logger, h.trace, h.conf, h.logRepo).FormatHandler())

	r.GET("/health/liveness", healthHandler.Liveness)
	r.GET("/health/readiness", healthHandler.Readiness)
	r.GET("/health-check", healthHandler.HealthCheck)
	r.GET("/version", healthHandler.Version)

	admin := r.Group("/api/admin")
	admin.POST("/api-keys", apiKeyHandler.Create)
	admin.GET("/api-keys/:apiKeyID", apiKeyHandler.Get)
	admin.DELETE("/api-keys/:apiKeyID", apiKeyHandler.Revoke)
	admin.GET("/usage/:apiKeyID", apiKeyHandler.Usage)
	admin.GET("/tiers", tierHandler.List)
	admin.PUT("/tiers/:tierName", tierHandler.Upsert)

	products := r.Group("/api/products")
	products.GET("", productHandler.List)
	products.GET("/search", productHandler.Search)
	products.GET("/:cnNumber", productHandler.Get)
	products.GET("/:cnNumber/nutrition", productHandler.Nutrition)
	products.GET("/:cnNumber/servings", productHandler.Servings)
	return r
}

func serve(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(body.Data, data))
	}
	return body
}
