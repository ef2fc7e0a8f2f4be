package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanCompressMiddleware TraceSpanName = "compress_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanAPIKeyMiddleware   TraceSpanName = "api_key_middleware"
	SpanAdminMiddleware    TraceSpanName = "admin_middleware"
	SpanUsageRecord        TraceSpanName = "usage_record"
	SpanTierRefreshJob     TraceSpanName = "tier_refresh_job"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal    MetricName = "requests_total"
	MetricHttpRequestDuration  MetricName = "request_duration_seconds"
	MetricAuthDeniedTotal      MetricName = "auth_denied_total"
	MetricQuotaCheckFailTotal  MetricName = "quota_check_fail_total"
	MetricUsageRecordTotal     MetricName = "usage_record_total"
	MetricUsageFallbackTotal   MetricName = "usage_fallback_total"
	MetricUsageRecordInflight  MetricName = "usage_record_inflight"
	MetricTierCacheLookupTotal MetricName = "tier_cache_lookup_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelResult   MetricLabelName = "result"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

// 驗證閘道（authenticate）
type TraceAPIKeyMiddlewareMeta struct {
	Where     string  `trace:"auth.where"`
	ClientIP  string  `trace:"net.peer.ip,omitempty"`
	APIKeyID  string  `trace:"auth.api_key_id,omitempty"`
	Tier      string  `trace:"auth.tier,omitempty"`
	Period    string  `trace:"auth.billing_month,omitempty"`
	Current   int64   `trace:"quota.current"`
	Limit     int64   `trace:"quota.limit"`
	Remaining int64   `trace:"quota.remaining"`
	Percent   float64 `trace:"quota.percent_used"`
	Status    string  `trace:"auth.status,omitempty"`
}

type TraceAdminMiddlewareMeta struct {
	Subject string `trace:"admin.subject,omitempty"`
	Status  string `trace:"admin.status,omitempty"`
}

// Key Manager 操作
type TraceAPIKeyMeta struct {
	Op        string `trace:"op"`
	APIKeyID  string `trace:"api_key.id,omitempty"`
	KeyPrefix string `trace:"api_key.prefix,omitempty"`
	Client    string `trace:"api_key.client,omitempty"`
	Tier      string `trace:"api_key.tier,omitempty"`
	Found     bool   `trace:"api_key.found"`
	Status    string `trace:"api_key.status,omitempty"`
}

// Quota Guard 判斷
type TraceQuotaMeta struct {
	APIKeyID    string  `trace:"quota.api_key_id"`
	Tier        string  `trace:"quota.tier"`
	Period      string  `trace:"quota.billing_month"`
	Current     int64   `trace:"quota.current"`
	Limit       int64   `trace:"quota.limit"`
	Remaining   int64   `trace:"quota.remaining"`
	PercentUsed float64 `trace:"quota.percent_used"`
	TierFound   bool    `trace:"quota.tier_found"`
	Allowed     bool    `trace:"quota.allowed"`
	FailClosed  bool    `trace:"quota.fail_closed"`
}

// 用量寫入（log + 月彙總）
type TraceUsageWriteMeta struct {
	APIKeyID   string `trace:"usage.api_key_id"`
	Endpoint   string `trace:"usage.endpoint"`
	StatusCode int    `trace:"usage.status_code"`
	Period     string `trace:"usage.billing_month"`
	Path       string `trace:"usage.path,omitempty"` // atomic / fallback
	TotalCalls int64  `trace:"usage.total_calls,omitempty"`
	Attempts   int    `trace:"usage.attempts,omitempty"`
}

// Redis tier 快取
type TraceTierCacheMeta struct {
	TierName string `trace:"tier_cache.tier_name"`
	Op       string `trace:"tier_cache.op"` // "get" / "set" / "delete"
	Hit      bool   `trace:"tier_cache.hit"`
	TTLSec   int64  `trace:"tier_cache.ttl_sec,omitempty"`
}

type TraceProductQueryMeta struct {
	Op           string `trace:"product.op"`
	CNNumber     string `trace:"product.cn_number,omitempty"`
	Query        string `trace:"product.query,omitempty"`
	Category     string `trace:"product.category,omitempty"`
	Manufacturer string `trace:"product.manufacturer,omitempty"`
	Limit        int64  `trace:"product.limit,omitempty"`
	Offset       int64  `trace:"product.offset,omitempty"`
	Total        int64  `trace:"product.total,omitempty"`
}
