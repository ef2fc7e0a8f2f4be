package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"cnapi/internal/core"
	cErr "cnapi/internal/pkg/error"
	"cnapi/internal/pkg/response"
	"cnapi/internal/service"
	"cnapi/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const apiKeyQueryParam = "api_key"

// APIKey 驗證閘道：進入時驗證 + 配額檢查，handler 結束後記錄用量
type APIKey struct {
	logger  *zap.Logger
	trace   *telemetry.Trace
	gateway *service.GatewayService
}

func NewAPIKey(
	logger *zap.Logger,
	trace *telemetry.Trace,
	gateway *service.GatewayService,
) *APIKey {
	return &APIKey{
		logger:  logger,
		trace:   trace,
		gateway: gateway,
	}
}

func (middleware *APIKey) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanAPIKeyMiddleware))
		credential, from := middleware.readCredential(c)
		meta := core.TraceAPIKeyMiddlewareMeta{
			Where:    string(from),
			ClientIP: c.ClientIP(),
		}

		result := middleware.gateway.Authenticate(ctx, credential)
		meta.Period = result.Period
		if !result.KeyID.IsZero() {
			meta.APIKeyID, meta.Tier = result.KeyID.Hex(), result.Tier
		}
		if result.Usage != nil {
			meta.Current, meta.Limit = result.Usage.Current, result.Usage.Limit
			meta.Remaining, meta.Percent = result.Usage.Remaining, result.Usage.PercentUsed
		}

		if !result.Authenticated {
			cause := middleware.toResponseError(result)
			meta.Status = string(result.ErrorKind)
			middleware.trace.ApplyTraceAttributes(span, meta)
			response.AbortWithError(c, cause)
			end(result.Err)
			return
		}

		meta.Status = "success"
		middleware.trace.ApplyTraceAttributes(span, meta)
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()
		middleware.logger.Info("[APIKey Authenticated]",
			zap.String("apiKeyID", result.KeyID.Hex()),
			zap.String("tier", result.Tier),
			zap.String("from", string(from)),
			zap.Int64("current", result.Usage.Current),
			zap.Int64("limit", result.Usage.Limit),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)
		end(nil)

		// 下游（handler、response middleware）使用
		c.Set(core.ContextAPIKeyID, result.KeyID.Hex())
		c.Set(core.ContextTier, result.Tier)
		c.Set(core.ContextUsage, result.Usage)

		// 不論成功與否都計量；寫入在背景進行，不延遲回應
		defer func() {
			if rec := recover(); rec != nil {
				middleware.gateway.FinalizeResult(ctx, result, c.Request.URL.Path, http.StatusInternalServerError)
				panic(rec)
			}
		}()
		c.Next()
		middleware.gateway.FinalizeResult(ctx, result, c.Request.URL.Path, finalStatus(c))
	}
}

// readCredential 優先順序：Bearer > X-API-Key > ?api_key=
func (middleware *APIKey) readCredential(c *gin.Context) (string, core.CredentialSource) {
	if auth := strings.TrimSpace(c.GetHeader("Authorization")); auth != "" {
		if len(auth) > len("Bearer ") && strings.EqualFold(auth[:len("Bearer ")], "bearer ") {
			if tok := strings.TrimSpace(auth[len("Bearer "):]); tok != "" {
				return tok, core.CredentialFromBearer
			}
		}
	}
	if x := strings.TrimSpace(c.GetHeader("X-API-Key")); x != "" {
		return x, core.CredentialFromHeader
	}
	if q := strings.TrimSpace(c.Query(apiKeyQueryParam)); q != "" {
		return q, core.CredentialFromQuery
	}
	return "", ""
}

func (middleware *APIKey) toResponseError(result service.AuthResult) *cErr.Error {
	switch result.ErrorKind {
	case core.AuthErrorMissingCredential:
		return cErr.MissingAPIKey("API key required. Provide it via Authorization: Bearer, X-API-Key or api_key.")
	case core.AuthErrorInvalidCredential:
		return cErr.InvalidAPIKey("Invalid or expired API key")
	case core.AuthErrorQuotaExceeded:
		return cErr.QuotaExceeded("Monthly API call limit reached").WithMeta(result.Usage)
	default:
		middleware.logger.Error("[APIKey] storage unavailable", zap.Error(result.Err))
		return cErr.DatabaseError("Authentication temporarily unavailable")
	}
}

// finalStatus Recovery 尚未輸出錯誤，依 c.Errors 推算最終狀態碼
func finalStatus(c *gin.Context) int {
	for _, e := range c.Errors {
		if appErr, ok := e.Err.(*cErr.Error); ok {
			return appErr.HttpCode()
		}
	}
	if len(c.Errors) > 0 {
		return http.StatusInternalServerError
	}
	return c.Writer.Status()
}
