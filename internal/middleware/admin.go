package middleware

import (
	"strings"

	"cnapi/config"
	"cnapi/internal/core"
	cErr "cnapi/internal/pkg/error"
	"cnapi/internal/pkg/response"
	"cnapi/internal/telemetry"
	"cnapi/utils/admintoken"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminAuth 管理端 API：HS256 JWT 且 role=admin
type AdminAuth struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewAdminAuth(logger *zap.Logger, trace *telemetry.Trace, config *config.Configuration) *AdminAuth {
	return &AdminAuth{logger: logger, trace: trace, config: config}
}

func (middleware *AdminAuth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanAdminMiddleware))

		auth := strings.TrimSpace(c.GetHeader("Authorization"))
		token := ""
		if len(auth) > len("Bearer ") && strings.EqualFold(auth[:len("Bearer ")], "bearer ") {
			token = strings.TrimSpace(auth[len("Bearer "):])
		}
		if token == "" {
			cause := cErr.InvalidAdminToken("Missing admin token")
			middleware.trace.ApplyTraceAttributes(span, core.TraceAdminMiddlewareMeta{Status: "missing_token"})
			response.AbortWithError(c, cause)
			end(cause)
			return
		}

		claims, err := admintoken.Parse(middleware.config.App.SecretKey, token)
		if err != nil {
			middleware.trace.ApplyTraceAttributes(span, core.TraceAdminMiddlewareMeta{Status: "invalid_token"})
			middleware.logger.Warn("[Admin] token rejected", zap.Error(err), zap.String("clientIP", c.ClientIP()))
			response.AbortWithError(c, cErr.InvalidAdminToken("Invalid admin token"))
			end(err)
			return
		}

		middleware.trace.ApplyTraceAttributes(span, core.TraceAdminMiddlewareMeta{Subject: claims.Subject, Status: "success"})
		end(nil)
		c.Set(core.ContextAdmin, claims.Subject)
		c.Next()
	}
}
