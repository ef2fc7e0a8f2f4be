package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cnapi/config"
	"cnapi/internal/core"
	"cnapi/internal/database/fluentd/model"
	"cnapi/internal/database/fluentd/repository"
	cErr "cnapi/internal/pkg/error"
	"cnapi/internal/pkg/response"
	"cnapi/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// FormatHandler 將 handler 以 c.Set("data") 交出的結果包成統一格式，並附上 meta.usage / meta.pagination
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipObservability(c.FullPath()) {
			c.Next()
			return
		}

		requestTime := time.Now()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		} else {
			c.Set("requestDuration", requestTime)
		}

		c.Next()

		// 錯誤交由 Recovery；已自行輸出的 handler 不再包裝
		if len(c.Errors) > 0 || c.Writer.Written() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode >= http.StatusBadRequest {
			response.AbortWithError(c, cErr.MapHttpStatusToError(statusCode, "request error"))
			return
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
		defer end(nil)

		data, _ := c.Get("data")
		if data == nil {
			data = map[string]any{}
		}
		message := "Request Success"
		if s := c.GetString("message"); s != "" {
			message = s
		}
		meta := response.NewMeta(usageFrom(c), paginationFrom(c))

		duration := time.Since(requestTime)
		requestID := requestIDFrom(span.SpanContext().TraceID())
		spanID := span.SpanContext().SpanID()

		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:       c.Request.URL.Path,
			Method:     c.Request.Method,
			Status:     statusCode,
			Message:    message,
			Code:       cErr.SUCCESS,
			DurationMs: float64(duration.Milliseconds()),
			Data:       safePreviewJSON(data, 2000),
		})

		middleware.logger.Info("[Response] "+message,
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.String("requestId", requestID),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
		)

		res := response.Response{
			RequestID:   requestID,
			Code:        cErr.SUCCESS,
			Data:        data,
			Message:     "OK",
			Description: message,
			Meta:        meta,
		}
		jsonBytes, err := json.Marshal(res)
		if err != nil {
			response.AbortWithError(c, cErr.InternalServer("marshal response failed"))
			return
		}

		if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
			RequestID:   requestID,
			APIKeyID:    c.GetString(core.ContextAPIKeyID),
			Endpoint:    c.FullPath(),
			ProjectName: middleware.config.App.Name,
			Code:        cErr.SUCCESS,
			StatusCode:  statusCode,
			Body:        safePreviewJSON(data, 2000),
			ResponseTS:  repository.FormatTime(time.Now()),
			Version:     middleware.config.App.Version,
		}); err != nil {
			middleware.logger.Warn("[Response] fluentd forward failed", zap.Error(err))
		}

		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Writer.WriteHeader(statusCode) // handler 可能設了 201
		if _, werr := c.Writer.Write(jsonBytes); werr != nil {
			middleware.logger.Warn("[Response] write failed", zap.Error(werr))
		}
	}
}

// usageFrom 驗證閘道放入的用量快照；未經閘道的路由沒有
func usageFrom(c *gin.Context) any {
	if usage, ok := c.Get(core.ContextUsage); ok && usage != nil {
		return usage
	}
	return nil
}

func paginationFrom(c *gin.Context) *response.Pagination {
	if raw, ok := c.Get(core.ContextPagination); ok {
		if pagination, ok := raw.(*response.Pagination); ok {
			return pagination
		}
	}
	return nil
}

// safePreviewJSON 序列化為 JSON 字串並限制長度
func safePreviewJSON(data any, max int) string {
	if s, ok := data.(string); ok {
		if len(s) > max {
			return s[:max] + "…"
		}
		return s
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("[marshal error: %v]", err)
	}
	out := string(b)
	if len(out) > max {
		return out[:max] + "…"
	}
	return out
}
