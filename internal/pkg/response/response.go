package response

import (
	"cnapi/internal/core"
	cErr "cnapi/internal/pkg/error"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	RequestID   string `json:"requestID"`
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
	Meta        *Meta  `json:"meta,omitempty"`
}

// Meta 附加資訊：用量快照與分頁
type Meta struct {
	Usage      any         `json:"usage,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int64 `json:"limit"`
	Offset  int64 `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

func NewPagination(total, limit, offset int64) *Pagination {
	return &Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: total > offset+limit,
	}
}

// NewMeta 兩者皆空時回傳 nil，讓 JSON 省略 meta
func NewMeta(usage any, pagination *Pagination) *Meta {
	if usage == nil && pagination == nil {
		return nil
	}
	return &Meta{Usage: usage, Pagination: pagination}
}

func Create(c *gin.Context, data any) {
	message := "Create Success"
	if msg, ok := data.(gin.H); ok && msg["message"] != nil {
		message = msg["message"].(string)
		delete(msg, "message")
	}
	c.Set("data", data)
	c.Set("message", message)
	c.Status(http.StatusCreated)
	c.Abort()
}
func Success(c *gin.Context, data any) {
	message := "Request Success"
	if msg, ok := data.(gin.H); ok && msg["message"] != nil {
		message = msg["message"].(string)
		delete(msg, "message")
	}
	c.Set("data", data)
	c.Set("message", message)
	c.Abort()
}

// SuccessWithPagination 列表型回應
func SuccessWithPagination(c *gin.Context, data any, pagination *Pagination) {
	c.Set(core.ContextPagination, pagination)
	Success(c, data)
}

func AbortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}
func Fail(c *gin.Context, RequestID string, httpCode int, errorCode int, msg string, desc string, meta ...*Meta) {
	resp := Response{
		RequestID:   RequestID,
		Code:        errorCode,
		Data:        nil,
		Message:     msg,
		Description: desc,
	}
	if len(meta) > 0 {
		resp.Meta = meta[0]
	}
	c.JSON(httpCode, resp)
	c.Abort()
}

func FailByErr(c *gin.Context, RequestID string, err error) {
	v, ok := err.(*cErr.Error)
	if ok {
		Fail(c, RequestID, v.HttpCode(), v.ErrorCode(), v.Error(), v.ErrorDesc(), NewMeta(v.Meta(), nil))
	} else {
		Fail(c, RequestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, err.Error(), "internal error")
	}
}
