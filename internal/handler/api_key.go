package handler

import (
	"cnapi/internal/dto"
	"cnapi/internal/pkg/response"
	"cnapi/internal/service"
	"cnapi/internal/telemetry"
	"cnapi/utils/validate"

	"github.com/gin-gonic/gin"
)

type AdminAPIKeyHandler struct {
	trace   *telemetry.Trace
	apiKeys *service.APIKeyService
	reports *service.ReportService
}

func NewAdminAPIKeyHandler(
	trace *telemetry.Trace,
	apiKeys *service.APIKeyService,
	reports *service.ReportService,
) *AdminAPIKeyHandler {
	return &AdminAPIKeyHandler{trace: trace, apiKeys: apiKeys, reports: reports}
}

// Create 發行 API Key
// @Summary 發行 API Key（明文只回傳這一次）
// @Tags Admin-APIKey
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateAPIKeyDto true "客戶與方案"
// @Success 201 {object} dto.IssuedAPIKeyDto
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /admin/api-keys [post]
func (h *AdminAPIKeyHandler) Create(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	var req dto.CreateAPIKeyDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	issued, err := h.apiKeys.Issue(ctx, req.ClientName, req.Tier, req.ExpiresAt)
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}
	response.Create(c, dto.IssuedAPIKeyDto{
		APIKey: issued.Plaintext,
		Record: service.APIKeyToDto(issued.Record),
	})
}

// Get 取得 API Key
// @Summary 取得 API Key 資訊（不含明文）
// @Tags Admin-APIKey
// @Security BearerAuth
// @Produce json
// @Param apiKeyID path string true "API Key ID"
// @Success 200 {object} dto.APIKeyResponseDto
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/api-keys/{apiKeyID} [get]
func (h *AdminAPIKeyHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	id, cause, respErr := validate.ParseObjectID(c, "apiKeyID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	record, err := h.apiKeys.GetByID(ctx, id)
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}
	response.Success(c, service.APIKeyToDto(record))
}

// Revoke 撤銷 API Key
// @Summary 撤銷 API Key（重複撤銷視為成功）
// @Tags Admin-APIKey
// @Security BearerAuth
// @Produce json
// @Param apiKeyID path string true "API Key ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/api-keys/{apiKeyID} [delete]
func (h *AdminAPIKeyHandler) Revoke(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	id, cause, respErr := validate.ParseObjectID(c, "apiKeyID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	err := h.apiKeys.Revoke(ctx, id)
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}
	response.Success(c, gin.H{"message": "api key revoked", "id": id.Hex()})
}

// Usage 用量報表
// @Summary 取得 API Key 的當月用量與歷史
// @Tags Admin-Usage
// @Security BearerAuth
// @Produce json
// @Param apiKeyID path string true "API Key ID"
// @Param months query int false "歷史月份數（1-24，預設 3）"
// @Success 200 {object} dto.UsageReportDto
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /admin/usage/{apiKeyID} [get]
func (h *AdminAPIKeyHandler) Usage(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	id, cause, respErr := validate.ParseObjectID(c, "apiKeyID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	months := validate.ClampInt64(c, "months", service.DefaultReportMonths, 1, service.MaxReportMonths)

	report, err := h.reports.Usage(ctx, id, int(months))
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}
	response.Success(c, report)
}
