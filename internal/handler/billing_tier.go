package handler

import (
	"strings"

	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/dto"
	cErr "cnapi/internal/pkg/error"
	"cnapi/internal/pkg/response"
	"cnapi/internal/service"
	"cnapi/internal/telemetry"
	"cnapi/utils/validate"

	"github.com/gin-gonic/gin"
)

type AdminTierHandler struct {
	trace *telemetry.Trace
	tiers *service.BillingTierService
}

func NewAdminTierHandler(trace *telemetry.Trace, tiers *service.BillingTierService) *AdminTierHandler {
	return &AdminTierHandler{trace: trace, tiers: tiers}
}

// List 方案列表
// @Summary 取得計費方案列表
// @Tags Admin-Tier
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.BillingTierResponseDto
// @Failure 500 {object} response.Response
// @Router /admin/tiers [get]
func (h *AdminTierHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	tiers, err := h.tiers.List(ctx)
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}

	result := make([]*dto.BillingTierResponseDto, len(tiers))
	for i, tier := range tiers {
		result[i] = service.BillingTierToDto(tier)
	}
	response.Success(c, result)
}

// Upsert 建立或覆寫方案
// @Summary 建立或覆寫計費方案
// @Tags Admin-Tier
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tierName path string true "方案名稱"
// @Param body body dto.UpsertBillingTierDto true "方案內容"
// @Success 200 {object} dto.BillingTierResponseDto
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /admin/tiers/{tierName} [put]
func (h *AdminTierHandler) Upsert(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	name := strings.TrimSpace(c.Param("tierName"))
	if name == "" {
		end(nil)
		response.AbortWithError(c, cErr.ValidatePathParamsErr("invalid tierName"))
		return
	}

	var req dto.UpsertBillingTierDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	saved, err := h.tiers.Upsert(ctx, &model.BillingTier{
		TierName:         name,
		MonthlyCallLimit: req.MonthlyCallLimit,
		PriceMonthly:     req.PriceMonthly,
		Description:      req.Description,
	})
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}
	response.Success(c, service.BillingTierToDto(saved))
}
