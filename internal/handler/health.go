package handler

import (
	"net/http"

	"cnapi/config"
	"cnapi/internal/pkg/response"
	"cnapi/internal/service"

	"github.com/gin-gonic/gin"
)

const versionHeader = "X-App-Version"

type HealthHandler struct {
	config       *config.Configuration
	healthStatus *service.HealthService
}

func NewHealthHandler(config *config.Configuration, status *service.HealthService) *HealthHandler {
	return &HealthHandler{config: config, healthStatus: status}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

// Readiness 啟動完成且所有相依檢查通過才回 200
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.healthStatus.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	checks, ok := h.healthStatus.Check(c.Request.Context())
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

// HealthCheck
// @Summary 存活檢查
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health-check [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, response.Response{
		Code:        0,
		Data:        "ok",
		Message:     "success",
		Description: "service is alive",
	})
	c.Abort()
}

// Version
// @Summary 服務版本
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /version [get]
func (h *HealthHandler) Version(c *gin.Context) {
	c.Header(versionHeader, h.config.App.Version)
	c.JSON(http.StatusOK, gin.H{
		"name":    h.config.App.Name,
		"version": h.config.App.Version,
		"env":     h.config.App.Env,
	})
}
