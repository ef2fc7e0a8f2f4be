package router

import (
	"cnapi/internal/handler"
	"cnapi/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	adminAuth     *middleware.AdminAuth
	apiKeyHandler *handler.AdminAPIKeyHandler
	tierHandler   *handler.AdminTierHandler
}

func NewAdminRouter(
	adminAuth *middleware.AdminAuth,
	apiKeyHandler *handler.AdminAPIKeyHandler,
	tierHandler *handler.AdminTierHandler,
) *AdminRouter {
	return &AdminRouter{
		adminAuth:     adminAuth,
		apiKeyHandler: apiKeyHandler,
		tierHandler:   tierHandler,
	}
}

// RegisterRoutes 全部需要 admin JWT
func (ar *AdminRouter) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin", ar.adminAuth.Handler())
	{
		admin.POST("/api-keys", ar.apiKeyHandler.Create)
		admin.GET("/api-keys/:apiKeyID", ar.apiKeyHandler.Get)
		admin.DELETE("/api-keys/:apiKeyID", ar.apiKeyHandler.Revoke)
		admin.GET("/usage/:apiKeyID", ar.apiKeyHandler.Usage)

		admin.GET("/tiers", ar.tierHandler.List)
		admin.PUT("/tiers/:tierName", ar.tierHandler.Upsert)
	}
}
