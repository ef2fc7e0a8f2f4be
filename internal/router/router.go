package router

import (
	docs "cnapi/cmd/docs"
	"cnapi/config"
	"cnapi/internal/handler"
	"cnapi/internal/middleware"
	"cnapi/internal/telemetry"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var ProviderSet = wire.NewSet(
	NewRouter,
	NewAdminRouter,
	NewProductRouter,
	NewHealthRouter,
)

// 透過依賴注入將
func NewRouter(
	config *config.Configuration,
	metric *telemetry.Metric,
	traceEntry *middleware.TraceEntry,
	compress *middleware.Compress,
	recovery *middleware.Recovery,
	cors *middleware.Cors,
	logger *middleware.Logger,
	responseMiddleware *middleware.Response,
	healthHandler *handler.HealthHandler,
	healthRouter *HealthRouter,
	adminRouter *AdminRouter,
	productRouter *ProductRouter,
) *gin.Engine {

	switch config.App.Env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(traceEntry.Handler())
	router.Use(compress.Handler())
	router.Use(logger.LoggerHandler())
	router.Use(cors.CorsHandler())
	router.Use(recovery.ErrorHandler())
	router.Use(responseMiddleware.FormatHandler())

	router.GET("/health-check", healthHandler.HealthCheck)
	router.GET("/version", healthHandler.Version)
	router.GET("/metrics", gin.WrapH(metric.Handler()))

	if config.App.SwaggerEnabled {
		router.GET("/swagger/*any", func(c *gin.Context) {
			docs.SwaggerInfo.Host = c.Request.Host

			if config.App.Env == "production" {
				docs.SwaggerInfo.Schemes = []string{"https"}
			}
		}, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api")
	healthRouter.RegisterHealthRoutes(router)
	productRouter.RegisterRoutes(api)
	adminRouter.RegisterRoutes(api)
	pprof.Register(router)
	return router
}
