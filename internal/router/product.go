package router

import (
	"cnapi/internal/handler"
	"cnapi/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ProductRouter 每個請求都經過驗證閘道並計入用量
type ProductRouter struct {
	apiKey         *middleware.APIKey
	productHandler *handler.ProductHandler
}

func NewProductRouter(
	apiKey *middleware.APIKey,
	productHandler *handler.ProductHandler,
) *ProductRouter {
	return &ProductRouter{apiKey: apiKey, productHandler: productHandler}
}

func (pr *ProductRouter) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/products", pr.apiKey.Handler())
	{
		products.GET("", pr.productHandler.List)
		products.GET("/search", pr.productHandler.Search)
		products.GET("/:cnNumber", pr.productHandler.Get)
		products.GET("/:cnNumber/nutrition", pr.productHandler.Nutrition)
		products.GET("/:cnNumber/servings", pr.productHandler.Servings)
	}
}
