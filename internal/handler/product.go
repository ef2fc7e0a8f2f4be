package handler

import (
	"math"
	"strings"

	"cnapi/internal/core"
	"cnapi/internal/dto"
	cErr "cnapi/internal/pkg/error"
	"cnapi/internal/pkg/response"
	"cnapi/internal/service"
	"cnapi/internal/telemetry"
	"cnapi/utils/validate"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ProductHandler 受驗證閘道保護的 CN 產品目錄
type ProductHandler struct {
	trace    *telemetry.Trace
	products *service.ProductService
}

func NewProductHandler(trace *telemetry.Trace, products *service.ProductService) *ProductHandler {
	return &ProductHandler{trace: trace, products: products}
}

// List 產品列表
// @Summary 列出 CN 產品
// @Tags Product
// @Security ApiKeyAuth
// @Produce json
// @Param category query string false "分類（完全相符）"
// @Param manufacturer query string false "製造商（部分相符）"
// @Param limit query int false "筆數（1-100，預設 20）"
// @Param offset query int false "起始位置"
// @Success 200 {array} model.CNProduct
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	h.list(c, productQuery(c))
}

// Search 全文搜尋
// @Summary 以產品名稱全文搜尋
// @Tags Product
// @Security ApiKeyAuth
// @Produce json
// @Param q query string true "搜尋字串"
// @Param category query string false "分類（完全相符）"
// @Param manufacturer query string false "製造商（部分相符）"
// @Param limit query int false "筆數（1-100，預設 20）"
// @Param offset query int false "起始位置"
// @Success 200 {array} model.CNProduct
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /products/search [get]
func (h *ProductHandler) Search(c *gin.Context) {
	query := productQuery(c)
	query.Query = strings.TrimSpace(c.Query("q"))
	if query.Query == "" {
		response.AbortWithError(c, cErr.BadRequestParams(`search query parameter "q" is required`))
		return
	}
	h.list(c, query)
}

func (h *ProductHandler) list(c *gin.Context, query core.ProductQuery) {
	ctx, _, end := h.trace.WithSpan(c)
	products, total, err := h.products.List(ctx, query)
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}
	response.SuccessWithPagination(c, products, response.NewPagination(total, query.Limit, query.Offset))
}

// Get 單一產品
// @Summary 以 CN 編號取得產品
// @Tags Product
// @Security ApiKeyAuth
// @Produce json
// @Param cnNumber path string true "CN 編號"
// @Success 200 {object} model.CNProduct
// @Failure 404 {object} response.Response
// @Router /products/{cnNumber} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	product, err := h.products.Get(ctx, c.Param("cnNumber"))
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}
	response.Success(c, product)
}

// Nutrition 營養資訊
// @Summary 取得產品營養資訊
// @Tags Product
// @Security ApiKeyAuth
// @Produce json
// @Param cnNumber path string true "CN 編號"
// @Success 200 {object} dto.NutritionResponseDto
// @Failure 404 {object} response.Response
// @Router /products/{cnNumber}/nutrition [get]
func (h *ProductHandler) Nutrition(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	cnNumber := c.Param("cnNumber")
	product, err := h.products.Get(ctx, cnNumber)
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}
	if len(product.NutritionData) == 0 {
		response.AbortWithError(c, cErr.NotFound(`nutrition data not available for product "`+cnNumber+`"`))
		return
	}
	response.Success(c, dto.NutritionResponseDto{
		CNNumber:    product.CNNumber,
		ProductName: product.ProductName,
		ServingSize: product.ServingSize,
		Nutrition:   product.NutritionData,
	})
}

// Servings 份量換算
// @Summary 取得產品的份量換算（依序號排序）
// @Tags Product
// @Security ApiKeyAuth
// @Produce json
// @Param cnNumber path string true "CN 編號"
// @Success 200 {object} dto.ServingsResponseDto
// @Failure 404 {object} response.Response
// @Router /products/{cnNumber}/servings [get]
func (h *ProductHandler) Servings(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	product, servings, err := h.products.Servings(ctx, c.Param("cnNumber"))
	end(err)
	if err != nil {
		response.AbortWithError(c, toResponseError(err))
		return
	}

	items := make([]dto.ServingDto, len(servings))
	for i, serving := range servings {
		items[i] = dto.ServingDto{
			Sequence: serving.SequenceNum,
			Amount:   serving.Amount,
			Measure:  serving.MeasureDescription,
			Grams:    serving.UnitAmount,
			Unit:     serving.TypeOfUnit,
		}
	}
	response.Success(c, dto.ServingsResponseDto{
		CNNumber:      product.CNNumber,
		ProductName:   product.ProductName,
		Category:      product.Category,
		BaseServing:   product.ServingSize,
		ServingsCount: len(items),
		Servings:      items,
	})
}

func productQuery(c *gin.Context) core.ProductQuery {
	return core.ProductQuery{
		Category:     strings.TrimSpace(c.Query("category")),
		Manufacturer: strings.TrimSpace(c.Query("manufacturer")),
		Limit:        validate.ClampInt64(c, "limit", defaultPageLimit, 1, maxPageLimit),
		Offset:       validate.ClampInt64(c, "offset", 0, 0, math.MaxInt64),
	}
}
