package handler

import (
	"errors"
	"net/http"
	"testing"

	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/dto"
	cErr "cnapi/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductList(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodGet, "/api/products?category=Fruits&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var products []model.CNProduct
	body := decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Apple, raw", products[0].ProductName)

	require.NotNil(t, body.Meta)
	require.NotNil(t, body.Meta.Pagination)
	assert.Equal(t, int64(2), body.Meta.Pagination.Total)
	assert.Equal(t, int64(1), body.Meta.Pagination.Limit)
	assert.True(t, body.Meta.Pagination.HasMore)
}

func TestProductListClampsPaging(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	tests := []struct {
		query      string
		wantLimit  int64
		wantOffset int64
	}{
		{"", 20, 0},
		{"?limit=0", 1, 0},
		{"?limit=500", 100, 0},
		{"?limit=abc&offset=-5", 20, 0},
		{"?offset=2", 20, 2},
	}
	for _, tt := range tests {
		w := serve(r, http.MethodGet, "/api/products"+tt.query, nil)
		require.Equal(t, http.StatusOK, w.Code, tt.query)
		body := decode(t, w, nil)
		require.NotNil(t, body.Meta, tt.query)
		assert.Equal(t, tt.wantLimit, body.Meta.Pagination.Limit, tt.query)
		assert.Equal(t, tt.wantOffset, body.Meta.Pagination.Offset, tt.query)
	}
}

func TestProductSearch(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodGet, "/api/products/search?q=oat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []model.CNProduct
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "1002", products[0].CNNumber)

	w = serve(r, http.MethodGet, "/api/products/search?q=%20", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, cErr.BAD_REQUEST_PARAMS, decode(t, w, nil).Code)
}

func TestProductGet(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodGet, "/api/products/1003", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product model.CNProduct
	decode(t, w, &product)
	assert.Equal(t, "Banana", product.ProductName)

	w = serve(r, http.MethodGet, "/api/products/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductNutrition(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodGet, "/api/products/1001/nutrition", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var nutrition dto.NutritionResponseDto
	decode(t, w, &nutrition)
	assert.Equal(t, "100 g", nutrition.ServingSize)
	assert.Equal(t, 52.0, nutrition.Nutrition["energy_kcal"])

	// 產品存在但沒有營養資料
	w = serve(r, http.MethodGet, "/api/products/1002/nutrition", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "nutrition data not available")

	w = serve(r, http.MethodGet, "/api/products/9999/nutrition", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductServings(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodGet, "/api/products/1001/servings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var servings dto.ServingsResponseDto
	decode(t, w, &servings)
	assert.Equal(t, "100 g", servings.BaseServing)
	assert.Equal(t, 2, servings.ServingsCount)
	require.Len(t, servings.Servings, 2)
	assert.Equal(t, 1, servings.Servings[0].Sequence)
	assert.Equal(t, "medium", servings.Servings[0].Measure)

	// 沒有份量資料仍回傳空陣列
	w = serve(r, http.MethodGet, "/api/products/1003/servings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &servings)
	assert.Equal(t, 0, servings.ServingsCount)
	assert.NotNil(t, servings.Servings)
}

func TestProductStorageFailure(t *testing.T) {
	h := newHarness(t)
	r := h.engine()
	h.products.FailWith(errors.New("mongo down"))

	w := serve(r, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, cErr.DATABASE_ERROR, decode(t, w, nil).Code)
}
