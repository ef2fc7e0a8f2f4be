package handler

import (
	"net/http"
	"testing"

	"cnapi/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierUpsertAndList(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodPut, "/api/admin/tiers/gold", map[string]any{
		"monthlyCallLimit": 5000,
		"priceMonthly":     99,
		"description":      "mid-size",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved dto.BillingTierResponseDto
	decode(t, w, &saved)
	assert.Equal(t, "gold", saved.Name)
	assert.Equal(t, int64(5000), saved.MonthlyCallLimit)

	w = serve(r, http.MethodGet, "/api/admin/tiers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tiers []dto.BillingTierResponseDto
	decode(t, w, &tiers)
	names := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		names = append(names, tier.Name)
	}
	assert.ElementsMatch(t, []string{"basic", "gold"}, names)
}

func TestTierUpsertRejectsNegativeLimit(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodPut, "/api/admin/tiers/gold", map[string]any{"monthlyCallLimit": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
