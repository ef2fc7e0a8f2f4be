package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"cnapi/internal/dto"
	cErr "cnapi/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAPIKey(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodPost, "/api/admin/api-keys", map[string]any{"clientName": "acme", "tier": "basic"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var issued dto.IssuedAPIKeyDto
	body := decode(t, w, &issued)
	assert.Equal(t, cErr.SUCCESS, body.Code)
	assert.True(t, strings.HasPrefix(issued.APIKey, h.conf.Quota.KeyPrefix))
	require.NotNil(t, issued.Record)
	assert.Equal(t, "acme", issued.Record.ClientName)
	assert.True(t, issued.Record.IsActive)

	// 只保存摘要
	assert.NotContains(t, h.keys.Digests(), issued.APIKey)
	assert.NotContains(t, w.Body.String(), h.keys.Digests()[0])
}

func TestCreateAPIKeyValidation(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := serve(r, http.MethodPost, "/api/admin/api-keys", map[string]any{"clientName": "acme"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w, nil)
	assert.Equal(t, cErr.BAD_REQUEST_BODY, body.Code)
	assert.Empty(t, h.keys.Digests())
}

func TestGetAPIKey(t *testing.T) {
	h := newHarness(t)
	r := h.engine()
	issued, err := h.apiKeys.Issue(context.Background(), "acme", "basic", nil)
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/api/admin/api-keys/"+issued.Record.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var record dto.APIKeyResponseDto
	decode(t, w, &record)
	assert.Equal(t, issued.Record.ID.Hex(), record.ID)
	assert.NotContains(t, w.Body.String(), issued.Plaintext)

	w = serve(r, http.MethodGet, "/api/admin/api-keys/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, cErr.BAD_REQUEST_PARAMS, decode(t, w, nil).Code)

	w = serve(r, http.MethodGet, "/api/admin/api-keys/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, cErr.NOT_FOUND, decode(t, w, nil).Code)
}

func TestRevokeAPIKey(t *testing.T) {
	h := newHarness(t)
	r := h.engine()
	issued, err := h.apiKeys.Issue(context.Background(), "acme", "basic", nil)
	require.NoError(t, err)
	target := "/api/admin/api-keys/" + issued.Record.ID.Hex()

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodDelete, target, nil)
		require.Equal(t, http.StatusOK, w.Code, "revoke #%d", i+1)
	}

	_, err = h.apiKeys.Validate(context.Background(), issued.Plaintext)
	assert.Error(t, err)

	w := serve(r, http.MethodDelete, "/api/admin/api-keys/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsageReport(t *testing.T) {
	h := newHarness(t)
	r := h.engine()
	issued, err := h.apiKeys.Issue(context.Background(), "acme", "basic", nil)
	require.NoError(t, err)
	id := issued.Record.ID
	h.summaries.Seed(id, "2024-01", 40)
	h.summaries.Seed(id, "2024-02", 50)
	h.summaries.Seed(id, "2024-03", 250)

	w := serve(r, http.MethodGet, "/api/admin/usage/"+id.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report dto.UsageReportDto
	decode(t, w, &report)
	assert.Equal(t, "2024-03", report.CurrentMonth.Period)
	assert.Equal(t, int64(250), report.CurrentMonth.Usage)
	assert.Equal(t, int64(1000), report.CurrentMonth.Limit)
	assert.Equal(t, int64(750), report.CurrentMonth.Remaining)
	assert.Equal(t, 25.0, report.CurrentMonth.PercentUsed)
	require.NotNil(t, report.Tier)
	assert.Equal(t, "basic", report.Tier.Name)
	assert.Len(t, report.History, 3)

	w = serve(r, http.MethodGet, "/api/admin/usage/"+id.Hex()+"?months=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &report)
	require.Len(t, report.History, 1)
	assert.Equal(t, "2024-03", report.History[0].BillingMonth)

	w = serve(r, http.MethodGet, "/api/admin/usage/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
