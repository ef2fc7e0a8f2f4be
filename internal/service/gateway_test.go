package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cnapi/config"
	"cnapi/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateOutcomes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		result := f.gateway.Authenticate(ctx, "   ")
		assert.False(t, result.Authenticated)
		assert.Equal(t, core.AuthErrorMissingCredential, result.ErrorKind)
		assert.ErrorIs(t, result.Err, ErrMissingCredential)
		assert.Nil(t, result.Usage)
	})

	t.Run("invalid", func(t *testing.T) {
		result := f.gateway.Authenticate(ctx, "cn_live_not-a-real-key")
		assert.False(t, result.Authenticated)
		assert.Equal(t, core.AuthErrorInvalidCredential, result.ErrorKind)
		assert.Nil(t, result.Usage)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		issued := f.issue(t, "basic")
		f.summaries.Seed(issued.Record.ID, "2024-03", 1000)

		result := f.gateway.Authenticate(ctx, issued.Plaintext)
		assert.False(t, result.Authenticated)
		assert.Equal(t, core.AuthErrorQuotaExceeded, result.ErrorKind)
		assert.ErrorIs(t, result.Err, ErrQuotaExceeded)
		require.NotNil(t, result.Usage)
		assert.Equal(t, int64(1000), result.Usage.Current)
		assert.Equal(t, int64(0), result.Usage.Remaining)
	})
}

func TestAuthenticateStorageUnavailable(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, "basic")
	f.keys.FailWith(errors.New("mongo down"))

	result := f.gateway.Authenticate(context.Background(), issued.Plaintext)
	assert.False(t, result.Authenticated)
	assert.Equal(t, core.AuthErrorStorageUnavailable, result.ErrorKind)
	assert.ErrorIs(t, result.Err, ErrStorageUnavailable)
}

func TestAuthenticateKeyLookupTimeoutDenies(t *testing.T) {
	f := newFixture(t, func(c *config.Configuration) { c.Quota.CheckTimeout = 20 * time.Millisecond })
	issued := f.issue(t, "basic")
	f.keys.SlowDown(50 * time.Millisecond)

	result := f.gateway.Authenticate(context.Background(), issued.Plaintext)
	assert.False(t, result.Authenticated)
	assert.Equal(t, core.AuthErrorStorageUnavailable, result.ErrorKind)
	assert.ErrorIs(t, result.Err, ErrStorageUnavailable)
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
	assert.Nil(t, result.Usage)

	f.gateway.FinalizeResult(context.Background(), result, "/v1/products", 200)
	f.waitRecorder(t)
	assert.Empty(t, f.logs.Entries())
}

func TestAuthenticateGuardFailureDenies(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, "basic")
	f.summaries.FailWith(errors.New("mongo down"))

	result := f.gateway.Authenticate(context.Background(), issued.Plaintext)
	assert.False(t, result.Authenticated)
	assert.Equal(t, core.AuthErrorQuotaExceeded, result.ErrorKind)
	assert.ErrorIs(t, result.Err, ErrQuotaExceeded)
	require.NotNil(t, result.Usage)
	assert.Equal(t, UsageSnapshot{Tier: "basic"}, *result.Usage)
}

func TestGatewayBasicScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "basic")

	result := f.gateway.Authenticate(ctx, issued.Plaintext)
	require.True(t, result.Authenticated)
	assert.Equal(t, issued.Record.ID, result.KeyID)
	assert.Equal(t, "basic", result.Tier)
	assert.Equal(t, "2024-03", result.Period)
	// 檢查當下的快照，不含本次呼叫
	assert.Equal(t, UsageSnapshot{Current: 0, Limit: 1000, Remaining: 1000, Tier: "basic"}, *result.Usage)

	f.gateway.FinalizeResult(ctx, result, "/v1/products", 200)
	f.waitRecorder(t)

	total, err := f.usage.CurrentUsage(ctx, issued.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	next := f.gateway.Authenticate(ctx, issued.Plaintext)
	require.True(t, next.Authenticated)
	assert.Equal(t, int64(1), next.Usage.Current)
	assert.Equal(t, int64(999), next.Usage.Remaining)
}

func TestFinalizeResultKeepsAuthPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.clock.Set(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	issued := f.issue(t, "basic")

	result := f.gateway.Authenticate(ctx, issued.Plaintext)
	require.True(t, result.Authenticated)

	// 請求處理中跨月
	f.clock.Advance(2 * time.Second)
	f.gateway.FinalizeResult(ctx, result, "/v1/products", 200)
	f.gateway.Finalize(ctx, issued.Record.ID, "/v1/products", 200)
	f.waitRecorder(t)

	march, err := f.usage.UsageInPeriod(ctx, issued.Record.ID, "2024-03")
	require.NoError(t, err)
	april, err := f.usage.UsageInPeriod(ctx, issued.Record.ID, "2024-04")
	require.NoError(t, err)
	assert.Equal(t, int64(1), march)
	assert.Equal(t, int64(1), april)
}

func TestFinalizeResultIgnoresDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.FinalizeResult(ctx, AuthResult{ErrorKind: core.AuthErrorInvalidCredential}, "/v1/products", 401)
	f.waitRecorder(t)
	assert.Empty(t, f.logs.Entries())
}

func TestRecordedEvenForErrorStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "basic")

	result := f.gateway.Authenticate(ctx, issued.Plaintext)
	require.True(t, result.Authenticated)
	f.gateway.FinalizeResult(ctx, result, "/v1/products/missing", 404)
	f.waitRecorder(t)

	entries := f.logs.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 404, entries[0].ResponseStatus)
	assert.Equal(t, "/v1/products/missing", entries[0].Endpoint)
}
