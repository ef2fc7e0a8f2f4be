package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewUsageSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		limit    int64
		expected UsageSnapshot
	}{
		{"empty", 0, 1000, UsageSnapshot{Current: 0, Limit: 1000, Remaining: 1000, PercentUsed: 0, Tier: "basic"}},
		{"partial", 250, 1000, UsageSnapshot{Current: 250, Limit: 1000, Remaining: 750, PercentUsed: 25, Tier: "basic"}},
		{"over", 1200, 1000, UsageSnapshot{Current: 1200, Limit: 1000, Remaining: 0, PercentUsed: 120, Tier: "basic"}},
		{"zero limit", 5, 0, UsageSnapshot{Current: 5, Limit: 0, Remaining: 0, PercentUsed: 0, Tier: "basic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewUsageSnapshot(tt.current, tt.limit, "basic"))
		})
	}
}

func TestQuotaBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keyID := primitive.NewObjectID()

	f.summaries.Seed(keyID, "2024-03", 999)
	decision, err := f.quota.Check(ctx, keyID, "basic")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, int64(1), decision.Usage.Remaining)
	assert.InDelta(t, 99.9, decision.Usage.PercentUsed, 1e-9)

	f.summaries.Seed(keyID, "2024-03", 1000)
	decision, err = f.quota.Check(ctx, keyID, "basic")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, int64(0), decision.Usage.Remaining)
	assert.Equal(t, int64(1000), decision.Usage.Current)
}

func TestQuotaDefaultLimit(t *testing.T) {
	tests := []struct {
		name string
		tier string
	}{
		{"unknown tier", "mystery"},
		{"non-positive limit", "unlimited-typo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			decision, err := f.quota.Check(context.Background(), primitive.NewObjectID(), tt.tier)
			require.NoError(t, err)
			assert.True(t, decision.Allowed)
			assert.Equal(t, int64(1000), decision.Usage.Limit)
			assert.Equal(t, tt.tier, decision.Usage.Tier)
		})
	}
}

func TestQuotaFailsClosed(t *testing.T) {
	tests := []struct {
		name       string
		breakStore func(f *fixture)
	}{
		{"usage store", func(f *fixture) { f.summaries.FailWith(errors.New("mongo down")) }},
		{"tier store", func(f *fixture) { f.tiers.FailWith(errors.New("mongo down")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.breakStore(f)

			decision, err := f.quota.Check(context.Background(), primitive.NewObjectID(), "basic")
			assert.Error(t, err)
			assert.False(t, decision.Allowed)
			assert.Equal(t, UsageSnapshot{Tier: "basic"}, decision.Usage)
		})
	}
}

func TestQuotaFailsClosedOnTimeoutDuringTierLookup(t *testing.T) {
	for _, tierName := range []string{"professional", "no-such-tier"} {
		t.Run(tierName, func(t *testing.T) {
			f := newFixture(t)
			f.tiers.SlowDown(50 * time.Millisecond)
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			decision, err := f.quota.CheckInPeriod(ctx, primitive.NewObjectID(), tierName, "2024-03")
			require.Error(t, err)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.False(t, decision.Allowed)
			assert.Equal(t, UsageSnapshot{Tier: tierName}, decision.Usage)
		})
	}
}

func TestQuotaCheckDoesNotRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keyID := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		_, err := f.quota.Check(ctx, keyID, "basic")
		require.NoError(t, err)
	}
	total, err := f.usage.CurrentUsage(ctx, keyID)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, f.logs.Entries())
}
