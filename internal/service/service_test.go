package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"cnapi/config"
	"cnapi/internal/database/memory"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"
	"cnapi/utils/clock"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 2024-03-15 12:00 UTC
var fixtureNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu       sync.Mutex
	failures []UsageFailure
}

func (s *recordingSink) Report(_ context.Context, failure UsageFailure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure)
}

func (s *recordingSink) Failures() []UsageFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UsageFailure(nil), s.failures...)
}

type fixture struct {
	clock     *clock.Fake
	conf      *config.Configuration
	keys      *memory.APIKeyStore
	tiers     *memory.BillingTierStore
	cache     *memory.TierCache
	logs      *memory.UsageLogStore
	summaries *memory.UsageSummaryStore
	sink      *recordingSink

	apiKeys  *APIKeyService
	tier     *BillingTierService
	usage    *UsageService
	quota    *QuotaService
	recorder *UsageRecorder
	gateway  *GatewayService
}

func newFixture(t *testing.T, tweak ...func(*config.Configuration)) *fixture {
	t.Helper()
	conf := &config.Configuration{}
	for _, fn := range tweak {
		fn(conf)
	}
	conf.Normalize()

	trace, _, err := telemetry.NewTrace(conf)
	require.NoError(t, err)
	metric := telemetry.NewMetric(conf)
	logger := zap.NewNop()

	f := &fixture{
		clock: clock.NewFake(fixtureNow),
		conf:  conf,
		keys:  memory.NewAPIKeyStore(),
		tiers: memory.NewBillingTierStore(
			model.BillingTier{TierName: "basic", MonthlyCallLimit: 1000},
			model.BillingTier{TierName: "professional", MonthlyCallLimit: 10000},
			model.BillingTier{TierName: "unlimited-typo", MonthlyCallLimit: 0},
		),
		cache:     memory.NewTierCache(),
		logs:      memory.NewUsageLogStore(),
		summaries: memory.NewUsageSummaryStore(),
		sink:      &recordingSink{},
	}

	f.apiKeys = NewAPIKeyService(trace, f.keys, f.clock, conf, logger)
	f.tier = NewBillingTierService(trace, metric, f.tiers, f.cache, logger)
	f.usage = NewUsageService(trace, metric, f.logs, f.summaries, f.clock, conf, logger)
	f.quota = NewQuotaService(trace, metric, f.usage, f.tier, conf, logger)

	recorder, cleanup := NewUsageRecorder(f.usage, f.sink, metric, conf, logger)
	t.Cleanup(cleanup)
	f.recorder = recorder
	f.gateway = NewGatewayService(trace, metric, f.apiKeys, f.quota, f.usage, recorder, conf, logger)
	return f
}

func (f *fixture) issue(t *testing.T, tier string) *IssuedAPIKey {
	t.Helper()
	issued, err := f.apiKeys.Issue(context.Background(), "acme", tier, nil)
	require.NoError(t, err)
	return issued
}

func (f *fixture) waitRecorder(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.recorder.Wait(ctx))
}
