package service

import (
	"context"
	"strings"

	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"

	"go.uber.org/zap"
)

// DefaultTiers tier seed 寫入的預設方案
var DefaultTiers = []model.BillingTier{
	{TierName: "basic", MonthlyCallLimit: 1000, PriceMonthly: 0, Description: "Free tier for evaluation and small projects"},
	{TierName: "professional", MonthlyCallLimit: 10000, PriceMonthly: 49, Description: "Production workloads"},
	{TierName: "enterprise", MonthlyCallLimit: 100000, PriceMonthly: 299, Description: "High-volume integrations"},
}

type BillingTierService struct {
	trace  *telemetry.Trace
	metric *telemetry.Metric
	store  BillingTierStore
	cache  TierCache
	logger *zap.Logger
}

func NewBillingTierService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store BillingTierStore,
	cache TierCache,
	logger *zap.Logger,
) *BillingTierService {
	return &BillingTierService{
		trace:  trace,
		metric: metric,
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Resolve 先查快取再回源；快取錯誤只記錄不影響結果
func (s *BillingTierService) Resolve(ctx context.Context, tierName string) (_ *model.BillingTier, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	tier, hit, err := s.cache.Get(ctx, tierName)
	switch {
	case err != nil:
		s.metric.TierCacheLookup("error")
		s.logger.Warn("tier cache get failed", zap.String("tier", tierName), zap.Error(err))
	case hit:
		s.metric.TierCacheLookup("hit")
		return tier, nil
	default:
		s.metric.TierCacheLookup("miss")
	}

	tier, err = s.store.GetByName(ctx, tierName)
	if isNotFound(err) {
		return nil, ErrTierNotFound
	}
	if err != nil {
		return nil, storageError("get billing tier", err)
	}

	if err := s.cache.Set(ctx, tier); err != nil {
		s.logger.Warn("tier cache set failed", zap.String("tier", tierName), zap.Error(err))
	}
	return tier, nil
}

func (s *BillingTierService) List(ctx context.Context) (_ []*model.BillingTier, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	tiers, err := s.store.List(ctx)
	if err != nil {
		return nil, storageError("list billing tiers", err)
	}
	return tiers, nil
}

// Upsert 建立或覆寫方案，並讓快取失效
func (s *BillingTierService) Upsert(ctx context.Context, tier *model.BillingTier) (_ *model.BillingTier, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	tier.TierName = strings.TrimSpace(tier.TierName)
	saved, err := s.store.Upsert(ctx, tier)
	if err != nil {
		return nil, storageError("upsert billing tier", err)
	}
	if err := s.cache.Delete(ctx, saved.TierName); err != nil {
		s.logger.Warn("tier cache delete failed", zap.String("tier", saved.TierName), zap.Error(err))
	}
	s.logger.Info("billing tier saved",
		zap.String("tier", saved.TierName),
		zap.Int64("monthlyCallLimit", saved.MonthlyCallLimit),
	)
	return saved, nil
}

// SeedDefaults 只補上不存在的預設方案，回傳新增的名稱
func (s *BillingTierService) SeedDefaults(ctx context.Context) (_ []string, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	inserted := make([]string, 0, len(DefaultTiers))
	for _, tier := range DefaultTiers {
		tier := tier
		ok, err := s.store.InsertIfAbsent(ctx, &tier)
		if err != nil {
			return inserted, storageError("seed billing tier", err)
		}
		if ok {
			inserted = append(inserted, tier.TierName)
		}
	}
	return inserted, nil
}

// Refresh 將所有方案寫入快取（排程預熱用），回傳寫入筆數
func (s *BillingTierService) Refresh(ctx context.Context) (_ int, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	tiers, err := s.store.List(ctx)
	if err != nil {
		return 0, storageError("list billing tiers", err)
	}
	refreshed := 0
	for _, tier := range tiers {
		if err := s.cache.Set(ctx, tier); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	return refreshed, nil
}
