package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BillingTierStore struct {
	faults
	mu     sync.RWMutex
	byName map[string]model.BillingTier
}

func NewBillingTierStore(tiers ...model.BillingTier) *BillingTierStore {
	store := &BillingTierStore{byName: make(map[string]model.BillingTier)}
	for _, tier := range tiers {
		if tier.ID.IsZero() {
			tier.ID = primitive.NewObjectID()
		}
		store.byName[tier.TierName] = tier
	}
	return store
}

func (s *BillingTierStore) GetByName(_ context.Context, tierName string) (*model.BillingTier, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tier, ok := s.byName[tierName]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	return &tier, nil
}

func (s *BillingTierStore) List(_ context.Context) ([]*model.BillingTier, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tiers := make([]*model.BillingTier, 0, len(s.byName))
	for _, tier := range s.byName {
		tier := tier
		tiers = append(tiers, &tier)
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].MonthlyCallLimit != tiers[j].MonthlyCallLimit {
			return tiers[i].MonthlyCallLimit < tiers[j].MonthlyCallLimit
		}
		return tiers[i].TierName < tiers[j].TierName
	})
	return tiers, nil
}

func (s *BillingTierStore) Upsert(_ context.Context, tier *model.BillingTier) (*model.BillingTier, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored, ok := s.byName[tier.TierName]
	if !ok {
		stored = model.BillingTier{ID: primitive.NewObjectID(), TierName: tier.TierName, CreatedAt: now}
	}
	stored.MonthlyCallLimit = tier.MonthlyCallLimit
	stored.PriceMonthly = tier.PriceMonthly
	stored.Description = tier.Description
	stored.UpdatedAt = now
	s.byName[tier.TierName] = stored
	return &stored, nil
}

func (s *BillingTierStore) InsertIfAbsent(_ context.Context, tier *model.BillingTier) (bool, error) {
	if err := s.fault(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[tier.TierName]; ok {
		return false, nil
	}
	now := time.Now().UTC()
	stored := *tier
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	s.byName[tier.TierName] = stored
	return true, nil
}

// TierCache 行程內的 tier 快取（對應 Redis 實作）
type TierCache struct {
	faults
	mu     sync.RWMutex
	byName map[string]model.BillingTier
}

func NewTierCache() *TierCache {
	return &TierCache{byName: make(map[string]model.BillingTier)}
}

func (c *TierCache) Get(_ context.Context, tierName string) (*model.BillingTier, bool, error) {
	if err := c.fault(); err != nil {
		return nil, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	tier, ok := c.byName[tierName]
	if !ok {
		return nil, false, nil
	}
	return &tier, true, nil
}

func (c *TierCache) Set(_ context.Context, tier *model.BillingTier) error {
	if err := c.fault(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byName[tier.TierName] = *tier
	return nil
}

func (c *TierCache) Delete(_ context.Context, tierName string) error {
	if err := c.fault(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byName, tierName)
	return nil
}
