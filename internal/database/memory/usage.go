package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UsageLogStore 只新增
type UsageLogStore struct {
	faults
	mu      sync.RWMutex
	entries []model.APIUsage
}

func NewUsageLogStore() *UsageLogStore {
	return &UsageLogStore{}
}

func (s *UsageLogStore) Append(_ context.Context, usage *model.APIUsage) error {
	if err := s.fault(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if usage.ID.IsZero() {
		usage.ID = primitive.NewObjectID()
	}
	s.entries = append(s.entries, *usage)
	return nil
}

// Entries 回傳目前所有紀錄的複本
func (s *UsageLogStore) Entries() []model.APIUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.APIUsage(nil), s.entries...)
}

type summaryKey struct {
	apiKeyID     primitive.ObjectID
	billingMonth string
}

// UsageSummaryStore (apiKeyID, billingMonth) 唯一
type UsageSummaryStore struct {
	faults
	mu        sync.RWMutex
	summaries map[summaryKey]model.MonthlyUsageSummary

	atomicUnsupported atomic.Bool
	casConflicts      atomic.Int64
}

func NewUsageSummaryStore() *UsageSummaryStore {
	return &UsageSummaryStore{summaries: make(map[summaryKey]model.MonthlyUsageSummary)}
}

// DisableAtomic 模擬不支援原子 upsert 的後端，Increment 一律回傳 core.ErrAtomicUnsupported
func (s *UsageSummaryStore) DisableAtomic() {
	s.atomicUnsupported.Store(true)
}

// InjectConflicts 讓接下來 n 次 CompareAndSet 失敗，模擬並行寫入搶先
func (s *UsageSummaryStore) InjectConflicts(n int64) {
	s.casConflicts.Store(n)
}

// Seed 直接設定某月份的計數
func (s *UsageSummaryStore) Seed(apiKeyID primitive.ObjectID, billingMonth string, totalCalls int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := summaryKey{apiKeyID, billingMonth}
	summary, ok := s.summaries[key]
	if !ok {
		summary = model.MonthlyUsageSummary{ID: primitive.NewObjectID(), APIKeyID: apiKeyID, BillingMonth: billingMonth}
	}
	summary.TotalCalls = totalCalls
	summary.LastUpdated = time.Now().UTC()
	s.summaries[key] = summary
}

func (s *UsageSummaryStore) Increment(_ context.Context, apiKeyID primitive.ObjectID, billingMonth string, at time.Time) (*model.MonthlyUsageSummary, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	if s.atomicUnsupported.Load() {
		return nil, core.ErrAtomicUnsupported
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := summaryKey{apiKeyID, billingMonth}
	summary, ok := s.summaries[key]
	if !ok {
		summary = model.MonthlyUsageSummary{ID: primitive.NewObjectID(), APIKeyID: apiKeyID, BillingMonth: billingMonth}
	}
	summary.TotalCalls++
	summary.LastUpdated = at
	s.summaries[key] = summary
	return &summary, nil
}

func (s *UsageSummaryStore) Get(_ context.Context, apiKeyID primitive.ObjectID, billingMonth string) (*model.MonthlyUsageSummary, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[summaryKey{apiKeyID, billingMonth}]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	return &summary, nil
}

func (s *UsageSummaryStore) ListRecent(_ context.Context, apiKeyID primitive.ObjectID, limit int64) ([]*model.MonthlyUsageSummary, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.MonthlyUsageSummary, 0)
	for key, summary := range s.summaries {
		if key.apiKeyID != apiKeyID {
			continue
		}
		summary := summary
		results = append(results, &summary)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].BillingMonth > results[j].BillingMonth })
	if limit > 0 && int64(len(results)) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *UsageSummaryStore) InsertFirst(_ context.Context, apiKeyID primitive.ObjectID, billingMonth string, at time.Time) error {
	if err := s.fault(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := summaryKey{apiKeyID, billingMonth}
	if _, exists := s.summaries[key]; exists {
		return fmt.Errorf("%w: apiKeyID+billingMonth", core.ErrDuplicateRecord)
	}
	s.summaries[key] = model.MonthlyUsageSummary{
		ID:           primitive.NewObjectID(),
		APIKeyID:     apiKeyID,
		BillingMonth: billingMonth,
		TotalCalls:   1,
		LastUpdated:  at,
	}
	return nil
}

func (s *UsageSummaryStore) CompareAndSet(_ context.Context, apiKeyID primitive.ObjectID, billingMonth string, observed, next int64, at time.Time) (bool, error) {
	if err := s.fault(); err != nil {
		return false, err
	}
	if s.casConflicts.Load() > 0 && s.casConflicts.Add(-1) >= 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := summaryKey{apiKeyID, billingMonth}
	summary, ok := s.summaries[key]
	if !ok || summary.TotalCalls != observed {
		return false, nil
	}
	summary.TotalCalls = next
	summary.LastUpdated = at
	s.summaries[key] = summary
	return true, nil
}
