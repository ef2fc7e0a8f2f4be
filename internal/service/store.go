package service

import (
	"context"
	"time"

	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 以下介面由 mongodb/repository、redis/repository 與 database/memory 實作

type APIKeyStore interface {
	Create(ctx context.Context, apiKey *model.APIKey) (*model.APIKey, error)
	GetByID(ctx context.Context, apiKeyID primitive.ObjectID) (*model.APIKey, error)
	GetByDigest(ctx context.Context, keyDigest string) (*model.APIKey, error)
	Deactivate(ctx context.Context, apiKeyID primitive.ObjectID) error
}

type BillingTierStore interface {
	GetByName(ctx context.Context, tierName string) (*model.BillingTier, error)
	List(ctx context.Context) ([]*model.BillingTier, error)
	Upsert(ctx context.Context, tier *model.BillingTier) (*model.BillingTier, error)
	InsertIfAbsent(ctx context.Context, tier *model.BillingTier) (bool, error)
}

// TierCache Get 回傳 (tier, hit, err)
type TierCache interface {
	Get(ctx context.Context, tierName string) (*model.BillingTier, bool, error)
	Set(ctx context.Context, tier *model.BillingTier) error
	Delete(ctx context.Context, tierName string) error
}

type UsageLogStore interface {
	Append(ctx context.Context, usage *model.APIUsage) error
}

// UsageSummaryStore Increment 不支援時回傳 core.ErrAtomicUnsupported；
// InsertFirst / CompareAndSet 為 fallback 使用的原語
type UsageSummaryStore interface {
	Increment(ctx context.Context, apiKeyID primitive.ObjectID, billingMonth string, at time.Time) (*model.MonthlyUsageSummary, error)
	Get(ctx context.Context, apiKeyID primitive.ObjectID, billingMonth string) (*model.MonthlyUsageSummary, error)
	ListRecent(ctx context.Context, apiKeyID primitive.ObjectID, limit int64) ([]*model.MonthlyUsageSummary, error)
	InsertFirst(ctx context.Context, apiKeyID primitive.ObjectID, billingMonth string, at time.Time) error
	CompareAndSet(ctx context.Context, apiKeyID primitive.ObjectID, billingMonth string, observed, next int64, at time.Time) (bool, error)
}

type ProductStore interface {
	List(ctx context.Context, query core.ProductQuery) ([]*model.CNProduct, int64, error)
	GetByCNNumber(ctx context.Context, cnNumber string) (*model.CNProduct, error)
	ListServings(ctx context.Context, cnNumber string) ([]*model.CNServing, error)
}
