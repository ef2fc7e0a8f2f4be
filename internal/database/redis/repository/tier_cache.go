package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cnapi/config"
	"cnapi/internal/core"
	client "cnapi/internal/database/client"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// TierCacheRepository 以 JSON 快取 billing tier；client 為 nil 時一律視為未命中
type TierCacheRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
	ttl    time.Duration
}

func NewTierCacheRepository(trace *telemetry.Trace, client *client.RedisClient, conf *config.Configuration) *TierCacheRepository {
	return &TierCacheRepository{trace: trace, client: client.Client(), ttl: conf.Redis.TierCacheTTL}
}

// Get 回傳 (tier, hit, err)；未命中時 tier 為 nil
func (repository *TierCacheRepository) Get(contextValue context.Context, tierName string) (_ *model.BillingTier, hit bool, returnedError error) {
	if repository.client == nil {
		return nil, false, nil
	}

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	traceMetadata := core.TraceTierCacheMeta{TierName: tierName, Op: "get"}

	raw, getError := repository.client.Get(contextValue, repository.buildKey(tierName)).Bytes()
	if errors.Is(getError, redis.Nil) {
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return nil, false, nil
	}
	if getError != nil {
		returnedError = getError
		return nil, false, returnedError
	}

	var tier model.BillingTier
	if unmarshalError := json.Unmarshal(raw, &tier); unmarshalError != nil {
		// 內容壞掉就當作未命中，讓上層回源重寫
		_ = repository.client.Del(contextValue, repository.buildKey(tierName)).Err()
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return nil, false, nil
	}

	traceMetadata.Hit = true
	repository.trace.ApplyTraceAttributes(span, traceMetadata)
	return &tier, true, nil
}

// Set 寫入快取並設定 TTL
func (repository *TierCacheRepository) Set(contextValue context.Context, tier *model.BillingTier) (returnedError error) {
	if repository.client == nil || tier == nil {
		return nil
	}

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceTierCacheMeta{
		TierName: tier.TierName,
		Op:       "set",
		TTLSec:   int64(repository.ttl.Seconds()),
	})

	payload, marshalError := json.Marshal(tier)
	if marshalError != nil {
		returnedError = marshalError
		return returnedError
	}
	returnedError = repository.client.Set(contextValue, repository.buildKey(tier.TierName), payload, repository.ttl).Err()
	return returnedError
}

// Delete 方案異動後讓快取失效
func (repository *TierCacheRepository) Delete(contextValue context.Context, tierName string) (returnedError error) {
	if repository.client == nil {
		return nil
	}

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceTierCacheMeta{TierName: tierName, Op: "delete"})
	returnedError = repository.client.Del(contextValue, repository.buildKey(tierName)).Err()
	return returnedError
}

// buildKey 例如 cnapi:billing_tier:basic
func (repository *TierCacheRepository) buildKey(tierName string) string {
	return fmt.Sprintf("%s:%s:%s", core.RedisKeyServerName, core.RedisKeyTierPolicy, tierName)
}
