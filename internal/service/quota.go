package service

import (
	"context"
	"errors"

	"cnapi/config"
	"cnapi/internal/core"
	"cnapi/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UsageSnapshot 回應 meta.usage 的內容
type UsageSnapshot struct {
	Current     int64   `json:"current"`
	Limit       int64   `json:"limit"`
	Remaining   int64   `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
	Tier        string  `json:"tier,omitempty"`
}

// NewUsageSnapshot remaining 不小於 0；limit 為 0 時百分比為 0
func NewUsageSnapshot(current, limit int64, tier string) UsageSnapshot {
	snapshot := UsageSnapshot{Current: current, Limit: limit, Tier: tier}
	if remaining := limit - current; remaining > 0 {
		snapshot.Remaining = remaining
	}
	if limit > 0 {
		snapshot.PercentUsed = 100 * float64(current) / float64(limit)
	}
	return snapshot
}

type QuotaDecision struct {
	Allowed bool
	Usage   UsageSnapshot
}

type QuotaService struct {
	trace        *telemetry.Trace
	metric       *telemetry.Metric
	usage        *UsageService
	tiers        *BillingTierService
	defaultLimit int64
	logger       *zap.Logger
}

func NewQuotaService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	usage *UsageService,
	tiers *BillingTierService,
	conf *config.Configuration,
	logger *zap.Logger,
) *QuotaService {
	defaultLimit := conf.Quota.DefaultMonthlyLimit
	if defaultLimit <= 0 {
		defaultLimit = config.DefaultMonthlyCallLimit
	}
	return &QuotaService{
		trace:        trace,
		metric:       metric,
		usage:        usage,
		tiers:        tiers,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Check 以目前月份判斷
func (s *QuotaService) Check(ctx context.Context, apiKeyID primitive.ObjectID, tierName string) (QuotaDecision, error) {
	return s.CheckInPeriod(ctx, apiKeyID, tierName, s.usage.CurrentPeriod())
}

// CheckInPeriod current < limit 才放行；任何內部錯誤一律拒絕並回傳歸零的快照
func (s *QuotaService) CheckInPeriod(ctx context.Context, apiKeyID primitive.ObjectID, tierName, period string) (_ QuotaDecision, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	meta := core.TraceQuotaMeta{APIKeyID: apiKeyID.Hex(), Tier: tierName, Period: period}
	defer func() { s.trace.ApplyTraceAttributes(span, meta) }()

	failClosed := func(err error) (QuotaDecision, error) {
		meta.FailClosed = true
		s.metric.QuotaCheckFailed()
		s.logger.Warn("quota check failed closed",
			zap.String("apiKeyId", apiKeyID.Hex()),
			zap.String("tier", tierName),
			zap.String("period", period),
			zap.Error(err),
		)
		return QuotaDecision{Allowed: false, Usage: UsageSnapshot{Tier: tierName}}, err
	}

	current, err := s.usage.UsageInPeriod(ctx, apiKeyID, period)
	if err != nil {
		return failClosed(err)
	}
	// 逾時也視為失敗
	if err := ctx.Err(); err != nil {
		return failClosed(err)
	}

	limit := s.defaultLimit
	tier, err := s.tiers.Resolve(ctx, tierName)
	switch {
	case errors.Is(err, ErrTierNotFound):
		// 未知方案給保守的預設額度
	case err != nil:
		return failClosed(err)
	default:
		meta.TierFound = true
		if tier.MonthlyCallLimit > 0 {
			limit = tier.MonthlyCallLimit
		}
	}
	if err := ctx.Err(); err != nil {
		return failClosed(err)
	}

	snapshot := NewUsageSnapshot(current, limit, tierName)
	decision := QuotaDecision{Allowed: current < limit, Usage: snapshot}
	meta.Current, meta.Limit, meta.Remaining, meta.PercentUsed = snapshot.Current, snapshot.Limit, snapshot.Remaining, snapshot.PercentUsed
	meta.Allowed = decision.Allowed
	return decision, nil
}
