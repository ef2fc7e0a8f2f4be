package service

import (
	"context"
	"errors"
	"math"

	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/dto"
	"cnapi/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultReportMonths = 3
	MaxReportMonths     = 24
)

// ReportService 管理端用量報表
type ReportService struct {
	trace   *telemetry.Trace
	apiKeys *APIKeyService
	tiers   *BillingTierService
	usage   *UsageService
}

func NewReportService(trace *telemetry.Trace, apiKeys *APIKeyService, tiers *BillingTierService, usage *UsageService) *ReportService {
	return &ReportService{trace: trace, apiKeys: apiKeys, tiers: tiers, usage: usage}
}

// Usage months 限制在 1..MaxReportMonths；key 不存在時回傳 ErrAPIKeyNotFound
func (s *ReportService) Usage(ctx context.Context, apiKeyID primitive.ObjectID, months int) (_ *dto.UsageReportDto, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()
	s.trace.ApplyTraceAttributes(span, core.TraceAPIKeyMeta{Op: "report", APIKeyID: apiKeyID.Hex()})

	months = min(max(months, 1), MaxReportMonths)

	record, err := s.apiKeys.GetByID(ctx, apiKeyID)
	if err != nil {
		return nil, err
	}

	period := s.usage.CurrentPeriod()
	current, err := s.usage.UsageInPeriod(ctx, apiKeyID, period)
	if err != nil {
		return nil, err
	}

	var limit int64
	tier, err := s.tiers.Resolve(ctx, record.Tier)
	switch {
	case errors.Is(err, ErrTierNotFound):
		tier = nil
	case err != nil:
		return nil, err
	default:
		limit = max(tier.MonthlyCallLimit, 0)
	}

	history, err := s.usage.History(ctx, apiKeyID, months)
	if err != nil {
		return nil, err
	}

	return &dto.UsageReportDto{
		APIKey:       APIKeyToDto(record),
		CurrentMonth: currentMonthUsage(period, current, limit),
		Tier:         BillingTierToDto(tier),
		History:      monthlyUsageToDtos(history),
	}, nil
}

func currentMonthUsage(period string, current, limit int64) dto.CurrentMonthUsageDto {
	snapshot := NewUsageSnapshot(current, limit, "")
	return dto.CurrentMonthUsageDto{
		Period:      period,
		Usage:       snapshot.Current,
		Limit:       snapshot.Limit,
		Remaining:   snapshot.Remaining,
		PercentUsed: math.Round(snapshot.PercentUsed*100) / 100,
	}
}

func monthlyUsageToDtos(history []*model.MonthlyUsageSummary) []dto.MonthlyUsageDto {
	result := make([]dto.MonthlyUsageDto, len(history))
	for i, summary := range history {
		result[i] = dto.MonthlyUsageDto{
			BillingMonth: summary.BillingMonth,
			TotalCalls:   summary.TotalCalls,
			LastUpdated:  summary.LastUpdated,
		}
	}
	return result
}

// APIKeyToDto 不含摘要
func APIKeyToDto(m *model.APIKey) *dto.APIKeyResponseDto {
	if m == nil {
		return nil
	}
	return &dto.APIKeyResponseDto{
		ID:         m.ID.Hex(),
		KeyPrefix:  m.KeyPrefix,
		ClientName: m.ClientName,
		Tier:       m.Tier,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		ExpiresAt:  m.ExpiresAt,
	}
}

func BillingTierToDto(m *model.BillingTier) *dto.BillingTierResponseDto {
	if m == nil {
		return nil
	}
	return &dto.BillingTierResponseDto{
		Name:             m.TierName,
		MonthlyCallLimit: m.MonthlyCallLimit,
		PriceMonthly:     m.PriceMonthly,
		Description:      m.Description,
		UpdatedAt:        m.UpdatedAt,
	}
}
