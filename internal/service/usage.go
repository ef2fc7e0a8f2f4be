package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"cnapi/config"
	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"
	"cnapi/utils/billing"
	"cnapi/utils/clock"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	usagePathAtomic   = "atomic"
	usagePathFallback = "fallback"

	// fallback 重試間隔：指數成長並加抖動，錯開同時搶同一列的寫入者
	fallbackBackoffBase = 2 * time.Millisecond
	fallbackBackoffMax  = 50 * time.Millisecond
)

type UsageService struct {
	trace     *telemetry.Trace
	metric    *telemetry.Metric
	logs      UsageLogStore
	summaries UsageSummaryStore
	clock     clock.Clock
	location  *time.Location
	retries   int
	logger    *zap.Logger
}

func NewUsageService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logs UsageLogStore,
	summaries UsageSummaryStore,
	clk clock.Clock,
	config *config.Configuration,
	logger *zap.Logger,
) *UsageService {
	retries := config.Quota.FallbackRetries
	if retries <= 0 {
		retries = 1
	}
	return &UsageService{
		trace:     trace,
		metric:    metric,
		logs:      logs,
		summaries: summaries,
		clock:     clk,
		location:  config.Quota.Location(),
		retries:   retries,
		logger:    logger,
	}
}

// CurrentPeriod 目前的計費月份
func (s *UsageService) CurrentPeriod() string {
	return billing.Period(s.clock.Now(), s.location)
}

// Record 以目前時間的計費月份寫入
func (s *UsageService) Record(ctx context.Context, apiKeyID primitive.ObjectID, endpoint string, statusCode int) error {
	return s.RecordInPeriod(ctx, apiKeyID, s.CurrentPeriod(), endpoint, statusCode)
}

// RecordInPeriod 先寫逐筆紀錄再加月彙總；兩者互不影響，任一失敗回傳 *UsageRecordError
func (s *UsageService) RecordInPeriod(ctx context.Context, apiKeyID primitive.ObjectID, period, endpoint string, statusCode int) (returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanUsageRecord))
	defer func() { end(returnedError) }()

	meta := core.TraceUsageWriteMeta{
		APIKeyID:   apiKeyID.Hex(),
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Period:     period,
	}
	defer func() { s.trace.ApplyTraceAttributes(span, meta) }()

	now := s.clock.Now().UTC()
	logErr := s.logs.Append(ctx, &model.APIUsage{
		APIKeyID:       apiKeyID,
		Endpoint:       endpoint,
		ResponseStatus: statusCode,
		BillingMonth:   period,
		Timestamp:      now,
	})

	total, path, attempts, incErr := s.increment(ctx, apiKeyID, period, now)
	meta.TotalCalls, meta.Path, meta.Attempts = total, path, attempts
	if incErr == nil {
		if path == usagePathFallback {
			s.metric.UsageFallback()
			s.metric.UsageRecorded(core.UsageRecordFallback)
		} else {
			s.metric.UsageRecorded(core.UsageRecordOK)
		}
	}

	switch {
	case logErr != nil && incErr != nil:
		return &UsageRecordError{Stage: "log+summary", Err: errors.Join(logErr, incErr)}
	case logErr != nil:
		return &UsageRecordError{Stage: "log", Err: logErr}
	case incErr != nil:
		return &UsageRecordError{Stage: "summary", Err: incErr}
	}
	return nil
}

// increment 原子 upsert 為主；後端不支援時改走唯一索引 + 條件更新的重試迴圈
func (s *UsageService) increment(ctx context.Context, apiKeyID primitive.ObjectID, period string, at time.Time) (total int64, path string, attempts int, err error) {
	summary, err := s.summaries.Increment(ctx, apiKeyID, period, at)
	if err == nil {
		return summary.TotalCalls, usagePathAtomic, 1, nil
	}
	if !errors.Is(err, core.ErrAtomicUnsupported) {
		return 0, usagePathAtomic, 1, err
	}

	for attempts = 1; attempts <= s.retries; attempts++ {
		if attempts > 1 {
			if waitErr := waitBackoff(ctx, attempts-1); waitErr != nil {
				return 0, usagePathFallback, attempts - 1, waitErr
			}
		}
		current, getErr := s.summaries.Get(ctx, apiKeyID, period)
		if isNotFound(getErr) {
			insertErr := s.summaries.InsertFirst(ctx, apiKeyID, period, at)
			if insertErr == nil {
				return 1, usagePathFallback, attempts, nil
			}
			if errors.Is(insertErr, core.ErrDuplicateRecord) {
				continue
			}
			return 0, usagePathFallback, attempts, insertErr
		}
		if getErr != nil {
			return 0, usagePathFallback, attempts, getErr
		}

		swapped, casErr := s.summaries.CompareAndSet(ctx, apiKeyID, period, current.TotalCalls, current.TotalCalls+1, at)
		if casErr != nil {
			return 0, usagePathFallback, attempts, casErr
		}
		if swapped {
			return current.TotalCalls + 1, usagePathFallback, attempts, nil
		}
	}
	return 0, usagePathFallback, s.retries, fmt.Errorf("usage fallback gave up after %d attempts", s.retries)
}

// fallbackDelay 第 n 次重試前的等待，落在 [d/2, d]
func fallbackDelay(retry int) time.Duration {
	d := min(fallbackBackoffBase<<min(retry-1, 5), fallbackBackoffMax)
	return d/2 + rand.N(d/2+1)
}

func waitBackoff(ctx context.Context, retry int) error {
	timer := time.NewTimer(fallbackDelay(retry))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CurrentUsage 目前月份的呼叫數；尚無紀錄為 0
func (s *UsageService) CurrentUsage(ctx context.Context, apiKeyID primitive.ObjectID) (int64, error) {
	return s.UsageInPeriod(ctx, apiKeyID, s.CurrentPeriod())
}

func (s *UsageService) UsageInPeriod(ctx context.Context, apiKeyID primitive.ObjectID, period string) (int64, error) {
	summary, err := s.summaries.Get(ctx, apiKeyID, period)
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, storageError("get usage summary", err)
	}
	return summary.TotalCalls, nil
}

// History 由新到舊，最多 periods 筆
func (s *UsageService) History(ctx context.Context, apiKeyID primitive.ObjectID, periods int) (_ []*model.MonthlyUsageSummary, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if periods <= 0 {
		return []*model.MonthlyUsageSummary{}, nil
	}
	summaries, err := s.summaries.ListRecent(ctx, apiKeyID, int64(periods))
	if err != nil {
		return nil, storageError("list usage history", err)
	}
	return summaries, nil
}
