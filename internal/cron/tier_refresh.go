package cron

import (
	"context"
	"time"

	"cnapi/internal/core"
	"cnapi/internal/service"
	"cnapi/internal/telemetry"

	"go.uber.org/zap"
)

const tierRefreshTimeout = 30 * time.Second

// TierRefreshJob 定期把所有方案寫入 Redis，讓驗證路徑不必回源
type TierRefreshJob struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	tiers  *service.BillingTierService
}

func NewTierRefreshJob(logger *zap.Logger, trace *telemetry.Trace, tiers *service.BillingTierService) *TierRefreshJob {
	return &TierRefreshJob{logger: logger, trace: trace, tiers: tiers}
}

// Run 實作 cron.Job
func (j *TierRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), tierRefreshTimeout)
	defer cancel()
	_ = j.Refresh(ctx)
}

func (j *TierRefreshJob) Refresh(ctx context.Context) (returnedError error) {
	ctx, _, end := j.trace.WithSpan(ctx, string(core.SpanTierRefreshJob))
	defer func() { end(returnedError) }()

	start := time.Now()
	refreshed, err := j.tiers.Refresh(ctx)
	if err != nil {
		j.logger.Warn("tier refresh failed", zap.Int("refreshed", refreshed), zap.Error(err))
		return err
	}
	j.logger.Debug("tier refresh done", zap.Int("refreshed", refreshed), zap.Duration("duration", time.Since(start)))
	return nil
}
