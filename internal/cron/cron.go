package cron

import (
	"context"

	"cnapi/config"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron, NewTierRefreshJob)

type Cron struct {
	logger         *zap.Logger
	config         *config.Configuration
	server         *cron.Cron
	tierRefreshJob *TierRefreshJob
}

// NewCron .
func NewCron(logger *zap.Logger, config *config.Configuration, tierRefreshJob *TierRefreshJob) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	return &Cron{
		logger:         logger,
		config:         config,
		server:         server,
		tierRefreshJob: tierRefreshJob,
	}
}

func (c *Cron) Run() error {
	spec := c.config.Quota.TierRefreshSpec
	if spec != "" {
		if _, err := c.server.AddJob(spec, c.tierRefreshJob); err != nil {
			return err
		}
		c.logger.Info("cron job scheduled", zap.String("job", "tier_refresh"), zap.String("spec", spec))
	}

	c.server.Start()
	return nil
}

// Stop 等待執行中的 job 結束或 ctx 到期
func (c *Cron) Stop(ctx context.Context) error {
	select {
	case <-c.server.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
