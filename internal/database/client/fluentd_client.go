package client

import (
	"context"
	"time"

	"cnapi/config"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
)

const defaultFluentdTagPrefix = "cnapi"

// Client 讓 repository 與測試可替換 Fluentd 實作
type Client interface {
	Post(ctx context.Context, tag string, message any) error
	Tag(suffix string) string
	Close() error
}

// FluentdClient implements Client using fluent-logger-golang.
type FluentdClient struct {
	client    *fluent.Fluent
	tagPrefix string
}

// NewFluentdClient 停用或連線失敗時回傳 NoopClient，日誌轉送不影響主流程
func NewFluentdClient(logger *zap.Logger, config *config.Configuration) (Client, func(), error) {
	prefix := defaultFluentdTagPrefix
	if config.Fluentd.TagPrefix != "" {
		prefix = config.Fluentd.TagPrefix
	}
	if !config.Fluentd.Enabled {
		logger.Info("Fluentd disabled, using noop client")
		return &NoopClient{tagPrefix: prefix}, func() {}, nil
	}

	var timeout time.Duration
	if config.Fluentd.Timeout > 0 {
		timeout = time.Duration(config.Fluentd.Timeout) * time.Millisecond
	}

	fluentLogger, err := fluent.New(fluent.Config{
		FluentHost: config.Fluentd.Host,
		FluentPort: config.Fluentd.Port,
		Timeout:    timeout,
		Async:      true,
	})
	if err != nil {
		logger.Warn("failed to connect to Fluentd, using noop client", zap.Error(err))
		return &NoopClient{tagPrefix: prefix}, func() {}, nil
	}
	logger.Info("Connected to Fluentd")

	fluentdClient := &FluentdClient{client: fluentLogger, tagPrefix: prefix}
	cleanup := func() {
		logger.Info("closing the Fluentd resources")
		if err := fluentdClient.Close(); err != nil {
			logger.Error("failed to close Fluentd client", zap.Error(err))
		}
	}
	return fluentdClient, cleanup, nil
}

func (c *FluentdClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Tag builds a tag using the configured TagPrefix and provided suffix.
// e.g. suffix="usage_failure" => "cnapi.usage_failure"
func (c *FluentdClient) Tag(suffix string) string {
	return joinTag(c.tagPrefix, suffix)
}

// Post sends a record to Fluentd with the given tag.
func (c *FluentdClient) Post(ctx context.Context, tag string, message any) error {
	// fluent-logger-golang 不支援 context；僅在送出前檢查是否已取消
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.client.Post(tag, message)
}

// NoopClient 停用模式
type NoopClient struct {
	tagPrefix string
}

func (n *NoopClient) Post(ctx context.Context, tag string, message any) error { return nil }
func (n *NoopClient) Tag(suffix string) string                                { return joinTag(n.tagPrefix, suffix) }
func (n *NoopClient) Close() error                                            { return nil }

func joinTag(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "." + suffix
}
