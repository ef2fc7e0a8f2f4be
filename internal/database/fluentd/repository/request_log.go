package repository

import (
	"context"
	"time"

	"cnapi/config"
	"cnapi/internal/core"
	"cnapi/internal/database/client"
	"cnapi/internal/database/fluentd/model"
	"cnapi/utils/validate"
)

const fluentdTimeLayout = "2006-01-02 15:04:05.999999 UTC"

// LogRepository 統一負責發送 Request/Response/Usage Failure Log 到 Fluentd
type LogRepository struct {
	fluentdClient client.Client
	projectName   string
	version       string
}

func NewLogRepository(config *config.Configuration, fluentdClient client.Client) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: fluentdClient, projectName: config.App.Name, version: version}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = time.Now().UTC().Format(fluentdTimeLayout)
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = time.Now().UTC().Format(fluentdTimeLayout)
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	return repository.post(ctx, core.FluentdResponse, resp)
}

func (repository *LogRepository) LogUsageFailure(ctx context.Context, failure model.UsageFailureLog) error {
	if failure.LoggedAt == "" {
		failure.LoggedAt = time.Now().UTC().Format(fluentdTimeLayout)
	}
	if failure.Version == "" {
		failure.Version = repository.version
	}
	if failure.ProjectName == "" {
		failure.ProjectName = repository.projectName
	}
	return repository.post(ctx, core.FluentdUsageFailure, failure)
}

func (repository *LogRepository) post(ctx context.Context, subTag core.FluentdSubTag, payload any) error {
	fluentdMessage, err := validate.PayloadToMap(payload)
	if err != nil {
		return err
	}
	return repository.fluentdClient.Post(ctx, repository.fluentdClient.Tag(string(subTag)), fluentdMessage)
}

// FormatTime Fluentd 紀錄統一的時間格式
func FormatTime(t time.Time) string {
	return t.UTC().Format(fluentdTimeLayout)
}
