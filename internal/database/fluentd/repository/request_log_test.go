package repository

import (
	"context"
	"sync"
	"testing"

	"cnapi/config"
	"cnapi/internal/database/fluentd/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedPost struct {
	tag     string
	message map[string]any
}

type recordingClient struct {
	mu    sync.Mutex
	posts []capturedPost
}

func (r *recordingClient) Post(_ context.Context, tag string, message any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, capturedPost{tag: tag, message: message.(map[string]any)})
	return nil
}

func (r *recordingClient) Tag(suffix string) string { return "cnapi." + suffix }
func (r *recordingClient) Close() error             { return nil }

func TestLogUsageFailure(t *testing.T) {
	conf := &config.Configuration{}
	conf.App.Name = "cnapi"
	conf.App.Version = "2.1.0"
	fluentdClient := &recordingClient{}
	repository := NewLogRepository(conf, fluentdClient)

	err := repository.LogUsageFailure(context.Background(), model.UsageFailureLog{
		APIKeyID:     "65f0c0ffee",
		Endpoint:     "/api/products",
		StatusCode:   200,
		BillingMonth: "2024-03",
		Stage:        "summary",
		Error:        "backing store unavailable",
	})
	require.NoError(t, err)
	require.Len(t, fluentdClient.posts, 1)

	post := fluentdClient.posts[0]
	assert.Equal(t, "cnapi.usage_failure", post.tag)
	assert.Equal(t, "2.1.0", post.message["version"])
	assert.Equal(t, "cnapi", post.message["project_name"])
	assert.Equal(t, "summary", post.message["stage"])
	assert.NotEmpty(t, post.message["logged_at"])
}

func TestLogRequestDefaultsVersion(t *testing.T) {
	fluentdClient := &recordingClient{}
	repository := NewLogRepository(&config.Configuration{}, fluentdClient)

	require.NoError(t, repository.LogRequest(context.Background(), model.RequestLog{RequestID: "r1", Path: "/api/products"}))
	require.Len(t, fluentdClient.posts, 1)
	assert.Equal(t, "cnapi.request_log", fluentdClient.posts[0].tag)
	assert.Equal(t, "1.0.0", fluentdClient.posts[0].message["version"])
}
