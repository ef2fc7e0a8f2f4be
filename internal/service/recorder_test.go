package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cnapi/config"
	"cnapi/internal/database/memory"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"
	"cnapi/utils/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// contextLogStore 模擬會尊重 ctx 取消的真實儲存層
type contextLogStore struct {
	*memory.UsageLogStore
}

func (s contextLogStore) Append(ctx context.Context, usage *model.APIUsage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.UsageLogStore.Append(ctx, usage)
}

func TestRecorderReportsFailures(t *testing.T) {
	f := newFixture(t)
	f.summaries.FailWith(errors.New("mongo down"))
	keyID := primitive.NewObjectID()

	f.recorder.Record(context.Background(), keyID, "2024-03", "/v1/products", 200)
	f.waitRecorder(t)

	assert.Eventually(t, func() bool { return len(f.sink.Failures()) == 1 }, time.Second, 10*time.Millisecond)
	failure := f.sink.Failures()[0]
	assert.Equal(t, keyID, failure.APIKeyID)
	assert.Equal(t, "summary", failure.Stage)
	assert.Equal(t, "2024-03", failure.Period)
	assert.Equal(t, 200, failure.StatusCode)
	assert.ErrorIs(t, failure.Err, ErrLoggingFailure)
}

func TestRecorderIgnoresRequestCancellation(t *testing.T) {
	conf := (&config.Configuration{}).Normalize()
	trace, _, err := telemetry.NewTrace(conf)
	require.NoError(t, err)
	metric := telemetry.NewMetric(conf)
	logs := contextLogStore{memory.NewUsageLogStore()}
	summaries := memory.NewUsageSummaryStore()
	usage := NewUsageService(trace, metric, logs, summaries, clock.NewFake(fixtureNow), conf, zap.NewNop())
	sink := &recordingSink{}
	recorder, cleanup := NewUsageRecorder(usage, sink, metric, conf, zap.NewNop())
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	keyID := primitive.NewObjectID()
	recorder.Record(ctx, keyID, "2024-03", "/v1/products", 200)

	require.NoError(t, recorder.Close(context.Background()))
	assert.Len(t, logs.Entries(), 1)
	assert.Empty(t, sink.Failures())
}

func TestRecorderCloseWaitsAndRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keyID := primitive.NewObjectID()

	for i := 0; i < 20; i++ {
		f.recorder.Record(ctx, keyID, "2024-03", "/v1/products", 200)
	}
	require.NoError(t, f.recorder.Close(ctx))

	total, err := f.usage.UsageInPeriod(ctx, keyID, "2024-03")
	require.NoError(t, err)
	assert.Equal(t, int64(20), total)

	// 關閉後的紀錄直接回報為失敗
	f.recorder.Record(ctx, keyID, "2024-03", "/v1/products", 200)
	failures := f.sink.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "recorder", failures[0].Stage)

	require.NoError(t, f.recorder.Close(ctx))
}
