package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"cnapi/config"
	"cnapi/internal/core"
	fluentdModel "cnapi/internal/database/fluentd/model"
	fluentdRepo "cnapi/internal/database/fluentd/repository"
	"cnapi/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// 關閉時等待背景寫入的預設上限
const recorderCloseTimeout = 10 * time.Second

// UsageFailure 一次沒有成功寫入的用量
type UsageFailure struct {
	APIKeyID   primitive.ObjectID
	Endpoint   string
	StatusCode int
	Period     string
	Stage      string
	Err        error
	OccurredAt time.Time
}

// UsageFailureSink 接收用量寫入失敗；實作不得阻塞太久
type UsageFailureSink interface {
	Report(ctx context.Context, failure UsageFailure)
}

// ObservedFailureSink zap + metric + Fluentd
type ObservedFailureSink struct {
	logger        *zap.Logger
	metric        *telemetry.Metric
	logRepository *fluentdRepo.LogRepository
}

func NewObservedFailureSink(logger *zap.Logger, metric *telemetry.Metric, logRepository *fluentdRepo.LogRepository) *ObservedFailureSink {
	return &ObservedFailureSink{logger: logger, metric: metric, logRepository: logRepository}
}

func (s *ObservedFailureSink) Report(ctx context.Context, failure UsageFailure) {
	s.metric.UsageRecorded(core.UsageRecordFailed)
	s.logger.Warn("usage record failed",
		zap.String("apiKeyId", failure.APIKeyID.Hex()),
		zap.String("endpoint", failure.Endpoint),
		zap.Int("status", failure.StatusCode),
		zap.String("period", failure.Period),
		zap.String("stage", failure.Stage),
		zap.Error(failure.Err),
	)
	if s.logRepository == nil {
		return
	}
	if err := s.logRepository.LogUsageFailure(ctx, fluentdModel.UsageFailureLog{
		APIKeyID:     failure.APIKeyID.Hex(),
		Endpoint:     failure.Endpoint,
		StatusCode:   failure.StatusCode,
		BillingMonth: failure.Period,
		Stage:        failure.Stage,
		Error:        failure.Err.Error(),
		OccurredAt:   fluentdRepo.FormatTime(failure.OccurredAt),
	}); err != nil {
		s.logger.Warn("usage failure forward to fluentd failed", zap.Error(err))
	}
}

// UsageRecorder 每筆用量在獨立 goroutine 寫入，不受請求取消影響；
// 失敗經緩衝通道交給單一 goroutine 回報，通道滿時直接回報
type UsageRecorder struct {
	usage   *UsageService
	sink    UsageFailureSink
	metric  *telemetry.Metric
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	failures chan UsageFailure
	drained  chan struct{}
	once     sync.Once
}

func NewUsageRecorder(
	usage *UsageService,
	sink UsageFailureSink,
	metric *telemetry.Metric,
	conf *config.Configuration,
	logger *zap.Logger,
) (*UsageRecorder, func()) {
	buffer := conf.Quota.RecorderBuffer
	if buffer < 0 {
		buffer = 0
	}
	recorder := &UsageRecorder{
		usage:    usage,
		sink:     sink,
		metric:   metric,
		timeout:  conf.Quota.RecordTimeout,
		logger:   logger,
		failures: make(chan UsageFailure, buffer),
		drained:  make(chan struct{}),
	}
	go recorder.drain()

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), recorderCloseTimeout)
		defer cancel()
		if err := recorder.Close(ctx); err != nil {
			logger.Warn("usage recorder close", zap.Error(err))
		}
	}
	return recorder, cleanup
}

func (r *UsageRecorder) drain() {
	defer close(r.drained)
	for failure := range r.failures {
		r.sink.Report(context.Background(), failure)
	}
}

// Record 立即返回；ctx 只提供 trace 等值，不會傳遞取消
func (r *UsageRecorder) Record(ctx context.Context, apiKeyID primitive.ObjectID, period, endpoint string, statusCode int) {
	failure := UsageFailure{
		APIKeyID:   apiKeyID,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Period:     period,
	}

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		failure.Stage, failure.Err, failure.OccurredAt = "recorder", errors.New("usage recorder closed"), time.Now()
		r.sink.Report(context.WithoutCancel(ctx), failure)
		return
	}
	r.wg.Add(1)
	r.mu.RUnlock()

	r.metric.UsageInflight(1)
	go func() {
		defer r.wg.Done()
		defer r.metric.UsageInflight(-1)

		jobCtx := context.WithoutCancel(ctx)
		if r.timeout > 0 {
			var cancel context.CancelFunc
			jobCtx, cancel = context.WithTimeout(jobCtx, r.timeout)
			defer cancel()
		}

		err := r.usage.RecordInPeriod(jobCtx, apiKeyID, period, endpoint, statusCode)
		if err == nil {
			return
		}
		failure.Stage, failure.Err, failure.OccurredAt = "summary", err, time.Now()
		var recordErr *UsageRecordError
		if errors.As(err, &recordErr) {
			failure.Stage = recordErr.Stage
		}
		r.report(failure)
	}()
}

func (r *UsageRecorder) report(failure UsageFailure) {
	select {
	case r.failures <- failure:
	default:
		r.sink.Report(context.Background(), failure)
	}
}

// Wait 等待目前所有背景寫入完成（測試與關閉流程使用）
func (r *UsageRecorder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 停止接受新工作並等待進行中的寫入；重複呼叫安全
func (r *UsageRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	if err := r.Wait(ctx); err != nil {
		return err
	}
	r.once.Do(func() { close(r.failures) })
	select {
	case <-r.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
