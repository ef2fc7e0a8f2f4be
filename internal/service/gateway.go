package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cnapi/config"
	"cnapi/internal/core"
	"cnapi/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AuthResult 單次請求的驗證結論；Period 供 Finalize 使用同一個計費月份
type AuthResult struct {
	Authenticated bool
	KeyID         primitive.ObjectID
	Tier          string
	Usage         *UsageSnapshot
	ErrorKind     core.AuthErrorKind
	Period        string
	Err           error
}

// GatewayService 驗證與配額檢查只讀不寫；寫入只發生在 Finalize
type GatewayService struct {
	trace        *telemetry.Trace
	metric       *telemetry.Metric
	keys         *APIKeyService
	quota        *QuotaService
	usage        *UsageService
	recorder     *UsageRecorder
	checkTimeout time.Duration
	logger       *zap.Logger
}

func NewGatewayService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	keys *APIKeyService,
	quota *QuotaService,
	usage *UsageService,
	recorder *UsageRecorder,
	conf *config.Configuration,
	logger *zap.Logger,
) *GatewayService {
	return &GatewayService{
		trace:        trace,
		metric:       metric,
		keys:         keys,
		quota:        quota,
		usage:        usage,
		recorder:     recorder,
		checkTimeout: conf.Quota.CheckTimeout,
		logger:       logger,
	}
}

// Authenticate 終態：MissingCredential / InvalidCredential / QuotaExceeded / StorageUnavailable / 通過
func (s *GatewayService) Authenticate(ctx context.Context, credential string) AuthResult {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		s.metric.AuthDenied(string(core.AuthErrorMissingCredential))
		return AuthResult{ErrorKind: core.AuthErrorMissingCredential, Err: ErrMissingCredential}
	}

	if s.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.checkTimeout)
		defer cancel()
	}
	period := s.usage.CurrentPeriod()

	record, err := s.keys.Validate(ctx, credential)
	if errors.Is(err, ErrInvalidCredential) {
		s.metric.AuthDenied(string(core.AuthErrorInvalidCredential))
		return AuthResult{ErrorKind: core.AuthErrorInvalidCredential, Period: period, Err: err}
	}
	if err != nil {
		s.metric.AuthDenied(string(core.AuthErrorStorageUnavailable))
		s.logger.Error("api key lookup failed", zap.Error(err))
		return AuthResult{ErrorKind: core.AuthErrorStorageUnavailable, Period: period, Err: err}
	}
	// 查詢本身成功但已逾時，不再往下判斷額度
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.metric.AuthDenied(string(core.AuthErrorStorageUnavailable))
		s.logger.Error("api key lookup exceeded check timeout", zap.Error(ctxErr))
		return AuthResult{
			ErrorKind: core.AuthErrorStorageUnavailable,
			Period:    period,
			Err:       fmt.Errorf("%w: lookup api key: %w", ErrStorageUnavailable, ctxErr),
		}
	}

	decision, err := s.quota.CheckInPeriod(ctx, record.ID, record.Tier, period)
	usage := decision.Usage
	result := AuthResult{
		KeyID:  record.ID,
		Tier:   record.Tier,
		Usage:  &usage,
		Period: period,
	}
	if !decision.Allowed {
		s.metric.AuthDenied(string(core.AuthErrorQuotaExceeded))
		result.ErrorKind = core.AuthErrorQuotaExceeded
		result.Err = ErrQuotaExceeded
		if err != nil {
			result.Err = errors.Join(ErrQuotaExceeded, err)
		}
		return result
	}

	result.Authenticated = true
	return result
}

// Finalize 以目前時間的計費月份記錄，立即返回
func (s *GatewayService) Finalize(ctx context.Context, apiKeyID primitive.ObjectID, endpoint string, statusCode int) {
	s.recorder.Record(ctx, apiKeyID, s.usage.CurrentPeriod(), endpoint, statusCode)
}

// FinalizeResult 使用 Authenticate 當下的計費月份，避免跨月請求記錯月份
func (s *GatewayService) FinalizeResult(ctx context.Context, result AuthResult, endpoint string, statusCode int) {
	if !result.Authenticated {
		return
	}
	period := result.Period
	if period == "" {
		period = s.usage.CurrentPeriod()
	}
	s.recorder.Record(ctx, result.KeyID, period, endpoint, statusCode)
}
