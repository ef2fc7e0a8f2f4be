package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"cnapi/config"
	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"
	"cnapi/utils/apikey"
	"cnapi/utils/clock"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// 摘要碰撞時的重新產生次數
const issueAttempts = 3

// IssuedAPIKey 明文只在這裡出現一次
type IssuedAPIKey struct {
	Plaintext string
	Record    *model.APIKey
}

type APIKeyService struct {
	trace  *telemetry.Trace
	store  APIKeyStore
	clock  clock.Clock
	config *config.Configuration
	logger *zap.Logger
}

func NewAPIKeyService(
	trace *telemetry.Trace,
	store APIKeyStore,
	clk clock.Clock,
	config *config.Configuration,
	logger *zap.Logger,
) *APIKeyService {
	return &APIKeyService{
		trace:  trace,
		store:  store,
		clock:  clk,
		config: config,
		logger: logger,
	}
}

func (s *APIKeyService) digest(plaintext string) string {
	return apikey.Digest(plaintext, s.config.App.SecretKey)
}

// Issue 產生新 key 並只保存摘要；寫入失敗時不回傳任何明文
func (s *APIKeyService) Issue(ctx context.Context, clientName, tierName string, expiresAt *time.Time) (_ *IssuedAPIKey, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	meta := core.TraceAPIKeyMeta{Op: "issue", Client: clientName, Tier: tierName}
	defer func() { s.trace.ApplyTraceAttributes(span, meta) }()

	prefix := s.config.Quota.KeyPrefix
	for attempt := 0; attempt < issueAttempts; attempt++ {
		plaintext, err := apikey.Generate(prefix)
		if err != nil {
			return nil, err
		}

		now := s.clock.Now().UTC()
		record := &model.APIKey{
			ID:         primitive.NewObjectID(),
			KeyDigest:  s.digest(plaintext),
			KeyPrefix:  apikey.DisplayPrefix(plaintext, prefix),
			ClientName: strings.TrimSpace(clientName),
			Tier:       strings.TrimSpace(tierName),
			IsActive:   true,
			CreatedAt:  now,
			ExpiresAt:  expiresAt,
			UpdatedAt:  now,
		}

		created, err := s.store.Create(ctx, record)
		if errors.Is(err, core.ErrDuplicateRecord) {
			continue
		}
		if err != nil {
			meta.Status = "storage_error"
			return nil, storageError("create api key", err)
		}

		meta.APIKeyID, meta.KeyPrefix, meta.Status = created.ID.Hex(), created.KeyPrefix, "issued"
		s.logger.Info("api key issued",
			zap.String("apiKeyId", created.ID.Hex()),
			zap.String("keyPrefix", created.KeyPrefix),
			zap.String("client", created.ClientName),
			zap.String("tier", created.Tier),
		)
		return &IssuedAPIKey{Plaintext: plaintext, Record: created}, nil
	}
	meta.Status = "digest_collision"
	return nil, storageError("create api key", core.ErrDuplicateRecord)
}

// Validate 未知、停用、過期一律回傳 ErrInvalidCredential，不區分原因
func (s *APIKeyService) Validate(ctx context.Context, plaintext string) (_ *model.APIKey, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	meta := core.TraceAPIKeyMeta{Op: "validate"}
	defer func() { s.trace.ApplyTraceAttributes(span, meta) }()

	if plaintext == "" {
		return nil, ErrInvalidCredential
	}

	record, err := s.store.GetByDigest(ctx, s.digest(plaintext))
	if isNotFound(err) {
		return nil, ErrInvalidCredential
	}
	if err != nil {
		meta.Status = "storage_error"
		return nil, storageError("lookup api key", err)
	}

	meta.Found, meta.APIKeyID, meta.KeyPrefix = true, record.ID.Hex(), record.KeyPrefix
	if !record.Usable(s.clock.Now()) {
		meta.Status = "rejected"
		return nil, ErrInvalidCredential
	}
	meta.Tier, meta.Status = record.Tier, "valid"
	return record, nil
}

// Revoke 重複撤銷視為成功
func (s *APIKeyService) Revoke(ctx context.Context, apiKeyID primitive.ObjectID) (returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()
	s.trace.ApplyTraceAttributes(span, core.TraceAPIKeyMeta{Op: "revoke", APIKeyID: apiKeyID.Hex()})

	err := s.store.Deactivate(ctx, apiKeyID)
	if isNotFound(err) {
		return ErrAPIKeyNotFound
	}
	if err != nil {
		return storageError("revoke api key", err)
	}
	s.logger.Info("api key revoked", zap.String("apiKeyId", apiKeyID.Hex()))
	return nil
}

// GetByID 管理用；不檢查啟用狀態
func (s *APIKeyService) GetByID(ctx context.Context, apiKeyID primitive.ObjectID) (_ *model.APIKey, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()
	s.trace.ApplyTraceAttributes(span, core.TraceAPIKeyMeta{Op: "get", APIKeyID: apiKeyID.Hex()})

	record, err := s.store.GetByID(ctx, apiKeyID)
	if isNotFound(err) {
		return nil, ErrAPIKeyNotFound
	}
	if err != nil {
		return nil, storageError("get api key", err)
	}
	return record, nil
}
