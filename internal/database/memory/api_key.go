package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type APIKeyStore struct {
	faults
	mu       sync.RWMutex
	byID     map[primitive.ObjectID]model.APIKey
	byDigest map[string]primitive.ObjectID
}

func NewAPIKeyStore() *APIKeyStore {
	return &APIKeyStore{
		byID:     make(map[primitive.ObjectID]model.APIKey),
		byDigest: make(map[string]primitive.ObjectID),
	}
}

func (s *APIKeyStore) Create(_ context.Context, apiKey *model.APIKey) (*model.APIKey, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byDigest[apiKey.KeyDigest]; exists {
		return nil, fmt.Errorf("%w: keyDigest", core.ErrDuplicateRecord)
	}
	if apiKey.ID.IsZero() {
		apiKey.ID = primitive.NewObjectID()
	}
	if apiKey.CreatedAt.IsZero() {
		apiKey.CreatedAt = time.Now().UTC()
	}
	if apiKey.UpdatedAt.IsZero() {
		apiKey.UpdatedAt = apiKey.CreatedAt
	}
	s.byID[apiKey.ID] = *apiKey
	s.byDigest[apiKey.KeyDigest] = apiKey.ID
	return apiKey, nil
}

func (s *APIKeyStore) GetByID(_ context.Context, apiKeyID primitive.ObjectID) (*model.APIKey, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	apiKey, ok := s.byID[apiKeyID]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	return &apiKey, nil
}

func (s *APIKeyStore) GetByDigest(_ context.Context, keyDigest string) (*model.APIKey, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	apiKeyID, ok := s.byDigest[keyDigest]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	apiKey := s.byID[apiKeyID]
	return &apiKey, nil
}

func (s *APIKeyStore) Deactivate(_ context.Context, apiKeyID primitive.ObjectID) error {
	if err := s.fault(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	apiKey, ok := s.byID[apiKeyID]
	if !ok {
		return core.ErrRecordNotFound
	}
	apiKey.IsActive = false
	apiKey.UpdatedAt = time.Now().UTC()
	s.byID[apiKeyID] = apiKey
	return nil
}

// Digests 回傳目前保存的所有摘要（測試確認明文未入庫）
func (s *APIKeyStore) Digests() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	digests := make([]string, 0, len(s.byDigest))
	for digest := range s.byDigest {
		digests = append(digests, digest)
	}
	return digests
}
