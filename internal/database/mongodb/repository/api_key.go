package repository

import (
	"context"
	"time"

	"cnapi/internal/core"
	client "cnapi/internal/database/client"
	"cnapi/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type APIKeyRepository struct {
	collection *mongo.Collection
}

func NewAPIKeyRepository(mongoClient *client.MongoClient) (*APIKeyRepository, error) {
	repository := newAPIKeyRepository(mongoClient.Database().Collection(string(core.MongoCollectionAPIKeys)))
	if err := createIndexes(repository.collection, repository.indexes()); err != nil {
		return nil, err
	}
	return repository, nil
}

func newAPIKeyRepository(collection *mongo.Collection) *APIKeyRepository {
	return &APIKeyRepository{collection: collection}
}

// 1) keyDigest 唯一：驗證以摘要查找
// 2) clientName 方便營運查詢
func (repository *APIKeyRepository) indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "keyDigest", Value: 1}},
			Options: options.Index().SetName("uniq_keyDigest").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "clientName", Value: 1}},
			Options: options.Index().SetName("idx_clientName"),
		},
	}
}

// Create 新增一筆 API Key；ID 與時間未設定時自動補上
func (repository *APIKeyRepository) Create(contextValue context.Context, apiKey *model.APIKey) (_ *model.APIKey, returnedError error) {
	if apiKey.ID.IsZero() {
		apiKey.ID = primitive.NewObjectID()
	}
	if apiKey.CreatedAt.IsZero() {
		apiKey.CreatedAt = time.Now().UTC()
	}
	if apiKey.UpdatedAt.IsZero() {
		apiKey.UpdatedAt = apiKey.CreatedAt
	}

	if _, insertError := repository.collection.InsertOne(contextValue, apiKey); insertError != nil {
		return nil, mapError(insertError)
	}
	return apiKey, nil
}

// GetByID 依 ID 取得單一 API Key
func (repository *APIKeyRepository) GetByID(contextValue context.Context, apiKeyIdentifier primitive.ObjectID) (_ *model.APIKey, returnedError error) {
	var apiKey model.APIKey
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": apiKeyIdentifier}).Decode(&apiKey); returnedError != nil {
		return nil, mapError(returnedError)
	}
	return &apiKey, nil
}

// GetByDigest 驗證用；不過濾啟用狀態，由呼叫端判斷
func (repository *APIKeyRepository) GetByDigest(contextValue context.Context, keyDigest string) (_ *model.APIKey, returnedError error) {
	var apiKey model.APIKey
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"keyDigest": keyDigest}).Decode(&apiKey); returnedError != nil {
		return nil, mapError(returnedError)
	}
	return &apiKey, nil
}

// Deactivate 撤銷；重複撤銷不報錯
func (repository *APIKeyRepository) Deactivate(contextValue context.Context, apiKeyIdentifier primitive.ObjectID) (returnedError error) {
	update := withUpdatedAt(bson.M{"$set": bson.M{"isActive": false}})
	updateResult, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": apiKeyIdentifier}, update)
	if updateError != nil {
		return mapError(updateError)
	}
	if updateResult.MatchedCount == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}
