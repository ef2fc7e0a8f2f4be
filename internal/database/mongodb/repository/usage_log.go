package repository

import (
	"context"

	"cnapi/internal/core"
	client "cnapi/internal/database/client"
	"cnapi/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsageLogRepository 逐筆呼叫紀錄，只新增
type UsageLogRepository struct {
	collection *mongo.Collection
}

func NewUsageLogRepository(mongoClient *client.MongoClient) (*UsageLogRepository, error) {
	repository := newUsageLogRepository(mongoClient.Database().Collection(string(core.MongoCollectionAPIUsage)))
	if err := createIndexes(repository.collection, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "apiKeyID", Value: 1},
				{Key: "billingMonth", Value: 1},
			},
			Options: options.Index().SetName("idx_apiKeyID_billingMonth"),
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_timestamp_desc"),
		},
	}); err != nil {
		return nil, err
	}
	return repository, nil
}

func newUsageLogRepository(collection *mongo.Collection) *UsageLogRepository {
	return &UsageLogRepository{collection: collection}
}

// Append 新增一筆呼叫紀錄
func (repository *UsageLogRepository) Append(contextValue context.Context, usage *model.APIUsage) (returnedError error) {
	if usage.ID.IsZero() {
		usage.ID = primitive.NewObjectID()
	}
	if _, insertError := repository.collection.InsertOne(contextValue, usage); insertError != nil {
		return mapError(insertError)
	}
	return nil
}
