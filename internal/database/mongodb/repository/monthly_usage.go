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

// MonthlyUsageRepository 每把 key 每個計費月份一筆彙總
type MonthlyUsageRepository struct {
	collection *mongo.Collection
}

func NewMonthlyUsageRepository(mongoClient *client.MongoClient) (*MonthlyUsageRepository, error) {
	repository := newMonthlyUsageRepository(mongoClient.Database().Collection(string(core.MongoCollectionMonthlyUsageSummary)))
	if err := createIndexes(repository.collection, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "apiKeyID", Value: 1},
				{Key: "billingMonth", Value: 1},
			},
			Options: options.Index().SetName("uniq_apiKeyID_billingMonth").SetUnique(true),
		},
	}); err != nil {
		return nil, err
	}
	return repository, nil
}

func newMonthlyUsageRepository(collection *mongo.Collection) *MonthlyUsageRepository {
	return &MonthlyUsageRepository{collection: collection}
}

func summaryFilter(apiKeyIdentifier primitive.ObjectID, billingMonth string) bson.M {
	return bson.M{"apiKeyID": apiKeyIdentifier, "billingMonth": billingMonth}
}

// Increment 單一 findAndModify upsert：不存在則建立為 1，否則 +1，回傳更新後的值。
// 兩個請求同時 upsert 新月份時其中一個會撞唯一索引，再試一次即會走到更新分支。
func (repository *MonthlyUsageRepository) Increment(contextValue context.Context, apiKeyIdentifier primitive.ObjectID, billingMonth string, at time.Time) (_ *model.MonthlyUsageSummary, returnedError error) {
	update := bson.M{
		"$inc": bson.M{"totalCalls": int64(1)},
		"$set": bson.M{"lastUpdated": at},
		"$setOnInsert": bson.M{
			"apiKeyID":     apiKeyIdentifier,
			"billingMonth": billingMonth,
		},
	}
	updateOptions := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var summary model.MonthlyUsageSummary
	for attempt := 0; attempt < 2; attempt++ {
		returnedError = repository.collection.FindOneAndUpdate(contextValue, summaryFilter(apiKeyIdentifier, billingMonth), update, updateOptions).Decode(&summary)
		if returnedError == nil {
			return &summary, nil
		}
		if !mongo.IsDuplicateKeyError(returnedError) {
			break
		}
	}
	if isUnsupportedCommand(returnedError) {
		return nil, core.ErrAtomicUnsupported
	}
	return nil, mapError(returnedError)
}

// Get 沒有紀錄時回傳 core.ErrRecordNotFound
func (repository *MonthlyUsageRepository) Get(contextValue context.Context, apiKeyIdentifier primitive.ObjectID, billingMonth string) (_ *model.MonthlyUsageSummary, returnedError error) {
	var summary model.MonthlyUsageSummary
	if returnedError = repository.collection.FindOne(contextValue, summaryFilter(apiKeyIdentifier, billingMonth)).Decode(&summary); returnedError != nil {
		return nil, mapError(returnedError)
	}
	return &summary, nil
}

// ListRecent 依月份新到舊取最多 limit 筆
func (repository *MonthlyUsageRepository) ListRecent(contextValue context.Context, apiKeyIdentifier primitive.ObjectID, limit int64) (_ []*model.MonthlyUsageSummary, returnedError error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "billingMonth", Value: -1}}).
		SetLimit(limit)
	cursor, findError := repository.collection.Find(contextValue, bson.M{"apiKeyID": apiKeyIdentifier}, findOptions)
	if findError != nil {
		return nil, mapError(findError)
	}
	defer cursor.Close(contextValue)

	results := make([]*model.MonthlyUsageSummary, 0)
	if decodeError := cursor.All(contextValue, &results); decodeError != nil {
		return nil, mapError(decodeError)
	}
	return results, nil
}

// InsertFirst fallback 路徑：建立當月第一筆；已存在時回傳 core.ErrDuplicateRecord
func (repository *MonthlyUsageRepository) InsertFirst(contextValue context.Context, apiKeyIdentifier primitive.ObjectID, billingMonth string, at time.Time) (returnedError error) {
	summary := model.MonthlyUsageSummary{
		ID:           primitive.NewObjectID(),
		APIKeyID:     apiKeyIdentifier,
		BillingMonth: billingMonth,
		TotalCalls:   1,
		LastUpdated:  at,
	}
	if _, insertError := repository.collection.InsertOne(contextValue, summary); insertError != nil {
		return mapError(insertError)
	}
	return nil
}

// CompareAndSet fallback 路徑：只在 totalCalls 仍為 observed 時寫入 next，回傳是否成功
func (repository *MonthlyUsageRepository) CompareAndSet(contextValue context.Context, apiKeyIdentifier primitive.ObjectID, billingMonth string, observed, next int64, at time.Time) (swapped bool, returnedError error) {
	filter := summaryFilter(apiKeyIdentifier, billingMonth)
	filter["totalCalls"] = observed
	update := bson.M{"$set": bson.M{"totalCalls": next, "lastUpdated": at}}

	updateResult, updateError := repository.collection.UpdateOne(contextValue, filter, update)
	if updateError != nil {
		return false, mapError(updateError)
	}
	return updateResult.MatchedCount == 1, nil
}
