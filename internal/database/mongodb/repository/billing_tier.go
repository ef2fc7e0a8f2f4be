package repository

import (
	"context"
	"time"

	"cnapi/internal/core"
	client "cnapi/internal/database/client"
	"cnapi/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BillingTierRepository struct {
	collection *mongo.Collection
}

func NewBillingTierRepository(mongoClient *client.MongoClient) (*BillingTierRepository, error) {
	repository := newBillingTierRepository(mongoClient.Database().Collection(string(core.MongoCollectionBillingTiers)))
	if err := createIndexes(repository.collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tierName", Value: 1}},
			Options: options.Index().SetName("uniq_tierName").SetUnique(true),
		},
	}); err != nil {
		return nil, err
	}
	return repository, nil
}

func newBillingTierRepository(collection *mongo.Collection) *BillingTierRepository {
	return &BillingTierRepository{collection: collection}
}

// GetByName 依方案名稱查詢
func (repository *BillingTierRepository) GetByName(contextValue context.Context, tierName string) (_ *model.BillingTier, returnedError error) {
	var tier model.BillingTier
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"tierName": tierName}).Decode(&tier); returnedError != nil {
		return nil, mapError(returnedError)
	}
	return &tier, nil
}

// List 依月額度由小到大
func (repository *BillingTierRepository) List(contextValue context.Context) (_ []*model.BillingTier, returnedError error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "monthlyCallLimit", Value: 1}, {Key: "tierName", Value: 1}})
	cursor, findError := repository.collection.Find(contextValue, bson.M{}, findOptions)
	if findError != nil {
		return nil, mapError(findError)
	}
	defer cursor.Close(contextValue)

	results := make([]*model.BillingTier, 0)
	if decodeError := cursor.All(contextValue, &results); decodeError != nil {
		return nil, mapError(decodeError)
	}
	return results, nil
}

// Upsert 以 tierName 為鍵建立或覆寫方案內容
func (repository *BillingTierRepository) Upsert(contextValue context.Context, tier *model.BillingTier) (_ *model.BillingTier, returnedError error) {
	nowUTC := time.Now().UTC()
	update := withUpdatedAt(bson.M{
		"$set": bson.M{
			"monthlyCallLimit": tier.MonthlyCallLimit,
			"priceMonthly":     tier.PriceMonthly,
			"description":      tier.Description,
		},
		"$setOnInsert": bson.M{
			"tierName":  tier.TierName,
			"createdAt": nowUTC,
		},
	})
	updateOptions := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var updated model.BillingTier
	if returnedError = repository.collection.FindOneAndUpdate(contextValue, bson.M{"tierName": tier.TierName}, update, updateOptions).Decode(&updated); returnedError != nil {
		return nil, mapError(returnedError)
	}
	return &updated, nil
}

// InsertIfAbsent 只在方案不存在時寫入（預設方案種子用），回傳是否新增
func (repository *BillingTierRepository) InsertIfAbsent(contextValue context.Context, tier *model.BillingTier) (inserted bool, returnedError error) {
	nowUTC := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"tierName":         tier.TierName,
			"monthlyCallLimit": tier.MonthlyCallLimit,
			"priceMonthly":     tier.PriceMonthly,
			"description":      tier.Description,
			"createdAt":        nowUTC,
			"updatedAt":        nowUTC,
		},
	}
	updateResult, updateError := repository.collection.UpdateOne(contextValue, bson.M{"tierName": tier.TierName}, update, options.Update().SetUpsert(true))
	if updateError != nil {
		return false, mapError(updateError)
	}
	return updateResult.UpsertedCount > 0, nil
}
