package repository

import (
	"context"
	"regexp"
	"strings"

	"cnapi/internal/core"
	client "cnapi/internal/database/client"
	"cnapi/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository CN 產品與份量資料（唯讀）
type ProductRepository struct {
	products *mongo.Collection
	servings *mongo.Collection
}

func NewProductRepository(mongoClient *client.MongoClient) (*ProductRepository, error) {
	database := mongoClient.Database()
	repository := newProductRepository(
		database.Collection(string(core.MongoCollectionCNProducts)),
		database.Collection(string(core.MongoCollectionCNServings)),
	)
	if err := createIndexes(repository.products, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cnNumber", Value: 1}},
			Options: options.Index().SetName("uniq_cnNumber").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "productName", Value: "text"},
				{Key: "manufacturer", Value: "text"},
			},
			Options: options.Index().SetName("text_productName_manufacturer"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	}); err != nil {
		return nil, err
	}
	if err := createIndexes(repository.servings, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "cnNumber", Value: 1},
				{Key: "sequenceNum", Value: 1},
			},
			Options: options.Index().SetName("idx_cnNumber_sequenceNum"),
		},
	}); err != nil {
		return nil, err
	}
	return repository, nil
}

func newProductRepository(products, servings *mongo.Collection) *ProductRepository {
	return &ProductRepository{products: products, servings: servings}
}

// productFilter Query 使用全文索引；Category 完全比對，Manufacturer 不分大小寫部分比對
func productFilter(query core.ProductQuery) bson.M {
	filter := bson.M{}
	if q := strings.TrimSpace(query.Query); q != "" {
		filter["$text"] = bson.M{"$search": q}
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		filter["category"] = category
	}
	if manufacturer := strings.TrimSpace(query.Manufacturer); manufacturer != "" {
		filter["manufacturer"] = bson.M{"$regex": regexp.QuoteMeta(manufacturer), "$options": "i"}
	}
	return filter
}

// List 分頁查詢，回傳當頁資料與總筆數
func (repository *ProductRepository) List(contextValue context.Context, query core.ProductQuery) (_ []*model.CNProduct, total int64, returnedError error) {
	filter := productFilter(query)

	total, countError := repository.products.CountDocuments(contextValue, filter)
	if countError != nil {
		return nil, 0, mapError(countError)
	}

	findOptions := options.Find().
		SetSkip(query.Offset).
		SetLimit(query.Limit)
	if _, ok := filter["$text"]; ok {
		findOptions.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
		findOptions.SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}, {Key: "productName", Value: 1}})
	} else {
		findOptions.SetSort(bson.D{{Key: "productName", Value: 1}})
	}

	cursor, findError := repository.products.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, 0, mapError(findError)
	}
	defer cursor.Close(contextValue)

	results := make([]*model.CNProduct, 0)
	if decodeError := cursor.All(contextValue, &results); decodeError != nil {
		return nil, 0, mapError(decodeError)
	}
	return results, total, nil
}

// GetByCNNumber 不存在時回傳 core.ErrRecordNotFound
func (repository *ProductRepository) GetByCNNumber(contextValue context.Context, cnNumber string) (_ *model.CNProduct, returnedError error) {
	var product model.CNProduct
	if returnedError = repository.products.FindOne(contextValue, bson.M{"cnNumber": cnNumber}).Decode(&product); returnedError != nil {
		return nil, mapError(returnedError)
	}
	return &product, nil
}

// ListServings 依序號排序
func (repository *ProductRepository) ListServings(contextValue context.Context, cnNumber string) (_ []*model.CNServing, returnedError error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sequenceNum", Value: 1}})
	cursor, findError := repository.servings.Find(contextValue, bson.M{"cnNumber": cnNumber}, findOptions)
	if findError != nil {
		return nil, mapError(findError)
	}
	defer cursor.Close(contextValue)

	results := make([]*model.CNServing, 0)
	if decodeError := cursor.All(contextValue, &results); decodeError != nil {
		return nil, mapError(decodeError)
	}
	return results, nil
}
