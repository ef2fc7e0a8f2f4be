package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cnapi/internal/core"

	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// 建索引的上限時間
const indexTimeout = 15 * time.Second

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewAPIKeyRepository,
	NewBillingTierRepository,
	NewUsageLogRepository,
	NewMonthlyUsageRepository,
	NewProductRepository,
)

func withUpdatedAt(update bson.M) bson.M {
	// 確保 $currentDate 存在
	currentDate, ok := update["$currentDate"].(bson.M)
	if !ok || currentDate == nil {
		currentDate = bson.M{}
	}
	currentDate["updatedAt"] = true
	update["$currentDate"] = currentDate
	return update
}

// createIndexes 唯一索引是 digest 與 (key, month) 正確性的前提，建立失敗即回傳錯誤
func createIndexes(collection *mongo.Collection, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ensure indexes on %s: %w", collection.Name(), err)
	}
	return nil
}

// mapError 把 driver 錯誤轉成 core 的儲存層錯誤
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return core.ErrRecordNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", core.ErrDuplicateRecord, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
	}
	return err
}

// 伺服器不支援該指令（例如某些相容層不支援 findAndModify upsert）
var unsupportedCommandCodes = map[int32]struct{}{
	59:  {}, // CommandNotFound
	115: {}, // CommandNotSupported
	263: {}, // OperationNotSupportedInTransaction
}

func isUnsupportedCommand(err error) bool {
	var commandError mongo.CommandError
	if errors.As(err, &commandError) {
		_, ok := unsupportedCommandCodes[commandError.Code]
		return ok
	}
	return false
}
