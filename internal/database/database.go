package database

import (
	client "cnapi/internal/database/client"
	fluentdRepo "cnapi/internal/database/fluentd/repository"
	mongoRepo "cnapi/internal/database/mongodb/repository"
	redisRepo "cnapi/internal/database/redis/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client 與 repository 的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)
