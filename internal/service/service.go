package service

import (
	client "cnapi/internal/database/client"
	mongoRepo "cnapi/internal/database/mongodb/repository"
	redisRepo "cnapi/internal/database/redis/repository"
	"cnapi/utils/clock"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	clock.ProvideClock,
	NewAPIKeyService,
	NewBillingTierService,
	NewUsageService,
	NewQuotaService,
	NewObservedFailureSink,
	NewUsageRecorder,
	NewGatewayService,
	NewProductService,
	NewReportService,
	ProvideHealthService,
	wire.Bind(new(APIKeyStore), new(*mongoRepo.APIKeyRepository)),
	wire.Bind(new(BillingTierStore), new(*mongoRepo.BillingTierRepository)),
	wire.Bind(new(UsageLogStore), new(*mongoRepo.UsageLogRepository)),
	wire.Bind(new(UsageSummaryStore), new(*mongoRepo.MonthlyUsageRepository)),
	wire.Bind(new(ProductStore), new(*mongoRepo.ProductRepository)),
	wire.Bind(new(TierCache), new(*redisRepo.TierCacheRepository)),
	wire.Bind(new(UsageFailureSink), new(*ObservedFailureSink)),
)

// CommandProviderSet CLI 只需要的部分（不啟動背景 recorder）
var CommandProviderSet = wire.NewSet(
	clock.ProvideClock,
	NewAPIKeyService,
	NewBillingTierService,
	NewUsageService,
	NewReportService,
	wire.Bind(new(APIKeyStore), new(*mongoRepo.APIKeyRepository)),
	wire.Bind(new(BillingTierStore), new(*mongoRepo.BillingTierRepository)),
	wire.Bind(new(UsageLogStore), new(*mongoRepo.UsageLogRepository)),
	wire.Bind(new(UsageSummaryStore), new(*mongoRepo.MonthlyUsageRepository)),
	wire.Bind(new(TierCache), new(*redisRepo.TierCacheRepository)),
)

// ProvideHealthService readiness 包含 MongoDB ping
func ProvideHealthService(mongoClient *client.MongoClient) *HealthService {
	health := NewHealthService()
	health.AddCheck("mongodb", mongoClient.Ping)
	return health
}
