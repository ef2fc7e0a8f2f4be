package core

import "go.mongodb.org/mongo-driver/bson"

// ─── Database Types ────────────────────────────────────────────────────────────

// DatabaseType defines the type of database
type DatabaseType string

const (
	Mongo   DatabaseType = "mongo"
	Redis   DatabaseType = "redis"
	Fluentd DatabaseType = "fluentd"
)

type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────

// MongoDB collections
const (
	MongoCollectionAPIKeys             MongoCollection = "api_keys"
	MongoCollectionBillingTiers        MongoCollection = "billing_tiers"
	MongoCollectionAPIUsage            MongoCollection = "api_usage"
	MongoCollectionMonthlyUsageSummary MongoCollection = "monthly_usage_summary"
	MongoCollectionCNProducts          MongoCollection = "cn_products"
	MongoCollectionCNServings          MongoCollection = "cn_servings"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyServerName RedisKey = "cnapi"        // 伺服器名稱
	RedisKeyTierPolicy RedisKey = "billing_tier" // tier 快取
)

// ─── Fluentd ───────────────────────────────────────────────────────────────────

const (
	FluentdRequest      FluentdSubTag = "request_log"
	FluentdResponse     FluentdSubTag = "response_log"
	FluentdUsageFailure FluentdSubTag = "usage_failure"
)

type ListOptions struct {
	Filter bson.M `json:"filter,omitempty" bson:"filter,omitempty"`
	Limit  int64  `json:"limit,omitempty" bson:"limit,omitempty"`
	Offset int64  `json:"offset,omitempty" bson:"offset,omitempty"`
}
