package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BillingTier struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TierName         string             `json:"tierName" bson:"tierName"`                 // 方案名稱（唯一，開放集合）
	MonthlyCallLimit int64              `json:"monthlyCallLimit" bson:"monthlyCallLimit"` // 每月呼叫上限；<=0 代表使用預設值
	PriceMonthly     float64            `json:"priceMonthly" bson:"priceMonthly"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}
