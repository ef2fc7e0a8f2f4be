package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MonthlyUsageSummary (apiKeyID, billingMonth) 唯一；totalCalls 是配額判斷的權威值
type MonthlyUsageSummary struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	APIKeyID     primitive.ObjectID `json:"apiKeyID" bson:"apiKeyID"`
	BillingMonth string             `json:"billingMonth" bson:"billingMonth"`
	TotalCalls   int64              `json:"totalCalls" bson:"totalCalls"`
	LastUpdated  time.Time          `json:"lastUpdated" bson:"lastUpdated"`
}
