package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIUsage 每次呼叫一筆，只新增不修改
type APIUsage struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	APIKeyID       primitive.ObjectID `json:"apiKeyID" bson:"apiKeyID"`
	Endpoint       string             `json:"endpoint" bson:"endpoint"`
	ResponseStatus int                `json:"responseStatus" bson:"responseStatus"`
	BillingMonth   string             `json:"billingMonth" bson:"billingMonth"`
	Timestamp      time.Time          `json:"timestamp" bson:"timestamp"`
}
