package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIKey 只保存明文 key 的摘要；明文僅在發行當下回傳一次
type APIKey struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`                                  // API Key 唯一識別碼
	KeyDigest  string             `json:"-" bson:"keyDigest"`                             // 明文 key 的單向摘要（唯一）
	KeyPrefix  string             `json:"keyPrefix,omitempty" bson:"keyPrefix,omitempty"` // 前綴 + 前幾碼，供營運辨識
	ClientName string             `json:"clientName" bson:"clientName"`                   // 所屬客戶
	Tier       string             `json:"tier" bson:"tier"`                               // 計費方案名稱
	IsActive   bool               `json:"isActive" bson:"isActive"`                       // 撤銷後為 false
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`                     // 建立時間
	ExpiresAt  *time.Time         `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"` // 到期時間（可選）
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`                     // 更新時間
}

// Usable 啟用中且未過期
func (k *APIKey) Usable(now time.Time) bool {
	if k == nil || !k.IsActive {
		return false
	}
	if k.ExpiresAt != nil && !now.Before(*k.ExpiresAt) {
		return false
	}
	return true
}
