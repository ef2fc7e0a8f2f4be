package dto

import (
	"cnapi/internal/pkg/request"
	"time"
)

// 發行 API Key
type CreateAPIKeyDto struct {
	ClientName string     `json:"clientName" binding:"required,max=200"` // 客戶名稱
	Tier       string     `json:"tier" binding:"required,max=64"`        // 方案名稱（不存在時使用預設額度）
	ExpiresAt  *time.Time `json:"expiresAt,omitempty" binding:"omitempty"`
}

func (CreateAPIKeyDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"ClientName.required": "clientName is required",
		"ClientName.max":      "clientName must be at most 200 characters",
		"Tier.required":       "tier is required",
		"Tier.max":            "tier must be at most 64 characters",
	}
}

type APIKeyResponseDto struct {
	ID         string     `json:"id"`
	KeyPrefix  string     `json:"keyPrefix,omitempty"`
	ClientName string     `json:"clientName"`
	Tier       string     `json:"tier"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

// IssuedAPIKeyDto apiKey 為明文，只會出現在這一次回應
type IssuedAPIKeyDto struct {
	APIKey string             `json:"apiKey"`
	Record *APIKeyResponseDto `json:"record"`
}
