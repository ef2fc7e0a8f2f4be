package dto

import "time"

type CurrentMonthUsageDto struct {
	Period      string  `json:"period"`
	Usage       int64   `json:"usage"`
	Limit       int64   `json:"limit"` // 方案不存在時為 0
	Remaining   int64   `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"` // 四捨五入到小數第二位
}

type MonthlyUsageDto struct {
	BillingMonth string    `json:"billingMonth"`
	TotalCalls   int64     `json:"totalCalls"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// UsageReportDto 管理端用量報表
type UsageReportDto struct {
	APIKey       *APIKeyResponseDto      `json:"apiKey"`
	CurrentMonth CurrentMonthUsageDto    `json:"currentMonth"`
	Tier         *BillingTierResponseDto `json:"tier"`
	History      []MonthlyUsageDto       `json:"history"`
}
