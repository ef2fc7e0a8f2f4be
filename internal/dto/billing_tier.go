package dto

import "time"

// 建立或覆寫方案；方案名稱取自路徑
type UpsertBillingTierDto struct {
	MonthlyCallLimit int64   `json:"monthlyCallLimit" binding:"gte=0"` // 0 代表使用預設額度
	PriceMonthly     float64 `json:"priceMonthly" binding:"gte=0"`
	Description      string  `json:"description,omitempty" binding:"omitempty,max=500"`
}

type BillingTierResponseDto struct {
	Name             string    `json:"name"`
	MonthlyCallLimit int64     `json:"monthlyCallLimit"`
	PriceMonthly     float64   `json:"priceMonthly"`
	Description      string    `json:"description,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt,omitempty"`
}
