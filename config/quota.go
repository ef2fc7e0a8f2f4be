package config

import (
	"fmt"
	"time"

	// 容器映像常缺 zoneinfo，內嵌一份讓 IANA 時區一定可解析
	_ "time/tzdata"
)

const (
	defaultAdminTokenTTL      = 24 * time.Hour
	DefaultMonthlyCallLimit   = 1000
	defaultKeyPrefix          = "cn_live_"
	defaultCheckTimeout       = 3 * time.Second
	defaultRecordTimeout      = 10 * time.Second
	defaultFallbackRetries    = 5
	defaultRecorderBuffer     = 256
	defaultTierRefreshSpec    = "0 */5 * * * *"
	defaultBillingTimezoneUTC = "UTC"
)

// Quota 計量與配額相關設定
type Quota struct {
	// tier 不存在或額度 <= 0 時使用的每月上限
	DefaultMonthlyLimit int64 `mapstructure:"DEFAULT_MONTHLY_LIMIT" json:"defaultMonthlyLimit" yaml:"defaultMonthlyLimit"`
	// 產生 API Key 的前綴
	KeyPrefix string `mapstructure:"KEY_PREFIX" json:"keyPrefix" yaml:"keyPrefix"`
	// 計費月份所使用的時區（IANA 名稱）
	Timezone string `mapstructure:"TIMEZONE" json:"timezone" yaml:"timezone"`
	// 驗證 + 配額檢查的上限時間
	CheckTimeout time.Duration `mapstructure:"CHECK_TIMEOUT" json:"checkTimeout" yaml:"checkTimeout"`
	// 背景寫入用量的上限時間
	RecordTimeout time.Duration `mapstructure:"RECORD_TIMEOUT" json:"recordTimeout" yaml:"recordTimeout"`
	// 非原子 fallback 路徑的重試次數
	FallbackRetries int `mapstructure:"FALLBACK_RETRIES" json:"fallbackRetries" yaml:"fallbackRetries"`
	// 用量錯誤通道的緩衝大小
	RecorderBuffer int `mapstructure:"RECORDER_BUFFER" json:"recorderBuffer" yaml:"recorderBuffer"`
	// tier 快取預熱排程（秒級 cron）
	TierRefreshSpec string `mapstructure:"TIER_REFRESH_SPEC" json:"tierRefreshSpec" yaml:"tierRefreshSpec"`
}

func (q *Quota) normalize() {
	if q.DefaultMonthlyLimit <= 0 {
		q.DefaultMonthlyLimit = DefaultMonthlyCallLimit
	}
	if q.KeyPrefix == "" {
		q.KeyPrefix = defaultKeyPrefix
	}
	if q.Timezone == "" {
		q.Timezone = defaultBillingTimezoneUTC
	}
	if q.CheckTimeout <= 0 {
		q.CheckTimeout = defaultCheckTimeout
	}
	if q.RecordTimeout <= 0 {
		q.RecordTimeout = defaultRecordTimeout
	}
	if q.FallbackRetries <= 0 {
		q.FallbackRetries = defaultFallbackRetries
	}
	if q.RecorderBuffer <= 0 {
		q.RecorderBuffer = defaultRecorderBuffer
	}
	if q.TierRefreshSpec == "" {
		q.TierRefreshSpec = defaultTierRefreshSpec
	}
}

func (q Quota) validate() error {
	if q.Timezone == "" {
		return nil
	}
	if _, err := time.LoadLocation(q.Timezone); err != nil {
		return fmt.Errorf("invalid QUOTA__TIMEZONE %q: %w", q.Timezone, err)
	}
	return nil
}

// Location 計費時區；Validate 通過後不會走到 UTC 回退
func (q Quota) Location() *time.Location {
	if q.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
