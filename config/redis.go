package config

import "time"

const defaultTierCacheTTL = 5 * time.Minute

type Redis struct {
	// 關閉時 tier 快取直接穿透到 MongoDB
	Enabled  bool   `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port     int    `mapstructure:"PORT" json:"port" yaml:"port"`
	Password string `mapstructure:"PASSWORD" json:"password" yaml:"password"`
	DB       int    `mapstructure:"DB" json:"db" yaml:"db"`

	TierCacheTTL time.Duration `mapstructure:"TIER_CACHE_TTL" json:"tierCacheTTL" yaml:"tierCacheTTL"`
}
