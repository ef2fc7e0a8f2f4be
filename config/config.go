package config

type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Redis     Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	MongoDB   MongoDB         `mapstructure:"MONGODB" json:"mongodb" yaml:"mongodb"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
	Quota     Quota           `mapstructure:"QUOTA" json:"quota" yaml:"quota"`
}

// Normalize 補齊未設定的欄位，讓零值設定也能直接啟動（測試亦依賴此行為）
func (c *Configuration) Normalize() *Configuration {
	if c.App.Name == "" {
		c.App.Name = "cnapi"
	}
	if c.App.Port == 0 {
		c.App.Port = 3000
	}
	if c.App.AdminTokenTTL <= 0 {
		c.App.AdminTokenTTL = defaultAdminTokenTTL
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = defaultMongoDatabase
	}
	if c.Redis.TierCacheTTL <= 0 {
		c.Redis.TierCacheTTL = defaultTierCacheTTL
	}
	c.Quota.normalize()
	return c
}

// Validate 檢查 Normalize 無法補救的設定；啟動與熱更新時呼叫
func (c *Configuration) Validate() error {
	return c.Quota.validate()
}
