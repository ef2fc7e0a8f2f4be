package model

// UsageFailureLog 用量寫入失敗；請求已放行，僅留存供對帳
type UsageFailureLog struct {
	APIKeyID     string `bson:"api_key_id" json:"api_key_id"`
	Endpoint     string `bson:"endpoint" json:"endpoint"`
	StatusCode   int    `bson:"status_code" json:"status_code"`
	BillingMonth string `bson:"billing_month" json:"billing_month"`
	Stage        string `bson:"stage" json:"stage"` // log / summary
	Error        string `bson:"error" json:"error"`
	ProjectName  string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Version      string `bson:"version" json:"version"`
	OccurredAt   string `bson:"occurred_at" json:"occurred_at"`
	LoggedAt     string `bson:"logged_at" json:"logged_at"`
}
