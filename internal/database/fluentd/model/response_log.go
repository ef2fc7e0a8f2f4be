package model

// ResponseLog 與 RequestLog 以 request_id（trace id）對應
type ResponseLog struct {
	RequestID   string `bson:"request_id" json:"request_id"`
	APIKeyID    string `bson:"api_key_id,omitempty" json:"api_key_id,omitempty"`
	Endpoint    string `bson:"endpoint,omitempty" json:"endpoint,omitempty"`
	ProjectName string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Code        int    `bson:"code" json:"code"`
	StatusCode  int    `bson:"status_code" json:"status_code"`
	Body        string `bson:"body,omitempty" json:"body,omitempty"`
	Error       string `bson:"error,omitempty" json:"error,omitempty"`
	Version     string `bson:"version,omitempty" json:"version,omitempty"`
	ResponseTS  string `bson:"response_ts" json:"response_ts"`
	LoggedAt    string `bson:"logged_at" json:"logged_at"`
}
