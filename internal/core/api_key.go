package core

// gin.Context 內共享的鍵
const (
	ContextAPIKeyID   = "apiKeyID"
	ContextTier       = "tier"
	ContextUsage      = "usage"
	ContextPagination = "pagination"
	ContextAdmin      = "adminSubject"
)

// CredentialSource 憑證的來源
type CredentialSource string

const (
	CredentialFromBearer CredentialSource = "bearer"
	CredentialFromHeader CredentialSource = "x-api-key"
	CredentialFromQuery  CredentialSource = "query"
)

// AuthErrorKind 對外可見的驗證結果分類
type AuthErrorKind string

const (
	AuthErrorNone               AuthErrorKind = ""
	AuthErrorMissingCredential  AuthErrorKind = "MissingCredential"
	AuthErrorInvalidCredential  AuthErrorKind = "InvalidCredential"
	AuthErrorQuotaExceeded      AuthErrorKind = "QuotaExceeded"
	AuthErrorStorageUnavailable AuthErrorKind = "StorageUnavailable"
)

type UsageRecordResult string

const (
	UsageRecordOK       UsageRecordResult = "ok"
	UsageRecordFailed   UsageRecordResult = "failed"
	UsageRecordFallback UsageRecordResult = "fallback"
)
