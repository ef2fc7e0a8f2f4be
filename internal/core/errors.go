package core

import "errors"

// 儲存層共用錯誤；各 repository（mongo / memory）在邊界轉成這些值
var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateRecord   = errors.New("duplicate record")
	ErrAtomicUnsupported = errors.New("atomic upsert unsupported by backing store")
	ErrStoreUnavailable  = errors.New("backing store unavailable")
)
