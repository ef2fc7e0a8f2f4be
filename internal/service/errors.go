package service

import (
	"errors"
	"fmt"

	"cnapi/internal/core"
)

var (
	ErrMissingCredential  = errors.New("missing credential")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrTierNotFound       = errors.New("billing tier not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrLoggingFailure     = errors.New("usage logging failure")

	ErrAPIKeyNotFound  = errors.New("api key not found")
	ErrProductNotFound = errors.New("product not found")
)

// storageError 非預期的儲存層錯誤一律歸類為 ErrStorageUnavailable
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrRecordNotFound)
}

// UsageRecordError 用量寫入失敗；Stage 為 log / summary / log+summary
type UsageRecordError struct {
	Stage string
	Err   error
}

func (e *UsageRecordError) Error() string {
	return fmt.Sprintf("usage record failed (%s): %v", e.Stage, e.Err)
}

func (e *UsageRecordError) Unwrap() []error {
	return []error{ErrLoggingFailure, e.Err}
}
