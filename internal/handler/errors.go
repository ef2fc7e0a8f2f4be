package handler

import (
	"errors"

	cErr "cnapi/internal/pkg/error"
	"cnapi/internal/service"
)

// toResponseError 將 service 層錯誤轉成對外的 *cErr.Error
func toResponseError(err error) *cErr.Error {
	var appErr *cErr.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, service.ErrAPIKeyNotFound):
		return cErr.NotFound("api key not found")
	case errors.Is(err, service.ErrProductNotFound):
		return cErr.NotFound("product not found")
	case errors.Is(err, service.ErrTierNotFound):
		return cErr.NotFound("billing tier not found")
	case errors.Is(err, service.ErrStorageUnavailable):
		return cErr.DatabaseError(err.Error())
	default:
		return cErr.InternalServer(err.Error())
	}
}
