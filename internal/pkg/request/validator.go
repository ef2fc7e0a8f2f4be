package request

import (
	"errors"
	"regexp"

	cErr "cnapi/internal/pkg/error"

	"github.com/go-playground/validator/v10"
)

// Validator DTO 可提供 "Field.tag" -> 訊息 的對照
type Validator interface {
	GetMessages() ValidatorMessages
}

type ValidatorMessages map[string]string

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// GetError 把 binding 錯誤轉成 400；只回第一個欄位錯誤
func GetError(request any, err error) *cErr.Error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		// JSON 格式錯誤、型別不符等
		return cErr.ValidateErr("invalid request body")
	}

	fe := validationErrs[0]
	if v, ok := request.(Validator); ok {
		field := indexPattern.ReplaceAllString(fe.Field(), ".*")
		if message, exist := v.GetMessages()[field+"."+fe.Tag()]; exist {
			return cErr.ValidateErr(message)
		}
	}
	return cErr.ValidateErr(fe.Error())
}
