package common

import (
	"errors"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID，作為缺少 X-Request-ID 時的請求 ID
func GenerateUUID() string {
	return uuid.New().String()
}

// NewErrorResponse 將錯誤轉為 HTTP 狀態碼與錯誤響應
//
// 驗證錯誤直接回傳原訊息；服務錯誤只在 debug 時附上原始錯誤。
func NewErrorResponse(err error, debug bool) (int, ErrorResponse) {
	status, code := HTTPStatus(err)
	resp := ErrorResponse{Code: code}

	if IsValidationError(err) {
		resp.Message = err.Error()
		return status, resp
	}

	var ce *CustomError
	if errors.As(err, &ce) {
		resp.Message = ce.Message
	} else {
		resp.Message = ErrInternalError.Message
	}
	if debug {
		resp.Details = err.Error()
	}
	return status, resp
}
