// Package apperr はusecaseからhandlerへ返すエラーの型。
// handlerはStatus/Code/Message/Fieldsをそのままレスポンスにする。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "AUTHENTICATION_FAILED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeEmptyCart       = "EMPTY_CART"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	//項目ごとのエラー（バリデーションのときだけ）
	Fields map[string]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewHTTPError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// errが指定Codeの HTTPError か
func IsCode(err error, code string) bool {
	he, ok := AsHTTPError(err)
	return ok && he.Code == code
}

func Validation(fields map[string]string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "validation error",
		Fields:  fields,
	}
}

// 1項目だけのバリデーションエラー
func InvalidField(field string, reason string) error {
	return Validation(map[string]string{field: reason})
}

func BadRequest(message string) error {
	return NewHTTPError(http.StatusBadRequest, CodeBadRequest, message)
}

func AuthenticationFailed(message string) error {
	return NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) error {
	return NewHTTPError(http.StatusForbidden, CodeForbidden, message)
}

func NotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, CodeNotFound, message)
}

func Conflict(message string) error {
	return NewHTTPError(http.StatusConflict, CodeConflict, message)
}

func EmptyCart() error {
	return NewHTTPError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
}

func TooManyRequests() error {
	return NewHTTPError(http.StatusTooManyRequests, CodeTooManyRequests, "too many requests")
}

func Internal() error {
	return NewHTTPError(http.StatusInternalServerError, CodeInternal, "internal error")
}

// レスポンスのJSON
type Body struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *HTTPError) Body() Body {
	return Body{Error: e.Code, Message: e.Message, Fields: e.Fields}
}
