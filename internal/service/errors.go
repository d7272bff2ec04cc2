package service

import (
	"errors"
	"net/http"
	"strings"
)

// Error 规则层统一错误：Status 对应 HTTP 语义，Err 保留底层原因（不对外）
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "service error"
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &Error{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Status: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Status: http.StatusConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &Error{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

func AsError(err error) (*Error, bool) {
	var se *Error
	ok := errors.As(err, &se)
	return se, ok
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
