package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindPermissionDenied
	KindNotFound
	KindAuthenticationFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindAuthenticationFailed:
		return "authentication_failed"
	}
	return "error"
}

// AppError is an expected, caller-facing failure. Anything else is a server fault.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *AppError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s %v", e.Message, e.Fields)
}

func ValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func FieldError(field, msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg, Fields: map[string]string{field: msg}}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func PermissionDenied(msg string) *AppError {
	return &AppError{Kind: KindPermissionDenied, Message: msg}
}

func NotFound(what string) *AppError {
	return &AppError{Kind: KindNotFound, Message: what + " not found"}
}

func AuthFailed(msg string) *AppError {
	return &AppError{Kind: KindAuthenticationFailed, Message: msg}
}

// KindOf extracts the kind of err; record-not-found from gorm counts as NotFound.
func KindOf(err error) (ErrorKind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound, true
	}
	return 0, false
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(what)
	}
	return err
}
