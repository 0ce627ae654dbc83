package common

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation   Code = "validation"
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeRateLimited  Code = "rate_limited"
	CodeInternal     Code = "internal"
)

// Error is the coded error shared by services, repositories and handlers.
// Message and Fields are safe to show to clients; Err is not.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Details string
	Err     error
}

func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails attaches a client-visible explanation, e.g. a parser message.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

func Is(err error, code Code) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Code == code
	}
	return false
}

func CodeOf(err error) Code {
	var target *Error
	if errors.As(err, &target) {
		return target.Code
	}
	return CodeInternal
}
