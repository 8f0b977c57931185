package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error code carried in the response envelope.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeDatabase   Code = "DATABASE_ERROR"
	CodeConnection Code = "CONNECTION_ERROR"
	CodeInternal   Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation: http.StatusBadRequest,
	CodeNotFound:   http.StatusNotFound,
	CodeDatabase:   http.StatusInternalServerError,
	CodeConnection: http.StatusServiceUnavailable,
	CodeInternal:   http.StatusInternalServerError,
}

// HTTPStatus returns the fixed status for the code. Unknown codes map to 500.
func (c Code) HTTPStatus() int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is the single error type crossing the repository/handler boundary.
// Message is safe to show to clients; Err holds the underlying cause and is
// only ever logged.
type Error struct {
	Code    Code
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on code so sentinel values like ErrProjectNotFound compare
// equal to any error carrying the same code and message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Database(message string, err error) *Error {
	return &Error{Code: CodeDatabase, Message: message, Err: err}
}

func Connection(message string, err error) *Error {
	return &Error{Code: CodeConnection, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// From classifies err. Typed errors are returned as-is; anything else is a
// storage failure reported with fallback as its client message.
func From(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Database(fallback, err)
}

func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

func hasCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
