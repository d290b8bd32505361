package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries a stable user-facing category (as an HTTP-shaped code),
// a human-readable message, the operation that produced it, and the
// underlying cause for diagnostics.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// InvalidInput: malformed or wrong-length identifier, bad parameters.
func InvalidInput(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Op: op, Err: err}
}

// NotAvailable: no captions exist, or the video is gone.
func NotAvailable(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Op: op, Err: err}
}

// AccessDenied: private, members-only, or age-restricted video.
func AccessDenied(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Op: op, Err: err}
}

// RateLimited: the upstream blocked the request or the requesting IP.
func RateLimited(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusTooManyRequests, Message: message, Op: op, Err: err}
}

// Internal: anything else; the cause is kept as a diagnostic suffix.
func Internal(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Op: op, Err: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool {
	return errors.As(err, target)
}

func is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsInvalidInput(err error) bool { return is(err, http.StatusBadRequest) }
func IsNotAvailable(err error) bool { return is(err, http.StatusNotFound) }
func IsAccessDenied(err error) bool { return is(err, http.StatusForbidden) }
func IsRateLimited(err error) bool  { return is(err, http.StatusTooManyRequests) }
func IsInternal(err error) bool     { return is(err, http.StatusInternalServerError) }

// Code returns the HTTP status for err, defaulting to 500 for errors that
// did not come out of this package.
func Code(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
