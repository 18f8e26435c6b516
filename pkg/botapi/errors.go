package botapi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies platform error causes for test assertions that should
// not depend on full description text.
type ErrorKind string

const (
	// ErrorKindValidation indicates a malformed or out-of-range request field.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindNotFound indicates a referenced entity does not exist.
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindPermission indicates the bot lacks a required right.
	ErrorKindPermission ErrorKind = "permission"
	// ErrorKindRateLimit indicates a slow-mode or throttle violation.
	ErrorKindRateLimit ErrorKind = "rate_limit"
)

// ResponseParameters carries auxiliary error context as the platform does.
type ResponseParameters struct {
	// RetryAfter is the suggested wait in seconds for rate-limited calls.
	RetryAfter int `json:"retry_after,omitempty"`
	// MigrateToChatID reports a supergroup migration target.
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
}

// Error is the platform-shaped API error envelope.
//
// Description strings follow the platform's phrasing ("Bad Request: ...") so
// bot error-handling code under test exercises its real failure paths.
type Error struct {
	// Kind classifies the failure for machine checks.
	Kind ErrorKind `json:"-"`
	// Code is the platform HTTP-style error code (400 or 429).
	Code int `json:"error_code"`
	// Description is the platform-phrased failure description.
	Description string `json:"description"`
	// Parameters carries optional retry/migration context.
	Parameters *ResponseParameters `json:"parameters,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("telesim: api error %d: %s", e.Code, e.Description)
}

// NewValidationError builds a 400 validation failure.
func NewValidationError(format string, args ...any) *Error {
	return &Error{
		Kind:        ErrorKindValidation,
		Code:        400,
		Description: "Bad Request: " + fmt.Sprintf(format, args...),
	}
}

// NewNotFoundError builds a 400 missing-entity failure.
func NewNotFoundError(what string) *Error {
	return &Error{
		Kind:        ErrorKindNotFound,
		Code:        400,
		Description: "Bad Request: " + what + " not found",
	}
}

// NewPermissionError builds a 400 missing-right failure.
func NewPermissionError(format string, args ...any) *Error {
	return &Error{
		Kind:        ErrorKindPermission,
		Code:        400,
		Description: "Bad Request: " + fmt.Sprintf(format, args...),
	}
}

// NewRateLimitError builds a 429 failure carrying retry_after seconds.
func NewRateLimitError(retryAfterSeconds int) *Error {
	return &Error{
		Kind:        ErrorKindRateLimit,
		Code:        429,
		Description: fmt.Sprintf("Too Many Requests: retry after %d", retryAfterSeconds),
		Parameters:  &ResponseParameters{RetryAfter: retryAfterSeconds},
	}
}

// AsError extracts a platform error from an arbitrary error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// RetryAfter reports the retry delay carried by a rate-limited error chain.
func RetryAfter(err error) (int, bool) {
	apiErr, ok := AsError(err)
	if !ok || apiErr.Kind != ErrorKindRateLimit {
		return 0, false
	}
	if apiErr.Parameters == nil {
		return 0, true
	}

	return apiErr.Parameters.RetryAfter, true
}
