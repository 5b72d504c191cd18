package modules

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"plankamcp/server/pkg/plankaapi"
)

// ErrorCategory classifies tool errors so MCP clients can decide whether to
// fix input, retry or escalate without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation: missing or malformed arguments. Nothing was sent
	// to Planka.
	CategoryValidation ErrorCategory = "validation"
	// CategoryAuthentication: no access token could be obtained.
	CategoryAuthentication ErrorCategory = "authentication"
	// CategoryNotFound: Planka answered 404.
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryForbidden: Planka answered 401 or 403.
	CategoryForbidden ErrorCategory = "forbidden"
	// CategoryConflict: Planka answered 409.
	CategoryConflict ErrorCategory = "conflict"
	// CategoryRemote: any other non-2xx answer.
	CategoryRemote ErrorCategory = "remote"
	// CategoryTransient: network failure, timeout, 429 or 5xx.
	CategoryTransient ErrorCategory = "transient"
	// CategoryInternal: a bug or an unexpected response shape.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by tool handlers.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: errors.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: errors.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: errors.Errorf(format, args...)}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var toolErr *ToolError
	return errors.As(err, &toolErr) && toolErr.Category == CategoryValidation
}

// ErrorInfo carries structured error metadata on failed tool results.
type ErrorInfo struct {
	Category   ErrorCategory `json:"category"`
	Retryable  bool          `json:"retryable"`
	StatusCode int           `json:"statusCode,omitempty"`
}

// Classify maps an error from a tool handler to ErrorInfo.
func Classify(err error) *ErrorInfo {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return &ErrorInfo{Category: toolErr.Category, Retryable: toolErr.Category == CategoryTransient}
	}

	// Authentication wraps the login response, so it is checked before
	// APIError.
	if plankaapi.IsAuthentication(err) {
		info := &ErrorInfo{Category: CategoryAuthentication}
		var apiErr *plankaapi.APIError
		if errors.As(err, &apiErr) {
			info.StatusCode = apiErr.StatusCode
		}
		var transportErr *plankaapi.TransportError
		if errors.As(err, &transportErr) {
			info.Retryable = true
		}
		return info
	}

	var apiErr *plankaapi.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode)
	}

	var transportErr *plankaapi.TransportError
	if errors.As(err, &transportErr) {
		return &ErrorInfo{Category: CategoryTransient, Retryable: true}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ErrorInfo{Category: CategoryTransient, Retryable: true}
	}

	return &ErrorInfo{Category: CategoryInternal}
}

func classifyStatus(status int) *ErrorInfo {
	info := &ErrorInfo{StatusCode: status}
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		info.Category = CategoryValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		info.Category = CategoryForbidden
	case status == http.StatusNotFound:
		info.Category = CategoryNotFound
	case status == http.StatusConflict:
		info.Category = CategoryConflict
	case status == http.StatusTooManyRequests || status >= 500:
		info.Category = CategoryTransient
		info.Retryable = true
	default:
		info.Category = CategoryRemote
	}
	return info
}
