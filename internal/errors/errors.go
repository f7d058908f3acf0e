// Package errors provides custom error types for the phonechat client.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrEmptyInput      = errors.New("empty input")
	ErrRequestInFlight = errors.New("a request is already in flight")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrTimeout         = errors.New("request timed out")
)

// APIError represents a non-2xx answer from the chat endpoint.
// Message is what the widget shows to the user.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError. The message falls back to the status
// text and then to a generic text when the body was blank. A non-blank body
// is kept as sent.
func NewAPIError(statusCode int, endpoint, body, statusText string) *APIError {
	message := body
	if strings.TrimSpace(message) == "" {
		message = statusText
	}
	if message == "" {
		message = "server error"
	}
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// TimeoutError represents a send that exceeded the widget deadline
type TimeoutError struct {
	Endpoint string
}

func (e *TimeoutError) Error() string {
	return "Request timed out"
}

// Is allows comparison with ErrTimeout
func (e *TimeoutError) Is(target error) bool {
	if target == ErrTimeout {
		return true
	}
	_, ok := target.(*TimeoutError)
	return ok
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(endpoint string) *TimeoutError {
	return &TimeoutError{Endpoint: endpoint}
}

// NetworkError represents a transport failure (DNS, refused connection, offline)
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Operation)
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// ParseError represents a malformed body on an otherwise successful response
type ParseError struct {
	Message string
	Body    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, body string) *ParseError {
	return &ParseError{Message: message, Body: body}
}

// IsTimeoutError reports whether err is a widget timeout
func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsAPIError reports whether err came from a non-2xx response
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsParseError reports whether err is a malformed response
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// GetHTTPStatus returns the status code carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Endpoint
	}
	return ""
}

// Message returns the text shown after "Error: " in the failure bubble
func Message(err error) string {
	if err == nil {
		return ""
	}
	if IsTimeoutError(err) {
		return "Request timed out"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}
