package errors

import (
	"fmt"
	"net/http"
)

// AppError is the error every handler answers with. Message is the only
// part clients see; Code, Details and Cause end up in logs.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying failure and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one log field and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

func build(code ErrorCode, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Retryable: IsRetryableCode(code)}
}

// Configuration is a server-side setting that is missing, e.g. the API key.
func Configuration(message string) *AppError {
	return build(ErrCodeConfiguration, http.StatusInternalServerError, message)
}

// InvalidInput names the offending field in Details when field is set.
func InvalidInput(field, message string) *AppError {
	e := build(ErrCodeInvalidInput, http.StatusBadRequest, message)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// MissingField defaults the message to "Missing required field: <field>".
func MissingField(field, message string) *AppError {
	if message == "" {
		message = "Missing required field: " + field
	}
	return build(ErrCodeMissingField, http.StatusBadRequest, message).WithDetail("field", field)
}

// Validation is a JSON body that failed schema checks.
func Validation(message string) *AppError {
	return build(ErrCodeInvalidInput, http.StatusBadRequest, message)
}

func PayloadTooLarge(limit int64) *AppError {
	return build(ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("Request body exceeds %d bytes", limit)).WithDetail("limit", limit)
}

func NotFound(method, path string) *AppError {
	return build(ErrCodeNotFound, http.StatusNotFound, fmt.Sprintf("Cannot %s %s", method, path))
}

// Upstream relays a provider failure with the provider's status. A status
// that is not an error status becomes 502, and 5xx answers are retryable.
func Upstream(status int, message string) *AppError {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	code := ErrCodeUpstream
	if status == http.StatusTooManyRequests {
		code = ErrCodeRateLimited
	}
	e := build(code, status, message).WithDetail("upstream_status", status)
	e.Retryable = e.Retryable || status >= 500
	return e
}

// Timeout is a provider call that ran past its deadline. It answers 504.
func Timeout(operation, message string) *AppError {
	return build(ErrCodeTimeout, http.StatusGatewayTimeout, message).WithDetail("operation", operation)
}

// Unexpected hides cause behind a fixed client message.
func Unexpected(cause error, fallback string) *AppError {
	return build(ErrCodeUnexpected, http.StatusInternalServerError, fallback).WithCause(cause)
}

func Internal(cause error) *AppError {
	return build(ErrCodeInternal, http.StatusInternalServerError, "Internal server error").WithCause(cause)
}
