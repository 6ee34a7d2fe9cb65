package errors

// ErrorCode is the machine-readable category of an AppError. It is logged,
// never sent to clients.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"

	// ErrCodeUpstream is a non-2xx answer from Groq.
	ErrCodeUpstream    ErrorCode = "UPSTREAM_ERROR"
	ErrCodeTimeout     ErrorCode = "TIMEOUT"
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"

	// ErrCodeUnexpected covers failures the handlers do not classify.
	ErrCodeUnexpected ErrorCode = "UNEXPECTED_ERROR"
	// ErrCodeInternal is a bug or a recovered panic.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// IsRetryableCode reports codes a client may retry unchanged.
func IsRetryableCode(code ErrorCode) bool {
	return code == ErrCodeTimeout || code == ErrCodeRateLimited
}
