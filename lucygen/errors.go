package lucygen

import (
	"errors"
	"fmt"
)

// Error codes for the generation pipeline. Every failure of a node
// execution carries exactly one of these.
const (
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeMissingPrompt     = "MISSING_PROMPT"
	CodeMissingMedia      = "MISSING_MEDIA"
	CodeUnsupportedMedia  = "UNSUPPORTED_MEDIA"
	CodeInvalidOption     = "INVALID_OPTION"
	CodeFetchFailed       = "FETCH_FAILED"
	CodeTransport         = "TRANSPORT"
	CodeProvider          = "PROVIDER"
	CodeEmptyResponse     = "EMPTY_RESPONSE"
	CodeStorageCollision  = "STORAGE_COLLISION"
	CodeStorageFailed     = "STORAGE_FAILED"
)

// Error is the coded error type for generation failures. Op names the
// operation (or stage) that failed so the host can display an actionable
// message. All pipeline errors are terminal for the node execution; nothing
// is retried internally.
type Error struct {
	Code    string // One of the Code* constants
	Op      string // Operation or stage that failed
	Message string // Human-readable description
	Err     error  // Wrapped cause, may be nil
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("lucygen: %s: %s (%s)", e.Op, e.Message, e.Code)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// newError creates a coded Error without a wrapped cause.
func newError(code, op, message string) *Error {
	return &Error{Code: code, Op: op, Message: message}
}

// wrapError creates a coded Error wrapping a cause.
func wrapError(code, op, message string, err error) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// ProviderError reports a non-2xx response from the provider. The body is
// retained for diagnostics; provider error payloads are typically short
// JSON documents naming the rejected field.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("lucygen: %s: provider returned status %d: %s",
		e.Op, e.StatusCode, previewBytes(e.Body, 200))
}

// ErrorCode extracts the pipeline error code from err, or "" when err does
// not originate from this package.
func ErrorCode(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	var provider *ProviderError
	if errors.As(err, &provider) {
		return CodeProvider
	}
	return ""
}

// IsCode reports whether err carries the given pipeline error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// previewBytes renders at most max bytes of b for error messages.
func previewBytes(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
