package domainerrors

import "errors"

// Code represents a client error category independent of transport details.
// These codes describe what went wrong in session/API terms, not HTTP terms.
type Code string

const (
	CodeUnauthorized Code = "unauthorized"  // 401 from the platform; the session is no longer valid
	CodeLoginFailed  Code = "login_failed"  // authentication endpoint rejected the credentials
	CodeAPI          Code = "api_error"     // non-2xx platform response other than 401
	CodeTimeout      Code = "timeout"       // per-request deadline exceeded
	CodeNetwork      Code = "network_error" // transport failure before any response arrived
	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal_error"
)

// Error wraps client or transport failures with a stable code.
// It is transport-agnostic and can be used across gateway, session, and CLI layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Message extracts the human-readable message from a domain error, falling
// back to the plain Error() string. Used where server-provided messages are
// shown to the user.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
