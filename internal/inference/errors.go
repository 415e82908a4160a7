package inference

import (
	"errors"
	"fmt"
)

// ErrorType categorizes inference failures.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeModelNotFound
	ErrTypeInvalidResponse
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeNotRunning:
		return "not_running"
	case ErrTypeModelNotFound:
		return "model_not_found"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method. Its text is meant to be shown
// to the end user as is.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(t ErrorType, cause error, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func isType(err error, t ErrorType) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Type == t
	}
	return false
}

// IsNotRunning reports whether the Ollama server could not be reached.
func IsNotRunning(err error) bool {
	return isType(err, ErrTypeNotRunning)
}

// IsModelNotFound reports whether the requested model is not installed.
func IsModelNotFound(err error) bool {
	return isType(err, ErrTypeModelNotFound)
}

// IsInvalidResponse reports whether Ollama answered with something unusable.
func IsInvalidResponse(err error) bool {
	return isType(err, ErrTypeInvalidResponse)
}
