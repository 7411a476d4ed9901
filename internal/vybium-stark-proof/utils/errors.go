package utils

import "fmt"

// DeserializationErrorType identifies why a byte sequence could not be decoded
type DeserializationErrorType int

const (
	// DeserializationErrorUnexpectedEOF means the source ran out of bytes
	DeserializationErrorUnexpectedEOF DeserializationErrorType = iota

	// DeserializationErrorInvalidValue means a decoded value violates its type's constraints
	DeserializationErrorInvalidValue

	// DeserializationErrorUnconsumedBytes means bytes were left over after a complete value
	DeserializationErrorUnconsumedBytes
)

func (t DeserializationErrorType) String() string {
	switch t {
	case DeserializationErrorUnexpectedEOF:
		return "unexpected EOF"
	case DeserializationErrorInvalidValue:
		return "invalid value"
	case DeserializationErrorUnconsumedBytes:
		return "unconsumed bytes"
	default:
		return "unknown"
	}
}

// DeserializationError is returned by every decoder in this module
type DeserializationError struct {
	Type    DeserializationErrorType
	Message string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialization error [%s]: %s", e.Type, e.Message)
}

// Is reports whether target is a DeserializationError of the same type.
func (e *DeserializationError) Is(target error) bool {
	t, ok := target.(*DeserializationError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrUnexpectedEOF matches any DeserializationError caused by a short read.
var ErrUnexpectedEOF = &DeserializationError{Type: DeserializationErrorUnexpectedEOF}

// NewInvalidValueError builds an InvalidValue error from a format string.
func NewInvalidValueError(format string, args ...interface{}) *DeserializationError {
	return &DeserializationError{
		Type:    DeserializationErrorInvalidValue,
		Message: fmt.Sprintf(format, args...),
	}
}

func newEOFError(want, have int) *DeserializationError {
	return &DeserializationError{
		Type:    DeserializationErrorUnexpectedEOF,
		Message: fmt.Sprintf("expected %d more bytes, but only %d remain", want, have),
	}
}
