package vybiumstarkproof

import "fmt"

// ErrorCode identifies the class of a ProofError
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrDecoding represents a malformed proof encoding
	ErrDecoding

	// ErrInvalidProof represents a proof whose parts violate the container invariants
	ErrInvalidProof

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrInvalidInput represents parameters the estimator cannot evaluate
	ErrInvalidInput
)

func (c ErrorCode) String() string {
	switch c {
	case ErrDecoding:
		return "decoding"
	case ErrInvalidProof:
		return "invalid proof"
	case ErrInvalidConfig:
		return "invalid config"
	case ErrInvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// ProofError is returned by every function in this package
type ProofError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *ProofError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-stark-proof error [%s]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-stark-proof error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *ProofError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *ProofError) Is(target error) bool {
	t, ok := target.(*ProofError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is
var (
	ErrDecodingFailed = &ProofError{Code: ErrDecoding}
	ErrProofInvalid   = &ProofError{Code: ErrInvalidProof}
	ErrConfigInvalid  = &ProofError{Code: ErrInvalidConfig}
	ErrInputInvalid   = &ProofError{Code: ErrInvalidInput}
)

func newError(code ErrorCode, message string, cause error) *ProofError {
	return &ProofError{Code: code, Message: message, Cause: cause}
}
