package security

import (
	"fmt"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// ConfigError reports parameters for which a bound cannot be evaluated.
type ConfigError struct {
	Reason  string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("security config error [%s]: %s", e.Reason, e.Message)
}

// Is matches ConfigErrors with the same reason.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Reason == t.Reason
}

var (
	// ErrEmptyProximityRange is returned when the trace is too short for any
	// proximity parameter m in [MinProximityParameter, m_max).
	ErrEmptyProximityRange = &ConfigError{Reason: "empty proximity range"}

	// ErrEmptyTraceDomain is returned for a zero trace domain size.
	ErrEmptyTraceDomain = &ConfigError{Reason: "empty trace domain"}

	// ErrInvalidTraceLength is returned for trace lengths that are not a power of two.
	ErrInvalidTraceLength = &ConfigError{Reason: "invalid trace length"}

	// ErrLdeDomainOverflow is returned when trace length times blowup factor
	// does not fit in 64 bits.
	ErrLdeDomainOverflow = &ConfigError{Reason: "LDE domain overflow"}
)

// ValidateTraceLength checks that traceDomainSize can be the length of an
// execution trace: nonzero and a power of two.
func ValidateTraceLength(traceDomainSize uint64) error {
	if traceDomainSize == 0 {
		return ErrEmptyTraceDomain
	}
	if !utils.IsPowerOfTwo(traceDomainSize) {
		return &ConfigError{
			Reason:  ErrInvalidTraceLength.Reason,
			Message: fmt.Sprintf("trace length must be a power of 2, but was %d", traceDomainSize),
		}
	}
	return nil
}
