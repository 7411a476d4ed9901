// Package security estimates the soundness, in bits, achieved by a STARK
// proof configuration.
//
// Two models are provided. The conjectured bound relies on the commonly
// assumed list-decoding behaviour of Reed-Solomon codes; the proven bound
// follows Theorem 8 of https://eprint.iacr.org/2022/1216.pdf and searches
// over the proximity parameter m. Both are pure functions of the proof
// options, the base field size and the trace domain size.
package security

import (
	"fmt"
	"math"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/numeric"
)

const (
	// GrindingContributionFloor is the query security below which grinding
	// does not count towards the conjectured bound.
	GrindingContributionFloor = 80

	// MinProximityParameter is the smallest m searched by the proven bound
	MinProximityParameter = 3

	// MaxProximityParameter caps the upper end of the m search
	MaxProximityParameter = 1000
)

// Estimator evaluates security bounds with a fixed numeric backend.
// An Estimator holds no mutable state and may be shared between goroutines.
type Estimator struct {
	backend numeric.Backend
}

// Default evaluates bounds with the host math library.
var Default = NewEstimator(numeric.Host)

// NewEstimator creates an estimator; a nil backend selects numeric.Host.
func NewEstimator(backend numeric.Backend) *Estimator {
	if backend == nil {
		backend = numeric.Host
	}
	return &Estimator{backend: backend}
}

// Backend returns the numeric backend used by the estimator
func (e *Estimator) Backend() numeric.Backend {
	return e.backend
}

// ConjecturedSecurity evaluates the conjectured bound with Default.
func ConjecturedSecurity(options air.ProofOptions, baseFieldBits uint32, traceDomainSize uint64, collisionResistance uint32) uint32 {
	return Default.Conjectured(options, baseFieldBits, traceDomainSize, collisionResistance)
}

// ProvenSecurity evaluates the proven bound with Default.
func ProvenSecurity(options air.ProofOptions, baseFieldBits uint32, traceDomainSize uint64, collisionResistance uint32) (uint32, error) {
	return Default.Proven(options, baseFieldBits, traceDomainSize, collisionResistance)
}

// ldeDomainSize returns traceDomainSize * blowup, failing on overflow.
func ldeDomainSize(options air.ProofOptions, traceDomainSize uint64) (uint64, error) {
	blowup := uint64(options.BlowupFactor())
	if traceDomainSize > math.MaxUint64/blowup {
		return 0, &ConfigError{
			Reason:  ErrLdeDomainOverflow.Reason,
			Message: fmt.Sprintf("trace length %d with blowup factor %d overflows the LDE domain",
				traceDomainSize, blowup),
		}
	}
	return traceDomainSize * blowup, nil
}

// bits truncates x towards zero into an unsigned integer, saturating at
// both ends. NaN maps to 0.
func bits(x float64) uint64 {
	switch {
	case math.IsNaN(x) || x <= 0:
		return 0
	case x >= 18446744073709551616.0:
		return math.MaxUint64
	default:
		return uint64(x)
	}
}
