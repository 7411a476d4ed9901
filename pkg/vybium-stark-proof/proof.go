package vybiumstarkproof

import (
	"errors"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/numeric"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/proof"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
)

// FromBytes decodes a proof
func FromBytes(data []byte) (*StarkProof, error) {
	p, err := proof.FromBytes(data)
	if err != nil {
		return nil, newError(ErrDecoding, "failed to decode proof", err)
	}
	return p, nil
}

// NewStarkProof assembles a proof from its parts, enforcing the container invariants
func NewStarkProof(
	context *Context,
	numUniqueQueries int,
	commitments Commitments,
	traceQueries []Queries,
	constraintQueries Queries,
	oodFrame OodFrame,
	friProof *FriProof,
	powNonce uint64,
) (*StarkProof, error) {
	p, err := proof.NewStarkProof(context, numUniqueQueries, commitments, traceQueries, constraintQueries, oodFrame, friProof, powNonce)
	if err != nil {
		return nil, newError(ErrInvalidProof, "failed to assemble proof", err)
	}
	return p, nil
}

// NewDummyStarkProof returns a minimal valid proof
func NewDummyStarkProof() *StarkProof {
	return proof.NewDummyStarkProof()
}

// NewSyntheticProof builds a structurally complete proof with real Merkle
// commitments under the named hash function. The values satisfy no AIR.
func NewSyntheticProof(context *Context, hashFunction string, seed []byte) (*StarkProof, error) {
	hasher, err := crypto.ByName(hashFunction)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "unsupported hash function", err)
	}
	p, err := proof.NewSyntheticProof(context, hasher, seed)
	if err != nil {
		return nil, newError(ErrInvalidInput, "failed to build synthetic proof", err)
	}
	return p, nil
}

// NewProofOptions validates and creates proof options
func NewProofOptions(numQueries, blowupFactor, grindingFactor int, fieldExtension FieldExtension, friFoldingFactor, friRemainderMaxDegree int) (ProofOptions, error) {
	options, err := air.NewProofOptions(numQueries, blowupFactor, grindingFactor, fieldExtension, friFoldingFactor, friRemainderMaxDegree)
	if err != nil {
		return ProofOptions{}, newError(ErrInvalidInput, "invalid proof options", err)
	}
	return options, nil
}

// NewGoldilocksContext creates a context over the 64-bit Goldilocks field
// for a trace with the given main and auxiliary segments.
func NewGoldilocksContext(mainWidth int, aux []AuxSegment, traceLength int, meta []byte, options ProofOptions) (*Context, error) {
	layout, err := air.NewTraceLayout(mainWidth, aux...)
	if err != nil {
		return nil, newError(ErrInvalidInput, "invalid trace layout", err)
	}
	info, err := air.NewTraceInfo(layout, traceLength, meta)
	if err != nil {
		return nil, newError(ErrInvalidInput, "invalid trace info", err)
	}
	ctx, err := air.NewGoldilocksContext(info, options)
	if err != nil {
		return nil, newError(ErrInvalidInput, "invalid context", err)
	}
	return ctx, nil
}

// NewEstimator returns an estimator for the named numeric backend ("host" or "portable")
func NewEstimator(backend string) (*Estimator, error) {
	b, err := numeric.ByName(backend)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "unknown numeric backend", err)
	}
	return security.NewEstimator(b), nil
}

// NewHasher returns the named commitment hash function
func NewHasher(name string) (Hasher, error) {
	h, err := crypto.ByName(name)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "unsupported hash function", err)
	}
	return h, nil
}

// SecurityLevel returns the security level of p, taking the collision
// resistance from the named commitment hash function.
func SecurityLevel(p *StarkProof, conjectured bool, hashFunction string) (uint32, error) {
	h, err := NewHasher(hashFunction)
	if err != nil {
		return 0, err
	}
	level, err := p.SecurityLevel(conjectured, h.CollisionResistance())
	if err != nil {
		return 0, wrapEstimatorError(err)
	}
	return level, nil
}

// ConjecturedSecurity evaluates the conjectured bound
func ConjecturedSecurity(options ProofOptions, baseFieldBits uint32, traceDomainSize uint64, collisionResistance uint32) uint32 {
	return security.ConjecturedSecurity(options, baseFieldBits, traceDomainSize, collisionResistance)
}

// ProvenSecurity evaluates the proven bound
func ProvenSecurity(options ProofOptions, baseFieldBits uint32, traceDomainSize uint64, collisionResistance uint32) (uint32, error) {
	level, err := security.ProvenSecurity(options, baseFieldBits, traceDomainSize, collisionResistance)
	if err != nil {
		return 0, wrapEstimatorError(err)
	}
	return level, nil
}

func wrapEstimatorError(err error) error {
	var cfgErr *security.ConfigError
	if errors.As(err, &cfgErr) {
		return newError(ErrInvalidInput, "security level cannot be evaluated", err)
	}
	return newError(ErrUnknown, "security estimation failed", err)
}
