// Package proof defines StarkProof, the container for a STARK proof, and its
// binary encoding.
//
// A proof is self-describing: the Context at the front of the encoding
// carries everything needed to decode the rest (trace layout, field modulus
// and protocol options) and to estimate the proof's security level.
package proof

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/fri"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// ErrInvalidProof is wrapped by every construction error
var ErrInvalidProof = errors.New("invalid proof")

// StarkProof is a STARK proof. It is immutable once constructed and safe
// for concurrent use.
type StarkProof struct {
	context           *air.Context
	numUniqueQueries  uint8
	commitments       Commitments
	traceQueries      []Queries
	constraintQueries Queries
	oodFrame          OodFrame
	friProof          *fri.FriProof
	powNonce          uint64
}

// NewStarkProof assembles a proof from its parts.
//
// numUniqueQueries must be in (0, options.NumQueries()]: it can only be
// lower when sampling query positions with replacement produced duplicates.
// There must be exactly one Queries entry per trace segment.
func NewStarkProof(
	context *air.Context,
	numUniqueQueries int,
	commitments Commitments,
	traceQueries []Queries,
	constraintQueries Queries,
	oodFrame OodFrame,
	friProof *fri.FriProof,
	powNonce uint64,
) (*StarkProof, error) {
	if context == nil {
		return nil, fmt.Errorf("%w: context is required", ErrInvalidProof)
	}
	if friProof == nil {
		return nil, fmt.Errorf("%w: FRI proof is required", ErrInvalidProof)
	}
	if err := checkUniqueQueries(numUniqueQueries, context.Options()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if segments := context.TraceLayout().NumSegments(); len(traceQueries) != segments {
		return nil, fmt.Errorf("%w: expected %d trace queries, one per trace segment, but got %d",
			ErrInvalidProof, segments, len(traceQueries))
	}

	owned := make([]Queries, len(traceQueries))
	copy(owned, traceQueries)
	return &StarkProof{
		context:           context,
		numUniqueQueries:  uint8(numUniqueQueries),
		commitments:       commitments,
		traceQueries:      owned,
		constraintQueries: constraintQueries,
		oodFrame:          oodFrame,
		friProof:          friProof,
		powNonce:          powNonce,
	}, nil
}

func checkUniqueQueries(n int, options air.ProofOptions) error {
	if n <= 0 || n > options.NumQueries() {
		return fmt.Errorf("number of unique queries must be in [1, %d], but was %d", options.NumQueries(), n)
	}
	return nil
}

// NewDummyStarkProof returns a minimal proof over a single-column trace of
// length 8. It is structurally valid and decodes back to itself.
func NewDummyStarkProof() *StarkProof {
	layout, _ := air.NewTraceLayout(1)
	traceInfo, _ := air.NewTraceInfo(layout, air.MinTraceLength, nil)
	options, _ := air.NewProofOptions(1, 2, 2, air.FieldExtensionNone, 8, 1)
	context, _ := air.NewGoldilocksContext(traceInfo, options)

	emptyProof := &crypto.BatchMerkleProof{Paths: [][]crypto.Digest{nil}}
	queries, _ := NewQueries(emptyProof, [][]field.Element{{field.One}})

	return &StarkProof{
		context:           context,
		numUniqueQueries:  1,
		traceQueries:      []Queries{queries},
		constraintQueries: queries,
		friProof:          fri.NewDummyFriProof(),
	}
}

// Context returns the proof context
func (p *StarkProof) Context() *air.Context { return p.context }

// Options returns the protocol parameters the proof was generated with
func (p *StarkProof) Options() air.ProofOptions { return p.context.Options() }

// TraceLayout returns the layout of the execution trace
func (p *StarkProof) TraceLayout() air.TraceLayout { return p.context.TraceLayout() }

// TraceLength returns the number of rows in the execution trace
func (p *StarkProof) TraceLength() int { return p.context.TraceLength() }

// TraceInfo returns the trace layout, length and metadata
func (p *StarkProof) TraceInfo() air.TraceInfo { return p.context.TraceInfo() }

// LdeDomainSize returns the size of the low-degree extension domain
func (p *StarkProof) LdeDomainSize() int { return p.context.LdeDomainSize() }

// NumUniqueQueries returns the number of distinct query positions
func (p *StarkProof) NumUniqueQueries() int { return int(p.numUniqueQueries) }

// Commitments returns the Merkle roots
func (p *StarkProof) Commitments() Commitments { return p.commitments }

// TraceQueries returns a copy of the per-segment trace queries
func (p *StarkProof) TraceQueries() []Queries {
	out := make([]Queries, len(p.traceQueries))
	copy(out, p.traceQueries)
	return out
}

// ConstraintQueries returns the constraint evaluation queries
func (p *StarkProof) ConstraintQueries() Queries { return p.constraintQueries }

// OodFrame returns the out-of-domain frame
func (p *StarkProof) OodFrame() OodFrame { return p.oodFrame }

// FriProof returns the FRI proof
func (p *StarkProof) FriProof() *fri.FriProof { return p.friProof }

// PowNonce returns the proof-of-work nonce
func (p *StarkProof) PowNonce() uint64 { return p.powNonce }

// SecurityLevel returns the security level of the proof in bits using the
// default estimator. collisionResistance is the collision resistance of the
// hash function the proof was committed with.
func (p *StarkProof) SecurityLevel(conjectured bool, collisionResistance uint32) (uint32, error) {
	return p.SecurityLevelWith(security.Default, conjectured, collisionResistance)
}

// SecurityLevelWith is SecurityLevel with a caller-supplied estimator
func (p *StarkProof) SecurityLevelWith(est *security.Estimator, conjectured bool, collisionResistance uint32) (uint32, error) {
	baseFieldBits := p.context.NumModulusBits()
	traceLength := uint64(p.TraceLength())
	if conjectured {
		return est.Conjectured(p.Options(), baseFieldBits, traceLength, collisionResistance), nil
	}
	return est.Proven(p.Options(), baseFieldBits, traceLength, collisionResistance)
}

// Equal reports whether two proofs are identical
func (p *StarkProof) Equal(other *StarkProof) bool {
	if p == nil || other == nil {
		return p == other
	}
	if !p.context.Equal(other.context) ||
		p.numUniqueQueries != other.numUniqueQueries ||
		!p.commitments.Equal(other.commitments) ||
		len(p.traceQueries) != len(other.traceQueries) ||
		!p.constraintQueries.Equal(other.constraintQueries) ||
		!p.oodFrame.Equal(other.oodFrame) ||
		!p.friProof.Equal(other.friProof) ||
		p.powNonce != other.powNonce {
		return false
	}
	for i := range p.traceQueries {
		if !p.traceQueries[i].Equal(other.traceQueries[i]) {
			return false
		}
	}
	return true
}

// ToBytes serializes the proof
func (p *StarkProof) ToBytes() []byte {
	return utils.ToBytes(p)
}

// FromBytes decodes a proof. Any malformed field or leftover byte fails the
// whole decode with a *utils.DeserializationError.
func FromBytes(source []byte) (*StarkProof, error) {
	p := new(StarkProof)
	if err := utils.ReadFromBytes(source, p); err != nil {
		return nil, err
	}
	return p, nil
}

// WriteInto serializes the proof
func (p *StarkProof) WriteInto(w *utils.ByteWriter) {
	p.context.WriteInto(w)
	w.WriteU8(p.numUniqueQueries)
	p.commitments.WriteInto(w)
	for _, q := range p.traceQueries {
		q.WriteInto(w)
	}
	p.constraintQueries.WriteInto(w)
	p.oodFrame.WriteInto(w)
	p.friProof.WriteInto(w)
	w.WriteU64(p.powNonce)
}

// ReadFrom decodes the proof fields in encoding order
func (p *StarkProof) ReadFrom(r *utils.SliceReader) error {
	context := new(air.Context)
	if err := context.ReadFrom(r); err != nil {
		return err
	}

	numUniqueQueries, err := r.ReadU8()
	if err != nil {
		return err
	}
	if err := checkUniqueQueries(int(numUniqueQueries), context.Options()); err != nil {
		return utils.NewInvalidValueError("%v", err)
	}

	var commitments Commitments
	if err := commitments.ReadFrom(r); err != nil {
		return err
	}

	// the segment count is not encoded; it comes from the context
	traceQueries := make([]Queries, context.TraceLayout().NumSegments())
	for i := range traceQueries {
		if err := traceQueries[i].ReadFrom(r); err != nil {
			return err
		}
	}

	var constraintQueries Queries
	if err := constraintQueries.ReadFrom(r); err != nil {
		return err
	}

	var oodFrame OodFrame
	if err := oodFrame.ReadFrom(r); err != nil {
		return err
	}

	friProof := new(fri.FriProof)
	if err := friProof.ReadFrom(r); err != nil {
		return err
	}

	powNonce, err := r.ReadU64()
	if err != nil {
		return err
	}

	*p = StarkProof{
		context:           context,
		numUniqueQueries:  numUniqueQueries,
		commitments:       commitments,
		traceQueries:      traceQueries,
		constraintQueries: constraintQueries,
		oodFrame:          oodFrame,
		friProof:          friProof,
		powNonce:          powNonce,
	}
	return nil
}
