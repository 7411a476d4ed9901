package proof

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// Commitments holds the Merkle roots written by the prover, in order: one
// per trace segment, one for the constraint composition evaluations and one
// per FRI layer.
type Commitments struct {
	data []byte
}

// NewCommitments concatenates the roots in protocol order
func NewCommitments(traceRoots []crypto.Digest, constraintRoot crypto.Digest, friRoots []crypto.Digest) (Commitments, error) {
	w := utils.NewByteWriter(len(constraintRoot) * (len(traceRoots) + len(friRoots) + 1))
	for _, root := range traceRoots {
		w.WriteBytes(root)
	}
	w.WriteBytes(constraintRoot)
	for _, root := range friRoots {
		w.WriteBytes(root)
	}
	if w.Len() > math.MaxUint16 {
		return Commitments{}, fmt.Errorf("commitments of %d bytes are too large to encode", w.Len())
	}
	return Commitments{data: w.Bytes()}, nil
}

// Bytes returns a copy of the concatenated roots
func (c Commitments) Bytes() []byte { return bytes.Clone(c.data) }

// Parse splits the commitments back into trace, constraint and FRI roots.
// It fails unless the byte count matches the expected number of digests.
func (c Commitments) Parse(digestSize, numTraceSegments, numFriLayers int) (traceRoots []crypto.Digest, constraintRoot crypto.Digest, friRoots []crypto.Digest, err error) {
	numDigests := numTraceSegments + 1 + numFriLayers
	if digestSize <= 0 || len(c.data) != numDigests*digestSize {
		return nil, nil, nil, utils.NewInvalidValueError(
			"expected %d commitments of %d bytes, but found %d bytes", numDigests, digestSize, len(c.data))
	}

	r := utils.NewSliceReader(c.data)
	read := func(n int) ([]crypto.Digest, error) {
		out := make([]crypto.Digest, n)
		for i := range out {
			d, err := r.ReadBytes(digestSize)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	}

	if traceRoots, err = read(numTraceSegments); err != nil {
		return nil, nil, nil, err
	}
	constraint, err := read(1)
	if err != nil {
		return nil, nil, nil, err
	}
	if friRoots, err = read(numFriLayers); err != nil {
		return nil, nil, nil, err
	}
	return traceRoots, constraint[0], friRoots, nil
}

// Equal reports whether two commitment sets are identical
func (c Commitments) Equal(other Commitments) bool {
	return bytes.Equal(c.data, other.data)
}

// WriteInto serializes the commitments
func (c Commitments) WriteInto(w *utils.ByteWriter) {
	w.WriteU16(uint16(len(c.data)))
	w.WriteBytes(c.data)
}

// ReadFrom decodes commitments
func (c *Commitments) ReadFrom(r *utils.SliceReader) error {
	n, err := r.ReadU16()
	if err != nil {
		return err
	}
	data, err := r.ReadBytes(int(n))
	if err != nil {
		return err
	}
	c.data = data
	return nil
}
