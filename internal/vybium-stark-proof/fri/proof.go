// Package fri holds the serialized form of a FRI low-degree proof.
//
// The proof container treats a FriProof as opaque: it only needs to write
// it, read it back and compare it. Layer contents can be parsed into field
// elements and Merkle paths when the folding factor and query count are known.
package fri

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

const (
	// MaxLayers is the largest number of layers representable on the wire
	MaxLayers = 255

	// MaxPartitionsLog2 bounds the logarithm of the partition count
	MaxPartitionsLog2 = 31
)

// FriProofLayer holds the opened values and Merkle paths of one FRI layer
type FriProofLayer struct {
	values []byte
	paths  []byte
}

// NewFriProofLayer encodes the folded query rows and their opening proof.
// Every row holds foldingFactor elements.
func NewFriProofLayer(rows [][]field.Element, proof *crypto.BatchMerkleProof) (FriProofLayer, error) {
	if len(rows) == 0 {
		return FriProofLayer{}, fmt.Errorf("a FRI layer must open at least one query")
	}
	if proof == nil {
		return FriProofLayer{}, fmt.Errorf("a batch Merkle proof is required")
	}
	if len(rows) != len(proof.Leaves) {
		return FriProofLayer{}, fmt.Errorf("%d rows given for a proof with %d leaves", len(rows), len(proof.Leaves))
	}

	w := utils.NewByteWriter(len(rows) * len(rows[0]) * utils.ElementBytes)
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			return FriProofLayer{}, fmt.Errorf("row %d has %d elements, expected %d", i, len(row), len(rows[0]))
		}
		w.WriteElements(row)
	}
	return FriProofLayer{values: w.Bytes(), paths: proof.PathBytes()}, nil
}

// Values returns a copy of the encoded query values
func (l FriProofLayer) Values() []byte { return bytes.Clone(l.values) }

// Paths returns a copy of the encoded Merkle paths
func (l FriProofLayer) Paths() []byte { return bytes.Clone(l.paths) }

// Parse decodes the layer into numQueries rows of foldingFactor elements and
// the batch proof whose leaves are the row hashes.
func (l FriProofLayer) Parse(hasher crypto.Hasher, numQueries, foldingFactor int) ([][]field.Element, *crypto.BatchMerkleProof, error) {
	flat, err := utils.ElementsFromBytes(l.values, numQueries*foldingFactor)
	if err != nil {
		return nil, nil, err
	}

	rows := make([][]field.Element, numQueries)
	leaves := make([]crypto.Digest, numQueries)
	for i := range rows {
		rows[i] = flat[i*foldingFactor : (i+1)*foldingFactor]
		leaves[i] = hasher.Hash(utils.ElementsToBytes(rows[i]))
	}

	proof, err := crypto.ParseBatchMerkleProof(l.paths, leaves, hasher.DigestSize())
	if err != nil {
		return nil, nil, err
	}
	return rows, proof, nil
}

func (l FriProofLayer) equal(other FriProofLayer) bool {
	return bytes.Equal(l.values, other.values) && bytes.Equal(l.paths, other.paths)
}

// WriteInto serializes the layer
func (l FriProofLayer) WriteInto(w *utils.ByteWriter) {
	w.WriteU32(uint32(len(l.values)))
	w.WriteBytes(l.values)
	w.WriteU32(uint32(len(l.paths)))
	w.WriteBytes(l.paths)
}

// ReadFrom decodes a layer
func (l *FriProofLayer) ReadFrom(r *utils.SliceReader) error {
	numValueBytes, err := r.ReadU32()
	if err != nil {
		return err
	}
	if numValueBytes == 0 {
		return utils.NewInvalidValueError("a FRI layer must contain at least one value")
	}
	values, err := r.ReadBytes(int(numValueBytes))
	if err != nil {
		return err
	}

	numPathBytes, err := r.ReadU32()
	if err != nil {
		return err
	}
	paths, err := r.ReadBytes(int(numPathBytes))
	if err != nil {
		return err
	}

	*l = FriProofLayer{values: values, paths: paths}
	return nil
}

// FriProof is a FRI proof: one entry per folded layer, the remainder
// polynomial and the number of partitions the LDE domain was split into.
type FriProof struct {
	layers        []FriProofLayer
	remainder     []byte
	numPartitions uint8 // log2
}

// NewFriProof assembles a proof; numPartitions must be a power of two
func NewFriProof(layers []FriProofLayer, remainder []field.Element, numPartitions int) (*FriProof, error) {
	if len(layers) > MaxLayers {
		return nil, fmt.Errorf("a FRI proof cannot have more than %d layers, but had %d", MaxLayers, len(layers))
	}
	partitionsLog2 := -1
	if numPartitions > 0 {
		partitionsLog2 = utils.Log2(uint64(numPartitions))
	}
	if partitionsLog2 < 0 || partitionsLog2 > MaxPartitionsLog2 {
		return nil, fmt.Errorf("number of partitions must be a power of 2 no larger than 2^%d, but was %d", MaxPartitionsLog2, numPartitions)
	}
	if len(remainder)*utils.ElementBytes > math.MaxUint16 {
		return nil, fmt.Errorf("remainder of %d elements is too large to encode", len(remainder))
	}

	owned := make([]FriProofLayer, len(layers))
	copy(owned, layers)
	return &FriProof{
		layers:        owned,
		remainder:     utils.ElementsToBytes(remainder),
		numPartitions: uint8(partitionsLog2),
	}, nil
}

// NewDummyFriProof returns an empty proof with a single partition
func NewDummyFriProof() *FriProof {
	return &FriProof{}
}

// NumLayers returns the number of folded layers
func (p *FriProof) NumLayers() int { return len(p.layers) }

// Layer returns layer i
func (p *FriProof) Layer(i int) FriProofLayer { return p.layers[i] }

// Remainder returns a copy of the encoded remainder
func (p *FriProof) Remainder() []byte { return bytes.Clone(p.remainder) }

// ParseRemainder decodes the remainder into base field elements
func (p *FriProof) ParseRemainder() ([]field.Element, error) {
	if len(p.remainder)%utils.ElementBytes != 0 {
		return nil, utils.NewInvalidValueError("remainder length %d is not a multiple of %d", len(p.remainder), utils.ElementBytes)
	}
	return utils.ElementsFromBytes(p.remainder, len(p.remainder)/utils.ElementBytes)
}

// NumPartitions returns the number of partitions used during proof generation
func (p *FriProof) NumPartitions() int { return 1 << p.numPartitions }

// Size returns the encoded size in bytes
func (p *FriProof) Size() int {
	return len(utils.ToBytes(p))
}

// Equal reports whether two proofs are identical
func (p *FriProof) Equal(other *FriProof) bool {
	if p == nil || other == nil {
		return p == other
	}
	if len(p.layers) != len(other.layers) || p.numPartitions != other.numPartitions {
		return false
	}
	for i := range p.layers {
		if !p.layers[i].equal(other.layers[i]) {
			return false
		}
	}
	return bytes.Equal(p.remainder, other.remainder)
}

// WriteInto serializes the proof
func (p *FriProof) WriteInto(w *utils.ByteWriter) {
	w.WriteU8(uint8(len(p.layers)))
	for _, layer := range p.layers {
		layer.WriteInto(w)
	}
	w.WriteU16(uint16(len(p.remainder)))
	w.WriteBytes(p.remainder)
	w.WriteU8(p.numPartitions)
}

// ReadFrom decodes a proof
func (p *FriProof) ReadFrom(r *utils.SliceReader) error {
	numLayers, err := r.ReadU8()
	if err != nil {
		return err
	}
	layers := make([]FriProofLayer, numLayers)
	for i := range layers {
		if err := layers[i].ReadFrom(r); err != nil {
			return err
		}
	}

	remainderLen, err := r.ReadU16()
	if err != nil {
		return err
	}
	remainder, err := r.ReadBytes(int(remainderLen))
	if err != nil {
		return err
	}

	numPartitions, err := r.ReadU8()
	if err != nil {
		return err
	}
	if numPartitions > MaxPartitionsLog2 {
		return utils.NewInvalidValueError("number of partitions cannot exceed 2^%d, but was 2^%d", MaxPartitionsLog2, numPartitions)
	}

	*p = FriProof{layers: layers, remainder: remainder, numPartitions: numPartitions}
	return nil
}
