package crypto

import (
	"fmt"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// MaxMerkleDepth bounds the depth of trees whose paths can be decoded
const MaxMerkleDepth = 32

// MerkleTree is a binary Merkle tree over already-hashed leaves. The number
// of leaves must be a power of two.
type MerkleTree struct {
	hasher Hasher
	levels [][]Digest // levels[0] holds the leaves, the last level the root
}

// NewMerkleTree builds a tree over the given leaf digests
func NewMerkleTree(hasher Hasher, leaves []Digest) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("cannot create Merkle tree with empty data")
	}
	if !utils.IsPowerOfTwo(uint64(len(leaves))) {
		return nil, fmt.Errorf("number of leaves must be a power of 2, but was %d", len(leaves))
	}
	for i, leaf := range leaves {
		if len(leaf) != hasher.DigestSize() {
			return nil, fmt.Errorf("leaf %d has %d bytes, expected %d", i, len(leaf), hasher.DigestSize())
		}
	}

	current := make([]Digest, len(leaves))
	copy(current, leaves)
	levels := [][]Digest{current}

	for len(current) > 1 {
		next := make([]Digest, len(current)/2)
		for i := range next {
			next[i] = hasher.Merge(current[2*i], current[2*i+1])
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{hasher: hasher, levels: levels}, nil
}

// NewMerkleTreeFromData hashes each item into a leaf and builds the tree
func NewMerkleTreeFromData(hasher Hasher, data [][]byte) (*MerkleTree, error) {
	leaves := make([]Digest, len(data))
	for i, item := range data {
		leaves[i] = hasher.Hash(item)
	}
	return NewMerkleTree(hasher, leaves)
}

// Root returns the Merkle root
func (mt *MerkleTree) Root() Digest {
	return mt.levels[len(mt.levels)-1][0]
}

// Depth returns the number of levels above the leaves
func (mt *MerkleTree) Depth() int {
	return len(mt.levels) - 1
}

// NumLeaves returns the number of leaves
func (mt *MerkleTree) NumLeaves() int {
	return len(mt.levels[0])
}

// Leaf returns the leaf digest at index
func (mt *MerkleTree) Leaf(index int) Digest {
	return mt.levels[0][index]
}

// Prove returns the authentication path for the leaf at index, bottom up
func (mt *MerkleTree) Prove(index int) ([]Digest, error) {
	if index < 0 || index >= mt.NumLeaves() {
		return nil, fmt.Errorf("index %d out of range [0, %d)", index, mt.NumLeaves())
	}

	path := make([]Digest, 0, mt.Depth())
	current := index
	for level := 0; level < mt.Depth(); level++ {
		path = append(path, mt.levels[level][current^1])
		current /= 2
	}
	return path, nil
}

// ProveBatch returns a batch opening proof for the given leaf indexes
func (mt *MerkleTree) ProveBatch(indexes []int) (*BatchMerkleProof, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("at least one index is required")
	}

	proof := &BatchMerkleProof{
		Depth:  uint8(mt.Depth()),
		Leaves: make([]Digest, len(indexes)),
		Paths:  make([][]Digest, len(indexes)),
	}
	for i, index := range indexes {
		path, err := mt.Prove(index)
		if err != nil {
			return nil, err
		}
		proof.Leaves[i] = mt.Leaf(index)
		proof.Paths[i] = path
	}
	return proof, nil
}

// VerifyPath checks a single authentication path against root
func VerifyPath(hasher Hasher, root, leaf Digest, path []Digest, index int) bool {
	current := leaf
	for _, sibling := range path {
		if index%2 == 0 {
			current = hasher.Merge(current, sibling)
		} else {
			current = hasher.Merge(sibling, current)
		}
		index /= 2
	}
	return index == 0 && current.Equal(root)
}

// BatchMerkleProof opens several leaves of one tree. Leaves are not
// serialized: a verifier recomputes them from the opened values.
type BatchMerkleProof struct {
	Depth  uint8
	Leaves []Digest
	Paths  [][]Digest
}

// Verify checks every opened leaf against root at the matching index
func (p *BatchMerkleProof) Verify(hasher Hasher, root Digest, indexes []int) error {
	if len(indexes) != len(p.Leaves) || len(indexes) != len(p.Paths) {
		return fmt.Errorf("proof opens %d leaves, but %d indexes were given", len(p.Leaves), len(indexes))
	}
	for i, index := range indexes {
		if len(p.Paths[i]) != int(p.Depth) {
			return fmt.Errorf("path %d has length %d, expected %d", i, len(p.Paths[i]), p.Depth)
		}
		if !VerifyPath(hasher, root, p.Leaves[i], p.Paths[i], index) {
			return fmt.Errorf("authentication path for index %d does not match the root", index)
		}
	}
	return nil
}

// Equal reports whether two proofs contain the same depth and paths
func (p *BatchMerkleProof) Equal(other *BatchMerkleProof) bool {
	if p.Depth != other.Depth || len(p.Paths) != len(other.Paths) {
		return false
	}
	for i := range p.Paths {
		if len(p.Paths[i]) != len(other.Paths[i]) {
			return false
		}
		for j := range p.Paths[i] {
			if !p.Paths[i][j].Equal(other.Paths[i][j]) {
				return false
			}
		}
	}
	return true
}

// PathBytes serializes the depth followed by every path, leaf by leaf
func (p *BatchMerkleProof) PathBytes() []byte {
	w := utils.NewByteWriter(1 + len(p.Paths)*int(p.Depth)*32)
	w.WriteU8(p.Depth)
	for _, path := range p.Paths {
		for _, node := range path {
			w.WriteBytes(node)
		}
	}
	return w.Bytes()
}

// ParseBatchMerkleProof decodes paths written by PathBytes and attaches the
// given leaves, one path per leaf.
func ParseBatchMerkleProof(data []byte, leaves []Digest, digestSize int) (*BatchMerkleProof, error) {
	r := utils.NewSliceReader(data)
	depth, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if depth > MaxMerkleDepth {
		return nil, utils.NewInvalidValueError("Merkle tree depth cannot exceed %d, but was %d", MaxMerkleDepth, depth)
	}

	paths := make([][]Digest, len(leaves))
	for i := range paths {
		paths[i] = make([]Digest, depth)
		for j := range paths[i] {
			node, err := r.ReadBytes(digestSize)
			if err != nil {
				return nil, err
			}
			paths[i][j] = node
		}
	}
	if r.HasMoreBytes() {
		return nil, &utils.DeserializationError{
			Type:    utils.DeserializationErrorUnconsumedBytes,
			Message: fmt.Sprintf("%d bytes left after Merkle paths", r.Remaining()),
		}
	}

	owned := make([]Digest, len(leaves))
	copy(owned, leaves)
	return &BatchMerkleProof{Depth: depth, Leaves: owned, Paths: paths}, nil
}
