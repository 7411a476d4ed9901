package proof

import (
	"bytes"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// Queries holds the values of one committed resource (a trace segment or the
// constraint evaluations) at every queried position, together with the
// Merkle paths authenticating them.
type Queries struct {
	values []byte
	paths  []byte
}

// NewQueries encodes the queried rows and the batch proof that opens them.
// Rows must be non-empty and share a width.
func NewQueries(proof *crypto.BatchMerkleProof, values [][]field.Element) (Queries, error) {
	table, err := NewTable(values)
	if err != nil {
		return Queries{}, fmt.Errorf("invalid query values: %w", err)
	}
	if proof == nil {
		return Queries{}, fmt.Errorf("a batch Merkle proof is required")
	}
	if len(proof.Paths) != table.NumRows() {
		return Queries{}, fmt.Errorf("%d query rows given for a proof with %d paths", table.NumRows(), len(proof.Paths))
	}
	return Queries{values: table.Bytes(), paths: proof.PathBytes()}, nil
}

// Values returns a copy of the encoded query values
func (q Queries) Values() []byte { return bytes.Clone(q.values) }

// Paths returns a copy of the encoded Merkle paths
func (q Queries) Paths() []byte { return bytes.Clone(q.paths) }

// Parse decodes numQueries rows of valuesPerQuery elements and the batch
// proof for them. Leaves are recomputed by hashing each row with hasher.
func (q Queries) Parse(hasher crypto.Hasher, numQueries, valuesPerQuery int) (*crypto.BatchMerkleProof, *Table, error) {
	table, err := ParseTable(q.values, numQueries, valuesPerQuery)
	if err != nil {
		return nil, nil, err
	}

	leaves := make([]crypto.Digest, numQueries)
	for i := range leaves {
		leaves[i] = hasher.Hash(utils.ElementsToBytes(table.Row(i)))
	}
	proof, err := crypto.ParseBatchMerkleProof(q.paths, leaves, hasher.DigestSize())
	if err != nil {
		return nil, nil, err
	}
	return proof, table, nil
}

// Equal reports whether two query sets are identical
func (q Queries) Equal(other Queries) bool {
	return bytes.Equal(q.values, other.values) && bytes.Equal(q.paths, other.paths)
}

// WriteInto serializes the queries
func (q Queries) WriteInto(w *utils.ByteWriter) {
	w.WriteU32(uint32(len(q.values)))
	w.WriteBytes(q.values)
	w.WriteU32(uint32(len(q.paths)))
	w.WriteBytes(q.paths)
}

// ReadFrom decodes queries
func (q *Queries) ReadFrom(r *utils.SliceReader) error {
	numValueBytes, err := r.ReadU32()
	if err != nil {
		return err
	}
	if numValueBytes == 0 {
		return utils.NewInvalidValueError("queries must contain at least one value")
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

	*q = Queries{values: values, paths: paths}
	return nil
}
