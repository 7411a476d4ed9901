package proof

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/fri"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// MaxSyntheticLdeDomainSize bounds the domains NewSyntheticProof commits to
const MaxSyntheticLdeDomainSize = 1 << 16

// NewSyntheticProof builds a structurally complete proof for context with
// pseudo-random trace and constraint values drawn from a public coin seeded
// with seed. Every commitment is a real Merkle root under hasher and every
// query opening verifies against it, but the values satisfy no AIR. It is
// meant for fixtures, benchmarks and codec testing.
func NewSyntheticProof(context *air.Context, hasher crypto.Hasher, seed []byte) (*StarkProof, error) {
	ldeSize := context.LdeDomainSize()
	if ldeSize > MaxSyntheticLdeDomainSize {
		return nil, fmt.Errorf("LDE domain of %d rows exceeds the synthetic limit of %d", ldeSize, MaxSyntheticLdeDomainSize)
	}
	options := context.Options()
	layout := context.TraceLayout()
	coin := crypto.NewRandomCoin(hasher, append(utils.ToBytes(context), seed...))

	// commit to each trace segment and the constraint evaluations
	segmentWidths := make([]int, 0, layout.NumSegments()+1)
	for i := 0; i < layout.NumSegments(); i++ {
		segmentWidths = append(segmentWidths, layout.SegmentWidth(i))
	}
	numEvaluations := int(options.FieldExtension().Degree())
	segmentWidths = append(segmentWidths, numEvaluations)

	tables := make([][][]field.Element, len(segmentWidths))
	trees := make([]*crypto.MerkleTree, len(segmentWidths))
	for i, width := range segmentWidths {
		table, tree, err := commitRows(coin, hasher, ldeSize, width)
		if err != nil {
			return nil, err
		}
		tables[i], trees[i] = table, tree
		coin.Reseed(tree.Root())
	}

	// out-of-domain frame
	width := layout.TraceWidth()
	oodFrame, err := NewOodFrame(
		[][]field.Element{drawElements(coin, width), drawElements(coin, width)},
		drawElements(coin, numEvaluations),
	)
	if err != nil {
		return nil, err
	}
	coin.Reseed(hasher.Hash(utils.ToBytes(oodFrame)))

	// FRI layers, folding the domain until it fits the remainder
	friProof, friRoots, err := buildFri(coin, hasher, options, ldeSize)
	if err != nil {
		return nil, err
	}

	drawn, err := coin.DrawIndexes(options.NumQueries(), ldeSize)
	if err != nil {
		return nil, err
	}
	positions := crypto.Dedup(drawn)

	openings := make([]Queries, len(trees))
	for i, tree := range trees {
		if openings[i], err = openRows(tree, tables[i], positions); err != nil {
			return nil, err
		}
	}

	traceRoots := make([]crypto.Digest, layout.NumSegments())
	for i := range traceRoots {
		traceRoots[i] = trees[i].Root()
	}
	commitments, err := NewCommitments(traceRoots, trees[len(trees)-1].Root(), friRoots)
	if err != nil {
		return nil, err
	}

	return NewStarkProof(
		context,
		len(positions),
		commitments,
		openings[:layout.NumSegments()],
		openings[len(openings)-1],
		oodFrame,
		friProof,
		coin.DrawU64(),
	)
}

func drawElements(coin *crypto.RandomCoin, n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = coin.DrawElement()
	}
	return out
}

func commitRows(coin *crypto.RandomCoin, hasher crypto.Hasher, numRows, width int) ([][]field.Element, *crypto.MerkleTree, error) {
	rows := make([][]field.Element, numRows)
	leaves := make([]crypto.Digest, numRows)
	for i := range rows {
		rows[i] = drawElements(coin, width)
		leaves[i] = hasher.Hash(utils.ElementsToBytes(rows[i]))
	}
	tree, err := crypto.NewMerkleTree(hasher, leaves)
	if err != nil {
		return nil, nil, err
	}
	return rows, tree, nil
}

func openRows(tree *crypto.MerkleTree, rows [][]field.Element, positions []int) (Queries, error) {
	batch, err := tree.ProveBatch(positions)
	if err != nil {
		return Queries{}, err
	}
	opened := make([][]field.Element, len(positions))
	for i, pos := range positions {
		opened[i] = rows[pos]
	}
	return NewQueries(batch, opened)
}

func buildFri(coin *crypto.RandomCoin, hasher crypto.Hasher, options air.ProofOptions, ldeSize int) (*fri.FriProof, []crypto.Digest, error) {
	folding := options.FriFoldingFactor()
	maxRemainderSize := (options.FriRemainderMaxDegree() + 1) * options.BlowupFactor()

	var layers []fri.FriProofLayer
	var roots []crypto.Digest
	domain := ldeSize
	for domain > maxRemainderSize && domain/folding > 0 {
		numRows := domain / folding
		rows, tree, err := commitRows(coin, hasher, numRows, folding)
		if err != nil {
			return nil, nil, err
		}
		coin.Reseed(tree.Root())

		drawn, err := coin.DrawIndexes(options.NumQueries(), numRows)
		if err != nil {
			return nil, nil, err
		}
		positions := crypto.Dedup(drawn)
		batch, err := tree.ProveBatch(positions)
		if err != nil {
			return nil, nil, err
		}
		opened := make([][]field.Element, len(positions))
		for i, pos := range positions {
			opened[i] = rows[pos]
		}
		layer, err := fri.NewFriProofLayer(opened, batch)
		if err != nil {
			return nil, nil, err
		}

		layers = append(layers, layer)
		roots = append(roots, tree.Root())
		domain = numRows
	}

	remainder := drawElements(coin, min(domain, options.FriRemainderMaxDegree()+1))
	proof, err := fri.NewFriProof(layers, remainder, 1)
	if err != nil {
		return nil, nil, err
	}
	return proof, roots, nil
}
