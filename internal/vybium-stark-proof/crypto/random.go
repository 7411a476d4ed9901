package crypto

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// RandomCoin is a Fiat-Shamir public coin. Its state is a digest that is
// re-hashed with a counter to draw values and with new data to reseed.
type RandomCoin struct {
	hasher  Hasher
	seed    Digest
	counter uint64
}

// NewRandomCoin creates a coin seeded with the hash of seed
func NewRandomCoin(hasher Hasher, seed []byte) *RandomCoin {
	return &RandomCoin{hasher: hasher, seed: hasher.Hash(seed)}
}

// Reseed absorbs data, typically a commitment root, into the coin state
func (c *RandomCoin) Reseed(data Digest) {
	c.seed = c.hasher.Merge(c.seed, data)
	c.counter = 0
}

// Seed returns a copy of the current state
func (c *RandomCoin) Seed() Digest {
	return append(Digest(nil), c.seed...)
}

func (c *RandomCoin) next() Digest {
	c.counter++
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], c.counter)
	return c.hasher.Hash(concat(c.seed, ctr[:]))
}

// DrawU64 draws a uniformly distributed 64-bit value
func (c *RandomCoin) DrawU64() uint64 {
	return binary.LittleEndian.Uint64(c.next()[:8])
}

// DrawElement draws a base field element, rejecting values >= p
func (c *RandomCoin) DrawElement() field.Element {
	for {
		v := c.DrawU64()
		if v < field.P {
			return field.New(v)
		}
	}
}

// DrawIndexes draws numIndexes positions in [0, domainSize) with
// replacement, so the result may contain duplicates. domainSize must be a
// power of two.
func (c *RandomCoin) DrawIndexes(numIndexes, domainSize int) ([]int, error) {
	if !utils.IsPowerOfTwo(uint64(domainSize)) {
		return nil, fmt.Errorf("domain size must be a power of 2, but was %d", domainSize)
	}
	if numIndexes <= 0 {
		return nil, fmt.Errorf("number of indexes must be positive, but was %d", numIndexes)
	}

	mask := uint64(domainSize - 1)
	indexes := make([]int, numIndexes)
	for i := range indexes {
		indexes[i] = int(c.DrawU64() & mask)
	}
	return indexes, nil
}

// Dedup returns the distinct values of indexes in ascending order
func Dedup(indexes []int) []int {
	seen := make(map[int]struct{}, len(indexes))
	out := make([]int, 0, len(indexes))
	for _, i := range indexes {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
