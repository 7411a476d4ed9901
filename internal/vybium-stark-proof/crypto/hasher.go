// Package crypto provides the hash functions, Merkle commitments and
// public-coin randomness used to build and check proof commitments.
package crypto

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Digest is the output of a Hasher
type Digest []byte

// Equal reports whether two digests are byte-identical
func (d Digest) Equal(other Digest) bool {
	return bytes.Equal(d, other)
}

func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// Hasher is a collision-resistant hash function used for commitments.
type Hasher interface {
	// Name returns the configuration name of the hash function
	Name() string
	// DigestSize returns the digest length in bytes
	DigestSize() int
	// CollisionResistance returns the collision resistance in bits
	CollisionResistance() uint32
	// Hash hashes an arbitrary byte string
	Hash(data []byte) Digest
	// Merge hashes two digests into their parent node
	Merge(left, right Digest) Digest
}

// ByName returns the hasher registered under name
func ByName(name string) (Hasher, error) {
	switch name {
	case "sha3", "sha3-256", "":
		return Sha3_256{}, nil
	case "blake2b", "blake2b-256":
		return Blake2b_256{}, nil
	case "tip5":
		return Tip5{}, nil
	default:
		return nil, fmt.Errorf("unsupported hash function: %s", name)
	}
}

// Sha3_256 is SHA3-256 with 128-bit collision resistance
type Sha3_256 struct{}

func (Sha3_256) Name() string { return "sha3" }

func (Sha3_256) DigestSize() int { return 32 }

func (Sha3_256) CollisionResistance() uint32 { return 128 }

func (Sha3_256) Hash(data []byte) Digest {
	h := sha3.Sum256(data)
	return h[:]
}

func (h Sha3_256) Merge(left, right Digest) Digest {
	return h.Hash(concat(left, right))
}

// Blake2b_256 is BLAKE2b truncated to 256 bits with 128-bit collision resistance
type Blake2b_256 struct{}

func (Blake2b_256) Name() string { return "blake2b" }

func (Blake2b_256) DigestSize() int { return 32 }

func (Blake2b_256) CollisionResistance() uint32 { return 128 }

func (Blake2b_256) Hash(data []byte) Digest {
	h := blake2b.Sum256(data)
	return h[:]
}

func (h Blake2b_256) Merge(left, right Digest) Digest {
	return h.Hash(concat(left, right))
}

// Tip5 hashes over the Goldilocks field. Byte input is packed seven bytes
// per element so every chunk is canonical; digests are the little-endian
// encoding of the hash.DigestLen output elements.
type Tip5 struct{}

func (Tip5) Name() string { return "tip5" }

func (Tip5) DigestSize() int { return hash.DigestLen * 8 }

func (Tip5) CollisionResistance() uint32 { return 160 }

func (Tip5) Hash(data []byte) Digest {
	elements := make([]field.Element, 0, len(data)/7+2)
	for start := 0; start < len(data); start += 7 {
		var chunk [8]byte
		copy(chunk[:7], data[start:min(start+7, len(data))])
		elements = append(elements, field.New(binary.LittleEndian.Uint64(chunk[:])))
	}
	// length suffix separates inputs that differ only in trailing zeros
	elements = append(elements, field.New(uint64(len(data))))
	return digestBytes(hash.HashVarlen(elements))
}

func (Tip5) Merge(left, right Digest) Digest {
	elements := make([]field.Element, 0, 2*hash.DigestLen)
	elements = append(elements, digestElements(left)...)
	elements = append(elements, digestElements(right)...)
	return digestBytes(hash.HashVarlen(elements))
}

func digestBytes(d hash.Digest) Digest {
	out := make([]byte, 0, hash.DigestLen*8)
	for _, e := range d {
		out = binary.LittleEndian.AppendUint64(out, e.Value())
	}
	return out
}

func digestElements(d Digest) []field.Element {
	elements := make([]field.Element, 0, len(d)/8)
	for i := 0; i+8 <= len(d); i += 8 {
		elements = append(elements, field.New(binary.LittleEndian.Uint64(d[i:i+8])))
	}
	return elements
}

func concat(left, right []byte) []byte {
	combined := make([]byte, 0, len(left)+len(right))
	combined = append(combined, left...)
	return append(combined, right...)
}
