package air

import (
	"fmt"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

const (
	// MaxNumQueries is the largest query count that fits the one-byte encoding
	MaxNumQueries = 255

	// MinBlowupFactor is the smallest supported ratio between LDE and trace domain sizes
	MinBlowupFactor = 2

	// MaxBlowupFactor is the largest supported blowup factor
	MaxBlowupFactor = 128

	// MaxGrindingFactor is the largest proof-of-work difficulty in bits
	MaxGrindingFactor = 32

	// FriMinFoldingFactor and FriMaxFoldingFactor bound the FRI folding factor
	FriMinFoldingFactor = 2
	FriMaxFoldingFactor = 16

	// FriMaxRemainderDegree is the largest degree of the FRI remainder polynomial
	FriMaxRemainderDegree = 255
)

// FieldExtension selects the extension of the base field used for random
// challenges and out-of-domain evaluations.
type FieldExtension uint8

const (
	// FieldExtensionNone uses the base field itself
	FieldExtensionNone FieldExtension = 1
	// FieldExtensionQuadratic uses a degree-2 extension
	FieldExtensionQuadratic FieldExtension = 2
	// FieldExtensionCubic uses a degree-3 extension
	FieldExtensionCubic FieldExtension = 3
)

// Degree returns the extension degree
func (fe FieldExtension) Degree() uint32 {
	return uint32(fe)
}

// IsValid reports whether fe is one of the supported extensions
func (fe FieldExtension) IsValid() bool {
	return fe >= FieldExtensionNone && fe <= FieldExtensionCubic
}

func (fe FieldExtension) String() string {
	switch fe {
	case FieldExtensionNone:
		return "none"
	case FieldExtensionQuadratic:
		return "quadratic"
	case FieldExtensionCubic:
		return "cubic"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(fe))
	}
}

// ParseFieldExtension maps a name or degree string to a FieldExtension
func ParseFieldExtension(s string) (FieldExtension, error) {
	switch s {
	case "none", "1":
		return FieldExtensionNone, nil
	case "quadratic", "2":
		return FieldExtensionQuadratic, nil
	case "cubic", "3":
		return FieldExtensionCubic, nil
	default:
		return 0, fmt.Errorf("unknown field extension %q", s)
	}
}

// ProofOptions holds the STARK protocol parameters a proof was generated with.
// Values are immutable once constructed; use NewProofOptions to build one.
type ProofOptions struct {
	numQueries            uint8
	blowupFactor          uint8
	grindingFactor        uint8
	fieldExtension        FieldExtension
	friFoldingFactor      uint8
	friRemainderMaxDegree uint8
}

// NewProofOptions validates the parameters and returns the options
func NewProofOptions(
	numQueries int,
	blowupFactor int,
	grindingFactor int,
	fieldExtension FieldExtension,
	friFoldingFactor int,
	friRemainderMaxDegree int,
) (ProofOptions, error) {
	if numQueries <= 0 {
		return ProofOptions{}, fmt.Errorf("number of queries must be greater than 0")
	}
	if numQueries > MaxNumQueries {
		return ProofOptions{}, fmt.Errorf("number of queries cannot be greater than %d, but was %d", MaxNumQueries, numQueries)
	}

	if blowupFactor < 0 || !utils.IsPowerOfTwo(uint64(blowupFactor)) {
		return ProofOptions{}, fmt.Errorf("blowup factor must be a power of 2, but was %d", blowupFactor)
	}
	if blowupFactor < MinBlowupFactor || blowupFactor > MaxBlowupFactor {
		return ProofOptions{}, fmt.Errorf("blowup factor must be in [%d, %d], but was %d", MinBlowupFactor, MaxBlowupFactor, blowupFactor)
	}

	if grindingFactor < 0 || grindingFactor > MaxGrindingFactor {
		return ProofOptions{}, fmt.Errorf("grinding factor must be in [0, %d], but was %d", MaxGrindingFactor, grindingFactor)
	}

	if !fieldExtension.IsValid() {
		return ProofOptions{}, fmt.Errorf("invalid field extension %d", uint8(fieldExtension))
	}

	if friFoldingFactor < 0 || !utils.IsPowerOfTwo(uint64(friFoldingFactor)) {
		return ProofOptions{}, fmt.Errorf("FRI folding factor must be a power of 2, but was %d", friFoldingFactor)
	}
	if friFoldingFactor < FriMinFoldingFactor || friFoldingFactor > FriMaxFoldingFactor {
		return ProofOptions{}, fmt.Errorf("FRI folding factor must be in [%d, %d], but was %d", FriMinFoldingFactor, FriMaxFoldingFactor, friFoldingFactor)
	}

	if friRemainderMaxDegree < 0 || friRemainderMaxDegree > FriMaxRemainderDegree {
		return ProofOptions{}, fmt.Errorf("FRI remainder max degree must be in [0, %d], but was %d", FriMaxRemainderDegree, friRemainderMaxDegree)
	}
	if !utils.IsPowerOfTwo(uint64(friRemainderMaxDegree) + 1) {
		return ProofOptions{}, fmt.Errorf("FRI remainder max degree must be one less than a power of 2, but was %d", friRemainderMaxDegree)
	}

	return ProofOptions{
		numQueries:            uint8(numQueries),
		blowupFactor:          uint8(blowupFactor),
		grindingFactor:        uint8(grindingFactor),
		fieldExtension:        fieldExtension,
		friFoldingFactor:      uint8(friFoldingFactor),
		friRemainderMaxDegree: uint8(friRemainderMaxDegree),
	}, nil
}

// NumQueries returns the number of queries the verifier makes against the LDE domain
func (o ProofOptions) NumQueries() int { return int(o.numQueries) }

// BlowupFactor returns the ratio between LDE and trace domain sizes
func (o ProofOptions) BlowupFactor() int { return int(o.blowupFactor) }

// GrindingFactor returns the number of leading zero bits required of the proof-of-work nonce
func (o ProofOptions) GrindingFactor() uint32 { return uint32(o.grindingFactor) }

// FieldExtension returns the field extension used for challenges and OOD evaluations
func (o ProofOptions) FieldExtension() FieldExtension { return o.fieldExtension }

// FriFoldingFactor returns the factor by which the domain shrinks in each FRI layer
func (o ProofOptions) FriFoldingFactor() int { return int(o.friFoldingFactor) }

// FriRemainderMaxDegree returns the maximum degree of the FRI remainder polynomial
func (o ProofOptions) FriRemainderMaxDegree() int { return int(o.friRemainderMaxDegree) }

// WriteInto serializes the options as six single-byte fields
func (o ProofOptions) WriteInto(w *utils.ByteWriter) {
	w.WriteU8(o.numQueries)
	w.WriteU8(o.blowupFactor)
	w.WriteU8(o.grindingFactor)
	w.WriteU8(uint8(o.fieldExtension))
	w.WriteU8(o.friFoldingFactor)
	w.WriteU8(o.friRemainderMaxDegree)
}

// ReadFrom decodes and re-validates options
func (o *ProofOptions) ReadFrom(r *utils.SliceReader) error {
	var raw [6]uint8
	for i := range raw {
		b, err := r.ReadU8()
		if err != nil {
			return err
		}
		raw[i] = b
	}

	extension := FieldExtension(raw[3])
	if !extension.IsValid() {
		return utils.NewInvalidValueError("invalid field extension %d", raw[3])
	}

	opts, err := NewProofOptions(int(raw[0]), int(raw[1]), int(raw[2]), extension, int(raw[4]), int(raw[5]))
	if err != nil {
		return utils.NewInvalidValueError("invalid proof options: %v", err)
	}
	*o = opts
	return nil
}

func (o ProofOptions) String() string {
	return fmt.Sprintf(
		"ProofOptions{queries: %d, blowup: %d, grinding: %d, extension: %s, folding: %d, remainder: %d}",
		o.numQueries, o.blowupFactor, o.grindingFactor, o.fieldExtension, o.friFoldingFactor, o.friRemainderMaxDegree,
	)
}
