package air

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// Context holds the basic metadata about the computation a proof attests to:
// trace shape, base field modulus and protocol parameters.
//
// A Context is created once per proof and never modified afterwards.
type Context struct {
	traceLayout       TraceLayout
	traceLength       int
	traceMeta         []byte
	fieldModulusBytes []byte // little endian
	options           ProofOptions
}

// NewContext creates a context for a computation over the field with the given modulus.
func NewContext(traceInfo TraceInfo, modulus *big.Int, options ProofOptions) (*Context, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, fmt.Errorf("field modulus must be positive")
	}

	be := modulus.Bytes()
	if len(be) >= 255 {
		return nil, fmt.Errorf("field modulus cannot be encoded in fewer than 255 bytes")
	}
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}

	if traceInfo.Length() == 0 {
		return nil, fmt.Errorf("trace info must be initialized")
	}

	return &Context{
		traceLayout:       traceInfo.Layout(),
		traceLength:       traceInfo.Length(),
		traceMeta:         traceInfo.Meta(),
		fieldModulusBytes: le,
		options:           options,
	}, nil
}

// NewGoldilocksContext creates a context over the 64-bit base field p = 2^64 - 2^32 + 1.
func NewGoldilocksContext(traceInfo TraceInfo, options ProofOptions) (*Context, error) {
	return NewContext(traceInfo, new(big.Int).SetUint64(field.P), options)
}

// TraceLayout returns the layout of the execution trace
func (c *Context) TraceLayout() TraceLayout { return c.traceLayout }

// TraceLength returns the number of rows in the execution trace
func (c *Context) TraceLength() int { return c.traceLength }

// TraceInfo reassembles the trace info this context was created from
func (c *Context) TraceInfo() TraceInfo {
	return TraceInfo{layout: c.traceLayout, length: c.traceLength, meta: bytes.Clone(c.traceMeta)}
}

// LdeDomainSize returns the size of the low-degree extension domain
func (c *Context) LdeDomainSize() int {
	return c.traceLength * c.options.BlowupFactor()
}

// Options returns the protocol parameters
func (c *Context) Options() ProofOptions { return c.options }

// FieldModulusBytes returns the base field modulus in little-endian byte order
func (c *Context) FieldModulusBytes() []byte { return bytes.Clone(c.fieldModulusBytes) }

// NumModulusBits returns the bit width of the base field modulus
func (c *Context) NumModulusBits() uint32 {
	return utils.BitLength(c.fieldModulusBytes)
}

// Equal reports whether two contexts describe the same computation
func (c *Context) Equal(other *Context) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.traceLayout.Equal(other.traceLayout) &&
		c.traceLength == other.traceLength &&
		bytes.Equal(c.traceMeta, other.traceMeta) &&
		bytes.Equal(c.fieldModulusBytes, other.fieldModulusBytes) &&
		c.options == other.options
}

// WriteInto serializes the context
func (c *Context) WriteInto(w *utils.ByteWriter) {
	c.traceLayout.WriteInto(w)
	w.WriteU8(uint8(utils.Ilog2(uint64(c.traceLength))))
	w.WriteU16(uint16(len(c.traceMeta)))
	w.WriteBytes(c.traceMeta)
	w.WriteU8(uint8(len(c.fieldModulusBytes)))
	w.WriteBytes(c.fieldModulusBytes)
	c.options.WriteInto(w)
}

// ReadFrom decodes a context
func (c *Context) ReadFrom(r *utils.SliceReader) error {
	var layout TraceLayout
	if err := layout.ReadFrom(r); err != nil {
		return err
	}

	logLength, err := r.ReadU8()
	if err != nil {
		return err
	}
	if logLength > MaxTraceLengthLog2 {
		return utils.NewInvalidValueError("trace length of 2^%d is not supported", logLength)
	}
	traceLength := 1 << logLength
	if traceLength < MinTraceLength {
		return utils.NewInvalidValueError("trace length must be at least %d, but was %d", MinTraceLength, traceLength)
	}

	metaLen, err := r.ReadU16()
	if err != nil {
		return err
	}
	meta, err := r.ReadBytes(int(metaLen))
	if err != nil {
		return err
	}

	numModulusBytes, err := r.ReadU8()
	if err != nil {
		return err
	}
	if numModulusBytes == 0 {
		return utils.NewInvalidValueError("field modulus cannot be an empty value")
	}
	if numModulusBytes == 255 {
		return utils.NewInvalidValueError("field modulus cannot be encoded in fewer than 255 bytes")
	}
	modulus, err := r.ReadBytes(int(numModulusBytes))
	if err != nil {
		return err
	}
	if utils.BitLength(modulus) == 0 {
		return utils.NewInvalidValueError("field modulus must be positive")
	}

	var options ProofOptions
	if err := options.ReadFrom(r); err != nil {
		return err
	}

	*c = Context{
		traceLayout:       layout,
		traceLength:       traceLength,
		traceMeta:         meta,
		fieldModulusBytes: modulus,
		options:           options,
	}
	return nil
}
