package air

import (
	"bytes"
	"fmt"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

const (
	// MaxAuxSegments is the number of auxiliary trace segments a layout may declare
	MaxAuxSegments = 1

	// MaxTraceWidth is the largest total number of trace columns
	MaxTraceWidth = 255

	// MinTraceLength is the smallest supported trace length
	MinTraceLength = 8

	// MaxTraceLengthLog2 keeps trace length times MaxBlowupFactor within an int
	MaxTraceLengthLog2 = 55

	// MaxTraceMetaLength bounds the opaque trace metadata
	MaxTraceMetaLength = 65535
)

// AuxSegment describes one auxiliary trace segment
type AuxSegment struct {
	Width uint8
	Rands uint8 // random elements drawn before building this segment
}

// TraceLayout describes how the columns of an execution trace are split into segments.
type TraceLayout struct {
	mainWidth uint8
	aux       []AuxSegment
}

// NewTraceLayout validates and creates a layout
func NewTraceLayout(mainWidth int, aux ...AuxSegment) (TraceLayout, error) {
	if mainWidth <= 0 {
		return TraceLayout{}, fmt.Errorf("main trace segment must have at least one column")
	}
	if len(aux) > MaxAuxSegments {
		return TraceLayout{}, fmt.Errorf("at most %d auxiliary segments are supported, got %d", MaxAuxSegments, len(aux))
	}

	total := mainWidth
	for i, seg := range aux {
		if seg.Width == 0 {
			return TraceLayout{}, fmt.Errorf("auxiliary segment %d must have at least one column", i)
		}
		total += int(seg.Width)
	}
	if total > MaxTraceWidth {
		return TraceLayout{}, fmt.Errorf("total trace width cannot exceed %d, but was %d", MaxTraceWidth, total)
	}

	segments := make([]AuxSegment, len(aux))
	copy(segments, aux)
	return TraceLayout{mainWidth: uint8(mainWidth), aux: segments}, nil
}

// NumSegments returns the number of trace segments, including the main one
func (l TraceLayout) NumSegments() int {
	return 1 + len(l.aux)
}

// MainTraceWidth returns the number of columns in the main segment
func (l TraceLayout) MainTraceWidth() int {
	return int(l.mainWidth)
}

// AuxTraceWidth returns the number of columns across all auxiliary segments
func (l TraceLayout) AuxTraceWidth() int {
	width := 0
	for _, seg := range l.aux {
		width += int(seg.Width)
	}
	return width
}

// TraceWidth returns the total number of columns
func (l TraceLayout) TraceWidth() int {
	return l.MainTraceWidth() + l.AuxTraceWidth()
}

// SegmentWidth returns the width of segment i (0 is the main segment)
func (l TraceLayout) SegmentWidth(i int) int {
	if i == 0 {
		return int(l.mainWidth)
	}
	return int(l.aux[i-1].Width)
}

// AuxSegments returns a copy of the auxiliary segment descriptors
func (l TraceLayout) AuxSegments() []AuxSegment {
	out := make([]AuxSegment, len(l.aux))
	copy(out, l.aux)
	return out
}

// Equal reports whether two layouts are identical
func (l TraceLayout) Equal(other TraceLayout) bool {
	if l.mainWidth != other.mainWidth || len(l.aux) != len(other.aux) {
		return false
	}
	for i := range l.aux {
		if l.aux[i] != other.aux[i] {
			return false
		}
	}
	return true
}

// WriteInto serializes the layout
func (l TraceLayout) WriteInto(w *utils.ByteWriter) {
	w.WriteU8(l.mainWidth)
	w.WriteU8(uint8(len(l.aux)))
	for _, seg := range l.aux {
		w.WriteU8(seg.Width)
		w.WriteU8(seg.Rands)
	}
}

// ReadFrom decodes a layout
func (l *TraceLayout) ReadFrom(r *utils.SliceReader) error {
	mainWidth, err := r.ReadU8()
	if err != nil {
		return err
	}
	numAux, err := r.ReadU8()
	if err != nil {
		return err
	}
	if int(numAux) > MaxAuxSegments {
		return utils.NewInvalidValueError("number of auxiliary segments cannot exceed %d, but was %d", MaxAuxSegments, numAux)
	}

	aux := make([]AuxSegment, numAux)
	for i := range aux {
		if aux[i].Width, err = r.ReadU8(); err != nil {
			return err
		}
		if aux[i].Rands, err = r.ReadU8(); err != nil {
			return err
		}
	}

	layout, err := NewTraceLayout(int(mainWidth), aux...)
	if err != nil {
		return utils.NewInvalidValueError("invalid trace layout: %v", err)
	}
	*l = layout
	return nil
}

// TraceInfo describes the shape of an execution trace.
type TraceInfo struct {
	layout TraceLayout
	length int
	meta   []byte
}

// NewTraceInfo creates trace info for a trace of the given layout and length
func NewTraceInfo(layout TraceLayout, length int, meta []byte) (TraceInfo, error) {
	if length < MinTraceLength {
		return TraceInfo{}, fmt.Errorf("trace length must be at least %d, but was %d", MinTraceLength, length)
	}
	if !utils.IsPowerOfTwo(uint64(length)) {
		return TraceInfo{}, fmt.Errorf("trace length must be a power of 2, but was %d", length)
	}
	if length > 1<<MaxTraceLengthLog2 {
		return TraceInfo{}, fmt.Errorf("trace length cannot exceed 2^%d, but was %d", MaxTraceLengthLog2, length)
	}
	if len(meta) > MaxTraceMetaLength {
		return TraceInfo{}, fmt.Errorf("trace metadata cannot exceed %d bytes, but was %d", MaxTraceMetaLength, len(meta))
	}
	return TraceInfo{layout: layout, length: length, meta: bytes.Clone(meta)}, nil
}

// Layout returns the trace layout
func (ti TraceInfo) Layout() TraceLayout { return ti.layout }

// Length returns the number of rows in the trace
func (ti TraceInfo) Length() int { return ti.length }

// Meta returns a copy of the trace metadata
func (ti TraceInfo) Meta() []byte { return bytes.Clone(ti.meta) }

// Width returns the total number of trace columns
func (ti TraceInfo) Width() int { return ti.layout.TraceWidth() }
