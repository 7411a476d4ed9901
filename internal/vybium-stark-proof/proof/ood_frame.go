package proof

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// EvaluationFrame holds two consecutive trace rows
type EvaluationFrame struct {
	Current []field.Element
	Next    []field.Element
}

// OodFrame holds the trace states and constraint composition evaluations at
// the out-of-domain point sampled by the verifier.
type OodFrame struct {
	traceStates []byte
	evaluations []byte
}

// NewOodFrame encodes the trace states (current row, then next row) and the
// constraint evaluations.
func NewOodFrame(traceStates [][]field.Element, evaluations []field.Element) (OodFrame, error) {
	if len(traceStates) != 2 {
		return OodFrame{}, fmt.Errorf("expected current and next trace states, got %d rows", len(traceStates))
	}
	if len(traceStates[0]) == 0 || len(traceStates[0]) != len(traceStates[1]) {
		return OodFrame{}, fmt.Errorf("trace states must be non-empty and equally wide")
	}
	if len(evaluations) == 0 {
		return OodFrame{}, fmt.Errorf("at least one constraint evaluation is required")
	}

	w := utils.NewByteWriter(2 * len(traceStates[0]) * utils.ElementBytes)
	w.WriteElements(traceStates[0])
	w.WriteElements(traceStates[1])
	states := w.Bytes()
	evals := utils.ElementsToBytes(evaluations)
	if len(states) > math.MaxUint16 || len(evals) > math.MaxUint16 {
		return OodFrame{}, fmt.Errorf("out-of-domain frame is too large to encode")
	}
	return OodFrame{traceStates: states, evaluations: evals}, nil
}

// Parse decodes the frame into main and auxiliary trace frames and the
// constraint evaluations. The aux frame is nil when auxWidth is zero.
func (f OodFrame) Parse(mainWidth, auxWidth, numEvaluations int) (*EvaluationFrame, *EvaluationFrame, []field.Element, error) {
	width := mainWidth + auxWidth
	if mainWidth <= 0 || auxWidth < 0 {
		return nil, nil, nil, utils.NewInvalidValueError("invalid trace widths %d and %d", mainWidth, auxWidth)
	}
	states, err := utils.ElementsFromBytes(f.traceStates, 2*width)
	if err != nil {
		return nil, nil, nil, err
	}
	evaluations, err := utils.ElementsFromBytes(f.evaluations, numEvaluations)
	if err != nil {
		return nil, nil, nil, err
	}

	current, next := states[:width], states[width:]
	main := &EvaluationFrame{Current: current[:mainWidth], Next: next[:mainWidth]}
	var aux *EvaluationFrame
	if auxWidth > 0 {
		aux = &EvaluationFrame{Current: current[mainWidth:], Next: next[mainWidth:]}
	}
	return main, aux, evaluations, nil
}

// Equal reports whether two frames are identical
func (f OodFrame) Equal(other OodFrame) bool {
	return bytes.Equal(f.traceStates, other.traceStates) && bytes.Equal(f.evaluations, other.evaluations)
}

// WriteInto serializes the frame
func (f OodFrame) WriteInto(w *utils.ByteWriter) {
	w.WriteU16(uint16(len(f.traceStates)))
	w.WriteBytes(f.traceStates)
	w.WriteU16(uint16(len(f.evaluations)))
	w.WriteBytes(f.evaluations)
}

// ReadFrom decodes a frame
func (f *OodFrame) ReadFrom(r *utils.SliceReader) error {
	n, err := r.ReadU16()
	if err != nil {
		return err
	}
	states, err := r.ReadBytes(int(n))
	if err != nil {
		return err
	}
	n, err = r.ReadU16()
	if err != nil {
		return err
	}
	evaluations, err := r.ReadBytes(int(n))
	if err != nil {
		return err
	}
	*f = OodFrame{traceStates: states, evaluations: evaluations}
	return nil
}
