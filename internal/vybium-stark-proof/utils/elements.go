package utils

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// ElementBytes is the encoded size of one base field element
const ElementBytes = 8

// WriteElements appends each element as 8 little-endian bytes
func (w *ByteWriter) WriteElements(elements []field.Element) {
	for _, e := range elements {
		w.WriteU64(e.Value())
	}
}

// ElementsToBytes encodes elements into a fresh byte slice
func ElementsToBytes(elements []field.Element) []byte {
	w := NewByteWriter(len(elements) * ElementBytes)
	w.WriteElements(elements)
	return w.Bytes()
}

// ReadElements decodes n base field elements, rejecting non-canonical values
func (r *SliceReader) ReadElements(n int) ([]field.Element, error) {
	if n < 0 {
		return nil, NewInvalidValueError("cannot read %d elements", n)
	}
	if r.Remaining() < n*ElementBytes {
		return nil, newEOFError(n*ElementBytes, r.Remaining())
	}
	elements := make([]field.Element, n)
	for i := range elements {
		v, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		if v >= field.P {
			return nil, NewInvalidValueError("value %d is not a canonical field element", v)
		}
		elements[i] = field.New(v)
	}
	return elements, nil
}

// ElementsFromBytes decodes a byte string that holds exactly n elements
func ElementsFromBytes(data []byte, n int) ([]field.Element, error) {
	if len(data) != n*ElementBytes {
		return nil, NewInvalidValueError("expected %d bytes for %d elements, but was %d", n*ElementBytes, n, len(data))
	}
	return NewSliceReader(data).ReadElements(n)
}
