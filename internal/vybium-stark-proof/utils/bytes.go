package utils

import (
	"encoding/binary"
	"fmt"
)

// Serializable is implemented by every value with a wire representation.
type Serializable interface {
	WriteInto(w *ByteWriter)
}

// Deserializable is implemented by pointer receivers that can be filled from a reader.
type Deserializable interface {
	ReadFrom(r *SliceReader) error
}

// ByteWriter accumulates a little-endian byte encoding.
type ByteWriter struct {
	buf []byte
}

// NewByteWriter creates a writer with the given initial capacity
func NewByteWriter(capacity int) *ByteWriter {
	return &ByteWriter{buf: make([]byte, 0, capacity)}
}

// WriteU8 appends one byte
func (w *ByteWriter) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16 appends a little-endian uint16
func (w *ByteWriter) WriteU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteU32 appends a little-endian uint32
func (w *ByteWriter) WriteU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteU64 appends a little-endian uint64
func (w *ByteWriter) WriteU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteBytes appends raw bytes without a length prefix
func (w *ByteWriter) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Write serializes a value into the writer
func (w *ByteWriter) Write(s Serializable) {
	s.WriteInto(w)
}

// Len returns the number of bytes written so far
func (w *ByteWriter) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated encoding
func (w *ByteWriter) Bytes() []byte {
	return w.buf
}

// ToBytes serializes a single value
func ToBytes(s Serializable) []byte {
	w := NewByteWriter(64)
	s.WriteInto(w)
	return w.Bytes()
}

// SliceReader reads a little-endian encoding from a byte slice.
// Every read either fully succeeds or returns a *DeserializationError.
type SliceReader struct {
	source []byte
	pos    int
}

// NewSliceReader wraps source without copying it
func NewSliceReader(source []byte) *SliceReader {
	return &SliceReader{source: source}
}

// Remaining returns the number of unread bytes
func (r *SliceReader) Remaining() int {
	return len(r.source) - r.pos
}

// HasMoreBytes reports whether any bytes are left
func (r *SliceReader) HasMoreBytes() bool {
	return r.pos < len(r.source)
}

// Position returns the offset of the next byte to be read
func (r *SliceReader) Position() int {
	return r.pos
}

func (r *SliceReader) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewInvalidValueError("cannot read a negative number of bytes (%d)", n)
	}
	if r.Remaining() < n {
		return nil, newEOFError(n, r.Remaining())
	}
	b := r.source[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads one byte
func (r *SliceReader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16
func (r *SliceReader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32
func (r *SliceReader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64
func (r *SliceReader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadBytes returns a copy of the next n bytes
func (r *SliceReader) ReadBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Read decodes a value from the reader
func (r *SliceReader) Read(d Deserializable) error {
	return d.ReadFrom(r)
}

// ReadFromBytes decodes d from source and fails if any bytes remain.
func ReadFromBytes(source []byte, d Deserializable) error {
	r := NewSliceReader(source)
	if err := d.ReadFrom(r); err != nil {
		return err
	}
	if r.HasMoreBytes() {
		return &DeserializationError{
			Type:    DeserializationErrorUnconsumedBytes,
			Message: fmt.Sprintf("%d bytes left after decoding", r.Remaining()),
		}
	}
	return nil
}
