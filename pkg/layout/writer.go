package layout

import (
	"encoding/binary"
	"math"
)

// Writer is an append-only little-endian byte cursor.
type Writer struct {
	buf []byte
}

// NewWriter returns a writer with room for capacity bytes.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// PutU32 appends a little-endian u32.
func (w *Writer) PutU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// PutF32 appends a little-endian IEEE-754 f32.
func (w *Writer) PutF32(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

// PadTo zero-extends the buffer to n bytes. It panics if more than n bytes
// have already been written, which means a Value lied about its size.
func (w *Writer) PadTo(n int) {
	if len(w.buf) > n {
		panic("layout: write past declared size")
	}
	for len(w.buf) < n {
		w.buf = append(w.buf, 0)
	}
}

// Bytes returns the encoded bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}
