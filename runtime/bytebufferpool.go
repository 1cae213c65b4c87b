package csi

import (
	"io"
	"strconv"
	"sync"
)

// Local byte buffer pool under our control.
//
// Guidelines:
// - PutByteBuffer resets the buffer; do not keep references to Bytes()
//   after putting it back.
// - Use Ensure(n) to grow capacity up-front when you know you will append
//   at least n more bytes. This avoids repeated reallocations.

type ByteBuffer struct {
	b []byte
}

const defaultBufferSize = 1024

var bbPool = sync.Pool{New: func() any { return &ByteBuffer{b: make([]byte, 0, defaultBufferSize)} }}

// GetByteBuffer obtains a pooled ByteBuffer. The buffer is Reset() before
// being returned so length is zero (capacity may be reused).
func GetByteBuffer() *ByteBuffer {
	bb := bbPool.Get().(*ByteBuffer)
	bb.Reset()
	return bb
}

// GetMinSize obtains a pooled ByteBuffer with capacity for at least size bytes.
func GetMinSize(size int) *ByteBuffer {
	bb := GetByteBuffer()
	if size > 0 {
		bb.Ensure(size)
	}
	return bb
}

// PutByteBuffer returns the buffer to the pool after Resetting length to zero.
func PutByteBuffer(bb *ByteBuffer) { bb.Reset(); bbPool.Put(bb) }

// Bytes returns the underlying bytes.
func (bb *ByteBuffer) Bytes() []byte { return bb.b }

// String returns a copy of the contents as a string.
func (bb *ByteBuffer) String() string { return string(bb.b) }

// Len returns length.
func (bb *ByteBuffer) Len() int { return len(bb.b) }

// Cap returns capacity.
func (bb *ByteBuffer) Cap() int { return cap(bb.b) }

// Reset resets the length to zero; capacity is unchanged.
func (bb *ByteBuffer) Reset() { bb.b = bb.b[:0] }

// Ensure ensures there is room for at least n more bytes without reallocation.
// If needed, it grows the underlying slice.
func (bb *ByteBuffer) Ensure(n int) {
	need := len(bb.b) + n
	if cap(bb.b) >= need {
		return
	}
	// Grow: double until enough, then allocate
	c := cap(bb.b)
	if c == 0 {
		c = defaultBufferSize
	}
	for c < need {
		c <<= 1
	}
	nb := make([]byte, len(bb.b), c)
	copy(nb, bb.b)
	bb.b = nb
}

// Discard drops the first n bytes, moving the rest to the front.
func (bb *ByteBuffer) Discard(n int) {
	if n >= len(bb.b) {
		bb.b = bb.b[:0]
		return
	}
	m := copy(bb.b, bb.b[n:])
	bb.b = bb.b[:m]
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.Ensure(len(p))
	bb.b = append(bb.b, p...)
	return len(p), nil
}

// WriteString appends a string.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.Ensure(len(s))
	bb.b = append(bb.b, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.Ensure(1)
	bb.b = append(bb.b, c)
	return nil
}

// WriteInt appends the decimal form of i.
func (bb *ByteBuffer) WriteInt(i int) {
	bb.Ensure(11)
	bb.b = strconv.AppendInt(bb.b, int64(i), 10)
}

// ReadFrom performs a single Read from r into the free capacity, so a
// ByteStream fed from a PTY or socket can be decoded as soon as bytes
// arrive. Unlike io.ReaderFrom it returns io.EOF from r as is.
func (bb *ByteBuffer) ReadFrom(r io.Reader) (int64, error) {
	if cap(bb.b)-len(bb.b) < defaultBufferSize {
		bb.Ensure(defaultBufferSize)
	}
	n, err := r.Read(bb.b[len(bb.b):cap(bb.b)])
	if n > 0 {
		bb.b = bb.b[:len(bb.b)+n]
	}
	return int64(n), err
}
