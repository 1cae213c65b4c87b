package csi

import (
	"io"
	"math"
)

const (
	// DefaultStreamSize is the initial capacity of a ByteStream.
	DefaultStreamSize = 100000

	// MaxStreamSize bounds how far a ByteStream may grow.
	MaxStreamSize = math.MaxInt32
)

// ByteStream buffers bytes from a source that delivers them in chunks
// (a PTY, a socket) until they can be decoded. Bytes at the head that
// have been decoded are marked consumed; the rest are exposed through
// Cursor.
//
// The zero value is ready to use.
type ByteStream struct {
	buf ByteBuffer
	off int // consumed bytes at the head of buf
}

// Len returns the number of unconsumed bytes.
func (s *ByteStream) Len() int { return s.buf.Len() - s.off }

// Consumed returns the number of bytes at the head of the buffer that
// have been consumed and not yet compacted away.
func (s *ByteStream) Consumed() int { return s.off }

// Cap returns the capacity of the underlying buffer.
func (s *ByteStream) Cap() int { return s.buf.Cap() }

// Bytes returns the unconsumed bytes. The slice is invalidated by the
// next Append, ReadFrom, Compact or Reset.
func (s *ByteStream) Bytes() []byte { return s.buf.Bytes()[s.off:] }

// Cursor returns a cursor over the unconsumed bytes. After decoding,
// report progress with Consume(cur.Consumed()).
func (s *ByteStream) Cursor() Cursor { return Cursor{buf: s.Bytes()} }

// Append copies b to the end of the stream.
func (s *ByteStream) Append(b []byte) error {
	if err := s.reserve(len(b)); err != nil {
		return err
	}
	s.buf.Write(b)
	return nil
}

// ReadFrom performs a single read from r into the stream. It returns
// io.EOF from r unchanged.
func (s *ByteStream) ReadFrom(r io.Reader) (int64, error) {
	if err := s.reserve(defaultBufferSize); err != nil {
		return 0, err
	}
	return s.buf.ReadFrom(r)
}

// reserve compacts consumed bytes away and checks the size limit before
// n more bytes are added.
func (s *ByteStream) reserve(n int) error {
	if s.Len() == 0 {
		s.buf.Reset()
		s.off = 0
	} else if s.off > 0 && s.buf.Cap()-s.buf.Len() < n {
		s.Compact()
	}
	if s.buf.Cap() == 0 {
		s.buf.Ensure(DefaultStreamSize)
	}
	if s.buf.Len()+n > MaxStreamSize {
		return ErrStreamTooLarge
	}
	return nil
}

// Consume marks the next n bytes as decoded. n must not exceed Len.
func (s *ByteStream) Consume(n int) {
	if n < 0 || n > s.Len() {
		panic(&ContractError{Op: "ByteStream.Consume", Detail: "cannot consume " + itoa(n), Pos: s.off, Len: s.Len()})
	}
	s.off += n
}

// ConsumeAll marks every buffered byte as decoded.
func (s *ByteStream) ConsumeAll() { s.off = s.buf.Len() }

// Compact moves the unconsumed bytes to the front of the buffer.
func (s *ByteStream) Compact() {
	if s.off == 0 {
		return
	}
	s.buf.Discard(s.off)
	s.off = 0
}

// Reset empties the stream. A buffer that has grown to twice the default
// size or more is released so one burst of output does not pin memory.
func (s *ByteStream) Reset() {
	s.off = 0
	if s.buf.Cap() >= 2*DefaultStreamSize {
		s.buf = ByteBuffer{}
		return
	}
	s.buf.Reset()
}
