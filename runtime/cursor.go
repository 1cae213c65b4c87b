package csi

import "bytes"

// Cursor is a read position inside a caller-owned byte window. It never
// copies or retains ownership of the window; the caller must keep the
// bytes alive and unmodified while the cursor is in use.
//
// The bytes already consumed always sit immediately before the read
// position, so BacktrackAll returns to where the cursor started.
//
// Peek, Consume, Advance, AdvanceN, ConsumeOrFail and BacktrackBy panic
// with a *ContractError when their precondition does not hold. The Try*
// forms, PeekRaw and BytesUntil report exhaustion through their results.
//
// The zero value is an empty cursor.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor { return &Cursor{buf: b} }

// Reset rebinds the cursor to b and clears the consumed count.
func (c *Cursor) Reset(b []byte) {
	c.buf = b
	c.pos = 0
}

// CanAdvance reports whether at least one byte remains.
func (c *Cursor) CanAdvance() bool { return c.pos < len(c.buf) }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Consumed returns the number of bytes consumed since the cursor was
// created or last reset.
func (c *Cursor) Consumed() int { return c.pos }

// Remaining returns the unread bytes. The slice aliases the window.
func (c *Cursor) Remaining() []byte { return c.buf[c.pos:] }

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() byte {
	if c.pos >= len(c.buf) {
		c.violate("Peek", "no bytes remaining")
	}
	return c.buf[c.pos]
}

// TryPeek returns the next byte, or false if none remain.
func (c *Cursor) TryPeek() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Advance moves past the next byte.
func (c *Cursor) Advance() {
	if c.pos >= len(c.buf) {
		c.violate("Advance", "no bytes remaining")
	}
	c.pos++
}

// TryAdvance moves past the next byte, or returns false without effect
// if none remain.
func (c *Cursor) TryAdvance() bool {
	if c.pos >= len(c.buf) {
		return false
	}
	c.pos++
	return true
}

// AdvanceN moves past the next n bytes. n must not exceed Len.
func (c *Cursor) AdvanceN(n int) {
	if n < 0 || n > len(c.buf)-c.pos {
		c.violate("AdvanceN", "cannot advance by "+itoa(n))
	}
	c.pos += n
}

// Consume returns the next byte and moves past it.
func (c *Cursor) Consume() byte {
	if c.pos >= len(c.buf) {
		c.violate("Consume", "no bytes remaining")
	}
	b := c.buf[c.pos]
	c.pos++
	return b
}

// TryConsume returns the next byte and moves past it, or returns false
// without effect if none remain.
func (c *Cursor) TryConsume() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++
	return b, true
}

// ConsumeOrFail consumes the next byte, which must equal expected. It is
// meant for markers the caller has already recognized.
func (c *Cursor) ConsumeOrFail(expected byte) {
	b, ok := c.TryConsume()
	if !ok {
		c.violate("ConsumeOrFail", "no bytes remaining, wanted "+quoteByte(expected))
	}
	if b != expected {
		c.pos--
		c.violate("ConsumeOrFail", "got "+quoteByte(b)+", wanted "+quoteByte(expected))
	}
}

// BacktrackBy moves the read position back by n already-consumed bytes.
func (c *Cursor) BacktrackBy(n int) {
	if n < 0 || n > c.pos {
		c.violate("BacktrackBy", "cannot backtrack by "+itoa(n))
	}
	c.pos -= n
}

// BacktrackAll rewinds to the position the cursor started at.
func (c *Cursor) BacktrackAll() { c.pos = 0 }

// BytesUntil returns the distance from the read position to the first
// occurrence of b in the unread bytes, without consuming anything.
func (c *Cursor) BytesUntil(b byte) (int, bool) {
	i := bytes.IndexByte(c.buf[c.pos:], b)
	if i < 0 {
		return 0, false
	}
	return i, true
}

// PeekRaw returns the next n bytes without consuming them, or false if
// fewer than n remain. The result aliases the window and has its capacity
// clipped so appending to it cannot overwrite bytes that follow.
func (c *Cursor) PeekRaw(n int) ([]byte, bool) {
	if n < 0 || n > len(c.buf)-c.pos {
		return nil, false
	}
	return c.buf[c.pos : c.pos+n : c.pos+n], true
}

func (c *Cursor) violate(op, detail string) {
	panic(&ContractError{Op: op, Detail: detail, Pos: c.pos, Len: len(c.buf) - c.pos})
}
