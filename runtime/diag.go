package csi

import "unicode/utf8"

// Describe renders p in CSI parameter syntax: parameters joined by ';',
// each followed by its sub-parameters joined by ':'. Unset values and
// sub-parameter positions with no record render as empty fields, so
// parameters [38, unset, 5] with sub-parameters 2 and 255 on the first
// render as "38:2:255;;5".
//
// The output is for logs and error messages; it is not meant to be parsed.
func (p *Params) Describe() string {
	if p.count == 0 {
		return ""
	}
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	p.describeBuf(bb)
	return bb.String()
}

// String implements fmt.Stringer
func (p *Params) String() string { return p.Describe() }

func (p *Params) describeBuf(bb *ByteBuffer) {
	for i := 0; i < int(p.count); i++ {
		if i > 0 {
			bb.WriteByte(';')
		}
		if p.IsSet(i) {
			bb.WriteInt(int(p.p[i]))
		}
		hi := p.maxSubIndex(i)
		for pos := 0; pos <= hi; pos++ {
			bb.WriteByte(':')
			if v := p.Subparameter(i, pos); v != Unset {
				bb.WriteInt(v)
			}
		}
	}
}

// DebugString renders the unread bytes of c as text for logging. The
// bytes are decoded as UTF-8 (invalid sequences become U+FFFD) and C0
// controls are shown in caret notation, so ESC [ 1 m reads "^[[1m". C1
// controls, whether UTF-8 encoded or raw 8-bit, are shown as their 7-bit
// ESC equivalent: NEL reads "^[E" and a raw 0x9b reads "^[[".
func (c *Cursor) DebugString() string { return DebugString(c.Remaining()) }

// DebugString renders b as DebugString does for a Cursor.
func DebugString(b []byte) string {
	bb := GetMinSize(len(b) + len(b)/4)
	defer PutByteBuffer(bb)
	appendCaret(bb, b)
	return bb.String()
}

func appendCaret(bb *ByteBuffer, b []byte) {
	for len(b) > 0 {
		c := b[0]
		if c < utf8.RuneSelf {
			switch {
			case c == DEL:
				bb.WriteString("^?")
			case c < 0x20:
				bb.WriteByte('^')
				bb.WriteByte(c + 0x40)
			default:
				bb.WriteByte(c)
			}
			b = b[1:]
			continue
		}
		r, size := utf8.DecodeRune(b)
		switch {
		case r == utf8.RuneError && size <= 1 && c <= 0x9f:
			bb.WriteString("^[")
			bb.WriteByte(c - 0x40)
		case r == utf8.RuneError && size <= 1:
			bb.WriteString("�")
		case r >= 0x80 && r <= 0x9f:
			bb.WriteString("^[")
			bb.WriteByte(byte(r) - 0x40)
		default:
			bb.Write(b[:size])
		}
		b = b[size:]
	}
}
