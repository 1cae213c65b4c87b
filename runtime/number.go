package csi

import "strconv"

// ConsumeInteger consumes a run of ASCII decimal digits and returns its
// value.
//
// ok is false, and the cursor untouched, when no bytes remain or the next
// byte is not a digit.
//
// If the numeral does not fit in MaxParamValue, overflowed is true and n
// holds the last partial value that did fit; callers must check overflowed
// before using n. The cursor is still moved past every digit, so a caller
// can skip the oversized field and keep decoding.
func (c *Cursor) ConsumeInteger() (n int, overflowed bool, ok bool) {
	i := c.pos
	for i < len(c.buf) {
		b := c.buf[i]
		if !isDigit(b) {
			break
		}
		d := int(b - '0')
		if !overflowed {
			if n > (MaxParamValue-d)/10 {
				overflowed = true
			} else {
				n = n*10 + d
			}
		}
		i++
	}
	if i == c.pos {
		return 0, false, false
	}
	c.pos = i
	return n, overflowed, true
}

// clampParam limits v to the storable range. Negative values collapse to
// Unset.
func clampParam(v int) int32 {
	if v < 0 {
		return Unset
	}
	if v > MaxParamValue {
		return MaxParamValue
	}
	return int32(v)
}

func itoa(i int) string { return strconv.Itoa(i) }

func quoteByte(b byte) string { return strconv.QuoteRune(rune(b)) }
