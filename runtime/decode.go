package csi

// DecodeOptions controls how control sequences are recognized.
type DecodeOptions struct {
	// Allow8Bit accepts the single-byte C1 introducers (0x9b for CSI,
	// 0x9d for OSC, ...) in addition to their ESC-prefixed forms. Leave it
	// off for UTF-8 streams, where those bytes are continuation bytes.
	Allow8Bit bool
}

// ReadCSI decodes one control sequence at the cursor into p, which is
// reset first. On success the cursor sits after the final byte.
//
// Errors:
//   - ErrNotCSI: the cursor is not at ESC [ (nothing consumed).
//   - ErrShortBytes: the window ends inside the sequence; the cursor is
//     rewound to where the sequence started.
//   - *InvalidByteError: a byte that cannot appear in a control sequence
//     was found; the cursor sits on that byte.
//   - *ParamOverflowError, *UnsupportedError: the sequence was consumed in
//     full and p holds what could be represented.
//
// Parameters and sub-parameters beyond capacity are dropped silently.
func ReadCSI(c *Cursor, p *Params) error {
	return ReadCSIOpts(c, p, DecodeOptions{})
}

// ReadCSIOpts is ReadCSI with explicit options.
func ReadCSIOpts(c *Cursor, p *Params, opts DecodeOptions) error {
	start := c.Consumed()
	b, ok := c.TryPeek()
	if !ok {
		return ErrShortBytes
	}
	switch {
	case b == ESC:
		intro, ok := c.PeekRaw(2)
		if !ok {
			return ErrShortBytes
		}
		if intro[1] != '[' {
			return ErrNotCSI
		}
		c.AdvanceN(2)
	case b == CSI8 && opts.Allow8Bit:
		c.Advance()
	default:
		return ErrNotCSI
	}

	p.Reset()
	err := readCSIBody(c, p, start)
	if err == ErrShortBytes {
		c.BacktrackBy(c.Consumed() - start)
	}
	return err
}

func readCSIBody(c *Cursor, p *Params, start int) error {
	var (
		prefix, inter byte
		deferred      error
	)

	b, ok := c.TryPeek()
	if !ok {
		return ErrShortBytes
	}
	if isPrefix(b) {
		prefix = b
		c.Advance()
		if b, ok = c.TryPeek(); !ok {
			return ErrShortBytes
		}
	}

	if isDigit(b) || b == ';' || b == ':' {
		for {
			v, err := readField(c, start)
			if err != nil && deferred == nil {
				deferred = err
			}
			added := p.AddParameter(v)
			idx := p.Count() - 1
			for {
				if b, ok = c.TryPeek(); !ok {
					return ErrShortBytes
				}
				if b != ':' {
					break
				}
				c.Advance()
				sv, err := readField(c, start)
				if err != nil && deferred == nil {
					deferred = err
				}
				if added {
					p.AddSubparameter(idx, sv)
				}
			}
			if b != ';' {
				break
			}
			c.Advance()
		}
	}

	n := 0
	for isIntermediate(b) {
		if n == 0 {
			inter = b
		}
		n++
		c.Advance()
		if b, ok = c.TryPeek(); !ok {
			return ErrShortBytes
		}
	}

	if !isFinal(b) {
		return &InvalidByteError{Byte: b, Offset: c.Consumed() - start}
	}
	c.Advance()
	p.SetCommand(PackCommand(prefix, inter, b))
	if deferred == nil && n > 1 {
		deferred = &UnsupportedError{Reason: "more than one intermediate byte"}
	}
	return deferred
}

// readField reads an optional numeral. An empty field yields Unset; an
// oversized one yields MaxParamValue and a *ParamOverflowError.
func readField(c *Cursor, start int) (int, error) {
	at := c.Consumed() - start
	v, overflowed, ok := c.ConsumeInteger()
	if !ok {
		return Unset, nil
	}
	if overflowed {
		return MaxParamValue, &ParamOverflowError{Offset: at}
	}
	return v, nil
}
