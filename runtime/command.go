package csi

// Command packs the non-numeric bytes of a control sequence: the private
// prefix ('<', '=', '>' or '?'), one intermediate byte (0x20-0x2f) and the
// final byte. A zero byte means "absent".
//
// Layout: prefix<<16 | intermediate<<8 | final.
type Command uint32

// PackCommand builds a Command from its parts.
func PackCommand(prefix, intermediate, final byte) Command {
	return Command(uint32(prefix)<<16 | uint32(intermediate)<<8 | uint32(final))
}

// Prefix returns the private prefix byte, or 0.
func (c Command) Prefix() byte { return byte(c >> 16) }

// Intermediate returns the intermediate byte, or 0.
func (c Command) Intermediate() byte { return byte(c >> 8) }

// Final returns the final byte.
func (c Command) Final() byte { return byte(c) }

// String renders the command in the notation used by terminal
// documentation, e.g. "CSI ? h" or "CSI Sp q".
func (c Command) String() string {
	out := make([]byte, 0, 12)
	out = append(out, "CSI"...)
	if p := c.Prefix(); p != 0 {
		out = append(out, ' ', p)
	}
	if i := c.Intermediate(); i != 0 {
		if i == ' ' {
			out = append(out, " Sp"...)
		} else {
			out = append(out, ' ', i)
		}
	}
	if f := c.Final(); f != 0 {
		out = append(out, ' ', f)
	}
	return string(out)
}
