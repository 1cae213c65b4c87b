// Package csi is a low-level toolkit for decoding terminal control sequences.
//
// The package is built around two types:
//   - Cursor is an advancing, backtrackable view over a caller-owned byte window.
//   - Params is a fixed-capacity accumulator for CSI parameters and sub-parameters.
//
// On top of those it provides a CSI decoder (ReadCSI), a growable ByteStream
// for bytes that arrive in chunks, a Scanner that splits a stream into tokens,
// and wire codecs (CBOR, MessagePack, JSON) for handing a finished Params to
// another process.
//
// Nothing on the decode path allocates: Cursor and Params are plain values
// and may live on the stack. Structure only is recognized here; the meaning of
// a sequence ("cursor up", "set color") is left to the caller.
package csi

import "math"

const (
	// MaxParams is the number of top-level parameter slots in a Params.
	MaxParams = 16

	// MaxSubparams is the number of sub-parameter records in a Params,
	// shared across all of its parameters.
	MaxSubparams = 16

	// Unset is the sentinel for a parameter that was not supplied. It must be
	// read as "use the protocol default", never as the number -1.
	Unset = -1

	// MaxParamValue is the largest value a parameter or sub-parameter can hold.
	MaxParamValue = math.MaxInt32
)

// C0 and C1 bytes that matter to the decoder.
const (
	BEL = 0x07
	CAN = 0x18
	SUB = 0x1a
	ESC = 0x1b
	DEL = 0x7f

	// C1 forms, only recognized when 8-bit controls are enabled.
	DCS8 = 0x90
	SOS8 = 0x98
	CSI8 = 0x9b
	ST8  = 0x9c
	OSC8 = 0x9d
	PM8  = 0x9e
	APC8 = 0x9f
)

// Byte classes of a control sequence (ECMA-48 section 5.4).
const (
	intermediateFirst = 0x20
	intermediateLast  = 0x2f
	prefixFirst       = '<'
	prefixLast        = '?'
	finalFirst        = 0x40
	finalLast         = 0x7e
	escFinalFirst     = 0x30
)

func isDigit(b byte) bool        { return b >= '0' && b <= '9' }
func isIntermediate(b byte) bool { return b >= intermediateFirst && b <= intermediateLast }
func isPrefix(b byte) bool       { return b >= prefixFirst && b <= prefixLast }
func isFinal(b byte) bool        { return b >= finalFirst && b <= finalLast }

// isC0 reports whether b is a C0 control or DEL.
func isC0(b byte) bool { return b < 0x20 || b == DEL }

// isC1 reports whether b is an 8-bit C1 control.
func isC1(b byte) bool { return b >= 0x80 && b <= 0x9f }

// Marshaler is implemented by types that append their CBOR form to b.
type Marshaler interface {
	MarshalCBOR([]byte) ([]byte, error)
}

// Unmarshaler is implemented by types that decode themselves from CBOR,
// returning any leftover bytes.
type Unmarshaler interface {
	UnmarshalCBOR([]byte) ([]byte, error)
}
