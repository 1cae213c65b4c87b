package csi

import (
	"errors"
	"strconv"
)

const resumableDefault = false

var (
	// ErrShortBytes is returned when the window ends before a complete
	// token. The cursor has been rewound; retry once more bytes arrive.
	ErrShortBytes error = errShort{}

	// ErrNotCSI is returned by ReadCSI when the cursor is not positioned
	// at a control sequence introducer.
	ErrNotCSI error = errors.New("csi: not a control sequence introducer")

	// ErrCapacity is returned by the wire decoders when an encoded Params
	// holds more parameters or sub-parameters than fit.
	ErrCapacity error = errors.New("csi: encoded parameters exceed capacity")

	// ErrMalformed is returned by the wire decoders for input that is
	// well-typed but describes an impossible Params, such as a
	// sub-parameter attached to a missing parameter.
	ErrMalformed error = errors.New("csi: malformed encoded parameters")

	// ErrStreamTooLarge is returned when appending would grow a ByteStream
	// past MaxStreamSize.
	ErrStreamTooLarge error = errors.New("csi: byte stream too large")
)

// Error is the interface satisfied by all of the errors that originate
// from this package.
type Error interface {
	error

	// Resumable reports whether decoding can continue past the offending
	// input. A false value means the caller has to wait for more data or
	// that the decoder itself is in an inconsistent state.
	Resumable() bool
}

// contextError allows Error instances to be enhanced with additional
// context about their origin.
type contextError interface {
	Error

	// withContext must not modify the error instance - it must clone and
	// return a new error with the context added.
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	if e, ok := e.(errWrapped); ok && e.cause != nil {
		out = e.cause
	}
	return out
}

// Resumable returns whether or not the error means that the rest of the
// stream can still be decoded.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context, for example the
// stream offset at which it happened. Underlying errors can be retrieved
// using Cause() or errors.Is/As.
//
// ErrShortBytes is never wrapped so callers can compare it directly.
func WrapError(err error, ctx ...any) error {
	switch e := err.(type) {
	case errShort:
		return e
	case contextError:
		return e.withContext(ctxString(ctx))
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

func ctxString(ctx []any) string {
	out := ""
	for idx, c := range ctx {
		if idx > 0 {
			out += "/"
		}
		switch v := c.(type) {
		case string:
			out += v
		case int:
			out += strconv.Itoa(v)
		default:
			out += "?"
		}
	}
	return out
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	}
	return add
}

// errWrapped allows arbitrary errors passed to WrapError to be enhanced with
// context and unwrapped with Cause()
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	}
	return e.cause.Error()
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

type errShort struct{}

func (e errShort) Error() string   { return "csi: too few bytes left to read sequence" }
func (e errShort) Resumable() bool { return false }

// ContractError is the panic value raised when a Cursor, ByteStream or
// Params method is called in violation of its precondition. It signals a
// bug in the calling decode loop, not bad input.
type ContractError struct {
	Op     string // method that was misused
	Detail string
	Pos    int // bytes consumed when the violation happened
	Len    int // bytes remaining when the violation happened
}

// Error implements the error interface
func (c *ContractError) Error() string {
	return "csi: contract violation in " + c.Op + ": " + c.Detail +
		" (consumed=" + strconv.Itoa(c.Pos) + " remaining=" + strconv.Itoa(c.Len) + ")"
}

// Resumable is always 'false' for contract violations
func (c *ContractError) Resumable() bool { return false }

// ParamOverflowError is returned when a numeric field of a control
// sequence does not fit in MaxParamValue. The whole sequence has been
// consumed.
type ParamOverflowError struct {
	Offset int // offset of the first digit from the start of the sequence
	ctx    string
}

// Error implements the error interface
func (p *ParamOverflowError) Error() string {
	out := "csi: parameter at offset " + strconv.Itoa(p.Offset) + " overflows int32"
	if p.ctx != "" {
		out += " at " + p.ctx
	}
	return out
}

// Resumable is always 'true' for overflows
func (p *ParamOverflowError) Resumable() bool { return true }

func (p *ParamOverflowError) withContext(ctx string) error {
	o := *p
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

// InvalidByteError is returned when a byte that cannot appear in a
// control sequence interrupts one. The offending byte is left unconsumed.
type InvalidByteError struct {
	Byte   byte
	Offset int // offset of Byte from the start of the sequence
	ctx    string
}

// Error implements the error interface
func (i *InvalidByteError) Error() string {
	out := "csi: unexpected byte 0x" + strconv.FormatUint(uint64(i.Byte), 16) +
		" at offset " + strconv.Itoa(i.Offset)
	if i.ctx != "" {
		out += " at " + i.ctx
	}
	return out
}

// Resumable is always 'true' for invalid bytes
func (i *InvalidByteError) Resumable() bool { return true }

func (i *InvalidByteError) withContext(ctx string) error {
	o := *i
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

// UnsupportedError is returned for a well-formed sequence that Params
// cannot represent, such as one with several intermediate bytes.
type UnsupportedError struct {
	Reason string
	ctx    string
}

// Error implements the error interface
func (u *UnsupportedError) Error() string {
	out := "csi: unsupported sequence: " + u.Reason
	if u.ctx != "" {
		out += " at " + u.ctx
	}
	return out
}

// Resumable is always 'true' for unsupported sequences
func (u *UnsupportedError) Resumable() bool { return true }

func (u *UnsupportedError) withContext(ctx string) error {
	o := *u
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

// TypeError is returned by the wire decoders when an item of the wrong
// type is found.
type TypeError struct {
	Want string
	Got  byte // leading byte of the offending item
}

// Error implements the error interface
func (t TypeError) Error() string {
	return "csi: expected " + t.Want + ", got lead byte 0x" + strconv.FormatUint(uint64(t.Got), 16)
}

// Resumable returns 'false' for TypeErrors
func (t TypeError) Resumable() bool { return false }
