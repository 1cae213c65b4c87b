package core

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	xansi "github.com/charmbracelet/x/ansi"

	csi "github.com/synadia-labs/csi.go/runtime"
)

// tokenWriter renders one token of the dump. off is the stream offset of
// the first byte of tok.
type tokenWriter interface {
	WriteToken(off int64, tok *csi.Token) error
	Flush() error
}

func newTokenWriter(w io.Writer, format string, pal *palette) (tokenWriter, error) {
	bw := bufio.NewWriter(w)
	switch format {
	case "", "text":
		return &textWriter{w: bw, pal: pal}, nil
	case "json":
		return &jsonWriter{w: bw, enc: json.NewEncoder(bw)}, nil
	case "cbor":
		return &hexWriter{w: bw, marshal: (*csi.Params).MarshalCBOR}, nil
	case "msgpack":
		return &hexWriter{w: bw, marshal: (*csi.Params).MarshalMsg}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

type textWriter struct {
	w   *bufio.Writer
	pal *palette
}

func (t *textWriter) WriteToken(off int64, tok *csi.Token) error {
	fmt.Fprintf(t.w, "%s %s ", t.pal.offset.Render(fmt.Sprintf("%08d", off)), t.pal.kind(tok.Kind))
	switch tok.Kind {
	case csi.TokenCSI:
		fmt.Fprintf(t.w, "%-12s %s", tok.Params.Command(), tok.Params.Describe())
	case csi.TokenText:
		fmt.Fprintf(t.w, "%q width=%d", tok.Raw, xansi.StringWidth(string(tok.Raw)))
	case csi.TokenInvalid:
		fmt.Fprintf(t.w, "%s %s", csi.DebugString(tok.Raw), t.pal.err.Render(tok.Err.Error()))
	default:
		t.w.WriteString(csi.DebugString(tok.Raw))
	}
	return t.w.WriteByte('\n')
}

func (t *textWriter) Flush() error { return t.w.Flush() }

type jsonToken struct {
	Offset int64       `json:"offset"`
	Kind   string      `json:"kind"`
	Raw    string      `json:"raw"`
	Params *csi.Params `json:"params,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type jsonWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func (j *jsonWriter) WriteToken(off int64, tok *csi.Token) error {
	out := jsonToken{
		Offset: off,
		Kind:   tok.Kind.String(),
		Raw:    csi.DebugString(tok.Raw),
	}
	if tok.Kind == csi.TokenCSI {
		out.Params = &tok.Params
	}
	if tok.Err != nil {
		out.Error = tok.Err.Error()
	}
	return j.enc.Encode(out)
}

func (j *jsonWriter) Flush() error { return j.w.Flush() }

// hexWriter prints the wire encoding of each control sequence as hex.
// Other tokens are skipped.
type hexWriter struct {
	w       *bufio.Writer
	marshal func(*csi.Params, []byte) ([]byte, error)
	scratch []byte
}

func (h *hexWriter) WriteToken(off int64, tok *csi.Token) error {
	if tok.Kind != csi.TokenCSI {
		return nil
	}
	var err error
	if h.scratch, err = h.marshal(&tok.Params, h.scratch[:0]); err != nil {
		return fmt.Errorf("encode sequence at %d: %w", off, err)
	}
	fmt.Fprintf(h.w, "%08d %s\n", off, hex.EncodeToString(h.scratch))
	return nil
}

func (h *hexWriter) Flush() error { return h.w.Flush() }
