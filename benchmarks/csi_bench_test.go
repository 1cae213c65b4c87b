package benchmarks

import (
	"bytes"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	fxcbor "github.com/fxamacker/cbor/v2"

	csi "github.com/synadia-labs/csi.go/runtime"
)

// Decode path microbenchmarks. ReadCSI and NextToken are expected to run
// without allocating.

func BenchmarkReadCSI(b *testing.B) {
	var p csi.Params
	var c csi.Cursor
	b.SetBytes(int64(len(sgrTruecolor)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Reset(sgrTruecolor)
		if err := csi.ReadCSI(&c, &p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNextToken(b *testing.B) {
	b.SetBytes(int64(len(terminalOutput)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rest := terminalOutput
		for len(rest) > 0 {
			_, n, err := csi.NextToken(rest, true, csi.ScannerOptions{})
			if err != nil {
				b.Fatal(err)
			}
			rest = rest[n:]
		}
	}
}

func BenchmarkScanner(b *testing.B) {
	b.SetBytes(int64(len(terminalOutput)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sc := csi.NewScanner(bytes.NewReader(terminalOutput), csi.ScannerOptions{})
		for sc.Scan() {
		}
		if err := sc.Err(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkStripText_Scanner and BenchmarkStripText_XAnsi compare text
// extraction by NextToken with charmbracelet/x/ansi's Strip.
func BenchmarkStripText_Scanner(b *testing.B) {
	out := make([]byte, 0, len(terminalOutput))
	b.SetBytes(int64(len(terminalOutput)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = out[:0]
		rest := terminalOutput
		for len(rest) > 0 {
			tok, n, _ := csi.NextToken(rest, true, csi.ScannerOptions{})
			if tok.Kind == csi.TokenText {
				out = append(out, tok.Raw...)
			}
			rest = rest[n:]
		}
	}
}

func BenchmarkStripText_XAnsi(b *testing.B) {
	s := string(terminalOutput)
	b.SetBytes(int64(len(s)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = xansi.Strip(s)
	}
}

func decodedTruecolor(b *testing.B) csi.Params {
	var p csi.Params
	if err := csi.ReadCSI(csi.NewCursor(sgrTruecolor), &p); err != nil {
		b.Fatal(err)
	}
	return p
}

func BenchmarkCBOR_MarshalParams(b *testing.B) {
	p := decodedTruecolor(b)
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, _ = p.MarshalCBOR(out[:0])
	}
	_ = out
}

// BenchmarkFxamacker_MarshalParams encodes the same layout through the
// reflection-based fxamacker/cbor encoder.
func BenchmarkFxamacker_MarshalParams(b *testing.B) {
	p := decodedTruecolor(b)
	params := make([]any, p.Count())
	for i := range params {
		if p.IsSet(i) {
			params[i] = uint64(p.Param(i))
		}
	}
	var subs []any
	for i := 0; i < p.Count(); i++ {
		for pos, v := range p.Subparameters(i) {
			var val any
			if v != csi.Unset {
				val = uint64(v)
			}
			subs = append(subs, []any{uint64(i), uint64(pos), val})
		}
	}
	v := []any{uint64(p.Command()), params, subs}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fxcbor.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCBOR_UnmarshalParams(b *testing.B) {
	p := decodedTruecolor(b)
	enc, _ := p.MarshalCBOR(nil)
	var q csi.Params
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.UnmarshalCBOR(enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMsgp_MarshalParams(b *testing.B) {
	p := decodedTruecolor(b)
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, _ = p.MarshalMsg(out[:0])
	}
	_ = out
}

func BenchmarkMsgp_UnmarshalParams(b *testing.B) {
	p := decodedTruecolor(b)
	enc, _ := p.MarshalMsg(nil)
	var q csi.Params
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.UnmarshalMsg(enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDescribe(b *testing.B) {
	p := decodedTruecolor(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Describe()
	}
}
