package csi_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	xansi "github.com/charmbracelet/x/ansi"

	csi "github.com/synadia-labs/csi.go/runtime"
)

type scanned struct {
	kind csi.TokenKind
	raw  string
}

// scanAll scans r to the end and merges adjacent text tokens, whose
// boundaries depend on how the input was chunked.
func scanAll(t *testing.T, r io.Reader, opts csi.ScannerOptions) []scanned {
	t.Helper()
	var out []scanned
	sc := csi.NewScanner(r, opts)
	for sc.Scan() {
		tok := sc.Token()
		if n := len(out); n > 0 && tok.Kind == csi.TokenText && out[n-1].kind == csi.TokenText {
			out[n-1].raw += string(tok.Raw)
			continue
		}
		out = append(out, scanned{tok.Kind, string(tok.Raw)})
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestNextToken(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		atEOF bool
		opts  csi.ScannerOptions
		kind  csi.TokenKind
		n     int
	}{
		{"text", "hello\r\n", false, csi.ScannerOptions{}, csi.TokenText, 5},
		{"control", "\r\n", false, csi.ScannerOptions{}, csi.TokenControl, 1},
		{"csi", "\x1b[1;31mx", false, csi.ScannerOptions{}, csi.TokenCSI, 7},
		{"escape", "\x1bMx", false, csi.ScannerOptions{}, csi.TokenEscape, 2},
		{"escape with intermediate", "\x1b(B", false, csi.ScannerOptions{}, csi.TokenEscape, 3},
		{"osc bel", "\x1b]0;title\x07rest", false, csi.ScannerOptions{}, csi.TokenString, 10},
		{"osc st", "\x1b]8;;\x1b\\x", false, csi.ScannerOptions{}, csi.TokenString, 7},
		{"dcs", "\x1bPq#0\x1b\\", false, csi.ScannerOptions{}, csi.TokenString, 7},
		{"osc aborted by escape", "\x1b]0;ti\x1b[m", false, csi.ScannerOptions{}, csi.TokenInvalid, 6},
		{"osc cancelled", "\x1b]0;ti\x18x", false, csi.ScannerOptions{}, csi.TokenInvalid, 7},
		{"interrupted escape", "\x1b\x07", false, csi.ScannerOptions{}, csi.TokenInvalid, 1},
		{"invalid csi", "\x1b[1\x07m", false, csi.ScannerOptions{}, csi.TokenInvalid, 3},
		{"lone escape at eof", "\x1b", true, csi.ScannerOptions{}, csi.TokenInvalid, 1},
		{"split rune at eof", "ab\xe2\x82", true, csi.ScannerOptions{}, csi.TokenText, 4},
		{"split rune held back", "ab\xe2\x82", false, csi.ScannerOptions{}, csi.TokenText, 2},
		{"oversized string", "\x1b]0;abcdefghij", false, csi.ScannerOptions{MaxTokenSize: 8}, csi.TokenInvalid, 14},
		{"8-bit csi", "\x9b2J", false, csi.ScannerOptions{DecodeOptions: csi.DecodeOptions{Allow8Bit: true}}, csi.TokenCSI, 3},
		{"8-bit osc", "\x9d0;t\x9c", false, csi.ScannerOptions{DecodeOptions: csi.DecodeOptions{Allow8Bit: true}}, csi.TokenString, 5},
		{"8-bit control", "\x85", false, csi.ScannerOptions{DecodeOptions: csi.DecodeOptions{Allow8Bit: true}}, csi.TokenControl, 1},
		{"c1 byte is text without 8-bit", "\x9b2J", false, csi.ScannerOptions{}, csi.TokenText, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, n, err := csi.NextToken([]byte(tc.in), tc.atEOF, tc.opts)
			if err != nil {
				t.Fatalf("NextToken(%q): %v", tc.in, err)
			}
			if tok.Kind != tc.kind || n != tc.n {
				t.Fatalf("NextToken(%q) = %s/%d, want %s/%d (err %v)", tc.in, tok.Kind, n, tc.kind, tc.n, tok.Err)
			}
			if len(tok.Raw) != n {
				t.Fatalf("Raw has %d bytes, token spans %d", len(tok.Raw), n)
			}
			if tok.Kind == csi.TokenInvalid && tok.Err == nil {
				t.Fatalf("invalid token without error")
			}
		})
	}
}

func TestNextTokenShort(t *testing.T) {
	for _, in := range []string{"", "\x1b", "\x1b[12", "\x1b]0;title", "\x1b(", "\xe2\x82", "\x1bP1$r\x1b"} {
		if _, n, err := csi.NextToken([]byte(in), false, csi.ScannerOptions{}); err != csi.ErrShortBytes || n != 0 {
			t.Errorf("NextToken(%q) = %d, %v; want ErrShortBytes", in, n, err)
		}
	}
}

func TestScannerChunkingIndependent(t *testing.T) {
	input := "plain \x1b[1;31mred\x1b[0m \x1b]0;title\x07caf\xc3\xa9\r\n\x1b[?1049h\x1b(B\x1b[38:2::10:20:30m!"
	whole := scanAll(t, strings.NewReader(input), csi.ScannerOptions{})
	bytewise := scanAll(t, iotest.OneByteReader(strings.NewReader(input)), csi.ScannerOptions{})
	if len(whole) != len(bytewise) {
		t.Fatalf("token count differs: %d vs %d\n%v\n%v", len(whole), len(bytewise), whole, bytewise)
	}
	for i := range whole {
		if whole[i] != bytewise[i] {
			t.Fatalf("token %d differs: %+v vs %+v", i, whole[i], bytewise[i])
		}
	}
	var rebuilt strings.Builder
	for _, s := range whole {
		rebuilt.WriteString(s.raw)
	}
	if rebuilt.String() != input {
		t.Fatalf("tokens do not cover the input")
	}
}

func TestScannerParams(t *testing.T) {
	sc := csi.NewScanner(strings.NewReader("a\x1b[38;5;196mb"), csi.ScannerOptions{})
	var got []string
	for sc.Scan() {
		if tok := sc.Token(); tok.Kind == csi.TokenCSI {
			got = append(got, tok.Params.Command().String()+" "+tok.Params.Describe())
			if sc.Offset() != 12 {
				t.Fatalf("Offset = %d after sequence", sc.Offset())
			}
		}
	}
	if len(got) != 1 || got[0] != "CSI m 38;5;196" {
		t.Fatalf("got %v", got)
	}
	if sc.Offset() != 13 {
		t.Fatalf("final Offset = %d", sc.Offset())
	}
}

// TestScannerTextMatchesStrip checks that the text tokens of a stream are
// exactly what an independent escape stripper leaves behind.
func TestScannerTextMatchesStrip(t *testing.T) {
	inputs := []string{
		"hello \x1b[1;31mred\x1b[0m world",
		"\x1b]8;;http://example.com\x1b\\link\x1b]8;;\x1b\\ after",
		"café \x1b[?25l\x1b[2 q done",
		"\x1b7saved\x1b8 restored",
		"\x1b[38:2::255:128:0mtruecolor\x1b[m",
	}
	for _, in := range inputs {
		var text bytes.Buffer
		for _, s := range scanAll(t, strings.NewReader(in), csi.ScannerOptions{}) {
			if s.kind == csi.TokenText {
				text.WriteString(s.raw)
			}
		}
		if want := xansi.Strip(in); text.String() != want {
			t.Errorf("text of %q = %q, Strip gives %q", in, text.String(), want)
		}
	}
}

func TestScannerUnterminatedAtEOF(t *testing.T) {
	got := scanAll(t, strings.NewReader("ok\x1b[12"), csi.ScannerOptions{})
	want := []scanned{{csi.TokenText, "ok"}, {csi.TokenInvalid, "\x1b[12"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %+v", got)
	}
}

func TestScannerReadError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("ab\x1b[1"), iotest.ErrReader(boom))
	sc := csi.NewScanner(r, csi.ScannerOptions{})
	var kinds []csi.TokenKind
	for sc.Scan() {
		kinds = append(kinds, sc.Token().Kind)
	}
	if !errors.Is(sc.Err(), boom) {
		t.Fatalf("Err = %v", sc.Err())
	}
	if len(kinds) != 2 || kinds[0] != csi.TokenText || kinds[1] != csi.TokenInvalid {
		t.Fatalf("buffered input not flushed: %v", kinds)
	}
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, nil }

func TestScannerNoProgress(t *testing.T) {
	sc := csi.NewScanner(emptyReader{}, csi.ScannerOptions{})
	if sc.Scan() {
		t.Fatalf("Scan returned a token from an empty reader")
	}
	if sc.Err() != io.ErrNoProgress {
		t.Fatalf("Err = %v", sc.Err())
	}
}

func FuzzNextToken(f *testing.F) {
	for _, s := range []string{"hi\x1b[1mthere", "\x1b]0;t\x07", "\x1bP\x1b\\", "\x1b(B", "\x9b1m\x9d0\x9c", "\xe2\x82\xac"} {
		f.Add([]byte(s), true, false)
		f.Add([]byte(s), false, true)
	}
	f.Fuzz(func(t *testing.T, data []byte, atEOF, allow8 bool) {
		opts := csi.ScannerOptions{DecodeOptions: csi.DecodeOptions{Allow8Bit: allow8}}
		for len(data) > 0 {
			tok, n, err := csi.NextToken(data, atEOF, opts)
			if err == csi.ErrShortBytes {
				if atEOF {
					t.Fatalf("short bytes at EOF for %q", data)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextToken: %v", err)
			}
			if n <= 0 || n > len(data) || len(tok.Raw) != n {
				t.Fatalf("bad span %d (raw %d) of %d", n, len(tok.Raw), len(data))
			}
			data = data[n:]
		}
	})
}
