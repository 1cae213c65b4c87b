package csi

import (
	"errors"
	"io"
	"unicode/utf8"
)

// TokenKind classifies a Token.
type TokenKind uint8

const (
	// TokenText is a run of printable bytes (UTF-8 text).
	TokenText TokenKind = iota + 1
	// TokenControl is a single C0 control, DEL, or C1 control.
	TokenControl
	// TokenCSI is a complete control sequence; Params holds its fields.
	TokenCSI
	// TokenEscape is ESC, optional intermediates, and a final byte.
	TokenEscape
	// TokenString is an OSC, DCS, SOS, PM or APC string with its terminator.
	TokenString
	// TokenInvalid holds bytes that could not be decoded; Err says why.
	TokenInvalid
)

// String implements fmt.Stringer
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenControl:
		return "control"
	case TokenCSI:
		return "csi"
	case TokenEscape:
		return "escape"
	case TokenString:
		return "string"
	case TokenInvalid:
		return "invalid"
	default:
		return "<invalid>"
	}
}

// Token is one unit of a terminal byte stream.
type Token struct {
	Kind   TokenKind
	Raw    []byte // aliases the input; see NextToken and Scanner.Scan
	Params Params // TokenCSI only
	Err    error  // TokenInvalid only
}

// ErrUnterminated is carried by a TokenInvalid holding a sequence cut off
// by the end of input or by MaxTokenSize.
var ErrUnterminated = errors.New("csi: unterminated sequence")

// ScannerOptions configures NextToken and Scanner.
type ScannerOptions struct {
	DecodeOptions

	// MaxTokenSize bounds how many bytes an unfinished sequence may
	// buffer before it is given up as TokenInvalid. Zero means 64 KiB.
	MaxTokenSize int
}

const defaultMaxTokenSize = 64 * 1024

func (o *ScannerOptions) maxToken() int {
	if o.MaxTokenSize > 0 {
		return o.MaxTokenSize
	}
	return defaultMaxTokenSize
}

// NextToken splits the first token off b, in the manner of a
// bufio.SplitFunc. It returns the number of bytes the token spans, or
// ErrShortBytes when b ends inside a token and atEOF is false. Token.Raw
// aliases b.
func NextToken(b []byte, atEOF bool, opts ScannerOptions) (Token, int, error) {
	c := Cursor{buf: b}
	tok, err := nextToken(&c, atEOF, &opts)
	if err != nil {
		return Token{}, 0, err
	}
	return tok, c.Consumed(), nil
}

func nextToken(c *Cursor, atEOF bool, opts *ScannerOptions) (Token, error) {
	b, ok := c.TryPeek()
	if !ok {
		return Token{}, ErrShortBytes
	}
	switch {
	case b == ESC:
		return escapeToken(c, atEOF, opts)
	case opts.Allow8Bit && b == CSI8:
		return csiToken(c, atEOF, opts)
	case opts.Allow8Bit && isStringIntroducer8(b):
		return stringToken(c, 1, atEOF, opts)
	case isC0(b) || (opts.Allow8Bit && isC1(b)):
		rest := c.Remaining()
		c.Advance()
		return Token{Kind: TokenControl, Raw: rest[:1]}, nil
	}
	return textToken(c, atEOF, opts)
}

func textToken(c *Cursor, atEOF bool, opts *ScannerOptions) (Token, error) {
	rest := c.Remaining()
	end := 0
	for end < len(rest) {
		b := rest[end]
		if isC0(b) || (opts.Allow8Bit && isC1(b)) {
			break
		}
		end++
	}
	if end == len(rest) && !atEOF {
		// Hold back a rune split across reads.
		for back := 1; back <= utf8.UTFMax-1 && back <= end; back++ {
			if utf8.RuneStart(rest[end-back]) {
				if !utf8.FullRune(rest[end-back : end]) {
					end -= back
				}
				break
			}
		}
		if end == 0 {
			return Token{}, ErrShortBytes
		}
	}
	c.AdvanceN(end)
	return Token{Kind: TokenText, Raw: rest[:end]}, nil
}

func escapeToken(c *Cursor, atEOF bool, opts *ScannerOptions) (Token, error) {
	intro, ok := c.PeekRaw(2)
	if !ok {
		return unfinished(c, atEOF, opts)
	}
	switch intro[1] {
	case '[':
		return csiToken(c, atEOF, opts)
	case ']', 'P', 'X', '^', '_':
		return stringToken(c, 2, atEOF, opts)
	}

	rest := c.Remaining()
	i := 1
	for i < len(rest) && isIntermediate(rest[i]) {
		i++
	}
	if i == len(rest) {
		return unfinished(c, atEOF, opts)
	}
	if f := rest[i]; f < escFinalFirst || f > finalLast {
		// A lone ESC interrupted by something else; the other byte is
		// left for the next token.
		c.AdvanceN(i)
		return Token{Kind: TokenInvalid, Raw: rest[:i], Err: &InvalidByteError{Byte: f, Offset: i}}, nil
	}
	c.AdvanceN(i + 1)
	return Token{Kind: TokenEscape, Raw: rest[:i+1]}, nil
}

func csiToken(c *Cursor, atEOF bool, opts *ScannerOptions) (Token, error) {
	rest := c.Remaining()
	start := c.Consumed()
	var tok Token
	err := ReadCSIOpts(c, &tok.Params, opts.DecodeOptions)
	switch {
	case err == nil:
		tok.Kind = TokenCSI
	case err == ErrShortBytes:
		return unfinished(c, atEOF, opts)
	default:
		tok.Kind = TokenInvalid
		tok.Err = err
		tok.Params.Reset()
	}
	tok.Raw = rest[:c.Consumed()-start]
	return tok, nil
}

func isStringIntroducer8(b byte) bool {
	return b == OSC8 || b == DCS8 || b == SOS8 || b == PM8 || b == APC8
}

// stringToken consumes a control string whose introducer is skip bytes
// long, through BEL, ESC \ or (8-bit) ST.
func stringToken(c *Cursor, skip int, atEOF bool, opts *ScannerOptions) (Token, error) {
	rest := c.Remaining()
	for i := skip; i < len(rest); i++ {
		switch b := rest[i]; {
		case b == BEL, opts.Allow8Bit && b == ST8:
			c.AdvanceN(i + 1)
			return Token{Kind: TokenString, Raw: rest[:i+1]}, nil
		case b == ESC:
			if i+1 == len(rest) {
				return unfinished(c, atEOF, opts)
			}
			if rest[i+1] == '\\' {
				c.AdvanceN(i + 2)
				return Token{Kind: TokenString, Raw: rest[:i+2]}, nil
			}
			// ESC that is not ST aborts the string.
			c.AdvanceN(i)
			return Token{Kind: TokenInvalid, Raw: rest[:i], Err: ErrUnterminated}, nil
		case b == CAN || b == SUB:
			c.AdvanceN(i + 1)
			return Token{Kind: TokenInvalid, Raw: rest[:i+1], Err: ErrUnterminated}, nil
		}
	}
	return unfinished(c, atEOF, opts)
}

// unfinished handles a token that runs off the end of the window: wait
// for more input unless there will be none or the token is too large.
func unfinished(c *Cursor, atEOF bool, opts *ScannerOptions) (Token, error) {
	if !atEOF && c.Len() < opts.maxToken() {
		return Token{}, ErrShortBytes
	}
	rest := c.Remaining()
	c.AdvanceN(len(rest))
	return Token{Kind: TokenInvalid, Raw: rest, Err: ErrUnterminated}, nil
}

// Scanner reads a terminal byte stream and splits it into Tokens. Its
// methods follow bufio.Scanner: call Scan until it returns false, then
// check Err.
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	r      io.Reader
	opts   ScannerOptions
	stream ByteStream
	tok    Token
	offset int64 // stream offset of the end of the current token
	err    error
	eof    bool
	empty  int // consecutive reads that returned no data
}

const maxConsecutiveEmptyReads = 100

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader, opts ScannerOptions) *Scanner {
	return &Scanner{r: r, opts: opts}
}

// Scan advances to the next token. Token.Raw is valid until the following
// call to Scan.
func (s *Scanner) Scan() bool {
	for {
		if s.stream.Len() > 0 {
			c := s.stream.Cursor()
			tok, err := nextToken(&c, s.eof, &s.opts)
			if err == nil {
				s.stream.Consume(c.Consumed())
				s.offset += int64(c.Consumed())
				s.tok = tok
				return true
			}
		}
		if s.eof || s.err != nil {
			return false
		}
		n, err := s.stream.ReadFrom(s.r)
		if err != nil {
			if err == io.EOF {
				s.eof = true
				continue
			}
			s.err = err
			// Flush whatever is buffered as if the input ended.
			s.eof = true
			continue
		}
		if n == 0 {
			if s.empty++; s.empty >= maxConsecutiveEmptyReads {
				s.err = io.ErrNoProgress
				return false
			}
			continue
		}
		s.empty = 0
	}
}

// Token returns the most recent token produced by Scan.
func (s *Scanner) Token() *Token { return &s.tok }

// Offset returns the number of input bytes consumed through the current
// token.
func (s *Scanner) Offset() int64 { return s.offset }

// Err returns the first non-EOF error encountered by the Scanner.
func (s *Scanner) Err() error { return s.err }
