package core

import (
	"errors"
	"fmt"
	"io"

	clog "github.com/charmbracelet/log"

	csi "github.com/synadia-labs/csi.go/runtime"
)

// Options configures a dump.
type Options struct {
	Input     string // file path, or "-" for stdin
	Exec      string // command line to run under a pty instead of reading Input
	Format    string // text, json, cbor or msgpack
	OnlyCSI   bool
	Allow8Bit bool
	ChunkSize int // cap on bytes per read; 0 means unlimited
	MaxToken  int // see csi.ScannerOptions.MaxTokenSize
	Color     string
}

// Stats summarizes a dump.
type Stats struct {
	Bytes  int64
	Tokens map[csi.TokenKind]int
}

// Run scans the selected input and writes one line per token to stdout.
// Undecodable bytes are reported as invalid tokens and logged; they do not
// stop the dump.
func Run(opts Options, stdin io.Reader, stdout io.Writer, log *clog.Logger) (Stats, error) {
	pal, err := newPalette(stdout, opts.Color)
	if err != nil {
		return Stats{}, err
	}
	out, err := newTokenWriter(stdout, opts.Format, pal)
	if err != nil {
		return Stats{}, err
	}
	src, err := openSource(&opts, stdin)
	if err != nil {
		return Stats{}, err
	}
	log.Debug("scanning", "input", describeInput(&opts), "format", opts.Format, "allow8bit", opts.Allow8Bit)

	stats, err := dump(&opts, src, out, log)
	if err != nil {
		return stats, err
	}
	log.Debug("done", "bytes", stats.Bytes, "csi", stats.Tokens[csi.TokenCSI], "invalid", stats.Tokens[csi.TokenInvalid])
	return stats, nil
}

// dump drains src into out. src is closed on every return path; a close
// error is joined to any earlier one.
func dump(opts *Options, src *source, out tokenWriter, log *clog.Logger) (stats Stats, err error) {
	defer func() {
		if cerr := src.close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	stats.Tokens = map[csi.TokenKind]int{}
	r := src.r
	if opts.ChunkSize > 0 {
		r = chunkReader{r: r, n: opts.ChunkSize}
	}
	sc := csi.NewScanner(r, csi.ScannerOptions{
		DecodeOptions: csi.DecodeOptions{Allow8Bit: opts.Allow8Bit},
		MaxTokenSize:  opts.MaxToken,
	})
	for sc.Scan() {
		tok := sc.Token()
		off := sc.Offset() - int64(len(tok.Raw))
		stats.Tokens[tok.Kind]++
		if tok.Kind == csi.TokenInvalid {
			log.Warn("undecodable bytes", "err", csi.WrapError(tok.Err, "offset", int(off)), "raw", csi.DebugString(tok.Raw))
		}
		if opts.OnlyCSI && tok.Kind != csi.TokenCSI {
			continue
		}
		if err := out.WriteToken(off, tok); err != nil {
			return stats, err
		}
	}
	stats.Bytes = sc.Offset()

	if err := out.Flush(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}
	return stats, nil
}

func describeInput(opts *Options) string {
	switch {
	case opts.Exec != "":
		return "exec:" + opts.Exec
	case opts.Input == "" || opts.Input == "-":
		return "stdin"
	default:
		return opts.Input
	}
}
