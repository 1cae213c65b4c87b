package core

import (
	"fmt"
	"io"

	clog "github.com/charmbracelet/log"
)

// NewLogger returns the CLI logger. It prints to w with timestamps;
// verbose enables debug output. format is one of text, json or logfmt.
func NewLogger(w io.Writer, verbose bool, format string) (*clog.Logger, error) {
	opts := clog.Options{
		ReportTimestamp: true,
		Prefix:          "csidump",
		Level:           clog.InfoLevel,
	}
	if verbose {
		opts.Level = clog.DebugLevel
	}
	switch format {
	case "", "text":
		opts.Formatter = clog.TextFormatter
	case "json":
		opts.Formatter = clog.JSONFormatter
	case "logfmt":
		opts.Formatter = clog.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return clog.NewWithOptions(w, opts), nil
}
