package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// source is an input byte stream plus whatever must happen once it is
// drained.
type source struct {
	r     io.Reader
	close func() error
}

func openSource(opts *Options, stdin io.Reader) (*source, error) {
	if opts.Exec != "" {
		return execSource(opts.Exec)
	}
	if opts.Input == "" || opts.Input == "-" {
		return &source{r: stdin, close: func() error { return nil }}, nil
	}
	f, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return &source{r: f, close: f.Close}, nil
}

// execSource runs command under a pseudo-terminal so that it emits the
// escape sequences it would send to a real terminal.
func execSource(command string) (*source, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, errors.New("--exec: empty command")
	}
	cmd := exec.Command(args[0], args[1:]...)

	size := &pty.Winsize{Cols: 80, Rows: 24}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			size = &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}
		}
	}

	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return nil, fmt.Errorf("start %q: %w", args[0], err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	return &source{
		r: ptyReader{ptmx},
		close: func() error {
			_ = ptmx.Close() // best-effort; the child may already be gone
			if err := <-done; err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return nil
		},
	}, nil
}

// ptyReader turns the EIO a Linux pty master returns after the child
// exits into io.EOF.
type ptyReader struct{ f *os.File }

func (p ptyReader) Read(b []byte) (int, error) {
	n, err := p.f.Read(b)
	if err != nil && errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}

// chunkReader caps every read at n bytes, so sequences are split across
// reads the way a slow pty splits them.
type chunkReader struct {
	r io.Reader
	n int
}

func (c chunkReader) Read(b []byte) (int, error) {
	if len(b) > c.n {
		b = b[:c.n]
	}
	return c.r.Read(b)
}
