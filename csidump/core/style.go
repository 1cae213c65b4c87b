package core

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	csi "github.com/synadia-labs/csi.go/runtime"
)

// palette holds the label styles of the text format.
type palette struct {
	offset lipgloss.Style
	kinds  map[csi.TokenKind]lipgloss.Style
	err    lipgloss.Style
}

func newPalette(w io.Writer, mode string) (*palette, error) {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case "", "auto":
		if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
			r.SetColorProfile(termenv.Ascii)
		}
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}

	label := r.NewStyle().Width(8)
	return &palette{
		offset: r.NewStyle().Foreground(lipgloss.Color("#bfbaaa")),
		kinds: map[csi.TokenKind]lipgloss.Style{
			csi.TokenText:    label.Foreground(lipgloss.Color("#dbd7ca")),
			csi.TokenControl: label.Foreground(lipgloss.Color("#e6cc77")),
			csi.TokenCSI:     label.Foreground(lipgloss.Color("#4d9375")).Bold(true),
			csi.TokenEscape:  label.Foreground(lipgloss.Color("#6394bf")),
			csi.TokenString:  label.Foreground(lipgloss.Color("#5eaab5")),
			csi.TokenInvalid: label.Foreground(lipgloss.Color("#cb7676")).Bold(true),
		},
		err: r.NewStyle().Foreground(lipgloss.Color("#cb7676")),
	}, nil
}

func (p *palette) kind(k csi.TokenKind) string {
	return p.kinds[k].Render(k.String())
}
