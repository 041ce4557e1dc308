package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/eykd/docmeta-go/internal/domain"
)

// Status tag colours.
var (
	colorOK    = lipgloss.Color("34")  // Green
	colorWarn  = lipgloss.Color("214") // Orange
	colorError = lipgloss.Color("196") // Red
)

// palette renders status tags, coloured or plain.
type palette struct {
	enabled bool
	ok      lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
}

// newPalette returns a palette for w. Colour is used only when w is a
// terminal, NO_COLOR is unset and noColor is false.
func newPalette(w io.Writer, noColor bool) palette {
	if noColor || os.Getenv("NO_COLOR") != "" || !isTerminal(w) {
		return palette{}
	}
	r := lipgloss.NewRenderer(w)
	return palette{
		enabled: true,
		ok:      r.NewStyle().Foreground(colorOK).Bold(true),
		warn:    r.NewStyle().Foreground(colorWarn).Bold(true),
		err:     r.NewStyle().Foreground(colorError).Bold(true),
	}
}

// tag returns "[STATUS]" for status.
func (p palette) tag(status string) string {
	t := "[" + status + "]"
	if !p.enabled {
		return t
	}
	switch status {
	case string(domain.DocOK):
		return p.ok.Render(t)
	case string(domain.DocWarn):
		return p.warn.Render(t)
	default:
		return p.err.Render(t)
	}
}

// fdWriter is implemented by *os.File.
type fdWriter interface {
	Fd() uintptr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}
