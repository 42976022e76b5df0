package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/dj95/kdl-fmt/pkg/kdl"
)

// --- Styles ---

var (
	ColorError  = lipgloss.Color("9")   // Bright red
	ColorGutter = lipgloss.Color("12")  // Bright blue
	ColorPath   = lipgloss.Color("244") // Dim gray
)

// Diagnostics renders errors for a terminal. Parse errors get the offending
// source line with a caret under the failing column.
type Diagnostics struct {
	w           io.Writer
	errorStyle  lipgloss.Style
	gutterStyle lipgloss.Style
	caretStyle  lipgloss.Style
	pathStyle   lipgloss.Style
}

// NewDiagnostics creates a renderer writing to w. colorMode is "always",
// "never" or "auto"; auto colors only when w is a terminal and NO_COLOR is
// unset.
func NewDiagnostics(w io.Writer, colorMode string) *Diagnostics {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(colorProfile(w, colorMode))
	return &Diagnostics{
		w:           w,
		errorStyle:  r.NewStyle().Bold(true).Foreground(ColorError),
		gutterStyle: r.NewStyle().Bold(true).Foreground(ColorGutter),
		caretStyle:  r.NewStyle().Foreground(ColorError),
		pathStyle:   r.NewStyle().Foreground(ColorPath),
	}
}

func colorProfile(w io.Writer, colorMode string) termenv.Profile {
	switch colorMode {
	case "always":
		return termenv.ANSI256
	case "never":
		return termenv.Ascii
	}
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.ANSI256
	}
	return termenv.Ascii
}

// Render formats err. source names the document a parse error refers to;
// empty means standard input.
func (d *Diagnostics) Render(err error, source string) string {
	var b strings.Builder
	b.WriteString(d.errorStyle.Render("error:") + " " + err.Error() + "\n")

	var perr *kdl.ParseError
	if !errors.As(err, &perr) {
		return b.String()
	}
	if source == "" {
		source = "<stdin>"
	}

	lineNo := strconv.Itoa(perr.Line)
	pad := strings.Repeat(" ", len(lineNo))
	bar := d.gutterStyle.Render("|")
	location := fmt.Sprintf("%s:%d:%d", source, perr.Line, perr.Column)

	fmt.Fprintf(&b, "%s%s %s\n", pad, d.gutterStyle.Render("-->"), d.pathStyle.Render(location))
	fmt.Fprintf(&b, "%s %s\n", pad, bar)
	fmt.Fprintf(&b, "%s %s %s\n", d.gutterStyle.Render(lineNo), bar, perr.Source)
	fmt.Fprintf(&b, "%s %s %s%s\n", pad, bar, caretIndent(perr.Source, perr.Column), d.caretStyle.Render("^ "+perr.Message))
	return b.String()
}

// Print writes the rendered error.
func (d *Diagnostics) Print(err error, source string) {
	_, _ = io.WriteString(d.w, d.Render(err, source))
}

// caretIndent returns the whitespace that lines a caret up under the 1-based
// rune column of line. Tabs are kept so the terminal expands both lines alike.
func caretIndent(line string, column int) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if n >= column-1 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		n++
	}
	for ; n < column-1; n++ {
		b.WriteByte(' ')
	}
	return b.String()
}
