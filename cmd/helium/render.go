package main

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

	"github.com/OguzhanUmutlu/helium/helium"
)

// useColor resolves a color mode against the stream it applies to.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// theme holds the styles for one output stream. A colorless theme renders
// every style as plain text.
type theme struct {
	color bool

	number   lipgloss.Style
	str      lipgloss.Style
	boolean  lipgloss.Style
	none     lipgloss.Style
	function lipgloss.Style
	ellipsis lipgloss.Style

	gutter    lipgloss.Style
	marker    lipgloss.Style
	highlight lipgloss.Style
	kind      lipgloss.Style
	frame     lipgloss.Style
}

func newTheme(w io.Writer, color bool) *theme {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	return &theme{
		color:     color,
		number:    r.NewStyle().Foreground(lipgloss.Color("3")),
		str:       r.NewStyle().Foreground(lipgloss.Color("2")),
		boolean:   r.NewStyle().Foreground(lipgloss.Color("3")),
		none:      r.NewStyle().Foreground(lipgloss.Color("8")),
		function:  r.NewStyle().Foreground(lipgloss.Color("4")),
		ellipsis:  r.NewStyle().Foreground(lipgloss.Color("5")),
		gutter:    r.NewStyle().Foreground(lipgloss.Color("4")),
		marker:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		highlight: r.NewStyle().Foreground(lipgloss.Color("1")).Underline(true),
		kind:      r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		frame:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// palette returns the value decoration for print, or nil when the theme is
// colorless.
func (th *theme) palette() *helium.Palette {
	if !th.color {
		return nil
	}
	return &helium.Palette{
		Number:   renderWith(th.number),
		String:   renderWith(th.str),
		Boolean:  renderWith(th.boolean),
		None:     renderWith(th.none),
		Function: renderWith(th.function),
		Ellipsis: renderWith(th.ellipsis),
	}
}

// renderWith adapts a style's variadic Render to a single-string decorator.
func renderWith(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}

// renderError writes a diagnostic: the source lines around the failure with
// the offending span highlighted, then the error kind and message, then the
// call stack.
func (th *theme) renderError(w io.Writer, err error) {
	var herr *helium.Error
	if !errors.As(err, &herr) {
		fmt.Fprintln(w, err)
		return
	}
	lines := herr.Lines()
	width := 1
	if len(lines) > 0 {
		width = len(strconv.Itoa(lines[len(lines)-1].Number))
	}
	var b strings.Builder
	for _, line := range lines {
		prefix := "  "
		if line.Marked {
			prefix = th.marker.Render(">") + " "
		}
		b.WriteString(prefix)
		b.WriteString(th.gutter.Render(fmt.Sprintf("%*d | ", width, line.Number)))
		b.WriteString(th.highlightLine(line))
		b.WriteByte('\n')
	}
	if len(lines) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(th.kind.Render(string(herr.Type) + ":"))
	b.WriteString(" " + herr.Message + "\n")
	for _, frame := range herr.Frames {
		b.WriteString(th.frame.Render(fmt.Sprintf("  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)))
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(w, b.String())
}

func (th *theme) highlightLine(line helium.DiagnosticLine) string {
	if line.HighlightStart >= line.HighlightEnd {
		return line.Text
	}
	runes := []rune(line.Text)
	start := min(line.HighlightStart, len(runes))
	end := min(line.HighlightEnd, len(runes))
	return string(runes[:start]) + th.highlight.Render(string(runes[start:end])) + string(runes[end:])
}
