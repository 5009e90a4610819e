package helium

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	diagnosticLinesBefore = 2
	diagnosticLinesAfter  = 10
)

// DiagnosticLine is one source line of an error report. Highlight offsets
// are rune indexes into Text; HighlightStart == HighlightEnd means the line
// carries no highlighted text.
type DiagnosticLine struct {
	Number         int
	Text           string
	Marked         bool
	HighlightStart int
	HighlightEnd   int
}

// Lines returns the source lines around the error span: a couple of lines
// of leading context, every line the span touches, and trailing context.
func (e *Error) Lines() []DiagnosticLine {
	if !e.located {
		return nil
	}
	return diagnosticLines(e.Source, e.Span, diagnosticLinesBefore, diagnosticLinesAfter)
}

func diagnosticLines(source string, span Span, before, after int) []DiagnosticLine {
	lines := strings.Split(source, "\n")
	start, end := clampSpan(span, len(source))

	offsets := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		offsets[i] = offset
		offset += len(line) + 1
	}

	first := 0
	for i := range lines {
		if offsets[i] <= start {
			first = i
		}
	}

	from := first - before
	if from < 0 {
		from = 0
	}
	to := first + after
	if to >= len(lines) {
		to = len(lines) - 1
	}

	out := make([]DiagnosticLine, 0, to-from+1)
	for i := from; i <= to; i++ {
		line := lines[i]
		dl := DiagnosticLine{Number: i + 1, Text: line}
		lineStart := offsets[i]
		lineEnd := lineStart + len(line)
		lo := max(start, lineStart)
		hi := min(end, lineEnd)
		if lo < hi {
			dl.Marked = true
			dl.HighlightStart = runeCount(line[:lo-lineStart])
			dl.HighlightEnd = runeCount(line[:hi-lineStart])
		} else if i == first {
			dl.Marked = true
			dl.HighlightStart = runeCount(line[:min(lo, lineEnd)-lineStart])
			dl.HighlightEnd = dl.HighlightStart
		}
		out = append(out, dl)
	}
	return out
}

func formatCodeFrame(source string, span Span) string {
	if source == "" {
		return ""
	}
	lines := diagnosticLines(source, span, 0, 0)
	if len(lines) == 0 {
		return ""
	}
	line := lines[0]
	width := line.HighlightEnd - line.HighlightStart
	if width < 1 {
		width = 1
	}

	lineLabel := strconv.Itoa(line.Number)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", line.HighlightStart)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s%s",
		line.Number,
		line.HighlightStart+1,
		lineLabel,
		line.Text,
		gutterPad,
		caretPad,
		strings.Repeat("^", width),
	)
}
