package helium

import "unicode/utf8"

// Span identifies a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Text returns the slice of source covered by the span, clamped to the source.
func (s Span) Text(source string) string {
	start, end := clampSpan(s, len(source))
	return source[start:end]
}

// Position is a 1-based line and rune column.
type Position struct {
	Line   int
	Column int
}

// PositionOf maps a byte offset to its line and column.
func PositionOf(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	pos := Position{Line: 1, Column: 1}
	for i, r := range source {
		if i >= offset {
			break
		}
		if r == '\n' {
			pos.Line++
			pos.Column = 1
			continue
		}
		pos.Column++
	}
	return pos
}

func clampSpan(s Span, n int) (int, int) {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
