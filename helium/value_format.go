package helium

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Palette decorates the pieces of a formatted value. Nil fields leave the
// text unchanged; the zero Palette produces plain output.
type Palette struct {
	Number   func(string) string
	String   func(string) string
	Boolean  func(string) string
	None     func(string) string
	Function func(string) string
	Ellipsis func(string) string
}

func paint(style func(string) string, text string) string {
	if style == nil {
		return text
	}
	return style(text)
}

// FormatValue renders v the way print and str do. Top-level strings are
// written raw; strings nested in containers are quoted. A container that
// contains itself is rendered as a `[...]` or `{...}` placeholder.
func FormatValue(v Value, palette *Palette) string {
	if palette == nil {
		palette = &Palette{}
	}
	f := &valueFormatter{palette: palette, active: make(map[any]bool)}
	var b strings.Builder
	f.write(&b, v, false)
	return b.String()
}

type valueFormatter struct {
	palette *Palette
	active  map[any]bool
}

func (f *valueFormatter) write(b *strings.Builder, v Value, nested bool) {
	p := f.palette
	switch v.kind {
	case KindNone:
		b.WriteString(paint(p.None, "None"))
	case KindBoolean:
		text := "False"
		if v.Bool() {
			text = "True"
		}
		b.WriteString(paint(p.Boolean, text))
	case KindNumber:
		b.WriteString(paint(p.Number, formatNumber(v.Number())))
	case KindString:
		if nested {
			b.WriteString(paint(p.String, quoteString(v.Str())))
			return
		}
		b.WriteString(v.Str())
	case KindFunction:
		text := "<function>"
		if v.Function().Native != nil {
			text = "<native function>"
		}
		b.WriteString(paint(p.Function, text))
	case KindIterable:
		it := v.Iterable()
		if f.active[it] {
			b.WriteString("[" + paint(p.Ellipsis, "...") + "]")
			return
		}
		f.active[it] = true
		defer delete(f.active, it)
		b.WriteByte('[')
		for i, item := range it.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			f.write(b, item, true)
		}
		b.WriteByte(']')
	case KindObject:
		obj := v.Object()
		if f.active[obj] {
			b.WriteString("{" + paint(p.Ellipsis, "...") + "}")
			return
		}
		f.active[obj] = true
		defer delete(f.active, obj)
		b.WriteByte('{')
		for i, key := range obj.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatKey(key))
			b.WriteString(": ")
			f.write(b, obj.values[key], true)
		}
		b.WriteByte('}')
	}
}

func formatKey(key string) string {
	if isIdentifier(key) {
		return key
	}
	return quoteString(key)
}

func isIdentifier(s string) bool {
	if s == "" || isKeyword(s) {
		return false
	}
	for i, r := range s {
		if !isWordRune(r) || (i == 0 && unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

func quoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// formatNumber writes numbers the way JavaScript's Number#toString does:
// plain decimals between 1e-6 and 1e21, exponent notation outside.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		text := strconv.FormatFloat(n, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(text, "e")
		sign := exponent[:1]
		digits := strings.TrimLeft(exponent[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
