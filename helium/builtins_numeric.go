package helium

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

func builtinInt(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewNumber(0), nil
	}
	if args[0].kind != KindString {
		return NewNone(), typeErrorf("int() input should be a string.")
	}
	base := 10
	if len(args) > 1 {
		b := args[1]
		if b.kind != KindNumber {
			return NewNone(), typeErrorf("int() base must be an integer.")
		}
		if b.Number() != math.Floor(b.Number()) {
			return NewNone(), typeErrorf("int() base cannot be a float.")
		}
		if b.Number() < 2 || b.Number() > 36 {
			return NewNone(), typeErrorf("int() base must be >= 2 and <= 36.")
		}
		base = int(b.Number())
	}
	n, ok := parseIntPrefix(args[0].Str(), base)
	if !ok {
		return NewNone(), typeErrorf("Invalid literal for int() with base %d: %s", base, quoteString(args[0].Str()))
	}
	return NewNumber(n), nil
}

// parseIntPrefix reads the longest run of base digits after optional
// leading space and sign, ignoring whatever follows. Base 16 also accepts a
// 0x prefix.
func parseIntPrefix(s string, base int) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	if base == 16 && len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	value, digits := 0.0, 0
	for _, r := range s {
		d := digitValue(r)
		if d < 0 || d >= base {
			break
		}
		value = value*float64(base) + float64(d)
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	}
	return -1
}

func builtinFloat(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewNumber(0), nil
	}
	if args[0].kind != KindString {
		return NewNone(), typeErrorf("float() input should be a string.")
	}
	n, ok := parseFloatPrefix(args[0].Str())
	if !ok {
		return NewNone(), typeErrorf("Invalid literal for float(): %s", quoteString(args[0].Str()))
	}
	return NewNumber(n), nil
}

// parseFloatPrefix reads the longest decimal literal (or Infinity) at the
// start of s after optional leading space.
func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	digits := 0
	for i < len(s) && isDigit(rune(s[i])) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(rune(s[i])) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(rune(s[j])) {
			for j < len(s) && isDigit(rune(s[j])) {
				j++
			}
			i = j
		}
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}
