package helium

import (
	"math"
	"strings"
)

type opKey struct {
	left  ValueKind
	op    string
	right ValueKind
}

type binaryFunc func(left, right Value) (Value, error)

func errDivisionByZero() error { return runtimeErrorf("Division by zero.") }

// binaryOps is the operator table for type-specific operators. Equality and
// the logical operators apply to every kind and are handled before lookup.
var binaryOps = buildBinaryOps()

func buildBinaryOps() map[opKey]binaryFunc {
	ops := make(map[opKey]binaryFunc)
	number := func(op string, fn func(a, b float64) (float64, error)) {
		ops[opKey{KindNumber, op, KindNumber}] = func(left, right Value) (Value, error) {
			out, err := fn(left.Number(), right.Number())
			if err != nil {
				return NewNone(), err
			}
			return NewNumber(out), nil
		}
	}
	compare := func(op string, numbers func(a, b float64) bool, strs func(a, b string) bool) {
		ops[opKey{KindNumber, op, KindNumber}] = func(left, right Value) (Value, error) {
			return NewBoolean(numbers(left.Number(), right.Number())), nil
		}
		ops[opKey{KindString, op, KindString}] = func(left, right Value) (Value, error) {
			return NewBoolean(strs(left.Str(), right.Str())), nil
		}
	}

	number("+", func(a, b float64) (float64, error) { return a + b, nil })
	number("-", func(a, b float64) (float64, error) { return a - b, nil })
	number("*", func(a, b float64) (float64, error) { return a * b, nil })
	number("/", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errDivisionByZero()
		}
		return a / b, nil
	})
	number("//", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errDivisionByZero()
		}
		return math.Floor(a / b), nil
	})
	number("%", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errDivisionByZero()
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, nil
	})
	number("**", func(a, b float64) (float64, error) { return math.Pow(a, b), nil })
	number("&", func(a, b float64) (float64, error) { return float64(toInt32(a) & toInt32(b)), nil })
	number("|", func(a, b float64) (float64, error) { return float64(toInt32(a) | toInt32(b)), nil })
	number("^", func(a, b float64) (float64, error) { return float64(toInt32(a) ^ toInt32(b)), nil })
	number("<<", func(a, b float64) (float64, error) { return float64(toInt32(a) << shiftCount(b)), nil })
	number(">>", func(a, b float64) (float64, error) { return float64(toInt32(a) >> shiftCount(b)), nil })
	number(">>>", func(a, b float64) (float64, error) {
		return float64(uint32(toInt32(a)) >> shiftCount(b)), nil
	})

	compare("<", func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b })
	compare(">", func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b })
	compare("<=", func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b })
	compare(">=", func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b })

	ops[opKey{KindString, "+", KindString}] = func(left, right Value) (Value, error) {
		return NewString(left.Str() + right.Str()), nil
	}
	ops[opKey{KindString, "*", KindNumber}] = func(left, right Value) (Value, error) {
		return repeatString(left.Str(), right.Number())
	}
	ops[opKey{KindNumber, "*", KindString}] = func(left, right Value) (Value, error) {
		return repeatString(right.Str(), left.Number())
	}
	ops[opKey{KindBoolean, "+", KindNumber}] = func(left, right Value) (Value, error) {
		return NewNumber(boolNumber(left) + right.Number()), nil
	}
	ops[opKey{KindNumber, "+", KindBoolean}] = func(left, right Value) (Value, error) {
		return NewNumber(left.Number() + boolNumber(right)), nil
	}
	ops[opKey{KindIterable, "+", KindIterable}] = func(left, right Value) (Value, error) {
		a, b := left.Iterable().Items, right.Iterable().Items
		out := make([]Value, 0, len(a)+len(b))
		out = append(out, a...)
		return NewIterable(append(out, b...)), nil
	}
	ops[opKey{KindIterable, "-", KindIterable}] = func(left, right Value) (Value, error) {
		exclude := right.Iterable().Items
		out := make([]Value, 0, len(left.Iterable().Items))
		for _, item := range left.Iterable().Items {
			if !containsValue(exclude, item) {
				out = append(out, item)
			}
		}
		return NewIterable(out), nil
	}
	return ops
}

func containsValue(items []Value, needle Value) bool {
	for _, item := range items {
		if item.Equal(needle) {
			return true
		}
	}
	return false
}

func boolNumber(v Value) float64 {
	if v.Bool() {
		return 1
	}
	return 0
}

// maxRepeatLength bounds the output of string repetition.
const maxRepeatLength = 1 << 28

func repeatString(s string, count float64) (Value, error) {
	if count < 0 || count != math.Trunc(count) || math.IsInf(count, 0) {
		return NewNone(), runtimeErrorf("Cannot repeat a string %s times.", formatNumber(count))
	}
	if s == "" {
		return NewString(""), nil
	}
	if float64(len(s))*count > maxRepeatLength {
		return NewNone(), runtimeErrorf("Cannot repeat a string %s times.", formatNumber(count))
	}
	return NewString(strings.Repeat(s, int(count))), nil
}

// toInt32 applies the 32-bit integer conversion bitwise operators use.
func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return int32(uint32(m))
}

func shiftCount(f float64) uint32 {
	return uint32(toInt32(f)) & 31
}

// applyBinary evaluates left op right.
func applyBinary(op string, left, right Value) (Value, error) {
	switch op {
	case "==":
		return NewBoolean(left.Equal(right)), nil
	case "!=":
		return NewBoolean(!left.Equal(right)), nil
	case "&&":
		if !left.Truthy() {
			return left, nil
		}
		return right, nil
	case "||":
		if left.Truthy() {
			return left, nil
		}
		return right, nil
	case "??":
		if left.IsNone() {
			return right, nil
		}
		return left, nil
	}
	if fn, ok := binaryOps[opKey{left.kind, op, right.kind}]; ok {
		return fn(left, right)
	}
	return NewNone(), runtimeErrorf("Cannot compute: %s %s %s", left.kind, op, right.kind)
}

func applyUnary(op string, operand Value) (Value, error) {
	switch op {
	case "!":
		return NewBoolean(!operand.Truthy()), nil
	case "~":
		if operand.kind == KindNumber {
			return NewNumber(float64(^toInt32(operand.Number()))), nil
		}
	}
	return NewNone(), runtimeErrorf("Cannot compute: %s%s", op, operand.kind)
}
