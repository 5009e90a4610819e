package helium

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// BuiltinNames lists the native functions visible in every main scope.
var BuiltinNames = []string{"print", "str", "int", "float", "len", "typeof", "split", "chr", "ord", "exit"}

func builtinValues() map[string]Value {
	return map[string]Value{
		"print":  NewNative("print", builtinPrint),
		"str":    NewNative("str", builtinStr),
		"int":    NewNative("int", builtinInt),
		"float":  NewNative("float", builtinFloat),
		"len":    NewNative("len", builtinLen),
		"typeof": NewNative("typeof", builtinTypeof),
		"split":  NewNative("split", builtinSplit),
		"chr":    NewNative("chr", builtinChr),
		"ord":    NewNative("ord", builtinOrd),
		"exit":   NewNative("exit", builtinExit),
	}
}

func builtinPrint(exec *Execution, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = FormatValue(arg, exec.palette)
	}
	var out io.Writer = io.Discard
	if exec.stdout != nil {
		out = exec.stdout
	}
	if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
		return NewNone(), runtimeErrorf("print() failed: %v", err)
	}
	return NewNone(), nil
}

func builtinStr(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewNone(), runtimeErrorf("str() function expects at least 1 argument.")
	}
	out := make([]Value, len(args))
	for i, arg := range args {
		out[i] = NewString(FormatValue(arg, nil))
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return NewIterable(out), nil
}

func builtinLen(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewNone(), runtimeErrorf("len() function expects at least 1 argument.")
	}
	out := make([]Value, len(args))
	for i, arg := range args {
		switch arg.kind {
		case KindString:
			out[i] = NewNumber(float64(utf8.RuneCountInString(arg.Str())))
		case KindIterable:
			out[i] = NewNumber(float64(len(arg.Iterable().Items)))
		default:
			return NewNone(), runtimeErrorf("len() function expects iterables as arguments.")
		}
	}
	return NewIterable(out), nil
}

func builtinTypeof(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewNone(), runtimeErrorf("typeof() function expects at least 1 argument.")
	}
	return NewString(args[0].kind.String()), nil
}

func builtinSplit(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewNone(), runtimeErrorf("split() function expects at least 1 argument.")
	}
	if args[0].kind != KindString {
		return NewNone(), runtimeErrorf("split() function expects a string as an argument.")
	}
	sep := " "
	if len(args) > 1 {
		if args[1].kind != KindString {
			return NewNone(), runtimeErrorf("split() function expects a string for the splitter.")
		}
		sep = args[1].Str()
	}
	parts := strings.Split(args[0].Str(), sep)
	out := make([]Value, len(parts))
	for i, part := range parts {
		out[i] = NewString(part)
	}
	return NewIterable(out), nil
}

func builtinChr(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewNone(), runtimeErrorf("chr() function expects 1 argument.")
	}
	if args[0].kind != KindNumber {
		return NewNone(), runtimeErrorf("chr() function expects a number as an argument.")
	}
	n := args[0].Number()
	if n != math.Trunc(n) || n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
		return NewNone(), runtimeErrorf("chr() argument %s is not a valid code point.", formatNumber(n))
	}
	return NewString(string(rune(n))), nil
}

func builtinOrd(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewNone(), runtimeErrorf("ord() function expects 1 argument.")
	}
	if args[0].kind != KindString {
		return NewNone(), runtimeErrorf("ord() function expects a character as an argument.")
	}
	s := args[0].Str()
	if utf8.RuneCountInString(s) != 1 {
		return NewNone(), runtimeErrorf("ord() function expects exactly 1 character as an argument.")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return NewNumber(float64(r)), nil
}

func builtinExit(exec *Execution, args []Value) (Value, error) {
	code := 0
	if len(args) > 0 {
		if args[0].kind != KindNumber {
			return NewNone(), runtimeErrorf("exit() expects a number for the exit code.")
		}
		n := args[0].Number()
		if math.IsNaN(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return NewNone(), runtimeErrorf("exit() expects an exit code between %d and %d.", math.MinInt32, math.MaxInt32)
		}
		code = int(n)
	}
	return NewNone(), &ExitError{Code: code}
}
