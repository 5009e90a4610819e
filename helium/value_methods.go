package helium

import "fmt"

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindIterable:
		return "iterable"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNone() bool { return v.kind == KindNone }

func (v Value) Bool() bool {
	if v.kind == KindBoolean {
		return v.data.(bool)
	}
	return false
}

func (v Value) Number() float64 {
	if v.kind == KindNumber {
		return v.data.(float64)
	}
	return 0
}

// Str returns the raw text of a string value.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.data.(string)
	}
	return ""
}

func (v Value) Iterable() *Iterable {
	if v.kind != KindIterable {
		return nil
	}
	return v.data.(*Iterable)
}

func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(*Object)
}

func (v Value) Function() *Function {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*Function)
}

// Truthy follows the language rules: zero, the empty string, None and
// False are false; everything else, containers included, is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.Number() != 0
	case KindString:
		return v.Str() != ""
	case KindNone:
		return false
	case KindBoolean:
		return v.Bool()
	default:
		return true
	}
}

// Equal compares scalars by value and containers and functions by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindBoolean:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.Str() == other.Str()
	case KindIterable:
		return v.Iterable() == other.Iterable()
	case KindObject:
		return v.Object() == other.Object()
	case KindFunction:
		return v.Function() == other.Function()
	}
	return false
}

// isIterableLike reports whether v can be indexed, spread, or measured.
func (v Value) isIterableLike() bool {
	return v.kind == KindIterable || v.kind == KindString
}

// items returns the elements of an iterable or the characters of a string.
func (v Value) items() []Value {
	switch v.kind {
	case KindIterable:
		return v.Iterable().Items
	case KindString:
		runes := []rune(v.Str())
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = NewString(string(r))
		}
		return out
	}
	return nil
}

func (v Value) String() string {
	return FormatValue(v, nil)
}
