package helium

type ValueKind int

const (
	KindNone ValueKind = iota
	KindBoolean
	KindNumber
	KindString
	KindIterable
	KindObject
	KindFunction
)

// Value is the runtime tagged variant. Numbers, strings and booleans are
// compared by value; iterables, objects and functions are shared references.
type Value struct {
	kind ValueKind
	data any
}

// Iterable is an ordered, mutable sequence of values.
type Iterable struct {
	Items []Value
}

// Object is a string-keyed mapping that remembers insertion order for
// printing.
type Object struct {
	keys   []string
	values map[string]Value
}

// NativeFunc implements a built-in. Arguments arrive evaluated; errors
// without a location are anchored at the call site by the evaluator.
type NativeFunc func(exec *Execution, args []Value) (Value, error)

// Function is either a native built-in or a user-defined function closing
// over the scope it was declared in.
type Function struct {
	Name   string
	Native NativeFunc
	Params []Param
	Body   []Statement
	Scope  *Scope
}
