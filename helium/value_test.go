package helium

import (
	"math"
	"strings"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:            "0",
		1:            "1",
		-2.5:         "-2.5",
		1e20:         "100000000000000000000",
		1e21:         "1e+21",
		1.5e-7:       "1.5e-7",
		0.000001:     "0.000001",
		math.Inf(1):  "Infinity",
		math.Inf(-1): "-Infinity",
	}
	for in, want := range cases {
		if got := formatNumber(in); got != want {
			t.Fatalf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
	if got := formatNumber(math.Copysign(0, -1)); got != "0" {
		t.Fatalf("formatNumber(-0) = %q", got)
	}
	if got := formatNumber(math.NaN()); got != "NaN" {
		t.Fatalf("formatNumber(NaN) = %q", got)
	}
}

func TestFormatValueQuotesNestedStrings(t *testing.T) {
	val := NewObjectMap(
		ObjectPair{Key: "name", Value: NewString("a\"b")},
		ObjectPair{Key: "two words", Value: NewIterable([]Value{NewString("<x>"), NewBoolean(false)})},
		ObjectPair{Key: "end", Value: NewNone()},
		ObjectPair{Key: "fn", Value: NewNative("f", builtinLen)},
	)
	want := `{name: "a\"b", "two words": ["<x>", False], "end": None, fn: <native function>}`
	if got := val.String(); got != want {
		t.Fatalf("unexpected format\nwant: %s\n got: %s", want, got)
	}
	if got := NewString("plain \"text\"").String(); got != `plain "text"` {
		t.Fatalf("top-level strings should be raw, got %s", got)
	}
	user := NewFunction(&Function{Name: "g"})
	if got := user.String(); got != "<function>" {
		t.Fatalf("unexpected function format %s", got)
	}
}

func TestFormatValueWithPalette(t *testing.T) {
	wrap := func(tag string) func(string) string {
		return func(s string) string { return tag + "(" + s + ")" }
	}
	palette := &Palette{
		Number:   wrap("n"),
		String:   wrap("s"),
		Boolean:  wrap("b"),
		None:     wrap("z"),
		Ellipsis: wrap("e"),
	}
	list := NewIterable([]Value{NewNumber(1), NewString("x"), NewBoolean(true), NewNone()})
	list.Iterable().Items = append(list.Iterable().Items, list)
	got := FormatValue(list, palette)
	want := `[n(1), s("x"), b(True), z(None), [e(...)]]`
	if got != want {
		t.Fatalf("unexpected palette output\nwant: %s\n got: %s", want, got)
	}
	if got := FormatValue(NewString("x"), palette); got != "x" {
		t.Fatalf("top-level strings are not painted, got %s", got)
	}
}

func TestFormatValueSharedChildIsNotACycle(t *testing.T) {
	shared := NewObjectMap(ObjectPair{Key: "v", Value: NewNumber(1)})
	outer := NewIterable([]Value{shared, shared})
	if got := outer.String(); got != "[{v: 1}, {v: 1}]" {
		t.Fatalf("unexpected output %s", got)
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Value{NewNone(), NewBoolean(false), NewNumber(0), NewString(""), {}}
	for _, v := range falsy {
		if v.Truthy() {
			t.Fatalf("expected %v to be falsy", v)
		}
	}
	truthy := []Value{NewBoolean(true), NewNumber(-1), NewString("0"), NewIterable(nil), NewObjectMap(), NewNative("f", builtinLen)}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Fatalf("expected %v to be truthy", v)
		}
	}
}

func TestEqualComparesContainersByIdentity(t *testing.T) {
	a := NewIterable([]Value{NewNumber(1)})
	b := NewIterable([]Value{NewNumber(1)})
	if a.Equal(b) {
		t.Fatalf("distinct lists should not be equal")
	}
	if !a.Equal(a) {
		t.Fatalf("a list should equal itself")
	}
	if !NewString("x").Equal(NewString("x")) || NewNumber(1).Equal(NewString("1")) {
		t.Fatalf("unexpected scalar equality")
	}
	if !NewNone().Equal(NewNone()) {
		t.Fatalf("None should equal None")
	}
}

func TestObjectKeepsInsertionOrder(t *testing.T) {
	obj := NewObjectMap(
		ObjectPair{Key: "b", Value: NewNumber(1)},
		ObjectPair{Key: "a", Value: NewNumber(2)},
	).Object()
	obj.Set("b", NewNumber(3))
	obj.Set("c", NewNumber(4))
	if got := strings.Join(obj.Keys(), ","); got != "b,a,c" {
		t.Fatalf("unexpected key order %s", got)
	}
	if val, _ := obj.Get("b"); val.Number() != 3 || obj.Len() != 3 {
		t.Fatalf("unexpected object state")
	}
}

func TestScopeChain(t *testing.T) {
	root := NewScope()
	root.Assign("x", NewNumber(1))
	fn := newScope(ScopeFunction, root)
	fn.Assign("x", NewNumber(2))
	fn.Define("y", NewNumber(3))
	if x, _ := root.Get("x"); x.Number() != 2 {
		t.Fatalf("assign should update the outer binding, got %v", x)
	}
	if _, ok := root.Get("y"); ok {
		t.Fatalf("define should stay local")
	}
	root.Assign("print", NewNumber(0))
	if p, _ := NewScope().Get("print"); p.Kind() != KindFunction {
		t.Fatalf("builtins must not be overwritten")
	}
	names := fn.VisibleNames()
	for _, want := range []string{"print", "x", "y"} {
		found := false
		for _, name := range names {
			found = found || name == want
		}
		if !found {
			t.Fatalf("expected %q in visible names %v", want, names)
		}
	}
	if got := strings.Join(root.Names(), ","); got != "print,x" {
		t.Fatalf("unexpected local names %s", got)
	}
}
