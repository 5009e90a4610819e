package helium

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type runResult struct {
	value  Value
	output string
	scope  *Scope
	err    error
}

func runSource(t *testing.T, cfg Config, source string) runResult {
	t.Helper()
	var out bytes.Buffer
	cfg.Stdout = &out
	engine := MustNewEngine(cfg)
	script, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	scope := engine.NewScope()
	val, err := script.Run(context.Background(), scope)
	return runResult{value: val, output: out.String(), scope: scope, err: err}
}

func mustRun(t *testing.T, source string) runResult {
	t.Helper()
	res := runSource(t, Config{}, source)
	if res.err != nil {
		t.Fatalf("run failed: %v", res.err)
	}
	return res
}

func expectOutput(t *testing.T, source, want string) {
	t.Helper()
	if got := mustRun(t, source).output; got != want {
		t.Fatalf("unexpected output for %q\nwant: %q\n got: %q", source, want, got)
	}
}

func TestListIndexAssignmentMutatesList(t *testing.T) {
	res := mustRun(t, "a = [1,2,3,4]\na[0] = 10")
	a, ok := res.scope.Get("a")
	if !ok || a.Kind() != KindIterable {
		t.Fatalf("expected iterable a, got %v", a)
	}
	if got := a.String(); got != "[10, 2, 3, 4]" {
		t.Fatalf("unexpected list %s", got)
	}
}

func TestCompoundAssignmentReportsUpdatedValue(t *testing.T) {
	expectOutput(t, "y = {x: 10}\nprint(y.x += 10 * 2)\nprint(y)", "30\n{x: 30}\n")
}

func TestDivisionByZeroHaltsBeforePrinting(t *testing.T) {
	res := runSource(t, Config{}, "print(1/0)")
	requireError(t, res.err, RuntimeError, "Division by zero.")
	if res.output != "" {
		t.Fatalf("expected no output, got %q", res.output)
	}
	for _, source := range []string{"1 // 0", "5 % 0", "a = 1\na /= 0"} {
		requireError(t, runSource(t, Config{}, source).err, RuntimeError, "Division by zero.")
	}
}

func TestVariadicParameterCollectsRemainingArguments(t *testing.T) {
	expectOutput(t, `function f(a, b, ...rest)
  return rest
end
print(f(1, 2, 3, 4, 5))
print(f(1))`, "[3, 4, 5]\n[]\n")
}

func TestLenReturnsIterableOfLengths(t *testing.T) {
	expectOutput(t, `print(len("ab", [1,2,3]))`, "[2, 3]\n")
	requireError(t, runSource(t, Config{}, "len(5)").err, RuntimeError, "len() function expects iterables as arguments.")
}

func TestAssignmentIdempotence(t *testing.T) {
	res := mustRun(t, "a = 5\na = 5\nb = 1\nb += 1\nb += 1")
	if a, _ := res.scope.Get("a"); a.Number() != 5 {
		t.Fatalf("expected a = 5, got %v", a)
	}
	if b, _ := res.scope.Get("b"); b.Number() != 3 {
		t.Fatalf("expected b = 3, got %v", b)
	}
}

func TestSelfReferencingContainersPrintPlaceholders(t *testing.T) {
	expectOutput(t, "a = [1]\na[1] = a\nprint(a)", "[1, [...]]\n")
	expectOutput(t, "o = {}\no.self = o\nprint(o)", "{self: {...}}\n")
	expectOutput(t, "a = [1]\nb = [a, a]\nprint(b)", "[[1], [1]]\n")
}

func TestIncrementForms(t *testing.T) {
	expectOutput(t, "a = 1\nprint(a++)\nprint(a)\nprint(++a)\nprint(a--, --a)", "1\n2\n3\n3 1\n")
	expectOutput(t, "o = {n: 1}\no.n++\nl = [5]\nl[0]--\nprint(o.n, l)", "2 [4]\n")
}

func TestOperatorPrecedenceAndSemantics(t *testing.T) {
	expectOutput(t, "print(10 / -2, 2 + 3 * 4, 2 ** 3 ** 2, 7 // 2, -7 % 3)", "-5 14 512 3 2\n")
	expectOutput(t, "print(6 & 3, 6 | 3, 6 ^ 3, 1 << 4, -16 >> 2, -1 >>> 28)", "2 7 5 16 -4 15\n")
	expectOutput(t, `print(1 < 2, "a" == "a", [1] == [1], None ?? 5, 0 || "x", 1 && 2, !True, ~5)`,
		"True True False 5 x 2 False -6\n")
	expectOutput(t, `print("ab" * 3, 2 * "x", "a" + "b", True + 1)`, "ababab xx ab 2\n")
	expectOutput(t, "print([1, 2] + [3], [1, 2, 3, 2] - [2])", "[1, 2, 3] [1, 3]\n")
}

func TestUnsupportedOperandsAreRuntimeErrors(t *testing.T) {
	requireError(t, runSource(t, Config{}, `1 + "a"`).err, RuntimeError, "Cannot compute: number + string")
	requireError(t, runSource(t, Config{}, `"a" * -1`).err, RuntimeError, "Cannot repeat a string -1 times.")
	requireError(t, runSource(t, Config{}, `"a" * 1e300`).err, RuntimeError, "Cannot repeat a string 1e+300 times.")
	requireError(t, runSource(t, Config{}, `5e18 * "ab"`).err, RuntimeError, "Cannot repeat a string 5000000000000000000 times.")
	expectOutput(t, `print(len("" * 1e300))`, "[0]\n")
	requireError(t, runSource(t, Config{}, `~"a"`).err, RuntimeError, "Cannot compute: ~string")
}

func TestFormatStrings(t *testing.T) {
	expectOutput(t, "name = \"Ada\"\nprint(f\"hi {name}! {1 + 1} {[1, \"x\"]}\")", "hi Ada! 2 [1, \"x\"]\n")
	expectOutput(t, `print(f"\{literal\}", r"\n")`, "{literal} \\n\n")
}

func TestFunctionDefaultsUseDefiningScope(t *testing.T) {
	expectOutput(t, `base = 10
function add(a, b = base)
  return a + b
end
print(add(1), add(1, 2))`, "11 3\n")
}

func TestFunctionScopeParentIsCallSite(t *testing.T) {
	expectOutput(t, `function show()
  return secret
end
function wrap()
  secret := 42
  return show()
end
print(wrap())`, "42\n")
}

func TestReturnSkipsRemainingStatements(t *testing.T) {
	expectOutput(t, `function f()
  print("a")
  return 1
  print("b")
end
print(f())`, "a\n1\n")
	expectOutput(t, "function g() 1 end\nprint(g())", "None\n")
}

func TestTopLevelReturnStopsRun(t *testing.T) {
	res := mustRun(t, "print(1)\nreturn 5\nprint(2)")
	if res.output != "1\n" {
		t.Fatalf("unexpected output %q", res.output)
	}
	if res.value.Kind() != KindNumber || res.value.Number() != 5 {
		t.Fatalf("expected 5, got %v", res.value)
	}
}

func TestRunReturnsLastStatementValue(t *testing.T) {
	res := mustRun(t, "x = 2\nx * 21")
	if res.value.Number() != 42 {
		t.Fatalf("expected 42, got %v", res.value)
	}
}

func TestScopeAssignmentRules(t *testing.T) {
	expectOutput(t, `x = 1
function f()
  x := 2
  return x
end
print(f(), x)`, "2 1\n")
	expectOutput(t, `x = 1
function f()
  x = 2
end
f()
print(x)`, "2\n")
	expectOutput(t, "print = 5\nstr(print)", "")
}

func TestBuiltinShadowingDoesNotLeak(t *testing.T) {
	mustRun(t, "len = 1")
	expectOutput(t, `print(len("abc"))`, "[3]\n")
}

func TestNameErrors(t *testing.T) {
	requireError(t, runSource(t, Config{}, "print(x)").err, TypeError, "Undefined variable.")
	requireError(t, runSource(t, Config{}, "foo()").err, TypeError, "Undefined function.")
	requireError(t, runSource(t, Config{}, "x = 1\nx()").err, TypeError, "Cannot call a non-function.")
	requireError(t, runSource(t, Config{}, "y += 1").err, TypeError, "Undefined variable.")
	requireError(t, runSource(t, Config{}, "z.a = 1").err, TypeError, "Undefined variable.")
}

func TestPropertyAccess(t *testing.T) {
	expectOutput(t, `o = {a: 1}
print(o.b, o["a"], [1, 2][5], "hey"[1], o.a)`, "None 1 None e 1\n")
	requireError(t, runSource(t, Config{}, "a = [1]\na[-1]").err, RuntimeError, "Invalid index for the list.")
	requireError(t, runSource(t, Config{}, "a = [1]\na[0.5]").err, RuntimeError, "Invalid index for the list.")
	requireError(t, runSource(t, Config{}, "a = [1]\na[5] = 2").err, RuntimeError, "List index out of range.")
	requireError(t, runSource(t, Config{}, "n = 5\nn.x").err, RuntimeError, "Cannot index into a non-iterable: .x")
	requireError(t, runSource(t, Config{}, "s = \"ab\"\ns[0] = \"c\"").err, RuntimeError, "Cannot assign into a string.")
}

func TestSpreadAndComputedKeys(t *testing.T) {
	expectOutput(t, `xs = [2, 3]
print([1, ...xs, ..."ab"], {...{a: 1}, b: 2, a: 3})`, "[1, 2, 3, \"a\", \"b\"] {a: 3, b: 2}\n")
	expectOutput(t, `function sum3(a, b, c) return a + b + c end
print(sum3(...[1, 2, 3]))`, "6\n")
	expectOutput(t, `k = "dyn"
print({[k]: 1, [1 + 1]: 2})`, "{dyn: 1, \"2\": 2}\n")
	requireError(t, runSource(t, Config{}, "[...5]").err, TypeError, "Expected an iterable for the spread operator.")
	requireError(t, runSource(t, Config{}, "{...5}").err, TypeError, "Expected an object for the spread operator.")
}

func TestLogicalCompoundAssignmentShortCircuits(t *testing.T) {
	expectOutput(t, `a = 0
a &&= undefinedName
b = None
b ??= 7
c = 1
c ||= undefinedName
d = 2
d &&= 9
print(a, b, c, d)`, "0 7 1 9\n")
}

func TestCompoundAssignmentEvaluatesRightHandSideFirst(t *testing.T) {
	expectOutput(t, "x = 1\nx += (x = 5)\nprint(x)", "10\n")
	expectOutput(t, "a = [1]\na[0] += (a[0] = 5)\nprint(a)", "[10]\n")
	expectOutput(t, "y += (y := 2)\nprint(y)", "4\n")
}

func TestExitStopsRun(t *testing.T) {
	res := runSource(t, Config{}, "print(1)\nexit(3)\nprint(2)")
	code, ok := IsExit(res.err)
	if !ok || code != 3 {
		t.Fatalf("expected exit 3, got %v", res.err)
	}
	if res.output != "1\n" {
		t.Fatalf("unexpected output %q", res.output)
	}
}

func TestRecursionLimit(t *testing.T) {
	res := runSource(t, Config{RecursionLimit: 10}, "function f() return f() end\nf()")
	herr := requireError(t, res.err, RuntimeError, "Maximum call depth exceeded.")
	if len(herr.Frames) == 0 {
		t.Fatalf("expected stack frames")
	}
}

func TestNestedUserCalls(t *testing.T) {
	expectOutput(t, `function double(n)
  return n * 2
end
function quad(n)
  return double(double(n))
end
print(quad(3), double(quad(1)))`, "12 8\n")
}

func TestRunHonoursCancelledContext(t *testing.T) {
	engine := MustNewEngine(Config{Stdout: &bytes.Buffer{}})
	script, err := engine.Compile("print(1)")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := script.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRuntimeErrorRendering(t *testing.T) {
	res := runSource(t, Config{}, "x = 1\nprint(x / 0)")
	requireError(t, res.err, RuntimeError, "Division by zero.")
	msg := res.err.Error()
	for _, want := range []string{"RuntimeError: Division by zero.", "--> line 2, column 7", " 2 | print(x / 0)", "^^^^^"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error:\n%s", want, msg)
		}
	}
}

func TestRuntimeErrorStackFrames(t *testing.T) {
	res := runSource(t, Config{}, "function boom()\n  return 1 / 0\nend\nboom()")
	herr := requireError(t, res.err, RuntimeError, "Division by zero.")
	if len(herr.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %+v", herr.Frames)
	}
	msg := herr.Error()
	for _, want := range []string{"at boom (2:10)", "at <script> (4:1)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error:\n%s", want, msg)
		}
	}
}

func TestPrintUsesPalette(t *testing.T) {
	palette := &Palette{Number: func(s string) string { return "<" + s + ">" }}
	res := runSource(t, Config{Palette: palette}, `print(1, "a", [2])`)
	if res.err != nil {
		t.Fatalf("run failed: %v", res.err)
	}
	if res.output != "<1> a [<2>]\n" {
		t.Fatalf("unexpected output %q", res.output)
	}
}

func TestNewEngineRejectsNegativeRecursionLimit(t *testing.T) {
	if _, err := NewEngine(Config{RecursionLimit: -1}); err == nil {
		t.Fatalf("expected error for negative recursion limit")
	}
	engine := MustNewEngine(Config{})
	if engine.Config().RecursionLimit != defaultRecursionLimit {
		t.Fatalf("expected default recursion limit, got %d", engine.Config().RecursionLimit)
	}
}
