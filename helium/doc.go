// Package helium implements the Helium scripting language: a tokenizer, a
// grouper that resolves brackets and operator precedence, a statement
// splitter, and a tree-walking evaluator. The language supports:
//   - Numbers, strings (with `f"…{expr}…"` format and `r"…"` raw modes),
//     lists, objects, and the constants None, True and False.
//   - Arithmetic, bitwise, comparison and logical operators, with string and
//     list overloads such as concatenation and repetition.
//   - Assignment with `=`, `:=` and compound setters, plus prefix and postfix
//     `++`/`--`.
//   - Property and index access via `value.name` and `value[expr]`.
//   - Function declarations via `function name(args...) ... end` with default
//     and variadic parameters, explicit `return`, and `...` spread.
//   - Built-ins print, str, int, float, len, typeof, split, chr, ord and exit.
//
// Comments beginning with `#` are ignored. Failures are reported as *Error
// values carrying the offending source span.
package helium
