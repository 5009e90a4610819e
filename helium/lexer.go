package helium

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// setOperators and binaryOperators are matched longest-first at each offset,
// so `>>>=` wins over `>>>`, `>>` and `>`.
var setOperators = []string{
	"=", ":=", "+=", "-=", "*=", "/=", "//=", "%=", "**=",
	"&=", "|=", "^=", "<<=", ">>=", ">>>=", "&&=", "||=", "??=",
	"++", "--",
}

var binaryOperators = []string{
	"**", "*", "/", "//", "%", "+", "-",
	"<<", ">>", ">>>", "&", "^", "|",
	"==", "!=", "<", ">", "<=", ">=",
	"&&", "||", "??",
	"!", "~",
}

var symbols = []string{"...", "(", ")", "[", "]", "{", "}", ",", ":", "."}

const quoteChars = "\"'`"

// wordStoppers are the runes that can never be part of a word.
const wordStoppers = "()[]{},:.;#\"'`+-*/%<>=!&|^~?@\\"

const (
	modeFormat = "f"
	modeRaw    = "r"
)

type lexer struct {
	source string
	offset int
	end    int
	tokens []Node

	handlers []func() (bool, error)
}

// Tokenize converts source into a flat token sequence. Unary operators are
// classified as tokens are emitted; folding them into operands is left to
// the grouper.
func Tokenize(source string) ([]Node, error) {
	l := newLexer(source)
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func newLexer(source string) *lexer {
	l := &lexer{source: source, end: len(source)}
	l.handlers = []func() (bool, error){
		l.skipSpace,
		l.skipComment,
		l.lexOperator,
		l.lexSymbol,
		l.lexNumber,
		l.lexString,
		l.lexWord,
	}
	return l
}

func (l *lexer) run() error {
	for l.offset < l.end {
		matched := false
		for _, handler := range l.handlers {
			ok, err := handler()
			if err != nil {
				return err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			_, width := utf8.DecodeRuneInString(l.source[l.offset:])
			return syntaxErrorf(l.source, Span{l.offset, l.offset + width}, "Unexpected character.")
		}
	}
	return nil
}

func (l *lexer) peek() rune {
	return l.peekAt(l.offset)
}

func (l *lexer) peekAt(offset int) rune {
	if offset >= l.end {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[offset:])
	return r
}

func (l *lexer) emit(tok *Token) {
	l.tokens = append(l.tokens, tok)
	l.classifyUnary()
}

// classifyUnary inspects the last three emitted tokens. A ++/-- directly
// after an assignable operand is postfix; an operator two back that cannot
// be binary (nothing value-like before it) is unary.
func (l *lexer) classifyUnary() {
	n := len(l.tokens)
	last, _ := asToken(l.tokens[n-1])
	if last != nil && last.Kind == TokenSet && isIncrement(last.Literal) && n >= 2 {
		if prev, ok := asToken(l.tokens[n-2]); ok {
			if (prev.Kind == TokenWord && !isKeyword(prev.Literal)) || prev.is(TokenSymbol, "]") {
				last.Postfix = true
			}
		}
	}
	if n < 2 {
		return
	}
	candidate, ok := asToken(l.tokens[n-2])
	if !ok || candidate.Unary || candidate.Postfix || !isUnaryOperator(candidate) {
		return
	}
	if candidate.Kind == TokenSet || n < 3 || !endsValue(l.tokens[n-3]) {
		candidate.Unary = true
	}
}

func isIncrement(literal string) bool {
	return literal == "++" || literal == "--"
}

func isUnaryOperator(tok *Token) bool {
	switch tok.Kind {
	case TokenOperator:
		switch tok.Literal {
		case "+", "-", "!", "~":
			return true
		}
	case TokenSet:
		return isIncrement(tok.Literal)
	}
	return false
}

// endsValue reports whether a binary operator may follow n.
func endsValue(n Node) bool {
	tok, ok := asToken(n)
	if !ok {
		return true
	}
	switch tok.Kind {
	case TokenNumber, TokenString:
		return true
	case TokenWord:
		return !isKeyword(tok.Literal)
	case TokenSymbol:
		return tok.Literal == ")" || tok.Literal == "]" || tok.Literal == "}"
	case TokenSet:
		return tok.Postfix
	}
	return false
}

func (l *lexer) skipSpace() (bool, error) {
	start := l.offset
	for l.offset < l.end {
		r := l.peek()
		if r != ';' && !unicode.IsSpace(r) {
			break
		}
		l.offset += utf8.RuneLen(r)
	}
	return l.offset > start, nil
}

func (l *lexer) skipComment() (bool, error) {
	if l.peek() != '#' {
		return false, nil
	}
	for l.offset < l.end && l.source[l.offset] != '\n' {
		l.offset++
	}
	return true, nil
}

func (l *lexer) lexOperator() (bool, error) {
	rest := l.source[l.offset:l.end]
	best, kind := "", TokenOperator
	for _, op := range setOperators {
		if len(op) > len(best) && strings.HasPrefix(rest, op) {
			best, kind = op, TokenSet
		}
	}
	for _, op := range binaryOperators {
		if len(op) > len(best) && strings.HasPrefix(rest, op) {
			best, kind = op, TokenOperator
		}
	}
	if best == "" {
		return false, nil
	}
	l.emit(&Token{Kind: kind, Literal: best, span: Span{l.offset, l.offset + len(best)}})
	l.offset += len(best)
	return true, nil
}

func (l *lexer) lexSymbol() (bool, error) {
	rest := l.source[l.offset:l.end]
	for _, sym := range symbols {
		if strings.HasPrefix(rest, sym) {
			l.emit(&Token{Kind: TokenSymbol, Literal: sym, span: Span{l.offset, l.offset + len(sym)}})
			l.offset += len(sym)
			return true, nil
		}
	}
	return false, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// lexNumber accepts digits with `_` separators between digit pairs, one
// decimal point, and one exponent with an optional sign. After a `.` symbol
// only integers are read so `a.0.1` stays a chain of accessors.
func (l *lexer) lexNumber() (bool, error) {
	if !isDigit(l.peek()) {
		return false, nil
	}
	start := l.offset
	allowPoint := true
	if n := len(l.tokens); n > 0 && isSymbol(l.tokens[n-1], ".") {
		allowPoint = false
	}
	allowExponent := allowPoint

	var b strings.Builder
	for l.offset < l.end {
		r := rune(l.source[l.offset])
		switch {
		case isDigit(r):
			b.WriteRune(r)
			l.offset++
		case r == '_':
			prev := rune(l.source[l.offset-1])
			if !isDigit(prev) || !isDigit(l.peekAt(l.offset+1)) {
				return false, syntaxErrorf(l.source, Span{l.offset, l.offset + 1}, "Invalid digit separator.")
			}
			l.offset++
		case r == '.' && allowPoint && isDigit(l.peekAt(l.offset+1)):
			allowPoint = false
			b.WriteRune(r)
			l.offset++
		case (r == 'e' || r == 'E') && allowExponent:
			allowPoint, allowExponent = false, false
			b.WriteRune('e')
			l.offset++
			if s := l.peek(); s == '+' || s == '-' {
				b.WriteRune(s)
				l.offset++
			}
			if !isDigit(l.peek()) {
				return false, syntaxErrorf(l.source, Span{start, l.offset}, "Expected integers after the 'e' symbol.")
			}
		default:
			return true, l.emitNumber(b.String(), Span{start, l.offset})
		}
	}
	return true, l.emitNumber(b.String(), Span{start, l.offset})
}

func (l *lexer) emitNumber(text string, span Span) error {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return syntaxErrorf(l.source, span, "Invalid number literal.")
	}
	l.emit(&Token{Kind: TokenNumber, Literal: span.Text(l.source), Number: value, span: span})
	return nil
}

// lexString reads a quoted literal. A directly adjacent `f` or `r` word
// before the quote selects format or raw mode. Format strings desugar each
// `{expr}` into `+ str(expr) +`.
func (l *lexer) lexString() (bool, error) {
	quote := l.peek()
	if !strings.ContainsRune(quoteChars, quote) {
		return false, nil
	}
	start := l.offset
	mode := StringPlain
	if n := len(l.tokens); n > 0 {
		if prev, ok := asToken(l.tokens[n-1]); ok && prev.Kind == TokenWord && prev.span.End == start {
			switch prev.Literal {
			case modeFormat:
				mode = StringFormat
			case modeRaw:
				mode = StringRaw
			}
			if mode != StringPlain {
				start = prev.span.Start
				l.tokens = l.tokens[:n-1]
			}
		}
	}
	l.offset++

	pieceStart := start
	var b strings.Builder
	for {
		if l.offset >= l.end {
			return false, syntaxErrorf(l.source, Span{pieceStart, l.offset}, "Expected the string to have an ending.")
		}
		r, width := utf8.DecodeRuneInString(l.source[l.offset:])
		switch {
		case r == quote:
			l.offset += width
			l.emit(&Token{Kind: TokenString, Literal: b.String(), Mode: mode, span: Span{pieceStart, l.offset}})
			return true, nil
		case r == '\\':
			if l.offset+1 >= l.end {
				l.offset++
				continue
			}
			escaped, escWidth := utf8.DecodeRuneInString(l.source[l.offset+1:])
			if mode == StringRaw {
				b.WriteRune(r)
				b.WriteRune(escaped)
			} else if code, ok := unicodeEscape(l.source[l.offset+1 : l.end]); ok {
				b.WriteRune(code)
				escWidth = 5
			} else {
				b.WriteString(unescape(escaped))
			}
			l.offset += 1 + escWidth
		case r == '{' && mode == StringFormat:
			l.emit(&Token{Kind: TokenString, Literal: b.String(), Mode: mode, span: Span{pieceStart, l.offset}})
			b.Reset()
			closing, err := l.interpolation()
			if err != nil {
				return false, err
			}
			pieceStart = closing
		default:
			b.WriteRune(r)
			l.offset += width
		}
	}
}

// interpolation tokenizes one `{expr}` section of a format string and
// returns the offset of its closing brace.
func (l *lexer) interpolation() (int, error) {
	open := l.offset
	closing := matchingBrace(l.source, open+1, l.end)
	if closing < 0 {
		return 0, syntaxErrorf(l.source, Span{open, open + 1}, "Expected the '{' character to have a matching '}' character.")
	}
	openSpan := Span{open, open + 1}
	l.emit(&Token{Kind: TokenOperator, Literal: "+", span: openSpan})
	l.emit(&Token{Kind: TokenWord, Literal: "str", span: openSpan})
	l.emit(&Token{Kind: TokenSymbol, Literal: "(", span: openSpan})

	outer := l.end
	l.offset, l.end = open+1, closing
	if err := l.run(); err != nil {
		return 0, err
	}
	l.offset, l.end = closing+1, outer

	closeSpan := Span{closing, closing + 1}
	l.emit(&Token{Kind: TokenSymbol, Literal: ")", span: closeSpan})
	l.emit(&Token{Kind: TokenOperator, Literal: "+", span: closeSpan})
	return closing, nil
}

// matchingBrace finds the `}` closing a brace opened just before from,
// skipping over quoted strings. It returns -1 when there is none.
func matchingBrace(source string, from, end int) int {
	depth := 0
	for i := from; i < end; i++ {
		c := source[i]
		switch {
		case c == '{':
			depth++
		case c == '}':
			if depth == 0 {
				return i
			}
			depth--
		case strings.IndexByte(quoteChars, c) >= 0:
			for i++; i < end && source[i] != c; i++ {
				if source[i] == '\\' {
					i++
				}
			}
		}
	}
	return -1
}

func unescape(r rune) string {
	switch r {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	default:
		return string(r)
	}
}

// unicodeEscape decodes `uXXXX` at the start of s. A surrogate pair written
// as two escapes is left to decode as two replacement characters.
func unicodeEscape(s string) (rune, bool) {
	if len(s) < 5 || s[0] != 'u' {
		return 0, false
	}
	code, err := strconv.ParseUint(s[1:5], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(code), true
}

func isWordRune(r rune) bool {
	return !unicode.IsSpace(r) && !strings.ContainsRune(wordStoppers, r)
}

func (l *lexer) lexWord() (bool, error) {
	start := l.offset
	for l.offset < l.end {
		r, width := utf8.DecodeRuneInString(l.source[l.offset:])
		if !isWordRune(r) || (l.offset == start && isDigit(r)) {
			break
		}
		l.offset += width
	}
	if l.offset == start {
		return false, nil
	}
	span := Span{start, l.offset}
	l.emit(&Token{Kind: TokenWord, Literal: span.Text(l.source), span: span})
	return true, nil
}
