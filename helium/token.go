package helium

import "fmt"

// TokenKind identifies the lexical category of a token.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenString
	TokenWord
	TokenSymbol
	TokenOperator
	TokenSet
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenWord:
		return "word"
	case TokenSymbol:
		return "symbol"
	case TokenOperator:
		return "operator"
	case TokenSet:
		return "set"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

// StringMode is the interpolation mode of a string literal.
type StringMode int

const (
	StringPlain StringMode = iota
	StringRaw
	StringFormat
)

func (m StringMode) String() string {
	switch m {
	case StringRaw:
		return "raw"
	case StringFormat:
		return "format"
	default:
		return "none"
	}
}

// Token captures lexical information for the grouper.
type Token struct {
	Kind    TokenKind
	Literal string
	Number  float64
	Mode    StringMode

	// Unary marks an operator or setter standing in prefix position.
	Unary bool
	// Postfix marks a ++/-- setter that follows its target.
	Postfix bool

	span Span
}

func (t *Token) Pos() Span { return t.span }

func (t *Token) String() string {
	switch t.Kind {
	case TokenString:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Literal)
	default:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Literal)
	}
}

func (t *Token) is(kind TokenKind, literal string) bool {
	return t != nil && t.Kind == kind && t.Literal == literal
}

const (
	keywordFunction = "function"
	keywordEnd      = "end"
	keywordReturn   = "return"
)

func isKeyword(word string) bool {
	switch word {
	case keywordFunction, keywordEnd, keywordReturn:
		return true
	}
	return false
}

func asToken(n Node) (*Token, bool) {
	tok, ok := n.(*Token)
	return tok, ok
}

func isTokenKind(n Node, kind TokenKind) bool {
	tok, ok := n.(*Token)
	return ok && tok.Kind == kind
}

func isSymbol(n Node, literal string) bool {
	tok, ok := n.(*Token)
	return ok && tok.is(TokenSymbol, literal)
}

func isWord(n Node, literal string) bool {
	tok, ok := n.(*Token)
	return ok && tok.is(TokenWord, literal)
}
