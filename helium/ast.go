package helium

// Node is anything the grouper can place in a child list: raw tokens and the
// higher-level constructs built from them.
type Node interface {
	Pos() Span
}

// Statement is a unit executed by the evaluator.
type Statement interface {
	Node
	stmtNode()
}

// Group is a parenthesized sub-expression. Children keeps the folded
// contents so function declarations can read their parameter list.
type Group struct {
	Children []Node
	Ready    []Node
	span     Span
}

func (g *Group) Pos() Span { return g.span }

// Expr is one comma-separated segment of a list, call, or object literal.
type Expr struct {
	Spread bool
	Ready  []Node
	span   Span
}

func (e Expr) Pos() Span { return e.span }

type ListLiteral struct {
	Items []Expr
	span  Span
}

func (l *ListLiteral) Pos() Span { return l.span }

// ObjectEntry is a single entry in an object literal: a spread, a computed
// ("pointer") key, or a plain key.
type ObjectEntry struct {
	Spread  bool
	Pointer bool
	Key     string
	KeyExpr []Node
	Ready   []Node
	span    Span
}

type ObjectLiteral struct {
	Entries []ObjectEntry
	span    Span
}

func (o *ObjectLiteral) Pos() Span { return o.span }

// Accessor is one step of a prop chain: `.name` or `[expr]`.
type Accessor struct {
	Name     string
	Computed []Node
	span     Span
}

func (a Accessor) IsComputed() bool { return a.Computed != nil }

// Prop is a base value followed by an ordered chain of accessors.
type Prop struct {
	Base      Node
	Accessors []Accessor
	span      Span
}

func (p *Prop) Pos() Span { return p.span }

type FunctionCall struct {
	Name     string
	Args     []Expr
	nameSpan Span
	span     Span
}

func (c *FunctionCall) Pos() Span { return c.span }

// SetVariable assigns Ready to Target using Operator. After reports whether
// the expression yields the updated value (true) or the previous one.
type SetVariable struct {
	Target   Node
	Operator string
	Ready    []Node
	After    bool
	span     Span
}

func (s *SetVariable) Pos() Span { return s.span }

// Return ends the enclosing function with the value of Ready (None when
// Ready is empty).
type Return struct {
	Ready []Node
	span  Span
}

func (r *Return) Pos() Span { return r.span }
func (r *Return) stmtNode() {}

type ExecutionStmt struct {
	Ready []Node
	span  Span
}

func (s *ExecutionStmt) Pos() Span { return s.span }
func (s *ExecutionStmt) stmtNode() {}

type Param struct {
	Name     string
	Default  []Node
	Variadic bool
}

type FunctionDecl struct {
	Name   string
	Params []Param
	Body   []Statement
	span   Span
}

func (s *FunctionDecl) Pos() Span { return s.span }
func (s *FunctionDecl) stmtNode() {}

func spanOfRun(nodes []Node) Span {
	if len(nodes) == 0 {
		return Span{}
	}
	out := nodes[0].Pos()
	for _, n := range nodes[1:] {
		out = out.Merge(n.Pos())
	}
	return out
}
