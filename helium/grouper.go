package helium

type groupFrame struct {
	open     *Token
	children []Node
}

type grouper struct {
	source string
	stack  []*groupFrame
}

var closingFor = map[string]string{"(": ")", "[": "]", "{": "}"}

// GroupTokens resolves bracket nesting in a token sequence and reduces every
// bracket into a call, list, object, or parenthesized group. Inside each
// level accessors, unary operators, setters and returns are folded into
// tree nodes.
func GroupTokens(source string, tokens []Node) ([]Node, error) {
	g := &grouper{source: source}
	g.stack = []*groupFrame{{}}
	for _, n := range tokens {
		tok, ok := asToken(n)
		if !ok || tok.Kind != TokenSymbol {
			g.top().children = append(g.top().children, n)
			continue
		}
		switch tok.Literal {
		case "(", "[", "{":
			g.stack = append(g.stack, &groupFrame{open: tok})
		case ")", "]", "}":
			if err := g.close(tok); err != nil {
				return nil, err
			}
		default:
			g.top().children = append(g.top().children, n)
		}
	}
	if len(g.stack) > 1 {
		return nil, syntaxErrorf(source, g.top().open.span, "Unfinished bracket.")
	}
	return g.checkSet(g.stack[0].children)
}

func (g *grouper) top() *groupFrame {
	return g.stack[len(g.stack)-1]
}

func (g *grouper) close(closer *Token) error {
	frame := g.top()
	if frame.open == nil || closingFor[frame.open.Literal] != closer.Literal {
		return syntaxErrorf(g.source, closer.span, "Unexpected closing bracket.")
	}
	g.stack = g.stack[:len(g.stack)-1]
	parent := g.top()
	span := frame.open.span.Merge(closer.span)

	children, err := g.checkSet(frame.children)
	if err != nil {
		return err
	}

	var node Node
	switch frame.open.Literal {
	case "(":
		if name, ok := g.callee(parent); ok {
			args, err := g.segments(children, span)
			if err != nil {
				return err
			}
			parent.children = parent.children[:len(parent.children)-1]
			node = &FunctionCall{Name: name.Literal, Args: args, nameSpan: name.span, span: name.span.Merge(span)}
			break
		}
		group := &Group{Children: children, span: span}
		if !g.declaresFunction(parent) && len(children) > 0 {
			ready, err := g.readyRun(children, span)
			if err != nil {
				return err
			}
			group.Ready = ready
		}
		node = group
	case "[":
		items, err := g.segments(children, span)
		if err != nil {
			return err
		}
		node = &ListLiteral{Items: items, span: span}
	case "{":
		obj, err := g.object(children, span)
		if err != nil {
			return err
		}
		node = obj
	}
	parent.children = append(parent.children, node)
	return nil
}

// callee returns the word a `(` applies to when the bracket opens a call.
func (g *grouper) callee(parent *groupFrame) (*Token, bool) {
	n := len(parent.children)
	if n == 0 {
		return nil, false
	}
	name, ok := asToken(parent.children[n-1])
	if !ok || name.Kind != TokenWord || isKeyword(name.Literal) {
		return nil, false
	}
	if n >= 2 && (isWord(parent.children[n-2], keywordFunction) || isSymbol(parent.children[n-2], ".")) {
		return nil, false
	}
	return name, true
}

func (g *grouper) declaresFunction(parent *groupFrame) bool {
	n := len(parent.children)
	return n >= 2 && isWord(parent.children[n-2], keywordFunction)
}

// splitCommas splits nodes on top-level commas. A single trailing comma is
// allowed.
func splitCommas(nodes []Node) [][]Node {
	if len(nodes) == 0 {
		return nil
	}
	var out [][]Node
	start := 0
	for i, n := range nodes {
		if isSymbol(n, ",") {
			out = append(out, nodes[start:i])
			start = i + 1
		}
	}
	if start < len(nodes) {
		out = append(out, nodes[start:])
	}
	return out
}

func (g *grouper) segments(children []Node, span Span) ([]Expr, error) {
	parts := splitCommas(children)
	out := make([]Expr, 0, len(parts))
	for _, part := range parts {
		if len(part) == 0 {
			return nil, syntaxErrorf(g.source, span, "Invalid expression.")
		}
		expr := Expr{span: spanOfRun(part)}
		if isSymbol(part[0], "...") {
			expr.Spread = true
			part = part[1:]
		}
		ready, err := g.readyRun(part, expr.span)
		if err != nil {
			return nil, err
		}
		expr.Ready = ready
		out = append(out, expr)
	}
	return out, nil
}

func (g *grouper) object(children []Node, span Span) (*ObjectLiteral, error) {
	obj := &ObjectLiteral{span: span}
	for _, part := range splitCommas(children) {
		if len(part) == 0 {
			return nil, syntaxErrorf(g.source, span, "Invalid expression.")
		}
		entry := ObjectEntry{span: spanOfRun(part)}
		if isSymbol(part[0], "...") {
			ready, err := g.readyRun(part[1:], entry.span)
			if err != nil {
				return nil, err
			}
			entry.Spread = true
			entry.Ready = ready
			obj.Entries = append(obj.Entries, entry)
			continue
		}
		if len(part) < 3 {
			return nil, syntaxErrorf(g.source, entry.span, "Expected at least 3 tokens for the property.")
		}
		if !isSymbol(part[1], ":") {
			return nil, syntaxErrorf(g.source, part[1].Pos(), "Expected a ':' after the property key.")
		}
		switch key := part[0].(type) {
		case *Token:
			switch key.Kind {
			case TokenWord, TokenString:
				entry.Key = key.Literal
			case TokenNumber:
				entry.Key = formatNumber(key.Number)
			default:
				return nil, syntaxErrorf(g.source, key.span, "Expected a string, number or a pointer.")
			}
		case *ListLiteral:
			if len(key.Items) != 1 || key.Items[0].Spread {
				return nil, syntaxErrorf(g.source, key.span, "Expected a single expression inside the pointer.")
			}
			entry.Pointer = true
			entry.KeyExpr = key.Items[0].Ready
		default:
			return nil, syntaxErrorf(g.source, part[0].Pos(), "Expected a string, number or a pointer.")
		}
		ready, err := g.readyRun(part[2:], entry.span)
		if err != nil {
			return nil, err
		}
		entry.Ready = ready
		obj.Entries = append(obj.Entries, entry)
	}
	return obj, nil
}

// readyRun validates an alternating value/operator run and returns it in
// postfix order.
func (g *grouper) readyRun(run []Node, span Span) ([]Node, error) {
	if len(run) == 0 {
		return nil, syntaxErrorf(g.source, span, "Invalid expression.")
	}
	for i, n := range run {
		if (i%2 == 0 && !isValueNode(n)) || (i%2 == 1 && !isBinaryOperator(n)) {
			return nil, syntaxErrorf(g.source, n.Pos(), "Invalid expression.")
		}
	}
	if len(run)%2 == 0 {
		return nil, syntaxErrorf(g.source, run[len(run)-1].Pos(), "Invalid expression.")
	}
	return toPostfix(run), nil
}
