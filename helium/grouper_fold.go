package helium

// checkSet folds one bracket level: accessors first, then unary operators,
// then setters, then returns.
func (g *grouper) checkSet(nodes []Node) ([]Node, error) {
	nodes, err := g.foldAccessors(nodes)
	if err != nil {
		return nil, err
	}
	markBodyUnary(nodes)
	if nodes, err = g.foldUnary(nodes); err != nil {
		return nil, err
	}
	if nodes, err = g.foldSetters(nodes); err != nil {
		return nil, err
	}
	return g.foldReturns(nodes), nil
}

// isOperand reports whether n can carry an accessor or be the operand of a
// unary operator.
func isOperand(n Node) bool {
	return isValueNode(n)
}

// afterDeclaration reports whether nodes ends with `function name (params)`.
func afterDeclaration(nodes []Node) bool {
	n := len(nodes)
	if n < 3 || !isWord(nodes[n-3], keywordFunction) {
		return false
	}
	_, isGroup := nodes[n-1].(*Group)
	return isGroup
}

var constantWords = map[string]bool{"None": true, "True": true, "False": true}

// isAssignable reports whether n names a storage location: a variable or
// a prop chain rooted at one.
func isAssignable(n Node) bool {
	switch node := n.(type) {
	case *Token:
		return node.Kind == TokenWord && !isKeyword(node.Literal) && !constantWords[node.Literal]
	case *Prop:
		base, ok := asToken(node.Base)
		return ok && base.Kind == TokenWord && !isKeyword(base.Literal) && !constantWords[base.Literal]
	}
	return false
}

func appendAccessor(base Node, acc Accessor) *Prop {
	if prop, ok := base.(*Prop); ok {
		accessors := make([]Accessor, len(prop.Accessors), len(prop.Accessors)+1)
		copy(accessors, prop.Accessors)
		return &Prop{Base: prop.Base, Accessors: append(accessors, acc), span: prop.span.Merge(acc.span)}
	}
	return &Prop{Base: base, Accessors: []Accessor{acc}, span: base.Pos().Merge(acc.span)}
}

func (g *grouper) foldAccessors(nodes []Node) ([]Node, error) {
	out := make([]Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if isSymbol(n, ".") {
			if len(out) == 0 || !isOperand(out[len(out)-1]) {
				return nil, syntaxErrorf(g.source, n.Pos(), "Unexpected '.' symbol.")
			}
			if i+1 >= len(nodes) {
				return nil, syntaxErrorf(g.source, n.Pos(), "Expected a property name after '.'.")
			}
			name, ok := asToken(nodes[i+1])
			if !ok || (name.Kind != TokenWord && name.Kind != TokenNumber) || isKeyword(name.Literal) {
				return nil, syntaxErrorf(g.source, nodes[i+1].Pos(), "Expected a property name after '.'.")
			}
			acc := Accessor{Name: name.Literal, span: n.Pos().Merge(name.span)}
			out[len(out)-1] = appendAccessor(out[len(out)-1], acc)
			i++
			continue
		}
		if list, ok := n.(*ListLiteral); ok && len(out) > 0 && isOperand(out[len(out)-1]) && !afterDeclaration(out) {
			if len(list.Items) != 1 || list.Items[0].Spread {
				return nil, syntaxErrorf(g.source, list.span, "Invalid index for the list.")
			}
			acc := Accessor{Computed: list.Items[0].Ready, span: list.span}
			out[len(out)-1] = appendAccessor(out[len(out)-1], acc)
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// markBodyUnary marks a prefix operator opening a function body as unary;
// the lexer sees the `)` closing the parameters and reads it as binary.
func markBodyUnary(nodes []Node) {
	for i := 3; i < len(nodes); i++ {
		tok, ok := asToken(nodes[i])
		if ok && tok.Kind == TokenOperator && isUnaryOperator(tok) && afterDeclaration(nodes[:i]) {
			tok.Unary = true
		}
	}
}

func splice(nodes []Node, from, to int, node Node) []Node {
	out := make([]Node, 0, len(nodes)-(to-from)+1)
	out = append(out, nodes[:from]...)
	out = append(out, node)
	return append(out, nodes[to:]...)
}

func incrementSetter(tok *Token, target Node, after bool) *SetVariable {
	op := "+="
	if tok.Literal == "--" {
		op = "-="
	}
	one := &Token{Kind: TokenNumber, Literal: "1", Number: 1, span: tok.span}
	return &SetVariable{
		Target:   target,
		Operator: op,
		Ready:    []Node{one},
		After:    after,
		span:     tok.span.Merge(target.Pos()),
	}
}

// foldUnary runs right to left so stacked prefixes (`- -a`, `!~a`) nest
// around the operand closest to them first.
func (g *grouper) foldUnary(nodes []Node) ([]Node, error) {
	for i := len(nodes) - 1; i >= 0; i-- {
		tok, ok := asToken(nodes[i])
		if !ok {
			continue
		}
		if tok.Postfix {
			if i == 0 || !isAssignable(nodes[i-1]) {
				return nil, syntaxErrorf(g.source, tok.span, "Unary setter expects a variable after/before it.")
			}
			nodes = splice(nodes, i-1, i+1, incrementSetter(tok, nodes[i-1], false))
			i--
			continue
		}
		if !tok.Unary {
			continue
		}
		if i+1 >= len(nodes) || !isOperand(nodes[i+1]) {
			if tok.Kind == TokenSet {
				return nil, syntaxErrorf(g.source, tok.span, "Unary setter expects a variable after/before it.")
			}
			return nil, syntaxErrorf(g.source, tok.span, "Expected an operand after the unary operator.")
		}
		operand := nodes[i+1]
		span := tok.span.Merge(operand.Pos())
		var folded Node
		switch tok.Literal {
		case "+":
			folded = operand
		case "-":
			zero := &Token{Kind: TokenNumber, Literal: "0", span: tok.span}
			minus := &Token{Kind: TokenOperator, Literal: "-", span: tok.span}
			folded = &Group{Ready: []Node{zero, operand, minus}, span: span}
		case "!", "~":
			folded = &Group{Ready: []Node{operand, tok}, span: span}
		case "++", "--":
			if !isAssignable(operand) {
				return nil, syntaxErrorf(g.source, tok.span, "Unary setter expects a variable after/before it.")
			}
			folded = incrementSetter(tok, operand, true)
		}
		nodes = splice(nodes, i, i+2, folded)
	}
	return nodes, nil
}

// foldSetters runs right to left so `a = b = 1` assigns b first.
func (g *grouper) foldSetters(nodes []Node) ([]Node, error) {
	for i := len(nodes) - 1; i >= 0; i-- {
		tok, ok := asToken(nodes[i])
		if !ok || tok.Kind != TokenSet {
			continue
		}
		if isIncrement(tok.Literal) {
			return nil, syntaxErrorf(g.source, tok.span, "Unary setter expects a variable after/before it.")
		}
		if i == 0 || !isAssignable(nodes[i-1]) {
			return nil, syntaxErrorf(g.source, tok.span, "Expected a variable before a setter.")
		}
		target := nodes[i-1]
		if _, isProp := target.(*Prop); isProp && tok.Literal == ":=" {
			return nil, syntaxErrorf(g.source, tok.span, "The := set operator can only be used on dotless variables.")
		}
		end := findEOE(nodes, i+1)
		if end == i+1 {
			return nil, syntaxErrorf(g.source, tok.span, "Expected an expression for the variable declaration statement.")
		}
		rhs := nodes[i+1 : end]
		set := &SetVariable{
			Target:   target,
			Operator: tok.Literal,
			Ready:    toPostfix(rhs),
			After:    true,
			span:     target.Pos().Merge(spanOfRun(rhs)),
		}
		nodes = splice(nodes, i-1, end, set)
		i--
	}
	return nodes, nil
}

func (g *grouper) foldReturns(nodes []Node) []Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		if !isWord(nodes[i], keywordReturn) {
			continue
		}
		end := findEOE(nodes, i+1)
		ret := &Return{span: nodes[i].Pos()}
		if end > i+1 {
			run := nodes[i+1 : end]
			ret.Ready = toPostfix(run)
			ret.span = ret.span.Merge(spanOfRun(run))
		}
		nodes = splice(nodes, i, end, ret)
	}
	return nodes
}
