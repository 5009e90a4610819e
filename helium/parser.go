package helium

type parser struct {
	source string
	nodes  []Node
	pos    int
}

// Parse splits grouped nodes into statements: returns, function
// declarations and expression statements.
func Parse(source string, nodes []Node) ([]Statement, error) {
	p := &parser{source: source, nodes: nodes}
	stmts, err := p.statements(false)
	if err != nil {
		return nil, err
	}
	return stmts, nil
}

// statements parses until the input ends or, inside a function body, until
// an `end` keyword, which is left for the caller to consume.
func (p *parser) statements(inFunction bool) ([]Statement, error) {
	var stmts []Statement
	for p.pos < len(p.nodes) {
		n := p.nodes[p.pos]
		if isWord(n, keywordEnd) {
			if inFunction {
				return stmts, nil
			}
			return nil, syntaxErrorf(p.source, n.Pos(), "Unexpected 'end' keyword.")
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) statement() (Statement, error) {
	n := p.nodes[p.pos]
	if ret, ok := n.(*Return); ok {
		p.pos++
		return ret, nil
	}
	if isWord(n, keywordFunction) {
		return p.functionDecl()
	}
	if tok, ok := asToken(n); ok {
		switch tok.Kind {
		case TokenSet:
			return nil, syntaxErrorf(p.source, tok.span, "Unexpected setter.")
		case TokenOperator, TokenSymbol:
			return nil, syntaxErrorf(p.source, tok.span, "Didn't expect a symbol-like at the beginning of an expression.")
		}
	}
	end := findEOE(p.nodes, p.pos)
	if end == p.pos {
		return nil, syntaxErrorf(p.source, n.Pos(), "Invalid expression.")
	}
	if end < len(p.nodes) && isBinaryOperator(p.nodes[end]) {
		return nil, syntaxErrorf(p.source, p.nodes[end].Pos(), "Expected an expression after the operator.")
	}
	run := p.nodes[p.pos:end]
	p.pos = end
	return &ExecutionStmt{Ready: toPostfix(run), span: spanOfRun(run)}, nil
}

func (p *parser) functionDecl() (*FunctionDecl, error) {
	keyword := p.nodes[p.pos]
	p.pos++
	if p.pos >= len(p.nodes) {
		return nil, syntaxErrorf(p.source, keyword.Pos(), "Expected a function name after 'function'.")
	}
	name, ok := asToken(p.nodes[p.pos])
	if !ok || name.Kind != TokenWord || isKeyword(name.Literal) || constantWords[name.Literal] {
		return nil, syntaxErrorf(p.source, p.nodes[p.pos].Pos(), "Expected a function name after 'function'.")
	}
	p.pos++
	if p.pos >= len(p.nodes) {
		return nil, syntaxErrorf(p.source, name.span, "Expected a parameter list after the function name.")
	}
	group, ok := p.nodes[p.pos].(*Group)
	if !ok {
		return nil, syntaxErrorf(p.source, p.nodes[p.pos].Pos(), "Expected a parameter list after the function name.")
	}
	p.pos++

	params, err := p.params(group)
	if err != nil {
		return nil, err
	}
	header := keyword.Pos().Merge(group.span)
	body, err := p.statements(true)
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.nodes) {
		return nil, syntaxErrorf(p.source, header, "Expected the function declaration to have an 'end' keyword at the end of its scope.")
	}
	closing := p.nodes[p.pos]
	p.pos++
	return &FunctionDecl{
		Name:   name.Literal,
		Params: params,
		Body:   body,
		span:   header.Merge(closing.Pos()),
	}, nil
}

func (p *parser) params(group *Group) ([]Param, error) {
	var params []Param
	seen := make(map[string]bool)
	for _, part := range splitCommas(group.Children) {
		if len(part) == 0 {
			return nil, syntaxErrorf(p.source, group.span, "Invalid function argument.")
		}
		if len(params) > 0 && params[len(params)-1].Variadic {
			return nil, syntaxErrorf(p.source, spanOfRun(part), "No arguments can be added after a variadic argument.")
		}
		param, err := p.param(part)
		if err != nil {
			return nil, err
		}
		if seen[param.Name] {
			return nil, syntaxErrorf(p.source, spanOfRun(part), "Duplicate argument name.")
		}
		seen[param.Name] = true
		params = append(params, param)
	}
	return params, nil
}

func (p *parser) param(part []Node) (Param, error) {
	if isSymbol(part[0], "...") {
		if len(part) != 2 || !isAssignable(part[1]) || !isTokenKind(part[1], TokenWord) {
			return Param{}, syntaxErrorf(p.source, spanOfRun(part), "Expected only a variable name after the spread operator.")
		}
		return Param{Name: part[1].(*Token).Literal, Variadic: true}, nil
	}
	if len(part) != 1 {
		return Param{}, syntaxErrorf(p.source, spanOfRun(part), "Invalid function argument.")
	}
	switch node := part[0].(type) {
	case *Token:
		if isAssignable(node) {
			return Param{Name: node.Literal}, nil
		}
	case *SetVariable:
		target, ok := asToken(node.Target)
		if !ok {
			break
		}
		if node.Operator != "=" {
			return Param{}, syntaxErrorf(p.source, node.span, "Expected a regular equals sign for the default value of an argument.")
		}
		return Param{Name: target.Literal, Default: node.Ready}, nil
	}
	return Param{}, syntaxErrorf(p.source, part[0].Pos(), "Invalid function argument.")
}
