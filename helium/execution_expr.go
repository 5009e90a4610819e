package helium

// evalReady evaluates a postfix sequence with an operand stack. An empty
// sequence evaluates to None.
func (exec *Execution) evalReady(ready []Node, scope *Scope) (Value, error) {
	if len(ready) == 0 {
		return NewNone(), nil
	}
	type operand struct {
		val  Value
		span Span
	}
	stack := make([]operand, 0, len(ready))
	pop := func() operand {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}
	for _, n := range ready {
		tok, ok := asToken(n)
		if !ok || tok.Kind != TokenOperator {
			val, err := exec.evalNode(n, scope)
			if err != nil {
				return NewNone(), err
			}
			stack = append(stack, operand{val, n.Pos()})
			continue
		}
		if tok.Unary {
			if len(stack) < 1 {
				return NewNone(), exec.runtimeErrorAt(tok.span, "Invalid expression.")
			}
			arg := pop()
			span := tok.span.Merge(arg.span)
			val, err := applyUnary(tok.Literal, arg.val)
			if err != nil {
				return NewNone(), exec.wrapError(err, span)
			}
			stack = append(stack, operand{val, span})
			continue
		}
		if len(stack) < 2 {
			return NewNone(), exec.runtimeErrorAt(tok.span, "Invalid expression.")
		}
		right := pop()
		left := pop()
		span := left.span.Merge(right.span)
		val, err := applyBinary(tok.Literal, left.val, right.val)
		if err != nil {
			return NewNone(), exec.wrapError(err, span)
		}
		stack = append(stack, operand{val, span})
	}
	if len(stack) != 1 {
		return NewNone(), exec.runtimeErrorAt(spanOfRun(ready), "Invalid expression.")
	}
	return stack[0].val, nil
}

func (exec *Execution) evalNode(n Node, scope *Scope) (Value, error) {
	switch node := n.(type) {
	case *Token:
		return exec.evalToken(node, scope)
	case *Group:
		return exec.evalReady(node.Ready, scope)
	case *ListLiteral:
		return exec.evalList(node, scope)
	case *ObjectLiteral:
		return exec.evalObject(node, scope)
	case *Prop:
		return exec.readProp(node, scope)
	case *FunctionCall:
		return exec.evalCall(node, scope)
	case *SetVariable:
		return exec.assign(node, scope)
	default:
		return NewNone(), exec.runtimeErrorAt(n.Pos(), "Invalid expression.")
	}
}

func (exec *Execution) evalToken(tok *Token, scope *Scope) (Value, error) {
	switch tok.Kind {
	case TokenNumber:
		return NewNumber(tok.Number), nil
	case TokenString:
		return NewString(tok.Literal), nil
	case TokenWord:
		switch tok.Literal {
		case "None":
			return NewNone(), nil
		case "True":
			return NewBoolean(true), nil
		case "False":
			return NewBoolean(false), nil
		}
		val, ok := scope.Get(tok.Literal)
		if !ok {
			return NewNone(), exec.typeErrorAt(tok.span, "Undefined variable.")
		}
		return val, nil
	default:
		return NewNone(), exec.runtimeErrorAt(tok.span, "Invalid expression.")
	}
}

func (exec *Execution) evalList(list *ListLiteral, scope *Scope) (Value, error) {
	items := make([]Value, 0, len(list.Items))
	for _, item := range list.Items {
		val, err := exec.evalReady(item.Ready, scope)
		if err != nil {
			return NewNone(), err
		}
		if !item.Spread {
			items = append(items, val)
			continue
		}
		if !val.isIterableLike() {
			return NewNone(), exec.typeErrorAt(item.span, "Expected an iterable for the spread operator.")
		}
		items = append(items, val.items()...)
	}
	return NewIterable(items), nil
}

func (exec *Execution) evalObject(lit *ObjectLiteral, scope *Scope) (Value, error) {
	obj := newObject()
	for _, entry := range lit.Entries {
		if entry.Spread {
			val, err := exec.evalReady(entry.Ready, scope)
			if err != nil {
				return NewNone(), err
			}
			src := val.Object()
			if src == nil {
				return NewNone(), exec.typeErrorAt(entry.span, "Expected an object for the spread operator.")
			}
			for _, key := range src.keys {
				obj.Set(key, src.values[key])
			}
			continue
		}
		key := entry.Key
		if entry.Pointer {
			keyVal, err := exec.evalReady(entry.KeyExpr, scope)
			if err != nil {
				return NewNone(), err
			}
			key = FormatValue(keyVal, nil)
		}
		val, err := exec.evalReady(entry.Ready, scope)
		if err != nil {
			return NewNone(), err
		}
		obj.Set(key, val)
	}
	return NewObject(obj), nil
}
