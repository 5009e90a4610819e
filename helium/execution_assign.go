package helium

// compoundOperators maps each compound setter to the binary operator it
// applies.
var compoundOperators = map[string]string{
	"+=":   "+",
	"-=":   "-",
	"*=":   "*",
	"/=":   "/",
	"//=":  "//",
	"%=":   "%",
	"**=":  "**",
	"&=":   "&",
	"|=":   "|",
	"^=":   "^",
	"<<=":  "<<",
	">>=":  ">>",
	">>>=": ">>>",
	"&&=":  "&&",
	"||=":  "||",
	"??=":  "??",
}

func (exec *Execution) assign(set *SetVariable, scope *Scope) (Value, error) {
	switch set.Operator {
	case ":=":
		return exec.assignLocal(set, scope)
	case "=":
		return exec.assignPlain(set, scope)
	}
	op, ok := compoundOperators[set.Operator]
	if !ok {
		return NewNone(), exec.runtimeErrorAt(set.span, "Unknown setter %q.", set.Operator)
	}
	return exec.assignCompound(set, op, scope)
}

// assignLocal binds in the current scope regardless of outer bindings.
func (exec *Execution) assignLocal(set *SetVariable, scope *Scope) (Value, error) {
	target, ok := asToken(set.Target)
	if !ok {
		return NewNone(), exec.runtimeErrorAt(set.span, "The := set operator can only be used on dotless variables.")
	}
	val, err := exec.evalReady(set.Ready, scope)
	if err != nil {
		return NewNone(), err
	}
	scope.Define(target.Literal, val)
	return val, nil
}

func (exec *Execution) assignPlain(set *SetVariable, scope *Scope) (Value, error) {
	switch target := set.Target.(type) {
	case *Token:
		val, err := exec.evalReady(set.Ready, scope)
		if err != nil {
			return NewNone(), err
		}
		scope.Assign(target.Literal, val)
		return val, nil
	case *Prop:
		val, err := exec.evalReady(set.Ready, scope)
		if err != nil {
			return NewNone(), err
		}
		slot, err := exec.resolveSlot(target, scope)
		if err != nil {
			return NewNone(), err
		}
		if err := exec.storeMember(slot, val); err != nil {
			return NewNone(), err
		}
		return val, nil
	}
	return NewNone(), exec.runtimeErrorAt(set.span, "Expected a variable before a setter.")
}

// assignCompound combines the current value with the right-hand side and
// stores the result. Arithmetic forms evaluate the right-hand side before
// reading the target. The logical forms read the target first and skip both
// the right-hand side and the store when it already decides the result.
func (exec *Execution) assignCompound(set *SetVariable, op string, scope *Scope) (Value, error) {
	logical := isLogicalOperator(op)
	var rhs Value
	if !logical {
		val, err := exec.evalReady(set.Ready, scope)
		if err != nil {
			return NewNone(), err
		}
		rhs = val
	}

	var (
		current Value
		slot    propSlot
		name    string
	)
	switch target := set.Target.(type) {
	case *Token:
		val, ok := scope.Get(target.Literal)
		if !ok {
			return NewNone(), exec.typeErrorAt(target.span, "Undefined variable.")
		}
		current, name = val, target.Literal
	case *Prop:
		var err error
		if slot, err = exec.resolveSlot(target, scope); err != nil {
			return NewNone(), err
		}
		if current, err = exec.member(slot.container, slot.key, slot.span); err != nil {
			return NewNone(), err
		}
	default:
		return NewNone(), exec.runtimeErrorAt(set.span, "Expected a variable before a setter.")
	}

	if logical {
		if shortCircuits(op, current) {
			return current, nil
		}
		val, err := exec.evalReady(set.Ready, scope)
		if err != nil {
			return NewNone(), err
		}
		rhs = val
	}
	next, err := applyBinary(op, current, rhs)
	if err != nil {
		return NewNone(), exec.wrapError(err, set.span)
	}
	if name != "" {
		scope.Assign(name, next)
	} else if err := exec.storeMember(slot, next); err != nil {
		return NewNone(), err
	}
	if set.After {
		return next, nil
	}
	return current, nil
}

func isLogicalOperator(op string) bool {
	return op == "&&" || op == "||" || op == "??"
}

func shortCircuits(op string, current Value) bool {
	switch op {
	case "&&":
		return !current.Truthy()
	case "||":
		return current.Truthy()
	case "??":
		return !current.IsNone()
	}
	return false
}
