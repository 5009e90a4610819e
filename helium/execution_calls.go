package helium

func (exec *Execution) evalCall(call *FunctionCall, scope *Scope) (Value, error) {
	callee, ok := scope.Get(call.Name)
	if !ok {
		return NewNone(), exec.typeErrorAt(call.nameSpan, "Undefined function.")
	}
	fn := callee.Function()
	if fn == nil {
		return NewNone(), exec.typeErrorAt(call.nameSpan, "Cannot call a non-function.")
	}
	args, err := exec.evalArgs(call.Args, scope)
	if err != nil {
		return NewNone(), err
	}
	if fn.Native != nil {
		val, err := fn.Native(exec, args)
		if err != nil {
			return NewNone(), exec.wrapError(err, call.span)
		}
		return val, nil
	}
	return exec.callFunction(fn, args, call.span, scope)
}

func (exec *Execution) evalArgs(exprs []Expr, scope *Scope) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := exec.evalReady(expr.Ready, scope)
		if err != nil {
			return nil, err
		}
		if !expr.Spread {
			args = append(args, val)
			continue
		}
		if !val.isIterableLike() {
			return nil, exec.typeErrorAt(expr.span, "Expected an iterable for the spread operator.")
		}
		args = append(args, val.items()...)
	}
	return args, nil
}

// callFunction runs a user function in a new function scope whose parent is
// the caller's scope. Default parameter values are evaluated in the scope
// the function was declared in.
func (exec *Execution) callFunction(fn *Function, args []Value, span Span, caller *Scope) (Value, error) {
	if err := exec.pushFrame(fn.Name, span); err != nil {
		return NewNone(), err
	}
	defer exec.popFrame()

	local := newScope(ScopeFunction, caller)
	if err := exec.bindArgs(fn, local, args); err != nil {
		return NewNone(), err
	}
	val, returned, err := exec.execStatements(fn.Body, local)
	if err != nil {
		return NewNone(), err
	}
	if !returned {
		return NewNone(), nil
	}
	return val, nil
}

func (exec *Execution) bindArgs(fn *Function, local *Scope, args []Value) error {
	for i, param := range fn.Params {
		if param.Variadic {
			var rest []Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			local.Define(param.Name, NewIterable(rest))
			return nil
		}
		if i < len(args) {
			local.Define(param.Name, args[i])
			continue
		}
		if param.Default == nil {
			local.Define(param.Name, NewNone())
			continue
		}
		defining := fn.Scope
		if defining == nil {
			defining = local
		}
		val, err := exec.evalReady(param.Default, defining)
		if err != nil {
			return err
		}
		local.Define(param.Name, val)
	}
	return nil
}

func (exec *Execution) pushFrame(function string, span Span) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.runtimeErrorAt(span, "Maximum call depth exceeded.")
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Span: span})
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}
