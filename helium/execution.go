package helium

import (
	"context"
	"io"
)

// Execution holds the state of a single run.
type Execution struct {
	engine       *Engine
	ctx          context.Context
	source       string
	stdout       io.Writer
	palette      *Palette
	recursionCap int
	callStack    []callFrame
}

type callFrame struct {
	Function string
	Span     Span
}

// Stdout is where print writes.
func (exec *Execution) Stdout() io.Writer { return exec.stdout }

// Palette is the value decoration configured for print; it may be nil.
func (exec *Execution) Palette() *Palette { return exec.palette }

func (exec *Execution) step() error {
	select {
	case <-exec.ctx.Done():
		return exec.ctx.Err()
	default:
		return nil
	}
}

// execStatements runs stmts in order. The boolean result reports whether a
// return statement ended the sequence.
func (exec *Execution) execStatements(stmts []Statement, scope *Scope) (Value, bool, error) {
	result := NewNone()
	for _, stmt := range stmts {
		if err := exec.step(); err != nil {
			return NewNone(), false, err
		}
		val, returned, err := exec.execStatement(stmt, scope)
		if err != nil {
			return NewNone(), false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

func (exec *Execution) execStatement(stmt Statement, scope *Scope) (Value, bool, error) {
	switch s := stmt.(type) {
	case *ExecutionStmt:
		val, err := exec.evalReady(s.Ready, scope)
		return val, false, err
	case *Return:
		val, err := exec.evalReady(s.Ready, scope)
		if err != nil {
			return NewNone(), false, err
		}
		return val, true, nil
	case *FunctionDecl:
		fn := NewFunction(&Function{Name: s.Name, Params: s.Params, Body: s.Body, Scope: scope})
		scope.Define(s.Name, fn)
		return fn, false, nil
	default:
		return NewNone(), false, exec.runtimeErrorAt(stmt.Pos(), "Unsupported statement.")
	}
}
