package helium

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType names the three failure categories of the language.
type ErrorType string

const (
	SyntaxError  ErrorType = "SyntaxError"
	TypeError    ErrorType = "TypeError"
	RuntimeError ErrorType = "RuntimeError"
)

type StackFrame struct {
	Function string
	Pos      Position
}

// Error is a fatal diagnostic anchored to a source span.
type Error struct {
	Type    ErrorType
	Message string
	Span    Span
	Source  string
	Frames  []StackFrame

	located bool
}

const (
	errorFrameHead = 8
	errorFrameTail = 8
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.located {
		if frame := formatCodeFrame(e.Source, e.Span); frame != "" {
			b.WriteString("\n")
			b.WriteString(frame)
		}
	}
	renderFrame := func(frame StackFrame) {
		fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
	}
	if len(e.Frames) <= errorFrameHead+errorFrameTail {
		for _, frame := range e.Frames {
			renderFrame(frame)
		}
		return b.String()
	}
	for _, frame := range e.Frames[:errorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(e.Frames) - (errorFrameHead + errorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range e.Frames[len(e.Frames)-errorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Located reports whether the error carries a source span.
func (e *Error) Located() bool { return e.located }

// Position returns the line and column where the error span starts.
func (e *Error) Position() Position {
	return PositionOf(e.Source, e.Span.Start)
}

// ExitError is raised by the exit built-in. It stops the run without being
// a failure of the script.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// IsExit reports whether err is an exit request and returns its code.
func IsExit(err error) (int, bool) {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code, true
	}
	return 0, false
}

func newError(kind ErrorType, source string, span Span, message string) *Error {
	return &Error{Type: kind, Message: message, Span: span, Source: source, located: true}
}

func syntaxErrorf(source string, span Span, format string, args ...any) error {
	return newError(SyntaxError, source, span, fmt.Sprintf(format, args...))
}

// typeErrorf and runtimeErrorf build span-less errors for native functions;
// the evaluator anchors them at the call site.
func typeErrorf(format string, args ...any) error {
	return &Error{Type: TypeError, Message: fmt.Sprintf(format, args...)}
}

func runtimeErrorf(format string, args ...any) error {
	return &Error{Type: RuntimeError, Message: fmt.Sprintf(format, args...)}
}

func (exec *Execution) errorAt(kind ErrorType, span Span, format string, args ...any) error {
	err := newError(kind, exec.source, span, fmt.Sprintf(format, args...))
	err.Frames = exec.frames(span)
	return err
}

func (exec *Execution) typeErrorAt(span Span, format string, args ...any) error {
	return exec.errorAt(TypeError, span, format, args...)
}

func (exec *Execution) runtimeErrorAt(span Span, format string, args ...any) error {
	return exec.errorAt(RuntimeError, span, format, args...)
}

// wrapError anchors errors produced without a location at span.
func (exec *Execution) wrapError(err error, span Span) error {
	if err == nil {
		return nil
	}
	if _, ok := IsExit(err); ok {
		return err
	}
	var herr *Error
	if errors.As(err, &herr) {
		if !herr.located {
			herr.Span = span
			herr.Source = exec.source
			herr.Frames = exec.frames(span)
			herr.located = true
		}
		return herr
	}
	return exec.errorAt(RuntimeError, span, "%s", err.Error())
}

func (exec *Execution) frames(span Span) []StackFrame {
	if len(exec.callStack) == 0 {
		return nil
	}
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	pos := PositionOf(exec.source, span.Start)
	for i := len(exec.callStack) - 1; i >= 0; i-- {
		cf := exec.callStack[i]
		frames = append(frames, StackFrame{Function: cf.Function, Pos: pos})
		pos = PositionOf(exec.source, cf.Span.Start)
	}
	frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	return frames
}
