package helium

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const defaultRecursionLimit = 256

// Config controls engine output and execution bounds.
type Config struct {
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout io.Writer
	// Palette decorates printed values. Nil prints plain text.
	Palette *Palette
	// RecursionLimit caps the user function call depth.
	RecursionLimit int
	// Logger receives debug records for pipeline stages. Nil discards them.
	Logger *slog.Logger
}

// Engine compiles and runs Helium programs.
type Engine struct {
	config Config
	logger *slog.Logger
}

// NewEngine constructs an Engine, filling in defaults for unset fields.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("helium: recursion limit must not be negative, got %d", cfg.RecursionLimit)
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{config: cfg, logger: logger}, nil
}

// MustNewEngine constructs an Engine or panics when the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

func (e *Engine) Config() Config { return e.config }

// NewScope returns a fresh main scope on top of the builtins.
func (e *Engine) NewScope() *Scope { return NewScope() }

// Script is a parsed program ready to run.
type Script struct {
	engine     *Engine
	source     string
	statements []Statement
}

func (s *Script) Source() string { return s.source }

func (s *Script) Statements() []Statement { return s.statements }

// Compile tokenizes, groups and parses source.
func (e *Engine) Compile(source string) (*Script, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	nodes, err := GroupTokens(source, tokens)
	if err != nil {
		return nil, err
	}
	stmts, err := Parse(source, nodes)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("compiled script",
		slog.Int("tokens", len(tokens)),
		slog.Int("nodes", len(nodes)),
		slog.Int("statements", len(stmts)))
	return &Script{engine: e, source: source, statements: stmts}, nil
}

// Run executes the script in scope, or in a fresh main scope when scope is
// nil. It returns the value of the last statement executed.
func (s *Script) Run(ctx context.Context, scope *Scope) (Value, error) {
	return s.engine.Run(ctx, s.source, s.statements, scope)
}

// Run executes parsed statements against scope. A top-level return stops
// the run and yields the returned value; exit() surfaces as *ExitError.
func (e *Engine) Run(ctx context.Context, source string, stmts []Statement, scope *Scope) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if scope == nil {
		scope = NewScope()
	}
	exec := &Execution{
		engine:       e,
		ctx:          ctx,
		source:       source,
		stdout:       e.config.Stdout,
		palette:      e.config.Palette,
		recursionCap: e.config.RecursionLimit,
	}
	val, _, err := exec.execStatements(stmts, scope)
	if err != nil {
		if code, ok := IsExit(err); ok {
			e.logger.Debug("script exited", slog.Int("code", code))
		} else {
			e.logger.Debug("script failed", slog.String("error", err.Error()))
		}
		return NewNone(), err
	}
	e.logger.Debug("script finished", slog.String("result", val.kind.String()))
	return val, nil
}

// Execute compiles and runs source in a fresh scope.
func (e *Engine) Execute(ctx context.Context, source string) (Value, error) {
	script, err := e.Compile(source)
	if err != nil {
		return NewNone(), err
	}
	return script.Run(ctx, nil)
}
