package starlark

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/leapstack-labs/sqlframe/pkg/frame"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ResultName is the global a script assigns its frame to.
const ResultName = "query"

// ExecutionContext provides all globals for running builder scripts.
type ExecutionContext struct {
	// Vars is exposed to scripts as the "vars" dict.
	Vars map[string]any

	logger  *slog.Logger
	globals starlark.StringDict

	// mu protects globals during initialization
	mu sync.RWMutex
}

// ContextOption is a functional option for configuring ExecutionContext.
type ContextOption func(*ExecutionContext)

// WithVars sets the script variables.
func WithVars(vars map[string]any) ContextOption {
	return func(ctx *ExecutionContext) {
		ctx.Vars = vars
	}
}

// WithLogger sets the logger frames report their composition to.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(ctx *ExecutionContext) {
		ctx.logger = logger
	}
}

// NewContext creates an execution context.
func NewContext(opts ...ContextOption) (*ExecutionContext, error) {
	ctx := &ExecutionContext{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(ctx)
	}
	if err := ctx.buildGlobals(); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (ctx *ExecutionContext) buildGlobals() error {
	vars, err := VarsToStarlark(ctx.Vars)
	if err != nil {
		return fmt.Errorf("vars: %w", err)
	}
	globals := Predeclared(vars, ctx.logger)
	globals.Freeze()

	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.globals = globals
	return nil
}

// Globals returns the predeclared globals.
func (ctx *ExecutionContext) Globals() starlark.StringDict {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.globals
}

// Exec runs a script and returns the frame it assigns to "query".
func (ctx *ExecutionContext) Exec(filename string, src any) (*frame.Frame, error) {
	return ctx.exec(newThread(filename), filename, src)
}

func (ctx *ExecutionContext) exec(thread *starlark.Thread, filename string, src any) (*frame.Frame, error) {
	out, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, ctx.Globals())
	if err != nil {
		return nil, newEvalError(filename, "", err)
	}
	v, ok := out[ResultName]
	if !ok {
		return nil, &EvalError{File: filename, Message: fmt.Sprintf("script must assign a frame to %q", ResultName)}
	}
	f, ok := v.(*Frame)
	if !ok {
		return nil, &EvalError{File: filename, Message: fmt.Sprintf("%q must be a frame, got %s", ResultName, v.Type())}
	}
	return f.f, nil
}

// Eval evaluates a single expression. locals take precedence over the
// predeclared globals.
func (ctx *ExecutionContext) Eval(expr string, locals starlark.StringDict) (starlark.Value, error) {
	globals := ctx.Globals()
	if len(locals) > 0 {
		combined := make(starlark.StringDict, len(globals)+len(locals))
		for k, v := range globals {
			combined[k] = v
		}
		for k, v := range locals {
			combined[k] = v
		}
		globals = combined
	}
	result, err := starlark.EvalOptions(&syntax.FileOptions{}, newThread("<expr>"), "<expr>", expr, globals)
	if err != nil {
		return nil, newEvalError("<expr>", expr, err)
	}
	return result, nil
}

// EvalSQL evaluates an expression and renders the frame or column it
// produces. Other values are returned in their Starlark form.
func (ctx *ExecutionContext) EvalSQL(expr string, locals starlark.StringDict) (string, error) {
	result, err := ctx.Eval(expr, locals)
	if err != nil {
		return "", err
	}
	switch v := result.(type) {
	case *Frame:
		return v.f.SQL()
	case *Column:
		return v.col.SQL()
	case starlark.String:
		return string(v), nil
	case starlark.NoneType:
		return "", nil
	default:
		return result.String(), nil
	}
}

// BuiltinNames returns the predeclared global names.
func BuiltinNames() []string {
	return slices.Clone(builtinNames)
}

// IsBuiltin reports whether name is a predeclared global.
func IsBuiltin(name string) bool {
	return slices.Contains(builtinNames, name)
}

func newThread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, _ string) {
			// Scripts build statements; print output is dropped.
		},
	}
}

// EvalError represents an error while running a script or expression.
type EvalError struct {
	File    string
	Line    int
	Expr    string
	Message string
	cause   error
}

func newEvalError(file, expr string, err error) *EvalError {
	e := &EvalError{File: file, Expr: expr, Message: err.Error(), cause: err}
	var (
		se syntax.Error
		ee *starlark.EvalError
	)
	switch {
	case errors.As(err, &se):
		e.Line, e.Message = int(se.Pos.Line), se.Msg
	case errors.As(err, &ee):
		e.Message = ee.Msg
		for _, fr := range ee.CallStack {
			if fr.Pos.Line > 0 {
				e.Line = int(fr.Pos.Line)
			}
		}
	}
	return e
}

func (e *EvalError) Error() string {
	switch {
	case e.Expr != "":
		return fmt.Sprintf("error evaluating %q: %s", e.Expr, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
}

// Unwrap returns the underlying Starlark or builder error.
func (e *EvalError) Unwrap() error { return e.cause }
