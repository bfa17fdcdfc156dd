package starlark

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqlframe/pkg/column"
	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/leapstack-labs/sqlframe/pkg/frame"
	"github.com/leapstack-labs/sqlframe/pkg/functions"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Builtin names reserved for the builders.
var builtinNames = []string{"table", "col", "lit", "null", "when", "window", "fn", "vars"}

// VarsToStarlark converts script variables to a Starlark dict.
// The dict is accessible as the "vars" global in scripts.
func VarsToStarlark(vars map[string]any) (starlark.Value, error) {
	if vars == nil {
		return starlark.NewDict(0), nil
	}
	return GoToStarlark(vars)
}

// Predeclared returns the builder globals:
//
//	table("db.t")          a frame selecting everything from a table
//	col("a"), lit(1)       columns
//	null()                 the NULL literal
//	when(cond, value)      a CASE expression
//	window()               an empty window specification
//	fn.sum(x), fn.upper(x) registered functions, by lower case name
//	vars                   the script variables
//
// Frames built by table log to logger.
func Predeclared(vars starlark.Value, logger *slog.Logger) starlark.StringDict {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if vars == nil {
		vars = starlark.NewDict(0)
	}
	return starlark.StringDict{
		"table": starlark.NewBuiltin("table", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var path string
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &path); err != nil {
				return nil, err
			}
			return NewFrame(frame.Table(path).WithLogger(logger))
		}),
		"col": starlark.NewBuiltin("col", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var name string
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
				return nil, err
			}
			return NewColumn(column.Col(name))
		}),
		"lit": starlark.NewBuiltin("lit", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var v starlark.Value
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
				return nil, err
			}
			if v == starlark.None {
				return NewColumn(column.Null())
			}
			a, err := ToArg(v)
			if err != nil {
				return nil, err
			}
			return NewColumn(column.Lit(a))
		}),
		"null": starlark.NewBuiltin("null", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
				return nil, err
			}
			return NewColumn(column.Null())
		}),
		"when": starlark.NewBuiltin("when", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var (
				cond  *Column
				value starlark.Value
			)
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &cond, &value); err != nil {
				return nil, err
			}
			v, err := ToArg(value)
			if err != nil {
				return nil, err
			}
			return NewColumn(column.When(cond.col, v))
		}),
		"window": starlark.NewBuiltin("window", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
				return nil, err
			}
			return newWindow(column.Window())
		}),
		"fn":   FunctionsModule(),
		"vars": vars,
	}
}

// FunctionsModule returns the "fn" module with one builtin per registered
// function. String arguments are literals.
func FunctionsModule() *starlarkstruct.Module {
	members := make(starlark.StringDict)
	for _, def := range core.Funcs() {
		name := strings.ToLower(def.Symbol)
		members[name] = starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(kwargs) > 0 {
				return nil, core.Errorf(core.KindType, "%s: unexpected keyword arguments", b.Name())
			}
			values, err := toArgs(args)
			if err != nil {
				return nil, err
			}
			return NewColumn(functions.Call(def.Symbol, values...))
		})
	}
	return &starlarkstruct.Module{Name: "fn", Members: members}
}
