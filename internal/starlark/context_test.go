package starlark

import (
	"testing"

	"github.com/leapstack-labs/sqlframe/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestNewContext(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	globals := ctx.Globals()
	for _, name := range builtinNames {
		assert.Contains(t, globals, name)
		assert.True(t, IsBuiltin(name))
	}
	assert.False(t, IsBuiltin("query"))

	_, err = NewContext(WithVars(map[string]any{"bad": struct{}{}}))
	assert.ErrorContains(t, err, "vars: ")
}

func TestEvalSQL(t *testing.T) {
	ctx, err := NewContext(WithVars(map[string]any{"n": 3}))
	require.NoError(t, err)

	tests := []struct {
		name     string
		expr     string
		locals   starlark.StringDict
		expected string
	}{
		{name: "frame", expr: `table("t").select("a")`, expected: "SELECT a\nFROM t"},
		{name: "column", expr: `fn.upper(col("a")).alias("u")`, expected: "UPPER(a)"},
		{name: "string", expr: `"x" * vars["n"]`, expected: "xxx"},
		{name: "none", expr: `None`, expected: ""},
		{name: "other", expr: `[1, 2]`, expected: "[1, 2]"},
		{
			name:     "locals",
			expr:     `t.where(col("a").gt(1))`,
			locals:   starlark.StringDict{"t": mustFrame(t, ctx, `table("x")`)},
			expected: "SELECT *\nFROM x\nWHERE a > 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ctx.EvalSQL(tt.expr, tt.locals)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func mustFrame(t *testing.T, ctx *ExecutionContext, expr string) starlark.Value {
	t.Helper()
	v, err := ctx.Eval(expr, nil)
	require.NoError(t, err)
	return v
}

func TestEval_Errors(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	_, err = ctx.Eval(`undefined`, nil)
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "undefined", evalErr.Expr)
	assert.Contains(t, err.Error(), `error evaluating "undefined"`)

	// Globals are frozen.
	_, err = ctx.Eval(`vars.update({"a": 1})`, nil)
	assert.Error(t, err)
}

func TestEval_FrameArguments(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	tests := []struct {
		expr    string
		wantErr string
	}{
		{`table("a").union_all(1)`, "union_all: expected a frame, got int"},
		{`table("a").cross_join(col("b"))`, "cross_join: expected a frame, got column"},
		{`table("a").join("b", how="cross")`, "join: expected a frame, got string"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ctx.Eval(tt.expr, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExec_Logging(t *testing.T) {
	logger, rec := testutil.NewRecorder(t)
	ctx, err := NewContext(WithLogger(logger))
	require.NoError(t, err)

	_, err = ctx.Exec("log.star", `query = table("t").select("a").alias("s").select("a")`)
	require.NoError(t, err)
	assert.Equal(t, []string{"replacing select list in place", "wrapping statement as a subquery"}, rec.Messages())
}

func TestEvalError_Format(t *testing.T) {
	tests := []struct {
		err      *EvalError
		expected string
	}{
		{&EvalError{File: "a.star", Line: 3, Message: "boom"}, "a.star:3: boom"},
		{&EvalError{File: "a.star", Message: "boom"}, "a.star: boom"},
		{&EvalError{File: "<expr>", Expr: "x", Message: "boom"}, `error evaluating "x": boom`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.err.Error())
	}
}
