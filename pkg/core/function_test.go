package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncCall(t *testing.T) {
	mod, err := NewFuncCall("MOD", map[string]Expr{"X": lit(5), "Y": lit(3)})
	require.NoError(t, err)
	assert.Equal(t, "MOD(5, 3)", flat(t, mod))
	assert.False(t, mod.IsAggregate())
	assert.Equal(t, []string{"X", "Y"}, mod.ArgNames())

	sum := must(CallFunc("sum", col("a")))
	assert.Equal(t, "SUM(a)", flat(t, sum))
	assert.True(t, sum.IsAggregate())
	assert.Equal(t, "SUM", sum.Symbol())

	assert.Equal(t, "CURRENT_DATE()", flat(t, must(CallFunc("CURRENT_DATE"))))
	assert.Equal(t, "FLOOR(a / b)", flat(t, must(CallFunc("FLOOR", must(NewDivide(col("a"), col("b")))))))
}

func TestFuncCall_Errors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() error
		wantErr string
	}{
		{
			name:    "unknown symbol",
			build:   func() error { _, err := CallFunc("FROB", col("a")); return err },
			wantErr: `unknown function "FROB"`,
		},
		{
			name: "extra argument",
			build: func() error {
				_, err := NewFuncCall("ABS", map[string]Expr{"X": col("a"), "Z": col("b")})
				return err
			},
			wantErr: "ABS got unexpected arguments: [Z], expected: [X]",
		},
		{
			name:    "missing argument",
			build:   func() error { _, err := NewFuncCall("MOD", map[string]Expr{"X": col("a")}); return err },
			wantErr: "MOD is missing arguments: [Y]",
		},
		{
			name:    "nil argument",
			build:   func() error { _, err := NewFuncCall("ABS", map[string]Expr{"X": nil}); return err },
			wantErr: "ABS argument X can't be nil",
		},
		{
			name:    "wrong positional count",
			build:   func() error { _, err := CallFunc("MOD", col("a")); return err },
			wantErr: "MOD expects 2 arguments [X, Y], got 1",
		},
		{
			name:    "non-selectable argument",
			build:   func() error { _, err := CallFunc("ABS", table("t")); return err },
			wantErr: "ABS argument X must be a selectable expression, got Table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.True(t, errors.Is(err, ErrType))
		})
	}
}

func TestRegistry(t *testing.T) {
	def, ok := LookupFunc("count")
	require.True(t, ok)
	assert.Equal(t, FuncDef{Symbol: "COUNT", Args: []string{"X"}, Aggregate: true}, def)

	// Returned definitions are copies.
	def.Args[0] = "Q"
	again, _ := LookupFunc("COUNT")
	assert.Equal(t, []string{"X"}, again.Args)

	_, ok = LookupFunc("NOPE")
	assert.False(t, ok)

	rank, _ := LookupFunc("rank")
	upper, _ := LookupFunc("upper")
	assert.Equal(t, "aggregate", def.Category())
	assert.Equal(t, "window", rank.Category())
	assert.Equal(t, "scalar", upper.Category())

	all := Funcs()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Symbol, all[i].Symbol)
	}
}
