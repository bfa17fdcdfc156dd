package column

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/leapstack-labs/sqlframe/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, symbol string, args ...core.Expr) Column {
	t.Helper()
	f, err := core.CallFunc(symbol, args...)
	require.NoError(t, err)
	return FromExpr(f)
}

func sqlOf(t *testing.T, c Column) string {
	t.Helper()
	out, err := c.SQL()
	require.NoError(t, err)
	return out
}

func TestColumn_Operators(t *testing.T) {
	a := Col("a")

	tests := []struct {
		name     string
		col      Column
		expected string
	}{
		{"eq literal", Lit(1).Eq("a"), "1 = 'a'"},
		{"and", Lit(1).Eq("a").And(Lit(1).Ne("a")), "(1 = 'a') AND (1 <> 'a')"},
		{"or with values", a.Or(Col("b")), "(a IS NOT NULL) OR (b IS NOT NULL)"},
		{"gt", a.Gt(18), "a > 18"},
		{"ge", a.Ge(1.5), "a >= 1.5"},
		{"lt", a.Lt(Col("b")), "a < b"},
		{"le", a.Le(2.0), "a <= 2.0"},
		{"like", a.Like("x%"), "a LIKE 'x%'"},
		{"is null", a.IsNull(), "a IS NULL"},
		{"is not null", a.IsNotNull(), "a IS NOT NULL"},
		{"not", a.Eq(true).Not(), "(a = TRUE) <> TRUE"},
		{"between", a.Between(1, Col("b")), "a BETWEEN 1 AND b"},
		{"in", a.IsIn(1, 2, 3), "a IN (1, 2, 3)"},
		{"in columns", a.IsIn(Col("b"), Col("c")), "a IN (b, c)"},
		{"neg column", a.Neg(), "-a"},
		{"neg compound", a.Add(1).Neg(), "-(a + 1)"},
		{"arithmetic precedence", a.Add(1).Mul(Col("b")), "(a + 1) * b"},
		{"sub", a.Sub(1), "a - 1"},
		{"div", a.Div(2), "a / 2"},
		{"mod", a.Mod(3), "MOD(a, 3)"},
		{"floor div", a.FloorDiv(Col("b")), "FLOOR(a / b)"},
		{"null", Null(), "NULL"},
		{"wildcard", Col("*"), "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sqlOf(t, tt.col))
		})
	}
}

func TestColumn_Immutable(t *testing.T) {
	a := Col("a")
	_ = a.As("x").Desc()
	assert.Equal(t, "", a.Alias())
	assert.Equal(t, core.OrderSpec{}, a.OrderSpec())

	aliased := a.As("x")
	assert.Equal(t, "x", aliased.Alias())
	assert.Equal(t, core.SelectItem{Expr: a.Expr(), Alias: "x"}, aliased.SelectItem())
}

func TestColumn_Case(t *testing.T) {
	a := Col("a")
	c := When(a.Eq(1), "good").When(a.Eq(0), "bad").Otherwise("dunno")
	assert.Equal(t, "CASE WHEN a = 1 THEN 'good' WHEN a = 0 THEN 'bad' ELSE 'dunno' END", sqlOf(t, c))

	flag := When(Col("flag"), 1).Otherwise(Lit(-1))
	assert.Equal(t, "CASE WHEN flag IS NOT NULL THEN 1 ELSE -1 END", sqlOf(t, flag))

	replaced := c.Otherwise("other")
	assert.Equal(t, "CASE WHEN a = 1 THEN 'good' WHEN a = 0 THEN 'bad' ELSE 'other' END", sqlOf(t, replaced))
}

func TestColumn_CaseOnly(t *testing.T) {
	for _, c := range []Column{
		Col("a").When(Col("b").Eq(1), 2),
		Col("a").Otherwise(2),
	} {
		require.Error(t, c.Err())
		assert.Equal(t, "can only work on columns which have a CaseExpression, use when", c.Err().Error())
		assert.True(t, errors.Is(c.Err(), core.ErrType))
	}
}

func TestColumn_Order(t *testing.T) {
	a := Col("a")
	assert.Equal(t, core.OrderSpec{Desc: true}, a.Desc().OrderSpec())
	assert.Equal(t, core.OrderSpec{Desc: true, NullsLast: true}, a.Desc(NullsLast).OrderSpec())
	assert.Equal(t, core.OrderSpec{NullsLast: true}, a.Desc(NullsLast).Asc().OrderSpec())
	assert.Equal(t, core.OrderSpec{}, a.Desc(NullsLast).Asc(NullsFirst).OrderSpec())
	assert.Equal(t, core.OrderItem{Expr: a.Expr(), Spec: core.OrderSpec{Desc: true}}, a.Desc().OrderItem())
}

func TestColumn_Over(t *testing.T) {
	sum := call(t, "SUM", Col("x").Expr())

	w := Window().PartitionBy("a").OrderBy(Col("b").Desc()).RowsBetween(Unbounded(), Offset(0))
	assert.Equal(t,
		"SUM(x) OVER (PARTITION BY a ORDER BY b DESC NULLS FIRST ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW)",
		sqlOf(t, sum.Over(w)))

	assert.Equal(t, "ROW_NUMBER() OVER ()", sqlOf(t, call(t, "ROW_NUMBER").Over(nil)))

	ranged := Window().OrderBy("d").RangeBetween(Offset(-2), Offset(2))
	assert.Equal(t,
		"SUM(x) OVER (ORDER BY d ASC NULLS FIRST RANGE BETWEEN 2 PRECEDING AND 2 FOLLOWING)",
		sqlOf(t, sum.Over(ranged)))
}

func TestWindow_Errors(t *testing.T) {
	tests := []struct {
		name    string
		spec    *WindowSpec
		wantErr string
	}{
		{
			name:    "mixed partition keys",
			spec:    Window().PartitionBy("a", Col("b")),
			wantErr: "PARTITION BY takes all strings or all Columns",
		},
		{
			name:    "start after end",
			spec:    Window().OrderBy("a").RowsBetween(Offset(5), Offset(2)),
			wantErr: "window frame start (5) can't be after its end (2)",
		},
		{
			name:    "frame without order",
			spec:    Window().RowsBetween(nil, nil),
			wantErr: "a window frame requires an ORDER BY",
		},
		{
			name:    "range with two keys",
			spec:    Window().OrderBy("a", "b").RangeBetween(nil, Offset(0)),
			wantErr: "a RANGE window frame requires exactly 1 ORDER BY item, got 2",
		},
		{
			name:    "sticky",
			spec:    Window().PartitionBy(1).OrderBy("a"),
			wantErr: "PARTITION BY takes all strings or all Columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Col("x").Over(tt.spec)
			require.Error(t, c.Err())
			assert.Equal(t, tt.wantErr, c.Err().Error())
		})
	}
}

func TestColumn_StickyErrors(t *testing.T) {
	bad := Col("1a")
	require.Error(t, bad.Err())
	assert.True(t, errors.Is(bad.Err(), ident.ErrInvalidName))

	chained := bad.Eq(1).And(Col("b")).As("x").Desc()
	assert.Equal(t, bad.Err(), chained.Err())
	_, err := chained.SQL()
	assert.Equal(t, bad.Err(), err)

	fromOperand := Col("a").Eq(bad)
	assert.Equal(t, bad.Err(), fromOperand.Err())

	assert.Contains(t, bad.String(), "<error: ")
}

func TestColumn_TypeErrors(t *testing.T) {
	tests := []struct {
		name    string
		col     Column
		wantErr string
	}{
		{"unsupported operand", Col("a").Eq([]int{1}), "only supporting string, number, bool or Column, got []int"},
		{"like non string", Col("a").Like(5), "like only supports string or Column, got int"},
		{"from table", FromExpr(must(core.NewTable("t"))), "a column can't wrap a Table expression"},
		{"from nil", FromExpr(nil), "column expression can't be nil"},
		{"in mixed", Col("a").IsIn(1, "b"), "IN values must be all expressions, all numbers, all booleans or all strings, got: [int, string]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.col.Err())
			assert.Equal(t, tt.wantErr, tt.col.Err().Error())
			assert.True(t, errors.Is(tt.col.Err(), core.ErrType))
		})
	}
}

func TestColumn_ZeroValue(t *testing.T) {
	var c Column
	assert.NoError(t, c.Err())

	_, err := c.SQL()
	require.Error(t, err)
	assert.Equal(t, "column has no expression", err.Error())
	assert.True(t, errors.Is(err, core.ErrType))
	assert.Equal(t, "<error: column has no expression>", c.String())
}

func TestCoerce(t *testing.T) {
	c, err := Coerce(int64(7))
	require.NoError(t, err)
	assert.Equal(t, "7", c.String())

	c, err = Coerce("x")
	require.NoError(t, err)
	assert.Equal(t, "'x'", c.String())

	in := Col("a")
	c, err = Coerce(in)
	require.NoError(t, err)
	assert.Same(t, in.Expr(), c.Expr())

	_, err = Coerce(struct{}{})
	assert.EqualError(t, err, "only supporting string, number, bool or Column, got struct {}")
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
