package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(n int) *int { return &n }

func TestWindowFrame(t *testing.T) {
	tests := []struct {
		name       string
		rows       bool
		start, end *int
		expected   string
	}{
		{name: "unbounded", rows: true, expected: "ROWS BETWEEN UNBOUNDED PRECEDING AND UNBOUNDED FOLLOWING"},
		{name: "preceding to current", rows: true, start: ptr(-3), end: ptr(0), expected: "ROWS BETWEEN 3 PRECEDING AND CURRENT ROW"},
		{name: "range following", start: ptr(0), end: ptr(2), expected: "RANGE BETWEEN CURRENT ROW AND 2 FOLLOWING"},
		{name: "open end", rows: true, start: ptr(1), expected: "ROWS BETWEEN 1 FOLLOWING AND UNBOUNDED FOLLOWING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewWindowFrame(tt.rows, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, flat(t, f))
		})
	}

	_, err := NewWindowFrame(true, ptr(5), ptr(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.Equal(t, "window frame start (5) can't be after its end (2)", err.Error())
}

func TestWindowSpec(t *testing.T) {
	frame := must(NewWindowFrame(true, nil, ptr(0)))
	spec, err := NewWindowSpec(
		[]Expr{col("a"), col("b")},
		[]OrderItem{{Expr: col("c"), Spec: OrderSpec{Desc: true, NullsLast: true}}},
		frame,
	)
	require.NoError(t, err)
	assert.Equal(t,
		"PARTITION BY a, b ORDER BY c DESC NULLS LAST ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW",
		flat(t, spec))

	an := must(NewAnalytic(must(CallFunc("SUM", col("x"))), spec))
	assert.Equal(t,
		"SUM(x) OVER (PARTITION BY a, b ORDER BY c DESC NULLS LAST ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW)",
		flat(t, an))

	empty := must(NewAnalytic(must(CallFunc("ROW_NUMBER")), nil))
	assert.Equal(t, "ROW_NUMBER() OVER ()", flat(t, empty))
}

func TestWindowSpec_Errors(t *testing.T) {
	rows := must(NewWindowFrame(true, nil, nil))
	rng := must(NewWindowFrame(false, nil, nil))
	order := []OrderItem{{Expr: col("a")}, {Expr: col("b")}}

	_, err := NewWindowSpec(nil, nil, rows)
	assert.EqualError(t, err, "a window frame requires an ORDER BY")

	_, err = NewWindowSpec(nil, order, rng)
	assert.EqualError(t, err, "a RANGE window frame requires exactly 1 ORDER BY item, got 2")

	_, err = NewWindowSpec(nil, order, rows)
	assert.NoError(t, err)

	_, err = NewWindowSpec([]Expr{table("t")}, nil, nil)
	assert.True(t, errors.Is(err, ErrType))
}

func TestOrderSpec(t *testing.T) {
	item := OrderItem{Expr: col("a")}
	assert.Equal(t, "ORDER BY a ASC NULLS FIRST", flat(t, must(NewOrderBy(item))))
}
