package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_ClauseOrder(t *testing.T) {
	sel := must(NewSelect([]SelectItem{{Expr: col("dept")}, {Expr: must(CallFunc("COUNT", col("id"))), Alias: "n"}}, false))
	q, err := NewQuery(sel, must(NewFrom(table("db.emp"), "")),
		WithLimit(must(NewLimit(5, 0))),
		WithOrderBy(must(NewOrderByPositions(2))),
		WithHaving(must(NewHaving(must(NewGreater(must(CallFunc("COUNT", col("id"))), lit(1)))))),
		WithGroupBy(must(NewGroupBy(col("dept")))),
		WithWhere(must(NewWhere(must(NewIsNotNull(col("dept")))))),
	)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT dept, COUNT(id) AS n FROM db.emp WHERE dept IS NOT NULL GROUP BY dept HAVING COUNT(id) > 1 ORDER BY 2 LIMIT 5",
		flat(t, q))

	kinds := make([]Kind, 0)
	for _, c := range q.Children() {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, []Kind{KindSelect, KindFrom, KindWhere, KindGroupBy, KindHaving, KindOrderBy, KindLimit}, kinds)
}

func TestQuery_SQL(t *testing.T) {
	sel := must(NewSelect([]SelectItem{{Expr: col("id")}}, false))
	q := must(NewQuery(sel, must(NewFrom(table("db.t1"), "")),
		WithWhere(must(NewWhere(must(NewGreater(col("age"), lit(18))))))))

	out, err := SQL(q)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id\nFROM db.t1\nWHERE age > 18", out)
}

func TestQuery_With(t *testing.T) {
	q := simpleQuery("t")
	limited, err := q.With(WithLimit(must(NewLimit(10, 0))))
	require.NoError(t, err)

	assert.Nil(t, q.Limit())
	assert.Equal(t, 10, limited.Limit().N())
	assert.Equal(t, "SELECT * FROM t LIMIT 10", flat(t, limited))

	cleared, err := limited.With(WithLimit(nil))
	require.NoError(t, err)
	assert.Nil(t, cleared.Limit())

	_, err = q.With(WithSelect(nil))
	assert.EqualError(t, err, "a query requires a SELECT clause")
	assert.True(t, errors.Is(err, ErrType))

	_, err = NewQuery(SelectAll(), nil)
	assert.EqualError(t, err, "a query requires a FROM clause")
}

func TestQuery_IsSimple(t *testing.T) {
	tests := []struct {
		name  string
		query func() *Query
		want  bool
	}{
		{
			name:  "select all from table",
			query: func() *Query { return simpleQuery("t") },
			want:  true,
		},
		{
			name:  "aliased table",
			query: func() *Query { return must(NewQuery(SelectAll(), must(NewFrom(table("t"), "x")))) },
		},
		{
			name: "distinct",
			query: func() *Query {
				return must(NewQuery(SelectAll().WithDistinct(true), must(NewFrom(table("t"), ""))))
			},
		},
		{
			name: "projected",
			query: func() *Query {
				return must(simpleQuery("t").With(WithSelect(must(NewSelect([]SelectItem{{Expr: col("a")}}, false)))))
			},
		},
		{
			name:  "filtered",
			query: func() *Query { return must(simpleQuery("t").With(WithWhere(must(NewWhere(must(NewIsNull(col("a")))))))) },
		},
		{
			name:  "from subquery",
			query: func() *Query { return must(NewQuery(SelectAll(), must(NewFrom(simpleQuery("t"), "s")))) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query().IsSimple())
		})
	}
}
