package starlark

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/leapstack-labs/sqlframe/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScripts(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected string
	}{
		{
			name:     "select and filter",
			script:   `query = table("db.t1").where(col("age").gt(18)).select("id", "name")`,
			expected: "SELECT id, name FROM db.t1 WHERE age > 18",
		},
		{
			name:     "operators",
			script:   `query = table("t").select((col("a") + 1).alias("b"), (-col("c")).alias("d"), (col("x") // 2).alias("e"), (10 % col("y")).alias("f"))`,
			expected: "SELECT a + 1 AS b, -c AS d, FLOOR(x / 2) AS e, MOD(10, y) AS f FROM t",
		},
		{
			name:     "logic",
			script:   `query = table("t").where((col("a").eq(1) | col("b").is_null()) & ~col("c").like("x%"))`,
			expected: "SELECT * FROM t WHERE ((a = 1) OR (b IS NULL)) AND ((c LIKE 'x%') <> TRUE)",
		},
		{
			name:     "between and in",
			script:   `query = table("t").where(col("a").between(1, 5) & col("b").is_in("x", "y"))`,
			expected: "SELECT * FROM t WHERE (a BETWEEN 1 AND 5) AND (b IN ('x', 'y'))",
		},
		{
			name:     "in a subquery",
			script:   `query = table("t").where(col("id").is_in(table("u").select("id")))`,
			expected: "SELECT * FROM t WHERE id IN (SELECT id FROM u)",
		},
		{
			name: "case",
			script: `
size = when(col("n").gt(100), "large").when(col("n").gt(10), "medium").otherwise("small")
query = table("t").select(col("id"), size.alias("size"))
`,
			expected: "SELECT id, CASE WHEN n > 100 THEN 'large' WHEN n > 10 THEN 'medium' ELSE 'small' END AS size FROM t",
		},
		{
			name: "aggregation",
			script: `
query = (table("db.emp")
    .group_by("dept")
    .agg(fn.count(col("id")).alias("n"))
    .having(fn.count(col("id")).gt(1))
    .order_by(col("n").desc(nulls = "last"))
    .limit(5, offset = 10))
`,
			expected: "SELECT dept, COUNT(id) AS n FROM db.emp GROUP BY dept HAVING COUNT(id) > 1 ORDER BY n DESC NULLS LAST LIMIT 5 OFFSET 10",
		},
		{
			name:     "positional group by",
			script:   `query = table("t").group_by(1).agg(col("k"), fn.sum(col("v"))).order_by(2)`,
			expected: "SELECT k, SUM(v) FROM t GROUP BY 1 ORDER BY 2",
		},
		{
			name: "window",
			script: `
w = window().partition_by("user_id").order_by(col("ts").desc()).rows_between(None, 0)
query = table("events").qualify(fn.row_number().over(w).eq(1))
`,
			expected: "SELECT * FROM events QUALIFY ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY ts DESC NULLS FIRST ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) = 1",
		},
		{
			name:     "empty window",
			script:   `query = table("t").select(fn.rank().over().alias("r"))`,
			expected: "SELECT RANK() OVER () AS r FROM t",
		},
		{
			name: "join",
			script: `
a = table("t1").alias("A")
b = table("t2").alias("B")
query = a.join(b, col("A.id").eq(col("B.id")), how = "left").select("A.id", "B.v")
`,
			expected: "SELECT A.id, B.v FROM t1 AS A LEFT OUTER JOIN t2 AS B ON A.id = B.id",
		},
		{
			name:     "cross join",
			script:   `query = table("t1").alias("A").join(table("t2").alias("B"), how = "cross")`,
			expected: "SELECT * FROM t1 AS A CROSS JOIN t2 AS B",
		},
		{
			name:     "set operations",
			script:   `query = table("a").union_all(table("b")).except_distinct(table("c"))`,
			expected: "(SELECT * FROM a UNION ALL SELECT * FROM b) EXCEPT DISTINCT SELECT * FROM c",
		},
		{
			name:     "with column and distinct",
			script:   `query = table("t").with_column("flag", col("x").gt(0)).distinct()`,
			expected: "SELECT DISTINCT _t1.*, x > 0 AS flag FROM (SELECT * FROM t) AS _t1",
		},
		{
			name:     "literals",
			script:   `query = table("t").select(lit(1).alias("one"), lit("s").alias("s"), lit(None).alias("n"), null().alias("m"), fn.coalesce(col("a"), "n/a").alias("c"))`,
			expected: "SELECT 1 AS one, 's' AS s, NULL AS n, NULL AS m, COALESCE(a, 'n/a') AS c FROM t",
		},
		{
			name:     "vars",
			script:   `query = table(vars["table"]).where(col("age").ge(vars["min_age"]))`,
			expected: "SELECT * FROM db.people WHERE age >= 21",
		},
	}

	ctx, err := NewContext(WithVars(map[string]any{"table": "db.people", "min_age": 21}))
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ctx.Exec(tt.name+".star", tt.script)
			require.NoError(t, err)
			out, err := f.Render(format.Flat())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestScripts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{
			name:    "invalid name",
			script:  `query = table("t").select(col("1a"))`,
			wantErr: "illegal name",
		},
		{
			name:    "sub select without alias",
			script:  `query = table("t").select("a").select("b")`,
			wantErr: "when sub selecting, first use an alias",
		},
		{
			name:    "unknown join type",
			script:  `query = table("a").alias("A").join(table("b").alias("B"), how = "outer")`,
			wantErr: "supported join types are",
		},
		{
			name:    "missing on",
			script:  `query = table("a").alias("A").join(table("b").alias("B"))`,
			wantErr: "INNER JOIN requires an ON predicate",
		},
		{
			name:    "bad nulls",
			script:  `query = table("t").order_by(col("a").asc(nulls = "middle"))`,
			wantErr: "nulls must be 'first' or 'last', got 'middle'",
		},
		{
			name:    "agg of a string",
			script:  `query = table("t").group_by("a").agg("b")`,
			wantErr: "agg takes columns, got string",
		},
		{
			name:    "unsupported operand",
			script:  `query = table("t").select(col("a") + table("u"))`,
			wantErr: "unknown binary op",
		},
		{
			name:    "unknown attribute",
			script:  `query = table("t").frobnicate()`,
			wantErr: "frobnicate",
		},
		{
			name:    "not a frame",
			script:  `query = col("a")`,
			wantErr: `"query" must be a frame, got column`,
		},
		{
			name:    "syntax",
			script:  "query = table(",
			wantErr: "syntax.star:",
		},
		{
			name:    "case method on a plain column",
			script:  `query = table("t").select(col("a").otherwise(1))`,
			wantErr: "can only work on columns which have a CaseExpression",
		},
	}

	ctx, err := NewContext()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ctx.Exec(tt.name+".star", tt.script)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScripts_ErrorKinds(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)

	_, err = ctx.Exec("s.star", `query = table("t").limit(0)`)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvariant)

	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "s.star", evalErr.File)
	assert.Equal(t, 1, evalErr.Line)
}

func TestFunctionsModule(t *testing.T) {
	m := FunctionsModule()
	for _, def := range core.Funcs() {
		v, err := m.Attr(strings.ToLower(def.Symbol))
		require.NoError(t, err)
		assert.NotNil(t, v, def.Symbol)
	}
	assert.Len(t, m.AttrNames(), len(core.Funcs()))
}
