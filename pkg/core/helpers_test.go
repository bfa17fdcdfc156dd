package core

import (
	"testing"

	"github.com/leapstack-labs/sqlframe/pkg/format"
	"github.com/stretchr/testify/require"
)

// must unwraps a constructor result in test fixtures.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func col(name string) *ColumnRef { return must(NewColumnRef(name)) }

func lit(v any) *Literal { return must(NewLiteral(v)) }

func table(path string) *Table { return must(NewTable(path)) }

// flat renders e on a single line.
func flat(t *testing.T, e Expr) string {
	t.Helper()
	out, err := Render(e, format.Flat())
	require.NoError(t, err)
	return out
}

// simpleQuery builds "SELECT * FROM path".
func simpleQuery(path string) *Query {
	return must(NewQuery(SelectAll(), must(NewFrom(table(path), ""))))
}
