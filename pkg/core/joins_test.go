package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJoinType(t *testing.T) {
	tests := []struct {
		input string
		want  JoinType
	}{
		{"inner", JoinInner},
		{"LEFT", JoinLeft},
		{"right", JoinRight},
		{"full  outer", JoinFullOuter},
		{"cross", JoinCross},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseJoinType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseJoinType("outer")
	assert.EqualError(t, err, "supported join types are 'inner', 'left', 'right', 'full outer' and 'cross', got 'outer'")
}

func TestJoin_Render(t *testing.T) {
	on := must(NewEqual(col("A.id"), col("B.id")))

	tests := []struct {
		name     string
		join     func() (*Join, error)
		expected string
	}{
		{
			name:     "inner between tables",
			join:     func() (*Join, error) { return NewJoin(JoinInner, table("t1"), "A", table("t2"), "B", on) },
			expected: "t1 AS A INNER JOIN t2 AS B ON A.id = B.id",
		},
		{
			name:     "left outer",
			join:     func() (*Join, error) { return NewJoin(JoinLeft, table("t1"), "A", table("t2"), "B", on) },
			expected: "t1 AS A LEFT OUTER JOIN t2 AS B ON A.id = B.id",
		},
		{
			name:     "cross without aliases",
			join:     func() (*Join, error) { return NewJoin(JoinCross, table("t1"), "", table("t2"), "", nil) },
			expected: "t1 CROSS JOIN t2",
		},
		{
			name: "subquery operand",
			join: func() (*Join, error) {
				return NewJoin(JoinFullOuter, simpleQuery("t1"), "A", table("t2"), "B", on)
			},
			expected: "(SELECT * FROM t1) AS A FULL OUTER JOIN t2 AS B ON A.id = B.id",
		},
		{
			name: "nested join",
			join: func() (*Join, error) {
				inner := must(NewJoin(JoinInner, table("t1"), "A", table("t2"), "B", on))
				return NewJoin(JoinRight, inner, "", table("t3"), "C", must(NewEqual(col("C.id"), col("A.id"))))
			},
			expected: "t1 AS A INNER JOIN t2 AS B ON A.id = B.id RIGHT OUTER JOIN t3 AS C ON C.id = A.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := tt.join()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, flat(t, j))
		})
	}
}

func TestJoin_Errors(t *testing.T) {
	on := must(NewEqual(col("A.id"), col("B.id")))
	inner := must(NewJoin(JoinInner, table("t1"), "A", table("t2"), "B", on))

	tests := []struct {
		name    string
		join    func() (*Join, error)
		wantErr string
	}{
		{
			name:    "duplicate aliases",
			join:    func() (*Join, error) { return NewJoin(JoinInner, table("t1"), "A", table("t2"), "A", on) },
			wantErr: "duplicate aliases, 'A'",
		},
		{
			name:    "duplicate along the left spine",
			join:    func() (*Join, error) { return NewJoin(JoinInner, inner, "", table("t3"), "A", on) },
			wantErr: "can't have duplicate aliases for tables, found: A",
		},
		{
			name:    "nested join with alias",
			join:    func() (*Join, error) { return NewJoin(JoinInner, inner, "X", table("t3"), "C", on) },
			wantErr: "a nested join can't have an alias",
		},
		{
			name:    "left subquery without alias",
			join:    func() (*Join, error) { return NewJoin(JoinInner, simpleQuery("t1"), "", table("t2"), "B", on) },
			wantErr: "left subquery must have an alias",
		},
		{
			name:    "right subquery without alias",
			join:    func() (*Join, error) { return NewJoin(JoinInner, table("t1"), "A", simpleQuery("t2"), "", on) },
			wantErr: "right subquery must have an alias",
		},
		{
			name:    "missing ON",
			join:    func() (*Join, error) { return NewJoin(JoinInner, table("t1"), "A", table("t2"), "B", nil) },
			wantErr: "INNER JOIN requires an ON predicate",
		},
		{
			name:    "ON on cross join",
			join:    func() (*Join, error) { return NewJoin(JoinCross, table("t1"), "A", table("t2"), "B", on) },
			wantErr: "CROSS JOIN can't have an ON predicate",
		},
		{
			name:    "non-logical ON",
			join:    func() (*Join, error) { return NewJoin(JoinInner, table("t1"), "A", table("t2"), "B", col("x")) },
			wantErr: "join ON predicate must be a logical expression, got Column",
		},
		{
			name:    "join on the right",
			join:    func() (*Join, error) { return NewJoin(JoinInner, table("t3"), "C", inner, "", on) },
			wantErr: "the right side of a join can't be a join",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.join()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			var cerr *Error
			assert.True(t, errors.As(err, &cerr))
		})
	}
}

func TestJoin_Aliases(t *testing.T) {
	on := must(NewEqual(col("A.id"), col("B.id")))
	inner := must(NewJoin(JoinInner, table("t1"), "A", table("t2"), "B", on))
	outer := must(NewJoin(JoinCross, inner, "", table("t3"), "C", nil))
	assert.Equal(t, []string{"A", "B", "C"}, outer.Aliases())
}
