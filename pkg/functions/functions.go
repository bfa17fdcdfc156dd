// Package functions has one constructor per built-in SQL function.
//
// Operands go through column.Coerce: Columns pass through and Go
// primitives become literals, so Sum("x") sums the string 'x' while
// Sum(column.Col("x")) sums the column.
package functions

import (
	"github.com/leapstack-labs/sqlframe/pkg/column"
	"github.com/leapstack-labs/sqlframe/pkg/core"
)

// Call builds a call to the built-in symbol with positional operands.
func Call(symbol string, args ...any) column.Column {
	exprs := make([]core.Expr, len(args))
	for i, a := range args {
		c, err := column.Coerce(a)
		if err != nil {
			return column.Fail(err)
		}
		exprs[i] = c.Expr()
	}
	f, err := core.CallFunc(symbol, exprs...)
	if err != nil {
		return column.Fail(err)
	}
	return column.FromExpr(f)
}

// Aggregates.

// AnyValue returns ANY_VALUE(x), an arbitrary value of x from the group.
func AnyValue(x any) column.Column { return Call("ANY_VALUE", x) }
// ArrayAgg returns ARRAY_AGG(x), the values of x collected into an array.
func ArrayAgg(x any) column.Column { return Call("ARRAY_AGG", x) }
// Avg returns AVG(x).
func Avg(x any) column.Column { return Call("AVG", x) }
// Count returns COUNT(x). Pass column.Col("*") to count rows.
func Count(x any) column.Column { return Call("COUNT", x) }
// CountIf returns COUNTIF(x), the number of rows where x is true.
func CountIf(x any) column.Column { return Call("COUNTIF", x) }
// LogicalAnd returns LOGICAL_AND(x).
func LogicalAnd(x any) column.Column { return Call("LOGICAL_AND", x) }
// LogicalOr returns LOGICAL_OR(x).
func LogicalOr(x any) column.Column { return Call("LOGICAL_OR", x) }
// Max returns MAX(x).
func Max(x any) column.Column { return Call("MAX", x) }
// Min returns MIN(x).
func Min(x any) column.Column { return Call("MIN", x) }
// Stddev returns STDDEV(x).
func Stddev(x any) column.Column { return Call("STDDEV", x) }
// Sum returns SUM(x).
func Sum(x any) column.Column { return Call("SUM", x) }
// Variance returns VARIANCE(x).
func Variance(x any) column.Column { return Call("VARIANCE", x) }

// Numbering and navigation, applied with Column.Over.

// CumeDist returns CUME_DIST().
func CumeDist() column.Column { return Call("CUME_DIST") }
// DenseRank returns DENSE_RANK().
func DenseRank() column.Column { return Call("DENSE_RANK") }
// FirstValue returns FIRST_VALUE(x).
func FirstValue(x any) column.Column { return Call("FIRST_VALUE", x) }
// Lag returns LAG(x), the value of x on the previous row.
func Lag(x any) column.Column { return Call("LAG", x) }
// LastValue returns LAST_VALUE(x).
func LastValue(x any) column.Column { return Call("LAST_VALUE", x) }
// Lead returns LEAD(x), the value of x on the next row.
func Lead(x any) column.Column { return Call("LEAD", x) }
// Ntile returns NTILE(n), splitting the partition into n buckets.
func Ntile(n any) column.Column { return Call("NTILE", n) }
// PercentRank returns PERCENT_RANK().
func PercentRank() column.Column { return Call("PERCENT_RANK") }
// Rank returns RANK().
func Rank() column.Column { return Call("RANK") }
// RowNumber returns ROW_NUMBER().
func RowNumber() column.Column { return Call("ROW_NUMBER") }

// Scalars.

// Abs returns ABS(x).
func Abs(x any) column.Column { return Call("ABS", x) }
// Ceil returns CEIL(x).
func Ceil(x any) column.Column { return Call("CEIL", x) }
// Coalesce returns COALESCE(x, y), the first of its operands that is not NULL.
func Coalesce(x, y any) column.Column { return Call("COALESCE", x, y) }
// Concat returns CONCAT(x, y).
func Concat(x, y any) column.Column { return Call("CONCAT", x, y) }
// CurrentDate returns CURRENT_DATE().
func CurrentDate() column.Column { return Call("CURRENT_DATE") }
// CurrentTimestamp returns CURRENT_TIMESTAMP().
func CurrentTimestamp() column.Column { return Call("CURRENT_TIMESTAMP") }
// Exp returns EXP(x).
func Exp(x any) column.Column { return Call("EXP", x) }
// Floor returns FLOOR(x).
func Floor(x any) column.Column { return Call("FLOOR", x) }
// IfNull returns IFNULL(x, y), y when x is NULL.
func IfNull(x, y any) column.Column { return Call("IFNULL", x, y) }
// Length returns LENGTH(x).
func Length(x any) column.Column { return Call("LENGTH", x) }
// Ln returns LN(x), the natural logarithm.
func Ln(x any) column.Column { return Call("LN", x) }
// Lower returns LOWER(x).
func Lower(x any) column.Column { return Call("LOWER", x) }
// Mod returns MOD(x, y).
func Mod(x, y any) column.Column { return Call("MOD", x, y) }
// NullIf returns NULLIF(x, y), NULL when x equals y.
func NullIf(x, y any) column.Column { return Call("NULLIF", x, y) }
// Pow returns POW(x, y).
func Pow(x, y any) column.Column { return Call("POW", x, y) }
// Round returns ROUND(x).
func Round(x any) column.Column { return Call("ROUND", x) }
// Sign returns SIGN(x).
func Sign(x any) column.Column { return Call("SIGN", x) }
// Sqrt returns SQRT(x).
func Sqrt(x any) column.Column { return Call("SQRT", x) }
// Substr returns SUBSTR(x, position, length). Positions start at 1.
func Substr(x, position, length any) column.Column { return Call("SUBSTR", x, position, length) }
// Trim returns TRIM(x).
func Trim(x any) column.Column { return Call("TRIM", x) }
// Upper returns UPPER(x).
func Upper(x any) column.Column { return Call("UPPER", x) }
