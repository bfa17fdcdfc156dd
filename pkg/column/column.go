// Package column builds selectable expressions fluently.
//
// A Column is an immutable value. Every method returns a new Column; the
// first failure is kept on the result and later calls pass it along
// untouched, so a chain can be checked once through Err:
//
//	c := column.Col("age").Gt(18).And(column.Col("grade").Ge(75))
//	if err := c.Err(); err != nil {
//		return err
//	}
package column

import (
	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/leapstack-labs/sqlframe/pkg/ident"
)

// Column pairs a selectable expression with an optional alias and an
// optional sort order.
type Column struct {
	expr  core.Expr
	alias string
	order *core.OrderSpec
	err   error
}

// Col references a column by name. "*" is the wildcard.
func Col(name string) Column {
	ref, err := core.NewColumnRef(name)
	if err != nil {
		return Column{err: err}
	}
	return Column{expr: ref}
}

// Lit wraps a bool, number or string as a literal.
func Lit(v any) Column {
	l, err := core.NewLiteral(v)
	if err != nil {
		return Column{err: err}
	}
	return Column{expr: l}
}

// Null is the NULL literal.
func Null() Column {
	return Column{expr: core.Null()}
}

// When starts a CASE expression with one branch.
func When(cond Column, value any) Column {
	c, err := core.NewCase(nil, nil)
	if err != nil {
		return Column{err: err}
	}
	return Column{expr: c}.When(cond, value)
}

// FromExpr wraps an already built expression. Only selectable kinds are
// accepted.
func FromExpr(e core.Expr) Column {
	if e == nil {
		return Column{err: core.Errorf(core.KindType, "column expression can't be nil")}
	}
	if !core.IsSelectable(e) {
		return Column{err: core.Errorf(core.KindType, "a column can't wrap a %s expression", e.Kind())}
	}
	return Column{expr: e}
}

// Coerce turns an operand into a Column. Primitives become literals and
// Columns pass through.
func Coerce(v any) (Column, error) {
	switch x := v.(type) {
	case Column:
		return x, x.err
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		c := Lit(x)
		return c, c.err
	}
	return Column{}, core.Errorf(core.KindType, "only supporting string, number, bool or Column, got %T", v)
}

// Fail returns a Column carrying err.
func Fail(err error) Column { return Column{err: err} }

// derive builds a new Column from c, or carries c's error.
func (c Column) derive(build func(core.Expr) (core.Expr, error)) Column {
	if c.err != nil {
		return c
	}
	e, err := build(c.expr)
	if err != nil {
		return Fail(err)
	}
	return Column{expr: e}
}

// binary combines c with a coerced operand.
func binary[E core.Expr](c Column, other any, build func(l, r core.Expr) (E, error)) Column {
	if c.err != nil {
		return c
	}
	o, err := Coerce(other)
	if err != nil {
		return Fail(err)
	}
	return c.derive(func(e core.Expr) (core.Expr, error) { return build(e, o.expr) })
}

func unary[E core.Expr](c Column, build func(core.Expr) (E, error)) Column {
	return c.derive(func(e core.Expr) (core.Expr, error) { return build(e) })
}

// Eq builds "c = other".
func (c Column) Eq(other any) Column { return binary(c, other, core.NewEqual) }

// Ne builds "c <> other".
func (c Column) Ne(other any) Column { return binary(c, other, core.NewNotEqual) }

// Gt builds "c > other".
func (c Column) Gt(other any) Column { return binary(c, other, core.NewGreater) }

// Ge builds "c >= other".
func (c Column) Ge(other any) Column { return binary(c, other, core.NewGreaterOrEqual) }

// Lt builds "c < other".
func (c Column) Lt(other any) Column { return binary(c, other, core.NewLess) }

// Le builds "c <= other".
func (c Column) Le(other any) Column { return binary(c, other, core.NewLessOrEqual) }

// Like builds "c LIKE pattern". The pattern is a string or a Column.
func (c Column) Like(pattern any) Column {
	switch pattern.(type) {
	case string, Column:
	default:
		if c.err != nil {
			return c
		}
		return Fail(core.Errorf(core.KindType, "like only supports string or Column, got %T", pattern))
	}
	return binary(c, pattern, core.NewLike)
}

// And builds "(c) AND (other)". Value operands are tested with IS NOT NULL.
func (c Column) And(other any) Column { return logical(c, other, core.NewAnd) }

// Or builds "(c) OR (other)".
func (c Column) Or(other any) Column { return logical(c, other, core.NewOr) }

func logical(c Column, other any, build func(l, r core.Expr) (*core.BinaryExpr, error)) Column {
	return binary(c, other, func(l, r core.Expr) (*core.BinaryExpr, error) {
		ll, err := core.AsLogical(l)
		if err != nil {
			return nil, err
		}
		rl, err := core.AsLogical(r)
		if err != nil {
			return nil, err
		}
		return build(ll, rl)
	})
}

// Not builds "c <> TRUE".
func (c Column) Not() Column { return unary(c, core.NewNot) }

// IsNull builds "c IS NULL".
func (c Column) IsNull() Column { return unary(c, core.NewIsNull) }

// IsNotNull builds "c IS NOT NULL".
func (c Column) IsNotNull() Column { return unary(c, core.NewIsNotNull) }

// Between builds "c BETWEEN low AND high".
func (c Column) Between(low, high any) Column {
	if c.err != nil {
		return c
	}
	l, err := Coerce(low)
	if err != nil {
		return Fail(err)
	}
	h, err := Coerce(high)
	if err != nil {
		return Fail(err)
	}
	return c.derive(func(e core.Expr) (core.Expr, error) { return core.NewBetween(e, l.expr, h.expr) })
}

// Subquery is a statement builder usable as the right side of IN.
type Subquery interface {
	Node() core.Queryable
	Err() error
}

// IsIn builds "c IN (...)". Values are all Columns, all primitives of one
// kind, or a single Subquery.
func (c Column) IsIn(values ...any) Column {
	if c.err != nil {
		return c
	}
	args := make([]any, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case Column:
			if x.err != nil {
				return x
			}
			args[i] = x.expr
		case Subquery:
			if err := x.Err(); err != nil {
				return Fail(err)
			}
			args[i] = x.Node()
		default:
			args[i] = v
		}
	}
	return c.derive(func(e core.Expr) (core.Expr, error) { return core.NewIn(e, args...) })
}

// Neg builds the unary minus.
func (c Column) Neg() Column { return unary(c, core.NewNegation) }

// Add builds "c + other".
func (c Column) Add(other any) Column { return binary(c, other, core.NewPlus) }

// Sub builds "c - other".
func (c Column) Sub(other any) Column { return binary(c, other, core.NewMinus) }

// Mul builds "c * other".
func (c Column) Mul(other any) Column { return binary(c, other, core.NewMultiply) }

// Div builds "c / other".
func (c Column) Div(other any) Column { return binary(c, other, core.NewDivide) }

// Mod builds "MOD(c, other)".
func (c Column) Mod(other any) Column {
	return binary(c, other, func(l, r core.Expr) (*core.FuncCall, error) {
		return core.CallFunc("MOD", l, r)
	})
}

// FloorDiv builds "FLOOR(c / other)".
func (c Column) FloorDiv(other any) Column {
	return binary(c, other, func(l, r core.Expr) (*core.FuncCall, error) {
		div, err := core.NewDivide(l, r)
		if err != nil {
			return nil, err
		}
		return core.CallFunc("FLOOR", div)
	})
}

const caseOnly = "can only work on columns which have a CaseExpression, use when"

// When appends a CASE branch. c must wrap a CASE expression.
func (c Column) When(cond Column, value any) Column {
	if c.err != nil {
		return c
	}
	ce, ok := c.expr.(*core.CaseExpr)
	if !ok {
		return Fail(core.Errorf(core.KindType, caseOnly))
	}
	if cond.err != nil {
		return cond
	}
	v, err := Coerce(value)
	if err != nil {
		return Fail(err)
	}
	next, err := ce.AddWhen(cond.expr, v.expr)
	if err != nil {
		return Fail(err)
	}
	return Column{expr: next}
}

// Otherwise sets the CASE default. c must wrap a CASE expression.
func (c Column) Otherwise(value any) Column {
	if c.err != nil {
		return c
	}
	ce, ok := c.expr.(*core.CaseExpr)
	if !ok {
		return Fail(core.Errorf(core.KindType, caseOnly))
	}
	v, err := Coerce(value)
	if err != nil {
		return Fail(err)
	}
	next, err := ce.WithElse(v.expr)
	if err != nil {
		return Fail(err)
	}
	return Column{expr: next}
}

// Nulls places NULLs in a sort.
type Nulls int

// Nulls constants.
const (
	NullsFirst Nulls = iota + 1
	NullsLast
)

// Asc sorts ascending. Without nulls the current placement is kept.
func (c Column) Asc(nulls ...Nulls) Column { return c.sorted(false, nulls) }

// Desc sorts descending. Without nulls the current placement is kept.
func (c Column) Desc(nulls ...Nulls) Column { return c.sorted(true, nulls) }

func (c Column) sorted(desc bool, nulls []Nulls) Column {
	if c.err != nil {
		return c
	}
	spec := c.OrderSpec()
	spec.Desc = desc
	if len(nulls) > 0 {
		spec.NullsLast = nulls[len(nulls)-1] == NullsLast
	}
	c.order = &spec
	return c
}

// Over applies c over a window. A nil spec is the empty window.
func (c Column) Over(spec *WindowSpec) Column {
	if c.err != nil {
		return c
	}
	var ws *core.WindowSpec
	if spec != nil {
		var err error
		if ws, err = spec.Build(); err != nil {
			return Fail(err)
		}
	}
	return c.derive(func(e core.Expr) (core.Expr, error) { return core.NewAnalytic(e, ws) })
}

// As sets the alias used when c is selected.
func (c Column) As(alias string) Column {
	if c.err != nil {
		return c
	}
	id, err := ident.New(alias)
	if err != nil {
		return Fail(err)
	}
	c.alias = id.String()
	return c
}

// Expr returns the wrapped expression, nil when c failed.
func (c Column) Expr() core.Expr { return c.expr }

// Alias returns the alias, or "".
func (c Column) Alias() string { return c.alias }

// OrderSpec returns the sort order, ASC NULLS FIRST unless set.
func (c Column) OrderSpec() core.OrderSpec {
	if c.order == nil {
		return core.OrderSpec{}
	}
	return *c.order
}

// Err returns the first failure of the chain that built c.
func (c Column) Err() error { return c.err }

// SelectItem returns c as a SELECT list entry.
func (c Column) SelectItem() core.SelectItem {
	return core.SelectItem{Expr: c.expr, Alias: c.alias}
}

// OrderItem returns c as an ORDER BY entry.
func (c Column) OrderItem() core.OrderItem {
	return core.OrderItem{Expr: c.expr, Spec: c.OrderSpec()}
}

// SQL renders the expression on one line.
func (c Column) SQL() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if c.expr == nil {
		return "", core.Errorf(core.KindType, "column has no expression")
	}
	return core.SQL(c.expr)
}

// String renders c, or reports its error.
func (c Column) String() string {
	s, err := c.SQL()
	if err != nil {
		return "<error: " + err.Error() + ">"
	}
	return s
}
