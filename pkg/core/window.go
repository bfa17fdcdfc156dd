package core

import (
	"slices"
	"strconv"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// OrderSpec is a sort direction and NULL placement. The zero value is
// ASC NULLS FIRST.
type OrderSpec struct {
	Desc      bool
	NullsLast bool
}

// Tokens returns the direction and NULL placement keywords.
func (o OrderSpec) Tokens() []token.Token {
	dir, nulls := token.ASC, token.NULLS_FIRST
	if o.Desc {
		dir = token.DESC
	}
	if o.NullsLast {
		nulls = token.NULLS_LAST
	}
	return kw(dir, nulls)
}

// OrderItem pairs an expression with its sort order.
type OrderItem struct {
	Expr Expr
	Spec OrderSpec
}

func (o OrderItem) tokens() []token.Token {
	return slices.Concat(o.Expr.Tokens(), o.Spec.Tokens())
}

func orderList(items []OrderItem) []token.Token {
	var out []token.Token
	for i, o := range items {
		if i > 0 {
			out = append(out, comma)
		}
		out = append(out, o.tokens()...)
	}
	return out
}

// ---------- Window frame ----------

// WindowFrame is a ROWS or RANGE frame. A nil bound is unbounded; offsets
// are relative to the current row, negative preceding and positive
// following.
type WindowFrame struct {
	rows       bool
	start, end *int
}

// NewWindowFrame validates that start does not come after end.
func NewWindowFrame(rows bool, start, end *int) (*WindowFrame, error) {
	if start != nil && end != nil && *start > *end {
		return nil, invariantErrorf("window frame start (%d) can't be after its end (%d)", *start, *end)
	}
	return &WindowFrame{rows: rows, start: clonePtr(start), end: clonePtr(end)}, nil
}

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (*WindowFrame) exprNode() {}

// Kind implements Expr.
func (*WindowFrame) Kind() Kind { return KindWindowFrame }

// Tokens implements Expr.
func (f *WindowFrame) Tokens() []token.Token {
	unit := token.RANGE
	if f.rows {
		unit = token.ROWS
	}
	return slices.Concat(kw(unit, token.BETWEEN), bound(f.start, token.PRECEDING), kw(token.AND), bound(f.end, token.FOLLOWING))
}

func bound(b *int, unbounded token.TokenType) []token.Token {
	switch {
	case b == nil:
		return kw(token.UNBOUNDED, unbounded)
	case *b == 0:
		return kw(token.CURRENT_ROW)
	case *b < 0:
		return []token.Token{token.Ident(strconv.Itoa(-*b)), token.Keyword(token.PRECEDING)}
	default:
		return []token.Token{token.Ident(strconv.Itoa(*b)), token.Keyword(token.FOLLOWING)}
	}
}

// Children implements Expr.
func (*WindowFrame) Children() []Expr { return nil }

// IsRows reports whether the frame counts rows rather than values.
func (f *WindowFrame) IsRows() bool { return f.rows }

// ---------- Window spec ----------

// WindowSpec is the body of an OVER clause.
type WindowSpec struct {
	partitionBy []Expr
	orderBy     []OrderItem
	frame       *WindowFrame
}

// NewWindowSpec validates a window. A frame needs an ORDER BY list and a
// RANGE frame needs exactly one ORDER BY entry.
func NewWindowSpec(partitionBy []Expr, orderBy []OrderItem, frame *WindowFrame) (*WindowSpec, error) {
	for _, e := range partitionBy {
		if err := requireSelectable(e, "PARTITION BY item"); err != nil {
			return nil, err
		}
	}
	for _, o := range orderBy {
		if err := requireSelectable(o.Expr, "window ORDER BY item"); err != nil {
			return nil, err
		}
	}
	if frame != nil {
		if len(orderBy) == 0 {
			return nil, invariantErrorf("a window frame requires an ORDER BY")
		}
		if !frame.rows && len(orderBy) != 1 {
			return nil, invariantErrorf("a RANGE window frame requires exactly 1 ORDER BY item, got %d", len(orderBy))
		}
	}
	return &WindowSpec{
		partitionBy: slices.Clone(partitionBy),
		orderBy:     slices.Clone(orderBy),
		frame:       frame,
	}, nil
}

func (*WindowSpec) exprNode() {}

// Kind implements Expr.
func (*WindowSpec) Kind() Kind { return KindWindowSpec }

// Tokens implements Expr.
func (w *WindowSpec) Tokens() []token.Token {
	var out []token.Token
	if len(w.partitionBy) > 0 {
		out = slices.Concat(out, kw(token.PARTITION_BY), commaList(w.partitionBy))
	}
	if len(w.orderBy) > 0 {
		out = slices.Concat(out, kw(token.ORDER_BY), orderList(w.orderBy))
	}
	if w.frame != nil {
		out = append(out, w.frame.Tokens()...)
	}
	return out
}

// Children implements Expr.
func (w *WindowSpec) Children() []Expr {
	out := slices.Clone(w.partitionBy)
	for _, o := range w.orderBy {
		out = append(out, o.Expr)
	}
	if w.frame != nil {
		out = append(out, w.frame)
	}
	return out
}

// PartitionBy returns the partition expressions.
func (w *WindowSpec) PartitionBy() []Expr { return slices.Clone(w.partitionBy) }

// OrderBy returns the ordering entries.
func (w *WindowSpec) OrderBy() []OrderItem { return slices.Clone(w.orderBy) }

// Frame returns the frame, or nil.
func (w *WindowSpec) Frame() *WindowFrame { return w.frame }

// ---------- Analytic ----------

// Analytic applies an expression over a window.
type Analytic struct {
	expr Expr
	spec *WindowSpec
}

// NewAnalytic builds "e OVER (spec)". A nil spec is the empty window.
func NewAnalytic(e Expr, spec *WindowSpec) (*Analytic, error) {
	if err := requireSelectable(e, "windowed expression"); err != nil {
		return nil, err
	}
	if spec == nil {
		spec = &WindowSpec{}
	}
	return &Analytic{expr: e, spec: spec}, nil
}

func (*Analytic) exprNode() {}

// Kind implements Expr.
func (*Analytic) Kind() Kind { return KindAnalytic }

// Tokens implements Expr.
func (a *Analytic) Tokens() []token.Token {
	return slices.Concat(a.expr.Tokens(), kw(token.OVER), parens(a.spec.Tokens()))
}

// Children implements Expr.
func (a *Analytic) Children() []Expr { return []Expr{a.expr, a.spec} }

// Expr returns the windowed expression.
func (a *Analytic) Expr() Expr { return a.expr }

// Spec returns the window.
func (a *Analytic) Spec() *WindowSpec { return a.spec }

// ToLogical implements LogicalConverter.
func (a *Analytic) ToLogical() Logical { return &IsNullExpr{expr: a, not: true} }
