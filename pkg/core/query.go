package core

import (
	"slices"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// Query is a single SELECT statement.
type Query struct {
	sel     *Select
	from    *From
	where   *Where
	groupBy *GroupBy
	having  *Having
	qualify *Qualify
	orderBy *OrderBy
	limit   *Limit
}

// QueryOption sets or replaces one clause.
type QueryOption func(*Query)

// WithSelect replaces the SELECT clause.
func WithSelect(s *Select) QueryOption { return func(q *Query) { q.sel = s } }

// WithFrom replaces the FROM clause.
func WithFrom(f *From) QueryOption { return func(q *Query) { q.from = f } }

// WithWhere sets the WHERE clause; nil removes it.
func WithWhere(w *Where) QueryOption { return func(q *Query) { q.where = w } }

// WithGroupBy sets the GROUP BY clause; nil removes it.
func WithGroupBy(g *GroupBy) QueryOption { return func(q *Query) { q.groupBy = g } }

// WithHaving sets the HAVING clause; nil removes it.
func WithHaving(h *Having) QueryOption { return func(q *Query) { q.having = h } }

// WithQualify sets the QUALIFY clause; nil removes it.
func WithQualify(qu *Qualify) QueryOption { return func(q *Query) { q.qualify = qu } }

// WithOrderBy sets the ORDER BY clause; nil removes it.
func WithOrderBy(o *OrderBy) QueryOption { return func(q *Query) { q.orderBy = o } }

// WithLimit sets the LIMIT clause; nil removes it.
func WithLimit(l *Limit) QueryOption { return func(q *Query) { q.limit = l } }

// NewQuery assembles a statement. SELECT and FROM are required.
func NewQuery(sel *Select, from *From, opts ...QueryOption) (*Query, error) {
	q := &Query{sel: sel, from: from}
	for _, opt := range opts {
		opt(q)
	}
	if err := q.check(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Query) check() error {
	if q.sel == nil {
		return typeErrorf("a query requires a SELECT clause")
	}
	if q.from == nil {
		return typeErrorf("a query requires a FROM clause")
	}
	return nil
}

// With returns a copy with the given clauses replaced.
func (q *Query) With(opts ...QueryOption) (*Query, error) {
	out := *q
	for _, opt := range opts {
		opt(&out)
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	return &out, nil
}

// IsSimple reports whether the query is exactly "SELECT * FROM table".
func (q *Query) IsSimple() bool {
	if !q.sel.IsSelectAll() {
		return false
	}
	if _, ok := q.from.item.(*Table); !ok || q.from.alias != "" {
		return false
	}
	return q.where == nil && q.groupBy == nil && q.having == nil &&
		q.qualify == nil && q.orderBy == nil && q.limit == nil
}

func (*Query) exprNode()  {}
func (*Query) queryNode() {}
func (*Query) fromNode()  {}

// Kind implements Expr.
func (*Query) Kind() Kind { return KindQuery }

// Tokens emits clauses in SQL order, skipping absent ones.
func (q *Query) Tokens() []token.Token {
	var parts [][]token.Token
	for _, c := range q.Children() {
		parts = append(parts, c.Tokens())
	}
	return slices.Concat(parts...)
}

// Children returns the present clauses in emission order.
func (q *Query) Children() []Expr {
	out := []Expr{q.sel, q.from}
	if q.where != nil {
		out = append(out, q.where)
	}
	if q.groupBy != nil {
		out = append(out, q.groupBy)
	}
	if q.having != nil {
		out = append(out, q.having)
	}
	if q.qualify != nil {
		out = append(out, q.qualify)
	}
	if q.orderBy != nil {
		out = append(out, q.orderBy)
	}
	if q.limit != nil {
		out = append(out, q.limit)
	}
	return out
}

// Select returns the SELECT clause.
func (q *Query) Select() *Select { return q.sel }

// From returns the FROM clause.
func (q *Query) From() *From { return q.from }

// Where returns the WHERE clause, or nil.
func (q *Query) Where() *Where { return q.where }

// GroupBy returns the GROUP BY clause, or nil.
func (q *Query) GroupBy() *GroupBy { return q.groupBy }

// Having returns the HAVING clause, or nil.
func (q *Query) Having() *Having { return q.having }

// Qualify returns the QUALIFY clause, or nil.
func (q *Query) Qualify() *Qualify { return q.qualify }

// OrderBy returns the ORDER BY clause, or nil.
func (q *Query) OrderBy() *OrderBy { return q.orderBy }

// Limit returns the LIMIT clause, or nil.
func (q *Query) Limit() *Limit { return q.limit }
