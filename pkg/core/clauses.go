package core

import (
	"slices"
	"strconv"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// ---------- SELECT ----------

// SelectItem is one entry of a SELECT list. An empty Alias means none.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// Select is the SELECT clause. It holds at most one bare wildcard, which
// never carries an alias.
type Select struct {
	items    []SelectItem
	distinct bool
	wildcard bool
}

// NewSelect validates items in order.
func NewSelect(items []SelectItem, distinct bool) (*Select, error) {
	if len(items) == 0 {
		return nil, invariantErrorf("SELECT requires at least 1 item")
	}
	s := &Select{distinct: distinct}
	if err := s.add(items); err != nil {
		return nil, err
	}
	return s, nil
}

// SelectAll returns "SELECT *".
func SelectAll() *Select {
	return &Select{items: []SelectItem{{Expr: star}}, wildcard: true}
}

func (s *Select) add(items []SelectItem) error {
	for _, item := range items {
		if err := requireSelectable(item.Expr, "SELECT item"); err != nil {
			return err
		}
		alias, err := optionalAlias(item.Alias)
		if err != nil {
			return err
		}
		if c, ok := item.Expr.(*ColumnRef); ok && c.IsWildcard() {
			if alias != "" {
				return invariantErrorf(`wildcard "*" can't have an alias, got '%s'`, alias)
			}
			if s.wildcard {
				return invariantErrorf(`can only have 1 wildcard "*"`)
			}
			s.wildcard = true
		}
		s.items = append(s.items, SelectItem{Expr: item.Expr, Alias: alias})
	}
	return nil
}

// Add returns a copy with more items appended.
func (s *Select) Add(items ...SelectItem) (*Select, error) {
	out := &Select{items: slices.Clone(s.items), distinct: s.distinct, wildcard: s.wildcard}
	if err := out.add(items); err != nil {
		return nil, err
	}
	return out, nil
}

// WithDistinct returns a copy with the DISTINCT flag set.
func (s *Select) WithDistinct(distinct bool) *Select {
	return &Select{items: slices.Clone(s.items), distinct: distinct, wildcard: s.wildcard}
}

func (*Select) exprNode() {}

// Kind implements Expr.
func (*Select) Kind() Kind { return KindSelect }

// Tokens implements Expr.
func (s *Select) Tokens() []token.Token {
	out := kw(token.SELECT)
	if s.distinct {
		out = append(out, token.Keyword(token.DISTINCT))
	}
	for i, item := range s.items {
		if i > 0 {
			out = append(out, comma)
		}
		out = append(out, item.Expr.Tokens()...)
		if item.Alias != "" {
			out = append(out, token.Keyword(token.AS), token.Ident(item.Alias))
		}
	}
	return out
}

// Children implements Expr.
func (s *Select) Children() []Expr {
	out := make([]Expr, len(s.items))
	for i, item := range s.items {
		out[i] = item.Expr
	}
	return out
}

// Items returns the SELECT list.
func (s *Select) Items() []SelectItem { return slices.Clone(s.items) }

// IsDistinct reports the DISTINCT flag.
func (s *Select) IsDistinct() bool { return s.distinct }

// HasWildcard reports whether the list contains the bare "*".
func (s *Select) HasWildcard() bool { return s.wildcard }

// IsSelectAll reports whether the clause is exactly "SELECT *".
func (s *Select) IsSelectAll() bool {
	return !s.distinct && len(s.items) == 1 && s.wildcard
}

// ---------- FROM ----------

// From is the FROM clause.
type From struct {
	item  FromItem
	alias string
}

// NewFrom builds a FROM clause. The alias is dropped for joins, since each
// join operand carries its own, and required for subqueries.
func NewFrom(item FromItem, alias string) (*From, error) {
	if item == nil {
		return nil, typeErrorf("FROM item can't be nil")
	}
	alias, err := optionalAlias(alias)
	if err != nil {
		return nil, err
	}
	switch item.(type) {
	case *Join:
		alias = ""
	case Queryable:
		if alias == "" {
			return nil, invariantErrorf("a subquery in FROM must have an alias")
		}
	}
	return &From{item: item, alias: alias}, nil
}

func (*From) exprNode() {}

// Kind implements Expr.
func (*From) Kind() Kind { return KindFrom }

// Tokens implements Expr.
func (f *From) Tokens() []token.Token {
	return slices.Concat(kw(token.FROM), joinSide(f.item, f.alias))
}

// Children implements Expr.
func (f *From) Children() []Expr { return []Expr{f.item} }

// Item returns the from-item.
func (f *From) Item() FromItem { return f.item }

// Alias returns the from-item alias, or "".
func (f *From) Alias() string { return f.alias }

// ---------- WHERE, HAVING, QUALIFY ----------

// predicate is the shared body of the filtering clauses.
type predicate struct {
	keyword token.TokenType
	pred    Logical
}

func newPredicate(keyword token.TokenType, e Expr) (predicate, error) {
	l, err := requireLogical(e, keyword.String()+" predicate")
	if err != nil {
		return predicate{}, err
	}
	return predicate{keyword: keyword, pred: l}, nil
}

func (p predicate) combine(op token.TokenType, e Expr) (predicate, error) {
	b, err := NewBinary(op, p.pred, e)
	if err != nil {
		return predicate{}, err
	}
	return predicate{keyword: p.keyword, pred: b}, nil
}

func (p predicate) tokens() []token.Token {
	return slices.Concat(kw(p.keyword), p.pred.Tokens())
}

// Where is the WHERE clause.
type Where struct{ p predicate }

// NewWhere wraps a logical predicate.
func NewWhere(pred Expr) (*Where, error) {
	p, err := newPredicate(token.WHERE, pred)
	if err != nil {
		return nil, err
	}
	return &Where{p: p}, nil
}

// And returns "WHERE (current) AND (pred)".
func (w *Where) And(pred Expr) (*Where, error) {
	p, err := w.p.combine(token.AND, pred)
	if err != nil {
		return nil, err
	}
	return &Where{p: p}, nil
}

// Or returns "WHERE (current) OR (pred)".
func (w *Where) Or(pred Expr) (*Where, error) {
	p, err := w.p.combine(token.OR, pred)
	if err != nil {
		return nil, err
	}
	return &Where{p: p}, nil
}

func (*Where) exprNode() {}

// Kind implements Expr.
func (*Where) Kind() Kind { return KindWhere }

// Tokens implements Expr.
func (w *Where) Tokens() []token.Token { return w.p.tokens() }

// Children implements Expr.
func (w *Where) Children() []Expr { return []Expr{w.p.pred} }

// Predicate returns the filter expression.
func (w *Where) Predicate() Logical { return w.p.pred }

// Having is the HAVING clause.
type Having struct{ p predicate }

// NewHaving wraps a logical predicate.
func NewHaving(pred Expr) (*Having, error) {
	p, err := newPredicate(token.HAVING, pred)
	if err != nil {
		return nil, err
	}
	return &Having{p: p}, nil
}

// And returns "HAVING (current) AND (pred)".
func (h *Having) And(pred Expr) (*Having, error) {
	p, err := h.p.combine(token.AND, pred)
	if err != nil {
		return nil, err
	}
	return &Having{p: p}, nil
}

// Or returns "HAVING (current) OR (pred)".
func (h *Having) Or(pred Expr) (*Having, error) {
	p, err := h.p.combine(token.OR, pred)
	if err != nil {
		return nil, err
	}
	return &Having{p: p}, nil
}

func (*Having) exprNode() {}

// Kind implements Expr.
func (*Having) Kind() Kind { return KindHaving }

// Tokens implements Expr.
func (h *Having) Tokens() []token.Token { return h.p.tokens() }

// Children implements Expr.
func (h *Having) Children() []Expr { return []Expr{h.p.pred} }

// Predicate returns the filter expression.
func (h *Having) Predicate() Logical { return h.p.pred }

// Qualify is the QUALIFY clause.
type Qualify struct{ p predicate }

// NewQualify wraps a logical predicate.
func NewQualify(pred Expr) (*Qualify, error) {
	p, err := newPredicate(token.QUALIFY, pred)
	if err != nil {
		return nil, err
	}
	return &Qualify{p: p}, nil
}

// And returns "QUALIFY (current) AND (pred)".
func (q *Qualify) And(pred Expr) (*Qualify, error) {
	p, err := q.p.combine(token.AND, pred)
	if err != nil {
		return nil, err
	}
	return &Qualify{p: p}, nil
}

// Or returns "QUALIFY (current) OR (pred)".
func (q *Qualify) Or(pred Expr) (*Qualify, error) {
	p, err := q.p.combine(token.OR, pred)
	if err != nil {
		return nil, err
	}
	return &Qualify{p: p}, nil
}

func (*Qualify) exprNode() {}

// Kind implements Expr.
func (*Qualify) Kind() Kind { return KindQualify }

// Tokens implements Expr.
func (q *Qualify) Tokens() []token.Token { return q.p.tokens() }

// Children implements Expr.
func (q *Qualify) Children() []Expr { return []Expr{q.p.pred} }

// Predicate returns the filter expression.
func (q *Qualify) Predicate() Logical { return q.p.pred }

// ---------- GROUP BY ----------

// GroupBy lists grouping keys, either all expressions or all 1-based
// positions into the SELECT list.
type GroupBy struct {
	items     []Expr
	positions []int
}

// NewGroupBy groups by unique selectable expressions.
func NewGroupBy(items ...Expr) (*GroupBy, error) {
	seen := make(map[string]bool, len(items))
	for _, e := range items {
		if err := requireSelectable(e, "GROUP BY item"); err != nil {
			return nil, err
		}
		k := Key(e)
		if seen[k] {
			return nil, invariantErrorf("got duplicates in grouping items")
		}
		seen[k] = true
	}
	return &GroupBy{items: slices.Clone(items)}, nil
}

// NewGroupByPositions groups by unique positive SELECT positions.
func NewGroupByPositions(positions ...int) (*GroupBy, error) {
	if err := checkPositions(positions, "got duplicates in grouping items",
		"can't have non-positive positional grouping items"); err != nil {
		return nil, err
	}
	return &GroupBy{positions: slices.Clone(positions)}, nil
}

func checkPositions(positions []int, dupMsg, nonPositiveMsg string) error {
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p <= 0 {
			return invariantErrorf("%s", nonPositiveMsg)
		}
		if seen[p] {
			return invariantErrorf("%s", dupMsg)
		}
		seen[p] = true
	}
	return nil
}

func positionTokens(positions []int) []token.Token {
	var out []token.Token
	for i, p := range positions {
		if i > 0 {
			out = append(out, comma)
		}
		out = append(out, token.Ident(strconv.Itoa(p)))
	}
	return out
}

func (*GroupBy) exprNode() {}

// Kind implements Expr.
func (*GroupBy) Kind() Kind { return KindGroupBy }

// Tokens implements Expr.
func (g *GroupBy) Tokens() []token.Token {
	if len(g.positions) > 0 {
		return slices.Concat(kw(token.GROUP_BY), positionTokens(g.positions))
	}
	return slices.Concat(kw(token.GROUP_BY), commaList(g.items))
}

// Children implements Expr.
func (g *GroupBy) Children() []Expr { return slices.Clone(g.items) }

// Items returns the grouping expressions.
func (g *GroupBy) Items() []Expr { return slices.Clone(g.items) }

// Positions returns the positional keys.
func (g *GroupBy) Positions() []int { return slices.Clone(g.positions) }

// Len returns the number of keys.
func (g *GroupBy) Len() int { return len(g.items) + len(g.positions) }

// ---------- ORDER BY ----------

// OrderBy lists sort keys, either all expressions with an OrderSpec or all
// 1-based positions into the SELECT list.
type OrderBy struct {
	items     []OrderItem
	positions []int
}

// NewOrderBy orders by unique selectable expressions.
func NewOrderBy(items ...OrderItem) (*OrderBy, error) {
	seen := make(map[string]bool, len(items))
	for _, o := range items {
		if err := requireSelectable(o.Expr, "ORDER BY item"); err != nil {
			return nil, err
		}
		k := Key(o.Expr)
		if seen[k] {
			return nil, invariantErrorf("duplicate ordering items")
		}
		seen[k] = true
	}
	return &OrderBy{items: slices.Clone(items)}, nil
}

// NewOrderByPositions orders by unique positive SELECT positions.
func NewOrderByPositions(positions ...int) (*OrderBy, error) {
	if err := checkPositions(positions, "duplicate ordering items",
		"can't have non-positive positional ordering items"); err != nil {
		return nil, err
	}
	return &OrderBy{positions: slices.Clone(positions)}, nil
}

func (*OrderBy) exprNode() {}

// Kind implements Expr.
func (*OrderBy) Kind() Kind { return KindOrderBy }

// Tokens implements Expr.
func (o *OrderBy) Tokens() []token.Token {
	if len(o.positions) > 0 {
		return slices.Concat(kw(token.ORDER_BY), positionTokens(o.positions))
	}
	return slices.Concat(kw(token.ORDER_BY), orderList(o.items))
}

// Children implements Expr.
func (o *OrderBy) Children() []Expr {
	out := make([]Expr, len(o.items))
	for i, item := range o.items {
		out[i] = item.Expr
	}
	return out
}

// Items returns the ordering entries.
func (o *OrderBy) Items() []OrderItem { return slices.Clone(o.items) }

// Positions returns the positional keys.
func (o *OrderBy) Positions() []int { return slices.Clone(o.positions) }

// Len returns the number of keys.
func (o *OrderBy) Len() int { return len(o.items) + len(o.positions) }

// ---------- LIMIT ----------

// Limit is "LIMIT n [OFFSET m]".
type Limit struct {
	n, offset int
}

// NewLimit requires a positive count. An offset of 0 means none.
func NewLimit(n, offset int) (*Limit, error) {
	if n <= 0 {
		return nil, invariantErrorf("LIMIT must be positive, got %d", n)
	}
	if offset < 0 {
		return nil, invariantErrorf("OFFSET can't be negative, got %d", offset)
	}
	return &Limit{n: n, offset: offset}, nil
}

func (*Limit) exprNode() {}

// Kind implements Expr.
func (*Limit) Kind() Kind { return KindLimit }

// Tokens implements Expr.
func (l *Limit) Tokens() []token.Token {
	out := []token.Token{token.Keyword(token.LIMIT), token.Ident(strconv.Itoa(l.n))}
	if l.offset > 0 {
		out = append(out, token.Keyword(token.OFFSET), token.Ident(strconv.Itoa(l.offset)))
	}
	return out
}

// Children implements Expr.
func (*Limit) Children() []Expr { return nil }

// N returns the row count.
func (l *Limit) N() int { return l.n }

// Offset returns the offset, 0 when absent.
func (l *Limit) Offset() int { return l.offset }
