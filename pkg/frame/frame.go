// Package frame composes whole statements from tables, columns and other
// frames.
//
// A Frame wraps a query or a set operation and an optional alias. Methods
// never modify the receiver. Like column.Column, a Frame keeps the first
// failure of its chain; Err reports it and SQL returns it.
//
//	adults := frame.Table("db.users").
//		Where(column.Col("age").Gt(18)).
//		Select("id", "name")
//	sql, err := adults.SQL()
package frame

import (
	"log/slog"

	"github.com/leapstack-labs/sqlframe/pkg/column"
	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/leapstack-labs/sqlframe/pkg/format"
	"github.com/leapstack-labs/sqlframe/pkg/ident"
	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// SubqueryAlias names the subquery introduced by WithColumn.
const SubqueryAlias = "_t1"

// Frame is an immutable statement under construction.
type Frame struct {
	node   core.Queryable
	alias  string
	logger *slog.Logger
	err    error
}

var discard = slog.New(slog.DiscardHandler)

// Table starts from "SELECT * FROM path".
func Table(path string) *Frame {
	t, err := core.NewTable(path)
	if err != nil {
		return &Frame{logger: discard, err: err}
	}
	from, err := core.NewFrom(t, "")
	if err != nil {
		return &Frame{logger: discard, err: err}
	}
	q, err := core.NewQuery(core.SelectAll(), from)
	if err != nil {
		return &Frame{logger: discard, err: err}
	}
	return &Frame{node: q, logger: discard}
}

// FromQuery wraps an existing statement.
func FromQuery(q core.Queryable) *Frame {
	if q == nil {
		return &Frame{logger: discard, err: core.Errorf(core.KindType, "frame statement can't be nil")}
	}
	return &Frame{node: q, logger: discard}
}

// WithLogger returns a copy that logs composition decisions to l.
func (f *Frame) WithLogger(l *slog.Logger) *Frame {
	out := *f
	if l == nil {
		l = discard
	}
	out.logger = l
	return &out
}

// next wraps a new statement. The alias does not carry over.
func (f *Frame) next(node core.Queryable, err error) *Frame {
	if err != nil {
		return f.fail(err)
	}
	return &Frame{node: node, logger: f.logger}
}

func (f *Frame) fail(err error) *Frame {
	return &Frame{logger: f.logger, err: err}
}

// As returns a copy carrying alias.
func (f *Frame) As(alias string) *Frame {
	if f.err != nil {
		return f
	}
	id, err := ident.New(alias)
	if err != nil {
		return f.fail(err)
	}
	out := *f
	out.alias = id.String()
	return &out
}

// Alias returns the alias, or "".
func (f *Frame) Alias() string { return f.alias }

// Node returns the statement, nil when the frame failed.
func (f *Frame) Node() core.Queryable { return f.node }

// Err returns the first failure of the chain that built f.
func (f *Frame) Err() error { return f.err }

// Render lays the statement out with configs.
func (f *Frame) Render(configs format.Configs) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return core.Render(f.node, configs)
}

// Highlight is like Render with every keyword passed through style.
func (f *Frame) Highlight(configs format.Configs, style func(token.Token) string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return core.Highlight(f.node, configs, style)
}

// SQL renders with one clause per line.
func (f *Frame) SQL() (string, error) {
	return f.Render(format.QueryLayout())
}

// String renders f, or reports its error.
func (f *Frame) String() string {
	s, err := f.SQL()
	if err != nil {
		return "<error: " + err.Error() + ">"
	}
	return s
}

// query returns f's statement when it is a plain query.
func (f *Frame) query() (*core.Query, bool) {
	q, ok := f.node.(*core.Query)
	return q, ok
}

// subquery wraps f's statement as "SELECT ... FROM (<f>) AS alias". what
// names the operation in the missing alias error.
func (f *Frame) subquery(sel *core.Select, what string) (*core.Query, error) {
	if f.alias == "" {
		return nil, core.Errorf(core.KindInvariant, "when %s, first use an alias", what)
	}
	from, err := core.NewFrom(f.node, f.alias)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("wrapping statement as a subquery", "alias", f.alias, "operation", what)
	return core.NewQuery(sel, from)
}

// statement returns f as a query that more clauses can be attached to.
// Set operations are wrapped first.
func (f *Frame) statement(what string) (*core.Query, error) {
	if q, ok := f.query(); ok {
		return q, nil
	}
	return f.subquery(core.SelectAll(), what)
}

// Select replaces the projection. args are all strings or all Columns;
// "*" selects everything. A "SELECT *" statement is rewritten in place,
// anything else becomes a subquery of the new one and needs an alias.
func (f *Frame) Select(args ...any) *Frame {
	if f.err != nil {
		return f
	}
	items, err := selectItems(args)
	if err != nil {
		return f.fail(err)
	}
	sel, err := core.NewSelect(items, false)
	if err != nil {
		return f.fail(err)
	}
	if q, ok := f.query(); ok && q.Select().IsSelectAll() {
		f.logger.Debug("replacing select list in place", "items", len(items))
		return f.next(q.With(core.WithSelect(sel)))
	}
	return f.next(f.subquery(sel, "sub selecting"))
}

func selectItems(args []any) ([]core.SelectItem, error) {
	if len(args) == 1 && args[0] == "*" {
		return []core.SelectItem{{Expr: core.Star()}}, nil
	}
	cols, err := columns("select", args)
	if err != nil {
		return nil, err
	}
	items := make([]core.SelectItem, len(cols))
	for i, c := range cols {
		items[i] = c.SelectItem()
	}
	return items, nil
}

// columns converts all-string or all-Column arguments.
func columns(what string, args []any) ([]column.Column, error) {
	allStr, allCol := true, true
	out := make([]column.Column, 0, len(args))
	for _, a := range args {
		switch x := a.(type) {
		case string:
			allCol = false
			out = append(out, column.Col(x))
		case column.Column:
			allStr = false
			out = append(out, x)
		default:
			allStr, allCol = false, false
		}
	}
	if !allStr && !allCol {
		return nil, core.Errorf(core.KindType, "%s takes all strings or all Columns", what)
	}
	for _, c := range out {
		if err := c.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Distinct turns the projection into SELECT DISTINCT.
func (f *Frame) Distinct() *Frame {
	if f.err != nil {
		return f
	}
	q, err := f.statement("selecting distinct rows")
	if err != nil {
		return f.fail(err)
	}
	return f.next(q.With(core.WithSelect(q.Select().WithDistinct(true))))
}

// Where filters rows, AND-ing with an existing WHERE.
func (f *Frame) Where(pred column.Column) *Frame {
	if f.err != nil {
		return f
	}
	if err := pred.Err(); err != nil {
		return f.fail(err)
	}
	q, err := f.statement("filtering")
	if err != nil {
		return f.fail(err)
	}
	var w *core.Where
	if q.Where() == nil {
		w, err = core.NewWhere(pred.Expr())
	} else {
		w, err = q.Where().And(pred.Expr())
	}
	if err != nil {
		return f.fail(err)
	}
	return f.next(q.With(core.WithWhere(w)))
}

// Filter is an alias for Where.
func (f *Frame) Filter(pred column.Column) *Frame { return f.Where(pred) }

// Having filters groups, AND-ing with an existing HAVING.
func (f *Frame) Having(pred column.Column) *Frame {
	if f.err != nil {
		return f
	}
	if err := pred.Err(); err != nil {
		return f.fail(err)
	}
	q, err := f.statement("filtering groups")
	if err != nil {
		return f.fail(err)
	}
	var h *core.Having
	if q.Having() == nil {
		h, err = core.NewHaving(pred.Expr())
	} else {
		h, err = q.Having().And(pred.Expr())
	}
	if err != nil {
		return f.fail(err)
	}
	return f.next(q.With(core.WithHaving(h)))
}

// Qualify filters on window results, AND-ing with an existing QUALIFY.
func (f *Frame) Qualify(pred column.Column) *Frame {
	if f.err != nil {
		return f
	}
	if err := pred.Err(); err != nil {
		return f.fail(err)
	}
	q, err := f.statement("qualifying")
	if err != nil {
		return f.fail(err)
	}
	var qu *core.Qualify
	if q.Qualify() == nil {
		qu, err = core.NewQualify(pred.Expr())
	} else {
		qu, err = q.Qualify().And(pred.Expr())
	}
	if err != nil {
		return f.fail(err)
	}
	return f.next(q.With(core.WithQualify(qu)))
}

// OrderBy replaces the sort keys. items are all strings, all Columns
// (ordered with Asc/Desc) or all 1-based positions.
func (f *Frame) OrderBy(items ...any) *Frame {
	if f.err != nil {
		return f
	}
	var (
		o   *core.OrderBy
		err error
	)
	if positions, ok := ints(items); ok {
		o, err = core.NewOrderByPositions(positions...)
	} else {
		var cols []column.Column
		if cols, err = columns("order by", items); err == nil {
			order := make([]core.OrderItem, len(cols))
			for i, c := range cols {
				order[i] = c.OrderItem()
			}
			o, err = core.NewOrderBy(order...)
		}
	}
	if err != nil {
		return f.fail(err)
	}
	q, err := f.statement("ordering")
	if err != nil {
		return f.fail(err)
	}
	return f.next(q.With(core.WithOrderBy(o)))
}

// ints reports whether every item is an int.
func ints(items []any) ([]int, bool) {
	if len(items) == 0 {
		return nil, false
	}
	out := make([]int, len(items))
	for i, it := range items {
		n, ok := it.(int)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// Limit caps the row count, replacing an existing LIMIT.
func (f *Frame) Limit(n int, offset ...int) *Frame {
	if f.err != nil {
		return f
	}
	off := 0
	if len(offset) > 0 {
		off = offset[len(offset)-1]
	}
	l, err := core.NewLimit(n, off)
	if err != nil {
		return f.fail(err)
	}
	q, err := f.statement("limiting")
	if err != nil {
		return f.fail(err)
	}
	return f.next(q.With(core.WithLimit(l)))
}

// WithColumn adds one computed column:
// "SELECT _t1.*, <col> AS alias FROM (<f>) AS _t1".
func (f *Frame) WithColumn(alias string, col column.Column) *Frame {
	if f.err != nil {
		return f
	}
	col = col.As(alias)
	if err := col.Err(); err != nil {
		return f.fail(err)
	}
	all, err := core.QualifiedStar(SubqueryAlias)
	if err != nil {
		return f.fail(err)
	}
	sel, err := core.NewSelect([]core.SelectItem{{Expr: all}, col.SelectItem()}, false)
	if err != nil {
		return f.fail(err)
	}
	from, err := core.NewFrom(f.node, SubqueryAlias)
	if err != nil {
		return f.fail(err)
	}
	f.logger.Debug("adding column through a subquery", "column", col.Alias())
	return f.next(core.NewQuery(sel, from))
}
