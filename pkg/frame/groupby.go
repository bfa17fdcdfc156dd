package frame

import (
	"github.com/leapstack-labs/sqlframe/pkg/column"
	"github.com/leapstack-labs/sqlframe/pkg/core"
)

// GroupedFrame is a frame waiting for its aggregates.
type GroupedFrame struct {
	frame     *Frame
	keys      []column.Column
	positions []int
	err       error
}

// GroupBy starts an aggregation. keys are all strings, all Columns or all
// 1-based positions into the list later passed to Agg.
func (f *Frame) GroupBy(keys ...any) *GroupedFrame {
	g := &GroupedFrame{frame: f, err: f.err}
	if g.err != nil {
		return g
	}
	if len(keys) == 0 {
		g.err = core.Errorf(core.KindType, "group by requires at least 1 key")
		return g
	}
	if positions, ok := ints(keys); ok {
		g.positions = positions
		return g
	}
	for _, k := range keys {
		if _, ok := k.(int); ok {
			g.err = core.Errorf(core.KindType, "group by takes all strings, all Columns or all ints")
			return g
		}
	}
	g.keys, g.err = columns("group by", keys)
	return g
}

// Err returns the first failure so far.
func (g *GroupedFrame) Err() error { return g.err }

// Agg builds the GROUP BY and SELECT clauses together. With column keys
// the SELECT list is the keys followed by cols, and every col must contain
// an aggregate function. With positional keys the SELECT list is cols;
// positions must point at columns without aggregates and every other col
// must contain one.
func (g *GroupedFrame) Agg(cols ...column.Column) *Frame {
	f := g.frame
	if g.err != nil {
		return f.fail(g.err)
	}
	if len(cols) == 0 {
		return f.fail(core.Errorf(core.KindType, "agg requires at least 1 column"))
	}
	for _, c := range cols {
		if err := c.Err(); err != nil {
			return f.fail(err)
		}
	}

	var (
		items []core.SelectItem
		group *core.GroupBy
		err   error
	)
	if g.positions != nil {
		items, group, err = g.positional(cols)
	} else {
		items, group, err = g.byColumns(cols)
	}
	if err != nil {
		return f.fail(err)
	}
	sel, err := core.NewSelect(items, false)
	if err != nil {
		return f.fail(err)
	}

	if q, ok := f.query(); ok && groupsInPlace(q) {
		f.logger.Debug("grouping in place", "keys", group.Len())
		return f.next(q.With(core.WithSelect(sel), core.WithGroupBy(group)))
	}
	q, err := f.subquery(sel, "aggregating")
	if err != nil {
		return f.fail(err)
	}
	return f.next(q.With(core.WithGroupBy(group)))
}

// groupsInPlace reports whether q can take a GROUP BY without changing
// what its other clauses mean.
func groupsInPlace(q *core.Query) bool {
	return q.Select().IsSelectAll() && q.GroupBy() == nil && q.Having() == nil &&
		q.Qualify() == nil && q.OrderBy() == nil && q.Limit() == nil
}

func (g *GroupedFrame) byColumns(cols []column.Column) ([]core.SelectItem, *core.GroupBy, error) {
	items := make([]core.SelectItem, 0, len(g.keys)+len(cols))
	exprs := make([]core.Expr, len(g.keys))
	for i, k := range g.keys {
		if core.ContainsAggregate(k.Expr()) {
			return nil, nil, core.Errorf(core.KindInvariant, "grouping key %s can't contain an aggregate function", k)
		}
		exprs[i] = k.Expr()
		items = append(items, k.SelectItem())
	}
	for _, c := range cols {
		if !core.ContainsAggregate(c.Expr()) {
			return nil, nil, core.Errorf(core.KindInvariant,
				"%s is neither a grouping key nor an aggregate", c)
		}
		items = append(items, c.SelectItem())
	}
	group, err := core.NewGroupBy(exprs...)
	return items, group, err
}

func (g *GroupedFrame) positional(cols []column.Column) ([]core.SelectItem, *core.GroupBy, error) {
	group, err := core.NewGroupByPositions(g.positions...)
	if err != nil {
		return nil, nil, err
	}
	isKey := make(map[int]bool, len(g.positions))
	for _, p := range g.positions {
		if p > len(cols) {
			return nil, nil, core.Errorf(core.KindInvariant,
				"GROUP BY position %d is out of range for %d columns", p, len(cols))
		}
		isKey[p] = true
	}
	items := make([]core.SelectItem, len(cols))
	for i, c := range cols {
		agg := core.ContainsAggregate(c.Expr())
		switch {
		case isKey[i+1] && agg:
			return nil, nil, core.Errorf(core.KindInvariant, "grouping key %s can't contain an aggregate function", c)
		case !isKey[i+1] && !agg:
			return nil, nil, core.Errorf(core.KindInvariant, "%s is neither a grouping key nor an aggregate", c)
		}
		items[i] = c.SelectItem()
	}
	return items, group, nil
}
