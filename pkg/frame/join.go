package frame

import (
	"github.com/leapstack-labs/sqlframe/pkg/column"
	"github.com/leapstack-labs/sqlframe/pkg/core"
)

// Join joins f with other on a predicate. Both frames need an alias. The
// result selects everything from the join.
func (f *Frame) Join(other *Frame, on column.Column, typ core.JoinType) *Frame {
	if f.err != nil {
		return f
	}
	if err := on.Err(); err != nil {
		return f.fail(err)
	}
	return f.join(other, on.Expr(), typ)
}

// Cartesian cross joins f with other. Both frames need an alias.
func (f *Frame) Cartesian(other *Frame) *Frame {
	if f.err != nil {
		return f
	}
	return f.join(other, nil, core.JoinCross)
}

// CrossJoin is an alias for Cartesian.
func (f *Frame) CrossJoin(other *Frame) *Frame { return f.Cartesian(other) }

func (f *Frame) join(other *Frame, on core.Expr, typ core.JoinType) *Frame {
	if other == nil {
		return f.fail(core.Errorf(core.KindType, "can't join with a nil frame"))
	}
	if other.err != nil {
		return f.fail(other.err)
	}
	if f.alias == "" {
		return f.fail(core.Errorf(core.KindInvariant, "alias needs to be defined before join"))
	}
	if other.alias == "" {
		return f.fail(core.Errorf(core.KindInvariant, "other's alias needs to be defined before join"))
	}

	left, right := core.FromItem(f.node), core.FromItem(other.node)
	if f.isSimple() && other.isSimple() {
		left, right = f.table(), other.table()
		f.logger.Debug("joining tables directly", "left", f.alias, "right", other.alias, "type", typ)
	} else {
		f.logger.Debug("joining subqueries", "left", f.alias, "right", other.alias, "type", typ)
	}

	j, err := core.NewJoin(typ, left, f.alias, right, other.alias, on)
	if err != nil {
		return f.fail(err)
	}
	from, err := core.NewFrom(j, "")
	if err != nil {
		return f.fail(err)
	}
	return f.next(core.NewQuery(core.SelectAll(), from))
}

// isSimple reports whether f is exactly "SELECT * FROM table".
func (f *Frame) isSimple() bool {
	q, ok := f.query()
	return ok && q.IsSimple()
}

// table returns the table of a simple frame.
func (f *Frame) table() core.FromItem {
	q, _ := f.query()
	return q.From().Item()
}
