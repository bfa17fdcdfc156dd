package column

import (
	"slices"

	"github.com/leapstack-labs/sqlframe/pkg/core"
)

// WindowSpec describes the window of an analytic expression. Each method
// returns a new spec; errors are sticky like on Column.
type WindowSpec struct {
	partitionBy []core.Expr
	orderBy     []core.OrderItem
	frame       *core.WindowFrame
	err         error
}

// Window returns the empty window.
func Window() *WindowSpec { return &WindowSpec{} }

// Unbounded is the open frame bound.
func Unbounded() *int { return nil }

// Offset is a frame bound n rows (or values) from the current row.
// Negative values precede it, 0 is the current row.
func Offset(n int) *int { return &n }

func (w *WindowSpec) clone() *WindowSpec {
	return &WindowSpec{
		partitionBy: slices.Clone(w.partitionBy),
		orderBy:     slices.Clone(w.orderBy),
		frame:       w.frame,
		err:         w.err,
	}
}

func (w *WindowSpec) fail(err error) *WindowSpec {
	out := w.clone()
	out.err = err
	return out
}

// columns converts all-string or all-Column arguments.
func columns(clause string, cols []any) ([]Column, error) {
	out := make([]Column, 0, len(cols))
	allStr, allCol := true, true
	for _, c := range cols {
		switch x := c.(type) {
		case string:
			allCol = false
			out = append(out, Col(x))
		case Column:
			allStr = false
			out = append(out, x)
		default:
			allStr, allCol = false, false
		}
	}
	if !allStr && !allCol {
		return nil, core.Errorf(core.KindType, "%s takes all strings or all Columns", clause)
	}
	for _, c := range out {
		if c.err != nil {
			return nil, c.err
		}
	}
	return out, nil
}

// PartitionBy replaces the partition keys.
func (w *WindowSpec) PartitionBy(cols ...any) *WindowSpec {
	if w.err != nil {
		return w
	}
	cs, err := columns("PARTITION BY", cols)
	if err != nil {
		return w.fail(err)
	}
	out := w.clone()
	out.partitionBy = make([]core.Expr, len(cs))
	for i, c := range cs {
		out.partitionBy[i] = c.expr
	}
	return out
}

// OrderBy replaces the sort keys. A Column's Asc/Desc order is kept.
func (w *WindowSpec) OrderBy(cols ...any) *WindowSpec {
	if w.err != nil {
		return w
	}
	cs, err := columns("ORDER BY", cols)
	if err != nil {
		return w.fail(err)
	}
	out := w.clone()
	out.orderBy = make([]core.OrderItem, len(cs))
	for i, c := range cs {
		out.orderBy[i] = c.OrderItem()
	}
	return out
}

// RowsBetween sets a ROWS frame.
func (w *WindowSpec) RowsBetween(start, end *int) *WindowSpec { return w.between(true, start, end) }

// RangeBetween sets a RANGE frame.
func (w *WindowSpec) RangeBetween(start, end *int) *WindowSpec { return w.between(false, start, end) }

func (w *WindowSpec) between(rows bool, start, end *int) *WindowSpec {
	if w.err != nil {
		return w
	}
	f, err := core.NewWindowFrame(rows, start, end)
	if err != nil {
		return w.fail(err)
	}
	out := w.clone()
	out.frame = f
	return out
}

// Err returns the first failure of the chain.
func (w *WindowSpec) Err() error { return w.err }

// Build validates the spec as a whole.
func (w *WindowSpec) Build() (*core.WindowSpec, error) {
	if w.err != nil {
		return nil, w.err
	}
	return core.NewWindowSpec(w.partitionBy, w.orderBy, w.frame)
}
