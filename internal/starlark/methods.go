package starlark

import (
	"fmt"
	"maps"
	"slices"

	"github.com/leapstack-labs/sqlframe/pkg/column"
	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/leapstack-labs/sqlframe/pkg/frame"
	"go.starlark.net/starlark"
)

type method func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// attr binds the method called name to recv, or reports no such attribute.
func attr(recv starlark.Value, name string, methods map[string]method) (starlark.Value, error) {
	m, ok := methods[name]
	if !ok {
		return nil, nil
	}
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return m(b, args, kwargs)
	}).BindReceiver(recv), nil
}

func names(methods map[string]method) []string {
	return slices.Sorted(maps.Keys(methods))
}

// compare builds a method applying op to the receiver and one operand.
func compare(op func(column.Column, any) column.Column) method {
	return func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var other starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &other); err != nil {
			return nil, err
		}
		a, err := ToArg(other)
		if err != nil {
			return nil, err
		}
		return NewColumn(op(b.Receiver().(*Column).col, a))
	}
}

// nullary builds a method without arguments.
func nullary(op func(column.Column) column.Column) method {
	return func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return NewColumn(op(b.Receiver().(*Column).col))
	}
}

// sort builds asc or desc, taking an optional nulls="first"|"last".
func sort(desc bool) method {
	return func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var nulls string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "nulls?", &nulls); err != nil {
			return nil, err
		}
		var placement []column.Nulls
		switch nulls {
		case "":
		case "first":
			placement = append(placement, column.NullsFirst)
		case "last":
			placement = append(placement, column.NullsLast)
		default:
			return nil, core.Errorf(core.KindType, "nulls must be 'first' or 'last', got '%s'", nulls)
		}
		c := b.Receiver().(*Column).col
		if desc {
			return NewColumn(c.Desc(placement...))
		}
		return NewColumn(c.Asc(placement...))
	}
}

var columnMethods = map[string]method{
	"eq":          compare(column.Column.Eq),
	"ne":          compare(column.Column.Ne),
	"gt":          compare(column.Column.Gt),
	"ge":          compare(column.Column.Ge),
	"lt":          compare(column.Column.Lt),
	"le":          compare(column.Column.Le),
	"like":        compare(column.Column.Like),
	"otherwise":   compare(column.Column.Otherwise),
	"is_null":     nullary(column.Column.IsNull),
	"is_not_null": nullary(column.Column.IsNotNull),
	"asc":         sort(false),
	"desc":        sort(true),
	"between": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var low, high starlark.Value
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "low", &low, "high", &high); err != nil {
			return nil, err
		}
		l, err := ToArg(low)
		if err != nil {
			return nil, err
		}
		h, err := ToArg(high)
		if err != nil {
			return nil, err
		}
		return NewColumn(b.Receiver().(*Column).col.Between(l, h))
	},
	"is_in": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, core.Errorf(core.KindType, "%s: unexpected keyword arguments", b.Name())
		}
		values, err := toArgs(args)
		if err != nil {
			return nil, err
		}
		return NewColumn(b.Receiver().(*Column).col.IsIn(values...))
	},
	"when": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var cond *Column
		var value starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &cond, &value); err != nil {
			return nil, err
		}
		v, err := ToArg(value)
		if err != nil {
			return nil, err
		}
		return NewColumn(b.Receiver().(*Column).col.When(cond.col, v))
	},
	"over": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var w *Window
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "window?", &w); err != nil {
			return nil, err
		}
		var spec *column.WindowSpec
		if w != nil {
			spec = w.w
		}
		return NewColumn(b.Receiver().(*Column).col.Over(spec))
	},
	"alias": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
			return nil, err
		}
		return NewColumn(b.Receiver().(*Column).col.As(name))
	},
	"sql": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		s, err := b.Receiver().(*Column).col.SQL()
		if err != nil {
			return nil, err
		}
		return starlark.String(s), nil
	},
}

// predicate builds a frame method taking one column.
func predicate(op func(*frame.Frame, column.Column) *frame.Frame) method {
	return func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var pred *Column
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &pred); err != nil {
			return nil, err
		}
		return NewFrame(op(b.Receiver().(*Frame).f, pred.col))
	}
}

// variadic builds a frame method taking column names, columns or positions.
func variadic[T any](op func(*frame.Frame, ...any) T, wrap func(T) (starlark.Value, error)) method {
	return func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, core.Errorf(core.KindType, "%s: unexpected keyword arguments", b.Name())
		}
		items, err := toArgs(args)
		if err != nil {
			return nil, err
		}
		return wrap(op(b.Receiver().(*Frame).f, items...))
	}
}

// combine builds a set operation method.
func combine(op func(*frame.Frame, *frame.Frame) *frame.Frame) method {
	return func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
			return nil, err
		}
		other, err := toFrame(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return NewFrame(op(b.Receiver().(*Frame).f, other))
	}
}

func wrapFrame(f *frame.Frame) (starlark.Value, error) { return NewFrame(f) }

func wrapGrouped(g *frame.GroupedFrame) (starlark.Value, error) {
	if err := g.Err(); err != nil {
		return nil, err
	}
	return &Grouped{g: g}, nil
}

var frameMethods = map[string]method{
	"select":             variadic((*frame.Frame).Select, wrapFrame),
	"order_by":           variadic((*frame.Frame).OrderBy, wrapFrame),
	"group_by":           variadic((*frame.Frame).GroupBy, wrapGrouped),
	"where":              predicate((*frame.Frame).Where),
	"filter":             predicate((*frame.Frame).Filter),
	"having":             predicate((*frame.Frame).Having),
	"qualify":            predicate((*frame.Frame).Qualify),
	"union_all":          combine((*frame.Frame).UnionAll),
	"union_distinct":     combine((*frame.Frame).UnionDistinct),
	"intersect_distinct": combine((*frame.Frame).IntersectDistinct),
	"except_distinct":    combine((*frame.Frame).ExceptDistinct),
	"cross_join":         combine((*frame.Frame).CrossJoin),
	"distinct": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return NewFrame(b.Receiver().(*Frame).f.Distinct())
	},
	"limit": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var n, offset int
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n", &n, "offset?", &offset); err != nil {
			return nil, err
		}
		return NewFrame(b.Receiver().(*Frame).f.Limit(n, offset))
	},
	"with_column": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name  string
			value starlark.Value
		)
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &name, &value); err != nil {
			return nil, err
		}
		c, err := toColumn(value)
		if err != nil {
			return nil, err
		}
		return NewFrame(b.Receiver().(*Frame).f.WithColumn(name, c))
	},
	"join": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			v   starlark.Value
			on  *Column
			how = "inner"
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "other", &v, "on?", &on, "how?", &how); err != nil {
			return nil, err
		}
		other, err := toFrame(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		typ, err := core.ParseJoinType(how)
		if err != nil {
			return nil, err
		}
		f := b.Receiver().(*Frame).f
		if typ == core.JoinCross && on == nil {
			return NewFrame(f.Cartesian(other))
		}
		var pred column.Column
		if on != nil {
			pred = on.col
		}
		return NewFrame(f.Join(other, pred, typ))
	},
	"alias": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
			return nil, err
		}
		return NewFrame(b.Receiver().(*Frame).f.As(name))
	},
	"sql": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var pretty bool
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pretty?", &pretty); err != nil {
			return nil, err
		}
		s, err := b.Receiver().(*Frame).f.Render(configs(pretty))
		if err != nil {
			return nil, err
		}
		return starlark.String(s), nil
	},
}

var groupedMethods = map[string]method{
	"agg": func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, core.Errorf(core.KindType, "%s: unexpected keyword arguments", b.Name())
		}
		cols := make([]column.Column, len(args))
		for i, a := range args {
			c, ok := a.(*Column)
			if !ok {
				return nil, core.Errorf(core.KindType, "agg takes columns, got %s", a.Type())
			}
			cols[i] = c.col
		}
		return NewFrame(b.Receiver().(*Grouped).g.Agg(cols...))
	},
}

// between builds rows_between or range_between.
func between(rows bool) method {
	return func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var start, end starlark.Value
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "start?", &start, "end?", &end); err != nil {
			return nil, err
		}
		s, err := bound(start)
		if err != nil {
			return nil, err
		}
		e, err := bound(end)
		if err != nil {
			return nil, err
		}
		w := b.Receiver().(*Window).w
		if rows {
			return newWindow(w.RowsBetween(s, e))
		}
		return newWindow(w.RangeBetween(s, e))
	}
}

// windowColumns builds partition_by or order_by.
func windowColumns(op func(*column.WindowSpec, ...any) *column.WindowSpec) method {
	return func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, core.Errorf(core.KindType, "%s: unexpected keyword arguments", b.Name())
		}
		cols, err := toArgs(args)
		if err != nil {
			return nil, err
		}
		return newWindow(op(b.Receiver().(*Window).w, cols...))
	}
}

var windowMethods = map[string]method{
	"partition_by":  windowColumns((*column.WindowSpec).PartitionBy),
	"order_by":      windowColumns((*column.WindowSpec).OrderBy),
	"rows_between":  between(true),
	"range_between": between(false),
}
