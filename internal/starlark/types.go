// Package starlark exposes the column and frame builders to Starlark
// scripts, so statements can be written without compiling Go.
package starlark

import (
	"fmt"

	"github.com/leapstack-labs/sqlframe/pkg/column"
	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/leapstack-labs/sqlframe/pkg/format"
	"github.com/leapstack-labs/sqlframe/pkg/frame"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Column is a column.Column as a Starlark value.
type Column struct{ col column.Column }

// Frame is a *frame.Frame as a Starlark value.
type Frame struct{ f *frame.Frame }

// Grouped is a frame.GroupedFrame as a Starlark value.
type Grouped struct{ g *frame.GroupedFrame }

// Window is a column.WindowSpec as a Starlark value.
type Window struct{ w *column.WindowSpec }

var (
	_ starlark.HasAttrs  = (*Column)(nil)
	_ starlark.HasBinary = (*Column)(nil)
	_ starlark.HasUnary  = (*Column)(nil)
	_ starlark.HasAttrs  = (*Frame)(nil)
	_ starlark.HasAttrs  = (*Grouped)(nil)
	_ starlark.HasAttrs  = (*Window)(nil)
)

// NewColumn wraps c. A failed column is reported as an error.
func NewColumn(c column.Column) (*Column, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	return &Column{col: c}, nil
}

// NewFrame wraps f. A failed frame is reported as an error.
func NewFrame(f *frame.Frame) (*Frame, error) {
	if err := f.Err(); err != nil {
		return nil, err
	}
	return &Frame{f: f}, nil
}

func newWindow(w *column.WindowSpec) (*Window, error) {
	if err := w.Err(); err != nil {
		return nil, err
	}
	return &Window{w: w}, nil
}

// Column returns the wrapped column.
func (c *Column) Column() column.Column { return c.col }

func (c *Column) String() string        { return c.col.String() }
func (c *Column) Type() string          { return "column" }
func (c *Column) Freeze()               {}
func (c *Column) Truth() starlark.Bool  { return starlark.True }
func (c *Column) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: column") }

// Attr implements starlark.HasAttrs.
func (c *Column) Attr(name string) (starlark.Value, error) { return attr(c, name, columnMethods) }

// AttrNames implements starlark.HasAttrs.
func (c *Column) AttrNames() []string { return names(columnMethods) }

// Binary implements the arithmetic operators, & for AND and | for OR.
func (c *Column) Binary(op syntax.Token, y starlark.Value, side starlark.Side) (starlark.Value, error) {
	other, err := toColumn(y)
	if err != nil {
		return nil, nil
	}
	l, r := c.col, other
	if side == starlark.Right {
		l, r = other, c.col
	}
	var out column.Column
	switch op {
	case syntax.PLUS:
		out = l.Add(r)
	case syntax.MINUS:
		out = l.Sub(r)
	case syntax.STAR:
		out = l.Mul(r)
	case syntax.SLASH:
		out = l.Div(r)
	case syntax.SLASHSLASH:
		out = l.FloorDiv(r)
	case syntax.PERCENT:
		out = l.Mod(r)
	case syntax.AMP:
		out = l.And(r)
	case syntax.PIPE:
		out = l.Or(r)
	default:
		return nil, nil
	}
	return NewColumn(out)
}

// Unary implements - for negation and ~ for NOT.
func (c *Column) Unary(op syntax.Token) (starlark.Value, error) {
	switch op {
	case syntax.MINUS:
		return NewColumn(c.col.Neg())
	case syntax.TILDE:
		return NewColumn(c.col.Not())
	case syntax.PLUS:
		return c, nil
	}
	return nil, nil
}

// Frame returns the wrapped frame.
func (f *Frame) Frame() *frame.Frame { return f.f }

func (f *Frame) String() string        { return f.f.String() }
func (f *Frame) Type() string          { return "frame" }
func (f *Frame) Freeze()               {}
func (f *Frame) Truth() starlark.Bool  { return starlark.True }
func (f *Frame) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: frame") }

// Attr implements starlark.HasAttrs.
func (f *Frame) Attr(name string) (starlark.Value, error) { return attr(f, name, frameMethods) }

// AttrNames implements starlark.HasAttrs.
func (f *Frame) AttrNames() []string { return names(frameMethods) }

func (g *Grouped) String() string        { return "<grouped frame>" }
func (g *Grouped) Type() string          { return "grouped_frame" }
func (g *Grouped) Freeze()               {}
func (g *Grouped) Truth() starlark.Bool  { return starlark.True }
func (g *Grouped) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: grouped_frame") }

// Attr implements starlark.HasAttrs.
func (g *Grouped) Attr(name string) (starlark.Value, error) { return attr(g, name, groupedMethods) }

// AttrNames implements starlark.HasAttrs.
func (g *Grouped) AttrNames() []string { return names(groupedMethods) }

func (w *Window) String() string        { return "<window>" }
func (w *Window) Type() string          { return "window" }
func (w *Window) Freeze()               {}
func (w *Window) Truth() starlark.Bool  { return starlark.True }
func (w *Window) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: window") }

// Attr implements starlark.HasAttrs.
func (w *Window) Attr(name string) (starlark.Value, error) { return attr(w, name, windowMethods) }

// AttrNames implements starlark.HasAttrs.
func (w *Window) AttrNames() []string { return names(windowMethods) }

// ToArg converts a Starlark argument for the builders. Wrapped columns,
// frames and windows are unwrapped, ints become int and everything else
// goes through ToGo.
func ToArg(v starlark.Value) (any, error) {
	switch x := v.(type) {
	case *Column:
		return x.col, nil
	case *Frame:
		return x.f, nil
	case *Window:
		return x.w, nil
	case starlark.Int:
		n, ok := x.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", x)
		}
		return int(n), nil
	}
	return ToGo(v)
}

func toArgs(values starlark.Tuple) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		a, err := ToArg(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = a
	}
	return out, nil
}

// toColumn converts v into a column, turning plain values into literals.
func toColumn(v starlark.Value) (column.Column, error) {
	a, err := ToArg(v)
	if err != nil {
		return column.Column{}, err
	}
	return column.Coerce(a)
}

func toFrame(v starlark.Value) (*frame.Frame, error) {
	f, ok := v.(*Frame)
	if !ok {
		return nil, core.Errorf(core.KindType, "expected a frame, got %s", v.Type())
	}
	return f.f, nil
}

// bound converts an optional frame bound, None meaning unbounded.
func bound(v starlark.Value) (*int, error) {
	if v == nil || v == starlark.None {
		return column.Unbounded(), nil
	}
	n, err := starlark.AsInt32(v)
	if err != nil {
		return nil, err
	}
	return column.Offset(n), nil
}

func configs(pretty bool) format.Configs {
	if pretty {
		return format.Pretty()
	}
	return format.QueryLayout()
}

// GoToStarlark converts a Go value to a Starlark value.
// Supported types: string, int, int64, float64, bool, []string, []any, map[string]any
func GoToStarlark(v any) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}

	switch val := v.(type) {
	case string:
		return starlark.String(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case bool:
		return starlark.Bool(val), nil
	case column.Column:
		return NewColumn(val)
	case *frame.Frame:
		return NewFrame(val)
	case []string:
		list := make([]starlark.Value, len(val))
		for i, s := range val {
			list[i] = starlark.String(s)
		}
		return starlark.NewList(list), nil
	case []any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil
	case map[string]any:
		dict := starlark.NewDict(len(val))
		for k, v := range val {
			sv, err := GoToStarlark(v)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("dict setkey %q: %w", k, err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// ToGo converts a Starlark value back to a Go value.
// Returns: string, int64, float64, bool, []any, map[string]any, or nil
func ToGo(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(val), nil
	case starlark.Int:
		i64, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", val)
		}
		return i64, nil
	case starlark.Float:
		return float64(val), nil
	case starlark.Bool:
		return bool(val), nil
	case *starlark.List:
		result := make([]any, val.Len())
		for i := range val.Len() {
			gv, err := ToGo(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			result[i] = gv
		}
		return result, nil
	case *starlark.Dict:
		result := make(map[string]any)
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, got %T", item[0])
			}
			gv, err := ToGo(item[1])
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", key, err)
			}
			result[string(key)] = gv
		}
		return result, nil
	case starlark.Tuple:
		result := make([]any, val.Len())
		for i := range val.Len() {
			gv, err := ToGo(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("tuple index %d: %w", i, err)
			}
			result[i] = gv
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Type())
	}
}
