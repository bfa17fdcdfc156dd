package querydef

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	sqlstar "github.com/leapstack-labs/sqlframe/internal/starlark"
	"github.com/leapstack-labs/sqlframe/pkg/column"
	"github.com/leapstack-labs/sqlframe/pkg/core"
	"github.com/leapstack-labs/sqlframe/pkg/frame"
	"github.com/leapstack-labs/sqlframe/pkg/ident"
)

// Compile builds the frame a definition describes. Expressions are
// evaluated with the document's vars; nested definitions share them.
func Compile(doc *Document, logger *slog.Logger) (*frame.Frame, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query definition: %w", err)
	}
	ctx, err := sqlstar.NewContext(sqlstar.WithVars(doc.Vars), sqlstar.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	c := &compiler{ctx: ctx, logger: logger}
	return c.document(doc, true)
}

type compiler struct {
	ctx    *sqlstar.ExecutionContext
	logger *slog.Logger
}

func (c *compiler) document(doc *Document, top bool) (*frame.Frame, error) {
	if !top && len(doc.Vars) > 0 {
		return nil, errors.New("vars are only allowed on the top-level query")
	}
	var f *frame.Frame
	if doc.Query != nil {
		inner, err := c.document(doc.Query, false)
		if err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
		f = inner
	} else {
		f = frame.Table(doc.From).WithLogger(c.logger)
		if err := f.Err(); err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
	}
	for i := range doc.Steps {
		s := &doc.Steps[i]
		next, err := c.step(f, s)
		if err == nil {
			err = next.Err()
		}
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s.operations()[0], err)
		}
		f = next
	}
	if doc.Alias != "" {
		f = f.As(doc.Alias)
		if err := f.Err(); err != nil {
			return nil, fmt.Errorf("alias: %w", err)
		}
	}
	return f, nil
}

func (c *compiler) step(f *frame.Frame, s *Step) (*frame.Frame, error) {
	switch {
	case len(s.Select) > 0:
		if len(s.Select) == 1 && s.Select[0] == "*" {
			return f.Select("*"), nil
		}
		cols, err := c.columns(s.Select)
		if err != nil {
			return nil, err
		}
		return f.Select(cols...), nil
	case s.Distinct:
		return f.Distinct(), nil
	case s.Where != "":
		return c.predicate(s.Where, f.Where)
	case len(s.GroupBy) > 0 || len(s.Agg) > 0:
		return c.groupBy(f, s)
	case s.Having != "":
		return c.predicate(s.Having, f.Having)
	case s.Qualify != "":
		return c.predicate(s.Qualify, f.Qualify)
	case len(s.OrderBy) > 0:
		items, err := c.positionsOrColumns(s.OrderBy)
		if err != nil {
			return nil, err
		}
		return f.OrderBy(items...), nil
	case s.Limit != 0:
		return f.Limit(s.Limit, s.Offset), nil
	case s.WithColumn != nil:
		col, err := c.column(s.WithColumn.Expr)
		if err != nil {
			return nil, err
		}
		return f.WithColumn(s.WithColumn.Name, col), nil
	case s.Join != nil:
		return c.join(f, s.Join)
	case s.Alias != "":
		return f.As(s.Alias), nil
	}
	return c.setOp(f, s)
}

func (c *compiler) predicate(expr string, apply func(column.Column) *frame.Frame) (*frame.Frame, error) {
	col, err := c.column(expr)
	if err != nil {
		return nil, err
	}
	return apply(col), nil
}

func (c *compiler) groupBy(f *frame.Frame, s *Step) (*frame.Frame, error) {
	if len(s.GroupBy) == 0 {
		return nil, errors.New("agg requires group_by")
	}
	if len(s.Agg) == 0 {
		return nil, errors.New("group_by requires agg")
	}
	keys, err := c.positionsOrColumns(s.GroupBy)
	if err != nil {
		return nil, err
	}
	aggs, err := c.columns(s.Agg)
	if err != nil {
		return nil, err
	}
	cols := make([]column.Column, len(aggs))
	for i, a := range aggs {
		cols[i] = a.(column.Column)
	}
	return f.GroupBy(keys...).Agg(cols...), nil
}

func (c *compiler) join(f *frame.Frame, j *Join) (*frame.Frame, error) {
	other, err := c.document(j.With, false)
	if err != nil {
		return nil, fmt.Errorf("with: %w", err)
	}
	how := j.How
	if how == "" {
		how = "inner"
	}
	typ, err := core.ParseJoinType(how)
	if err != nil {
		return nil, err
	}
	if typ == core.JoinCross && j.On == "" {
		return f.Cartesian(other), nil
	}
	var on column.Column
	if j.On != "" {
		if on, err = c.column(j.On); err != nil {
			return nil, err
		}
	}
	return f.Join(other, on, typ), nil
}

func (c *compiler) setOp(f *frame.Frame, s *Step) (*frame.Frame, error) {
	var (
		other *Document
		apply func(*frame.Frame) *frame.Frame
	)
	switch {
	case s.UnionAll != nil:
		other, apply = s.UnionAll, f.UnionAll
	case s.UnionDistinct != nil:
		other, apply = s.UnionDistinct, f.UnionDistinct
	case s.IntersectDistinct != nil:
		other, apply = s.IntersectDistinct, f.IntersectDistinct
	case s.ExceptDistinct != nil:
		other, apply = s.ExceptDistinct, f.ExceptDistinct
	default:
		return nil, errors.New("no operation")
	}
	o, err := c.document(other, false)
	if err != nil {
		return nil, err
	}
	return apply(o), nil
}

// positionsOrColumns returns ints when every item is a position and
// Columns when none is.
func (c *compiler) positionsOrColumns(items []string) ([]any, error) {
	positions := make([]any, 0, len(items))
	for _, it := range items {
		if n, err := strconv.Atoi(it); err == nil {
			positions = append(positions, n)
		}
	}
	switch len(positions) {
	case len(items):
		return positions, nil
	case 0:
		return c.columns(items)
	default:
		return nil, fmt.Errorf("can't mix positions and columns in %v", items)
	}
}

func (c *compiler) columns(items []string) ([]any, error) {
	out := make([]any, len(items))
	for i, it := range items {
		col, err := c.column(it)
		if err != nil {
			return nil, err
		}
		out[i] = col
	}
	return out, nil
}

// column resolves one item: a valid name is a column reference, anything
// else is evaluated as an expression.
func (c *compiler) column(item string) (column.Column, error) {
	if _, err := ident.New(item); err == nil {
		return column.Col(item), nil
	}
	v, err := c.ctx.Eval(item, nil)
	if err != nil {
		return column.Column{}, err
	}
	arg, err := sqlstar.ToArg(v)
	if err != nil {
		return column.Column{}, fmt.Errorf("%q: %w", item, err)
	}
	col, err := column.Coerce(arg)
	if err != nil {
		return column.Column{}, fmt.Errorf("%q: %w", item, err)
	}
	return col, nil
}
