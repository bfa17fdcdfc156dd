package core

import (
	"slices"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// When is one CASE branch.
type When struct {
	Cond  Expr
	Value Expr
}

// CaseExpr is a searched CASE. A CASE without branches can be built and
// extended but fails to render.
type CaseExpr struct {
	whens     []When
	otherwise Expr
}

// NewCase builds a CASE from branches and an optional default. Conditions
// that are not logical are tested with IS NOT NULL.
func NewCase(whens []When, otherwise Expr) (*CaseExpr, error) {
	c := &CaseExpr{whens: make([]When, 0, len(whens))}
	for _, w := range whens {
		branch, err := newWhen(w.Cond, w.Value)
		if err != nil {
			return nil, err
		}
		c.whens = append(c.whens, branch)
	}
	if otherwise != nil {
		if err := requireSelectable(otherwise, "ELSE value"); err != nil {
			return nil, err
		}
		c.otherwise = otherwise
	}
	return c, nil
}

func newWhen(cond, value Expr) (When, error) {
	l, err := AsLogical(cond)
	if err != nil {
		return When{}, err
	}
	if err := requireSelectable(value, "THEN value"); err != nil {
		return When{}, err
	}
	return When{Cond: l, Value: value}, nil
}

// AddWhen returns a copy with one more branch.
func (c *CaseExpr) AddWhen(cond, value Expr) (*CaseExpr, error) {
	branch, err := newWhen(cond, value)
	if err != nil {
		return nil, err
	}
	return &CaseExpr{whens: append(slices.Clone(c.whens), branch), otherwise: c.otherwise}, nil
}

// WithElse returns a copy with the default value set or replaced.
func (c *CaseExpr) WithElse(value Expr) (*CaseExpr, error) {
	if err := requireSelectable(value, "ELSE value"); err != nil {
		return nil, err
	}
	return &CaseExpr{whens: slices.Clone(c.whens), otherwise: value}, nil
}

func (*CaseExpr) exprNode() {}

// Kind implements Expr.
func (*CaseExpr) Kind() Kind { return KindCase }

// Tokens implements Expr.
func (c *CaseExpr) Tokens() []token.Token {
	out := kw(token.CASE)
	for _, w := range c.whens {
		out = slices.Concat(out, kw(token.WHEN), w.Cond.Tokens(), kw(token.THEN), w.Value.Tokens())
	}
	if c.otherwise != nil {
		out = slices.Concat(out, kw(token.ELSE), c.otherwise.Tokens())
	}
	return append(out, token.Keyword(token.END))
}

// Children implements Expr.
func (c *CaseExpr) Children() []Expr {
	out := make([]Expr, 0, 2*len(c.whens)+1)
	for _, w := range c.whens {
		out = append(out, w.Cond, w.Value)
	}
	if c.otherwise != nil {
		out = append(out, c.otherwise)
	}
	return out
}

// Whens returns the branches in insertion order.
func (c *CaseExpr) Whens() []When { return slices.Clone(c.whens) }

// Else returns the default value, or nil.
func (c *CaseExpr) Else() Expr { return c.otherwise }

// ToLogical implements LogicalConverter.
func (c *CaseExpr) ToLogical() Logical { return &IsNullExpr{expr: c, not: true} }
