package core

import (
	"slices"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// SetOpType selects the set operator.
type SetOpType int

// SetOpType constants.
const (
	UnionAll SetOpType = iota
	UnionDistinct
	IntersectDistinct
	ExceptDistinct
)

var setOpTokens = [...]token.TokenType{
	UnionAll:          token.UNION_ALL,
	UnionDistinct:     token.UNION_DISTINCT,
	IntersectDistinct: token.INTERSECT_DISTINCT,
	ExceptDistinct:    token.EXCEPT_DISTINCT,
}

// Token returns the operator keyword.
func (t SetOpType) Token() token.TokenType { return setOpTokens[t] }

func (t SetOpType) String() string { return t.Token().String() }

// SetOp combines two statements.
type SetOp struct {
	op          SetOpType
	left, right Queryable
}

// NewSetOp combines left and right.
func NewSetOp(op SetOpType, left, right Queryable) (*SetOp, error) {
	if op < UnionAll || op > ExceptDistinct {
		return nil, typeErrorf("unknown set operation %d", int(op))
	}
	if left == nil || right == nil {
		return nil, typeErrorf("set operation operands can't be nil")
	}
	return &SetOp{op: op, left: left, right: right}, nil
}

// SetOpItem is one statement of a flattened chain and the operator that
// follows it; Next is nil for the last statement.
type SetOpItem struct {
	Node Queryable
	Next *SetOpType
}

// Flatten linearizes a left-nested chain. A left operand with the same
// operator is spliced in; any other nested operation stays whole.
func (s *SetOp) Flatten() []SetOpItem {
	var items []SetOpItem
	if l, ok := s.left.(*SetOp); ok && l.op == s.op {
		items = l.Flatten()
	} else {
		items = []SetOpItem{{Node: s.left}}
	}
	op := s.op
	items[len(items)-1].Next = &op
	return append(items, SetOpItem{Node: s.right})
}

func (*SetOp) exprNode()  {}
func (*SetOp) queryNode() {}
func (*SetOp) fromNode()  {}

// Kind implements Expr.
func (*SetOp) Kind() Kind { return KindSetOp }

// Tokens renders the flattened chain. Nested set operations are
// parenthesized.
func (s *SetOp) Tokens() []token.Token {
	var out []token.Token
	for _, item := range s.Flatten() {
		toks := item.Node.Tokens()
		if _, ok := item.Node.(*SetOp); ok {
			toks = parens(toks)
		}
		out = slices.Concat(out, toks)
		if item.Next != nil {
			out = append(out, token.Keyword(item.Next.Token()))
		}
	}
	return out
}

// Children implements Expr.
func (s *SetOp) Children() []Expr { return []Expr{s.left, s.right} }

// Op returns the operator.
func (s *SetOp) Op() SetOpType { return s.op }

// Left returns the left operand.
func (s *SetOp) Left() Queryable { return s.left }

// Right returns the right operand.
func (s *SetOp) Right() Queryable { return s.right }
