package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// Category separates boolean operators from arithmetic ones.
type Category int

// Category constants.
const (
	CategoryLogical Category = iota
	CategoryMath
)

// operand returns the tokens of an operator argument. Compound operator
// nodes are parenthesized so precedence survives rendering.
func operand(e Expr) []token.Token {
	switch e.(type) {
	case *BinaryExpr, *ArithmeticExpr, *BetweenExpr, *InExpr, *IsNullExpr, *NotExpr:
		return parens(e.Tokens())
	}
	return e.Tokens()
}

// ---------- Negation ----------

// Negation is the unary minus.
type Negation struct {
	expr Expr
}

// NewNegation negates a selectable expression.
func NewNegation(e Expr) (*Negation, error) {
	if err := requireSelectable(e, "negated expression"); err != nil {
		return nil, err
	}
	return &Negation{expr: e}, nil
}

func (*Negation) exprNode() {}

// Kind implements Expr.
func (*Negation) Kind() Kind { return KindNegation }

// Tokens prefixes the first token of a simple operand with "-". Compound
// operands and operands that already start with "-" are parenthesized.
func (n *Negation) Tokens() []token.Token {
	toks := n.expr.Tokens()
	switch n.expr.(type) {
	case *ColumnRef, *Literal, *FuncCall, *Analytic:
		if !strings.HasPrefix(toks[0].Text, "-") {
			toks[0].Text = "-" + toks[0].Text
			return toks
		}
	}
	return slices.Concat([]token.Token{token.Call("-")}, parens(toks))
}

// Children implements Expr.
func (n *Negation) Children() []Expr { return []Expr{n.expr} }

// Expr returns the negated expression.
func (n *Negation) Expr() Expr { return n.expr }

// ToLogical implements LogicalConverter.
func (n *Negation) ToLogical() Logical { return &IsNullExpr{expr: n, not: true} }

// ---------- Logical binary operators ----------

var logicalOps = []token.TokenType{
	token.EQ, token.NE, token.GT, token.GE, token.LT, token.LE,
	token.LIKE, token.AND, token.OR,
}

// BinaryExpr is a comparison, LIKE, AND or OR.
type BinaryExpr struct {
	op          token.TokenType
	left, right Expr
}

// NewBinary builds a logical binary operator. AND and OR need logical
// operands; every other operator needs selectable ones.
func NewBinary(op token.TokenType, left, right Expr) (*BinaryExpr, error) {
	if !slices.Contains(logicalOps, op) {
		return nil, typeErrorf("%s is not a logical operator", op)
	}
	if op == token.AND || op == token.OR {
		if _, err := requireLogical(left, op.String()+" left operand"); err != nil {
			return nil, err
		}
		if _, err := requireLogical(right, op.String()+" right operand"); err != nil {
			return nil, err
		}
	} else {
		if err := requireSelectable(left, op.String()+" left operand"); err != nil {
			return nil, err
		}
		if err := requireSelectable(right, op.String()+" right operand"); err != nil {
			return nil, err
		}
	}
	return &BinaryExpr{op: op, left: left, right: right}, nil
}

// NewEqual builds "left = right".
func NewEqual(left, right Expr) (*BinaryExpr, error) { return NewBinary(token.EQ, left, right) }

// NewNotEqual builds "left <> right".
func NewNotEqual(left, right Expr) (*BinaryExpr, error) { return NewBinary(token.NE, left, right) }

// NewGreater builds "left > right".
func NewGreater(left, right Expr) (*BinaryExpr, error) { return NewBinary(token.GT, left, right) }

// NewGreaterOrEqual builds "left >= right".
func NewGreaterOrEqual(left, right Expr) (*BinaryExpr, error) {
	return NewBinary(token.GE, left, right)
}

// NewLess builds "left < right".
func NewLess(left, right Expr) (*BinaryExpr, error) { return NewBinary(token.LT, left, right) }

// NewLessOrEqual builds "left <= right".
func NewLessOrEqual(left, right Expr) (*BinaryExpr, error) { return NewBinary(token.LE, left, right) }

// NewLike builds "left LIKE right".
func NewLike(left, right Expr) (*BinaryExpr, error) { return NewBinary(token.LIKE, left, right) }

// NewAnd builds "(left) AND (right)".
func NewAnd(left, right Expr) (*BinaryExpr, error) { return NewBinary(token.AND, left, right) }

// NewOr builds "(left) OR (right)".
func NewOr(left, right Expr) (*BinaryExpr, error) { return NewBinary(token.OR, left, right) }

func (*BinaryExpr) exprNode()    {}
func (*BinaryExpr) logicalNode() {}

// Kind implements Expr.
func (*BinaryExpr) Kind() Kind { return KindBinary }

// Tokens implements Expr. AND and OR always parenthesize both sides.
func (b *BinaryExpr) Tokens() []token.Token {
	if b.op == token.AND || b.op == token.OR {
		return slices.Concat(parens(b.left.Tokens()), kw(b.op), parens(b.right.Tokens()))
	}
	return slices.Concat(operand(b.left), kw(b.op), operand(b.right))
}

// Children implements Expr.
func (b *BinaryExpr) Children() []Expr { return []Expr{b.left, b.right} }

// Op returns the operator.
func (b *BinaryExpr) Op() token.TokenType { return b.op }

// Left returns the left operand.
func (b *BinaryExpr) Left() Expr { return b.left }

// Right returns the right operand.
func (b *BinaryExpr) Right() Expr { return b.right }

// Category implements the operator category tag.
func (*BinaryExpr) Category() Category { return CategoryLogical }

// ---------- Arithmetic ----------

var mathOps = []token.TokenType{token.PLUS, token.MINUS, token.STAR, token.SLASH}

// ArithmeticExpr is +, -, * or /.
type ArithmeticExpr struct {
	op          token.TokenType
	left, right Expr
}

// NewArithmetic builds an arithmetic operator over selectable operands.
func NewArithmetic(op token.TokenType, left, right Expr) (*ArithmeticExpr, error) {
	if !slices.Contains(mathOps, op) {
		return nil, typeErrorf("%s is not an arithmetic operator", op)
	}
	if err := requireSelectable(left, op.String()+" left operand"); err != nil {
		return nil, err
	}
	if err := requireSelectable(right, op.String()+" right operand"); err != nil {
		return nil, err
	}
	return &ArithmeticExpr{op: op, left: left, right: right}, nil
}

// NewPlus builds "left + right".
func NewPlus(left, right Expr) (*ArithmeticExpr, error) {
	return NewArithmetic(token.PLUS, left, right)
}

// NewMinus builds "left - right".
func NewMinus(left, right Expr) (*ArithmeticExpr, error) {
	return NewArithmetic(token.MINUS, left, right)
}

// NewMultiply builds "left * right".
func NewMultiply(left, right Expr) (*ArithmeticExpr, error) {
	return NewArithmetic(token.STAR, left, right)
}

// NewDivide builds "left / right".
func NewDivide(left, right Expr) (*ArithmeticExpr, error) {
	return NewArithmetic(token.SLASH, left, right)
}

func (*ArithmeticExpr) exprNode() {}

// Kind implements Expr.
func (*ArithmeticExpr) Kind() Kind { return KindArithmetic }

// Tokens implements Expr.
func (a *ArithmeticExpr) Tokens() []token.Token {
	return slices.Concat(operand(a.left), kw(a.op), operand(a.right))
}

// Children implements Expr.
func (a *ArithmeticExpr) Children() []Expr { return []Expr{a.left, a.right} }

// Op returns the operator.
func (a *ArithmeticExpr) Op() token.TokenType { return a.op }

// Category implements the operator category tag.
func (*ArithmeticExpr) Category() Category { return CategoryMath }

// ToLogical implements LogicalConverter.
func (a *ArithmeticExpr) ToLogical() Logical { return &IsNullExpr{expr: a, not: true} }

// ---------- IS [NOT] NULL, NOT ----------

// IsNullExpr is "e IS NULL" or "e IS NOT NULL".
type IsNullExpr struct {
	expr Expr
	not  bool
}

// NewIsNull builds "e IS NULL".
func NewIsNull(e Expr) (*IsNullExpr, error) {
	if err := requireSelectable(e, "IS NULL operand"); err != nil {
		return nil, err
	}
	return &IsNullExpr{expr: e}, nil
}

// NewIsNotNull builds "e IS NOT NULL".
func NewIsNotNull(e Expr) (*IsNullExpr, error) {
	if err := requireSelectable(e, "IS NOT NULL operand"); err != nil {
		return nil, err
	}
	return &IsNullExpr{expr: e, not: true}, nil
}

func (*IsNullExpr) exprNode()    {}
func (*IsNullExpr) logicalNode() {}

// Kind implements Expr.
func (n *IsNullExpr) Kind() Kind {
	if n.not {
		return KindIsNotNull
	}
	return KindIsNull
}

// Tokens implements Expr.
func (n *IsNullExpr) Tokens() []token.Token {
	if n.not {
		return slices.Concat(operand(n.expr), kw(token.IS_NOT, token.NULL))
	}
	return slices.Concat(operand(n.expr), kw(token.IS, token.NULL))
}

// Children implements Expr.
func (n *IsNullExpr) Children() []Expr { return []Expr{n.expr} }

// NotExpr negates a boolean by comparing it with TRUE.
type NotExpr struct {
	expr Expr
}

// NewNot builds "e <> TRUE".
func NewNot(e Expr) (*NotExpr, error) {
	if err := requireSelectable(e, "NOT operand"); err != nil {
		return nil, err
	}
	return &NotExpr{expr: e}, nil
}

func (*NotExpr) exprNode()    {}
func (*NotExpr) logicalNode() {}

// Kind implements Expr.
func (*NotExpr) Kind() Kind { return KindNot }

// Tokens implements Expr.
func (n *NotExpr) Tokens() []token.Token {
	return slices.Concat(operand(n.expr), kw(token.NE), []token.Token{token.Ident("TRUE")})
}

// Children implements Expr.
func (n *NotExpr) Children() []Expr { return []Expr{n.expr} }

// ---------- BETWEEN ----------

// BetweenExpr is "e BETWEEN low AND high".
type BetweenExpr struct {
	expr, low, high Expr
}

// NewBetween builds a range test over selectable operands.
func NewBetween(e, low, high Expr) (*BetweenExpr, error) {
	for _, x := range []struct {
		e    Expr
		what string
	}{{e, "BETWEEN operand"}, {low, "BETWEEN lower bound"}, {high, "BETWEEN upper bound"}} {
		if err := requireSelectable(x.e, x.what); err != nil {
			return nil, err
		}
	}
	return &BetweenExpr{expr: e, low: low, high: high}, nil
}

func (*BetweenExpr) exprNode()    {}
func (*BetweenExpr) logicalNode() {}

// Kind implements Expr.
func (*BetweenExpr) Kind() Kind { return KindBetween }

// Tokens implements Expr.
func (b *BetweenExpr) Tokens() []token.Token {
	return slices.Concat(operand(b.expr), kw(token.BETWEEN), operand(b.low), kw(token.AND), operand(b.high))
}

// Children implements Expr.
func (b *BetweenExpr) Children() []Expr { return []Expr{b.expr, b.low, b.high} }

// ---------- IN ----------

// InExpr is a membership test against a value list or a subquery.
type InExpr struct {
	left  Expr
	list  []Expr
	query Queryable
}

// NewIn builds "left IN (...)". args is exactly one of: a single Queryable,
// a list of selectable expressions, a list of numbers, a list of booleans
// or a list of strings.
func NewIn(left Expr, args ...any) (*InExpr, error) {
	if err := requireSelectable(left, "IN operand"); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, typeErrorf("IN requires at least one value")
	}

	queries := 0
	for _, a := range args {
		if _, ok := a.(Queryable); ok {
			queries++
		}
	}
	if queries > 0 {
		if len(args) != 1 {
			return nil, typeErrorf("IN takes a single subquery or a list of values, not both")
		}
		return &InExpr{left: left, query: args[0].(Queryable)}, nil
	}

	if list, ok := inExprs(args); ok {
		return &InExpr{left: left, list: list}, nil
	}
	if list, ok := inPrimitives(args); ok {
		return &InExpr{left: left, list: list}, nil
	}

	types := make([]string, len(args))
	for i, a := range args {
		types[i] = fmt.Sprintf("%T", a)
	}
	return nil, typeErrorf("IN values must be all expressions, all numbers, all booleans or all strings, got: [%s]",
		strings.Join(types, ", "))
}

func inExprs(args []any) ([]Expr, bool) {
	list := make([]Expr, 0, len(args))
	for _, a := range args {
		e, ok := a.(Expr)
		if !ok || !IsSelectable(e) {
			return nil, false
		}
		list = append(list, e)
	}
	return list, true
}

func inPrimitives(args []any) ([]Expr, bool) {
	group := primitiveGroup(args[0])
	if group == "" {
		return nil, false
	}
	list := make([]Expr, 0, len(args))
	for _, a := range args {
		if primitiveGroup(a) != group {
			return nil, false
		}
		lit, err := NewLiteral(a)
		if err != nil {
			return nil, false
		}
		list = append(list, lit)
	}
	return list, true
}

// primitiveGroup classifies a Go value for IN homogeneity. Integers and
// floats share a group.
func primitiveGroup(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case string:
		return "string"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	}
	return ""
}

func (*InExpr) exprNode()    {}
func (*InExpr) logicalNode() {}

// Kind implements Expr.
func (*InExpr) Kind() Kind { return KindIn }

// Tokens implements Expr.
func (in *InExpr) Tokens() []token.Token {
	if in.query != nil {
		return slices.Concat(operand(in.left), kw(token.IN), parens(in.query.Tokens()))
	}
	return slices.Concat(operand(in.left), kw(token.IN), parens(commaList(in.list)))
}

// Children implements Expr.
func (in *InExpr) Children() []Expr {
	if in.query != nil {
		return []Expr{in.left, in.query}
	}
	return append([]Expr{in.left}, in.list...)
}

// IsQuery reports whether the right side is a subquery.
func (in *InExpr) IsQuery() bool { return in.query != nil }
