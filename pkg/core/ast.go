package core

import (
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// Kind tags every node variant.
type Kind int

// Kind constants, one per node variant.
const (
	KindTable Kind = iota
	KindColumn
	KindLiteral
	KindNull
	KindNegation
	KindBinary
	KindArithmetic
	KindIsNull
	KindIsNotNull
	KindNot
	KindBetween
	KindIn
	KindFunc
	KindCase
	KindAnalytic
	KindWindowFrame
	KindWindowSpec
	KindJoin
	KindSelect
	KindFrom
	KindWhere
	KindHaving
	KindQualify
	KindGroupBy
	KindOrderBy
	KindLimit
	KindQuery
	KindSetOp
)

var kindNames = [...]string{
	KindTable:       "Table",
	KindColumn:      "Column",
	KindLiteral:     "Literal",
	KindNull:        "Null",
	KindNegation:    "Negation",
	KindBinary:      "Binary",
	KindArithmetic:  "Arithmetic",
	KindIsNull:      "IsNull",
	KindIsNotNull:   "IsNotNull",
	KindNot:         "Not",
	KindBetween:     "Between",
	KindIn:          "In",
	KindFunc:        "Func",
	KindCase:        "Case",
	KindAnalytic:    "Analytic",
	KindWindowFrame: "WindowFrame",
	KindWindowSpec:  "WindowSpec",
	KindJoin:        "Join",
	KindSelect:      "Select",
	KindFrom:        "From",
	KindWhere:       "Where",
	KindHaving:      "Having",
	KindQualify:     "Qualify",
	KindGroupBy:     "GroupBy",
	KindOrderBy:     "OrderBy",
	KindLimit:       "Limit",
	KindQuery:       "Query",
	KindSetOp:       "SetOp",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Expr is implemented by every node. The set of implementations is closed.
type Expr interface {
	Kind() Kind
	// Tokens returns the node's lexical form with no layout.
	Tokens() []token.Token
	// Children returns the immediate child nodes in token order.
	Children() []Expr
	exprNode()
}

// Logical is implemented by nodes that evaluate to a boolean and may stand
// where SQL expects a predicate.
type Logical interface {
	Expr
	logicalNode()
}

// LogicalConverter is implemented by value nodes that can become a predicate
// by testing for NULL.
type LogicalConverter interface {
	Expr
	ToLogical() Logical
}

// Queryable is a statement that can be used as a subquery, including as
// the source of a FROM clause.
type Queryable interface {
	FromItem
	queryNode()
}

// FromItem is anything a FROM clause or join operand can point at.
type FromItem interface {
	Expr
	fromNode()
}

// Equal reports whether a and b share a kind and render identically.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && slices.Equal(a.Tokens(), b.Tokens())
}

// Key returns a string identifying e up to Equal.
func Key(e Expr) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Kind().String())
	for _, t := range e.Tokens() {
		b.WriteByte(0)
		b.WriteString(strconv.Itoa(int(t.Type)))
		b.WriteByte(':')
		b.WriteString(t.Text)
	}
	return b.String()
}

// IsSelectable reports whether e may appear in a SELECT list, GROUP BY,
// ORDER BY or as a function argument.
func IsSelectable(e Expr) bool {
	switch e.(type) {
	case *ColumnRef, *Literal, *NullExpr, *Negation,
		*BinaryExpr, *ArithmeticExpr, *IsNullExpr, *NotExpr, *BetweenExpr, *InExpr,
		*FuncCall, *CaseExpr, *Analytic:
		return true
	}
	return false
}

// AsLogical returns e as a predicate, wrapping value nodes with IS NOT NULL.
func AsLogical(e Expr) (Logical, error) {
	switch v := e.(type) {
	case nil:
		return nil, typeErrorf("expected a logical expression, got nil")
	case Logical:
		return v, nil
	case LogicalConverter:
		return v.ToLogical(), nil
	}
	return nil, typeErrorf("expected a logical expression, got %s", e.Kind())
}

func requireSelectable(e Expr, what string) error {
	if e == nil {
		return typeErrorf("%s can't be nil", what)
	}
	if !IsSelectable(e) {
		return typeErrorf("%s must be a selectable expression, got %s", what, e.Kind())
	}
	return nil
}

func requireLogical(e Expr, what string) (Logical, error) {
	if e == nil {
		return nil, typeErrorf("%s can't be nil", what)
	}
	l, ok := e.(Logical)
	if !ok {
		return nil, typeErrorf("%s must be a logical expression, got %s", what, e.Kind())
	}
	return l, nil
}

var (
	comma  = token.Keyword(token.COMMA)
	lparen = token.Keyword(token.LPAREN)
	rparen = token.Keyword(token.RPAREN)
)

func kw(types ...token.TokenType) []token.Token {
	out := make([]token.Token, len(types))
	for i, t := range types {
		out[i] = token.Keyword(t)
	}
	return out
}

func parens(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks)+2)
	out = append(out, lparen)
	out = append(out, toks...)
	return append(out, rparen)
}

// commaList joins the tokens of each element with commas.
func commaList[E Expr](items []E) []token.Token {
	var out []token.Token
	for i, e := range items {
		if i > 0 {
			out = append(out, comma)
		}
		out = append(out, e.Tokens()...)
	}
	return out
}
