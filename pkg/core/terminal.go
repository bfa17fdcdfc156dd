package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlframe/pkg/ident"
	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// ---------- Table ----------

// Table references a physical table by its dotted path.
type Table struct {
	path ident.Identifier
}

// NewTable validates path and returns a table reference.
func NewTable(path string) (*Table, error) {
	id, err := ident.New(path)
	if err != nil {
		return nil, err
	}
	return &Table{path: id}, nil
}

func (*Table) exprNode() {}
func (*Table) fromNode() {}

// Kind implements Expr.
func (*Table) Kind() Kind { return KindTable }

// Tokens implements Expr.
func (t *Table) Tokens() []token.Token { return []token.Token{token.Ident(t.path.String())} }

// Children implements Expr.
func (*Table) Children() []Expr { return nil }

// Path returns the normalized table path.
func (t *Table) Path() string { return t.path.String() }

// ---------- Column reference ----------

// ColumnRef references a column by name. The bare wildcard is tracked
// separately since a SELECT list allows at most one and never aliases it.
type ColumnRef struct {
	name     string
	wildcard bool
}

var star = &ColumnRef{name: "*", wildcard: true}

// NewColumnRef validates name. "*" yields the wildcard.
func NewColumnRef(name string) (*ColumnRef, error) {
	if name == "*" {
		return star, nil
	}
	id, err := ident.New(name)
	if err != nil {
		return nil, err
	}
	return &ColumnRef{name: id.String()}, nil
}

// Star returns the wildcard column.
func Star() *ColumnRef { return star }

// QualifiedStar returns "alias.*".
func QualifiedStar(alias string) (*ColumnRef, error) {
	id, err := ident.New(alias)
	if err != nil {
		return nil, err
	}
	return &ColumnRef{name: id.String() + ".*"}, nil
}

func (*ColumnRef) exprNode() {}

// Kind implements Expr.
func (*ColumnRef) Kind() Kind { return KindColumn }

// Tokens implements Expr.
func (c *ColumnRef) Tokens() []token.Token {
	if c.wildcard {
		return []token.Token{token.Keyword(token.STAR)}
	}
	return []token.Token{token.Ident(c.name)}
}

// Children implements Expr.
func (*ColumnRef) Children() []Expr { return nil }

// Name returns the column name.
func (c *ColumnRef) Name() string { return c.name }

// IsWildcard reports whether c is the bare "*".
func (c *ColumnRef) IsWildcard() bool { return c.wildcard }

// ToLogical implements LogicalConverter.
func (c *ColumnRef) ToLogical() Logical { return &IsNullExpr{expr: c, not: true} }

// ---------- Literal ----------

// LiteralType is the SQL type family of a literal.
type LiteralType int

// LiteralType constants.
const (
	LiteralBool LiteralType = iota
	LiteralInt
	LiteralFloat
	LiteralString
)

func (t LiteralType) String() string {
	switch t {
	case LiteralBool:
		return "bool"
	case LiteralInt:
		return "int"
	case LiteralFloat:
		return "float"
	default:
		return "string"
	}
}

// Literal is a constant value.
type Literal struct {
	typ   LiteralType
	value any
	text  string
}

// NewLiteral wraps a Go bool, integer, float or string.
func NewLiteral(v any) (*Literal, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return &Literal{typ: LiteralBool, value: x, text: "TRUE"}, nil
		}
		return &Literal{typ: LiteralBool, value: x, text: "FALSE"}, nil
	case string:
		return &Literal{typ: LiteralString, value: x, text: quote(x)}, nil
	case float32:
		return newFloat(v, float64(x))
	case float64:
		return newFloat(v, x)
	case int:
		return newInt(v, int64(x)), nil
	case int8:
		return newInt(v, int64(x)), nil
	case int16:
		return newInt(v, int64(x)), nil
	case int32:
		return newInt(v, int64(x)), nil
	case int64:
		return newInt(v, x), nil
	case uint:
		return newUint(v, uint64(x)), nil
	case uint8:
		return newUint(v, uint64(x)), nil
	case uint16:
		return newUint(v, uint64(x)), nil
	case uint32:
		return newUint(v, uint64(x)), nil
	case uint64:
		return newUint(v, x), nil
	}
	return nil, typeErrorf("literal must be a bool, number or string, got %T", v)
}

func newInt(v any, n int64) *Literal {
	return &Literal{typ: LiteralInt, value: v, text: strconv.FormatInt(n, 10)}
}

func newUint(v any, n uint64) *Literal {
	return &Literal{typ: LiteralInt, value: v, text: strconv.FormatUint(n, 10)}
}

func newFloat(v any, f float64) (*Literal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, typeErrorf("literal must be a finite number, got %v", f)
	}
	text := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return &Literal{typ: LiteralFloat, value: v, text: text}, nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (*Literal) exprNode() {}

// Kind implements Expr.
func (*Literal) Kind() Kind { return KindLiteral }

// Tokens implements Expr.
func (l *Literal) Tokens() []token.Token { return []token.Token{token.Ident(l.text)} }

// Children implements Expr.
func (*Literal) Children() []Expr { return nil }

// Type returns the literal's type family.
func (l *Literal) Type() LiteralType { return l.typ }

// Value returns the Go value the literal was built from.
func (l *Literal) Value() any { return l.value }

// ToLogical implements LogicalConverter.
func (l *Literal) ToLogical() Logical { return &IsNullExpr{expr: l, not: true} }

// ---------- NULL ----------

// NullExpr is the NULL constant.
type NullExpr struct{}

var null = &NullExpr{}

// Null returns the NULL constant.
func Null() *NullExpr { return null }

func (*NullExpr) exprNode() {}

// Kind implements Expr.
func (*NullExpr) Kind() Kind { return KindNull }

// Tokens implements Expr.
func (*NullExpr) Tokens() []token.Token { return kw(token.NULL) }

// Children implements Expr.
func (*NullExpr) Children() []Expr { return nil }

// ToLogical implements LogicalConverter.
func (n *NullExpr) ToLogical() Logical { return &IsNullExpr{expr: n, not: true} }
