package core

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlframe/pkg/ident"
	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// JoinType selects the join operator.
type JoinType int

// JoinType constants.
const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFullOuter
	JoinCross
)

var joinTokens = [...]token.TokenType{
	JoinInner:     token.INNER_JOIN,
	JoinLeft:      token.LEFT_JOIN,
	JoinRight:     token.RIGHT_JOIN,
	JoinFullOuter: token.FULL_JOIN,
	JoinCross:     token.CROSS_JOIN,
}

// Token returns the join keyword.
func (t JoinType) Token() token.TokenType { return joinTokens[t] }

func (t JoinType) String() string { return t.Token().String() }

// ParseJoinType accepts "inner", "left", "right", "full outer" and "cross".
func ParseJoinType(s string) (JoinType, error) {
	switch strings.Join(strings.Fields(strings.ToLower(s)), " ") {
	case "inner":
		return JoinInner, nil
	case "left":
		return JoinLeft, nil
	case "right":
		return JoinRight, nil
	case "full outer":
		return JoinFullOuter, nil
	case "cross":
		return JoinCross, nil
	}
	return 0, typeErrorf("supported join types are 'inner', 'left', 'right', 'full outer' and 'cross', got '%s'", s)
}

// Join combines two from-items. Joins nest on the left only.
type Join struct {
	typ        JoinType
	left       FromItem
	leftAlias  string
	right      FromItem
	rightAlias string
	on         Logical
}

// NewJoin validates operands, aliases and the ON predicate. Empty aliases
// mean none.
func NewJoin(typ JoinType, left FromItem, leftAlias string, right FromItem, rightAlias string, on Expr) (*Join, error) {
	if typ < JoinInner || typ > JoinCross {
		return nil, typeErrorf("unknown join type %d", int(typ))
	}
	if left == nil || right == nil {
		return nil, typeErrorf("join operands can't be nil")
	}
	if _, ok := right.(*Join); ok {
		return nil, typeErrorf("the right side of a join can't be a join")
	}

	var err error
	if leftAlias, err = optionalAlias(leftAlias); err != nil {
		return nil, err
	}
	if rightAlias, err = optionalAlias(rightAlias); err != nil {
		return nil, err
	}

	if _, ok := left.(*Join); ok && leftAlias != "" {
		return nil, invariantErrorf("a nested join can't have an alias")
	}
	if _, ok := left.(Queryable); ok && leftAlias == "" {
		return nil, invariantErrorf("left subquery must have an alias")
	}
	if _, ok := right.(Queryable); ok && rightAlias == "" {
		return nil, invariantErrorf("right subquery must have an alias")
	}

	j := &Join{typ: typ, left: left, leftAlias: leftAlias, right: right, rightAlias: rightAlias}
	switch {
	case typ == JoinCross && on != nil:
		return nil, invariantErrorf("%s can't have an ON predicate", typ)
	case typ != JoinCross && on == nil:
		return nil, invariantErrorf("%s requires an ON predicate", typ)
	case on != nil:
		if j.on, err = requireLogical(on, "join ON predicate"); err != nil {
			return nil, err
		}
	}

	if leftAlias != "" && leftAlias == rightAlias {
		return nil, invariantErrorf("duplicate aliases, '%s'", leftAlias)
	}
	if dups := duplicates(j.Aliases()); len(dups) > 0 {
		return nil, invariantErrorf("can't have duplicate aliases for tables, found: %s", strings.Join(dups, ", "))
	}
	return j, nil
}

func optionalAlias(alias string) (string, error) {
	if alias == "" {
		return "", nil
	}
	id, err := ident.New(alias)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// duplicates returns values seen more than once, in order of first repeat.
func duplicates(values []string) []string {
	seen := make(map[string]int, len(values))
	var out []string
	for _, v := range values {
		seen[v]++
		if seen[v] == 2 {
			out = append(out, v)
		}
	}
	return out
}

func (*Join) exprNode() {}
func (*Join) fromNode() {}

// Kind implements Expr.
func (*Join) Kind() Kind { return KindJoin }

// Tokens implements Expr.
func (j *Join) Tokens() []token.Token {
	out := slices.Concat(joinSide(j.left, j.leftAlias), kw(j.typ.Token()), joinSide(j.right, j.rightAlias))
	if j.on != nil {
		out = slices.Concat(out, kw(token.ON), j.on.Tokens())
	}
	return out
}

// joinSide renders a join operand; subqueries are parenthesized.
func joinSide(item FromItem, alias string) []token.Token {
	toks := item.Tokens()
	if _, ok := item.(Queryable); ok {
		toks = parens(toks)
	}
	if alias != "" {
		toks = append(toks, token.Keyword(token.AS), token.Ident(alias))
	}
	return toks
}

// Children implements Expr.
func (j *Join) Children() []Expr {
	if j.on != nil {
		return []Expr{j.left, j.right, j.on}
	}
	return []Expr{j.left, j.right}
}

// Type returns the join operator.
func (j *Join) Type() JoinType { return j.typ }

// Left returns the left operand and its alias.
func (j *Join) Left() (FromItem, string) { return j.left, j.leftAlias }

// Right returns the right operand and its alias.
func (j *Join) Right() (FromItem, string) { return j.right, j.rightAlias }

// On returns the join predicate, or nil for a cross join.
func (j *Join) On() Logical { return j.on }

// Aliases collects every alias of the join chain depth-first along the
// left spine.
func (j *Join) Aliases() []string {
	var out []string
	if nested, ok := j.left.(*Join); ok {
		out = nested.Aliases()
	} else if j.leftAlias != "" {
		out = append(out, j.leftAlias)
	}
	if j.rightAlias != "" {
		out = append(out, j.rightAlias)
	}
	return out
}
