package format

import (
	"maps"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

const defaultIndent = "  "

// Config describes how a keyword context is laid out. A context is entered
// when its keyword is written and stays active until the next context
// keyword of the same scope.
type Config struct {
	// BreakBefore starts a new line before the keyword.
	BreakBefore bool
	// BreakAfter starts a new line after the keyword.
	BreakAfter bool
	// IndentIncrease indents the keyword line and everything after it by
	// one level while the context is active.
	IndentIncrease bool
	// Indent is the string written per indent level. Empty means two spaces.
	Indent string
	// CommaBreak ends the line after each comma of the context's scope;
	// continuation lines hang one level deeper than the keyword.
	CommaBreak bool
	// LParenBreak starts a new line after an opening parenthesis.
	LParenBreak bool
	// RParenBreak starts a new line before a closing parenthesis.
	RParenBreak bool
	// Spacing separates tokens. Empty means a single space.
	Spacing string
	// Nested lets the context apply inside parentheses and CASE blocks.
	// When false such keywords are written as ordinary tokens there.
	Nested bool
}

func (c Config) indent() string {
	if c.Indent == "" {
		return defaultIndent
	}
	return c.Indent
}

func (c Config) spacing() string {
	if c.Spacing == "" {
		return " "
	}
	return c.Spacing
}

// Configs maps context keywords to their layout. A nil map renders flat.
type Configs map[token.TokenType]Config

// Flat renders every token on one line.
func Flat() Configs {
	return nil
}

// QueryLayout puts every top-level clause on its own line and set
// operation keywords on a line of their own.
func QueryLayout() Configs {
	clause := Config{BreakBefore: true}
	setOp := Config{BreakBefore: true, BreakAfter: true}
	return Configs{
		token.SELECT:             clause,
		token.FROM:               clause,
		token.WHERE:              clause,
		token.GROUP_BY:           clause,
		token.HAVING:             clause,
		token.QUALIFY:            clause,
		token.ORDER_BY:           clause,
		token.LIMIT:              clause,
		token.UNION_ALL:          setOp,
		token.UNION_DISTINCT:     setOp,
		token.INTERSECT_DISTINCT: setOp,
		token.EXCEPT_DISTINCT:    setOp,
	}
}

// CaseLayout puts each WHEN and ELSE branch on its own tab-indented line
// and END on a line of its own.
func CaseLayout() Configs {
	return caseLayout("\t")
}

func caseLayout(indent string) Configs {
	branch := Config{BreakBefore: true, IndentIncrease: true, Indent: indent, Nested: true}
	return Configs{
		token.WHEN: branch,
		token.ELSE: branch,
		token.END:  {BreakBefore: true, Nested: true},
	}
}

// Pretty combines the query and CASE layouts, breaks SELECT lists after
// every comma and starts each join on a new line.
func Pretty() Configs {
	join := Config{BreakBefore: true}
	list := Config{BreakBefore: true, CommaBreak: true}
	return Merge(QueryLayout(), caseLayout(defaultIndent), Configs{
		token.SELECT:     list,
		token.GROUP_BY:   list,
		token.ORDER_BY:   list,
		token.INNER_JOIN: join,
		token.LEFT_JOIN:  join,
		token.RIGHT_JOIN: join,
		token.FULL_JOIN:  join,
		token.CROSS_JOIN: join,
	})
}

// Merge combines configs left to right; later entries win.
func Merge(all ...Configs) Configs {
	var out Configs
	for _, c := range all {
		if len(c) == 0 {
			continue
		}
		if out == nil {
			out = make(Configs, len(c))
		}
		maps.Copy(out, c)
	}
	return out
}
