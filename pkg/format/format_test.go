package format

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlframe/pkg/token"
	"github.com/stretchr/testify/assert"
)

var (
	kw    = token.Keyword
	id    = token.Ident
	comma = token.Keyword(token.COMMA)
	lp    = token.Keyword(token.LPAREN)
	rp    = token.Keyword(token.RPAREN)
)

func toks(parts ...token.Token) []token.Token { return parts }

func TestRender_QueryLayout(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []token.Token
		expected string
	}{
		{
			name:     "select from",
			tokens:   toks(kw(token.SELECT), id("a"), comma, id("b"), kw(token.FROM), id("db.schema.table1")),
			expected: "SELECT a, b\nFROM db.schema.table1",
		},
		{
			name: "subquery renders flat",
			tokens: toks(kw(token.SELECT), id("a"), kw(token.FROM),
				lp, kw(token.SELECT), id("a"), kw(token.FROM), id("t1"), rp, kw(token.AS), id("B")),
			expected: "SELECT a\nFROM (SELECT a FROM t1) AS B",
		},
		{
			name: "set operation on its own line",
			tokens: toks(kw(token.SELECT), kw(token.STAR), kw(token.FROM), id("a"),
				kw(token.UNION_ALL),
				kw(token.SELECT), kw(token.STAR), kw(token.FROM), id("b")),
			expected: "SELECT *\nFROM a\nUNION ALL\nSELECT *\nFROM b",
		},
		{
			name: "where clause",
			tokens: toks(kw(token.SELECT), id("id"), kw(token.FROM), id("db.t1"),
				kw(token.WHERE), id("age"), kw(token.GT), id("18")),
			expected: "SELECT id\nFROM db.t1\nWHERE age > 18",
		},
		{
			name: "function call glued to its parenthesis",
			tokens: toks(kw(token.SELECT), token.Call("MOD"), lp, id("a"), comma, id("b"), rp,
				kw(token.AS), id("m"), kw(token.FROM), id("t")),
			expected: "SELECT MOD(a, b) AS m\nFROM t",
		},
		{
			name:     "zero argument call",
			tokens:   toks(kw(token.SELECT), token.Call("CURRENT_DATE"), lp, rp),
			expected: "SELECT CURRENT_DATE()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.tokens, QueryLayout()))
		})
	}
}

func caseTokens() []token.Token {
	return toks(kw(token.CASE),
		kw(token.WHEN), id("a"), kw(token.EQ), id("1"), kw(token.THEN), id("'good'"),
		kw(token.ELSE), id("'dunno'"),
		kw(token.END))
}

func TestRender_CaseLayout(t *testing.T) {
	assert.Equal(t, "CASE\n\tWHEN a = 1 THEN 'good'\n\tELSE 'dunno'\nEND", Render(caseTokens(), CaseLayout()))
}

func TestRender_Flat(t *testing.T) {
	assert.Equal(t, "CASE WHEN a = 1 THEN 'good' ELSE 'dunno' END", Render(caseTokens(), Flat()))
	assert.Equal(t, "a IN (1, 2, 4.5, 55)", Render(toks(id("a"), kw(token.IN),
		lp, id("1"), comma, id("2"), comma, id("4.5"), comma, id("55"), rp), nil))
}

func TestRender_ScopeRestoresContext(t *testing.T) {
	tokens := append(toks(kw(token.SELECT), id("x"), comma), caseTokens()...)
	tokens = append(tokens, kw(token.AS), id("c"), comma, id("y"), kw(token.FROM), id("t"))

	expected := strings.Join([]string{
		"SELECT x,",
		"  CASE",
		"    WHEN a = 1 THEN 'good'",
		"    ELSE 'dunno'",
		"  END AS c,",
		"  y",
		"FROM t",
	}, "\n")
	assert.Equal(t, expected, Render(tokens, Pretty()))
}

func TestRender_NestedContext(t *testing.T) {
	tokens := toks(id("f"), lp, kw(token.SELECT), id("a"), rp)

	assert.Equal(t, "f (SELECT a)", Render(tokens, Configs{token.SELECT: {BreakBefore: true}}))
	assert.Equal(t, "f (\nSELECT a)", Render(tokens, Configs{token.SELECT: {BreakBefore: true, Nested: true}}))
}

func TestRender_ParenBreaks(t *testing.T) {
	tokens := toks(kw(token.FROM), lp, id("x"), rp, kw(token.AS), id("y"))
	cfg := Configs{token.FROM: {LParenBreak: true, RParenBreak: true}}
	assert.Equal(t, "FROM (\nx\n) AS y", Render(tokens, cfg))
}

func TestRender_NoBlankLines(t *testing.T) {
	cfg := Configs{
		token.FROM:  {BreakBefore: true, BreakAfter: true},
		token.WHERE: {BreakBefore: true},
	}
	tokens := toks(kw(token.FROM), kw(token.WHERE), id("x"))
	assert.Equal(t, "FROM\nWHERE x", Render(tokens, cfg))
}

func TestRender_Spacing(t *testing.T) {
	cfg := Configs{token.SELECT: {Spacing: "  "}}
	assert.Equal(t, "SELECT  a,  b", Render(toks(kw(token.SELECT), id("a"), comma, id("b")), cfg))
}

func TestMerge(t *testing.T) {
	a := Configs{token.SELECT: {BreakBefore: true}, token.FROM: {BreakBefore: true}}
	b := Configs{token.SELECT: {BreakAfter: true}}

	merged := Merge(a, nil, b)
	assert.Equal(t, Config{BreakAfter: true}, merged[token.SELECT])
	assert.Equal(t, Config{BreakBefore: true}, merged[token.FROM])
	assert.Nil(t, Merge(nil, Configs{}))
}

func TestHighlight(t *testing.T) {
	style := func(tok token.Token) string { return "<" + tok.Text + ">" }
	got := Highlight(toks(kw(token.SELECT), id("a"), kw(token.FROM), id("t")), QueryLayout(), style)
	assert.Equal(t, "<SELECT> a\n<FROM> t", got)
}
