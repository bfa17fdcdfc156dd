// Package token defines the lexical tokens produced by the expression IR.
//
// A token is either a keyword or punctuation mark that the renderer may
// treat as a formatting context, or an opaque text fragment. Tokens carry
// no whitespace; layout is decided entirely by pkg/format.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for SQL token conventions
const (
	ILLEGAL TokenType = iota

	TEXT // identifiers, literals, positional references
	CALL // function name, glued to the following "("

	// Punctuation
	COMMA  // ,
	LPAREN // (
	RPAREN // )

	// Operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
	EQ    // =
	NE    // <>
	LT    // <
	GT    // >
	LE    // <=
	GE    // >=

	// Keywords (alphabetical). Multi-word keywords that open a single
	// formatting context are one token.
	AND
	AS
	ASC
	BETWEEN
	CASE
	CROSS_JOIN
	CURRENT_ROW
	DESC
	DISTINCT
	ELSE
	END
	EXCEPT_DISTINCT
	FOLLOWING
	FROM
	FULL_JOIN
	GROUP_BY
	HAVING
	IN
	INNER_JOIN
	INTERSECT_DISTINCT
	IS
	IS_NOT
	LEFT_JOIN
	LIKE
	LIMIT
	NULL
	NULLS_FIRST
	NULLS_LAST
	OFFSET
	ON
	OR
	ORDER_BY
	OVER
	PARTITION_BY
	PRECEDING
	QUALIFY
	RANGE
	RIGHT_JOIN
	ROWS
	SELECT
	THEN
	UNBOUNDED
	UNION_ALL
	UNION_DISTINCT
	WHEN
	WHERE

	maxBuiltin
)

// String returns the canonical SQL spelling of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their SQL spelling.
var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	TEXT:    "TEXT",
	CALL:    "CALL",

	COMMA:  ",",
	LPAREN: "(",
	RPAREN: ")",

	PLUS:  "+",
	MINUS: "-",
	STAR:  "*",
	SLASH: "/",
	EQ:    "=",
	NE:    "<>",
	LT:    "<",
	GT:    ">",
	LE:    "<=",
	GE:    ">=",

	AND:                "AND",
	AS:                 "AS",
	ASC:                "ASC",
	BETWEEN:            "BETWEEN",
	CASE:               "CASE",
	CROSS_JOIN:         "CROSS JOIN",
	CURRENT_ROW:        "CURRENT ROW",
	DESC:               "DESC",
	DISTINCT:           "DISTINCT",
	ELSE:               "ELSE",
	END:                "END",
	EXCEPT_DISTINCT:    "EXCEPT DISTINCT",
	FOLLOWING:          "FOLLOWING",
	FROM:               "FROM",
	FULL_JOIN:          "FULL OUTER JOIN",
	GROUP_BY:           "GROUP BY",
	HAVING:             "HAVING",
	IN:                 "IN",
	INNER_JOIN:         "INNER JOIN",
	INTERSECT_DISTINCT: "INTERSECT DISTINCT",
	IS:                 "IS",
	IS_NOT:             "IS NOT",
	LEFT_JOIN:          "LEFT OUTER JOIN",
	LIKE:               "LIKE",
	LIMIT:              "LIMIT",
	NULL:               "NULL",
	NULLS_FIRST:        "NULLS FIRST",
	NULLS_LAST:         "NULLS LAST",
	OFFSET:             "OFFSET",
	ON:                 "ON",
	OR:                 "OR",
	ORDER_BY:           "ORDER BY",
	OVER:               "OVER",
	PARTITION_BY:       "PARTITION BY",
	PRECEDING:          "PRECEDING",
	QUALIFY:            "QUALIFY",
	RANGE:              "RANGE",
	RIGHT_JOIN:         "RIGHT OUTER JOIN",
	ROWS:               "ROWS",
	SELECT:             "SELECT",
	THEN:               "THEN",
	UNBOUNDED:          "UNBOUNDED",
	UNION_ALL:          "UNION ALL",
	UNION_DISTINCT:     "UNION DISTINCT",
	WHEN:               "WHEN",
	WHERE:              "WHERE",
}

// keywords maps normalized spellings to token types, for Lookup.
var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenNames))
	for t, name := range tokenNames {
		if t == ILLEGAL || t == TEXT || t == CALL {
			continue
		}
		m[normalize(name)] = t
	}
	return m
}()

func normalize(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(name), " ")
}

// Lookup returns the keyword or punctuation type spelled by name.
// Matching ignores case, and underscores stand for spaces, so
// "group by", "GROUP_BY" and "Group  By" all resolve to GROUP_BY.
func Lookup(name string) (TokenType, bool) {
	t, ok := keywords[normalize(name)]
	return t, ok
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= AND && t < maxBuiltin
}

// IsOperator returns true if the token type is an operator symbol.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= GE
}

// IsPunct returns true for commas and parentheses.
func IsPunct(t TokenType) bool {
	return t >= COMMA && t <= RPAREN
}

// Token is a single lexical unit.
type Token struct {
	Type TokenType
	Text string
}

// String returns the token text.
func (t Token) String() string {
	return t.Text
}

// Keyword returns the token for a keyword, operator or punctuation type.
func Keyword(t TokenType) Token {
	return Token{Type: t, Text: t.String()}
}

// Ident returns an opaque text token.
func Ident(s string) Token {
	return Token{Type: TEXT, Text: s}
}

// Call returns a function name token.
func Call(name string) Token {
	return Token{Type: CALL, Text: name}
}

// Join concatenates token texts with single spaces. It is the layout-free
// spelling used in error messages and logs.
func Join(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
