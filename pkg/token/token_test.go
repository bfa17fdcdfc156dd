package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		input  string
		want   TokenType
		wantOK bool
	}{
		{"select", SELECT, true},
		{"GROUP BY", GROUP_BY, true},
		{"group_by", GROUP_BY, true},
		{"  Union   All ", UNION_ALL, true},
		{"left outer join", LEFT_JOIN, true},
		{"nulls_first", NULLS_FIRST, true},
		{",", COMMA, true},
		{"<>", NE, true},
		{"text", ILLEGAL, false},
		{"frobnicate", ILLEGAL, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Lookup(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "ORDER BY", ORDER_BY.String())
	assert.Equal(t, "FULL OUTER JOIN", FULL_JOIN.String())
	assert.Equal(t, "<>", NE.String())
	assert.Equal(t, "TOKEN(9999)", TokenType(9999).String())
}

func TestEveryTypeIsNamed(t *testing.T) {
	for tt := ILLEGAL; tt < maxBuiltin; tt++ {
		_, ok := tokenNames[tt]
		assert.True(t, ok, "token type %d has no name", tt)
	}
}

func TestClassification(t *testing.T) {
	assert.True(t, IsKeyword(SELECT))
	assert.True(t, IsKeyword(WHERE))
	assert.False(t, IsKeyword(TEXT))
	assert.False(t, IsKeyword(COMMA))

	assert.True(t, IsPunct(LPAREN))
	assert.False(t, IsPunct(PLUS))

	assert.True(t, IsOperator(GE))
	assert.False(t, IsOperator(AND))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, Token{Type: GROUP_BY, Text: "GROUP BY"}, Keyword(GROUP_BY))
	assert.Equal(t, Token{Type: TEXT, Text: "db.t"}, Ident("db.t"))
	assert.Equal(t, Token{Type: CALL, Text: "SUM"}, Call("SUM"))
	assert.Equal(t, "SELECT a , b", Join([]Token{Keyword(SELECT), Ident("a"), Keyword(COMMA), Ident("b")}))
}
