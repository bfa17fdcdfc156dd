package format

import "github.com/leapstack-labs/sqlframe/pkg/token"

// Render lays out tokens according to configs.
func Render(tokens []token.Token, configs Configs) string {
	p := newPrinter(configs, nil)
	p.print(tokens)
	return p.String()
}

// Highlight lays out tokens like Render and passes every keyword through
// style. Indentation and spacing are never styled.
func Highlight(tokens []token.Token, configs Configs, style func(token.Token) string) string {
	p := newPrinter(configs, style)
	p.print(tokens)
	return p.String()
}
