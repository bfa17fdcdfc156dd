// Package format renders token streams into SQL text.
//
// Layout is driven by per-keyword Configs. The renderer makes a single
// left to right pass, tracking the active context of each scope, the indent
// stack and whether the cursor sits at the start of a line. Parentheses and
// CASE ... END open nested scopes; closing one restores the enclosing
// context and indentation.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// scope is one level of nesting.
type scope struct {
	closer token.TokenType
	active Config
	// pushed counts indent levels owned by the active context.
	pushed  int
	hanging bool
	// base is the indent stack height when the scope opened.
	base int
}

// Printer lays out a token stream.
type Printer struct {
	configs     Configs
	style       func(token.Token) string
	output      *bytes.Buffer
	indents     []string
	scopes      []*scope
	prev        *token.Token
	atLineStart bool
}

func newPrinter(configs Configs, style func(token.Token) string) *Printer {
	return &Printer{
		configs:     configs,
		style:       style,
		output:      &bytes.Buffer{},
		scopes:      []*scope{{closer: token.ILLEGAL}},
		atLineStart: true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return strings.TrimSpace(p.output.String())
}

func (p *Printer) current() *scope {
	return p.scopes[len(p.scopes)-1]
}

func (p *Printer) print(toks []token.Token) {
	for i := range toks {
		p.token(toks[i])
		p.prev = &toks[i]
	}
}

func (p *Printer) token(t token.Token) {
	cur := p.current()
	switch {
	case t.Type == token.LPAREN:
		p.write(t)
		p.open(token.RPAREN)
		if cur.active.LParenBreak {
			p.writeln()
		}
	case t.Type == token.CASE:
		if cfg, ok := p.context(t.Type); ok {
			p.enter(cfg, t)
		} else {
			p.write(t)
		}
		p.open(token.END)
	case len(p.scopes) > 1 && t.Type == cur.closer:
		cfg, ok := p.context(t.Type)
		p.close()
		if t.Type == token.RPAREN && p.current().active.RParenBreak {
			p.writeln()
		}
		if ok && cfg.BreakBefore {
			p.writeln()
		}
		p.write(t)
		if ok && cfg.BreakAfter {
			p.writeln()
		}
	default:
		if cfg, ok := p.context(t.Type); ok {
			p.enter(cfg, t)
			return
		}
		p.write(t)
		if t.Type == token.COMMA && cur.active.CommaBreak {
			if !cur.hanging {
				p.indent(cur.active.indent())
				cur.pushed++
				cur.hanging = true
			}
			p.writeln()
		}
	}
}

// context returns the config for a keyword if it applies in the current scope.
func (p *Printer) context(t token.TokenType) (Config, bool) {
	cfg, ok := p.configs[t]
	if !ok {
		return Config{}, false
	}
	if len(p.scopes) > 1 && !cfg.Nested {
		return Config{}, false
	}
	return cfg, true
}

// enter leaves the active context of the current scope and makes cfg active.
func (p *Printer) enter(cfg Config, t token.Token) {
	cur := p.current()
	p.dedent(cur.pushed)
	cur.pushed = 0
	cur.hanging = false
	if cfg.IndentIncrease {
		p.indent(cfg.indent())
		cur.pushed = 1
	}
	if cfg.BreakBefore {
		p.writeln()
	}
	p.write(t)
	cur.active = cfg
	if cfg.BreakAfter {
		p.writeln()
	}
}

func (p *Printer) open(closer token.TokenType) {
	p.scopes = append(p.scopes, &scope{closer: closer, base: len(p.indents)})
}

func (p *Printer) close() {
	s := p.current()
	p.indents = p.indents[:s.base]
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Printer) write(t token.Token) {
	if p.atLineStart {
		if p.output.Len() > 0 {
			p.writeIndent()
		}
	} else if p.spaced(t) {
		p.output.WriteString(p.current().active.spacing())
	}
	text := t.Text
	if p.style != nil && token.IsKeyword(t.Type) {
		text = p.style(t)
	}
	p.output.WriteString(text)
	p.atLineStart = false
}

// spaced reports whether a separator goes between the previous token and t.
func (p *Printer) spaced(t token.Token) bool {
	if p.prev == nil {
		return false
	}
	switch {
	case p.prev.Type == token.LPAREN:
		return false
	case t.Type == token.COMMA || t.Type == token.RPAREN:
		return false
	case p.prev.Type == token.CALL && t.Type == token.LPAREN:
		return false
	}
	return true
}

// writeln ends the current line. Consecutive calls never leave blank lines.
func (p *Printer) writeln() {
	if p.atLineStart {
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for _, s := range p.indents {
		p.output.WriteString(s)
	}
	p.atLineStart = false
}

func (p *Printer) indent(s string) {
	p.indents = append(p.indents, s)
}

func (p *Printer) dedent(n int) {
	p.indents = p.indents[:max(len(p.indents)-n, p.current().base)]
}
