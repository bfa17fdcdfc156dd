// Package config provides configuration management for the sqlframe CLI.
//
// Settings come from defaults, a sqlframe.yaml file, SQLFRAME_ environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlframe/pkg/format"
	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// Config holds all CLI configuration options.
type Config struct {
	// Layout names a built-in layout or an entry of Layouts.
	Layout string `koanf:"layout"`
	// Output is auto, text, markdown or json.
	Output string `koanf:"output"`
	// Color is auto, always or never.
	Color       string            `koanf:"color"`
	Verbose     bool              `koanf:"verbose"`
	Concurrency int               `koanf:"concurrency"`
	Vars        map[string]any    `koanf:"vars"`
	Layouts     map[string]Layout `koanf:"layouts"`
}

// Layout is a custom layout: a built-in base with per-keyword overrides.
type Layout struct {
	Base     string                            `koanf:"base"`
	Keywords map[token.TokenType]KeywordLayout `koanf:"keywords"`
}

// KeywordLayout mirrors format.Config with config-file keys.
type KeywordLayout struct {
	BreakBefore    bool   `koanf:"break_before"`
	BreakAfter     bool   `koanf:"break_after"`
	IndentIncrease bool   `koanf:"indent_increase"`
	Indent         string `koanf:"indent"`
	CommaBreak     bool   `koanf:"comma_break"`
	LParenBreak    bool   `koanf:"lparen_break"`
	RParenBreak    bool   `koanf:"rparen_break"`
	Spacing        string `koanf:"spacing"`
	Nested         bool   `koanf:"nested"`
}

func (k KeywordLayout) format() format.Config {
	return format.Config{
		BreakBefore:    k.BreakBefore,
		BreakAfter:     k.BreakAfter,
		IndentIncrease: k.IndentIncrease,
		Indent:         k.Indent,
		CommaBreak:     k.CommaBreak,
		LParenBreak:    k.LParenBreak,
		RParenBreak:    k.RParenBreak,
		Spacing:        k.Spacing,
		Nested:         k.Nested,
	}
}

// Default configuration values.
const (
	DefaultLayout      = "query"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultColor       = "auto"
	DefaultConcurrency = 4
)

var builtinLayouts = map[string]func() format.Configs{
	"flat":   format.Flat,
	"query":  format.QueryLayout,
	"case":   format.CaseLayout,
	"pretty": format.Pretty,
}

// LayoutNames lists the built-in layouts followed by the custom ones.
func (c *Config) LayoutNames() []string {
	names := slices.Sorted(maps.Keys(builtinLayouts))
	for _, name := range slices.Sorted(maps.Keys(c.Layouts)) {
		if _, ok := builtinLayouts[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

// Configs resolves a layout name. Custom layouts shadow built-ins.
func (c *Config) Configs(name string) (format.Configs, error) {
	if l, ok := c.Layouts[name]; ok {
		base := format.Configs(nil)
		if l.Base != "" {
			build, ok := builtinLayouts[l.Base]
			if !ok {
				return nil, fmt.Errorf("layout %q: unknown base %q", name, l.Base)
			}
			base = build()
		}
		overrides := make(format.Configs, len(l.Keywords))
		for kw, kl := range l.Keywords {
			overrides[kw] = kl.format()
		}
		return format.Merge(base, overrides), nil
	}
	if build, ok := builtinLayouts[name]; ok {
		return build(), nil
	}
	return nil, fmt.Errorf("unknown layout %q, expected one of %s", name, strings.Join(c.LayoutNames(), ", "))
}
