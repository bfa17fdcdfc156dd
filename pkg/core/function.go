package core

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// FuncCall applies a registered function to its arguments.
type FuncCall struct {
	def  FuncDef
	args []Expr
}

// NewFuncCall validates named arguments against the registry entry for
// symbol. Unknown, missing, extra and nil arguments are rejected.
func NewFuncCall(symbol string, args map[string]Expr) (*FuncCall, error) {
	def, ok := LookupFunc(symbol)
	if !ok {
		return nil, typeErrorf("unknown function %q", symbol)
	}

	var extra []string
	for name := range args {
		if !slices.Contains(def.Args, name) {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return nil, typeErrorf("%s got unexpected arguments: [%s], expected: [%s]",
			def.Symbol, strings.Join(extra, ", "), strings.Join(def.Args, ", "))
	}

	var missing []string
	for _, name := range def.Args {
		if _, ok := args[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, typeErrorf("%s is missing arguments: [%s]", def.Symbol, strings.Join(missing, ", "))
	}

	ordered := make([]Expr, len(def.Args))
	for i, name := range def.Args {
		if err := requireSelectable(args[name], def.Symbol+" argument "+name); err != nil {
			return nil, err
		}
		ordered[i] = args[name]
	}
	return &FuncCall{def: def, args: ordered}, nil
}

// CallFunc is NewFuncCall with positional arguments.
func CallFunc(symbol string, args ...Expr) (*FuncCall, error) {
	def, ok := LookupFunc(symbol)
	if !ok {
		return nil, typeErrorf("unknown function %q", symbol)
	}
	if len(args) != len(def.Args) {
		return nil, typeErrorf("%s expects %d arguments [%s], got %d",
			def.Symbol, len(def.Args), strings.Join(def.Args, ", "), len(args))
	}
	named := make(map[string]Expr, len(args))
	for i, a := range args {
		named[def.Args[i]] = a
	}
	return NewFuncCall(def.Symbol, named)
}

func (*FuncCall) exprNode() {}

// Kind implements Expr.
func (*FuncCall) Kind() Kind { return KindFunc }

// Tokens implements Expr.
func (f *FuncCall) Tokens() []token.Token {
	return slices.Concat([]token.Token{token.Call(f.def.Symbol)}, parens(commaList(f.args)))
}

// Children implements Expr.
func (f *FuncCall) Children() []Expr { return slices.Clone(f.args) }

// Symbol returns the function name.
func (f *FuncCall) Symbol() string { return f.def.Symbol }

// IsAggregate reports whether the function aggregates rows.
func (f *FuncCall) IsAggregate() bool { return f.def.Aggregate }

// Args returns the arguments keyed by declared name.
func (f *FuncCall) Args() map[string]Expr {
	out := make(map[string]Expr, len(f.args))
	for i, name := range f.def.Args {
		out[name] = f.args[i]
	}
	return out
}

// ArgNames returns the declared argument names in order.
func (f *FuncCall) ArgNames() []string {
	return slices.Clone(f.def.Args)
}

// ToLogical implements LogicalConverter.
func (f *FuncCall) ToLogical() Logical { return &IsNullExpr{expr: f, not: true} }
