package core

import (
	"slices"
	"strings"
)

// FuncDef declares a built-in SQL function.
type FuncDef struct {
	Symbol    string
	Args      []string
	Aggregate bool
	// Window functions are only valid with OVER.
	Window bool
}

// Category names the group a function is listed under.
func (f FuncDef) Category() string {
	switch {
	case f.Aggregate:
		return "aggregate"
	case f.Window:
		return "window"
	default:
		return "scalar"
	}
}

var builtins = []FuncDef{
	// Aggregates
	{Symbol: "ANY_VALUE", Args: []string{"X"}, Aggregate: true},
	{Symbol: "ARRAY_AGG", Args: []string{"X"}, Aggregate: true},
	{Symbol: "AVG", Args: []string{"X"}, Aggregate: true},
	{Symbol: "COUNT", Args: []string{"X"}, Aggregate: true},
	{Symbol: "COUNTIF", Args: []string{"X"}, Aggregate: true},
	{Symbol: "LOGICAL_AND", Args: []string{"X"}, Aggregate: true},
	{Symbol: "LOGICAL_OR", Args: []string{"X"}, Aggregate: true},
	{Symbol: "MAX", Args: []string{"X"}, Aggregate: true},
	{Symbol: "MIN", Args: []string{"X"}, Aggregate: true},
	{Symbol: "STDDEV", Args: []string{"X"}, Aggregate: true},
	{Symbol: "SUM", Args: []string{"X"}, Aggregate: true},
	{Symbol: "VARIANCE", Args: []string{"X"}, Aggregate: true},

	// Numbering and navigation, used with OVER
	{Symbol: "CUME_DIST", Window: true},
	{Symbol: "DENSE_RANK", Window: true},
	{Symbol: "FIRST_VALUE", Args: []string{"X"}, Window: true},
	{Symbol: "LAG", Args: []string{"X"}, Window: true},
	{Symbol: "LAST_VALUE", Args: []string{"X"}, Window: true},
	{Symbol: "LEAD", Args: []string{"X"}, Window: true},
	{Symbol: "NTILE", Args: []string{"N"}, Window: true},
	{Symbol: "PERCENT_RANK", Window: true},
	{Symbol: "RANK", Window: true},
	{Symbol: "ROW_NUMBER", Window: true},

	// Scalars
	{Symbol: "ABS", Args: []string{"X"}},
	{Symbol: "CEIL", Args: []string{"X"}},
	{Symbol: "COALESCE", Args: []string{"X", "Y"}},
	{Symbol: "CONCAT", Args: []string{"X", "Y"}},
	{Symbol: "CURRENT_DATE"},
	{Symbol: "CURRENT_TIMESTAMP"},
	{Symbol: "EXP", Args: []string{"X"}},
	{Symbol: "FLOOR", Args: []string{"X"}},
	{Symbol: "IFNULL", Args: []string{"X", "Y"}},
	{Symbol: "LENGTH", Args: []string{"X"}},
	{Symbol: "LN", Args: []string{"X"}},
	{Symbol: "LOWER", Args: []string{"X"}},
	{Symbol: "MOD", Args: []string{"X", "Y"}},
	{Symbol: "NULLIF", Args: []string{"X", "Y"}},
	{Symbol: "POW", Args: []string{"X", "Y"}},
	{Symbol: "ROUND", Args: []string{"X"}},
	{Symbol: "SIGN", Args: []string{"X"}},
	{Symbol: "SQRT", Args: []string{"X"}},
	{Symbol: "SUBSTR", Args: []string{"X", "POSITION", "LENGTH"}},
	{Symbol: "TRIM", Args: []string{"X"}},
	{Symbol: "UPPER", Args: []string{"X"}},
}

var funcsBySymbol = func() map[string]FuncDef {
	m := make(map[string]FuncDef, len(builtins))
	for _, f := range builtins {
		m[f.Symbol] = f
	}
	return m
}()

// LookupFunc finds a built-in by symbol, ignoring case.
func LookupFunc(symbol string) (FuncDef, bool) {
	f, ok := funcsBySymbol[strings.ToUpper(symbol)]
	if !ok {
		return FuncDef{}, false
	}
	f.Args = slices.Clone(f.Args)
	return f, true
}

// Funcs returns every built-in sorted by symbol.
func Funcs() []FuncDef {
	out := make([]FuncDef, 0, len(builtins))
	for _, f := range builtins {
		f.Args = slices.Clone(f.Args)
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b FuncDef) int { return strings.Compare(a.Symbol, b.Symbol) })
	return out
}
