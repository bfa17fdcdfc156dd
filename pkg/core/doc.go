// Package core defines the expression IR of sqlframe.
//
// This package contains:
//   - Terminal nodes (Table, ColumnRef, Literal, NullExpr)
//   - Operators (BinaryExpr, ArithmeticExpr, IsNullExpr, NotExpr, BetweenExpr, InExpr, Negation)
//   - Function calls validated against a static registry (FuncCall, FuncDef)
//   - CASE, windows and analytic application
//   - Joins, clauses, Query and SetOp
//   - Traversal (Walk, Filter) and the render entry points (Render, SQL)
//
// Every node is immutable. Constructors validate their own invariants and
// return a *core.Error; derived nodes are always new values.
//
// The Golden Rule: pkg/core imports ONLY pkg/token, pkg/ident, pkg/format and stdlib.
// The builders in pkg/column and pkg/frame depend on core, not the reverse.
package core
