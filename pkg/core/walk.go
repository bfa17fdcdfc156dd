package core

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the node's children.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children() {
		Walk(c, fn)
	}
}

// Filter returns every descendant of e, in pre-order and excluding e
// itself, for which pred holds.
func Filter(e Expr, pred func(Expr) bool) []Expr {
	var out []Expr
	if e == nil {
		return out
	}
	for _, c := range e.Children() {
		Walk(c, func(n Expr) bool {
			if pred(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// ContainsAggregate reports whether an aggregate function call appears in
// e outside of any window.
func ContainsAggregate(e Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		switch v := n.(type) {
		case *Analytic:
			return false
		case *FuncCall:
			if v.IsAggregate() {
				found = true
			}
		}
		return !found
	})
	return found
}
