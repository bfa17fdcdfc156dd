package core

import (
	"github.com/leapstack-labs/sqlframe/pkg/format"
	"github.com/leapstack-labs/sqlframe/pkg/token"
)

// Validate runs the checks that only apply once SQL is requested.
func Validate(e Expr) error {
	var err error
	Walk(e, func(n Expr) bool {
		if err != nil {
			return false
		}
		switch v := n.(type) {
		case *CaseExpr:
			if len(v.whens) == 0 {
				err = renderErrorf("can't render to sql with 0 cases")
			}
		case *GroupBy:
			if v.Len() == 0 {
				err = renderErrorf("can't render GROUP BY without grouping items")
			}
		case *OrderBy:
			if v.Len() == 0 {
				err = renderErrorf("can't render ORDER BY without ordering items")
			}
		}
		return err == nil
	})
	return err
}

// Render validates e and lays out its tokens with configs.
func Render(e Expr, configs format.Configs) (string, error) {
	if err := Validate(e); err != nil {
		return "", err
	}
	return format.Render(e.Tokens(), configs), nil
}

// Highlight is like Render but passes every keyword through style.
func Highlight(e Expr, configs format.Configs, style func(token.Token) string) (string, error) {
	if err := Validate(e); err != nil {
		return "", err
	}
	return format.Highlight(e.Tokens(), configs, style), nil
}

// SQL renders e with the query layout.
func SQL(e Expr) (string, error) {
	return Render(e, format.QueryLayout())
}
