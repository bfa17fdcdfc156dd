//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/sqlframe"

func loadCore(t *testing.T) *packages.Package {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/core")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].Types == nil {
		t.Fatal("Could not find pkg/core")
	}
	return pkgs[0]
}

// =============================================================================
// IMMUTABILITY TEST - IR nodes expose no exported fields
// =============================================================================

// TestGovernance_NodesAreOpaque verifies that every type implementing Expr
// keeps its state unexported, so nodes can only change through constructors.
func TestGovernance_NodesAreOpaque(t *testing.T) {
	core := loadCore(t)
	scope := core.Types.Scope()

	exprObj := scope.Lookup("Expr")
	if exprObj == nil {
		t.Fatal("pkg/core has no Expr interface")
	}
	exprIface, ok := exprObj.Type().Underlying().(*types.Interface)
	if !ok {
		t.Fatal("core.Expr is not an interface")
	}

	nodes := 0
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		st, ok := tn.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}
		if !types.Implements(types.NewPointer(tn.Type()), exprIface) {
			continue
		}
		nodes++
		for i := 0; i < st.NumFields(); i++ {
			if f := st.Field(i); f.Exported() {
				t.Errorf("MUTABILITY VIOLATION: 'core.%s' exports field '%s'.\n"+
					"   Fix: make the field unexported and add an accessor.", name, f.Name())
			}
		}
	}
	if nodes == 0 {
		t.Error("no IR node types found")
	}
}

// =============================================================================
// SEALING TEST - Expr can't be implemented outside pkg/core
// =============================================================================

// TestGovernance_ExprIsSealed verifies the marker method keeps the node set
// closed, which every exhaustive type switch relies on.
func TestGovernance_ExprIsSealed(t *testing.T) {
	core := loadCore(t)
	exprIface := core.Types.Scope().Lookup("Expr").Type().Underlying().(*types.Interface)

	sealed := false
	for i := 0; i < exprIface.NumMethods(); i++ {
		if m := exprIface.Method(i); !m.Exported() && strings.HasSuffix(m.Name(), "Node") {
			sealed = true
		}
	}
	if !sealed {
		t.Error("SEALING VIOLATION: core.Expr has no unexported marker method")
	}
}
