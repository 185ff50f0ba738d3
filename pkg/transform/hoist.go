package transform

import (
	"go/token"

	"github.com/dave/dst"

	"github.com/tailopt/tco/pkg/names"
)

// buildHoistStatements implements Pass B (spec §4.2): one short variable
// declaration per parameter, `hᵢ := pᵢ`, binding each hoisted local to the
// parameter's incoming value before the trampoline loop takes over.
func buildHoistStatements(bindings *names.Bindings) []dst.Stmt {
	params := bindings.Params()
	stmts := make([]dst.Stmt, 0, len(params))
	for _, p := range params {
		local, _ := bindings.Local(p)
		stmts = append(stmts, &dst.AssignStmt{
			Lhs: []dst.Expr{dst.NewIdent(local)},
			Tok: token.DEFINE,
			Rhs: []dst.Expr{dst.NewIdent(p)},
		})
	}
	return stmts
}

// wrapInTrampoline builds the labeled `for { ... }` that replaces the
// recursive call stack with a single reusable frame (spec §4.2 Pass B,
// §8 P2 stack-boundedness).
func wrapInTrampoline(bodyStmts []dst.Stmt, label string) dst.Stmt {
	loop := &dst.ForStmt{
		Body: &dst.BlockStmt{List: bodyStmts},
	}
	return &dst.LabeledStmt{
		Label: dst.NewIdent(label),
		Stmt:  loop,
	}
}
