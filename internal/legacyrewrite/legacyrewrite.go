// Package legacyrewrite is the fast, type-info-free path pkg/prettyprint's
// legacy engine and cmd/tco-print fall back to when only a single file was
// parsed with go/parser — no golang.org/x/tools/go/packages load, no
// decorations to preserve. It re-implements pkg/transform's Passes B-D
// (hoist, substitute, tail-call rewrite) over a go/ast tree instead of a
// dst tree, in place: the caller always hands it a tree freshly parsed for
// this one call, so there is nothing else in the file holding a reference
// that in-place mutation could surprise.
//
// Adapted from the teacher's internal/inserter, which walked and rewrote
// go/ast trees to insert error-handling statements without a decorating
// layer; the traversal-and-mutate shape is the same, repurposed here from
// "insert a check" to "hoist a parameter / substitute a name / rewrite a
// tail call".
package legacyrewrite

import (
	"go/ast"
	"go/token"

	"github.com/tailopt/tco/pkg/names"
)

// Run decorates decl in place into an iterative, constant-stack-depth
// equivalent and returns it. decl must already have passed the guard and
// validator checks performed on the same source tree.
func Run(decl *ast.FuncDecl, funcName string) (*ast.FuncDecl, error) {
	params := paramNames(decl.Type)
	used := collectUsedNames(decl)
	bindings := names.NewBindings(params, used)

	rename := make(map[string]string, len(params))
	for _, p := range params {
		local, _ := bindings.Local(p)
		rename[p] = local
	}
	substituteBody(decl.Body, rename)

	if err := rewriteBody(decl.Body, funcName, bindings); err != nil {
		return nil, err
	}

	hoist := buildHoistStatements(bindings)
	loop := wrapInTrampoline(decl.Body.List, bindings.TrampolineLabel())
	decl.Body.List = append(hoist, loop)

	return decl, nil
}

func paramNames(ft *ast.FuncType) []string {
	if ft.Params == nil {
		return nil
	}
	var out []string
	for _, field := range ft.Params.List {
		for _, n := range field.Names {
			out = append(out, n.Name)
		}
	}
	return out
}

func collectUsedNames(decl *ast.FuncDecl) map[string]bool {
	used := make(map[string]bool)
	ast.Inspect(decl, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			used[id.Name] = true
		}
		return true
	})
	return used
}

func buildHoistStatements(bindings *names.Bindings) []ast.Stmt {
	params := bindings.Params()
	stmts := make([]ast.Stmt, 0, len(params))
	for _, p := range params {
		local, _ := bindings.Local(p)
		stmts = append(stmts, &ast.AssignStmt{
			Lhs: []ast.Expr{ast.NewIdent(local)},
			Tok: token.DEFINE,
			Rhs: []ast.Expr{ast.NewIdent(p)},
		})
	}
	return stmts
}

func wrapInTrampoline(bodyStmts []ast.Stmt, label string) ast.Stmt {
	loop := &ast.ForStmt{Body: &ast.BlockStmt{List: bodyStmts}}
	return &ast.LabeledStmt{Label: ast.NewIdent(label), Stmt: loop}
}
