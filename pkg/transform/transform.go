// Package transform implements the Transformer stage (spec §4.2): Passes
// B (parameter hoist), C (name substitution), and D (tail-call rewrite with
// loop-aware control flow), run over a cloned *dst.FuncDecl so a failure
// midway never leaves the caller's tree partially mutated.
package transform

import (
	"github.com/dave/dst"

	"github.com/tailopt/tco/pkg/names"
)

// Run decorates decl — already guarded and validated by the caller, and
// already stripped of its //tco:optimize directive — into an iterative,
// constant-stack-depth equivalent. decl is not mutated; Run returns a fresh
// *dst.FuncDecl to splice into the file in decl's place.
func Run(decl *dst.FuncDecl, funcName string) (*dst.FuncDecl, error) {
	out := dst.Clone(decl).(*dst.FuncDecl)

	params := paramNames(out.Type)
	used := collectUsedNames(out)
	bindings := names.NewBindings(params, used)

	rename := make(map[string]string, len(params))
	for _, p := range params {
		local, _ := bindings.Local(p)
		rename[p] = local
	}
	substituteBody(out.Body, rename)

	if err := rewriteBody(out.Body, funcName, bindings); err != nil {
		return nil, err
	}

	hoist := buildHoistStatements(bindings)
	loop := wrapInTrampoline(out.Body.List, bindings.TrampolineLabel())
	out.Body.List = append(hoist, loop)

	return out, nil
}

// paramNames flattens a function's parameter field list into one name per
// declared parameter, in declaration order (spec §3's parameter list).
func paramNames(ft *dst.FuncType) []string {
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

// collectUsedNames gathers every identifier name appearing anywhere in
// decl (signature and body), the "used" set pkg/names mints fresh prefixes
// against (I2).
func collectUsedNames(decl *dst.FuncDecl) map[string]bool {
	used := make(map[string]bool)
	dst.Inspect(decl, func(n dst.Node) bool {
		if id, ok := n.(*dst.Ident); ok {
			used[id.Name] = true
		}
		return true
	})
	return used
}
