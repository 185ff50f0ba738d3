package legacyrewrite

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

func funcDecl(t *testing.T, src string) *ast.FuncDecl {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", "package p\n"+src, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			return fd
		}
	}
	t.Fatal("no func decl found")
	return nil
}

func countSelfCallReturns(n ast.Node, funcName string) int {
	count := 0
	ast.Inspect(n, func(node ast.Node) bool {
		ret, ok := node.(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			return true
		}
		call, ok := ret.Results[0].(*ast.CallExpr)
		if !ok {
			return true
		}
		if id, ok := call.Fun.(*ast.Ident); ok && id.Name == funcName {
			count++
		}
		return true
	})
	return count
}

func TestRunRewritesSimpleTailRecursion(t *testing.T) {
	decl := funcDecl(t, `func fact(n, acc int) int {
	if n == 0 {
		return acc
	}
	return fact(n-1, acc*n)
}
`)
	out, err := Run(decl, "fact")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Body.List) != 3 {
		t.Fatalf("Body.List = %d statements, want 3 (2 hoists + loop)", len(out.Body.List))
	}
	if countSelfCallReturns(out, "fact") != 0 {
		t.Error("a self-call return survived the rewrite")
	}
	last, ok := out.Body.List[len(out.Body.List)-1].(*ast.LabeledStmt)
	if !ok {
		t.Fatalf("last statement is %T, want *ast.LabeledStmt", out.Body.List[len(out.Body.List)-1])
	}
	if _, ok := last.Stmt.(*ast.ForStmt); !ok {
		t.Fatalf("labeled statement wraps %T, want *ast.ForStmt", last.Stmt)
	}
}

func TestRunSubstitutesMapLiteralKey(t *testing.T) {
	decl := funcDecl(t, `func memo(n int, acc int) int {
	if n == 0 {
		m := map[int]int{n: acc}
		return m[n]
	}
	return memo(n-1, acc+n)
}
`)
	out, err := Run(decl, "memo")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var sawParamKey bool
	ast.Inspect(out, func(node ast.Node) bool {
		lit, ok := node.(*ast.CompositeLit)
		if !ok {
			return true
		}
		if _, ok := lit.Type.(*ast.MapType); !ok {
			return true
		}
		kv, ok := lit.Elts[0].(*ast.KeyValueExpr)
		if !ok {
			return true
		}
		if id, ok := kv.Key.(*ast.Ident); ok && id.Name == "n" {
			sawParamKey = true
		}
		return true
	})
	if sawParamKey {
		t.Error("map literal key still reads the stale original parameter after rewrite")
	}
}

func TestRunRejectsArityMismatch(t *testing.T) {
	decl := funcDecl(t, `func f(n int) int {
	return f(n - 1, 2)
}
`)
	if _, err := Run(decl, "f"); err == nil {
		t.Fatal("expected an error for mismatched self-call arity")
	}
}
