package guard

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/tailopt/tco/pkg/tcoerr"
)

func parseFunc(t *testing.T, src string) *ast.FuncDecl {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "test.go", "package p\n"+src, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			return fd
		}
	}
	t.Fatal("no func decl found")
	return nil
}

func TestCheckAccepts(t *testing.T) {
	decl := parseFunc(t, `func gcd(a, b int) int {
		if b == 0 {
			return a
		}
		return gcd(b, a%b)
	}`)
	if err := Check(decl, "gcd"); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestCheckRejectsAsync(t *testing.T) {
	decl := parseFunc(t, `func worker(n int) int {
		go worker(n - 1)
		return n
	}`)
	err := Check(decl, "worker")
	assertKind(t, err, tcoerr.AsyncRejected)
}

func TestCheckRejectsGenerator(t *testing.T) {
	decl := parseFunc(t, `func count(n int, yield func(int) bool) {
		if n == 0 {
			return
		}
		yield(n)
		count(n-1, yield)
	}`)
	err := Check(decl, "count")
	assertKind(t, err, tcoerr.GeneratorRejected)
}

func TestCheckRejectsAliasingClosure(t *testing.T) {
	decl := parseFunc(t, `func recurse(n int) int {
		f := func() int { return recurse(n - 1) }
		return f()
	}`)
	err := Check(decl, "recurse")
	assertKind(t, err, tcoerr.NestedRejected)
}

func assertKind(t *testing.T, err error, want tcoerr.Kind) {
	t.Helper()
	te, ok := err.(*tcoerr.Error)
	if !ok {
		t.Fatalf("expected *tcoerr.Error, got %T (%v)", err, err)
	}
	if te.Kind != want {
		t.Fatalf("Kind = %v, want %v", te.Kind, want)
	}
}
