// Package loader is the fast single-file load path cmd/tco-print uses when
// it is handed one file and nothing else: no module resolution, no
// type-checking, no invocation of the go tool via
// golang.org/x/tools/go/packages — just go/parser against the file's own
// bytes. pkg/loader (the primary pipeline's loader) is the type-checked,
// whole-package analogue; this one exists because the debug CLI's whole
// point is to work on a lone snippet that may not even belong to a module.
package loader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
)

// LoadFile parses path as a single Go source file and returns its AST
// along with the token.FileSet positions were recorded against (needed by
// the guard and validator stages for violation line numbers).
func LoadFile(path string) (*token.FileSet, *ast.File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fset, file, nil
}

// FindFunc locates the top-level function declaration named funcName in
// file, returning nil if none matches. Methods are skipped even when they
// share the name: funcName only ever designates a standalone function.
func FindFunc(file *ast.File, funcName string) *ast.FuncDecl {
	for _, d := range file.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Recv != nil {
			continue
		}
		if fd.Name.Name == funcName {
			return fd
		}
	}
	return nil
}
