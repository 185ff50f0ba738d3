// Package prettyprint renders a decorated function's source text without
// writing anything to disk (spec §4.4). It mirrors the teacher's own
// Legacy/DST duality (pkg/rewrite/template.go's RenderTemplate versus
// RenderTemplateDST) at the level of a whole function declaration instead of
// a single template expression: a dst-based engine used by the main
// pipeline and test fixtures, and a lighter go/printer-based engine used by
// the standalone debug CLI when only a single file — no full package load,
// no type info — is available.
package prettyprint

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Render prints decl using decorator.Restorer, the primary engine. decl is
// wrapped in a throwaway single-declaration file since Restorer only
// accepts a *dst.File, and the "package p" preamble is not stripped from
// the returned text.
func Render(decl *dst.FuncDecl) (string, error) {
	file := &dst.File{
		Name:  dst.NewIdent("p"),
		Decls: []dst.Decl{decl},
	}
	var buf bytes.Buffer
	if err := decorator.NewRestorer().Fprint(&buf, file); err != nil {
		return "", fmt.Errorf("prettyprint: %w", err)
	}
	return buf.String(), nil
}

// RenderLegacy prints decl with the standard library's go/printer — the
// engine internal/legacyrewrite uses, since it operates on plain *ast.File
// trees parsed without `golang.org/x/tools/go/packages` and so never builds
// a *dst.File in the first place.
func RenderLegacy(fset *token.FileSet, decl *ast.FuncDecl) (string, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, decl); err != nil {
		return "", fmt.Errorf("prettyprint (legacy): %w", err)
	}
	return buf.String(), nil
}
