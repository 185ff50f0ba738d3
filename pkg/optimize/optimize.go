// Package optimize is the library form of the decorator (spec §6's
// "primary surface"): Decorate ties guard, directive stripping, validator,
// transform, and rematerialize into the single fixed pipeline spec.md
// calls "decoration". pkg/runner's --func mode is a thin caller of this one
// function; its batch mode runs the same stages itself over a shared
// decorated-file cache.
package optimize

import (
	"fmt"
	"go/ast"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"

	"github.com/tailopt/tco/pkg/directive"
	"github.com/tailopt/tco/pkg/guard"
	"github.com/tailopt/tco/pkg/loader"
	"github.com/tailopt/tco/pkg/rematerialize"
	"github.com/tailopt/tco/pkg/tcoerr"
	"github.com/tailopt/tco/pkg/transform"
	"github.com/tailopt/tco/pkg/validator"
)

// Target names one function to decorate: Dir/Patterns locate the owning
// package(s) (passed straight through to pkg/loader.LoadPackages), and
// FuncName is the package-level function to rewrite. Strict mirrors the
// //tco:optimize(strict) directive option: it makes ARGUMENT_SHAPE fire for
// self-calls whose argument shape transform.Run cannot otherwise prove safe
// (currently: none beyond what transform.Run already rejects — reserved for
// the day a statically-unresolvable variadic spread needs a stricter mode).
type Target struct {
	Dir      string
	Patterns []string
	FuncName string
	Strict   bool
}

// Result is the product of one successful Decorate call: the mutated
// *dst.File, ready for pkg/rematerialize's Write or Diff, and the path it
// was loaded from.
type Result struct {
	Path string
	File *dst.File
}

// Decorate loads Target's owning package, locates FuncName as a top-level
// function declaration, and runs it through the fixed pipeline: Guard,
// Validate, directive Strip, transform.Run, rematerialize.Splice. Every
// failure is returned as a *tcoerr.Error; the caller's file on disk is never
// touched (Decorate only ever returns a mutated in-memory *dst.File — the
// caller chooses whether to Write or Diff it).
func Decorate(t Target) (*Result, error) {
	patterns := t.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	pkgs, err := loader.LoadPackages(patterns, t.Dir)
	if err != nil {
		return nil, tcoerr.Wrap(t.FuncName, err)
	}

	found, err := findTarget(pkgs, t.FuncName)
	if err != nil {
		return nil, err
	}

	if gerr := guard.Check(found.decl, t.FuncName); gerr != nil {
		return nil, gerr
	}
	if verr := validator.Validate(found.pkg.Fset, found.decl, t.FuncName); verr != nil {
		return nil, verr
	}

	dec := decorator.NewDecorator(found.pkg.Fset)
	dstFile, err := dec.DecorateFile(found.file)
	if err != nil {
		return nil, tcoerr.Wrap(t.FuncName, fmt.Errorf("decorate file: %w", err))
	}

	originalDecl := findDstFunc(dstFile, t.FuncName)
	if originalDecl == nil {
		return nil, tcoerr.Wrap(t.FuncName, fmt.Errorf("dst tree lost track of %s after decoration", t.FuncName))
	}

	// Pass A: strip the directive from a clone before Passes B-D run, so
	// transform.Run never sees it and re-materialization can never leave it
	// behind (directive.Strip's doc comment on why order matters here).
	stripped := dst.Clone(originalDecl).(*dst.FuncDecl)
	directive.Strip(stripped)

	rewritten, terr := transform.Run(stripped, t.FuncName)
	if terr != nil {
		return nil, terr
	}

	if serr := rematerialize.Splice(dstFile, originalDecl, rewritten, t.FuncName); serr != nil {
		return nil, serr
	}

	return &Result{
		Path: found.pkg.Fset.Position(found.file.Pos()).Filename,
		File: dstFile,
	}, nil
}

type foundFunc struct {
	pkg  *packages.Package
	file *ast.File
	decl *ast.FuncDecl
}

// findTarget scans every loaded package's syntax for a unique top-level
// function declaration named funcName. Zero matches and more than one match
// both surface as SOURCE_UNAVAILABLE — spec.md's lookup_source contract
// only ever names a single function, so an ambiguous name is as much a
// lookup failure as a missing one.
func findTarget(pkgs []*packages.Package, funcName string) (*foundFunc, error) {
	var matches []*foundFunc
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			for _, d := range file.Decls {
				fd, ok := d.(*ast.FuncDecl)
				if !ok || fd.Recv != nil || fd.Name.Name != funcName {
					continue
				}
				matches = append(matches, &foundFunc{pkg: pkg, file: file, decl: fd})
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, tcoerr.Wrap(funcName, fmt.Errorf("no top-level function %q found", funcName))
	case 1:
		return matches[0], nil
	default:
		return nil, tcoerr.Wrap(funcName, fmt.Errorf("%d ambiguous top-level functions named %q found across loaded packages", len(matches), funcName))
	}
}

func findDstFunc(file *dst.File, funcName string) *dst.FuncDecl {
	for _, d := range file.Decls {
		if fd, ok := d.(*dst.FuncDecl); ok && fd.Recv == nil && fd.Name.Name == funcName {
			return fd
		}
	}
	return nil
}
