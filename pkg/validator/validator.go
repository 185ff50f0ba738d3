// Package validator implements the Validator stage (spec §4.1): a
// depth-first proof that every self-call in a function's body occurs in
// tail position, with error-accumulating failure (every violation is
// collected before a single structured error is raised).
package validator

import (
	"go/ast"
	"go/token"

	"github.com/tailopt/tco/pkg/tcoerr"
)

// Validate walks decl's body and returns a *tcoerr.Error with
// Kind == NotTailRecursive if any self-call is found outside tail position,
// or nil if decl is accepted. fset is used only to translate positions into
// 1-indexed line numbers for the violation payload.
func Validate(fset *token.FileSet, decl *ast.FuncDecl, funcName string) *tcoerr.Error {
	v := &visitor{fset: fset, funcName: funcName}
	v.walkBlock(decl.Body)
	if len(v.violations) == 0 {
		return nil
	}
	return tcoerr.NotTail(funcName, v.violations)
}

type visitor struct {
	fset       *token.FileSet
	funcName   string
	violations []tcoerr.Violation
}

// walkBlock walks the statements of a block. It never descends into a
// nested *ast.FuncLit: closures referencing the function's own name are
// rejected by the Guard stage before the validator ever runs, and other
// closures cannot contain a "self-call" by definition.
func (v *visitor) walkBlock(block *ast.BlockStmt) {
	if block == nil {
		return
	}
	for _, stmt := range block.List {
		v.walkStmt(stmt)
	}
}

func (v *visitor) walkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		v.walkReturn(s)
	case *ast.IfStmt:
		v.scanNonTailStmt(s.Init)
		v.scanNonTailExpr(s.Cond)
		v.walkBlock(s.Body)
		if s.Else != nil {
			v.walkStmt(s.Else)
		}
	case *ast.BlockStmt:
		v.walkBlock(s)
	case *ast.ForStmt:
		v.scanNonTailStmt(s.Init)
		v.scanNonTailExpr(s.Cond)
		v.scanNonTailStmt(s.Post)
		v.walkBlock(s.Body)
	case *ast.RangeStmt:
		v.scanNonTailExpr(s.X)
		v.walkBlock(s.Body)
	case *ast.SwitchStmt:
		v.scanNonTailStmt(s.Init)
		v.scanNonTailExpr(s.Tag)
		if s.Body != nil {
			for _, c := range s.Body.List {
				cc, ok := c.(*ast.CaseClause)
				if !ok {
					continue
				}
				for _, e := range cc.List {
					v.scanNonTailExpr(e)
				}
				for _, st := range cc.Body {
					v.walkStmt(st)
				}
			}
		}
	case *ast.TypeSwitchStmt:
		v.scanNonTailStmt(s.Init)
		v.scanNonTailStmt(s.Assign)
		if s.Body != nil {
			for _, c := range s.Body.List {
				cc, ok := c.(*ast.CaseClause)
				if !ok {
					continue
				}
				for _, st := range cc.Body {
					v.walkStmt(st)
				}
			}
		}
	case *ast.SelectStmt:
		if s.Body != nil {
			for _, c := range s.Body.List {
				cc, ok := c.(*ast.CommClause)
				if !ok {
					continue
				}
				v.scanNonTailStmt(cc.Comm)
				for _, st := range cc.Body {
					v.walkStmt(st)
				}
			}
		}
	case *ast.LabeledStmt:
		v.walkStmt(s.Stmt)
	default:
		v.scanNonTailStmt(s)
	}
}

// walkReturn examines a return statement. Per spec: a return with no value
// contains no self-call and is ignored; a return with exactly one result
// expression places that expression in tail position; a return with more
// than one explicit result expression places none of them in tail position
// (no single expression is "the entire expression of the return statement").
func (v *visitor) walkReturn(ret *ast.ReturnStmt) {
	switch len(ret.Results) {
	case 0:
		return
	case 1:
		v.walkTailExpr(ret.Results[0], ret.Pos())
	default:
		for _, r := range ret.Results {
			v.scanNonTailExpr(r)
		}
	}
}

// walkTailExpr examines expr, which occupies a tail position (the whole
// value of a return statement, modulo redundant parentheses). Go has no
// ternary/conditional *expression* operator, so — unlike the host spec.md
// was written against — this function never needs to recurse into
// "branches of a conditional expression": every branch of an if/else chain
// or switch dispatch is itself a separate return statement, each already
// handled by walkReturn at its own tail position.
func (v *visitor) walkTailExpr(expr ast.Expr, pos token.Pos) {
	expr = unwrapParens(expr)
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		// Not a call at all: arithmetic, selector, index, composite
		// literal, comparison, logical operator, conversion, etc. all
		// disqualify tail position for anything nested inside — scan for
		// stray self-calls, which are then non-tail violations.
		v.scanNonTailExpr(expr)
		return
	}

	if !v.isSelfCallee(call.Fun) {
		// An ordinary call in tail position does not itself violate
		// anything, but a self-call appearing as one of ITS arguments is
		// not tail (spec: "self-calls appearing as arguments to another
		// call: not tail").
		for _, a := range call.Args {
			v.scanNonTailExpr(a)
		}
		return
	}

	if v.isAccessorCallee(call.Fun) {
		v.reject(pos, "accessor-style self-call cannot be proven safe")
	}
	// Plain identifier self-call in tail position: accepted. Its own
	// arguments are evaluated in a non-tail context.
	for _, a := range call.Args {
		v.scanNonTailExpr(a)
	}
}

// scanNonTailStmt scans a single (possibly nil) statement for stray
// self-calls, without treating anything inside it as tail.
func (v *visitor) scanNonTailStmt(stmt ast.Stmt) {
	if stmt == nil {
		return
	}
	ast.Inspect(stmt, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		v.checkCall(n)
		return true
	})
}

// scanNonTailExpr scans expr (and everything nested inside it) for
// self-calls; any found are — by construction of the call site — not in
// tail position.
func (v *visitor) scanNonTailExpr(expr ast.Expr) {
	if expr == nil {
		return
	}
	ast.Inspect(expr, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		v.checkCall(n)
		return true
	})
}

func (v *visitor) checkCall(n ast.Node) {
	call, ok := n.(*ast.CallExpr)
	if !ok {
		return
	}
	if !v.isSelfCallee(call.Fun) {
		return
	}
	if v.isAccessorCallee(call.Fun) {
		v.reject(call.Pos(), "accessor-style self-call cannot be proven safe")
		return
	}
	v.reject(call.Pos(), "self-call not in tail position")
}

// isSelfCallee reports whether fun names the function under validation,
// either directly (a bare identifier) or via an accessor form (a selector
// or index expression whose base identifier is the function's own name).
func (v *visitor) isSelfCallee(fun ast.Expr) bool {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name == v.funcName
	case *ast.SelectorExpr:
		id, ok := f.X.(*ast.Ident)
		return ok && id.Name == v.funcName
	case *ast.IndexExpr:
		id, ok := f.X.(*ast.Ident)
		return ok && id.Name == v.funcName
	}
	return false
}

// isAccessorCallee reports whether fun is a selector/index form naming the
// function — these cannot be proven safe even when they sit in tail
// position (spec §4.1).
func (v *visitor) isAccessorCallee(fun ast.Expr) bool {
	switch fun.(type) {
	case *ast.SelectorExpr, *ast.IndexExpr:
		return v.isSelfCallee(fun)
	}
	return false
}

func (v *visitor) reject(pos token.Pos, msg string) {
	line := v.fset.Position(pos).Line
	v.violations = append(v.violations, tcoerr.Violation{Line: line, Message: msg})
}

func unwrapParens(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
