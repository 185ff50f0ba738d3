package legacyrewrite

import (
	"go/ast"
	"go/token"

	"github.com/tailopt/tco/pkg/names"
	"github.com/tailopt/tco/pkg/tcoerr"
)

// tailRewriter is pkg/transform's tailRewriter (Pass D), ported to go/ast.
// Comments carry no decorations slot in go/ast the way dst.Decorations
// does, so there is nothing to copy onto the synthesized nodes here — the
// legacy path is display-only and never round-trips through a file on
// disk, so dropped comments on a rewritten line are an acceptable loss.
type tailRewriter struct {
	funcName string
	label    string
	bindings *names.Bindings
	err      *tcoerr.Error
}

func rewriteBody(body *ast.BlockStmt, funcName string, bindings *names.Bindings) *tcoerr.Error {
	t := &tailRewriter{funcName: funcName, label: bindings.TrampolineLabel(), bindings: bindings}
	t.rewriteBlock(body)
	return t.err
}

func (t *tailRewriter) rewriteBlock(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	b.List = t.rewriteStmts(b.List)
}

func (t *tailRewriter) rewriteStmts(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, t.rewriteStmt(stmt)...)
	}
	return out
}

func (t *tailRewriter) rewriteStmt(stmt ast.Stmt) []ast.Stmt {
	if t.err != nil {
		return []ast.Stmt{stmt}
	}
	if ret, ok := stmt.(*ast.ReturnStmt); ok {
		if call := t.tailSelfCall(ret); call != nil {
			return t.expandTailCall(call)
		}
		return []ast.Stmt{stmt}
	}
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		t.rewriteBlock(s)
	case *ast.IfStmt:
		t.rewriteBlock(s.Body)
		t.rewriteElse(s)
	case *ast.ForStmt:
		t.rewriteBlock(s.Body)
	case *ast.RangeStmt:
		t.rewriteBlock(s.Body)
	case *ast.SwitchStmt:
		t.rewriteCaseBodies(s.Body)
	case *ast.TypeSwitchStmt:
		t.rewriteCaseBodies(s.Body)
	case *ast.SelectStmt:
		t.rewriteCommBodies(s.Body)
	case *ast.LabeledStmt:
		replaced := t.rewriteStmt(s.Stmt)
		s.Stmt = replaced[0]
	}
	return []ast.Stmt{stmt}
}

func (t *tailRewriter) rewriteElse(s *ast.IfStmt) {
	if s.Else == nil {
		return
	}
	switch e := s.Else.(type) {
	case *ast.BlockStmt:
		t.rewriteBlock(e)
	case *ast.IfStmt:
		t.rewriteBlock(e.Body)
		t.rewriteElse(e)
	}
}

func (t *tailRewriter) rewriteCaseBodies(body *ast.BlockStmt) {
	if body == nil {
		return
	}
	for _, c := range body.List {
		if cc, ok := c.(*ast.CaseClause); ok {
			cc.Body = t.rewriteStmts(cc.Body)
		}
	}
}

func (t *tailRewriter) rewriteCommBodies(body *ast.BlockStmt) {
	if body == nil {
		return
	}
	for _, c := range body.List {
		if cc, ok := c.(*ast.CommClause); ok {
			cc.Body = t.rewriteStmts(cc.Body)
		}
	}
}

func (t *tailRewriter) tailSelfCall(ret *ast.ReturnStmt) *ast.CallExpr {
	if len(ret.Results) != 1 {
		return nil
	}
	expr := unwrapParens(ret.Results[0])
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return nil
	}
	id, ok := call.Fun.(*ast.Ident)
	if !ok || id.Name != t.funcName {
		return nil
	}
	return call
}

func (t *tailRewriter) expandTailCall(call *ast.CallExpr) []ast.Stmt {
	locals := t.bindings.Locals()
	if len(call.Args) != len(locals) {
		t.err = tcoerr.ArgShape(t.funcName, 0,
			"self-call argument count does not match the function's parameter count")
		return []ast.Stmt{&ast.ReturnStmt{Results: []ast.Expr{call}}}
	}

	lhs := make([]ast.Expr, len(locals))
	for i, name := range locals {
		lhs[i] = ast.NewIdent(name)
	}
	rhs := make([]ast.Expr, len(call.Args))
	copy(rhs, call.Args)

	assign := &ast.AssignStmt{Lhs: lhs, Tok: token.ASSIGN, Rhs: rhs}
	cont := &ast.BranchStmt{Tok: token.CONTINUE, Label: ast.NewIdent(t.label)}

	return []ast.Stmt{assign, cont}
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
