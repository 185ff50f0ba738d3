package transform

import (
	"go/token"

	"github.com/dave/dst"

	"github.com/tailopt/tco/pkg/names"
	"github.com/tailopt/tco/pkg/tcoerr"
)

// tailRewriter implements Pass D (spec §4.2): every self-call already
// proven to sit in tail position (the validator having run first) is
// replaced by a rebinding of the hoisted locals followed by a jump back to
// the trampoline. Because Go's `continue` accepts a label naming exactly
// which enclosing `for` to advance, and that label reaches the trampoline
// loop directly from inside however many `for`/`range`/`switch`/`select`
// constructs lie between the tail call and it (Go language spec, "For
// statements"), a single labeled `continue` replaces spec.md's
// sentinel-flag-plus-break ladder at every nesting depth — see
// SPEC_FULL.md §12 and DESIGN.md for the decision record.
type tailRewriter struct {
	funcName string
	label    string
	bindings *names.Bindings
	err      *tcoerr.Error
}

// rewriteBody rewrites every tail self-call in body in place, returning an
// ARGUMENT_SHAPE error if a self-call's argument list cannot be matched 1:1
// to the function's declared parameters.
func rewriteBody(body *dst.BlockStmt, funcName string, bindings *names.Bindings) *tcoerr.Error {
	t := &tailRewriter{funcName: funcName, label: bindings.TrampolineLabel(), bindings: bindings}
	t.rewriteBlock(body)
	return t.err
}

func (t *tailRewriter) rewriteBlock(b *dst.BlockStmt) {
	if b == nil {
		return
	}
	b.List = t.rewriteStmts(b.List)
}

func (t *tailRewriter) rewriteStmts(stmts []dst.Stmt) []dst.Stmt {
	out := make([]dst.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, t.rewriteStmt(stmt)...)
	}
	return out
}

// rewriteStmt returns the replacement for a single statement: a tail
// self-call return expands to [assign, continue]; anything else recurses
// into its own nested blocks in place and is returned unchanged.
func (t *tailRewriter) rewriteStmt(stmt dst.Stmt) []dst.Stmt {
	if t.err != nil {
		return []dst.Stmt{stmt}
	}
	if ret, ok := stmt.(*dst.ReturnStmt); ok {
		if call := t.tailSelfCall(ret); call != nil {
			return t.expandTailCall(ret, call)
		}
		return []dst.Stmt{stmt}
	}
	switch s := stmt.(type) {
	case *dst.BlockStmt:
		t.rewriteBlock(s)
	case *dst.IfStmt:
		t.rewriteBlock(s.Body)
		t.rewriteElse(s)
	case *dst.ForStmt:
		t.rewriteBlock(s.Body)
	case *dst.RangeStmt:
		t.rewriteBlock(s.Body)
	case *dst.SwitchStmt:
		t.rewriteCaseBodies(s.Body)
	case *dst.TypeSwitchStmt:
		t.rewriteCaseBodies(s.Body)
	case *dst.SelectStmt:
		t.rewriteCommBodies(s.Body)
	case *dst.LabeledStmt:
		replaced := t.rewriteStmt(s.Stmt)
		s.Stmt = replaced[0]
	}
	return []dst.Stmt{stmt}
}

func (t *tailRewriter) rewriteElse(s *dst.IfStmt) {
	if s.Else == nil {
		return
	}
	switch e := s.Else.(type) {
	case *dst.BlockStmt:
		t.rewriteBlock(e)
	case *dst.IfStmt:
		t.rewriteBlock(e.Body)
		t.rewriteElse(e)
	}
}

func (t *tailRewriter) rewriteCaseBodies(body *dst.BlockStmt) {
	if body == nil {
		return
	}
	for _, c := range body.List {
		if cc, ok := c.(*dst.CaseClause); ok {
			cc.Body = t.rewriteStmts(cc.Body)
		}
	}
}

func (t *tailRewriter) rewriteCommBodies(body *dst.BlockStmt) {
	if body == nil {
		return
	}
	for _, c := range body.List {
		if cc, ok := c.(*dst.CommClause); ok {
			cc.Body = t.rewriteStmts(cc.Body)
		}
	}
}

// tailSelfCall reports the self-call occupying ret's sole result
// expression, or nil if ret is not a tail self-call (nothing to rewrite: it
// is left as an ordinary, non-tail-recursive return).
func (t *tailRewriter) tailSelfCall(ret *dst.ReturnStmt) *dst.CallExpr {
	if len(ret.Results) != 1 {
		return nil
	}
	expr := unwrapParens(ret.Results[0])
	call, ok := expr.(*dst.CallExpr)
	if !ok {
		return nil
	}
	id, ok := call.Fun.(*dst.Ident)
	if !ok || id.Name != t.funcName {
		return nil
	}
	return call
}

// expandTailCall replaces a tail self-call return with the atomic
// multi-assignment rebinding every hoisted local at once (I3) followed by
// a jump back to the top of the trampoline.
func (t *tailRewriter) expandTailCall(ret *dst.ReturnStmt, call *dst.CallExpr) []dst.Stmt {
	locals := t.bindings.Locals()
	if len(call.Args) != len(locals) {
		t.err = tcoerr.ArgShape(t.funcName, 0,
			"self-call argument count does not match the function's parameter count")
		return []dst.Stmt{ret}
	}

	lhs := make([]dst.Expr, len(locals))
	for i, name := range locals {
		lhs[i] = dst.NewIdent(name)
	}
	rhs := make([]dst.Expr, len(call.Args))
	for i, a := range call.Args {
		rhs[i] = dst.Clone(a).(dst.Expr)
	}

	assign := &dst.AssignStmt{Lhs: lhs, Tok: token.ASSIGN, Rhs: rhs}
	assign.Decorations().Start = ret.Decorations().Start

	cont := &dst.BranchStmt{Tok: token.CONTINUE, Label: dst.NewIdent(t.label)}
	cont.Decorations().End = ret.Decorations().End

	return []dst.Stmt{assign, cont}
}

func unwrapParens(e dst.Expr) dst.Expr {
	for {
		p, ok := e.(*dst.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
