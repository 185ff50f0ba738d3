package transform

import (
	"go/token"

	"github.com/dave/dst"
)

// substituter implements Pass C (spec §4.2): rewrite every read/write of a
// hoisted parameter to its fresh local name. rename maps the original
// parameter name to its hoisted local; it is snapshotted and restored
// around every construct that opens a new Go scope, so a name re-declared
// inside a nested scope (a `:=`, a `range` variable, a closure parameter)
// correctly stops shadowing the parameter for the remainder of that scope
// — matching ordinary Go lexical scoping rather than a single flat rename.
type substituter struct {
	rename map[string]string
}

// substituteBody applies Pass C to body in place, given the active
// parameter-to-local renames.
func substituteBody(body *dst.BlockStmt, rename map[string]string) {
	s := &substituter{rename: cloneRename(rename)}
	s.block(body)
}

func cloneRename(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *substituter) snapshot() map[string]string {
	return cloneRename(s.rename)
}

func (s *substituter) restore(saved map[string]string) {
	s.rename = saved
}

func (s *substituter) block(b *dst.BlockStmt) {
	if b == nil {
		return
	}
	for _, stmt := range b.List {
		s.stmt(stmt)
	}
}

func (s *substituter) stmt(stmt dst.Stmt) {
	if stmt == nil {
		return
	}
	switch st := stmt.(type) {
	case *dst.ReturnStmt:
		for _, r := range st.Results {
			s.expr(r)
		}
	case *dst.IfStmt:
		outer := s.snapshot()
		s.stmt(st.Init)
		s.expr(st.Cond)
		s.block(st.Body)
		if st.Else != nil {
			s.stmt(st.Else)
		}
		s.restore(outer)
	case *dst.BlockStmt:
		outer := s.snapshot()
		s.block(st)
		s.restore(outer)
	case *dst.ForStmt:
		outer := s.snapshot()
		s.stmt(st.Init)
		s.expr(st.Cond)
		s.stmt(st.Post)
		s.block(st.Body)
		s.restore(outer)
	case *dst.RangeStmt:
		s.expr(st.X)
		outer := s.snapshot()
		if st.Tok == token.DEFINE {
			if id, ok := st.Key.(*dst.Ident); ok {
				delete(s.rename, id.Name)
			}
			if id, ok := st.Value.(*dst.Ident); ok {
				delete(s.rename, id.Name)
			}
		} else {
			s.exprOpt(st.Key)
			s.exprOpt(st.Value)
		}
		s.block(st.Body)
		s.restore(outer)
	case *dst.SwitchStmt:
		outer := s.snapshot()
		s.stmt(st.Init)
		s.exprOpt(st.Tag)
		s.caseBlocks(st.Body)
		s.restore(outer)
	case *dst.TypeSwitchStmt:
		outer := s.snapshot()
		s.stmt(st.Init)
		s.typeSwitchAssign(st.Assign)
		s.caseBlocks(st.Body)
		s.restore(outer)
	case *dst.SelectStmt:
		if st.Body != nil {
			for _, c := range st.Body.List {
				cc, ok := c.(*dst.CommClause)
				if !ok {
					continue
				}
				saved := s.snapshot()
				s.stmt(cc.Comm)
				for _, inner := range cc.Body {
					s.stmt(inner)
				}
				s.restore(saved)
			}
		}
	case *dst.LabeledStmt:
		s.stmt(st.Stmt)
	case *dst.ExprStmt:
		s.expr(st.X)
	case *dst.AssignStmt:
		for _, r := range st.Rhs {
			s.expr(r)
		}
		if st.Tok == token.DEFINE {
			for _, l := range st.Lhs {
				if id, ok := l.(*dst.Ident); ok {
					delete(s.rename, id.Name)
				}
			}
		} else {
			for _, l := range st.Lhs {
				s.expr(l)
			}
		}
	case *dst.DeclStmt:
		s.declStmt(st)
	case *dst.DeferStmt:
		s.expr(st.Call)
	case *dst.GoStmt:
		s.expr(st.Call)
	case *dst.SendStmt:
		s.expr(st.Chan)
		s.expr(st.Value)
	case *dst.IncDecStmt:
		s.expr(st.X)
	}
}

func (s *substituter) typeSwitchAssign(stmt dst.Stmt) {
	switch a := stmt.(type) {
	case *dst.AssignStmt:
		for _, r := range a.Rhs {
			s.expr(r)
		}
		for _, l := range a.Lhs {
			if id, ok := l.(*dst.Ident); ok {
				delete(s.rename, id.Name)
			}
		}
	case *dst.ExprStmt:
		s.expr(a.X)
	}
}

func (s *substituter) caseBlocks(body *dst.BlockStmt) {
	if body == nil {
		return
	}
	for _, c := range body.List {
		cc, ok := c.(*dst.CaseClause)
		if !ok {
			continue
		}
		for _, e := range cc.List {
			s.expr(e)
		}
		saved := s.snapshot()
		for _, st := range cc.Body {
			s.stmt(st)
		}
		s.restore(saved)
	}
}

func (s *substituter) declStmt(ds *dst.DeclStmt) {
	gd, ok := ds.Decl.(*dst.GenDecl)
	if !ok {
		return
	}
	for _, spec := range gd.Specs {
		vs, ok := spec.(*dst.ValueSpec)
		if !ok {
			continue
		}
		for _, val := range vs.Values {
			s.expr(val)
		}
		for _, n := range vs.Names {
			delete(s.rename, n.Name)
		}
	}
}

func (s *substituter) funcLit(lit *dst.FuncLit) {
	saved := s.snapshot()
	if lit.Type != nil && lit.Type.Params != nil {
		for _, f := range lit.Type.Params.List {
			for _, n := range f.Names {
				delete(s.rename, n.Name)
			}
		}
	}
	s.block(lit.Body)
	s.restore(saved)
}

func (s *substituter) exprOpt(e dst.Expr) {
	if e == nil {
		return
	}
	s.expr(e)
}

// expr renames free identifier occurrences of a hoisted parameter. Field
// selectors (x.p) and struct composite-literal keys (T{p: 1}) are left
// alone — only value-producing identifier reads/writes that could resolve
// to the parameter binding are substituted, matching spec.md's carve-outs.
// Map and array/slice composite-literal keys (map[int]int{p: 1}, [n]int{p:
// 1}) are value expressions, not field names, so they are substituted too;
// see compositeElt.
func (s *substituter) expr(e dst.Expr) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *dst.Ident:
		if fresh, ok := s.rename[x.Name]; ok {
			x.Name = fresh
		}
	case *dst.BinaryExpr:
		s.expr(x.X)
		s.expr(x.Y)
	case *dst.UnaryExpr:
		s.expr(x.X)
	case *dst.ParenExpr:
		s.expr(x.X)
	case *dst.StarExpr:
		s.expr(x.X)
	case *dst.CallExpr:
		s.expr(x.Fun)
		for _, a := range x.Args {
			s.expr(a)
		}
	case *dst.SelectorExpr:
		s.expr(x.X)
	case *dst.IndexExpr:
		s.expr(x.X)
		s.expr(x.Index)
	case *dst.IndexListExpr:
		s.expr(x.X)
		for _, idx := range x.Indices {
			s.expr(idx)
		}
	case *dst.SliceExpr:
		s.expr(x.X)
		s.exprOpt(x.Low)
		s.exprOpt(x.High)
		s.exprOpt(x.Max)
	case *dst.TypeAssertExpr:
		s.expr(x.X)
	case *dst.CompositeLit:
		for _, el := range x.Elts {
			s.compositeElt(x.Type, el)
		}
	case *dst.KeyValueExpr:
		s.expr(x.Value)
	case *dst.FuncLit:
		s.funcLit(x)
	case *dst.Ellipsis:
		s.exprOpt(x.Elt)
	}
}

// compositeElt substitutes el, an element of a CompositeLit of type litType.
// A key/value element's key is a field name (left untouched) only when
// litType denotes a struct; for a map or array/slice literal the key is
// itself a value-producing expression and must be substituted like any
// other operand.
func (s *substituter) compositeElt(litType dst.Expr, e dst.Expr) {
	if kv, ok := e.(*dst.KeyValueExpr); ok {
		if keyIsValueExpr(litType) {
			s.expr(kv.Key)
		}
		s.expr(kv.Value)
		return
	}
	s.expr(e)
}

// keyIsValueExpr reports whether litType (a CompositeLit.Type) is a map or
// array/slice type, whose key-value element keys are expressions rather
// than struct field names. An elided or named type (Type == nil, or a
// reference resolved only by go/types) is treated conservatively as
// struct-like, since this pass has no type-checker to consult.
func keyIsValueExpr(litType dst.Expr) bool {
	switch litType.(type) {
	case *dst.MapType, *dst.ArrayType:
		return true
	default:
		return false
	}
}
