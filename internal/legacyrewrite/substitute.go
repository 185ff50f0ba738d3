package legacyrewrite

import (
	"go/ast"
	"go/token"
)

// substituter is pkg/transform's substituter (Pass C), ported from dst to
// go/ast: same snapshot/restore-around-every-scope shape, same carve-out
// for selector fields and struct composite-literal keys (map/array/slice
// literal keys are substituted, since they are value expressions).
type substituter struct {
	rename map[string]string
}

func substituteBody(body *ast.BlockStmt, rename map[string]string) {
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

func (s *substituter) snapshot() map[string]string { return cloneRename(s.rename) }
func (s *substituter) restore(saved map[string]string) { s.rename = saved }

func (s *substituter) block(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	for _, stmt := range b.List {
		s.stmt(stmt)
	}
}

func (s *substituter) stmt(stmt ast.Stmt) {
	if stmt == nil {
		return
	}
	switch st := stmt.(type) {
	case *ast.ReturnStmt:
		for _, r := range st.Results {
			s.expr(r)
		}
	case *ast.IfStmt:
		outer := s.snapshot()
		s.stmt(st.Init)
		s.expr(st.Cond)
		s.block(st.Body)
		if st.Else != nil {
			s.stmt(st.Else)
		}
		s.restore(outer)
	case *ast.BlockStmt:
		outer := s.snapshot()
		s.block(st)
		s.restore(outer)
	case *ast.ForStmt:
		outer := s.snapshot()
		s.stmt(st.Init)
		s.expr(st.Cond)
		s.stmt(st.Post)
		s.block(st.Body)
		s.restore(outer)
	case *ast.RangeStmt:
		s.expr(st.X)
		outer := s.snapshot()
		if st.Tok == token.DEFINE {
			if id, ok := st.Key.(*ast.Ident); ok {
				delete(s.rename, id.Name)
			}
			if id, ok := st.Value.(*ast.Ident); ok {
				delete(s.rename, id.Name)
			}
		} else {
			s.exprOpt(st.Key)
			s.exprOpt(st.Value)
		}
		s.block(st.Body)
		s.restore(outer)
	case *ast.SwitchStmt:
		outer := s.snapshot()
		s.stmt(st.Init)
		s.exprOpt(st.Tag)
		s.caseBlocks(st.Body)
		s.restore(outer)
	case *ast.TypeSwitchStmt:
		outer := s.snapshot()
		s.stmt(st.Init)
		s.typeSwitchAssign(st.Assign)
		s.caseBlocks(st.Body)
		s.restore(outer)
	case *ast.SelectStmt:
		if st.Body != nil {
			for _, c := range st.Body.List {
				cc, ok := c.(*ast.CommClause)
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
	case *ast.LabeledStmt:
		s.stmt(st.Stmt)
	case *ast.ExprStmt:
		s.expr(st.X)
	case *ast.AssignStmt:
		for _, r := range st.Rhs {
			s.expr(r)
		}
		if st.Tok == token.DEFINE {
			for _, l := range st.Lhs {
				if id, ok := l.(*ast.Ident); ok {
					delete(s.rename, id.Name)
				}
			}
		} else {
			for _, l := range st.Lhs {
				s.expr(l)
			}
		}
	case *ast.DeclStmt:
		s.declStmt(st)
	case *ast.DeferStmt:
		s.expr(st.Call)
	case *ast.GoStmt:
		s.expr(st.Call)
	case *ast.SendStmt:
		s.expr(st.Chan)
		s.expr(st.Value)
	case *ast.IncDecStmt:
		s.expr(st.X)
	}
}

func (s *substituter) typeSwitchAssign(stmt ast.Stmt) {
	switch a := stmt.(type) {
	case *ast.AssignStmt:
		for _, r := range a.Rhs {
			s.expr(r)
		}
		for _, l := range a.Lhs {
			if id, ok := l.(*ast.Ident); ok {
				delete(s.rename, id.Name)
			}
		}
	case *ast.ExprStmt:
		s.expr(a.X)
	}
}

func (s *substituter) caseBlocks(body *ast.BlockStmt) {
	if body == nil {
		return
	}
	for _, c := range body.List {
		cc, ok := c.(*ast.CaseClause)
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

func (s *substituter) declStmt(ds *ast.DeclStmt) {
	gd, ok := ds.Decl.(*ast.GenDecl)
	if !ok {
		return
	}
	for _, spec := range gd.Specs {
		vs, ok := spec.(*ast.ValueSpec)
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

func (s *substituter) funcLit(lit *ast.FuncLit) {
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

func (s *substituter) exprOpt(e ast.Expr) {
	if e == nil {
		return
	}
	s.expr(e)
}

func (s *substituter) expr(e ast.Expr) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ast.Ident:
		if fresh, ok := s.rename[x.Name]; ok {
			x.Name = fresh
		}
	case *ast.BinaryExpr:
		s.expr(x.X)
		s.expr(x.Y)
	case *ast.UnaryExpr:
		s.expr(x.X)
	case *ast.ParenExpr:
		s.expr(x.X)
	case *ast.StarExpr:
		s.expr(x.X)
	case *ast.CallExpr:
		s.expr(x.Fun)
		for _, a := range x.Args {
			s.expr(a)
		}
	case *ast.SelectorExpr:
		s.expr(x.X)
	case *ast.IndexExpr:
		s.expr(x.X)
		s.expr(x.Index)
	case *ast.IndexListExpr:
		s.expr(x.X)
		for _, idx := range x.Indices {
			s.expr(idx)
		}
	case *ast.SliceExpr:
		s.expr(x.X)
		s.exprOpt(x.Low)
		s.exprOpt(x.High)
		s.exprOpt(x.Max)
	case *ast.TypeAssertExpr:
		s.expr(x.X)
	case *ast.CompositeLit:
		for _, el := range x.Elts {
			s.compositeElt(x.Type, el)
		}
	case *ast.KeyValueExpr:
		s.expr(x.Value)
	case *ast.FuncLit:
		s.funcLit(x)
	case *ast.Ellipsis:
		s.exprOpt(x.Elt)
	}
}

// compositeElt substitutes el, an element of a CompositeLit of type litType.
// The key of a key/value element is a field name (left untouched) only
// when litType denotes a struct; for a map or array/slice literal the key
// is itself a value-producing expression and must be substituted like any
// other operand.
func (s *substituter) compositeElt(litType ast.Expr, e ast.Expr) {
	if kv, ok := e.(*ast.KeyValueExpr); ok {
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
func keyIsValueExpr(litType ast.Expr) bool {
	switch litType.(type) {
	case *ast.MapType, *ast.ArrayType:
		return true
	default:
		return false
	}
}
