// Package directive recognizes and strips the //tco:optimize magic-comment
// directive that marks a function for decoration — the Go-native analogue
// of spec's "@t" / "@t()" decorator syntax (spec §2 step 1 intro, §4.2
// Pass A, §6). It must recognize both the bare and called forms so the
// same source can be re-scanned after rewriting without re-triggering.
package directive

import (
	"go/ast"
	"regexp"
	"strings"

	"github.com/dave/dst"
)

// Name is the directive's bare name, matched after a leading "//" (with or
// without spaces between) and with or without a trailing parenthesized
// option list.
const Name = "tco:optimize"

var pattern = regexp.MustCompile(`^//\s*tco:optimize(\(([a-zA-Z0-9_, ]*)\))?\s*$`)

// Directive is a recognized //tco:optimize annotation.
type Directive struct {
	// Strict is true for the called form //tco:optimize(strict). It is
	// parsed and recorded only; no pipeline stage reads it, so a strict
	// function is checked exactly like a bare-directive one.
	Strict bool
}

// FindAST scans decl's doc comment for a //tco:optimize directive using a
// go/ast comment map (used by the legacy, non-dst pipeline).
func FindAST(cmap ast.CommentMap, decl *ast.FuncDecl) (*Directive, bool) {
	groups := cmap[decl]
	if decl.Doc != nil {
		groups = append([]*ast.CommentGroup{decl.Doc}, groups...)
	}
	for _, g := range groups {
		for _, c := range g.List {
			if d, ok := parse(c.Text); ok {
				return d, true
			}
		}
	}
	return nil, false
}

// Find scans decl's dst decorations (its "Start" slot holds the doc comment
// and any directive lines immediately above the declaration) for a
// //tco:optimize directive.
func Find(decl *dst.FuncDecl) (*Directive, bool) {
	for _, c := range decl.Decorations().Start.All() {
		if d, ok := parse(c); ok {
			return d, true
		}
	}
	return nil, false
}

// Strip removes every //tco:optimize comment line from decl's decorations
// (Pass A). This must run before re-materialization: the rewritten function
// is spliced back into the very same file the directive comment lives in,
// and leaving the directive in place would cause the next scan of that file
// to re-decorate an already-iterative function.
func Strip(decl *dst.FuncDecl) {
	var kept dst.Decorations
	for _, c := range decl.Decorations().Start.All() {
		if _, ok := parse(c); ok {
			continue
		}
		kept = append(kept, c)
	}
	decl.Decorations().Start = kept
}

func parse(commentText string) (*Directive, bool) {
	m := pattern.FindStringSubmatch(strings.TrimRight(commentText, " \t"))
	if m == nil {
		return nil, false
	}
	opts := strings.Split(m[2], ",")
	d := &Directive{}
	for _, o := range opts {
		if strings.TrimSpace(o) == "strict" {
			d.Strict = true
		}
	}
	return d, true
}
