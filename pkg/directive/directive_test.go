package directive

import (
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

func funcDecl(t *testing.T, file *dst.File) *dst.FuncDecl {
	t.Helper()
	for _, d := range file.Decls {
		if fd, ok := d.(*dst.FuncDecl); ok {
			return fd
		}
	}
	t.Fatal("no func decl found")
	return nil
}

func TestFindBareAndCalledForms(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantFound  bool
		wantStrict bool
	}{
		{
			name: "Bare",
			src: `package p

//tco:optimize
func f(n int) int { return f(n - 1) }
`,
			wantFound: true,
		},
		{
			name: "Called",
			src: `package p

//tco:optimize(strict)
func f(n int) int { return f(n - 1) }
`,
			wantFound:  true,
			wantStrict: true,
		},
		{
			name: "Spaced",
			src: `package p

// tco:optimize
func f(n int) int { return f(n - 1) }
`,
			wantFound: true,
		},
		{
			name: "Absent",
			src: `package p

// a normal comment
func f(n int) int { return f(n - 1) }
`,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := decorator.Parse(tt.src)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			decl := funcDecl(t, file)
			d, found := Find(decl)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && d.Strict != tt.wantStrict {
				t.Errorf("Strict = %v, want %v", d.Strict, tt.wantStrict)
			}
		})
	}
}

func TestStripRemovesDirectiveOnly(t *testing.T) {
	src := `package p

// f computes something.
//tco:optimize
func f(n int) int { return f(n - 1) }
`
	file, err := decorator.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	decl := funcDecl(t, file)
	Strip(decl)

	if _, found := Find(decl); found {
		t.Fatal("directive still present after Strip")
	}
	remaining := decl.Decorations().Start.All()
	found := false
	for _, c := range remaining {
		if c == "// f computes something." {
			found = true
		}
	}
	if !found {
		t.Errorf("Strip removed the doc comment too: %v", remaining)
	}
}
