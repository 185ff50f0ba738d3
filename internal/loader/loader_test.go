package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "snippet.go")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileParsesSingleFile(t *testing.T) {
	path := writeTempFile(t, `package p

func fact(n, acc int) int {
	if n == 0 {
		return acc
	}
	return fact(n-1, acc*n)
}
`)
	fset, file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fset == nil || file == nil {
		t.Fatal("LoadFile returned nil fset or file")
	}
	if FindFunc(file, "fact") == nil {
		t.Error("FindFunc did not locate fact")
	}
}

func TestLoadFileReturnsErrorOnMissingFile(t *testing.T) {
	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.go")); err == nil {
		t.Fatal("expected an error for a nonexistent file")
	}
}

func TestLoadFileReturnsErrorOnSyntaxError(t *testing.T) {
	path := writeTempFile(t, "package p\n invalid syntax\n")
	if _, _, err := LoadFile(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestFindFuncReturnsNilWhenAbsent(t *testing.T) {
	path := writeTempFile(t, `package p

func other() {}
`)
	_, file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if FindFunc(file, "fact") != nil {
		t.Error("FindFunc found a function that does not exist")
	}
}

func TestFindFuncIgnoresMethods(t *testing.T) {
	path := writeTempFile(t, `package p

type T struct{}

func (T) fact(n int) int { return n }
`)
	_, file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if FindFunc(file, "fact") != nil {
		t.Error("FindFunc matched a method, should only match standalone functions")
	}
}
