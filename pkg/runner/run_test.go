package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tailopt/tco/pkg/report"
)

func writeTempModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/runnertest\n\ngo 1.22\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestRunBatchOptimizesMarkedFunctionAndWrites(t *testing.T) {
	dir := writeTempModule(t, map[string]string{
		"main.go": `package main

//tco:optimize
func fact(n, acc int) int {
	if n <= 1 {
		return acc
	}
	return fact(n-1, n*acc)
}

func untouched() int { return 1 }
`,
	})
	chdir(t, dir)

	reporter := report.New()
	var out bytes.Buffer

	if err := Run(Options{Paths: []string{"./..."}, Reporter: reporter, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	data := reporter.GetData()
	if data.FunctionsOptimized != 1 {
		t.Errorf("FunctionsOptimized = %d, want 1", data.FunctionsOptimized)
	}
	if len(data.FilesModified) != 1 {
		t.Errorf("FilesModified = %v, want 1 entry", data.FilesModified)
	}
	if !strings.Contains(out.String(), "optimized 1 function") {
		t.Errorf("summary output = %q, want it to mention 1 optimized function", out.String())
	}

	rewritten, err := os.ReadFile(filepath.Join(dir, "main.go"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(rewritten), "tco:optimize") {
		t.Error("written file still contains the directive comment")
	}
	if strings.Contains(string(rewritten), "return fact(") {
		t.Error("written file still contains the original recursive tail call")
	}
}

func TestRunBatchSkipsUndirectedFunctions(t *testing.T) {
	dir := writeTempModule(t, map[string]string{
		"main.go": `package main

func fact(n, acc int) int {
	if n <= 1 {
		return acc
	}
	return fact(n-1, n*acc)
}
`,
	})
	chdir(t, dir)

	reporter := report.New()
	var out bytes.Buffer

	if err := Run(Options{Paths: []string{"./..."}, Reporter: reporter, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	data := reporter.GetData()
	if data.FunctionsOptimized != 0 {
		t.Errorf("FunctionsOptimized = %d, want 0 (no directive present)", data.FunctionsOptimized)
	}
}

func TestRunBatchRecordsRejection(t *testing.T) {
	dir := writeTempModule(t, map[string]string{
		"main.go": `package main

//tco:optimize
func bad(n int) int {
	if n <= 1 {
		return 1
	}
	return n * bad(n-1)
}
`,
	})
	chdir(t, dir)

	reporter := report.New()
	var out bytes.Buffer

	if err := Run(Options{Paths: []string{"./..."}, Reporter: reporter, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	data := reporter.GetData()
	if data.FunctionsRejected != 1 {
		t.Errorf("FunctionsRejected = %d, want 1", data.FunctionsRejected)
	}
	if data.RejectionKinds["NOT_TAIL_RECURSIVE"] != 1 {
		t.Errorf("RejectionKinds[NOT_TAIL_RECURSIVE] = %d, want 1", data.RejectionKinds["NOT_TAIL_RECURSIVE"])
	}
}

func TestRunCheckModeFailsWhenFunctionWouldChange(t *testing.T) {
	dir := writeTempModule(t, map[string]string{
		"main.go": `package main

//tco:optimize
func fact(n, acc int) int {
	if n <= 1 {
		return acc
	}
	return fact(n-1, n*acc)
}
`,
	})
	chdir(t, dir)

	var out bytes.Buffer
	err := Run(Options{Paths: []string{"./..."}, Check: true, Reporter: report.New(), Out: &out})
	if err == nil {
		t.Fatal("Run in --check mode succeeded despite a pending change")
	}
	if !strings.Contains(out.String(), "@@") {
		t.Errorf("--check mode should still print the would-be diff, got %q", out.String())
	}

	unchanged, rerr := os.ReadFile(filepath.Join(dir, "main.go"))
	if rerr != nil {
		t.Fatal(rerr)
	}
	if !strings.Contains(string(unchanged), "tco:optimize") {
		t.Error("--check mode must not modify the source file")
	}
}

func TestRunDryRunColorizesWhenEnabled(t *testing.T) {
	dir := writeTempModule(t, map[string]string{
		"main.go": `package main

//tco:optimize
func fact(n, acc int) int {
	if n <= 1 {
		return acc
	}
	return fact(n-1, n*acc)
}
`,
	})
	chdir(t, dir)

	var out bytes.Buffer
	err := Run(Options{Paths: []string{"./..."}, DryRun: true, Color: true, Reporter: report.New(), Out: &out})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[32m") && !strings.Contains(out.String(), "\x1b[31m") {
		t.Errorf("colorized diff missing ANSI codes, got %q", out.String())
	}
}

func TestRunJSONReport(t *testing.T) {
	dir := writeTempModule(t, map[string]string{
		"main.go": `package main

//tco:optimize
func fact(n, acc int) int {
	if n <= 1 {
		return acc
	}
	return fact(n-1, n*acc)
}
`,
	})
	chdir(t, dir)

	var out bytes.Buffer
	if err := Run(Options{Paths: []string{"./..."}, Reporter: report.New(), Out: &out, JSON: true}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), `"functions_optimized": 1`) {
		t.Errorf("JSON report = %q, want functions_optimized: 1", out.String())
	}
}

func TestRunSingleFuncMode(t *testing.T) {
	dir := writeTempModule(t, map[string]string{
		"main.go": `package main

func fact(n, acc int) int {
	if n <= 1 {
		return acc
	}
	return fact(n-1, n*acc)
}
`,
	})
	chdir(t, dir)

	reporter := report.New()
	var out bytes.Buffer
	if err := Run(Options{Paths: []string{dir}, FuncName: "fact", Reporter: reporter, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if reporter.GetData().FunctionsOptimized != 1 {
		t.Errorf("FunctionsOptimized = %d, want 1", reporter.GetData().FunctionsOptimized)
	}
}
