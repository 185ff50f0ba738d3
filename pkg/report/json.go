// Package report accumulates counts across a pkg/runner batch pass and
// renders them as machine-readable JSON (for CI) and a humanized one-line
// summary (for an interactive terminal).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// Data represents the structure of the JSON report output. It maps
// directly to the required JSON schema for CI integration.
type Data struct {
	// FilesModified lists the unique paths of files that were altered during execution.
	FilesModified []string `json:"files_modified"`
	// FunctionsOptimized is the count of //tco:optimize-marked functions
	// successfully decorated into a trampoline.
	FunctionsOptimized int `json:"functions_optimized"`
	// FunctionsRejected is the count of marked functions that failed the
	// guard, validator, or transform stage and were left untouched.
	FunctionsRejected int `json:"functions_rejected"`
	// RejectionKinds breaks FunctionsRejected down by tcoerr.Kind string
	// (e.g. "NOT_TAIL_RECURSIVE": 2), so a CI consumer can tell a structural
	// rejection (ASYNC_REJECTED) from a semantic one without re-parsing logs.
	RejectionKinds map[string]int `json:"rejection_kinds,omitempty"`
}

// Reporter collects statistics during the decoration process and generates
// structured output. It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	data    Data
	fileSet map[string]struct{}
}

// New creates a new instance of Reporter with initialized maps.
func New() *Reporter {
	return &Reporter{
		fileSet: make(map[string]struct{}),
		data: Data{
			FilesModified: []string{},
		},
	}
}

// AddFile records a file path as modified.
//
// path: The file path to record.
func (r *Reporter) AddFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fileSet[path]; !exists {
		r.fileSet[path] = struct{}{}
		r.data.FilesModified = append(r.data.FilesModified, path)
	}
}

// IncOptimized increments the counter for successfully decorated functions.
func (r *Reporter) IncOptimized() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.FunctionsOptimized++
}

// IncRejected increments the counter for marked functions that could not be
// decorated.
func (r *Reporter) IncRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.FunctionsRejected++
}

// IncRejectedKind increments FunctionsRejected and its per-Kind breakdown.
// kind is a tcoerr.Kind's string form; pkg/report does not import
// pkg/tcoerr, so callers pass the already-stringified Kind.
func (r *Reporter) IncRejectedKind(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.FunctionsRejected++
	if r.data.RejectionKinds == nil {
		r.data.RejectionKinds = make(map[string]int)
	}
	r.data.RejectionKinds[kind]++
}

// WriteJSON serializes the collected statistics to w as indented JSON,
// sorting the file list first for deterministic output.
func (r *Reporter) WriteJSON(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sort.Strings(r.data.FilesModified)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.data)
}

// GetData returns a copy of the internal data structure.
func (r *Reporter) GetData() Data {
	r.mu.Lock()
	defer r.mu.Unlock()

	files := make([]string, len(r.data.FilesModified))
	copy(files, r.data.FilesModified)
	sort.Strings(files)

	var kinds map[string]int
	if len(r.data.RejectionKinds) > 0 {
		kinds = make(map[string]int, len(r.data.RejectionKinds))
		for k, v := range r.data.RejectionKinds {
			kinds[k] = v
		}
	}

	return Data{
		FilesModified:      files,
		FunctionsOptimized: r.data.FunctionsOptimized,
		FunctionsRejected:  r.data.FunctionsRejected,
		RejectionKinds:     kinds,
	}
}

// Summary renders a one-line, humanized summary for an interactive
// terminal: "optimized 3 functions across 2 files (1 rejected)".
func (r *Reporter) Summary() string {
	d := r.GetData()
	funcWord := "functions"
	if d.FunctionsOptimized == 1 {
		funcWord = "function"
	}
	s := fmt.Sprintf("optimized %s %s across %s",
		humanize.Comma(int64(d.FunctionsOptimized)), funcWord, pluralFiles(len(d.FilesModified)))
	if d.FunctionsRejected > 0 {
		s += fmt.Sprintf(" (%s rejected)", humanize.Comma(int64(d.FunctionsRejected)))
	}
	return s
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%s files", humanize.Comma(int64(n)))
}

// IsTerminal reports whether fd is a terminal, used to decide whether a
// dry-run diff should be ANSI-colorized.
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd)
}
