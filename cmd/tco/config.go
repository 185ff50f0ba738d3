package main

// Config holds the complete configuration for a tco invocation. It maps
// directly to command line flags via Kong's struct tags.
type Config struct {
	// Func names a single function to decorate, ignoring whether it carries
	// a //tco:optimize directive. Leave empty to scan Paths for every
	// directive-marked function instead (spec §11's bare-paths mode).
	Func string `name:"func" help:"Decorate a single named function, regardless of directive."`

	// Strict mirrors the //tco:optimize(strict) directive option when used
	// together with --func. It is passed through to optimize.Target, which
	// no stage reads, so it has no effect on the result.
	Strict bool `name:"strict" help:"Accepted for symmetry with //tco:optimize(strict); currently has no effect."`

	// ExcludeGlob is a list of file glob patterns to exclude from scanning.
	ExcludeGlob []string `name:"exclude-glob" help:"Glob patterns to exclude specific files or folders."`

	// ExcludeSymbolGlob is a list of fully-qualified symbol glob patterns
	// (e.g. 'pkg/path.FuncName') to exclude from scanning.
	ExcludeSymbolGlob []string `name:"exclude-symbol-glob" help:"Glob patterns to exclude specific functions by qualified name."`

	// UseDefaultExclusions toggles the built-in default exclusion list.
	// pkg/filter ships an empty default list (see its defaults.go) so this
	// flag is accepted for symmetry but currently a no-op.
	UseDefaultExclusions bool `name:"use-default-exclusions" help:"Apply the built-in default symbol exclusions."`

	// Paths indicates the directories or package patterns to scan. Defaults
	// to the current directory tree.
	Paths []string `arg:"" optional:"" help:"Directories or package patterns to scan." type:"path" default:"./..."`

	// DryRun prints a unified diff instead of rewriting files.
	DryRun bool `name:"dry-run" help:"Print changes to stdout instead of rewriting files."`

	// Check implies DryRun and exits non-zero if any function would change.
	Check bool `name:"check" help:"CI mode: fail if any marked function is not already in trampoline form."`

	// JSON emits the final report as machine-readable JSON instead of a
	// humanized summary line.
	JSON bool `name:"json" help:"Emit the final report as JSON instead of a human summary."`

	// VerboseErrors prints every accumulated violation for a rejected
	// function instead of only its kind.
	VerboseErrors bool `name:"verbose-errors" help:"Print each rejection's full violation detail."`
}
