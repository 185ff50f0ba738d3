// Command tco decorates //tco:optimize-marked tail-recursive functions into
// iterative, constant-stack-depth trampolines, in place or as a dry-run
// diff, over a single named function or an entire directory tree.
package main

import (
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/tailopt/tco/pkg/report"
	"github.com/tailopt/tco/pkg/runner"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run parses args and executes the runner, writing logs and the final
// report to stdout.
func run(args []string, stdout io.Writer) error {
	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name("tco"),
		kong.Description("Decorate tail-recursive functions into iterative trampolines."),
		kong.Writers(stdout, io.Discard),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return err
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	log.SetOutput(stdout)
	log.Printf("Scanning paths: %v", cfg.Paths)

	color := false
	if f, ok := stdout.(*os.File); ok {
		color = report.IsTerminal(f.Fd())
	}

	opts := runner.Options{
		Paths:                cfg.Paths,
		FuncName:             cfg.Func,
		Strict:               cfg.Strict,
		ExcludeGlob:          cfg.ExcludeGlob,
		ExcludeSymbolGlob:    cfg.ExcludeSymbolGlob,
		UseDefaultExclusions: cfg.UseDefaultExclusions,
		DryRun:               cfg.DryRun,
		Check:                cfg.Check,
		JSON:                 cfg.JSON,
		VerboseErrors:        cfg.VerboseErrors,
		Color:                color,
		Reporter:             report.New(),
		Out:                  stdout,
	}

	if opts.Check {
		log.Printf("Mode: CI check")
	}

	return runner.Run(opts)
}
