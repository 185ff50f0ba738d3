// Command tco-print is the debug pretty-printer CLI (spec §6's debug
// surface): parse one file with go/parser only (no package load, no
// type-checking) and print a named function's would-be trampoline form
// to stdout, without writing anything back.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/tailopt/tco/internal/files"
	"github.com/tailopt/tco/internal/legacyrewrite"
	"github.com/tailopt/tco/internal/loader"
	"github.com/tailopt/tco/pkg/guard"
	"github.com/tailopt/tco/pkg/prettyprint"
	"github.com/tailopt/tco/pkg/validator"
)

// CLI is tco-print's flag set: a file or directory, and the function to
// find in it — this tool never loads a whole type-checked package.
type CLI struct {
	File        string   `arg:"" help:"Go source file or directory to search."`
	Func        string   `arg:"" help:"Name of the function to rewrite and print."`
	ExcludeGlob []string `help:"Glob pattern(s) (relative path) to skip when File is a directory." name:"exclude-glob"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tco-print"),
		kong.Description("Print a function's trampoline form without writing anything back."))

	if err := run(cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

func run(cli CLI, stdout io.Writer) error {
	path := cli.File
	if info, err := os.Stat(cli.File); err == nil && info.IsDir() {
		found, err := findInDir(cli.File, cli.Func, cli.ExcludeGlob)
		if err != nil {
			return err
		}
		path = found
	}

	fset, file, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	decl := loader.FindFunc(file, cli.Func)
	if decl == nil {
		return fmt.Errorf("function %q not found in %s", cli.Func, path)
	}

	if err := guard.Check(decl, cli.Func); err != nil {
		return err
	}
	if err := validator.Validate(fset, decl, cli.Func); err != nil {
		return err
	}

	rewritten, err := legacyrewrite.Run(decl, cli.Func)
	if err != nil {
		return err
	}

	out, err := prettyprint.RenderLegacy(fset, rewritten)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, out)
	return err
}

// findInDir walks dir for the first non-test .go file declaring funcName,
// for the rare case a caller hands tco-print a directory instead of a file.
func findInDir(dir, funcName string, excludeGlobs []string) (string, error) {
	candidates, err := files.CollectGoFiles(dir, excludeGlobs)
	if err != nil {
		return "", err
	}
	for _, path := range candidates {
		_, file, err := loader.LoadFile(path)
		if err != nil {
			continue
		}
		if loader.FindFunc(file, funcName) != nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("function %q not found under %s", funcName, dir)
}
