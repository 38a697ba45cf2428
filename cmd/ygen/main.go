// ygen reads a serialized .east AST (normally the optimizer's output)
// and emits textual stack-machine assembly — the .east→.asm leg of the
// pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/codegen"
	"github.com/matlire/BrainrotLang/internal/sexpr"
)

func main() {
	infile := flag.String("infile", "", "serialized .east file to generate code from (required)")
	outfile := flag.String("outfile", "", "assembly destination (default: <infile base>.asm)")
	flag.Parse()

	if *infile == "" {
		fmt.Fprintln(os.Stderr, "ygen: --infile is required")
		os.Exit(1)
	}
	out := *outfile
	if out == "" {
		out = replaceExt(*infile, ".asm")
	}

	src, err := os.ReadFile(*infile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ygen: %v\n", err)
		os.Exit(1)
	}

	tree := ast.NewTree()
	root, err := sexpr.Read(string(src), tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ygen: %v\n", err)
		os.Exit(1)
	}
	tree.Root = root

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ygen: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	errs := cerr.NewBuffer(src)
	if err := codegen.Generate(tree, f, errs); err != nil {
		if errs.HasError() {
			fmt.Fprintln(os.Stderr, errs.Format())
		} else {
			fmt.Fprintf(os.Stderr, "ygen: %v\n", err)
		}
		os.Exit(1)
	}
}

func replaceExt(path, newExt string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + newExt
		}
	}
	return path + newExt
}
