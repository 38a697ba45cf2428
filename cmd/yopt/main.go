// yopt reads a serialized .east AST, applies bottom-up algebraic
// simplification, and writes the optimized AST back out as .east —
// the .east→optimized-.east leg of the pipeline. With no --outfile it
// rewrites --infile in place, since both ends of this stage share the
// same file extension.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/optimizer"
	"github.com/matlire/BrainrotLang/internal/sexpr"
)

func main() {
	infile := flag.String("infile", "", "serialized .east file to optimize (required)")
	outfile := flag.String("outfile", "", "optimized .east destination (default: overwrite --infile)")
	flag.Parse()

	if *infile == "" {
		fmt.Fprintln(os.Stderr, "yopt: --infile is required")
		os.Exit(1)
	}
	out := *outfile
	if out == "" {
		out = *infile
	}

	src, err := os.ReadFile(*infile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yopt: %v\n", err)
		os.Exit(1)
	}

	tree := ast.NewTree()
	root, err := sexpr.Read(string(src), tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yopt: %v\n", err)
		os.Exit(1)
	}
	tree.Root = root

	optimizer.Optimize(tree)

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yopt: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := sexpr.Write(f, tree); err != nil {
		fmt.Fprintf(os.Stderr, "yopt: %v\n", err)
		os.Exit(1)
	}
}
