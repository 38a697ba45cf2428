// yparse lexes and parses a BrainrotLang source file, performing full
// lexical-scope resolution, and serializes the resulting AST to an
// .east S-expression file — the source→.east leg of the pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/lexer"
	"github.com/matlire/BrainrotLang/internal/parser"
	"github.com/matlire/BrainrotLang/internal/sexpr"
)

func main() {
	infile := flag.String("infile", "", "source file to parse (required)")
	outfile := flag.String("outfile", "", "serialized .east destination (default: <infile base>.east)")
	flag.Parse()

	if *infile == "" {
		fmt.Fprintln(os.Stderr, "yparse: --infile is required")
		os.Exit(1)
	}
	out := *outfile
	if out == "" {
		out = replaceExt(*infile, ".east")
	}

	src, err := os.ReadFile(*infile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yparse: %v\n", err)
		os.Exit(1)
	}

	tree := ast.NewTree()
	errs := cerr.NewBuffer(src)
	toks := lexer.Tokenize(src, tree.Names, errs)
	if !errs.HasError() {
		tree.Root = parser.Parse(toks, tree, errs)
	}
	if errs.HasError() {
		fmt.Fprintln(os.Stderr, errs.Format())
		os.Exit(1)
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yparse: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := sexpr.Write(f, tree); err != nil {
		fmt.Fprintf(os.Stderr, "yparse: %v\n", err)
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
