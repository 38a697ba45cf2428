// yrot reads a serialized .east AST and unparses it back to BrainrotLang
// source text — the .east→source reverse leg of the pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/sexpr"
	"github.com/matlire/BrainrotLang/internal/unparser"
)

func main() {
	infile := flag.String("infile", "", "serialized .east file to unparse (required)")
	outfile := flag.String("outfile", "", "source destination (default: <infile base>.rot)")
	flag.Parse()

	if *infile == "" {
		fmt.Fprintln(os.Stderr, "yrot: --infile is required")
		os.Exit(1)
	}
	out := *outfile
	if out == "" {
		out = replaceExt(*infile, ".rot")
	}

	src, err := os.ReadFile(*infile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yrot: %v\n", err)
		os.Exit(1)
	}

	tree := ast.NewTree()
	root, err := sexpr.Read(string(src), tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yrot: %v\n", err)
		os.Exit(1)
	}
	tree.Root = root

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yrot: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := unparser.Write(f, tree); err != nil {
		fmt.Fprintf(os.Stderr, "yrot: %v\n", err)
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
