// ylex tokenizes a BrainrotLang source file and prints the resulting
// token stream in a human-readable debug form. It has no .east/.asm/.rot
// counterpart in the on-disk pipeline — lexing and parsing are fused
// into a single source→.east step performed by yparse — so ylex exists
// purely as a standalone diagnostic, the way lang/ya's own stage
// binaries each report their stage's intermediate in -k/-v mode.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/lexer"
	"github.com/matlire/BrainrotLang/internal/nametable"
)

func main() {
	infile := flag.String("infile", "", "source file to tokenize (required)")
	outfile := flag.String("outfile", "", "token dump destination (default: <infile>.lex)")
	flag.Parse()

	if *infile == "" {
		fmt.Fprintln(os.Stderr, "ylex: --infile is required")
		os.Exit(1)
	}
	out := *outfile
	if out == "" {
		out = defaultOutfile(*infile, ".lex")
	}

	src, err := os.ReadFile(*infile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ylex: %v\n", err)
		os.Exit(1)
	}

	names := nametable.New()
	errs := cerr.NewBuffer(src)
	toks := lexer.Tokenize(src, names, errs)
	if errs.HasError() {
		fmt.Fprintln(os.Stderr, errs.Format())
		os.Exit(1)
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ylex: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	for _, t := range toks {
		fmt.Fprintf(f, "%-16s %-16q %s\n", t.Kind, t.Text, t.Pos)
	}
}

func defaultOutfile(infile, newExt string) string {
	for i := len(infile) - 1; i >= 0 && infile[i] != '/'; i-- {
		if infile[i] == '.' {
			return infile[:i] + newExt
		}
	}
	return infile + newExt
}
