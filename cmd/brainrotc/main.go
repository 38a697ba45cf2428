// brainrotc is the umbrella driver: source → yparse → [yopt] → ygen,
// run in-process by default since every stage is an importable package
// (no exec.Command round-trip is needed the way lang/ya shells out to
// separate ylex/yparse/ysem/ygen binaries). Passing -x, or setting
// BRAINROTC_YAPL, switches to subprocess mode against standalone
// yparse/yopt/ygen binaries found via $BRAINROTC_YAPL or PATH,
// mirroring lang/ya's own $YAPL/PATH binary lookup.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/cerr"
	"github.com/matlire/BrainrotLang/internal/codegen"
	"github.com/matlire/BrainrotLang/internal/lexer"
	"github.com/matlire/BrainrotLang/internal/optimizer"
	"github.com/matlire/BrainrotLang/internal/parser"
	"github.com/matlire/BrainrotLang/internal/sexpr"
)

var (
	outputFile = flag.String("o", "", "output assembly file name (default: <source base>.asm)")
	stopAtEast = flag.Bool("S", false, "stop after generating .east (skip optimize/codegen)")
	keepFiles  = flag.Bool("k", false, "keep intermediate .east files")
	verbose    = flag.Bool("v", false, "verbose stage tracing on stderr")
	shellOut   = flag.Bool("x", false, "shell out to standalone stage binaries instead of running in-process")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file.yapl\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "BrainrotLang compiler driver\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	source := flag.Arg(0)

	if *shellOut || os.Getenv("BRAINROTC_YAPL") != "" {
		if err := runSubprocess(source); err != nil {
			fmt.Fprintf(os.Stderr, "brainrotc: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := runInProcess(source); err != nil {
		fmt.Fprintf(os.Stderr, "brainrotc: %v\n", err)
		os.Exit(1)
	}
}

func trace(format string, args ...any) {
	if *verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func baseNoExt(path string) string {
	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	return filepath.Join(dir, strings.TrimSuffix(file, ext))
}

// runInProcess drives yparse→[yopt]→ygen as direct package calls against
// one shared *ast.Tree, writing the intermediate .east to disk only when
// -k or -S asks for it.
func runInProcess(source string) error {
	base := baseNoExt(source)
	eastPath := base + ".east"
	asmPath := *outputFile
	if asmPath == "" {
		asmPath = base + ".asm"
	}

	src, err := os.ReadFile(source)
	if err != nil {
		return err
	}

	trace("parsing %s", source)
	tree := ast.NewTree()
	errs := cerr.NewBuffer(src)
	toks := lexer.Tokenize(src, tree.Names, errs)
	if !errs.HasError() {
		tree.Root = parser.Parse(toks, tree, errs)
	}
	if errs.HasError() {
		return fmt.Errorf("%s", errs.Format())
	}

	if *keepFiles || *stopAtEast {
		trace("writing %s", eastPath)
		if err := writeEast(eastPath, tree); err != nil {
			return err
		}
	}
	if *stopAtEast {
		return nil
	}

	trace("optimizing")
	optimizer.Optimize(tree)

	if *keepFiles {
		optPath := base + ".opt.east"
		trace("writing %s", optPath)
		if err := writeEast(optPath, tree); err != nil {
			return err
		}
	}

	trace("generating %s", asmPath)
	out, err := os.Create(asmPath)
	if err != nil {
		return err
	}
	defer out.Close()

	genErrs := cerr.NewBuffer(src)
	if err := codegen.Generate(tree, out, genErrs); err != nil {
		if genErrs.HasError() {
			return fmt.Errorf("%s", genErrs.Format())
		}
		return err
	}
	return nil
}

func writeEast(path string, tree *ast.Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return sexpr.Write(f, tree)
}

// runSubprocess shells out to standalone yparse/yopt/ygen binaries,
// located via $BRAINROTC_YAPL (one directory holding all stage
// binaries) or PATH, for environments where the stages run as separate
// installed tools rather than linked into this driver.
func runSubprocess(source string) error {
	base := baseNoExt(source)
	eastPath := base + ".east"
	asmPath := *outputFile
	if asmPath == "" {
		asmPath = base + ".asm"
	}

	yparse, err := findStageBinary("yparse")
	if err != nil {
		return err
	}
	trace("running %s", yparse)
	if err := runStage(yparse, "--infile", source, "--outfile", eastPath); err != nil {
		return fmt.Errorf("yparse: %w", err)
	}
	if !*keepFiles && !*stopAtEast {
		defer os.Remove(eastPath)
	}
	if *stopAtEast {
		return nil
	}

	yopt, err := findStageBinary("yopt")
	if err != nil {
		return err
	}
	trace("running %s", yopt)
	if err := runStage(yopt, "--infile", eastPath); err != nil {
		return fmt.Errorf("yopt: %w", err)
	}

	ygen, err := findStageBinary("ygen")
	if err != nil {
		return err
	}
	trace("running %s", ygen)
	if err := runStage(ygen, "--infile", eastPath, "--outfile", asmPath); err != nil {
		return fmt.Errorf("ygen: %w", err)
	}
	return nil
}

func findStageBinary(name string) (string, error) {
	if dir := os.Getenv("BRAINROTC_YAPL"); dir != "" {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("compiler component %s not found at %s", name, path)
		}
		return path, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("compiler component %s not found in PATH (set BRAINROTC_YAPL to specify location)", name)
	}
	return path, nil
}

func runStage(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
