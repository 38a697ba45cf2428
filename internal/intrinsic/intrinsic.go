// Package intrinsic holds the closed set of names the parser and code
// generator recognize as builtin functions without requiring a
// declaration: I/O, framebuffer, and output intrinsics, each resolved
// directly by name rather than through the symbol table.
package intrinsic

import "github.com/matlire/BrainrotLang/internal/types"

// Signature records an intrinsic call's arity and result type. The
// parser only checks that a called name is in Names; it does not check a
// call's argument count against Argc.
type Signature struct {
	Argc     int
	RetType  types.Type
	Variadic bool // false for every intrinsic in Names
}

// Names is every recognized intrinsic spelling, including the
// Brainrot-slang aliases, mapped to its arity/return-type signature.
// Grouped by the alias set it belongs to (formal vs. slang), both wired
// to the same underlying opcode in codegen.
var Names = map[string]Signature{
	// input, formal + slang aliases
	"in":  {Argc: 0, RetType: types.Int},
	"fin": {Argc: 0, RetType: types.Float},
	"cin": {Argc: 0, RetType: types.Int},

	"cap":    {Argc: 0, RetType: types.Int},
	"nocap":  {Argc: 0, RetType: types.Float},
	"stinky": {Argc: 0, RetType: types.Int},

	// framebuffer control, formal + slang aliases
	"draw":     {Argc: 0, RetType: types.Void},
	"clean_vm": {Argc: 0, RetType: types.Void},

	"gyat":    {Argc: 0, RetType: types.Void},
	"skibidi": {Argc: 0, RetType: types.Void},

	// output, formal + slang aliases; result type mirrors what was printed
	"out":  {Argc: 1, RetType: types.Int},
	"fout": {Argc: 1, RetType: types.Float},
	"cout": {Argc: 1, RetType: types.Int},

	"pookie": {Argc: 1, RetType: types.Int},
	"rizz":   {Argc: 1, RetType: types.Float},
	"menace": {Argc: 1, RetType: types.Int},

	// framebuffer write
	"set_pixel": {Argc: 3, RetType: types.Void},
}

// IsFloatInput reports whether name is a float-returning input intrinsic
// (fin/nocap).
func IsFloatInput(name string) bool {
	return name == "fin" || name == "nocap"
}

// IsIntInput reports whether name is an int-returning input intrinsic
// (in/cap/cin/stinky).
func IsIntInput(name string) bool {
	switch name {
	case "in", "cap", "cin", "stinky":
		return true
	}
	return false
}

// IsDraw reports whether name triggers a framebuffer DRAW.
func IsDraw(name string) bool { return name == "draw" || name == "gyat" }

// IsCleanVM reports whether name triggers a framebuffer CLEANVM.
func IsCleanVM(name string) bool { return name == "clean_vm" || name == "skibidi" }

// IsSetPixel reports whether name is the 3-argument framebuffer write.
func IsSetPixel(name string) bool { return name == "set_pixel" }

// IsFloatOutput reports whether name is a float-taking output intrinsic
// (fout/rizz).
func IsFloatOutput(name string) bool { return name == "fout" || name == "rizz" }

// IsCharOutput reports whether name prints through the char-output opcode
// (cout/menace) rather than the plain int TOPOUT (out/pookie).
func IsCharOutput(name string) bool { return name == "cout" || name == "menace" }

// ScreenWidth is the framebuffer row stride used by set_pixel's address
// arithmetic: addr = y*ScreenWidth + x.
const ScreenWidth = 128
