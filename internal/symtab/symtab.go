// Package symtab implements scope-resolution bookkeeping used only while
// parsing: a flat symbol array plus a stack of scope-start marks. It is
// deliberately not retained on the AST tree past parsing — later stages
// rebuild whatever binding they need from each node's own Type field.
package symtab

import (
	"github.com/matlire/BrainrotLang/internal/ast"
	"github.com/matlire/BrainrotLang/internal/types"
)

// Kind classifies a declared symbol.
type Kind uint8

const (
	Func Kind = iota
	Param
	Var
)

// Symbol is one declared name, function, parameter, or local variable.
type Symbol struct {
	Kind   Kind
	NameID int
	Type   types.Type
	Decl   ast.NodeID
}

// Table is a LIFO stack of scopes over a flat symbol array. Pushing a
// scope marks the current length of symbols as that scope's start;
// popping truncates back to the mark, so leaving a scope is O(1) and
// never touches the parent scope's entries.
type Table struct {
	symbols []Symbol
	scopes  []int // each entry is the index into symbols where that scope starts
}

// New returns an empty symbol table with no open scopes.
func New() *Table {
	return &Table{}
}

// PushScope opens a new, empty scope.
func (t *Table) PushScope() {
	t.scopes = append(t.scopes, len(t.symbols))
}

// PopScope closes the innermost scope, discarding every symbol declared
// in it. Panics if called with no open scope; callers always balance
// PushScope/PopScope.
func (t *Table) PopScope() {
	n := len(t.scopes)
	mark := t.scopes[n-1]
	t.scopes = t.scopes[:n-1]
	t.symbols = t.symbols[:mark]
}

// Declare adds a new symbol to the innermost open scope and returns it.
// Callers are expected to have already checked LookupCurrent to enforce
// no-redeclaration-within-scope.
func (t *Table) Declare(kind Kind, nameID int, typ types.Type, decl ast.NodeID) *Symbol {
	t.symbols = append(t.symbols, Symbol{Kind: kind, NameID: nameID, Type: typ, Decl: decl})
	return &t.symbols[len(t.symbols)-1]
}

// LookupCurrent searches only the innermost open scope, returning nil if
// nameID was not declared there. Used to reject redeclaration within a
// single scope while still allowing shadowing of an outer scope.
func (t *Table) LookupCurrent(nameID int) *Symbol {
	if len(t.scopes) == 0 {
		return nil
	}
	mark := t.scopes[len(t.scopes)-1]
	for i := len(t.symbols) - 1; i >= mark; i-- {
		if t.symbols[i].NameID == nameID {
			return &t.symbols[i]
		}
	}
	return nil
}

// Lookup searches from the innermost scope outward, returning the
// nearest enclosing declaration of nameID, or nil if undeclared.
func (t *Table) Lookup(nameID int) *Symbol {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		if t.symbols[i].NameID == nameID {
			return &t.symbols[i]
		}
	}
	return nil
}

// Depth reports the number of currently open scopes.
func (t *Table) Depth() int { return len(t.scopes) }
