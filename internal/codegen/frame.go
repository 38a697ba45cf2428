package codegen

import "github.com/matlire/BrainrotLang/internal/types"

// binding is one active local/parameter: its BP-relative frame offset
// and declared type.
type binding struct {
	nameID int
	offset int
	typ    types.Type
}

// frame is the per-function scope stack used while emitting: same
// push/pop-scope discipline as symtab.Table, but carrying a frame
// offset instead of a declaration node, and a slot counter that never
// rewinds on PopScope — frame offsets are assigned once, in declaration
// order, for the lifetime of the function (see spec: "local variables
// are assigned in declaration order as they are encountered", not
// reused once their block exits).
type frame struct {
	syms     []binding
	scopes   []int
	nextSlot int
}

func newFrame() *frame {
	return &frame{}
}

func (f *frame) pushScope() {
	f.scopes = append(f.scopes, len(f.syms))
}

func (f *frame) popScope() {
	n := len(f.scopes)
	mark := f.scopes[n-1]
	f.scopes = f.scopes[:n-1]
	f.syms = f.syms[:mark]
}

// declare binds nameID at the next free slot and returns the offset
// assigned.
func (f *frame) declare(nameID int, typ types.Type) int {
	off := f.nextSlot
	f.nextSlot++
	f.syms = append(f.syms, binding{nameID: nameID, offset: off, typ: typ})
	return off
}

// declareAt binds nameID at an explicit offset (used for parameters,
// whose offsets are 1..param_count rather than drawn from nextSlot).
func (f *frame) declareAt(nameID int, offset int, typ types.Type) {
	f.syms = append(f.syms, binding{nameID: nameID, offset: offset, typ: typ})
}

// lookup finds the innermost binding of nameID, searching outward.
func (f *frame) lookup(nameID int) (binding, bool) {
	for i := len(f.syms) - 1; i >= 0; i-- {
		if f.syms[i].nameID == nameID {
			return f.syms[i], true
		}
	}
	return binding{}, false
}
