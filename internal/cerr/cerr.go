// Package cerr implements the error taxonomy and the shared operational
// buffer described by the compiler's error handling design: every stage
// reports through the same (position, message) slot, first error wins,
// and the driver is the one that formats it with source context.
package cerr

import (
	"fmt"
	"strings"

	"github.com/matlire/BrainrotLang/internal/token"
)

// Kind is the error taxonomy. It classifies *why* a stage failed, not
// which stage failed.
type Kind uint8

const (
	Ok Kind = iota
	BadArgument
	Allocation
	Corrupt
	Syntax
)

func (k Kind) String() string {
	switch k {
	case BadArgument:
		return "BadArgument"
	case Allocation:
		return "Allocation"
	case Corrupt:
		return "Corrupt"
	case Syntax:
		return "Syntax"
	default:
		return "Ok"
	}
}

// Error is a single positioned compiler diagnostic.
type Error struct {
	Kind Kind
	Pos  token.Pos
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Pos)
}

// Buffer is the shared operational state threaded through a single
// compiler stage: the source bytes being processed, plus a "first error
// wins" slot. It is owned by the driver, not by any one stage; every
// stage the driver hands the same Buffer to reports through its one slot.
type Buffer struct {
	Source []byte

	kind    Kind
	pos     token.Pos
	msg     string
	hasErr  bool
}

// NewBuffer wraps source for error reporting.
func NewBuffer(source []byte) *Buffer {
	return &Buffer{Source: source}
}

// Report records an error at pos if, and only if, no error has been
// recorded yet. Later errors within the same stage are suppressed so the
// first one is never clobbered.
func (b *Buffer) Report(kind Kind, pos token.Pos, format string, args ...any) {
	if b.hasErr {
		return
	}
	b.hasErr = true
	b.kind = kind
	b.pos = pos
	b.msg = fmt.Sprintf(format, args...)
}

// HasError reports whether an error has been recorded.
func (b *Buffer) HasError() bool { return b.hasErr }

// Err returns the recorded error, or nil if none was reported.
func (b *Buffer) Err() *Error {
	if !b.hasErr {
		return nil
	}
	return &Error{Kind: b.kind, Pos: b.pos, Msg: b.msg}
}

// Format renders the recorded error as a single message line followed by
// the offending source line and a caret under the error's byte offset,
// matching the driver's user-visible error contract. Returns "" if no
// error was recorded.
func (b *Buffer) Format() string {
	if !b.hasErr {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at %s\n", b.msg, b.pos)

	lineStart, lineEnd := lineBounds(b.Source, b.pos.Offset)
	sb.Write(b.Source[lineStart:lineEnd])
	sb.WriteByte('\n')

	col := b.pos.Offset - lineStart
	if col < 0 {
		col = 0
	}
	sb.WriteString(strings.Repeat(" ", col))
	sb.WriteByte('^')
	return sb.String()
}

// lineBounds returns the [start, end) byte range of the line containing
// offset, excluding the trailing newline.
func lineBounds(src []byte, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return start, end
}
