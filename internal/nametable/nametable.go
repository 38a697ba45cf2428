// Package nametable implements the identifier-interning store shared by
// the lexer and AST tree: identifier text maps to a stable numeric id,
// assigned in insertion order.
package nametable

// NoID is the sentinel "no id" value (the source's SIZE_MAX).
const NoID = -1

type entry struct {
	text string
	hash uint64
}

// Table interns identifier text to small integer ids. The zero value is
// not usable; construct with New.
type Table struct {
	entries []entry
	buckets map[uint64][]int
}

// New returns an empty name table.
func New() *Table {
	return &Table{buckets: make(map[uint64][]int)}
}

// sdbm is the hash used by the original lexer's name table: a running
// polynomial hash over raw bytes.
func sdbm(s string) uint64 {
	var hash uint64
	for i := 0; i < len(s); i++ {
		c := uint64(s[i])
		hash = c + (hash << 6) + (hash << 16) - hash
	}
	return hash
}

// Insert interns text, returning its existing id if text was already
// interned (by hash, then full-string equality), or a new id otherwise.
func (t *Table) Insert(text string) int {
	h := sdbm(text)
	for _, id := range t.buckets[h] {
		if t.entries[id].text == text {
			return id
		}
	}
	id := len(t.entries)
	t.entries = append(t.entries, entry{text: text, hash: h})
	t.buckets[h] = append(t.buckets[h], id)
	return id
}

// Get returns the text previously interned under id. Panics if id is out
// of range; callers only ever pass ids this table itself produced.
func (t *Table) Get(id int) string {
	return t.entries[id].text
}

// Len returns the number of distinct interned identifiers.
func (t *Table) Len() int { return len(t.entries) }
