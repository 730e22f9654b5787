// Package atom interns identifier strings into small integer handles.
//
// Every Table is scoped to a single compiler instance; two atoms from
// different tables must never be compared. Equality of identifiers
// reduces to equality of their Atom handles.
package atom

import "sync"

// Atom is an interned identifier handle. The zero value is not a valid
// atom; Table.Intern never returns it.
type Atom uint32

// invalid is reserved so the zero value of Atom can act as a sentinel.
const invalid Atom = 0

// Table interns strings to Atoms and back. Every method holds the
// Table's own mutex, so one Table may be used from several goroutines.
type Table struct {
	mu      sync.Mutex
	strings []string
	index   map[string]Atom
}

// New creates an empty atom table.
func New() *Table {
	return &Table{
		strings: make([]string, 1, 64), // index 0 reserved for `invalid`
		index:   make(map[string]Atom, 64),
	}
}

// Intern returns the Atom for s, allocating a new handle the first
// time s is seen.
func (t *Table) Intern(s string) Atom {
	t.mu.Lock()
	defer t.mu.Unlock()

	if a, ok := t.index[s]; ok {
		return a
	}
	a := Atom(len(t.strings))
	t.strings = append(t.strings, s)
	t.index[s] = a
	return a
}

// String returns the interned string for a, or "" if a is invalid or
// unknown to this table.
func (t *Table) String(a Atom) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if int(a) <= 0 || int(a) >= len(t.strings) {
		return ""
	}
	return t.strings[a]
}

// Len reports how many distinct atoms have been interned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.strings) - 1
}

// Valid reports whether a was produced by this table (and is not the
// zero-value sentinel).
func (t *Table) Valid(a Atom) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(a) > 0 && int(a) < len(t.strings)
}
