// Package symtab implements the ADS service's symbol table, the typed
// memory model grouped by index-group, and the per-client handle table.
package symtab

import (
	"sort"
	"strings"
	"sync"

	"github.com/adsim/adsim/adscore"
)

// Variable is one declared symbol: a canonical name, its data type, and its
// window (index_group, index_offset, size) inside that group's memory
// buffer. Symbols are declared at service start from configuration and are
// immutable thereafter.
type Variable struct {
	Name        string
	Comment     string
	DataType    adscore.DataType
	IndexGroup  uint32
	IndexOffset uint32
	Size        uint32
	ArrayLen    uint32 // 0 = scalar
}

// TypeName returns the symbol's declared IEC-style element type name, e.g.
// "INT32". Arrays report the same element type name, with no array suffix.
func (v Variable) TypeName() string {
	if v.ArrayLen == 0 {
		return v.DataType.String()
	}
	return v.DataType.String()
}

type entry struct {
	v    Variable
	seq  int // insertion order, for SymUpload tie-breaking
}

// Table is the case-insensitive, ordered symbol table of a single service.
type Table struct {
	mu      sync.RWMutex
	byName  map[string]*entry // canonical-folded name -> entry
	seq     int
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*entry)}
}

func foldName(name string) string {
	return strings.ToLower(name)
}

// Declare adds a variable to the table. Declare is only called at service
// start; the table is immutable at runtime thereafter.
func (t *Table) Declare(v Variable) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byName[foldName(v.Name)] = &entry{v: v, seq: t.seq}
	t.seq++
}

// Lookup resolves a bare variable name (no array-index suffix),
// case-insensitively.
func (t *Table) Lookup(name string) (Variable, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.byName[foldName(name)]
	if !ok {
		return Variable{}, false
	}
	return e.v, true
}

// All returns every declared variable ordered by (index_group, index_offset)
// ascending, ties broken by original insertion order. This ordering backs
// the SymUpload response.
func (t *Table) All() []Variable {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]*entry, 0, len(t.byName))
	for _, e := range t.byName {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.v.IndexGroup != b.v.IndexGroup {
			return a.v.IndexGroup < b.v.IndexGroup
		}
		if a.v.IndexOffset != b.v.IndexOffset {
			return a.v.IndexOffset < b.v.IndexOffset
		}
		return a.seq < b.seq
	})

	vars := make([]Variable, len(entries))
	for i, e := range entries {
		vars[i] = e.v
	}
	return vars
}

// Len returns the number of declared variables.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byName)
}
