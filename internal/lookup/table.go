// Package lookup provides immutable string-to-string tables for the
// station's injected configuration: region codes and title corrections.
package lookup

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// KeyMode controls how keys are compared.
type KeyMode int

const (
	// Exact compares keys byte for byte.
	Exact KeyMode = iota

	// Folded trims keys and compares them case-insensitively.
	Folded
)

// Table is a read-only mapping built once and shared between requests.
// The zero value and a nil *Table are empty tables.
type Table struct {
	mode    KeyMode
	entries map[string]string
}

// New copies entries into a new Table. With Folded, later keys that fold to
// the same value overwrite earlier ones in sorted key order.
func New(entries map[string]string, mode KeyMode) *Table {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &Table{mode: mode, entries: make(map[string]string, len(entries))}
	for _, k := range keys {
		t.entries[t.key(k)] = entries[k]
	}
	return t
}

// FoldKey normalizes s the way a Folded table does.
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func (t *Table) key(k string) string {
	if t.mode == Folded {
		return FoldKey(k)
	}
	return k
}

// Get returns the value stored for key.
func (t *Table) Get(key string) (string, bool) {
	if t == nil || t.entries == nil {
		return "", false
	}
	v, ok := t.entries[t.key(key)]
	return v, ok
}

// Apply returns the value stored for key, or key itself when absent.
func (t *Table) Apply(key string) string {
	if v, ok := t.Get(key); ok {
		return v
	}
	return key
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Keys returns the stored keys in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
