// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package intern

import "sync"

// ID is a compact handle for an interned string. Ids start at 0 for the
// first interned string; NullID marks an absent string at call sites.
type ID int32

// NullID denotes an absent/null interned string (used by the cache's
// string-table index convention, spec §3: "index -1 denotes null").
const NullID ID = -1

// Table interns strings to stable integer ids, amortised O(1) per
// operation, and resolves ids back to strings. Safe for concurrent use
// by multiple extractor goroutines.
type Table struct {
	mu      sync.RWMutex
	byID    []string
	byValue map[string]ID
}

// New returns an empty Table.
func New() *Table {
	return &Table{byValue: map[string]ID{}}
}

// Intern returns s's id, assigning a new one on first occurrence.
// Idempotent: interning the same string twice returns the same id.
func (t *Table) Intern(s string) ID {
	t.mu.RLock()
	if id, ok := t.byValue[s]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byValue[s]; ok {
		return id
	}
	id := ID(len(t.byID))
	t.byID = append(t.byID, s)
	t.byValue[s] = id
	return id
}

// Resolve returns the string for id, or "" and false if id is out of
// range or NullID.
func (t *Table) Resolve(id ID) (string, bool) {
	if id == NullID || id < 0 {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.byID) {
		return "", false
	}
	return t.byID[id], true
}

// Len returns the number of distinct strings interned so far.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// Strings returns the full table in id order (id 0 first), the shape
// the binary cache's StringTable section serialises verbatim.
func (t *Table) Strings() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.byID))
	copy(out, t.byID)
	return out
}

// FromStrings rebuilds a Table from a previously serialised string
// table, in the same order it was written, so ids (positions) match.
func FromStrings(strs []string) *Table {
	t := &Table{byID: append([]string(nil), strs...), byValue: make(map[string]ID, len(strs))}
	for i, s := range t.byID {
		t.byValue[s] = ID(i)
	}
	return t
}
