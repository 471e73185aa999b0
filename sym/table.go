package sym

import "sync"

// Sym is an interned identifier. The zero Sym is never produced by
// Table.Intern; it is reserved as an "absent" sentinel so maps keyed by
// Sym can use 0 as a not-present marker where that is convenient.
type Sym uint32

// Table interns strings to Sym values and back. A Table is safe for
// concurrent use: multiple evaluators sharing a builtin registry (which
// carries pre-interned canonical names) may intern identifiers from
// distinct scripts concurrently.
type Table struct {
	mu      sync.RWMutex
	toSym   map[string]Sym
	toStr   []string // index i holds the string for Sym(i+1)
}

// NewTable returns an empty interning table.
func NewTable() *Table {
	return &Table{
		toSym: make(map[string]Sym, 64),
		toStr: make([]string, 0, 64),
	}
}

// Intern returns the Sym for s, creating one if s has not been seen
// before. Interning is idempotent: repeated calls with the same string
// return the same Sym.
func (t *Table) Intern(s string) Sym {
	t.mu.RLock()
	if id, ok := t.toSym[s]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	// Re-check under the write lock: another goroutine may have interned
	// s between the RUnlock above and acquiring the write lock.
	if id, ok := t.toSym[s]; ok {
		return id
	}
	t.toStr = append(t.toStr, s)
	id := Sym(len(t.toStr))
	t.toSym[s] = id
	return id
}

// Lookup returns the string for sym and true, or ("", false) if sym was
// never interned by this table.
func (t *Table) Lookup(s Sym) (string, bool) {
	if s == 0 {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx := int(s) - 1
	if idx < 0 || idx >= len(t.toStr) {
		return "", false
	}
	return t.toStr[idx], true
}

// MustLookup is Lookup without the ok return, for call sites that already
// know sym was produced by this table (e.g. printing an error about a
// Sym that was just read out of an AST node interned by the same table).
func (t *Table) MustLookup(s Sym) string {
	str, _ := t.Lookup(s)
	return str
}

// Len returns the number of distinct strings interned so far.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.toStr)
}
