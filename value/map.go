package value

// Map is the shared handle a `Map` Value wraps: a string-keyed mapping
// to Value. Like Mesh, Sequence, and Callable, it is
// mutated only via clone-on-write; Map itself never mutates in place
// once shared, so With always operates on (and returns) an owned copy.
type Map struct {
	entries map[string]Value
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// NewMapFrom returns a Map pre-populated from entries, taking ownership
// of the supplied map (callers must not mutate it afterward).
func NewMapFrom(entries map[string]Value) *Map {
	if entries == nil {
		entries = make(map[string]Value)
	}
	return &Map{entries: entries}
}

// Get returns the value at key and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Each calls fn for every entry, in unspecified order (Go map
// iteration order), matching the host language having no stable map
// ordering guarantee.
func (m *Map) Each(fn func(key string, v Value)) {
	for k, v := range m.entries {
		fn(k, v)
	}
}

// Clone returns an independent copy whose entries can be mutated
// without affecting the receiver.
func (m *Map) Clone() *Map {
	out := make(map[string]Value, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return &Map{entries: out}
}

// With returns a clone of m with key set to v, leaving m unmodified —
// the clone-on-write path a builtin like a hypothetical `map_set` would
// use.
func (m *Map) With(key string, v Value) *Map {
	clone := m.Clone()
	clone.entries[key] = v
	return clone
}

// Keys returns the Map's keys in unspecified order.
func (m *Map) Keys() []string {
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}
