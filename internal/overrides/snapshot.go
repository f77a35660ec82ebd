package overrides

// Snapshot is the immutable last-known-persisted override state used as the
// diff baseline. A Snapshot is never mutated; saves and imports replace it
// with a new one.
type Snapshot struct {
	values map[string]string
}

// NewSnapshot copies a flat map into an immutable baseline. Empty values are
// dropped; absence is the baseline representation of "no override".
func NewSnapshot(m map[string]string) Snapshot {
	values := make(map[string]string, len(m))
	for k, v := range m {
		if v == "" {
			continue
		}
		values[k] = v
	}
	return Snapshot{values: values}
}

// EmptySnapshot returns a baseline with no overrides, the starting state for
// a newly created betting pool.
func EmptySnapshot() Snapshot {
	return Snapshot{values: map[string]string{}}
}

// Get returns the baseline value for a key.
func (s Snapshot) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of baseline overrides.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Keys returns the baseline keys.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// FlatMap returns a copy of the baseline as a flat map.
func (s Snapshot) FlatMap() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// AppliedEntry is the key-level record of one persisted change, used to
// advance the baseline after a save.
type AppliedEntry struct {
	Key     string
	Value   string
	Cleared bool
}

// Advance returns a new Snapshot with the given persisted entries applied on
// top of this baseline. Only entries that actually reached the backend should
// be passed in: after a partial save the failed portion must stay diffable.
func (s Snapshot) Advance(applied []AppliedEntry) Snapshot {
	next := s.FlatMap()
	for _, e := range applied {
		if e.Cleared {
			delete(next, e.Key)
			continue
		}
		next[e.Key] = e.Value
	}
	return Snapshot{values: next}
}
