package overrides

import (
	"fmt"
	"log"
	"regexp"

	"github.com/bancalot/pool-admin-backend/internal/models"
)

// Values stay raw strings so in-progress decimal entry ("60.", "-") survives
// round trips through form state. Parsing to float happens at save time only.
var validValue = regexp.MustCompile(`^-?[0-9]*(\.[0-9]*)?$`)

// Store is the sparse in-memory override map for one betting pool, spanning
// the general scope and every draw touched so far. Keys are the flat codec
// keys; the Store itself never interprets them.
//
// Clearing a previously set value is kept as an explicit cleared entry rather
// than deleting the key, so the diff engine can tell "cleared back to absent"
// apart from "never touched". Cleared markers live until the next save
// boundary replaces the baseline.
type Store struct {
	values  map[string]string
	cleared map[string]struct{}
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		values:  make(map[string]string),
		cleared: make(map[string]struct{}),
	}
}

// Get returns the value at a coordinate. ok is false when the coordinate is
// absent, which covers both "never set" and "explicitly cleared".
func (s *Store) Get(c models.OverrideCoordinate) (string, bool) {
	return s.GetKey(Encode(c))
}

// GetKey is Get for callers that already hold the flat key.
func (s *Store) GetKey(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set writes a value at a coordinate. Empty values are normalized to absent:
// if the key was previously set this records an explicit clear, otherwise it
// is a no-op. Non-empty values must match the accepted numeric pattern.
func (s *Store) Set(c models.OverrideCoordinate, value string) error {
	return s.SetKey(Encode(c), value)
}

// SetKey is Set for callers that already hold the flat key.
func (s *Store) SetKey(key, value string) error {
	if value == "" {
		s.ClearKey(key)
		return nil
	}
	if !validValue.MatchString(value) {
		return fmt.Errorf("invalid override value %q for key %q", value, key)
	}
	delete(s.cleared, key)
	s.values[key] = value
	return nil
}

// Clear marks a coordinate as explicitly absent.
func (s *Store) Clear(c models.OverrideCoordinate) {
	s.ClearKey(Encode(c))
}

// ClearKey marks a flat key as explicitly absent. Keys that were never set
// are left untouched; there is nothing to clear.
func (s *Store) ClearKey(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.cleared[key] = struct{}{}
}

// Cleared reports whether a key holds an explicit cleared marker.
func (s *Store) Cleared(key string) bool {
	_, ok := s.cleared[key]
	return ok
}

// ClearedKeys returns the keys currently marked cleared.
func (s *Store) ClearedKeys() []string {
	keys := make([]string, 0, len(s.cleared))
	for k := range s.cleared {
		keys = append(keys, k)
	}
	return keys
}

// CommitCleared forgets cleared markers for keys whose removal has been
// persisted. Called at the save boundary, after the baseline advanced.
func (s *Store) CommitCleared(keys []string) {
	for _, k := range keys {
		delete(s.cleared, k)
	}
}

// Len returns the number of present (non-cleared) values.
func (s *Store) Len() int {
	return len(s.values)
}

// ToFlatMap serializes the present values for external form state. Cleared
// markers are not part of the flat map; they are a diff-time concept.
func (s *Store) ToFlatMap() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// FromFlatMap builds a Store from external form state, applying the same
// normalization as Set. Invalid values are skipped and reported.
func FromFlatMap(m map[string]string) (*Store, []error) {
	s := NewStore()
	var errs []error
	for k, v := range m {
		if err := s.SetKey(k, v); err != nil {
			errs = append(errs, err)
		}
	}
	return s, errs
}

// Merge applies another flat map on top of the store, used when lazily
// loaded per-draw values arrive. Existing user edits win over merged values.
// Invalid values are logged and skipped; a bad backend value must not break
// the rest of the merge.
func (s *Store) Merge(m map[string]string, overwrite bool) {
	for k, v := range m {
		if !overwrite {
			if _, ok := s.values[k]; ok {
				continue
			}
			if s.Cleared(k) {
				continue
			}
		}
		if err := s.SetKey(k, v); err != nil {
			log.Printf("store: dropping merged value: %v", err)
		}
	}
}
