package overrides

import (
	"log"
	"strconv"

	"github.com/bancalot/pool-admin-backend/internal/models"
)

// DiffOptions configures a change-set computation.
type DiffOptions struct {
	Decode DecodeOptions

	// OnlyDrawID restricts the diff to a single draw's keys. Per-tab saves
	// use this so a partial save and a later full save stay consistent.
	OnlyDrawID *int
}

// ComputeChangeSet compares the working store against the baseline snapshot
// and returns the minimal set of edits, partitioned by scope and grouped by
// draw. An unchanged store yields an empty change-set, which callers treat
// as "nothing to persist".
//
// Two values are compared numerically when both parse as floats, so "60"
// versus "60.0" is not a change. Keys that fail to decode are logged and
// dropped; a malformed key must never break the save path.
func ComputeChangeSet(store *Store, baseline Snapshot, opts DiffOptions) *models.ChangeSet {
	cs := models.NewChangeSet()

	emit := func(key, value string, cleared bool) {
		coord, err := Decode(key, opts.Decode)
		if err != nil {
			log.Printf("diff: dropping undecodable key %q: %v", key, err)
			return
		}
		if opts.OnlyDrawID != nil {
			if coord.Scope.IsGeneral() || coord.Scope.DrawID != *opts.OnlyDrawID {
				return
			}
		}
		cs.Add(models.OverrideEntry{Coordinate: coord, Value: value, Cleared: cleared})
	}

	for key, current := range store.ToFlatMap() {
		base, had := baseline.Get(key)
		if had && numericallyEqual(current, base) {
			continue
		}
		emit(key, current, false)
	}

	// Explicit clears count only when the baseline actually held a value;
	// clearing something that was never persisted is a no-op.
	for _, key := range store.ClearedKeys() {
		if _, had := baseline.Get(key); !had {
			continue
		}
		emit(key, "", true)
	}

	return cs
}

// numericallyEqual compares two raw values as floats when both parse, and
// byte-wise otherwise.
func numericallyEqual(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return a == b
}
