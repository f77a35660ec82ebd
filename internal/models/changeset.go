package models

// ChangeSet is the minimal set of edits between the working override store
// and the baseline snapshot, partitioned by scope. Draw-scope entries are
// grouped by draw so the save path can batch them into one request.
// A ChangeSet is ephemeral: computed before each save, discarded after.
type ChangeSet struct {
	General []OverrideEntry         `json:"general"`
	ByDraw  map[int][]OverrideEntry `json:"byDraw"`
}

// NewChangeSet returns an empty change-set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{ByDraw: make(map[int][]OverrideEntry)}
}

// Add appends an entry to the bucket its scope selects.
func (cs *ChangeSet) Add(entry OverrideEntry) {
	if entry.Coordinate.Scope.IsGeneral() {
		cs.General = append(cs.General, entry)
		return
	}
	drawID := entry.Coordinate.Scope.DrawID
	cs.ByDraw[drawID] = append(cs.ByDraw[drawID], entry)
}

// Size returns the total number of entries across all buckets.
func (cs *ChangeSet) Size() int {
	n := len(cs.General)
	for _, entries := range cs.ByDraw {
		n += len(entries)
	}
	return n
}

// Empty reports whether the change-set carries no edits.
func (cs *ChangeSet) Empty() bool {
	return cs.Size() == 0
}

// DrawIDs returns the draws touched by this change-set.
func (cs *ChangeSet) DrawIDs() []int {
	ids := make([]int, 0, len(cs.ByDraw))
	for id := range cs.ByDraw {
		ids = append(ids, id)
	}
	return ids
}

// PersistResult aggregates the outcome of persisting a change-set.
// Batches fail independently; a partial failure leaves Successful and
// Failed both non-zero. Applied lists the entries that were actually
// persisted so the caller can advance the baseline for just those.
type PersistResult struct {
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Errors     []string        `json:"errors,omitempty"`
	Applied    []OverrideEntry `json:"-"`
}
