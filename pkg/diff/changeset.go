package diff

import (
	"fmt"
	"strings"

	"github.com/prontoxi/pricesync/pkg/snapshot"
)

// Flags is the set of per-field differences recorded against one item.
type Flags uint8

// Change flags. Added and Removed are exclusive of the field flags;
// Unchanged is only set when nothing else is.
const (
	Added Flags = 1 << iota
	Removed
	PriceChanged
	CostChanged
	GtinStatusChanged
	Unchanged
)

// Has reports whether all of the given flags are set.
func (f Flags) Has(flags Flags) bool { return f&flags == flags }

// String returns the set flags as a comma-separated list.
func (f Flags) String() string {
	var names []string
	for _, e := range []struct {
		flag Flags
		name string
	}{
		{Added, "added"},
		{Removed, "removed"},
		{PriceChanged, "price_changed"},
		{CostChanged, "cost_changed"},
		{GtinStatusChanged, "gtin_status_changed"},
		{Unchanged, "unchanged"},
	} {
		if f.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Change records everything that happened to one item code between the
// baseline and the current run. Old is nil for added items, New is nil
// for removed items.
type Change struct {
	ItemCode   string // folded
	Flags      Flags
	Old        *snapshot.ItemState
	New        *snapshot.ItemState
	CostDeltas []CostDelta
}

// State returns the current state for live items, falling back to the
// last known state for removed ones.
func (c Change) State() snapshot.ItemState {
	if c.New != nil {
		return *c.New
	}
	if c.Old != nil {
		return *c.Old
	}
	return snapshot.ItemState{}
}

// Summary counts changes by kind. Unchanged is counted too so the
// totals reconcile against the catalog size.
type Summary struct {
	Added             int
	Removed           int
	PriceChanged      int
	CostChanged       int
	GtinStatusChanged int
	Unchanged         int
	Total             int
}

// String returns a one-line summary for logs.
func (s Summary) String() string {
	return fmt.Sprintf("%d items: %d added, %d removed, %d price, %d cost, %d gtin, %d unchanged",
		s.Total, s.Added, s.Removed, s.PriceChanged, s.CostChanged, s.GtinStatusChanged, s.Unchanged)
}

// Changeset is the ordered result of one diff.
type Changeset struct {
	Changes []Change
	Summary Summary
}

// add appends a change and folds it into the summary. Diff feeds codes
// in sorted order, so Changes stays sorted.
func (cs *Changeset) add(c Change) {
	cs.Changes = append(cs.Changes, c)
	cs.Summary.Total++
	if c.Flags.Has(Added) {
		cs.Summary.Added++
	}
	if c.Flags.Has(Removed) {
		cs.Summary.Removed++
	}
	if c.Flags.Has(PriceChanged) {
		cs.Summary.PriceChanged++
	}
	if c.Flags.Has(CostChanged) {
		cs.Summary.CostChanged++
	}
	if c.Flags.Has(GtinStatusChanged) {
		cs.Summary.GtinStatusChanged++
	}
	if c.Flags.Has(Unchanged) {
		cs.Summary.Unchanged++
	}
}

// HasChanges reports whether anything other than unchanged items was
// recorded.
func (cs *Changeset) HasChanges() bool {
	return cs.Summary.Total > cs.Summary.Unchanged
}

// ByFlag returns the changes carrying all of the given flags, in item
// code order.
func (cs *Changeset) ByFlag(flags Flags) []Change {
	var out []Change
	for _, c := range cs.Changes {
		if c.Flags.Has(flags) {
			out = append(out, c)
		}
	}
	return out
}
