// Package diff compares the current run's resolved item states against
// the committed baseline snapshot. The comparison is pure: it reads
// both snapshots, mutates neither, and always emits changes in sorted
// item code order so two identical runs produce identical output.
package diff

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/prontoxi/pricesync/pkg/pronto"
	"github.com/prontoxi/pricesync/pkg/snapshot"
)

// Engine computes changesets between snapshots.
type Engine struct{}

// New creates a diff engine.
func New() *Engine {
	return &Engine{}
}

// Diff partitions the item codes of both snapshots into added, removed
// and retained, compares the retained states field by field, and
// returns one Change per item code.
func (e *Engine) Diff(old, current snapshot.Snapshot) *Changeset {
	cs := &Changeset{}

	codes := unionCodes(old, current)
	for _, code := range codes {
		oldState, inOld := old[code]
		newState, inNew := current[code]

		change := Change{ItemCode: code}
		switch {
		case inNew && !inOld:
			state := newState
			change.Flags = Added
			change.New = &state
		case inOld && !inNew:
			state := oldState
			change.Flags = Removed
			change.Old = &state
		default:
			o, n := oldState, newState
			change.Old = &o
			change.New = &n
			change.Flags, change.CostDeltas = compare(oldState, newState)
		}

		cs.add(change)
	}

	return cs
}

// compare flags the field-level differences between two states of the
// same item.
func compare(old, current snapshot.ItemState) (Flags, []CostDelta) {
	var flags Flags

	if old.Unpriced != current.Unpriced || !old.UnitPrice.Equal(current.UnitPrice) {
		flags |= PriceChanged
	}
	if old.HasGTIN != current.HasGTIN {
		flags |= GtinStatusChanged
	}

	deltas := costDeltas(old, current)
	if len(deltas) > 0 {
		flags |= CostChanged
	}

	if flags == 0 {
		flags = Unchanged
	}
	return flags, deltas
}

// costDeltas lines up both states' per-supplier costs. A supplier link
// that appears or disappears is a delta too.
func costDeltas(old, current snapshot.ItemState) []CostDelta {
	suppliers := make(map[string]string)
	for _, c := range old.Costs {
		suppliers[pronto.Key(c.Supplier)] = c.Supplier
	}
	for _, c := range current.Costs {
		suppliers[pronto.Key(c.Supplier)] = c.Supplier
	}

	keys := make([]string, 0, len(suppliers))
	for k := range suppliers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var deltas []CostDelta
	for _, key := range keys {
		oldCost, hadOld := old.CostFor(key)
		newCost, hasNew := current.CostFor(key)
		if hadOld && hasNew && oldCost.Equal(newCost) {
			continue
		}
		delta := CostDelta{Supplier: suppliers[key], HadOld: hadOld, HasNew: hasNew}
		if hadOld {
			delta.Old = oldCost
		}
		if hasNew {
			delta.New = newCost
		}
		deltas = append(deltas, delta)
	}
	return deltas
}

// CostDelta is one supplier's cost movement for an item.
type CostDelta struct {
	Supplier string
	Old      decimal.Decimal
	New      decimal.Decimal
	HadOld   bool
	HasNew   bool
}

func unionCodes(old, current snapshot.Snapshot) []string {
	seen := make(map[string]bool, len(old)+len(current))
	codes := make([]string, 0, len(old)+len(current))
	for code := range old {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	for code := range current {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
