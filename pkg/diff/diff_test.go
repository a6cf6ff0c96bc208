package diff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prontoxi/pricesync/pkg/snapshot"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func state(code, rule, unitPrice string) snapshot.ItemState {
	s := snapshot.ItemState{ItemCode: code, RuleCode: rule}
	if unitPrice == "" {
		s.Unpriced = true
	} else {
		s.UnitPrice = price(unitPrice)
	}
	return s
}

func TestDiffSnapshotAgainstItselfIsAllUnchanged(t *testing.T) {
	snap := snapshot.Snapshot{
		"a100": state("A100", "R1", "10.00"),
		"b200": state("B200", "", ""),
	}

	cs := New().Diff(snap, snap)

	assert.False(t, cs.HasChanges())
	assert.Equal(t, 2, cs.Summary.Unchanged)
	assert.Equal(t, 2, cs.Summary.Total)
	for _, c := range cs.Changes {
		assert.True(t, c.Flags.Has(Unchanged), "item %s", c.ItemCode)
	}
}

func TestDiffPriceChange(t *testing.T) {
	old := snapshot.Snapshot{"a100": state("A100", "R1", "10.00")}
	current := snapshot.Snapshot{"a100": state("A100", "R1", "12.00")}

	cs := New().Diff(old, current)

	require.Len(t, cs.Changes, 1)
	c := cs.Changes[0]
	assert.True(t, c.Flags.Has(PriceChanged))
	assert.False(t, c.Flags.Has(Unchanged))
	assert.True(t, c.Old.UnitPrice.Equal(price("10.00")))
	assert.True(t, c.New.UnitPrice.Equal(price("12.00")))
	assert.Equal(t, 1, cs.Summary.PriceChanged)
	assert.True(t, cs.HasChanges())
}

func TestDiffUnpricedTransitionIsAPriceChange(t *testing.T) {
	old := snapshot.Snapshot{"a100": state("A100", "R1", "10.00")}
	current := snapshot.Snapshot{"a100": state("A100", "", "")}

	cs := New().Diff(old, current)
	assert.True(t, cs.Changes[0].Flags.Has(PriceChanged))
}

func TestDiffAddedAndRemoved(t *testing.T) {
	old := snapshot.Snapshot{"gone1": state("GONE1", "R1", "5.00")}
	current := snapshot.Snapshot{"new1": state("NEW1", "R1", "7.00")}

	cs := New().Diff(old, current)

	require.Len(t, cs.Changes, 2)
	// Sorted by folded code: gone1 before new1.
	assert.Equal(t, "gone1", cs.Changes[0].ItemCode)
	assert.True(t, cs.Changes[0].Flags.Has(Removed))
	assert.Nil(t, cs.Changes[0].New)
	assert.Equal(t, "GONE1", cs.Changes[0].State().ItemCode)

	assert.Equal(t, "new1", cs.Changes[1].ItemCode)
	assert.True(t, cs.Changes[1].Flags.Has(Added))
	assert.Nil(t, cs.Changes[1].Old)

	assert.Equal(t, 1, cs.Summary.Added)
	assert.Equal(t, 1, cs.Summary.Removed)
}

func TestDiffCostDeltas(t *testing.T) {
	oldState := state("A100", "R1", "10.00")
	oldState.Costs = []snapshot.SupplierCost{
		{Supplier: "SUP1", Cost: price("4.00")},
		{Supplier: "SUP2", Cost: price("6.00")},
	}
	newState := state("A100", "R1", "10.00")
	newState.Costs = []snapshot.SupplierCost{
		{Supplier: "SUP1", Cost: price("4.50")},
		{Supplier: "SUP3", Cost: price("1.00")},
	}

	cs := New().Diff(
		snapshot.Snapshot{"a100": oldState},
		snapshot.Snapshot{"a100": newState},
	)

	c := cs.Changes[0]
	assert.True(t, c.Flags.Has(CostChanged))
	assert.False(t, c.Flags.Has(PriceChanged))
	require.Len(t, c.CostDeltas, 3)

	assert.Equal(t, "SUP1", c.CostDeltas[0].Supplier)
	assert.True(t, c.CostDeltas[0].Old.Equal(price("4.00")))
	assert.True(t, c.CostDeltas[0].New.Equal(price("4.50")))

	assert.Equal(t, "SUP2", c.CostDeltas[1].Supplier)
	assert.True(t, c.CostDeltas[1].HadOld)
	assert.False(t, c.CostDeltas[1].HasNew)

	assert.Equal(t, "SUP3", c.CostDeltas[2].Supplier)
	assert.False(t, c.CostDeltas[2].HadOld)
	assert.True(t, c.CostDeltas[2].HasNew)
}

func TestDiffGtinStatusChange(t *testing.T) {
	oldState := state("A100", "R1", "10.00")
	newState := state("A100", "R1", "10.00")
	newState.HasGTIN = true

	cs := New().Diff(
		snapshot.Snapshot{"a100": oldState},
		snapshot.Snapshot{"a100": newState},
	)

	assert.True(t, cs.Changes[0].Flags.Has(GtinStatusChanged))
	assert.Equal(t, 1, cs.Summary.GtinStatusChanged)
}

func TestDiffMultipleFlagsOnOneChange(t *testing.T) {
	oldState := state("A100", "R1", "10.00")
	newState := state("A100", "R1", "12.00")
	newState.HasGTIN = true

	cs := New().Diff(
		snapshot.Snapshot{"a100": oldState},
		snapshot.Snapshot{"a100": newState},
	)

	c := cs.Changes[0]
	assert.True(t, c.Flags.Has(PriceChanged|GtinStatusChanged))
	assert.Equal(t, "price_changed,gtin_status_changed", c.Flags.String())
}

func TestDiffDeterministicOrder(t *testing.T) {
	old := snapshot.Snapshot{}
	current := snapshot.Snapshot{
		"c3": state("C3", "R1", "1.00"),
		"a1": state("A1", "R1", "1.00"),
		"b2": state("B2", "R1", "1.00"),
	}

	for i := 0; i < 10; i++ {
		cs := New().Diff(old, current)
		codes := make([]string, len(cs.Changes))
		for i, c := range cs.Changes {
			codes[i] = c.ItemCode
		}
		assert.Equal(t, []string{"a1", "b2", "c3"}, codes)
	}
}

func TestChangesetByFlag(t *testing.T) {
	old := snapshot.Snapshot{"a100": state("A100", "R1", "10.00")}
	current := snapshot.Snapshot{
		"a100": state("A100", "R1", "12.00"),
		"b200": state("B200", "R1", "3.00"),
	}

	cs := New().Diff(old, current)
	assert.Len(t, cs.ByFlag(PriceChanged), 1)
	assert.Len(t, cs.ByFlag(Added), 1)
	assert.Empty(t, cs.ByFlag(Removed))
}
