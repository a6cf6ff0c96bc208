// Package snapshot persists the resolved item state between runs. A
// snapshot is the whole-catalog baseline the diff engine compares the
// current run against; stores load and commit it atomically, never
// partially.
package snapshot

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/prontoxi/pricesync/pkg/pronto"
)

// SupplierCost is one supplier's recorded buy cost for an item.
type SupplierCost struct {
	Supplier string          `yaml:"supplier" json:"supplier"`
	Cost     decimal.Decimal `yaml:"cost" json:"cost"`
}

// ItemState is the fully resolved state of one item at the end of a
// run: the applicable price rule (or the unpriced marker), the supplier
// costs and the attributes the reports need.
type ItemState struct {
	ItemCode    string `yaml:"item_code" json:"item_code"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Brand       string `yaml:"brand,omitempty" json:"brand,omitempty"`
	BinLocation string `yaml:"bin_location,omitempty" json:"bin_location,omitempty"`

	// RuleCode, Region and UnitPrice describe the applicable price rule
	// entry chosen by the resolver. Empty rule and Unpriced=true mean no
	// rule survived the ignore policy.
	RuleCode  string          `yaml:"rule_code,omitempty" json:"rule_code,omitempty"`
	Region    string          `yaml:"region,omitempty" json:"region,omitempty"`
	UnitPrice decimal.Decimal `yaml:"unit_price" json:"unit_price"`
	Unpriced  bool            `yaml:"unpriced,omitempty" json:"unpriced,omitempty"`

	// Costs holds the current buy cost per supplier, sorted by folded
	// supplier code so persisted snapshots are byte-stable.
	Costs []SupplierCost `yaml:"costs,omitempty" json:"costs,omitempty"`

	// HasGTIN reports whether any barcode is recorded for the item.
	HasGTIN bool `yaml:"has_gtin,omitempty" json:"has_gtin,omitempty"`

	OnHand       int `yaml:"on_hand,omitempty" json:"on_hand,omitempty"`
	MinimumStock int `yaml:"minimum_stock,omitempty" json:"minimum_stock,omitempty"`
}

// Key returns the folded item code.
func (s ItemState) Key() string { return pronto.Key(s.ItemCode) }

// CostFor returns the recorded cost for a supplier code.
func (s ItemState) CostFor(supplier string) (decimal.Decimal, bool) {
	key := pronto.Key(supplier)
	for _, c := range s.Costs {
		if pronto.Key(c.Supplier) == key {
			return c.Cost, true
		}
	}
	return decimal.Zero, false
}

// Snapshot maps folded item codes to resolved item state.
type Snapshot map[string]ItemState

// Codes returns the snapshot's folded item codes in sorted order.
func (s Snapshot) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// States returns the item states ordered by folded code.
func (s Snapshot) States() []ItemState {
	out := make([]ItemState, 0, len(s))
	for _, code := range s.Codes() {
		out = append(out, s[code])
	}
	return out
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for code, state := range s {
		costs := make([]SupplierCost, len(state.Costs))
		copy(costs, state.Costs)
		state.Costs = costs
		out[code] = state
	}
	return out
}
