// Package catalog builds the join graph for one run: every canonical
// record indexed by folded item code so downstream stages can fan out
// from an item to its prices, suppliers, barcodes and mappings without
// rescanning the imports.
//
// The graph is built once from a normalized record set and is immutable
// afterwards. Secondary records whose item code matches no Item are kept
// and surfaced as orphan references; they never silently disappear and
// never leak into price resolution.
package catalog

import (
	"sort"

	"github.com/prontoxi/pricesync/pkg/normalize"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

// OrphanReference records a secondary entity whose item code has no
// matching Item in this run's imports. Orphans are reported, not
// joined.
type OrphanReference struct {
	// Kind is the source the orphaned record came from.
	Kind pronto.SourceKind

	// Key is the record's own key, e.g. "r1--a100" for a price rule
	// entry or the bare folded item code for single-key records.
	Key string

	// ItemCode is the folded item code that failed to join.
	ItemCode string
}

// Graph is the immutable join graph of one run. All index keys are
// folded item codes; the records themselves keep original casing.
type Graph struct {
	items map[string]pronto.Item
	codes []string // folded item codes, sorted

	priceRules        map[string][]pronto.PriceRuleEntry
	contractItems     map[string][]pronto.ContractItem
	supplierItems     map[string][]pronto.SupplierItem
	supplierPricelist map[string][]pronto.SupplierPricelistEntry
	gtins             map[string][]pronto.GtinItem
	missingImages     map[string]bool

	menusByRule map[string]pronto.WebMenuMapping

	orphans []OrphanReference
}

// Build constructs the join graph from a normalized record set. Each
// secondary kind is indexed in one pass; the input set is not retained.
func Build(set *normalize.Set) *Graph {
	g := &Graph{
		items:             make(map[string]pronto.Item, len(set.Items)),
		priceRules:        make(map[string][]pronto.PriceRuleEntry),
		contractItems:     make(map[string][]pronto.ContractItem),
		supplierItems:     make(map[string][]pronto.SupplierItem),
		supplierPricelist: make(map[string][]pronto.SupplierPricelistEntry),
		gtins:             make(map[string][]pronto.GtinItem),
		missingImages:     make(map[string]bool),
		menusByRule:       make(map[string]pronto.WebMenuMapping, len(set.WebMenuMappings)),
	}

	for _, item := range set.Items {
		g.items[item.Key()] = item
		g.codes = append(g.codes, item.Key())
	}
	sort.Strings(g.codes)

	for _, e := range set.PriceRules {
		g.checkOrphan(pronto.SourcePricelist, e.Key().String(), e.ItemKey())
		g.priceRules[e.ItemKey()] = append(g.priceRules[e.ItemKey()], e)
	}
	for _, e := range set.ContractItems {
		g.checkOrphan(pronto.SourceContractItems, e.Key(), e.Key())
		g.contractItems[e.Key()] = append(g.contractItems[e.Key()], e)
	}
	for _, e := range set.SupplierItems {
		g.checkOrphan(pronto.SourceSupplierItems, e.Key().String(), e.ItemKey())
		g.supplierItems[e.ItemKey()] = append(g.supplierItems[e.ItemKey()], e)
	}
	for _, e := range set.SupplierPricelist {
		g.checkOrphan(pronto.SourceSupplierPricelist, e.Key().String(), e.ItemKey())
		g.supplierPricelist[e.ItemKey()] = append(g.supplierPricelist[e.ItemKey()], e)
	}
	for _, e := range set.GtinItems {
		g.checkOrphan(pronto.SourceGtinItems, e.Key(), e.Key())
		g.gtins[e.Key()] = append(g.gtins[e.Key()], e)
	}
	for _, e := range set.MissingImages {
		g.checkOrphan(pronto.SourceMissingImages, e.Key(), e.Key())
		g.missingImages[e.Key()] = true
	}

	// Menu mappings join on rule code, not item code; there is nothing
	// to orphan-check them against.
	for _, m := range set.WebMenuMappings {
		g.menusByRule[m.Key()] = m
	}

	sort.Slice(g.orphans, func(i, j int) bool {
		if g.orphans[i].Kind != g.orphans[j].Kind {
			return g.orphans[i].Kind < g.orphans[j].Kind
		}
		return g.orphans[i].Key < g.orphans[j].Key
	})

	return g
}

func (g *Graph) checkOrphan(kind pronto.SourceKind, key, itemCode string) {
	if _, ok := g.items[itemCode]; !ok {
		g.orphans = append(g.orphans, OrphanReference{Kind: kind, Key: key, ItemCode: itemCode})
	}
}

// Item looks up an item by code. The code may be given in any casing.
func (g *Graph) Item(code string) (pronto.Item, bool) {
	item, ok := g.items[pronto.Key(code)]
	return item, ok
}

// ItemCodes returns all folded item codes in sorted order. The returned
// slice is a copy.
func (g *Graph) ItemCodes() []string {
	out := make([]string, len(g.codes))
	copy(out, g.codes)
	return out
}

// Items returns all items ordered by folded code.
func (g *Graph) Items() []pronto.Item {
	out := make([]pronto.Item, 0, len(g.codes))
	for _, code := range g.codes {
		out = append(out, g.items[code])
	}
	return out
}

// Len returns the number of items in the graph.
func (g *Graph) Len() int { return len(g.items) }

// PriceRules returns the price rule entries for an item, including
// entries whose rule code is a none token. The returned slice is a copy.
func (g *Graph) PriceRules(code string) []pronto.PriceRuleEntry {
	return copySlice(g.priceRules[pronto.Key(code)])
}

// ContractItems returns the contract price entries for an item.
func (g *Graph) ContractItems(code string) []pronto.ContractItem {
	return copySlice(g.contractItems[pronto.Key(code)])
}

// SupplierItems returns the supplier links for an item.
func (g *Graph) SupplierItems(code string) []pronto.SupplierItem {
	return copySlice(g.supplierItems[pronto.Key(code)])
}

// SupplierPricelist returns the supplier pricelist entries for an item.
func (g *Graph) SupplierPricelist(code string) []pronto.SupplierPricelistEntry {
	return copySlice(g.supplierPricelist[pronto.Key(code)])
}

// GtinItems returns the barcode records for an item.
func (g *Graph) GtinItems(code string) []pronto.GtinItem {
	return copySlice(g.gtins[pronto.Key(code)])
}

// HasGTIN reports whether the item carries a barcode either on the item
// record itself or in the GTIN datagrid.
func (g *Graph) HasGTIN(code string) bool {
	if item, ok := g.Item(code); ok && item.HasGTIN() {
		return true
	}
	return len(g.gtins[pronto.Key(code)]) > 0
}

// MenuForRule returns the web menu mapping for a price rule code.
func (g *Graph) MenuForRule(ruleCode string) (pronto.WebMenuMapping, bool) {
	m, ok := g.menusByRule[pronto.Key(ruleCode)]
	return m, ok
}

// MissingImage reports whether the item appears in the missing-images
// import.
func (g *Graph) MissingImage(code string) bool {
	return g.missingImages[pronto.Key(code)]
}

// MissingImageCodes returns the folded item codes of the missing-images
// import in sorted order.
func (g *Graph) MissingImageCodes() []string {
	out := make([]string, 0, len(g.missingImages))
	for code := range g.missingImages {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Orphans returns every secondary record that failed to join, ordered
// by source kind then key. The returned slice is a copy.
func (g *Graph) Orphans() []OrphanReference {
	return copySlice(g.orphans)
}

func copySlice[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
