// Package report turns a changeset and join graph into the run's
// outputs: operator-facing reports, Pronto-importable files and the
// exports consumed by downstream systems.
//
// Each selector is an independent filter over the changeset or graph;
// none of them sees another's output. Selectors return rows, writers
// render rows to an io.Writer, and the Exporter materializes the
// configured files. A failed materialization vetoes the run's snapshot
// commit.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/prontoxi/pricesync/pkg/catalog"
	"github.com/prontoxi/pricesync/pkg/diff"
	"github.com/prontoxi/pricesync/pkg/pronto"
	"github.com/prontoxi/pricesync/pkg/snapshot"
)

// Policy carries the configured ignore sets the selectors apply.
type Policy struct {
	// IgnoredBins lists bin locations excluded from the ticket list,
	// e.g. clearance bays.
	IgnoredBins pronto.IgnoreSet

	// IgnoredGtinBrands lists brands out of scope for barcode
	// compliance; their items never appear in the GTIN report.
	IgnoredGtinBrands pronto.IgnoreSet
}

// PriceChangeRow is one line of the price-changes report.
type PriceChangeRow struct {
	ItemCode    string
	Brand       string
	Description string
	RuleCode    string
	Was         decimal.Decimal
	Now         decimal.Decimal
	Diff        decimal.Decimal
}

// PriceChanges selects the items whose effective price moved between
// the baseline and the current run. Added and removed items are not
// price changes; they have no was/now pair.
func PriceChanges(cs *diff.Changeset) []PriceChangeRow {
	var rows []PriceChangeRow
	for _, c := range cs.Changes {
		if !c.Flags.Has(diff.PriceChanged) || c.Old == nil || c.New == nil {
			continue
		}
		rows = append(rows, PriceChangeRow{
			ItemCode:    c.New.ItemCode,
			Brand:       c.New.Brand,
			Description: c.New.Description,
			RuleCode:    c.New.RuleCode,
			Was:         c.Old.UnitPrice,
			Now:         c.New.UnitPrice,
			Diff:        c.New.UnitPrice.Sub(c.Old.UnitPrice),
		})
	}
	return rows
}

// CostChangeRow is one line of the supplier-price-changes report: the
// supplier's incoming pricelist cost against the currently recorded buy
// price.
type CostChangeRow struct {
	SupplierCode string
	ItemCode     string
	Was          decimal.Decimal
	Now          decimal.Decimal
}

// SupplierPriceChanges joins the supplier pricelist against the
// recorded supplier costs and keeps the pairs that moved. Orphaned
// pricelist rows are excluded; they are reported separately.
func SupplierPriceChanges(g *catalog.Graph) []CostChangeRow {
	var rows []CostChangeRow
	for _, code := range g.ItemCodes() {
		entries := g.SupplierPricelist(code)
		if len(entries) == 0 {
			continue
		}
		links := g.SupplierItems(code)
		for _, e := range entries {
			for _, l := range links {
				if pronto.Key(l.SupplierCode) != pronto.Key(e.SupplierCode) {
					continue
				}
				if l.Cost.Equal(e.NewCost) {
					continue
				}
				rows = append(rows, CostChangeRow{
					SupplierCode: e.SupplierCode,
					ItemCode:     e.ItemCode,
					Was:          l.Cost,
					Now:          e.NewCost,
				})
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		si, sj := pronto.Key(rows[i].SupplierCode), pronto.Key(rows[j].SupplierCode)
		if si != sj {
			return si < sj
		}
		return pronto.Key(rows[i].ItemCode) < pronto.Key(rows[j].ItemCode)
	})
	return rows
}

// GtinRow is one line of the missing-barcode report.
type GtinRow struct {
	ItemCode    string
	Brand       string
	Description string
}

// MissingGtins selects the items with no barcode anywhere, excluding
// brands the policy puts out of scope.
func MissingGtins(current snapshot.Snapshot, policy Policy) []GtinRow {
	var rows []GtinRow
	for _, state := range current.States() {
		if state.HasGTIN {
			continue
		}
		if policy.IgnoredGtinBrands.Contains(state.Brand) {
			continue
		}
		rows = append(rows, GtinRow{
			ItemCode:    state.ItemCode,
			Brand:       state.Brand,
			Description: state.Description,
		})
	}
	return rows
}

// WebUpdateRow is one line of the web-data-updates report: the menu the
// e-commerce site should list a repriced item under.
type WebUpdateRow struct {
	ItemCode string
	RuleCode string
	MenuName string
}

// WebDataUpdates selects the added and repriced items and maps each
// one's rule to its e-commerce menu. Manually maintained mappings are
// skipped; a rule with no mapping yields an empty menu so the site
// clears stale placement.
func WebDataUpdates(cs *diff.Changeset, g *catalog.Graph) []WebUpdateRow {
	var rows []WebUpdateRow
	for _, c := range cs.Changes {
		if !c.Flags.Has(diff.Added) && !c.Flags.Has(diff.PriceChanged) {
			continue
		}
		state := c.State()
		if state.Unpriced || state.RuleCode == "" {
			continue
		}
		menu := ""
		if m, ok := g.MenuForRule(state.RuleCode); ok {
			if m.IsManual() {
				continue
			}
			menu = m.MenuName
		}
		rows = append(rows, WebUpdateRow{
			ItemCode: state.ItemCode,
			RuleCode: state.RuleCode,
			MenuName: menu,
		})
	}
	return rows
}

// MissingImageRow is one line of the missing-images report.
type MissingImageRow struct {
	ItemCode    string
	Description string
}

// MissingImages selects the imported missing-image item codes that
// exist in the catalog, with their descriptions attached.
func MissingImages(g *catalog.Graph) []MissingImageRow {
	var rows []MissingImageRow
	for _, code := range g.MissingImageCodes() {
		item, ok := g.Item(code)
		if !ok {
			continue
		}
		rows = append(rows, MissingImageRow{
			ItemCode:    item.Code,
			Description: item.Description,
		})
	}
	return rows
}

// TicketList selects the item codes needing shelf tickets: every item
// that is shelved, stocked or carries a reorder minimum, except those
// in ignored bin locations.
func TicketList(g *catalog.Graph, policy Policy) []string {
	var codes []string
	for _, item := range g.Items() {
		if item.BinLocation != "" && policy.IgnoredBins.Contains(item.BinLocation) {
			continue
		}
		if item.BinLocation != "" || item.OnHand > 0 || item.MinimumStock > 0 {
			codes = append(codes, item.Code)
		}
	}
	return codes
}

// PricelistRow is one line of the Pronto-importable pricelist file.
type PricelistRow struct {
	ItemCode  string
	Region    string
	UnitPrice decimal.Decimal
}

// PricelistRows selects the priced items whose price is new or changed;
// those are the rows Pronto needs to re-import.
func PricelistRows(cs *diff.Changeset) []PricelistRow {
	var rows []PricelistRow
	for _, c := range cs.Changes {
		if !c.Flags.Has(diff.Added) && !c.Flags.Has(diff.PriceChanged) {
			continue
		}
		state := c.State()
		if state.Unpriced {
			continue
		}
		rows = append(rows, PricelistRow{
			ItemCode:  state.ItemCode,
			Region:    state.Region,
			UnitPrice: state.UnitPrice,
		})
	}
	return rows
}

// SupplierPricelistRows groups the incoming supplier pricelist entries
// for joined items by supplier code, each group sorted by item code.
// The map key keeps the supplier's original casing from its first entry.
func SupplierPricelistRows(g *catalog.Graph) map[string][]pronto.SupplierPricelistEntry {
	display := make(map[string]string)
	grouped := make(map[string][]pronto.SupplierPricelistEntry)
	for _, code := range g.ItemCodes() {
		for _, e := range g.SupplierPricelist(code) {
			key := pronto.Key(e.SupplierCode)
			if _, ok := display[key]; !ok {
				display[key] = e.SupplierCode
			}
			grouped[key] = append(grouped[key], e)
		}
	}

	out := make(map[string][]pronto.SupplierPricelistEntry, len(grouped))
	for key, entries := range grouped {
		sort.Slice(entries, func(i, j int) bool {
			return pronto.Key(entries[i].ItemCode) < pronto.Key(entries[j].ItemCode)
		})
		out[display[key]] = entries
	}
	return out
}

// ContractRow is one line of the contract items task file.
type ContractRow struct {
	ItemCode      string
	ContractPrice decimal.Decimal
}

// ContractRows selects the contract prices of joined items in item
// code order.
func ContractRows(g *catalog.Graph) []ContractRow {
	var rows []ContractRow
	for _, code := range g.ItemCodes() {
		for _, c := range g.ContractItems(code) {
			rows = append(rows, ContractRow{
				ItemCode:      c.ItemCode,
				ContractPrice: c.ContractPrice,
			})
		}
	}
	return rows
}

// PriceRuleExport is one element of the JSON price-rules export for the
// external pricing application.
type PriceRuleExport struct {
	ItemCode  string          `json:"item_code"`
	RuleCode  string          `json:"rule_code"`
	Region    string          `json:"region,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PriceRuleExports selects every priced item in the current snapshot.
func PriceRuleExports(current snapshot.Snapshot) []PriceRuleExport {
	var out []PriceRuleExport
	for _, state := range current.States() {
		if state.Unpriced {
			continue
		}
		out = append(out, PriceRuleExport{
			ItemCode:  state.ItemCode,
			RuleCode:  state.RuleCode,
			Region:    state.Region,
			UnitPrice: state.UnitPrice,
		})
	}
	return out
}
