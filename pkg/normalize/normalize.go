// Package normalize converts raw import rows into canonical pronto
// records. Import adapters hand it (source kind, row index, field map)
// tuples with byte-format parsing already done; this package owns
// trimming, key folding, decimal parsing, duplicate rejection and the
// none-token policy for ignore-list fields.
//
// A malformed row is fatal to the whole run: the engine never joins or
// resolves a partially ingested snapshot. Rows that Pronto itself emits
// as junk (SPL filler lines, repeated header rows, GTIN rows without a
// barcode) are counted and skipped rather than failing the run, matching
// how the exports behave in practice.
package normalize

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

// Row is one raw import row: the source it came from, its index within
// that source, and the cell values keyed by documented column name.
type Row struct {
	Source pronto.SourceKind
	Index  int
	Fields map[string]string
}

// Source is the complete raw row set of one import file.
type Source struct {
	Kind pronto.SourceKind
	Rows []Row
}

// Stats counts per-source normalization outcomes. Skipped rows are
// legitimate junk (SPL filler, duplicate GTINs); Invalid counts SPL rows
// missing required supplier fields, which Pronto's own importer also
// refuses.
type Stats struct {
	Normalized int
	Skipped    int
	Invalid    int
}

// Set holds every canonical record produced from one run's imports,
// ready for join graph construction.
type Set struct {
	Items             []pronto.Item
	ContractItems     []pronto.ContractItem
	PriceRules        []pronto.PriceRuleEntry
	SupplierItems     []pronto.SupplierItem
	SupplierPricelist []pronto.SupplierPricelistEntry
	GtinItems         []pronto.GtinItem
	WebMenuMappings   []pronto.WebMenuMapping
	MissingImages     []pronto.MissingImagesEntry

	// Stats per source kind, for run reporting.
	Stats map[pronto.SourceKind]*Stats
}

// Normalize converts all sources into a canonical Set. The first
// malformed row aborts with a MalformedRowError carrying source, row
// index and field.
func Normalize(sources []Source) (*Set, error) {
	n := &normalizer{
		set: &Set{
			Stats: make(map[pronto.SourceKind]*Stats),
		},
		seenItems: make(map[string]bool),
		seenGtins: make(map[string]bool),
		seenSPL:   make(map[pronto.SupplierItemKey]bool),
	}

	for _, src := range sources {
		if !src.Kind.IsValid() {
			return nil, errors.NewConfigError("normalize", "unknown source kind "+src.Kind.String(), nil)
		}
		for _, row := range src.Rows {
			if err := n.add(row); err != nil {
				return nil, err
			}
		}
	}

	return n.set, nil
}

// normalizer accumulates canonical records and the cross-row state
// needed for duplicate detection.
type normalizer struct {
	set       *Set
	seenItems map[string]bool
	seenGtins map[string]bool
	seenSPL   map[pronto.SupplierItemKey]bool
}

func (n *normalizer) stats(kind pronto.SourceKind) *Stats {
	s, ok := n.set.Stats[kind]
	if !ok {
		s = &Stats{}
		n.set.Stats[kind] = s
	}
	return s
}

func (n *normalizer) add(row Row) error {
	switch row.Source {
	case pronto.SourceItems:
		return n.addItem(row)
	case pronto.SourceContractItems:
		return n.addContractItem(row)
	case pronto.SourcePricelist:
		return n.addPriceRule(row)
	case pronto.SourceSupplierItems:
		return n.addSupplierItem(row)
	case pronto.SourceSupplierPricelist:
		return n.addSupplierPricelist(row)
	case pronto.SourceGtinItems:
		return n.addGtinItem(row)
	case pronto.SourceWebMenuMappings:
		return n.addWebMenuMapping(row)
	case pronto.SourceMissingImages:
		return n.addMissingImage(row)
	}
	return errors.NewConfigError("normalize", "unknown source kind "+row.Source.String(), nil)
}

func (n *normalizer) addItem(row Row) error {
	code, err := requireField(row, "item_code")
	if err != nil {
		return err
	}

	// Item codes are globally unique; a duplicate is bad input, never a
	// merge.
	key := pronto.Key(code)
	if n.seenItems[key] {
		return errors.NewMalformedRowError(row.Source.String(), row.Index, "item_code", "duplicate item code "+code)
	}
	n.seenItems[key] = true

	onHand, err := optionalInt(row, "on_hand")
	if err != nil {
		return err
	}
	minStock, err := optionalInt(row, "minimum_stock")
	if err != nil {
		return err
	}

	n.set.Items = append(n.set.Items, pronto.Item{
		Code:         trimmed(row, "item_code"),
		Description:  trimmed(row, "item_description"),
		Brand:        trimmed(row, "brand_manuf"),
		BinLocation:  trimmed(row, "bin_loc"),
		GTIN:         trimmed(row, "gtin"),
		OnHand:       onHand,
		MinimumStock: minStock,
	})
	n.stats(row.Source).Normalized++
	return nil
}

func (n *normalizer) addContractItem(row Row) error {
	if _, err := requireField(row, "item_code"); err != nil {
		return err
	}
	price, err := requireDecimal(row, "contract_price")
	if err != nil {
		return err
	}

	n.set.ContractItems = append(n.set.ContractItems, pronto.ContractItem{
		ItemCode:      trimmed(row, "item_code"),
		ContractPrice: price,
	})
	n.stats(row.Source).Normalized++
	return nil
}

func (n *normalizer) addPriceRule(row Row) error {
	if _, err := requireField(row, "item_code"); err != nil {
		return err
	}
	price, err := requireDecimal(row, "w_sale_price")
	if err != nil {
		return err
	}

	// "rule" and "region" are ignore-policy fields: empty or "NA" means
	// no value, not a malformed row. The entry is kept so the resolver
	// can apply the ignore set to it.
	n.set.PriceRules = append(n.set.PriceRules, pronto.PriceRuleEntry{
		RuleCode:  trimmed(row, "rule"),
		Region:    trimmed(row, "region"),
		ItemCode:  trimmed(row, "item_code"),
		UnitPrice: price,
	})
	n.stats(row.Source).Normalized++
	return nil
}

func (n *normalizer) addSupplierItem(row Row) error {
	if _, err := requireField(row, "item_code"); err != nil {
		return err
	}

	// Pronto's supplier datagrid carries rows without a supplier code
	// for discontinued links; its own importer skips them too.
	if trimmed(row, "supplier") == "" {
		n.stats(row.Source).Skipped++
		return nil
	}

	cost, err := requireDecimal(row, "current_buy_price")
	if err != nil {
		return err
	}

	n.set.SupplierItems = append(n.set.SupplierItems, pronto.SupplierItem{
		SupplierCode: trimmed(row, "supplier"),
		ItemCode:     trimmed(row, "item_code"),
		Cost:         cost,
	})
	n.stats(row.Source).Normalized++
	return nil
}

func (n *normalizer) addSupplierPricelist(row Row) error {
	// SPL files repeat their header line mid-file when suppliers
	// concatenate exports.
	if trimmed(row, "supplier_code") == "Supplier Code" {
		n.stats(row.Source).Skipped++
		return nil
	}

	// Rows missing a supplier code, unit or conversion factor are
	// invalid filler the supplier's system emits; counted, not fatal.
	if trimmed(row, "supplier_code") == "" ||
		trimmed(row, "supp_uom") == "" ||
		trimmed(row, "supp_conv_factor") == "" {
		n.stats(row.Source).Invalid++
		return nil
	}

	if _, err := requireField(row, "item_code"); err != nil {
		return err
	}
	price, err := requireDecimal(row, "supp_price_1")
	if err != nil {
		return err
	}

	entry := pronto.SupplierPricelistEntry{
		SupplierCode: trimmed(row, "supplier_code"),
		ItemCode:     trimmed(row, "item_code"),
		NewCost:      price.Round(2),
	}

	// First row wins for a repeated (supplier, item) pair.
	if n.seenSPL[entry.Key()] {
		n.stats(row.Source).Skipped++
		return nil
	}
	n.seenSPL[entry.Key()] = true

	n.set.SupplierPricelist = append(n.set.SupplierPricelist, entry)
	n.stats(row.Source).Normalized++
	return nil
}

func (n *normalizer) addGtinItem(row Row) error {
	code, err := requireField(row, "item_code")
	if err != nil {
		return err
	}

	gtin := trimmed(row, "gtin")
	if gtin == "" {
		n.stats(row.Source).Skipped++
		return nil
	}

	// The GTIN datagrid repeats rows per unit of measure.
	key := pronto.Key(gtin) + "--" + pronto.Key(code)
	if n.seenGtins[key] {
		n.stats(row.Source).Skipped++
		return nil
	}
	n.seenGtins[key] = true

	n.set.GtinItems = append(n.set.GtinItems, pronto.GtinItem{
		ItemCode: trimmed(row, "item_code"),
		GTIN:     gtin,
	})
	n.stats(row.Source).Normalized++
	return nil
}

func (n *normalizer) addWebMenuMapping(row Row) error {
	if _, err := requireField(row, "rule_code"); err != nil {
		return err
	}

	n.set.WebMenuMappings = append(n.set.WebMenuMappings, pronto.WebMenuMapping{
		RuleCode: trimmed(row, "rule_code"),
		MenuName: trimmed(row, "menu_name"),
	})
	n.stats(row.Source).Normalized++
	return nil
}

func (n *normalizer) addMissingImage(row Row) error {
	// The missing-images report is produced by hand and uses either
	// spelling of its single column.
	code := trimmed(row, "item_code")
	if code == "" {
		code = trimmed(row, "Item Code")
	}
	if code == "" {
		return errors.NewMalformedRowError(row.Source.String(), row.Index, "item_code", "missing required field")
	}

	n.set.MissingImages = append(n.set.MissingImages, pronto.MissingImagesEntry{ItemCode: code})
	n.stats(row.Source).Normalized++
	return nil
}

// trimmed returns the named field with surrounding whitespace removed,
// original casing intact.
func trimmed(row Row, field string) string {
	return strings.TrimSpace(row.Fields[field])
}

// requireField returns the trimmed field value or a MalformedRowError
// when it is empty.
func requireField(row Row, field string) (string, error) {
	v := trimmed(row, field)
	if v == "" {
		return "", errors.NewMalformedRowError(row.Source.String(), row.Index, field, "missing required field")
	}
	return v, nil
}

// requireDecimal parses the named field as a decimal, failing with a
// MalformedRowError naming the field.
func requireDecimal(row Row, field string) (decimal.Decimal, error) {
	v := trimmed(row, field)
	if v == "" {
		return decimal.Zero, errors.NewMalformedRowError(row.Source.String(), row.Index, field, "missing required field")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, errors.NewMalformedRowError(row.Source.String(), row.Index, field, "not a decimal: "+v)
	}
	return d, nil
}

// optionalInt parses the named field as an integer, treating empty as
// zero.
func optionalInt(row Row, field string) (int, error) {
	v := trimmed(row, field)
	if v == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.NewMalformedRowError(row.Source.String(), row.Index, field, "not an integer: "+v)
	}
	return i, nil
}
