// Package pronto defines the canonical record types imported from the
// Pronto ERP and its satellite files. Every record is an immutable value
// for the duration of a run: importers construct them, the join graph
// indexes them, and downstream stages only read them.
//
// Records carry their business keys with original casing for display.
// Key comparison is always done on the folded form returned by Key, so
// "abc100" and "ABC100" join to the same item.
package pronto

// SourceKind identifies which import file a raw row came from.
type SourceKind string

// Source kinds, named after the Pronto export each one is read from.
const (
	SourceItems             SourceKind = "inventory_items_datagrid"
	SourceContractItems     SourceKind = "contract_items_datagrid"
	SourcePricelist         SourceKind = "pricelist_datagrid"
	SourceSupplierItems     SourceKind = "supplier_items_datagrid"
	SourceSupplierPricelist SourceKind = "supplier_pricelist"
	SourceGtinItems         SourceKind = "gtin_items_datagrid"
	SourceWebMenuMappings   SourceKind = "web_menu_mappings"
	SourceMissingImages     SourceKind = "missing_images_report"
)

// String returns the source kind as a string.
func (s SourceKind) String() string { return string(s) }

// IsValid reports whether the source kind is one of the known imports.
func (s SourceKind) IsValid() bool {
	switch s {
	case SourceItems, SourceContractItems, SourcePricelist,
		SourceSupplierItems, SourceSupplierPricelist, SourceGtinItems,
		SourceWebMenuMappings, SourceMissingImages:
		return true
	default:
		return false
	}
}

// NoneTokens are the values an ignore-policy field (price-rule code or
// region) may hold to mean "no value". They are data, not errors: Pronto
// datagrids use "NA" where an operator has cleared a rule.
var NoneTokens = map[string]bool{
	"":   true,
	"na": true,
}

// IsNoneToken reports whether the folded form of v means "no value"
// when the field is an ignore-policy field.
func IsNoneToken(v string) bool {
	return NoneTokens[Key(v)]
}
