package pronto

import "github.com/shopspring/decimal"

// SupplierItem links an item to a supplier with the currently recorded
// buy cost from the Pronto supplier datagrid.
type SupplierItem struct {
	SupplierCode string
	ItemCode     string
	Cost         decimal.Decimal
}

// Key returns the composite (supplier, item) join key.
func (s SupplierItem) Key() SupplierItemKey {
	return NewSupplierItemKey(s.SupplierCode, s.ItemCode)
}

// ItemKey returns the folded item code used for fan-out indexing.
func (s SupplierItem) ItemKey() string { return Key(s.ItemCode) }

// SupplierPricelistEntry is one row of the supplier-provided SPL file:
// the cost the supplier will charge from its next pricelist cycle.
// Diffing SupplierItem.Cost against NewCost yields the cost changes.
type SupplierPricelistEntry struct {
	SupplierCode string
	ItemCode     string
	NewCost      decimal.Decimal
}

// Key returns the composite (supplier, item) join key.
func (s SupplierPricelistEntry) Key() SupplierItemKey {
	return NewSupplierItemKey(s.SupplierCode, s.ItemCode)
}

// ItemKey returns the folded item code used for fan-out indexing.
func (s SupplierPricelistEntry) ItemKey() string { return Key(s.ItemCode) }
