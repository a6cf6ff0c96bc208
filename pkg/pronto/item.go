package pronto

// Item is the canonical join anchor. Every other record references an
// Item through its code; an item code is globally unique per run.
type Item struct {
	// Code is the Pronto stock code with original casing.
	Code string

	// Description is the first description line from the item datagrid.
	Description string

	// Brand is the brand/manufacturer code. Used by the GTIN report to
	// exclude brands that are out of scope for barcode compliance.
	Brand string

	// BinLocation is the shelf location in the primary warehouse.
	// Empty when the item is not shelved.
	BinLocation string

	// GTIN is the primary barcode, empty when none is recorded against
	// the item itself (GtinItem rows may still carry one).
	GTIN string

	// OnHand and MinimumStock come from the warehouse columns of the
	// item datagrid. The ticket list includes unshelved items that are
	// stocked or have a reorder minimum.
	OnHand       int
	MinimumStock int
}

// Key returns the folded item code used for joins.
func (i Item) Key() string { return Key(i.Code) }

// HasGTIN reports whether the item itself carries a barcode.
func (i Item) HasGTIN() bool { return i.GTIN != "" }

// GtinItem associates a barcode with an item. Items may have several
// barcodes (inner/outer pack); the join graph keeps them all.
type GtinItem struct {
	ItemCode string
	GTIN     string
}

// Key returns the folded item code used for joins.
func (g GtinItem) Key() string { return Key(g.ItemCode) }

// MissingImagesEntry marks an item the e-commerce pipeline has no
// image for. The import is a bare list of item codes.
type MissingImagesEntry struct {
	ItemCode string
}

// Key returns the folded item code used for joins.
func (m MissingImagesEntry) Key() string { return Key(m.ItemCode) }
