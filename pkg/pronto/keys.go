package pronto

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// folder performs Unicode case folding for key comparison. A single
// shared caser is safe: cases.Fold returns a stateless transformer.
var folder = cases.Fold()

// Key normalizes a business key for comparison: surrounding whitespace
// is trimmed and the remainder is case-folded. Display code keeps the
// original casing; only joins and map lookups use the folded form.
func Key(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// RuleItemKey is the composite key of a price rule entry: one rule may
// price the same item in several regions, so the region participates in
// identity at the row level while (rule, item) identifies the pricing
// relationship.
type RuleItemKey struct {
	Rule string
	Item string
}

// NewRuleItemKey builds a folded composite key from raw field values.
func NewRuleItemKey(rule, item string) RuleItemKey {
	return RuleItemKey{Rule: Key(rule), Item: Key(item)}
}

// String implements fmt.Stringer.
func (k RuleItemKey) String() string {
	return fmt.Sprintf("%s--%s", k.Rule, k.Item)
}

// SupplierItemKey is the composite key of a supplier item or supplier
// pricelist entry.
type SupplierItemKey struct {
	Supplier string
	Item     string
}

// NewSupplierItemKey builds a folded composite key from raw field values.
func NewSupplierItemKey(supplier, item string) SupplierItemKey {
	return SupplierItemKey{Supplier: Key(supplier), Item: Key(item)}
}

// String implements fmt.Stringer.
func (k SupplierItemKey) String() string {
	return fmt.Sprintf("%s--%s", k.Supplier, k.Item)
}
