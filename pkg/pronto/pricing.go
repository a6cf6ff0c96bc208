package pronto

import "github.com/shopspring/decimal"

// PriceRuleEntry prices one item under one price rule in one region.
// Several regions may price the same item; the resolver decides which
// single entry applies.
type PriceRuleEntry struct {
	// RuleCode identifies the pricing tier, e.g. "R1". Original casing
	// is preserved for reports.
	RuleCode string

	// Region scopes the rule geographically, e.g. "VIC". May be empty
	// for the default region.
	Region string

	// ItemCode references the priced Item.
	ItemCode string

	// UnitPrice is the level-0 sell price under this rule.
	UnitPrice decimal.Decimal
}

// Key returns the composite (rule, item) join key.
func (p PriceRuleEntry) Key() RuleItemKey {
	return NewRuleItemKey(p.RuleCode, p.ItemCode)
}

// ItemKey returns the folded item code used for fan-out indexing.
func (p PriceRuleEntry) ItemKey() string { return Key(p.ItemCode) }

// ContractItem carries a negotiated contract price for an item. Contract
// pricing bypasses price rules and is exported to the taskrunner files
// unchanged.
type ContractItem struct {
	ItemCode      string
	ContractPrice decimal.Decimal
}

// Key returns the folded item code used for joins.
func (c ContractItem) Key() string { return Key(c.ItemCode) }
