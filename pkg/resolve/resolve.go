// Package resolve applies the ignore policy and the deterministic
// tie-break to pick at most one applicable price rule entry per item,
// then assembles the run's resolved item states for diffing.
//
// Resolution is a pure function of the join graph, the ignored rule
// codes and the configured default region. The same inputs always yield
// the same snapshot; an unorderable tie is an invariant violation that
// aborts the run rather than guessing.
package resolve

import (
	"sort"

	"github.com/prontoxi/pricesync/pkg/catalog"
	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/logging"
	"github.com/prontoxi/pricesync/pkg/pronto"
	"github.com/prontoxi/pricesync/pkg/snapshot"
)

// Resolver picks the applicable price rule entry per item under a fixed
// policy. Construct one per run with New.
type Resolver struct {
	ignoredRules  pronto.IgnoreSet
	defaultRegion string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIgnoredRules sets the price rule codes excluded from resolution.
// None tokens are always excluded whether listed or not.
func WithIgnoredRules(set pronto.IgnoreSet) Option {
	return func(r *Resolver) { r.ignoredRules = set }
}

// WithDefaultRegion sets the region preferred when several rules price
// the same item.
func WithDefaultRegion(region string) Option {
	return func(r *Resolver) { r.defaultRegion = region }
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the resolver's output: the current-state snapshot plus the
// folded codes of items left without a price.
type Result struct {
	Current  snapshot.Snapshot
	Unpriced []string
}

// Resolve builds the resolved state of every item in the graph. Only
// items in the item index are resolved; orphaned secondary records stay
// on the graph for reporting.
func (r *Resolver) Resolve(g *catalog.Graph) (*Result, error) {
	result := &Result{Current: make(snapshot.Snapshot, g.Len())}

	for _, item := range g.Items() {
		state, err := r.resolveItem(g, item)
		if err != nil {
			return nil, err
		}
		if state.Unpriced {
			result.Unpriced = append(result.Unpriced, item.Key())
		}
		result.Current[item.Key()] = state
	}

	if len(result.Unpriced) > 0 {
		logging.Default().Debug().
			Int("count", len(result.Unpriced)).
			Msg("Items left unpriced after ignore policy")
	}
	return result, nil
}

func (r *Resolver) resolveItem(g *catalog.Graph, item pronto.Item) (snapshot.ItemState, error) {
	state := snapshot.ItemState{
		ItemCode:     item.Code,
		Description:  item.Description,
		Brand:        item.Brand,
		BinLocation:  item.BinLocation,
		HasGTIN:      g.HasGTIN(item.Code),
		OnHand:       item.OnHand,
		MinimumStock: item.MinimumStock,
	}

	entry, ok, err := r.pick(item.Code, g.PriceRules(item.Code))
	if err != nil {
		return snapshot.ItemState{}, err
	}
	if ok {
		state.RuleCode = entry.RuleCode
		state.Region = entry.Region
		state.UnitPrice = entry.UnitPrice
	} else {
		state.Unpriced = true
	}

	state.Costs = supplierCosts(g.SupplierItems(item.Code))
	return state, nil
}

// pick applies the resolution algorithm: drop ignored and none-token
// rules, then unpriced / single / tie-break.
func (r *Resolver) pick(itemCode string, entries []pronto.PriceRuleEntry) (pronto.PriceRuleEntry, bool, error) {
	candidates := entries[:0:0]
	for _, e := range entries {
		if pronto.IsNoneToken(e.RuleCode) || r.ignoredRules.Contains(e.RuleCode) {
			continue
		}
		candidates = append(candidates, e)
	}

	switch len(candidates) {
	case 0:
		return pronto.PriceRuleEntry{}, false, nil
	case 1:
		return candidates[0], true, nil
	}

	// Prefer the configured default region when exactly one candidate
	// matches it.
	if r.defaultRegion != "" {
		regionKey := pronto.Key(r.defaultRegion)
		var inRegion []pronto.PriceRuleEntry
		for _, e := range candidates {
			if pronto.Key(e.Region) == regionKey {
				inRegion = append(inRegion, e)
			}
		}
		if len(inRegion) == 1 {
			return inRegion[0], true, nil
		}
		if len(inRegion) > 1 {
			candidates = inRegion
		}
	}

	// Lexicographically smallest folded rule code wins. Two remaining
	// candidates with the same smallest code cannot be ordered.
	sort.Slice(candidates, func(i, j int) bool {
		return pronto.Key(candidates[i].RuleCode) < pronto.Key(candidates[j].RuleCode)
	})
	if pronto.Key(candidates[0].RuleCode) == pronto.Key(candidates[1].RuleCode) {
		return pronto.PriceRuleEntry{}, false, &errors.TieError{
			ItemCode:  itemCode,
			RuleCodes: []string{candidates[0].RuleCode, candidates[1].RuleCode},
		}
	}
	return candidates[0], true, nil
}

// supplierCosts folds the supplier links into the sorted cost list the
// snapshot persists. A duplicated supplier keeps its first cost.
func supplierCosts(links []pronto.SupplierItem) []snapshot.SupplierCost {
	if len(links) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(links))
	costs := make([]snapshot.SupplierCost, 0, len(links))
	for _, l := range links {
		key := pronto.Key(l.SupplierCode)
		if seen[key] {
			continue
		}
		seen[key] = true
		costs = append(costs, snapshot.SupplierCost{Supplier: l.SupplierCode, Cost: l.Cost})
	}
	sort.Slice(costs, func(i, j int) bool {
		return pronto.Key(costs[i].Supplier) < pronto.Key(costs[j].Supplier)
	})
	return costs
}
