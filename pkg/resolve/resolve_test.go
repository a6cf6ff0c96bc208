package resolve

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prontoxi/pricesync/pkg/catalog"
	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/normalize"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func buildGraph(items []pronto.Item, rules []pronto.PriceRuleEntry, suppliers []pronto.SupplierItem) *catalog.Graph {
	return catalog.Build(&normalize.Set{
		Items:         items,
		PriceRules:    rules,
		SupplierItems: suppliers,
	})
}

func TestResolveIgnoredRuleLeavesSingleCandidate(t *testing.T) {
	// A100 priced under R1 and under the cleared "NA" rule; with NA
	// ignored the R1 price applies.
	g := buildGraph(
		[]pronto.Item{{Code: "A100"}},
		[]pronto.PriceRuleEntry{
			{RuleCode: "R1", ItemCode: "A100", UnitPrice: price("10.00")},
			{RuleCode: "NA", ItemCode: "A100", UnitPrice: price("99.00")},
		},
		nil,
	)

	r := New(WithIgnoredRules(pronto.NewIgnoreSet("NA")))
	result, err := r.Resolve(g)
	require.NoError(t, err)

	state := result.Current["a100"]
	assert.False(t, state.Unpriced)
	assert.Equal(t, "R1", state.RuleCode)
	assert.True(t, state.UnitPrice.Equal(price("10.00")))
	assert.Empty(t, result.Unpriced)
}

func TestResolveNoneTokenAlwaysExcluded(t *testing.T) {
	// "NA" is excluded even without an ignore set entry.
	g := buildGraph(
		[]pronto.Item{{Code: "A100"}},
		[]pronto.PriceRuleEntry{
			{RuleCode: "na", ItemCode: "A100", UnitPrice: price("99.00")},
		},
		nil,
	)

	result, err := New().Resolve(g)
	require.NoError(t, err)
	assert.True(t, result.Current["a100"].Unpriced)
	assert.Equal(t, []string{"a100"}, result.Unpriced)
}

func TestResolveAllRulesIgnoredMeansUnpriced(t *testing.T) {
	g := buildGraph(
		[]pronto.Item{{Code: "A100"}},
		[]pronto.PriceRuleEntry{
			{RuleCode: "R1", ItemCode: "A100", UnitPrice: price("10.00")},
			{RuleCode: "R2", ItemCode: "A100", UnitPrice: price("11.00")},
		},
		nil,
	)

	r := New(WithIgnoredRules(pronto.NewIgnoreSet("R1", "r2")))
	result, err := r.Resolve(g)
	require.NoError(t, err)

	state := result.Current["a100"]
	assert.True(t, state.Unpriced)
	assert.Empty(t, state.RuleCode)
}

func TestResolveDefaultRegionWins(t *testing.T) {
	g := buildGraph(
		[]pronto.Item{{Code: "A100"}},
		[]pronto.PriceRuleEntry{
			{RuleCode: "R1", Region: "NSW", ItemCode: "A100", UnitPrice: price("9.00")},
			{RuleCode: "R9", Region: "VIC", ItemCode: "A100", UnitPrice: price("10.00")},
		},
		nil,
	)

	r := New(WithDefaultRegion("vic"))
	result, err := r.Resolve(g)
	require.NoError(t, err)

	state := result.Current["a100"]
	assert.Equal(t, "R9", state.RuleCode)
	assert.Equal(t, "VIC", state.Region)
}

func TestResolveFallsBackToSmallestRuleCode(t *testing.T) {
	g := buildGraph(
		[]pronto.Item{{Code: "A100"}},
		[]pronto.PriceRuleEntry{
			{RuleCode: "R2", ItemCode: "A100", UnitPrice: price("11.00")},
			{RuleCode: "R1", ItemCode: "A100", UnitPrice: price("10.00")},
		},
		nil,
	)

	result, err := New(WithDefaultRegion("VIC")).Resolve(g)
	require.NoError(t, err)
	assert.Equal(t, "R1", result.Current["a100"].RuleCode)
}

func TestResolveUnorderableTieAborts(t *testing.T) {
	g := buildGraph(
		[]pronto.Item{{Code: "A100"}},
		[]pronto.PriceRuleEntry{
			{RuleCode: "R1", Region: "NSW", ItemCode: "A100", UnitPrice: price("10.00")},
			{RuleCode: "r1", Region: "QLD", ItemCode: "A100", UnitPrice: price("11.00")},
		},
		nil,
	)

	_, err := New().Resolve(g)
	require.Error(t, err)
	assert.True(t, errors.IsUnresolvedTie(err))

	var tie *errors.TieError
	require.ErrorAs(t, err, &tie)
	assert.Equal(t, "A100", tie.ItemCode)
}

func TestResolveAssemblesSupplierCosts(t *testing.T) {
	g := buildGraph(
		[]pronto.Item{{Code: "A100"}},
		nil,
		[]pronto.SupplierItem{
			{SupplierCode: "ZED", ItemCode: "A100", Cost: price("2.00")},
			{SupplierCode: "ABC", ItemCode: "A100", Cost: price("1.00")},
			{SupplierCode: "abc", ItemCode: "A100", Cost: price("9.99")}, // duplicate, first wins
		},
	)

	result, err := New().Resolve(g)
	require.NoError(t, err)

	costs := result.Current["a100"].Costs
	require.Len(t, costs, 2)
	assert.Equal(t, "ABC", costs[0].Supplier)
	assert.True(t, costs[0].Cost.Equal(price("1.00")))
	assert.Equal(t, "ZED", costs[1].Supplier)
}

func TestResolveIsDeterministic(t *testing.T) {
	g := buildGraph(
		[]pronto.Item{{Code: "B2"}, {Code: "A1"}},
		[]pronto.PriceRuleEntry{
			{RuleCode: "R3", ItemCode: "A1", UnitPrice: price("3.00")},
			{RuleCode: "R2", ItemCode: "A1", UnitPrice: price("2.00")},
			{RuleCode: "R1", ItemCode: "B2", UnitPrice: price("1.00")},
		},
		nil,
	)

	r := New()
	first, err := r.Resolve(g)
	require.NoError(t, err)
	second, err := r.Resolve(g)
	require.NoError(t, err)
	assert.Equal(t, first.Current.States(), second.Current.States())
	assert.Equal(t, "R2", first.Current["a1"].RuleCode)
}
