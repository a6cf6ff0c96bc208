package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prontoxi/pricesync/pkg/normalize"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

func testSet() *normalize.Set {
	return &normalize.Set{
		Items: []pronto.Item{
			{Code: "A100", Description: "Widget", Brand: "ACME"},
			{Code: "B200", Description: "Gadget", GTIN: "9300002"},
		},
		PriceRules: []pronto.PriceRuleEntry{
			{RuleCode: "R1", Region: "", ItemCode: "a100", UnitPrice: decimal.RequireFromString("10.00")},
			{RuleCode: "R2", Region: "VIC", ItemCode: "A100", UnitPrice: decimal.RequireFromString("11.00")},
			{RuleCode: "R1", Region: "", ItemCode: "Z999", UnitPrice: decimal.RequireFromString("5.00")},
		},
		SupplierItems: []pronto.SupplierItem{
			{SupplierCode: "SUP1", ItemCode: "A100", Cost: decimal.RequireFromString("4.00")},
		},
		GtinItems: []pronto.GtinItem{
			{ItemCode: "A100", GTIN: "9300001"},
		},
		WebMenuMappings: []pronto.WebMenuMapping{
			{RuleCode: "R1", MenuName: "Hardware"},
		},
		MissingImages: []pronto.MissingImagesEntry{
			{ItemCode: "B200"},
		},
	}
}

func TestBuildIndexesByFoldedCode(t *testing.T) {
	g := Build(testSet())

	require.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"a100", "b200"}, g.ItemCodes())

	// Lookup is case-insensitive; display case survives.
	item, ok := g.Item("A100")
	require.True(t, ok)
	assert.Equal(t, "A100", item.Code)
	_, ok = g.Item("a100")
	assert.True(t, ok)

	rules := g.PriceRules("A100")
	require.Len(t, rules, 2)
	assert.Equal(t, "R1", rules[0].RuleCode)
}

func TestBuildSurfacesOrphans(t *testing.T) {
	g := Build(testSet())

	orphans := g.Orphans()
	require.Len(t, orphans, 1)
	assert.Equal(t, pronto.SourcePricelist, orphans[0].Kind)
	assert.Equal(t, "z999", orphans[0].ItemCode)
	assert.Equal(t, "r1--z999", orphans[0].Key)

	// The orphaned entry is still indexed, just against no item.
	assert.Len(t, g.PriceRules("Z999"), 1)
}

func TestGraphHasGTIN(t *testing.T) {
	g := Build(testSet())

	assert.True(t, g.HasGTIN("A100"), "barcode via gtin datagrid")
	assert.True(t, g.HasGTIN("B200"), "barcode on the item record")
	assert.False(t, g.HasGTIN("Z999"))
}

func TestGraphMenuAndMissingImages(t *testing.T) {
	g := Build(testSet())

	m, ok := g.MenuForRule("r1")
	require.True(t, ok)
	assert.Equal(t, "Hardware", m.MenuName)
	_, ok = g.MenuForRule("R9")
	assert.False(t, ok)

	assert.True(t, g.MissingImage("b200"))
	assert.Equal(t, []string{"b200"}, g.MissingImageCodes())
}

func TestAccessorsReturnCopies(t *testing.T) {
	g := Build(testSet())

	rules := g.PriceRules("A100")
	rules[0].RuleCode = "MUTATED"
	assert.Equal(t, "R1", g.PriceRules("A100")[0].RuleCode)

	codes := g.ItemCodes()
	codes[0] = "mutated"
	assert.Equal(t, "a100", g.ItemCodes()[0])
}
