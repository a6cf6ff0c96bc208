package pricesync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prontoxi/pricesync/pkg/diff"
	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/normalize"
	"github.com/prontoxi/pricesync/pkg/pronto"
	"github.com/prontoxi/pricesync/pkg/report"
	"github.com/prontoxi/pricesync/pkg/snapshot"
)

func testSources(unitPrice string) []SourceReader {
	return []SourceReader{
		StaticSource{
			SourceKind: pronto.SourceItems,
			SourceRows: []normalize.Row{
				{Source: pronto.SourceItems, Index: 0, Fields: map[string]string{
					"item_code": "A100", "item_description": "Widget", "brand_manuf": "ACME", "bin_loc": "B1",
				}},
			},
		},
		StaticSource{
			SourceKind: pronto.SourcePricelist,
			SourceRows: []normalize.Row{
				{Source: pronto.SourcePricelist, Index: 0, Fields: map[string]string{
					"item_code": "A100", "rule": "R1", "region": "VIC", "w_sale_price": unitPrice,
				}},
				{Source: pronto.SourcePricelist, Index: 1, Fields: map[string]string{
					"item_code": "A100", "rule": "NA", "region": "", "w_sale_price": "99.00",
				}},
			},
		},
	}
}

func TestRunFirstCycleCommitsBaseline(t *testing.T) {
	store := snapshot.NewMemoryStore(nil)
	engine, err := New(
		WithStore(store),
		WithSources(testSources("10.00")...),
		WithIgnoredRules("NA"),
		WithDefaultRegion("VIC"),
	)
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Committed)
	assert.Equal(t, 1, result.Changeset.Summary.Added)
	assert.Empty(t, result.Unpriced)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	state := snap["a100"]
	assert.Equal(t, "R1", state.RuleCode)
	assert.False(t, state.Unpriced)
}

func TestRunIsIdempotent(t *testing.T) {
	store := snapshot.NewMemoryStore(nil)
	engine, err := New(
		WithStore(store),
		WithSources(testSources("10.00")...),
		WithIgnoredRules("NA"),
	)
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	require.NoError(t, err)

	second, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Changeset.HasChanges())
	assert.Equal(t, 1, second.Changeset.Summary.Unchanged)
}

func TestRunDetectsPriceChange(t *testing.T) {
	store := snapshot.NewMemoryStore(nil)
	first, err := New(WithStore(store), WithSources(testSources("10.00")...), WithIgnoredRules("NA"))
	require.NoError(t, err)
	_, err = first.Run(context.Background())
	require.NoError(t, err)

	second, err := New(WithStore(store), WithSources(testSources("12.00")...), WithIgnoredRules("NA"))
	require.NoError(t, err)
	result, err := second.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Changeset.Summary.PriceChanged)
	changes := result.Changeset.ByFlag(diff.PriceChanged)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].New.UnitPrice.GreaterThan(changes[0].Old.UnitPrice))
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.NewMemoryStore(nil)
	engine, err := New(
		WithStore(store),
		WithSources(testSources("10.00")...),
		WithReportPaths(report.Paths{PriceChanges: filepath.Join(dir, "price-changes.csv")}),
	)
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), WithDryRun())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.False(t, result.Committed)
	assert.Empty(t, result.WrittenFiles)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap, "dry run must not move the baseline")
}

func TestRunExportFailureVetoesCommit(t *testing.T) {
	store := snapshot.NewMemoryStore(nil)
	engine, err := New(
		WithStore(store),
		WithSources(testSources("10.00")...),
		WithReportPaths(report.Paths{
			PriceChanges: filepath.Join(t.TempDir(), "no-such-dir", "report.csv"),
		}),
	)
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	require.Error(t, err)

	var exportErr *errors.ExportError
	assert.ErrorAs(t, err, &exportErr)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap, "failed export must leave the baseline untouched")
}

func TestRunMalformedRowAborts(t *testing.T) {
	bad := StaticSource{
		SourceKind: pronto.SourceItems,
		SourceRows: []normalize.Row{
			{Source: pronto.SourceItems, Index: 0, Fields: map[string]string{"item_code": "A100"}},
			{Source: pronto.SourceItems, Index: 1, Fields: map[string]string{"item_code": "a100"}},
		},
	}
	engine, err := New(WithStore(snapshot.NewMemoryStore(nil)), WithSources(bad))
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRow(err))
}

func TestRunSurfacesOrphans(t *testing.T) {
	sources := append(testSources("10.00"), StaticSource{
		SourceKind: pronto.SourceSupplierItems,
		SourceRows: []normalize.Row{
			{Source: pronto.SourceSupplierItems, Index: 0, Fields: map[string]string{
				"item_code": "Z999", "supplier": "SUP1", "current_buy_price": "1.00",
			}},
		},
	})
	engine, err := New(WithStore(snapshot.NewMemoryStore(nil)), WithSources(sources...), WithIgnoredRules("NA"))
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Orphans, 1)
	assert.Equal(t, "z999", result.Orphans[0].ItemCode)
	// The orphan never becomes a catalog item.
	assert.Equal(t, 1, result.Changeset.Summary.Total)
}

func TestNewRejectsBadSupplierPricelistPath(t *testing.T) {
	_, err := New(WithReportPaths(report.Paths{SupplierPricelist: "spl.csv"}))
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRunHoldsStoreLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	store := snapshot.NewFileStore(path)
	release, err := store.Lock(context.Background())
	require.NoError(t, err)
	defer release()

	engine, err := New(WithSnapshotPath(path), WithSources(testSources("10.00")...))
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStoreLocked)
}
