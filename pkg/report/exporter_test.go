package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prontoxi/pricesync/pkg/catalog"
	"github.com/prontoxi/pricesync/pkg/diff"
	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/normalize"
	"github.com/prontoxi/pricesync/pkg/pronto"
	"github.com/prontoxi/pricesync/pkg/snapshot"
)

func exporterFixtures() (*diff.Changeset, *catalog.Graph, snapshot.Snapshot) {
	g := catalog.Build(&normalize.Set{
		Items: []pronto.Item{{Code: "A100", BinLocation: "B1"}},
		SupplierItems: []pronto.SupplierItem{
			{SupplierCode: "SUP1", ItemCode: "A100", Cost: price("4.00")},
		},
		SupplierPricelist: []pronto.SupplierPricelistEntry{
			{SupplierCode: "SUP1", ItemCode: "A100", NewCost: price("4.50")},
		},
	})
	current := snapshot.Snapshot{"a100": pricedState("A100", "R1", "12.00")}
	cs := diff.New().Diff(snapshot.Snapshot{"a100": pricedState("A100", "R1", "10.00")}, current)
	return cs, g, current
}

func TestExporterMaterialize(t *testing.T) {
	dir := t.TempDir()
	cs, g, current := exporterFixtures()

	paths := Paths{
		PriceChanges:      filepath.Join(dir, "price-changes.csv"),
		TicketList:        filepath.Join(dir, "tickets.txt"),
		Pricelist:         filepath.Join(dir, "pricelist.csv"),
		SupplierPricelist: filepath.Join(dir, "spl-{supp}.csv"),
		PriceRulesJSON:    filepath.Join(dir, "price-rules.json"),
	}
	clock := func() time.Time { return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC) }
	exporter := NewExporter(paths, Policy{}, WithClock(clock))

	written, err := exporter.Materialize(context.Background(), cs, g, current)
	require.NoError(t, err)
	assert.Len(t, written, 5)

	data, err := os.ReadFile(filepath.Join(dir, "spl-SUP1.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUP1,A100,4.50")

	data, err = os.ReadFile(paths.Pricelist)
	require.NoError(t, err)
	assert.Contains(t, string(data), "30-Aug-2026")
}

func TestExporterDisabledReportsAreSkipped(t *testing.T) {
	cs, g, current := exporterFixtures()
	exporter := NewExporter(Paths{}, Policy{})

	written, err := exporter.Materialize(context.Background(), cs, g, current)
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestExporterFailureYieldsExportError(t *testing.T) {
	cs, g, current := exporterFixtures()
	paths := Paths{
		PriceChanges: filepath.Join(t.TempDir(), "missing-dir", "report.csv"),
	}

	_, err := NewExporter(paths, Policy{}).Materialize(context.Background(), cs, g, current)
	require.Error(t, err)

	var exportErr *errors.ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "price-changes", exportErr.Report)
}
