package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prontoxi/pricesync/internal/transfer"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

func TestCSVSourceRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"item_code,item_description,bin_loc\nA100,Widget,B1\nB200,Gadget,\n"), 0o644))

	src := NewCSVSource(pronto.SourceItems, path)
	rows, err := src.Rows(context.Background())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, pronto.SourceItems, rows[0].Source)
	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, "A100", rows[0].Fields["item_code"])
	assert.Equal(t, "Widget", rows[0].Fields["item_description"])
	assert.Equal(t, "", rows[1].Fields["bin_loc"])
}

func TestCSVSourceTabDelimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.tsv")
	require.NoError(t, os.WriteFile(path, []byte("item_code\tgtin\nA100\t9300001\n"), 0o644))

	src := NewCSVSource(pronto.SourceGtinItems, path, WithDelimiter('\t'))
	rows, err := src.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "9300001", rows[0].Fields["gtin"])
}

func TestCSVSourceUnevenRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(path, []byte("item_code,bin_loc\nA100\n"), 0o644))

	rows, err := NewCSVSource(pronto.SourceItems, path).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A100", rows[0].Fields["item_code"])
	_, ok := rows[0].Fields["bin_loc"]
	assert.False(t, ok)
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(pronto.SourceItems, "/nonexistent.csv").Rows(context.Background())
	assert.Error(t, err)
}

func TestFetchCSVSource(t *testing.T) {
	remote := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(remote, "spl.csv"),
		[]byte("supplier_code,item_code\nSUP1,A100\n"), 0o644))

	local := filepath.Join(t.TempDir(), "spl.csv")
	src := NewFetchCSVSource(pronto.SourceSupplierPricelist, transfer.NewFSClient(remote), "spl.csv", local)

	rows, err := src.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SUP1", rows[0].Fields["supplier_code"])
}
