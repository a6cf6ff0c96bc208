// Package ingest provides the CLI's import adapters: readers that turn
// exported files into the raw rows the normalizer consumes. Each
// adapter owns one byte format; the engine never sees anything but
// field maps.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/prontoxi/pricesync/internal/transfer"
	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/normalize"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

// CSVSource reads one header-row delimited file as an import source.
type CSVSource struct {
	kind  pronto.SourceKind
	path  string
	comma rune
}

// CSVOption configures a CSVSource.
type CSVOption func(*CSVSource)

// WithDelimiter sets the field delimiter; the default is a comma. Pronto
// taskrunner round trips use tabs.
func WithDelimiter(comma rune) CSVOption {
	return func(s *CSVSource) { s.comma = comma }
}

// NewCSVSource creates a reader for a header-row delimited export.
func NewCSVSource(kind pronto.SourceKind, path string, opts ...CSVOption) *CSVSource {
	s := &CSVSource{kind: kind, path: path, comma: ','}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns the source kind this file is read as.
func (s *CSVSource) Kind() pronto.SourceKind { return s.kind }

// Rows reads the whole file. The first record is the header; each data
// record becomes a field map keyed by the header names as written.
func (s *CSVSource) Rows(ctx context.Context) ([]normalize.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = s.comma
	r.FieldsPerRecord = -1 // Pronto pads some exports unevenly

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}

	var rows []normalize.Row
	for i := 0; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapIO("read", s.path, err)
		}

		fields := make(map[string]string, len(header))
		for j, name := range header {
			if j < len(record) {
				fields[name] = record[j]
			}
		}
		rows = append(rows, normalize.Row{Source: s.kind, Index: i, Fields: fields})
	}
	return rows, nil
}

// FetchCSVSource downloads a remote file to a local path first, then
// reads it like a CSVSource. It serves suppliers that drop their
// pricelists on a shared location.
type FetchCSVSource struct {
	*CSVSource
	client     transfer.Client
	remotePath string
}

// NewFetchCSVSource creates a reader that fetches remotePath to
// localPath before reading.
func NewFetchCSVSource(kind pronto.SourceKind, client transfer.Client, remotePath, localPath string, opts ...CSVOption) *FetchCSVSource {
	return &FetchCSVSource{
		CSVSource:  NewCSVSource(kind, localPath, opts...),
		client:     client,
		remotePath: remotePath,
	}
}

// Rows fetches the remote file and reads it.
func (s *FetchCSVSource) Rows(ctx context.Context) ([]normalize.Row, error) {
	if err := s.client.Download(ctx, s.remotePath, s.path); err != nil {
		return nil, err
	}
	return s.CSVSource.Rows(ctx)
}
