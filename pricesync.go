// Package pricesync reconciles the retailer's fragmented Pronto ERP
// exports into a single resolved view of the catalog, diffs it against
// the last committed baseline, and emits the reports and import files
// the business runs on.
//
// The package is the library facade: construct an Engine with New and
// functional options, then call Run. One Run is one reconciliation
// cycle: ingest, normalize, join, resolve, diff, export, commit. The
// baseline snapshot only moves forward when every export succeeded.
//
//	engine, err := pricesync.New(
//		pricesync.WithSnapshotPath("state/snapshot.yaml"),
//		pricesync.WithSources(sources...),
//		pricesync.WithIgnoredRules("NA", "X"),
//		pricesync.WithDefaultRegion("VIC"),
//		pricesync.WithReportPaths(paths),
//	)
//	if err != nil {
//		return err
//	}
//	result, err := engine.Run(ctx)
package pricesync

import (
	"context"

	"github.com/prontoxi/pricesync/pkg/normalize"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

// Engine runs reconciliation cycles against a snapshot store.
type Engine interface {
	// Run executes one reconciliation cycle and returns what changed.
	Run(ctx context.Context, opts ...RunOption) (*RunResult, error)
}

// SourceReader supplies the raw rows of one import source. Import
// adapters own the byte format; the engine only sees field maps.
type SourceReader interface {
	Kind() pronto.SourceKind
	Rows(ctx context.Context) ([]normalize.Row, error)
}

// engine is the internal implementation of the Engine interface.
type engine struct {
	config *config
}

// New creates an Engine with the given options.
func New(opts ...Option) (Engine, error) {
	e := &engine{config: defaultConfig()}
	if err := e.config.apply(opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// StaticSource is a SourceReader over in-memory rows. It backs tests
// and callers that parse their own spreadsheets.
type StaticSource struct {
	SourceKind pronto.SourceKind
	SourceRows []normalize.Row
}

// Kind returns the source kind.
func (s StaticSource) Kind() pronto.SourceKind { return s.SourceKind }

// Rows returns the rows as provided.
func (s StaticSource) Rows(_ context.Context) ([]normalize.Row, error) {
	return s.SourceRows, nil
}
