package pricesync

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/prontoxi/pricesync/pkg/catalog"
	"github.com/prontoxi/pricesync/pkg/diff"
	"github.com/prontoxi/pricesync/pkg/logging"
	"github.com/prontoxi/pricesync/pkg/normalize"
	"github.com/prontoxi/pricesync/pkg/pronto"
	"github.com/prontoxi/pricesync/pkg/report"
	"github.com/prontoxi/pricesync/pkg/resolve"
	"github.com/prontoxi/pricesync/pkg/snapshot"
)

// RunResult reports what one reconciliation cycle did.
type RunResult struct {
	// Changeset is the full diff against the baseline, including
	// unchanged items so the totals reconcile.
	Changeset *diff.Changeset

	// Orphans are the secondary records whose item code joined nothing.
	Orphans []catalog.OrphanReference

	// Unpriced lists the folded codes of items left without a price
	// after the ignore policy.
	Unpriced []string

	// Stats counts normalization outcomes per source.
	Stats map[pronto.SourceKind]*normalize.Stats

	// WrittenFiles and Uploaded list the materialized export paths and
	// the remote paths they were delivered to.
	WrittenFiles []string
	Uploaded     []string

	// Committed reports whether the baseline snapshot was replaced.
	Committed bool
	DryRun    bool

	Duration time.Duration
}

// Run executes one reconciliation cycle.
func (e *engine) Run(ctx context.Context, opts ...RunOption) (*RunResult, error) {
	start := time.Now()

	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}
	log := logging.Ctx(ctx)

	// Step 1: Parse run options
	options := &runOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Step 2: Take the exclusive run lock before any store access
	if locker, ok := e.config.store.(snapshot.Locker); ok {
		release, err := locker.Lock(ctx)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	// Step 3: Ingest all sources, in parallel, before touching state
	sources, err := ingest(ctx, e.config.sources)
	if err != nil {
		return nil, err
	}

	// Step 4: Normalize to canonical records; malformed input is fatal
	set, err := normalize.Normalize(sources)
	if err != nil {
		return nil, err
	}

	// Step 5: Build the join graph
	graph := catalog.Build(set)
	log.Debug().
		Int("items", graph.Len()).
		Int("orphans", len(graph.Orphans())).
		Msg("Join graph built")

	// Step 6: Resolve the applicable price per item
	resolver := resolve.New(
		resolve.WithIgnoredRules(e.config.ignoredRules),
		resolve.WithDefaultRegion(e.config.defaultRegion),
	)
	resolution, err := resolver.Resolve(graph)
	if err != nil {
		return nil, err
	}

	// Step 7: Load the baseline; missing baseline means first run
	baseline, err := e.config.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Step 8: Diff current state against the baseline
	changeset := diff.New().Diff(baseline, resolution.Current)
	if changeset.HasChanges() {
		log.Info().Str("summary", changeset.Summary.String()).Msg("Changes detected")
	} else {
		log.Info().Msg("No changes detected")
	}

	result := &RunResult{
		Changeset: changeset,
		Orphans:   graph.Orphans(),
		Unpriced:  resolution.Unpriced,
		Stats:     set.Stats,
		DryRun:    options.dryRun,
	}

	// Step 9: Dry run stops before any output or commit
	if options.dryRun {
		result.Duration = time.Since(start)
		log.Info().Bool("dry_run", true).Msg("Dry run completed, nothing written")
		return result, nil
	}

	// Step 10: Materialize every configured export; a failure vetoes
	// the commit
	exporter := report.NewExporter(e.config.reportPaths, e.config.policy())
	written, err := exporter.Materialize(ctx, changeset, graph, resolution.Current)
	if err != nil {
		return nil, err
	}
	result.WrittenFiles = written

	// Step 11: Deliver exports to the remote drop directory
	if e.config.remote != nil {
		for _, path := range written {
			remote := filepath.Join(e.config.remoteDir, filepath.Base(path))
			if err := e.config.remote.Upload(ctx, path, remote); err != nil {
				return nil, err
			}
			result.Uploaded = append(result.Uploaded, remote)
		}
	}

	// Step 12: Commit the new baseline only now that every output is
	// in place
	if !options.noCommit {
		if err := e.config.store.Commit(ctx, resolution.Current); err != nil {
			return nil, err
		}
		result.Committed = true
	}
	result.Duration = time.Since(start)

	log.Info().
		Int("files", len(result.WrittenFiles)).
		Dur("duration", result.Duration).
		Msg("Run completed")
	return result, nil
}

// ingest reads every source concurrently. The first failure wins;
// results keep the caller's source order so normalization stays
// deterministic.
func ingest(ctx context.Context, readers []SourceReader) ([]normalize.Source, error) {
	sources := make([]normalize.Source, len(readers))
	errs := make([]error, len(readers))

	var wg sync.WaitGroup
	for i, reader := range readers {
		wg.Add(1)
		go func(i int, reader SourceReader) {
			defer wg.Done()
			rows, err := reader.Rows(logging.WithSource(ctx, reader.Kind().String()))
			if err != nil {
				errs[i] = err
				return
			}
			sources[i] = normalize.Source{Kind: reader.Kind(), Rows: rows}
		}(i, reader)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sources, nil
}
