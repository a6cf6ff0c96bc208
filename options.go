package pricesync

import (
	"strings"

	"github.com/prontoxi/pricesync/internal/transfer"
	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/pronto"
	"github.com/prontoxi/pricesync/pkg/report"
	"github.com/prontoxi/pricesync/pkg/snapshot"
)

// config holds the engine's assembled collaborators and policy.
type config struct {
	store         snapshot.Store
	sources       []SourceReader
	ignoredRules  pronto.IgnoreSet
	ignoredBins   pronto.IgnoreSet
	ignoredBrands pronto.IgnoreSet
	defaultRegion string
	reportPaths   report.Paths

	remote    transfer.Client
	remoteDir string
}

func defaultConfig() *config {
	return &config{
		store: snapshot.NewMemoryStore(nil),
	}
}

func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}

	seen := make(map[pronto.SourceKind]bool, len(c.sources))
	for _, src := range c.sources {
		if !src.Kind().IsValid() {
			return errors.NewConfigError("sources", "unknown source kind "+src.Kind().String(), nil)
		}
		if seen[src.Kind()] {
			return errors.NewConfigError("sources", "duplicate source "+src.Kind().String(), nil)
		}
		seen[src.Kind()] = true
	}

	if c.reportPaths.SupplierPricelist != "" &&
		!strings.Contains(c.reportPaths.SupplierPricelist, report.SupplierPlaceholder) {
		return errors.NewConfigError("reports",
			"supplier pricelist path must contain "+report.SupplierPlaceholder, nil)
	}
	return nil
}

func (c *config) policy() report.Policy {
	return report.Policy{
		IgnoredBins:       c.ignoredBins,
		IgnoredGtinBrands: c.ignoredBrands,
	}
}

// Option configures an Engine at construction time.
type Option func(*config) error

// WithStore sets the snapshot store the engine loads its baseline from
// and commits to.
func WithStore(store snapshot.Store) Option {
	return func(c *config) error {
		if store == nil {
			return errors.NewConfigError("store", "store must not be nil", nil)
		}
		c.store = store
		return nil
	}
}

// WithSnapshotPath is shorthand for WithStore with a file store at the
// given path.
func WithSnapshotPath(path string) Option {
	return func(c *config) error {
		if path == "" {
			return errors.NewConfigError("store", "snapshot path must not be empty", nil)
		}
		c.store = snapshot.NewFileStore(path)
		return nil
	}
}

// WithSources sets the import sources read each run.
func WithSources(sources ...SourceReader) Option {
	return func(c *config) error {
		c.sources = append(c.sources, sources...)
		return nil
	}
}

// WithIgnoredRules sets the price rule codes the resolver skips.
func WithIgnoredRules(codes ...string) Option {
	return func(c *config) error {
		c.ignoredRules = pronto.NewIgnoreSet(codes...)
		return nil
	}
}

// WithIgnoredBins sets the bin locations excluded from the ticket
// list.
func WithIgnoredBins(bins ...string) Option {
	return func(c *config) error {
		c.ignoredBins = pronto.NewIgnoreSet(bins...)
		return nil
	}
}

// WithIgnoredGtinBrands sets the brands excluded from the GTIN report.
func WithIgnoredGtinBrands(brands ...string) Option {
	return func(c *config) error {
		c.ignoredBrands = pronto.NewIgnoreSet(brands...)
		return nil
	}
}

// WithDefaultRegion sets the region the resolver prefers when several
// rules price the same item.
func WithDefaultRegion(region string) Option {
	return func(c *config) error {
		c.defaultRegion = region
		return nil
	}
}

// WithReportPaths sets the output file per report; empty paths disable
// the report.
func WithReportPaths(paths report.Paths) Option {
	return func(c *config) error {
		c.reportPaths = paths
		return nil
	}
}

// WithRemote configures upload of the written exports to a remote drop
// directory after materialization.
func WithRemote(client transfer.Client, dir string) Option {
	return func(c *config) error {
		if client == nil {
			return errors.NewConfigError("remote", "client must not be nil", nil)
		}
		c.remote = client
		c.remoteDir = dir
		return nil
	}
}

// RunOption configures a single Run.
type RunOption func(*runOptions)

type runOptions struct {
	dryRun   bool
	noCommit bool
}

// WithDryRun computes the changeset without writing exports, uploading
// or committing the snapshot.
func WithDryRun() RunOption {
	return func(o *runOptions) { o.dryRun = true }
}

// WithoutCommit writes exports but leaves the baseline snapshot in
// place, so the same changes are reported again next run.
func WithoutCommit() RunOption {
	return func(o *runOptions) { o.noCommit = true }
}
