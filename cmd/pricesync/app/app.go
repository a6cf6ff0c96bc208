// Package app provides the application context and dependency wiring
// for the pricesync CLI: configuration, logging and lazy construction
// of the reconciliation engine from config.
package app

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/prontoxi/pricesync"
	"github.com/prontoxi/pricesync/internal/ingest"
	"github.com/prontoxi/pricesync/internal/transfer"
	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

// importSources maps each source kind to its conventional file name
// under the import directory. A missing file means the source is not
// part of this run.
var importSources = []pronto.SourceKind{
	pronto.SourceItems,
	pronto.SourceContractItems,
	pronto.SourcePricelist,
	pronto.SourceSupplierItems,
	pronto.SourceSupplierPricelist,
	pronto.SourceGtinItems,
	pronto.SourceWebMenuMappings,
	pronto.SourceMissingImages,
}

// App represents the pricesync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Engine instance (lazy-initialized, singleton)
	mu     sync.Mutex
	engine pricesync.Engine
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Engine returns the reconciliation engine, creating it lazily from
// the configuration.
func (a *App) Engine() (pricesync.Engine, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		return a.engine, nil
	}

	opts, err := a.buildEngineOptions()
	if err != nil {
		return nil, err
	}
	engine, err := pricesync.New(opts...)
	if err != nil {
		return nil, err
	}

	a.engine = engine
	return engine, nil
}

// buildEngineOptions constructs engine options from the app
// configuration.
func (a *App) buildEngineOptions() ([]pricesync.Option, error) {
	sources, err := a.discoverSources()
	if err != nil {
		return nil, err
	}

	opts := []pricesync.Option{
		pricesync.WithSnapshotPath(a.config.SnapshotPath),
		pricesync.WithSources(sources...),
		pricesync.WithIgnoredRules(a.config.IgnoredRules...),
		pricesync.WithIgnoredBins(a.config.IgnoredBins...),
		pricesync.WithIgnoredGtinBrands(a.config.IgnoredGtinBrands...),
		pricesync.WithDefaultRegion(a.config.DefaultRegion),
		pricesync.WithReportPaths(a.config.ReportPaths()),
	}

	if a.config.RemoteDir != "" {
		opts = append(opts, pricesync.WithRemote(
			transfer.NewFSClient(a.config.RemoteDir), a.config.RemoteOut))
	}

	return opts, nil
}

// discoverSources builds a reader per import file present in the
// import directory.
func (a *App) discoverSources() ([]pricesync.SourceReader, error) {
	if _, err := os.Stat(a.config.ImportDir); err != nil {
		return nil, errors.NewConfigError("imports",
			"import directory not readable: "+a.config.ImportDir, err)
	}

	var sources []pricesync.SourceReader
	for _, kind := range importSources {
		path := filepath.Join(a.config.ImportDir, kind.String()+".csv")
		if _, err := os.Stat(path); err != nil {
			a.logger.Debug().Str("source", kind.String()).Msg("Import file absent, source skipped")
			continue
		}
		sources = append(sources, ingest.NewCSVSource(kind, path))
	}
	if len(sources) == 0 {
		return nil, errors.NewConfigError("imports",
			"no import files found in "+a.config.ImportDir, nil)
	}
	return sources, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithEngine sets a custom engine instance (useful for testing).
func WithEngine(engine pricesync.Engine) Option {
	return func(a *App) error {
		a.engine = engine
		return nil
	}
}
