package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/prontoxi/pricesync/pkg/report"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files. Flag values are layered on top
// by UpdateFromFlags after cobra parses them.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Engine configuration
	SnapshotPath      string
	DefaultRegion     string
	IgnoredRules      []string
	IgnoredBins       []string
	IgnoredGtinBrands []string

	// File locations
	ImportDir string
	OutputDir string

	// Remote drop directory; empty disables transfer.
	RemoteDir string
	RemoteOut string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of
// precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (.pricesync.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PRICESYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pricesync")
	}

	// Missing config file is fine; everything has a default.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		SnapshotPath:      viper.GetString("snapshot_path"),
		DefaultRegion:     viper.GetString("default_region"),
		IgnoredRules:      viper.GetStringSlice("ignored_rules"),
		IgnoredBins:       viper.GetStringSlice("ignored_bins"),
		IgnoredGtinBrands: viper.GetStringSlice("ignored_gtin_brands"),

		ImportDir: viper.GetString("import_dir"),
		OutputDir: viper.GetString("output_dir"),
		RemoteDir: viper.GetString("remote_dir"),
		RemoteOut: viper.GetString("remote_out"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.SnapshotPath == "" {
		config.SnapshotPath = filepath.Join("state", "snapshot.yaml")
	}
	if config.ImportDir == "" {
		config.ImportDir = "imports"
	}
	if config.OutputDir == "" {
		config.OutputDir = "out"
	}

	return config, nil
}

// ReportPaths returns the output file per report under the configured
// output directory.
func (c *Config) ReportPaths() report.Paths {
	out := func(name string) string { return filepath.Join(c.OutputDir, name) }
	return report.Paths{
		PriceChanges:         out("price-changes.csv"),
		SupplierPriceChanges: out("supplier-price-changes.csv"),
		GtinReport:           out("gtin-report.csv"),
		WebDataUpdates:       out("web-data-updates.csv"),
		MissingImages:        out("missing-images.csv"),
		TicketList:           out("tickets.txt"),
		Pricelist:            out("pricelist.csv"),
		SupplierPricelist:    out("supplier-pricelist-" + report.SupplierPlaceholder + ".csv"),
		ProductPriceTask:     out("product-prices.txt"),
		ContractItemTask:     out("contract-items.txt"),
		PriceRulesJSON:       out("price-rules.json"),
	}
}

// UpdateFromFlags updates config values from parsed command flags so
// flags take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the
// default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
