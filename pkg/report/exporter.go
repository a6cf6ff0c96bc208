package report

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/prontoxi/pricesync/pkg/catalog"
	"github.com/prontoxi/pricesync/pkg/diff"
	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/logging"
	"github.com/prontoxi/pricesync/pkg/snapshot"
)

// SupplierPlaceholder is substituted with the supplier code in the
// supplier pricelist path, e.g. "out/spl-{supp}.csv".
const SupplierPlaceholder = "{supp}"

// Paths names the output file per report. An empty path disables that
// report for the run.
type Paths struct {
	PriceChanges         string
	SupplierPriceChanges string
	GtinReport           string
	WebDataUpdates       string
	MissingImages        string
	TicketList           string
	Pricelist            string
	SupplierPricelist    string // must contain SupplierPlaceholder
	ProductPriceTask     string
	ContractItemTask     string
	PriceRulesJSON       string
}

// Exporter materializes the configured reports to disk. Files are
// written to a temp name and renamed into place, so a failed run never
// leaves a half-written export where a previous run's file was.
type Exporter struct {
	paths  Paths
	policy Policy
	now    func() time.Time
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithClock overrides the effective-date clock, for tests.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

// NewExporter creates an Exporter for the given output paths and
// policy.
func NewExporter(paths Paths, policy Policy, opts ...ExporterOption) *Exporter {
	e := &Exporter{paths: paths, policy: policy, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Materialize runs every configured selector and writes its file.
// It returns the paths written; the first failure aborts and vetoes
// the snapshot commit.
func (e *Exporter) Materialize(ctx context.Context, cs *diff.Changeset, g *catalog.Graph, current snapshot.Snapshot) ([]string, error) {
	var written []string
	log := logging.Ctx(ctx)

	emit := func(name, path string, render func(io.Writer) error) error {
		if path == "" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return errors.NewExportError(name, path, err)
		}
		if err := writeFileAtomic(path, render); err != nil {
			return errors.NewExportError(name, path, err)
		}
		written = append(written, path)
		log.Debug().Str("report", name).Str("path", path).Msg("Report written")
		return nil
	}

	if err := emit("price-changes", e.paths.PriceChanges, func(w io.Writer) error {
		return WritePriceChanges(w, PriceChanges(cs))
	}); err != nil {
		return written, err
	}
	if err := emit("supplier-price-changes", e.paths.SupplierPriceChanges, func(w io.Writer) error {
		return WriteCostChanges(w, SupplierPriceChanges(g))
	}); err != nil {
		return written, err
	}
	if err := emit("gtin-report", e.paths.GtinReport, func(w io.Writer) error {
		return WriteGtinReport(w, MissingGtins(current, e.policy))
	}); err != nil {
		return written, err
	}
	if err := emit("web-data-updates", e.paths.WebDataUpdates, func(w io.Writer) error {
		return WriteWebDataUpdates(w, WebDataUpdates(cs, g))
	}); err != nil {
		return written, err
	}
	if err := emit("missing-images", e.paths.MissingImages, func(w io.Writer) error {
		return WriteMissingImages(w, MissingImages(g))
	}); err != nil {
		return written, err
	}
	if err := emit("ticket-list", e.paths.TicketList, func(w io.Writer) error {
		return WriteTicketList(w, TicketList(g, e.policy))
	}); err != nil {
		return written, err
	}
	if err := emit("pricelist", e.paths.Pricelist, func(w io.Writer) error {
		return WritePricelist(w, PricelistRows(cs), e.now())
	}); err != nil {
		return written, err
	}
	if err := emit("product-price-task", e.paths.ProductPriceTask, func(w io.Writer) error {
		return WriteProductPriceTask(w, PricelistRows(cs))
	}); err != nil {
		return written, err
	}
	if err := emit("contract-item-task", e.paths.ContractItemTask, func(w io.Writer) error {
		return WriteContractItemTask(w, ContractRows(g))
	}); err != nil {
		return written, err
	}
	if err := emit("price-rules-json", e.paths.PriceRulesJSON, func(w io.Writer) error {
		return WritePriceRulesJSON(w, PriceRuleExports(current))
	}); err != nil {
		return written, err
	}

	if e.paths.SupplierPricelist != "" {
		groups := SupplierPricelistRows(g)
		suppliers := make([]string, 0, len(groups))
		for supplier := range groups {
			suppliers = append(suppliers, supplier)
		}
		sort.Strings(suppliers)
		for _, supplier := range suppliers {
			entries := groups[supplier]
			path := strings.ReplaceAll(e.paths.SupplierPricelist, SupplierPlaceholder, supplier)
			if err := emit("supplier-pricelist", path, func(w io.Writer) error {
				return WriteSupplierPricelist(w, entries)
			}); err != nil {
				return written, err
			}
		}
	}

	return written, nil
}

// writeFileAtomic renders into a temp file in the target directory and
// renames it over the destination.
func writeFileAtomic(path string, render func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := render(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
