package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prontoxi/pricesync/pkg/pronto"
)

// effectiveDateFormat is the date format Pronto's pricelist importer
// expects, e.g. "02-Jan-2006".
const effectiveDateFormat = "02-Jan-2006"

// WritePriceChanges renders the price-changes report as CSV.
func WritePriceChanges(w io.Writer, rows []PriceChangeRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Item Code", "Brand", "Description", "Price Rule", "Price Was", "Price Now", "Price Diff"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.ItemCode, r.Brand, r.Description, r.RuleCode,
			r.Was.StringFixed(2), r.Now.StringFixed(2), r.Diff.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCostChanges renders the supplier-price-changes report as CSV.
func WriteCostChanges(w io.Writer, rows []CostChangeRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Supplier", "Item Code", "Cost Was", "Cost Now"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.SupplierCode, r.ItemCode, r.Was.StringFixed(2), r.Now.StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGtinReport renders the missing-barcode report as CSV.
func WriteGtinReport(w io.Writer, rows []GtinRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Item Code", "Brand", "Description"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ItemCode, r.Brand, r.Description}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWebDataUpdates renders the web-data-updates report as CSV.
func WriteWebDataUpdates(w io.Writer, rows []WebUpdateRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Item Code", "Price Rule", "Menu"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ItemCode, r.RuleCode, r.MenuName}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMissingImages renders the missing-images report as CSV.
func WriteMissingImages(w io.Writer, rows []MissingImageRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Item Code", "Description"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ItemCode, r.Description}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTicketList renders the ticket list as one item code per line.
func WriteTicketList(w io.Writer, codes []string) error {
	for _, code := range codes {
		if _, err := fmt.Fprintln(w, code); err != nil {
			return err
		}
	}
	return nil
}

// WritePricelist renders the Pronto-importable pricelist: headerless
// CSV with the effective date in each row, matching the importer's
// column layout.
func WritePricelist(w io.Writer, rows []PricelistRow, effective time.Time) error {
	date := effective.Format(effectiveDateFormat)
	cw := csv.NewWriter(w)
	for _, r := range rows {
		if err := cw.Write([]string{
			r.ItemCode, r.Region, r.UnitPrice.StringFixed(2), "", date, "",
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSupplierPricelist renders one supplier's pricelist entries as
// CSV.
func WriteSupplierPricelist(w io.Writer, entries []pronto.SupplierPricelistEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"supplier_code", "item_code", "new_cost"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.SupplierCode, e.ItemCode, e.NewCost.StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProductPriceTask renders the taskrunner product-price task as a
// tab-delimited file with a header row.
func WriteProductPriceTask(w io.Writer, rows []PricelistRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"item_code", "region", "price"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ItemCode, r.Region, r.UnitPrice.StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteContractItemTask renders the taskrunner contract-items task as a
// tab-delimited file with a header row.
func WriteContractItemTask(w io.Writer, rows []ContractRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"item_code", "contract_price"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ItemCode, r.ContractPrice.StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePriceRulesJSON renders the price-rules export consumed by the
// external pricing application.
func WritePriceRulesJSON(w io.Writer, exports []PriceRuleExport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exports)
}
