package pronto

// ManualMenuToken marks a web menu mapping that is maintained by hand
// in the e-commerce backend. Mappings carrying it are imported but never
// emitted into the web-data-updates report.
const ManualMenuToken = "man"

// WebMenuMapping maps a price rule code to the e-commerce menu the
// rule's items are listed under. The mapping sheet is manually curated.
type WebMenuMapping struct {
	RuleCode string
	MenuName string
}

// Key returns the folded rule code used for joins.
func (w WebMenuMapping) Key() string { return Key(w.RuleCode) }

// IsManual reports whether the mapping is maintained by hand and should
// be skipped by the web-data-updates selector.
func (w WebMenuMapping) IsManual() bool { return Key(w.MenuName) == ManualMenuToken }
