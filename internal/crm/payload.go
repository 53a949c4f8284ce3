package crm

import "encoding/json"

// ReportPayload is the nested fact-table structure returned by the CRM's
// reporting API. Only the detail rows are consumed: per row, the first
// three data cells carry the surveyor label, the status label and the
// record count.
type ReportPayload struct {
	ReportID string                 `json:"report_id,omitempty"`
	FactMap  map[string]FactSection `json:"factMap"`
}

// FactSection is one grouping bucket of the fact map. The CRM emits a
// grand-total bucket under the key "T!T" that repeats every detail row.
type FactSection struct {
	Rows []FactRow `json:"rows"`
}

// FactRow is a single detail row
type FactRow struct {
	DataCells []DataCell `json:"dataCells"`
}

// DataCell carries the display label and the raw typed value of a cell.
// Value may be a JSON number or a string depending on the column type.
type DataCell struct {
	Label string          `json:"label"`
	Value json.RawMessage `json:"value,omitempty"`
}

// GrandTotalKey is the fact map bucket that duplicates all detail rows
const GrandTotalKey = "T!T"
