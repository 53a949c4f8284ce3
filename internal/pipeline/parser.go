// Package pipeline contains the pure stages of the CRM reconciliation
// pipeline: report row parsing, status mapping, identity resolution and
// per-day aggregation. Every stage is side-effect free; diagnostics are
// threaded through an explicit accumulator.
package pipeline

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/fieldcrew/statsync/internal/crm"
)

// Row is one normalized detail row extracted from a CRM report
type Row struct {
	ActorLabel string
	Status     string
	Count      int
}

// ParseReport extracts (actor label, status, count) triples from a report
// payload. Rows with an empty label, an empty status or a zero count are
// dropped. A malformed count parses to zero and is therefore dropped too;
// bad data must never abort the run. Row order is preserved but carries
// no meaning downstream.
func ParseReport(payload *crm.ReportPayload) []Row {
	if payload == nil {
		return nil
	}

	keys := make([]string, 0, len(payload.FactMap))
	for key := range payload.FactMap {
		// The grand-total bucket repeats every detail row
		if key == crm.GrandTotalKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var rows []Row

	for _, key := range keys {
		for _, r := range payload.FactMap[key].Rows {
			if len(r.DataCells) < 3 {
				continue
			}

			actor := strings.TrimSpace(r.DataCells[0].Label)
			status := strings.TrimSpace(r.DataCells[1].Label)
			count := cellCount(r.DataCells[2])

			if actor == "" || status == "" || count == 0 {
				continue
			}

			rows = append(rows, Row{ActorLabel: actor, Status: status, Count: count})
		}
	}

	return rows
}

// cellCount reads a numeric count from a data cell. The CRM emits the
// value as a JSON number or a quoted string depending on the column;
// the label is the fallback. Anything unparseable counts as zero.
func cellCount(cell crm.DataCell) int {
	if len(cell.Value) > 0 {
		var n json.Number
		if err := json.Unmarshal(cell.Value, &n); err == nil {
			if f, err := n.Float64(); err == nil {
				return int(f)
			}
		}

		var s string
		if err := json.Unmarshal(cell.Value, &s); err == nil {
			return parseCount(s)
		}

		return 0
	}

	return parseCount(cell.Label)
}

func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}

	return n
}
