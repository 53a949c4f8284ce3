package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldcrew/statsync/internal/crm"
)

func row(actor, status string, count any) crm.FactRow {
	raw, _ := json.Marshal(count)
	return crm.FactRow{
		DataCells: []crm.DataCell{
			{Label: actor},
			{Label: status},
			{Value: raw},
		},
	}
}

func TestParseReport(t *testing.T) {
	payload := &crm.ReportPayload{
		FactMap: map[string]crm.FactSection{
			"0!T": {Rows: []crm.FactRow{
				row("J. Smith", "Working - Contacted", 4),
				row("Maria Lopez", "Installed", 2),
			}},
			"1!T": {Rows: []crm.FactRow{
				row("J. Smith", "Demo Set", 1),
			}},
		},
	}

	rows := ParseReport(payload)

	assert.Equal(t, []Row{
		{ActorLabel: "J. Smith", Status: "Working - Contacted", Count: 4},
		{ActorLabel: "Maria Lopez", Status: "Installed", Count: 2},
		{ActorLabel: "J. Smith", Status: "Demo Set", Count: 1},
	}, rows)
}

func TestParseReportSkipsGrandTotalSection(t *testing.T) {
	payload := &crm.ReportPayload{
		FactMap: map[string]crm.FactSection{
			"0!T": {Rows: []crm.FactRow{row("J. Smith", "Installed", 2)}},
			crm.GrandTotalKey: {Rows: []crm.FactRow{
				row("J. Smith", "Installed", 2),
			}},
		},
	}

	rows := ParseReport(payload)
	assert.Len(t, rows, 1)
}

func TestParseReportDropsBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  crm.FactRow
	}{
		{name: "Zero count", row: row("J. Smith", "Installed", 0)},
		{name: "Empty actor", row: row("   ", "Installed", 3)},
		{name: "Empty status", row: row("J. Smith", "", 3)},
		{name: "Malformed count", row: row("J. Smith", "Installed", "four")},
		{name: "Too few cells", row: crm.FactRow{DataCells: []crm.DataCell{{Label: "J. Smith"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := &crm.ReportPayload{
				FactMap: map[string]crm.FactSection{"0!T": {Rows: []crm.FactRow{tt.row}}},
			}
			assert.Empty(t, ParseReport(payload))
		})
	}
}

func TestParseReportCountFromLabel(t *testing.T) {
	// Some report columns only populate the display label
	payload := &crm.ReportPayload{
		FactMap: map[string]crm.FactSection{
			"0!T": {Rows: []crm.FactRow{{
				DataCells: []crm.DataCell{
					{Label: "J. Smith"},
					{Label: "Installed"},
					{Label: " 7 "},
				},
			}}},
		},
	}

	rows := ParseReport(payload)
	assert.Equal(t, []Row{{ActorLabel: "J. Smith", Status: "Installed", Count: 7}}, rows)
}

func TestParseReportTrimsFields(t *testing.T) {
	payload := &crm.ReportPayload{
		FactMap: map[string]crm.FactSection{
			"0!T": {Rows: []crm.FactRow{row("  J. Smith ", " Installed ", 1)}},
		},
	}

	rows := ParseReport(payload)
	assert.Equal(t, []Row{{ActorLabel: "J. Smith", Status: "Installed", Count: 1}}, rows)
}

func TestParseReportNilPayload(t *testing.T) {
	assert.Nil(t, ParseReport(nil))
}
