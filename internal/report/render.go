// Package report renders a PeriodReport into its two human-readable
// representations: a detailed digest and a terse summary. Rendering is a
// pure transform; every optional sub-section is independently omitted
// when absent.
package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fieldcrew/statsync/internal/domain"
)

// maxEnumeratedIncidents is the largest incident count still listed
// individually in the digest; above it only the totals appear
const maxEnumeratedIncidents = 5

var categoryLabels = map[domain.Category]string{
	domain.CategoryBadContact:      "Bad contact",
	domain.CategoryDead:            "Dead",
	domain.CategoryStillContacting: "Still contacting",
	domain.CategoryInstall:         "Installs",
	domain.CategoryDemo:            "Demos",
}

// RenderDigest renders the detailed per-employee digest
func RenderDigest(r *domain.PeriodReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Field team performance report (%s)\n", periodLabel(r.Period))
	fmt.Fprintf(&b, "%s — %s\n", r.Range.From.Format("Mon Jan 2 2006"), r.Range.To.Format("Mon Jan 2 2006"))
	b.WriteString("\n")

	if len(r.Employees) == 0 {
		b.WriteString("No activity recorded for this period.\n")
		return b.String()
	}

	for i := range r.Employees {
		writeEmployeeSection(&b, &r.Employees[i])
	}

	b.WriteString("Team totals\n")
	writeOutcomeTable(&b, r.Totals.Counts, r.Totals.TotalSurveys, r.Totals.InstallRate)
	fmt.Fprintf(&b, "  Hours worked: %.1f over %d shift(s)\n", r.Totals.HoursWorked, r.Totals.ShiftCount)
	if r.Totals.InactivityCount > 0 {
		fmt.Fprintf(&b, "  Inactivity: %d incident(s), %d minute(s)\n", r.Totals.InactivityCount, r.Totals.InactivityMinutes)
	}

	return b.String()
}

func writeEmployeeSection(b *strings.Builder, e *domain.EmployeeReportSummary) {
	fmt.Fprintf(b, "%s\n", e.Name)

	if e.TotalSurveys > 0 {
		writeOutcomeTable(b, e.Counts, e.TotalSurveys, e.InstallRate)
	}

	if e.ShiftCount > 0 {
		fmt.Fprintf(b, "  Hours worked: %.1f over %d shift(s)\n", e.HoursWorked, e.ShiftCount)
		for _, shift := range e.Shifts {
			out := "(still clocked in)"
			if shift.ClockOut != nil {
				out = shift.ClockOut.Format("15:04")
			}
			fmt.Fprintf(b, "    %s %s - %s\n", shift.ClockIn.Format("Jan 2"), shift.ClockIn.Format("15:04"), out)
		}
	}

	if e.InactivityCount > 0 {
		fmt.Fprintf(b, "  Inactivity: %d incident(s), %d minute(s)\n", e.InactivityCount, e.InactivityMinutes)
		if e.InactivityCount <= maxEnumeratedIncidents {
			for _, inc := range e.Incidents {
				line := fmt.Sprintf("    %s: %d min", inc.OccurredAt.Format("Jan 2 15:04"), inc.DurationMinutes)
				if inc.Reason != "" {
					line += " (" + inc.Reason + ")"
				}
				b.WriteString(line + "\n")
			}
		}
	}

	b.WriteString("\n")
}

func writeOutcomeTable(b *strings.Builder, counts map[domain.Category]int, total int, installRate float64) {
	for _, c := range domain.Categories() {
		n := counts[c]
		if n == 0 {
			continue
		}
		fmt.Fprintf(b, "  %s %d\n", pad(categoryLabels[c]+":", 18), n)
	}
	fmt.Fprintf(b, "  %s %d\n", pad("Total surveys:", 18), total)
	fmt.Fprintf(b, "  %s %.0f%%\n", pad("Install rate:", 18), installRate*100)
}

// RenderSummary renders the terse team summary used for SMS delivery
func RenderSummary(r *domain.PeriodReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Team %s: %d surveys, %d installs (%.0f%%), %.1fh worked",
		periodLabel(r.Period),
		r.Totals.TotalSurveys,
		r.Totals.Counts[domain.CategoryInstall],
		r.Totals.InstallRate*100,
		r.Totals.HoursWorked,
	)

	if len(r.TopPerformers) > 0 {
		b.WriteString(". Top: ")
		parts := make([]string, 0, len(r.TopPerformers))
		for i, p := range r.TopPerformers {
			parts = append(parts, fmt.Sprintf("%d. %s (%d)", i+1, p.Name, p.Installs()))
		}
		b.WriteString(strings.Join(parts, ", "))
	}

	return b.String()
}

func periodLabel(p domain.ReportPeriod) string {
	switch p {
	case domain.PeriodYesterday:
		return "yesterday"
	case domain.PeriodLast7Days:
		return "last 7 days"
	default:
		return "today"
	}
}

// pad right-pads s with spaces to the given display width; names and
// labels may contain wide runes
func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
