package pipeline

import "sort"

// Diagnostics accumulates the non-fatal data-quality signals of one run:
// statuses that no mapping covers and actor labels that no identity tier
// matched. It is passed explicitly through the pipeline so each stage
// stays testable in isolation.
type Diagnostics struct {
	unmappedStatuses map[string]int
	unmatchedActors  map[string]struct{}

	// tier hit counters let operators judge alias coverage over time
	AliasResolutions int
	NameResolutions  int
	SkippedRows      int
}

// NewDiagnostics creates an empty accumulator
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		unmappedStatuses: make(map[string]int),
		unmatchedActors:  make(map[string]struct{}),
	}
}

// RecordUnmapped notes a status string with no mapping
func (d *Diagnostics) RecordUnmapped(status string) {
	d.unmappedStatuses[status]++
}

// RecordUnmatched notes an actor label no identity tier matched
func (d *Diagnostics) RecordUnmatched(label string) {
	d.unmatchedActors[label] = struct{}{}
}

// RecordSkipped counts a dropped row. A row can fail both the mapping and
// the identity lookup yet it is still one skipped row, so the counter is
// kept separate from the per-miss recorders.
func (d *Diagnostics) RecordSkipped() {
	d.SkippedRows++
}

// RecordResolution notes a successful identity lookup
func (d *Diagnostics) RecordResolution(res Resolution) {
	if res.AliasTier {
		d.AliasResolutions++
	} else {
		d.NameResolutions++
	}
}

// UnmappedStatuses returns the distinct unmapped statuses, sorted
func (d *Diagnostics) UnmappedStatuses() []string {
	out := make([]string, 0, len(d.unmappedStatuses))
	for s := range d.unmappedStatuses {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// UnmappedCount returns how many rows carried the given unmapped status
func (d *Diagnostics) UnmappedCount(status string) int {
	return d.unmappedStatuses[status]
}

// UnmatchedActors returns the distinct unmatched labels, sorted
func (d *Diagnostics) UnmatchedActors() []string {
	out := make([]string, 0, len(d.unmatchedActors))
	for s := range d.unmatchedActors {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
