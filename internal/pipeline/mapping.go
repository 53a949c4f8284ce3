package pipeline

import (
	"github.com/fieldcrew/statsync/internal/domain"
)

// MappingResolver resolves external status strings to outcome categories.
// It holds an immutable snapshot loaded once per run; matching is exact
// and case-sensitive. A miss is a skip signal, not an error.
type MappingResolver struct {
	byType map[domain.RecordType]map[string]domain.Category
}

// NewMappingResolver builds a resolver from a mapping snapshot. Mappings
// with an invalid category or record type are ignored.
func NewMappingResolver(mappings []*domain.StatusMapping) *MappingResolver {
	byType := map[domain.RecordType]map[string]domain.Category{
		domain.RecordTypeLead:        {},
		domain.RecordTypeAppointment: {},
	}

	for _, m := range mappings {
		if !m.RecordType.IsValid() || !m.Category.IsValid() {
			continue
		}
		byType[m.RecordType][m.ExternalStatus] = m.Category
	}

	return &MappingResolver{byType: byType}
}

// Resolve looks up a status for a record type. The second return value
// is false when the status is unmapped.
func (r *MappingResolver) Resolve(status string, recordType domain.RecordType) (domain.Category, bool) {
	c, ok := r.byType[recordType][status]
	return c, ok
}

// Size returns the number of usable mappings in the snapshot
func (r *MappingResolver) Size() int {
	n := 0
	for _, m := range r.byType {
		n += len(m)
	}
	return n
}
