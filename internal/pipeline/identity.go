package pipeline

import (
	"strings"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// identityTier is one representation of an employee that the CRM's
// free-text surveyor label might use. Tiers are ordered highest
// priority first; the order is the auditable ambiguity policy.
type identityTier struct {
	name  string
	alias bool
	key   func(e *domain.Employee) string
}

// identityTiers is the fixed priority order. Short keys (a bare first
// name) are inherently ambiguous; the alias tier exists so operators can
// eliminate that ambiguity per employee.
var identityTiers = []identityTier{
	{name: "alias", alias: true, key: func(e *domain.Employee) string { return strings.TrimSpace(e.Alias) }},
	{name: "alias_lower", alias: true, key: func(e *domain.Employee) string { return strings.ToLower(strings.TrimSpace(e.Alias)) }},
	{name: "first_last", key: func(e *domain.Employee) string { return e.FullName() }},
	{name: "first_last_lower", key: func(e *domain.Employee) string { return strings.ToLower(e.FullName()) }},
	{name: "last_first", key: lastFirst},
	{name: "last_first_lower", key: func(e *domain.Employee) string { return strings.ToLower(lastFirst(e)) }},
	{name: "first", key: func(e *domain.Employee) string { return strings.TrimSpace(e.FirstName) }},
	{name: "first_lower", key: func(e *domain.Employee) string { return strings.ToLower(strings.TrimSpace(e.FirstName)) }},
	{name: "last", key: func(e *domain.Employee) string { return strings.TrimSpace(e.LastName) }},
	{name: "last_lower", key: func(e *domain.Employee) string { return strings.ToLower(strings.TrimSpace(e.LastName)) }},
	{name: "email_local", key: func(e *domain.Employee) string { return e.EmailLocalPart() }},
	{name: "email_local_lower", key: func(e *domain.Employee) string { return strings.ToLower(e.EmailLocalPart()) }},
}

func lastFirst(e *domain.Employee) string {
	first := strings.TrimSpace(e.FirstName)
	last := strings.TrimSpace(e.LastName)
	if first == "" || last == "" {
		return ""
	}
	return last + ", " + first
}

// identityEntry is the table value: who a key resolves to and whether
// the key came from the alias tier
type identityEntry struct {
	employeeID uuid.UUID
	alias      bool
}

// IdentityResolver resolves free-text actor labels to employee IDs using
// a priority-tiered lookup table built once per run.
//
// The table is populated tier by tier from the lowest priority to the
// highest, employees in snapshot order within each tier, every insert
// overwriting. Last-registered wins, so a higher tier always shadows a
// lower one, and within a tier a later employee shadows an earlier one.
// That is a deliberate best-effort policy: the system prefers a possible
// mis-attribution on an ambiguous short key over no resolution at all.
type IdentityResolver struct {
	table map[string]identityEntry
}

// Resolution is a successful identity lookup
type Resolution struct {
	EmployeeID uuid.UUID
	// AliasTier is true when the hit came from the alias tier rather
	// than a name-derived tier
	AliasTier bool
}

// NewIdentityResolver builds the lookup table from an employee snapshot
func NewIdentityResolver(employees []*domain.Employee) *IdentityResolver {
	table := make(map[string]identityEntry, len(employees)*len(identityTiers))

	for t := len(identityTiers) - 1; t >= 0; t-- {
		tier := identityTiers[t]
		for _, e := range employees {
			key := tier.key(e)
			if key == "" {
				continue
			}
			table[key] = identityEntry{employeeID: e.ID, alias: tier.alias}
		}
	}

	return &IdentityResolver{table: table}
}

// Resolve looks up an actor label: first as given, then lower-cased.
// The second return value is false when no tier matched.
func (r *IdentityResolver) Resolve(label string) (Resolution, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Resolution{}, false
	}

	if e, ok := r.table[label]; ok {
		return Resolution{EmployeeID: e.employeeID, AliasTier: e.alias}, true
	}

	if e, ok := r.table[strings.ToLower(label)]; ok {
		return Resolution{EmployeeID: e.employeeID, AliasTier: e.alias}, true
	}

	return Resolution{}, false
}

// Size returns the number of registered keys
func (r *IdentityResolver) Size() int {
	return len(r.table)
}
