package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcrew/statsync/internal/domain"
)

func employee(first, last, email, alias string) *domain.Employee {
	return &domain.Employee{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  last,
		Email:     email,
		Alias:     alias,
		Active:    true,
	}
}

func TestIdentityResolverTiers(t *testing.T) {
	smith := employee("John", "Smith", "jsmith@example.com", "J. Smith")
	lopez := employee("Maria", "Lopez", "maria.lopez@example.com", "")

	resolver := NewIdentityResolver([]*domain.Employee{smith, lopez})

	tests := []struct {
		name  string
		label string
		want  uuid.UUID
		alias bool
	}{
		{name: "Alias exact", label: "J. Smith", want: smith.ID, alias: true},
		{name: "Alias lower-cased", label: "j. smith", want: smith.ID, alias: true},
		{name: "First Last", label: "Maria Lopez", want: lopez.ID},
		{name: "First Last lower-cased", label: "maria lopez", want: lopez.ID},
		{name: "Last comma First", label: "Lopez, Maria", want: lopez.ID},
		{name: "Bare first name", label: "Maria", want: lopez.ID},
		{name: "Bare last name", label: "Smith", want: smith.ID},
		{name: "Email local-part", label: "maria.lopez", want: lopez.ID},
		{name: "Label whitespace trimmed", label: "  Maria Lopez  ", want: lopez.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := resolver.Resolve(tt.label)
			require.True(t, ok)
			assert.Equal(t, tt.want, res.EmployeeID)
			assert.Equal(t, tt.alias, res.AliasTier)
		})
	}
}

func TestIdentityResolverAliasBeatsName(t *testing.T) {
	// One employee's full name is another's alias; the alias tier must win
	named := employee("Sam", "Docks", "sam@example.com", "")
	aliased := employee("Samantha", "Dockson", "samantha@example.com", "Sam Docks")

	resolver := NewIdentityResolver([]*domain.Employee{aliased, named})

	res, ok := resolver.Resolve("Sam Docks")
	require.True(t, ok)
	assert.Equal(t, aliased.ID, res.EmployeeID)
	assert.True(t, res.AliasTier)
}

func TestIdentityResolverLastRegisteredWins(t *testing.T) {
	// Two employees share a first name; the ambiguous bare-name key goes
	// to whoever was registered last
	first := employee("Alex", "Mora", "amora@example.com", "")
	second := employee("Alex", "Pine", "apine@example.com", "")

	resolver := NewIdentityResolver([]*domain.Employee{first, second})

	res, ok := resolver.Resolve("Alex")
	require.True(t, ok)
	assert.Equal(t, second.ID, res.EmployeeID)

	// Unambiguous full names still resolve individually
	res, ok = resolver.Resolve("Alex Mora")
	require.True(t, ok)
	assert.Equal(t, first.ID, res.EmployeeID)
}

func TestIdentityResolverUnmatched(t *testing.T) {
	resolver := NewIdentityResolver([]*domain.Employee{
		employee("John", "Smith", "jsmith@example.com", ""),
	})

	_, ok := resolver.Resolve("Unknown Person")
	assert.False(t, ok)

	_, ok = resolver.Resolve("")
	assert.False(t, ok)
}

func TestDiagnosticsAccumulation(t *testing.T) {
	diag := NewDiagnostics()

	diag.RecordUnmapped("Qualified")
	diag.RecordUnmapped("Qualified")
	diag.RecordUnmapped("Archived")
	diag.RecordUnmatched("Unknown Person")
	diag.RecordUnmatched("Unknown Person")
	diag.RecordSkipped()
	diag.RecordSkipped()
	diag.RecordSkipped()
	diag.RecordSkipped()
	diag.RecordResolution(Resolution{AliasTier: true})
	diag.RecordResolution(Resolution{AliasTier: false})
	diag.RecordResolution(Resolution{AliasTier: false})

	assert.Equal(t, []string{"Archived", "Qualified"}, diag.UnmappedStatuses())
	assert.Equal(t, 2, diag.UnmappedCount("Qualified"))
	assert.Equal(t, []string{"Unknown Person"}, diag.UnmatchedActors())
	assert.Equal(t, 1, diag.AliasResolutions)
	assert.Equal(t, 2, diag.NameResolutions)
	assert.Equal(t, 4, diag.SkippedRows)
}
