package pipeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcrew/statsync/internal/domain"
)

func TestAggregator(t *testing.T) {
	runDay := time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)
	empA := uuid.New()
	empB := uuid.New()

	agg := NewAggregator(runDay)
	agg.Add(empA, domain.CategoryStillContacting, 4)
	agg.Add(empA, domain.CategoryStillContacting, 2)
	agg.Add(empA, domain.CategoryInstall, 1)
	agg.Add(empB, domain.CategoryDemo, 3)

	results := agg.Results()
	require.Len(t, results, 2)

	byID := map[uuid.UUID]*domain.DailyStat{}
	for _, st := range results {
		byID[st.EmployeeID] = st

		// the date is always the run day at midnight
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), st.Date)

		// total always equals the sum of the category counts
		sum := 0
		for _, n := range st.Counts {
			sum += n
		}
		assert.Equal(t, sum, st.Total)
	}

	assert.Equal(t, 6, byID[empA].Counts[domain.CategoryStillContacting])
	assert.Equal(t, 1, byID[empA].Counts[domain.CategoryInstall])
	assert.Equal(t, 7, byID[empA].Total)
	assert.Equal(t, 3, byID[empB].Total)
}

func TestAggregatorDeterministicOrder(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	agg := NewAggregator(time.Now())
	for _, id := range ids {
		agg.Add(id, domain.CategoryInstall, 1)
	}

	first := agg.Results()
	second := agg.Results()

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].EmployeeID, second[i].EmployeeID)
	}
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].EmployeeID.String(), first[i].EmployeeID.String())
	}
}

func TestAggregatorEmpty(t *testing.T) {
	agg := NewAggregator(time.Now())
	assert.Empty(t, agg.Results())
}
