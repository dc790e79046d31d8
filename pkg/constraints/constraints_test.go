package constraints

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/models"
)

func TestSkillMatch(t *testing.T) {
	assert.True(t, SkillMatch([]string{"hvac", "electrical"}, []string{"hvac"}))
	assert.True(t, SkillMatch([]string{"hvac"}, nil))
	assert.False(t, SkillMatch([]string{"hvac"}, []string{"hvac", "plumbing"}))
}

func TestMissingSkills(t *testing.T) {
	missing := MissingSkills([]string{"hvac"}, []string{"hvac", "plumbing", "electrical"})
	assert.Equal(t, []string{"plumbing", "electrical"}, missing)
}

func TestTimeWindow_InclusiveBounds(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	ok, err := TimeWindow(start, start, end)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = TimeWindow(end, start, end)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = TimeWindow(end.Add(time.Minute), start, end)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTimeWindow_InvalidWindow(t *testing.T) {
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	_, err := TimeWindow(start, start, end)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidWindow, errors.KindOf(err))
}

func TestDailyLimit(t *testing.T) {
	ok, err := DailyLimit(6, 8, 1.5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DailyLimit(7, 8, 1.5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDailyLimit_NegativeArgument(t *testing.T) {
	_, err := DailyLimit(-1, 8, 1)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.KindOf(err))
}

func TestValidateRoute_NoViolations(t *testing.T) {
	tech := models.Technician{
		ID:         "tech-01",
		Skills:     []string{"hvac"},
		MaxHours:   8,
		ShiftStart: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		ShiftEnd:   time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
	}
	wo := models.WorkOrder{
		ID:              "wo-01",
		RequiredSkills:  []string{"hvac"},
		ServiceDuration: 30 * time.Minute,
		TimeWindowStart: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		TimeWindowEnd:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
	stop := models.RouteStop{
		WorkOrderID:       "wo-01",
		Sequence:          0,
		Arrival:           time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Departure:         time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		TravelDurationMin: 20,
	}

	violations := ValidateRoute([]models.RouteStop{stop}, tech, map[string]models.WorkOrder{"wo-01": wo})
	assert.Empty(t, violations)
}

func TestValidateRoute_SkillAndWindowViolations(t *testing.T) {
	tech := models.Technician{
		ID:         "tech-01",
		Skills:     []string{"plumbing"},
		MaxHours:   8,
		ShiftStart: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		ShiftEnd:   time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
	}
	wo := models.WorkOrder{
		ID:              "wo-01",
		RequiredSkills:  []string{"hvac"},
		ServiceDuration: 30 * time.Minute,
		TimeWindowStart: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		TimeWindowEnd:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	stop := models.RouteStop{
		WorkOrderID: "wo-01",
		Sequence:    0,
		Arrival:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Departure:   time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	}

	violations := ValidateRoute([]models.RouteStop{stop}, tech, map[string]models.WorkOrder{"wo-01": wo})
	assert.Len(t, violations, 2)
}
