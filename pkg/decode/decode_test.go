package decode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldroute/optimizer/pkg/models"
)

func TestRoute_SingleOrderSkillPresent(t *testing.T) {
	shiftStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	shiftEnd := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)

	tech := models.Technician{
		ID: "tech-01", Name: "Alex", Skills: []string{"general_maintenance"},
		MaxHours: 8, ShiftStart: shiftStart, ShiftEnd: shiftEnd,
	}
	wo := models.WorkOrder{
		ID: "wo-01", RequiredSkills: []string{"general_maintenance"},
		ServiceDuration: 30 * time.Minute,
		TimeWindowStart: shiftStart, TimeWindowEnd: shiftEnd,
	}

	matrix := models.NewDistanceMatrix(2)
	matrix.Set(0, 1, 15)

	route, unassigned := Route(tech, 0, 1, []int{0}, []models.WorkOrder{wo}, matrix, 30)

	assert.Empty(t, unassigned)
	assert.Len(t, route.Stops, 1)
	assert.Equal(t, 0, route.Stops[0].Sequence)
	assert.Equal(t, "wo-01", route.Stops[0].WorkOrderID)
}

func TestRoute_SkillAbsentDropsStop(t *testing.T) {
	shiftStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	shiftEnd := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)

	tech := models.Technician{ID: "tech-01", Skills: []string{"hvac"}, MaxHours: 8, ShiftStart: shiftStart, ShiftEnd: shiftEnd}
	wo := models.WorkOrder{
		ID: "wo-01", RequiredSkills: []string{"exotic"},
		TimeWindowStart: shiftStart, TimeWindowEnd: shiftEnd,
	}

	matrix := models.NewDistanceMatrix(2)
	route, unassigned := Route(tech, 0, 1, []int{0}, []models.WorkOrder{wo}, matrix, 30)

	assert.Empty(t, route.Stops)
	assert.Equal(t, []string{"wo-01"}, unassigned)
}

func TestRoute_InfeasibleWindowDropsStop(t *testing.T) {
	shiftStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	shiftEnd := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)

	tech := models.Technician{ID: "tech-01", Skills: nil, MaxHours: 8, ShiftStart: shiftStart, ShiftEnd: shiftEnd}
	wo := models.WorkOrder{
		ID:              "wo-01",
		TimeWindowStart: shiftStart,
		TimeWindowEnd:   shiftStart.Add(time.Hour), // 09:00
	}

	// 120 miles at 30mph = 240 min = 4h travel, arriving at 12:00, after the 09:00 window end.
	matrix := models.NewDistanceMatrix(2)
	matrix.Set(0, 1, 120)

	route, unassigned := Route(tech, 0, 1, []int{0}, []models.WorkOrder{wo}, matrix, 30)

	assert.Empty(t, route.Stops)
	assert.Equal(t, []string{"wo-01"}, unassigned)
}

func TestRoute_UtilizationNeverExceeds100(t *testing.T) {
	shiftStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	shiftEnd := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tech := models.Technician{ID: "tech-01", MaxHours: 1, ShiftStart: shiftStart, ShiftEnd: shiftEnd}
	wo := models.WorkOrder{
		ID: "wo-01", ServiceDuration: 50 * time.Minute,
		TimeWindowStart: shiftStart, TimeWindowEnd: shiftEnd,
	}
	matrix := models.NewDistanceMatrix(2)
	matrix.Set(0, 1, 5)

	route, _ := Route(tech, 0, 1, []int{0}, []models.WorkOrder{wo}, matrix, 30)

	assert.LessOrEqual(t, route.UtilizationPercent, 100.0)
	assert.GreaterOrEqual(t, route.UtilizationPercent, 0.0)
}
