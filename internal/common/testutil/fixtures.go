// Package testutil provides fixtures and assertion helpers shared
// across the solver test suites, grounded in spec §8's benchmark
// scenario and invariants. Modeled on the teacher's own
// internal/common/testutil fixture-building style: plain constructors
// returning ready-to-use domain values, no test framework coupling
// beyond testify/assert/require in the Assert* helpers.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldroute/optimizer/pkg/models"
)

// denverDay anchors every fixture time window to a single fixed
// calendar day so durations and comparisons are deterministic.
var denverDay = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return denverDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// DenverWorkOrders returns the 15-order fixture used by spec §8
// scenario 5: a metro-Denver spread of properties with a mix of
// priorities, skills, and time windows wide enough that every solver
// is expected to assign at least half of them.
func DenverWorkOrders() []models.WorkOrder {
	type seed struct {
		id       string
		lat, lng float64
		priority models.Priority
		skills   []string
		duration time.Duration
		winStart int
		winEnd   int
	}

	seeds := []seed{
		{"wo-01", 39.7392, -104.9903, models.PriorityEmergency, []string{"hvac"}, 45 * time.Minute, 8, 12},
		{"wo-02", 39.7047, -104.9390, models.PriorityHigh, []string{"electrical"}, 60 * time.Minute, 8, 13},
		{"wo-03", 39.6806, -104.9811, models.PriorityMedium, []string{"general_maintenance"}, 30 * time.Minute, 9, 15},
		{"wo-04", 39.7654, -104.8719, models.PriorityLow, []string{"general_maintenance"}, 30 * time.Minute, 9, 17},
		{"wo-05", 39.7228, -105.0178, models.PriorityHigh, []string{"plumbing"}, 50 * time.Minute, 8, 12},
		{"wo-06", 39.6511, -104.8780, models.PriorityMedium, []string{"hvac"}, 40 * time.Minute, 10, 16},
		{"wo-07", 39.8003, -104.9705, models.PriorityEmergency, []string{"electrical"}, 45 * time.Minute, 8, 11},
		{"wo-08", 39.7075, -105.0810, models.PriorityLow, []string{"general_maintenance"}, 30 * time.Minute, 9, 17},
		{"wo-09", 39.6925, -104.9284, models.PriorityMedium, []string{"plumbing"}, 50 * time.Minute, 9, 14},
		{"wo-10", 39.7508, -104.9397, models.PriorityHigh, []string{"hvac"}, 45 * time.Minute, 8, 13},
		{"wo-11", 39.6433, -104.9915, models.PriorityLow, []string{"electrical"}, 60 * time.Minute, 10, 17},
		{"wo-12", 39.7817, -105.0229, models.PriorityMedium, []string{"general_maintenance"}, 30 * time.Minute, 9, 15},
		{"wo-13", 39.6983, -104.8566, models.PriorityHigh, []string{"plumbing"}, 50 * time.Minute, 8, 12},
		{"wo-14", 39.7402, -104.9625, models.PriorityLow, []string{"hvac"}, 40 * time.Minute, 11, 17},
		{"wo-15", 39.7163, -104.9010, models.PriorityMedium, []string{"electrical"}, 45 * time.Minute, 9, 16},
	}

	orders := make([]models.WorkOrder, len(seeds))
	for i, s := range seeds {
		orders[i] = models.WorkOrder{
			ID:              s.id,
			PropertyID:      "prop-" + s.id,
			Location:        models.Location{Lat: s.lat, Lng: s.lng},
			Priority:        s.priority,
			RequiredSkills:  s.skills,
			ServiceDuration: s.duration,
			TimeWindowStart: at(s.winStart, 0),
			TimeWindowEnd:   at(s.winEnd, 0),
		}
	}
	return orders
}

// DenverTechnicians returns the 5-technician fixture paired with
// DenverWorkOrders: overlapping but non-identical skill sets, home
// bases spread across the metro area, a 9-hour 08:00-17:00 shift, and
// an 8-hour daily budget.
func DenverTechnicians() []models.Technician {
	type seed struct {
		id       string
		name     string
		lat, lng float64
		skills   []string
	}

	seeds := []seed{
		{"tech-01", "Alex Rivera", 39.7392, -104.9903, []string{"hvac", "electrical", "general_maintenance"}},
		{"tech-02", "Bree Okafor", 39.7047, -104.9390, []string{"plumbing", "general_maintenance"}},
		{"tech-03", "Casey Lindqvist", 39.6806, -104.9811, []string{"electrical", "hvac"}},
		{"tech-04", "Dana Whitfield", 39.7654, -104.8719, []string{"general_maintenance", "plumbing"}},
		{"tech-05", "Eli Nakamura", 39.7228, -105.0178, []string{"hvac", "plumbing", "electrical"}},
	}

	techs := make([]models.Technician, len(seeds))
	for i, s := range seeds {
		techs[i] = models.Technician{
			ID:         s.id,
			Name:       s.name,
			Skills:     s.skills,
			Home:       models.Location{Lat: s.lat, Lng: s.lng},
			MaxHours:   8.0,
			ShiftStart: at(8, 0),
			ShiftEnd:   at(17, 0),
		}
	}
	return techs
}

// AssertPartition checks spec §8's Partition invariant: assigned and
// unassigned ids are disjoint and their union equals allIDs.
func AssertPartition(t *testing.T, result models.OptimizationResult, allIDs []string) {
	t.Helper()

	assignedIDs := make(map[string]bool)
	for _, route := range result.Routes {
		for _, stop := range route.Stops {
			assert.Falsef(t, assignedIDs[stop.WorkOrderID], "work order %q assigned more than once", stop.WorkOrderID)
			assignedIDs[stop.WorkOrderID] = true
		}
	}

	unassignedIDs := make(map[string]bool, len(result.UnassignedWorkOrderIDs))
	for _, id := range result.UnassignedWorkOrderIDs {
		assert.Falsef(t, assignedIDs[id], "work order %q is both assigned and unassigned", id)
		unassignedIDs[id] = true
	}

	for _, id := range allIDs {
		assigned := assignedIDs[id]
		unassigned := unassignedIDs[id]
		assert.Truef(t, assigned || unassigned, "work order %q accounted for in neither assigned nor unassigned", id)
	}
	assert.Equal(t, len(allIDs), len(assignedIDs)+len(unassignedIDs), "assigned+unassigned count must equal total input count")
}

// AssertNoDuplicateStops checks spec §8's Uniqueness invariant within a
// single route.
func AssertNoDuplicateStops(t *testing.T, route models.TechnicianRoute) {
	t.Helper()
	seen := make(map[string]bool, len(route.Stops))
	for _, stop := range route.Stops {
		assert.Falsef(t, seen[stop.WorkOrderID], "work order %q appears twice in route for technician %q", stop.WorkOrderID, route.TechnicianID)
		seen[stop.WorkOrderID] = true
	}
}

// AssertSequenceContiguous checks spec §8's Sequences invariant: stop
// sequence numbers are 0, 1, ..., k-1.
func AssertSequenceContiguous(t *testing.T, route models.TechnicianRoute) {
	t.Helper()
	for i, stop := range route.Stops {
		assert.Equalf(t, i, stop.Sequence, "route for technician %q: stop %d has sequence %d", route.TechnicianID, i, stop.Sequence)
	}
}

// AllWorkOrderIDs extracts the id list from a slice of work orders, the
// shape AssertPartition expects for allIDs.
func AllWorkOrderIDs(orders []models.WorkOrder) []string {
	ids := make([]string, len(orders))
	for i, wo := range orders {
		ids[i] = wo.ID
	}
	return ids
}
