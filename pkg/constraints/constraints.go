// Package constraints implements the constraint kernel: pure
// predicates with no I/O used by every solver strategy and by the
// shared decoder to check skill matching, time-window membership,
// daily-hour budgets, and whole-route feasibility.
//
// Grounded in original_source/optimization/utils/constraints.py.
package constraints

import (
	"fmt"
	"time"

	apperrors "github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/models"
)

// SkillMatch reports whether requiredSkills is a subset of
// technicianSkills. An empty requiredSkills is always true.
func SkillMatch(technicianSkills, requiredSkills []string) bool {
	if len(requiredSkills) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(technicianSkills))
	for _, s := range technicianSkills {
		have[s] = struct{}{}
	}
	for _, s := range requiredSkills {
		if _, ok := have[s]; !ok {
			return false
		}
	}
	return true
}

// MissingSkills returns the required skills technicianSkills lacks, in
// the order they appear in requiredSkills.
func MissingSkills(technicianSkills, requiredSkills []string) []string {
	have := make(map[string]struct{}, len(technicianSkills))
	for _, s := range technicianSkills {
		have[s] = struct{}{}
	}
	var missing []string
	for _, s := range requiredSkills {
		if _, ok := have[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// TimeWindow reports whether arrival falls within [windowStart,
// windowEnd], inclusive on both ends. Fails with InvalidWindow if
// windowStart is after windowEnd.
func TimeWindow(arrival, windowStart, windowEnd time.Time) (bool, error) {
	if windowStart.After(windowEnd) {
		return false, apperrors.NewInvalidWindowError(
			fmt.Sprintf("window_start (%s) is after window_end (%s)",
				windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339)))
	}
	return !arrival.Before(windowStart) && !arrival.After(windowEnd), nil
}

// DailyLimit reports whether currentHours + additionalHours remains at
// or below maxHours. Fails with InvalidInput if any argument is
// negative.
func DailyLimit(currentHours, maxHours, additionalHours float64) (bool, error) {
	if currentHours < 0 || maxHours < 0 || additionalHours < 0 {
		return false, apperrors.NewInvalidInputError(fmt.Sprintf(
			"all arguments must be non-negative, got current_hours=%v max_hours=%v additional_hours=%v",
			currentHours, maxHours, additionalHours))
	}
	return currentHours+additionalHours <= maxHours, nil
}

// ValidateRoute performs comprehensive validation of a complete
// technician route against a work-order-by-id mapping, returning a list
// of human-readable violation descriptions. An empty list means the
// route is fully feasible.
//
// Checks, in order, per stop: existence of the referenced work order,
// skill subset, arrival within window, arrival at or after shift start,
// departure at or before shift end. After the loop, a single check
// verifies cumulative (service + travel) time against the technician's
// max-hours budget. Every independent failure is appended; nothing
// short-circuits.
func ValidateRoute(stops []models.RouteStop, technician models.Technician, workOrders map[string]models.WorkOrder) []string {
	var violations []string
	cumulativeMinutes := 0.0

	for idx, stop := range stops {
		wo, ok := workOrders[stop.WorkOrderID]
		if !ok {
			violations = append(violations, fmt.Sprintf(
				"stop %d: work order %q not found in work_orders map", idx, stop.WorkOrderID))
			continue
		}

		if !SkillMatch(technician.Skills, wo.RequiredSkills) {
			missing := MissingSkills(technician.Skills, wo.RequiredSkills)
			violations = append(violations, fmt.Sprintf(
				"stop %d (WO %s): technician %q missing skills %v",
				idx, wo.ID, technician.ID, missing))
		}

		if ok, err := TimeWindow(stop.Arrival, wo.TimeWindowStart, wo.TimeWindowEnd); err == nil && !ok {
			violations = append(violations, fmt.Sprintf(
				"stop %d (WO %s): arrival %s outside window [%s, %s]",
				idx, wo.ID,
				stop.Arrival.Format(time.RFC3339),
				wo.TimeWindowStart.Format(time.RFC3339),
				wo.TimeWindowEnd.Format(time.RFC3339)))
		}

		if stop.Arrival.Before(technician.ShiftStart) {
			violations = append(violations, fmt.Sprintf(
				"stop %d (WO %s): arrival %s is before shift start %s",
				idx, wo.ID, stop.Arrival.Format(time.RFC3339), technician.ShiftStart.Format(time.RFC3339)))
		}

		if stop.Departure.After(technician.ShiftEnd) {
			violations = append(violations, fmt.Sprintf(
				"stop %d (WO %s): departure %s is after shift end %s",
				idx, wo.ID, stop.Departure.Format(time.RFC3339), technician.ShiftEnd.Format(time.RFC3339)))
		}

		cumulativeMinutes += wo.ServiceDuration.Minutes() + stop.TravelDurationMin
	}

	cumulativeHours := cumulativeMinutes / 60.0
	if cumulativeHours > technician.MaxHours {
		violations = append(violations, fmt.Sprintf(
			"technician %q total route time %.2fh exceeds max_hours %.2fh",
			technician.ID, cumulativeHours, technician.MaxHours))
	}

	return violations
}
