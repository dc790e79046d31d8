// Package decode implements the shared route-decoding pipeline (§4.7):
// given an abstract per-technician visiting order, it simulates a timed
// route from the technician's home node at shift start, dropping stops
// that would violate skill, window, shift, or capacity constraints into
// an unassigned list. The Genetic solver builds its final routes with
// it. Greedy builds routes inside its own nearest-neighbor selection
// loop, and CP-VRP has its own decoder (see solver/cpvrp) that runs the
// same simulation over a TSP-tour visiting order.
package decode

import (
	"time"

	"github.com/fieldroute/optimizer/pkg/constraints"
	"github.com/fieldroute/optimizer/pkg/models"
)

// Route simulates a technician's route from their home node at shift
// start, visiting the work orders named by orderIndices (indices into
// the orders slice, in the order to attempt them). technicianNode is
// the technician's node index in matrix (0-based, in input order);
// technicianCount is the total number of technicians, used to compute
// each work order's node index as technicianCount + its index in
// orders.
//
// A candidate stop is skipped (and its work order id appended to the
// returned unassigned slice) if it fails skill match, would arrive
// after the work order's window end, would depart after the
// technician's shift end, or would push cumulative hours above
// max-hours. Skipped stops do not advance the cursor or the clock.
func Route(
	technician models.Technician,
	technicianNode int,
	technicianCount int,
	orderIndices []int,
	orders []models.WorkOrder,
	matrix *models.DistanceMatrix,
	speedMPH float64,
) (models.TechnicianRoute, []string) {
	route := models.TechnicianRoute{
		TechnicianID:   technician.ID,
		TechnicianName: technician.Name,
	}
	var unassigned []string

	cursorNode := technicianNode
	clock := technician.ShiftStart
	usedHours := 0.0
	sequence := 0

	for _, orderIdx := range orderIndices {
		wo := orders[orderIdx]
		woNode := technicianCount + orderIdx

		if !constraints.SkillMatch(technician.Skills, wo.RequiredSkills) {
			unassigned = append(unassigned, wo.ID)
			continue
		}

		distMi := matrix.At(cursorNode, woNode)
		travelMin := (distMi / speedMPH) * 60.0

		rawArrival := clock.Add(time.Duration(travelMin * float64(time.Minute)))
		arrival := rawArrival
		if arrival.Before(wo.TimeWindowStart) {
			arrival = wo.TimeWindowStart
		}

		if arrival.After(wo.TimeWindowEnd) {
			unassigned = append(unassigned, wo.ID)
			continue
		}

		departure := arrival.Add(wo.ServiceDuration)
		if departure.After(technician.ShiftEnd) {
			unassigned = append(unassigned, wo.ID)
			continue
		}

		additionalHours := (travelMin + wo.ServiceDuration.Minutes()) / 60.0
		if ok, err := constraints.DailyLimit(usedHours, technician.MaxHours, additionalHours); err != nil || !ok {
			unassigned = append(unassigned, wo.ID)
			continue
		}

		stop := models.RouteStop{
			WorkOrderID:       wo.ID,
			PropertyID:        wo.PropertyID,
			Location:          wo.Location,
			Sequence:          sequence,
			Arrival:           arrival,
			Departure:         departure,
			TravelDistanceMi:  round2(distMi),
			TravelDurationMin: round2(travelMin),
		}
		route.Stops = append(route.Stops, stop)

		route.TotalDistanceMi += stop.TravelDistanceMi
		route.TotalTravelDurationMin += stop.TravelDurationMin
		route.TotalWorkMinutes += wo.ServiceDuration.Minutes()

		cursorNode = woNode
		clock = departure
		usedHours += additionalHours
		sequence++
	}

	route.TotalDistanceMi = round2(route.TotalDistanceMi)
	route.TotalTravelDurationMin = round2(route.TotalTravelDurationMin)

	if technician.MaxHours > 0 {
		utilization := ((route.TotalTravelDurationMin/60.0 + route.TotalWorkMinutes/60.0) / technician.MaxHours) * 100.0
		if utilization > 100 {
			utilization = 100
		}
		route.UtilizationPercent = round2(utilization)
	}

	return route, unassigned
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
