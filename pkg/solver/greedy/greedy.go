// Package greedy implements the priority-sorted nearest-neighbor
// construction strategy (§4.4).
//
// Grounded in original_source/optimization/solvers/greedy_solver.py.
package greedy

import (
	"sort"
	"time"

	"github.com/fieldroute/optimizer/pkg/constraints"
	"github.com/fieldroute/optimizer/pkg/models"
	"github.com/fieldroute/optimizer/pkg/solver"
)

// Solver implements solver.Solver using priority-sorted nearest-
// neighbor construction.
type Solver struct{}

// New returns a Greedy solver.
func New() *Solver {
	return &Solver{}
}

// Solve implements solver.Solver.
func (s *Solver) Solve(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg solver.Config) (models.OptimizationResult, error) {
	if err := solver.ValidateInputs(orders, technicians, matrix); err != nil {
		return models.OptimizationResult{}, err
	}

	return solver.TimedSolve("greedy", func() (models.OptimizationResult, error) {
		return solveImpl(orders, technicians, matrix, cfg)
	})
}

func solveImpl(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg solver.Config) (models.OptimizationResult, error) {
	priorityOrder := solver.PriorityOrderedIndices(orders)

	assigned := make(map[int]bool, len(orders))
	routes := make([]models.TechnicianRoute, 0, len(technicians))
	techCount := len(technicians)

	for techIdx, tech := range technicians {
		route := models.TechnicianRoute{
			TechnicianID:   tech.ID,
			TechnicianName: tech.Name,
		}

		cursorNode := techIdx
		clock := tech.ShiftStart
		usedHours := 0.0
		sequence := 0

		for {
			bestOrderIdx := -1
			bestPriorityKey := -1
			bestDist := 0.0
			var bestArrival, bestDeparture time.Time
			var bestTravelMin float64

			for _, orderIdx := range priorityOrder {
				if assigned[orderIdx] {
					continue
				}
				wo := orders[orderIdx]

				if !constraints.SkillMatch(tech.Skills, wo.RequiredSkills) {
					continue
				}

				woNode := techCount + orderIdx
				distMi := matrix.At(cursorNode, woNode)
				travelMin := (distMi / cfg.AvgSpeedMPH) * 60.0

				arrival := clock.Add(time.Duration(travelMin * float64(time.Minute)))
				if arrival.Before(wo.TimeWindowStart) {
					arrival = wo.TimeWindowStart
				}
				if arrival.After(wo.TimeWindowEnd) {
					continue
				}

				departure := arrival.Add(wo.ServiceDuration)
				if departure.After(tech.ShiftEnd) {
					continue
				}

				additionalHours := (travelMin + wo.ServiceDuration.Minutes()) / 60.0
				ok, err := constraints.DailyLimit(usedHours, tech.MaxHours, additionalHours)
				if err != nil || !ok {
					continue
				}

				priorityKey := wo.Priority.SortKey()
				better := bestOrderIdx == -1
				if !better {
					if priorityKey < bestPriorityKey {
						better = true
					} else if priorityKey == bestPriorityKey && distMi < bestDist {
						better = true
					}
				}
				if better {
					bestOrderIdx = orderIdx
					bestPriorityKey = priorityKey
					bestDist = distMi
					bestArrival = arrival
					bestDeparture = departure
					bestTravelMin = travelMin
				}
			}

			if bestOrderIdx == -1 {
				break
			}

			wo := orders[bestOrderIdx]
			stop := models.RouteStop{
				WorkOrderID:       wo.ID,
				PropertyID:        wo.PropertyID,
				Location:          wo.Location,
				Sequence:          sequence,
				Arrival:           bestArrival,
				Departure:         bestDeparture,
				TravelDistanceMi:  round2(bestDist),
				TravelDurationMin: round2(bestTravelMin),
			}
			route.Stops = append(route.Stops, stop)
			route.TotalDistanceMi += stop.TravelDistanceMi
			route.TotalTravelDurationMin += stop.TravelDurationMin
			route.TotalWorkMinutes += wo.ServiceDuration.Minutes()

			assigned[bestOrderIdx] = true
			cursorNode = techCount + bestOrderIdx
			clock = bestDeparture
			usedHours += (bestTravelMin + wo.ServiceDuration.Minutes()) / 60.0
			sequence++
		}

		route.TotalDistanceMi = round2(route.TotalDistanceMi)
		route.TotalTravelDurationMin = round2(route.TotalTravelDurationMin)
		if tech.MaxHours > 0 {
			utilization := ((route.TotalTravelDurationMin/60.0 + route.TotalWorkMinutes/60.0) / tech.MaxHours) * 100.0
			if utilization > 100 {
				utilization = 100
			}
			route.UtilizationPercent = round2(utilization)
		}

		routes = append(routes, route)
	}

	var unassigned []string
	totalDistance := 0.0
	totalDuration := 0.0
	for _, r := range routes {
		totalDistance += r.TotalDistanceMi
		totalDuration += r.TotalTravelDurationMin
	}
	for idx, wo := range orders {
		if !assigned[idx] {
			unassigned = append(unassigned, wo.ID)
		}
	}
	sort.Strings(unassigned)

	return models.OptimizationResult{
		Routes:                 routes,
		TotalDistanceMi:        round2(totalDistance),
		TotalTravelDurationMin: round2(totalDuration),
		UnassignedWorkOrderIDs: unassigned,
		Metadata:               map[string]interface{}{},
	}, nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
