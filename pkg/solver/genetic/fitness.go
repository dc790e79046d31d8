package genetic

import (
	"time"

	"github.com/fieldroute/optimizer/pkg/constraints"
	"github.com/fieldroute/optimizer/pkg/models"
	"github.com/fieldroute/optimizer/pkg/solver"
)

// Penalty weights, taken verbatim from original_source's
// genetic_solver.py rather than invented: skill violation per stop,
// time-window lateness per hour late, and shift/capacity overrun per
// hour over.
const (
	skillViolationPenalty = 500.0
	latenessPenaltyPerHr  = 200.0
	overrunPenaltyPerHr   = 300.0
)

// evaluateFitness decodes a chromosome against every technician's
// assigned sequence and returns total travel distance plus the sum of
// constraint-violation penalties. Unlike the shared decoder (used only
// for the final best chromosome), this simulation never drops a stop:
// every order in the chromosome counts toward distance and, where it
// violates a constraint, toward penalty — dropping here would make the
// fitness landscape discontinuous and defeat the GA's ability to
// gradually improve a chromosome toward feasibility.
func evaluateFitness(c Chromosome, orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg solver.Config) float64 {
	groups := c.perTechnicianSequences(len(technicians))
	techCount := len(technicians)

	total := 0.0

	for techIdx, tech := range technicians {
		cursorNode := techIdx
		clock := tech.ShiftStart
		usedHours := 0.0

		for _, orderIdx := range groups[techIdx] {
			wo := orders[orderIdx]
			woNode := techCount + orderIdx

			distMi := matrix.At(cursorNode, woNode)
			travelMin := (distMi / cfg.AvgSpeedMPH) * 60.0
			total += distMi

			if !constraints.SkillMatch(tech.Skills, wo.RequiredSkills) {
				total += skillViolationPenalty
			}

			arrival := clock.Add(time.Duration(travelMin * float64(time.Minute)))
			if arrival.Before(wo.TimeWindowStart) {
				arrival = wo.TimeWindowStart
			}
			if arrival.After(wo.TimeWindowEnd) {
				hoursLate := arrival.Sub(wo.TimeWindowEnd).Minutes() / 60.0
				total += latenessPenaltyPerHr * hoursLate
			}

			departure := arrival.Add(wo.ServiceDuration)
			if departure.After(tech.ShiftEnd) {
				hoursOverShift := departure.Sub(tech.ShiftEnd).Minutes() / 60.0
				total += overrunPenaltyPerHr * hoursOverShift
			}

			additionalHours := (travelMin + wo.ServiceDuration.Minutes()) / 60.0
			if usedHours+additionalHours > tech.MaxHours {
				hoursOverCapacity := (usedHours + additionalHours) - tech.MaxHours
				total += overrunPenaltyPerHr * hoursOverCapacity
			}

			usedHours += additionalHours
			cursorNode = woNode
			clock = departure
		}
	}

	return total
}
