package cpvrp

import (
	"sort"
	"time"

	"github.com/fieldroute/optimizer/internal/common/logging"
	"github.com/fieldroute/optimizer/pkg/constraints"
	apperrors "github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/models"
	"github.com/fieldroute/optimizer/pkg/solver"
)

// Solver implements solver.Solver using the lvlath-backed CP-VRP
// decomposition described in this package's doc comment.
type Solver struct {
	Engine Engine
	Logger *logging.Logger
}

// New returns a CP-VRP solver. If engine is nil, a disabled (nil)
// engine is used, so Solve fails fast with DependencyMissing.
func New(engine Engine, log *logging.Logger) *Solver {
	if engine == nil {
		engine = NewEngine(false)
	}
	return &Solver{Engine: engine, Logger: log}
}

func (s *Solver) log() *logging.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logging.GetLogger()
}

// Solve implements solver.Solver.
func (s *Solver) Solve(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg solver.Config) (models.OptimizationResult, error) {
	if err := solver.ValidateInputs(orders, technicians, matrix); err != nil {
		return models.OptimizationResult{}, err
	}

	return solver.TimedSolve("cp_vrp", func() (models.OptimizationResult, error) {
		return s.solveImpl(orders, technicians, matrix, cfg)
	})
}

func (s *Solver) solveImpl(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg solver.Config) (models.OptimizationResult, error) {
	techCount := len(technicians)

	tierAssignments, unassignedFromTiers, err := s.Engine.AssignTiers(orders, technicians, matrix, cfg.AvgSpeedMPH)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.DependencyMissing {
			return models.OptimizationResult{}, err
		}
		// Any other internal engine failure is reported as "no
		// solution", per §7: surfaced via metadata, not an exception.
		s.log().LogError(err, "cp-vrp engine failed to produce an assignment", nil)
		return noSolutionResult(orders), nil
	}

	routes := make([]models.TechnicianRoute, 0, techCount)
	assigned := make(map[string]bool, len(orders))
	var unassigned []string

	for techIdx, tech := range technicians {
		var orderIdxs []int
		for _, ta := range tierAssignments {
			if ta.TechnicianIndex == techIdx {
				orderIdxs = ta.OrderIndices
				break
			}
		}

		if len(orderIdxs) == 0 {
			routes = append(routes, models.TechnicianRoute{TechnicianID: tech.ID, TechnicianName: tech.Name})
			continue
		}

		orderNodes := make([]int, len(orderIdxs))
		for i, orderIdx := range orderIdxs {
			orderNodes[i] = techCount + orderIdx
		}

		timeLimit := time.Duration(cfg.TimeLimitSeconds * float64(time.Second))
		tour, err := s.Engine.OrderStops(techIdx, orderNodes, matrix, timeLimit, cfg.FirstSolutionStrategy, cfg.Metaheuristic)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.DependencyMissing {
				return models.OptimizationResult{}, err
			}
			s.log().LogError(err, "cp-vrp engine failed to order technician stops", map[string]interface{}{"technician_id": tech.ID})
			routes = append(routes, models.TechnicianRoute{TechnicianID: tech.ID, TechnicianName: tech.Name})
			unassigned = append(unassigned, idsOf(orders, orderIdxs)...)
			continue
		}

		// tour.Tour is [0, ..., 0] in local indices; local index 0 is
		// the technician, local indices 1..n are orderIdxs in that
		// order. Strip the leading/trailing depot visits.
		visitOrder := make([]int, 0, len(orderIdxs))
		for _, local := range tour.Tour {
			if local == 0 {
				continue
			}
			visitOrder = append(visitOrder, orderIdxs[local-1])
		}

		route, dropped := decodeTechnicianRoute(tech, techIdx, techCount, visitOrder, orders, matrix, cfg.AvgSpeedMPH)
		routes = append(routes, route)
		for _, stop := range route.Stops {
			assigned[stop.WorkOrderID] = true
		}
		unassigned = append(unassigned, dropped...)
	}

	for _, orderIdx := range unassignedFromTiers {
		unassigned = append(unassigned, orders[orderIdx].ID)
	}

	totalDistance, totalDuration := 0.0, 0.0
	for _, r := range routes {
		totalDistance += r.TotalDistanceMi
		totalDuration += r.TotalTravelDurationMin
	}
	sort.Strings(unassigned)

	return models.OptimizationResult{
		Routes:                 routes,
		TotalDistanceMi:        round2(totalDistance),
		TotalTravelDurationMin: round2(totalDuration),
		UnassignedWorkOrderIDs: unassigned,
		Metadata:               map[string]interface{}{"status": "OK"},
	}, nil
}

// decodeTechnicianRoute is CP-VRP's own decoder (§4.7 notes it needs
// one, since its node timing is derived from a TSP-tour visiting order
// rather than read from the solver variables a CP library like
// OR-Tools would expose). It re-simulates arrival/departure along
// visitOrder exactly as the shared decoder does for Greedy/Genetic,
// dropping any stop that fails skill, window, shift, or capacity checks
// into unassigned.
func decodeTechnicianRoute(
	technician models.Technician,
	technicianNode int,
	technicianCount int,
	visitOrder []int,
	orders []models.WorkOrder,
	matrix *models.DistanceMatrix,
	speedMPH float64,
) (models.TechnicianRoute, []string) {
	route := models.TechnicianRoute{TechnicianID: technician.ID, TechnicianName: technician.Name}
	var unassigned []string

	cursorNode := technicianNode
	clock := technician.ShiftStart
	usedHours := 0.0
	sequence := 0

	for _, orderIdx := range visitOrder {
		wo := orders[orderIdx]
		woNode := technicianCount + orderIdx

		if !constraints.SkillMatch(technician.Skills, wo.RequiredSkills) {
			unassigned = append(unassigned, wo.ID)
			continue
		}

		distMi := matrix.At(cursorNode, woNode)
		travelMin := (distMi / speedMPH) * 60.0

		arrival := clock.Add(time.Duration(travelMin * float64(time.Minute)))
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

		route.Stops = append(route.Stops, models.RouteStop{
			WorkOrderID:       wo.ID,
			PropertyID:        wo.PropertyID,
			Location:          wo.Location,
			Sequence:          sequence,
			Arrival:           arrival,
			Departure:         departure,
			TravelDistanceMi:  round2(distMi),
			TravelDurationMin: round2(travelMin),
		})
		route.TotalDistanceMi += round2(distMi)
		route.TotalTravelDurationMin += round2(travelMin)
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

func noSolutionResult(orders []models.WorkOrder) models.OptimizationResult {
	unassigned := make([]string, len(orders))
	for i, wo := range orders {
		unassigned[i] = wo.ID
	}
	sort.Strings(unassigned)
	return models.OptimizationResult{
		UnassignedWorkOrderIDs: unassigned,
		Metadata:               map[string]interface{}{"status": "NO_SOLUTION"},
	}
}

func idsOf(orders []models.WorkOrder, orderIdxs []int) []string {
	ids := make([]string, len(orderIdxs))
	for i, idx := range orderIdxs {
		ids[i] = orders[idx].ID
	}
	return ids
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
