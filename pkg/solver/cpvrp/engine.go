// Package cpvrp implements the CP-VRP solver strategy (§4.6): a
// capacitated VRP with time windows, priority-scaled drop penalties,
// and skill-based vehicle restriction.
//
// No Go binding to a constraint-programming routing engine (the
// original_source implementation delegates to Google OR-Tools'
// pywrapcp) exists in the retrieved dependency pack, and fabricating
// one would violate the no-fabricated-dependency rule of this project.
// Instead this package reformulates the problem using
// github.com/katalvlaran/lvlath, the one real graph/flow/TSP library
// retrieved alongside this module: priority-tiered bipartite max-flow
// (flow.Dinic) substitutes for OR-Tools' priority-weighted disjunction
// mechanism, and per-technician TSP ordering (tsp.SolveWithMatrix)
// substitutes for its first-solution-strategy + metaheuristic search.
// See DESIGN.md for the full grounding of this decision.
package cpvrp

import (
	"time"

	apperrors "github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/models"
	"github.com/katalvlaran/lvlath/tsp"
)

// TierAssignment is the outcome of matching one priority tier's work
// orders to technicians.
type TierAssignment struct {
	TechnicianIndex int
	OrderIndices    []int
}

// Engine is the thin adapter interface isolating the CP-VRP strategy
// from its underlying solving library, per spec §9: "isolate it behind
// a thin adapter interface so the engine compiles and tests (Greedy,
// GA, kernels) without it, and so the adapter can be swapped."
type Engine interface {
	// AssignTiers matches work orders to technicians in descending
	// priority order, honoring skill restriction. It returns one
	// TierAssignment per technician that received at least one order,
	// plus the indices of orders no tier could place.
	AssignTiers(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, speedMPH float64) ([]TierAssignment, []int, error)

	// OrderStops computes a visiting order for one technician's
	// assigned work-order nodes, starting and ending at technicianNode.
	OrderStops(technicianNode int, orderNodes []int, matrix *models.DistanceMatrix, timeLimit time.Duration, firstSolutionStrategy, metaheuristic string) (tsp.TSResult, error)
}

// NewEngine returns the lvlath-backed Engine when enabled is true, or a
// nilEngine that fails every call with DependencyMissing when false —
// the path spec §7 requires for "CP-VRP invoked without its underlying
// solving engine available."
func NewEngine(enabled bool) Engine {
	if !enabled {
		return nilEngine{}
	}
	return &lvlathEngine{}
}

type nilEngine struct{}

func (nilEngine) AssignTiers(_ []models.WorkOrder, _ []models.Technician, _ *models.DistanceMatrix, _ float64) ([]TierAssignment, []int, error) {
	return nil, nil, apperrors.NewDependencyMissingError(
		"CP-VRP solving engine is not available; enable it via cpvrp.NewEngine(true) or select another solver strategy")
}

func (nilEngine) OrderStops(_ int, _ []int, _ *models.DistanceMatrix, _ time.Duration, _, _ string) (tsp.TSResult, error) {
	return tsp.TSResult{}, apperrors.NewDependencyMissingError(
		"CP-VRP solving engine is not available; enable it via cpvrp.NewEngine(true) or select another solver strategy")
}
