// Package solver provides the shared solver framework: the Solver
// contract, input validation common to every strategy, priority
// ordering, and a timed-solve wrapper that records monotonic wall-clock
// duration on the result.
//
// Grounded in original_source/optimization/solvers/base_solver.py.
package solver

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/models"
)

// Solver is the capability set every strategy implements: a single
// Solve operation over (work orders, technicians, distance matrix,
// configuration). spec.md §9 calls this "a capability set {validate,
// solve} with three variants" — validation is supplied by this package
// (ValidateInputs) and called by every strategy at the top of Solve, so
// the interface itself only needs to name the operation callers invoke.
type Solver interface {
	Solve(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg Config) (models.OptimizationResult, error)
}

// ValidateInputs rejects empty orders/technicians, a matrix whose
// dimensions differ from T+W, and any record missing a required
// attribute. Every strategy calls this at Solve entry so invalid input
// is detected before any work begins — the policy in §7 that "no
// partial results are ever produced."
func ValidateInputs(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix) error {
	if len(orders) == 0 {
		return apperrors.NewInvalidInputError("orders must not be empty")
	}
	if len(technicians) == 0 {
		return apperrors.NewInvalidInputError("technicians must not be empty")
	}

	expected := len(technicians) + len(orders)
	if matrix == nil {
		return apperrors.NewMatrixSizeMismatchError("distance matrix must not be nil")
	}
	if matrix.Size != expected {
		return apperrors.NewMatrixSizeMismatchError(fmt.Sprintf(
			"distance matrix size %d does not match technicians+orders %d", matrix.Size, expected))
	}

	seenOrderIDs := make(map[string]struct{}, len(orders))
	for _, wo := range orders {
		if wo.ID == "" {
			return apperrors.NewMissingRequiredAttributeError(wo.PropertyID, "id")
		}
		if _, dup := seenOrderIDs[wo.ID]; dup {
			return apperrors.NewInvalidInputError(fmt.Sprintf("duplicate work order id %q", wo.ID))
		}
		seenOrderIDs[wo.ID] = struct{}{}

		if wo.PropertyID == "" {
			return apperrors.NewMissingRequiredAttributeError(wo.ID, "property_id")
		}
		if wo.TimeWindowStart.After(wo.TimeWindowEnd) {
			return apperrors.NewInvalidWindowError(fmt.Sprintf(
				"work order %q: time_window_start after time_window_end", wo.ID))
		}
		if wo.ServiceDuration < 0 {
			return apperrors.NewInvalidInputError(fmt.Sprintf(
				"work order %q: duration_minutes must be non-negative", wo.ID))
		}
	}

	seenTechIDs := make(map[string]struct{}, len(technicians))
	for _, t := range technicians {
		if t.ID == "" {
			return apperrors.NewMissingRequiredAttributeError(t.Name, "id")
		}
		if _, dup := seenTechIDs[t.ID]; dup {
			return apperrors.NewInvalidInputError(fmt.Sprintf("duplicate technician id %q", t.ID))
		}
		seenTechIDs[t.ID] = struct{}{}

		if t.Name == "" {
			return apperrors.NewMissingRequiredAttributeError(t.ID, "name")
		}
		if t.MaxHours < 0 {
			return apperrors.NewInvalidInputError(fmt.Sprintf(
				"technician %q: max_hours must be non-negative", t.ID))
		}
		if t.ShiftStart.After(t.ShiftEnd) {
			return apperrors.NewInvalidWindowError(fmt.Sprintf(
				"technician %q: shift_start after shift_end", t.ID))
		}
	}

	return nil
}

// PriorityOrderedIndices returns work-order indices sorted ascending by
// priority key (emergency=0 ... unknown=99), stable on input order
// within a tier.
func PriorityOrderedIndices(orders []models.WorkOrder) []int {
	indices := make([]int, len(orders))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return orders[indices[a]].Priority.SortKey() < orders[indices[b]].Priority.SortKey()
	})
	return indices
}

// TimedSolve runs fn, measuring monotonic wall-clock duration around it,
// and stamps the result's SolveSeconds (rounded to 4 decimal places)
// and Algorithm name. If fn returns an error, TimedSolve returns it
// unchanged without stamping a result.
func TimedSolve(algorithm string, fn func() (models.OptimizationResult, error)) (models.OptimizationResult, error) {
	start := time.Now()
	result, err := fn()
	if err != nil {
		return models.OptimizationResult{}, err
	}
	elapsed := time.Since(start).Seconds()

	result.Algorithm = algorithm
	result.SolveSeconds = roundTo(elapsed, 4)
	sort.Strings(result.UnassignedWorkOrderIDs)
	return result, nil
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}
