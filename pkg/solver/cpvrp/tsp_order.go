package cpvrp

import (
	"time"

	"github.com/katalvlaran/lvlath/matrix"
	"github.com/katalvlaran/lvlath/tsp"

	"github.com/fieldroute/optimizer/pkg/models"
)

// OrderStops computes a visiting order for one technician's assigned
// work-order nodes via lvlath's TSP dispatcher. firstSolutionStrategy
// and metaheuristic are the public configuration keys named in §6;
// they translate here to tsp.Algorithm / EnableLocalSearch /
// BestImprovement, the real substitute for OR-Tools' first-solution-
// strategy and metaheuristic search named in §4.6.
func (e *lvlathEngine) OrderStops(technicianNode int, orderNodes []int, distances *models.DistanceMatrix, timeLimit time.Duration, firstSolutionStrategy, metaheuristic string) (tsp.TSResult, error) {
	n := len(orderNodes) + 1
	sub, err := matrix.NewDense(n, n)
	if err != nil {
		return tsp.TSResult{}, err
	}

	globalNode := func(localIdx int) int {
		if localIdx == 0 {
			return technicianNode
		}
		return orderNodes[localIdx-1]
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if err := sub.Set(i, j, distances.At(globalNode(i), globalNode(j))); err != nil {
				return tsp.TSResult{}, err
			}
		}
	}

	opts := tsp.DefaultOptions()
	opts.StartVertex = 0
	opts.TimeLimit = timeLimit
	opts.Algo = algorithmFor(firstSolutionStrategy, n)
	opts.EnableLocalSearch = metaheuristic != "" && metaheuristic != "none"
	opts.BestImprovement = metaheuristic == "guided_local_search"

	if n <= 2 {
		// A single-stop (or empty) route has only one possible tour;
		// lvlath's exact/heuristic solvers require n >= 2 anyway.
		tour := make([]int, 0, n+1)
		for i := 0; i < n; i++ {
			tour = append(tour, i)
		}
		tour = append(tour, 0)
		return tsp.TSResult{Tour: tour, Cost: 0}, nil
	}

	return tsp.SolveWithMatrix(sub, nil, opts)
}

// algorithmFor maps the §6 first_solution_strategy configuration key to
// an lvlath tsp.Algorithm. path_cheapest_arc (OR-Tools' default) maps to
// Christofides, the closest analogue lvlath offers for a fast,
// metric-aware construction heuristic; small instances use the exact
// Held-Karp DP regardless of the configured strategy, since it is
// strictly better and still fast at that scale.
func algorithmFor(firstSolutionStrategy string, n int) tsp.Algorithm {
	if n <= 12 {
		return tsp.ExactHeldKarp
	}
	switch firstSolutionStrategy {
	case "christofides":
		return tsp.Christofides
	case "two_opt":
		return tsp.TwoOptOnly
	default:
		return tsp.Christofides
	}
}
