// Package genetic implements the evolutionary solver strategy (§4.5):
// chromosome encoding, OX and uniform crossover, swap mutation,
// tournament selection, weighted-penalty fitness, and elitism.
//
// Grounded in original_source/optimization/solvers/genetic_solver.py.
package genetic

import (
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fieldroute/optimizer/internal/common/logging"
	"github.com/fieldroute/optimizer/pkg/decode"
	"github.com/fieldroute/optimizer/pkg/models"
	"github.com/fieldroute/optimizer/pkg/solver"
)

// Solver implements solver.Solver using a genetic algorithm.
type Solver struct {
	Logger *logging.Logger
}

// New returns a Genetic solver. If log is nil, the package-level
// default logger is used.
func New(log *logging.Logger) *Solver {
	return &Solver{Logger: log}
}

// Solve implements solver.Solver.
func (s *Solver) Solve(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg solver.Config) (models.OptimizationResult, error) {
	if err := solver.ValidateInputs(orders, technicians, matrix); err != nil {
		return models.OptimizationResult{}, err
	}

	return solver.TimedSolve("genetic", func() (models.OptimizationResult, error) {
		return s.solveImpl(orders, technicians, matrix, cfg)
	})
}

func (s *Solver) log() *logging.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logging.GetLogger()
}

func (s *Solver) solveImpl(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg solver.Config) (models.OptimizationResult, error) {
	// Randomness is threaded as a local generator (spec §9, §5): seeded
	// from config for reproducibility, or from a fresh per-solve source
	// otherwise. Never read from process-wide state.
	var rng *rand.Rand
	if cfg.Seed != nil {
		rng = rand.New(rand.NewSource(*cfg.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	feasible := feasibleTechnicians(orders, technicians)

	population := initializePopulation(cfg.PopulationSize, orders, technicians, rng)
	if err := evaluatePopulation(population, orders, technicians, matrix, cfg); err != nil {
		return models.OptimizationResult{}, err
	}
	sortByFitness(population)

	initialFitness := population[0].Fitness
	bestFitness := initialFitness

	// Generation-progress logging is rate-limited so a run of 500
	// generations cannot flood a log sink — the same token-bucket idiom
	// x/time is pulled in for elsewhere in this stack.
	limiter := rate.NewLimiter(rate.Every(50*time.Millisecond), 1)

	for gen := 0; gen < cfg.Generations; gen++ {
		next := make([]Chromosome, 0, cfg.PopulationSize)
		eliteCount := cfg.EliteSize
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			next = append(next, population[i].Clone())
		}

		for len(next) < cfg.PopulationSize {
			parent1 := tournamentSelect(population, cfg.TournamentSize, rng)
			parent2 := tournamentSelect(population, cfg.TournamentSize, rng)

			childAssign1, childAssign2 := uniformCrossover(parent1.Assignments, parent2.Assignments, rng)
			childSeq1 := orderCrossover(parent1.OrderSequence, parent2.OrderSequence, rng)
			childSeq2 := orderCrossover(parent2.OrderSequence, parent1.OrderSequence, rng)

			child1 := Chromosome{Assignments: childAssign1, OrderSequence: childSeq1}
			child2 := Chromosome{Assignments: childAssign2, OrderSequence: childSeq2}
			mutate(&child1, cfg.MutationRate, feasible, len(technicians), rng)
			mutate(&child2, cfg.MutationRate, feasible, len(technicians), rng)

			next = append(next, child1)
			if len(next) < cfg.PopulationSize {
				next = append(next, child2)
			}
		}

		population = next
		if err := evaluatePopulation(population, orders, technicians, matrix, cfg); err != nil {
			return models.OptimizationResult{}, err
		}
		sortByFitness(population)

		if population[0].Fitness < bestFitness {
			bestFitness = population[0].Fitness
		}

		if limiter.Allow() {
			s.log().LogGenerationProgress(gen+1, cfg.Generations, bestFitness)
		}
	}

	best := population[0]
	groups := best.perTechnicianSequences(len(technicians))

	routes := make([]models.TechnicianRoute, 0, len(technicians))
	assigned := make(map[string]bool, len(orders))
	var unassigned []string

	for techIdx, tech := range technicians {
		route, dropped := decode.Route(tech, techIdx, len(technicians), groups[techIdx], orders, matrix, cfg.AvgSpeedMPH)
		routes = append(routes, route)
		for _, stop := range route.Stops {
			assigned[stop.WorkOrderID] = true
		}
		unassigned = append(unassigned, dropped...)
	}

	totalDistance, totalDuration := 0.0, 0.0
	for _, r := range routes {
		totalDistance += r.TotalDistanceMi
		totalDuration += r.TotalTravelDurationMin
	}
	sort.Strings(unassigned)

	improvement := 0.0
	if initialFitness > 0 {
		improvement = ((initialFitness - bestFitness) / initialFitness) * 100.0
	}

	return models.OptimizationResult{
		Routes:                 routes,
		TotalDistanceMi:        round2(totalDistance),
		TotalTravelDurationMin: round2(totalDuration),
		UnassignedWorkOrderIDs: unassigned,
		Metadata: map[string]interface{}{
			"initial_fitness":        initialFitness,
			"final_fitness":          bestFitness,
			"improvement_percentage": improvement,
			"generation_count":       cfg.Generations,
		},
	}, nil
}

// evaluatePopulation scores every chromosome's fitness in parallel
// across an errgroup of workers. Fitness evaluation is a pure function
// of (chromosome, orders, technicians, matrix, cfg) with no shared
// mutable state, so fan-out is safe.
func evaluatePopulation(population []Chromosome, orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, cfg solver.Config) error {
	var g errgroup.Group
	for i := range population {
		i := i
		g.Go(func() error {
			population[i].Fitness = evaluateFitness(population[i], orders, technicians, matrix, cfg)
			return nil
		})
	}
	return g.Wait()
}

func sortByFitness(population []Chromosome) {
	sort.Slice(population, func(a, b int) bool {
		return population[a].Fitness < population[b].Fitness
	})
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
