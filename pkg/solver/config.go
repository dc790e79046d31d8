package solver

import "github.com/fieldroute/optimizer/pkg/geo"

// Config is the per-strategy configuration surface named in §6.
// Unrecognized keys from an external configuration source are ignored
// by construction: only the fields below are ever read.
type Config struct {
	// AvgSpeedMPH applies to all strategies; converts distance to time.
	AvgSpeedMPH float64

	// TimeLimitSeconds applies to CP-VRP: search wall-clock cap.
	TimeLimitSeconds float64

	// FirstSolutionStrategy applies to CP-VRP: initial route construction.
	FirstSolutionStrategy string

	// Metaheuristic applies to CP-VRP: local search strategy.
	Metaheuristic string

	// PopulationSize applies to GA: individuals per generation.
	PopulationSize int

	// Generations applies to GA: iteration count.
	Generations int

	// MutationRate applies to GA: per-locus probability.
	MutationRate float64

	// EliteSize applies to GA: elites carried forward unchanged.
	EliteSize int

	// TournamentSize applies to GA: selection pressure.
	TournamentSize int

	// Seed applies to GA: deterministic reproducibility. Nil means an
	// unseeded, fresh per-solve random source.
	Seed *int64
}

// DefaultConfig returns the configuration defaults named in §6.
func DefaultConfig() Config {
	return Config{
		AvgSpeedMPH:           geo.DefaultAvgSpeedMPH,
		TimeLimitSeconds:      120,
		FirstSolutionStrategy: "path_cheapest_arc",
		Metaheuristic:         "guided_local_search",
		PopulationSize:        100,
		Generations:           500,
		MutationRate:          0.10,
		EliteSize:             10,
		TournamentSize:        5,
		Seed:                  nil,
	}
}
