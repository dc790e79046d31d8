// Package config loads the engine's per-strategy configuration (§6)
// from the environment, the way the teacher's cmd/server/main.go loads
// its own configuration: via godotenv, overlaid onto sane defaults.
// No internal/common/config package exists in the retrieved examples
// despite main.go importing one, so this is written fresh, grounded in
// main.go's godotenv.Load() call and the DefaultXConfig() idiom used
// throughout the rest of the teacher's common packages.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/fieldroute/optimizer/pkg/solver"
)

// EnvPrefix namespaces every environment variable this package reads.
const EnvPrefix = "FIELDROUTE_"

// LoadFromEnv loads a .env file if present (a missing file is not an
// error, matching the teacher's own godotenv.Load() call) and overlays
// any recognized FIELDROUTE_*-prefixed environment variables onto
// solver.DefaultConfig(). Unrecognized environment variables are
// ignored by construction: only the keys below are ever read.
func LoadFromEnv() solver.Config {
	_ = godotenv.Load()

	cfg := solver.DefaultConfig()

	if v, ok := envFloat("AVG_SPEED_MPH"); ok {
		cfg.AvgSpeedMPH = v
	}
	if v, ok := envFloat("TIME_LIMIT_SECONDS"); ok {
		cfg.TimeLimitSeconds = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "FIRST_SOLUTION_STRATEGY"); ok && v != "" {
		cfg.FirstSolutionStrategy = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "METAHEURISTIC"); ok && v != "" {
		cfg.Metaheuristic = v
	}
	if v, ok := envInt("POPULATION_SIZE"); ok {
		cfg.PopulationSize = v
	}
	if v, ok := envInt("GENERATIONS"); ok {
		cfg.Generations = v
	}
	if v, ok := envFloat("MUTATION_RATE"); ok {
		cfg.MutationRate = v
	}
	if v, ok := envInt("ELITE_SIZE"); ok {
		cfg.EliteSize = v
	}
	if v, ok := envInt("TOURNAMENT_SIZE"); ok {
		cfg.TournamentSize = v
	}
	if v, ok := envInt64("SEED"); ok {
		cfg.Seed = &v
	}

	return cfg
}

func envFloat(key string) (float64, bool) {
	raw, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt(key string) (int, bool) {
	raw, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt64(key string) (int64, bool) {
	raw, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
