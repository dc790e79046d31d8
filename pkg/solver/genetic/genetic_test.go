package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldroute/optimizer/internal/common/testutil"
	"github.com/fieldroute/optimizer/pkg/geo"
	"github.com/fieldroute/optimizer/pkg/models"
	"github.com/fieldroute/optimizer/pkg/solver"
)

func buildMatrix(t *testing.T, technicians []models.Technician, orders []models.WorkOrder) *models.DistanceMatrix {
	locations := make([]models.Location, 0, len(technicians)+len(orders))
	for _, t := range technicians {
		locations = append(locations, t.Home)
	}
	for _, o := range orders {
		locations = append(locations, o.Location)
	}
	matrix, err := geo.BuildDistanceMatrix(locations)
	require.NoError(t, err)
	return matrix
}

func testConfig(seed int64) solver.Config {
	cfg := solver.DefaultConfig()
	cfg.PopulationSize = 20
	cfg.Generations = 15
	cfg.EliteSize = 2
	cfg.TournamentSize = 3
	cfg.Seed = &seed
	return cfg
}

func TestGenetic_DenverBenchmark(t *testing.T) {
	orders := testutil.DenverWorkOrders()
	techs := testutil.DenverTechnicians()
	matrix := buildMatrix(t, techs, orders)

	result, err := New(nil).Solve(orders, techs, matrix, testConfig(42))
	require.NoError(t, err)

	assignedCount := len(orders) - len(result.UnassignedWorkOrderIDs)
	assert.GreaterOrEqualf(t, float64(assignedCount)/float64(len(orders)), 0.5, "expected at least half of orders assigned")

	testutil.AssertPartition(t, result, testutil.AllWorkOrderIDs(orders))
	for _, route := range result.Routes {
		testutil.AssertNoDuplicateStops(t, route)
		testutil.AssertSequenceContiguous(t, route)
	}
}

func TestGenetic_SeedReproducibility(t *testing.T) {
	orders := testutil.DenverWorkOrders()
	techs := testutil.DenverTechnicians()
	matrix := buildMatrix(t, techs, orders)

	cfg := testConfig(7)
	result1, err := New(nil).Solve(orders, techs, matrix, cfg)
	require.NoError(t, err)

	cfg2 := testConfig(7)
	result2, err := New(nil).Solve(orders, techs, matrix, cfg2)
	require.NoError(t, err)

	assert.Equal(t, result1.UnassignedWorkOrderIDs, result2.UnassignedWorkOrderIDs)
	assert.Equal(t, result1.Metadata["final_fitness"], result2.Metadata["final_fitness"])
	assert.Equal(t, result1.TotalDistanceMi, result2.TotalDistanceMi)
}

func TestChromosome_CloneDoesNotAlias(t *testing.T) {
	c := Chromosome{Assignments: []int{0, 1, 2}, OrderSequence: []int{2, 1, 0}, Fitness: 10}
	clone := c.Clone()

	clone.Assignments[0] = 99
	clone.OrderSequence[0] = 99

	assert.Equal(t, 0, c.Assignments[0])
	assert.Equal(t, 2, c.OrderSequence[0])
}
