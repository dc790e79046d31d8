package cpvrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldroute/optimizer/internal/common/testutil"
	apperrors "github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/geo"
	"github.com/fieldroute/optimizer/pkg/models"
	"github.com/fieldroute/optimizer/pkg/solver"
	"github.com/fieldroute/optimizer/pkg/solver/greedy"
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

func TestCPVRP_DisabledEngineSurfacesDependencyMissing(t *testing.T) {
	orders := testutil.DenverWorkOrders()
	techs := testutil.DenverTechnicians()
	matrix := buildMatrix(t, techs, orders)

	_, err := New(NewEngine(false), nil).Solve(orders, techs, matrix, solver.DefaultConfig())
	require.Error(t, err)
	assert.Equal(t, apperrors.DependencyMissing, apperrors.KindOf(err))
}

func TestCPVRP_DenverBenchmark(t *testing.T) {
	orders := testutil.DenverWorkOrders()
	techs := testutil.DenverTechnicians()
	matrix := buildMatrix(t, techs, orders)

	cfg := solver.DefaultConfig()
	cfg.TimeLimitSeconds = 5

	result, err := New(NewEngine(true), nil).Solve(orders, techs, matrix, cfg)
	require.NoError(t, err)

	assignedCount := len(orders) - len(result.UnassignedWorkOrderIDs)
	assert.GreaterOrEqualf(t, float64(assignedCount)/float64(len(orders)), 0.5, "expected at least half of orders assigned")

	testutil.AssertPartition(t, result, testutil.AllWorkOrderIDs(orders))
	for _, route := range result.Routes {
		testutil.AssertNoDuplicateStops(t, route)
		testutil.AssertSequenceContiguous(t, route)
	}
}

func TestCPVRP_VsGreedy_DistanceWithinFivePercentWhenNotFewerAssigned(t *testing.T) {
	orders := testutil.DenverWorkOrders()
	techs := testutil.DenverTechnicians()
	matrix := buildMatrix(t, techs, orders)

	cfg := solver.DefaultConfig()
	cfg.TimeLimitSeconds = 5

	greedyResult, err := greedy.New().Solve(orders, techs, matrix, cfg)
	require.NoError(t, err)

	vrpResult, err := New(NewEngine(true), nil).Solve(orders, techs, matrix, cfg)
	require.NoError(t, err)

	greedyAssigned := len(orders) - len(greedyResult.UnassignedWorkOrderIDs)
	vrpAssigned := len(orders) - len(vrpResult.UnassignedWorkOrderIDs)

	if vrpAssigned >= greedyAssigned {
		assert.LessOrEqualf(t, vrpResult.TotalDistanceMi, greedyResult.TotalDistanceMi*1.05,
			"CP-VRP total distance %.2f exceeds 105%% of Greedy's %.2f", vrpResult.TotalDistanceMi, greedyResult.TotalDistanceMi)
	}
}
