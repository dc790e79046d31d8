package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/models"
)

func TestGreatCircleDistance_SamePoint(t *testing.T) {
	d := GreatCircleDistance(39.7392, -104.9903, 39.7392, -104.9903)
	assert.Equal(t, 0.0, d)
}

func TestGreatCircleDistance_KnownPair(t *testing.T) {
	// Denver to Boulder, roughly 25 miles apart.
	d := GreatCircleDistance(39.7392, -104.9903, 40.0150, -105.2705)
	assert.InDelta(t, 25.0, d, 3.0)
}

func TestBuildDistanceMatrix_SymmetricZeroDiagonal(t *testing.T) {
	locations := []models.Location{
		{Lat: 39.7392, Lng: -104.9903},
		{Lat: 39.7047, Lng: -104.9390},
		{Lat: 39.6806, Lng: -104.9811},
	}
	matrix, err := BuildDistanceMatrix(locations)
	require.NoError(t, err)

	for i := 0; i < matrix.Size; i++ {
		assert.Equalf(t, 0.0, matrix.At(i, i), "diagonal at %d must be zero", i)
		for j := 0; j < matrix.Size; j++ {
			assert.Equal(t, matrix.At(i, j), matrix.At(j, i), "matrix must be symmetric at (%d,%d)", i, j)
		}
	}
}

func TestBuildDistanceMatrix_MissingCoordinate(t *testing.T) {
	locations := []models.Location{
		{Lat: 39.7392, Lng: -104.9903},
		{Lat: math.NaN(), Lng: -104.9390},
	}
	_, err := BuildDistanceMatrix(locations)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidLocation, errors.KindOf(err))
}

func TestEstimateTravelTime_KnownRate(t *testing.T) {
	minutes, err := EstimateTravelTime(15, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, minutes)
}

func TestEstimateTravelTime_NegativeDistance(t *testing.T) {
	_, err := EstimateTravelTime(-1, 30)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.KindOf(err))
}

func TestEstimateTravelTime_NonPositiveSpeed(t *testing.T) {
	_, err := EstimateTravelTime(10, 0)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.KindOf(err))
}

func TestBuildDurationMatrix_NonPositiveSpeed(t *testing.T) {
	distances := models.NewDistanceMatrix(2)
	distances.Set(0, 1, 10)
	_, err := BuildDurationMatrix(distances, 0)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.KindOf(err))
}

func TestBuildDurationMatrix_ConsistentWithEstimateTravelTime(t *testing.T) {
	distances := models.NewDistanceMatrix(2)
	distances.Set(0, 1, 15)
	durations, err := BuildDurationMatrix(distances, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, durations.At(0, 1))
	assert.Equal(t, durations.At(0, 1), durations.At(1, 0))
}
