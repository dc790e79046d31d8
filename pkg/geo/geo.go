// Package geo implements the geo kernel: great-circle distance, the
// all-pairs distance matrix, and travel-time estimation. It is
// deliberately decoupled from routing so a caller can substitute a
// road-network matrix without touching any solver.
//
// Grounded in original_source/optimization/utils/distance.py.
package geo

import (
	"fmt"
	"math"

	apperrors "github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/models"
)

// earthRadiusMiles is the mean radius of the Earth in miles, matching
// original_source's _EARTH_RADIUS_MILES constant. This is not the
// 6371000-meter constant the teacher's geofencing package used for an
// unrelated purpose.
const earthRadiusMiles = 3958.8

// DefaultAvgSpeedMPH is the default travel speed used to convert
// distance into time when a caller does not override it.
const DefaultAvgSpeedMPH = 30.0

// GreatCircleDistance computes the haversine distance, in miles,
// between two decimal-degree coordinates. Returns 0 for identical
// points.
func GreatCircleDistance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1r, lng1r := radians(lat1), radians(lng1)
	lat2r, lng2r := radians(lat2), radians(lng2)

	dlat := lat2r - lat1r
	dlng := lng2r - lng1r

	a := math.Pow(math.Sin(dlat/2.0), 2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Pow(math.Sin(dlng/2.0), 2)
	c := 2.0 * math.Atan2(math.Sqrt(a), math.Sqrt(1.0-a))

	return earthRadiusMiles * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// BuildDistanceMatrix builds a symmetric NxN distance matrix from an
// ordered list of locations, rounding each pairwise distance to 4
// decimal places (matching build_distance_matrix's internal rounding;
// result-boundary rounding to 2 places happens later, at the solver
// framework's output stage).
//
// A Go float64 has no state distinct from a legitimate 0.0 coordinate,
// so a missing Lat or Lng must be represented as math.NaN() — the same
// sentinel lvlath's tsp package uses for an absent/invalid matrix entry
// (tsp/validate.go). internal/common/validators constructs every
// Location from required, non-nil fields, so a NaN reaching here means
// a caller built a Location directly without going through validation;
// BuildDistanceMatrix still rejects it rather than silently producing a
// NaN-poisoned matrix.
func BuildDistanceMatrix(locations []models.Location) (*models.DistanceMatrix, error) {
	n := len(locations)
	for idx, loc := range locations {
		if math.IsNaN(loc.Lat) || math.IsNaN(loc.Lng) {
			return nil, apperrors.NewInvalidLocationError(
				fmt.Sprintf("location-%d", idx),
				fmt.Sprintf("location at index %d is missing lat or lng", idx))
		}
	}

	matrix := models.NewDistanceMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := GreatCircleDistance(
				locations[i].Lat, locations[i].Lng,
				locations[j].Lat, locations[j].Lng,
			)
			matrix.Set(i, j, round(dist, 4))
		}
	}
	return matrix, nil
}

// EstimateTravelTime converts a distance in miles into minutes at the
// given speed. Fails with InvalidInput if distanceMiles < 0 or
// speedMPH <= 0.
func EstimateTravelTime(distanceMiles, speedMPH float64) (float64, error) {
	if distanceMiles < 0 {
		return 0, apperrors.NewInvalidInputError(
			fmt.Sprintf("distance_miles must be non-negative, got %v", distanceMiles))
	}
	if speedMPH <= 0 {
		return 0, apperrors.NewInvalidInputError(
			fmt.Sprintf("speed_mph must be positive, got %v", speedMPH))
	}
	return round((distanceMiles/speedMPH)*60.0, 2), nil
}

// BuildDurationMatrix converts a distance matrix (miles) into a
// duration matrix (minutes) at a constant average speed. Fails with
// InvalidInput if speedMPH <= 0.
func BuildDurationMatrix(distances *models.DistanceMatrix, speedMPH float64) (*models.DistanceMatrix, error) {
	if speedMPH <= 0 {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("avg_speed_mph must be positive, got %v", speedMPH))
	}
	n := distances.Size
	durations := models.NewDistanceMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			durations.Set(i, j, round((distances.At(i, j)/speedMPH)*60.0, 2))
		}
	}
	return durations, nil
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
