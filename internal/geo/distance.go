package geo

import (
	"fmt"
	"math"
)

// EarthRadius is the mean Earth radius in meters used by Haversine.
const EarthRadius = 6371000.0

// Haversine returns the great-circle distance in meters between a and b
// on a spherical Earth of radius EarthRadius.
func Haversine(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := lat2 - lat1
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadius * c
}

// TotalDistance returns the length in meters of the path through points.
//
// A step between two consecutive points that share a geohash at the given
// precision counts as zero, which suppresses GPS jitter inside one cell.
// Sequences shorter than two points have zero length.
func TotalDistance(points []Point, precision int) (float64, error) {
	if err := checkPrecision(precision); err != nil {
		return 0, err
	}
	if len(points) < 2 {
		if len(points) == 1 {
			if err := points[0].Validate(); err != nil {
				return 0, fmt.Errorf("point 0: %w", err)
			}
		}
		return 0, nil
	}

	prevKey, err := Encode(points[0], precision)
	if err != nil {
		return 0, fmt.Errorf("point 0: %w", err)
	}

	total := 0.0
	for i := 1; i < len(points); i++ {
		key, err := Encode(points[i], precision)
		if err != nil {
			return 0, fmt.Errorf("point %d: %w", i, err)
		}

		if key != prevKey {
			total += Haversine(points[i-1], points[i])
		}
		prevKey = key
	}

	return total, nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
