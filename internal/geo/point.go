// Package geo implements the track preprocessing kernel: geohash bucketing,
// sparse bucket filtering and path distance accumulation.
//
// Every function in this package is pure and safe for concurrent use.
package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	// ErrInvalidCoordinate is returned when latitude or longitude are out of range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidParameter is returned for a precision or minimum population below 1.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Point is a WGS84 position in degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Validate reports whether the point lies within the valid latitude and longitude ranges.
// NaN values are rejected.
func (p Point) Validate() error {
	if !(p.Lat >= -90 && p.Lat <= 90) {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, p.Lat)
	}
	if !(p.Lon >= -180 && p.Lon <= 180) {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, p.Lon)
	}

	return nil
}

// OrbPoint converts the point to orb's [lon, lat] representation.
func (p Point) OrbPoint() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromOrb converts an orb point ([lon, lat]) to a Point.
func FromOrb(p orb.Point) Point {
	return Point{Lat: p.Lat(), Lon: p.Lon()}
}

func checkPrecision(precision int) error {
	if precision < 1 {
		return fmt.Errorf("%w: precision must be >= 1, got %d", ErrInvalidParameter, precision)
	}

	return nil
}
