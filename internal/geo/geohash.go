package geo

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// base32 is the geohash alphabet (no "a", "i", "l", "o").
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// Encode returns the geohash of p with the given number of characters.
//
// Longitude and latitude ranges are bisected alternately, longitude first.
// Each bisection yields one bit (1 when the value is at or above the midpoint)
// and every 5 bits form one base32 character. Keys nest: the key at precision
// n is a prefix of the key at any precision above n.
func Encode(p Point, precision int) (string, error) {
	if err := checkPrecision(precision); err != nil {
		return "", err
	}
	if err := p.Validate(); err != nil {
		return "", err
	}

	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0

	var hash strings.Builder
	hash.Grow(precision)

	even := true
	bit := 0
	ch := 0

	for hash.Len() < precision {
		if even {
			mid := (minLon + maxLon) / 2
			if p.Lon >= mid {
				ch |= 1 << (4 - bit)
				minLon = mid
			} else {
				maxLon = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if p.Lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		even = !even

		bit++
		if bit == 5 {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String(), nil
}

// Decode returns the cell covered by a geohash key.
func Decode(key string) (orb.Bound, error) {
	if key == "" {
		return orb.Bound{}, fmt.Errorf("%w: empty geohash", ErrInvalidParameter)
	}

	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0
	even := true

	for i := 0; i < len(key); i++ {
		idx := strings.IndexByte(base32, key[i])
		if idx < 0 {
			return orb.Bound{}, fmt.Errorf("%w: character %q at %d is not in the geohash alphabet", ErrInvalidParameter, key[i], i)
		}

		for shift := 4; shift >= 0; shift-- {
			set := idx&(1<<shift) != 0
			if even {
				mid := (minLon + maxLon) / 2
				if set {
					minLon = mid
				} else {
					maxLon = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if set {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			even = !even
		}
	}

	return orb.Bound{
		Min: orb.Point{minLon, minLat},
		Max: orb.Point{maxLon, maxLat},
	}, nil
}
