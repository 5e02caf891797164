package source

import (
	"fmt"

	"github.com/woozymasta/trackmap/internal/geo"

	"github.com/tkrajina/gpxgo/gpx"
)

// parseGPX collects track points, then route points, then waypoints, each in
// document order.
func parseGPX(data []byte) ([]geo.Point, error) {
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}

	points := make([]geo.Point, 0)
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				points = append(points, geo.Point{Lat: p.Latitude, Lon: p.Longitude})
			}
		}
	}
	for _, route := range doc.Routes {
		for _, p := range route.Points {
			points = append(points, geo.Point{Lat: p.Latitude, Lon: p.Longitude})
		}
	}
	for _, p := range doc.Waypoints {
		points = append(points, geo.Point{Lat: p.Latitude, Lon: p.Longitude})
	}

	return points, nil
}
