package source

import (
	"encoding/json"
	"fmt"

	"github.com/woozymasta/trackmap/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// parseGeoJSON accepts a FeatureCollection, a single Feature or a bare
// geometry. Point-like and line geometries contribute their vertices in order.
func parseGeoJSON(data []byte) ([]geo.Point, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	var geometries []orb.Geometry
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		for _, f := range fc.Features {
			geometries = append(geometries, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		geometries = append(geometries, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		geometries = append(geometries, g.Geometry())
	}

	points := make([]geo.Point, 0)
	for i, g := range geometries {
		var err error
		points, err = appendGeometry(points, g)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
	}

	return points, nil
}

func appendGeometry(points []geo.Point, g orb.Geometry) ([]geo.Point, error) {
	switch v := g.(type) {
	case nil:
		return points, nil
	case orb.Point:
		return append(points, geo.FromOrb(v)), nil
	case orb.MultiPoint:
		for _, p := range v {
			points = append(points, geo.FromOrb(p))
		}
	case orb.LineString:
		for _, p := range v {
			points = append(points, geo.FromOrb(p))
		}
	case orb.MultiLineString:
		for _, ls := range v {
			for _, p := range ls {
				points = append(points, geo.FromOrb(p))
			}
		}
	case orb.Collection:
		for _, sub := range v {
			var err error
			if points, err = appendGeometry(points, sub); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unsupported geometry %s", g.GeoJSONType())
	}

	return points, nil
}
