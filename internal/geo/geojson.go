package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single track point with its properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents a Point geometry.
type GeoJSONGeometry struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates"` // [Lon, Lat]
}

// PointCollection builds a FeatureCollection with one Point feature per track point.
// Each feature carries its position in the sequence, the layer and color it is
// drawn with, its geohash at the given precision and the bound of that cell
// as [minLon, minLat, maxLon, maxLat].
func PointCollection(points []Point, layer, color string, precision int) (GeoJSONFeatureCollection, error) {
	fc := GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoJSONFeature, 0, len(points)),
	}

	cells := make(map[string][]float64)
	for i, p := range points {
		key, err := Encode(p, precision)
		if err != nil {
			return GeoJSONFeatureCollection{}, err
		}

		cell, ok := cells[key]
		if !ok {
			bound, err := Decode(key)
			if err != nil {
				return GeoJSONFeatureCollection{}, err
			}
			cell = []float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}
			cells[key] = cell
		}

		op := p.OrbPoint()
		fc.Features = append(fc.Features, GeoJSONFeature{
			Type: "Feature",
			Geometry: GeoJSONGeometry{
				Type:        "Point",
				Coordinates: []float64{op.Lon(), op.Lat()},
			},
			Properties: map[string]interface{}{
				"index":   i,
				"layer":   layer,
				"color":   color,
				"geohash": key,
				"cell":    cell,
			},
		})
	}

	return fc, nil
}
