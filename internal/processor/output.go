package processor

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/woozymasta/trackmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// Output file names inside a track directory.
const (
	RawFile      = "raw.geojson"
	FilteredFile = "filtered.geojson"
	SummaryFile  = "summary.json"
)

// Summary describes a processed track for the map page.
type Summary struct {
	Center           *geo.Point `json:"center,omitempty"`
	Name             string     `json:"name"`
	Color            string     `json:"color"`
	Options          Options    `json:"options"`
	RawPoints        int        `json:"raw_points"`
	FilteredPoints   int        `json:"filtered_points"`
	RawDistance      float64    `json:"raw_distance_m"`
	FilteredDistance float64    `json:"filtered_distance_m"`
}

// Summary returns the summary of the result. The center is the first
// filtered point and is left unset when nothing survived filtering.
func (r Result) Summary() Summary {
	s := Summary{
		Name:             r.Name,
		Color:            r.Color,
		Options:          r.Options,
		RawPoints:        len(r.Raw),
		FilteredPoints:   len(r.Filtered),
		RawDistance:      r.RawDistance,
		FilteredDistance: r.FilteredDistance,
	}
	if len(r.Filtered) > 0 {
		center := r.Filtered[0]
		s.Center = &center
	}

	return s
}

// Exists reports whether output for the named track is already present in dir.
func Exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name, SummaryFile))
	return err == nil
}

// SaveResult writes the raw and filtered layers and the summary of r
// to dir/<track name>/.
func SaveResult(dir string, r Result) error {
	trackDir := filepath.Join(dir, r.Name)
	if err := os.MkdirAll(trackDir, 0755); err != nil {
		return err
	}

	raw, err := geo.PointCollection(r.Raw, "raw", r.Color, r.Options.FilterPrecision)
	if err != nil {
		return err
	}
	filtered, err := geo.PointCollection(r.Filtered, "filtered", r.Color, r.Options.FilterPrecision)
	if err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(trackDir, RawFile), raw); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(trackDir, FilteredFile), filtered); err != nil {
		return err
	}

	// summary last, Exists keys off it
	return writeJSON(filepath.Join(trackDir, SummaryFile), r.Summary())
}

// LoadSummary reads a summary written by SaveResult.
func LoadSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, err
	}

	return s, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(v)
}
