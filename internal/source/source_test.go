package source

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/woozymasta/trackmap/internal/geo"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="40.0" lon="70.0"><name>camp</name></wpt>
  <trk>
    <name>walk</name>
    <trkseg>
      <trkpt lat="42.8733" lon="74.6187"></trkpt>
      <trkpt lat="42.8734" lon="74.6188"></trkpt>
    </trkseg>
  </trk>
</gpx>`

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "LineString", "coordinates": [[74.6187, 42.8733], [74.6188, 42.8734]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [70.0, 40.0]}}
  ]
}`

var want = []geo.Point{
	{Lat: 42.8733, Lon: 74.6187},
	{Lat: 42.8734, Lon: 74.6188},
	{Lat: 40.0, Lon: 70.0},
}

func TestFormatFromName(t *testing.T) {
	tests := map[string]Format{
		"track.gpx":         FormatGPX,
		"TRACK.GPX":         FormatGPX,
		"/a/b/out.geojson":  FormatGeoJSON,
		"points.json":       FormatGeoJSON,
		"coords.txt":        FormatText,
		"coords":            FormatText,
		"/download/log.csv": FormatText,
	}
	for name, format := range tests {
		if got := FormatFromName(name); got != format {
			t.Errorf("FormatFromName(%q) = %q, want %q", name, got, format)
		}
	}
}

func TestParseText(t *testing.T) {
	data := `# lat lon
42.8733,74.6187

42.8734; 74.6188
40.0	70.0	812.5
`
	got, err := Parse(FormatText, []byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseTextEmpty(t *testing.T) {
	got, err := Parse(FormatText, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty sequence, got %#v", got)
	}
}

func TestParseTextMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"single field", "42.8733,74.6187\n42.8734\n", "line 2"},
		{"bad latitude", "north,74.6187\n", "line 1: latitude"},
		{"bad longitude", "42.8733,east\n", "line 1: longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(FormatText, []byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if got != nil {
				t.Errorf("expected no partial result, got %v", got)
			}
		})
	}
}

func TestParseGPX(t *testing.T) {
	got, err := Parse(FormatGPX, []byte(sampleGPX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseGeoJSON(t *testing.T) {
	got, err := Parse(FormatGeoJSON, []byte(sampleGeoJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseGeoJSONBareGeometry(t *testing.T) {
	data := `{"type": "MultiPoint", "coordinates": [[74.6187, 42.8733], [74.6188, 42.8734], [70.0, 40.0]]}`
	got, err := Parse(FormatGeoJSON, []byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseGeoJSONUnsupported(t *testing.T) {
	data := `{"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}}`
	if _, err := Parse(FormatGeoJSON, []byte(data)); err == nil {
		t.Fatal("expected error for polygon geometry")
	}
	if _, err := Parse(FormatGeoJSON, []byte("{")); err == nil {
		t.Fatal("expected error for broken JSON")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walk.gpx")
	if err := os.WriteFile(path, []byte(sampleGPX), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(nil, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := Load(nil, filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/track.geojson":
			_, _ = w.Write([]byte(sampleGeoJSON))
		case "/coords":
			_, _ = w.Write([]byte("42.8733,74.6187\n42.8734,74.6188\n40.0,70.0\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	for _, p := range []string{"/track.geojson", "/coords?v=2"} {
		got, err := Load(srv.Client(), srv.URL+p)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", p, got, want)
		}
	}

	if _, err := Load(srv.Client(), srv.URL+"/missing.gpx"); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}
