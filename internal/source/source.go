// Package source reads coordinate sequences from local files or URLs.
package source

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/woozymasta/trackmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// Format is a supported coordinate file format.
type Format string

// Supported formats.
const (
	FormatText    Format = "text"
	FormatGPX     Format = "gpx"
	FormatGeoJSON Format = "geojson"
)

// FormatFromName picks the format from a file name or URL path extension.
// Unknown extensions are read as text.
func FormatFromName(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".gpx":
		return FormatGPX
	case ".geojson", ".json":
		return FormatGeoJSON
	default:
		return FormatText
	}
}

// Load reads the coordinate sequence at location, which is either a local
// path or an http(s) URL downloaded with client.
func Load(client *http.Client, location string) ([]geo.Point, error) {
	var (
		data []byte
		name string
		err  error
	)

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		data, err = fetch(client, location)
		if err != nil {
			return nil, err
		}
		name = location
		if u, perr := url.Parse(location); perr == nil {
			name = u.Path
		}
	} else {
		data, err = os.ReadFile(location)
		if err != nil {
			return nil, err
		}
		name = filepath.Base(location)
	}

	format := FormatFromName(name)
	points, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}

	log.Debug().
		Str("source", location).
		Str("format", string(format)).
		Int("points", len(points)).
		Msg("Coordinates loaded")

	return points, nil
}

// Parse decodes data in the given format.
func Parse(format Format, data []byte) ([]geo.Point, error) {
	switch format {
	case FormatGPX:
		return parseGPX(data)
	case FormatGeoJSON:
		return parseGeoJSON(data)
	case FormatText:
		return parseText(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func fetch(client *http.Client, location string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(location)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", location, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
