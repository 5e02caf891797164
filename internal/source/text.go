package source

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/woozymasta/trackmap/internal/geo"
)

// parseText reads one "lat,lon" record per line. Comma, semicolon, tab and
// space all separate fields; columns after the longitude are ignored.
// Blank lines and lines starting with '#' are skipped.
func parseText(data []byte) ([]geo.Point, error) {
	points := make([]geo.Point, 0)

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || unicode.IsSpace(r)
		})
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected latitude and longitude, got %q", line, text)
		}

		lat, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: latitude: %w", line, err)
		}
		lon, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: longitude: %w", line, err)
		}

		points = append(points, geo.Point{Lat: lat, Lon: lon})
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return points, nil
}
