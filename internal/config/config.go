// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/woozymasta/trackmap/internal/geo"

	"gopkg.in/yaml.v3"
)

// Defaults applied to fields left empty in the configuration file.
const (
	DefaultPrecision = 8
	DefaultMinPoints = 2
	DefaultZoom      = 14
	DefaultOutput    = "tracks"
)

// DefaultCenter is used by the map page when a track has no filtered points.
var DefaultCenter = geo.Point{Lat: 42.87336, Lon: 74.61873}

// Config represents the root configuration file structure.
type Config struct {
	Center      *geo.Point `yaml:"center,omitempty" json:"center"`
	Attribution string     `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Output      string     `yaml:"output,omitempty" json:"-"`
	Tracks      []Track    `yaml:"tracks" json:"tracks"`
	Precision   Precision  `yaml:"precision,omitempty" json:"precision"`
	MinPoints   int        `yaml:"min_points,omitempty" json:"min_points"`
	Zoom        int        `yaml:"zoom,omitempty" json:"zoom"`
}

// Precision holds the geohash lengths used by the pipeline.
// Filtering and distance measurement are configured independently.
type Precision struct {
	Filter   int `yaml:"filter,omitempty" json:"filter"`
	Distance int `yaml:"distance,omitempty" json:"distance"`
}

// Track represents a single coordinate file to process and display.
type Track struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	Name    string   `yaml:"name" json:"name"`
	Source  string   `yaml:"source" json:"-"` // path or http(s) URL
	Color   string   `yaml:"color,omitempty" json:"color"`
	Aliases []string `yaml:"aliases,omitempty" json:"-"`
}

// palette colors tracks that do not set one, starting with the red and blue
// pair of the source and pre-filtered layers.
var palette = []string{"#FF0000", "#0000FF", "#00A000", "#FF8C00", "#8A2BE2", "#008B8B"}

// Load reads and parses the YAML configuration file from the specified path.
// Defaults are applied and the result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes a YAML document into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Precision.Filter == 0 {
		c.Precision.Filter = DefaultPrecision
	}
	if c.Precision.Distance == 0 {
		c.Precision.Distance = DefaultPrecision
	}
	if c.MinPoints == 0 {
		c.MinPoints = DefaultMinPoints
	}
	if c.Zoom <= 0 {
		c.Zoom = DefaultZoom
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Center == nil {
		center := DefaultCenter
		c.Center = &center
	}

	for i := range c.Tracks {
		if c.Tracks[i].Color == "" {
			c.Tracks[i].Color = palette[i%len(palette)]
		}
	}
}

// Validate checks parameters and track definitions.
func (c *Config) Validate() error {
	var errs []error

	if c.Precision.Filter < 1 {
		errs = append(errs, fmt.Errorf("precision.filter must be >= 1, got %d", c.Precision.Filter))
	}
	if c.Precision.Distance < 1 {
		errs = append(errs, fmt.Errorf("precision.distance must be >= 1, got %d", c.Precision.Distance))
	}
	if c.MinPoints < 1 {
		errs = append(errs, fmt.Errorf("min_points must be >= 1, got %d", c.MinPoints))
	}
	if c.Center != nil {
		if err := c.Center.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("center: %w", err))
		}
	}

	names := make(map[string]bool)
	for i, t := range c.Tracks {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("track %d: name is required", i))
			continue
		}
		if t.Name == "." || t.Name == ".." || strings.ContainsAny(t.Name, `/\`) {
			errs = append(errs, fmt.Errorf("track %q: name must be usable as a directory name", t.Name))
		}
		if t.Source == "" {
			errs = append(errs, fmt.Errorf("track %q: source is required", t.Name))
		}
		for _, n := range append([]string{t.Name}, t.Aliases...) {
			if names[n] {
				errs = append(errs, fmt.Errorf("track %q: name or alias %q is already used", t.Name, n))
			}
			names[n] = true
		}
	}

	return errors.Join(errs...)
}
