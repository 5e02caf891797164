// Package processor runs coordinate tracks through the filtering pipeline:
// load, measure, filter, measure again.
package processor

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/woozymasta/trackmap/internal/config"
	"github.com/woozymasta/trackmap/internal/geo"
	"github.com/woozymasta/trackmap/internal/source"

	"github.com/rs/zerolog/log"
)

// Options are the kernel parameters of one pipeline run.
type Options struct {
	FilterPrecision   int `json:"filter_precision"`
	DistancePrecision int `json:"distance_precision"`
	MinPoints         int `json:"min_points"`
}

// OptionsFromConfig extracts the pipeline parameters from a configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		FilterPrecision:   cfg.Precision.Filter,
		DistancePrecision: cfg.Precision.Distance,
		MinPoints:         cfg.MinPoints,
	}
}

// Validate rejects parameters below 1 before any point is encoded.
func (o Options) Validate() error {
	if o.FilterPrecision < 1 || o.DistancePrecision < 1 || o.MinPoints < 1 {
		return fmt.Errorf("%w: precisions and minimum points must be >= 1, got %+v", geo.ErrInvalidParameter, o)
	}

	return nil
}

// Result holds both sequences of a track and their lengths in meters.
type Result struct {
	Name             string
	Color            string
	Raw              []geo.Point
	Filtered         []geo.Point
	RawDistance      float64
	FilteredDistance float64
	Options          Options
}

// Process measures points, filters them and measures the filtered sequence.
// Any invalid point or parameter fails the whole track.
func Process(name string, points []geo.Point, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	rawDistance, err := geo.TotalDistance(points, opts.DistancePrecision)
	if err != nil {
		return Result{}, fmt.Errorf("raw distance: %w", err)
	}

	filtered, err := geo.Filter(points, opts.FilterPrecision, opts.MinPoints)
	if err != nil {
		return Result{}, fmt.Errorf("filter: %w", err)
	}

	filteredDistance, err := geo.TotalDistance(filtered, opts.DistancePrecision)
	if err != nil {
		return Result{}, fmt.Errorf("filtered distance: %w", err)
	}

	return Result{
		Name:             name,
		Raw:              points,
		Filtered:         filtered,
		RawDistance:      rawDistance,
		FilteredDistance: filteredDistance,
		Options:          opts,
	}, nil
}

// ProcessTrack loads a configured track and runs it through Process.
func ProcessTrack(client *http.Client, t config.Track, opts Options) (Result, error) {
	points, err := source.Load(client, t.Source)
	if err != nil {
		return Result{}, fmt.Errorf("load: %w", err)
	}

	res, err := Process(t.Name, points, opts)
	if err != nil {
		return Result{}, err
	}
	res.Color = t.Color

	log.Info().
		Str("track", t.Name).
		Int("raw_points", len(res.Raw)).
		Int("filtered_points", len(res.Filtered)).
		Float64("raw_distance_m", res.RawDistance).
		Float64("filtered_distance_m", res.FilteredDistance).
		Msg("Track processed")

	return res, nil
}

type job struct {
	Pos   int
	Track config.Track
}

type outcome struct {
	Pos    int
	Result Result
	Err    error
}

// ProcessAll processes tracks with up to concurrency workers.
// Failed tracks are logged and left out; the others are returned in input order
// together with the joined errors of the failures.
func ProcessAll(client *http.Client, tracks []config.Track, opts Options, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	jobs := make(chan job, len(tracks))
	outcomes := make(chan outcome, len(tracks))

	go func() {
		for i, t := range tracks {
			jobs <- job{Pos: i, Track: t}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, err := ProcessTrack(client, j.Track, opts)
				if err != nil {
					log.Error().
						Err(err).
						Str("track", j.Track.Name).
						Msg("Failed to process track")
				}
				outcomes <- outcome{Pos: j.Pos, Result: res, Err: err}
			}
		}()
	}
	wg.Wait()
	close(outcomes)

	ordered := make([]*outcome, len(tracks))
	for o := range outcomes {
		o := o
		ordered[o.Pos] = &o
	}

	var (
		results []Result
		errs    []error
	)
	for i, o := range ordered {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("track %q: %w", tracks[i].Name, o.Err))
			continue
		}
		results = append(results, o.Result)
	}

	return results, errors.Join(errs...)
}
