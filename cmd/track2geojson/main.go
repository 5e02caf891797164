package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/trackmap/internal/geo"
	"github.com/woozymasta/trackmap/internal/logger"
	"github.com/woozymasta/trackmap/internal/processor"
	"github.com/woozymasta/trackmap/internal/source"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input             string `short:"i" long:"in"                 description:"Input track (path or URL, .gpx/.geojson/text). Reads text from stdin if empty"`
	Output            string `short:"o" long:"out"                description:"Output file path. Writes to stdout if empty"`
	Format            string `short:"f" long:"format"             description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Layer             string `short:"L" long:"layer"              description:"Sequence to export" choice:"filtered" choice:"raw" default:"filtered"`
	Color             string `short:"C" long:"color"              description:"Color stored in feature properties" default:"#FF0000"`
	FilterPrecision   int    `short:"P" long:"filter-precision"   description:"Geohash length for filtering" default:"8"`
	DistancePrecision int    `short:"D" long:"distance-precision" description:"Geohash length for jitter suppression" default:"8"`
	MinPoints         int    `short:"m" long:"min-points"         description:"Minimum points per cell to keep" default:"2"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	// Read Input
	var (
		points []geo.Point
		err    error
	)
	if opts.Input != "" {
		client := &http.Client{Timeout: 30 * time.Second}
		points, err = source.Load(client, opts.Input)
	} else {
		var data []byte
		data, err = io.ReadAll(os.Stdin)
		if err == nil {
			points, err = source.Parse(source.FormatText, data)
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	name := "stdin"
	if opts.Input != "" {
		name = opts.Input
	}

	res, err := processor.Process(name, points, processor.Options{
		FilterPrecision:   opts.FilterPrecision,
		DistancePrecision: opts.DistancePrecision,
		MinPoints:         opts.MinPoints,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to process track")
	}

	log.Info().
		Int("raw_points", len(res.Raw)).
		Int("filtered_points", len(res.Filtered)).
		Float64("raw_distance_m", res.RawDistance).
		Float64("filtered_distance_m", res.FilteredDistance).
		Msg("Track processed")

	selected := res.Filtered
	if opts.Layer == "raw" {
		selected = res.Raw
	}

	fc, err := geo.PointCollection(selected, opts.Layer, opts.Color, opts.FilterPrecision)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build feature collection")
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal output")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output")
		}
		log.Info().
			Int("features", len(fc.Features)).
			Str("path", opts.Output).
			Str("format", opts.Format).
			Msg("Track exported")
	} else {
		fmt.Println(string(outputData))
	}
}
