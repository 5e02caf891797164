package main

import (
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/trackmap/internal/config"
	"github.com/woozymasta/trackmap/internal/logger"
	"github.com/woozymasta/trackmap/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile        string   `short:"c" long:"config"             env:"CONFIG_FILE"        description:"Path to configuration file" default:"config.yaml"`
	Output            string   `short:"o" long:"output"             env:"OUTPUT_DIR"         description:"Output directory (overrides config)"`
	Limit             []string `short:"l" long:"limit"              env:"LIMIT_NAMES"        description:"Limit processing to specific track names"`
	Concurrency       int      `short:"p" long:"concurrency"        env:"CONCURRENCY"        description:"Concurrency" default:"4"`
	FilterPrecision   int      `short:"P" long:"filter-precision"   env:"FILTER_PRECISION"   description:"Geohash length for filtering (overrides config)"`
	DistancePrecision int      `short:"D" long:"distance-precision" env:"DISTANCE_PRECISION" description:"Geohash length for jitter suppression (overrides config)"`
	MinPoints         int      `short:"m" long:"min-points"         env:"MIN_POINTS"         description:"Minimum points per cell to keep (overrides config)"`
	Force             bool     `short:"f" long:"force"              description:"Force overwrite of existing output"`
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

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.FilterPrecision > 0 {
		cfg.Precision.Filter = opts.FilterPrecision
	}
	if opts.DistancePrecision > 0 {
		cfg.Precision.Distance = opts.DistancePrecision
	}
	if opts.MinPoints > 0 {
		cfg.MinPoints = opts.MinPoints
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	client := &http.Client{Timeout: 30 * time.Second}

	// Filter tracks if limit is set
	tracksToProcess := cfg.Tracks
	if len(opts.Limit) > 0 {
		tracksToProcess = make([]config.Track, 0)
		availableTracks := make(map[string]config.Track)
		for _, t := range cfg.Tracks {
			availableTracks[t.Name] = t
		}

		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			if seen[limitName] {
				continue
			}
			seen[limitName] = true

			if t, ok := availableTracks[limitName]; ok {
				tracksToProcess = append(tracksToProcess, t)
			} else {
				log.Error().
					Str("name", limitName).
					Msg("Track specified in --limit not found in configuration")
			}
		}
	}

	queued := make([]config.Track, 0, len(tracksToProcess))
	for _, t := range tracksToProcess {
		if !opts.Force && processor.Exists(cfg.Output, t.Name) {
			log.Debug().Str("track", t.Name).Msg("Output exists, skipping")
			continue
		}
		queued = append(queued, t)
	}

	popts := processor.OptionsFromConfig(cfg)
	log.Info().
		Int("tracks_total", len(cfg.Tracks)).
		Int("tracks_queued", len(queued)).
		Int("filter_precision", popts.FilterPrecision).
		Int("distance_precision", popts.DistancePrecision).
		Int("min_points", popts.MinPoints).
		Msg("Starting processing")

	results, err := processor.ProcessAll(client, queued, popts, opts.Concurrency)

	failed := 0
	for _, res := range results {
		if saveErr := processor.SaveResult(cfg.Output, res); saveErr != nil {
			log.Error().Err(saveErr).Str("track", res.Name).Msg("Failed to save track output")
			failed++
		}
	}

	if err != nil || failed > 0 {
		log.Fatal().
			Int("processed", len(results)-failed).
			Int("queued", len(queued)).
			Msg("Processing finished with errors")
	}

	log.Info().Int("processed", len(results)).Msg("Processing finished successfully")
}
