package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/woozymasta/trackmap/internal/config"
	"github.com/woozymasta/trackmap/internal/logger"
	"github.com/woozymasta/trackmap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file"           default:"config.yaml"`
	Output     string `short:"o" long:"output" env:"OUTPUT_DIR"     description:"Processed tracks directory (overrides config)"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"                 default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"                    default:"8080"`
	Zoom       int    `short:"z" long:"zoom"   env:"MAP_ZOOM"       description:"Initial map zoom (overrides config)"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.Zoom > 0 {
		cfg.Zoom = opts.Zoom
	}

	srvCtx := server.NewServerContext(cfg)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("tracks_loaded", len(srvCtx.Tracks)).
		Int("zoom", cfg.Zoom).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Routes()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
