package server

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"sort"

	"github.com/woozymasta/trackmap/assets"
	"github.com/woozymasta/trackmap/internal/config"
	"github.com/woozymasta/trackmap/internal/processor"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config        *config.Config
	Tracks        []processor.Summary
	TrackResolver map[string]string
	IndexHTML     []byte
	IndexETag     string
	Favicon       []byte
}

// NewServerContext initializes the context from the configuration and the
// processed output on disk. Tracks without output are skipped.
func NewServerContext(cfg *config.Config) *ServerContext {
	log.Info().Int("config_tracks_count", len(cfg.Tracks)).Msg("Initializing server context")

	resolver := make(map[string]string)
	validTracks := make([]config.Track, 0, len(cfg.Tracks))

	for _, track := range cfg.Tracks {
		if !processor.Exists(cfg.Output, track.Name) {
			log.Warn().
				Str("track", track.Name).
				Str("output", cfg.Output).
				Msg("Skipping track: no processed output found")
			continue
		}

		resolver[track.Name] = track.Name
		for _, alias := range track.Aliases {
			resolver[alias] = track.Name
		}

		validTracks = append(validTracks, track)
	}

	sort.SliceStable(validTracks, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if validTracks[i].Index != nil {
			idxI = *validTracks[i].Index
		}
		if validTracks[j].Index != nil {
			idxJ = *validTracks[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return validTracks[i].Name < validTracks[j].Name
	})

	summaries := make([]processor.Summary, 0, len(validTracks))
	for _, track := range validTracks {
		path := filepath.Join(cfg.Output, track.Name, processor.SummaryFile)
		s, err := processor.LoadSummary(path)
		if err != nil {
			log.Warn().
				Err(err).
				Str("track", track.Name).
				Msg("Skipping track: unreadable summary")
			delete(resolver, track.Name)
			for _, alias := range track.Aliases {
				delete(resolver, alias)
			}
			continue
		}

		// the color may have changed in the config since processing
		s.Color = track.Color

		log.Debug().
			Str("track", track.Name).
			Int("filtered_points", s.FilteredPoints).
			Msg("Track validated and added to context")

		summaries = append(summaries, s)
	}

	log.Info().
		Int("valid_tracks_count", len(summaries)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:        cfg,
		Tracks:        summaries,
		TrackResolver: resolver,
		IndexHTML:     assets.Index,
		IndexETag:     contentETag(assets.Index),
		Favicon:       assets.Favicon,
	}
}

// contentETag derives a strong ETag from the content itself.
func contentETag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
