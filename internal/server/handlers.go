// Package server serves the track map page and processed track layers.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/trackmap/internal/geo"
	"github.com/woozymasta/trackmap/internal/processor"
)

const etagCap = 64

// tracksResponse is the payload of /api/tracks.
type tracksResponse struct {
	Center      geo.Point           `json:"center"`
	Attribution string              `json:"attribution,omitempty"`
	Tracks      []processor.Summary `json:"tracks"`
	Zoom        int                 `json:"zoom"`
}

// HandleTracksList serves the summaries of the processed tracks.
func (s *ServerContext) HandleTracksList(w http.ResponseWriter, r *http.Request) {
	resp := tracksResponse{
		Center:      *s.Config.Center,
		Attribution: s.Config.Attribution,
		Tracks:      s.Tracks,
		Zoom:        s.Config.Zoom,
	}

	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleIndex serves the map page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := s.IndexETag
	if etag == "" {
		etag = contentETag(s.IndexHTML)
	}

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleTrackLayer serves a processed GeoJSON layer.
func (s *ServerContext) HandleTrackLayer(w http.ResponseWriter, r *http.Request) {
	// Path: /tracks/{trackName}/{raw|filtered}.geojson
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		http.NotFound(w, r)
		return
	}

	name, ok := s.TrackResolver[parts[1]]
	if !ok {
		http.NotFound(w, r)
		return
	}

	// allow only known layers to prevent path probing
	layer := parts[2]
	if layer != processor.RawFile && layer != processor.FilteredFile {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.Config.Output, name, layer)
	if !s.serveFile(w, r, path, "application/geo+json") {
		http.NotFound(w, r)
	}
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

// Routes registers all handlers and wraps them with the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tracks", s.HandleTracksList)
	mux.HandleFunc("/favicon.svg", s.HandleFavicon)
	mux.HandleFunc("/tracks/", s.HandleTrackLayer)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
