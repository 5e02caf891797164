package main

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/woozymasta/trackmap/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Dir string `short:"d" long:"dir" description:"Assets directory" default:"assets"`
}

type PageData struct {
	CSS string
	JS  string
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

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)

	cssMin, err := minifyFile(m, "text/css", filepath.Join(opts.Dir, "style.css"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to minify CSS")
	}

	jsMin, err := minifyFile(m, "text/javascript", filepath.Join(opts.Dir, "script.js"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to minify JS")
	}

	svgMin, err := minifyFile(m, "image/svg+xml", filepath.Join(opts.Dir, "favicon.svg"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to minify SVG")
	}

	svgPath := filepath.Join(opts.Dir, "favicon.min.svg")
	if err := os.WriteFile(svgPath, []byte(svgMin), 0644); err != nil {
		log.Fatal().Err(err).Str("path", svgPath).Msg("Failed to write favicon")
	}

	tplPath := filepath.Join(opts.Dir, "index.html.tpl")
	htmlRaw, err := os.ReadFile(tplPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", tplPath).Msg("Failed to read template")
	}

	tmpl, err := template.New("index").Parse(string(htmlRaw))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PageData{CSS: cssMin, JS: jsMin}); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute template")
	}

	finalHTML, err := m.String("text/html", buf.String())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to minify HTML")
	}

	outPath := filepath.Join(opts.Dir, "index.html")
	if err := os.WriteFile(outPath, []byte(finalHTML), 0644); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("Failed to write page")
	}

	log.Info().
		Str("path", outPath).
		Int("bytes", len(finalHTML)).
		Msg("Page built")
}

func minifyFile(m *minify.M, mediatype, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return m.String(mediatype, string(raw))
}
