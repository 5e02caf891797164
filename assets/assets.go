// Package assets embeds the static files of the map page.
package assets

import _ "embed"

// Index is the map page built by cmd/minify from index.html.tpl, style.css and script.js.
//
//go:embed index.html
var Index []byte

// Favicon is favicon.svg minified by cmd/minify.
//
//go:embed favicon.min.svg
var Favicon []byte
