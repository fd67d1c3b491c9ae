// Package web bundles the log viewer single page app.
package web

import (
	"embed"
	"io/fs"
)

// IndexFile is the template rendered for the UI entry point.
const IndexFile = "index.html"

// staticFiles bundles the viewer assets.
//
//go:embed static/*
var staticFiles embed.FS

// Static returns a filesystem rooted at the bundled static assets.
func Static() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}
