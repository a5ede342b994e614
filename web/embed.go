// Package web embeds the browser UI for serving from the Go binary.
//
// The web/static/ directory holds a self-contained single-page client
// that drives the pricing session over the REST and WebSocket
// endpoints. It is embedded at compile time using go:embed, so the
// volsurf binary ships the UI without any on-disk assets.
//
// Usage in the API server:
//
//	import "github.com/volsurf/volsurf/web"
//	fs := web.StaticFS()  // returns io/fs.FS rooted at static/
package web

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed all:static
var staticDir embed.FS

// StaticFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS or http.FS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticDir, "static")
	if err != nil {
		log.Fatalf("web.StaticFS: %v", err)
	}
	return sub
}
