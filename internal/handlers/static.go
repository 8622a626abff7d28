package handlers

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// StaticHandler serves the embedded client assets. Mount it under /static/
// with the prefix stripped.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// Unreachable: the directory is embedded at build time
		panic(err)
	}
	return http.FileServerFS(sub)
}
