// Package webapp provides the embedded file manager user interface.
package webapp

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed dist/*
var distFS embed.FS

// Handler serves the embedded single-page application. Unmatched paths
// fall through to index.html so the page can be reloaded directly.
func Handler() http.Handler {
	dist, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic(err)
	}

	fileServer := http.FileServerFS(dist)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			if _, err := fs.Stat(dist, r.URL.Path[1:]); err != nil {
				http.ServeFileFS(w, r, dist, "index.html")
				return
			}
		}
		fileServer.ServeHTTP(w, r)
	})
}
