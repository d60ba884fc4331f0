package api

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// spaHandler serves the single-page app. Paths without a file extension
// are client-side routes and get index.html; everything else is an asset.
// Unknown /api/ paths never fall through to the app.
func spaHandler(staticSub fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticSub))
	index := serveFile(staticSub, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			writeError(w, http.StatusNotFound, CodeNotFound, "no such endpoint")
			return
		}
		// Using http.FileServer with r.URL.Path ending in "index.html" triggers
		// Go's built-in redirect to "./", so the page is read manually.
		if p == "/" || path.Ext(p) == "" || path.Base(p) == "index.html" {
			index(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

// serveFile returns a handler that reads a single file from fsys and sends it.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}
