package handler

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed web
var embeddedStatic embed.FS

var staticFS = func() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}()

// handleStatic serves the embedded frontend. Unknown non-API paths fall
// back to index.html so the single-page app owns its own routing.
func (h *Handler) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path != "" {
		if f, err := embeddedStatic.Open("web/" + path); err == nil {
			f.Close()
			staticFS.ServeHTTP(w, r)
			return
		}
	}
	r.URL.Path = "/"
	staticFS.ServeHTTP(w, r)
}
