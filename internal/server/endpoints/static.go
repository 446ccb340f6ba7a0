package endpoints

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/web"
)

// StaticEndpoint serves the embedded report UI. Paths without a file
// extension are client routes ("/", "/report/{id}") and get index.html.
type StaticEndpoint struct{}

var _ api.Endpoint = (*StaticEndpoint)(nil)

func (e *StaticEndpoint) Route() (string, string, http.HandlerFunc) {
	// Catches every GET not claimed by a more specific pattern.
	return "GET", "/{path...}", e.handler
}

func (e *StaticEndpoint) RequiresInit() bool {
	return false
}

func (e *StaticEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}

func (e *StaticEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.PathValue("path"), "/")

	// Unknown API routes must not turn into HTML pages.
	if name == "api" || strings.HasPrefix(name, "api/") {
		writeError(w, http.StatusNotFound, "no such endpoint")
		return
	}

	distFS, err := web.DistFS()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report UI not available")
		return
	}

	if name != "" && path.Ext(name) != "" {
		if _, err := fs.Stat(distFS, name); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=300")
		http.ServeFileFS(w, r, distFS, name)
		return
	}

	index, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report UI not available")
		return
	}
	// Report pages show live session state.
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(index)
}
