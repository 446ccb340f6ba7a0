package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint to the registry.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// Middleware wraps a handler.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// initMiddleware wraps handlers that require full server initialization.
// uploadMiddleware, when non-nil, wraps endpoints that accept uploads.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware, uploadMiddleware Middleware) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() {
			handler = initMiddleware(handler)
		}
		if u, ok := ep.(Uploader); ok && u.AcceptsUpload() && uploadMiddleware != nil {
			handler = uploadMiddleware(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns a cobra.Command tree for all registered endpoints.
// Endpoints implementing Grouped are nested under a command named after
// their group.
// getServerURL is called at runtime to get the server URL.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running pdfa11y server via HTTP.

These commands require a running server (pdfa11y serve).
Use --server to specify a custom server URL.

Examples:
  pdfa11y api health                          # Check server health
  pdfa11y api analyze report.pdf              # Upload a document for analysis
  pdfa11y api report <session-id>             # Show the audit report
  pdfa11y api remediate <session-id> fix_title "Annual Report"
  pdfa11y api metrics summary                 # Audit throughput and latency`,
	}

	groups := make(map[string]*cobra.Command)
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		if cmd == nil {
			continue
		}
		g, ok := ep.(Grouped)
		if !ok || g.Group() == "" {
			apiCmd.AddCommand(cmd)
			continue
		}
		parent, exists := groups[g.Group()]
		if !exists {
			parent = &cobra.Command{
				Use:   g.Group(),
				Short: g.Group() + " commands",
			}
			groups[g.Group()] = parent
			apiCmd.AddCommand(parent)
		}
		parent.AddCommand(cmd)
	}

	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
