package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/audit"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// OverlayEndpoint handles GET /api/sessions/{id}/issues/{issue_id}/overlay.
type OverlayEndpoint struct{}

var _ api.Endpoint = (*OverlayEndpoint)(nil)

func (e *OverlayEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/issues/{issue_id}/overlay", e.handler
}

func (e *OverlayEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Issue overlay
//	@Description	Pixel rectangle of an issue on a page image shown at display_scale
//	@Tags			pages
//	@Produce		json
//	@Param			id				path		string	true	"Session ID"
//	@Param			issue_id		path		string	true	"Issue ID"
//	@Param			display_scale	query		number	false	"Points-to-pixels factor of the displayed image (default 1)"
//	@Success		200				{object}	audit.Overlay
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Router			/api/sessions/{id}/issues/{issue_id}/overlay [get]
func (e *OverlayEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	scale := 1.0
	if s := r.URL.Query().Get("display_scale"); s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "display_scale must be a number")
			return
		}
		scale = parsed
	}

	overlay, err := svcctx.AuditFrom(r.Context()).Overlay(r.PathValue("id"), r.PathValue("issue_id"), scale)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overlay)
}

func (e *OverlayEndpoint) Command(getServerURL func() string) *cobra.Command {
	var scale float64
	cmd := &cobra.Command{
		Use:   "overlay <session-id> <issue-id>",
		Short: "Show where an issue sits on its page image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			q := url.Values{}
			q.Set("display_scale", strconv.FormatFloat(scale, 'f', -1, 64))
			path := fmt.Sprintf("/api/sessions/%s/issues/%s/overlay?%s", args[0], url.PathEscape(args[1]), q.Encode())
			var resp audit.Overlay
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().Float64Var(&scale, "display-scale", 1, "Points-to-pixels factor of the displayed image")
	return cmd
}
