package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/audit"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// ReportEndpoint handles GET /api/sessions/{id}/report.
type ReportEndpoint struct{}

var _ api.Endpoint = (*ReportEndpoint)(nil)

func (e *ReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/report", e.handler
}

func (e *ReportEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get audit report
//	@Description	Issues, score and document properties of a session
//	@Tags			audit
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	audit.Report
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/report [get]
func (e *ReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	report, err := svcctx.AuditFrom(r.Context()).Report(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (e *ReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "report <session-id>",
		Short: "Show the audit report of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp audit.Report
			if err := client.Get(cmd.Context(), "/api/sessions/"+args[0]+"/report", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
