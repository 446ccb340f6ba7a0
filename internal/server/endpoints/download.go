package endpoints

import (
	"mime"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/audit"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// DownloadEndpoint handles GET /api/sessions/{id}/download.
type DownloadEndpoint struct{}

var _ api.Endpoint = (*DownloadEndpoint)(nil)

func (e *DownloadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/download", e.handler
}

func (e *DownloadEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Download document
//	@Description	The session's current document, including applied remediations
//	@Tags			audit
//	@Produce		application/pdf
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/download [get]
func (e *DownloadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	name, data, err := svcctx.AuditFrom(r.Context()).Download(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (e *DownloadEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "download <session-id>",
		Short: "Download the current document of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, header, err := client.GetRaw(cmd.Context(), "/api/sessions/"+args[0]+"/download")
			if err != nil {
				return err
			}
			if outputFile == "" {
				outputFile = attachmentName(header.Get("Content-Disposition"))
			}
			if err := os.WriteFile(outputFile, data, 0o644); err != nil {
				return err
			}
			cmd.Println("Wrote", outputFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Output file (default: name suggested by the server)")
	return cmd
}

func attachmentName(disposition string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return audit.DownloadName("")
}
