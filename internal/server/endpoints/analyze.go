package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// AnalyzeResponse is the response for a document upload.
type AnalyzeResponse struct {
	SessionID  string `json:"session_id"`
	Filename   string `json:"filename"`
	Score      int    `json:"score"`
	PageCount  int    `json:"page_count"`
	IssueCount int    `json:"issue_count"`
	ReportURL  string `json:"report_url"`
}

// AnalyzeEndpoint handles POST /api/analyze.
type AnalyzeEndpoint struct{}

var (
	_ api.Endpoint = (*AnalyzeEndpoint)(nil)
	_ api.Uploader = (*AnalyzeEndpoint)(nil)
)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresInit() bool { return true }

func (e *AnalyzeEndpoint) AcceptsUpload() bool { return true }

// handler godoc
//
//	@Summary		Analyze a document
//	@Description	Upload a PDF, run the accessibility checks and open a session
//	@Tags			audit
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"PDF document"
//	@Success		201		{object}	AnalyzeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Router			/api/analyze [post]
func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if limit := svcctx.MaxUploadBytesFrom(r.Context()); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no file provided (use field name 'file')")
		return
	}
	fh := files[0]

	f, err := fh.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to open uploaded file: "+err.Error())
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file: "+err.Error())
		return
	}

	rec, err := svcctx.AuditFrom(r.Context()).Analyze(r.Context(), fh.Filename, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AnalyzeResponse{
		SessionID:  rec.ID,
		Filename:   rec.Filename,
		Score:      rec.Score,
		PageCount:  rec.PageCount,
		IssueCount: len(rec.Issues),
		ReportURL:  "/api/sessions/" + rec.ID + "/report",
	})
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file.pdf>",
		Short: "Upload a PDF for accessibility analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp AnalyzeResponse
			if err := client.Upload(cmd.Context(), "/api/analyze", "file", filepath.Base(args[0]), data, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
