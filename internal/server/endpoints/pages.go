package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// PageImageEndpoint handles GET /api/sessions/{id}/pages/{page}/image.
type PageImageEndpoint struct{}

var _ api.Endpoint = (*PageImageEndpoint)(nil)

func (e *PageImageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/pages/{page}/image", e.handler
}

func (e *PageImageEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get page image
//	@Description	Render a page of the session's current document as PNG
//	@Tags			pages
//	@Produce		image/png
//	@Param			id		path		string	true	"Session ID"
//	@Param			page	path		int		true	"Page index (0-based)"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/pages/{page}/image [get]
func (e *PageImageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be an integer")
		return
	}

	png, err := svcctx.AuditFrom(r.Context()).RenderPage(r.Context(), r.PathValue("id"), page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The document changes on remediation, so images are not cacheable.
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}

func (e *PageImageEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "page <session-id> <page-index>",
		Short: "Render a page of a session as PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("page index must be an integer: %w", err)
			}
			client := api.NewClient(getServerURL())
			data, _, err := client.GetRaw(cmd.Context(), fmt.Sprintf("/api/sessions/%s/pages/%d/image", args[0], page))
			if err != nil {
				return err
			}
			if outputFile == "" {
				outputFile = fmt.Sprintf("page_%04d.png", page)
			}
			if err := os.WriteFile(outputFile, data, 0o644); err != nil {
				return err
			}
			cmd.Println("Wrote", outputFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Output file (default page_NNNN.png)")
	return cmd
}

// ListPagesResponse is the response for listing pages.
type ListPagesResponse struct {
	Pages       []PageSummary `json:"pages"`
	TotalPages  int           `json:"total_pages"`
	RasterScale float64       `json:"raster_scale"`
}

// PageSummary describes one page of a session.
type PageSummary struct {
	Index      int     `json:"index"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	IssueCount int     `json:"issue_count"`
	ImageURL   string  `json:"image_url"`
}

// ListPagesEndpoint handles GET /api/sessions/{id}/pages.
type ListPagesEndpoint struct{}

var _ api.Endpoint = (*ListPagesEndpoint)(nil)

func (e *ListPagesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/pages", e.handler
}

func (e *ListPagesEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List pages
//	@Description	Page dimensions and per-page issue counts of a session
//	@Tags			pages
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	ListPagesResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/pages [get]
func (e *ListPagesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.AuditFrom(r.Context())
	rec, err := svc.Session(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	counts := make(map[int]int)
	for _, issue := range rec.Issues {
		if issue.Page != nil {
			counts[*issue.Page-1]++
		}
	}

	pages := make([]PageSummary, 0, rec.PageCount)
	for i, d := range rec.PageDims {
		pages = append(pages, PageSummary{
			Index:      i,
			Width:      d.Width,
			Height:     d.Height,
			IssueCount: counts[i],
			ImageURL:   fmt.Sprintf("/api/sessions/%s/pages/%d/image", rec.ID, i),
		})
	}

	writeJSON(w, http.StatusOK, ListPagesResponse{
		Pages:       pages,
		TotalPages:  rec.PageCount,
		RasterScale: svc.RasterScale(),
	})
}

func (e *ListPagesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "pages <session-id>",
		Short: "List the pages of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListPagesResponse
			if err := client.Get(cmd.Context(), "/api/sessions/"+args[0]+"/pages", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
