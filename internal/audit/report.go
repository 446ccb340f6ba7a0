package audit

import (
	"fmt"
	"time"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/coords"
	"github.com/jackzampolin/pdfa11y/internal/scoring"
	"github.com/jackzampolin/pdfa11y/internal/session"
)

// Report is the data a report page is rendered from.
type Report struct {
	SessionID  string          `json:"sessionId"`
	Filename   string          `json:"filename"`
	PageCount  int             `json:"pageCount"`
	PageDims   []a11y.Dims     `json:"pageDims"`
	Issues     []a11y.Issue    `json:"issues"`
	Score      int             `json:"score"`
	Summary    scoring.Summary `json:"summary"`
	Title      string          `json:"title"`
	Language   string          `json:"language"`
	Tagged     bool            `json:"tagged"`
	Revision   int             `json:"revision"`
	CreatedAt  time.Time       `json:"createdAt"`
	Remediated bool            `json:"remediated"`
}

// Report returns the report data of a session.
func (s *Service) Report(id string) (*Report, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return NewReport(rec), nil
}

// NewReport builds report data from a record.
func NewReport(rec *session.Record) *Report {
	issues := rec.Issues
	if issues == nil {
		issues = []a11y.Issue{}
	}
	r := &Report{
		SessionID:  rec.ID,
		Filename:   rec.Filename,
		PageCount:  rec.PageCount,
		PageDims:   rec.PageDims,
		Issues:     issues,
		Score:      rec.Score,
		Summary:    scoring.Summarize(issues),
		Revision:   rec.Revision,
		CreatedAt:  rec.CreatedAt,
		Remediated: rec.Remediated(),
	}
	if rec.Snapshot != nil {
		r.Title = rec.Snapshot.Title
		r.Language = rec.Snapshot.Language
		r.Tagged = rec.Snapshot.Tagged
	}
	return r
}

// Overlay places an issue on a displayed page image.
type Overlay struct {
	IssueID      string            `json:"issue_id"`
	Page         int               `json:"page"` // 0-based
	Rect         *coords.PixelRect `json:"rect,omitempty"`
	RasterScale  float64           `json:"raster_scale"`
	DisplayScale float64           `json:"display_scale"`
	Raster       coords.Size       `json:"raster"`
	Display      coords.Size       `json:"display"`
}

// Overlay maps the rect of issueID onto a page image shown at
// displayScale. Document-level issues fail with a ValidationError.
func (s *Service) Overlay(id, issueID string, displayScale float64) (*Overlay, error) {
	mapper, err := coords.New(s.rasterScale, displayScale)
	if err != nil {
		return nil, &a11y.ValidationError{Field: "display_scale", Reason: err.Error()}
	}
	rec, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	issue, ok := rec.Issue(issueID)
	if !ok {
		return nil, &a11y.ValidationError{Field: "issue_id", Reason: fmt.Sprintf("no issue %q in session", issueID)}
	}
	if issue.Page == nil {
		return nil, &a11y.ValidationError{Field: "issue_id", Reason: "issue applies to the whole document"}
	}
	index := *issue.Page - 1
	if index < 0 || index >= len(rec.PageDims) {
		return nil, &a11y.ValidationError{Field: "issue_id", Reason: "issue page is outside the document"}
	}

	dims := rec.PageDims[index]
	o := &Overlay{
		IssueID:      issue.ID,
		Page:         index,
		RasterScale:  mapper.RasterScale,
		DisplayScale: mapper.DisplayScale,
		Raster:       mapper.RasterSize(dims),
		Display:      mapper.DisplaySize(dims),
	}
	if issue.Rect != nil {
		r := mapper.Map(*issue.Rect, dims)
		o.Rect = &r
	}
	return o, nil
}
