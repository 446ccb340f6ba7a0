// Package audit runs the analysis pipeline over uploaded documents and
// applies automatic remediations to live sessions.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/coords"
	"github.com/jackzampolin/pdfa11y/internal/extract"
	"github.com/jackzampolin/pdfa11y/internal/metrics"
	"github.com/jackzampolin/pdfa11y/internal/render"
	"github.com/jackzampolin/pdfa11y/internal/rules"
	"github.com/jackzampolin/pdfa11y/internal/scoring"
	"github.com/jackzampolin/pdfa11y/internal/session"
)

// DefaultRasterScale renders pages at 108 DPI.
const DefaultRasterScale = 1.5

// Recorder receives one metric per analysis or remediation attempt.
// *metrics.Recorder satisfies it.
type Recorder interface {
	Record(ctx context.Context, m metrics.Metric) (string, error)
}

// Config holds the collaborators of a Service. Only Store is required
// when pages are never rendered.
type Config struct {
	Store      *session.Store
	Extractor  *extract.Extractor
	Severities rules.SeverityTable
	Rasterizer render.Rasterizer
	// RasterScale converts points to raster pixels (default 1.5).
	RasterScale float64
	// Recorder is optional.
	Recorder Recorder
	Logger   *slog.Logger
}

// Service is the audit engine behind both the HTTP server and the CLI.
type Service struct {
	store       *session.Store
	extractor   *extract.Extractor
	engine      atomic.Pointer[rules.Engine]
	rasterizer  render.Rasterizer
	rasterScale float64
	recorder    Recorder
	logger      *slog.Logger
}

// New creates a Service from cfg.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Store == nil {
		cfg.Store = session.NewStore(nil)
	}
	if cfg.Extractor == nil {
		cfg.Extractor = extract.New(cfg.Logger)
	}
	if cfg.RasterScale == 0 {
		cfg.RasterScale = DefaultRasterScale
	}
	if _, err := coords.New(cfg.RasterScale, 1); err != nil {
		return nil, fmt.Errorf("invalid raster scale: %w", err)
	}

	s := &Service{
		store:       cfg.Store,
		extractor:   cfg.Extractor,
		rasterizer:  cfg.Rasterizer,
		rasterScale: cfg.RasterScale,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
	}
	s.engine.Store(rules.NewEngine(cfg.Severities))
	return s, nil
}

// SetSeverities swaps the severity table used by later analyses.
// Existing sessions keep their issues until they are remediated.
func (s *Service) SetSeverities(t rules.SeverityTable) {
	s.engine.Store(rules.NewEngine(t))
}

// Severities returns the table currently in use.
func (s *Service) Severities() rules.SeverityTable {
	return s.engine.Load().Severities()
}

// RasterScale returns the points-to-pixels factor of rendered pages.
func (s *Service) RasterScale() float64 { return s.rasterScale }

// Store returns the session store.
func (s *Service) Store() *session.Store { return s.store }

// Ready reports whether pages can be rendered.
func (s *Service) Ready() error {
	if s.rasterizer == nil {
		return errors.New("no rasterizer configured")
	}
	return s.rasterizer.Available()
}

// Evaluate runs extraction, the rule engine and scoring without creating
// a session.
func (s *Service) Evaluate(data []byte) (*session.Record, error) {
	if len(data) == 0 {
		return nil, &a11y.ValidationError{Field: "file", Reason: "document is empty"}
	}
	snap, doc, err := s.extractor.Extract(data)
	if err != nil {
		return nil, err
	}
	issues := s.engine.Load().Run(snap)
	return &session.Record{
		Document:  doc,
		Snapshot:  snap,
		Issues:    issues,
		Score:     scoring.Score(issues),
		PageCount: snap.PageCount(),
		PageDims:  snap.PageDims(),
	}, nil
}

// Analyze evaluates data and stores the result as a new session. On
// failure no session is created.
func (s *Service) Analyze(ctx context.Context, filename string, data []byte) (*session.Record, error) {
	start := time.Now()
	filename = cleanFilename(filename)

	rec, err := s.Evaluate(data)
	if err != nil {
		s.logger.Warn("analysis failed", "filename", filename, "size", len(data), "error", err)
		s.record(ctx, metrics.Metric{
			Filename:        filename,
			Action:          metrics.ActionAnalyze,
			DurationSeconds: time.Since(start).Seconds(),
			ErrorType:       ErrorType(err),
		})
		return nil, err
	}
	rec.Filename = filename
	created := s.store.Create(*rec)

	s.logger.Info("document analyzed",
		"session_id", created.ID,
		"filename", filename,
		"pages", created.PageCount,
		"issues", len(created.Issues),
		"score", created.Score,
		"duration", time.Since(start))
	s.record(ctx, metrics.Metric{
		SessionID:       created.ID,
		Filename:        filename,
		Action:          metrics.ActionAnalyze,
		Success:         true,
		Score:           created.Score,
		IssueCount:      len(created.Issues),
		PageCount:       created.PageCount,
		DurationSeconds: time.Since(start).Seconds(),
	})
	return created, nil
}

// Session returns the current record of a session.
func (s *Service) Session(id string) (*session.Record, error) {
	return s.store.Get(id)
}

// RenderPage rasterizes a page of the session's current document.
// pageIndex is 0-based.
func (s *Service) RenderPage(ctx context.Context, id string, pageIndex int) ([]byte, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if pageIndex < 0 || pageIndex >= rec.PageCount {
		return nil, &a11y.RenderError{PageIndex: pageIndex, PageCount: rec.PageCount}
	}
	if s.rasterizer == nil {
		return nil, &a11y.RenderError{PageIndex: pageIndex, PageCount: rec.PageCount, Err: errors.New("no rasterizer configured")}
	}

	png, err := s.rasterizer.Render(ctx, rec.Document.Bytes(), pageIndex, coords.DPIForScale(s.rasterScale))
	if err != nil {
		s.logger.Error("page render failed", "session_id", id, "page", pageIndex, "error", err)
		return nil, &a11y.RenderError{PageIndex: pageIndex, PageCount: rec.PageCount, Err: err}
	}
	return png, nil
}

// Download returns the current document bytes and the name to save them
// under.
func (s *Service) Download(id string) (string, []byte, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		return "", nil, err
	}
	return DownloadName(rec.Filename), rec.Document.Bytes(), nil
}

// DownloadName is the file name offered for a session's document.
func DownloadName(filename string) string {
	return "remediated_" + cleanFilename(filename)
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return "document.pdf"
	}
	return name
}

func (s *Service) record(ctx context.Context, m metrics.Metric) {
	if s.recorder == nil {
		return
	}
	if _, err := s.recorder.Record(ctx, m); err != nil {
		s.logger.Warn("failed to record metric", "action", m.Action, "error", err)
	}
}

// ErrorType classifies err for metrics.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, a11y.ErrParse):
		return "parse"
	case errors.Is(err, a11y.ErrValidation):
		return "validation"
	case errors.Is(err, a11y.ErrNotFound):
		return "not_found"
	case errors.Is(err, a11y.ErrRender):
		return "render"
	default:
		return "internal"
	}
}
