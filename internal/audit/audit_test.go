package audit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/metrics"
	"github.com/jackzampolin/pdfa11y/internal/pdftest"
	"github.com/jackzampolin/pdfa11y/internal/rules"
)

type renderCall struct {
	pageIndex, dpi int
}

type fakeRasterizer struct {
	mu    sync.Mutex
	calls []renderCall
	err   error
}

func (f *fakeRasterizer) Render(_ context.Context, pdf []byte, pageIndex, dpi int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, renderCall{pageIndex, dpi})
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG fake"), nil
}

func (f *fakeRasterizer) Available() error { return nil }

type fakeRecorder struct {
	mu      sync.Mutex
	metrics []metrics.Metric
}

func (f *fakeRecorder) Record(_ context.Context, m metrics.Metric) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metrics = append(f.metrics, m)
	return "m", nil
}

func (f *fakeRecorder) last() metrics.Metric {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metrics[len(f.metrics)-1]
}

type fixture struct {
	svc      *Service
	raster   *fakeRasterizer
	recorder *fakeRecorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{raster: &fakeRasterizer{}, recorder: &fakeRecorder{}}
	svc, err := New(Config{Rasterizer: f.raster, Recorder: f.recorder})
	require.NoError(t, err)
	f.svc = svc
	return f
}

// scenarioA is tagged, one page, and has neither title nor language.
func scenarioA() []byte {
	return pdftest.Doc{Tagged: true}.Bytes()
}

func criteria(issues []a11y.Issue) []a11y.Criterion {
	var out []a11y.Criterion
	for _, is := range issues {
		out = append(out, is.Criterion)
	}
	return out
}

func TestNew_RejectsBadRasterScale(t *testing.T) {
	_, err := New(Config{RasterScale: -1})
	assert.Error(t, err)
}

func TestAnalyze_ScenarioA(t *testing.T) {
	f := newFixture(t)
	rec, err := f.svc.Analyze(context.Background(), "report.pdf", scenarioA())
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 76, rec.Score)
	assert.Equal(t, []a11y.Criterion{a11y.PageTitled, a11y.LanguageOfPage}, criteria(rec.Issues))
	assert.Equal(t, 1, rec.PageCount)
	assert.Equal(t, 1, f.svc.Store().Len())

	m := f.recorder.last()
	assert.Equal(t, metrics.ActionAnalyze, m.Action)
	assert.True(t, m.Success)
	assert.Equal(t, rec.ID, m.SessionID)
	assert.Equal(t, 76, m.Score)
}

func TestAnalyze_ScenarioB(t *testing.T) {
	f := newFixture(t)
	data := pdftest.Doc{
		Title: "Quarterly Report",
		Lang:  "en-US",
		Pages: []pdftest.Page{
			{
				Images:  map[string]pdftest.Image{"Im1": {Width: 100, Height: 80}},
				Content: "q 200 0 0 150 100 500 cm /Im1 Do Q",
			},
			{},
			{},
		},
	}.Bytes()

	rec, err := f.svc.Analyze(context.Background(), "b.pdf", data)
	require.NoError(t, err)
	assert.Equal(t, 62, rec.Score)
	assert.ElementsMatch(t,
		[]a11y.Criterion{a11y.NonTextContent, a11y.InfoAndRelationships, a11y.MultipleWays},
		criteria(rec.Issues))
}

func TestAnalyze_ParseErrorCreatesNoSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Analyze(context.Background(), "bad.pdf", []byte("not a pdf at all"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, a11y.ErrParse))
	assert.Zero(t, f.svc.Store().Len())

	m := f.recorder.last()
	assert.False(t, m.Success)
	assert.Equal(t, "parse", m.ErrorType)
}

func TestAnalyze_EmptyUpload(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Analyze(context.Background(), "empty.pdf", nil)
	assert.True(t, errors.Is(err, a11y.ErrValidation))
	assert.Zero(t, f.svc.Store().Len())
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	rec, err := f.svc.Analyze(context.Background(), "report.pdf", scenarioA())
	require.NoError(t, err)

	r, err := f.svc.Report(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, r.SessionID)
	assert.Equal(t, 1, r.PageCount)
	assert.Equal(t, []a11y.Dims{{Width: 612, Height: 792}}, r.PageDims)
	assert.Equal(t, 76, r.Score)
	assert.Equal(t, 76, r.Summary.Score)
	assert.Equal(t, 2, r.Summary.Total)
	assert.True(t, r.Tagged)
	assert.False(t, r.Remediated)

	_, err = f.svc.Report("missing")
	assert.True(t, errors.Is(err, a11y.ErrNotFound))
}

func TestFixTitle_ScenarioC(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	res, err := f.svc.Remediate(ctx, rec.ID, "fix_title", "2024 Annual Accessibility Report")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, 88, res.Score)
	assert.Equal(t, []a11y.Criterion{a11y.LanguageOfPage}, criteria(res.Issues))

	r, err := f.svc.Report(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024 Annual Accessibility Report", r.Title)
	assert.Equal(t, 1, r.Revision)
	assert.True(t, r.Remediated)

	m := f.recorder.last()
	assert.Equal(t, metrics.ActionFixTitle, m.Action)
	assert.True(t, m.Success)
	assert.Equal(t, 88, m.Score)
}

func TestFixTitle_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	first, err := f.svc.FixTitle(ctx, rec.ID, "Annual Report")
	require.NoError(t, err)
	second, err := f.svc.FixTitle(ctx, rec.ID, "Annual Report")
	require.NoError(t, err)
	assert.Equal(t, first.Issues, second.Issues)
	assert.Equal(t, first.Score, second.Score)
}

func TestFixLanguage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	res, err := f.svc.FixLanguage(ctx, rec.ID, " en-us ")
	require.NoError(t, err)
	assert.Equal(t, 88, res.Score)
	assert.Equal(t, []a11y.Criterion{a11y.PageTitled}, criteria(res.Issues))

	r, _ := f.svc.Report(rec.ID)
	assert.Equal(t, "en-US", r.Language)

	res, err = f.svc.FixTitle(ctx, rec.ID, "Annual Report")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Empty(t, res.Issues)
	assert.NotNil(t, res.Issues)
}

func TestFixLanguage_ScenarioD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	res, err := f.svc.Remediate(ctx, rec.ID, "fix_language", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, a11y.ErrValidation))
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, 76, res.Score)

	after, err := f.svc.Session(rec.ID)
	require.NoError(t, err)
	assert.Same(t, rec, after, "session unchanged")

	m := f.recorder.last()
	assert.Equal(t, "validation", m.ErrorType)
}

func TestRemediate_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	tests := []struct {
		name, action, value string
	}{
		{"blank title", "fix_title", "   "},
		{"markup only title", "fix_title", "<b></b>"},
		{"long title", "fix_title", strings.Repeat("x", maxTitleLength+1)},
		{"malformed tag", "fix_language", "not a tag!"},
		{"undetermined tag", "fix_language", "und"},
		{"unknown action", "fix_everything", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.Remediate(ctx, rec.ID, tt.action, tt.value)
			assert.True(t, errors.Is(err, a11y.ErrValidation), "got %v", err)
			require.NotNil(t, res)
			assert.Equal(t, 76, res.Score)
		})
	}

	cur, _ := f.svc.Session(rec.ID)
	assert.Zero(t, cur.Revision)
}

func TestRemediate_NotFound(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Remediate(context.Background(), "missing", "fix_title", "Report")
	assert.True(t, errors.Is(err, a11y.ErrNotFound))
	assert.Nil(t, res)

	res, err = f.svc.Remediate(context.Background(), "missing", "fix_title", "")
	assert.True(t, errors.Is(err, a11y.ErrNotFound))
	assert.Nil(t, res)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	bad := &a11y.ValidationError{Field: "body", Reason: "unexpected end of JSON input"}
	res, err := f.svc.Reject(rec.ID, bad)
	assert.Same(t, bad, err)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unexpected end of JSON input")
	assert.Equal(t, 76, res.Score)
	assert.Len(t, res.Issues, 2)

	res, err = f.svc.Reject("missing", bad)
	assert.True(t, errors.Is(err, a11y.ErrNotFound))
	assert.Nil(t, res)
}

func TestRemediate_ConcurrentFixesSerialize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	titles := []string{"One", "Two", "Three", "Four", "Five", "Six"}
	var wg sync.WaitGroup
	for _, title := range titles {
		wg.Add(1)
		go func(title string) {
			defer wg.Done()
			_, err := f.svc.FixTitle(ctx, rec.ID, title)
			assert.NoError(t, err)
		}(title)
	}
	wg.Wait()

	r, err := f.svc.Report(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, len(titles), r.Revision)
	assert.Contains(t, titles, r.Title)
	assert.Equal(t, 88, r.Score)
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Annual Report  ", "Annual Report"},
		{"<b>Annual</b> Report", "Annual Report"},
		{"Q&A Session", "Q&A Session"},
		{"Line\nbreak", "Line break"},
	}
	for _, tt := range tests {
		got, err := NormalizeTitle(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"en", "en"},
		{"EN-us", "en-US"},
		{"fr-CA", "fr-CA"},
		{"zh-Hant-TW", "zh-Hant-TW"},
	}
	for _, tt := range tests {
		got, err := NormalizeLanguage(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRenderPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", pdftest.Doc{Pages: []pdftest.Page{{}, {}}}.Bytes())
	require.NoError(t, err)

	png, err := f.svc.RenderPage(ctx, rec.ID, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	assert.Equal(t, []renderCall{{pageIndex: 1, dpi: 108}}, f.raster.calls)
}

func TestRenderPage_ScenarioE(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	for _, idx := range []int{rec.PageCount, -1} {
		_, err = f.svc.RenderPage(ctx, rec.ID, idx)
		require.Error(t, err)
		var rerr *a11y.RenderError
		require.True(t, errors.As(err, &rerr))
		assert.True(t, rerr.OutOfRange())
	}
	assert.Empty(t, f.raster.calls, "rasterizer not invoked")

	after, _ := f.svc.Session(rec.ID)
	assert.Same(t, rec, after)
}

func TestRenderPage_RasterizerFailure(t *testing.T) {
	f := newFixture(t)
	f.raster.err = errors.New("pdftoppm exploded")
	ctx := context.Background()
	rec, err := f.svc.Analyze(ctx, "report.pdf", scenarioA())
	require.NoError(t, err)

	_, err = f.svc.RenderPage(ctx, rec.ID, 0)
	var rerr *a11y.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.False(t, rerr.OutOfRange())
}

func TestRenderPage_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RenderPage(context.Background(), "missing", 0)
	assert.True(t, errors.Is(err, a11y.ErrNotFound))
}

func TestDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	data := scenarioA()
	rec, err := f.svc.Analyze(ctx, "dir/report.pdf", data)
	require.NoError(t, err)

	name, body, err := f.svc.Download(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "remediated_report.pdf", name)
	assert.Equal(t, data, body)

	_, err = f.svc.FixTitle(ctx, rec.ID, "Annual Report")
	require.NoError(t, err)
	_, body, err = f.svc.Download(rec.ID)
	require.NoError(t, err)
	assert.NotEqual(t, data, body)

	// The downloaded bytes carry the fix.
	again, err := f.svc.Evaluate(body)
	require.NoError(t, err)
	assert.Equal(t, 88, again.Score)
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "remediated_a.pdf", DownloadName("a.pdf"))
	assert.Equal(t, "remediated_b.pdf", DownloadName(`C:\docs\b.pdf`))
	assert.Equal(t, "remediated_document.pdf", DownloadName(""))
}

func TestOverlay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	data := pdftest.Doc{
		Title: "Report",
		Lang:  "en",
		Pages: []pdftest.Page{{
			Images:  map[string]pdftest.Image{"Im1": {Width: 100, Height: 80}},
			Content: "q 200 0 0 150 100 500 cm /Im1 Do Q",
		}},
	}.Bytes()
	rec, err := f.svc.Analyze(ctx, "img.pdf", data)
	require.NoError(t, err)

	var imageIssue, docIssue string
	for _, is := range rec.Issues {
		switch is.Criterion {
		case a11y.NonTextContent:
			imageIssue = is.ID
		case a11y.InfoAndRelationships:
			docIssue = is.ID
		}
	}
	require.NotEmpty(t, imageIssue)
	require.NotEmpty(t, docIssue)

	o, err := f.svc.Overlay(rec.ID, imageIssue, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, o.Page)
	require.NotNil(t, o.Rect)
	// Image rect {100,142,300,292} scaled by 1.5 × 2.
	assert.InDelta(t, 300, o.Rect.X0, 1e-9)
	assert.InDelta(t, 426, o.Rect.Y0, 1e-9)
	assert.InDelta(t, 900, o.Rect.X1, 1e-9)
	assert.InDelta(t, 876, o.Rect.Y1, 1e-9)
	assert.Equal(t, 918, o.Raster.Width)
	assert.Equal(t, 1836, o.Display.Width)

	_, err = f.svc.Overlay(rec.ID, docIssue, 1)
	assert.True(t, errors.Is(err, a11y.ErrValidation))
	_, err = f.svc.Overlay(rec.ID, "issue-9999", 1)
	assert.True(t, errors.Is(err, a11y.ErrValidation))
	_, err = f.svc.Overlay(rec.ID, imageIssue, 0)
	assert.True(t, errors.Is(err, a11y.ErrValidation))
	_, err = f.svc.Overlay("missing", imageIssue, 1)
	assert.True(t, errors.Is(err, a11y.ErrNotFound))
}

func TestSetSeverities(t *testing.T) {
	f := newFixture(t)
	table, err := rules.DefaultSeverities().WithOverrides(map[string]string{"5": "minor"})
	require.NoError(t, err)
	f.svc.SetSeverities(table)
	assert.Equal(t, a11y.SeverityMinor, f.svc.Severities().Of(a11y.PageTitled))

	rec, err := f.svc.Analyze(context.Background(), "report.pdf", scenarioA())
	require.NoError(t, err)
	assert.Equal(t, 100-2-12, rec.Score)
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "", ErrorType(nil))
	assert.Equal(t, "parse", ErrorType(&a11y.ParseError{}))
	assert.Equal(t, "validation", ErrorType(&a11y.ValidationError{}))
	assert.Equal(t, "not_found", ErrorType(&a11y.NotFoundError{}))
	assert.Equal(t, "render", ErrorType(&a11y.RenderError{}))
	assert.Equal(t, "internal", ErrorType(errors.New("x")))
}
