package audit

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/metrics"
	"github.com/jackzampolin/pdfa11y/internal/pdfdoc"
	"github.com/jackzampolin/pdfa11y/internal/scoring"
	"github.com/jackzampolin/pdfa11y/internal/session"
)

// maxTitleLength bounds titles in characters.
const maxTitleLength = 500

var titlePolicy = bluemonday.StrictPolicy()

// RemediationResult reflects the session after a remediation attempt.
type RemediationResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Issues  []a11y.Issue `json:"issues"`
	Score   int          `json:"score"`
}

// Remediate applies action with value to a session. When the session
// exists the result is always returned; on failure it carries the
// unchanged issues and score alongside the error.
func (s *Service) Remediate(ctx context.Context, id, action, value string) (*RemediationResult, error) {
	fix, err := a11y.ParseFixAction(action)
	if err != nil {
		return s.failed(id, err)
	}
	switch fix {
	case a11y.FixTitle:
		return s.FixTitle(ctx, id, value)
	default:
		return s.FixLanguage(ctx, id, value)
	}
}

// FixTitle sets the document title.
func (s *Service) FixTitle(ctx context.Context, id, title string) (*RemediationResult, error) {
	clean, err := NormalizeTitle(title)
	if err != nil {
		return s.remediationFailed(ctx, id, metrics.ActionFixTitle, time.Now(), err)
	}
	return s.apply(ctx, id, metrics.ActionFixTitle, fmt.Sprintf("Document title set to %q.", clean),
		func(doc *pdfdoc.Document) (*pdfdoc.Document, error) { return doc.WithTitle(clean) })
}

// FixLanguage sets the document language.
func (s *Service) FixLanguage(ctx context.Context, id, tag string) (*RemediationResult, error) {
	canonical, err := NormalizeLanguage(tag)
	if err != nil {
		return s.remediationFailed(ctx, id, metrics.ActionFixLanguage, time.Now(), err)
	}
	return s.apply(ctx, id, metrics.ActionFixLanguage, fmt.Sprintf("Document language set to %q.", canonical),
		func(doc *pdfdoc.Document) (*pdfdoc.Document, error) { return doc.WithLanguage(canonical) })
}

// NormalizeTitle trims title and strips any markup from it.
func NormalizeTitle(title string) (string, error) {
	clean := strings.TrimSpace(title)
	if clean != "" {
		clean = strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(clean)))
	}
	clean = strings.Join(strings.Fields(clean), " ")
	if clean == "" {
		return "", &a11y.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(clean) > maxTitleLength {
		return "", &a11y.ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", maxTitleLength)}
	}
	return clean, nil
}

// NormalizeLanguage validates a BCP 47 tag and returns its canonical form.
func NormalizeLanguage(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", &a11y.ValidationError{Field: "language", Reason: "must not be empty"}
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", &a11y.ValidationError{Field: "language", Reason: fmt.Sprintf("%q is not a valid language tag", tag)}
	}
	if t == language.Und {
		return "", &a11y.ValidationError{Field: "language", Reason: "language is undetermined"}
	}
	return t.String(), nil
}

// apply rewrites the document under the session lock, re-runs the
// analysis and swaps the new record in.
func (s *Service) apply(ctx context.Context, id, action, message string, edit func(*pdfdoc.Document) (*pdfdoc.Document, error)) (*RemediationResult, error) {
	start := time.Now()
	logger := s.logger.With("session_id", id, "action", action)

	next, err := s.store.Mutate(id, func(cur *session.Record) (*session.Record, error) {
		doc, err := edit(cur.Document)
		if err != nil {
			return nil, fmt.Errorf("update document: %w", err)
		}
		snap, err := s.extractor.Snapshot(doc)
		if err != nil {
			return nil, fmt.Errorf("re-analyze document: %w", err)
		}
		issues := s.engine.Load().Run(snap)

		rec := *cur
		rec.Document = doc
		rec.Snapshot = snap
		rec.Issues = issues
		rec.Score = scoring.Score(issues)
		rec.PageCount = snap.PageCount()
		rec.PageDims = snap.PageDims()
		return &rec, nil
	})
	if err != nil {
		logger.Error("remediation failed", "error", err)
		return s.remediationFailed(ctx, id, action, start, err)
	}

	logger.Info("remediation applied", "revision", next.Revision, "issues", len(next.Issues), "score", next.Score)
	s.record(ctx, metrics.Metric{
		SessionID:       id,
		Filename:        next.Filename,
		Action:          action,
		Success:         true,
		Score:           next.Score,
		IssueCount:      len(next.Issues),
		PageCount:       next.PageCount,
		DurationSeconds: time.Since(start).Seconds(),
	})
	return &RemediationResult{
		Success: true,
		Message: message,
		Issues:  nonNil(next.Issues),
		Score:   next.Score,
	}, nil
}

func (s *Service) remediationFailed(ctx context.Context, id, action string, start time.Time, err error) (*RemediationResult, error) {
	s.record(ctx, metrics.Metric{
		SessionID:       id,
		Action:          action,
		DurationSeconds: time.Since(start).Seconds(),
		ErrorType:       ErrorType(err),
	})
	return s.failed(id, err)
}

// Reject reports a remediation request that never reached an action, such
// as a malformed body, with the unchanged state of the session.
func (s *Service) Reject(id string, err error) (*RemediationResult, error) {
	return s.failed(id, err)
}

// failed reports err with the current state of the session, or only err
// when the session is gone.
func (s *Service) failed(id string, err error) (*RemediationResult, error) {
	if errors.Is(err, a11y.ErrNotFound) {
		return nil, err
	}
	rec, gerr := s.store.Get(id)
	if gerr != nil {
		return nil, gerr
	}
	return &RemediationResult{
		Success: false,
		Error:   err.Error(),
		Issues:  nonNil(rec.Issues),
		Score:   rec.Score,
	}, err
}

func nonNil(issues []a11y.Issue) []a11y.Issue {
	if issues == nil {
		return []a11y.Issue{}
	}
	return issues
}
