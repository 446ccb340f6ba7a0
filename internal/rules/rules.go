// Package rules evaluates the ten WCAG checks over a structure snapshot.
//
// Each check is a descriptor in a fixed table. Checks are pure and total:
// they only read the snapshot and fold every kind of absence into findings.
// Severity, WCAG metadata and issue identifiers are attached by the Engine,
// never by a check.
package rules

import (
	"fmt"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

// Finding is a check result before the engine turns it into an Issue.
// Page is 1-based; zero means document level.
type Finding struct {
	Page        int
	Rect        *a11y.Rect
	Title       string
	Description string
	// Remediation replaces the catalog guidance when set.
	Remediation string
}

// Check is one row of the rule table.
type Check struct {
	Criterion a11y.Criterion
	Evaluate  func(s *a11y.Snapshot) []Finding
}

// Checks returns the rule table ordered by criterion id.
func Checks() []Check {
	return []Check{
		{Criterion: a11y.NonTextContent, Evaluate: checkImageAltText},
		{Criterion: a11y.InfoAndRelationships, Evaluate: checkTagged},
		{Criterion: a11y.MeaningfulSequence, Evaluate: checkTabOrder},
		{Criterion: a11y.ContrastMinimum, Evaluate: checkContrast},
		{Criterion: a11y.PageTitled, Evaluate: checkTitle},
		{Criterion: a11y.LinkPurpose, Evaluate: checkLinkText},
		{Criterion: a11y.MultipleWays, Evaluate: checkBookmarks},
		{Criterion: a11y.HeadingsAndLabels, Evaluate: checkHeadings},
		{Criterion: a11y.LanguageOfPage, Evaluate: checkLanguage},
		{Criterion: a11y.NameRoleValue, Evaluate: checkFormFieldNames},
	}
}

// Engine runs the rule table with a severity table.
type Engine struct {
	checks     []Check
	severities SeverityTable
}

// NewEngine returns an engine over the default checks. A nil table means
// DefaultSeverities.
func NewEngine(severities SeverityTable) *Engine {
	if severities == nil {
		severities = DefaultSeverities()
	}
	return &Engine{checks: Checks(), severities: severities}
}

// Severities returns the table the engine assigns from.
func (e *Engine) Severities() SeverityTable { return e.severities }

// Run evaluates every check and returns the issues in criterion order.
// Identifiers are issue-0001, issue-0002, ... in that order, so the same
// snapshot always yields the same issue list.
func (e *Engine) Run(s *a11y.Snapshot) []a11y.Issue {
	if s == nil {
		s = &a11y.Snapshot{}
	}
	var issues []a11y.Issue
	for _, check := range e.checks {
		info := check.Criterion.Info()
		for _, f := range check.Evaluate(s) {
			issue := a11y.Issue{
				ID:               fmt.Sprintf("issue-%04d", len(issues)+1),
				Criterion:        check.Criterion,
				WCAG:             info.WCAG,
				WCAGTitle:        info.Title,
				Level:            info.Level,
				Severity:         e.severities.Of(check.Criterion),
				Rect:             f.Rect,
				Title:            f.Title,
				Description:      f.Description,
				RemediationSteps: info.Remediation,
				ReferenceLink:    info.HelpURL,
				Fixable:          info.FixAction != "",
				FixAction:        info.FixAction,
			}
			if f.Page > 0 {
				page := f.Page
				issue.Page = &page
			}
			if f.Remediation != "" {
				issue.RemediationSteps = f.Remediation
			}
			issues = append(issues, issue)
		}
	}
	return issues
}
