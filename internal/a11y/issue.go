package a11y

import (
	"fmt"
	"strings"
)

// Severity ranks an issue. The zero value is invalid.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor}

// Rank orders severities: critical 4 > serious 3 > moderate 2 > minor 1.
// Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeveritySerious:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	}
	return 0
}

func (s Severity) Valid() bool { return s.Rank() > 0 }

// ParseSeverity accepts any casing of the four severity names.
func ParseSeverity(v string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", v)
	}
	return s, nil
}

// FixAction names an automatic remediation.
type FixAction string

const (
	FixTitle    FixAction = "fix_title"
	FixLanguage FixAction = "fix_language"
)

// ParseFixAction validates an action name.
func ParseFixAction(v string) (FixAction, error) {
	switch a := FixAction(v); a {
	case FixTitle, FixLanguage:
		return a, nil
	}
	return "", &ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action %q", v)}
}

// Issue is one finding of a compliance check.
type Issue struct {
	ID               string    `json:"issue_id"`
	Criterion        Criterion `json:"criterion_id"`
	WCAG             string    `json:"wcag"`
	WCAGTitle        string    `json:"wcag_title"`
	Level            string    `json:"level"`
	Severity         Severity  `json:"severity"`
	Page             *int      `json:"page,omitempty"`
	Rect             *Rect     `json:"rect,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	RemediationSteps string    `json:"remediation_steps"`
	ReferenceLink    string    `json:"reference_link"`
	Fixable          bool      `json:"fixable"`
	FixAction        FixAction `json:"fix_action,omitempty"`
}

// DocumentLevel reports whether the issue is not tied to a page.
func (i Issue) DocumentLevel() bool { return i.Page == nil }
