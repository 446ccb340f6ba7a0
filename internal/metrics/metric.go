// Package metrics records the outcome of every analysis and remediation
// attempt and answers summary queries over that history.
package metrics

import "time"

// Actions recorded by the audit service.
const (
	ActionAnalyze     = "analyze"
	ActionFixTitle    = "fix_title"
	ActionFixLanguage = "fix_language"
)

// Metric is one audit event. Events are append-only.
type Metric struct {
	ID string `json:"id,omitempty"`

	// Attribution
	SessionID string `json:"session_id,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Action    string `json:"action"`

	// Result of the attempt; zero when it failed before scoring.
	Score      int `json:"score"`
	IssueCount int `json:"issue_count"`
	PageCount  int `json:"page_count"`

	DurationSeconds float64 `json:"duration_seconds"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"` // parse, validation, not_found, render, internal

	CreatedAt time.Time `json:"created_at"`
}
