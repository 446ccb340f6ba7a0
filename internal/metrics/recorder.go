package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recorder handles recording audit events to SQLite.
type Recorder struct {
	db  *sql.DB
	now func() time.Time
}

// NewRecorder creates a new metrics recorder.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

// Record stores a single metric and returns its id.
func (r *Recorder) Record(ctx context.Context, m Metric) (string, error) {
	if m.Action == "" {
		return "", fmt.Errorf("metric action is required")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			id, session_id, filename, action, success, error_type,
			score, issue_count, page_count, duration_seconds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.SessionID, m.Filename, m.Action, boolInt(m.Success), m.ErrorType,
		m.Score, m.IssueCount, m.PageCount, m.DurationSeconds, m.CreatedAt.UTC().UnixNano())
	if err != nil {
		return "", fmt.Errorf("recording metric: %w", err)
	}
	return m.ID, nil
}

// RecordError records a failed operation.
func (r *Recorder) RecordError(ctx context.Context, sessionID, action, errorType string, duration time.Duration) (string, error) {
	return r.Record(ctx, Metric{
		SessionID:       sessionID,
		Action:          action,
		DurationSeconds: duration.Seconds(),
		Success:         false,
		ErrorType:       errorType,
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
