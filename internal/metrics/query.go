package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Query provides queries for metrics.
type Query struct {
	db *sql.DB
}

// NewQuery creates a new metrics query helper.
func NewQuery(db *sql.DB) *Query {
	return &Query{db: db}
}

// Filter specifies query filters.
type Filter struct {
	SessionID string
	Action    string
	After     time.Time
	Before    time.Time
	Success   *bool // nil = any, true = success only, false = errors only
}

// whereClause builds a parameterized WHERE clause from a Filter.
func whereClause(f Filter) (string, []any) {
	var (
		parts []string
		args  []any
	)
	if f.SessionID != "" {
		parts = append(parts, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.Action != "" {
		parts = append(parts, "action = ?")
		args = append(args, f.Action)
	}
	if !f.After.IsZero() {
		parts = append(parts, "created_at > ?")
		args = append(args, f.After.UTC().UnixNano())
	}
	if !f.Before.IsZero() {
		parts = append(parts, "created_at < ?")
		args = append(args, f.Before.UTC().UnixNano())
	}
	if f.Success != nil {
		parts = append(parts, "success = ?")
		args = append(args, boolInt(*f.Success))
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// List returns metrics matching the filter, newest first. limit <= 0
// means no limit.
func (q *Query) List(ctx context.Context, f Filter, limit int) ([]Metric, error) {
	where, args := whereClause(f)
	query := `SELECT id, session_id, filename, action, success, error_type,
		score, issue_count, page_count, duration_seconds, created_at
		FROM audit_events` + where + ` ORDER BY created_at DESC, id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	var metrics []Metric
	for rows.Next() {
		var (
			m       Metric
			success int
			created int64
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Filename, &m.Action, &success, &m.ErrorType,
			&m.Score, &m.IssueCount, &m.PageCount, &m.DurationSeconds, &created); err != nil {
			return nil, fmt.Errorf("scanning metric: %w", err)
		}
		m.Success = success != 0
		m.CreatedAt = time.Unix(0, created).UTC()
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// SessionHistory returns every event for a session, newest first.
func (q *Query) SessionHistory(ctx context.Context, sessionID string) ([]Metric, error) {
	return q.List(ctx, Filter{SessionID: sessionID}, 0)
}
