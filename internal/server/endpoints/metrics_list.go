package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/metrics"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// ListMetricsResponse is the response for listing metrics.
type ListMetricsResponse struct {
	Metrics []metrics.Metric `json:"metrics"`
	Count   int              `json:"count"`
}

// parseMetricsFilter reads the shared metrics query parameters. since
// accepts an RFC 3339 time or a duration such as 24h.
func parseMetricsFilter(q url.Values) (metrics.Filter, error) {
	f := metrics.Filter{
		SessionID: q.Get("session_id"),
		Action:    q.Get("action"),
	}
	if s := q.Get("since"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			f.After = time.Now().Add(-d)
		} else if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.After = t
		} else {
			return f, fmt.Errorf("since must be a duration or RFC 3339 time")
		}
	}
	if s := q.Get("success"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return f, fmt.Errorf("success must be true or false")
		}
		f.Success = &b
	}
	return f, nil
}

// metricsQuery encodes CLI filter flags as query parameters.
func metricsQuery(sessionID, action, since string) string {
	q := url.Values{}
	if sessionID != "" {
		q.Set("session_id", sessionID)
	}
	if action != "" {
		q.Set("action", action)
	}
	if since != "" {
		q.Set("since", since)
	}
	return q.Encode()
}

// ListMetricsEndpoint handles GET /api/metrics.
type ListMetricsEndpoint struct{}

var (
	_ api.Endpoint = (*ListMetricsEndpoint)(nil)
	_ api.Grouped  = (*ListMetricsEndpoint)(nil)
)

func (e *ListMetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics", e.handler
}

func (e *ListMetricsEndpoint) RequiresInit() bool { return true }

func (e *ListMetricsEndpoint) Group() string { return "metrics" }

// handler godoc
//
//	@Summary		List metrics
//	@Description	List audit events with optional filtering
//	@Tags			metrics
//	@Produce		json
//	@Param			session_id	query		string	false	"Filter by session ID"
//	@Param			action		query		string	false	"Filter by action (analyze, fix_title, fix_language)"
//	@Param			since		query		string	false	"Only events after this duration ago or RFC 3339 time"
//	@Param			success		query		bool	false	"Filter by outcome"
//	@Param			limit		query		int		false	"Maximum results (default 100)"
//	@Success		200			{object}	ListMetricsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/metrics [get]
func (e *ListMetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	query := svcctx.MetricsQueryFrom(r.Context())
	if query == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics are disabled")
		return
	}

	f, err := parseMetricsFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	result, err := query.List(r.Context(), f, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		result = []metrics.Metric{}
	}

	writeJSON(w, http.StatusOK, ListMetricsResponse{
		Metrics: result,
		Count:   len(result),
	})
}

func (e *ListMetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var sessionID, action, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit events",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/metrics?" + metricsQuery(sessionID, action, since)
			if limit > 0 {
				path += fmt.Sprintf("&limit=%d", limit)
			}
			var resp ListMetricsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Filter by session ID")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&since, "since", "", "Only events newer than this (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum results")

	return cmd
}
