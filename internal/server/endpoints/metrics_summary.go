package endpoints

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/metrics"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// MetricsSummaryEndpoint handles GET /api/metrics/summary.
type MetricsSummaryEndpoint struct{}

var (
	_ api.Endpoint = (*MetricsSummaryEndpoint)(nil)
	_ api.Grouped  = (*MetricsSummaryEndpoint)(nil)
)

func (e *MetricsSummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/summary", e.handler
}

func (e *MetricsSummaryEndpoint) RequiresInit() bool { return true }

func (e *MetricsSummaryEndpoint) Group() string { return "metrics" }

// handler godoc
//
//	@Summary		Metrics summary
//	@Description	Counts, average score and latency percentiles of audit events
//	@Tags			metrics
//	@Produce		json
//	@Param			session_id	query		string	false	"Filter by session ID"
//	@Param			action		query		string	false	"Filter by action"
//	@Param			since		query		string	false	"Only events after this duration ago or RFC 3339 time"
//	@Success		200			{object}	metrics.Summary
//	@Failure		400			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/metrics/summary [get]
func (e *MetricsSummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	summary, err := query.GetSummary(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (e *MetricsSummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var sessionID, action, since string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize audit events",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp metrics.Summary
			if err := client.Get(cmd.Context(), "/api/metrics/summary?"+metricsQuery(sessionID, action, since), &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatJSON {
				return api.Output(resp)
			}

			fmt.Printf("Metrics Summary\n")
			fmt.Printf("===============\n")
			fmt.Printf("  Count:       %d\n", resp.Count)
			fmt.Printf("  Success:     %d\n", resp.SuccessCount)
			fmt.Printf("  Errors:      %d\n", resp.ErrorCount)
			fmt.Println()
			fmt.Printf("  Avg Score:   %.1f\n", resp.AvgScore)
			fmt.Printf("  Avg Issues:  %.1f\n", resp.AvgIssueCount)
			fmt.Println()
			fmt.Printf("  Latency avg: %.3fs  p50: %.3fs  p95: %.3fs  max: %.3fs\n",
				resp.LatencyAvg, resp.LatencyP50, resp.LatencyP95, resp.LatencyMax)

			printCounts("By action", resp.ByAction)
			printCounts("By error type", resp.ByErrorType)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Filter by session ID")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&since, "since", "", "Only events newer than this (e.g. 24h)")

	return cmd
}

func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println()
	fmt.Printf("  %s:\n", title)
	for _, k := range keys {
		fmt.Printf("    %-14s %d\n", k, counts[k])
	}
}
