package metrics

import (
	"context"
	"sort"
)

// Summary aggregates audit events matching a filter.
type Summary struct {
	Count        int `json:"count"`
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`

	// Score and issue averages over successful events only.
	AvgScore      float64 `json:"avg_score"`
	AvgIssueCount float64 `json:"avg_issue_count"`

	// Latency (seconds)
	LatencyAvg float64 `json:"latency_avg"`
	LatencyP50 float64 `json:"latency_p50"`
	LatencyP95 float64 `json:"latency_p95"`
	LatencyMax float64 `json:"latency_max"`

	ByAction    map[string]int `json:"by_action"`
	ByErrorType map[string]int `json:"by_error_type,omitempty"`
}

// GetSummary returns a summary of metrics matching the filter.
func (q *Query) GetSummary(ctx context.Context, f Filter) (*Summary, error) {
	metrics, err := q.List(ctx, f, 0)
	if err != nil {
		return nil, err
	}
	return Summarize(metrics), nil
}

// Summarize aggregates an already loaded event list.
func Summarize(metrics []Metric) *Summary {
	s := &Summary{
		Count:    len(metrics),
		ByAction: make(map[string]int),
	}
	var (
		latencies []float64
		scoreSum  int
		issueSum  int
	)
	for _, m := range metrics {
		s.ByAction[m.Action]++
		if m.Success {
			s.SuccessCount++
			scoreSum += m.Score
			issueSum += m.IssueCount
		} else {
			s.ErrorCount++
			if m.ErrorType != "" {
				if s.ByErrorType == nil {
					s.ByErrorType = make(map[string]int)
				}
				s.ByErrorType[m.ErrorType]++
			}
		}
		if m.DurationSeconds > 0 {
			latencies = append(latencies, m.DurationSeconds)
		}
	}

	if s.SuccessCount > 0 {
		s.AvgScore = float64(scoreSum) / float64(s.SuccessCount)
		s.AvgIssueCount = float64(issueSum) / float64(s.SuccessCount)
	}
	if len(latencies) > 0 {
		sort.Float64s(latencies)
		var sum float64
		for _, l := range latencies {
			sum += l
		}
		s.LatencyAvg = sum / float64(len(latencies))
		s.LatencyP50 = percentile(latencies, 50)
		s.LatencyP95 = percentile(latencies, 95)
		s.LatencyMax = latencies[len(latencies)-1]
	}
	return s
}

// percentile calculates the p-th percentile from a sorted slice of values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	n := float64(len(sorted))
	idx := (p / 100.0) * (n - 1)

	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	// Linear interpolation
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
