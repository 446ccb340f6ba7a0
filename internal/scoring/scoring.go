// Package scoring derives the 0-100 compliance score from an issue set.
package scoring

import (
	"sort"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

const maxScore = 100

// Weight is the deduction for a criterion whose worst issue has severity s.
func Weight(s a11y.Severity) int {
	switch s {
	case a11y.SeverityCritical:
		return 20
	case a11y.SeveritySerious:
		return 12
	case a11y.SeverityModerate:
		return 6
	case a11y.SeverityMinor:
		return 2
	}
	return 0
}

// Deduction is the penalty one criterion contributes.
type Deduction struct {
	Criterion a11y.Criterion `json:"criterion_id"`
	WCAG      string         `json:"wcag"`
	Severity  a11y.Severity  `json:"severity"`
	Issues    int            `json:"issues"`
	Points    int            `json:"points"`
}

// Deductions returns one entry per criterion present in issues, ordered by
// criterion. Only the most severe issue of a criterion sets its points.
func Deductions(issues []a11y.Issue) []Deduction {
	byCriterion := make(map[a11y.Criterion]*Deduction)
	for _, is := range issues {
		d, ok := byCriterion[is.Criterion]
		if !ok {
			d = &Deduction{Criterion: is.Criterion, WCAG: is.WCAG}
			byCriterion[is.Criterion] = d
		}
		d.Issues++
		if is.Severity.Rank() > d.Severity.Rank() {
			d.Severity = is.Severity
			d.Points = Weight(is.Severity)
		}
	}
	out := make([]Deduction, 0, len(byCriterion))
	for _, d := range byCriterion {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Criterion < out[j].Criterion })
	return out
}

// Score is max(0, 100 - sum of per-criterion deductions).
func Score(issues []a11y.Issue) int {
	score := maxScore
	for _, d := range Deductions(issues) {
		score -= d.Points
	}
	if score < 0 {
		return 0
	}
	return score
}

// Band buckets a score for display.
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

func BandOf(score int) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 50:
		return BandFair
	}
	return BandPoor
}

// Summary is the aggregate view of an issue set shown alongside the report.
type Summary struct {
	Score      int                   `json:"score"`
	Band       Band                  `json:"band"`
	Total      int                   `json:"total"`
	BySeverity map[a11y.Severity]int `json:"by_severity"`
	Deductions []Deduction           `json:"deductions"`
}

// Summarize computes the score, band, severity counts and deductions.
func Summarize(issues []a11y.Issue) Summary {
	s := Summary{
		Total:      len(issues),
		BySeverity: make(map[a11y.Severity]int, len(a11y.Severities)),
		Deductions: Deductions(issues),
	}
	for _, sev := range a11y.Severities {
		s.BySeverity[sev] = 0
	}
	for _, is := range issues {
		s.BySeverity[is.Severity]++
	}
	s.Score = Score(issues)
	s.Band = BandOf(s.Score)
	return s
}
