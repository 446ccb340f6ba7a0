package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

func issue(c a11y.Criterion, s a11y.Severity) a11y.Issue {
	return a11y.Issue{Criterion: c, Severity: s, WCAG: c.Info().WCAG}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		issues []a11y.Issue
		want   int
	}{
		{"no issues", nil, 100},
		{"scenario A", []a11y.Issue{
			issue(a11y.PageTitled, a11y.SeveritySerious),
			issue(a11y.LanguageOfPage, a11y.SeveritySerious),
		}, 76},
		{"scenario B", []a11y.Issue{
			issue(a11y.NonTextContent, a11y.SeveritySerious),
			issue(a11y.InfoAndRelationships, a11y.SeverityCritical),
			issue(a11y.MultipleWays, a11y.SeverityModerate),
		}, 62},
		{"scenario C", []a11y.Issue{
			issue(a11y.LanguageOfPage, a11y.SeveritySerious),
		}, 88},
		{"same criterion does not compound", []a11y.Issue{
			issue(a11y.NonTextContent, a11y.SeveritySerious),
			issue(a11y.NonTextContent, a11y.SeveritySerious),
			issue(a11y.NonTextContent, a11y.SeveritySerious),
		}, 88},
		{"max severity of a criterion wins", []a11y.Issue{
			issue(a11y.ContrastMinimum, a11y.SeverityMinor),
			issue(a11y.ContrastMinimum, a11y.SeverityCritical),
		}, 80},
		{"floored at zero", []a11y.Issue{
			issue(a11y.NonTextContent, a11y.SeverityCritical),
			issue(a11y.InfoAndRelationships, a11y.SeverityCritical),
			issue(a11y.MeaningfulSequence, a11y.SeverityCritical),
			issue(a11y.ContrastMinimum, a11y.SeverityCritical),
			issue(a11y.PageTitled, a11y.SeverityCritical),
			issue(a11y.LinkPurpose, a11y.SeverityCritical),
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.issues))
		})
	}
}

func TestScore_OrderIndependent(t *testing.T) {
	issues := []a11y.Issue{
		issue(a11y.NonTextContent, a11y.SeveritySerious),
		issue(a11y.NonTextContent, a11y.SeverityMinor),
		issue(a11y.ContrastMinimum, a11y.SeverityModerate),
		issue(a11y.NameRoleValue, a11y.SeverityCritical),
		issue(a11y.PageTitled, a11y.SeveritySerious),
	}
	want := Score(issues)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		r.Shuffle(len(issues), func(a, b int) { issues[a], issues[b] = issues[b], issues[a] })
		require.Equal(t, want, Score(issues))
	}
}

func TestScore_RemovingCriterionRaisesByWeight(t *testing.T) {
	issues := []a11y.Issue{
		issue(a11y.NonTextContent, a11y.SeveritySerious),
		issue(a11y.LinkPurpose, a11y.SeverityModerate),
		issue(a11y.LinkPurpose, a11y.SeverityModerate),
	}
	without := issues[:1]
	assert.Equal(t, Score(issues)+Weight(a11y.SeverityModerate), Score(without))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]a11y.Issue{
		issue(a11y.InfoAndRelationships, a11y.SeverityCritical),
		issue(a11y.NonTextContent, a11y.SeveritySerious),
		issue(a11y.NonTextContent, a11y.SeveritySerious),
	})
	assert.Equal(t, 68, s.Score)
	assert.Equal(t, BandFair, s.Band)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.BySeverity[a11y.SeveritySerious])
	assert.Equal(t, 0, s.BySeverity[a11y.SeverityMinor])
	require.Len(t, s.Deductions, 2)
	assert.Equal(t, a11y.NonTextContent, s.Deductions[0].Criterion)
	assert.Equal(t, 2, s.Deductions[0].Issues)
	assert.Equal(t, 12, s.Deductions[0].Points)
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, BandGood, BandOf(100))
	assert.Equal(t, BandGood, BandOf(80))
	assert.Equal(t, BandFair, BandOf(79))
	assert.Equal(t, BandFair, BandOf(50))
	assert.Equal(t, BandPoor, BandOf(49))
}
