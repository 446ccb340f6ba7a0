package rules

import (
	"fmt"
	"strconv"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

// SeverityTable assigns one severity to each criterion. It is the only
// place severities are decided; checks never pick their own.
type SeverityTable map[a11y.Criterion]a11y.Severity

// DefaultSeverities is the built-in mapping. Criteria 3, 6, 7 and 8 are
// moderate; override them with WithOverrides when that proves wrong.
func DefaultSeverities() SeverityTable {
	return SeverityTable{
		a11y.NonTextContent:       a11y.SeveritySerious,
		a11y.InfoAndRelationships: a11y.SeverityCritical,
		a11y.MeaningfulSequence:   a11y.SeverityModerate,
		a11y.ContrastMinimum:      a11y.SeverityModerate,
		a11y.PageTitled:           a11y.SeveritySerious,
		a11y.LinkPurpose:          a11y.SeverityModerate,
		a11y.MultipleWays:         a11y.SeverityModerate,
		a11y.HeadingsAndLabels:    a11y.SeverityModerate,
		a11y.LanguageOfPage:       a11y.SeveritySerious,
		a11y.NameRoleValue:        a11y.SeverityCritical,
	}
}

// Of returns the severity for c.
func (t SeverityTable) Of(c a11y.Criterion) a11y.Severity {
	if s, ok := t[c]; ok {
		return s
	}
	return DefaultSeverities()[c]
}

// WithOverrides returns a copy of t with entries replaced. Keys are
// criterion ids ("1".."10"), values severity names.
func (t SeverityTable) WithOverrides(overrides map[string]string) (SeverityTable, error) {
	out := make(SeverityTable, len(t))
	for c, s := range t {
		out[c] = s
	}
	for key, value := range overrides {
		id, err := strconv.Atoi(key)
		if err != nil || !a11y.Criterion(id).Valid() {
			return nil, fmt.Errorf("severity override: unknown criterion %q", key)
		}
		sev, err := a11y.ParseSeverity(value)
		if err != nil {
			return nil, fmt.Errorf("severity override for criterion %s: %w", key, err)
		}
		out[a11y.Criterion(id)] = sev
	}
	return out, nil
}
