package a11y

// Criterion identifies one of the ten audited WCAG success criteria (1-10).
type Criterion int

const (
	NonTextContent Criterion = iota + 1
	InfoAndRelationships
	MeaningfulSequence
	ContrastMinimum
	PageTitled
	LinkPurpose
	MultipleWays
	HeadingsAndLabels
	LanguageOfPage
	NameRoleValue
)

// CriterionInfo is the catalog entry for a criterion.
type CriterionInfo struct {
	ID          Criterion
	WCAG        string
	Title       string
	Level       string
	HelpURL     string
	Remediation string
	FixAction   FixAction
}

// Criteria is ordered by criterion id.
var Criteria = []CriterionInfo{
	{
		ID:      NonTextContent,
		WCAG:    "1.1.1",
		Title:   "Non-text Content",
		Level:   "A",
		HelpURL: "https://www.w3.org/WAI/WCAG21/Understanding/non-text-content",
		Remediation: "Add a descriptive /Alt attribute to the corresponding Figure element in the " +
			"structure tree, or mark the image as an artifact if it is purely decorative.",
	},
	{
		ID:      InfoAndRelationships,
		WCAG:    "1.3.1",
		Title:   "Info and Relationships",
		Level:   "A",
		HelpURL: "https://www.w3.org/WAI/WCAG21/Understanding/info-and-relationships",
		Remediation: "Re-export the source document with accessibility tagging enabled, or add tags " +
			"with an authoring tool so headings, lists and tables use the correct structure types.",
	},
	{
		ID:      MeaningfulSequence,
		WCAG:    "1.3.2",
		Title:   "Meaningful Sequence",
		Level:   "A",
		HelpURL: "https://www.w3.org/WAI/WCAG21/Understanding/meaningful-sequence",
		Remediation: "Set the page tab order to use the document structure (/Tabs /S) so focus " +
			"follows the logical reading order.",
	},
	{
		ID:      ContrastMinimum,
		WCAG:    "1.4.3",
		Title:   "Contrast (Minimum)",
		Level:   "AA",
		HelpURL: "https://www.w3.org/WAI/WCAG21/Understanding/contrast-minimum",
		Remediation: "Change the text or background color so the contrast ratio reaches 4.5:1, " +
			"or 3:1 for large text (18 pt, or 14 pt bold).",
	},
	{
		ID:          PageTitled,
		WCAG:        "2.4.2",
		Title:       "Page Titled",
		Level:       "A",
		HelpURL:     "https://www.w3.org/WAI/WCAG21/Understanding/page-titled",
		Remediation: "Add a descriptive title to the document metadata, or apply the title fix.",
		FixAction:   FixTitle,
	},
	{
		ID:      LinkPurpose,
		WCAG:    "2.4.4",
		Title:   "Link Purpose (In Context)",
		Level:   "A",
		HelpURL: "https://www.w3.org/WAI/WCAG21/Understanding/link-purpose-in-context",
		Remediation: "Replace the link text with a description of the destination " +
			"(for example 'Download the 2024 Annual Report').",
	},
	{
		ID:      MultipleWays,
		WCAG:    "2.4.5",
		Title:   "Multiple Ways",
		Level:   "AA",
		HelpURL: "https://www.w3.org/WAI/WCAG21/Understanding/multiple-ways",
		Remediation: "Add bookmarks (an outline) so readers can jump directly to sections, " +
			"for example by exporting headings as bookmarks from the source document.",
	},
	{
		ID:      HeadingsAndLabels,
		WCAG:    "2.4.6",
		Title:   "Headings and Labels",
		Level:   "AA",
		HelpURL: "https://www.w3.org/WAI/WCAG21/Understanding/headings-and-labels",
		Remediation: "Apply heading styles in the source document before exporting, or tag " +
			"headings as H1-H6 in the structure tree.",
	},
	{
		ID:          LanguageOfPage,
		WCAG:        "3.1.1",
		Title:       "Language of Page",
		Level:       "A",
		HelpURL:     "https://www.w3.org/WAI/WCAG21/Understanding/language-of-page",
		Remediation: "Set the document language in the catalog /Lang entry (e.g. 'en-US'), or apply the language fix.",
		FixAction:   FixLanguage,
	},
	{
		ID:      NameRoleValue,
		WCAG:    "4.1.2",
		Title:   "Name, Role, Value",
		Level:   "A",
		HelpURL: "https://www.w3.org/WAI/WCAG21/Understanding/name-role-value",
		Remediation: "Give every form field an accessible name through its tooltip (/TU) " +
			"or field name.",
	},
}

// Info returns the catalog entry for c. It panics on an unknown criterion.
func (c Criterion) Info() CriterionInfo {
	if c < NonTextContent || c > NameRoleValue {
		panic("a11y: unknown criterion")
	}
	return Criteria[c-1]
}

// Valid reports whether c is one of the ten criteria.
func (c Criterion) Valid() bool { return c >= NonTextContent && c <= NameRoleValue }

func (c Criterion) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return c.Info().WCAG
}
