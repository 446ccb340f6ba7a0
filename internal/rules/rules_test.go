package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

func letterPage(i int) a11y.PageInfo {
	return a11y.PageInfo{Index: i, WidthPt: 612, HeightPt: 792, TabOrderMatchesStructure: true}
}

// cleanSnapshot produces no issues at all.
func cleanSnapshot(pages int) *a11y.Snapshot {
	s := &a11y.Snapshot{
		Title:         "Annual Report",
		Language:      "en-US",
		Tagged:        true,
		StructureTree: &a11y.StructNode{Type: "Document", Children: []*a11y.StructNode{{Type: "H1"}, {Type: "P"}}},
		Bookmarks:     []a11y.Bookmark{{Title: "Intro"}},
	}
	for i := 0; i < pages; i++ {
		s.Pages = append(s.Pages, letterPage(i))
	}
	return s
}

func criteria(issues []a11y.Issue) []a11y.Criterion {
	out := make([]a11y.Criterion, len(issues))
	for i, is := range issues {
		out[i] = is.Criterion
	}
	return out
}

func TestChecks_OrderedByCriterion(t *testing.T) {
	checks := Checks()
	require.Len(t, checks, 10)
	for i, c := range checks {
		assert.Equal(t, a11y.Criterion(i+1), c.Criterion)
	}
}

func TestRun_CleanDocument(t *testing.T) {
	issues := NewEngine(nil).Run(cleanSnapshot(3))
	assert.Empty(t, issues)
}

func TestRun_NilSnapshot(t *testing.T) {
	issues := NewEngine(nil).Run(nil)
	// An empty snapshot is untagged, untitled and has no language.
	assert.Equal(t, []a11y.Criterion{a11y.InfoAndRelationships, a11y.PageTitled, a11y.LanguageOfPage}, criteria(issues))
}

func TestRun_ScenarioA(t *testing.T) {
	s := cleanSnapshot(1)
	s.Title = ""
	s.Language = ""
	s.StructureTree = &a11y.StructNode{Type: "Document"}

	issues := NewEngine(nil).Run(s)
	require.Len(t, issues, 2)

	title, lang := issues[0], issues[1]
	assert.Equal(t, a11y.PageTitled, title.Criterion)
	assert.Equal(t, a11y.SeveritySerious, title.Severity)
	assert.True(t, title.Fixable)
	assert.Equal(t, a11y.FixTitle, title.FixAction)
	assert.True(t, title.DocumentLevel())
	assert.Nil(t, title.Rect)

	assert.Equal(t, a11y.LanguageOfPage, lang.Criterion)
	assert.Equal(t, a11y.FixLanguage, lang.FixAction)
	assert.Equal(t, "3.1.1", lang.WCAG)
}

func TestRun_ScenarioB(t *testing.T) {
	s := cleanSnapshot(3)
	s.Tagged = false
	s.StructureTree = nil
	s.Bookmarks = nil
	s.Pages[1].Images = []a11y.Image{{Rect: a11y.Rect{X0: 100, Y0: 100, X1: 300, Y1: 250}}}

	issues := NewEngine(nil).Run(s)
	require.Equal(t, []a11y.Criterion{a11y.NonTextContent, a11y.InfoAndRelationships, a11y.MultipleWays}, criteria(issues))

	img := issues[0]
	assert.Equal(t, a11y.SeveritySerious, img.Severity)
	require.NotNil(t, img.Page)
	assert.Equal(t, 2, *img.Page)
	assert.Equal(t, &a11y.Rect{X0: 100, Y0: 100, X1: 300, Y1: 250}, img.Rect)
	assert.False(t, img.Fixable)

	assert.Equal(t, a11y.SeverityCritical, issues[1].Severity)
	assert.Equal(t, a11y.SeverityModerate, issues[2].Severity)
}

func TestRun_Deterministic(t *testing.T) {
	s := cleanSnapshot(2)
	s.Title = ""
	s.Pages[0].Links = []a11y.Link{{Rect: a11y.Rect{X0: 10, Y0: 10, X1: 60, Y1: 22}, Text: "Click here"}}
	s.Pages[1].FormFields = []a11y.FormField{{Rect: a11y.Rect{X0: 50, Y0: 50, X1: 200, Y1: 70}}}

	e := NewEngine(nil)
	first := e.Run(s)
	second := e.Run(s)
	assert.Equal(t, first, second)

	for i, is := range first {
		assert.Equal(t, fmt.Sprintf("issue-%04d", i+1), is.ID)
	}
}

func TestRun_SeverityOverrides(t *testing.T) {
	table, err := DefaultSeverities().WithOverrides(map[string]string{"5": "Critical"})
	require.NoError(t, err)

	s := cleanSnapshot(1)
	s.Title = ""
	issues := NewEngine(table).Run(s)
	require.Len(t, issues, 1)
	assert.Equal(t, a11y.SeverityCritical, issues[0].Severity)

	_, err = DefaultSeverities().WithOverrides(map[string]string{"11": "minor"})
	assert.Error(t, err)
	_, err = DefaultSeverities().WithOverrides(map[string]string{"3": "urgent"})
	assert.Error(t, err)
}

func TestCheckImageAltText(t *testing.T) {
	s := cleanSnapshot(1)
	s.Pages[0].Images = []a11y.Image{
		{Rect: a11y.Rect{X1: 10, Y1: 10}, HasAltText: true},
		{Rect: a11y.Rect{X1: 10, Y1: 10}, IsDecorative: true},
		{Rect: a11y.Rect{X0: 500, Y0: 700, X1: 700, Y1: 900}},
	}
	got := checkImageAltText(s)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Page)
	// Rects are clamped to the page.
	assert.Equal(t, &a11y.Rect{X0: 500, Y0: 700, X1: 612, Y1: 792}, got[0].Rect)
}

func TestCheckTabOrder(t *testing.T) {
	tests := []struct {
		name   string
		tagged bool
		match  bool
		want   int
	}{
		{"tagged matching", true, true, 0},
		{"tagged mismatched", true, false, 1},
		{"untagged mismatched", false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cleanSnapshot(1)
			s.Tagged = tt.tagged
			s.Pages[0].TabOrderMatchesStructure = tt.match
			s.Pages[0].TabOrder = "R"
			got := checkTabOrder(s)
			require.Len(t, got, tt.want)
			if tt.want > 0 {
				assert.Equal(t, &a11y.Rect{X1: 612, Y1: 792}, got[0].Rect)
				assert.Contains(t, got[0].Description, "/R")
			}
		})
	}
}

func TestCheckContrast(t *testing.T) {
	// #888888 on white is about 3.54:1: large text passes, body text fails.
	gray := a11y.Color{R: 0x88, G: 0x88, B: 0x88}
	light := a11y.Color{R: 0x99, G: 0x99, B: 0x99} // 2.85:1
	grayOf := func(v uint8) a11y.Color { return a11y.Color{R: v, G: v, B: v} }
	run := func(text string, fg, bg a11y.Color, size float64, bold bool) a11y.TextRun {
		return a11y.TextRun{Rect: a11y.Rect{X0: 72, Y0: 72, X1: 200, Y1: 90}, Text: text, Foreground: fg, Background: bg, FontSizePt: size, Bold: bold}
	}
	tests := []struct {
		name string
		runs []a11y.TextRun
		want int
	}{
		{"black on white", []a11y.TextRun{run("Body", a11y.Black, a11y.White, 12, false)}, 0},
		{"gray on white normal", []a11y.TextRun{run("Body", gray, a11y.White, 12, false)}, 1},
		{"gray on white large", []a11y.TextRun{run("Heading", gray, a11y.White, 18, false)}, 0},
		{"gray on white bold 14", []a11y.TextRun{run("Heading", gray, a11y.White, 14, true)}, 0},
		{"gray on white regular 14", []a11y.TextRun{run("Heading", gray, a11y.White, 14, false)}, 1},
		{"light gray fails large too", []a11y.TextRun{run("Heading", light, a11y.White, 18, false)}, 1},
		{"light gray fails bold 14", []a11y.TextRun{run("Heading", light, a11y.White, 14, true)}, 1},
		// Nearest 8-bit grays on either side of 4.5:1 and 3:1.
		{"normal 4.54 passes", []a11y.TextRun{run("Body", grayOf(0x76), a11y.White, 12, false)}, 0},
		{"normal 4.48 fails", []a11y.TextRun{run("Body", grayOf(0x77), a11y.White, 12, false)}, 1},
		{"large 3.03 passes", []a11y.TextRun{run("Heading", grayOf(0x94), a11y.White, 18, false)}, 0},
		{"large 2.99 fails", []a11y.TextRun{run("Heading", grayOf(0x95), a11y.White, 18, false)}, 1},
		{"tiny text ignored", []a11y.TextRun{run("fine print", gray, a11y.White, 6, false)}, 0},
		{"whitespace ignored", []a11y.TextRun{run("   ", gray, a11y.White, 12, false)}, 0},
		{"duplicates collapse", []a11y.TextRun{
			run("one", gray, a11y.White, 12, false),
			run("two", gray, a11y.White, 11, false),
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cleanSnapshot(1)
			s.Pages[0].TextRuns = tt.runs
			assert.Len(t, checkContrast(s), tt.want)
		})
	}
}

func TestMeetsContrast(t *testing.T) {
	assert.True(t, MeetsContrast(4.5, RequiredRatio(12, false)))
	assert.False(t, MeetsContrast(4.4999, RequiredRatio(12, false)))
	assert.True(t, MeetsContrast(3.0, RequiredRatio(18, false)))
	assert.True(t, MeetsContrast(3.0, RequiredRatio(14, true)))
	assert.False(t, MeetsContrast(2.9999, RequiredRatio(18, false)))
	assert.False(t, MeetsContrast(3.0, RequiredRatio(14, false)))
}

func TestContrastRatio(t *testing.T) {
	assert.InDelta(t, 21.0, ContrastRatio(a11y.Black, a11y.White), 0.001)
	assert.InDelta(t, 1.0, ContrastRatio(a11y.White, a11y.White), 0.001)
	assert.Equal(t, ContrastRatio(a11y.Black, a11y.White), ContrastRatio(a11y.White, a11y.Black))
	// #767676 is the lightest gray passing 4.5:1 on white.
	assert.GreaterOrEqual(t, ContrastRatio(a11y.Color{R: 0x76, G: 0x76, B: 0x76}, a11y.White), 4.5)
	assert.Less(t, ContrastRatio(a11y.Color{R: 0x77, G: 0x77, B: 0x77}, a11y.White), 4.5)
}

func TestIsGenericLinkText(t *testing.T) {
	tests := map[string]bool{
		"Click here":                  true,
		"  READ MORE...":              true,
		"here.":                       true,
		"":                            true,
		"Learn More":                  true,
		"Download the annual report":  false,
		"2024 accessibility policy":   false,
		"https://example.com/details": false,
	}
	for text, want := range tests {
		assert.Equal(t, want, IsGenericLinkText(text), text)
	}
}

func TestCheckBookmarks(t *testing.T) {
	one := cleanSnapshot(1)
	one.Bookmarks = nil
	assert.Empty(t, checkBookmarks(one))

	many := cleanSnapshot(3)
	many.Bookmarks = nil
	assert.Len(t, checkBookmarks(many), 1)
}

func TestCheckHeadings(t *testing.T) {
	noHeadings := func(pages int, tagged bool) *a11y.Snapshot {
		s := cleanSnapshot(pages)
		s.Tagged = tagged
		s.StructureTree = &a11y.StructNode{Type: "Document", Children: []*a11y.StructNode{{Type: "P"}}}
		return s
	}
	assert.Len(t, checkHeadings(noHeadings(2, true)), 1)
	assert.Empty(t, checkHeadings(noHeadings(1, true)))
	assert.Empty(t, checkHeadings(noHeadings(2, false)))

	withPageHeading := noHeadings(2, true)
	withPageHeading.Pages[1].Headings = []a11y.Heading{{Level: 2}}
	assert.Empty(t, checkHeadings(withPageHeading))

	withH := noHeadings(2, true)
	withH.StructureTree.Children = append(withH.StructureTree.Children, &a11y.StructNode{Type: "H"})
	assert.Empty(t, checkHeadings(withH))
}

func TestCheckFormFieldNames(t *testing.T) {
	s := cleanSnapshot(1)
	s.Pages[0].FormFields = []a11y.FormField{
		{Rect: a11y.Rect{X1: 10, Y1: 10}, FieldType: "Tx", HasAccessibleName: true},
		{Rect: a11y.Rect{X0: 20, Y0: 20, X1: 40, Y1: 30}, FieldType: "Btn"},
	}
	got := checkFormFieldNames(s)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Description, "Btn")
}
