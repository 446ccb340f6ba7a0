package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

// genericLinkText lists link texts that say nothing about the destination.
var genericLinkText = map[string]bool{
	"click here":    true,
	"here":          true,
	"read more":     true,
	"more":          true,
	"link":          true,
	"click":         true,
	"this":          true,
	"see here":      true,
	"go":            true,
	"see more":      true,
	"find out more": true,
	"learn more":    true,
	"details":       true,
	"info":          true,
	"information":   true,
	"view":          true,
	"open":          true,
	"download":      true,
}

var (
	linkPunct  = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	spaceRun   = regexp.MustCompile(`\s+`)
	headingTag = regexp.MustCompile(`^H[1-6]?$`)
)

// normalizeLinkText lowercases, drops punctuation and collapses whitespace.
func normalizeLinkText(s string) string {
	s = linkPunct.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// IsGenericLinkText reports whether text fails to describe a link's purpose.
// Empty text is generic.
func IsGenericLinkText(text string) bool {
	n := normalizeLinkText(text)
	return n == "" || genericLinkText[n]
}

func pageRect(p a11y.PageInfo) *a11y.Rect {
	return &a11y.Rect{X1: p.WidthPt, Y1: p.HeightPt}
}

func rectOn(p a11y.PageInfo, r a11y.Rect) *a11y.Rect {
	c := r.Clamp(p.WidthPt, p.HeightPt)
	return &c
}

func checkImageAltText(s *a11y.Snapshot) []Finding {
	var out []Finding
	for _, p := range s.Pages {
		for _, img := range p.Images {
			if img.HasAltText || img.IsDecorative {
				continue
			}
			out = append(out, Finding{
				Page:        p.Index + 1,
				Rect:        rectOn(p, img.Rect),
				Title:       "Image missing alternative text",
				Description: fmt.Sprintf("An image on page %d has no alternative text and is not marked as decorative.", p.Index+1),
			})
		}
	}
	return out
}

func checkTagged(s *a11y.Snapshot) []Finding {
	if s.Tagged {
		return nil
	}
	return []Finding{{
		Title:       "Document is not tagged",
		Description: "The document has no structure tree, so assistive technology cannot identify headings, lists, tables or reading order.",
	}}
}

func checkTabOrder(s *a11y.Snapshot) []Finding {
	// Untagged documents have no structure order to follow.
	if !s.Tagged {
		return nil
	}
	var out []Finding
	for _, p := range s.Pages {
		if p.TabOrderMatchesStructure {
			continue
		}
		desc := fmt.Sprintf("The tab order on page %d does not follow the document structure.", p.Index+1)
		if p.TabOrder != "" {
			desc = fmt.Sprintf("The tab order on page %d is /%s instead of following the document structure (/S).", p.Index+1, p.TabOrder)
		}
		out = append(out, Finding{
			Page:        p.Index + 1,
			Rect:        pageRect(p),
			Title:       "Tab order does not follow structure",
			Description: desc,
		})
	}
	return out
}

type contrastKey struct {
	page      int
	fg, bg    a11y.Color
	threshold float64
}

func checkContrast(s *a11y.Snapshot) []Finding {
	var out []Finding
	seen := make(map[contrastKey]bool)
	for _, p := range s.Pages {
		for _, run := range p.TextRuns {
			if run.FontSizePt < minCheckedFontSize || strings.TrimSpace(run.Text) == "" {
				continue
			}
			required := RequiredRatio(run.FontSizePt, run.Bold)
			ratio := ContrastRatio(run.Foreground, run.Background)
			if MeetsContrast(ratio, required) {
				continue
			}
			key := contrastKey{page: p.Index, fg: run.Foreground, bg: run.Background, threshold: required}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Finding{
				Page:  p.Index + 1,
				Rect:  rectOn(p, run.Rect),
				Title: "Insufficient text contrast",
				Description: fmt.Sprintf("Text color %s on background %s has a contrast ratio of %.2f:1; at least %.1f:1 is required.",
					run.Foreground.Hex(), run.Background.Hex(), ratio, required),
				Remediation: fmt.Sprintf("Darken the text or lighten the background so the ratio reaches %.1f:1.", required),
			})
		}
	}
	return out
}

func checkTitle(s *a11y.Snapshot) []Finding {
	if strings.TrimSpace(s.Title) != "" {
		return nil
	}
	return []Finding{{
		Title:       "Document title missing",
		Description: "The document metadata has no title, so readers and assistive technology show the file name instead.",
	}}
}

func checkLinkText(s *a11y.Snapshot) []Finding {
	var out []Finding
	for _, p := range s.Pages {
		for _, link := range p.Links {
			if !IsGenericLinkText(link.Text) {
				continue
			}
			desc := fmt.Sprintf("A link on page %d has no text describing its destination.", p.Index+1)
			if t := strings.TrimSpace(link.Text); t != "" {
				desc = fmt.Sprintf("The link text %q on page %d does not describe its destination.", t, p.Index+1)
			}
			out = append(out, Finding{
				Page:        p.Index + 1,
				Rect:        rectOn(p, link.Rect),
				Title:       "Non-descriptive link text",
				Description: desc,
			})
		}
	}
	return out
}

func checkBookmarks(s *a11y.Snapshot) []Finding {
	if s.PageCount() < 2 || len(s.Bookmarks) > 0 {
		return nil
	}
	return []Finding{{
		Title:       "No bookmarks",
		Description: fmt.Sprintf("The document has %d pages but no bookmarks for navigation.", s.PageCount()),
	}}
}

func checkHeadings(s *a11y.Snapshot) []Finding {
	if !s.Tagged || s.PageCount() < 2 || hasHeadings(s) {
		return nil
	}
	return []Finding{{
		Title:       "No headings",
		Description: "The document is tagged but contains no heading elements (H, H1-H6).",
	}}
}

func hasHeadings(s *a11y.Snapshot) bool {
	for _, p := range s.Pages {
		if len(p.Headings) > 0 {
			return true
		}
	}
	found := false
	s.StructureTree.Walk(func(n *a11y.StructNode) bool {
		found = headingTag.MatchString(n.Type)
		return !found
	})
	return found
}

func checkLanguage(s *a11y.Snapshot) []Finding {
	if strings.TrimSpace(s.Language) != "" {
		return nil
	}
	return []Finding{{
		Title:       "Document language not set",
		Description: "The document catalog has no /Lang entry, so screen readers cannot choose the right pronunciation.",
	}}
}

func checkFormFieldNames(s *a11y.Snapshot) []Finding {
	var out []Finding
	for _, p := range s.Pages {
		for _, field := range p.FormFields {
			if field.HasAccessibleName {
				continue
			}
			kind := "form field"
			if field.FieldType != "" {
				kind = fmt.Sprintf("form field (%s)", field.FieldType)
			}
			out = append(out, Finding{
				Page:        p.Index + 1,
				Rect:        rectOn(p, field.Rect),
				Title:       "Form field without accessible name",
				Description: fmt.Sprintf("A %s on page %d has no tooltip or name exposed to assistive technology.", kind, p.Index+1),
			})
		}
	}
	return out
}
