package extract

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

const (
	linkTextSlop    = 3.0
	maxFieldParents = 32
	hiddenFlag      = 1 << 1
)

// rawLink is a link annotation before its text is resolved.
type rawLink struct {
	rect a11y.Rect
	uri  string
}

// annotations reads the link and widget annotations of a page.
func (o objects) annotations(page types.Dict, frame pageFrame) ([]rawLink, []a11y.FormField) {
	var (
		links  []rawLink
		fields []a11y.FormField
	)
	for _, raw := range o.array(o.entry(page, "Annots")) {
		d := o.dict(raw)
		if d == nil {
			continue
		}
		if flags, ok := o.integer(o.entry(d, "F")); ok && flags&hiddenFlag != 0 {
			continue
		}
		r, ok := o.rectangle(o.entry(d, "Rect"))
		if !ok {
			continue
		}
		var box bbox
		box.add(r[0], r[1])
		box.add(r[2], r[3])
		rect := frame.rect(box)

		switch o.name(o.entry(d, "Subtype")) {
		case "Link":
			uri, ok := o.linkTarget(d)
			if !ok {
				continue
			}
			links = append(links, rawLink{rect: rect, uri: uri})
		case "Widget":
			fields = append(fields, a11y.FormField{
				Rect:              rect,
				FieldType:         o.inheritedName(d, "FT"),
				HasAccessibleName: o.accessibleName(d) != "",
			})
		}
	}
	return links, fields
}

// linkTarget returns the URI of a link, or "" for internal destinations.
// ok is false for links that go nowhere.
func (o objects) linkTarget(d types.Dict) (string, bool) {
	if action := o.dict(o.entry(d, "A")); action != nil {
		switch o.name(o.entry(action, "S")) {
		case "URI":
			return o.text(o.entry(action, "URI")), true
		case "GoTo", "GoToR", "Launch", "Named", "JavaScript":
			return "", true
		}
		return "", false
	}
	if _, ok := d.Find("Dest"); ok {
		return "", true
	}
	return "", false
}

// accessibleName is the first of /TU, /T or /TM found on the widget or
// its parent fields.
func (o objects) accessibleName(d types.Dict) string {
	for i := 0; d != nil && i < maxFieldParents; i++ {
		for _, key := range []string{"TU", "T", "TM"} {
			if v := strings.TrimSpace(o.text(o.entry(d, key))); v != "" {
				return v
			}
		}
		d = o.dict(o.entry(d, "Parent"))
	}
	return ""
}

func (o objects) inheritedName(d types.Dict, key string) string {
	for i := 0; d != nil && i < maxFieldParents; i++ {
		if v := o.name(o.entry(d, key)); v != "" {
			return v
		}
		d = o.dict(o.entry(d, "Parent"))
	}
	return ""
}

// linkText joins the words painted inside the link rectangle, widened by
// a small margin to catch glyphs that overhang it.
func linkText(link a11y.Rect, words []a11y.Rect, texts []string) string {
	area := link.Inset(-linkTextSlop)
	var parts []string
	for i, w := range words {
		if w.Intersects(area) {
			parts = append(parts, texts[i])
		}
	}
	return strings.Join(parts, " ")
}

// bookmarks flattens the outline tree depth first.
func (o objects) bookmarks(catalog types.Dict) []a11y.Bookmark {
	out := []a11y.Bookmark{}
	root := o.dict(o.entry(catalog, "Outlines"))
	if root == nil {
		return out
	}
	seen := map[int]bool{}
	var walk func(first types.Object, level int)
	walk = func(item types.Object, level int) {
		for item != nil && len(out) < 10000 && level < 64 {
			if nr := objNr(item); nr > 0 {
				if seen[nr] {
					return
				}
				seen[nr] = true
			}
			d := o.dict(item)
			if d == nil {
				return
			}
			out = append(out, a11y.Bookmark{Title: strings.TrimSpace(o.text(o.entry(d, "Title"))), Level: level})
			if first, ok := d.Find("First"); ok {
				walk(first, level+1)
			}
			next, ok := d.Find("Next")
			if !ok {
				return
			}
			item = next
		}
	}
	if first, ok := root.Find("First"); ok {
		walk(first, 0)
	}
	return out
}
