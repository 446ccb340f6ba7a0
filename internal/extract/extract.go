// Package extract turns a parsed PDF into an a11y.Snapshot.
//
// Document-level facts come from the catalog, the Info dictionary, the
// structure tree and the outline. Page-level facts come from annotations
// and from interpreting each page's content stream. Every rect in the
// snapshot is in displayed page space: top-left origin, y down, with the
// crop box and /Rotate applied.
package extract

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/pdfdoc"
)

// Images smaller than this in both dimensions are bullets and icons.
const decorativeImagePx = 16

// Extractor builds snapshots from documents.
type Extractor struct {
	logger *slog.Logger
}

// New returns an Extractor. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract parses data and builds its snapshot. Failures are
// *a11y.ParseError and no snapshot is returned.
func (e *Extractor) Extract(data []byte) (*a11y.Snapshot, *pdfdoc.Document, error) {
	doc, err := pdfdoc.Open(data)
	if err != nil {
		return nil, nil, err
	}
	snap, err := e.Snapshot(doc)
	if err != nil {
		return nil, nil, err
	}
	return snap, doc, nil
}

// Snapshot builds the snapshot of an opened document.
func (e *Extractor) Snapshot(doc *pdfdoc.Document) (snap *a11y.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap, err = nil, &a11y.ParseError{Err: fmt.Errorf("extract: %v", r)}
		}
	}()

	o := objects{ctx: doc.Context()}
	catalog, cerr := doc.Context().Catalog()
	if cerr != nil {
		return nil, &a11y.ParseError{Err: fmt.Errorf("read catalog: %w", cerr)}
	}

	s := &a11y.Snapshot{
		Title:     doc.Title(),
		Language:  doc.Language(),
		Bookmarks: o.bookmarks(catalog),
		Pages:     []a11y.PageInfo{},
	}
	st := o.readStructure(catalog)
	if st != nil {
		s.Tagged = true
		s.StructureTree = st.root
	}

	pages := o.pageTree(catalog)
	for i, p := range pages {
		s.Pages = append(s.Pages, e.page(doc, o, i, p, st))
	}
	if len(s.Pages) == 0 {
		return nil, &a11y.ParseError{Err: fmt.Errorf("page tree has no pages")}
	}
	return s, nil
}

// page is a leaf of the page tree with its inherited attributes resolved.
type page struct {
	dict      types.Dict
	nr        int
	mediaBox  [4]float64
	cropBox   [4]float64
	hasCrop   bool
	rotate    int
	resources types.Dict
}

// pageTree lists pages in document order, resolving inheritable entries.
func (o objects) pageTree(catalog types.Dict) []page {
	var (
		out     []page
		visited = map[int]bool{}
	)
	var walk func(node types.Object, inherited page, depth int)
	walk = func(node types.Object, inherited page, depth int) {
		if depth > 64 {
			return
		}
		if nr := objNr(node); nr > 0 {
			if visited[nr] {
				return
			}
			visited[nr] = true
		}
		d := o.dict(node)
		if d == nil {
			return
		}
		attrs := inherited
		attrs.dict, attrs.nr = d, objNr(node)
		if r, ok := o.rectangle(o.entry(d, "MediaBox")); ok {
			attrs.mediaBox = r
		}
		if r, ok := o.rectangle(o.entry(d, "CropBox")); ok {
			attrs.cropBox, attrs.hasCrop = r, true
		}
		if rot, ok := o.integer(o.entry(d, "Rotate")); ok {
			attrs.rotate = rot
		}
		if res := o.dict(o.entry(d, "Resources")); res != nil {
			attrs.resources = res
		}
		kids, hasKids := d.Find("Kids")
		if o.name(o.entry(d, "Type")) == "Pages" || (hasKids && o.name(o.entry(d, "Type")) != "Page") {
			for _, kid := range o.array(kids) {
				walk(kid, attrs, depth+1)
			}
			return
		}
		out = append(out, attrs)
	}
	root, ok := catalog.Find("Pages")
	if ok {
		walk(root, page{mediaBox: [4]float64{0, 0, 612, 792}}, 0)
	}
	return out
}

// visibleBox is the crop box clipped to the media box.
func (p page) visibleBox() [4]float64 {
	m := normalizeBox(p.mediaBox)
	if !p.hasCrop {
		return m
	}
	c := normalizeBox(p.cropBox)
	box := [4]float64{max(c[0], m[0]), max(c[1], m[1]), min(c[2], m[2]), min(c[3], m[3])}
	if box[2] <= box[0] || box[3] <= box[1] {
		return m
	}
	return box
}

func normalizeBox(b [4]float64) [4]float64 {
	return [4]float64{min(b[0], b[2]), min(b[1], b[3]), max(b[0], b[2]), max(b[1], b[3])}
}

func (e *Extractor) page(doc *pdfdoc.Document, o objects, index int, p page, st *structure) a11y.PageInfo {
	frame := newPageFrame(p.visibleBox(), p.rotate)
	w, h := frame.size()
	info := a11y.PageInfo{
		Index:      index,
		WidthPt:    w,
		HeightPt:   h,
		Images:     []a11y.Image{},
		TextRuns:   []a11y.TextRun{},
		Links:      []a11y.Link{},
		FormFields: []a11y.FormField{},
		Headings:   []a11y.Heading{},
	}

	tabs := o.name(o.entry(p.dict, "Tabs"))
	info.TabOrder = tabs
	info.TabOrderMatchesStructure = tabs == "" || tabs == "S"

	content := e.pageContent(doc, o, index, p)
	in := newInterpreter(o)
	in.run(content, p.resources, initialState(identity), nil)
	painted := in.out

	fills := make([]a11y.Rect, len(painted.fills))
	for i, f := range painted.fills {
		fills[i] = frame.rect(f.box)
	}

	var (
		wordRects []a11y.Rect
		wordTexts []string
		headings  = map[int]*a11y.Heading{}
		order     []int
	)
	for _, run := range painted.runs {
		if !frame.visible(run.box) {
			continue
		}
		rect := frame.rect(run.box)
		bg := a11y.White
		for i := len(painted.fills) - 1; i >= 0; i-- {
			if painted.fills[i].seq < run.seq && fills[i].Intersects(rect) {
				bg = painted.fills[i].color
				break
			}
		}
		info.TextRuns = append(info.TextRuns, a11y.TextRun{
			Rect:       rect,
			Text:       run.text,
			Foreground: run.color,
			Background: bg,
			FontSizePt: run.sizePt,
			Bold:       run.bold,
		})
		for _, wd := range run.words {
			wordRects = append(wordRects, frame.rect(wd.box))
			wordTexts = append(wordTexts, wd.text)
		}
		if st == nil || run.mcid < 0 {
			continue
		}
		if lvl, ok := st.headings[mcKey{page: p.nr, mcid: run.mcid}]; ok {
			if hd, seen := headings[run.mcid]; seen {
				hd.Rect = hd.Rect.Union(rect)
			} else {
				headings[run.mcid] = &a11y.Heading{Level: lvl, Rect: rect}
				order = append(order, run.mcid)
			}
		}
	}
	for _, mcid := range order {
		info.Headings = append(info.Headings, *headings[mcid])
	}

	for _, img := range painted.images {
		if !frame.visible(img.box) {
			continue
		}
		decorative := img.artifact || (img.width < decorativeImagePx && img.height < decorativeImagePx)
		hasAlt := st != nil && img.mcid >= 0 && st.alt[mcKey{page: p.nr, mcid: img.mcid}]
		info.Images = append(info.Images, a11y.Image{
			Rect:         frame.rect(img.box),
			HasAltText:   hasAlt,
			IsDecorative: decorative,
		})
	}

	links, fields := o.annotations(p.dict, frame)
	for _, l := range links {
		info.Links = append(info.Links, a11y.Link{
			Rect: l.rect,
			Text: linkText(l.rect, wordRects, wordTexts),
			URI:  l.uri,
		})
	}
	info.FormFields = append(info.FormFields, fields...)
	return info
}

// pageContent returns the concatenated, decoded content of a page. A page
// whose content cannot be read is treated as blank.
func (e *Extractor) pageContent(doc *pdfdoc.Document, o objects, index int, p page) []byte {
	r, err := pdfcpu.ExtractPageContent(doc.Context(), index+1)
	if err == nil && r != nil {
		if data, err := io.ReadAll(r); err == nil {
			return data
		}
	}
	var parts [][]byte
	contents := o.entry(p.dict, "Contents")
	if arr, ok := contents.(types.Array); ok {
		for _, c := range arr {
			if data, _, ok := o.stream(c); ok {
				parts = append(parts, data)
			}
		}
	} else if data, _, ok := o.stream(contents); ok {
		parts = append(parts, data)
	}
	if len(parts) == 0 && err != nil {
		e.logger.Debug("page content unreadable", "page", index+1, "error", err)
	}
	return joinContent(parts)
}

func joinContent(parts [][]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
		out = append(out, '\n')
	}
	return out
}
