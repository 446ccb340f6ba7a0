// Package pdftest writes small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Writer assembles numbered objects and emits them with a correct
// cross-reference table.
type Writer struct {
	objs []string
}

// Reserve allocates an object number to be filled in with Set.
func (w *Writer) Reserve() int {
	w.objs = append(w.objs, "null")
	return len(w.objs)
}

// Set stores the body of object n.
func (w *Writer) Set(n int, body string) { w.objs[n-1] = body }

// Add appends an object and returns its number.
func (w *Writer) Add(body string) int {
	n := w.Reserve()
	w.Set(n, body)
	return n
}

// AddStream appends a stream object. entries are extra dictionary entries
// such as "/Type /XObject"; /Length is added.
func (w *Writer) AddStream(entries string, data []byte) int {
	body := fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", entries, len(data), data)
	return w.Add(body)
}

// Bytes serializes the file. info may be zero to omit /Info.
func (w *Writer) Bytes(root, info int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")
	offsets := make([]int, len(w.objs))
	for i, body := range w.objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(w.objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R", len(w.objs)+1, root)
	if info > 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", info)
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// Ref formats an indirect reference.
func Ref(n int) string { return fmt.Sprintf("%d 0 R", n) }

// Lit formats s as an escaped literal string.
func Lit(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return "(" + r.Replace(s) + ")"
}

// Image is an image XObject in a page's resources.
type Image struct {
	Width, Height int
}

// Elem is a structure element. Page is the 0-based page the element's
// marked content lives on; MCID < 0 means no marked content.
type Elem struct {
	Type   string
	Alt    string
	Page   int
	MCID   int
	Kids   []Elem
	Extras string
}

// Page describes one page. Zero sizes default to US Letter.
type Page struct {
	Width, Height float64
	Rotate        int
	CropBox       []float64
	Tabs          string
	Content       string
	// Fonts maps resource names to base fonts. /F1 Helvetica is always
	// present unless overridden.
	Fonts  map[string]string
	Images map[string]Image
	// Annots are raw annotation dictionaries. Widgets are also listed as
	// AcroForm fields.
	Annots []string
	// Fields are parent form fields whose kids are widgets on this page.
	Fields []Field
}

// Field is a non-terminal form field. Dict holds its entries, e.g.
// "/FT /Tx /TU (Phone)"; Kids are widget annotation dictionaries that get
// /Parent pointed at the field.
type Field struct {
	Dict string
	Kids []string
}

// DefaultAppearance is written as the AcroForm /DA so text fields need no
// appearance string of their own.
const DefaultAppearance = "/Helv 0 Tf 0 g"

// Doc describes a whole document.
type Doc struct {
	Title     string
	Lang      string
	Tagged    bool
	Struct    []Elem
	RoleMap   map[string]string
	Bookmarks []string
	Pages     []Page
}

// Bytes renders the document.
func (d Doc) Bytes() []byte {
	w := &Writer{}
	catalog := w.Reserve()
	pagesNr := w.Reserve()

	pages := d.Pages
	if len(pages) == 0 {
		pages = []Page{{}}
	}
	pageNrs := make([]int, len(pages))
	for i := range pages {
		pageNrs[i] = w.Reserve()
	}

	var fields []string
	for i, p := range pages {
		width, height := p.Width, p.Height
		if width == 0 {
			width = 612
		}
		if height == 0 {
			height = 792
		}

		fonts := map[string]string{"F1": "Helvetica"}
		for k, v := range p.Fonts {
			fonts[k] = v
		}
		var fontEntries []string
		for _, name := range sortedKeys(fonts) {
			nr := w.Add(fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", fonts[name]))
			fontEntries = append(fontEntries, fmt.Sprintf("/%s %s", name, Ref(nr)))
		}

		var xobjEntries []string
		for _, name := range sortedImageKeys(p.Images) {
			img := p.Images[name]
			data := bytes.Repeat([]byte{0x80}, img.Width*img.Height)
			nr := w.AddStream(fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8", img.Width, img.Height), data)
			xobjEntries = append(xobjEntries, fmt.Sprintf("/%s %s", name, Ref(nr)))
		}

		resources := fmt.Sprintf("<< /Font << %s >>", strings.Join(fontEntries, " "))
		if len(xobjEntries) > 0 {
			resources += fmt.Sprintf(" /XObject << %s >>", strings.Join(xobjEntries, " "))
		}
		resources += " >>"

		content := w.AddStream("", []byte(p.Content))

		var annotRefs []string
		for _, a := range p.Annots {
			body := strings.TrimSuffix(strings.TrimSpace(a), ">>") + fmt.Sprintf(" /P %s >>", Ref(pageNrs[i]))
			nr := w.Add(body)
			annotRefs = append(annotRefs, Ref(nr))
			if strings.Contains(a, "/Widget") {
				fields = append(fields, Ref(nr))
			}
		}
		for _, f := range p.Fields {
			parent := w.Reserve()
			var kidRefs []string
			for _, k := range f.Kids {
				body := strings.TrimSuffix(strings.TrimSpace(k), ">>") + fmt.Sprintf(" /P %s /Parent %s >>", Ref(pageNrs[i]), Ref(parent))
				nr := w.Add(body)
				annotRefs = append(annotRefs, Ref(nr))
				kidRefs = append(kidRefs, Ref(nr))
			}
			w.Set(parent, fmt.Sprintf("<< %s /Kids [%s] >>", f.Dict, strings.Join(kidRefs, " ")))
			fields = append(fields, Ref(parent))
		}

		page := fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox [0 0 %s %s] /Resources %s /Contents %s",
			Ref(pagesNr), num(width), num(height), resources, Ref(content))
		if len(p.CropBox) == 4 {
			page += fmt.Sprintf(" /CropBox [%s %s %s %s]", num(p.CropBox[0]), num(p.CropBox[1]), num(p.CropBox[2]), num(p.CropBox[3]))
		}
		if p.Rotate != 0 {
			page += fmt.Sprintf(" /Rotate %d", p.Rotate)
		}
		if p.Tabs != "" {
			page += " /Tabs /" + p.Tabs
		}
		if len(annotRefs) > 0 {
			page += fmt.Sprintf(" /Annots [%s]", strings.Join(annotRefs, " "))
		}
		w.Set(pageNrs[i], page+" >>")
	}

	kids := make([]string, len(pageNrs))
	for i, nr := range pageNrs {
		kids[i] = Ref(nr)
	}
	w.Set(pagesNr, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageNrs)))

	cat := fmt.Sprintf("<< /Type /Catalog /Pages %s", Ref(pagesNr))
	if d.Lang != "" {
		cat += " /Lang " + Lit(d.Lang)
	}
	if d.Tagged {
		root := w.Reserve()
		var elemRefs []string
		for _, e := range d.Struct {
			elemRefs = append(elemRefs, Ref(writeElem(w, e, root, pageNrs)))
		}
		rootDict := fmt.Sprintf("<< /Type /StructTreeRoot /K [%s]", strings.Join(elemRefs, " "))
		if len(d.RoleMap) > 0 {
			var roles []string
			for _, k := range sortedKeys(d.RoleMap) {
				roles = append(roles, fmt.Sprintf("/%s /%s", k, d.RoleMap[k]))
			}
			rootDict += fmt.Sprintf(" /RoleMap << %s >>", strings.Join(roles, " "))
		}
		w.Set(root, rootDict+" >>")
		cat += fmt.Sprintf(" /StructTreeRoot %s /MarkInfo << /Marked true >>", Ref(root))
	}
	if len(d.Bookmarks) > 0 {
		cat += " /Outlines " + Ref(writeOutlines(w, d.Bookmarks, pageNrs[0]))
	}
	if len(fields) > 0 {
		cat += fmt.Sprintf(" /AcroForm << /Fields [%s] /DA %s >>", strings.Join(fields, " "), Lit(DefaultAppearance))
	}
	w.Set(catalog, cat+" >>")

	info := "<< /Producer (pdftest)"
	if d.Title != "" {
		info += " /Title " + Lit(d.Title)
	}
	infoNr := w.Add(info + " >>")
	return w.Bytes(catalog, infoNr)
}

func writeElem(w *Writer, e Elem, parent int, pageNrs []int) int {
	nr := w.Reserve()
	body := fmt.Sprintf("<< /Type /StructElem /S /%s /P %s", e.Type, Ref(parent))
	if e.Alt != "" {
		body += " /Alt " + Lit(e.Alt)
	}
	if e.Page >= 0 && e.Page < len(pageNrs) {
		body += " /Pg " + Ref(pageNrs[e.Page])
	}
	var kids []string
	if e.MCID >= 0 {
		kids = append(kids, fmt.Sprintf("%d", e.MCID))
	}
	for _, k := range e.Kids {
		kids = append(kids, Ref(writeElem(w, k, nr, pageNrs)))
	}
	if len(kids) > 0 {
		body += fmt.Sprintf(" /K [%s]", strings.Join(kids, " "))
	}
	if e.Extras != "" {
		body += " " + e.Extras
	}
	w.Set(nr, body+" >>")
	return nr
}

func writeOutlines(w *Writer, titles []string, page int) int {
	root := w.Reserve()
	items := make([]int, len(titles))
	for i := range titles {
		items[i] = w.Reserve()
	}
	for i, t := range titles {
		body := fmt.Sprintf("<< /Title %s /Parent %s /Dest [%s /Fit]", Lit(t), Ref(root), Ref(page))
		if i > 0 {
			body += " /Prev " + Ref(items[i-1])
		}
		if i < len(items)-1 {
			body += " /Next " + Ref(items[i+1])
		}
		w.Set(items[i], body+" >>")
	}
	w.Set(root, fmt.Sprintf("<< /Type /Outlines /First %s /Last %s /Count %d >>",
		Ref(items[0]), Ref(items[len(items)-1]), len(items)))
	return root
}

func num(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedImageKeys(m map[string]Image) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
