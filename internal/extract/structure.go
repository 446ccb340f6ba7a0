package extract

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

const (
	maxStructDepth = 256
	maxStructNodes = 100000
)

// mcKey identifies marked content: page object number and MCID.
type mcKey struct {
	page, mcid int
}

// structure is the logical structure tree plus the marked-content
// lookups the page pass needs.
type structure struct {
	root     *a11y.StructNode
	alt      map[mcKey]bool
	headings map[mcKey]int
}

type structWalker struct {
	o       objects
	roles   types.Dict
	visited map[int]bool
	nodes   int
	s       *structure
}

// readStructure walks /StructTreeRoot. It returns nil for untagged
// documents.
func (o objects) readStructure(catalog types.Dict) *structure {
	raw, ok := catalog.Find("StructTreeRoot")
	if !ok {
		return nil
	}
	root := o.dict(raw)
	if root == nil {
		return nil
	}
	w := &structWalker{
		o:       o,
		roles:   o.dict(o.entry(root, "RoleMap")),
		visited: map[int]bool{},
		s:       &structure{alt: map[mcKey]bool{}, headings: map[mcKey]int{}},
	}
	if nr := objNr(raw); nr > 0 {
		w.visited[nr] = true
	}
	w.s.root = &a11y.StructNode{Type: "StructTreeRoot"}
	k, _ := root.Find("K")
	w.s.root.Children = w.kids(k, 0, false, 0, 0)
	return w.s
}

// role maps a custom structure type to a standard one through the RoleMap.
func (w *structWalker) role(t string) string {
	for i := 0; i < 8; i++ {
		next := w.o.name(w.o.entry(w.roles, t))
		if next == "" || next == t {
			break
		}
		t = next
	}
	return t
}

// headingLevel returns 1-6 for H1-H6, 1 for H, 0 otherwise.
func headingLevel(t string) int {
	if t == "H" {
		return 1
	}
	if len(t) == 2 && t[0] == 'H' && t[1] >= '1' && t[1] <= '6' {
		return int(t[1] - '0')
	}
	return 0
}

// kids resolves a /K value. page is the inherited /Pg object number, alt
// whether an ancestor carries alternate text, heading an enclosing heading
// level.
func (w *structWalker) kids(k types.Object, page int, alt bool, heading, depth int) []*a11y.StructNode {
	if k == nil || depth > maxStructDepth {
		return nil
	}
	var out []*a11y.StructNode
	if arr, ok := k.(types.Array); ok {
		for _, item := range arr {
			out = append(out, w.kids(item, page, alt, heading, depth+1)...)
		}
		return out
	}
	if nr := objNr(k); nr > 0 {
		if w.visited[nr] {
			return nil
		}
		w.visited[nr] = true
	}
	switch v := w.o.deref(k).(type) {
	case types.Integer:
		w.markedContent(page, int(v), alt, heading)
	case types.Array:
		return w.kids(v, page, alt, heading, depth+1)
	case types.Dict:
		switch w.o.name(w.o.entry(v, "Type")) {
		case "MCR":
			if p, ok := v.Find("Pg"); ok {
				page = objNr(p)
			}
			if mcid, ok := w.o.integer(w.o.entry(v, "MCID")); ok {
				w.markedContent(page, mcid, alt, heading)
			}
		case "OBJR":
		default:
			if n := w.elem(v, page, alt, heading, depth); n != nil {
				out = append(out, n)
			}
		}
	}
	return out
}

func (w *structWalker) markedContent(page, mcid int, alt bool, heading int) {
	key := mcKey{page: page, mcid: mcid}
	if alt {
		w.s.alt[key] = true
	}
	if heading > 0 {
		w.s.headings[key] = heading
	}
}

func (w *structWalker) elem(d types.Dict, page int, alt bool, heading, depth int) *a11y.StructNode {
	w.nodes++
	if w.nodes > maxStructNodes {
		return nil
	}
	typ := w.role(w.o.name(w.o.entry(d, "S")))
	node := &a11y.StructNode{Type: typ}
	text := strings.TrimSpace(w.o.text(w.o.entry(d, "Alt")))
	if text == "" {
		text = strings.TrimSpace(w.o.text(w.o.entry(d, "ActualText")))
	}
	node.Alt = text
	if text != "" {
		alt = true
	}
	if lvl := headingLevel(typ); lvl > 0 {
		heading = lvl
	}
	if p, ok := d.Find("Pg"); ok {
		if nr := objNr(p); nr > 0 {
			page = nr
		}
	}
	k, _ := d.Find("K")
	node.Children = w.kids(k, page, alt, heading, depth+1)
	return node
}
