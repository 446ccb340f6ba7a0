package extract

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

const forceBoldFlag = 1 << 18

// font is what the interpreter needs from a font dictionary.
type font struct {
	codeBytes    int
	firstChar    int
	widths       []float64
	cidWidths    map[int]float64
	defaultWidth float64
	toUnicode    map[int]string
	bold         bool
}

// glyph is one decoded character code.
type glyph struct {
	code  int
	text  string
	width float64 // glyph space, 1/1000 em
}

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demi"}

func (o objects) loadFont(d types.Dict) *font {
	f := &font{codeBytes: 1, defaultWidth: 500}
	if d == nil {
		return f
	}
	base := o.name(o.entry(d, "BaseFont"))
	if strings.Contains(strings.ToLower(base), "courier") {
		f.defaultWidth = 600
	}
	lower := strings.ToLower(base)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			f.bold = true
		}
	}

	descriptor := o.dict(o.entry(d, "FontDescriptor"))
	if o.name(o.entry(d, "Subtype")) == "Type0" {
		f.codeBytes = 2
		f.defaultWidth = 1000
		if kids := o.array(o.entry(d, "DescendantFonts")); len(kids) > 0 {
			cid := o.dict(kids[0])
			if dw, ok := o.number(o.entry(cid, "DW")); ok {
				f.defaultWidth = dw
			}
			f.cidWidths = o.cidWidths(o.array(o.entry(cid, "W")))
			if descriptor == nil {
				descriptor = o.dict(o.entry(cid, "FontDescriptor"))
			}
		}
	} else {
		f.firstChar, _ = o.integer(o.entry(d, "FirstChar"))
		for _, w := range o.array(o.entry(d, "Widths")) {
			v, _ := o.number(w)
			f.widths = append(f.widths, v)
		}
		if mw, ok := o.number(o.entry(descriptor, "MissingWidth")); ok && mw > 0 {
			f.defaultWidth = mw
		}
	}

	if weight, ok := o.number(o.entry(descriptor, "FontWeight")); ok && weight >= 600 {
		f.bold = true
	}
	if flags, ok := o.integer(o.entry(descriptor, "Flags")); ok && flags&forceBoldFlag != 0 {
		f.bold = true
	}

	if data, _, ok := o.stream(o.entry(d, "ToUnicode")); ok {
		f.toUnicode = parseToUnicode(data, f)
	}
	return f
}

// cidWidths reads a CIDFont /W array: c [w1 w2 ...] or cfirst clast w.
func (o objects) cidWidths(arr types.Array) map[int]float64 {
	out := map[int]float64{}
	for i := 0; i < len(arr); {
		first, ok := o.integer(arr[i])
		if !ok || i+1 >= len(arr) {
			break
		}
		if list := o.array(arr[i+1]); list != nil {
			for j, w := range list {
				v, _ := o.number(w)
				out[first+j] = v
			}
			i += 2
			continue
		}
		if i+2 >= len(arr) {
			break
		}
		last, _ := o.integer(arr[i+1])
		w, _ := o.number(arr[i+2])
		for c := first; c <= last && c-first < 65536; c++ {
			out[c] = w
		}
		i += 3
	}
	return out
}

func (f *font) width(code int) float64 {
	if f.cidWidths != nil {
		if w, ok := f.cidWidths[code]; ok {
			return w
		}
		return f.defaultWidth
	}
	if i := code - f.firstChar; i >= 0 && i < len(f.widths) && f.widths[i] > 0 {
		return f.widths[i]
	}
	return f.defaultWidth
}

// decode splits a shown string into glyphs.
func (f *font) decode(s []byte) []glyph {
	n := f.codeBytes
	if n < 1 {
		n = 1
	}
	out := make([]glyph, 0, len(s)/n)
	for i := 0; i+n <= len(s); i += n {
		code := 0
		for _, b := range s[i : i+n] {
			code = code<<8 | int(b)
		}
		out = append(out, glyph{code: code, text: f.text(code), width: f.width(code)})
	}
	return out
}

func (f *font) text(code int) string {
	if t, ok := f.toUnicode[code]; ok {
		return t
	}
	if f.codeBytes > 1 {
		return ""
	}
	return string(charmap.Windows1252.DecodeByte(byte(code)))
}

// parseToUnicode reads the bfchar and bfrange sections of a ToUnicode
// CMap. A two-byte codespace switches the font to two-byte codes.
func parseToUnicode(data []byte, f *font) map[int]string {
	out := map[int]string{}
	l := &lexer{data: data}
	var operands []any
	for {
		obj, op, ok := l.next()
		if !ok {
			break
		}
		if op == "" {
			operands = append(operands, obj)
			continue
		}
		switch op {
		case "endcodespacerange":
			if len(operands) >= 1 {
				if lo, ok := operands[0].(opString); ok && len(lo) > 0 {
					f.codeBytes = len(lo)
				}
			}
		case "endbfchar":
			for i := 0; i+1 < len(operands); i += 2 {
				src, ok1 := operands[i].(opString)
				dst, ok2 := operands[i+1].(opString)
				if ok1 && ok2 {
					out[codeOf(src)] = utf16Text(dst)
				}
			}
		case "endbfrange":
			for i := 0; i+2 < len(operands); i += 3 {
				lo, ok1 := operands[i].(opString)
				hi, ok2 := operands[i+1].(opString)
				if !ok1 || !ok2 {
					continue
				}
				start, end := codeOf(lo), codeOf(hi)
				switch dst := operands[i+2].(type) {
				case opString:
					for c := start; c <= end && c-start < 65536; c++ {
						out[c] = utf16Text(incrementLast(dst, c-start))
					}
				case opArray:
					for j, v := range dst {
						if s, ok := v.(opString); ok && start+j <= end {
							out[start+j] = utf16Text(s)
						}
					}
				}
			}
		}
		operands = operands[:0]
	}
	return out
}

func codeOf(b []byte) int {
	c := 0
	for _, v := range b {
		c = c<<8 | int(v)
	}
	return c
}

func incrementLast(b []byte, n int) []byte {
	out := append([]byte(nil), b...)
	if len(out) == 0 {
		return out
	}
	v := int(out[len(out)-1]) + n
	out[len(out)-1] = byte(v)
	if len(out) >= 2 {
		out[len(out)-2] += byte(v >> 8)
	}
	return out
}

func utf16Text(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	s, err := xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(s)
}
