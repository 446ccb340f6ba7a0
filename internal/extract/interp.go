package extract

import (
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

const maxFormDepth = 12

// Painted items in default user space. seq is the painting order on the
// page, used to find what lies underneath a text run.
type (
	word struct {
		text string
		box  bbox
	}
	textRun struct {
		box      bbox
		text     string
		words    []word
		color    a11y.Color
		sizePt   float64
		bold     bool
		mcid     int
		artifact bool
		seq      int
	}
	fill struct {
		box   bbox
		color a11y.Color
		seq   int
	}
	imageUse struct {
		box           bbox
		width, height int
		mcid          int
		artifact      bool
	}
)

// pageContent is everything painted on one page.
type pageContent struct {
	runs   []textRun
	fills  []fill
	images []imageUse
}

type colorSpace int

const (
	csGray colorSpace = iota
	csRGB
	csCMYK
	csTint
	csOther
)

type graphicsState struct {
	ctm       matrix
	fill      a11y.Color
	fillSpace colorSpace
	font      *font
	fontSize  float64
	charSpace float64
	wordSpace float64
	hScale    float64
	leading   float64
	rise      float64
}

// markedContent is one open BMC/BDC section.
type markedContent struct {
	mcid     int
	artifact bool
}

// interpreter walks content streams and records painted items. It never
// fails: unknown operators and malformed operands are skipped.
type interpreter struct {
	o     objects
	out   *pageContent
	seq   int
	fonts map[int]*font
	forms map[int]bool
	depth int
}

func newInterpreter(o objects) *interpreter {
	return &interpreter{o: o, out: &pageContent{}, fonts: map[int]*font{}, forms: map[int]bool{}}
}

func initialState(ctm matrix) graphicsState {
	return graphicsState{ctm: ctm, fill: a11y.Black, hScale: 1}
}

// run interprets one content stream with the given resources, starting
// from gs and inside the marked-content sections of the caller.
func (in *interpreter) run(content []byte, resources types.Dict, gs graphicsState, outer []markedContent) {
	var (
		stack    []graphicsState
		marked   = append([]markedContent(nil), outer...)
		tm, tlm  = identity, identity
		path     bbox
		operands []any
	)

	l := &lexer{data: content}
	for {
		obj, op, ok := l.next()
		if !ok {
			return
		}
		if op == "" {
			if len(operands) < 64 {
				operands = append(operands, obj)
			}
			continue
		}
		nums := numbers(operands)

		switch op {
		case "q":
			stack = append(stack, gs)
		case "Q":
			if n := len(stack); n > 0 {
				gs, stack = stack[n-1], stack[:n-1]
			}
		case "cm":
			if len(nums) == 6 {
				gs.ctm = matrix{nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]}.mul(gs.ctm)
			}

		case "g":
			gs.fillSpace = csGray
			gs.fill = colorFrom(csGray, nums)
		case "rg":
			gs.fillSpace = csRGB
			gs.fill = colorFrom(csRGB, nums)
		case "k":
			gs.fillSpace = csCMYK
			gs.fill = colorFrom(csCMYK, nums)
		case "cs":
			if len(operands) == 1 {
				if name, ok := operands[0].(opName); ok {
					gs.fillSpace = in.colorSpace(string(name), resources)
					gs.fill = a11y.Black
				}
			}
		case "sc", "scn":
			if len(nums) > 0 && len(nums) == len(operands) {
				space := gs.fillSpace
				switch {
				case space == csTint && len(nums) == 1:
				case len(nums) == 1:
					space = csGray
				case len(nums) == 3:
					space = csRGB
				case len(nums) == 4:
					space = csCMYK
				default:
					space = csOther
				}
				if space != csOther {
					gs.fill = colorFrom(space, nums)
				}
			}

		case "m", "l":
			if len(nums) == 2 {
				path.add(gs.ctm.apply(nums[0], nums[1]))
			}
		case "c", "v", "y":
			for i := 0; i+1 < len(nums); i += 2 {
				path.add(gs.ctm.apply(nums[i], nums[i+1]))
			}
		case "re":
			if len(nums) == 4 {
				path.addRect(gs.ctm, nums[0], nums[1], nums[0]+nums[2], nums[1]+nums[3])
			}
		case "f", "F", "f*", "B", "B*", "b", "b*":
			if path.ok {
				in.seq++
				in.out.fills = append(in.out.fills, fill{box: path, color: gs.fill, seq: in.seq})
			}
			path = bbox{}
		case "S", "s", "n":
			path = bbox{}

		case "BT":
			tm, tlm = identity, identity
		case "Tc":
			if len(nums) == 1 {
				gs.charSpace = nums[0]
			}
		case "Tw":
			if len(nums) == 1 {
				gs.wordSpace = nums[0]
			}
		case "Tz":
			if len(nums) == 1 {
				gs.hScale = nums[0] / 100
			}
		case "TL":
			if len(nums) == 1 {
				gs.leading = nums[0]
			}
		case "Ts":
			if len(nums) == 1 {
				gs.rise = nums[0]
			}
		case "Tf":
			if len(operands) == 2 {
				if name, ok := operands[0].(opName); ok {
					gs.font = in.font(string(name), resources)
				}
				if size, ok := number(operands[1]); ok {
					gs.fontSize = size
				}
			}
		case "Td", "TD":
			if len(nums) == 2 {
				if op == "TD" {
					gs.leading = -nums[1]
				}
				tlm = translate(nums[0], nums[1]).mul(tlm)
				tm = tlm
			}
		case "Tm":
			if len(nums) == 6 {
				tlm = matrix{nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]}
				tm = tlm
			}
		case "T*":
			tlm = translate(0, -gs.leading).mul(tlm)
			tm = tlm
		case "Tj":
			if len(operands) == 1 {
				if s, ok := operands[0].(opString); ok {
					tm = in.show(&gs, tm, s, marked)
				}
			}
		case "'", "\"":
			if op == "\"" && len(operands) == 3 {
				gs.wordSpace, _ = number(operands[0])
				gs.charSpace, _ = number(operands[1])
			}
			tlm = translate(0, -gs.leading).mul(tlm)
			tm = tlm
			if len(operands) > 0 {
				if s, ok := operands[len(operands)-1].(opString); ok {
					tm = in.show(&gs, tm, s, marked)
				}
			}
		case "TJ":
			if len(operands) == 1 {
				if arr, ok := operands[0].(opArray); ok {
					for _, item := range arr {
						switch v := item.(type) {
						case opString:
							tm = in.show(&gs, tm, v, marked)
						case float64:
							tx := -v / 1000 * gs.fontSize * gs.hScale
							tm = translate(tx, 0).mul(tm)
						}
					}
				}
			}

		case "BMC":
			tag := ""
			if len(operands) == 1 {
				if name, ok := operands[0].(opName); ok {
					tag = string(name)
				}
			}
			marked = append(marked, markedContent{mcid: -1, artifact: tag == "Artifact"})
		case "BDC":
			mc := markedContent{mcid: -1}
			if len(operands) == 2 {
				if name, ok := operands[0].(opName); ok {
					mc.artifact = name == "Artifact"
				}
				mc.mcid = in.mcid(operands[1], resources)
			}
			marked = append(marked, mc)
		case "EMC":
			if n := len(marked); n > len(outer) {
				marked = marked[:n-1]
			}

		case "Do":
			if len(operands) == 1 {
				if name, ok := operands[0].(opName); ok {
					in.xobject(string(name), resources, gs, marked)
				}
			}
		case "BI":
			// Image dictionary entries arrive as operands of ID.
		case "ID":
			w, h := inlineImageSize(operands)
			l.skipInlineImage()
			in.image(gs.ctm, w, h, marked)
		}
		operands = operands[:0]
	}
}

func numbers(operands []any) []float64 {
	out := make([]float64, 0, len(operands))
	for _, o := range operands {
		if f, ok := o.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func colorFrom(space colorSpace, n []float64) a11y.Color {
	switch {
	case space == csGray && len(n) >= 1:
		g := channel(n[0])
		return a11y.Color{R: g, G: g, B: g}
	case space == csTint && len(n) >= 1:
		g := channel(1 - n[0])
		return a11y.Color{R: g, G: g, B: g}
	case space == csRGB && len(n) >= 3:
		return a11y.Color{R: channel(n[0]), G: channel(n[1]), B: channel(n[2])}
	case space == csCMYK && len(n) >= 4:
		k := 1 - n[3]
		return a11y.Color{R: channel((1 - n[0]) * k), G: channel((1 - n[1]) * k), B: channel((1 - n[2]) * k)}
	}
	return a11y.Black
}

// colorSpace classifies a cs operand: a device space or a named resource.
func (in *interpreter) colorSpace(name string, resources types.Dict) colorSpace {
	switch name {
	case "DeviceGray", "CalGray", "G":
		return csGray
	case "DeviceRGB", "CalRGB", "RGB":
		return csRGB
	case "DeviceCMYK", "CMYK":
		return csCMYK
	}
	spaces := in.o.dict(in.o.entry(resources, "ColorSpace"))
	def := in.o.entry(spaces, name)
	if n := in.o.name(def); n != "" {
		return in.colorSpace(n, nil)
	}
	arr := in.o.array(def)
	if len(arr) == 0 {
		return csOther
	}
	switch in.o.name(arr[0]) {
	case "ICCBased":
		if len(arr) > 1 {
			_, d, _ := in.o.stream(arr[1])
			switch n, _ := in.o.integer(in.o.entry(d, "N")); n {
			case 1:
				return csGray
			case 3:
				return csRGB
			case 4:
				return csCMYK
			}
		}
	case "CalGray":
		return csGray
	case "CalRGB", "Lab":
		return csRGB
	case "Separation", "DeviceN":
		return csTint
	}
	return csOther
}

func (in *interpreter) font(name string, resources types.Dict) *font {
	fonts := in.o.dict(in.o.entry(resources, "Font"))
	raw, ok := fonts.Find(name)
	if !ok {
		return in.o.loadFont(nil)
	}
	if nr := objNr(raw); nr > 0 {
		if f, ok := in.fonts[nr]; ok {
			return f
		}
		f := in.o.loadFont(in.o.dict(raw))
		in.fonts[nr] = f
		return f
	}
	return in.o.loadFont(in.o.dict(raw))
}

// mcid reads the MCID of a BDC property list, inline or named.
func (in *interpreter) mcid(props any, resources types.Dict) int {
	switch p := props.(type) {
	case opDict:
		if v, ok := number(p["MCID"]); ok {
			return int(v)
		}
	case opName:
		d := in.o.dict(in.o.entry(in.o.dict(in.o.entry(resources, "Properties")), string(p)))
		if v, ok := in.o.integer(in.o.entry(d, "MCID")); ok {
			return v
		}
	}
	return -1
}

func current(marked []markedContent) markedContent {
	mc := markedContent{mcid: -1}
	for _, m := range marked {
		if m.mcid >= 0 {
			mc.mcid = m.mcid
		}
		if m.artifact {
			mc.artifact = true
		}
	}
	return mc
}

// show paints s with the current font and returns the advanced text matrix.
func (in *interpreter) show(gs *graphicsState, tm matrix, s []byte, marked []markedContent) matrix {
	f := gs.font
	if f == nil {
		f = in.o.loadFont(nil)
		gs.font = f
	}
	glyphs := f.decode(s)
	if len(glyphs) == 0 {
		return tm
	}
	m := tm.mul(gs.ctm)
	fs := gs.fontSize
	lo, hi := gs.rise-0.2*fs, gs.rise+0.8*fs

	var (
		run  = textRun{color: gs.fill, bold: f.bold, sizePt: math.Abs(fs) * m.verticalScale()}
		text strings.Builder
		cur  word
		x    float64
	)
	flush := func() {
		if cur.text != "" {
			run.words = append(run.words, cur)
		}
		cur = word{}
	}
	for _, g := range glyphs {
		w := g.width / 1000 * fs * gs.hScale
		run.box.addRect(m, x, lo, x+w, hi)
		text.WriteString(g.text)
		if strings.TrimSpace(g.text) == "" {
			flush()
		} else {
			cur.text += g.text
			cur.box.addRect(m, x, lo, x+w, hi)
		}
		adv := g.width/1000*fs + gs.charSpace
		if f.codeBytes == 1 && g.code == 32 {
			adv += gs.wordSpace
		}
		x += adv * gs.hScale
	}
	flush()

	mc := current(marked)
	run.text = text.String()
	run.mcid = mc.mcid
	run.artifact = mc.artifact
	in.seq++
	run.seq = in.seq
	in.out.runs = append(in.out.runs, run)
	return translate(x, 0).mul(tm)
}

func (in *interpreter) xobject(name string, resources types.Dict, gs graphicsState, marked []markedContent) {
	xobjects := in.o.dict(in.o.entry(resources, "XObject"))
	raw, ok := xobjects.Find(name)
	if !ok {
		return
	}
	switch d := in.o.dict(raw); in.o.name(in.o.entry(d, "Subtype")) {
	case "Image":
		w, _ := in.o.integer(in.o.entry(d, "Width"))
		h, _ := in.o.integer(in.o.entry(d, "Height"))
		in.image(gs.ctm, w, h, marked)
	case "Form":
		nr := objNr(raw)
		if in.depth >= maxFormDepth || (nr > 0 && in.forms[nr]) {
			return
		}
		content, _, ok := in.o.stream(raw)
		if !ok {
			return
		}
		form := identity
		if arr := in.o.array(in.o.entry(d, "Matrix")); len(arr) == 6 {
			for i, v := range arr {
				form[i], _ = in.o.number(v)
			}
		}
		res := in.o.dict(in.o.entry(d, "Resources"))
		if res == nil {
			res = resources
		}
		in.depth++
		in.forms[nr] = true
		gs.ctm = form.mul(gs.ctm)
		in.run(content, res, gs, marked)
		delete(in.forms, nr)
		in.depth--
	}
}

func (in *interpreter) image(ctm matrix, w, h int, marked []markedContent) {
	var box bbox
	box.addRect(ctm, 0, 0, 1, 1)
	mc := current(marked)
	in.out.images = append(in.out.images, imageUse{box: box, width: w, height: h, mcid: mc.mcid, artifact: mc.artifact})
}

// inlineImageSize reads /W and /H from the key/value operands of BI ... ID.
func inlineImageSize(operands []any) (w, h int) {
	for i := 0; i+1 < len(operands); i += 2 {
		key, ok := operands[i].(opName)
		if !ok {
			continue
		}
		v, _ := number(operands[i+1])
		switch key {
		case "W", "Width":
			w = int(v)
		case "H", "Height":
			h = int(v)
		}
	}
	return w, h
}
