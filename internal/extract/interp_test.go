package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

func interpret(t *testing.T, content string) *pageContent {
	t.Helper()
	in := newInterpreter(objects{})
	in.run([]byte(content), nil, initialState(identity), nil)
	return in.out
}

func TestLexer(t *testing.T) {
	l := &lexer{data: []byte(`/F1 12 Tf (a\)b) Tj <48 69> [1 -2.5 (x)] << /MCID 3 >> true % comment
ET`)}
	var (
		ops      []string
		operands []any
	)
	for {
		obj, op, ok := l.next()
		if !ok {
			break
		}
		if op != "" {
			ops = append(ops, op)
			continue
		}
		operands = append(operands, obj)
	}
	assert.Equal(t, []string{"Tf", "Tj", "ET"}, ops)
	require.Len(t, operands, 7)
	assert.Equal(t, opName("F1"), operands[0])
	assert.Equal(t, 12.0, operands[1])
	assert.Equal(t, opString("a)b"), operands[2])
	assert.Equal(t, opString("Hi"), operands[3])
	assert.Equal(t, opArray{1.0, -2.5, opString("x")}, operands[4])
	assert.Equal(t, opDict{"MCID": 3.0}, operands[5])
	assert.Equal(t, opBool(true), operands[6])
}

func TestLexer_InlineImage(t *testing.T) {
	out := interpret(t, "q 20 0 0 20 100 100 cm BI /W 4 /H 4 /CS /G /BPC 8 ID \x00\x01EI\x02\x03 EI Q BT /F1 12 Tf (after) Tj ET")
	require.Len(t, out.images, 1)
	assert.Equal(t, 4, out.images[0].width)
	require.Len(t, out.runs, 1)
	assert.Equal(t, "after", out.runs[0].text)
}

func TestInterpreter_TextGeometry(t *testing.T) {
	out := interpret(t, "BT /F1 12 Tf 72 700 Td (Hello World) Tj ET")
	require.Len(t, out.runs, 1)
	run := out.runs[0]
	assert.Equal(t, "Hello World", run.text)
	assert.InDelta(t, 12, run.sizePt, 1e-9)
	assert.Equal(t, a11y.Black, run.color)
	// 11 glyphs at the default 500/1000 em.
	assert.InDelta(t, 72, run.box.minX, 1e-9)
	assert.InDelta(t, 72+66, run.box.maxX, 1e-9)
	assert.InDelta(t, 700-2.4, run.box.minY, 1e-9)
	assert.InDelta(t, 700+9.6, run.box.maxY, 1e-9)
	require.Len(t, run.words, 2)
	assert.Equal(t, "Hello", run.words[0].text)
	assert.Equal(t, "World", run.words[1].text)
}

func TestInterpreter_ScaledText(t *testing.T) {
	out := interpret(t, "q 2 0 0 2 0 0 cm BT /F1 9 Tf 1 0 0 1 10 10 Tm (big) Tj ET Q")
	require.Len(t, out.runs, 1)
	assert.InDelta(t, 18, out.runs[0].sizePt, 1e-9)
	assert.InDelta(t, 20, out.runs[0].box.minX, 1e-9)
}

func TestInterpreter_TJAndLeading(t *testing.T) {
	out := interpret(t, "BT /F1 10 Tf 14 TL 100 500 Td [(A) -1000 (B)] TJ T* (C) Tj ET")
	require.Len(t, out.runs, 3)
	// A is 5pt wide, then a 10pt kern.
	assert.InDelta(t, 115, out.runs[1].box.minX, 1e-9)
	assert.InDelta(t, 100, out.runs[2].box.minX, 1e-9)
	assert.InDelta(t, 486-2, out.runs[2].box.minY, 1e-9)
}

func TestInterpreter_Colors(t *testing.T) {
	tests := []struct {
		name string
		op   string
		want a11y.Color
	}{
		{"gray", "0.5 g", a11y.Color{R: 128, G: 128, B: 128}},
		{"rgb", "1 0 0 rg", a11y.Color{R: 255}},
		{"cmyk", "0 0 0 1 k", a11y.Black},
		{"cmyk cyan", "1 0 0 0 k", a11y.Color{G: 255, B: 255}},
		{"device rgb scn", "/DeviceRGB cs 0 0 1 scn", a11y.Color{B: 255}},
		{"unknown space", "/CS0 cs 0.2 0.4 0.6 sc", a11y.Color{R: 51, G: 102, B: 153}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := interpret(t, tt.op+" BT /F1 12 Tf (x) Tj ET")
			require.Len(t, out.runs, 1)
			assert.Equal(t, tt.want, out.runs[0].color)
		})
	}
}

func TestInterpreter_FillsAndState(t *testing.T) {
	out := interpret(t, "q 0 0 1 rg 10 10 100 50 re f Q 20 20 m 40 60 l S BT /F1 12 Tf (x) Tj ET")
	require.Len(t, out.fills, 1)
	f := out.fills[0]
	assert.Equal(t, a11y.Color{B: 255}, f.color)
	assert.Equal(t, bbox{minX: 10, minY: 10, maxX: 110, maxY: 60, ok: true}, f.box)
	require.Len(t, out.runs, 1)
	// Q restored the black fill.
	assert.Equal(t, a11y.Black, out.runs[0].color)
	assert.Greater(t, out.runs[0].seq, f.seq)
}

func TestInterpreter_MarkedContent(t *testing.T) {
	out := interpret(t, `/P <</MCID 4>> BDC BT /F1 12 Tf (a) Tj ET EMC
/Artifact BMC BT /F1 12 Tf (b) Tj ET EMC
/Span <</Lang (en)>> BDC BT /F1 12 Tf (c) Tj ET EMC EMC EMC`)
	require.Len(t, out.runs, 3)
	assert.Equal(t, 4, out.runs[0].mcid)
	assert.False(t, out.runs[0].artifact)
	assert.Equal(t, -1, out.runs[1].mcid)
	assert.True(t, out.runs[1].artifact)
	assert.Equal(t, -1, out.runs[2].mcid)
	assert.False(t, out.runs[2].artifact)
}

func TestParseToUnicode(t *testing.T) {
	cmap := []byte(`/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
1 begincodespacerange <0000> <FFFF> endcodespacerange
2 beginbfchar
<0003> <0020>
<0011> <0048>
endbfchar
1 beginbfrange
<0020> <0022> <0061>
endbfrange
endcmap`)
	f := &font{codeBytes: 1}
	m := parseToUnicode(cmap, f)
	assert.Equal(t, 2, f.codeBytes)
	assert.Equal(t, " ", m[0x03])
	assert.Equal(t, "H", m[0x11])
	assert.Equal(t, "a", m[0x20])
	assert.Equal(t, "c", m[0x22])

	f.toUnicode = m
	f.defaultWidth = 1000
	glyphs := f.decode([]byte{0x00, 0x11, 0x00, 0x20})
	require.Len(t, glyphs, 2)
	assert.Equal(t, "H", glyphs[0].text)
	assert.Equal(t, "a", glyphs[1].text)
}

func TestFontWidths(t *testing.T) {
	f := &font{codeBytes: 1, firstChar: 65, widths: []float64{722, 0}, defaultWidth: 500}
	assert.Equal(t, 722.0, f.width('A'))
	assert.Equal(t, 500.0, f.width('B'))
	assert.Equal(t, 500.0, f.width('z'))
	assert.Equal(t, "é", f.text(0xE9))
}

func TestPageFrame(t *testing.T) {
	box := [4]float64{0, 0, 600, 800}
	tests := []struct {
		rotate       int
		w, h         float64
		x, y         float64
		wantX, wantY float64
	}{
		{0, 600, 800, 100, 700, 100, 100},
		{90, 800, 600, 100, 700, 700, 100},
		{180, 600, 800, 100, 700, 500, 700},
		{270, 800, 600, 100, 700, 100, 500},
		{-90, 800, 600, 100, 700, 100, 500},
	}
	for _, tt := range tests {
		f := newPageFrame(box, tt.rotate)
		w, h := f.size()
		assert.Equal(t, tt.w, w, "rotate %d", tt.rotate)
		assert.Equal(t, tt.h, h, "rotate %d", tt.rotate)
		x, y := f.point(tt.x, tt.y)
		assert.InDelta(t, tt.wantX, x, 1e-9, "rotate %d", tt.rotate)
		assert.InDelta(t, tt.wantY, y, 1e-9, "rotate %d", tt.rotate)
	}
}

func TestPageFrame_CropOffset(t *testing.T) {
	f := newPageFrame([4]float64{50, 50, 550, 750}, 0)
	var b bbox
	b.add(40, 700)
	b.add(150, 760)
	assert.Equal(t, a11y.Rect{X0: 0, Y0: 0, X1: 100, Y1: 50}, f.rect(b))
}
