package extract

import (
	"math"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

// matrix is a PDF transformation [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m × n: apply m first, then n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translate(tx, ty float64) matrix { return matrix{1, 0, 0, 1, tx, ty} }

// verticalScale is the length of the transformed unit y vector, used to
// turn a font size into points on the page.
func (m matrix) verticalScale() float64 { return math.Hypot(m[2], m[3]) }

// bbox accumulates user-space points into a bounding box.
type bbox struct {
	minX, minY, maxX, maxY float64
	ok                     bool
}

func (b *bbox) add(x, y float64) {
	if !b.ok {
		b.minX, b.maxX, b.minY, b.maxY, b.ok = x, x, y, y, true
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// addRect adds the four corners of the box (x0,y0)-(x1,y1) under m.
func (b *bbox) addRect(m matrix, x0, y0, x1, y1 float64) {
	for _, p := range [4][2]float64{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		b.add(m.apply(p[0], p[1]))
	}
}

// pageFrame converts default user space to the displayed page: top-left
// origin, y down, /Rotate applied, clipped to the visible box.
type pageFrame struct {
	llx, lly, urx, ury float64
	rotate             int
}

func newPageFrame(box [4]float64, rotate int) pageFrame {
	r := ((rotate % 360) + 360) % 360
	r -= r % 90
	return pageFrame{
		llx: math.Min(box[0], box[2]), lly: math.Min(box[1], box[3]),
		urx: math.Max(box[0], box[2]), ury: math.Max(box[1], box[3]),
		rotate: r,
	}
}

// size is the displayed width and height in points.
func (f pageFrame) size() (float64, float64) {
	w, h := f.urx-f.llx, f.ury-f.lly
	if f.rotate == 90 || f.rotate == 270 {
		return h, w
	}
	return w, h
}

// point maps a user-space point to display space.
func (f pageFrame) point(x, y float64) (float64, float64) {
	w, h := f.urx-f.llx, f.ury-f.lly
	ux, uy := x-f.llx, f.ury-y
	switch f.rotate {
	case 90:
		return h - uy, ux
	case 180:
		return w - ux, h - uy
	case 270:
		return uy, w - ux
	}
	return ux, uy
}

// rect maps a user-space bounding box to a clamped display rect.
func (f pageFrame) rect(b bbox) a11y.Rect {
	ax, ay := f.point(b.minX, b.minY)
	bx, by := f.point(b.maxX, b.maxY)
	w, h := f.size()
	return a11y.NewRect(ax, ay, bx, by).Clamp(w, h)
}

// visible reports whether b overlaps the page at all.
func (f pageFrame) visible(b bbox) bool {
	return b.ok && b.maxX > f.llx && b.minX < f.urx && b.maxY > f.lly && b.minY < f.ury
}
