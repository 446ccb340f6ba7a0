// Package coords maps issue rectangles from document points onto the pixel
// surface a page image is displayed on.
//
// Input rects are top-left origin with y growing downward, so each stage is
// a plain multiply with no axis flip.
package coords

import (
	"fmt"
	"math"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

// PixelRect is a rectangle on the raster or display surface.
type PixelRect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (r PixelRect) Width() float64  { return r.X1 - r.X0 }
func (r PixelRect) Height() float64 { return r.Y1 - r.Y0 }

// Size is a surface size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Mapper chains the points-to-raster and raster-to-display scalings.
type Mapper struct {
	RasterScale  float64
	DisplayScale float64
}

// New validates both factors.
func New(rasterScale, displayScale float64) (Mapper, error) {
	if !positive(rasterScale) {
		return Mapper{}, fmt.Errorf("raster scale must be positive, got %v", rasterScale)
	}
	if !positive(displayScale) {
		return Mapper{}, fmt.Errorf("display scale must be positive, got %v", displayScale)
	}
	return Mapper{RasterScale: rasterScale, DisplayScale: displayScale}, nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) }

// Factor is the combined points-to-display multiplier.
func (m Mapper) Factor() float64 { return m.RasterScale * m.DisplayScale }

// Map returns rect × rasterScale × displayScale after clamping it to the page.
func (m Mapper) Map(rect a11y.Rect, page a11y.Dims) PixelRect {
	r := rect.Clamp(page.Width, page.Height)
	toRaster := scale(PixelRect{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y1}, m.RasterScale)
	return scale(toRaster, m.DisplayScale)
}

// RasterSize is the pixel size of the page rendered at the raster scale.
func (m Mapper) RasterSize(page a11y.Dims) Size {
	return Size{
		Width:  int(math.Round(page.Width * m.RasterScale)),
		Height: int(math.Round(page.Height * m.RasterScale)),
	}
}

// DisplaySize is the pixel size of the page on the display surface.
func (m Mapper) DisplaySize(page a11y.Dims) Size {
	return Size{
		Width:  int(math.Round(page.Width * m.Factor())),
		Height: int(math.Round(page.Height * m.Factor())),
	}
}

// DPI is the rendering resolution equivalent to the raster scale.
func (m Mapper) DPI() int { return DPIForScale(m.RasterScale) }

// DPIForScale converts a points-to-pixel factor into dots per inch.
func DPIForScale(scale float64) int { return int(math.Round(scale * 72)) }

func scale(r PixelRect, f float64) PixelRect {
	return PixelRect{X0: r.X0 * f, Y0: r.Y0 * f, X1: r.X1 * f, Y1: r.Y1 * f}
}
