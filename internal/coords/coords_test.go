package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

var letter = a11y.Dims{Width: 612, Height: 792}

func TestNew_RejectsBadFactors(t *testing.T) {
	for _, tc := range []struct{ raster, display float64 }{
		{0, 1}, {1.5, 0}, {-1, 1}, {1.5, -2},
	} {
		_, err := New(tc.raster, tc.display)
		assert.Error(t, err, "raster=%v display=%v", tc.raster, tc.display)
	}
}

func TestMap_IsLinear(t *testing.T) {
	m, err := New(1.5, 0.8)
	require.NoError(t, err)

	rect := a11y.Rect{X0: 72, Y0: 100, X1: 300, Y1: 250}
	got := m.Map(rect, letter)
	f := 1.5 * 0.8
	assert.InDelta(t, 72*f, got.X0, 1e-9)
	assert.InDelta(t, 100*f, got.Y0, 1e-9)
	assert.InDelta(t, 300*f, got.X1, 1e-9)
	assert.InDelta(t, 250*f, got.Y1, 1e-9)
	assert.InDelta(t, rect.Width()*f, got.Width(), 1e-9)
}

func TestMap_Composes(t *testing.T) {
	rect := a11y.Rect{X0: 10, Y0: 20, X1: 30, Y1: 40}
	a, _ := New(2, 1)
	b, _ := New(1, 2)
	c, _ := New(4, 1)
	assert.Equal(t, c.Map(rect, letter), scale(a.Map(rect, letter), 2))
	assert.Equal(t, a.Map(rect, letter), b.Map(rect, letter))
}

func TestMap_ClampsToPage(t *testing.T) {
	m, _ := New(1, 1)
	got := m.Map(a11y.Rect{X0: -10, Y0: 700, X1: 100, Y1: 900}, letter)
	assert.Equal(t, PixelRect{X0: 0, Y0: 700, X1: 100, Y1: 792}, got)
}

func TestSizes(t *testing.T) {
	m, _ := New(1.5, 2)
	assert.Equal(t, Size{Width: 918, Height: 1188}, m.RasterSize(letter))
	assert.Equal(t, Size{Width: 1836, Height: 2376}, m.DisplaySize(letter))
	assert.Equal(t, 108, m.DPI())
}
