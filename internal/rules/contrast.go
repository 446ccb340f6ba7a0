package rules

import (
	"math"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

const (
	normalTextRatio = 4.5
	largeTextRatio  = 3.0

	// Runs smaller than this are treated as decorative and not checked.
	minCheckedFontSize = 8.0
)

// RelativeLuminance implements the WCAG 2.1 relative luminance of an sRGB color.
func RelativeLuminance(c a11y.Color) float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.04045 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns (L1+0.05)/(L2+0.05) with L1 the lighter luminance.
// The result is in [1, 21].
func ContrastRatio(a, b a11y.Color) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// IsLargeText reports whether WCAG treats the run as large: at least 18pt,
// or at least 14pt and bold.
func IsLargeText(sizePt float64, bold bool) bool {
	return sizePt >= 18 || (sizePt >= 14 && bold)
}

// RequiredRatio returns the minimum contrast for text of the given size.
func RequiredRatio(sizePt float64, bold bool) float64 {
	if IsLargeText(sizePt, bold) {
		return largeTextRatio
	}
	return normalTextRatio
}

// MeetsContrast reports whether ratio satisfies required; the threshold
// itself passes.
func MeetsContrast(ratio, required float64) bool {
	return ratio >= required
}
