// Package a11y holds the document model shared by the extractor, the rule
// engine, scoring and the session layer.
//
// All geometry is in document points with a top-left origin and y growing
// downward, in the displayed (rotation-applied) frame of the page.
package a11y

import (
	"encoding/json"
	"fmt"
	"math"
)

// Rect is an axis-aligned box (x0,y0) - (x1,y1) with x0 <= x1 and y0 <= y1.
// It marshals as a JSON array [x0, y0, x1, y1].
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect builds a normalized rect from two arbitrary corners.
func NewRect(ax, ay, bx, by float64) Rect {
	return Rect{
		X0: math.Min(ax, bx),
		Y0: math.Min(ay, by),
		X1: math.Max(ax, bx),
		Y1: math.Max(ay, by),
	}
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Union returns the smallest rect covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// Inset grows (negative d) or shrinks (positive d) the rect on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X0: r.X0 + d, Y0: r.Y0 + d, X1: r.X1 - d, Y1: r.Y1 - d}
}

// Clamp restricts the rect to [0,w]x[0,h].
func (r Rect) Clamp(w, h float64) Rect {
	c := func(v, hi float64) float64 { return math.Max(0, math.Min(v, hi)) }
	return Rect{X0: c(r.X0, w), Y0: c(r.Y0, h), X1: c(r.X1, w), Y1: c(r.Y1, h)}
}

// Within reports whether the rect lies inside [0,w]x[0,h].
func (r Rect) Within(w, h float64) bool {
	return r.X0 >= 0 && r.Y0 >= 0 && r.X1 <= w && r.Y1 <= h && r.X0 <= r.X1 && r.Y0 <= r.Y1
}

func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{round2(r.X0), round2(r.Y0), round2(r.X1), round2(r.Y1)})
}

func (r *Rect) UnmarshalJSON(data []byte) error {
	var v [4]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rect must be [x0,y0,x1,y1]: %w", err)
	}
	*r = NewRect(v[0], v[1], v[2], v[3])
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Color is an sRGB color with 8-bit channels.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// Hex formats the color as #RRGGBB.
func (c Color) Hex() string { return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B) }

func (c Color) MarshalJSON() ([]byte, error) { return json.Marshal(c.Hex()) }

// Dims is a page size in points.
type Dims struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Image is a raster image painted on a page.
type Image struct {
	Rect         Rect `json:"rect"`
	HasAltText   bool `json:"has_alt_text"`
	IsDecorative bool `json:"is_decorative"`
}

// TextRun is one shown string with its rendering attributes.
type TextRun struct {
	Rect       Rect    `json:"rect"`
	Text       string  `json:"text"`
	Foreground Color   `json:"foreground"`
	Background Color   `json:"background"`
	FontSizePt float64 `json:"font_size_pt"`
	Bold       bool    `json:"bold"`
}

// Link is a link annotation with the visible text it covers.
type Link struct {
	Rect Rect   `json:"rect"`
	Text string `json:"text"`
	URI  string `json:"uri,omitempty"`
}

// FormField is an interactive widget annotation.
type FormField struct {
	Rect              Rect   `json:"rect"`
	FieldType         string `json:"field_type,omitempty"`
	HasAccessibleName bool   `json:"has_accessible_name"`
}

// Heading is a heading structure element located on a page.
type Heading struct {
	Level int  `json:"level"`
	Rect  Rect `json:"rect"`
}

// Bookmark is one outline entry; Level 0 is top level.
type Bookmark struct {
	Title string `json:"title"`
	Level int    `json:"level"`
}

// StructNode is a node of the logical structure tree.
type StructNode struct {
	Type     string        `json:"type"`
	Alt      string        `json:"alt,omitempty"`
	Children []*StructNode `json:"children,omitempty"`
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *StructNode) Walk(fn func(*StructNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// PageInfo is the per-page part of a Snapshot. Index is 0-based.
type PageInfo struct {
	Index                    int         `json:"index"`
	WidthPt                  float64     `json:"width_pt"`
	HeightPt                 float64     `json:"height_pt"`
	Images                   []Image     `json:"images"`
	TextRuns                 []TextRun   `json:"text_runs"`
	Links                    []Link      `json:"links"`
	FormFields               []FormField `json:"form_fields"`
	Headings                 []Heading   `json:"headings"`
	TabOrderMatchesStructure bool        `json:"tab_order_matches_structure"`
	TabOrder                 string      `json:"tab_order,omitempty"`
}

// Dims returns the page size.
func (p PageInfo) Dims() Dims { return Dims{Width: p.WidthPt, Height: p.HeightPt} }

// Snapshot is the structural view of a document produced by one analysis
// pass. Absent values are represented as empty strings, nil trees and empty
// slices; none of them is an error.
type Snapshot struct {
	Title         string      `json:"title,omitempty"`
	Language      string      `json:"language,omitempty"`
	Tagged        bool        `json:"tagged"`
	StructureTree *StructNode `json:"structure_tree,omitempty"`
	Bookmarks     []Bookmark  `json:"bookmarks"`
	Pages         []PageInfo  `json:"pages"`
}

// PageCount returns the number of pages.
func (s *Snapshot) PageCount() int { return len(s.Pages) }

// PageDims returns the size of every page in order.
func (s *Snapshot) PageDims() []Dims {
	dims := make([]Dims, len(s.Pages))
	for i, p := range s.Pages {
		dims[i] = p.Dims()
	}
	return dims
}
