package turtle

import "github.com/lsysgo/lsys/internal/geom"

// ColorKind tags which arm of Color is populated.
type ColorKind uint8

const (
	ColorIndex ColorKind = iota
	ColorRGB
)

// Color is a tagged union of a palette index or an RGB triple,
// grounded on original_source/Turtle.h's Color struct (a C union
// wearing a type tag). GetGrayLevel/GetRGBColor let a generator
// interpret either arm as whichever representation it needs.
type Color struct {
	kind ColorKind
	idx  int
	rgb  geom.Vector3
}

// NewIndexColor returns a palette-index color.
func NewIndexColor(i int) Color { return Color{kind: ColorIndex, idx: i} }

// NewRGBColor returns an RGB color, each component conventionally in
// [0,1].
func NewRGBColor(v geom.Vector3) Color { return Color{kind: ColorRGB, rgb: v} }

// Kind reports which arm is populated.
func (c Color) Kind() ColorKind { return c.kind }

// Index returns the palette index and true only for an index color.
func (c Color) Index() (int, bool) {
	if c.kind != ColorIndex {
		return 0, false
	}
	return c.idx, true
}

// RGB returns the raw RGB triple and true only for an RGB color.
func (c Color) RGB() (geom.Vector3, bool) {
	if c.kind != ColorRGB {
		return geom.Vector3{}, false
	}
	return c.rgb, true
}

// GrayLevel forces interpretation as a [0,1] grayscale intensity.
// Grounded verbatim on turtle.cpp's Color::GetGrayLevel: an index color
// is scaled by 1/100 (palettes are conventionally 0..100), an RGB color
// is luma-weighted 0.3R + 0.6G + 0.1B.
func (c Color) GrayLevel() float64 {
	if c.kind == ColorIndex {
		return float64(c.idx) / 100.0
	}
	return 0.3*c.rgb.X + 0.6*c.rgb.Y + 0.1*c.rgb.Z
}

// RGBColor forces interpretation as an RGB triple: an index color maps
// to its gray level replicated across all three channels, matching
// turtle.cpp's Color::GetRGBColor.
func (c Color) RGBColor() geom.Vector3 {
	if c.kind == ColorRGB {
		return c.rgb
	}
	g := c.GrayLevel()
	return geom.Vector3{X: g, Y: g, Z: g}
}

// Equal reports whether c and other denote the same color: colors of
// different kinds are never equal, index colors compare by index and
// RGB colors by their triples (turtle.cpp's operator==).
func (c Color) Equal(other Color) bool {
	if c.kind != other.kind {
		return false
	}
	if c.kind == ColorIndex {
		return c.idx == other.idx
	}
	return c.RGBColor() == other.RGBColor()
}
