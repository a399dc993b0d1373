package generator

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lsysgo/lsys/internal/geom"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/turtle"
)

// Generic is the plain-text backend: a readable, line-oriented dump of
// every move/draw/attribute-change/polygon event plus a final bounds
// report. Grounded on original_source/src/generic_generator.cpp's
// output shape (indented "Start Group"/attribute/vertex blocks, a
// trailing bounds section), adapted to Go's io.Writer/bufio.Writer
// idiom instead of std::ofstream.
type Generic struct {
	w        *bufio.Writer
	closer   io.Closer
	in       *names.Interner
	groupNum int
	header   string
	name     string
}

var _ Generator = (*Generic)(nil)

// NewGeneric wraps w (and, if it implements io.Closer, arranges for
// Close to close it too). in is used only to resolve module names back
// to their source text for the "~" DrawObject events.
func NewGeneric(w io.Writer, in *names.Interner) *Generic {
	g := &Generic{w: bufio.NewWriter(w), in: in}
	if c, ok := w.(io.Closer); ok {
		g.closer = c
	}
	return g
}

func (g *Generic) SetHeader(header string) error {
	g.header = header
	return nil
}

func (g *Generic) SetName(name string) error {
	g.name = name
	return nil
}

func (g *Generic) Prelude(t *turtle.Turtle) error {
	if g.name != "" {
		fmt.Fprintf(g.w, "# %s\n", g.name)
	}
	if g.header != "" {
		fmt.Fprintf(g.w, "# %s\n", g.header)
	}
	fmt.Fprintf(g.w, "Start File\n\n")
	return nil
}

func (g *Generic) Postscript(t *turtle.Turtle) error {
	b := t.Bounds()
	fmt.Fprintf(g.w, "bounds\n  min: %s\n  max: %s\n\n", formatVec(b.Min), formatVec(b.Max))
	fmt.Fprintf(g.w, "End File\n")
	return g.w.Flush()
}

func (g *Generic) StartGraphics(t *turtle.Turtle) error { return nil }
func (g *Generic) FlushGraphics(t *turtle.Turtle) error { return nil }

func (g *Generic) MoveTo(t *turtle.Turtle) error {
	fmt.Fprintf(g.w, "move %s\n", formatVec(t.Location()))
	return nil
}

func (g *Generic) LineTo(t *turtle.Turtle) error {
	fmt.Fprintf(g.w, "line %s\n", formatVec(t.Location()))
	return nil
}

func (g *Generic) Polygon(t *turtle.Turtle, verts []geom.Vector3) error {
	g.groupNum++
	fmt.Fprintf(g.w, "Start Group %d\n", g.groupNum)
	g.writeAttributes(t)
	fmt.Fprintf(g.w, "  polygon\n  vertices: %d\n", len(verts)+1)
	for _, v := range verts {
		fmt.Fprintf(g.w, "    %s\n", formatVec(v))
	}
	if len(verts) > 0 {
		fmt.Fprintf(g.w, "    %s\n", formatVec(verts[0]))
	}
	fmt.Fprintf(g.w, "End Group %d\n", g.groupNum)
	return nil
}

func (g *Generic) DrawObject(t *turtle.Turtle, mod modules.Module, args []float64) error {
	fmt.Fprintf(g.w, "object %s args=%v at %s\n", objectName(g.in, mod), args, formatVec(t.Location()))
	return nil
}

func (g *Generic) SetColor(t *turtle.Turtle) error {
	fmt.Fprintf(g.w, "color %s\n", formatColor(t.CurrentColor()))
	return nil
}

func (g *Generic) SetBackColor(t *turtle.Turtle) error {
	fmt.Fprintf(g.w, "backcolor %s\n", formatColor(t.CurrentBackColor()))
	return nil
}

func (g *Generic) SetTexture(t *turtle.Turtle) error {
	fmt.Fprintf(g.w, "texture %d\n", t.CurrentTexture())
	return nil
}

func (g *Generic) SetWidth(t *turtle.Turtle) error {
	fmt.Fprintf(g.w, "width %.5f\n", t.CurrentWidth())
	return nil
}

func (g *Generic) Close() error {
	if err := g.w.Flush(); err != nil {
		return err
	}
	if g.closer != nil {
		return g.closer.Close()
	}
	return nil
}

func (g *Generic) writeAttributes(t *turtle.Turtle) {
	fmt.Fprintf(g.w, "  FrontMaterial: %s\n", formatColor(t.CurrentColor()))
	fmt.Fprintf(g.w, "  FrontTexture: %d\n", t.CurrentTexture())
	fmt.Fprintf(g.w, "  BackMaterial: %s\n", formatColor(t.CurrentBackColor()))
	fmt.Fprintf(g.w, "  Width: %.5f\n", t.CurrentWidth())
}

func formatVec(v geom.Vector3) string {
	return fmt.Sprintf("%10.5f %10.5f %10.5f", v.X, v.Y, v.Z)
}

// objectName resolves mod's interned name and strips the conventional
// leading "~" that marks an object-drawing module, matching
// RadianceGenerator.cpp's `mod.GetName().str().erase(0, 1)`.
func objectName(in *names.Interner, mod modules.Module) string {
	s := in.Lookup(mod.Name)
	if len(s) > 0 && s[0] == '~' {
		return s[1:]
	}
	return s
}

func formatColor(c turtle.Color) string {
	if i, ok := c.Index(); ok {
		return fmt.Sprintf("%d", i)
	}
	rgb := c.RGBColor()
	return fmt.Sprintf("rgb(%.3f,%.3f,%.3f)", rgb.X, rgb.Y, rgb.Z)
}
