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

const radiancePrecision = 5

// Radiance is a Radiance-scene-description backend: line segments
// become cone+sphere pairs, polygons and drawn objects become named
// object groups, attribute changes are silently absorbed (Radiance
// materials are per-group, assigned once at emission, not toggled by a
// separate stateful call). Grounded on
// original_source/src/RadianceGenerator.cpp, including its "revert to
// right-handed coordinate system" axis swap in OutputVec.
type Radiance struct {
	scene  *bufio.Writer
	bounds *bufio.Writer
	sceneC io.Closer
	in     *names.Interner

	groupNum int

	lastPos   geom.Vector3
	lastWidth float64
}

var _ Generator = (*Radiance)(nil)

// NewRadiance writes the scene description to scene and the bounds
// report to bounds, matching the original's two-file output
// (-o PATH and -b PATH).
func NewRadiance(scene, bounds io.Writer, in *names.Interner) *Radiance {
	r := &Radiance{
		scene:  bufio.NewWriter(scene),
		bounds: bufio.NewWriter(bounds),
		in:     in,
	}
	if c, ok := scene.(io.Closer); ok {
		r.sceneC = c
	}
	return r
}

func (r *Radiance) SetHeader(header string) error {
	fmt.Fprintf(r.scene, "Start_Comment\n\n%s\nEnd_Comment\n\n\n", header)
	return nil
}

func (r *Radiance) SetName(name string) error { return nil }

func (r *Radiance) Prelude(t *turtle.Turtle) error {
	r.groupNum = 0
	r.lastPos = t.Location()
	r.lastWidth = t.CurrentWidth()
	return nil
}

func (r *Radiance) Postscript(t *turtle.Turtle) error {
	b := t.Bounds()
	fmt.Fprintf(r.bounds, "start\n  %s\n\n", radianceVec(geom.Vector3{}))
	fmt.Fprintf(r.bounds, "bounds\n  min: %s\n  max: %s\n\n\n", radianceVecWide(b.Min), radianceVecWide(b.Max))
	if err := r.bounds.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(r.scene, "\n\nRADEND\n")
	if err := r.scene.Flush(); err != nil {
		return err
	}
	if r.sceneC != nil {
		return r.sceneC.Close()
	}
	return nil
}

func (r *Radiance) StartGraphics(t *turtle.Turtle) error { return nil }
func (r *Radiance) FlushGraphics(t *turtle.Turtle) error { return nil }

func (r *Radiance) MoveTo(t *turtle.Turtle) error {
	r.lastPos = t.Location()
	r.lastWidth = t.CurrentWidth()
	return nil
}

func (r *Radiance) LineTo(t *turtle.Turtle) error {
	start := r.lastPos
	end := t.Location()
	length := end.Sub(start).Length()
	startRadius := (0.5 * r.lastWidth * length) / 100.0
	endRadius := (0.5 * t.CurrentWidth() * length) / 100.0

	r.groupNum++
	fmt.Fprintf(r.scene, "Start_Object_Group %d\n", r.groupNum)
	r.writeMaterials(t)
	fmt.Fprintf(r.scene, "  cone\n    %s\n    %s\n    %.5f %.5f\n\n",
		radianceVec(start), radianceVec(end), startRadius, endRadius)
	fmt.Fprintf(r.scene, "  sphere\n    %s\n    %.5f\n\n", radianceVec(end), endRadius)
	fmt.Fprintf(r.scene, "End_Object_Group %d\n\n\n", r.groupNum)

	r.lastPos = end
	r.lastWidth = t.CurrentWidth()
	return nil
}

func (r *Radiance) Polygon(t *turtle.Turtle, verts []geom.Vector3) error {
	r.groupNum++
	fmt.Fprintf(r.scene, "Start_Object_Group %d\n", r.groupNum)
	r.writeMaterials(t)
	fmt.Fprintf(r.scene, "  polygon\n  vertices: %d\n", len(verts))
	for _, v := range verts {
		fmt.Fprintf(r.scene, "    %s\n", radianceVec(v))
	}
	fmt.Fprintf(r.scene, "\nEnd_Object_Group %d\n\n\n", r.groupNum)
	return nil
}

func (r *Radiance) DrawObject(t *turtle.Turtle, mod modules.Module, args []float64) error {
	r.groupNum++
	fmt.Fprintf(r.scene, "Start_Object_Group %d\n", r.groupNum)
	r.writeMaterials(t)
	fmt.Fprintf(r.scene, " object\n")
	fmt.Fprintf(r.scene, "   Name: %s\n", objectName(r.in, mod))
	fmt.Fprintf(r.scene, "   LineWidth: %.5f\n", t.CurrentWidth())
	fmt.Fprintf(r.scene, "   LineDistance: %.5f\n", t.DefaultDistance())
	fmt.Fprintf(r.scene, "   ContactPoint: %s\n", radianceVec(r.lastPos))
	fmt.Fprintf(r.scene, "   Heading: %s\n", radianceVec(t.Heading()))
	fmt.Fprintf(r.scene, "   Left: %s\n", radianceVec(t.Left()))
	fmt.Fprintf(r.scene, "   Up: %s\n", radianceVec(t.Up()))
	fmt.Fprintf(r.scene, "   nargs: %d\n", len(args))
	for _, a := range args {
		fmt.Fprintf(r.scene, "     %.5f\n", a)
	}
	fmt.Fprintf(r.scene, "\nEnd_Object_Group %d\n\n\n", r.groupNum)
	return nil
}

// SetColor/SetBackColor/SetTexture/SetWidth are no-ops: Radiance
// materials are assigned once per object group at emission time
// (writeMaterials), not toggled independently mid-stream.
func (r *Radiance) SetColor(t *turtle.Turtle) error     { return nil }
func (r *Radiance) SetBackColor(t *turtle.Turtle) error { return nil }
func (r *Radiance) SetTexture(t *turtle.Turtle) error   { return nil }
func (r *Radiance) SetWidth(t *turtle.Turtle) error     { return nil }

func (r *Radiance) Close() error {
	if err := r.scene.Flush(); err != nil {
		return err
	}
	if err := r.bounds.Flush(); err != nil {
		return err
	}
	if r.sceneC != nil {
		return r.sceneC.Close()
	}
	return nil
}

func (r *Radiance) writeMaterials(t *turtle.Turtle) {
	front, _ := t.CurrentColor().Index()
	back, _ := t.CurrentBackColor().Index()
	fmt.Fprintf(r.scene, "  FrontMaterial: %d\n  FrontTexture: %d\n  BackMaterial: %d\n  BackTexture: %d\n\n",
		front, t.CurrentTexture(), back, t.CurrentTexture())
}

// radianceVec swaps into a right-handed coordinate system the way
// OutputVec does: (-Z, Y, -X).
func radianceVec(v geom.Vector3) string {
	return fmt.Sprintf("%10.5f %10.5f %10.5f", -v.Z, v.Y, -v.X)
}

// radianceVecWide formats a bounding-box corner for the bounds report,
// which (unlike every other coordinate in this backend) is NOT put
// through the right-handed axis swap in the original.
func radianceVecWide(v geom.Vector3) string {
	return fmt.Sprintf("%12.5f %12.5f %12.5f", v.X, v.Y, v.Z)
}
