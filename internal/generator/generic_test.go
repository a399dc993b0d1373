package generator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lsysgo/lsys/internal/generator"
	"github.com/lsysgo/lsys/internal/geom"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/turtle"
)

func TestGenericPreludeWritesNameAndHeader(t *testing.T) {
	var buf bytes.Buffer
	in := names.NewInterner()
	g := generator.NewGeneric(&buf, in)
	if err := g.SetName("koch"); err != nil {
		t.Fatalf("SetName() error: %v", err)
	}
	if err := g.SetHeader("classic fractal"); err != nil {
		t.Fatalf("SetHeader() error: %v", err)
	}
	tur := turtle.New(90, 1)
	if err := g.Prelude(tur); err != nil {
		t.Fatalf("Prelude() error: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "# koch") {
		t.Errorf("Prelude() output missing name: %q", out)
	}
	if !strings.Contains(out, "# classic fractal") {
		t.Errorf("Prelude() output missing header: %q", out)
	}
	if !strings.Contains(out, "Start File") {
		t.Errorf("Prelude() output missing Start File marker: %q", out)
	}
}

func TestGenericMoveAndLineEmitCoordinates(t *testing.T) {
	var buf bytes.Buffer
	in := names.NewInterner()
	g := generator.NewGeneric(&buf, in)
	tur := turtle.New(90, 1)
	tur.MoveBy(2)

	if err := g.MoveTo(tur); err != nil {
		t.Fatalf("MoveTo() error: %v", err)
	}
	if err := g.LineTo(tur); err != nil {
		t.Fatalf("LineTo() error: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "move") || !strings.Contains(out, "line") {
		t.Fatalf("output missing move/line records: %q", out)
	}
}

func TestGenericPolygonEmitsClosedLoop(t *testing.T) {
	var buf bytes.Buffer
	in := names.NewInterner()
	g := generator.NewGeneric(&buf, in)
	tur := turtle.New(90, 1)

	verts := []geom.Vector3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}}
	if err := g.Polygon(tur, verts); err != nil {
		t.Fatalf("Polygon() error: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "vertices: 4") {
		t.Fatalf("Polygon() should report 4 vertex lines (3 + closing repeat): %q", out)
	}
	if strings.Count(out, "Start Group") != 1 {
		t.Fatalf("expected exactly one Start Group block: %q", out)
	}
}

func TestGenericDrawObjectStripsTilde(t *testing.T) {
	var buf bytes.Buffer
	in := names.NewInterner()
	g := generator.NewGeneric(&buf, in)
	tur := turtle.New(90, 1)

	mod := modules.New(in.Intern("~chair"), nil, false)
	if err := g.DrawObject(tur, mod, []float64{1, 2}); err != nil {
		t.Fatalf("DrawObject() error: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "object chair") {
		t.Fatalf("DrawObject() should strip the leading ~: %q", out)
	}
	if strings.Contains(out, "~chair") {
		t.Fatalf("DrawObject() output should not contain the raw module name: %q", out)
	}
}

func TestGenericSetColorIndexed(t *testing.T) {
	var buf bytes.Buffer
	in := names.NewInterner()
	g := generator.NewGeneric(&buf, in)
	tur := turtle.New(90, 1)
	tur.SetColorIndex(3)

	if err := g.SetColor(tur); err != nil {
		t.Fatalf("SetColor() error: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if got := buf.String(); strings.TrimSpace(got) != "color 3" {
		t.Fatalf("SetColor() output = %q; want \"color 3\"", got)
	}
}

func TestGenericCloseFlushesWithoutClosingNonCloser(t *testing.T) {
	var buf bytes.Buffer
	in := names.NewInterner()
	g := generator.NewGeneric(&buf, in)
	if err := g.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}
