package interpreter_test

import (
	"testing"

	"github.com/lsysgo/lsys/internal/ast"
	"github.com/lsysgo/lsys/internal/diag"
	"github.com/lsysgo/lsys/internal/geom"
	"github.com/lsysgo/lsys/internal/interpreter"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/turtle"
	"github.com/lsysgo/lsys/internal/values"
)

// recorder is a Generator that counts/records every event, for
// asserting on the interpreter's dispatch without a real output format.
type recorder struct {
	lineTo       int
	moveTo       int
	startGraphic int
	flushGraphic int
	setWidth     int
	setColor     int
	setBackColor int
	setTexture   int
	polygons     [][]geom.Vector3
}

func (r *recorder) Prelude(*turtle.Turtle) error    { return nil }
func (r *recorder) Postscript(*turtle.Turtle) error { return nil }
func (r *recorder) SetHeader(string) error          { return nil }
func (r *recorder) SetName(string) error             { return nil }
func (r *recorder) StartGraphics(*turtle.Turtle) error {
	r.startGraphic++
	return nil
}
func (r *recorder) FlushGraphics(*turtle.Turtle) error {
	r.flushGraphic++
	return nil
}
func (r *recorder) MoveTo(*turtle.Turtle) error { r.moveTo++; return nil }
func (r *recorder) LineTo(*turtle.Turtle) error { r.lineTo++; return nil }
func (r *recorder) Polygon(_ *turtle.Turtle, verts []geom.Vector3) error {
	r.polygons = append(r.polygons, verts)
	return nil
}
func (r *recorder) DrawObject(*turtle.Turtle, modules.Module, []float64) error { return nil }
func (r *recorder) SetColor(*turtle.Turtle) error     { r.setColor++; return nil }
func (r *recorder) SetBackColor(*turtle.Turtle) error { r.setBackColor++; return nil }
func (r *recorder) SetTexture(*turtle.Turtle) error   { r.setTexture++; return nil }
func (r *recorder) SetWidth(*turtle.Turtle) error     { r.setWidth++; return nil }
func (r *recorder) Close() error                      { return nil }

func mod(in *names.Interner, name string) modules.Module {
	return modules.New(in.Intern(name), nil, false)
}

func modF(in *names.Interner, name string, args ...float64) modules.Module {
	params := make([]*ast.Expression, len(args))
	for i, a := range args {
		params[i] = ast.NewValue(values.NewFloat(a))
	}
	return modules.New(in.Intern(name), params, false)
}

func newSetup() (*interpreter.Interpreter, *recorder, *names.Interner, ast.Env, *turtle.Turtle) {
	in := names.NewInterner()
	tur := turtle.New(90, 1)
	rec := &recorder{}
	ip := interpreter.New(tur, rec, diag.Discard, in, 1)
	env := ast.Env{}
	return ip, rec, in, env, tur
}

func TestInterpretDrawAndMoveEmitEvents(t *testing.T) {
	ip, rec, in, env, _ := newSetup()
	if err := ip.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	list := modules.List{mod(in, "F"), mod(in, "f")}
	if err := ip.InterpretAll(list, env); err != nil {
		t.Fatalf("InterpretAll() error: %v", err)
	}
	if rec.lineTo != 1 {
		t.Errorf("lineTo count = %d; want 1", rec.lineTo)
	}
	if rec.moveTo != 1 {
		t.Errorf("moveTo count = %d; want 1", rec.moveTo)
	}
	if rec.startGraphic != 1 {
		t.Errorf("startGraphic count = %d; want 1", rec.startGraphic)
	}
	if rec.flushGraphic != 1 {
		t.Errorf("flushGraphic count = %d (F opens a run, f should flush it); want 1", rec.flushGraphic)
	}
}

func TestInterpretBracketPushPopRestoresPosition(t *testing.T) {
	ip, _, in, env, tur := newSetup()
	if err := ip.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	list := modules.List{
		mod(in, "F"),
		modules.New(in.LBracket, nil, false),
		mod(in, "+"),
		mod(in, "F"),
		modules.New(in.RBracket, nil, false),
		mod(in, "F"),
	}
	if err := ip.InterpretAll(list, env); err != nil {
		t.Fatalf("InterpretAll() error: %v", err)
	}
	// After "F[ +F ]F", the turtle should have moved forward twice along
	// its original heading (+Y, per Start()'s world-frame override); the
	// branch's "+" turn must not leak into the unbranched path.
	loc := tur.Location()
	if loc.X != 0 || loc.Y != 2 {
		t.Fatalf("turtle position after F[+F]F = %+v; want {X:0 Y:2 Z:0}", loc)
	}
}

func TestInterpretPolygonCollectsVertices(t *testing.T) {
	ip, rec, in, env, _ := newSetup()
	if err := ip.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	list := modules.List{
		mod(in, "{"),
		mod(in, "F"),
		mod(in, "}"),
	}
	if err := ip.InterpretAll(list, env); err != nil {
		t.Fatalf("InterpretAll() error: %v", err)
	}
	if len(rec.polygons) != 1 {
		t.Fatalf("Polygon() called %d times; want 1", len(rec.polygons))
	}
	if len(rec.polygons[0]) != 2 {
		t.Fatalf("polygon vertex count = %d; want 2 (start + end of the one F edge)", len(rec.polygons[0]))
	}
}

func TestInterpretWidthChangeBelowEpsilonSkipsSecondSetWidth(t *testing.T) {
	ip, rec, in, env, _ := newSetup()
	if err := ip.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	list := modules.List{modF(in, "!", 2.0), modF(in, "!", 2.0)}
	if err := ip.InterpretAll(list, env); err != nil {
		t.Fatalf("InterpretAll() error: %v", err)
	}
	if rec.setWidth != 1 {
		t.Fatalf("setWidth count = %d; want 1 (second identical width is a no-op)", rec.setWidth)
	}
}

func TestInterpretColorChangeEmitsOnce(t *testing.T) {
	ip, rec, in, env, _ := newSetup()
	if err := ip.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	list := modules.List{modF(in, "'", 3), modF(in, "'", 3)}
	if err := ip.InterpretAll(list, env); err != nil {
		t.Fatalf("InterpretAll() error: %v", err)
	}
	if rec.setColor != 1 {
		t.Fatalf("setColor count = %d; want 1 (repeated identical color is a no-op)", rec.setColor)
	}
}

func TestInterpretUnknownModuleWarnsAndSkips(t *testing.T) {
	in := names.NewInterner()
	tur := turtle.New(90, 1)
	rec := &recorder{}
	coll := &diag.Collector{}
	ip := interpreter.New(tur, rec, coll, in, 1)
	if err := ip.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	list := modules.List{mod(in, "Zebra")}
	if err := ip.InterpretAll(list, ast.Env{}); err != nil {
		t.Fatalf("InterpretAll() error: %v", err)
	}
	if len(coll.Messages) == 0 {
		t.Fatal("expected a diagnostic warning for an unrecognized module")
	}
}

func TestInterpretCutBranchSkipsToClosingBracket(t *testing.T) {
	ip, rec, in, env, _ := newSetup()
	if err := ip.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	// F[ % F F ]F : the "%" should cut the rest of its own branch, so
	// the two F's right after it never draw.
	list := modules.List{
		mod(in, "F"),
		modules.New(in.LBracket, nil, false),
		mod(in, "%"),
		mod(in, "F"),
		mod(in, "F"),
		modules.New(in.RBracket, nil, false),
		mod(in, "F"),
	}
	if err := ip.InterpretAll(list, env); err != nil {
		t.Fatalf("InterpretAll() error: %v", err)
	}
	if rec.lineTo != 2 {
		t.Fatalf("lineTo count = %d; want 2 (only the F before and after the cut branch)", rec.lineTo)
	}
}
