// Package interpreter walks a derived module list and drives a Turtle
// and a Generator from it: the third stage of the pipeline (spec §4.8,
// §4.9). Grounded on original_source/Interpret.cpp (the action symbol
// table and the top-level Interpret() driver) and src/actions.cpp (each
// action's exact turtle/generator effect).
package interpreter

import (
	"fmt"
	"math"

	"github.com/lsysgo/lsys/internal/ast"
	"github.com/lsysgo/lsys/internal/diag"
	"github.com/lsysgo/lsys/internal/generator"
	"github.com/lsysgo/lsys/internal/geom"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/turtle"
)

// widthEpsilon is the threshold below which a width change is
// considered a no-op, per the state-change optimization (spec §4.8).
const widthEpsilon = 1e-6

// DefaultMaxPolygonDepth is the REDESIGN FLAGS default for
// Interpreter.MaxPolygonDepth (the original's hardcoded 100).
const DefaultMaxPolygonDepth = 100

// drawState is the drawing-state machine, kept separate from the
// turtle's own geometric state: it tracks whether the generator
// currently has an open run of line segments, or is accumulating a
// polygon.
type drawState uint8

const (
	stateStart drawState = iota
	stateDrawing
	statePolygon
)

// polygon is one level of the nested "{ ... }" stack.
type polygon struct {
	verts   []geom.Vector3
	dropped bool
}

// Interpreter holds everything that persists for the life of one
// interpretation run: the turtle, the chosen generator, the
// last-applied attribute trackers the state-change optimization needs,
// and the open polygon stack. A fresh Interpreter resets all of this,
// matching the original's per-run Interpret() locals (spec §5's "last-
// applied trackers... live as Interpreter-scoped state").
type Interpreter struct {
	t    *turtle.Turtle
	gen  generator.Generator
	diag diag.Sink
	in   *names.Interner

	actions map[names.ID]action

	MaxPolygonDepth int
	defaultWidth    float64

	state   drawState
	polygon []polygon

	haveLastWidth   bool
	lastWidth       float64
	haveLastColor   bool
	lastColor       turtle.Color
	haveLastTexture bool
	lastTexture     int
}

// New returns an Interpreter driving t through gen, reporting
// diagnostics to sink. defaultWidth is the value "!" with no argument
// resets to (normally the turtle's construction-time default of 1).
func New(t *turtle.Turtle, gen generator.Generator, sink diag.Sink, in *names.Interner, defaultWidth float64) *Interpreter {
	ip := &Interpreter{
		t:               t,
		gen:             gen,
		diag:            sink,
		in:              in,
		MaxPolygonDepth: DefaultMaxPolygonDepth,
		defaultWidth:    defaultWidth,
	}
	ip.actions = buildActions(in)
	return ip
}

// Start applies the turtle's initial world-frame orientation (the
// original Interpret() driver's post-construction overrides: heading
// +Y, left -X, up +Z, gravity +Y — the turtle's own constructor
// defaults to heading +X for a frame-math-only identity, but the
// interpreter's world convention is Y-up-forward) and opens the
// generator.
func (ip *Interpreter) Start() error {
	ip.t.SetHeading(geom.Vector3{X: 0, Y: 1, Z: 0})
	ip.t.SetLeft(geom.Vector3{X: -1, Y: 0, Z: 0})
	ip.t.SetUp(geom.Vector3{X: 0, Y: 0, Z: 1})
	ip.t.SetGravity(geom.Vector3{X: 0, Y: 1, Z: 0})
	return ip.gen.Prelude(ip.t)
}

// Finish flushes any open graphics run and closes out the generator.
func (ip *Interpreter) Finish() error {
	if err := ip.flushIfDrawing(); err != nil {
		return err
	}
	return ip.gen.Postscript(ip.t)
}

// InterpretAll walks every module of list in order.
func (ip *Interpreter) InterpretAll(list modules.List, env ast.Env) error {
	cursor := modules.NewCursor(&list, 0)
	for cursor.Valid() {
		next, err := ip.InterpretNext(cursor, env)
		if err != nil {
			return err
		}
		cursor = next
	}
	return nil
}

// InterpretNext dispatches the module at cursor and returns the cursor
// to resume from (usually cursor.Next(), but "%" and the "]" lookahead
// optimization advance differently).
func (ip *Interpreter) InterpretNext(cursor modules.Cursor, env ast.Env) (modules.Cursor, error) {
	m := cursor.Module()
	act, ok := ip.actions[m.Name]
	if !ok {
		ip.diag.Warnf("unknown action module %q", ip.in.Lookup(m.Name))
		return cursor.Next(), nil
	}
	return act(ip, cursor, m, env)
}

// action implements one module's effect, returning the cursor to
// resume interpretation from.
type action func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error)

func buildActions(in *names.Interner) map[names.ID]action {
	a := make(map[names.ID]action)
	reg := func(name string, fn action) { a[in.Intern(name)] = fn }

	draw := func(half bool) action {
		return func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
			dist, ok := m.Float(env, 0)
			if !ok {
				dist = ip.t.DefaultDistance()
			}
			if half {
				dist /= 2
			}
			return cursor.Next(), ip.drawMove(dist)
		}
	}
	move := func(half bool) action {
		return func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
			dist, ok := m.Float(env, 0)
			if !ok {
				dist = ip.t.DefaultDistance()
			}
			if half {
				dist /= 2
			}
			return cursor.Next(), ip.moveWithoutDraw(dist)
		}
	}
	reg("F", draw(false))
	reg("Fl", draw(false))
	reg("Fr", draw(false))
	reg("Z", draw(true))
	reg("f", move(false))
	reg("z", move(true))
	reg("G", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		dist, ok := m.Float(env, 0)
		if !ok {
			dist = ip.t.DefaultDistance()
		}
		return cursor.Next(), ip.moveNoEdge(dist)
	})

	turn := func(sign float64) action {
		return func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
			if deg, ok := m.Float(env, 0); ok {
				ip.t.TurnBy(sign * deg)
			} else {
				ip.t.TurnBy(sign * ip.t.DefaultTurnAngle())
			}
			return cursor.Next(), nil
		}
	}
	pitch := func(sign float64) action {
		return func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
			if deg, ok := m.Float(env, 0); ok {
				ip.t.PitchBy(sign * deg)
			} else {
				ip.t.PitchBy(sign * ip.t.DefaultTurnAngle())
			}
			return cursor.Next(), nil
		}
	}
	roll := func(sign float64) action {
		return func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
			if deg, ok := m.Float(env, 0); ok {
				ip.t.RollBy(sign * deg)
			} else {
				ip.t.RollBy(sign * ip.t.DefaultTurnAngle())
			}
			return cursor.Next(), nil
		}
	}
	reg("+", turn(1))
	reg("-", turn(-1))
	reg("&", pitch(1))
	reg("^", pitch(-1))
	reg("/", roll(1))
	reg("\\", roll(-1))
	reg("|", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		ip.t.Reverse()
		return cursor.Next(), nil
	})
	reg("$", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		ip.t.RollHorizontal()
		return cursor.Next(), nil
	})

	reg(names.LeftBracketName, func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		ip.t.Push()
		return cursor.Next(), nil
	})
	reg(names.RightBracketName, func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		return cursor.Next(), ip.popBracket(cursor)
	})
	reg("%", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		return ip.cutBranch(cursor), nil
	})

	reg("@md", multiplyScalar(func(ip *Interpreter) float64 { return ip.t.DefaultDistance() },
		func(ip *Interpreter, v float64) { ip.t.SetDefaultDistance(v) }, 1.1))
	reg("@ma", multiplyScalar(func(ip *Interpreter) float64 { return ip.t.DefaultTurnAngle() },
		func(ip *Interpreter, v float64) { ip.t.SetDefaultTurnAngle(v) }, 1.1))
	reg("@mw", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		factor, ok := m.Float(env, 0)
		if !ok {
			factor = 1.4
		}
		ip.t.MultiplyWidth(factor)
		return cursor.Next(), ip.trackWidth()
	})

	reg("!", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		w, ok := m.Float(env, 0)
		if !ok {
			w = ip.defaultWidth
		}
		return cursor.Next(), ip.applyWidth(w)
	})

	reg("'", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		return cursor.Next(), ip.applyColorModule(m, env)
	})

	reg("@Tx", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		idx, ok := m.Float(env, 0)
		if !ok {
			idx = 0
		}
		return cursor.Next(), ip.applyTexture(int(idx))
	})

	reg("{", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		return cursor.Next(), ip.polygonStart()
	})
	reg(".", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		ip.polygonAddVertex()
		return cursor.Next(), nil
	})
	reg("}", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		return cursor.Next(), ip.polygonEnd()
	})

	reg("t", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		ip.applyTropism(m, env)
		return cursor.Next(), nil
	})

	reg("~", func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		return cursor.Next(), ip.gen.DrawObject(ip.t, m, floats(m, env))
	})

	return a
}

// multiplyScalar builds an @md/@ma-style action: multiply the value
// read by get (the current default distance or turn angle) by the
// module's single argument, or by defaultFactor if absent.
func multiplyScalar(get func(*Interpreter) float64, set func(*Interpreter, float64), defaultFactor float64) action {
	return func(ip *Interpreter, cursor modules.Cursor, m modules.Module, env ast.Env) (modules.Cursor, error) {
		factor, ok := m.Float(env, 0)
		if !ok {
			factor = defaultFactor
		}
		set(ip, get(ip)*factor)
		return cursor.Next(), nil
	}
}

func floats(m modules.Module, env ast.Env) []float64 {
	out := make([]float64, len(m.Params))
	for i := range m.Params {
		v, _ := m.Float(env, i)
		out[i] = v
	}
	return out
}

func (ip *Interpreter) ensureDrawing() error {
	if ip.state == stateStart {
		if err := ip.gen.StartGraphics(ip.t); err != nil {
			return err
		}
		ip.state = stateDrawing
	}
	return nil
}

func (ip *Interpreter) flushIfDrawing() error {
	if ip.state == stateDrawing {
		if err := ip.gen.FlushGraphics(ip.t); err != nil {
			return err
		}
		ip.state = stateStart
	}
	return nil
}

func (ip *Interpreter) drawMove(dist float64) error {
	before := ip.t.Location()
	ip.t.MoveBy(dist)
	after := ip.t.Location()

	if ip.state == statePolygon {
		ip.polygonAddEdge(before, after)
		return nil
	}
	if err := ip.ensureDrawing(); err != nil {
		return err
	}
	return ip.gen.LineTo(ip.t)
}

func (ip *Interpreter) moveWithoutDraw(dist float64) error {
	before := ip.t.Location()
	ip.t.MoveBy(dist)
	after := ip.t.Location()

	if ip.state == statePolygon {
		ip.polygonAddEdge(before, after)
		return nil
	}
	if err := ip.flushIfDrawing(); err != nil {
		return err
	}
	return ip.gen.MoveTo(ip.t)
}

// moveNoEdge implements "G": move the turtle without recording an edge
// even while building a polygon.
func (ip *Interpreter) moveNoEdge(dist float64) error {
	ip.t.MoveBy(dist)
	if ip.state == statePolygon {
		return nil
	}
	if err := ip.flushIfDrawing(); err != nil {
		return err
	}
	return ip.gen.MoveTo(ip.t)
}

func (ip *Interpreter) popBracket(cursor modules.Cursor) error {
	if ip.t.StackDepth() == 0 {
		ip.diag.Warnf("turtle stack underflow at \"]\"")
		return nil
	}
	ip.t.Pop()

	next := cursor.Next()
	if next.Valid() && next.Module().Name == ip.in.RBracket {
		return nil
	}

	if err := ip.flushIfDrawing(); err != nil {
		return err
	}
	if err := ip.gen.SetWidth(ip.t); err != nil {
		return err
	}
	if err := ip.gen.SetColor(ip.t); err != nil {
		return err
	}
	ip.lastWidth, ip.haveLastWidth = ip.t.CurrentWidth(), true
	ip.lastColor, ip.haveLastColor = ip.t.CurrentColor(), true
	return ip.gen.MoveTo(ip.t)
}

// cutBranch implements "%": skip forward past everything up to (but
// not including) the "]" that closes the bracket the "%" appears in,
// tracking nested brackets so an inner branch isn't mistaken for the
// enclosing one.
func (ip *Interpreter) cutBranch(cursor modules.Cursor) modules.Cursor {
	depth := 0
	cur := cursor.Next()
	for cur.Valid() {
		switch cur.Module().Name {
		case ip.in.LBracket:
			depth++
		case ip.in.RBracket:
			if depth == 0 {
				return cur
			}
			depth--
		}
		cur = cur.Next()
	}
	return cur
}

// applyWidth sets an absolute width (the "!" action's own scale
// convention) and re-checks the last-applied tracker.
func (ip *Interpreter) applyWidth(w float64) error {
	ip.t.SetWidth(w)
	return ip.trackWidth()
}

// trackWidth re-checks the turtle's current (already set) width against
// the last-applied tracker, flushing and emitting SetWidth only if it
// actually changed beyond widthEpsilon.
func (ip *Interpreter) trackWidth() error {
	cur := ip.t.CurrentWidth()
	if ip.haveLastWidth && math.Abs(cur-ip.lastWidth) < widthEpsilon {
		return nil
	}
	if err := ip.flushIfDrawing(); err != nil {
		return err
	}
	if err := ip.gen.SetWidth(ip.t); err != nil {
		return err
	}
	ip.lastWidth, ip.haveLastWidth = cur, true
	return nil
}

func (ip *Interpreter) applyColorModule(m modules.Module, env ast.Env) error {
	switch len(m.Params) {
	case 0:
		if !ip.t.IncrementColor() {
			ip.diag.Warnf("IncrementColor: current color is not an index")
		}
	case 1:
		idx, _ := m.Float(env, 0)
		ip.t.SetColorIndex(int(idx))
	case 2:
		fg, _ := m.Float(env, 0)
		bg, _ := m.Float(env, 1)
		ip.t.SetColorIndexPair(int(fg), int(bg))
	default:
		r, _ := m.Float(env, 0)
		g, _ := m.Float(env, 1)
		b, _ := m.Float(env, 2)
		ip.t.SetColorRGB(geom.Vector3{X: r, Y: g, Z: b})
	}
	return ip.applyColor()
}

func (ip *Interpreter) applyColor() error {
	fg := ip.t.CurrentColor()
	if ip.haveLastColor && fg.Equal(ip.lastColor) {
		return nil
	}
	if err := ip.flushIfDrawing(); err != nil {
		return err
	}
	if err := ip.gen.SetColor(ip.t); err != nil {
		return err
	}
	if err := ip.gen.SetBackColor(ip.t); err != nil {
		return err
	}
	ip.lastColor, ip.haveLastColor = fg, true
	return nil
}

func (ip *Interpreter) applyTexture(idx int) error {
	ip.t.SetTexture(idx)
	if ip.haveLastTexture && idx == ip.lastTexture {
		return nil
	}
	if err := ip.flushIfDrawing(); err != nil {
		return err
	}
	if err := ip.gen.SetTexture(ip.t); err != nil {
		return err
	}
	ip.lastTexture, ip.haveLastTexture = idx, true
	return nil
}

func (ip *Interpreter) applyTropism(m modules.Module, env ast.Env) {
	switch len(m.Params) {
	case 1:
		e, _ := m.Float(env, 0)
		ip.t.SetTropismSusceptibility(e)
		ip.setTropismEnabled(e)
	case 4:
		x, _ := m.Float(env, 0)
		y, _ := m.Float(env, 1)
		z, _ := m.Float(env, 2)
		e, _ := m.Float(env, 3)
		ip.t.SetTropismVector(geom.Vector3{X: x, Y: y, Z: z})
		ip.t.SetTropismSusceptibility(e)
		ip.setTropismEnabled(e)
	default:
		ip.diag.Warnf("tropism module \"t\" expects 1 or 4 arguments, got %d", len(m.Params))
	}
}

func (ip *Interpreter) setTropismEnabled(susceptibility float64) {
	const enableEpsilon = 1e-9
	if math.Abs(susceptibility) < enableEpsilon {
		ip.t.DisableTropism()
	} else {
		ip.t.EnableTropism()
	}
}

func (ip *Interpreter) polygonStart() error {
	if len(ip.polygon) >= ip.MaxPolygonDepth {
		ip.diag.Warnf("polygon stack overflow: depth %d exceeds limit %d, dropping polygon", len(ip.polygon)+1, ip.MaxPolygonDepth)
		ip.polygon = append(ip.polygon, polygon{dropped: true})
		return nil
	}
	if err := ip.flushIfDrawing(); err != nil {
		return err
	}
	ip.state = statePolygon
	ip.polygon = append(ip.polygon, polygon{})
	return nil
}

func (ip *Interpreter) polygonAddVertex() {
	if len(ip.polygon) == 0 {
		ip.diag.Warnf("\".\" outside any polygon")
		return
	}
	top := &ip.polygon[len(ip.polygon)-1]
	top.verts = append(top.verts, ip.t.Location())
}

func (ip *Interpreter) polygonAddEdge(before, after geom.Vector3) {
	if len(ip.polygon) == 0 {
		return
	}
	top := &ip.polygon[len(ip.polygon)-1]
	if len(top.verts) == 0 || top.verts[len(top.verts)-1] != before {
		top.verts = append(top.verts, before)
	}
	top.verts = append(top.verts, after)
}

func (ip *Interpreter) polygonEnd() error {
	if len(ip.polygon) == 0 {
		ip.diag.Warnf("\"}\" with no matching \"{\"")
		return nil
	}
	top := ip.polygon[len(ip.polygon)-1]
	ip.polygon = ip.polygon[:len(ip.polygon)-1]

	if len(ip.polygon) == 0 {
		ip.state = stateStart
	}
	if top.dropped || len(top.verts) == 0 {
		return nil
	}
	return ip.gen.Polygon(ip.t, top.verts)
}

// String renders the interpreter's current drawing-state machine
// value, for diagnostics and tests.
func (s drawState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateDrawing:
		return "drawing"
	case statePolygon:
		return "polygon"
	default:
		return fmt.Sprintf("drawState(%d)", uint8(s))
	}
}
