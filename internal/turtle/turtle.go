// Package turtle implements the 3D turtle geometry engine a module
// string is interpreted against: position, orientation frame, drawing
// attributes (width/color/texture), tropism, and a push/pop state
// stack. Grounded verbatim on original_source/Turtle.h and
// src/turtle.cpp.
package turtle

import (
	"math"

	"github.com/lsysgo/lsys/internal/geom"
)

// Columns of the orientation frame, matching vector.cpp's convention:
// column 0 is Heading, 1 is Left, 2 is Up, 3 is translation (unused on
// the frame itself — position is tracked separately, as in the
// original).
const (
	colHeading = 0
	colLeft    = 1
	colUp      = 2
)

// Tropism describes the "wind" vector segments bend toward after each
// Move, when enabled (spec §4.7).
type Tropism struct {
	Vector        geom.Vector3
	Susceptibility float64
	Enabled       bool
}

// state is the full snapshot saved/restored by Push/Pop.
type state struct {
	frame          geom.Matrix3x4
	position       geom.Vector3
	defaultDist    float64
	defaultTurn    float64 // radians
	width          float64
	color          Color
	backgroundColor Color
	texture        int
	tropism        Tropism
}

// Turtle is the interpreter's movable, orientable pen. The zero value
// is not ready for use; construct with New.
type Turtle struct {
	cur   state
	stack []state

	bbox       geom.BoundingBox
	gravity    geom.Vector3
	widthScale float64
}

// New returns a Turtle initialized per Turtle::Turtle: identity frame
// (heading +X), gravity aligned with the initial heading, tropism
// pointed opposite heading with the original's default 0.2
// susceptibility but disabled, default width widthScale, color 0,
// texture 0, default distance 1, default turn angle turnDegrees.
func New(turnDegrees, widthScale float64) *Turtle {
	t := &Turtle{
		cur: state{
			frame:       geom.Identity(),
			defaultDist: 1,
			width:       widthScale,
			color:       NewIndexColor(0),
			backgroundColor: NewIndexColor(0),
		},
		widthScale: widthScale,
	}
	t.cur.defaultTurn = toRadians(turnDegrees)
	heading := t.Heading()
	t.gravity = heading
	t.cur.tropism = Tropism{
		Vector:         heading.Scale(-1),
		Susceptibility: 0.2,
		Enabled:        false,
	}
	return t
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }
func toDegrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// Bounds returns the bounding box of every point visited so far.
func (t *Turtle) Bounds() geom.BoundingBox { return t.bbox }

// Location returns the turtle's current position.
func (t *Turtle) Location() geom.Vector3 { return t.cur.position }

// Heading returns the frame's Heading column.
func (t *Turtle) Heading() geom.Vector3 { return t.cur.frame.Column(colHeading) }

// SetHeading replaces the frame's Heading column.
func (t *Turtle) SetHeading(v geom.Vector3) { t.cur.frame = t.cur.frame.SetColumn(colHeading, v) }

// Left returns the frame's Left column.
func (t *Turtle) Left() geom.Vector3 { return t.cur.frame.Column(colLeft) }

// SetLeft replaces the frame's Left column.
func (t *Turtle) SetLeft(v geom.Vector3) { t.cur.frame = t.cur.frame.SetColumn(colLeft, v) }

// Up returns the frame's Up column.
func (t *Turtle) Up() geom.Vector3 { return t.cur.frame.Column(colUp) }

// SetUp replaces the frame's Up column.
func (t *Turtle) SetUp(v geom.Vector3) { t.cur.frame = t.cur.frame.SetColumn(colUp, v) }

// Frame returns the current orientation frame.
func (t *Turtle) Frame() geom.Matrix3x4 { return t.cur.frame }

// SetFrame replaces the orientation frame wholesale (used to restore a
// bookmark, e.g. '%').
func (t *Turtle) SetFrame(f geom.Matrix3x4) { t.cur.frame = f }

// SetGravity replaces the antigravity reference vector RollHorizontal
// aligns against.
func (t *Turtle) SetGravity(v geom.Vector3) { t.gravity = v }

// DefaultDistance returns the distance an argument-less Move() travels.
func (t *Turtle) DefaultDistance() float64 { return t.cur.defaultDist }

// SetDefaultDistance sets the argument-less Move() distance.
func (t *Turtle) SetDefaultDistance(d float64) { t.cur.defaultDist = d }

// DefaultTurnAngle returns the argument-less Turn/Pitch/Roll angle, in
// degrees.
func (t *Turtle) DefaultTurnAngle() float64 { return toDegrees(t.cur.defaultTurn) }

// SetDefaultTurnAngle sets the argument-less Turn/Pitch/Roll angle,
// given in degrees.
func (t *Turtle) SetDefaultTurnAngle(deg float64) { t.cur.defaultTurn = toRadians(deg) }

// CurrentWidth returns the current line width.
func (t *Turtle) CurrentWidth() float64 { return t.cur.width }

// SetWidth sets the line width. w is multiplied by the turtle's
// construction-time widthScale, matching the "-w" CLI flag's role as a
// global scale on every explicit width (spec §11).
func (t *Turtle) SetWidth(w float64) { t.cur.width = w * t.widthScale }

// MultiplyWidth scales the current (already-scaled) width by factor
// directly, without reapplying widthScale — used by the "@mw" action,
// which adjusts the running width rather than setting an absolute one.
func (t *Turtle) MultiplyWidth(factor float64) { t.cur.width *= factor }

// CurrentColor returns the foreground drawing color.
func (t *Turtle) CurrentColor() Color { return t.cur.color }

// CurrentBackColor returns the background color.
func (t *Turtle) CurrentBackColor() Color { return t.cur.backgroundColor }

// SetColorIndex sets the foreground color to a palette index.
func (t *Turtle) SetColorIndex(i int) { t.cur.color = NewIndexColor(i) }

// SetColorIndexPair sets both foreground and background palette
// indices.
func (t *Turtle) SetColorIndexPair(fg, bg int) {
	t.cur.color = NewIndexColor(fg)
	t.cur.backgroundColor = NewIndexColor(bg)
}

// SetColorRGB sets the foreground color to an RGB triple.
func (t *Turtle) SetColorRGB(v geom.Vector3) { t.cur.color = NewRGBColor(v) }

// IncrementColor advances an index-kinded foreground color by one,
// reporting false (and leaving color untouched) if the current color is
// RGB-kinded, matching turtle.cpp's IncrementColor warning path.
func (t *Turtle) IncrementColor() bool {
	i, ok := t.cur.color.Index()
	if !ok {
		return false
	}
	t.cur.color = NewIndexColor(i + 1)
	return true
}

// CurrentTexture returns the line texture index.
func (t *Turtle) CurrentTexture() int { return t.cur.texture }

// SetTexture sets the line texture index.
func (t *Turtle) SetTexture(tex int) { t.cur.texture = tex }

// GetTropism returns the current tropism settings.
func (t *Turtle) GetTropism() Tropism { return t.cur.tropism }

// SetTropismVector replaces the tropism direction.
func (t *Turtle) SetTropismVector(v geom.Vector3) { t.cur.tropism.Vector = v }

// SetTropismSusceptibility replaces the tropism susceptibility scalar.
func (t *Turtle) SetTropismSusceptibility(e float64) { t.cur.tropism.Susceptibility = e }

// DisableTropism turns off tropism correction on Move.
func (t *Turtle) DisableTropism() { t.cur.tropism.Enabled = false }

// EnableTropism turns on tropism correction on Move.
func (t *Turtle) EnableTropism() { t.cur.tropism.Enabled = true }

// Direction selects which way an argument-less Turn/Pitch/Roll rotates.
type Direction uint8

const (
	Positive Direction = iota
	Negative
)

// Turn rotates about the frame's Up axis (world Z analogue) by the
// default turn angle in the given direction.
func (t *Turtle) Turn(dir Direction) {
	t.TurnBy(signedAngle(dir, toDegrees(t.cur.defaultTurn)))
}

// TurnBy rotates about the Up axis by angleDegrees.
func (t *Turtle) TurnBy(angleDegrees float64) {
	t.cur.frame = t.cur.frame.Rotate(geom.AxisZ, toRadians(angleDegrees))
}

// Pitch rotates about the frame's Left axis (world Y analogue) by the
// default turn angle in the given direction.
func (t *Turtle) Pitch(dir Direction) {
	t.PitchBy(signedAngle(dir, toDegrees(t.cur.defaultTurn)))
}

// PitchBy rotates about the Left axis by angleDegrees.
func (t *Turtle) PitchBy(angleDegrees float64) {
	t.cur.frame = t.cur.frame.Rotate(geom.AxisY, toRadians(angleDegrees))
}

// Roll rotates about the frame's Heading axis (world X analogue) by the
// default turn angle in the given direction.
func (t *Turtle) Roll(dir Direction) {
	t.RollBy(signedAngle(dir, toDegrees(t.cur.defaultTurn)))
}

// RollBy rotates about the Heading axis by angleDegrees.
func (t *Turtle) RollBy(angleDegrees float64) {
	t.cur.frame = t.cur.frame.Rotate(geom.AxisX, toRadians(angleDegrees))
}

func signedAngle(dir Direction, magnitude float64) float64 {
	if dir == Negative {
		return -magnitude
	}
	return magnitude
}

// Reverse spins the turtle 180 degrees in place.
func (t *Turtle) Reverse() { t.cur.frame = t.cur.frame.Reverse() }

// RollHorizontal rolls the turtle so its Left vector is perpendicular
// to the antigravity vector. Grounded verbatim on turtle.cpp's
// RollHorizontal, INCLUDING its known inconsistency: when the heading
// is within TOLERANCE of collinear with gravity, it silently does
// nothing rather than picking an arbitrary horizontal left vector. This
// is preserved per DESIGN.md's Open Question decision, not corrected.
func (t *Turtle) RollHorizontal() {
	const tolerance = 1e-4

	heading := t.Heading()
	left := t.gravity.Cross(heading)

	magnitude := left.Length()
	if magnitude < tolerance {
		return
	}

	left = left.Scale(1 / magnitude)
	up := heading.Cross(left)

	t.SetLeft(left)
	t.SetUp(up)
}

// Move advances the default distance.
func (t *Turtle) Move() { t.MoveBy(t.cur.defaultDist) }

// MoveBy advances distance along the current heading, expands the
// bounding box to the new position, and applies tropism correction if
// enabled and non-zero — rotating the frame around (Heading x
// TropismVector) by Susceptibility radians, exactly as turtle.cpp does
// (including its own "this is bogus" comment about never checking
// whether that cross product is degenerate before rotating around it).
func (t *Turtle) MoveBy(distance float64) {
	t.cur.position = t.cur.position.Add(t.Heading().Scale(distance))
	t.bbox.Expand(t.cur.position)

	if t.cur.tropism.Enabled && t.cur.tropism.Susceptibility != 0 {
		axis := t.Heading().Cross(t.cur.tropism.Vector)
		t.cur.frame = t.cur.frame.RotateAroundVector(axis, t.cur.tropism.Susceptibility)
	}
}

// Push saves the current state onto the stack.
func (t *Turtle) Push() {
	t.stack = append(t.stack, t.cur)
}

// Pop restores the most recently pushed state, panicking if the stack
// is empty (a "[" without matching content is a programming/grammar
// error by the time it reaches here, not a runtime condition — the
// interpreter validates bracket balance before this is ever called).
func (t *Turtle) Pop() {
	if len(t.stack) == 0 {
		panic("turtle: Pop of empty state stack")
	}
	t.cur = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

// StackDepth reports how many states are currently pushed.
func (t *Turtle) StackDepth() int { return len(t.stack) }
