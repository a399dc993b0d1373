// Package generator implements the pluggable output-backend interface
// the interpreter drives as it walks a module string (spec §6).
// Grounded on original_source/src/IGenerator.h's virtual method set and
// modeled on the teacher's internal/backend.Backend pluggable-backend
// pattern (funvibe-funxy/internal/backend/backend.go): callers select a
// concrete Generator at the CLI layer and the interpreter core only
// ever depends on the interface.
package generator

import (
	"github.com/lsysgo/lsys/internal/geom"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/turtle"
)

// Generator receives interpretation events in the order the turtle
// executes them and renders them to some concrete output format.
// Implementations must be safe to drive from a single goroutine; lsys
// never calls a Generator concurrently.
type Generator interface {
	// Prelude is called once before interpretation begins.
	Prelude(t *turtle.Turtle) error
	// Postscript is called once after interpretation completes,
	// receiving the final turtle state for bounds reporting.
	Postscript(t *turtle.Turtle) error

	// SetHeader records a free-form comment string (the source file's
	// #define/#include preamble, conventionally) to carry into the
	// output's header block.
	SetHeader(header string) error
	// SetName records the run's identifying name (conventionally the
	// input file's base name) for backends that title their output.
	SetName(name string) error

	// StartGraphics/FlushGraphics bracket a run of consecutive draw
	// operations, letting a backend batch them (e.g. into one polyline).
	StartGraphics(t *turtle.Turtle) error
	FlushGraphics(t *turtle.Turtle) error

	// MoveTo/LineTo record the turtle's current position after a move
	// or draw action.
	MoveTo(t *turtle.Turtle) error
	LineTo(t *turtle.Turtle) error

	// Polygon emits a closed polygon's vertex loop.
	Polygon(t *turtle.Turtle, verts []geom.Vector3) error

	// DrawObject emits a named external object at the turtle's current
	// position and orientation, with its parsed numeric arguments.
	DrawObject(t *turtle.Turtle, mod modules.Module, args []float64) error

	// SetColor/SetBackColor/SetTexture/SetWidth are called whenever the
	// corresponding turtle attribute changes (subject to the
	// interpreter's epsilon-threshold optimizations, spec §4.8).
	SetColor(t *turtle.Turtle) error
	SetBackColor(t *turtle.Turtle) error
	SetTexture(t *turtle.Turtle) error
	SetWidth(t *turtle.Turtle) error

	// Close releases any underlying resources (open files).
	Close() error
}
