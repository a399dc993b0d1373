package generator

import (
	"github.com/lsysgo/lsys/internal/geom"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/turtle"
)

// Nop is a Generator that does nothing, for tests and other rewrite-only
// runs that only care about the rewritten module string or turtle
// bounds, not rendered output. (--display uses driver.Rewrite and no
// generator at all.)
type Nop struct{}

var _ Generator = Nop{}

func (Nop) Prelude(*turtle.Turtle) error                              { return nil }
func (Nop) Postscript(*turtle.Turtle) error                           { return nil }
func (Nop) SetHeader(string) error                                    { return nil }
func (Nop) SetName(string) error                                      { return nil }
func (Nop) StartGraphics(*turtle.Turtle) error                        { return nil }
func (Nop) FlushGraphics(*turtle.Turtle) error                        { return nil }
func (Nop) MoveTo(*turtle.Turtle) error                               { return nil }
func (Nop) LineTo(*turtle.Turtle) error                                { return nil }
func (Nop) Polygon(*turtle.Turtle, []geom.Vector3) error              { return nil }
func (Nop) DrawObject(*turtle.Turtle, modules.Module, []float64) error { return nil }
func (Nop) SetColor(*turtle.Turtle) error                              { return nil }
func (Nop) SetBackColor(*turtle.Turtle) error                          { return nil }
func (Nop) SetTexture(*turtle.Turtle) error                            { return nil }
func (Nop) SetWidth(*turtle.Turtle) error                              { return nil }
func (Nop) Close() error                                              { return nil }
