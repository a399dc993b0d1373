package generator_test

import (
	"testing"

	"github.com/lsysgo/lsys/internal/generator"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/turtle"
)

func TestNopSatisfiesGeneratorWithoutError(t *testing.T) {
	var g generator.Generator = generator.Nop{}
	tur := turtle.New(90, 1)
	in := names.NewInterner()
	mod := modules.New(in.Intern("~thing"), nil, false)

	calls := []error{
		g.Prelude(tur),
		g.Postscript(tur),
		g.SetHeader("h"),
		g.SetName("n"),
		g.StartGraphics(tur),
		g.FlushGraphics(tur),
		g.MoveTo(tur),
		g.LineTo(tur),
		g.Polygon(tur, nil),
		g.DrawObject(tur, mod, nil),
		g.SetColor(tur),
		g.SetBackColor(tur),
		g.SetTexture(tur),
		g.SetWidth(tur),
		g.Close(),
	}
	for i, err := range calls {
		if err != nil {
			t.Fatalf("call %d returned error: %v", i, err)
		}
	}
}
