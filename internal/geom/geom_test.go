package geom_test

import (
	"math"
	"testing"

	"github.com/lsysgo/lsys/internal/geom"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func vecAlmostEqual(a, b geom.Vector3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestVectorArithmetic(t *testing.T) {
	a := geom.Vector3{X: 1, Y: 2, Z: 3}
	b := geom.Vector3{X: 4, Y: 5, Z: 6}

	if got := a.Add(b); !vecAlmostEqual(got, geom.Vector3{X: 5, Y: 7, Z: 9}) {
		t.Fatalf("Add() = %+v", got)
	}
	if got := b.Sub(a); !vecAlmostEqual(got, geom.Vector3{X: 3, Y: 3, Z: 3}) {
		t.Fatalf("Sub() = %+v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Fatalf("Dot() = %v; want 32", got)
	}
}

func TestCrossProduct(t *testing.T) {
	x := geom.Vector3{X: 1}
	y := geom.Vector3{Y: 1}
	got := x.Cross(y)
	want := geom.Vector3{Z: 1}
	if !vecAlmostEqual(got, want) {
		t.Fatalf("X cross Y = %+v; want %+v", got, want)
	}
}

func TestNormalizedZeroVectorUnchanged(t *testing.T) {
	zero := geom.Vector3{}
	if got := zero.Normalized(); got != zero {
		t.Fatalf("Normalized() of zero vector = %+v; want zero", got)
	}
}

func TestNormalizedUnitLength(t *testing.T) {
	v := geom.Vector3{X: 3, Y: 4}
	n := v.Normalized()
	if !almostEqual(n.Length(), 1.0) {
		t.Fatalf("Normalized().Length() = %v; want 1", n.Length())
	}
}

func TestBoundingBoxExpand(t *testing.T) {
	var box geom.BoundingBox
	box.Expand(geom.Vector3{X: 1, Y: 1, Z: 1})
	box.Expand(geom.Vector3{X: -1, Y: 2, Z: 0})
	box.Expand(geom.Vector3{X: 0, Y: -5, Z: 3})

	want := geom.BoundingBox{
		Min: geom.Vector3{X: -1, Y: -5, Z: 0},
		Max: geom.Vector3{X: 1, Y: 2, Z: 3},
	}
	if box.Min != want.Min || box.Max != want.Max {
		t.Fatalf("Expand() bounds = %+v/%+v; want %+v/%+v", box.Min, box.Max, want.Min, want.Max)
	}
}

func TestIdentityMatrixIsNoOp(t *testing.T) {
	id := geom.Identity()
	v := geom.Vector3{X: 1, Y: 2, Z: 3}
	if got := id.Apply(v); !vecAlmostEqual(got, v) {
		t.Fatalf("Identity().Apply(v) = %+v; want %+v", got, v)
	}
}

func TestRotateZ90DegreesTurnsHeadingIntoLeft(t *testing.T) {
	m := geom.Identity()
	heading := m.Column(0)
	rotated := m.Rotate(geom.AxisZ, math.Pi/2)
	got := rotated.Apply(heading)
	// A +90 degree Z rotation takes the X axis to the Y axis.
	want := geom.Vector3{X: 0, Y: 1, Z: 0}
	if !vecAlmostEqual(got, want) {
		t.Fatalf("Rotate(AxisZ, 90deg).Apply(headingAxis) = %+v; want %+v", got, want)
	}
}

func TestReverseFlipsHeading(t *testing.T) {
	m := geom.Identity()
	heading := m.Column(0)
	reversed := m.Reverse()
	got := reversed.Apply(heading)
	want := heading.Scale(-1)
	if !vecAlmostEqual(got, want) {
		t.Fatalf("Reverse().Apply(heading) = %+v; want %+v", got, want)
	}
}

func TestSetTranslationRoundTrips(t *testing.T) {
	m := geom.Identity()
	t3 := geom.Vector3{X: 5, Y: -3, Z: 2}
	m = m.SetTranslation(t3)
	if got := m.Translation(); got != t3 {
		t.Fatalf("Translation() = %+v; want %+v", got, t3)
	}
}
