// Package geom implements the 3D vector/matrix arithmetic the turtle
// uses to track position and orientation. Grounded on
// original_source/src/vector.cpp: Vector3 is a plain 3-component
// vector, Matrix3x4 is the turtle's orientation frame (3 rows, 4
// columns — the 4th column carries translation the way a 4x4 affine
// matrix's bottom row is implied rather than stored). No pack example
// ships a 3D vector/matrix library, and the spec calls this "assumed as
// a standard utility" (spec §3), so this package is deliberately
// stdlib-only (see DESIGN.md).
package geom

import "math"

// Vector3 is a point or direction in 3-space.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v+other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v-other.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and other.
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product v x other.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length. The zero vector is
// returned unchanged, matching the original's behavior of leaving a
// degenerate tropism/rotation axis as-is rather than dividing by zero.
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// At returns v's i'th component for i in [0,3); used by BoundingBox's
// component-wise scan, mirroring the original's Vector::operator()(i).
func (v Vector3) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// BoundingBox tracks the minimum and maximum extent of every point a
// turtle visits (spec §4.7).
type BoundingBox struct {
	Min, Max Vector3
	seen     bool
}

// Expand grows the box to include point, initializing it on the first
// call.
func (b *BoundingBox) Expand(point Vector3) {
	if !b.seen {
		b.Min, b.Max = point, point
		b.seen = true
		return
	}
	for i := 0; i < 3; i++ {
		p := point.At(i)
		switch i {
		case 0:
			if p > b.Max.X {
				b.Max.X = p
			} else if p < b.Min.X {
				b.Min.X = p
			}
		case 1:
			if p > b.Max.Y {
				b.Max.Y = p
			} else if p < b.Min.Y {
				b.Min.Y = p
			}
		case 2:
			if p > b.Max.Z {
				b.Max.Z = p
			} else if p < b.Min.Z {
				b.Min.Z = p
			}
		}
	}
}
