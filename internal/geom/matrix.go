package geom

import "math"

// Axis names a principal rotation axis for Matrix3x4.Rotate.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Matrix3x4 is the turtle's orientation frame: rows are world X/Y/Z
// axes, columns 0/1/2 are the frame's own Heading/Left/Up basis
// vectors, and column 3 is translation — matching
// original_source/src/vector.cpp's frame layout exactly (frame[i][j]:
// i = world axis, j = frame axis or translation). Transformations apply
// as m * R with R a pure rotation; composing two frames post-multiplies
// (Matrix::operator*(const Matrix&)).
type Matrix3x4 struct {
	m [3][4]float64
}

// Identity returns the identity frame: no rotation, no translation.
func Identity() Matrix3x4 {
	var out Matrix3x4
	for i := 0; i < 3; i++ {
		out.m[i][i] = 1
	}
	return out
}

// Column returns the frame's j'th column (j=0 Heading, 1 Left, 2 Up, 3
// translation) as a Vector3.
func (m Matrix3x4) Column(j int) Vector3 {
	return Vector3{m.m[0][j], m.m[1][j], m.m[2][j]}
}

// SetColumn returns a copy of m with column j replaced by v.
func (m Matrix3x4) SetColumn(j int, v Vector3) Matrix3x4 {
	out := m
	out.m[0][j], out.m[1][j], out.m[2][j] = v.X, v.Y, v.Z
	return out
}

// Translation returns the frame's 4th-column translation component.
func (m Matrix3x4) Translation() Vector3 { return m.Column(3) }

// SetTranslation returns a copy of m with its translation column
// replaced by t.
func (m Matrix3x4) SetTranslation(t Vector3) Matrix3x4 { return m.SetColumn(3, t) }

// cosSin returns cos/sin of angle, snapping to exact -1/0/1 near an
// axis-aligned angle. Grounded verbatim on vector.cpp's CosSin, which
// exists so repeated 90-degree turns don't accumulate floating-point
// drift.
func cosSin(angle float64) (cos, sin float64) {
	const tolerance = 1e-10
	cos, sin = math.Cos(angle), math.Sin(angle)
	if cos > 1-tolerance {
		cos, sin = 1, 0
	} else if cos < -1+tolerance {
		cos, sin = -1, 0
	}
	if sin > 1-tolerance {
		cos, sin = 0, 1
	} else if sin < -1+tolerance {
		cos, sin = 0, -1
	}
	return cos, sin
}

// mulMatrix post-multiplies m by other: result = m * other. The 4th
// column accumulates m's own translation (m[i][3]) unchanged, since
// `other` here is always a pure-rotation matrix in lsys's use (frame
// composition never multiplies two translated frames together).
func mulMatrix(m, other Matrix3x4) Matrix3x4 {
	var res Matrix3x4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			res.m[i][j] = m.m[i][0]*other.m[0][j] + m.m[i][1]*other.m[1][j] + m.m[i][2]*other.m[2][j]
		}
		res.m[i][3] = m.m[i][0]*other.m[0][3] + m.m[i][1]*other.m[1][3] + m.m[i][2]*other.m[2][3] + m.m[i][3]
	}
	return res
}

// rotationAbout returns a pure-rotation matrix for angle radians about
// one of the three principal axes (vector.cpp's Matrix::Rotate(Axis,
// float)).
func rotationAbout(axis Axis, angle float64) Matrix3x4 {
	cos, sin := cosSin(angle)
	var r Matrix3x4
	switch axis {
	case AxisX:
		r.m[0] = [4]float64{1, 0, 0, 0}
		r.m[1] = [4]float64{0, cos, -sin, 0}
		r.m[2] = [4]float64{0, sin, cos, 0}
	case AxisY:
		r.m[0] = [4]float64{cos, 0, sin, 0}
		r.m[1] = [4]float64{0, 1, 0, 0}
		r.m[2] = [4]float64{-sin, 0, cos, 0}
	case AxisZ:
		r.m[0] = [4]float64{cos, -sin, 0, 0}
		r.m[1] = [4]float64{sin, cos, 0, 0}
		r.m[2] = [4]float64{0, 0, 1, 0}
	}
	return r
}

// Rotate post-multiplies m by a rotation of angle radians about one of
// the principal axes, returning the new frame.
func (m Matrix3x4) Rotate(axis Axis, angle float64) Matrix3x4 {
	return mulMatrix(m, rotationAbout(axis, angle))
}

// RotateAroundVector post-multiplies m by a rotation of angle radians
// about an arbitrary axis vec (normalized internally), implementing the
// original's Rodrigues-style Matrix::Rotate(const Vector&, float).
func (m Matrix3x4) RotateAroundVector(vec Vector3, angle float64) Matrix3x4 {
	cos, sin := cosSin(angle)
	axis := vec.Normalized()

	var r Matrix3x4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.m[i][j] = (1 - cos) * axis.At(i) * axis.At(j)
		}
	}
	r.m[0][0] += cos
	r.m[0][1] += -sin * axis.Z
	r.m[0][2] += sin * axis.Y
	r.m[1][0] += sin * axis.Z
	r.m[1][1] += cos
	r.m[1][2] += -sin * axis.X
	r.m[2][0] += -sin * axis.Y
	r.m[2][1] += sin * axis.X
	r.m[2][2] += cos

	return mulMatrix(m, r)
}

// Reverse negates every component of the heading and left columns,
// turning the frame fully around in place (vector.cpp's
// Matrix::Reverse, used by the turtle's '|' turn-around action).
func (m Matrix3x4) Reverse() Matrix3x4 {
	out := m
	out.m[0][0] = -out.m[0][0]
	out.m[0][1] = -out.m[0][1]
	out.m[1][0] = -out.m[1][0]
	out.m[1][1] = -out.m[1][1]
	out.m[2][0] = -out.m[2][0]
	out.m[2][1] = -out.m[2][1]
	return out
}

// Apply transforms point vec by m, including translation: m's rotation
// rows times vec, plus the 4th-column offset.
func (m Matrix3x4) Apply(vec Vector3) Vector3 {
	return Vector3{
		m.m[0][0]*vec.X + m.m[0][1]*vec.Y + m.m[0][2]*vec.Z + m.m[0][3],
		m.m[1][0]*vec.X + m.m[1][1]*vec.Y + m.m[1][2]*vec.Z + m.m[1][3],
		m.m[2][0]*vec.X + m.m[2][1]*vec.Y + m.m[2][2]*vec.Z + m.m[2][3],
	}
}
