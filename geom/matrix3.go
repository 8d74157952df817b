package geom

import "math"

// DefaultQuaternionFloor is the lower bound of the divisor used when a
// quaternion is recovered from a matrix. Any small positive value works:
// the bound is only reached by candidates that are never selected.
const DefaultQuaternionFloor = 0.1

// column-major 3x3 matrix: (c0.x, c0.y, c0.z, c1.x, c1.y, c1.z, c2.x, c2.y, c2.z)
type Matrix3 [9]Element

func NewMatrix3() *Matrix3 {
	return &Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func NewMatrix3FromSlice(a []Element) *Matrix3 {
	mat := &Matrix3{}
	copy(mat[:], a)
	return mat
}

func NewMatrix3FromColumns(c0, c1, c2 *Vector3) *Matrix3 {
	return &Matrix3{
		c0.X, c0.Y, c0.Z,
		c1.X, c1.Y, c1.Z,
		c2.X, c2.Y, c2.Z,
	}
}

// rows converts the column-major storage to row-major form.
// Mul and ApplyTo both go through here and newMatrix3FromRows.
func (m *Matrix3) rows() [3][3]Element {
	return [3][3]Element{
		{m[0], m[3], m[6]},
		{m[1], m[4], m[7]},
		{m[2], m[5], m[8]},
	}
}

func newMatrix3FromRows(r [3][3]Element) *Matrix3 {
	return &Matrix3{
		r[0][0], r[1][0], r[2][0],
		r[0][1], r[1][1], r[2][1],
		r[0][2], r[1][2], r[2][2],
	}
}

func NewRotationMatrix3FromQuaternion(q *Quaternion) *Matrix3 {
	var (
		x = q.X
		y = q.Y
		z = q.Z
		w = q.W
	)
	return newMatrix3FromRows([3][3]Element{
		{2*(w*w+x*x) - 1, 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 2*(w*w+y*y) - 1, 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 2*(w*w+z*z) - 1},
	})
}

// Mul returns m * b, i.e. the rotation that applies b first and then m.
func (m *Matrix3) Mul(b *Matrix3) *Matrix3 {
	ra, rb := m.rows(), b.rows()
	var r [3][3]Element
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = ra[i][0]*rb[0][j] + ra[i][1]*rb[1][j] + ra[i][2]*rb[2][j]
		}
	}
	return newMatrix3FromRows(r)
}

func (m *Matrix3) ApplyTo(v *Vector3) *Vector3 {
	r := m.rows()
	return &Vector3{
		X: r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		Y: r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		Z: r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}

func (m *Matrix3) Column(i int) *Vector3 {
	return &Vector3{X: m[i*3], Y: m[i*3+1], Z: m[i*3+2]}
}

func (m *Matrix3) Det() Element {
	return m.Column(0).Dot(m.Column(1).Cross(m.Column(2)))
}

func (m *Matrix3) Transposed() *Matrix3 {
	return &Matrix3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

func (m *Matrix3) Clone() *Matrix3 {
	r := *m
	return &r
}

func (m *Matrix3) ToArray(a []Element) {
	copy(a, m[:])
}

// ToContinuous drops the third column.
func (m *Matrix3) ToContinuous() *Continuous {
	c := &Continuous{}
	copy(c[:], m[:6])
	return c
}

func (m *Matrix3) ToQuaternion() *Quaternion {
	return m.ToQuaternionWithFloor(DefaultQuaternionFloor)
}

// ToQuaternionWithFloor converts a rotation matrix to a standardized
// quaternion. Four estimates are built, one per dominant component, and the
// one with the largest magnitude (first on ties, order w, x, y, z) is kept.
func (m *Matrix3) ToQuaternionWithFloor(floor Element) *Quaternion {
	qAbs, table := quaternionCandidates(m)
	best := 0
	for k := 1; k < 4; k++ {
		if qAbs[k] > qAbs[best] {
			best = k
		}
	}
	d := 2 * math.Max(qAbs[best], floor)
	row := table[best]
	q := &Quaternion{X: row[1] / d, Y: row[2] / d, Z: row[3] / d, W: row[0] / d}
	return q.Standardize()
}

// quaternionCandidates returns the clamped candidate magnitudes and the
// unscaled candidate table. Rows and columns are in (w, x, y, z) order.
func quaternionCandidates(m *Matrix3) ([4]Element, [4][4]Element) {
	r := m.rows()
	r00, r01, r02 := r[0][0], r[0][1], r[0][2]
	r10, r11, r12 := r[1][0], r[1][1], r[1][2]
	r20, r21, r22 := r[2][0], r[2][1], r[2][2]

	qAbs := [4]Element{
		sqrtPositivePart(1 + r00 + r11 + r22),
		sqrtPositivePart(1 + r00 - r11 - r22),
		sqrtPositivePart(1 - r00 + r11 - r22),
		sqrtPositivePart(1 - r00 - r11 + r22),
	}
	table := [4][4]Element{
		{qAbs[0] * qAbs[0], r21 - r12, r02 - r20, r10 - r01},
		{r21 - r12, qAbs[1] * qAbs[1], r10 + r01, r02 + r20},
		{r02 - r20, r10 + r01, qAbs[2] * qAbs[2], r12 + r21},
		{r10 - r01, r20 + r02, r21 + r12, qAbs[3] * qAbs[3]},
	}
	return qAbs, table
}

// IsRotation reports whether m is orthonormal with determinant +1 within eps.
func (m *Matrix3) IsRotation(eps Element) bool {
	if !m.IsFinite() {
		return false
	}
	p := m.Transposed().Mul(m)
	id := NewMatrix3()
	for i := range p {
		if math.Abs(p[i]-id[i]) > eps {
			return false
		}
	}
	return math.Abs(m.Det()-1) <= eps
}

func sqrtPositivePart(x Element) Element {
	if x > 0 {
		return math.Sqrt(x)
	}
	return 0
}

func (m *Matrix3) IsFinite() bool {
	for _, e := range m {
		if !isFinite(e) {
			return false
		}
	}
	return true
}
