package geom

// column-major matrix
type Matrix4 [16]Element

func NewMatrix4() *Matrix4 {
	return &Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func NewMatrix4FromSlice(a []Element) *Matrix4 {
	mat := &Matrix4{}
	copy(mat[:], a[:])
	return mat
}

func NewScaleMatrix4(x, y, z Element) *Matrix4 {
	return &Matrix4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

func NewTranslateMatrix4(x, y, z Element) *Matrix4 {
	return &Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

func NewRotationMatrix4(r *Matrix3) *Matrix4 {
	return &Matrix4{
		r[0], r[1], r[2], 0,
		r[3], r[4], r[5], 0,
		r[6], r[7], r[8], 0,
		0, 0, 0, 1,
	}
}

// NewTRSMatrix4 returns T * R * S.
func NewTRSMatrix4(translate *Vector3, rotation *Quaternion, scale *Vector3) *Matrix4 {
	r := NewRotationMatrix3FromQuaternion(rotation)
	return &Matrix4{
		r[0] * scale.X, r[1] * scale.X, r[2] * scale.X, 0,
		r[3] * scale.Y, r[4] * scale.Y, r[5] * scale.Y, 0,
		r[6] * scale.Z, r[7] * scale.Z, r[8] * scale.Z, 0,
		translate.X, translate.Y, translate.Z, 1,
	}
}

func (b *Matrix4) Mul(a *Matrix4) *Matrix4 {
	r := &Matrix4{}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col*4+row] = b[row]*a[col*4] + b[4+row]*a[col*4+1] + b[8+row]*a[col*4+2] + b[12+row]*a[col*4+3]
		}
	}
	return r
}

func (mat *Matrix4) ApplyTo(v *Vector3) *Vector3 {
	return &Vector3{
		mat[0]*v.X + mat[4]*v.Y + mat[8]*v.Z + mat[12],
		mat[1]*v.X + mat[5]*v.Y + mat[9]*v.Z + mat[13],
		mat[2]*v.X + mat[6]*v.Y + mat[10]*v.Z + mat[14],
	}
}

// Matrix3 returns the upper-left 3x3 block.
func (m *Matrix4) Matrix3() *Matrix3 {
	return &Matrix3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Decompose splits a TRS matrix. The rotation is recovered from the first
// two columns through the continuous representation, so scale and small
// skew do not leak into it.
func (m *Matrix4) Decompose() (*Vector3, *Quaternion, *Vector3) {
	m3 := m.Matrix3()
	scale := &Vector3{X: m3.Column(0).Len(), Y: m3.Column(1).Len(), Z: m3.Column(2).Len()}
	if m3.Det() < 0 {
		scale.Z = -scale.Z
	}
	rot := m3.ToContinuous().ToQuaternion()
	return &Vector3{X: m[12], Y: m[13], Z: m[14]}, rot, scale
}

func (m *Matrix4) Transposed() *Matrix4 {
	return &Matrix4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

func (m *Matrix4) Clone() *Matrix4 {
	r := *m
	return &r
}

func (mat *Matrix4) ToArray(a []Element) {
	copy(a, mat[:])
}
