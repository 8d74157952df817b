package geom

// Continuous is the 6D rotation representation: the first two columns of a
// rotation matrix, (c0.x, c0.y, c0.z, c1.x, c1.y, c1.z). The columns need not
// be orthonormal.
type Continuous [6]Element

func NewContinuous(u, v *Vector3) *Continuous {
	return &Continuous{u.X, u.Y, u.Z, v.X, v.Y, v.Z}
}

func NewContinuousFromSlice(a []Element) *Continuous {
	c := &Continuous{}
	copy(c[:], a)
	return c
}

func (c *Continuous) U() *Vector3 {
	return &Vector3{X: c[0], Y: c[1], Z: c[2]}
}

func (c *Continuous) V() *Vector3 {
	return &Vector3{X: c[3], Y: c[4], Z: c[5]}
}

// ToMatrix3 orthonormalizes the two columns with Gram-Schmidt and completes
// the basis with their cross product. u must be non-zero and v must not be
// parallel to u, otherwise the result contains NaN.
func (c *Continuous) ToMatrix3() *Matrix3 {
	u, v := c.U(), c.V()
	b1 := u.Normalized()
	b2 := v.Sub(b1.Scale(b1.Dot(v))).Normalized()
	b3 := b1.Cross(b2)
	return NewMatrix3FromColumns(b1, b2, b3)
}

func (c *Continuous) ToQuaternion() *Quaternion {
	return c.ToMatrix3().ToQuaternion()
}

// IsDegenerate reports whether ToMatrix3 would divide by a length below eps.
func (c *Continuous) IsDegenerate(eps Element) bool {
	u, v := c.U(), c.V()
	l := u.Len()
	if !(l > eps) {
		return true
	}
	b1 := u.Scale(1 / l)
	return !(v.Sub(b1.Scale(b1.Dot(v))).Len() > eps)
}

func (c *Continuous) ToArray(a []Element) {
	copy(a, c[:])
}
