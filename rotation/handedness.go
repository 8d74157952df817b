package rotation

// MirrorZ converts quaternions between left-handed and right-handed spaces
// that differ in the direction of the z axis, (x, y, z, w) -> (-x, -y, z, w).
// The result is standardized.
func MirrorZ(q *Batch) (*Batch, error) {
	r, err := StandardizeQuaternion(q)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r.Len(); i++ {
		e := r.At(i)
		e[0], e[1] = -e[0], -e[1]
	}
	return r, nil
}
