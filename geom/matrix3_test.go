package geom

import (
	"math"
	"math/rand"
	"testing"
)

func matrixAlmostEqual(a, b *Matrix3, eps Element) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestQuaternionToMatrix3(t *testing.T) {
	const eps = 0.000001

	m := NewQuaternion(0, 0, 1, 0).ToMatrix3()
	if !matrixAlmostEqual(m, &Matrix3{-1, 0, 0, 0, -1, 0, 0, 0, 1}, eps) {
		t.Error("180 deg around Z: ", m)
	}
	q := m.ToQuaternion()
	if q.Sub(NewQuaternion(0, 0, 1, 0)).Len() > eps && q.Add(NewQuaternion(0, 0, 1, 0)).Len() > eps {
		t.Error("180 deg around Z: ", q)
	}
	if q.W < 0 {
		t.Error("not standardized: ", q)
	}

	if !matrixAlmostEqual(NewQuaternion(0, 0, 0, 1).ToMatrix3(), NewMatrix3(), 0) {
		t.Error("identity")
	}
}

func TestMatrix3ToQuaternion(t *testing.T) {
	const eps = 0.000001

	var rots []*Quaternion
	for _, axis := range []*Vector3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 0}, {1, 1, 1}, {-1, 2, 3}} {
		for _, deg := range []Element{0, 30, 90, 179.9, 180, 180.1, 270, 359} {
			rots = append(rots, NewAxisAngleQuaternion(axis, deg*math.Pi/180))
		}
	}
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		rots = append(rots, NewQuaternion(rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()).Normalize())
	}

	for i, q := range rots {
		m := q.ToMatrix3()
		q2 := m.ToQuaternion()
		if q2.W < 0 {
			t.Error("w < 0: ", i, q2)
		}
		if math.Abs(q2.Len()-1) > eps {
			t.Error("not unit: ", i, q2)
		}
		if q2.Sub(q.Standardize()).Len() > eps && math.Abs(q.W) > eps {
			t.Error("quaternion: ", i, q, q2)
		}
		if !matrixAlmostEqual(q2.ToMatrix3(), m, eps) {
			t.Error("round trip: ", i, m, q2.ToMatrix3())
		}
	}
}

func TestMatrix3ToQuaternionClamp(t *testing.T) {
	// 180 deg around X with rounding noise pushes some radicands below zero.
	m := &Matrix3{1, 0, 0, 0, -1 - 1e-9, 1e-9, 0, -1e-9, -1 - 1e-9}
	q := m.ToQuaternion()
	if !q.IsFinite() {
		t.Fatal("NaN: ", q)
	}
	if math.Abs(q.X-1) > 0.000001 {
		t.Error("expected X dominant: ", q)
	}
}

func TestMatrix3Mul(t *testing.T) {
	const eps = 0.000001
	a := NewAxisAngleQuaternion(NewVector3(1, 0, 0), math.Pi/2).ToMatrix3()
	b := NewAxisAngleQuaternion(NewVector3(0, 1, 0), math.Pi/2).ToMatrix3()
	v := NewVector3(0, 0, 1)

	ab := a.Mul(b).ApplyTo(v)
	ba := b.Mul(a).ApplyTo(v)
	if ab.Sub(ba).Len() < eps {
		t.Error("rotations should not commute: ", ab, ba)
	}
	if ab.Sub(a.ApplyTo(b.ApplyTo(v))).Len() > eps {
		t.Error("a.Mul(b) should apply b first: ", ab)
	}
	if ab.Sub(NewVector3(1, 0, 0)).Len() > eps {
		t.Error("unexpected result: ", ab)
	}
	if !matrixAlmostEqual(a.Mul(a.Transposed()), NewMatrix3(), eps) {
		t.Error("R * R^T != I")
	}
}

func TestQuaternionMulMatchesMatrix(t *testing.T) {
	const eps = 0.000001
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		q1 := NewQuaternion(rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()).Normalize()
		q2 := NewQuaternion(rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()).Normalize()
		v := NewVector3(rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64())

		r1 := q1.Mul(q2).Standardize().ApplyTo(v)
		r2 := q1.ApplyTo(q2.ApplyTo(v))
		if r1.Sub(r2).Len() > eps {
			t.Error("q1*q2: ", i, r1, r2)
		}
		if !matrixAlmostEqual(q1.Mul(q2).ToMatrix3(), q1.ToMatrix3().Mul(q2.ToMatrix3()), eps) {
			t.Error("R(q1*q2) != R(q1)R(q2): ", i)
		}
	}
}

func TestStandardize(t *testing.T) {
	q := NewQuaternion(0.1, -0.2, 0.3, -0.9)
	s := q.Standardize()
	if s.W < 0 || *s != *NewQuaternion(-0.1, 0.2, -0.3, 0.9) {
		t.Error("Standardize: ", s)
	}
	if *s.Standardize() != *s {
		t.Error("Standardize is not idempotent")
	}
	if q.W != -0.9 {
		t.Error("input modified")
	}
}
