package geom

import (
	"math"
	"testing"
)

func TestEulerRoundTrip(t *testing.T) {
	const eps = 1e-9
	const deg = math.Pi / 180

	for i, c := range []struct {
		order   RotationOrder
		x, y, z Element
	}{
		{RotationOrderXYZ, 15, -40, 75},
		{RotationOrderXYZ, 30, 90, 0},
		{RotationOrderYXZ, 15, -40, 75},
		{RotationOrderYXZ, 90, 25, 0},
		{RotationOrderZXY, 15, -40, 75},
		{RotationOrderZXY, 90, 0, 45},
		{RotationOrderZYX, 15, -40, 75},
		{RotationOrderZYX, 0, 90, 60},
	} {
		e := NewEuler(c.x*deg, c.y*deg, c.z*deg, c.order)
		q := e.ToQuaternion()
		if Abs(q.Len()-1) > eps {
			t.Error("not unit: ", i, q)
		}

		fromQ := NewEulerFromQuaternion(q, c.order)
		fromM := NewEulerFromMatrix3(e.ToMatrix3(), c.order)
		if e.Vector3.Sub(&fromQ.Vector3).Len() > 1e-6 {
			t.Error("from quaternion: ", i, e, fromQ)
		}
		if fromQ.Vector3.Sub(&fromM.Vector3).Len() > eps {
			t.Error("from matrix: ", i, fromQ, fromM)
		}
	}
}

// Single axis angles agree with the axis-angle constructor in every order.
func TestEulerSingleAxis(t *testing.T) {
	for _, order := range []RotationOrder{RotationOrderXYZ, RotationOrderYXZ, RotationOrderZXY, RotationOrderZYX} {
		for _, c := range []struct {
			e    *EulerAngles
			axis *Vector3
		}{
			{NewEuler(0.7, 0, 0, order), NewVector3(1, 0, 0)},
			{NewEuler(0, 0.7, 0, order), NewVector3(0, 1, 0)},
			{NewEuler(0, 0, 0.7, order), NewVector3(0, 0, 1)},
		} {
			want := NewAxisAngleQuaternion(c.axis, 0.7)
			if q := c.e.ToQuaternion(); q.Sub(want).Len() > 1e-12 {
				t.Error("single axis: ", order, q, want)
			}
		}
	}
}

func TestParseRotationOrder(t *testing.T) {
	if o, err := ParseRotationOrder("zxy"); err != nil || o != RotationOrderZXY {
		t.Error("ParseRotationOrder(zxy)", o, err)
	}
	if _, err := ParseRotationOrder("XZY"); err == nil {
		t.Error("XZY should be rejected")
	}
}
