package rotation

import (
	"testing"

	"github.com/binzume/rotconv/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatch(t *testing.T) {
	data := []float64{0, 0, 0, 1, 0, 0, 1, 0}
	b, err := NewBatch(QuaternionSize, data)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, b.Shape)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 4, b.Components())
	assert.Equal(t, []int{2}, b.BatchShape())

	data[0] = 5
	assert.Equal(t, 0.0, b.Data[0], "NewBatch should copy its input")

	s, err := NewBatch(QuaternionSize, []float64{0, 0, 0, 1}, []int{}...)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, s.Shape)
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.BatchShape())

	empty, err := NewBatch(MatrixSize, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	out, err := MatrixToQuaternion(empty)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4}, out.Shape)

	_, err = NewBatch(0, nil)
	assert.ErrorIs(t, err, ErrShape)
}

func TestBatchReshape(t *testing.T) {
	b := Zeros(VectorSize, 6)
	r, err := b.Reshape(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 3}, r.Shape)
	assert.Equal(t, 6, r.Len())

	_, err = b.Reshape(4)
	assert.ErrorIs(t, err, ErrShape)

	c := b.Clone()
	c.Data[0] = 1
	assert.Equal(t, 0.0, b.Data[0])
}

func TestBatchAccessors(t *testing.T) {
	q := QuaternionBatch(geom.NewQuaternion(1, 2, 3, 4), geom.NewQuaternion(5, 6, 7, 8))
	assert.Equal(t, *geom.NewQuaternion(5, 6, 7, 8), *q.Quaternion(1))
	assert.Equal(t, []float64{1, 2, 3, 4}, q.At(0))

	v := VectorBatch(geom.NewVector3(1, 2, 3))
	assert.Equal(t, *geom.NewVector3(1, 2, 3), *v.Vector(0))

	m := MatrixBatch(geom.NewMatrix3())
	assert.Equal(t, *geom.NewMatrix3(), *m.Matrix(0))

	c := ContinuousBatch(geom.NewMatrix3().ToContinuous())
	assert.Equal(t, []float64{1, 0, 0, 0, 1, 0}, c.Data)
	assert.Equal(t, *geom.NewVector3(0, 1, 0), *c.Continuous(0).V())
}

func TestMirrorZ(t *testing.T) {
	q := QuaternionBatch(geom.NewQuaternion(0.1, 0.2, 0.3, -0.9), geom.NewQuaternion(0, 0, 0, 1))
	m, err := MirrorZ(q)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, -0.3, 0.9}, m.At(0))
	assert.Equal(t, []float64{0, 0, 0, 1}, m.At(1))

	// mirroring twice gives the standardized input
	back, err := MirrorZ(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.1, -0.2, -0.3, 0.9}, back.At(0))

	_, err = MirrorZ(Zeros(MatrixSize, 1))
	assert.ErrorIs(t, err, ErrShape)
}
