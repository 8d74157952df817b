package loss

import (
	"math"
	"math/rand"
	"testing"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func continuous(t *testing.T, data ...float64) *rotation.Batch {
	t.Helper()
	b, err := rotation.NewBatch(rotation.ContinuousSize, data)
	require.NoError(t, err)
	return b
}

func TestDirectionLossIdentical(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	data := make([]float64, 50*rotation.ContinuousSize)
	for i := range data {
		data[i] = rnd.Float64()*2 - 1
	}
	b := continuous(t, data...)

	l := &DirectionLoss{}
	v, err := l.Eval(b, b)
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-12)
}

func TestDirectionLossValues(t *testing.T) {
	identity := []float64{1, 0, 0, 0, 1, 0}
	halfTurnX := []float64{1, 0, 0, 0, -1, 0}
	quarterTurnX := []float64{1, 0, 0, 0, 0, 1}
	quarterTurnZ := []float64{0, 1, 0, -1, 0, 0}

	pred := continuous(t, append(append(append([]float64{}, identity...), identity...), identity...)...)
	target := continuous(t, append(append(append([]float64{}, halfTurnX...), quarterTurnX...), quarterTurnZ...)...)

	l := &DirectionLoss{}
	v, err := l.PerElement(pred, target)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.5, 0}, v, 1e-12)

	m, err := l.Eval(pred, target)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, m, 1e-12)

	l.Forward = geom.Vector3{X: 1}
	v, err = l.PerElement(pred, target)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0.5}, v, 1e-12)
}

func TestDirectionLossDenormalizes(t *testing.T) {
	n := &Normalizer{
		Mean: []float64{1, 0, 0, 0, 1, 0},
		Std:  []float64{1, 1, 1, 1, 1, 1},
	}
	pred := continuous(t, 0, 0, 0, 0, 0, 0)
	target := continuous(t, 0, 0, 0, 0, -2, 0)

	l := &DirectionLoss{Normalizer: n, Converter: &rotation.Converter{Workers: 4}}
	v, err := l.Eval(pred, target)
	require.NoError(t, err)
	assert.InDelta(t, 1, v, 1e-12)

	// Without statistics the zero prediction is degenerate.
	l.Normalizer = nil
	v, err = l.Eval(pred, target)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestDirectionLossErrors(t *testing.T) {
	l := &DirectionLoss{}
	_, err := l.Eval(continuous(t, 1, 0, 0, 0, 1, 0, 1, 0, 0, 0, 1, 0), continuous(t, 1, 0, 0, 0, 1, 0))
	assert.ErrorIs(t, err, rotation.ErrShape)

	q := rotation.QuaternionBatch(geom.NewQuaternion(0, 0, 0, 1))
	_, err = l.Eval(q, q)
	assert.ErrorIs(t, err, rotation.ErrShape)

	l.Normalizer = &Normalizer{Mean: []float64{0, 0, 0}, Std: []float64{1, 1, 1}}
	_, err = l.Eval(continuous(t, 1, 0, 0, 0, 1, 0), continuous(t, 1, 0, 0, 0, 1, 0))
	assert.ErrorIs(t, err, rotation.ErrShape)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.5, Mean([]float64{1, 0.5, 0}), 1e-12)
}
