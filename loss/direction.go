package loss

import (
	"fmt"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
)

var DefaultForward = geom.Vector3{X: 0, Y: 0, Z: 1}

// DirectionLoss compares continuous rotations by where they send Forward.
// Each element contributes (1 - dot(pf, tf)) / 2, which is 0 for the same
// direction and 1 for opposite ones.
type DirectionLoss struct {
	// Normalizer is applied to predictions and targets before conversion.
	// nil means the inputs are already denormalized.
	Normalizer *Normalizer
	// Forward is the axis being rotated. The zero vector means DefaultForward.
	Forward geom.Vector3
	// Converter runs the conversions. nil means rotation.Default.
	Converter *rotation.Converter
}

func (l *DirectionLoss) forward() *rotation.Batch {
	f := l.Forward
	if f.LenSqr() == 0 {
		f = DefaultForward
	}
	return rotation.VectorBatch(&f)
}

func (l *DirectionLoss) directions(b *rotation.Batch) (*rotation.Batch, error) {
	conv := l.Converter
	if conv == nil {
		conv = rotation.Default
	}
	var err error
	if l.Normalizer != nil {
		if b, err = l.Normalizer.Denormalize(b); err != nil {
			return nil, err
		}
	}
	m, err := conv.ContinuousToMatrix(b)
	if err != nil {
		return nil, err
	}
	return conv.ApplyMatrixToVector(m, l.forward())
}

// PerElement returns the loss of every element, shaped like the batch shape
// of pred.
func (l *DirectionLoss) PerElement(pred, target *rotation.Batch) ([]float64, error) {
	pf, err := l.directions(pred)
	if err != nil {
		return nil, fmt.Errorf("prediction: %w", err)
	}
	tf, err := l.directions(target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if pf.Len() != tf.Len() {
		return nil, fmt.Errorf("direction loss: %d predictions, %d targets: %w", pf.Len(), tf.Len(), rotation.ErrShape)
	}
	out := make([]float64, pf.Len())
	for i := range out {
		out[i] = (1 - pf.Vector(i).Dot(tf.Vector(i))) / 2
	}
	return out, nil
}

// Eval returns the mean of PerElement. An empty batch has zero loss.
func (l *DirectionLoss) Eval(pred, target *rotation.Batch) (float64, error) {
	v, err := l.PerElement(pred, target)
	if err != nil {
		return 0, err
	}
	return Mean(v), nil
}

// Mean averages per element losses. It is 0 for no elements.
func Mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var s float64
	for _, e := range v {
		s += e
	}
	return s / float64(len(v))
}
