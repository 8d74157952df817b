// Package loss evaluates rotation predictions against targets the way the
// training pipeline does: predicted 6D rotations are denormalized, turned
// into matrices, and compared by the direction they map a forward axis to.
package loss

import (
	"fmt"

	"github.com/binzume/rotconv/rotation"
)

// Normalizer holds per-component statistics of a feature block.
type Normalizer struct {
	Mean []float64
	Std  []float64
}

func (n *Normalizer) check(b *rotation.Batch) error {
	if b == nil || len(b.Shape) == 0 {
		return fmt.Errorf("normalizer: empty batch: %w", rotation.ErrShape)
	}
	if len(n.Mean) != len(n.Std) {
		return fmt.Errorf("normalizer: %d means, %d stds: %w", len(n.Mean), len(n.Std), rotation.ErrShape)
	}
	if c := b.Components(); c != len(n.Mean) {
		return fmt.Errorf("normalizer: %d components, %d statistics: %w", c, len(n.Mean), rotation.ErrShape)
	}
	return nil
}

// Denormalize returns b*std + mean.
func (n *Normalizer) Denormalize(b *rotation.Batch) (*rotation.Batch, error) {
	if err := n.check(b); err != nil {
		return nil, err
	}
	r := b.Clone()
	c := len(n.Mean)
	for i := range r.Data {
		r.Data[i] = r.Data[i]*n.Std[i%c] + n.Mean[i%c]
	}
	return r, nil
}

// Normalize returns (b - mean) / std. Components with a zero std are only
// centered.
func (n *Normalizer) Normalize(b *rotation.Batch) (*rotation.Batch, error) {
	if err := n.check(b); err != nil {
		return nil, err
	}
	r := b.Clone()
	c := len(n.Mean)
	for i := range r.Data {
		r.Data[i] -= n.Mean[i%c]
		if s := n.Std[i%c]; s != 0 {
			r.Data[i] /= s
		}
	}
	return r, nil
}
