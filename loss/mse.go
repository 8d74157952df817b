package loss

import (
	"fmt"
	"reflect"

	"github.com/binzume/rotconv/rotation"
)

// MSELoss returns the mean squared difference over all components.
func MSELoss(pred, target *rotation.Batch) (float64, error) {
	if pred == nil || target == nil || len(pred.Data) != len(target.Data) || !reflect.DeepEqual(pred.Shape, target.Shape) {
		return 0, fmt.Errorf("mse: mismatched batches: %w", rotation.ErrShape)
	}
	if len(pred.Data) == 0 {
		return 0, nil
	}
	sq := make([]float64, len(pred.Data))
	for i, p := range pred.Data {
		d := p - target.Data[i]
		sq[i] = d * d
	}
	return Mean(sq), nil
}
