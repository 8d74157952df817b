// Package rotation converts batches of 3D rotations between unit
// quaternions, column-major 3x3 matrices and the 6D continuous
// representation, and composes and applies them.
//
// Every operation is applied independently to each element of the batch.
// Inputs are never modified; results are freshly allocated.
package rotation

import (
	"errors"
	"fmt"

	"github.com/binzume/rotconv/geom"
)

// Component counts of the supported encodings.
const (
	QuaternionSize = 4
	MatrixSize     = 9
	ContinuousSize = 6
	VectorSize     = 3
)

// ErrShape is returned when a batch has the wrong component count or an
// inconsistent shape.
var ErrShape = errors.New("invalid shape")

// Batch is a dense array whose last dimension holds the components of one
// element (4 for a quaternion, 9 for a matrix, ...). The leading dimensions
// form the batch shape and may have any rank, including zero.
type Batch struct {
	Shape []int
	Data  []float64
}

// NewBatch copies data into a new batch. Without batchShape the batch is
// one-dimensional.
func NewBatch(components int, data []float64, batchShape ...int) (*Batch, error) {
	if components <= 0 {
		return nil, fmt.Errorf("components %d: %w", components, ErrShape)
	}
	if batchShape == nil {
		if len(data)%components != 0 {
			return nil, fmt.Errorf("%d values is not a multiple of %d: %w", len(data), components, ErrShape)
		}
		batchShape = []int{len(data) / components}
	}
	shape := append(append([]int{}, batchShape...), components)
	b := &Batch{Shape: shape, Data: append([]float64{}, data...)}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Zeros returns a batch of the given shape filled with zeros.
func Zeros(components int, batchShape ...int) *Batch {
	shape := append(append([]int{}, batchShape...), components)
	return &Batch{Shape: shape, Data: make([]float64, product(shape))}
}

func product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

func (b *Batch) validate() error {
	if b == nil {
		return fmt.Errorf("nil batch: %w", ErrShape)
	}
	if len(b.Shape) == 0 {
		return fmt.Errorf("missing component dimension: %w", ErrShape)
	}
	for _, d := range b.Shape {
		if d < 0 {
			return fmt.Errorf("negative dimension in %v: %w", b.Shape, ErrShape)
		}
	}
	if n := product(b.Shape); n != len(b.Data) {
		return fmt.Errorf("shape %v needs %d values, got %d: %w", b.Shape, n, len(b.Data), ErrShape)
	}
	return nil
}

// expect validates b and checks its component count.
func (b *Batch) expect(components int) error {
	if err := b.validate(); err != nil {
		return err
	}
	if c := b.Components(); c != components {
		return fmt.Errorf("expected %d components, got %d: %w", components, c, ErrShape)
	}
	return nil
}

// Components returns the size of the last dimension.
func (b *Batch) Components() int {
	return b.Shape[len(b.Shape)-1]
}

// BatchShape returns a copy of the leading dimensions.
func (b *Batch) BatchShape() []int {
	return append([]int{}, b.Shape[:len(b.Shape)-1]...)
}

// Len returns the number of elements.
func (b *Batch) Len() int {
	return product(b.Shape[:len(b.Shape)-1])
}

// At returns the components of element i. The slice aliases b.Data.
func (b *Batch) At(i int) []float64 {
	c := b.Components()
	return b.Data[i*c : (i+1)*c : (i+1)*c]
}

// Reshape returns a batch sharing the data of b with a new batch shape.
func (b *Batch) Reshape(batchShape ...int) (*Batch, error) {
	shape := append(append([]int{}, batchShape...), b.Components())
	r := &Batch{Shape: shape, Data: b.Data}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *Batch) Clone() *Batch {
	return &Batch{Shape: append([]int{}, b.Shape...), Data: append([]float64{}, b.Data...)}
}

func QuaternionBatch(qs ...*geom.Quaternion) *Batch {
	b := Zeros(QuaternionSize, len(qs))
	for i, q := range qs {
		q.ToArray(b.At(i))
	}
	return b
}

func MatrixBatch(ms ...*geom.Matrix3) *Batch {
	b := Zeros(MatrixSize, len(ms))
	for i, m := range ms {
		m.ToArray(b.At(i))
	}
	return b
}

func ContinuousBatch(cs ...*geom.Continuous) *Batch {
	b := Zeros(ContinuousSize, len(cs))
	for i, c := range cs {
		c.ToArray(b.At(i))
	}
	return b
}

func VectorBatch(vs ...*geom.Vector3) *Batch {
	b := Zeros(VectorSize, len(vs))
	for i, v := range vs {
		v.ToArray(b.At(i))
	}
	return b
}

// Quaternion returns element i of a quaternion batch.
func (b *Batch) Quaternion(i int) *geom.Quaternion {
	return geom.NewQuaternionFromSlice(b.At(i))
}

// Matrix returns element i of a matrix batch.
func (b *Batch) Matrix(i int) *geom.Matrix3 {
	return geom.NewMatrix3FromSlice(b.At(i))
}

// Continuous returns element i of a continuous batch.
func (b *Batch) Continuous(i int) *geom.Continuous {
	return geom.NewContinuousFromSlice(b.At(i))
}

// Vector returns element i of a vector batch.
func (b *Batch) Vector(i int) *geom.Vector3 {
	return geom.NewVector3FromSlice(b.At(i))
}
