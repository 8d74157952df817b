package rotation

import (
	"fmt"
	"reflect"

	"github.com/binzume/rotconv/geom"
	"golang.org/x/sync/errgroup"
)

const defaultChunkSize = 4096

// Converter runs the batch operations. The zero value is usable and
// processes batches on the calling goroutine.
type Converter struct {
	// Floor bounds the divisor of the matrix to quaternion conversion.
	// Zero means geom.DefaultQuaternionFloor.
	Floor float64
	// Workers is the maximum number of goroutines per call. Values <= 1
	// disable the fan-out.
	Workers int
	// ChunkSize is the number of elements handed to a goroutine at once.
	ChunkSize int
}

// Default is used by the package level functions.
var Default = &Converter{}

func (c *Converter) floor() float64 {
	if c.Floor > 0 {
		return c.Floor
	}
	return geom.DefaultQuaternionFloor
}

// forEach calls fn for every index in [0, n). Chunks are disjoint, so fn
// may write its own output element without locking.
func (c *Converter) forEach(n int, fn func(i int)) error {
	chunk := c.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	if c.Workers <= 1 || n <= chunk {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(c.Workers)
	for start := 0; start < n; start += chunk {
		start, end := start, start+chunk
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Converter) unary(op string, in *Batch, inSize, outSize int, fn func(src, dst []float64)) (*Batch, error) {
	if err := in.expect(inSize); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := Zeros(outSize, in.BatchShape()...)
	err := c.forEach(in.Len(), func(i int) {
		fn(in.Data[i*inSize:(i+1)*inSize], out.Data[i*outSize:(i+1)*outSize])
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// binary applies fn pairwise. Batch shapes must be equal, except that an
// operand holding a single element is paired with every element of the
// other.
func (c *Converter) binary(op string, a, b *Batch, aSize, bSize, outSize int, fn func(x, y, dst []float64)) (*Batch, error) {
	if err := a.expect(aSize); err != nil {
		return nil, fmt.Errorf("%s: first operand: %w", op, err)
	}
	if err := b.expect(bSize); err != nil {
		return nil, fmt.Errorf("%s: second operand: %w", op, err)
	}
	na, nb := a.Len(), b.Len()
	shape := a.BatchShape()
	switch {
	case reflect.DeepEqual(a.BatchShape(), b.BatchShape()):
	case nb == 1:
	case na == 1:
		shape = b.BatchShape()
	default:
		return nil, fmt.Errorf("%s: batch shapes %v and %v differ: %w", op, a.BatchShape(), b.BatchShape(), ErrShape)
	}
	out := Zeros(outSize, shape...)
	err := c.forEach(out.Len(), func(i int) {
		ia, ib := i, i
		if na == 1 {
			ia = 0
		}
		if nb == 1 {
			ib = 0
		}
		fn(a.Data[ia*aSize:(ia+1)*aSize], b.Data[ib*bSize:(ib+1)*bSize], out.Data[i*outSize:(i+1)*outSize])
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// StandardizeQuaternion flips every quaternion with a negative w.
func (c *Converter) StandardizeQuaternion(q *Batch) (*Batch, error) {
	return c.unary("standardize quaternion", q, QuaternionSize, QuaternionSize, func(src, dst []float64) {
		geom.NewQuaternionFromSlice(src).Standardize().ToArray(dst)
	})
}

func (c *Converter) QuaternionToMatrix(q *Batch) (*Batch, error) {
	return c.unary("quaternion to matrix", q, QuaternionSize, MatrixSize, func(src, dst []float64) {
		geom.NewRotationMatrix3FromQuaternion(geom.NewQuaternionFromSlice(src)).ToArray(dst)
	})
}

// MatrixToQuaternion returns standardized quaternions.
func (c *Converter) MatrixToQuaternion(m *Batch) (*Batch, error) {
	floor := c.floor()
	return c.unary("matrix to quaternion", m, MatrixSize, QuaternionSize, func(src, dst []float64) {
		geom.NewMatrix3FromSlice(src).ToQuaternionWithFloor(floor).ToArray(dst)
	})
}

// ContinuousToMatrix orthonormalizes the two columns of each element.
// Degenerate elements (zero or parallel columns) come out as NaN; use
// CheckContinuous to find them.
func (c *Converter) ContinuousToMatrix(r *Batch) (*Batch, error) {
	return c.unary("continuous to matrix", r, ContinuousSize, MatrixSize, func(src, dst []float64) {
		geom.NewContinuousFromSlice(src).ToMatrix3().ToArray(dst)
	})
}

func (c *Converter) ContinuousToQuaternion(r *Batch) (*Batch, error) {
	floor := c.floor()
	return c.unary("continuous to quaternion", r, ContinuousSize, QuaternionSize, func(src, dst []float64) {
		geom.NewContinuousFromSlice(src).ToMatrix3().ToQuaternionWithFloor(floor).ToArray(dst)
	})
}

func (c *Converter) MatrixToContinuous(m *Batch) (*Batch, error) {
	return c.unary("matrix to continuous", m, MatrixSize, ContinuousSize, func(src, dst []float64) {
		copy(dst, src[:ContinuousSize])
	})
}

func (c *Converter) QuaternionToContinuous(q *Batch) (*Batch, error) {
	return c.unary("quaternion to continuous", q, QuaternionSize, ContinuousSize, func(src, dst []float64) {
		geom.NewQuaternionFromSlice(src).ToContinuous().ToArray(dst)
	})
}

// MultiplyQuaternions returns the standardized Hamilton products a*b.
// The result rotates by b first and then by a.
func (c *Converter) MultiplyQuaternions(a, b *Batch) (*Batch, error) {
	return c.binary("multiply quaternions", a, b, QuaternionSize, QuaternionSize, QuaternionSize, func(x, y, dst []float64) {
		geom.NewQuaternionFromSlice(x).Mul(geom.NewQuaternionFromSlice(y)).Standardize().ToArray(dst)
	})
}

// ComposeMatrices returns a*b: the rotation applying b first and then a.
func (c *Converter) ComposeMatrices(a, b *Batch) (*Batch, error) {
	return c.binary("compose matrices", a, b, MatrixSize, MatrixSize, MatrixSize, func(x, y, dst []float64) {
		geom.NewMatrix3FromSlice(x).Mul(geom.NewMatrix3FromSlice(y)).ToArray(dst)
	})
}

func (c *Converter) ApplyMatrixToVector(m, v *Batch) (*Batch, error) {
	return c.binary("apply matrix to vector", m, v, MatrixSize, VectorSize, VectorSize, func(x, y, dst []float64) {
		geom.NewMatrix3FromSlice(x).ApplyTo(geom.NewVector3FromSlice(y)).ToArray(dst)
	})
}

func StandardizeQuaternion(q *Batch) (*Batch, error) { return Default.StandardizeQuaternion(q) }

func QuaternionToMatrix(q *Batch) (*Batch, error) { return Default.QuaternionToMatrix(q) }

func MatrixToQuaternion(m *Batch) (*Batch, error) { return Default.MatrixToQuaternion(m) }

func ContinuousToMatrix(r *Batch) (*Batch, error) { return Default.ContinuousToMatrix(r) }

func ContinuousToQuaternion(r *Batch) (*Batch, error) { return Default.ContinuousToQuaternion(r) }

func MatrixToContinuous(m *Batch) (*Batch, error) { return Default.MatrixToContinuous(m) }

func QuaternionToContinuous(q *Batch) (*Batch, error) { return Default.QuaternionToContinuous(q) }

func MultiplyQuaternions(a, b *Batch) (*Batch, error) { return Default.MultiplyQuaternions(a, b) }

func ComposeMatrices(a, b *Batch) (*Batch, error) { return Default.ComposeMatrices(a, b) }

func ApplyMatrixToVector(m, v *Batch) (*Batch, error) { return Default.ApplyMatrixToVector(m, v) }
