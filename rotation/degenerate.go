package rotation

import (
	"errors"
	"fmt"
)

// DegenerateEpsilon is the length below which a vector is treated as zero
// by the diagnostics.
const DegenerateEpsilon = 1e-8

// RotationTolerance is the largest deviation from orthonormality accepted
// by CheckMatrix.
const RotationTolerance = 1e-4

// ErrDegenerate matches every *DegenerateError.
var ErrDegenerate = errors.New("degenerate rotation")

// DegenerateError lists the elements of a batch that do not describe a
// rotation well enough to be converted.
type DegenerateError struct {
	Op      string
	Indices []int
}

func (e *DegenerateError) Error() string {
	if len(e.Indices) > 8 {
		return fmt.Sprintf("%s: %d degenerate elements, first %v", e.Op, len(e.Indices), e.Indices[:8])
	}
	return fmt.Sprintf("%s: degenerate elements %v", e.Op, e.Indices)
}

func (e *DegenerateError) Is(target error) bool {
	return target == ErrDegenerate
}

// CheckContinuous reports elements whose first column is zero or whose
// second column is parallel to the first.
func CheckContinuous(r *Batch) error {
	if err := r.expect(ContinuousSize); err != nil {
		return fmt.Errorf("check continuous: %w", err)
	}
	var bad []int
	for i := 0; i < r.Len(); i++ {
		if r.Continuous(i).IsDegenerate(DegenerateEpsilon) {
			bad = append(bad, i)
		}
	}
	if len(bad) > 0 {
		return &DegenerateError{Op: "continuous", Indices: bad}
	}
	return nil
}

// CheckMatrix reports elements that are not rotation matrices: non-finite,
// not orthonormal or with a negative determinant. MatrixToQuaternion
// returns meaningless quaternions for them.
func CheckMatrix(m *Batch) error {
	if err := m.expect(MatrixSize); err != nil {
		return fmt.Errorf("check matrix: %w", err)
	}
	var bad []int
	for i := 0; i < m.Len(); i++ {
		if !m.Matrix(i).IsRotation(RotationTolerance) {
			bad = append(bad, i)
		}
	}
	if len(bad) > 0 {
		return &DegenerateError{Op: "matrix", Indices: bad}
	}
	return nil
}
