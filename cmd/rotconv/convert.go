package main

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
)

func newConvertCommand(o *options) *cobra.Command {
	var from, to, order string
	var degrees bool
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert rotations between quaternion, matrix and continuous form",
		Example: `  rotconv convert --from matrix --to quat matrices.yaml
  echo '[[0, 90, 0]]' | rotconv convert --from euler --degrees --to matrix`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			in, err := readBatch(argOrStdin(args, 0), c.InOrStdin())
			if err != nil {
				return err
			}
			if from == "euler" {
				if in, err = eulerToQuaternion(in, order, degrees); err != nil {
					return err
				}
				from = "quat"
			}
			out, err := convert(o.converter(), in, from, to)
			if err != nil {
				return err
			}
			return writeBatch(c.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&from, "from", "quat", "input representation: quat, matrix, continuous or euler")
	cmd.Flags().StringVar(&to, "to", "matrix", "output representation: quat, matrix or continuous")
	cmd.Flags().StringVar(&order, "order", "XYZ", "rotation order of euler input")
	cmd.Flags().BoolVar(&degrees, "degrees", false, "euler angles are in degrees")
	return cmd
}

func eulerToQuaternion(in *rotation.Batch, order string, degrees bool) (*rotation.Batch, error) {
	ro, err := geom.ParseRotationOrder(order)
	if err != nil {
		return nil, err
	}
	if c := in.Components(); c != rotation.VectorSize {
		return nil, fmt.Errorf("euler angles need %d components, got %d: %w", rotation.VectorSize, c, rotation.ErrShape)
	}
	scale := 1.0
	if degrees {
		scale = math.Pi / 180
	}
	out := rotation.Zeros(rotation.QuaternionSize, in.BatchShape()...)
	for i := 0; i < in.Len(); i++ {
		a := in.Vector(i).Scale(scale)
		geom.NewEuler(a.X, a.Y, a.Z, ro).ToQuaternion().ToArray(out.At(i))
	}
	return out, nil
}

// warnDegenerate logs input elements whose conversion is meaningless.
func warnDegenerate(in *rotation.Batch, from string) {
	var err error
	switch from {
	case "continuous":
		err = rotation.CheckContinuous(in)
	case "matrix":
		err = rotation.CheckMatrix(in)
	default:
		return
	}
	var de *rotation.DegenerateError
	if errors.As(err, &de) {
		log.WithField("indices", de.Indices).Warnf("%d degenerate %s inputs", len(de.Indices), from)
	}
}

func convert(conv *rotation.Converter, in *rotation.Batch, from, to string) (*rotation.Batch, error) {
	warnDegenerate(in, from)
	switch from + ">" + to {
	case "quat>quat":
		return conv.StandardizeQuaternion(in)
	case "quat>matrix":
		return conv.QuaternionToMatrix(in)
	case "quat>continuous":
		return conv.QuaternionToContinuous(in)
	case "matrix>quat":
		return conv.MatrixToQuaternion(in)
	case "matrix>matrix":
		q, err := conv.MatrixToQuaternion(in)
		if err != nil {
			return nil, err
		}
		return conv.QuaternionToMatrix(q)
	case "matrix>continuous":
		return conv.MatrixToContinuous(in)
	case "continuous>quat":
		return conv.ContinuousToQuaternion(in)
	case "continuous>matrix":
		return conv.ContinuousToMatrix(in)
	case "continuous>continuous":
		m, err := conv.ContinuousToMatrix(in)
		if err != nil {
			return nil, err
		}
		return conv.MatrixToContinuous(m)
	}
	return nil, fmt.Errorf("unsupported conversion: %s to %s", from, to)
}
