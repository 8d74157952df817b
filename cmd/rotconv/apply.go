package main

import (
	"github.com/spf13/cobra"
)

func newApplyCommand(o *options) *cobra.Command {
	var quat bool
	cmd := &cobra.Command{
		Use:   "apply ROTATIONS VECTORS",
		Short: "Rotate vectors by matrices",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			m, err := readBatch(args[0], c.InOrStdin())
			if err != nil {
				return err
			}
			v, err := readBatch(args[1], c.InOrStdin())
			if err != nil {
				return err
			}
			conv := o.converter()
			if quat {
				if m, err = conv.QuaternionToMatrix(m); err != nil {
					return err
				}
			}
			out, err := conv.ApplyMatrixToVector(m, v)
			if err != nil {
				return err
			}
			return writeBatch(c.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&quat, "quat", false, "ROTATIONS holds quaternions")
	return cmd
}
