package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/binzume/rotconv/rotation"
)

func newComposeCommand(o *options) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "compose A B",
		Short: "Compose rotations pairwise; the result applies B first, then A",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			a, err := readBatch(args[0], c.InOrStdin())
			if err != nil {
				return err
			}
			b, err := readBatch(args[1], c.InOrStdin())
			if err != nil {
				return err
			}
			conv := o.converter()
			var out *rotation.Batch
			switch kind {
			case "quat":
				out, err = conv.MultiplyQuaternions(a, b)
			case "matrix":
				out, err = conv.ComposeMatrices(a, b)
			default:
				return fmt.Errorf("unknown kind: %q", kind)
			}
			if err != nil {
				return err
			}
			return writeBatch(c.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "quat", "operand representation: quat or matrix")
	return cmd
}
