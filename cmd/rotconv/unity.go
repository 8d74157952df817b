package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binzume/rotconv/unity"
)

func newUnityCommand(o *options) *cobra.Command {
	var world, rightHanded bool
	var format string
	cmd := &cobra.Command{
		Use:   "unity FILE",
		Short: "Print the Transform rotations of a Unity scene or prefab",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			scene, err := unity.LoadScene(args[0])
			if err != nil {
				return err
			}
			for i := range scene.Transforms {
				log.WithFields(log.Fields{"index": i, "name": scene.Name(i), "parent": scene.Parent(i)}).Debug("transform")
			}

			rots := scene.LocalRotations()
			if world {
				if rots, err = scene.WorldRotations(); err != nil {
					return err
				}
			}
			if rightHanded {
				if rots, err = unity.ToRightHanded(rots); err != nil {
					return err
				}
			}
			out, err := convert(o.converter(), rots, "quat", format)
			if err != nil {
				return err
			}
			return writeBatch(c.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&world, "world", false, "compose rotations down the hierarchy")
	cmd.Flags().BoolVar(&rightHanded, "right-handed", false, "mirror into a right-handed space")
	cmd.Flags().StringVar(&format, "format", "quat", "output representation: quat, matrix or continuous")
	return cmd
}
