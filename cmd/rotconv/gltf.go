package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/gltfutil"
	"github.com/binzume/rotconv/rotation"
)

func newGLTFCommand(o *options) *cobra.Command {
	var format, output string
	var rotate []float64
	cmd := &cobra.Command{
		Use:   "gltf FILE",
		Short: "Print the local rotation of every node of a glTF file",
		Example: `  rotconv gltf --format matrix model.glb
  rotconv gltf --rotate 0,1,0,0 --output turned.glb model.glb`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			doc, err := gltfutil.Load(args[0])
			if err != nil {
				return err
			}
			if len(rotate) > 0 {
				if output == "" {
					return fmt.Errorf("--rotate needs --output")
				}
				if len(rotate) != rotation.QuaternionSize {
					return fmt.Errorf("--rotate needs %d values: %w", rotation.QuaternionSize, rotation.ErrShape)
				}
				q, err := rotation.NewBatch(rotation.QuaternionSize, unitQuaternion(rotate))
				if err != nil {
					return err
				}
				if err := gltfutil.RotateRoots(doc, q); err != nil {
					return err
				}
				if err := gltfutil.Save(doc, output); err != nil {
					return err
				}
				log.WithField("output", output).Info("saved")
			}

			rots, err := gltfutil.NodeRotations(doc)
			if err != nil {
				return err
			}
			for i, node := range doc.Nodes {
				log.WithFields(log.Fields{"index": i, "name": node.Name}).Debug("node")
			}
			out, err := convert(o.converter(), rots, "quat", format)
			if err != nil {
				return err
			}
			return writeBatch(c.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&format, "format", "quat", "output representation: quat, matrix or continuous")
	cmd.Flags().Float64SliceVar(&rotate, "rotate", nil, "quaternion x,y,z,w applied to the root nodes")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to save the rotated document to")
	return cmd
}

// unitQuaternion normalizes a user supplied quaternion.
func unitQuaternion(v []float64) []float64 {
	q := geom.NewQuaternionFromSlice(v).Normalize()
	return []float64{q.X, q.Y, q.Z, q.W}
}
