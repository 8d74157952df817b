package main

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binzume/rotconv/gltfutil"
	"github.com/binzume/rotconv/mmd"
	"github.com/binzume/rotconv/rotation"
)

const vmdFrameRate = 30

func newVMDCommand(o *options) *cobra.Command {
	var bone, format, model, output string
	cmd := &cobra.Command{
		Use:   "vmd FILE",
		Short: "Print the bone keyframe rotations of a .vmd motion",
		Example: `  rotconv vmd --bone センター --format matrix dance.vmd
  rotconv vmd --gltf model.glb --output animated.glb dance.vmd`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			anim, err := mmd.LoadVMD(args[0])
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"name": anim.Name, "keyframes": len(anim.Bone)}).Debug("loaded motion")

			if model != "" {
				if output == "" {
					return fmt.Errorf("--gltf needs --output")
				}
				return addAnimation(anim, model, output)
			}

			rots := anim.BoneRotations()
			if bone != "" {
				channels, err := anim.GetRotationChannels()
				if err != nil {
					return err
				}
				ch, ok := channels[bone]
				if !ok {
					return fmt.Errorf("no keyframes for bone %q", bone)
				}
				rots = ch.Samples
			}
			out, err := convert(o.converter(), rots, "quat", format)
			if err != nil {
				return err
			}
			return writeBatch(c.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&bone, "bone", "", "only the keyframes of this bone, ordered by frame")
	cmd.Flags().StringVar(&format, "format", "quat", "output representation: quat, matrix or continuous")
	cmd.Flags().StringVar(&model, "gltf", "", "add the motion to the nodes of this glTF model, matched by bone name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to save the animated model to")
	return cmd
}

// addAnimation converts the bone channels of anim to a right-handed glTF
// animation on the model at path.
func addAnimation(anim *mmd.Animation, path, output string) error {
	doc, err := gltfutil.Load(path)
	if err != nil {
		return err
	}
	channels, err := anim.GetRotationChannels()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)

	var tracks []*gltfutil.RotationTrack
	for _, name := range names {
		ch := channels[name]
		q, err := rotation.MirrorZ(ch.Samples)
		if err != nil {
			return err
		}
		times := make([]float32, len(ch.Frames))
		for i, f := range ch.Frames {
			times[i] = float32(f) / vmdFrameRate
		}
		tracks = append(tracks, &gltfutil.RotationTrack{Node: name, Times: times, Rotations: q})
	}
	n, err := gltfutil.AddRotationAnimation(doc, anim.Name, tracks)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"channels": n, "output": output}).Info("added animation")
	return gltfutil.Save(doc, output)
}
