package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binzume/rotconv/dataset"
	"github.com/binzume/rotconv/rotation"
)

type datasetSummary struct {
	Kind        string `yaml:"kind"`
	Poses       int    `yaml:"poses"`
	Joints      int    `yaml:"joints,omitempty"`
	Trackers    int    `yaml:"trackers,omitempty"`
	Features    int    `yaml:"features"`
	Rotations   int    `yaml:"rotations"`
	Degenerate  int    `yaml:"degenerate"`
	Calibration bool   `yaml:"calibration,omitempty"`
}

func newDatasetCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dataset FILE",
		Short: "Summarize a .mspose or .mstrackers dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := args[0]
			var sum *datasetSummary
			var rots *rotation.Batch
			switch strings.ToLower(filepath.Ext(path)) {
			case ".mspose":
				d, err := dataset.LoadPose(path)
				if err != nil {
					return err
				}
				sum = &datasetSummary{Kind: "pose", Poses: d.NumPoses, Joints: d.NumJoints, Features: d.NumFeaturesPose + d.NumFeaturesHips}
				if rots, err = d.JointRotations(); err != nil {
					return err
				}
			case ".mstrackers":
				d, err := dataset.LoadTrackers(path)
				if err != nil {
					return err
				}
				sum = &datasetSummary{Kind: "trackers", Poses: d.NumPoses, Trackers: d.NumTrackers, Features: d.NumFeatures, Calibration: d.VRSpaceToTracker != nil}
				if rots, err = d.TrackerRotations(); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported dataset: %s", path)
			}

			sum.Rotations = rots.Len()
			var de *rotation.DegenerateError
			if err := rotation.CheckContinuous(rots); errors.As(err, &de) {
				sum.Degenerate = len(de.Indices)
			} else if err != nil {
				return err
			}
			log.WithField("path", path).Debug("loaded dataset")
			return writeYAML(c.OutOrStdout(), sum)
		},
	}
}
