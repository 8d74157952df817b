package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binzume/rotconv/dataset"
	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/loss"
)

type lossResult struct {
	Direction float64   `yaml:"direction"`
	MSE       *float64  `yaml:"mse,omitempty"`
	Elements  []float64 `yaml:"elements,omitempty"`
}

func newLossCommand(o *options) *cobra.Command {
	var stats string
	var forward []float64
	var mse, perElement bool
	cmd := &cobra.Command{
		Use:   "loss PRED TARGET",
		Short: "Evaluate the direction loss of predicted continuous rotations",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			pred, err := readBatch(args[0], c.InOrStdin())
			if err != nil {
				return err
			}
			target, err := readBatch(args[1], c.InOrStdin())
			if err != nil {
				return err
			}

			l := &loss.DirectionLoss{Converter: o.converter()}
			if !c.Flags().Changed("forward") {
				forward = o.config.Forward
			}
			if forward != nil {
				if len(forward) != 3 {
					return fmt.Errorf("--forward needs 3 values, got %d", len(forward))
				}
				l.Forward = *geom.NewVector3FromSlice(forward)
			}
			if stats != "" {
				n, err := loadNormalizer(stats)
				if err != nil {
					return err
				}
				l.Normalizer = n
			}

			values, err := l.PerElement(pred, target)
			if err != nil {
				return err
			}
			res := &lossResult{Direction: loss.Mean(values)}
			if perElement {
				res.Elements = values
			}
			if mse {
				v, err := loss.MSELoss(pred, target)
				if err != nil {
					return err
				}
				res.MSE = &v
			}
			log.WithField("elements", len(values)).Debug("evaluated")
			return writeYAML(c.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&stats, "stats", "", ".mspose file whose statistics denormalize the inputs")
	cmd.Flags().Float64SliceVar(&forward, "forward", nil, "forward axis x,y,z (default 0,0,1)")
	cmd.Flags().BoolVar(&mse, "mse", false, "also report the mean squared error")
	cmd.Flags().BoolVar(&perElement, "per-element", false, "also report the loss of every element")
	return cmd
}

func loadNormalizer(path string) (*loss.Normalizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := dataset.ReadPoseStats(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	n := d.Normalizer()
	if n == nil {
		return nil, fmt.Errorf("%s: no joint statistics", path)
	}
	return n, nil
}
