// Package dataset reads and writes the binary motion datasets used to train
// the direction predictor (.mspose and .mstrackers).
package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/loss"
	"github.com/binzume/rotconv/rotation"
)

// PoseDataset holds per pose joint rotations, stored as 6D continuous
// rotations, and hips features.
type PoseDataset struct {
	NumPoses        int
	NumFeaturesPose int
	NumFeaturesHips int
	NumJoints       int

	// Mean and Std cover the pose features followed by the hips features.
	Mean []float64
	Std  []float64

	JointOffsets []geom.Vector3
	Poses        []float64 // NumPoses x NumFeaturesPose
	Hips         []float64 // NumPoses x NumFeaturesHips
}

func (d *PoseDataset) readHeader(p *baseParser) error {
	d.NumPoses = p.readInt()
	d.NumFeaturesPose = p.readInt()
	d.NumFeaturesHips = p.readInt()
	d.NumJoints = p.readInt()
	if err := p.error("header"); err != nil {
		return err
	}
	if d.NumFeaturesPose != d.NumJoints*rotation.ContinuousSize {
		return fmt.Errorf("%d pose features for %d joints: %w", d.NumFeaturesPose, d.NumJoints, ErrFormat)
	}
	d.Mean, d.Std = p.readStats(d.NumFeaturesPose + d.NumFeaturesHips)
	return p.error("mean and std")
}

// ReadPoseStats reads the header and the feature statistics only.
func ReadPoseStats(r io.Reader) (*PoseDataset, error) {
	d := &PoseDataset{}
	if err := d.readHeader(&baseParser{r: r}); err != nil {
		return nil, err
	}
	return d, nil
}

func ReadPose(r io.Reader) (*PoseDataset, error) {
	p := &baseParser{r: r}
	d := &PoseDataset{}
	if err := d.readHeader(p); err != nil {
		return nil, err
	}

	offsets := p.readFloats(d.NumJoints * 3)
	if err := p.error("joint offsets"); err != nil {
		return nil, err
	}
	d.JointOffsets = make([]geom.Vector3, d.NumJoints)
	for i := range d.JointOffsets {
		d.JointOffsets[i] = *geom.NewVector3FromSlice(offsets[i*3:])
	}

	d.Poses = p.readFloats(d.NumPoses * d.NumFeaturesPose)
	if err := p.error("poses"); err != nil {
		return nil, err
	}
	d.Hips = p.readFloats(d.NumPoses * d.NumFeaturesHips)
	if err := p.error("hips"); err != nil {
		return nil, err
	}
	return d, nil
}

func LoadPose(path string) (*PoseDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := ReadPose(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func (d *PoseDataset) validate() error {
	switch {
	case d.NumFeaturesPose != d.NumJoints*rotation.ContinuousSize:
		return fmt.Errorf("%d pose features for %d joints: %w", d.NumFeaturesPose, d.NumJoints, ErrFormat)
	case len(d.Mean) != d.NumFeaturesPose+d.NumFeaturesHips || len(d.Std) != len(d.Mean):
		return fmt.Errorf("%d means, %d stds for %d features: %w", len(d.Mean), len(d.Std), d.NumFeaturesPose+d.NumFeaturesHips, ErrFormat)
	case len(d.JointOffsets) != d.NumJoints:
		return fmt.Errorf("%d joint offsets for %d joints: %w", len(d.JointOffsets), d.NumJoints, ErrFormat)
	case len(d.Poses) != d.NumPoses*d.NumFeaturesPose:
		return fmt.Errorf("%d pose values, expected %d: %w", len(d.Poses), d.NumPoses*d.NumFeaturesPose, ErrFormat)
	case len(d.Hips) != d.NumPoses*d.NumFeaturesHips:
		return fmt.Errorf("%d hips values, expected %d: %w", len(d.Hips), d.NumPoses*d.NumFeaturesHips, ErrFormat)
	}
	return nil
}

func WritePose(w io.Writer, d *PoseDataset) error {
	if err := d.validate(); err != nil {
		return err
	}
	bw := &baseWriter{w: w}
	bw.writeInt(d.NumPoses)
	bw.writeInt(d.NumFeaturesPose)
	bw.writeInt(d.NumFeaturesHips)
	bw.writeInt(d.NumJoints)
	bw.writeStats(d.Mean, d.Std)
	offsets := make([]float64, d.NumJoints*3)
	for i := range d.JointOffsets {
		d.JointOffsets[i].ToArray(offsets[i*3:])
	}
	bw.writeFloats(offsets)
	bw.writeFloats(d.Poses)
	bw.writeFloats(d.Hips)
	return bw.err
}

// JointRotations returns the pose features as a continuous batch shaped
// [NumPoses, NumJoints, 6]. The batch shares no memory with d.
func (d *PoseDataset) JointRotations() (*rotation.Batch, error) {
	return rotation.NewBatch(rotation.ContinuousSize, d.Poses, d.NumPoses, d.NumJoints)
}

// Normalizer returns the statistics of the first joint, the simulation
// bone whose rotation the direction predictor outputs. It returns nil when
// the dataset has no joints.
func (d *PoseDataset) Normalizer() *loss.Normalizer {
	if d.NumJoints == 0 || len(d.Mean) < rotation.ContinuousSize {
		return nil
	}
	return &loss.Normalizer{
		Mean: append([]float64{}, d.Mean[:rotation.ContinuousSize]...),
		Std:  append([]float64{}, d.Std[:rotation.ContinuousSize]...),
	}
}
