package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
)

// TrackersDataset holds the VR tracker features of every pose. The
// features of a tracker start with its 6D rotation.
type TrackersDataset struct {
	NumPoses              int
	NumTrackers           int
	NumFeaturesPerTracker int
	NumFeatures           int

	Mean []float64
	Std  []float64

	Data      []float64      // NumPoses x NumFeatures
	Positions []geom.Vector3 // NumPoses x NumTrackers

	// VRSpaceToTracker is nil when the file has no calibration trailer.
	VRSpaceToTracker []geom.Quaternion
}

func ReadTrackers(r io.Reader) (*TrackersDataset, error) {
	p := &baseParser{r: r}
	d := &TrackersDataset{}
	d.NumPoses = p.readInt()
	d.NumTrackers = p.readInt()
	d.NumFeaturesPerTracker = p.readInt()
	d.NumFeatures = p.readInt()
	if err := p.error("header"); err != nil {
		return nil, err
	}
	if d.NumFeatures != d.NumTrackers*d.NumFeaturesPerTracker {
		return nil, fmt.Errorf("%d features for %d trackers of %d: %w", d.NumFeatures, d.NumTrackers, d.NumFeaturesPerTracker, ErrFormat)
	}

	d.Mean, d.Std = p.readStats(d.NumFeatures)
	if err := p.error("mean and std"); err != nil {
		return nil, err
	}
	d.Data = p.readFloats(d.NumPoses * d.NumFeatures)
	if err := p.error("data"); err != nil {
		return nil, err
	}

	positions := p.readFloats(d.NumPoses * d.NumTrackers * 3)
	if err := p.error("positions"); err != nil {
		return nil, err
	}
	d.Positions = make([]geom.Vector3, d.NumPoses*d.NumTrackers)
	for i := range d.Positions {
		d.Positions[i] = *geom.NewVector3FromSlice(positions[i*3:])
	}

	trailer := p.readOptionalFloats(d.NumTrackers * 4)
	if err := p.error("tracker calibration"); err != nil {
		return nil, err
	}
	if trailer != nil {
		d.VRSpaceToTracker = make([]geom.Quaternion, d.NumTrackers)
		for i := range d.VRSpaceToTracker {
			d.VRSpaceToTracker[i] = *geom.NewQuaternionFromSlice(trailer[i*4:])
		}
	}
	return d, nil
}

func LoadTrackers(path string) (*TrackersDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := ReadTrackers(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func (d *TrackersDataset) validate() error {
	switch {
	case d.NumFeatures != d.NumTrackers*d.NumFeaturesPerTracker:
		return fmt.Errorf("%d features for %d trackers of %d: %w", d.NumFeatures, d.NumTrackers, d.NumFeaturesPerTracker, ErrFormat)
	case len(d.Mean) != d.NumFeatures || len(d.Std) != d.NumFeatures:
		return fmt.Errorf("%d means, %d stds for %d features: %w", len(d.Mean), len(d.Std), d.NumFeatures, ErrFormat)
	case len(d.Data) != d.NumPoses*d.NumFeatures:
		return fmt.Errorf("%d values, expected %d: %w", len(d.Data), d.NumPoses*d.NumFeatures, ErrFormat)
	case len(d.Positions) != d.NumPoses*d.NumTrackers:
		return fmt.Errorf("%d positions, expected %d: %w", len(d.Positions), d.NumPoses*d.NumTrackers, ErrFormat)
	case d.VRSpaceToTracker != nil && len(d.VRSpaceToTracker) != d.NumTrackers:
		return fmt.Errorf("%d calibration rotations for %d trackers: %w", len(d.VRSpaceToTracker), d.NumTrackers, ErrFormat)
	}
	return nil
}

func WriteTrackers(w io.Writer, d *TrackersDataset) error {
	if err := d.validate(); err != nil {
		return err
	}
	bw := &baseWriter{w: w}
	bw.writeInt(d.NumPoses)
	bw.writeInt(d.NumTrackers)
	bw.writeInt(d.NumFeaturesPerTracker)
	bw.writeInt(d.NumFeatures)
	bw.writeStats(d.Mean, d.Std)
	bw.writeFloats(d.Data)

	positions := make([]float64, len(d.Positions)*3)
	for i := range d.Positions {
		d.Positions[i].ToArray(positions[i*3:])
	}
	bw.writeFloats(positions)

	if d.VRSpaceToTracker != nil {
		rots := make([]float64, len(d.VRSpaceToTracker)*4)
		for i := range d.VRSpaceToTracker {
			d.VRSpaceToTracker[i].ToArray(rots[i*4:])
		}
		bw.writeFloats(rots)
	}
	return bw.err
}

// TrackerRotations returns the rotation features of every tracker as a
// continuous batch shaped [NumPoses, NumTrackers, 6].
func (d *TrackersDataset) TrackerRotations() (*rotation.Batch, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.NumFeaturesPerTracker < rotation.ContinuousSize {
		return nil, fmt.Errorf("%d features per tracker: %w", d.NumFeaturesPerTracker, rotation.ErrShape)
	}
	b := rotation.Zeros(rotation.ContinuousSize, d.NumPoses, d.NumTrackers)
	for i := 0; i < d.NumPoses*d.NumTrackers; i++ {
		copy(b.At(i), d.Data[i*d.NumFeaturesPerTracker:])
	}
	return b, nil
}
