package dataset

import (
	"bytes"
	"io"
	"testing"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrackersDataset() *TrackersDataset {
	d := &TrackersDataset{
		NumPoses:              2,
		NumTrackers:           3,
		NumFeaturesPerTracker: 12,
		NumFeatures:           36,
		Mean:                  make([]float64, 36),
		Std:                   make([]float64, 36),
		Data:                  make([]float64, 72),
		Positions:             make([]geom.Vector3, 6),
	}
	for i := range d.Std {
		d.Mean[i] = float64(i%4) * 0.25
		d.Std[i] = 1
	}
	for i := range d.Data {
		d.Data[i] = float64(i%12) - 4
	}
	for i := range d.Positions {
		d.Positions[i] = geom.Vector3{X: float64(i), Y: 1.5, Z: -0.5}
	}
	return d
}

func TestTrackersRoundTrip(t *testing.T) {
	d := testTrackersDataset()
	var buf bytes.Buffer
	require.NoError(t, WriteTrackers(&buf, d))
	r, err := ReadTrackers(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, r)
	assert.Nil(t, r.VRSpaceToTracker)

	d.VRSpaceToTracker = []geom.Quaternion{
		{X: 0, Y: 0, Z: 0, W: 1},
		{X: 0, Y: -0.5, Z: 0, W: 0.5},
		{X: 0, Y: 0.5, Z: 0, W: 0.5},
	}
	buf.Reset()
	require.NoError(t, WriteTrackers(&buf, d))
	r, err = ReadTrackers(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.VRSpaceToTracker, r.VRSpaceToTracker)
}

func TestTrackersErrors(t *testing.T) {
	d := testTrackersDataset()
	d.VRSpaceToTracker = []geom.Quaternion{{W: 1}, {W: 1}, {W: 1}}
	var buf bytes.Buffer
	require.NoError(t, WriteTrackers(&buf, d))
	data := buf.Bytes()

	// Cut inside the positions and inside the calibration trailer.
	for _, n := range []int{len(data) - 48 - 4, len(data) - 2, len(data) - 4} {
		_, err := ReadTrackers(bytes.NewReader(data[:n]))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "truncated at %d", n)
	}

	d.NumFeatures = 35
	assert.ErrorIs(t, WriteTrackers(io.Discard, d), ErrFormat)
}

func TestTrackerRotations(t *testing.T) {
	d := testTrackersDataset()
	rots, err := d.TrackerRotations()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 6}, rots.Shape)
	assert.Equal(t, []float64{-4, -3, -2, -1, 0, 1}, rots.At(4))

	d.NumFeaturesPerTracker = 4
	d.NumFeatures = 12
	d.Mean, d.Std, d.Data = d.Mean[:12], d.Std[:12], d.Data[:24]
	_, err = d.TrackerRotations()
	assert.ErrorIs(t, err, rotation.ErrShape)
}
