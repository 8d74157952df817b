package gltfutil

import (
	"testing"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRotationAnimation(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{{Name: "hips"}, {Name: "head"}, {Name: "hand"}}}
	turn := geom.NewAxisAngleQuaternion(geom.NewVector3(0, 1, 0), 1)
	identity := geom.NewQuaternion(0, 0, 0, 1)
	times := []float32{0, 0.5}

	n, err := AddRotationAnimation(doc, "clip", []*RotationTrack{
		{Node: "head", Times: times, Rotations: rotation.QuaternionBatch(identity, turn)},
		{Node: "hips", Times: times, Rotations: rotation.QuaternionBatch(turn, turn.Scale(-1))},
		{Node: "hand", Times: times, Rotations: rotation.QuaternionBatch(identity, identity)},
		{Node: "tail", Times: times, Rotations: rotation.QuaternionBatch(turn, turn)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, doc.Animations, 1)

	a := doc.Animations[0]
	assert.Equal(t, "clip", a.Name)
	assert.Equal(t, *a.Samplers[0].Input, *a.Samplers[1].Input, "equal key times share an accessor")
	assert.Equal(t, uint32(2), doc.Accessors[*a.Samplers[0].Input].Count)

	rots, err := AnimationRotations(doc, a)
	require.NoError(t, err)
	require.Len(t, rots, 2)
	assert.InDeltaSlice(t, []float64{turn.X, turn.Y, turn.Z, turn.W}, rots[0].At(1), 1e-6)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 1}, rots[1].At(0), 1e-6)
}

func TestAddRotationAnimationErrors(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{{Name: "head"}}}
	_, err := AddRotationAnimation(doc, "clip", []*RotationTrack{
		{Node: "head", Times: []float32{0}, Rotations: rotation.QuaternionBatch(geom.NewQuaternion(0, 1, 0, 0), geom.NewQuaternion(0, 0, 0, 1))},
	})
	assert.ErrorIs(t, err, rotation.ErrShape)

	n, err := AddRotationAnimation(doc, "empty", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, doc.Animations)
}

func TestAnimationRotationsBrokenReferences(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{{Name: "head"}}}
	missingSampler := &gltf.Animation{Channels: []*gltf.Channel{
		{Sampler: gltf.Index(3), Target: gltf.ChannelTarget{Node: gltf.Index(0), Path: gltf.TRSRotation}},
	}}
	_, err := AnimationRotations(doc, missingSampler)
	assert.ErrorIs(t, err, ErrFormat)

	missingAccessor := &gltf.Animation{
		Samplers: []*gltf.AnimationSampler{{Input: gltf.Index(0), Output: gltf.Index(5)}},
		Channels: []*gltf.Channel{
			{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(0), Path: gltf.TRSRotation}},
		},
	}
	_, err = AnimationRotations(doc, missingAccessor)
	assert.ErrorIs(t, err, ErrFormat)
}
