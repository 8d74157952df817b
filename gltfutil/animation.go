package gltfutil

import (
	"errors"
	"fmt"

	"github.com/binzume/rotconv/rotation"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	log "github.com/sirupsen/logrus"
)

// ErrFormat is returned for animations that reference missing samplers or
// accessors.
var ErrFormat = errors.New("invalid glTF reference")

// RotationTrack is the keyframed rotation of one node. Times are in seconds.
type RotationTrack struct {
	Node      string
	Times     []float32
	Rotations *rotation.Batch
}

func keysEquals(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isIdentityTrack(q *rotation.Batch) bool {
	for i := 0; i < q.Len(); i++ {
		e := q.At(i)
		if e[0] != 0 || e[1] != 0 || e[2] != 0 || e[3] != 1 {
			return false
		}
	}
	return true
}

// AddRotationAnimation appends an animation with a linear rotation channel
// for every track whose node exists in doc. Tracks that never leave identity
// are skipped. It returns the number of channels written.
func AddRotationAnimation(doc *gltf.Document, name string, tracks []*RotationTrack) (int, error) {
	nodeByName := map[string]uint32{}
	for i, n := range doc.Nodes {
		if _, ok := nodeByName[n.Name]; !ok {
			nodeByName[n.Name] = uint32(i)
		}
	}

	a := &gltf.Animation{Name: name}
	var prevKeys []float32
	var prevKeysAcc uint32
	for _, track := range tracks {
		q, err := rotation.StandardizeQuaternion(track.Rotations)
		if err != nil {
			return 0, fmt.Errorf("track %q: %w", track.Node, err)
		}
		if q.Len() != len(track.Times) {
			return 0, fmt.Errorf("track %q: %d rotations for %d keys: %w", track.Node, q.Len(), len(track.Times), rotation.ErrShape)
		}
		n, ok := nodeByName[track.Node]
		if !ok {
			log.WithField("node", track.Node).Debug("no node for track")
			continue
		}
		if isIdentityTrack(q) {
			continue
		}

		keysAcc := prevKeysAcc
		if prevKeys == nil || !keysEquals(track.Times, prevKeys) {
			keysAcc = modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, track.Times)
			prevKeys, prevKeysAcc = track.Times, keysAcc
		}

		rotations := make([][4]float32, q.Len())
		for i := range rotations {
			for k, v := range q.At(i) {
				rotations[i][k] = float32(v)
			}
		}
		samplesAcc := modeler.WriteTangent(doc, rotations)
		a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
			Input:         gltf.Index(keysAcc),
			Output:        gltf.Index(samplesAcc),
			Interpolation: gltf.InterpolationLinear,
		})
		a.Channels = append(a.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
			Target: gltf.ChannelTarget{
				Node: gltf.Index(n),
				Path: gltf.TRSRotation,
			},
		})
	}

	if len(a.Channels) > 0 {
		doc.Animations = append(doc.Animations, a)
	}
	return len(a.Channels), nil
}

// AnimationRotations reads back the rotation channels of an animation,
// keyed by target node index.
func AnimationRotations(doc *gltf.Document, anim *gltf.Animation) (map[uint32]*rotation.Batch, error) {
	out := map[uint32]*rotation.Batch{}
	for _, ch := range anim.Channels {
		if ch.Target.Path != gltf.TRSRotation || ch.Target.Node == nil || ch.Sampler == nil {
			continue
		}
		if int(*ch.Sampler) >= len(anim.Samplers) {
			return nil, fmt.Errorf("sampler %d of %d: %w", *ch.Sampler, len(anim.Samplers), ErrFormat)
		}
		sampler := anim.Samplers[*ch.Sampler]
		if sampler.Output == nil {
			continue
		}
		if int(*sampler.Output) >= len(doc.Accessors) {
			return nil, fmt.Errorf("accessor %d of %d: %w", *sampler.Output, len(doc.Accessors), ErrFormat)
		}
		values, err := modeler.ReadTangent(doc, doc.Accessors[*sampler.Output], nil)
		if err != nil {
			return nil, err
		}
		b := rotation.Zeros(rotation.QuaternionSize, len(values))
		for i, v := range values {
			for k := range v {
				b.At(i)[k] = float64(v[k])
			}
		}
		out[*ch.Target.Node] = b
	}
	return out, nil
}
