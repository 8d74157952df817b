// Package mmd reads and writes Vocaloid Motion Data (.vmd) animations and
// exposes their bone keyframes as quaternion batches.
package mmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
)

const vmdFormat = "Vocaloid Motion Data 0002"

type Animation struct {
	Name  string
	Bone  []*AnimationBoneSample
	Morph []*AnimationMorphSample
}

type AnimationBoneSample struct {
	Target   string
	Frame    int
	Position [3]float32
	Rotation [4]float32 // x, y, z, w
	Params   [64]byte
}

type AnimationMorphSample struct {
	Target string
	Frame  int
	Value  float32
}

// RotationChannel holds the keyframes of one bone ordered by frame.
type RotationChannel struct {
	Target  string
	Frames  []uint32
	Samples *rotation.Batch
}

// GetRotationChannels groups bone keyframes by bone. Samples are
// standardized quaternions.
func (a *Animation) GetRotationChannels() (map[string]*RotationChannel, error) {
	bones := append([]*AnimationBoneSample{}, a.Bone...)
	sort.SliceStable(bones, func(i, j int) bool { return bones[i].Frame < bones[j].Frame })

	quats := map[string][]*geom.Quaternion{}
	r := map[string]*RotationChannel{}
	for _, s := range bones {
		ch, ok := r[s.Target]
		if !ok {
			ch = &RotationChannel{Target: s.Target}
			r[s.Target] = ch
		}
		ch.Frames = append(ch.Frames, uint32(s.Frame))
		q := s.Rotation
		quats[s.Target] = append(quats[s.Target], geom.NewQuaternion(float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])))
	}
	for name, ch := range r {
		q, err := rotation.StandardizeQuaternion(rotation.QuaternionBatch(quats[name]...))
		if err != nil {
			return nil, err
		}
		ch.Samples = q
	}
	return r, nil
}

// BoneRotations returns the rotation of every bone keyframe in file order.
func (a *Animation) BoneRotations() *rotation.Batch {
	b := rotation.Zeros(rotation.QuaternionSize, len(a.Bone))
	for i, s := range a.Bone {
		for k, v := range s.Rotation {
			b.At(i)[k] = float64(v)
		}
	}
	return b
}

func ParseVMD(r io.Reader) (*Animation, error) {
	p := &baseParser{r: r}
	formatName := p.readString(30)
	if p.err != nil {
		return nil, p.err
	}
	if formatName != vmdFormat {
		return nil, fmt.Errorf("format error: %q != %q", formatName, vmdFormat)
	}

	anim := &Animation{}
	anim.Name = p.readString(20)

	frames := p.readInt()
	for i := 0; i < frames && p.err == nil; i++ {
		sample := &AnimationBoneSample{}
		sample.Target = p.readString(15)
		sample.Frame = p.readInt()
		p.read(&sample.Position)
		p.read(&sample.Rotation)
		p.read(&sample.Params)
		anim.Bone = append(anim.Bone, sample)
	}

	frames = p.readInt()
	for i := 0; i < frames && p.err == nil; i++ {
		sample := &AnimationMorphSample{}
		sample.Target = p.readString(15)
		sample.Frame = p.readInt()
		p.read(&sample.Value)
		anim.Morph = append(anim.Morph, sample)
	}
	if p.err != nil {
		return nil, p.err
	}
	return anim, nil
}

func LoadVMD(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseVMD(f)
}

// WriteVMD writes bone and morph keyframes. Camera and light sections are
// written empty.
func WriteVMD(w io.Writer, anim *Animation) error {
	p := &baseWriter{w: w}
	p.writeString(vmdFormat, 30)
	p.writeString(anim.Name, 20)

	p.writeInt(len(anim.Bone))
	for _, s := range anim.Bone {
		p.writeString(s.Target, 15)
		p.writeInt(s.Frame)
		p.write(&s.Position)
		p.write(&s.Rotation)
		p.write(&s.Params)
	}

	p.writeInt(len(anim.Morph))
	for _, s := range anim.Morph {
		p.writeString(s.Target, 15)
		p.writeInt(s.Frame)
		p.write(&s.Value)
	}
	p.writeInt(0) // camera
	p.writeInt(0) // light
	return p.err
}
