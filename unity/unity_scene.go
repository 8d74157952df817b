// Package unity reads the Transform hierarchy of Unity scene and prefab
// files and exposes its rotations as quaternion batches.
package unity

import (
	"fmt"
	"os"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
)

const (
	tagGameObject    = "tag:unity3d.com,2011:1"
	tagTransform     = "tag:unity3d.com,2011:4"
	tagRectTransform = "tag:unity3d.com,2011:224"
)

type Ref struct {
	FileID int64  `yaml:"fileID"`
	GUID   string `yaml:"guid"`
	Type   int    `yaml:"type"`
}

type GameObject struct {
	Name     string `yaml:"m_Name"`
	IsActive int    `yaml:"m_IsActive"`
}

// Transform rotations are in Unity's left-handed space.
type Transform struct {
	FileID     int64 `yaml:"-"`
	GameObject Ref   `yaml:"m_GameObject"`
	Father     Ref   `yaml:"m_Father"`
	Children   []Ref `yaml:"m_Children"`

	LocalRotation geom.Quaternion `yaml:"m_LocalRotation"`
	LocalPosition geom.Vector3    `yaml:"m_LocalPosition"`
	LocalScale    geom.Vector3    `yaml:"m_LocalScale"`
}

type Scene struct {
	GameObjects map[int64]*GameObject
	Transforms  []*Transform // file order

	index map[int64]int
}

func ParseScene(data []byte) (*Scene, error) {
	scene := &Scene{GameObjects: map[int64]*GameObject{}, index: map[int64]int{}}
	for _, doc := range splitDocuments(data) {
		switch doc.Tag {
		case tagGameObject:
			var a map[string]*GameObject
			if err := doc.Decode(&a); err != nil {
				return nil, fmt.Errorf("game object %d: %w", doc.FileID, err)
			}
			if obj := a["GameObject"]; obj != nil {
				scene.GameObjects[doc.FileID] = obj
			}
		case tagTransform, tagRectTransform:
			var a map[string]*Transform
			if err := doc.Decode(&a); err != nil {
				return nil, fmt.Errorf("transform %d: %w", doc.FileID, err)
			}
			tr := a["Transform"]
			if tr == nil {
				tr = a["RectTransform"]
			}
			if tr == nil {
				continue
			}
			tr.FileID = doc.FileID
			scene.index[doc.FileID] = len(scene.Transforms)
			scene.Transforms = append(scene.Transforms, tr)
		}
	}
	return scene, nil
}

func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Name returns the name of the game object owning transform i.
func (s *Scene) Name(i int) string {
	if obj, ok := s.GameObjects[s.Transforms[i].GameObject.FileID]; ok {
		return obj.Name
	}
	return ""
}

// Parent returns the index of the parent of transform i, or -1.
func (s *Scene) Parent(i int) int {
	f := s.Transforms[i].Father.FileID
	if p, ok := s.index[f]; ok && f != 0 {
		return p
	}
	return -1
}

func (s *Scene) LocalRotations() *rotation.Batch {
	qs := make([]*geom.Quaternion, len(s.Transforms))
	for i, tr := range s.Transforms {
		qs[i] = &tr.LocalRotation
	}
	return rotation.QuaternionBatch(qs...)
}

// WorldRotations composes the local rotations down the hierarchy, one depth
// level per batch.
func (s *Scene) WorldRotations() (*rotation.Batch, error) {
	n := len(s.Transforms)
	depth := make([]int, n)
	var levels [][]int
	for i := range s.Transforms {
		for p := s.Parent(i); p >= 0; p = s.Parent(p) {
			depth[i]++
			if depth[i] > n {
				return nil, fmt.Errorf("transform %d: cyclic hierarchy", s.Transforms[i].FileID)
			}
		}
		for len(levels) <= depth[i] {
			levels = append(levels, nil)
		}
		levels[depth[i]] = append(levels[depth[i]], i)
	}

	world := s.LocalRotations()
	for _, level := range levels[min(1, len(levels)):] {
		parents := rotation.Zeros(rotation.QuaternionSize, len(level))
		locals := rotation.Zeros(rotation.QuaternionSize, len(level))
		for k, i := range level {
			copy(parents.At(k), world.At(s.Parent(i)))
			copy(locals.At(k), world.At(i))
		}
		q, err := rotation.MultiplyQuaternions(parents, locals)
		if err != nil {
			return nil, err
		}
		for k, i := range level {
			copy(world.At(i), q.At(k))
		}
	}
	return rotation.StandardizeQuaternion(world)
}

// ToRightHanded mirrors left-handed Unity rotations across the z axis, the
// convention glTF exporters use.
func ToRightHanded(q *rotation.Batch) (*rotation.Batch, error) {
	return rotation.MirrorZ(q)
}
