package gltfutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/binzume/rotconv/geom"
	"github.com/binzume/rotconv/rotation"
	"github.com/qmuntal/gltf"
	log "github.com/sirupsen/logrus"
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// Save writes doc as binary glTF when path ends with .glb.
func Save(doc *gltf.Document, path string) error {
	if strings.ToLower(filepath.Ext(path)) == ".glb" {
		return gltf.SaveBinary(doc, path)
	}
	return gltf.Save(doc, path)
}

func hasMatrix(node *gltf.Node) bool {
	return node.Matrix != gltf.DefaultMatrix && node.Matrix != [16]float32{}
}

func nodeMatrix(node *gltf.Node) *geom.Matrix4 {
	m := &geom.Matrix4{}
	for i, v := range node.Matrix {
		m[i] = float64(v)
	}
	return m
}

func setNodeMatrix(node *gltf.Node, m *geom.Matrix4) {
	for i, v := range m {
		node.Matrix[i] = float32(v)
	}
}

func nodeRotation(node *gltf.Node) *geom.Quaternion {
	r := node.Rotation
	if r == [4]float32{} {
		return geom.NewQuaternion(0, 0, 0, 1)
	}
	return geom.NewQuaternion(float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3]))
}

func nodeTranslation(node *gltf.Node) *geom.Vector3 {
	if hasMatrix(node) {
		m := node.Matrix
		return geom.NewVector3(float64(m[12]), float64(m[13]), float64(m[14]))
	}
	t := node.Translation
	return geom.NewVector3(float64(t[0]), float64(t[1]), float64(t[2]))
}

// NodeRotations returns the local rotation of every node as a standardized
// quaternion batch. Rotations of matrix nodes are taken from the first two
// columns of the matrix, which removes scale. Matrices whose columns are
// degenerate yield identity.
func NodeRotations(doc *gltf.Document) (*rotation.Batch, error) {
	out := rotation.Zeros(rotation.QuaternionSize, len(doc.Nodes))
	var matrixNodes []int
	var columns []*geom.Continuous
	for i, node := range doc.Nodes {
		if hasMatrix(node) {
			matrixNodes = append(matrixNodes, i)
			columns = append(columns, nodeMatrix(node).Matrix3().ToContinuous())
			continue
		}
		nodeRotation(node).ToArray(out.At(i))
	}

	if len(matrixNodes) > 0 {
		c := rotation.ContinuousBatch(columns...)
		q, err := rotation.ContinuousToQuaternion(c)
		if err != nil {
			return nil, err
		}
		skip := map[int]bool{}
		if err := rotation.CheckContinuous(c); err != nil {
			var de *rotation.DegenerateError
			if !errors.As(err, &de) {
				return nil, err
			}
			for _, k := range de.Indices {
				skip[k] = true
				log.WithField("node", doc.Nodes[matrixNodes[k]].Name).Debug("degenerate node matrix, using identity")
			}
		}
		for k, i := range matrixNodes {
			if skip[k] {
				geom.NewQuaternion(0, 0, 0, 1).ToArray(out.At(i))
				continue
			}
			copy(out.At(i), q.At(k))
		}
	}
	return rotation.StandardizeQuaternion(out)
}

func setNodeRotation(node *gltf.Node, q *geom.Quaternion) {
	if hasMatrix(node) {
		t, _, s := nodeMatrix(node).Decompose()
		setNodeMatrix(node, geom.NewTRSMatrix4(t, q, s))
		return
	}
	node.Rotation = [4]float32{float32(q.X), float32(q.Y), float32(q.Z), float32(q.W)}
}

// SetNodeRotations replaces the local rotation of every node. Matrix nodes
// keep their translation and scale. Rotations are written standardized.
func SetNodeRotations(doc *gltf.Document, q *rotation.Batch) error {
	q, err := rotation.StandardizeQuaternion(q)
	if err != nil {
		return err
	}
	if q.Len() != len(doc.Nodes) {
		return fmt.Errorf("%d rotations for %d nodes: %w", q.Len(), len(doc.Nodes), rotation.ErrShape)
	}
	for i, node := range doc.Nodes {
		setNodeRotation(node, q.Quaternion(i))
	}
	return nil
}

func rootNodes(doc *gltf.Document) []int {
	seen := map[uint32]bool{}
	var roots []int
	for _, scene := range doc.Scenes {
		for _, n := range scene.Nodes {
			if !seen[n] && int(n) < len(doc.Nodes) {
				seen[n] = true
				roots = append(roots, int(n))
			}
		}
	}
	if len(doc.Scenes) > 0 {
		return roots
	}
	children := map[uint32]bool{}
	for _, node := range doc.Nodes {
		for _, c := range node.Children {
			children[c] = true
		}
	}
	for i := range doc.Nodes {
		if !children[uint32(i)] {
			roots = append(roots, i)
		}
	}
	return roots
}

// RotateRoots applies q, a batch holding a single quaternion, on top of the
// local transform of every root node. Root translations are rotated too, so
// the whole scene turns around the origin.
func RotateRoots(doc *gltf.Document, q *rotation.Batch) error {
	m, err := rotation.QuaternionToMatrix(q)
	if err != nil {
		return err
	}
	if q.Len() != 1 {
		return fmt.Errorf("expected a single rotation, got %d: %w", q.Len(), rotation.ErrShape)
	}
	all, err := NodeRotations(doc)
	if err != nil {
		return err
	}
	roots := rootNodes(doc)
	cur := rotation.Zeros(rotation.QuaternionSize, len(roots))
	pos := rotation.Zeros(rotation.VectorSize, len(roots))
	for k, i := range roots {
		copy(cur.At(k), all.At(i))
		nodeTranslation(doc.Nodes[i]).ToArray(pos.At(k))
	}
	rotated, err := rotation.MultiplyQuaternions(q, cur)
	if err != nil {
		return err
	}
	moved, err := rotation.ApplyMatrixToVector(m, pos)
	if err != nil {
		return err
	}
	for k, i := range roots {
		node := doc.Nodes[i]
		t := moved.Vector(k)
		if hasMatrix(node) {
			_, _, s := nodeMatrix(node).Decompose()
			setNodeMatrix(node, geom.NewTRSMatrix4(t, rotated.Quaternion(k), s))
		} else {
			node.Translation = [3]float32{float32(t.X), float32(t.Y), float32(t.Z)}
			setNodeRotation(node, rotated.Quaternion(k))
		}
		log.WithField("node", node.Name).Debug("rotated root node")
	}
	return nil
}
