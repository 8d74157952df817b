package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBatchYAML(t *testing.T) {
	b, err := NewBatch(QuaternionSize, []float64{0, 0, 0, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 0, 0}, 2, 2)
	require.NoError(t, err)

	out, err := yaml.Marshal(b)
	require.NoError(t, err)

	var r Batch
	require.NoError(t, yaml.Unmarshal(out, &r))
	assert.Equal(t, b.Shape, r.Shape)
	assert.Equal(t, b.Data, r.Data)
}

func TestBatchYAMLRows(t *testing.T) {
	var b Batch
	require.NoError(t, yaml.Unmarshal([]byte("- [1, 0, 0, 0, 1, 0]\n- [0, 1, 0, 1, 0, 0]\n"), &b))
	assert.Equal(t, []int{2, 6}, b.Shape)

	// JSON is accepted as well.
	var j Batch
	require.NoError(t, yaml.Unmarshal([]byte(`{"data": [[0, 0, 1, 0]]}`), &j))
	assert.Equal(t, []int{1, 4}, j.Shape)
	assert.Equal(t, []float64{0, 0, 1, 0}, j.Data)
}

func TestBatchYAMLErrors(t *testing.T) {
	var b Batch
	assert.ErrorIs(t, yaml.Unmarshal([]byte("- [1, 2, 3]\n- [1, 2]\n"), &b), ErrShape)
	assert.ErrorIs(t, yaml.Unmarshal([]byte("data: []\n"), &b), ErrShape)
	assert.ErrorIs(t, yaml.Unmarshal([]byte("shape: [3]\ndata: [[0, 0, 0, 1]]\n"), &b), ErrShape)
}

func TestBatchYAMLEmptyAndScalar(t *testing.T) {
	for _, b := range []*Batch{
		Zeros(QuaternionSize, 0),
		Zeros(MatrixSize, 2, 0),
		Zeros(QuaternionSize),
		QuaternionBatch(),
	} {
		out, err := yaml.Marshal(b)
		require.NoError(t, err)

		var r Batch
		require.NoError(t, yaml.Unmarshal(out, &r), string(out))
		assert.Equal(t, b.Shape, r.Shape, string(out))
		assert.Equal(t, len(b.Data), len(r.Data))
	}

	var b Batch
	require.NoError(t, yaml.Unmarshal([]byte("components: 9\ndata: []\n"), &b))
	assert.Equal(t, []int{0, 9}, b.Shape)
	q, err := MatrixToQuaternion(&b)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4}, q.Shape)

	assert.ErrorIs(t, yaml.Unmarshal([]byte("components: 3\ndata: [[0, 0, 0, 1]]\n"), &b), ErrShape)
}
