package confusion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	m := New([]string{"no", "yes"})
	require.NoError(t, m.Add(0, 0))
	require.NoError(t, m.Add(0, 1))
	require.NoError(t, m.Add(1, 1))
	require.NoError(t, m.Add(1, 1))
	assert.Error(t, m.Add(2, 0))
	assert.Error(t, m.Add(0, -1))

	assert.Equal(t, 4, m.Total())
	assert.Equal(t, 0.75, m.Accuracy())
	assert.Equal(t, [][]float64{{0.5, 0.5}, {0, 1}}, m.Normalized())
}

func TestAddRows(t *testing.T) {
	m := New([]string{"a", "b", "c"})
	probs := [][]float32{{0, 1, 0}, {0.2, 0.2, 0.6}, {1, 0, 0}}
	require.NoError(t, m.AddRows(probs, []int{1, 2, 1}))
	assert.Equal(t, [][]int{{0, 0, 0}, {1, 1, 0}, {0, 0, 1}}, m.Counts)
	assert.Error(t, m.AddRows(probs, []int{1}))

	assert.Equal(t, 0, Argmax([]float32{0.5, 0.5}))
}

func TestEmpty(t *testing.T) {
	m := New([]string{"a"})
	assert.Equal(t, 0.0, m.Accuracy())
	assert.Equal(t, [][]float64{{0}}, m.Normalized())
}

func TestWriteCSV(t *testing.T) {
	m := New([]string{"no", "yes"})
	require.NoError(t, m.Add(1, 0))
	var buf bytes.Buffer
	require.NoError(t, m.WriteCSV(&buf))
	assert.Equal(t, "actual,no,yes\nno,0,0\nyes,1,0\n", buf.String())
}

func TestRender(t *testing.T) {
	m := New([]string{"left", "right"})
	require.NoError(t, m.Add(0, 0))
	require.NoError(t, m.Add(1, 0))
	out := m.Render()
	for _, want := range []string{"left", "right", "actual", "accuracy 50.00% over 2 predictions"} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
}
