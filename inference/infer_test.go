package inference

import "context"
import "math"
import "path/filepath"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/speechcommands/datasets/speechcommands"
import "github.com/neurlang/speechcommands/hashtron"
import "github.com/neurlang/speechcommands/model"
import "github.com/neurlang/speechcommands/spectrogram"
import "github.com/neurlang/speechcommands/wave"

func tone(t *testing.T, dir, name string, freq float64) string {
	a := &wave.Audio{Rate: 16000, Samples: make([]float64, 16000)}
	for i := range a.Samples {
		a.Samples[i] = 0.3 * math.Sin(2*math.Pi*freq*float64(i)/16000)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, wave.WriteFile(path, a, 16))
	return path
}

func newModel(t *testing.T) *model.Model {
	m, err := model.New(speechcommands.NewLabels([]string{"down", "no", "up", "yes"}),
		model.Frontend{SampleRate: 16000, ClipMs: 1000, Params: spectrogram.DefaultParams()},
		model.DefaultArchitecture())
	require.NoError(t, err)
	*m.Net.GetHashtron(m.Net.Len() - 1) = *hashtron.Constant(true, 2)
	return m
}

func TestFromFile(t *testing.T) {
	m := newModel(t)
	res, err := FromFile(m, tone(t, t.TempDir(), "a.wav", 300))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Class)
	assert.Equal(t, "yes", res.Label)
	assert.Equal(t, []float32{0, 0, 0, 1}, res.Probabilities)
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(newModel(t), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestFromFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{tone(t, dir, "a.wav", 200), tone(t, dir, "b.wav", 900), tone(t, dir, "c.wav", 3000)}
	res, err := FromFiles(context.Background(), newModel(t), paths, 2)
	require.NoError(t, err)
	require.Len(t, res, 3)
	for i, r := range res {
		assert.Equal(t, paths[i], r.Path)
		assert.Equal(t, "yes", r.Label)
	}

	_, err = FromFiles(context.Background(), newModel(t), append(paths, filepath.Join(dir, "nope.wav")), 2)
	assert.Error(t, err)
}
