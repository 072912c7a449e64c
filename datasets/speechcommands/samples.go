package speechcommands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Words are the 30 labels of the version 0.01 dataset
var Words = []string{
	"bed", "bird", "cat", "dog", "down", "eight", "five", "four", "go", "happy",
	"house", "left", "marvin", "nine", "no", "off", "on", "one", "right", "seven",
	"sheila", "six", "stop", "three", "tree", "two", "up", "wow", "yes", "zero",
}

// BackgroundNoise is the directory of long noise recordings, it is not a label
const BackgroundNoise = "_background_noise_"

// Sample is one labelled clip
type Sample struct {
	Path  string
	Label string
	Class int
}

// Key is the path relative to the dataset root, as listed in the split lists
func (s Sample) Key() string {
	return s.Label + "/" + filepath.Base(s.Path)
}

// Enumerate lists every <label>/<name>.wav under dir, sorted by path. Class is
// set to -1 until labels are assigned.
func Enumerate(dir string) ([]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, e := range entries {
		if !e.IsDir() || e.Name() == BackgroundNoise || strings.HasPrefix(e.Name(), "_") {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), ".wav") {
				continue
			}
			out = append(out, Sample{
				Path:  filepath.Join(dir, e.Name(), f.Name()),
				Label: e.Name(),
				Class: -1,
			})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no wav files under '%s'", dir)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
