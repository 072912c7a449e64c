// Package inference implements the inference stage of the speech command classifier
package inference

import "context"

import "github.com/neurlang/speechcommands/confusion"
import "github.com/neurlang/speechcommands/model"
import "github.com/neurlang/speechcommands/parallel"

// Result is the prediction for one clip
type Result struct {
	Path          string
	Label         string
	Class         int
	Probabilities []float32
}

// FromFile classifies the WAV clip at path.
func FromFile(m *model.Model, path string) (res Result, err error) {
	s, err := m.File(path)
	if err != nil {
		return Result{Path: path, Class: -1}, err
	}
	probs, err := m.Probabilities(s)
	if err != nil {
		return Result{Path: path, Class: -1}, err
	}
	res = Result{Path: path, Class: confusion.Argmax(probs), Probabilities: probs}
	res.Label = m.Labels.Name(res.Class)
	return res, nil
}

// FromFiles classifies the clips on threads goroutines, keeping the order of paths.
func FromFiles(ctx context.Context, m *model.Model, paths []string, threads int) ([]Result, error) {
	out := make([]Result, len(paths))
	err := parallel.ForEachContext(ctx, len(paths), threads, func(i int) (err error) {
		out[i], err = FromFile(m, paths[i])
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
