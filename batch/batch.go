// Package batch groups spectrograms into padded, one-hot labelled batches.
package batch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/neurlang/speechcommands/datasets/speechcommands"
	"github.com/neurlang/speechcommands/parallel"
	"github.com/neurlang/speechcommands/spectrogram"
)

// Extractor computes the spectrogram of one sample
type Extractor func(ctx context.Context, s speechcommands.Sample) (*spectrogram.Spectrogram, error)

// Batch is a group of equally shaped spectrograms with their labels
type Batch struct {
	Step    int
	Samples []speechcommands.Sample
	Inputs  []*spectrogram.Spectrogram
	Labels  [][]float32 // one-hot rows
}

// Shape returns batch, time, frequency and channel sizes
func (b *Batch) Shape() [4]int {
	if len(b.Inputs) == 0 {
		return [4]int{}
	}
	s := b.Inputs[0].Shape()
	return [4]int{len(b.Inputs), s[0], s[1], s[2]}
}

// Generator produces batches from an endlessly repeated, optionally per
// epoch shuffled, sequence of samples.
type Generator struct {
	Samples   []speechcommands.Sample
	Extract   Extractor
	BatchSize int
	Classes   int

	Shuffle bool
	Seed    int64

	// Prefetch is the number of batches Stream prepares ahead
	Prefetch int
	Threads  int

	// Progress receives a progress bar from Stream, nil draws nothing
	Progress io.Writer
	Logger   *zap.Logger

	mu    sync.Mutex
	epoch int
	order []int
}

// StepsPerEpoch is the number of batches covering every sample once
func (g *Generator) StepsPerEpoch() int {
	if g.BatchSize <= 0 {
		return 0
	}
	return (len(g.Samples) + g.BatchSize - 1) / g.BatchSize
}

// index maps row r of the repeated sequence to a sample index
func (g *Generator) index(r int) int {
	n := len(g.Samples)
	if !g.Shuffle {
		return r % n
	}
	epoch := r / n
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.order == nil || g.epoch != epoch {
		g.order = rand.New(rand.NewSource(g.Seed + int64(epoch))).Perm(n)
		g.epoch = epoch
	}
	return g.order[r%n]
}

// OneHot returns a row of classes zeros with a one at class.
func OneHot(class, classes int) ([]float32, error) {
	if class < 0 || class >= classes {
		return nil, fmt.Errorf("class %d outside 0..%d", class, classes-1)
	}
	row := make([]float32, classes)
	row[class] = 1
	return row, nil
}

// Batch builds the batch of rows step*BatchSize .. step*BatchSize+BatchSize-1,
// wrapping around the sample sequence. Spectrograms are zero padded to the
// longest one in the batch.
func (g *Generator) Batch(ctx context.Context, step int) (*Batch, error) {
	if len(g.Samples) == 0 {
		return nil, fmt.Errorf("batch: no samples")
	}
	if g.BatchSize <= 0 {
		return nil, fmt.Errorf("batch: batch size %d", g.BatchSize)
	}
	b := &Batch{
		Step:    step,
		Samples: make([]speechcommands.Sample, g.BatchSize),
		Inputs:  make([]*spectrogram.Spectrogram, g.BatchSize),
		Labels:  make([][]float32, g.BatchSize),
	}
	for k := range b.Samples {
		b.Samples[k] = g.Samples[g.index(step*g.BatchSize+k)]
		row, err := OneHot(b.Samples[k].Class, g.Classes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Samples[k].Path, err)
		}
		b.Labels[k] = row
	}

	threads := g.Threads
	if threads <= 0 {
		threads = 1
	}
	err := parallel.ForEachContext(ctx, g.BatchSize, threads, func(k int) error {
		s, err := g.Extract(ctx, b.Samples[k])
		if err != nil {
			return fmt.Errorf("%s: %w", b.Samples[k].Path, err)
		}
		b.Inputs[k] = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	var frames int
	for _, s := range b.Inputs {
		frames = max(frames, s.Frames)
	}
	for k, s := range b.Inputs {
		b.Inputs[k] = s.Pad(frames)
	}
	return b, nil
}

// Stream produces steps batches in order, preparing up to Prefetch ahead.
// The batch channel is closed when done, the error channel receives at most one error.
func (g *Generator) Stream(ctx context.Context, steps int) (<-chan *Batch, <-chan error) {
	out := make(chan *Batch, max(g.Prefetch, 0))
	errc := make(chan error, 1)
	if steps <= 0 {
		close(out)
		close(errc)
		return out, errc
	}
	logger := g.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer close(errc)
		defer close(out)
		p := mpb.NewWithContext(ctx, mpb.WithOutput(g.Progress), mpb.WithWidth(64))
		bar := p.AddBar(int64(steps),
			mpb.PrependDecorators(decor.Name("batches "), decor.CountersNoUnit("%d / %d")),
			mpb.AppendDecorators(decor.Percentage()),
		)
		defer p.Wait()
		for step := 0; step < steps; step++ {
			b, err := g.Batch(ctx, step)
			if err != nil {
				bar.Abort(false)
				errc <- fmt.Errorf("batch %d: %w", step, err)
				return
			}
			logger.Debug("batch ready", zap.Int("step", step), zap.Any("shape", b.Shape()))
			select {
			case out <- b:
				bar.Increment()
			case <-ctx.Done():
				bar.Abort(false)
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

// Predict runs predictor over every row of steps batches. The row count is
// steps*BatchSize, which exceeds the number of samples when the sequence wraps.
// The expected classes are returned alongside.
func Predict(ctx context.Context, g *Generator, steps int, predictor func(*spectrogram.Spectrogram) []float32) (probs [][]float32, actual []int, err error) {
	batches, errc := g.Stream(ctx, steps)
	for b := range batches {
		for k, s := range b.Inputs {
			probs = append(probs, predictor(s))
			actual = append(actual, b.Samples[k].Class)
		}
	}
	if err := <-errc; err != nil {
		return nil, nil, err
	}
	return probs, actual, nil
}
