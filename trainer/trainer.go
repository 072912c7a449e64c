package trainer

import "context"
import "fmt"
import "math/rand"
import "time"

import "go.uber.org/zap"

import "github.com/neurlang/speechcommands/datasets"
import "github.com/neurlang/speechcommands/learning"
import "github.com/neurlang/speechcommands/net/feedforward"
import "github.com/neurlang/speechcommands/parallel"

// Sample is a network input together with the expected network output
type Sample interface {
	feedforward.Input

	// Output is the expected class
	Output() uint16
}

// Trainer trains the network one hashtron at a time.
type Trainer struct {
	Net   *feedforward.FeedforwardNetwork
	Train []Sample
	Test  []Sample
	Hyper *learning.HyperParameters

	// Threads bounds the parallel tally and evaluation, zero uses Hyper.Threads
	Threads int

	// Significance subsamples the training accuracy checks, zero checks every sample
	Significance byte

	Seed   int64
	Logger *zap.Logger

	rng *rand.Rand
}

// Stats summarize one epoch.
type Stats struct {
	Epoch         int
	Trained       int
	Undone        int
	TrainAccuracy float64
	TestAccuracy  float64
	Duration      time.Duration
}

func (t *Trainer) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}

func (t *Trainer) threads() int {
	if t.Threads > 0 {
		return t.Threads
	}
	if t.Hyper != nil && t.Hyper.Threads > 0 {
		return t.Hyper.Threads
	}
	return 1
}

func (t *Trainer) random() *rand.Rand {
	if t.rng == nil {
		seed := t.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		t.rng = rand.New(rand.NewSource(seed))
	}
	return t.rng
}

// TrainHashtron retrains the worst-th hashtron on the tally of the training set.
// The returned undo restores the previous hashtron, it is nil when the tally
// showed nothing to improve.
func (t *Trainer) TrainHashtron(ctx context.Context, worst int) (undo func(), err error) {
	ptr := t.Net.GetHashtron(worst)
	if ptr == nil {
		return nil, fmt.Errorf("no hashtron %d in network of %d", worst, t.Net.Len())
	}
	if t.Hyper == nil {
		t.Hyper = learning.Defaults()
	}

	var tally datasets.Tally
	tally.Init()
	defer tally.Free()

	err = parallel.ForEachContext(ctx, len(t.Train), t.threads(), func(i int) error {
		t.Net.Tally(t.Train[i], t.Train[i].Output(), worst, &tally)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !tally.GetImprovementPossible() {
		return nil, nil
	}

	dset := tally.Dataset(ptr.Bits())
	t.logger().Debug("training hashtron",
		zap.Int("hashtron", worst),
		zap.Int("layer", t.Net.GetLayer(worst)),
		zap.Int("job", len(dset)))

	htron, err := t.Hyper.Training(dset, ptr.Bits())
	if err != nil {
		return nil, fmt.Errorf("hashtron %d: %w", worst, err)
	}
	backup := *ptr
	*ptr = *htron
	return func() { *ptr = backup }, nil
}

// Epoch retrains every hashtron once, final layer first. A hashtron which
// lowers the training accuracy is rolled back.
func (t *Trainer) Epoch(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	rng := t.random()

	check := t.Train
	if n := sampleSize(len(t.Train), t.Significance); n < len(t.Train) {
		check = make([]Sample, n)
		for i, j := range rng.Perm(len(t.Train))[:n] {
			check[i] = t.Train[j]
		}
	}

	success, err := t.EvaluateContext(ctx, check)
	if err != nil {
		return stats, err
	}
	for _, worst := range t.Net.Sequence(rng, true) {
		undo, err := t.TrainHashtron(ctx, worst)
		if err != nil {
			return stats, err
		}
		if undo == nil {
			continue
		}
		after, err := t.EvaluateContext(ctx, check)
		if err != nil {
			undo()
			return stats, err
		}
		if after < success {
			undo()
			stats.Undone++
			continue
		}
		success = after
		stats.Trained++
	}

	stats.TrainAccuracy = success
	if stats.TestAccuracy, err = t.EvaluateContext(ctx, t.Test); err != nil {
		return stats, err
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

// Run trains for epochs epochs, calling onEpoch after each one. An error
// returned by onEpoch stops the training.
func (t *Trainer) Run(ctx context.Context, epochs int, onEpoch func(Stats) error) error {
	for e := 1; e <= epochs; e++ {
		stats, err := t.Epoch(ctx)
		if err != nil {
			return fmt.Errorf("epoch %d: %w", e, err)
		}
		stats.Epoch = e
		t.logger().Info("epoch done",
			zap.Int("epoch", e),
			zap.Int("trained", stats.Trained),
			zap.Int("undone", stats.Undone),
			zap.Float64("train_accuracy", stats.TrainAccuracy),
			zap.Float64("test_accuracy", stats.TestAccuracy),
			zap.Duration("took", stats.Duration))
		if onEpoch != nil {
			if err := onEpoch(stats); err != nil {
				return err
			}
		}
	}
	return nil
}
