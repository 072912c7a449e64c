package trainer

import "context"
import "errors"
import "math/rand"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"
import "go.uber.org/zap/zaptest"

import "github.com/neurlang/speechcommands/layer/majpool2d"
import "github.com/neurlang/speechcommands/learning"
import "github.com/neurlang/speechcommands/net/feedforward"

type sample struct {
	in  [4]uint32
	out uint16
}

func (s sample) Feature(n int) uint32 { return s.in[n] }
func (s sample) Output() uint16       { return s.out }

func newTrainer(t *testing.T, label func(rng *rand.Rand) uint16) *Trainer {
	var net feedforward.FeedforwardNetwork
	net.NewLayer(4, 0)
	net.NewCombiner(majpool2d.MustNew(2, 2, 1, 1, 1))
	net.NewLayer(1, 2)

	rng := rand.New(rand.NewSource(9))
	var set []Sample
	for i := 0; i < 200; i++ {
		var s sample
		for j := range s.in {
			s.in[j] = uint32(rng.Intn(16))
		}
		s.out = label(rng)
		set = append(set, s)
	}
	hyper := learning.Defaults()
	hyper.Seed = 11
	hyper.Threads = 2
	return &Trainer{
		Net:    &net,
		Train:  set[:150],
		Test:   set[150:],
		Hyper:  hyper,
		Seed:   13,
		Logger: zaptest.NewLogger(t),
	}
}

func TestEpochConstantClass(t *testing.T) {
	tr := newTrainer(t, func(*rand.Rand) uint16 { return 2 })
	stats, err := tr.Epoch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, stats.TrainAccuracy)
	assert.GreaterOrEqual(t, stats.Trained, 1)
}

func TestEpochNeverLowersAccuracy(t *testing.T) {
	tr := newTrainer(t, func(rng *rand.Rand) uint16 { return uint16(rng.Intn(4)) })
	before := tr.Evaluate(tr.Train)
	var seen []Stats
	err := tr.Run(context.Background(), 2, func(s Stats) error {
		seen = append(seen, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, 2, seen[1].Epoch)
	assert.GreaterOrEqual(t, seen[0].TrainAccuracy, before)
	assert.GreaterOrEqual(t, seen[1].TrainAccuracy, seen[0].TrainAccuracy)
}

func TestRunStopsOnCallbackError(t *testing.T) {
	tr := newTrainer(t, func(*rand.Rand) uint16 { return 1 })
	stop := errors.New("stop")
	calls := 0
	err := tr.Run(context.Background(), 5, func(Stats) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestEpochCancelled(t *testing.T) {
	tr := newTrainer(t, func(*rand.Rand) uint16 { return 1 })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.Epoch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrainHashtronUndo(t *testing.T) {
	tr := newTrainer(t, func(*rand.Rand) uint16 { return 3 })
	before := *tr.Net.GetHashtron(4)
	undo, err := tr.TrainHashtron(context.Background(), 4)
	require.NoError(t, err)
	require.NotNil(t, undo)
	assert.Equal(t, 1.0, tr.Evaluate(tr.Train))
	undo()
	assert.Equal(t, before, *tr.Net.GetHashtron(4))

	_, err = tr.TrainHashtron(context.Background(), 99)
	assert.Error(t, err)
}

func TestSampleSize(t *testing.T) {
	assert.Equal(t, 1000, sampleSize(1000, 0))
	n := sampleSize(100000, 95)
	assert.Greater(t, n, 100)
	assert.Less(t, n, 1000)
	assert.Equal(t, 10, sampleSize(10, 95))
	assert.Equal(t, 383, sampleSize(100000, 95))
	assert.Equal(t, 1, sampleSize(1, 95))
	assert.Equal(t, 0, sampleSize(0, 95))
}
