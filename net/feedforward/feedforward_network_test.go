package feedforward

import "bytes"
import "math/rand"
import "path/filepath"
import "sort"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/speechcommands/datasets"
import "github.com/neurlang/speechcommands/hashtron"
import "github.com/neurlang/speechcommands/layer/majpool2d"
import "github.com/neurlang/speechcommands/learning"

type vector []uint32

func (v vector) Feature(n int) uint32 {
	return v[n]
}

func testNetwork() *FeedforwardNetwork {
	var net FeedforwardNetwork
	net.NewLayer(4, 0)
	net.NewCombiner(majpool2d.MustNew(2, 2, 1, 1, 1))
	net.NewLayer(1, 2)
	return &net
}

func setFirstLayer(net *FeedforwardNetwork, values ...bool) {
	for i, v := range values {
		*net.GetHashtron(i) = *hashtron.Constant(v, 1)
	}
}

func learnMap(t *testing.T, m datasets.Datamap, bits byte) *hashtron.Hashtron {
	h := learning.Defaults()
	h.Seed = 3
	tron, err := h.Training(m.Dataset(bits), bits)
	require.NoError(t, err)
	return tron
}

func TestShape(t *testing.T) {
	net := testNetwork()
	assert.Equal(t, 5, net.Len())
	assert.Equal(t, 3, net.LenLayers())
	assert.Equal(t, 0, net.GetLayer(3))
	assert.Equal(t, 2, net.GetLayer(4))
	assert.Equal(t, -1, net.GetLayer(5))
	assert.Equal(t, 0, net.GetPosition(4))
	assert.Equal(t, byte(2), net.GetBits())
	assert.Equal(t, uint32(4), net.GetClasses())
	assert.True(t, net.IsMapLayerOf(4))
	assert.False(t, net.IsMapLayerOf(0))
	assert.Nil(t, net.GetHashtron(5))
}

func TestInferConstant(t *testing.T) {
	net := testNetwork()
	setFirstLayer(net, true, false, true, true)
	*net.GetHashtron(4) = *hashtron.Constant(true, 2)
	assert.Equal(t, uint16(3), net.Infer(vector{1, 2, 3, 4}))

	out, computed := net.Forward(vector{1, 2, 3, 4}, 0, 1, 1)
	assert.True(t, computed)
	assert.Equal(t, uint32(0b1111), out.Feature(0))
}

func TestTallyMapping(t *testing.T) {
	net := testNetwork()
	setFirstLayer(net, true, false, true, true)
	var tally datasets.Tally
	tally.Init()
	net.Tally(vector{0, 0, 0, 0}, 2, 4, &tally)
	net.Tally(vector{0, 0, 0, 0}, 2, 4, &tally)
	net.Tally(vector{0, 0, 0, 0}, 1, 4, &tally)
	assert.Equal(t, datasets.Datamap{0b1101: 2}, tally.Datamap())
}

func TestTallyCorrect(t *testing.T) {
	net := testNetwork()
	setFirstLayer(net, false, false, false, false)
	*net.GetHashtron(4) = *learnMap(t, datasets.Datamap{0b0000: 0, 0b0001: 1}, 2)

	var tally datasets.Tally
	tally.Init()
	// only a true answer of hashtron 0 on feature 7 makes the network output 1
	net.Tally(vector{7, 8, 9, 10}, 1, 0, &tally)
	assert.True(t, tally.GetImprovementPossible())
	assert.Equal(t, datasets.Dataset{7: true}, tally.Dataset(1))

	// already correct, at most a vote keeping hashtron 1 false
	tally.Init()
	net.Tally(vector{7, 8, 9, 10}, 0, 1, &tally)
	if v, ok := tally.Dataset(1)[8]; ok {
		assert.False(t, v)
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	net := testNetwork()
	*net.GetHashtron(4) = *learnMap(t, datasets.Datamap{0b0000: 3, 0b1111: 1, 0b0101: 2}, 2)

	var buf bytes.Buffer
	require.NoError(t, net.WriteWeights(&buf))

	back := testNetwork()
	require.NoError(t, back.ReadWeights(&buf))
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		in := vector{rng.Uint32(), rng.Uint32(), rng.Uint32(), rng.Uint32()}
		require.Equal(t, net.Infer(in), back.Infer(in))
	}

	name := filepath.Join(t.TempDir(), "weights.bin")
	require.NoError(t, net.WriteWeightsToFile(name))
	require.NoError(t, back.ReadWeightsFromFile(name))

	var other FeedforwardNetwork
	other.NewLayer(2, 0)
	assert.Error(t, other.ReadWeightsFromFile(name))
}

func TestSequenceAndBranch(t *testing.T) {
	net := testNetwork()
	rng := rand.New(rand.NewSource(5))

	seq := net.Sequence(rng, false)
	require.Len(t, seq, 5)
	assert.Equal(t, 4, seq[4])
	sorted := append([]int(nil), seq...)
	sort.Ints(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sorted)

	rev := net.Sequence(rng, true)
	assert.Equal(t, 4, rev[0])

	branch := net.Branch(rng, false)
	require.Len(t, branch, 2)
	assert.Less(t, branch[0], 4)
	assert.Equal(t, 4, branch[1])
}

func TestForget(t *testing.T) {
	net := testNetwork()
	*net.GetHashtron(4) = *hashtron.Constant(true, 2)
	net.Forget()
	assert.Equal(t, byte(2), net.GetHashtron(4).Bits())
	assert.Equal(t, byte(1), net.GetHashtron(0).Bits())
}

func TestForwardLayerMatchesHashtrons(t *testing.T) {
	var net FeedforwardNetwork
	net.NewLayer(16, 0)
	net.NewCombiner(majpool2d.MustNew(4, 4, 1, 1, 1))
	net.NewLayer(1, 3)
	in := make(vector, 16)
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 20; round++ {
		for i := range in {
			in[i] = rng.Uint32()
		}
		got := net.forwardLayer(in, 0)
		for i, bit := range got {
			assert.Equal(t, net.GetHashtron(i).Forward(in[i], false)&1 != 0, bit)
		}
	}
}
