// Package feedforward implements a feedforward network type
package feedforward

import "math/bits"

import "github.com/neurlang/speechcommands/datasets"
import "github.com/neurlang/speechcommands/hash"
import "github.com/neurlang/speechcommands/hashtron"
import "github.com/neurlang/speechcommands/layer"

// Input is one individual input to the feedforward network
type Input interface {

	// Feature extracts the input of n-th hashtron of the first layer
	Feature(n int) uint32
}

// Intermediate is an intermediate value used as both layer input and layer output in optimization
type Intermediate interface {

	// Feature extracts n-th feature from Intermediate
	Feature(n int) uint32

	// Disregard reports whether Intermediate doesn't regard n-th bit as affecting the output
	Disregard(n int) bool
}

// SingleValue is a single value returned by the final layer
type SingleValue uint32

// Feature extracts the feature from SingleValue
func (v SingleValue) Feature(n int) uint32 {
	return uint32(v)
}

// Disregard reports whether SingleValue doesn't regard n-th bit as affecting the output
func (v SingleValue) Disregard(n int) bool {
	return false
}

// FeedforwardNetwork is the feedforward network. Hashtron layers sit at even
// layer numbers, each followed by a combiner, except the final layer which
// holds a single multi-bit hashtron.
type FeedforwardNetwork struct {
	layers    [][]hashtron.Hashtron
	mapping   []byte
	combiners []layer.Layer
}

// Len returns the number of hashtrons which need to be trained inside the network.
func (f FeedforwardNetwork) Len() (o int) {
	for _, v := range f.layers {
		o += len(v)
	}
	return
}

// LenLayers returns the number of layers. Each Layer and Combiner counts as a layer here.
func (f FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer gets the layer number of hashtron based on hashtron number. Returns -1 on failure.
func (f FeedforwardNetwork) GetLayer(n int) int {
	if n < 0 {
		return -1
	}
	for i, v := range f.layers {
		if n < len(v) {
			return i
		}
		n -= len(v)
	}
	return -1
}

// GetPosition gets the position of hashtron within layer based on the overall
// hashtron number. Returns -1 on failure.
func (f FeedforwardNetwork) GetPosition(n int) int {
	if n < 0 {
		return -1
	}
	for _, v := range f.layers {
		if n < len(v) {
			return n
		}
		n -= len(v)
	}
	return -1
}

// GetHashtron gets n-th hashtron pointer in the network. Writing a new hashtron
// into the pointer replaces it in the network.
func (f FeedforwardNetwork) GetHashtron(n int) *hashtron.Hashtron {
	if n < 0 {
		return nil
	}
	for _, v := range f.layers {
		if n < len(v) {
			return &v[n]
		}
		n -= len(v)
	}
	return nil
}

// NewLayer adds a hashtron layer to the end of network with n hashtrons, each recognizing bits bits.
func (f *FeedforwardNetwork) NewLayer(n int, bits byte) {
	if bits == 0 {
		bits = 1
	}
	var layer = make([]hashtron.Hashtron, n)
	for i := range layer {
		h, _ := hashtron.New(nil, bits)
		layer[i] = *h
	}
	f.layers = append(f.layers, layer)
	f.mapping = append(f.mapping, bits)
	f.combiners = append(f.combiners, nil)
}

// NewCombiner adds a combiner layer to the end of network
func (f *FeedforwardNetwork) NewCombiner(layer layer.Layer) {
	f.layers = append(f.layers, nil)
	f.mapping = append(f.mapping, 0)
	f.combiners = append(f.combiners, layer)
}

// Forget resets every hashtron to an untrained one.
func (f *FeedforwardNetwork) Forget() {
	for i, v := range f.layers {
		for j := range v {
			h, _ := hashtron.New(nil, f.mapping[i])
			v[j] = *h
		}
	}
}

// combined reports whether hashtron layer l is followed by a combiner
func (f FeedforwardNetwork) combined(l int) bool {
	return l+1 < len(f.combiners) && f.combiners[l+1] != nil
}

// Infer infers the network output based on input
func (f FeedforwardNetwork) Infer(in Input) uint16 {
	var inter = in
	for l := 0; l < f.LenLayers(); l += 2 {
		inter, _ = f.Forward(inter, l, -1, 0)
	}
	return uint16(inter.Feature(0)) & f.mask()
}

// Forward solves the intermediate value (net output after layer l based on that layer's input in) and the bit
// returned by worst hashtron is optionally negated (using neg == 1) and returned as computed.
func (f FeedforwardNetwork) Forward(in Input, l, worst, neg int) (inter Intermediate, computed bool) {
	if f.combined(l) && worst < 0 {
		var combiner = f.combiners[l+1].Lay()
		for i, bit := range f.forwardLayer(in, l) {
			combiner.Put(i, bit)
		}
		return combiner, false
	}
	if f.combined(l) {
		var combiner = f.combiners[l+1].Lay()
		for i := range f.layers[l] {
			var bit = f.layers[l][i].Forward(in.Feature(i), (i == worst) && (neg == 1))
			combiner.Put(i, bit&1 != 0)
			if i == worst {
				computed = bit&1 != 0
			}
		}
		return combiner, computed
	}
	var val = f.layers[l][0].Forward(in.Feature(0), (worst == 0) && (neg == 1))
	return SingleValue(val), val&1 != 0
}

// forwardLayer computes the first output bit of every hashtron of layer l, hashing the whole layer at once
func (f FeedforwardNetwork) forwardLayer(in Input, l int) []bool {
	var cells = f.layers[l]
	var n, salt, mod, idx = make([]uint32, len(cells)), make([]uint32, len(cells)), make([]uint32, len(cells)), make([]uint32, len(cells))
	for i := range cells {
		n[i] = hash.BitFeature(in.Feature(i), 0)
		salt[i], mod[i] = cells[i].Get()
	}
	hash.HashVectorizedDistinct(idx, n, salt, mod)
	var out = make([]bool, len(cells))
	for i := range cells {
		out[i] = cells[i].Lookup(idx[i])
	}
	return out
}

// Tally tallies the network on the input / expected output pair with respect to the
// to-be-trained worst hashtron. Each of the two outputs of worst is tried and the one
// making the network correct is voted for. The final layer collects a mapping instead.
func (f FeedforwardNetwork) Tally(in Input, expected uint16, worst int, tally *datasets.Tally) {
	l := f.GetLayer(worst)
	if l < 0 {
		return
	}
	pos := f.GetPosition(worst)
	expected &= f.mask()

	var inter = in
	for l_prev := 0; l_prev < l; l_prev += 2 {
		inter, _ = f.Forward(inter, l_prev, -1, 0)
	}

	if !f.combined(l) {
		feature := inter.Feature(pos)
		if f.mapping[l] > 1 {
			tally.AddToMapping(uint16(feature), uint64(expected))
			return
		}
		actual := f.layers[l][pos].Forward(feature, false) & 1
		tally.AddToCorrect(feature, 2*int8(expected&1)-1, actual != expected&1)
		return
	}

	ifw := inter.Feature(pos)
	var predicted [2]uint16
	var compute [2]int8
	for neg := 0; neg < 2; neg++ {
		out, computed := f.Forward(inter, l, pos, neg)
		compute[neg] = -1
		if computed {
			compute[neg] = 1
		}
		if neg == 0 && out.Disregard(pos) {
			return
		}
		var post Input = out
		for l_post := l + 2; l_post < f.LenLayers(); l_post += 2 {
			post, _ = f.Forward(post, l_post, -1, 0)
		}
		predicted[neg] = uint16(post.Feature(0)) & f.mask()
	}
	if predicted[0] == expected && predicted[1] == expected {
		// we are correct anyway
		return
	}
	for neg := 0; neg < 2; neg++ {
		if predicted[neg] == expected {
			tally.AddToCorrect(ifw, compute[neg], neg == 1)
			return
		}
	}
	// neither is correct, shift towards the output with fewer wrong bits
	d0 := bits.OnesCount16(predicted[0] ^ expected)
	d1 := bits.OnesCount16(predicted[1] ^ expected)
	if d0 < d1 {
		tally.AddToImprove(ifw, compute[0])
	} else if d1 < d0 {
		tally.AddToImprove(ifw, compute[1])
	}
}

// IsMapLayerOf checks if hashtron n lies in the final multi-bit layer of the network.
func (f FeedforwardNetwork) IsMapLayerOf(n int) bool {
	l := f.GetLayer(n)
	if l == -1 {
		return false
	}
	return !f.combined(l) && f.mapping[l] > 1
}

// GetBits reports the number of bits predicted by this network
func (f FeedforwardNetwork) GetBits() (ret byte) {
	if len(f.mapping) == 0 {
		return 1
	}
	ret = f.mapping[len(f.mapping)-1]
	if ret == 0 {
		ret = 1
	}
	return
}

// GetClasses reports the number of classes the network output can represent
func (f FeedforwardNetwork) GetClasses() uint32 {
	return 1 << f.GetBits()
}

func (f FeedforwardNetwork) mask() uint16 {
	return uint16(f.GetClasses() - 1)
}
