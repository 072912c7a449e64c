package feedforward

import "math/rand"

// Branch picks one random hashtron from every hashtron layer, in layer order
// or reversed.
func (f FeedforwardNetwork) Branch(rng *rand.Rand, reverse bool) (o []int) {
	o = make([]int, 0, f.LenLayers())

	// base is the overall number of the first hashtron in the layer
	base := 0
	for i := 0; i < f.LenLayers(); i++ {
		if len(f.layers[i]) == 0 {
			continue
		}
		o = append(o, base+rng.Intn(len(f.layers[i])))
		base += len(f.layers[i])
	}

	if reverse {
		reverseInts(o)
	}
	return o
}

// Sequence returns every hashtron number once, shuffled within each layer,
// layers in order or reversed.
func (f FeedforwardNetwork) Sequence(rng *rand.Rand, reverse bool) (o []int) {
	o = make([]int, f.Len())
	for i := range o {
		o[i] = i
	}
	var base = 0
	for i := range f.layers {
		n := len(f.layers[i])
		rng.Shuffle(n, func(i, j int) { o[base+i], o[base+j] = o[base+j], o[base+i] })
		base += n
	}
	if reverse {
		reverseInts(o)
	}
	return o
}

func reverseInts(o []int) {
	for i := 0; 2*i < len(o); i++ {
		o[i], o[len(o)-i-1] = o[len(o)-i-1], o[i]
	}
}
