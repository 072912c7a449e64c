// Package layer defines how hashtron layers are joined: a Layer describes the
// shape of the join and hands out a fresh Combiner for every forward pass.
package layer

// Layer describes a combiner between two hashtron layers.
type Layer interface {
	// Lay creates an empty combiner; combiners are not shared between goroutines
	Lay() Combiner
}

// Combiner collects the output bits of one hashtron layer and packs them into
// the features read by the next layer.
type Combiner interface {
	// Put stores the output bit of hashtron n.
	Put(n int, v bool)

	// Feature is the input of hashtron n of the next layer.
	Feature(n int) uint32

	// Disregard reports whether the bit at n cannot change any feature, given
	// the bits already put. Such samples carry no vote when tallying.
	Disregard(n int) bool
}
