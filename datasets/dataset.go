// Package datasets implements the feature datasets hashtrons are trained on
package datasets

import "github.com/neurlang/speechcommands/hash"

// Dataset maps a feature to the bit a hashtron should answer for it
type Dataset map[uint32]bool

// Init initializes the dataset
func (d *Dataset) Init() {
	*d = make(map[uint32]bool)
}

// SplittedDataset holds the false set at index 0 and the true set at index 1
type SplittedDataset [2]map[uint32]struct{}

// SplitDataset splits dataset into a false set and a true set
func SplitDataset(d Dataset) (o SplittedDataset) {
	o[0] = make(map[uint32]struct{})
	o[1] = make(map[uint32]struct{})
	for k, v := range d {
		if v {
			o[1][k] = struct{}{}
		} else {
			o[0][k] = struct{}{}
		}
	}
	return
}

// Datamap maps a feature to a multi-bit output (a class)
type Datamap map[uint16]uint64

// Init initializes the datamap
func (d *Datamap) Init() {
	*d = make(map[uint16]uint64)
}

// Dataset expands the datamap into a single dataset for a hashtron with bits output bits.
// Bit j of every output is stored under hash.BitFeature(feature, j).
func (d Datamap) Dataset(bits byte) (set Dataset) {
	set.Init()
	for feature, output := range d {
		for j := byte(0); j < bits; j++ {
			set[hash.BitFeature(uint32(feature), j)] = (output>>j)&1 != 0
		}
	}
	return
}
