package hashtron

import "github.com/neurlang/speechcommands/hash"

// Forward computes the hashtron output bits for command. Negate inverts every bit.
func (h Hashtron) Forward(command uint32, negate bool) (out uint16) {
	if h.modulo == 0 {
		return
	}
	for j := byte(0); j < h.Bits(); j++ {
		var bit = h.Lookup(hash.Hash(hash.BitFeature(command, j), h.salt, h.modulo))
		if bit != negate {
			out |= 1 << j
		}
	}
	return
}
