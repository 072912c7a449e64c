// Package hashtron implements a hashtron (classifier)
package hashtron

import "github.com/neurlang/quaternary"

// Hashtron represents individual hashtron (classifier) in memory. A feature
// is hashed into one of modulo buckets, the quaternary filter holds the
// answer of every bucket seen in training.
type Hashtron struct {
	salt   uint32
	modulo uint32
	filter quaternary.Filter
	bits   byte
}

// Get gets the salt and modulo of the hashing command
func (h Hashtron) Get() (salt uint32, modulo uint32) {
	return h.salt, h.modulo
}

// Len gets the size of learned data (size of quaternary filter) in bytes
func (h Hashtron) Len() int {
	return len(h.filter)
}

// Bits determines the number of output bits returned by hashtron using Forward
func (h Hashtron) Bits() byte {
	return h.bits
}

// SetBits sets the number of output bits returned by hashtron using Forward
func (h *Hashtron) SetBits(bits byte) {
	h.bits = bits
}

// Filter returns the learned quaternary filter
func (h Hashtron) Filter() quaternary.Filter {
	return h.filter
}

// Lookup reads the answer of bucket idx, an index hashed with the salt and modulo of Get.
func (h Hashtron) Lookup(idx uint32) bool {
	if h.modulo == 0 {
		return false
	}
	return h.filter.GetUint32(idx)
}
