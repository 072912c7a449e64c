package hashtron

import "errors"
import "fmt"
import "math/rand"

import "github.com/neurlang/quaternary"

// New creates a hashtron from a program holding at most one {salt, modulo}
// command, optionally with a learned quaternary filter. A nil program creates
// an untrained hashtron which answers the parity of the bucket.
func New(program [][2]uint32, bits byte, filter ...quaternary.Filter) (h *Hashtron, err error) {
	if len(program) > 1 {
		return nil, errors.New("hashtron: program longer than one command")
	}
	if len(filter) > 1 {
		return nil, errors.New("hashtron: more than one filter")
	}
	h = new(Hashtron)
	if bits == 0 {
		bits = 1
	}
	if bits > 16 {
		return nil, fmt.Errorf("hashtron: %d bits exceed 16", bits)
	}
	h.bits = bits
	if len(filter) == 1 {
		h.filter = filter[0]
	}
	if len(program) == 0 {
		h.salt = rand.Uint32()
		h.modulo = 64
		return h, nil
	}
	h.salt, h.modulo = program[0][0], program[0][1]
	if h.modulo == 0 {
		return nil, errors.New("hashtron: modulo is zero")
	}
	return h, nil
}

// Constant creates a hashtron which always answers value in every bit.
func Constant(value bool, bits byte) *Hashtron {
	h, _ := New([][2]uint32{{0, 1}}, bits, quaternary.Make(map[uint32]bool{0: value}))
	return h
}
