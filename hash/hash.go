// Package hash implements the fast salted modular hash used by the hashtrons
package hash

// Hash mixes n with salt s and reduces the result into the range 0 to max-1.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mixing stage, mix input with salt using subtraction
	var m = uint32(n) - uint32(s)

	// hashing stage, use xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mixing stage 2, mix input with salt using addition
	m += s

	// modular stage, multiply shift instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// BitFeature derives the command used for output bit j of a multi-bit hashtron.
// Bit 0 uses the feature itself.
func BitFeature(feature uint32, j byte) uint32 {
	return feature ^ (uint32(j) * 0x9E3779B9)
}
