package hash

import "github.com/klauspost/cpuid/v2"

var hashVectorizedParallelism = 1

func init() {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		hashVectorizedParallelism = 16
	case cpuid.CPU.Supports(cpuid.AVX2):
		hashVectorizedParallelism = 8
	case cpuid.CPU.Supports(cpuid.SSE2):
		hashVectorizedParallelism = 4
	}
}

// HashVectorizedParallelism reports the number of hashes computed per unrolled block on this platform.
// Can't return 0.
func HashVectorizedParallelism() int {
	return hashVectorizedParallelism
}

// HashVectorized hashes every n[i] using the same salt s and modulo max into out[i].
// out must be at least as long as n.
func HashVectorized(out []uint32, n []uint32, s uint32, max uint32) {
	out = out[:len(n)]
	var i int
	if hashVectorizedParallelism >= 4 {
		for ; i+4 <= len(n); i += 4 {
			out[i] = Hash(n[i], s, max)
			out[i+1] = Hash(n[i+1], s, max)
			out[i+2] = Hash(n[i+2], s, max)
			out[i+3] = Hash(n[i+3], s, max)
		}
	}
	for ; i < len(n); i++ {
		out[i] = Hash(n[i], s, max)
	}
}

// HashVectorizedDistinct hashes every n[i] using its own salt s[i] and modulo max[i] into out[i].
func HashVectorizedDistinct(out []uint32, n []uint32, s []uint32, max []uint32) {
	for i := range out {
		out[i] = Hash(n[i], s[i], max[i])
	}
}
