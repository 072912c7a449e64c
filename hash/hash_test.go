package hash

import "testing"

// performance benchmark
func BenchmarkHash(b *testing.B) {
	n := uint32(0)
	s := uint32(0)
	for i := 0; i < b.N; i++ {
		n = Hash(n, s, uint32(i)|2)
		s++
	}
}

// loop length test
func TestHashCycles(t *testing.T) {
	const bound1 = 20
	const bound2 = 10000
	var count uint64
	for max := uint32(2); max <= 1<<bound1; max <<= 1 {
		var visited = make([]bool, max)
		var current uint32
		for s := uint32(0); s < bound2; s++ {
			current = Hash(current, s, max)
			if current == 0 || visited[current] {
				visited = make([]bool, max)
				continue
			}
			visited[current] = true
			count++
		}
	}
	if count == 0 {
		t.Errorf("hash never left the fixed point")
	}
}

func TestHashRange(t *testing.T) {
	for _, max := range []uint32{1, 2, 3, 7, 161, 1 << 16, 0xFFFFFFFF} {
		for n := uint32(0); n < 1000; n++ {
			if out := Hash(n*2654435761, n, max); out >= max {
				t.Errorf("Hash(%d, %d, %d) == %d out of range", n*2654435761, n, max, out)
			}
		}
	}
	if Hash(123, 456, 0) != 0 {
		t.Errorf("max=0 should hash to 0")
	}
}

// sanity check fuzz
func FuzzHash(f *testing.F) {
	f.Add(uint32(0), uint32(0), uint32(0))
	f.Fuzz(func(t *testing.T, n, s, max uint32) {
		out := Hash(n, s, max)
		if max == 0 && out != 0 {
			t.Errorf("Hash(%d, %d, 0) == %d (max=0 should be 0)", n, s, out)
		}
		if max > 0 && out >= max {
			t.Errorf("Hash(%d, %d, %d) == %d (output bigger or equal than max)", n, s, max, out)
		}
	})
}

// TestHashVectorized verifies that HashVectorized produces the same results as multiple Hash() calls
func TestHashVectorized(t *testing.T) {
	testCases := []struct {
		name string
		size int
	}{
		{"single", 1},
		{"small", 3},
		{"medium", 16},
		{"odd", 17},
		{"prime", 31},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := make([]uint32, tc.size)
			out := make([]uint32, tc.size)
			for i := range n {
				n[i] = uint32(i*123 + 456)
			}
			const salt, max = 101112, 1000000
			HashVectorized(out, n, salt, max)
			for i := range n {
				if want := Hash(n[i], salt, max); out[i] != want {
					t.Errorf("index %d: got %d, want %d", i, out[i], want)
				}
			}
		})
	}
}

func TestHashVectorizedDistinct(t *testing.T) {
	n := []uint32{1, 2, 3, 4}
	s := []uint32{5, 6, 7, 8}
	max := []uint32{0, 100, 0, 200}
	out := make([]uint32, 4)
	HashVectorizedDistinct(out, n, s, max)
	for i := range out {
		if want := Hash(n[i], s[i], max[i]); out[i] != want {
			t.Errorf("index %d: got %d, want %d", i, out[i], want)
		}
	}
}

func TestHashVectorizedParallelism(t *testing.T) {
	if HashVectorizedParallelism() < 1 {
		t.Errorf("parallelism must be at least 1")
	}
}
