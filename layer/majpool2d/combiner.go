// Package majpool2d implements a 2D majority pooling layer and combiner
package majpool2d

// Put sets the n-th bool.
func (s *MajPool2D) Put(n int, v bool) {
	s.vec[n] = v
}

// block returns the plane offset and the block coordinates of input n
func (s *MajPool2D) block(n int) (plane, bx, by int) {
	planeSize := s.width * s.height * s.subwidth * s.subheight
	plane = (n / planeSize) * planeSize
	n %= planeSize
	stride := s.width * s.subwidth
	return plane, (n % stride) / s.subwidth, (n / stride) / s.subheight
}

// votes counts true inputs in a block, skipping position skip
func (s *MajPool2D) votes(plane, bx, by, skip int) (trues int) {
	stride := s.width * s.subwidth
	for y := 0; y < s.subheight; y++ {
		for x := 0; x < s.subwidth; x++ {
			pos := plane + (by*s.subheight+y)*stride + bx*s.subwidth + x
			if pos != skip && s.vec[pos] {
				trues++
			}
		}
	}
	return
}

// Disregard tells whether putting value false at position n would not affect
// any feature output (as opposed to putting value true at position n).
func (s *MajPool2D) Disregard(n int) bool {
	plane, bx, by := s.block(n)
	total := s.subwidth * s.subheight
	trues := s.votes(plane, bx, by, n)
	// majority is already won, or can not be won even with n
	return 2*trues > total || 2*(trues+1) <= total
}

// Feature returns the m-th feature from the combiner: bit y*width+x is the
// majority of block (x, y) in plane m % repeat.
func (s *MajPool2D) Feature(m int) (o uint32) {
	plane := (m % s.repeat) * s.width * s.height * s.subwidth * s.subheight
	total := s.subwidth * s.subheight
	for by := 0; by < s.height; by++ {
		for bx := 0; bx < s.width; bx++ {
			if 2*s.votes(plane, bx, by, -1) > total {
				o |= 1 << (by*s.width + bx)
			}
		}
	}
	return
}
