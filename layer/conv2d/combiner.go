package conv2d

// Put inserts a boolean at position n.
func (f *Conv2D) Put(n int, v bool) {
	f.vec[n] = v
}

// Feature returns the n-th feature from the combiner. Next layer reads
// its inputs using this method for hashtron n in the next layer.
func (f *Conv2D) Feature(n int) (o uint32) {
	outw := f.width - f.subwidth + 1
	block := outw * (f.height - f.subheight + 1)
	plane := ((n / block) % f.repeat) * f.width * f.height
	nin := n % block
	ny := nin / outw
	nx := nin % outw

	for i := 0; i < f.subheight; i++ {
		for j := 0; j < f.subwidth; j++ {
			o <<= 1
			if f.vec[plane+f.width*(ny+i)+nx+j] {
				o |= 1
			}
		}
	}
	return
}

// Disregard tells whether putting value false at position n would not affect
// any feature output (as opposed to putting value true at position n).
// Every window bit reaches the next layer, so nothing is disregarded.
func (f *Conv2D) Disregard(n int) bool {
	return false
}
