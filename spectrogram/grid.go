package spectrogram

import "fmt"

// Image is a size x size grid of quantized spectrogram levels, time major.
type Image struct {
	Size   int
	Pixels []byte
}

// Grid average pools the spectrogram to size x size cells (rows are time,
// columns are frequency) and quantizes them into levels levels between the
// smallest and largest cell of this spectrogram.
func (s *Spectrogram) Grid(size, levels int) (*Image, error) {
	if size < 2 {
		return nil, fmt.Errorf("spectrogram: grid size %d is below 2", size)
	}
	if levels < 2 || levels > 256 {
		return nil, fmt.Errorf("spectrogram: %d levels out of range 2..256", levels)
	}
	if s.Frames == 0 || s.Bins == 0 {
		return nil, ErrTooShort
	}
	cells := make([]float64, size*size)
	for r := 0; r < size; r++ {
		f0, f1 := span(r, size, s.Frames)
		for c := 0; c < size; c++ {
			b0, b1 := span(c, size, s.Bins)
			var sum float64
			for f := f0; f < f1; f++ {
				for b := b0; b < b1; b++ {
					sum += float64(s.At(f, b))
				}
			}
			cells[r*size+c] = sum / float64((f1-f0)*(b1-b0))
		}
	}

	lo, hi := cells[0], cells[0]
	for _, v := range cells {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	img := &Image{Size: size, Pixels: make([]byte, size*size)}
	if hi == lo {
		return img, nil
	}
	for i, v := range cells {
		level := int((v - lo) / (hi - lo) * float64(levels))
		img.Pixels[i] = byte(min(level, levels-1))
	}
	return img, nil
}

// span is the range of n items pooled into cell i of size cells, never empty
func span(i, size, n int) (from, to int) {
	from = i * n / size
	to = (i + 1) * n / size
	if from >= n {
		from = n - 1
	}
	if to <= from {
		to = from + 1
	}
	return
}

// Len is the number of 2x2 patches, the number of first layer hashtrons
func (i *Image) Len() int {
	return (i.Size - 1) * (i.Size - 1)
}

// Feature packs the 2x2 patch at n.
func (i *Image) Feature(n int) uint32 {
	n %= i.Len()
	p := (n/(i.Size-1))*i.Size + n%(i.Size-1)
	return uint32(i.Pixels[p]) | uint32(i.Pixels[p+1])<<8 | uint32(i.Pixels[p+i.Size])<<16 | uint32(i.Pixels[p+1+i.Size])<<24
}
