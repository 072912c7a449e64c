// Package spectrogram computes log power spectrograms of mono audio.
package spectrogram

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	// ErrTooShort is returned for audio shorter than one window
	ErrTooShort = errors.New("spectrogram: audio shorter than one window")
	// ErrStepExceedsWindow is returned when windows would leave gaps
	ErrStepExceedsWindow = errors.New("spectrogram: step larger than window")
	// ErrMaxFreq is returned for a maximum frequency above Nyquist
	ErrMaxFreq = errors.New("spectrogram: max frequency above nyquist")
)

// Params configure the short time fourier transform
type Params struct {
	StepMs   float64 `yaml:"step_ms"`
	WindowMs float64 `yaml:"window_ms"`
	MaxFreq  float64 `yaml:"max_freq"` // zero means the nyquist frequency
	Eps      float64 `yaml:"eps"`
}

// DefaultParams are 20ms windows every 10ms up to the nyquist frequency.
func DefaultParams() Params {
	return Params{StepMs: 10, WindowMs: 20, Eps: 1e-14}
}

// Spectrogram is a frames x bins x 1 log power array, frame major
type Spectrogram struct {
	Frames int       `msgpack:"frames"`
	Bins   int       `msgpack:"bins"`
	Data   []float32 `msgpack:"data"`
}

// At returns the log power of bin at frame.
func (s *Spectrogram) At(frame, bin int) float32 {
	return s.Data[frame*s.Bins+bin]
}

// Shape returns time, frequency and channel sizes
func (s *Spectrogram) Shape() [3]int {
	return [3]int{s.Frames, s.Bins, 1}
}

// Pad returns a copy of s zero padded to frames, or s itself if already as long.
func (s *Spectrogram) Pad(frames int) *Spectrogram {
	if frames <= s.Frames {
		return s
	}
	out := &Spectrogram{Frames: frames, Bins: s.Bins, Data: make([]float32, frames*s.Bins)}
	copy(out.Data, s.Data)
	return out
}

func lengths(rate int, p Params) (hop, fft int) {
	return int(0.001 * p.StepMs * float64(rate)), int(0.001 * p.WindowMs * float64(rate))
}

func (p Params) validate(rate int) error {
	if p.StepMs > p.WindowMs {
		return fmt.Errorf("%w: %gms > %gms", ErrStepExceedsWindow, p.StepMs, p.WindowMs)
	}
	if p.MaxFreq > float64(rate)/2 {
		return fmt.Errorf("%w: %g Hz > %g Hz", ErrMaxFreq, p.MaxFreq, float64(rate)/2)
	}
	if hop, fft := lengths(rate, p); hop <= 0 || fft <= 0 {
		return fmt.Errorf("spectrogram: %gms step and %gms window are empty at %d Hz", p.StepMs, p.WindowMs, rate)
	}
	return nil
}

// Bins is the number of frequency bins kept at rate, it does not depend on audio content.
func Bins(rate int, p Params) int {
	_, fft := lengths(rate, p)
	maxFreq := p.MaxFreq
	if maxFreq == 0 {
		maxFreq = float64(rate) / 2
	}
	var n int
	for k := 0; k <= fft/2; k++ {
		if float64(rate)/float64(fft)*float64(k) <= maxFreq {
			n = k + 1
		}
	}
	return n
}

// Frames is the number of frames of n samples at rate.
func Frames(n, rate int, p Params) int {
	hop, fft := lengths(rate, p)
	if hop <= 0 || n < fft {
		return 0
	}
	return (n-fft)/hop + 1
}

// hanning is the symmetric hann window
func hanning(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// Compute computes the log power spectrogram of samples at rate. The tail
// which does not fill a whole hop is dropped.
func Compute(samples []float64, rate int, p Params) (*Spectrogram, error) {
	if err := p.validate(rate); err != nil {
		return nil, err
	}
	hop, fft := lengths(rate, p)
	if len(samples) < fft {
		return nil, fmt.Errorf("%w: %d samples, window of %d", ErrTooShort, len(samples), fft)
	}
	samples = samples[:len(samples)-(len(samples)-fft)%hop]

	window := hanning(fft)
	var norm float64
	for _, v := range window {
		norm += v * v
	}
	scale := norm * float64(rate)

	frames := Frames(len(samples), rate, p)
	bins := Bins(rate, p)
	last := fft / 2
	s := &Spectrogram{Frames: frames, Bins: bins, Data: make([]float32, frames*bins)}

	transform := fourier.NewFFT(fft)
	buf := make([]float64, fft)
	var coeff []complex128
	for f := 0; f < frames; f++ {
		for i := range buf {
			buf[i] = samples[f*hop+i] * window[i]
		}
		coeff = transform.Coefficients(coeff, buf)
		for k := 0; k < bins; k++ {
			re, im := real(coeff[k]), imag(coeff[k])
			power := re*re + im*im
			if k == 0 || k == last {
				power /= scale
			} else {
				power *= 2 / scale
			}
			s.Data[f*bins+k] = float32(math.Log(power + p.Eps))
		}
	}
	return s, nil
}
