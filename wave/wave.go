// Package wave decodes PCM WAV clips into mono float samples at a fixed rate.
package wave

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampling "github.com/tphakala/go-audio-resampling"
)

// ErrInvalid is returned for files which are not PCM WAV.
var ErrInvalid = errors.New("wave: invalid wav file")

// Audio is a mono clip with samples in [-1, 1)
type Audio struct {
	Samples []float64
	Rate    int
}

// Decode reads a PCM WAV clip, averages its channels and resamples it to
// targetRate. A targetRate of zero keeps the file rate.
func Decode(r io.ReadSeeker, targetRate int) (*Audio, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalid
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	channels := int(d.NumChans)
	depth := int(d.BitDepth)
	if channels <= 0 || depth <= 0 || depth > 32 || d.SampleRate == 0 {
		return nil, fmt.Errorf("%w: %d channels of %d bits at %d Hz", ErrInvalid, channels, depth, d.SampleRate)
	}

	a := &Audio{
		Samples: mono(buf, channels, depth),
		Rate:    int(d.SampleRate),
	}
	if targetRate > 0 && targetRate != a.Rate {
		if err := a.Resample(targetRate); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func mono(buf *audio.IntBuffer, channels, depth int) []float64 {
	scale := float64(int64(1) << (depth - 1))
	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := range out {
		var sum float64
		for c := 0; c < channels; c++ {
			v := buf.Data[i*channels+c]
			if depth == 8 {
				// 8 bit wav samples are unsigned
				v -= 128
			}
			sum += float64(v)
		}
		out[i] = sum / float64(channels) / scale
	}
	return out
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string, targetRate int) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := Decode(f, targetRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Resample converts the clip to rate. The length is kept proportional to the
// duration. The resampler is flushed so the end of the clip is kept, and its
// delay is dropped from the start.
func (a *Audio) Resample(rate int) error {
	if rate == a.Rate {
		return nil
	}
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(a.Rate),
		OutputRate: float64(rate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return fmt.Errorf("failed to create resampler: %w", err)
	}
	out, err := r.Process(a.Samples)
	if err != nil {
		return fmt.Errorf("resample %d Hz to %d Hz: %w", a.Rate, rate, err)
	}
	tail, err := r.Flush()
	if err != nil {
		return fmt.Errorf("flush %d Hz to %d Hz: %w", a.Rate, rate, err)
	}
	out = append(out, tail...)
	out = out[min(r.GetLatency(), len(out)):]
	n := int(int64(len(a.Samples)) * int64(rate) / int64(a.Rate))
	a.Samples = out
	a.Rate = rate
	a.Fit(n)
	return nil
}

// Duration is the length of the clip
func (a *Audio) Duration() time.Duration {
	if a.Rate == 0 {
		return 0
	}
	return time.Duration(len(a.Samples)) * time.Second / time.Duration(a.Rate)
}

// Fit zero pads or truncates the clip to n samples.
func (a *Audio) Fit(n int) {
	if n < 0 {
		n = 0
	}
	if len(a.Samples) >= n {
		a.Samples = a.Samples[:n]
		return
	}
	a.Samples = append(a.Samples, make([]float64, n-len(a.Samples))...)
}

// Encode writes the clip as a mono PCM WAV of bitDepth bits.
func Encode(w io.WriteSeeker, a *Audio, bitDepth int) error {
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("wave: unsupported bit depth %d", bitDepth)
	}
	scale := float64(int64(1)<<(bitDepth-1)) - 1
	data := make([]int, len(a.Samples))
	for i, s := range a.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * scale)
		if bitDepth == 8 {
			data[i] += 128
		}
	}
	enc := wav.NewEncoder(w, a.Rate, bitDepth, 1, 1)
	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: a.Rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile encodes the clip into a new file at path.
func WriteFile(path string, a *Audio, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, a, bitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
